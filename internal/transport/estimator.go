package transport

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ynmsafety/ynmops/internal/config"
	"github.com/ynmsafety/ynmops/internal/insertgate"
	"github.com/ynmsafety/ynmops/internal/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Params struct {
	fx.In

	Cfg      config.Config
	Log      *zap.Logger
	Geocoder Geocoder
	Router   Router
}

type Estimator struct {
	log        *zap.Logger
	geocoder   Geocoder
	router     Router
	baseCharge float64
	vehicles   map[string]config.Vehicle
}

func NewEstimator(p Params) *Estimator {
	vehicles := make(map[string]config.Vehicle, len(p.Cfg.Transport.Vehicles))
	for name, v := range p.Cfg.Transport.Vehicles {
		vehicles[strings.ToLower(strings.TrimSpace(name))] = v
	}
	return &Estimator{
		log:        p.Log.Named("transport.estimator"),
		geocoder:   p.Geocoder,
		router:     p.Router,
		baseCharge: p.Cfg.Transport.BaseCharge,
		vehicles:   vehicles,
	}
}

// VehicleTypes lists the configured vehicle names in order.
func (e *Estimator) VehicleTypes() []string {
	names := make([]string, 0, len(e.vehicles))
	for name := range e.vehicles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Estimator) Estimate(ctx context.Context, req EstimateRequest) (*Estimate, error) {
	vehicleType := strings.ToLower(strings.TrimSpace(req.VehicleType))
	vehicle, known := e.vehicles[vehicleType]

	r := validation.Run(
		func() validation.Result { return validation.Text("From location", req.FromLocation, validation.DefaultNameMaxLen) },
		func() validation.Result { return validation.Text("To location", req.ToLocation, validation.DefaultNameMaxLen) },
		func() validation.Result {
			return validation.Distinct("From location", req.FromLocation, "To location", req.ToLocation)
		},
		func() validation.Result {
			if !known {
				return validation.Result{Field: "vehicleType", Message: fmt.Sprintf("vehicleType must be one of: %s", strings.Join(e.VehicleTypes(), ", "))}
			}
			return validation.Result{Valid: true}
		},
		func() validation.Result { return validation.Number("Quantity", req.Quantity, validation.NumberRule{Positive: true}) },
	)
	if !r.Valid {
		return nil, &insertgate.FieldError{Field: r.Field, Message: r.Message}
	}
	quantity, _ := validation.Float(req.Quantity)

	from := strings.TrimSpace(req.FromLocation)
	to := strings.TrimSpace(req.ToLocation)

	var fromPt, toPt Point
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.geocoder.Geocode(gctx, from)
		if err != nil {
			return fmt.Errorf("geocode %q: %w", from, err)
		}
		fromPt = p
		return nil
	})
	g.Go(func() error {
		p, err := e.geocoder.Geocode(gctx, to)
		if err != nil {
			return fmt.Errorf("geocode %q: %w", to, err)
		}
		toPt = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	km, err := e.router.Distance(ctx, fromPt, toPt)
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}

	trips := Trips(quantity, vehicle.Capacity)
	est := &Estimate{
		FromLocation: from,
		ToLocation:   to,
		VehicleType:  vehicleType,
		Quantity:     quantity,
		DistanceKm:   round2(km),
		Trips:        trips,
		RatePerKm:    vehicle.RatePerKm,
		BaseCharge:   e.baseCharge,
		Cost:         Cost(e.baseCharge, km, vehicle.RatePerKm, trips),
	}
	e.log.Debug("estimated",
		zap.String("vehicle", vehicleType),
		zap.Float64("distance_km", est.DistanceKm),
		zap.Int("trips", trips),
	)
	return est, nil
}

// Trips is ceil(quantity / capacity), at least one. A non-positive capacity
// means unlimited.
func Trips(quantity, capacity float64) int {
	if capacity <= 0 || quantity <= capacity {
		return 1
	}
	return int(math.Ceil(quantity / capacity))
}

// Cost is base + km * rate * trips, rounded to paise.
func Cost(base, km, ratePerKm float64, trips int) float64 {
	return round2(base + km*ratePerKm*float64(trips))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
