package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gocarina/gocsv"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/config"
	"github.com/ynmsafety/ynmops/internal/dedupe"
	"github.com/ynmsafety/ynmops/internal/insertgate"
	"github.com/ynmsafety/ynmops/internal/order/domain"
	"github.com/ynmsafety/ynmops/internal/providers/pdf"
	"github.com/ynmsafety/ynmops/internal/validation"
	"github.com/ynmsafety/ynmops/pkg/db"
	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const entity = "order"

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Cfg    config.Config
	GenID  *snowflake.Node
	Repo   domain.Repository
	Gate   *insertgate.Gate
	Dedupe *config.DedupeConfigHolder
	PDF    pdf.Provider
	Clock  clock.Clock `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	companyName string
	genID       *snowflake.Node
	repo        domain.Repository
	gate        *insertgate.Gate
	dedupe      *config.DedupeConfigHolder
	pdf         pdf.Provider
	clock       clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("order.service"),
		companyName: p.Cfg.CompanyName,
		genID:       p.GenID,
		repo:        p.Repo,
		gate:        p.Gate,
		dedupe:      p.Dedupe,
		pdf:         p.PDF,
		clock:       clk,
	}
}

// fields is an order draft with its numbers still raw.
type fields struct {
	manufacturer, product, productType string
	fromLocation, toLocation           string
	quantity                           any
	transportCost, productCost         any
	totalCost                          any
}

func (f fields) validate() validation.Result {
	nonNegative := validation.NumberRule{}
	return validation.Run(
		func() validation.Result { return validation.Name("Manufacturer", f.manufacturer, 0) },
		func() validation.Result { return validation.Name("Product", f.product, 0) },
		func() validation.Result { return validation.Name("Product type", f.productType, 0) },
		func() validation.Result {
			return validation.Number("Quantity", f.quantity, validation.NumberRule{Positive: true})
		},
		func() validation.Result {
			return validation.Text("From location", f.fromLocation, validation.DefaultNameMaxLen)
		},
		func() validation.Result {
			return validation.Text("To location", f.toLocation, validation.DefaultNameMaxLen)
		},
		func() validation.Result {
			return validation.Distinct("From location", f.fromLocation, "To location", f.toLocation)
		},
		func() validation.Result { return validation.Number("Transport cost", f.transportCost, nonNegative) },
		func() validation.Result { return validation.Number("Product cost", f.productCost, nonNegative) },
		func() validation.Result {
			if missing(f.totalCost) {
				return validation.Result{Valid: true}
			}
			return validation.Number("Total cost", f.totalCost, nonNegative)
		},
	)
}

// apply copies the draft onto o. Unparseable numbers become zero; callers
// validate first.
func (f fields) apply(o *domain.Order) {
	o.Manufacturer = strings.TrimSpace(f.manufacturer)
	o.Product = strings.TrimSpace(f.product)
	o.ProductType = strings.TrimSpace(f.productType)
	o.FromLocation = strings.TrimSpace(f.fromLocation)
	o.ToLocation = strings.TrimSpace(f.toLocation)
	o.Quantity, _ = validation.Float(f.quantity)
	o.TransportCost, _ = validation.Float(f.transportCost)
	o.ProductCost, _ = validation.Float(f.productCost)
	if missing(f.totalCost) {
		o.TotalCost = o.TransportCost + o.ProductCost
	} else {
		o.TotalCost, _ = validation.Float(f.totalCost)
	}
}

func missing(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && strings.TrimSpace(s) == ""
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	draft := fields{
		manufacturer:  req.Manufacturer,
		product:       req.Product,
		productType:   req.ProductType,
		fromLocation:  req.FromLocation,
		toLocation:    req.ToLocation,
		quantity:      req.Quantity,
		transportCost: req.TransportCost,
		productCost:   req.ProductCost,
		totalCost:     req.TotalCost,
	}

	now := s.clock.Now()
	o := &domain.Order{
		ID:        s.genID.Generate().Int64(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	draft.apply(o)
	o.Fingerprint = o.ComputeFingerprint()

	var peers []domain.Order
	err := s.gate.Run(ctx, insertgate.Request{
		Entity:    entity,
		Validate:  draft.validate,
		Policy:    dedupe.OrderPolicy(s.dedupe.Get()),
		Candidate: o.DedupeFields(),
		Peers: func(ctx context.Context) ([]dedupe.Fields, error) {
			items, err := s.repo.FindAll(ctx, s.db)
			if err != nil {
				return nil, err
			}
			peers = items
			out := make([]dedupe.Fields, 0, len(items))
			for _, item := range items {
				out = append(out, item.DedupeFields())
			}
			return out, nil
		},
		Conflict: func(m *dedupe.Match) any {
			return toResponse(&peers[m.Index])
		},
		Persist: func(ctx context.Context) error {
			return s.repo.Insert(ctx, s.db, o)
		},
		OnDuplicateKey: func(ctx context.Context) any {
			return s.conflictByFingerprint(ctx, o.Fingerprint)
		},
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(o)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{
		Manufacturer: strings.ToLower(strings.TrimSpace(req.Manufacturer)),
		Product:      strings.ToLower(strings.TrimSpace(req.Product)),
	}

	items, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}

	items, pageInfo := pagination.Page(items, req.Pagination, func(o *domain.Order) pagination.Cursor {
		return pagination.Cursor{
			ID:        snowflake.ID(o.ID).String(),
			CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	})

	resp := domain.ListResponse{PageInfo: pageInfo, Orders: make([]domain.Response, 0, len(items))}
	for _, item := range items {
		resp.Orders = append(resp.Orders, toResponse(item))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) conflictByFingerprint(ctx context.Context, fingerprint string) any {
	existing, err := s.repo.FindByFingerprint(ctx, s.db, fingerprint)
	if err != nil || existing == nil {
		return nil
	}
	return toResponse(existing)
}

// Update replaces the provided fields without re-running duplicate
// detection. Changing either cost without a total re-derives the total.
func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	draft := fields{
		manufacturer:  pick(req.Manufacturer, item.Manufacturer),
		product:       pick(req.Product, item.Product),
		productType:   pick(req.ProductType, item.ProductType),
		fromLocation:  pick(req.FromLocation, item.FromLocation),
		toLocation:    pick(req.ToLocation, item.ToLocation),
		quantity:      pickRaw(req.Quantity, item.Quantity),
		transportCost: pickRaw(req.TransportCost, item.TransportCost),
		productCost:   pickRaw(req.ProductCost, item.ProductCost),
		totalCost:     req.TotalCost,
	}
	if missing(req.TotalCost) && missing(req.TransportCost) && missing(req.ProductCost) {
		draft.totalCost = item.TotalCost
	}

	if r := draft.validate(); !r.Valid {
		return nil, &insertgate.FieldError{Field: r.Field, Message: r.Message}
	}
	draft.apply(item)
	item.Fingerprint = item.ComputeFingerprint()
	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, &insertgate.DuplicateError{
				Entity:   entity,
				Clause:   "fingerprint",
				Existing: s.conflictByFingerprint(ctx, item.Fingerprint),
			}
		}
		return nil, &insertgate.PersistenceError{Err: err}
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, s.db, item.ID); err != nil {
		return &insertgate.PersistenceError{Err: err}
	}
	s.log.Info("order deleted", zap.String("order_id", snowflake.ID(item.ID).String()))
	return nil
}

func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return err
	}
	rows := make([]*domain.ExportRow, 0, len(items))
	for _, o := range items {
		rows = append(rows, &domain.ExportRow{
			ID:            snowflake.ID(o.ID).String(),
			CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
			Manufacturer:  o.Manufacturer,
			Product:       o.Product,
			ProductType:   o.ProductType,
			Quantity:      o.Quantity,
			FromLocation:  o.FromLocation,
			ToLocation:    o.ToLocation,
			TransportCost: o.TransportCost,
			ProductCost:   o.ProductCost,
			TotalCost:     o.TotalCost,
		})
	}
	return gocsv.Marshal(rows, w)
}

func (s *Service) Quote(ctx context.Context, id string) ([]byte, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	orderID := snowflake.ID(o.ID).String()
	doc, err := s.pdf.GenerateQuote(ctx, pdf.QuoteData{
		CompanyName:  s.companyName,
		QuoteNumber:  "Q-" + orderID,
		IssueDate:    s.clock.Now().Format(time.DateOnly),
		Manufacturer: o.Manufacturer,
		FromLocation: o.FromLocation,
		ToLocation:   o.ToLocation,
		Items: []pdf.QuoteItem{{
			Description: fmt.Sprintf("%s (%s)", o.Product, o.ProductType),
			Quantity:    fmt.Sprintf("%g", o.Quantity),
			Amount:      money(o.ProductCost),
		}},
		TransportCost: money(o.TransportCost),
		Total:         money(o.TotalCost),
	})
	if err != nil {
		s.log.Error("render quote failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}
	return doc, nil
}

func (s *Service) find(ctx context.Context, value string) (*domain.Order, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, s.db, id.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func pick(v *string, current string) string {
	if v == nil {
		return current
	}
	return *v
}

func pickRaw(v any, current float64) any {
	if missing(v) {
		return current
	}
	return v
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func toResponse(o *domain.Order) domain.Response {
	return domain.Response{
		ID:            snowflake.ID(o.ID).String(),
		Manufacturer:  o.Manufacturer,
		Product:       o.Product,
		ProductType:   o.ProductType,
		Quantity:      o.Quantity,
		FromLocation:  o.FromLocation,
		ToLocation:    o.ToLocation,
		TransportCost: o.TransportCost,
		ProductCost:   o.ProductCost,
		TotalCost:     o.TotalCost,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
