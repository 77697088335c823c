package transport

import (
	"context"
	"math"
	"net/url"
	"time"

	"github.com/spf13/cast"
	"github.com/ynmsafety/ynmops/internal/cache"
	"github.com/ynmsafety/ynmops/internal/dedupe"
	"github.com/ynmsafety/ynmops/internal/providers/delegate"
)

// HTTPGeocoder calls a Nominatim-style search endpoint returning
// [{"lat": "...", "lon": "..."}].
type HTTPGeocoder struct {
	endpoint string
	client   *delegate.Client
}

func NewHTTPGeocoder(endpoint string, client *delegate.Client) *HTTPGeocoder {
	return &HTTPGeocoder{endpoint: endpoint, client: client}
}

func (g *HTTPGeocoder) Geocode(ctx context.Context, place string) (Point, error) {
	if g.endpoint == "" {
		return Point{}, delegate.ErrNotConfigured
	}
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return Point{}, err
	}
	q := u.Query()
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	var hits []struct {
		Lat any `json:"lat"`
		Lon any `json:"lon"`
	}
	if err := g.client.GetJSON(ctx, u.String(), &hits); err != nil {
		return Point{}, err
	}
	if len(hits) == 0 {
		return Point{}, ErrUnknownPlace
	}
	lat, err := cast.ToFloat64E(hits[0].Lat)
	if err != nil {
		return Point{}, err
	}
	lon, err := cast.ToFloat64E(hits[0].Lon)
	if err != nil {
		return Point{}, err
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// CachedGeocoder memoizes lookups by normalized place name.
type CachedGeocoder struct {
	next  Geocoder
	cache cache.Cache[string, Point]
	ttl   time.Duration
}

func NewCachedGeocoder(next Geocoder, c cache.Cache[string, Point], ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: c, ttl: ttl}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, place string) (Point, error) {
	key := dedupe.Normalize(place)
	if p, ok := g.cache.Get(key); ok {
		return p, nil
	}
	p, err := g.next.Geocode(ctx, place)
	if err != nil {
		return Point{}, err
	}
	g.cache.Set(key, p, g.ttl)
	return p, nil
}

// HTTPRouter posts {"from": Point, "to": Point} and reads {"distance_meters"}.
type HTTPRouter struct {
	endpoint string
	client   *delegate.Client
}

func NewHTTPRouter(endpoint string, client *delegate.Client) *HTTPRouter {
	return &HTTPRouter{endpoint: endpoint, client: client}
}

func (r *HTTPRouter) Distance(ctx context.Context, from, to Point) (float64, error) {
	if r.endpoint == "" {
		return 0, delegate.ErrNotConfigured
	}
	var out struct {
		DistanceMeters *float64 `json:"distance_meters"`
	}
	in := map[string]Point{"from": from, "to": to}
	if err := r.client.PostJSON(ctx, r.endpoint, in, &out); err != nil {
		return 0, err
	}
	if out.DistanceMeters == nil || *out.DistanceMeters < 0 {
		return 0, ErrNoRoute
	}
	return *out.DistanceMeters / 1000, nil
}

// GreatCircleRouter approximates road distance as the haversine distance
// scaled by a detour factor. Used when no ROUTER_URL is configured.
type GreatCircleRouter struct {
	DetourFactor float64
}

const earthRadiusKm = 6371.0

func (r GreatCircleRouter) Distance(_ context.Context, from, to Point) (float64, error) {
	factor := r.DetourFactor
	if factor <= 0 {
		factor = 1
	}
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(to.Lat - from.Lat)
	dLon := rad(to.Lon - from.Lon)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(from.Lat))*math.Cos(rad(to.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a)) * factor, nil
}
