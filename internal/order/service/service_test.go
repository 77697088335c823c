package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/config"
	"github.com/ynmsafety/ynmops/internal/dedupe"
	"github.com/ynmsafety/ynmops/internal/insertgate"
	"github.com/ynmsafety/ynmops/internal/order/domain"
	"github.com/ynmsafety/ynmops/internal/order/repository"
	"github.com/ynmsafety/ynmops/internal/providers/pdf"
	"github.com/ynmsafety/ynmops/pkg/db/dbtest"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	return New(Params{
		DB:     dbtest.New(t, &domain.Order{}),
		Log:    zap.NewNop(),
		Cfg:    config.Config{CompanyName: "YNM Safety"},
		GenID:  node,
		Repo:   repository.Provide(),
		Gate:   insertgate.New(insertgate.Params{Log: zap.NewNop(), Locker: insertgate.NewKeyedMutex()}),
		Dedupe: config.NewStaticDedupeConfig(dedupe.DefaultThresholds()),
		PDF:    pdf.New(),
		Clock:  clock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
	})
}

func baseOrder() domain.CreateRequest {
	return domain.CreateRequest{
		Manufacturer:  "YNM Safety",
		Product:       "Crash Barrier",
		ProductType:   "W-Beam",
		Quantity:      120,
		FromLocation:  "Nagpur",
		ToLocation:    "Mumbai",
		TransportCost: 12500,
		ProductCost:   "174060",
	}
}

func TestCreateOrderDerivesTotal(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Create(context.Background(), baseOrder())
	require.NoError(t, err)
	assert.Equal(t, 186560.0, resp.TotalCost)

	req := baseOrder()
	req.ToLocation = "Pune"
	req.TotalCost = 1000
	resp, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, resp.TotalCost)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newTestService(t)

	req := baseOrder()
	req.ToLocation = " nagpur "
	_, err := svc.Create(context.Background(), req)
	var fieldErr *insertgate.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "From location and To location must be different", fieldErr.Message)

	req = baseOrder()
	req.Quantity = 0
	_, err = svc.Create(context.Background(), req)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Quantity", fieldErr.Field)

	req = baseOrder()
	req.TransportCost = -1
	_, err = svc.Create(context.Background(), req)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Transport cost cannot be negative", fieldErr.Message)
}

func TestCreateOrderDuplicateIsConjunctive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, baseOrder())
	require.NoError(t, err)

	req := baseOrder()
	req.Manufacturer = "ynm  safety"
	req.Quantity = "120.004"
	_, err = svc.Create(ctx, req)
	var dup *insertgate.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.Existing.(domain.Response).ID)

	req = baseOrder()
	req.ToLocation = "Pune"
	_, err = svc.Create(ctx, req)
	require.NoError(t, err)
}

func TestUpdateOrderRederivesTotal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, baseOrder())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: created.ID, TransportCost: 500})
	require.NoError(t, err)
	assert.Equal(t, 174560.0, updated.TotalCost)

	to := "Thane"
	updated, err = svc.Update(ctx, domain.UpdateRequest{ID: created.ID, ToLocation: &to})
	require.NoError(t, err)
	assert.Equal(t, "Thane", updated.ToLocation)
	assert.Equal(t, 174560.0, updated.TotalCost)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: "123", ToLocation: &to})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrderAfterRouteChange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, baseOrder())
	require.NoError(t, err)

	to := "Thane"
	_, err = svc.Update(ctx, domain.UpdateRequest{ID: first.ID, ToLocation: &to})
	require.NoError(t, err)

	second, err := svc.Create(ctx, baseOrder())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	back := "Mumbai"
	_, err = svc.Update(ctx, domain.UpdateRequest{ID: first.ID, ToLocation: &back})
	var dup *insertgate.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, second.ID, dup.Existing.(domain.Response).ID)
}

func TestExportCSV(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, baseOrder())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,created_at,manufacturer,product,product_type,quantity"))
	assert.Contains(t, lines[1], "YNM Safety,Crash Barrier,W-Beam,120,Nagpur,Mumbai")
}

func TestQuote(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, baseOrder())
	require.NoError(t, err)

	doc, err := svc.Quote(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	_, err = svc.Quote(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
