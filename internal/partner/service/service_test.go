package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/insertgate"
	"github.com/ynmsafety/ynmops/internal/partner/domain"
	"github.com/ynmsafety/ynmops/internal/partner/repository"
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
		DB:    dbtest.New(t, &domain.Partner{}),
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Gate:  insertgate.New(insertgate.Params{Log: zap.NewNop(), Locker: insertgate.NewKeyedMutex()}),
		Clock: clock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
	})
}

func TestPartnerKindsAreSeparate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	dealer, err := svc.Create(ctx, domain.KindDealer, domain.CreateRequest{
		Name: "Patil & Sons", Location: "Pune", Contact: "9876543210", Email: "sales@patil.example",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.KindDealer, dealer.Kind)

	// Same details are allowed twice: partners carry no duplicate policy.
	_, err = svc.Create(ctx, domain.KindDealer, domain.CreateRequest{Name: "Patil & Sons", Location: "Pune", Contact: "9876543210"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, domain.KindImporter, dealer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	dealers, err := svc.List(ctx, domain.KindDealer, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, dealers.Partners, 2)

	importers, err := svc.List(ctx, domain.KindImporter, domain.ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, importers.Partners)
}

func TestPartnerValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.KindCustomer, domain.CreateRequest{Name: "Acme", Location: "Pune", Contact: "12"})
	var fieldErr *insertgate.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Contact", fieldErr.Field)

	_, err = svc.Create(context.Background(), domain.KindCustomer, domain.CreateRequest{Name: "", Location: "Pune", Contact: "9876543210"})
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Customer name is required", fieldErr.Message)

	_, err = svc.Create(context.Background(), domain.Kind("vendor"), domain.CreateRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestPartnerUpdateDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.KindImporter, domain.CreateRequest{Name: "Harbour Imports", Location: "Mumbai", Contact: "9876543210"})
	require.NoError(t, err)

	notes := "Ships via JNPT"
	updated, err := svc.Update(ctx, domain.KindImporter, domain.UpdateRequest{ID: created.ID, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)

	require.NoError(t, svc.Delete(ctx, domain.KindImporter, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, domain.KindImporter, created.ID), domain.ErrNotFound)
}
