package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/config"
	"github.com/ynmsafety/ynmops/internal/dedupe"
	"github.com/ynmsafety/ynmops/internal/insertgate"
	"github.com/ynmsafety/ynmops/internal/manufacturer/domain"
	"github.com/ynmsafety/ynmops/internal/manufacturer/repository"
	productdomain "github.com/ynmsafety/ynmops/internal/product/domain"
	productrepo "github.com/ynmsafety/ynmops/internal/product/repository"
	productservice "github.com/ynmsafety/ynmops/internal/product/service"
	"github.com/ynmsafety/ynmops/pkg/db/dbtest"
	"go.uber.org/zap"
)

type fixture struct {
	manufacturers domain.Service
	products      productdomain.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	db := dbtest.New(t, &domain.Manufacturer{}, &productdomain.Product{})
	clk := clock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	gate := insertgate.New(insertgate.Params{Log: zap.NewNop(), Locker: insertgate.NewKeyedMutex()})
	holder := config.NewStaticDedupeConfig(dedupe.DefaultThresholds())

	products := productservice.New(productservice.Params{
		DB: db, Log: zap.NewNop(), GenID: node, Repo: productrepo.Provide(),
		Gate: gate, Dedupe: holder, Clock: clk,
	})
	manufacturers := New(Params{
		DB: db, Log: zap.NewNop(), GenID: node, Repo: repository.Provide(),
		Products: products, Gate: gate, Dedupe: holder, Clock: clk,
	})
	return fixture{manufacturers: manufacturers, products: products}
}

func (f fixture) seedProduct(t *testing.T, name string, subtypes ...string) {
	t.Helper()
	_, err := f.products.Create(context.Background(), productdomain.CreateRequest{Name: name, Subtypes: subtypes, Unit: "m"})
	require.NoError(t, err)
}

func offering(productType string, price any) domain.OfferingInput {
	return domain.OfferingInput{ProductType: productType, Price: price}
}

func TestCreateManufacturer(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "Crash Barrier", "W-Beam", "Thrie Beam")

	resp, err := f.manufacturers.Create(context.Background(), domain.CreateRequest{
		Name:            "Metro Barrier Works Co",
		Location:        "Nagpur",
		Contact:         "9876543210",
		ProductsOffered: []domain.OfferingInput{offering(" w-beam ", "1450.50"), offering("Thrie Beam", 1800)},
	})
	require.NoError(t, err)
	assert.Equal(t, "metro-barrier-works-co", resp.Slug)
	require.Len(t, resp.ProductsOffered, 2)
	assert.Equal(t, domain.Offering{ProductType: "w-beam", Price: 1450.50}, resp.ProductsOffered[0])

	got, err := f.manufacturers.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ProductsOffered, got.ProductsOffered)
}

func TestCreateManufacturerValidationOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.manufacturers.Create(context.Background(), domain.CreateRequest{
		Name:            "Metro Barrier Works Co",
		Location:        "Nagpur",
		Contact:         "98765",
		ProductsOffered: []domain.OfferingInput{offering("W-Beam", -1)},
	})
	var fieldErr *insertgate.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Contact", fieldErr.Field)

	_, err = f.manufacturers.Create(context.Background(), domain.CreateRequest{
		Name:            "Metro Barrier Works Co",
		Location:        "Nagpur",
		Contact:         "9876543210",
		ProductsOffered: []domain.OfferingInput{offering("W-Beam", "abc")},
	})
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Price must be a valid number", fieldErr.Message)
}

func TestCreateManufacturerUnknownProductType(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "Crash Barrier", "W-Beam")

	_, err := f.manufacturers.Create(context.Background(), domain.CreateRequest{
		Name:            "Metro Barrier Works Co",
		Location:        "Nagpur",
		Contact:         "9876543210",
		ProductsOffered: []domain.OfferingInput{offering("W-Beam", 100), offering("Road Stud", 40)},
	})
	var refErr *insertgate.ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "Road Stud", refErr.Value)
	assert.Contains(t, refErr.Error(), "Road Stud")
}

func TestCreateManufacturerNameOnlyDuplicate(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "Crash Barrier", "Thrie Beam", "Road Stud Solar")

	_, err := f.manufacturers.Create(context.Background(), domain.CreateRequest{
		Name: "Nagpur Highway Safety Products Ltd", Location: "Nagpur", Contact: "9876543210",
		ProductsOffered: []domain.OfferingInput{offering("Thrie Beam", 1800)},
	})
	require.NoError(t, err)

	_, err = f.manufacturers.Create(context.Background(), domain.CreateRequest{
		Name: "Nagpur Highway Safety Produkts Ltd", Location: "Wardha", Contact: "9876543211",
		ProductsOffered: []domain.OfferingInput{offering("Road Stud", 40)},
	})
	var dup *insertgate.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, dedupe.ClauseNameOnly, dup.Clause)
}

func TestCreateManufacturerBoundaryIsNotDuplicate(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "Crash Barrier", "Thrie Beam", "Road Stud Solar")

	_, err := f.manufacturers.Create(context.Background(), domain.CreateRequest{
		Name: "Metro Barrier Works Co", Location: "Nagpur", Contact: "9876543210",
		ProductsOffered: []domain.OfferingInput{offering("Thrie Beam", 1800)},
	})
	require.NoError(t, err)

	_, err = f.manufacturers.Create(context.Background(), domain.CreateRequest{
		Name: "Metra Barrier Wurks Ci", Location: "Nagpur", Contact: "9876543210",
		ProductsOffered: []domain.OfferingInput{offering("Road Stud", 40)},
	})
	require.NoError(t, err)
}

func TestEndToEndCrashBarrierConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.products.Create(ctx, productdomain.CreateRequest{Name: "Crash Barrier", Subtypes: []string{"W-Beam"}, Unit: "m"})
	require.NoError(t, err)

	existing, err := f.manufacturers.Create(ctx, domain.CreateRequest{
		Name: "Crash Barriers", Location: "Pune", Contact: "9123456780",
		ProductsOffered: []domain.OfferingInput{offering("W-Beam", 95)},
	})
	require.NoError(t, err)

	_, err = f.manufacturers.Create(ctx, domain.CreateRequest{
		Name: "Crash Barrier", Location: "Mumbai", Contact: "9876543210",
		ProductsOffered: []domain.OfferingInput{offering("W-Beam", 100)},
	})
	require.Error(t, err)
	assert.Equal(t, insertgate.DuplicateMessage, err.Error())

	var dup *insertgate.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, dedupe.ClauseNameAndProduct, dup.Clause)
	snapshot, ok := dup.Existing.(domain.Conflict)
	require.True(t, ok)
	assert.Equal(t, existing.ID, snapshot.ID)
	assert.Equal(t, "Crash Barriers", snapshot.Name)
	assert.Equal(t, "Pune", snapshot.Location)
	require.NotNil(t, snapshot.Matched)
	assert.Equal(t, domain.Offering{ProductType: "W-Beam", Price: 95}, *snapshot.Matched)

	list, err := f.manufacturers.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Manufacturers, 1)
}

func TestUpdateManufacturerSkipsDuplicateCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "Crash Barrier", "W-Beam", "Thrie Beam")

	_, err := f.manufacturers.Create(ctx, domain.CreateRequest{
		Name: "Crash Barriers", Location: "Pune", Contact: "9123456780",
		ProductsOffered: []domain.OfferingInput{offering("W-Beam", 95)},
	})
	require.NoError(t, err)
	other, err := f.manufacturers.Create(ctx, domain.CreateRequest{
		Name: "Metro Barrier Works Co", Location: "Nagpur", Contact: "9876543210",
		ProductsOffered: []domain.OfferingInput{offering("Thrie Beam", 1800)},
	})
	require.NoError(t, err)

	name := "Crash Barrier"
	updated, err := f.manufacturers.Update(ctx, domain.UpdateRequest{
		ID: other.ID, Name: &name,
		ProductsOffered: []domain.OfferingInput{offering("W-Beam", 99)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Crash Barrier", updated.Name)

	updated, err = f.manufacturers.Update(ctx, domain.UpdateRequest{
		ID: other.ID, ProductsOffered: []domain.OfferingInput{offering("Cone", 5)},
	})
	require.NoError(t, err, "updates replace fields without the catalog check")
	assert.Equal(t, []domain.Offering{{ProductType: "Cone", Price: 5}}, updated.ProductsOffered)

	require.NoError(t, f.manufacturers.Delete(ctx, other.ID))
	assert.ErrorIs(t, f.manufacturers.Delete(ctx, other.ID), domain.ErrNotFound)
}

func TestNameOnlyConflictHasNoMatchedOffering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "Crash Barrier", "Thrie Beam", "Road Stud Solar")

	_, err := f.manufacturers.Create(ctx, domain.CreateRequest{
		Name: "Nagpur Highway Safety Products Ltd", Location: "Nagpur", Contact: "9876543210",
		ProductsOffered: []domain.OfferingInput{offering("Thrie Beam", 1800)},
	})
	require.NoError(t, err)

	_, err = f.manufacturers.Create(ctx, domain.CreateRequest{
		Name: "Nagpur Highway Safety Produkts Ltd", Location: "Wardha", Contact: "9876543211",
		ProductsOffered: []domain.OfferingInput{offering("Road Stud", 40)},
	})
	var dup *insertgate.DuplicateError
	require.ErrorAs(t, err, &dup)
	snapshot, ok := dup.Existing.(domain.Conflict)
	require.True(t, ok)
	assert.Nil(t, snapshot.Matched)
}

func TestCreateAfterRenameReusesOldName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "Crash Barrier", "W-Beam")

	first, err := f.manufacturers.Create(ctx, domain.CreateRequest{
		Name: "Acme Safety", Location: "Pune", Contact: "9123456780",
		ProductsOffered: []domain.OfferingInput{offering("W-Beam", 95)},
	})
	require.NoError(t, err)

	renamed := "Zenith Traders"
	_, err = f.manufacturers.Update(ctx, domain.UpdateRequest{ID: first.ID, Name: &renamed})
	require.NoError(t, err)

	second, err := f.manufacturers.Create(ctx, domain.CreateRequest{
		Name: "Acme Safety", Location: "Pune", Contact: "9123456780",
		ProductsOffered: []domain.OfferingInput{offering("W-Beam", 95)},
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUpdateOntoExistingNameIsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "Crash Barrier", "W-Beam", "Thrie Beam")

	acme, err := f.manufacturers.Create(ctx, domain.CreateRequest{
		Name: "Acme Safety", Location: "Pune", Contact: "9123456780",
		ProductsOffered: []domain.OfferingInput{offering("W-Beam", 95)},
	})
	require.NoError(t, err)
	other, err := f.manufacturers.Create(ctx, domain.CreateRequest{
		Name: "Zenith Traders", Location: "Nagpur", Contact: "9876543210",
		ProductsOffered: []domain.OfferingInput{offering("Thrie Beam", 1800)},
	})
	require.NoError(t, err)

	name := " acme  SAFETY "
	_, err = f.manufacturers.Update(ctx, domain.UpdateRequest{ID: other.ID, Name: &name})
	var dup *insertgate.DuplicateError
	require.ErrorAs(t, err, &dup)
	snapshot, ok := dup.Existing.(domain.Conflict)
	require.True(t, ok)
	assert.Equal(t, acme.ID, snapshot.ID)
}
