package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/config"
	"github.com/ynmsafety/ynmops/internal/dedupe"
	"github.com/ynmsafety/ynmops/internal/insertgate"
	"github.com/ynmsafety/ynmops/internal/manufacturer/domain"
	productdomain "github.com/ynmsafety/ynmops/internal/product/domain"
	"github.com/ynmsafety/ynmops/internal/validation"
	"github.com/ynmsafety/ynmops/pkg/db"
	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const entity = "manufacturer"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Products productdomain.Service
	Gate     *insertgate.Gate
	Dedupe   *config.DedupeConfigHolder
	Clock    clock.Clock `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	products productdomain.Service
	gate     *insertgate.Gate
	dedupe   *config.DedupeConfigHolder
	clock    clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("manufacturer.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		products: p.Products,
		gate:     p.Gate,
		dedupe:   p.Dedupe,
		clock:    clk,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	offerings := toOfferings(req.ProductsOffered)

	now := s.clock.Now()
	m := &domain.Manufacturer{
		ID:              s.genID.Generate().Int64(),
		Name:            name,
		Location:        strings.TrimSpace(req.Location),
		Contact:         strings.TrimSpace(req.Contact),
		ProductsOffered: offerings,
		Slug:            slug.Make(name),
		Fingerprint:     dedupe.Fingerprint(name),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var peers []domain.Manufacturer
	err := s.gate.Run(ctx, insertgate.Request{
		Entity: entity,
		Validate: func() validation.Result {
			return validateManufacturer(req.Name, req.Location, req.Contact, req.ProductsOffered)
		},
		Reference: func(ctx context.Context) error {
			return s.checkProductTypes(ctx, offerings)
		},
		Policy:    dedupe.ManufacturerPolicy(s.dedupe.Get()),
		Candidate: m.DedupeFields(),
		Peers: func(ctx context.Context) ([]dedupe.Fields, error) {
			items, err := s.repo.FindAll(ctx, s.db)
			if err != nil {
				return nil, err
			}
			peers = items
			fields := make([]dedupe.Fields, 0, len(items))
			for _, item := range items {
				fields = append(fields, item.DedupeFields())
			}
			return fields, nil
		},
		Conflict: func(match *dedupe.Match) any {
			return toConflict(&peers[match.Index], match)
		},
		Persist: func(ctx context.Context) error {
			return s.repo.Insert(ctx, s.db, m)
		},
		OnDuplicateKey: func(ctx context.Context) any {
			return s.conflictByFingerprint(ctx, m.Fingerprint)
		},
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(m)
	return &resp, nil
}

// checkProductTypes requires every offered product type to appear inside a
// subtype of some catalog product.
func (s *Service) checkProductTypes(ctx context.Context, offerings []domain.Offering) error {
	catalog, err := s.products.Catalog(ctx)
	if err != nil {
		return err
	}
	for _, o := range offerings {
		found := false
		for _, p := range catalog {
			if p.OffersSubtype(o.ProductType) {
				found = true
				break
			}
		}
		if !found {
			return &insertgate.ReferenceError{Field: "productType", Value: o.ProductType}
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{
		Name:     strings.ToLower(strings.TrimSpace(req.Name)),
		Location: strings.ToLower(strings.TrimSpace(req.Location)),
	}

	items, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}

	items, pageInfo := pagination.Page(items, req.Pagination, func(m *domain.Manufacturer) pagination.Cursor {
		return pagination.Cursor{
			ID:        snowflake.ID(m.ID).String(),
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	})

	resp := domain.ListResponse{PageInfo: pageInfo, Manufacturers: make([]domain.Response, 0, len(items))}
	for _, item := range items {
		resp.Manufacturers = append(resp.Manufacturers, toResponse(item))
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

// Update replaces the provided fields without re-running duplicate
// detection or the catalog check. The fingerprint follows the new name, so
// only an exact name collision is refused.
func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	name, location, contact := item.Name, item.Location, item.Contact
	if req.Name != nil {
		name = *req.Name
	}
	if req.Location != nil {
		location = *req.Location
	}
	if req.Contact != nil {
		contact = *req.Contact
	}
	rawOfferings := fromOfferings(item.ProductsOffered)
	if req.ProductsOffered != nil {
		rawOfferings = req.ProductsOffered
	}

	if r := validateManufacturer(name, location, contact, rawOfferings); !r.Valid {
		return nil, &insertgate.FieldError{Field: r.Field, Message: r.Message}
	}

	item.Name = strings.TrimSpace(name)
	item.Slug = slug.Make(item.Name)
	item.Fingerprint = dedupe.Fingerprint(item.Name)
	item.Location = strings.TrimSpace(location)
	item.Contact = strings.TrimSpace(contact)
	item.ProductsOffered = toOfferings(rawOfferings)
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
	s.log.Info("manufacturer deleted", zap.String("manufacturer_id", snowflake.ID(item.ID).String()))
	return nil
}

func (s *Service) Catalog(ctx context.Context) ([]domain.Manufacturer, error) {
	return s.repo.FindAll(ctx, s.db)
}

// conflictByFingerprint returns nil when the holder of fingerprint cannot be
// loaded.
func (s *Service) conflictByFingerprint(ctx context.Context, fingerprint string) any {
	existing, err := s.repo.FindByFingerprint(ctx, s.db, fingerprint)
	if err != nil || existing == nil {
		return nil
	}
	return toConflict(existing, nil)
}

func (s *Service) find(ctx context.Context, value string) (*domain.Manufacturer, error) {
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

func validateManufacturer(name, location, contact string, offerings []domain.OfferingInput) validation.Result {
	checks := []validation.Check{
		func() validation.Result { return validation.Name("Manufacturer name", name, 0) },
		func() validation.Result { return validation.Text("Location", location, validation.DefaultNameMaxLen) },
		func() validation.Result { return validation.Phone("Contact", contact) },
		func() validation.Result { return validation.NonEmpty("product offered", len(offerings)) },
	}
	for _, o := range offerings {
		checks = append(checks,
			func() validation.Result { return validation.Name("Product type", o.ProductType, 0) },
			func() validation.Result { return validation.Number("Price", o.Price, validation.NumberRule{Positive: true}) },
		)
	}
	return validation.Run(checks...)
}

// toOfferings trims product types and parses prices. Unparseable prices
// become zero; validation rejects them before anything is stored.
func toOfferings(inputs []domain.OfferingInput) []domain.Offering {
	out := make([]domain.Offering, 0, len(inputs))
	for _, in := range inputs {
		price, _ := validation.Float(in.Price)
		out = append(out, domain.Offering{
			ProductType: strings.TrimSpace(in.ProductType),
			Price:       price,
		})
	}
	return out
}

func fromOfferings(offerings []domain.Offering) []domain.OfferingInput {
	out := make([]domain.OfferingInput, 0, len(offerings))
	for _, o := range offerings {
		out = append(out, domain.OfferingInput{ProductType: o.ProductType, Price: o.Price})
	}
	return out
}

// toConflict adds the offering a name_and_product match paired with.
func toConflict(m *domain.Manufacturer, match *dedupe.Match) domain.Conflict {
	out := domain.Conflict{Response: toResponse(m)}
	if match == nil || match.Clause != dedupe.ClauseNameAndProduct {
		return out
	}
	if pair, ok := match.Pairs[dedupe.FieldProductTypes]; ok && pair.Existing < len(m.ProductsOffered) {
		offering := m.ProductsOffered[pair.Existing]
		out.Matched = &offering
	}
	return out
}

func toResponse(m *domain.Manufacturer) domain.Response {
	offerings := []domain.Offering(m.ProductsOffered)
	if offerings == nil {
		offerings = []domain.Offering{}
	}
	return domain.Response{
		ID:              snowflake.ID(m.ID).String(),
		Name:            m.Name,
		Location:        m.Location,
		Contact:         m.Contact,
		ProductsOffered: offerings,
		Slug:            m.Slug,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
