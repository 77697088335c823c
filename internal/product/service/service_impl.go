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
	"github.com/ynmsafety/ynmops/internal/product/domain"
	"github.com/ynmsafety/ynmops/internal/validation"
	"github.com/ynmsafety/ynmops/pkg/db"
	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const entity = "product"

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Gate   *insertgate.Gate
	Dedupe *config.DedupeConfigHolder
	Clock  clock.Clock `optional:"true"`
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	gate   *insertgate.Gate
	dedupe *config.DedupeConfigHolder
	clock  clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("product.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		gate:   p.Gate,
		dedupe: p.Dedupe,
		clock:  clk,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	subtypes := cleanList(req.Subtypes)
	unit := strings.ToLower(strings.TrimSpace(req.Unit))

	now := s.clock.Now()
	p := &domain.Product{
		ID:          s.genID.Generate().Int64(),
		Name:        name,
		Subtypes:    subtypes,
		Unit:        unit,
		Notes:       strings.TrimSpace(req.Notes),
		Slug:        slug.Make(name),
		Fingerprint: dedupe.Fingerprint(name),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var peers []domain.Product
	err := s.gate.Run(ctx, insertgate.Request{
		Entity: entity,
		Validate: func() validation.Result {
			return validateProduct(req.Name, req.Subtypes, subtypes, req.Unit, req.Notes)
		},
		Policy:    dedupe.ProductPolicy(s.dedupe.Get()),
		Candidate: p.DedupeFields(),
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
		Conflict: func(m *dedupe.Match) any {
			return toConflict(&peers[m.Index], m)
		},
		Persist: func(ctx context.Context) error {
			return s.repo.Insert(ctx, s.db, p)
		},
		OnDuplicateKey: func(ctx context.Context) any {
			return s.conflictByFingerprint(ctx, p.Fingerprint)
		},
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{
		Name: strings.ToLower(strings.TrimSpace(req.Name)),
		Unit: strings.ToLower(strings.TrimSpace(req.Unit)),
	}

	items, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}

	items, pageInfo := pagination.Page(items, req.Pagination, func(p *domain.Product) pagination.Cursor {
		return pagination.Cursor{
			ID:        snowflake.ID(p.ID).String(),
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	})

	resp := domain.ListResponse{PageInfo: pageInfo, Products: make([]domain.Response, 0, len(items))}
	for _, item := range items {
		resp.Products = append(resp.Products, toResponse(item))
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

// Update replaces the provided fields. Duplicate detection does not run and
// the creation fingerprint is kept.
func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	name, unit, notes := item.Name, item.Unit, item.Notes
	subtypes := []string(item.Subtypes)
	rawSubtypes := subtypes
	if req.Name != nil {
		name = *req.Name
	}
	if req.Subtypes != nil {
		rawSubtypes = req.Subtypes
		subtypes = cleanList(req.Subtypes)
	}
	if req.Unit != nil {
		unit = *req.Unit
	}
	if req.Notes != nil {
		notes = *req.Notes
	}

	if r := validateProduct(name, rawSubtypes, subtypes, unit, notes); !r.Valid {
		return nil, &insertgate.FieldError{Field: r.Field, Message: r.Message}
	}

	item.Name = strings.TrimSpace(name)
	item.Slug = slug.Make(item.Name)
	item.Fingerprint = dedupe.Fingerprint(item.Name)
	item.Subtypes = subtypes
	item.Unit = strings.ToLower(strings.TrimSpace(unit))
	item.Notes = strings.TrimSpace(notes)
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

func (s *Service) conflictByFingerprint(ctx context.Context, fingerprint string) any {
	existing, err := s.repo.FindByFingerprint(ctx, s.db, fingerprint)
	if err != nil || existing == nil {
		return nil
	}
	return toConflict(existing, nil)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, s.db, item.ID); err != nil {
		return &insertgate.PersistenceError{Err: err}
	}
	s.log.Info("product deleted", zap.String("product_id", snowflake.ID(item.ID).String()))
	return nil
}

func (s *Service) Catalog(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx, s.db)
}

func (s *Service) find(ctx context.Context, value string) (*domain.Product, error) {
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

func validateProduct(name string, rawSubtypes, subtypes []string, unit, notes string) validation.Result {
	return validation.Run(
		func() validation.Result { return validation.Name("Product name", name, 0) },
		func() validation.Result { return validation.NonEmpty("subtype", len(subtypes)) },
		func() validation.Result {
			for _, subtype := range rawSubtypes {
				if strings.TrimSpace(subtype) == "" {
					continue
				}
				if r := validation.Name("Subtype", subtype, 0); !r.Valid {
					return r
				}
			}
			return validation.Result{Valid: true}
		},
		func() validation.Result { return validation.Unit(unit) },
		func() validation.Result { return validation.Notes("notes", notes) },
	)
}

// cleanList trims items and drops blanks and normalized repeats, keeping
// first-seen order.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := dedupe.Normalize(item)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func toConflict(p *domain.Product, match *dedupe.Match) domain.Conflict {
	out := domain.Conflict{Response: toResponse(p)}
	if match == nil || match.Clause != dedupe.ClauseNameAndSubtype {
		return out
	}
	if pair, ok := match.Pairs[dedupe.FieldSubtypes]; ok && pair.Existing < len(p.Subtypes) {
		out.MatchedSubtype = p.Subtypes[pair.Existing]
	}
	return out
}

func toResponse(p *domain.Product) domain.Response {
	subtypes := []string(p.Subtypes)
	if subtypes == nil {
		subtypes = []string{}
	}
	return domain.Response{
		ID:        snowflake.ID(p.ID).String(),
		Name:      p.Name,
		Subtypes:  subtypes,
		Unit:      p.Unit,
		Notes:     p.Notes,
		Slug:      p.Slug,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
