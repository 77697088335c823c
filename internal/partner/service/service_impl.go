package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/insertgate"
	"github.com/ynmsafety/ynmops/internal/partner/domain"
	"github.com/ynmsafety/ynmops/internal/validation"
	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Gate  *insertgate.Gate
	Clock clock.Clock `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	gate  *insertgate.Gate
	clock clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("partner.service"),
		genID: p.GenID,
		repo:  p.Repo,
		gate:  p.Gate,
		clock: clk,
	}
}

// Create stores a partner after field validation. Partners have no
// duplicate policy.
func (s *Service) Create(ctx context.Context, kind domain.Kind, req domain.CreateRequest) (*domain.Response, error) {
	if _, ok := domain.ParseKind(string(kind)); !ok {
		return nil, domain.ErrInvalidKind
	}

	now := s.clock.Now()
	partner := domain.Partner{
		ID:        s.genID.Generate().Int64(),
		Kind:      kind,
		Name:      strings.TrimSpace(req.Name),
		Location:  strings.TrimSpace(req.Location),
		Contact:   strings.TrimSpace(req.Contact),
		Email:     strings.TrimSpace(req.Email),
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.gate.Run(ctx, insertgate.Request{
		Entity: string(kind),
		Validate: func() validation.Result {
			return validatePartner(kind, req.Name, req.Location, req.Contact, req.Email, req.Notes)
		},
		Persist: func(ctx context.Context) error {
			return s.repo.Insert(ctx, s.db, &partner)
		},
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(&partner)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, kind domain.Kind, req domain.ListRequest) (domain.ListResponse, error) {
	if _, ok := domain.ParseKind(string(kind)); !ok {
		return domain.ListResponse{}, domain.ErrInvalidKind
	}

	filter := domain.ListFilter{
		Name:     strings.ToLower(strings.TrimSpace(req.Name)),
		Location: strings.ToLower(strings.TrimSpace(req.Location)),
	}

	items, err := s.repo.List(ctx, s.db, kind, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}

	items, pageInfo := pagination.Page(items, req.Pagination, func(p *domain.Partner) pagination.Cursor {
		return pagination.Cursor{
			ID:        snowflake.ID(p.ID).String(),
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	})

	resp := domain.ListResponse{PageInfo: pageInfo, Partners: make([]domain.Response, 0, len(items))}
	for _, item := range items {
		if item == nil {
			continue
		}
		resp.Partners = append(resp.Partners, toResponse(item))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, kind domain.Kind, id string) (*domain.Response, error) {
	item, err := s.find(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, kind domain.Kind, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.find(ctx, kind, req.ID)
	if err != nil {
		return nil, err
	}

	name, location, contact, email, notes := item.Name, item.Location, item.Contact, item.Email, item.Notes
	if req.Name != nil {
		name = *req.Name
	}
	if req.Location != nil {
		location = *req.Location
	}
	if req.Contact != nil {
		contact = *req.Contact
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if r := validatePartner(kind, name, location, contact, email, notes); !r.Valid {
		return nil, &insertgate.FieldError{Field: r.Field, Message: r.Message}
	}

	item.Name = strings.TrimSpace(name)
	item.Location = strings.TrimSpace(location)
	item.Contact = strings.TrimSpace(contact)
	item.Email = strings.TrimSpace(email)
	item.Notes = strings.TrimSpace(notes)
	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, &insertgate.PersistenceError{Err: err}
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, kind domain.Kind, id string) error {
	item, err := s.find(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, s.db, kind, item.ID); err != nil {
		return &insertgate.PersistenceError{Err: err}
	}
	return nil
}

func (s *Service) find(ctx context.Context, kind domain.Kind, value string) (*domain.Partner, error) {
	if _, ok := domain.ParseKind(string(kind)); !ok {
		return nil, domain.ErrInvalidKind
	}
	id, err := s.parseID(value)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, s.db, kind, id.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func validatePartner(kind domain.Kind, name, location, contact, email, notes string) validation.Result {
	return validation.Run(
		func() validation.Result { return validation.Name(kind.Label()+" name", name, 0) },
		func() validation.Result { return validation.Text("Location", location, validation.DefaultNameMaxLen) },
		func() validation.Result { return validation.Phone("Contact", contact) },
		func() validation.Result { return validation.Email("Email", email) },
		func() validation.Result { return validation.Notes("Notes", notes) },
	)
}

func toResponse(p *domain.Partner) domain.Response {
	return domain.Response{
		ID:        snowflake.ID(p.ID).String(),
		Kind:      p.Kind,
		Name:      p.Name,
		Location:  p.Location,
		Contact:   p.Contact,
		Email:     p.Email,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
