package service

import (
	"context"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/bwmarrin/snowflake"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/dedupe"
	"github.com/ynmsafety/ynmops/internal/insertgate"
	"github.com/ynmsafety/ynmops/internal/task/domain"
	"github.com/ynmsafety/ynmops/internal/validation"
	"github.com/ynmsafety/ynmops/pkg/db"
	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	entity = "task"

	assigneeMaxLen = 64
	taskTextMaxLen = 2000
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
		log:   p.Log.Named("task.service"),
		genID: p.GenID,
		repo:  p.Repo,
		gate:  p.Gate,
		clock: clk,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	now := s.clock.Now()
	date, dateErr := parseDate(req.Date, now)
	title, description := splitTaskText(req.TaskText)

	t := &domain.Task{
		ID:            s.genID.Generate().Int64(),
		AssignedTo:    strings.TrimSpace(req.AssignedTo),
		Date:          date,
		Title:         title,
		Description:   description,
		TaskText:      strings.TrimSpace(req.TaskText),
		Status:        domain.StatusPending,
		StatusHistory: []domain.StatusEntry{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	t.Fingerprint = t.ComputeFingerprint()

	var peers []domain.Task
	err := s.gate.Run(ctx, insertgate.Request{
		Entity: entity,
		Validate: func() validation.Result {
			return validateTask(req.AssignedTo, req.TaskText, dateErr)
		},
		Policy:    dedupe.TaskPolicy(),
		Candidate: t.DedupeFields(),
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
			return s.toResponse(&peers[m.Index])
		},
		Persist: func(ctx context.Context) error {
			return s.repo.Insert(ctx, s.db, t)
		},
		OnDuplicateKey: func(ctx context.Context) any {
			return s.conflictByFingerprint(ctx, t.Fingerprint)
		},
	})
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(t)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{
		AssignedTo: dedupe.Normalize(req.AssignedTo),
		Status:     domain.Status(strings.ToLower(strings.TrimSpace(req.Status))),
	}
	if strings.TrimSpace(req.Date) != "" {
		day, err := parseDate(req.Date, s.clock.Now())
		if err != nil {
			return domain.ListResponse{}, &insertgate.FieldError{Field: "date", Message: "date must be a valid date"}
		}
		next := day.AddDate(0, 0, 1)
		filter.DateFrom, filter.DateTo = &day, &next
	}
	// Carried forward is derived; it selects stored pending tasks dated
	// before today.
	if filter.Status == domain.StatusCarriedForward {
		today := startOfDay(s.clock.Now())
		filter.Status = domain.StatusPending
		if filter.DateTo == nil || filter.DateTo.After(today) {
			filter.DateTo = &today
		}
	}

	items, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}

	items, pageInfo := pagination.Page(items, req.Pagination, func(t *domain.Task) pagination.Cursor {
		return pagination.Cursor{
			ID:        snowflake.ID(t.ID).String(),
			CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	})

	resp := domain.ListResponse{PageInfo: pageInfo, Tasks: make([]domain.Response, 0, len(items))}
	for _, item := range items {
		resp.Tasks = append(resp.Tasks, s.toResponse(item))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(item)
	return &resp, nil
}

// Update replaces the provided fields without re-running duplicate
// detection.
func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	assignee, text := item.AssignedTo, item.TaskText
	if req.AssignedTo != nil {
		assignee = *req.AssignedTo
	}
	if req.TaskText != nil {
		text = *req.TaskText
	}
	date := item.Date
	var dateErr error
	if req.Date != nil {
		date, dateErr = parseDate(*req.Date, s.clock.Now())
	}
	if r := validateTask(assignee, text, dateErr); !r.Valid {
		return nil, &insertgate.FieldError{Field: r.Field, Message: r.Message}
	}

	item.AssignedTo = strings.TrimSpace(assignee)
	item.TaskText = strings.TrimSpace(text)
	item.Title, item.Description = splitTaskText(text)
	item.Date = date
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

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) conflictByFingerprint(ctx context.Context, fingerprint string) any {
	existing, err := s.repo.FindByFingerprint(ctx, s.db, fingerprint)
	if err != nil || existing == nil {
		return nil
	}
	return s.toResponse(existing)
}

// UpdateStatus sets the stored status and appends to the status history.
func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (*domain.Response, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	status := domain.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if status != domain.StatusPending && status != domain.StatusCompleted {
		return nil, &insertgate.FieldError{Field: "status", Message: "status must be one of: pending, completed"}
	}
	statusText := strings.TrimSpace(req.StatusText)
	if statusText == "" {
		statusText = string(status)
	}
	if r := validation.Notes("statusText", statusText); !r.Valid {
		return nil, &insertgate.FieldError{Field: r.Field, Message: r.Message}
	}

	now := s.clock.Now()
	item.Status = status
	item.StatusHistory = append(item.StatusHistory, domain.StatusEntry{StatusText: statusText, UpdatedAt: now})
	item.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, &insertgate.PersistenceError{Err: err}
	}

	s.log.Info("task status updated",
		zap.String("task_id", snowflake.ID(item.ID).String()),
		zap.String("status", string(status)),
	)
	resp := s.toResponse(item)
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
	return nil
}

func (s *Service) find(ctx context.Context, value string) (*domain.Task, error) {
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

func validateTask(assignee, text string, dateErr error) validation.Result {
	return validation.Run(
		func() validation.Result { return validation.Text("Assigned to", assignee, assigneeMaxLen) },
		func() validation.Result {
			if dateErr != nil {
				return validation.Result{Field: "date", Message: "date must be a valid date"}
			}
			return validation.Result{Valid: true}
		},
		func() validation.Result { return validation.Text("Task", text, taskTextMaxLen) },
	)
}

// splitTaskText returns the first line as the title and the rest as the
// description.
func splitTaskText(text string) (string, string) {
	text = strings.TrimSpace(text)
	title, rest, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(title), strings.TrimSpace(rest)
}

// parseDate accepts most common date layouts. An empty value means today.
func parseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return startOfDay(now), nil
	}
	parsed, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return startOfDay(parsed), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) toResponse(t *domain.Task) domain.Response {
	history := []domain.StatusEntry(t.StatusHistory)
	if history == nil {
		history = []domain.StatusEntry{}
	}
	return domain.Response{
		ID:            snowflake.ID(t.ID).String(),
		AssignedTo:    t.AssignedTo,
		Date:          dedupe.DayKey(t.Date),
		Title:         t.Title,
		Description:   t.Description,
		TaskText:      t.TaskText,
		Status:        t.EffectiveStatus(s.clock.Now()),
		StatusHistory: history,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
