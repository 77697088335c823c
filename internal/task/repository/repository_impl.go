package repository

import (
	"context"

	"github.com/ynmsafety/ynmops/internal/task/domain"
	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const taskColumns = `id, assigned_to, date, title, description, task_text, status, status_history,
	fingerprint, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, t *domain.Task) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.AssignedTo,
		t.Date,
		t.Title,
		t.Description,
		t.TaskText,
		t.Status,
		t.StatusHistory,
		t.Fingerprint,
		t.CreatedAt,
		t.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Task, error) {
	return r.findOne(ctx, db, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
}

func (r *repo) FindByFingerprint(ctx context.Context, db *gorm.DB, fingerprint string) (*domain.Task, error) {
	return r.findOne(ctx, db, `SELECT `+taskColumns+` FROM tasks WHERE fingerprint = ?`, fingerprint)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, args ...any) (*domain.Task, error) {
	var t domain.Task
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&t).Error; err != nil {
		return nil, err
	}
	if t.ID == 0 {
		return nil, nil
	}
	return &t, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Task, error) {
	var items []domain.Task
	err := db.WithContext(ctx).Raw(
		`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at ASC, id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Task, error) {
	stmt := db.WithContext(ctx).Model(&domain.Task{})
	if filter.AssignedTo != "" {
		stmt = stmt.Where("LOWER(assigned_to) = ?", filter.AssignedTo)
	}
	if filter.DateFrom != nil {
		stmt = stmt.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		stmt = stmt.Where("date < ?", *filter.DateTo)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt, err := pagination.Apply(stmt, page)
	if err != nil {
		return nil, err
	}

	var items []*domain.Task
	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, t *domain.Task) error {
	if t == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE tasks
		 SET assigned_to = ?, date = ?, title = ?, description = ?, task_text = ?, status = ?,
		     status_history = ?, fingerprint = ?, updated_at = ?
		 WHERE id = ?`,
		t.AssignedTo,
		t.Date,
		t.Title,
		t.Description,
		t.TaskText,
		t.Status,
		t.StatusHistory,
		t.Fingerprint,
		t.UpdatedAt,
		t.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM tasks WHERE id = ?`, id).Error
}
