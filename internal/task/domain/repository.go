package domain

import (
	"context"
	"time"

	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	AssignedTo string
	// DateFrom and DateTo bound Date as a half-open range.
	DateFrom *time.Time
	DateTo   *time.Time
	Status   Status
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, task *Task) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Task, error)
	FindByFingerprint(ctx context.Context, db *gorm.DB, fingerprint string) (*Task, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Task, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Task, error)
	Update(ctx context.Context, db *gorm.DB, task *Task) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
