package domain

import (
	"context"

	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Name     string
	Location string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, m *Manufacturer) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Manufacturer, error)
	FindByFingerprint(ctx context.Context, db *gorm.DB, fingerprint string) (*Manufacturer, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Manufacturer, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Manufacturer, error)
	Update(ctx context.Context, db *gorm.DB, m *Manufacturer) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
