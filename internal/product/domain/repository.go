package domain

import (
	"context"

	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Name string
	Unit string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindByFingerprint(ctx context.Context, db *gorm.DB, fingerprint string) (*Product, error)
	// FindAll returns every product oldest first.
	FindAll(ctx context.Context, db *gorm.DB) ([]Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Product, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
