package domain

import (
	"context"

	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Manufacturer string
	Product      string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Order, error)
	FindByFingerprint(ctx context.Context, db *gorm.DB, fingerprint string) (*Order, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Order, error)
	Update(ctx context.Context, db *gorm.DB, order *Order) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
