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
	Insert(ctx context.Context, db *gorm.DB, partner *Partner) error
	FindByID(ctx context.Context, db *gorm.DB, kind Kind, id int64) (*Partner, error)
	List(ctx context.Context, db *gorm.DB, kind Kind, filter ListFilter, page pagination.Pagination) ([]*Partner, error)
	Update(ctx context.Context, db *gorm.DB, partner *Partner) error
	Delete(ctx context.Context, db *gorm.DB, kind Kind, id int64) error
}
