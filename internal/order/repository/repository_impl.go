package repository

import (
	"context"

	"github.com/ynmsafety/ynmops/internal/order/domain"
	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const orderColumns = `id, manufacturer, product, product_type, quantity, from_location, to_location,
	transport_cost, product_cost, total_cost, fingerprint, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, o *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID,
		o.Manufacturer,
		o.Product,
		o.ProductType,
		o.Quantity,
		o.FromLocation,
		o.ToLocation,
		o.TransportCost,
		o.ProductCost,
		o.TotalCost,
		o.Fingerprint,
		o.CreatedAt,
		o.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	return r.findOne(ctx, db, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
}

func (r *repo) FindByFingerprint(ctx context.Context, db *gorm.DB, fingerprint string) (*domain.Order, error) {
	return r.findOne(ctx, db, `SELECT `+orderColumns+` FROM orders WHERE fingerprint = ?`, fingerprint)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, args ...any) (*domain.Order, error) {
	var o domain.Order
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&o).Error; err != nil {
		return nil, err
	}
	if o.ID == 0 {
		return nil, nil
	}
	return &o, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Order, error) {
	var items []domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT ` + orderColumns + ` FROM orders ORDER BY created_at ASC, id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Order, error) {
	stmt := db.WithContext(ctx).Model(&domain.Order{})
	if filter.Manufacturer != "" {
		stmt = stmt.Where("LOWER(manufacturer) LIKE ?", "%"+filter.Manufacturer+"%")
	}
	if filter.Product != "" {
		stmt = stmt.Where("LOWER(product) LIKE ?", "%"+filter.Product+"%")
	}
	stmt, err := pagination.Apply(stmt, page)
	if err != nil {
		return nil, err
	}

	var items []*domain.Order
	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, o *domain.Order) error {
	if o == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET manufacturer = ?, product = ?, product_type = ?, quantity = ?, from_location = ?, to_location = ?,
		     transport_cost = ?, product_cost = ?, total_cost = ?, fingerprint = ?, updated_at = ?
		 WHERE id = ?`,
		o.Manufacturer,
		o.Product,
		o.ProductType,
		o.Quantity,
		o.FromLocation,
		o.ToLocation,
		o.TransportCost,
		o.ProductCost,
		o.TotalCost,
		o.Fingerprint,
		o.UpdatedAt,
		o.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM orders WHERE id = ?`, id).Error
}
