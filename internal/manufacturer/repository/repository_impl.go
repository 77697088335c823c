package repository

import (
	"context"

	"github.com/ynmsafety/ynmops/internal/manufacturer/domain"
	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const manufacturerColumns = `id, name, location, contact, products_offered, slug, fingerprint, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, m *domain.Manufacturer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO manufacturers (`+manufacturerColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.Name,
		m.Location,
		m.Contact,
		m.ProductsOffered,
		m.Slug,
		m.Fingerprint,
		m.CreatedAt,
		m.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Manufacturer, error) {
	return r.findOne(ctx, db, `SELECT `+manufacturerColumns+` FROM manufacturers WHERE id = ?`, id)
}

func (r *repo) FindByFingerprint(ctx context.Context, db *gorm.DB, fingerprint string) (*domain.Manufacturer, error) {
	return r.findOne(ctx, db, `SELECT `+manufacturerColumns+` FROM manufacturers WHERE fingerprint = ?`, fingerprint)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, args ...any) (*domain.Manufacturer, error) {
	var m domain.Manufacturer
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&m).Error; err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, nil
	}
	return &m, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Manufacturer, error) {
	var items []domain.Manufacturer
	err := db.WithContext(ctx).Raw(
		`SELECT ` + manufacturerColumns + ` FROM manufacturers ORDER BY created_at ASC, id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Manufacturer, error) {
	stmt := db.WithContext(ctx).Model(&domain.Manufacturer{})
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Location != "" {
		stmt = stmt.Where("LOWER(location) LIKE ?", "%"+filter.Location+"%")
	}
	stmt, err := pagination.Apply(stmt, page)
	if err != nil {
		return nil, err
	}

	var items []*domain.Manufacturer
	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, m *domain.Manufacturer) error {
	if m == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE manufacturers
		 SET name = ?, location = ?, contact = ?, products_offered = ?, slug = ?, fingerprint = ?, updated_at = ?
		 WHERE id = ?`,
		m.Name,
		m.Location,
		m.Contact,
		m.ProductsOffered,
		m.Slug,
		m.Fingerprint,
		m.UpdatedAt,
		m.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM manufacturers WHERE id = ?`, id).Error
}
