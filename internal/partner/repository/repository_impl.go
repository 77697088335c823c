package repository

import (
	"context"

	"github.com/ynmsafety/ynmops/internal/partner/domain"
	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *domain.Partner) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO partners (id, kind, name, location, contact, email, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Kind,
		p.Name,
		p.Location,
		p.Contact,
		p.Email,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, kind domain.Kind, id int64) (*domain.Partner, error) {
	var p domain.Partner
	err := db.WithContext(ctx).Raw(
		`SELECT id, kind, name, location, contact, email, notes, created_at, updated_at
		 FROM partners WHERE kind = ? AND id = ?`,
		kind,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, kind domain.Kind, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Partner, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Partner{}).
		Where("kind = ?", kind)
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

	var partners []*domain.Partner
	if err := stmt.Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, p *domain.Partner) error {
	if p == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE partners
		 SET name = ?, location = ?, contact = ?, email = ?, notes = ?, updated_at = ?
		 WHERE kind = ? AND id = ?`,
		p.Name,
		p.Location,
		p.Contact,
		p.Email,
		p.Notes,
		p.UpdatedAt,
		p.Kind,
		p.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, kind domain.Kind, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM partners WHERE kind = ? AND id = ?`, kind, id).Error
}
