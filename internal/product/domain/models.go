package domain

import (
	"strings"
	"time"

	"github.com/ynmsafety/ynmops/internal/dedupe"
	"gorm.io/datatypes"
)

type Product struct {
	ID          int64                       `gorm:"primaryKey"`
	Name        string                      `gorm:"type:text;not null"`
	Subtypes    datatypes.JSONSlice[string] `gorm:"not null"`
	Unit        string                      `gorm:"type:text;not null"`
	Notes       string                      `gorm:"type:text;not null;default:''"`
	Slug        string                      `gorm:"type:text;not null;index"`
	Fingerprint string                      `gorm:"type:text;not null;uniqueIndex:ux_products_fingerprint"`
	CreatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// OffersSubtype reports whether one of the subtypes contains declared,
// comparing normalized text.
func (p Product) OffersSubtype(declared string) bool {
	want := dedupe.Normalize(declared)
	if want == "" {
		return false
	}
	for _, subtype := range p.Subtypes {
		if strings.Contains(dedupe.Normalize(subtype), want) {
			return true
		}
	}
	return false
}

// DedupeFields is the view of p compared by the product duplicate policy.
func (p Product) DedupeFields() dedupe.Fields {
	return dedupe.Fields{
		dedupe.FieldName:     dedupe.Text(p.Name),
		dedupe.FieldSubtypes: dedupe.List(p.Subtypes...),
	}
}
