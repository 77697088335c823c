package domain

import (
	"time"

	"github.com/ynmsafety/ynmops/internal/dedupe"
	"gorm.io/datatypes"
)

// Offering is one product type a manufacturer supplies, with its unit price.
type Offering struct {
	ProductType string  `json:"productType"`
	Price       float64 `json:"price"`
}

type Manufacturer struct {
	ID              int64                         `gorm:"primaryKey"`
	Name            string                        `gorm:"type:text;not null"`
	Location        string                        `gorm:"type:text;not null"`
	Contact         string                        `gorm:"type:text;not null"`
	ProductsOffered datatypes.JSONSlice[Offering] `gorm:"not null"`
	Slug            string                        `gorm:"type:text;not null;index"`
	Fingerprint     string                        `gorm:"type:text;not null;uniqueIndex:ux_manufacturers_fingerprint"`
	CreatedAt       time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Manufacturer) TableName() string { return "manufacturers" }

func (m Manufacturer) ProductTypes() []string {
	types := make([]string, 0, len(m.ProductsOffered))
	for _, o := range m.ProductsOffered {
		types = append(types, o.ProductType)
	}
	return types
}

// DedupeFields is the view of m compared by the manufacturer duplicate policy.
func (m Manufacturer) DedupeFields() dedupe.Fields {
	return dedupe.Fields{
		dedupe.FieldName:         dedupe.Text(m.Name),
		dedupe.FieldProductTypes: dedupe.List(m.ProductTypes()...),
	}
}
