package domain

import (
	"time"

	"github.com/ynmsafety/ynmops/internal/dedupe"
)

type Order struct {
	ID            int64     `gorm:"primaryKey"`
	Manufacturer  string    `gorm:"type:text;not null"`
	Product       string    `gorm:"type:text;not null"`
	ProductType   string    `gorm:"type:text;not null"`
	Quantity      float64   `gorm:"not null"`
	FromLocation  string    `gorm:"type:text;not null"`
	ToLocation    string    `gorm:"type:text;not null"`
	TransportCost float64   `gorm:"not null;default:0"`
	ProductCost   float64   `gorm:"not null;default:0"`
	TotalCost     float64   `gorm:"not null;default:0"`
	Fingerprint   string    `gorm:"type:text;not null;uniqueIndex:ux_orders_fingerprint"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

// DedupeFields is the view of o compared by the order duplicate policy.
func (o Order) DedupeFields() dedupe.Fields {
	return dedupe.Fields{
		dedupe.FieldManufacturer: dedupe.Text(o.Manufacturer),
		dedupe.FieldProduct:      dedupe.Text(o.Product),
		dedupe.FieldProductType:  dedupe.Text(o.ProductType),
		dedupe.FieldFromLocation: dedupe.Text(o.FromLocation),
		dedupe.FieldToLocation:   dedupe.Text(o.ToLocation),
		dedupe.FieldQuantity:     dedupe.Number(o.Quantity),
	}
}

func (o Order) ComputeFingerprint() string {
	return dedupe.Fingerprint(
		o.Manufacturer,
		o.Product,
		o.ProductType,
		o.FromLocation,
		o.ToLocation,
		dedupe.QuantityKey(o.Quantity),
	)
}
