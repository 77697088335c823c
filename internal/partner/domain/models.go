package domain

import (
	"strings"
	"time"
)

// Kind separates the partner books that share one table.
type Kind string

const (
	KindDealer   Kind = "dealer"
	KindImporter Kind = "importer"
	KindCustomer Kind = "customer"
)

// Kinds lists every partner kind in route order.
var Kinds = []Kind{KindDealer, KindImporter, KindCustomer}

// Plural is the collection name used in routes.
func (k Kind) Plural() string { return string(k) + "s" }

// Label is the capitalized kind, e.g. "Dealer".
func (k Kind) Label() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindDealer, KindImporter, KindCustomer:
		return k, true
	}
	return "", false
}

type Partner struct {
	ID        int64     `gorm:"primaryKey"`
	Kind      Kind      `gorm:"type:text;not null;index"`
	Name      string    `gorm:"type:text;not null"`
	Location  string    `gorm:"type:text;not null"`
	Contact   string    `gorm:"type:text;not null"`
	Email     string    `gorm:"type:text;not null;default:''"`
	Notes     string    `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Partner) TableName() string { return "partners" }
