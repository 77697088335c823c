package domain

import (
	"context"
	"errors"
	"time"

	"github.com/ynmsafety/ynmops/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	Catalog(ctx context.Context) ([]Manufacturer, error)
}

// OfferingInput keeps the price raw so numeric strings are accepted.
type OfferingInput struct {
	ProductType string `json:"productType"`
	Price       any    `json:"price"`
}

type CreateRequest struct {
	Name            string          `json:"name"`
	Location        string          `json:"location"`
	Contact         string          `json:"contact"`
	ProductsOffered []OfferingInput `json:"productsOffered"`
}

type UpdateRequest struct {
	ID              string          `json:"-"`
	Name            *string         `json:"name"`
	Location        *string         `json:"location"`
	Contact         *string         `json:"contact"`
	ProductsOffered []OfferingInput `json:"productsOffered"`
}

type ListRequest struct {
	pagination.Pagination
	Name     string `form:"name"`
	Location string `form:"location"`
}

type ListResponse struct {
	pagination.PageInfo
	Manufacturers []Response `json:"manufacturers"`
}

type Response struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Location        string     `json:"location"`
	Contact         string     `json:"contact"`
	ProductsOffered []Offering `json:"productsOffered"`
	Slug            string     `json:"slug"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Conflict is the snapshot returned with a duplicate rejection. Matched is
// the existing offering whose product type overlapped the candidate's.
type Conflict struct {
	Response
	Matched *Offering `json:"matchedOffering,omitempty"`
}

var (
	ErrNotFound  = errors.New("not_found")
	ErrInvalidID = errors.New("invalid_id")
)
