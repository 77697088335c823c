package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/ynmsafety/ynmops/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	// ExportCSV writes every order, oldest first.
	ExportCSV(ctx context.Context, w io.Writer) error
	// Quote renders a quotation PDF for one order.
	Quote(ctx context.Context, id string) ([]byte, error)
}

// CreateRequest keeps numbers raw so numeric strings are accepted. A nil
// TotalCost is derived as TransportCost + ProductCost.
type CreateRequest struct {
	Manufacturer  string `json:"manufacturer"`
	Product       string `json:"product"`
	ProductType   string `json:"productType"`
	Quantity      any    `json:"quantity"`
	FromLocation  string `json:"fromLocation"`
	ToLocation    string `json:"toLocation"`
	TransportCost any    `json:"transportCost"`
	ProductCost   any    `json:"productCost"`
	TotalCost     any    `json:"totalCost"`
}

type UpdateRequest struct {
	ID            string  `json:"-"`
	Manufacturer  *string `json:"manufacturer"`
	Product       *string `json:"product"`
	ProductType   *string `json:"productType"`
	Quantity      any     `json:"quantity"`
	FromLocation  *string `json:"fromLocation"`
	ToLocation    *string `json:"toLocation"`
	TransportCost any     `json:"transportCost"`
	ProductCost   any     `json:"productCost"`
	TotalCost     any     `json:"totalCost"`
}

type ListRequest struct {
	pagination.Pagination
	Manufacturer string `form:"manufacturer"`
	Product      string `form:"product"`
}

type ListResponse struct {
	pagination.PageInfo
	Orders []Response `json:"orders"`
}

type Response struct {
	ID            string    `json:"id"`
	Manufacturer  string    `json:"manufacturer"`
	Product       string    `json:"product"`
	ProductType   string    `json:"productType"`
	Quantity      float64   `json:"quantity"`
	FromLocation  string    `json:"fromLocation"`
	ToLocation    string    `json:"toLocation"`
	TransportCost float64   `json:"transportCost"`
	ProductCost   float64   `json:"productCost"`
	TotalCost     float64   `json:"totalCost"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ExportRow is one line of the order CSV export.
type ExportRow struct {
	ID            string  `csv:"id"`
	CreatedAt     string  `csv:"created_at"`
	Manufacturer  string  `csv:"manufacturer"`
	Product       string  `csv:"product"`
	ProductType   string  `csv:"product_type"`
	Quantity      float64 `csv:"quantity"`
	FromLocation  string  `csv:"from_location"`
	ToLocation    string  `csv:"to_location"`
	TransportCost float64 `csv:"transport_cost"`
	ProductCost   float64 `csv:"product_cost"`
	TotalCost     float64 `csv:"total_cost"`
}

var (
	ErrNotFound  = errors.New("not_found")
	ErrInvalidID = errors.New("invalid_id")
)
