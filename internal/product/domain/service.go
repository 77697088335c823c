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
	// Catalog returns every product, oldest first.
	Catalog(ctx context.Context) ([]Product, error)
}

type CreateRequest struct {
	Name     string   `json:"name"`
	Subtypes []string `json:"subtypes"`
	Unit     string   `json:"unit"`
	Notes    string   `json:"notes"`
}

type UpdateRequest struct {
	ID       string   `json:"-"`
	Name     *string  `json:"name"`
	Subtypes []string `json:"subtypes"`
	Unit     *string  `json:"unit"`
	Notes    *string  `json:"notes"`
}

type ListRequest struct {
	pagination.Pagination
	Name string `form:"name"`
	Unit string `form:"unit"`
}

type ListResponse struct {
	pagination.PageInfo
	Products []Response `json:"products"`
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subtypes  []string  `json:"subtypes"`
	Unit      string    `json:"unit"`
	Notes     string    `json:"notes"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Conflict is the snapshot returned with a duplicate rejection.
// MatchedSubtype is the existing subtype a name_and_subtype match paired.
type Conflict struct {
	Response
	MatchedSubtype string `json:"matchedSubtype,omitempty"`
}

var (
	ErrNotFound  = errors.New("not_found")
	ErrInvalidID = errors.New("invalid_id")
)
