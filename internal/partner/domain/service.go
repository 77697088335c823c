package domain

import (
	"context"
	"errors"
	"time"

	"github.com/ynmsafety/ynmops/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, kind Kind, req CreateRequest) (*Response, error)
	List(ctx context.Context, kind Kind, req ListRequest) (ListResponse, error)
	Get(ctx context.Context, kind Kind, id string) (*Response, error)
	Update(ctx context.Context, kind Kind, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, kind Kind, id string) error
}

type CreateRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
	Email    string `json:"email"`
	Notes    string `json:"notes"`
}

type UpdateRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Contact  *string `json:"contact"`
	Email    *string `json:"email"`
	Notes    *string `json:"notes"`
}

type ListRequest struct {
	pagination.Pagination
	Name     string `form:"name"`
	Location string `form:"location"`
}

type ListResponse struct {
	pagination.PageInfo
	Partners []Response `json:"partners"`
}

type Response struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var (
	ErrInvalidKind = errors.New("invalid_kind")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
)
