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
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

// CreateRequest carries free-form task text; its first line becomes the
// title. An empty Date means today.
type CreateRequest struct {
	AssignedTo string `json:"assignedTo"`
	Date       string `json:"date"`
	TaskText   string `json:"taskText"`
}

type UpdateRequest struct {
	ID         string  `json:"-"`
	AssignedTo *string `json:"assignedTo"`
	Date       *string `json:"date"`
	TaskText   *string `json:"taskText"`
}

type UpdateStatusRequest struct {
	ID         string `json:"-"`
	Status     string `json:"status"`
	StatusText string `json:"statusText"`
}

type ListRequest struct {
	pagination.Pagination
	AssignedTo string `form:"assignedTo"`
	Date       string `form:"date"`
	Status     string `form:"status"`
}

type ListResponse struct {
	pagination.PageInfo
	Tasks []Response `json:"tasks"`
}

type Response struct {
	ID            string        `json:"id"`
	AssignedTo    string        `json:"assignedTo"`
	Date          string        `json:"date"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	TaskText      string        `json:"taskText"`
	Status        Status        `json:"status"`
	StatusHistory []StatusEntry `json:"statusHistory"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

var (
	ErrNotFound  = errors.New("not_found")
	ErrInvalidID = errors.New("invalid_id")
)
