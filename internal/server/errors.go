package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ynmsafety/ynmops/internal/assistant"
	"github.com/ynmsafety/ynmops/internal/insertgate"
	manufacturerdomain "github.com/ynmsafety/ynmops/internal/manufacturer/domain"
	orderdomain "github.com/ynmsafety/ynmops/internal/order/domain"
	partnerdomain "github.com/ynmsafety/ynmops/internal/partner/domain"
	productdomain "github.com/ynmsafety/ynmops/internal/product/domain"
	"github.com/ynmsafety/ynmops/internal/providers/delegate"
	"github.com/ynmsafety/ynmops/internal/providers/extract"
	taskdomain "github.com/ynmsafety/ynmops/internal/task/domain"
	"github.com/ynmsafety/ynmops/internal/transport"
	"github.com/ynmsafety/ynmops/pkg/db/pagination"
	"gorm.io/gorm"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// conflictEnvelope always carries existing, null when the conflicting
// record could not be loaded.
type conflictEnvelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Existing any    `json:"existing"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrTooManyRequests    = errors.New("too_many_requests")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

// entityError names the resource a handler was working on, so not-found and
// bad-id responses can say which.
type entityError struct {
	entity string
	err    error
}

func (e *entityError) Error() string { return e.err.Error() }

func (e *entityError) Unwrap() error { return e.err }

func withEntity(entity string, err error) error {
	if err == nil {
		return nil
	}
	return &entityError{entity: entity, err: err}
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, body := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, body)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, any) {
	fail := func(status int, message string) (int, any) {
		return status, envelope{Success: false, Message: message}
	}
	if err == nil {
		return fail(http.StatusInternalServerError, "internal server error")
	}

	entity := "Resource"
	var ee *entityError
	if errors.As(err, &ee) {
		entity = ee.entity
	}

	var (
		fieldErr *insertgate.FieldError
		refErr   *insertgate.ReferenceError
		dupErr   *insertgate.DuplicateError
		persErr  *insertgate.PersistenceError
		upstream *delegate.StatusError
	)
	switch {
	case errors.As(err, &fieldErr):
		return fail(http.StatusBadRequest, fieldErr.Message)
	case errors.As(err, &refErr):
		return fail(http.StatusBadRequest, refErr.Error())
	case errors.As(err, &dupErr):
		return http.StatusConflict, conflictEnvelope{
			Success:  false,
			Message:  insertgate.DuplicateMessage,
			Existing: dupErr.Existing,
		}
	case errors.As(err, &persErr):
		return fail(http.StatusInternalServerError, persErr.Error())
	case isNotFoundError(err):
		return fail(http.StatusNotFound, fmt.Sprintf("%s not found", entity))
	case isInvalidIDError(err):
		return fail(http.StatusBadRequest, fmt.Sprintf("Invalid %s id", entity))
	case errors.Is(err, ErrInvalidRequest):
		return fail(http.StatusBadRequest, "Invalid request body")
	case errors.Is(err, pagination.ErrInvalidPageToken):
		return fail(http.StatusBadRequest, "Invalid page token")
	case errors.Is(err, assistant.ErrEmptyQuestion),
		errors.Is(err, extract.ErrNotPDF):
		return fail(http.StatusBadRequest, err.Error())
	case errors.Is(err, transport.ErrUnknownPlace):
		return fail(http.StatusBadRequest, "Location could not be found")
	case errors.Is(err, transport.ErrNoRoute):
		return fail(http.StatusBadRequest, "No route between the locations")
	case errors.Is(err, ErrUnauthorized):
		return fail(http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, ErrForbidden):
		return fail(http.StatusForbidden, "Forbidden")
	case errors.Is(err, ErrTooManyRequests):
		return fail(http.StatusTooManyRequests, "Too many requests, please try again later")
	case errors.Is(err, delegate.ErrNotConfigured),
		errors.Is(err, ErrServiceUnavailable):
		return fail(http.StatusServiceUnavailable, "Service unavailable")
	case errors.As(err, &upstream):
		return fail(http.StatusBadGateway, "Upstream service failed")
	default:
		return fail(http.StatusInternalServerError, "internal server error")
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, manufacturerdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, taskdomain.ErrNotFound),
		errors.Is(err, partnerdomain.ErrNotFound),
		errors.Is(err, partnerdomain.ErrInvalidKind),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isInvalidIDError(err error) bool {
	switch {
	case errors.Is(err, manufacturerdomain.ErrInvalidID),
		errors.Is(err, productdomain.ErrInvalidID),
		errors.Is(err, orderdomain.ErrInvalidID),
		errors.Is(err, taskdomain.ErrInvalidID),
		errors.Is(err, partnerdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

// classifyErrorForLog returns low-cardinality type and code labels.
func classifyErrorForLog(err error) (string, string) {
	if kind := insertgate.KindOf(err); kind != "" {
		return "insert_gate", string(kind)
	}
	status, _ := mapError(err)
	switch {
	case status == http.StatusNotFound:
		return "not_found", "not_found"
	case status == http.StatusTooManyRequests:
		return "rate_limited", "too_many_requests"
	case status >= http.StatusInternalServerError:
		return "internal_error", http.StatusText(status)
	default:
		return "client_error", http.StatusText(status)
	}
}
