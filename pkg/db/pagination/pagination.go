package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
)

const MaxPageSize = 250

var ErrInvalidPageToken = errors.New("invalid_page_token")

// Pagination is a keyset page request. A zero PageSize means no limit.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

type Cursor struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"nextPageToken,omitempty"`
	HasMore       bool   `json:"hasMore"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return nil, ErrInvalidPageToken
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, ErrInvalidPageToken
	}
	return &cursor, nil
}

// Apply orders stmt newest first and restricts it to the requested page. It
// fetches one extra row so Page can tell whether more rows exist.
func Apply(stmt *gorm.DB, page Pagination) (*gorm.DB, error) {
	stmt = stmt.Order("created_at desc, id desc")
	if page.PageToken != "" {
		cursor, err := DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, ErrInvalidPageToken
		}
		id, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return nil, ErrInvalidPageToken
		}
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
	}
	if size := Size(page); size > 0 {
		stmt = stmt.Limit(size + 1)
	}
	return stmt, nil
}

// Size clamps the requested page size.
func Size(page Pagination) int {
	switch {
	case page.PageSize <= 0:
		return 0
	case page.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return page.PageSize
	}
}

// Page trims the extra row fetched by Apply and builds the next token.
func Page[T any](items []T, page Pagination, cursorOf func(T) Cursor) ([]T, PageInfo) {
	size := Size(page)
	if size == 0 || len(items) <= size {
		return items, PageInfo{}
	}
	items = items[:size]
	token, err := EncodeCursor(cursorOf(items[len(items)-1]))
	if err != nil {
		return items, PageInfo{}
	}
	return items, PageInfo{NextPageToken: token, HasMore: true}
}
