package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "42", CreatedAt: "2026-01-02T03:04:05.123Z"})
	require.NoError(t, err)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "42", cursor.ID)

	_, err = DecodeCursor("%%%")
	assert.ErrorIs(t, err, ErrInvalidPageToken)
}

func TestPage(t *testing.T) {
	items := []int{5, 4, 3}
	cursorOf := func(v int) Cursor { return Cursor{ID: string(rune('0' + v))} }

	got, info := Page(items, Pagination{PageSize: 2}, cursorOf)
	assert.Equal(t, []int{5, 4}, got)
	assert.True(t, info.HasMore)
	assert.NotEmpty(t, info.NextPageToken)

	got, info = Page(items, Pagination{}, cursorOf)
	assert.Len(t, got, 3)
	assert.False(t, info.HasMore)

	assert.Equal(t, MaxPageSize, Size(Pagination{PageSize: 1000}))
}
