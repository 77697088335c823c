package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynmsafety/ynmops/internal/insertgate"
)

func TestConflictBodyKeepsNullExisting(t *testing.T) {
	status, body := mapError(&insertgate.DuplicateError{Entity: "product", Clause: "fingerprint"})
	assert.Equal(t, http.StatusConflict, status)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"Duplicate entry detected","existing":null}`, string(raw))
}

func TestErrorBodyOmitsExisting(t *testing.T) {
	status, body := mapError(&insertgate.FieldError{Field: "unit", Message: "unit is required"})
	assert.Equal(t, http.StatusBadRequest, status)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"unit is required"}`, string(raw))
}
