package extract

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynmsafety/ynmops/internal/providers/delegate"
)

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "datasheet.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4 fake", string(content))

		_, _ = w.Write([]byte(`{"name":" Crash Barrier ","subtypes":["W-Beam"],"unit":"RMT","notes":""}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, delegate.New("extractor", time.Second, nil))
	out, err := c.Extract(context.Background(), "datasheet.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, &Extraction{Name: "Crash Barrier", Subtypes: []string{"W-Beam"}, Unit: "rmt"}, out)
}

func TestExtractRejectsNonPDF(t *testing.T) {
	c := NewHTTPClient("http://unused", delegate.New("extractor", time.Second, nil))
	_, err := c.Extract(context.Background(), "photo.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestExtractNotConfigured(t *testing.T) {
	c := NewHTTPClient("", delegate.New("extractor", time.Second, nil))
	_, err := c.Extract(context.Background(), "a.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, delegate.ErrNotConfigured)
}
