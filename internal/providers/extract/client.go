// Package extract calls the document-extraction service that turns a product
// datasheet PDF into suggested product fields.
package extract

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ynmsafety/ynmops/internal/providers/delegate"
)

// MaxUploadSize bounds the accepted PDF size.
const MaxUploadSize = 10 << 20

var ErrNotPDF = errors.New("file must be a PDF")

// Extraction is a suggestion only; nothing is persisted.
type Extraction struct {
	Name     string   `json:"name"`
	Subtypes []string `json:"subtypes"`
	Unit     string   `json:"unit"`
	Notes    string   `json:"notes"`
}

type Client interface {
	Extract(ctx context.Context, filename string, r io.Reader) (*Extraction, error)
}

type HTTPClient struct {
	endpoint string
	client   *delegate.Client
}

func NewHTTPClient(endpoint string, client *delegate.Client) *HTTPClient {
	return &HTTPClient{endpoint: endpoint, client: client}
}

func (c *HTTPClient) Extract(ctx context.Context, filename string, r io.Reader) (*Extraction, error) {
	if c.endpoint == "" {
		return nil, delegate.ErrNotConfigured
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, ErrNotPDF
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, io.LimitReader(r, MaxUploadSize)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out Extraction
	if err := c.client.Do(req, &out); err != nil {
		return nil, err
	}
	out.Name = strings.TrimSpace(out.Name)
	out.Unit = strings.ToLower(strings.TrimSpace(out.Unit))
	out.Notes = strings.TrimSpace(out.Notes)
	if out.Subtypes == nil {
		out.Subtypes = []string{}
	}
	return &out, nil
}
