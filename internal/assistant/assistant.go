// Package assistant answers free-text questions about the catalog. Retrieval
// happens here; prompt construction and the model call sit behind Completer.
package assistant

import (
	"context"
	"errors"
)

var ErrEmptyQuestion = errors.New("question is required")

const (
	KindProduct      = "product"
	KindManufacturer = "manufacturer"
)

// Document is one retrievable catalog entry.
type Document struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Query struct {
	Question string     `json:"question"`
	Context  []Document `json:"context"`
}

type Completer interface {
	Complete(ctx context.Context, q Query) (string, error)
}

type AskRequest struct {
	Question string `json:"question"`
}

type Answer struct {
	Answer  string     `json:"answer"`
	Sources []Document `json:"sources"`
}
