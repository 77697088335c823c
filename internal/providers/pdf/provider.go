package pdf

import (
	"context"
)

// Provider renders order documents.
type Provider interface {
	GenerateQuote(ctx context.Context, data QuoteData) ([]byte, error)
}
