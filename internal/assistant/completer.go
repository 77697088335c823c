package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/ynmsafety/ynmops/internal/providers/delegate"
)

// HTTPCompleter posts the Query as JSON and reads {"answer": "..."}.
type HTTPCompleter struct {
	endpoint string
	client   *delegate.Client
}

func NewHTTPCompleter(endpoint string, client *delegate.Client) *HTTPCompleter {
	return &HTTPCompleter{endpoint: endpoint, client: client}
}

func (c *HTTPCompleter) Complete(ctx context.Context, q Query) (string, error) {
	var out struct {
		Answer string `json:"answer"`
	}
	if err := c.client.PostJSON(ctx, c.endpoint, q, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Answer), nil
}

// ExtractiveCompleter answers by listing the retrieved documents. Used when
// no completion backend is configured.
type ExtractiveCompleter struct{}

func (ExtractiveCompleter) Complete(_ context.Context, q Query) (string, error) {
	if len(q.Context) == 0 {
		return "I could not find anything in the catalog matching your question.", nil
	}
	var b strings.Builder
	b.WriteString("Here is what the catalog has:")
	for _, d := range q.Context {
		fmt.Fprintf(&b, "\n- %s (%s): %s", d.Title, d.Kind, d.Body)
	}
	return b.String(), nil
}
