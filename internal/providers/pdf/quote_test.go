package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQuote(t *testing.T) {
	doc, err := New().GenerateQuote(context.Background(), QuoteData{
		CompanyName:  "YNM Safety",
		QuoteNumber:  "Q-1",
		IssueDate:    "2026-03-14",
		Manufacturer: "Metro Barrier Works Co",
		FromLocation: "Nagpur",
		ToLocation:   "Mumbai",
		Items: []QuoteItem{
			{Description: "Crash Barrier (W-Beam)", Quantity: "120", Amount: "174060.00"},
		},
		TransportCost: "12500.00",
		Total:         "186560.00",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGenerateQuoteRequiresNumber(t *testing.T) {
	_, err := New().GenerateQuote(context.Background(), QuoteData{})
	assert.Error(t, err)
}
