package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type QuoteData struct {
	CompanyName  string
	QuoteNumber  string
	IssueDate    string
	Manufacturer string
	FromLocation string
	ToLocation   string

	Items []QuoteItem

	TransportCost string
	Total         string
}

type QuoteItem struct {
	Description string
	Quantity    string
	Amount      string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateQuote(ctx context.Context, quote QuoteData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if quote.QuoteNumber == "" {
		return nil, fmt.Errorf("quote number is required")
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, quote.CompanyName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Quotation", props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Quote number: "+quote.QuoteNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+quote.IssueDate, props.Text{Top: 4}),
		),
		col.New(6).Add(
			text.New("Manufacturer", props.Text{Style: fontstyle.Bold, Align: align.Right}),
			text.New(quote.Manufacturer, props.Text{Top: 4, Align: align.Right}),
		),
	)

	m.AddRow(12,
		text.NewCol(6, "From: "+quote.FromLocation, props.Text{Size: 9}),
		text.NewCol(6, "To: "+quote.ToLocation, props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(10,
		text.NewCol(8, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(1, line.NewCol(12))

	for _, item := range quote.Items {
		m.AddRow(10,
			text.NewCol(8, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Quantity, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Transport", props.Text{Size: 9}),
		text.NewCol(2, quote.TransportCost, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, quote.Total, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
