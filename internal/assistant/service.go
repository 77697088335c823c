package assistant

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ynmsafety/ynmops/internal/cache"
	manufacturerdomain "github.com/ynmsafety/ynmops/internal/manufacturer/domain"
	productdomain "github.com/ynmsafety/ynmops/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const catalogKey = "catalog"

type Params struct {
	fx.In

	Log           *zap.Logger
	Products      productdomain.Service
	Manufacturers manufacturerdomain.Service
	Completer     Completer
	Cache         cache.Cache[string, []Document]
	CatalogTTL    time.Duration `name:"assistant.catalogTTL"`
}

type Service struct {
	log           *zap.Logger
	products      productdomain.Service
	manufacturers manufacturerdomain.Service
	completer     Completer
	cache         cache.Cache[string, []Document]
	ttl           time.Duration
}

func New(p Params) *Service {
	ttl := p.CatalogTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{
		log:           p.Log.Named("assistant.service"),
		products:      p.Products,
		manufacturers: p.Manufacturers,
		completer:     p.Completer,
		cache:         p.Cache,
		ttl:           ttl,
	}
}

func (s *Service) Ask(ctx context.Context, req AskRequest) (*Answer, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	docs, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	top := Rank(question, docs, TopK)

	text, err := s.completer.Complete(ctx, Query{Question: question, Context: top})
	if err != nil {
		s.log.Warn("completion failed", zap.Error(err))
		return nil, fmt.Errorf("assistant: %w", err)
	}
	if top == nil {
		top = []Document{}
	}
	return &Answer{Answer: text, Sources: top}, nil
}

// catalog returns the retrieval corpus, reloading it at most once per TTL.
func (s *Service) catalog(ctx context.Context) ([]Document, error) {
	if docs, ok := s.cache.Get(catalogKey); ok {
		return docs, nil
	}

	products, err := s.products.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	manufacturers, err := s.manufacturers.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(products)+len(manufacturers))
	for _, p := range products {
		docs = append(docs, productDocument(p))
	}
	for _, m := range manufacturers {
		docs = append(docs, manufacturerDocument(m))
	}
	s.cache.Set(catalogKey, docs, s.ttl)
	s.log.Debug("catalog loaded", zap.Int("documents", len(docs)))
	return docs, nil
}

// Invalidate drops the cached corpus.
func (s *Service) Invalidate() {
	s.cache.Delete(catalogKey)
}

func productDocument(p productdomain.Product) Document {
	body := fmt.Sprintf("Subtypes: %s. Unit: %s.", strings.Join(p.Subtypes, ", "), p.Unit)
	if p.Notes != "" {
		body += " " + p.Notes
	}
	return Document{
		Kind:  KindProduct,
		ID:    strconv.FormatInt(p.ID, 10),
		Title: p.Name,
		Body:  body,
	}
}

func manufacturerDocument(m manufacturerdomain.Manufacturer) Document {
	offers := make([]string, 0, len(m.ProductsOffered))
	for _, o := range m.ProductsOffered {
		offers = append(offers, fmt.Sprintf("%s at %s", o.ProductType, strconv.FormatFloat(o.Price, 'f', -1, 64)))
	}
	return Document{
		Kind:  KindManufacturer,
		ID:    strconv.FormatInt(m.ID, 10),
		Title: m.Name,
		Body:  fmt.Sprintf("Location: %s. Contact: %s. Offers: %s.", m.Location, m.Contact, strings.Join(offers, "; ")),
	}
}
