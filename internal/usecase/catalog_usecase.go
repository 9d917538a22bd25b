package usecase

import (
	"context"
	"strings"

	"bodega/internal/domain/model"
	"bodega/internal/metrics"
	repo "bodega/internal/repository"

	"github.com/rs/zerolog"
)

// CatalogUsecase is the read side shared by the public catalog and the back office.
type CatalogUsecase struct {
	products repo.ProductRepository
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewCatalogUsecase(products repo.ProductRepository, m *metrics.Metrics, log zerolog.Logger) *CatalogUsecase {
	return &CatalogUsecase{products: products, metrics: m, log: log}
}

type CatalogQuery struct {
	Category    string
	InStockOnly bool
	// case-insensitive substring of name or code
	Q string
}

// List never fails: when the store cannot be read the catalog is shown empty.
func (u *CatalogUsecase) List(ctx context.Context, q CatalogQuery) []model.Product {
	category := strings.TrimSpace(q.Category)

	var (
		items []model.Product
		err   error
	)
	if category == "" {
		items, err = u.products.ListAll(ctx)
	} else {
		items, err = u.products.ListByCategory(ctx, category)
	}
	if err != nil {
		u.log.Warn().Err(err).Str("category", category).Msg("catalog read failed, showing empty catalog")
		u.metrics.ObserveCatalogDegraded()
		return []model.Product{}
	}

	needle := strings.ToLower(strings.TrimSpace(q.Q))
	out := make([]model.Product, 0, len(items))
	for _, p := range items {
		if q.InStockOnly && !p.InStock() {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Code), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}
