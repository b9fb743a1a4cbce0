package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Funding catalog — read via PostgREST
// ============================================================

// supabaseProduct maps Supabase table columns to our domain.
type supabaseProduct struct {
	ID                 string   `json:"id"`
	Provider           string   `json:"provider"`
	ProductType        string   `json:"product_type"`
	AmountMin          float64  `json:"amount_min"`
	AmountMax          float64  `json:"amount_max"`
	MinYears           float64  `json:"min_years_trading"`
	MinMonthlyTurnover float64  `json:"min_monthly_turnover"`
	VATRequired        bool     `json:"vat_required"`
	ProvincesAllowed   []string `json:"provinces_allowed"`
	SectorExclusions   []string `json:"sector_exclusions"`
	SpeedDaysMin       int      `json:"speed_days_min"`
	SpeedDaysMax       int      `json:"speed_days_max"`
	CollateralRequired *bool    `json:"collateral_required"`
	SADirectorRequired *bool    `json:"sa_director_required"`
	Notes              string   `json:"notes"`
	Active             bool     `json:"active"`
}

func (r supabaseProduct) toDomain() domain.Product {
	return domain.Product{
		ID:                 r.ID,
		Provider:           r.Provider,
		ProductType:        domain.ProductType(r.ProductType),
		AmountMin:          r.AmountMin,
		AmountMax:          r.AmountMax,
		MinYears:           r.MinYears,
		MinMonthlyTurnover: r.MinMonthlyTurnover,
		VATRequired:        r.VATRequired,
		ProvincesAllowed:   r.ProvincesAllowed,
		SectorExclusions:   r.SectorExclusions,
		SpeedDays:          domain.SpeedDays{Min: r.SpeedDaysMin, Max: r.SpeedDaysMax},
		CollateralRequired: r.CollateralRequired,
		SADirectorRequired: r.SADirectorRequired,
		Notes:              r.Notes,
	}
}

// ListProducts fetches the active funding catalog from Supabase.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListProducts")
	defer span.End()

	var products []domain.Product

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := "funding_products?active=eq.true&order=provider.asc"
			body, err := c.doRequest(ctx, http.MethodGet, path)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				products = []domain.Product{}
				return nil
			}

			var rows []supabaseProduct
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode products: %w", err)
			}

			products = make([]domain.Product, 0, len(rows))
			for _, r := range rows {
				products = append(products, r.toDomain())
			}
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/catalog", Err: err}
	}

	span.SetAttributes(attribute.Int("catalog.size", len(products)))
	return products, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID))

	var product *domain.Product

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("funding_products?id=eq.%s&limit=1", productID)
			body, err := c.doRequest(ctx, http.MethodGet, path)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				return &domain.ErrNotFound{Resource: "product", ID: productID}
			}

			var rows []supabaseProduct
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode product: %w", err)
			}
			if len(rows) == 0 {
				return &domain.ErrNotFound{Resource: "product", ID: productID}
			}

			p := rows[0].toDomain()
			product = &p
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/catalog", Err: err}
	}

	return product, nil
}

// DeactivateProduct flags a product inactive so the matcher stops
// offering it. Rows are never deleted; the history stays queryable.
func (c *Client) DeactivateProduct(ctx context.Context, productID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeactivateProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID))

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("funding_products?id=eq.%s", productID)
			return c.doPatch(ctx, path, map[string]bool{"active": false})
		})
	})

	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/catalog", Err: err}
	}
	return nil
}
