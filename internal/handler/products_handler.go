package handler

import (
	"net/http"

	"github.com/fundascope/sme-funding-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Catalog — GET /v1/products, POST /v1/admin/catalog/reload
// ============================================================

func listProductsHandler(svc *service.MatchService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/products")
		defer span.End()

		products, err := svc.ListProducts(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, products)
	}
}

func getProductHandler(svc *service.MatchService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/products/{productId}")
		defer span.End()

		productID := chi.URLParam(r, "productId")
		span.SetAttributes(attribute.String("product.id", productID))

		product, err := svc.GetProduct(ctx, productID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, product)
	}
}

// catalogReloadHandler drops the catalog cache and refetches it.
// Guarded by the admin key, presented in the X-Admin-Key header.
func catalogReloadHandler(svc *service.MatchService, authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/catalog/reload")
		defer span.End()

		if err := authSvc.VerifyAdminKey(r.Header.Get("X-Admin-Key")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		count, err := svc.ReloadCatalog(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "reloaded",
			"products": count,
		})
	}
}

// productDeactivateHandler retires a product from the catalog.
// Guarded by the same admin key as the reload route.
func productDeactivateHandler(svc *service.MatchService, authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/products/{productId}/deactivate")
		defer span.End()

		if err := authSvc.VerifyAdminKey(r.Header.Get("X-Admin-Key")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		productID := chi.URLParam(r, "productId")
		span.SetAttributes(attribute.String("product.id", productID))

		if err := svc.DeactivateProduct(ctx, productID); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "deactivated",
			"productId": productID,
		})
	}
}
