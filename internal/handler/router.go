package handler

import (
	"net/http"
	"time"

	chathandler "github.com/fundascope/sme-funding-bfa-go/internal/chat/handler"
	chatservice "github.com/fundascope/sme-funding-bfa-go/internal/chat/service"
	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/observability"
	"github.com/fundascope/sme-funding-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(
	matchSvc *service.MatchService,
	profileSvc *service.ProfileService,
	chatSvc *chatservice.ChatService,
	authSvc *service.AuthService,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(matchSvc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.Handler())

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Matching
		r.Post("/match", matchHandler(matchSvc, logger))
		r.Post("/flow/next-question", nextQuestionHandler(logger))
		r.Get("/applicants/{applicantId}/matches", applicantMatchesHandler(matchSvc, logger))

		// Applicant profiles
		r.Get("/applicants/{applicantId}/profile", getProfileHandler(profileSvc, logger))
		if authSvc != nil {
			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(authSvc, logger))
				r.Patch("/applicants/{applicantId}/profile", patchProfileHandler(profileSvc, logger))
			})
		} else {
			r.Patch("/applicants/{applicantId}/profile", patchProfileHandler(profileSvc, logger))
		}

		// Conversational flow
		r.Post("/chat/{applicantId}", chathandler.ChatHandler(chatSvc, logger))
		r.Post("/chat", chathandler.ChatHandler(chatSvc, logger))

		// Catalog
		r.Get("/products", listProductsHandler(matchSvc, logger))
		r.Get("/products/{productId}", getProductHandler(matchSvc, logger))
		if authSvc != nil {
			r.Post("/admin/catalog/reload", catalogReloadHandler(matchSvc, authSvc, logger))
			r.Post("/admin/products/{productId}/deactivate", productDeactivateHandler(matchSvc, authSvc, logger))
		}

		// Metrics
		r.Get("/metrics/matching", matchingMetricsHandler(matchSvc))
	})

	return r
}

// ============================================================
// Probes
// ============================================================

func healthzHandler(matchSvc *service.MatchService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "bfa-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		start := time.Now()
		_, err := matchSvc.ListProducts(ctx)
		latency := time.Since(start).Milliseconds()
		status := "healthy"
		if err != nil {
			logger.Warn("healthz: catalog check failed", zap.Error(err))
			status = "degraded"
		}
		services = append(services, domain.ServiceHealth{
			Name: "catalog", Status: status, LatencyMs: latency, LastChecked: now,
		})

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
