package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/flow"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/observability"
	"github.com/fundascope/sme-funding-bfa-go/internal/matching"
	"github.com/fundascope/sme-funding-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/match")

const catalogCacheKey = "catalog"

// MatchService orchestrates catalog fetching, matching, and lever
// computation. The catalog is cached with a TTL so a match run does
// not hit the store on every request.
type MatchService struct {
	catalog  port.CatalogStore
	profiles port.ProfileStore
	cache    port.Cache[[]domain.Product]
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewMatchService creates the match service with all dependencies injected.
func NewMatchService(
	catalog port.CatalogStore,
	profiles port.ProfileStore,
	cache port.Cache[[]domain.Product],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *MatchService {
	return &MatchService{
		catalog:  catalog,
		profiles: profiles,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
	}
}

// ListProducts returns the funding catalog, served from cache when fresh.
func (s *MatchService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "MatchService.ListProducts")
	defer span.End()

	if cached, ok := s.cache.Get(catalogCacheKey); ok {
		s.metrics.IncrCacheHit("catalog")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("catalog")

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		s.metrics.IncrExternalError("catalog")
		return nil, fmt.Errorf("catalog fetch: %w", err)
	}
	s.cache.Set(catalogCacheKey, products)
	return products, nil
}

// GetProduct returns a single catalog product by id, from cache when
// possible.
func (s *MatchService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "MatchService.GetProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID))

	if cached, ok := s.cache.Get(catalogCacheKey); ok {
		for _, p := range cached {
			if p.ID == productID {
				s.metrics.IncrCacheHit("catalog")
				return &p, nil
			}
		}
	}
	s.metrics.IncrCacheMiss("catalog")

	return s.catalog.GetProduct(ctx, productID)
}

// ReloadCatalog drops the cached catalog and fetches it fresh.
// Returns the number of products loaded.
func (s *MatchService) ReloadCatalog(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "MatchService.ReloadCatalog")
	defer span.End()

	s.cache.Delete(catalogCacheKey)
	products, err := s.ListProducts(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Info("catalog reloaded", zap.Int("products", len(products)))
	return len(products), nil
}

// DeactivateProduct retires a product from matching and drops the cached
// catalog so the next run works off the updated table.
func (s *MatchService) DeactivateProduct(ctx context.Context, productID string) error {
	ctx, span := tracer.Start(ctx, "MatchService.DeactivateProduct")
	defer span.End()

	if err := s.catalog.DeactivateProduct(ctx, productID); err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	s.cache.Delete(catalogCacheKey)

	s.logger.Info("product deactivated", zap.String("productId", productID))
	return nil
}

// MatchProfile runs the matcher over an ad-hoc profile and returns the
// buckets plus improvement levers. Implements the chat slice's
// MatchRunner port.
func (s *MatchService) MatchProfile(ctx context.Context, profile domain.Profile) (domain.Buckets, []string, error) {
	ctx, span := tracer.Start(ctx, "MatchService.MatchProfile")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("match", time.Since(start))
	}()

	products, err := s.ListProducts(ctx)
	if err != nil {
		s.metrics.IncrMatchRun("error")
		return domain.Buckets{}, nil, err
	}

	buckets, invalid := matching.MatchAll(profile, products)
	for _, ierr := range invalid {
		s.logger.Warn("skipping invalid catalog product", zap.Error(ierr))
	}

	s.metrics.RecordMatchOutcomes(len(buckets.Qualified), len(buckets.NeedMoreInfo), len(buckets.NotQualified), len(invalid))
	s.metrics.IncrMatchRun("ok")

	// Levers only make sense once every gating question is answered and
	// the qualified list is still thin.
	var levers []string
	if flow.HasHardRequirements(profile) && len(buckets.Qualified) < matching.QualifiedTarget {
		levers = matching.ComputeLevers(profile, buckets)
	}

	span.SetAttributes(
		attribute.Int("match.qualified", len(buckets.Qualified)),
		attribute.Int("match.need_more_info", len(buckets.NeedMoreInfo)),
		attribute.Int("match.not_qualified", len(buckets.NotQualified)),
	)

	return buckets, levers, nil
}

// Run executes a full match pass for a profile and wraps the outcome in
// the API-facing MatchRun, including flow status.
func (s *MatchService) Run(ctx context.Context, profile domain.Profile) (*domain.MatchRun, error) {
	buckets, levers, err := s.MatchProfile(ctx, profile)
	if err != nil {
		return nil, err
	}

	run := &domain.MatchRun{
		Buckets:     buckets,
		Levers:      levers,
		Complete:    flow.HasHardRequirements(profile),
		ProcessedAt: time.Now(),
	}
	if !run.Complete {
		if q, ok := flow.NextQuestionGroup(profile); ok {
			run.NextQuestion = q
		}
	}
	return run, nil
}

// RunForApplicant loads a stored profile and the catalog concurrently,
// then executes a full match pass.
func (s *MatchService) RunForApplicant(ctx context.Context, applicantID string) (*domain.MatchRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "MatchService.RunForApplicant")
	defer span.End()
	span.SetAttributes(attribute.String("applicant.id", applicantID))

	var profile *domain.Profile

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.profiles.GetApplicantProfile(gCtx, applicantID)
		if err != nil {
			s.logger.Error("failed to fetch applicant profile",
				zap.String("applicant_id", applicantID),
				zap.Error(err),
			)
			s.metrics.IncrExternalError("profile")
			return fmt.Errorf("profile fetch: %w", err)
		}
		profile = p
		return nil
	})

	// Warm the catalog in parallel; the match pass afterwards will hit
	// the cache.
	g.Go(func() error {
		_, err := s.ListProducts(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	run, err := s.Run(ctx, *profile)
	if err != nil {
		return nil, err
	}
	run.ApplicantID = applicantID
	return run, nil
}

// MatchingSnapshot exposes aggregate matching counters for the
// metrics endpoint.
func (s *MatchService) MatchingSnapshot() *domain.MatchingMetrics {
	return s.metrics.GetMatchingSnapshot()
}
