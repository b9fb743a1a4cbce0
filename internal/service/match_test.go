package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/cache"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/observability"
	"github.com/fundascope/sme-funding-bfa-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockCatalogStore struct {
	products    []domain.Product
	err         error
	calls       int
	deactivated []string
}

func (m *mockCatalogStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	m.calls++
	return m.products, m.err
}

func (m *mockCatalogStore) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == productID {
			return &p, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "product", ID: productID}
}

func (m *mockCatalogStore) DeactivateProduct(_ context.Context, productID string) error {
	m.deactivated = append(m.deactivated, productID)
	return m.err
}

type mockProfileStore struct {
	profile *domain.Profile
	getErr  error
	saveErr error
	saved   *domain.Profile
}

func (m *mockProfileStore) GetApplicantProfile(_ context.Context, applicantID string) (*domain.Profile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.profile == nil {
		return nil, &domain.ErrNotFound{Resource: "profile", ID: applicantID}
	}
	return m.profile, nil
}

func (m *mockProfileStore) SaveApplicantProfile(_ context.Context, _ string, profile domain.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &profile
	return nil
}

// --- Fixtures ---

func testProduct() domain.Product {
	return domain.Product{
		ID:                 "lula-revolving",
		Provider:           "Lula",
		ProductType:        domain.ProductWorkingCapital,
		AmountMin:          10000,
		AmountMax:          1000000,
		MinYears:           1,
		MinMonthlyTurnover: 50000,
		SpeedDays:          domain.SpeedDays{Min: 3, Max: 5},
	}
}

func testProfile() domain.Profile {
	return domain.Profile{
		Industry:             domain.String("retail"),
		YearsTrading:         domain.Float(4),
		MonthlyTurnover:      domain.Float(500000),
		AmountRequested:      domain.Float(250000),
		VATRegistered:        domain.Bool(true),
		Province:             domain.String("Gauteng"),
		SARegistered:         domain.Bool(true),
		SADirector:           domain.Bool(true),
		BankStatements:       domain.Bool(true),
		CollateralAcceptable: domain.Bool(true),
		UrgencyDays:          domain.Int(14),
	}
}

func newMatchService(catalog *mockCatalogStore, profiles *mockProfileStore) *service.MatchService {
	return service.NewMatchService(
		catalog,
		profiles,
		cache.New[[]domain.Product](5*time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

// --- Tests ---

func TestMatchProfile_Success(t *testing.T) {
	catalog := &mockCatalogStore{products: []domain.Product{testProduct()}}
	svc := newMatchService(catalog, &mockProfileStore{})

	buckets, _, err := svc.MatchProfile(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(buckets.Qualified) != 1 {
		t.Fatalf("expected 1 qualified product, got %d", len(buckets.Qualified))
	}
	if buckets.Qualified[0].ID != "lula-revolving" {
		t.Errorf("expected 'lula-revolving', got '%s'", buckets.Qualified[0].ID)
	}
}

func TestMatchProfile_CatalogCached(t *testing.T) {
	catalog := &mockCatalogStore{products: []domain.Product{testProduct()}}
	svc := newMatchService(catalog, &mockProfileStore{})

	ctx := context.Background()
	if _, _, err := svc.MatchProfile(ctx, testProfile()); err != nil {
		t.Fatalf("first match: %v", err)
	}
	if _, _, err := svc.MatchProfile(ctx, testProfile()); err != nil {
		t.Fatalf("second match: %v", err)
	}

	if catalog.calls != 1 {
		t.Errorf("expected 1 catalog fetch, got %d", catalog.calls)
	}
}

func TestMatchProfile_CatalogError(t *testing.T) {
	catalog := &mockCatalogStore{err: errors.New("connection refused")}
	svc := newMatchService(catalog, &mockProfileStore{})

	_, _, err := svc.MatchProfile(context.Background(), testProfile())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestMatchProfile_SkipsInvalidProducts(t *testing.T) {
	broken := testProduct()
	broken.ID = ""
	catalog := &mockCatalogStore{products: []domain.Product{broken, testProduct()}}
	svc := newMatchService(catalog, &mockProfileStore{})

	buckets, _, err := svc.MatchProfile(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(buckets.Qualified) != 1 {
		t.Errorf("expected invalid product to be skipped, got %d qualified", len(buckets.Qualified))
	}
}

func TestMatchProfile_LeversWhenQualifiedThin(t *testing.T) {
	// One qualified product is below the target, so levers kick in.
	catalog := &mockCatalogStore{products: []domain.Product{testProduct()}}
	svc := newMatchService(catalog, &mockProfileStore{})

	_, levers, err := svc.MatchProfile(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(levers) == 0 {
		t.Fatal("expected levers when qualified count is below target")
	}
}

func TestMatchProfile_NoLeversWhileIncomplete(t *testing.T) {
	catalog := &mockCatalogStore{products: []domain.Product{testProduct()}}
	svc := newMatchService(catalog, &mockProfileStore{})

	partial := domain.Profile{
		YearsTrading:    domain.Float(4),
		MonthlyTurnover: domain.Float(500000),
		AmountRequested: domain.Float(250000),
	}

	_, levers, err := svc.MatchProfile(context.Background(), partial)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if levers != nil {
		t.Errorf("expected no levers for an incomplete profile, got %v", levers)
	}
}

func TestRun_IncompleteProfileCarriesNextQuestion(t *testing.T) {
	catalog := &mockCatalogStore{products: []domain.Product{testProduct()}}
	svc := newMatchService(catalog, &mockProfileStore{})

	partial := domain.Profile{
		Industry:        domain.String("retail"),
		YearsTrading:    domain.Float(4),
		MonthlyTurnover: domain.Float(500000),
		AmountRequested: domain.Float(250000),
	}

	run, err := svc.Run(context.Background(), partial)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if run.Complete {
		t.Error("expected run to be incomplete")
	}
	if run.NextQuestion == "" {
		t.Error("expected a next question for an incomplete profile")
	}
}

func TestRunForApplicant_Success(t *testing.T) {
	profile := testProfile()
	catalog := &mockCatalogStore{products: []domain.Product{testProduct()}}
	profiles := &mockProfileStore{profile: &profile}
	svc := newMatchService(catalog, profiles)

	run, err := svc.RunForApplicant(context.Background(), "app-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if run.ApplicantID != "app-123" {
		t.Errorf("expected applicant id 'app-123', got '%s'", run.ApplicantID)
	}
	if !run.Complete {
		t.Error("expected run to be complete")
	}
	if run.NextQuestion != "" {
		t.Errorf("expected no next question, got '%s'", run.NextQuestion)
	}
}

func TestRunForApplicant_ProfileNotFound(t *testing.T) {
	catalog := &mockCatalogStore{products: []domain.Product{testProduct()}}
	svc := newMatchService(catalog, &mockProfileStore{})

	_, err := svc.RunForApplicant(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestReloadCatalog_RefetchesAfterCacheDrop(t *testing.T) {
	catalog := &mockCatalogStore{products: []domain.Product{testProduct()}}
	svc := newMatchService(catalog, &mockProfileStore{})

	ctx := context.Background()
	if _, _, err := svc.MatchProfile(ctx, testProfile()); err != nil {
		t.Fatalf("warm up: %v", err)
	}

	n, err := svc.ReloadCatalog(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 product, got %d", n)
	}
	if catalog.calls != 2 {
		t.Errorf("expected 2 catalog fetches after reload, got %d", catalog.calls)
	}
}

func TestDeactivateProduct_DropsCachedCatalog(t *testing.T) {
	catalog := &mockCatalogStore{products: []domain.Product{testProduct()}}
	svc := newMatchService(catalog, &mockProfileStore{})

	ctx := context.Background()
	if _, _, err := svc.MatchProfile(ctx, testProfile()); err != nil {
		t.Fatalf("warm up: %v", err)
	}

	if err := svc.DeactivateProduct(ctx, "lula-revolving"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(catalog.deactivated) != 1 || catalog.deactivated[0] != "lula-revolving" {
		t.Errorf("expected the store to be told, got %v", catalog.deactivated)
	}

	// Cache was dropped, so the next match hits the store again.
	if _, _, err := svc.MatchProfile(ctx, testProfile()); err != nil {
		t.Fatalf("second match: %v", err)
	}
	if catalog.calls != 2 {
		t.Errorf("expected a fresh catalog fetch after deactivation, got %d calls", catalog.calls)
	}
}
