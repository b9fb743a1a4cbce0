package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	chatdomain "github.com/fundascope/sme-funding-bfa-go/internal/chat/domain"
	chatinfra "github.com/fundascope/sme-funding-bfa-go/internal/chat/infra"
	chatservice "github.com/fundascope/sme-funding-bfa-go/internal/chat/service"
	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/handler"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/cache"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/client"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/observability"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/resilience"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/supabase"
	"github.com/fundascope/sme-funding-bfa-go/internal/service"

	"go.uber.org/zap"
)

const catalogJSON = `[{
	"id": "lula-revolving",
	"provider": "Lula",
	"product_type": "Working Capital",
	"amount_min": 10000,
	"amount_max": 1000000,
	"min_years_trading": 1,
	"min_monthly_turnover": 50000,
	"vat_required": false,
	"provinces_allowed": [],
	"sector_exclusions": [],
	"speed_days_min": 3,
	"speed_days_max": 5,
	"active": true
}]`

// newMockSupabase serves a fixed funding catalog and an in-memory
// applicant_profiles table over the PostgREST surface the client uses.
func newMockSupabase(t *testing.T) *httptest.Server {
	t.Helper()

	var mu sync.Mutex
	profiles := map[string]string{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasPrefix(r.URL.Path, "/rest/v1/funding_products"):
			io.WriteString(w, catalogJSON)

		case strings.HasPrefix(r.URL.Path, "/rest/v1/applicant_profiles"):
			switch r.Method {
			case http.MethodGet:
				id := strings.TrimPrefix(r.URL.Query().Get("applicant_id"), "eq.")
				mu.Lock()
				row, ok := profiles[id]
				mu.Unlock()
				if !ok {
					io.WriteString(w, "[]")
					return
				}
				io.WriteString(w, "["+row+"]")
			case http.MethodPost:
				body, _ := io.ReadAll(r.Body)
				var row struct {
					ApplicantID string `json:"applicant_id"`
				}
				if err := json.Unmarshal(body, &row); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				mu.Lock()
				profiles[row.ApplicantID] = string(body)
				mu.Unlock()
				w.WriteHeader(http.StatusCreated)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// newMockExtractor recognises a few scripted utterances and returns the
// corresponding profile patches, the way the real extraction service would.
func newMockExtractor(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Utterance string         `json:"utterance"`
			Profile   domain.Profile `json:"profile"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		patch := domain.ProfilePatch{}
		lower := strings.ToLower(req.Utterance)
		switch {
		case strings.Contains(lower, "bakery"):
			patch.Industry = domain.String("food")
			patch.YearsTrading = domain.Float(4)
			patch.MonthlyTurnover = domain.Float(500000)
			patch.AmountRequested = domain.Float(250000)
		case strings.Contains(lower, "gauteng"):
			patch.Province = domain.String("Gauteng")
			patch.VATRegistered = domain.Bool(true)
		case strings.Contains(lower, "registered"):
			patch.SARegistered = domain.Bool(true)
			patch.SADirector = domain.Bool(true)
		case strings.Contains(lower, "statements"):
			patch.BankStatements = domain.Bool(true)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"patch": patch})
	}))
}

func newTestStack(t *testing.T, supabaseURL, extractorURL, responderURL string) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("test")
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	supabaseClient := supabase.NewClient(httpClient, supabaseURL, "anon", "service", cb, cfg, logger)
	extractorClient := client.NewExtractorClient(httpClient, extractorURL, cb, cfg)
	responderClient := chatinfra.NewResponderClient(httpClient, responderURL, cb, cfg)

	matchSvc := service.NewMatchService(
		supabaseClient,
		supabaseClient,
		cache.New[[]domain.Product](5*time.Minute),
		metrics,
		logger,
	)
	profileSvc := service.NewProfileService(supabaseClient, logger)
	chatSvc := chatservice.NewChatService(
		supabaseClient,
		extractorClient,
		responderClient,
		cache.New[*chatdomain.SessionState](30*time.Minute),
		[]chatservice.ChatStrategy{
			chatservice.NewQuestionStrategy(logger),
			chatservice.NewResultsStrategy(matchSvc, logger),
		},
		logger,
	)

	return handler.NewRouter(matchSvc, profileSvc, chatSvc, nil, logger)
}

func postChat(t *testing.T, router http.Handler, applicantID, message string) chatdomain.ChatResponse {
	t.Helper()

	body, _ := json.Marshal(chatdomain.ChatRequest{Message: message})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/"+applicantID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("chat: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var resp chatdomain.ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("chat: decode response: %v", err)
	}
	return resp
}

// TestIntegration_ConversationToMatch walks a full applicant journey:
// chat answers fill the profile group by group until the matcher runs.
func TestIntegration_ConversationToMatch(t *testing.T) {
	supabaseServer := newMockSupabase(t)
	defer supabaseServer.Close()

	extractorServer := newMockExtractor(t)
	defer extractorServer.Close()

	responderServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"reply": "We compare funding offers for SMEs.", "tokens_used": 120}`)
	}))
	defer responderServer.Close()

	router := newTestStack(t, supabaseServer.URL, extractorServer.URL, responderServer.URL)

	// Turn 1: core facts arrive, expect the registration questions next.
	resp := postChat(t, router, "app-int-1", "We run a bakery and need working capital")
	if resp.Done {
		t.Fatal("turn 1: conversation should not be done yet")
	}
	if !strings.Contains(resp.Reply, "registered in South Africa") {
		t.Fatalf("turn 1: expected the registration question, got '%s'", resp.Reply)
	}

	// Turn 2: registration facts.
	resp = postChat(t, router, "app-int-1", "Yes, we are registered and the owner is a South African director")
	if !strings.Contains(resp.Reply, "bank statements") {
		t.Fatalf("turn 2: expected the bank statements question, got '%s'", resp.Reply)
	}

	// Turn 3: bank statements.
	resp = postChat(t, router, "app-int-1", "Sure, I can send statements")
	if !strings.Contains(resp.Reply, "province") {
		t.Fatalf("turn 3: expected the province question, got '%s'", resp.Reply)
	}

	// Turn 4: province and VAT complete the gating facts.
	resp = postChat(t, router, "app-int-1", "We operate from Gauteng and are VAT registered")
	if !resp.Done {
		t.Fatalf("turn 4: expected the conversation to be done, got '%s'", resp.Reply)
	}
	if resp.Buckets == nil || len(resp.Buckets.Qualified) != 1 {
		t.Fatal("turn 4: expected one qualified product")
	}
	if resp.Buckets.Qualified[0].Provider != "Lula" {
		t.Errorf("turn 4: expected provider 'Lula', got '%s'", resp.Buckets.Qualified[0].Provider)
	}
}

// TestIntegration_GeneralQuestionGoesToResponder checks the default path.
func TestIntegration_GeneralQuestionGoesToResponder(t *testing.T) {
	supabaseServer := newMockSupabase(t)
	defer supabaseServer.Close()

	extractorServer := newMockExtractor(t)
	defer extractorServer.Close()

	responderServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"reply": "We compare funding offers for SMEs.", "tokens_used": 120}`)
	}))
	defer responderServer.Close()

	router := newTestStack(t, supabaseServer.URL, extractorServer.URL, responderServer.URL)

	resp := postChat(t, router, "app-int-2", "what is this service exactly?")
	if resp.Reply != "We compare funding offers for SMEs." {
		t.Errorf("expected the responder's reply, got '%s'", resp.Reply)
	}
}

// TestIntegration_DirectMatch exercises POST /v1/match against the
// Supabase-backed catalog, bypassing the chat flow.
func TestIntegration_DirectMatch(t *testing.T) {
	supabaseServer := newMockSupabase(t)
	defer supabaseServer.Close()

	extractorServer := newMockExtractor(t)
	defer extractorServer.Close()

	responderServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"reply": "ok"}`)
	}))
	defer responderServer.Close()

	router := newTestStack(t, supabaseServer.URL, extractorServer.URL, responderServer.URL)

	profile := domain.Profile{
		Industry:        domain.String("retail"),
		YearsTrading:    domain.Float(4),
		MonthlyTurnover: domain.Float(500000),
		AmountRequested: domain.Float(250000),
		VATRegistered:   domain.Bool(true),
		Province:        domain.String("Gauteng"),
		SARegistered:    domain.Bool(true),
		SADirector:      domain.Bool(true),
		BankStatements:  domain.Bool(true),
	}
	body, _ := json.Marshal(profile)

	req := httptest.NewRequest(http.MethodPost, "/v1/match", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var run domain.MatchRun
	if err := json.NewDecoder(rec.Body).Decode(&run); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !run.Complete {
		t.Error("expected a complete run")
	}
	if len(run.Buckets.Qualified) != 1 {
		t.Fatalf("expected 1 qualified product, got %d", len(run.Buckets.Qualified))
	}
}
