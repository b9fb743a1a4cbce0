// Package infra holds the HTTP client for the responder service.
package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fundascope/sme-funding-bfa-go/internal/chat/domain"
	maindomain "github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("chat/infra")

// ResponderClient calls the responder service (POST /v1/respond), which
// phrases conversational replies the deterministic flow cannot produce.
type ResponderClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewResponderClient creates the client for the responder service.
// baseURL is the service root, without /v1/respond.
func NewResponderClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ResponderClient {
	return &ResponderClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// Respond sends a message to the responder and returns its reply.
// Calls go through the circuit breaker and retry with backoff, so a
// responder outage fails fast instead of piling up requests.
func (c *ResponderClient) Respond(ctx context.Context, req *domain.ResponderRequest) (*domain.ResponderResponse, error) {
	ctx, span := tracer.Start(ctx, "ResponderClient.Respond")
	defer span.End()
	span.SetAttributes(attribute.String("applicant.id", req.ApplicantID))

	var responderResp domain.ResponderResponse

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := json.Marshal(req)
			if err != nil {
				return fmt.Errorf("marshal responder request: %w", err)
			}

			url := fmt.Sprintf("%s/v1/respond", c.baseURL)
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("create http request: %w", err)
			}
			httpReq.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(httpReq)
			if err != nil {
				return fmt.Errorf("http call to responder: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("responder /v1/respond returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&responderResp)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return &responderResp, nil
	})

	if err != nil {
		return nil, &maindomain.ErrExternalService{Service: "responder", Err: err}
	}

	return result.(*domain.ResponderResponse), nil
}
