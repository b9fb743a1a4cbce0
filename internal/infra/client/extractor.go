// Package client holds HTTP clients for the external services the BFA
// depends on: the extraction service and the conversational responder.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// ExtractRequest is the payload sent to the extraction service.
// The current profile is included so the extractor only returns
// facts it has not seen before.
type ExtractRequest struct {
	Utterance string         `json:"utterance"`
	Profile   domain.Profile `json:"profile"`
}

// ExtractResponse carries the sparse patch produced by the extractor.
type ExtractResponse struct {
	Patch domain.ProfilePatch `json:"patch"`
}

// ExtractorClient calls the extraction service (NLP over applicant messages).
type ExtractorClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewExtractorClient creates a new ExtractorClient.
func NewExtractorClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ExtractorClient {
	return &ExtractorClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// Extract sends an applicant utterance plus the known profile and returns
// the patch of newly learned fields. An utterance the extractor cannot
// use yields an empty patch, not an error.
func (c *ExtractorClient) Extract(ctx context.Context, utterance string, profile domain.Profile) (domain.ProfilePatch, error) {
	ctx, span := tracer.Start(ctx, "ExtractorClient.Extract")
	defer span.End()
	span.SetAttributes(attribute.Int("utterance.length", len(utterance)))

	var extractResp ExtractResponse

	_, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := json.Marshal(ExtractRequest{Utterance: utterance, Profile: profile})
			if err != nil {
				return err
			}

			url := fmt.Sprintf("%s/v1/extract", c.baseURL)
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return err
			}
			httpReq.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(httpReq)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("extractor API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&extractResp)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return &extractResp, nil
	})

	if err != nil {
		return domain.ProfilePatch{}, &domain.ErrExternalService{Service: "extractor", Err: err}
	}

	return extractResp.Patch, nil
}
