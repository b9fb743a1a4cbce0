package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/flow"
	"github.com/fundascope/sme-funding-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Matching — POST /v1/match, GET /v1/applicants/{applicantId}/matches
// ============================================================

// matchHandler runs the matcher over a profile supplied in the body.
// The profile does not have to be complete: a partial profile comes
// back with provisional buckets and the next question to ask.
func matchHandler(svc *service.MatchService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/match")
		defer span.End()

		var profile domain.Profile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: expected a profile object")
			return
		}

		run, err := svc.Run(ctx, profile)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, run)
	}
}

// applicantMatchesHandler runs the matcher over a stored profile.
func applicantMatchesHandler(svc *service.MatchService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/applicants/{applicantId}/matches")
		defer span.End()

		applicantID := chi.URLParam(r, "applicantId")
		if applicantID == "" {
			writeError(w, http.StatusBadRequest, "applicant_id is required")
			return
		}
		span.SetAttributes(attribute.String("applicant.id", applicantID))

		run, err := svc.RunForApplicant(ctx, applicantID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, run)
	}
}

// nextQuestionHandler answers "what should I ask next" for a profile
// supplied in the body, without running the matcher. Stateless helper
// for frontends that drive their own conversation.
func nextQuestionHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/flow/next-question")
		defer span.End()

		var profile domain.Profile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: expected a profile object")
			return
		}

		question, pending := flow.NextQuestionGroup(profile)
		writeJSON(w, http.StatusOK, map[string]any{
			"question":            question,
			"complete":            !pending,
			"hasHardRequirements": flow.HasHardRequirements(profile),
		})
	}
}

// matchingMetricsHandler exposes the aggregate matching counters.
func matchingMetricsHandler(svc *service.MatchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.MatchingSnapshot())
	}
}
