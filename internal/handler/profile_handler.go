package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Profiles — GET/PATCH /v1/applicants/{applicantId}/profile
// ============================================================

func getProfileHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/applicants/{applicantId}/profile")
		defer span.End()

		applicantID := chi.URLParam(r, "applicantId")
		if applicantID == "" {
			writeError(w, http.StatusBadRequest, "applicant_id is required")
			return
		}
		span.SetAttributes(attribute.String("applicant.id", applicantID))

		profile, err := svc.GetProfile(ctx, applicantID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

// patchProfileHandler merges a sparse patch into the stored profile.
// Fields the applicant already answered are never overwritten.
func patchProfileHandler(svc *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/applicants/{applicantId}/profile")
		defer span.End()

		applicantID := chi.URLParam(r, "applicantId")
		if applicantID == "" {
			writeError(w, http.StatusBadRequest, "applicant_id is required")
			return
		}
		span.SetAttributes(attribute.String("applicant.id", applicantID))

		var patch domain.ProfilePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		merged, err := svc.PatchProfile(ctx, applicantID, patch)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, merged)
	}
}
