// Package handler implements the POST /v1/chat/{applicantId} route, the
// conversational entry point of the assistant.
//
// The handler is thin: it validates the body and delegates to the
// ChatService, which does extraction, profile merging and strategy
// routing. POST is used rather than GET because reverse proxies strip
// bodies from GET requests.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fundascope/sme-funding-bfa-go/internal/chat/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/chat/service"
	maindomain "github.com/fundascope/sme-funding-bfa-go/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("chat/handler")

// ChatHandler returns the http.HandlerFunc for POST /v1/chat/{applicantId}.
//
// Request:
//
//	Content-Type: application/json
//	Body: {"message": "We are a bakery in Gauteng, trading 4 years"}
//
// Response (200 OK):
//
//	{"reply": "...", "profile": {...}, "done": false}
//
// Once every gating question is answered the response also carries the
// match buckets and levers, with done=true.
func ChatHandler(chatSvc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/chat")
		defer span.End()

		applicantID := chi.URLParam(r, "applicantId")
		if applicantID == "" {
			applicantID = "anonymous"
		}
		span.SetAttributes(attribute.String("applicant.id", applicantID))

		var req domain.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: expected {\"message\": \"your message\"}")
			return
		}

		if req.Message == "" {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}

		resp, err := chatSvc.ProcessMessage(ctx, applicantID, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		resp.MessageID = uuid.New().String()

		writeJSON(w, http.StatusOK, resp)
	}
}

// writeJSON serialises data as JSON onto the response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a standard error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleServiceError maps domain errors onto HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	switch e := err.(type) {
	case *maindomain.ErrExternalService:
		logger.Error("external service error", zap.String("service", e.Service), zap.Error(e.Err))
		writeError(w, http.StatusBadGateway, "external service unavailable: "+e.Service)
	case *maindomain.ErrNotFound:
		writeError(w, http.StatusNotFound, e.Error())
	case *maindomain.ErrValidation:
		writeError(w, http.StatusUnprocessableEntity, e.Error())
	default:
		logger.Error("unexpected error in chat handler", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
