// Package domain defines the types used by the conversational route
// POST /v1/chat/{applicantId}.
//
// The flow per message:
//  1. Caller sends the applicant's message
//  2. BFA asks the extraction service for newly learned profile facts
//  3. BFA merges the patch into the stored profile
//  4. A strategy decides what comes back: the next question, a results
//     summary with levers, or a responder-phrased general answer
package domain

import (
	maindomain "github.com/fundascope/sme-funding-bfa-go/internal/domain"
)

// ============================================================
// Chat — request/response between the caller and the BFA
// ============================================================

// ChatRequest is the body the caller sends on POST /v1/chat/{applicantId}.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is what the BFA returns to the caller. Buckets and Levers
// are only present once the applicant has answered every gating question.
type ChatResponse struct {
	MessageID string              `json:"messageId,omitempty"`
	Reply     string              `json:"reply"`
	Profile   maindomain.Profile  `json:"profile"`
	Buckets   *maindomain.Buckets `json:"buckets,omitempty"`
	Levers    []string            `json:"levers,omitempty"`
	Done      bool                `json:"done"`
}

// ============================================================
// Chat — request/response between the BFA and the responder
// ============================================================

// ResponderRequest is the payload the BFA sends to the responder service
// (POST /v1/respond). The responder phrases a natural-language reply for
// messages the deterministic flow cannot answer itself.
type ResponderRequest struct {
	Message     string `json:"message"`
	ApplicantID string `json:"applicant_id,omitempty"`

	// Context tells the responder what stage the conversation is in,
	// for example "general" or "results".
	Context string `json:"context,omitempty"`
}

// ResponderResponse is the responder's reply.
type ResponderResponse struct {
	Reply      string   `json:"reply"`
	Sources    []string `json:"sources,omitempty"`
	TokensUsed int      `json:"tokens_used"`
}

// ============================================================
// Session state — conversation-scoped memory
// ============================================================

// SessionState carries what has happened so far in one conversation.
// It exists so a question the applicant dodged is re-asked with
// different wording instead of being repeated verbatim.
type SessionState struct {
	// AskedQuestions records the exact question texts already put to
	// the applicant in this conversation.
	AskedQuestions []string

	// Exchanges counts the messages processed so far.
	Exchanges int
}

// Asked reports whether this exact question text was already asked.
func (s *SessionState) Asked(question string) bool {
	for _, q := range s.AskedQuestions {
		if q == question {
			return true
		}
	}
	return false
}

// RecordQuestion remembers a question that is about to be sent.
func (s *SessionState) RecordQuestion(question string) {
	if !s.Asked(question) {
		s.AskedQuestions = append(s.AskedQuestions, question)
	}
}

// ============================================================
// Strategy context — everything a strategy needs per message
// ============================================================

// ChatContext is assembled by the ChatService before delegating to a
// strategy: the merged profile, the patch the extractor produced for
// this message, and the running session state.
type ChatContext struct {
	ApplicantID    string
	Message        string
	DetectedIntent string
	Profile        maindomain.Profile
	Patch          maindomain.ProfilePatch
	Session        *SessionState
}
