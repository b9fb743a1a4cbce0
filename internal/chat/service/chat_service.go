// Package service implements the ChatService and its strategies.
//
// The ChatService orchestrates POST /v1/chat/{applicantId}. Every message
// goes through the same pipeline: load the profile, run the extractor,
// merge and persist the patch, then route to a strategy. Which strategy
// wins depends on the detected intent:
//
//   - "question": gating facts are still missing, ask the next group
//   - "results":  the profile is complete, return buckets and levers
//   - "general":  the message is off the data path, forward to the responder
//
// Strategies are registered in order; the first one that accepts the
// intent handles the message. Anything unmatched falls through to the
// responder directly.
package service

import (
	"context"
	"errors"
	"strings"

	chatdomain "github.com/fundascope/sme-funding-bfa-go/internal/chat/domain"
	chatport "github.com/fundascope/sme-funding-bfa-go/internal/chat/port"
	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/flow"
	"github.com/fundascope/sme-funding-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var chatTracer = otel.Tracer("chat/service")

// ChatStrategy is the contract each conversation context implements.
type ChatStrategy interface {
	// CanHandle reports whether this strategy handles the given intent.
	CanHandle(intent string) bool

	// Handle processes the message within this strategy's context.
	Handle(ctx context.Context, chatCtx *chatdomain.ChatContext) (*chatdomain.ChatResponse, error)
}

// ChatService routes applicant messages through extraction, profile
// merging, and strategy selection.
type ChatService struct {
	profiles   port.ProfileStore
	extractor  port.Extractor
	responder  chatport.ResponderCaller
	sessions   port.Cache[*chatdomain.SessionState]
	strategies []ChatStrategy
	logger     *zap.Logger
}

// NewChatService creates the ChatService with injected dependencies.
// Strategy order matters: the first strategy accepting the intent wins.
func NewChatService(
	profiles port.ProfileStore,
	extractor port.Extractor,
	responder chatport.ResponderCaller,
	sessions port.Cache[*chatdomain.SessionState],
	strategies []ChatStrategy,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		profiles:   profiles,
		extractor:  extractor,
		responder:  responder,
		sessions:   sessions,
		strategies: strategies,
		logger:     logger,
	}
}

// ProcessMessage is the entry point for one chat message.
func (s *ChatService) ProcessMessage(ctx context.Context, applicantID string, req *chatdomain.ChatRequest) (*chatdomain.ChatResponse, error) {
	ctx, span := chatTracer.Start(ctx, "ChatService.ProcessMessage")
	defer span.End()
	span.SetAttributes(attribute.String("applicant.id", applicantID))

	// A first-time applicant has no stored profile. That is not an
	// error, the conversation simply starts from scratch.
	profile := domain.Profile{}
	if stored, err := s.profiles.GetApplicantProfile(ctx, applicantID); err == nil {
		profile = *stored
	} else {
		var notFound *domain.ErrNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	patch, err := s.extractor.Extract(ctx, req.Message, profile)
	if err != nil {
		return nil, err
	}

	merged := profile.Apply(patch)
	if !patch.Empty() {
		if err := s.profiles.SaveApplicantProfile(ctx, applicantID, merged); err != nil {
			return nil, err
		}
	}

	session, ok := s.sessions.Get(applicantID)
	if !ok || session == nil {
		session = &chatdomain.SessionState{}
	}
	session.Exchanges++

	intent := s.detectIntent(req.Message, merged, patch)

	s.logger.Info("chat message received",
		zap.String("applicant_id", applicantID),
		zap.String("intent", intent),
		zap.Bool("patch_empty", patch.Empty()),
		zap.Int("exchange", session.Exchanges),
	)

	chatCtx := &chatdomain.ChatContext{
		ApplicantID:    applicantID,
		Message:        req.Message,
		DetectedIntent: intent,
		Profile:        merged,
		Patch:          patch,
		Session:        session,
	}

	defer s.sessions.Set(applicantID, session)

	for _, strategy := range s.strategies {
		if strategy.CanHandle(intent) {
			return strategy.Handle(ctx, chatCtx)
		}
	}

	s.logger.Debug("no strategy matched, forwarding to responder",
		zap.String("intent", intent),
	)
	return s.defaultHandle(ctx, chatCtx)
}

// defaultHandle forwards the message straight to the responder service.
func (s *ChatService) defaultHandle(ctx context.Context, chatCtx *chatdomain.ChatContext) (*chatdomain.ChatResponse, error) {
	resp, err := s.responder.Respond(ctx, &chatdomain.ResponderRequest{
		Message:     chatCtx.Message,
		ApplicantID: chatCtx.ApplicantID,
		Context:     "general",
	})
	if err != nil {
		s.logger.Error("responder call failed",
			zap.String("applicant_id", chatCtx.ApplicantID),
			zap.Error(err),
		)
		return nil, err
	}

	return &chatdomain.ChatResponse{
		Reply:   resp.Reply,
		Profile: chatCtx.Profile,
	}, nil
}

// generalKeywords marks messages that are questions about the service
// rather than answers to our questions.
var generalKeywords = []string{
	"what is", "what's", "how does", "how do you", "why do you",
	"explain", "help", "who are you", "is this safe", "privacy",
}

// detectIntent decides which strategy should process the message.
// A message that taught the extractor nothing and reads like a question
// about the service goes to the responder; otherwise the profile's
// completeness decides between asking on and showing results.
func (s *ChatService) detectIntent(message string, merged domain.Profile, patch domain.ProfilePatch) string {
	if patch.Empty() {
		lower := strings.ToLower(message)
		for _, kw := range generalKeywords {
			if strings.Contains(lower, kw) {
				return "general"
			}
		}
	}

	if flow.HasHardRequirements(merged) {
		return "results"
	}
	return "question"
}
