package service

import (
	"context"

	chatdomain "github.com/fundascope/sme-funding-bfa-go/internal/chat/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/flow"

	"go.uber.org/zap"
)

// QuestionStrategy handles the data-gathering phase of a conversation.
// While gating facts are missing it asks the next question group, in
// the fixed order the flow package defines. A question the applicant
// already dodged once comes back in different words, never verbatim.
type QuestionStrategy struct {
	logger *zap.Logger
}

// NewQuestionStrategy creates the data-gathering strategy.
func NewQuestionStrategy(logger *zap.Logger) *QuestionStrategy {
	return &QuestionStrategy{logger: logger}
}

// CanHandle returns true for the "question" intent.
func (s *QuestionStrategy) CanHandle(intent string) bool {
	return intent == "question"
}

// Handle picks the next question for the applicant's current profile.
func (s *QuestionStrategy) Handle(ctx context.Context, chatCtx *chatdomain.ChatContext) (*chatdomain.ChatResponse, error) {
	_, span := chatTracer.Start(ctx, "QuestionStrategy.Handle")
	defer span.End()

	question, ok := flow.NextQuestionGroup(chatCtx.Profile)
	if !ok {
		// Intent detection routes complete profiles to results, so a
		// missing question here means only collateral-style refinements
		// remain. Close the loop politely rather than erroring.
		return &chatdomain.ChatResponse{
			Reply:   "Thanks, that covers everything I need for now.",
			Profile: chatCtx.Profile,
		}, nil
	}

	reply := question
	if chatCtx.Session.Asked(question) {
		reply = flow.Rephrase(question)
	}
	chatCtx.Session.RecordQuestion(question)

	// Acknowledge answers that actually moved the profile forward.
	if !chatCtx.Patch.Empty() {
		reply = "Thanks, noted. " + reply
	}

	s.logger.Debug("asking next question group",
		zap.String("applicant_id", chatCtx.ApplicantID),
		zap.Bool("rephrased", reply != question && chatCtx.Patch.Empty()),
	)

	return &chatdomain.ChatResponse{
		Reply:   reply,
		Profile: chatCtx.Profile,
	}, nil
}
