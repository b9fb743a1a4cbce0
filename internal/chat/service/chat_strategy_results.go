package service

import (
	"context"
	"fmt"
	"strings"

	chatdomain "github.com/fundascope/sme-funding-bfa-go/internal/chat/domain"
	chatport "github.com/fundascope/sme-funding-bfa-go/internal/chat/port"
	"github.com/fundascope/sme-funding-bfa-go/internal/domain"

	"go.uber.org/zap"
)

// ResultsStrategy handles conversations where every gating fact is
// known. It runs the matcher, summarises the buckets in plain language
// and appends any levers that could improve the outcome.
type ResultsStrategy struct {
	matcher chatport.MatchRunner
	logger  *zap.Logger
}

// NewResultsStrategy creates the results strategy.
func NewResultsStrategy(matcher chatport.MatchRunner, logger *zap.Logger) *ResultsStrategy {
	return &ResultsStrategy{matcher: matcher, logger: logger}
}

// CanHandle returns true for the "results" intent.
func (s *ResultsStrategy) CanHandle(intent string) bool {
	return intent == "results"
}

// Handle runs the match and phrases the outcome.
func (s *ResultsStrategy) Handle(ctx context.Context, chatCtx *chatdomain.ChatContext) (*chatdomain.ChatResponse, error) {
	ctx, span := chatTracer.Start(ctx, "ResultsStrategy.Handle")
	defer span.End()

	buckets, levers, err := s.matcher.MatchProfile(ctx, chatCtx.Profile)
	if err != nil {
		s.logger.Error("match run failed during chat",
			zap.String("applicant_id", chatCtx.ApplicantID),
			zap.Error(err),
		)
		return nil, err
	}

	return &chatdomain.ChatResponse{
		Reply:   summariseBuckets(buckets, levers),
		Profile: chatCtx.Profile,
		Buckets: &buckets,
		Levers:  levers,
		Done:    true,
	}, nil
}

// summariseBuckets turns the match outcome into a short conversational
// summary. Qualified products are named; the other buckets are counted.
func summariseBuckets(b domain.Buckets, levers []string) string {
	var sb strings.Builder

	switch n := len(b.Qualified); {
	case n == 0:
		sb.WriteString("Based on what you have shared, nothing matches outright yet.")
	case n == 1:
		p := b.Qualified[0]
		fmt.Fprintf(&sb, "Good news: you qualify for %s from %s.", string(p.ProductType), p.Provider)
	default:
		fmt.Fprintf(&sb, "Good news: you qualify for %d products. The strongest match is %s from %s.",
			n, string(b.Qualified[0].ProductType), b.Qualified[0].Provider)
	}

	if n := len(b.NeedMoreInfo); n > 0 {
		fmt.Fprintf(&sb, " Another %d could open up with a bit more information or a small change.", n)
	}
	if n := len(b.NotQualified); n > 0 {
		fmt.Fprintf(&sb, " %d did not fit your profile.", n)
	}

	for _, lever := range levers {
		sb.WriteString(" ")
		sb.WriteString(lever)
	}

	return sb.String()
}
