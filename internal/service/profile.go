package service

import (
	"context"
	"errors"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ProfileService reads and updates applicant profiles. Updates are
// merge-only: a patch can fill unknown fields but never overwrite an
// answer the applicant already gave.
type ProfileService struct {
	profiles port.ProfileStore
	logger   *zap.Logger
}

// NewProfileService creates the profile service.
func NewProfileService(profiles port.ProfileStore, logger *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

// GetProfile fetches the stored profile for an applicant.
func (s *ProfileService) GetProfile(ctx context.Context, applicantID string) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "ProfileService.GetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("applicant.id", applicantID))

	return s.profiles.GetApplicantProfile(ctx, applicantID)
}

// PatchProfile merges a sparse patch into the applicant's profile and
// persists the result. A first patch for an unknown applicant creates
// the profile.
func (s *ProfileService) PatchProfile(ctx context.Context, applicantID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "ProfileService.PatchProfile")
	defer span.End()
	span.SetAttributes(attribute.String("applicant.id", applicantID))

	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	profile := domain.Profile{}
	stored, err := s.profiles.GetApplicantProfile(ctx, applicantID)
	switch {
	case err == nil:
		profile = *stored
	default:
		var notFound *domain.ErrNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	merged := profile.Apply(patch)
	if err := s.profiles.SaveApplicantProfile(ctx, applicantID, merged); err != nil {
		return nil, err
	}

	s.logger.Info("applicant profile updated",
		zap.String("applicant_id", applicantID),
		zap.Bool("created", stored == nil),
	)

	return &merged, nil
}

// validatePatch rejects values that can never be right, before they
// reach the store.
func validatePatch(patch domain.ProfilePatch) error {
	if patch.YearsTrading != nil && *patch.YearsTrading < 0 {
		return &domain.ErrValidation{Field: "yearsTrading", Message: "must not be negative"}
	}
	if patch.MonthlyTurnover != nil && *patch.MonthlyTurnover < 0 {
		return &domain.ErrValidation{Field: "monthlyTurnover", Message: "must not be negative"}
	}
	if patch.AmountRequested != nil && *patch.AmountRequested <= 0 {
		return &domain.ErrValidation{Field: "amountRequested", Message: "must be positive"}
	}
	if patch.UrgencyDays != nil && *patch.UrgencyDays < 0 {
		return &domain.ErrValidation{Field: "urgencyDays", Message: "must not be negative"}
	}
	return nil
}
