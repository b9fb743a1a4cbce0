package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/service"

	"go.uber.org/zap"
)

func TestPatchProfile_CreatesWhenMissing(t *testing.T) {
	store := &mockProfileStore{}
	svc := service.NewProfileService(store, zap.NewNop())

	patch := domain.ProfilePatch{Industry: domain.String("construction")}
	merged, err := svc.PatchProfile(context.Background(), "app-1", patch)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if merged.Industry == nil || *merged.Industry != "construction" {
		t.Error("expected industry to be set on the merged profile")
	}
	if store.saved == nil {
		t.Fatal("expected profile to be persisted")
	}
}

func TestPatchProfile_NeverOverwrites(t *testing.T) {
	existing := domain.Profile{Province: domain.String("Gauteng")}
	store := &mockProfileStore{profile: &existing}
	svc := service.NewProfileService(store, zap.NewNop())

	patch := domain.ProfilePatch{Province: domain.String("Limpopo")}
	merged, err := svc.PatchProfile(context.Background(), "app-1", patch)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if *merged.Province != "Gauteng" {
		t.Errorf("expected province to stay 'Gauteng', got '%s'", *merged.Province)
	}
}

func TestPatchProfile_RejectsNegativeValues(t *testing.T) {
	svc := service.NewProfileService(&mockProfileStore{}, zap.NewNop())

	patch := domain.ProfilePatch{YearsTrading: domain.Float(-1)}
	_, err := svc.PatchProfile(context.Background(), "app-1", patch)

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "yearsTrading" {
		t.Errorf("expected field 'yearsTrading', got '%s'", verr.Field)
	}
}

func TestPatchProfile_RejectsZeroAmount(t *testing.T) {
	svc := service.NewProfileService(&mockProfileStore{}, zap.NewNop())

	patch := domain.ProfilePatch{AmountRequested: domain.Float(0)}
	_, err := svc.PatchProfile(context.Background(), "app-1", patch)

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	svc := service.NewProfileService(&mockProfileStore{}, zap.NewNop())

	_, err := svc.GetProfile(context.Background(), "ghost")

	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
