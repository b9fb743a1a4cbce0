package matching_test

import (
	"strings"
	"testing"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/matching"
)

func TestComputeLevers_AmountRounding(t *testing.T) {
	profile := completeProfile()
	profile.AmountRequested = domain.Float(1000000)

	levers := matching.ComputeLevers(profile, domain.Buckets{})

	// 75% of 1 000 000 is 750 000, already on a thousand boundary.
	if len(levers) == 0 || !strings.Contains(levers[0], "R750 000") {
		t.Errorf("expected an amount lever suggesting R750 000, got %v", levers)
	}
}

func TestComputeLevers_AmountRoundsToNearestThousand(t *testing.T) {
	profile := completeProfile()
	profile.AmountRequested = domain.Float(350000)

	levers := matching.ComputeLevers(profile, domain.Buckets{})

	// 75% of 350 000 is 262 500, which rounds to 263 000.
	if len(levers) == 0 || !strings.Contains(levers[0], "R263 000") {
		t.Errorf("expected R263 000, got %v", levers)
	}
}

func TestComputeLevers_UrgencyAndCollateral(t *testing.T) {
	profile := completeProfile()
	profile.UrgencyDays = domain.Int(1)
	profile.CollateralAcceptable = domain.Bool(false)

	levers := matching.ComputeLevers(profile, domain.Buckets{})

	if len(levers) != 3 {
		t.Fatalf("expected amount + urgency + collateral levers, got %v", levers)
	}
	if !strings.Contains(levers[1], "wait") {
		t.Errorf("expected an urgency lever, got %q", levers[1])
	}
	if !strings.Contains(levers[2], "collateral") {
		t.Errorf("expected a collateral lever, got %q", levers[2])
	}
}

func TestComputeLevers_NoTriggers(t *testing.T) {
	// Relaxed urgency and unknown collateral stance produce no levers for
	// those axes; an empty profile produces no amount lever either.
	profile := domain.Profile{UrgencyDays: domain.Int(14)}

	levers := matching.ComputeLevers(profile, domain.Buckets{})
	if len(levers) != 0 {
		t.Errorf("expected no levers, got %v", levers)
	}
}

func TestComputeLevers_DoesNotMutateProfile(t *testing.T) {
	profile := completeProfile()
	amount := *profile.AmountRequested

	matching.ComputeLevers(profile, domain.Buckets{})

	if *profile.AmountRequested != amount {
		t.Error("levers must never mutate the profile")
	}
}
