package matching

import (
	"fmt"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
)

// QualifiedTarget is the qualified-match count below which the
// conversation switches to lever guidance.
const QualifiedTarget = 3

// ComputeLevers proposes profile adjustments that could unlock more
// qualified matches. The strings are advisory only — the profile is
// never mutated on the applicant's behalf.
//
// Callers invoke this once the hard requirements are complete and the
// qualified count sits below QualifiedTarget; the function itself stays
// pure and does not re-check that.
func ComputeLevers(profile domain.Profile, buckets domain.Buckets) []string {
	var levers []string

	if profile.AmountRequested != nil {
		reduced := roundToThousand(0.75 * *profile.AmountRequested)
		levers = append(levers, fmt.Sprintf(
			"Reducing your request to around %s would bring more products into range",
			formatRand(reduced)))
	}

	if profile.UrgencyDays != nil && *profile.UrgencyDays <= 2 {
		levers = append(levers,
			"If you can wait a few days longer, products with slower payouts open up")
	}

	if profile.CollateralAcceptable != nil && !*profile.CollateralAcceptable {
		levers = append(levers,
			"Being open to collateral would unlock secured products, which tend to offer better terms")
	}

	return levers
}
