package matching

import (
	"fmt"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
)

// HasMinimumBasics reports whether the profile carries the prerequisite
// facts for any per-product evaluation: monthly turnover, years trading
// and the requested amount. Below this bar, every product comes back as
// needs-more-info with a single synthetic improvement, so the applicant
// is never shown noisy partial verdicts.
func HasMinimumBasics(p domain.Profile) bool {
	return p.MonthlyTurnover != nil && p.YearsTrading != nil && p.AmountRequested != nil
}

// Evaluate classifies one product against one profile.
//
// The precedence is fixed: basics gate first; then every hard dimension
// is checked independently and ALL violations are collected (not just
// the first); unknown hard dimensions become missing-requirement notices,
// never reasons; flex dimensions are checked last. Unknown must never be
// conflated with disqualifying — a nil field and an explicit false take
// different paths throughout.
func Evaluate(profile domain.Profile, product domain.Product) domain.MatchResult {
	if !HasMinimumBasics(profile) {
		return domain.MatchResult{
			Product:        product,
			Classification: domain.NeedMoreInfo,
			Improvements: []string{
				"Share your core business information first: years trading, monthly turnover and the amount you need",
			},
		}
	}

	var reasons []string
	var missing []string
	var improvements []string

	// --- Hard dimensions: collect every violation ---

	if profile.SARegistered != nil {
		if !*profile.SARegistered {
			reasons = append(reasons, "Business must be registered in South Africa")
		}
	} else {
		missing = append(missing, "Confirm whether your business is registered in South Africa")
	}

	if product.SADirectorRequired != nil && *product.SADirectorRequired {
		if profile.SADirector != nil {
			if !*profile.SADirector {
				reasons = append(reasons, "Requires at least one South African director")
			}
		} else {
			missing = append(missing, "Confirm whether the business has a South African director")
		}
	}

	if profile.BankStatements != nil {
		if !*profile.BankStatements {
			reasons = append(reasons, "Bank statements are required")
		}
	} else {
		missing = append(missing, "Confirm that you can provide bank statements")
	}

	if *profile.YearsTrading < product.MinYears {
		reasons = append(reasons, fmt.Sprintf(
			"Requires %s %s trading, you have %s",
			formatYears(product.MinYears), pluralYears(product.MinYears), formatYears(*profile.YearsTrading)))
	}

	// Turnover is never treated as adjustable: a shortfall is a hard
	// reason, not an improvement.
	if *profile.MonthlyTurnover < product.MinMonthlyTurnover {
		reasons = append(reasons, fmt.Sprintf(
			"Requires monthly turnover of %s, yours is %s",
			formatRand(product.MinMonthlyTurnover), formatRand(*profile.MonthlyTurnover)))
	}

	if len(product.SectorExclusions) > 0 {
		if profile.Industry != nil {
			if product.ExcludesSector(*profile.Industry) {
				reasons = append(reasons, fmt.Sprintf("Not available to the %s sector", *profile.Industry))
			}
		} else {
			missing = append(missing, "Tell us your industry so we can check sector restrictions")
		}
	}

	if len(product.ProvincesAllowed) > 0 {
		if profile.Province != nil {
			if !product.AllowsProvince(*profile.Province) {
				reasons = append(reasons, fmt.Sprintf("Not available in %s", *profile.Province))
			}
		} else {
			missing = append(missing, "Tell us which province you operate in")
		}
	}

	collateralRequired := product.CollateralRequired != nil && *product.CollateralRequired
	if collateralRequired && profile.CollateralAcceptable != nil && !*profile.CollateralAcceptable {
		reasons = append(reasons, "Requires collateral, which you indicated you cannot offer")
	}

	// --- Flex dimensions ---

	amount := *profile.AmountRequested
	switch {
	case amount < product.AmountMin:
		shortfall := (product.AmountMin - amount) / product.AmountMin
		if shortfall <= amountTolerance {
			improvements = append(improvements, fmt.Sprintf(
				"Consider increasing your request to %s, the minimum for this product",
				formatRand(product.AmountMin)))
		} else {
			reasons = append(reasons, fmt.Sprintf("Minimum amount is %s", formatRand(product.AmountMin)))
		}
	case amount > product.AmountMax:
		excess := (amount - product.AmountMax) / product.AmountMax
		if excess <= amountTolerance {
			improvements = append(improvements, fmt.Sprintf(
				"Consider reducing your request to %s, the maximum for this product",
				formatRand(product.AmountMax)))
		} else {
			reasons = append(reasons, fmt.Sprintf("Maximum amount is %s", formatRand(product.AmountMax)))
		}
	}

	if product.VATRequired {
		if profile.VATRegistered != nil {
			if !*profile.VATRegistered {
				improvements = append(improvements, "Register for VAT to qualify for this product")
			}
		} else {
			missing = append(missing, "Confirm your VAT registration status")
		}
	}

	if collateralRequired && profile.CollateralAcceptable == nil {
		improvements = append(improvements, "This product needs collateral, confirm whether you can offer security")
	}

	// --- Classification, in order ---

	if len(missing) > 0 {
		return domain.MatchResult{
			Product:        product,
			Classification: domain.NeedMoreInfo,
			Reasons:        reasons,
			Improvements:   append(missing, improvements...),
		}
	}

	if len(reasons) == 0 && len(improvements) == 0 {
		return domain.MatchResult{
			Product:        product,
			Classification: domain.Qualified,
			Score:          score(profile, product),
		}
	}

	if len(reasons) == 0 {
		return domain.MatchResult{
			Product:        product,
			Classification: domain.NeedMoreInfo,
			Improvements:   improvements,
		}
	}

	// A single hard blocker alongside fixable gaps still counts as
	// "close"; two or more hard blockers do not.
	if len(improvements) > 0 && len(reasons) <= 1 {
		return domain.MatchResult{
			Product:        product,
			Classification: domain.NeedMoreInfo,
			Reasons:        reasons,
			Improvements:   improvements,
		}
	}

	return domain.MatchResult{
		Product:        product,
		Classification: domain.NotQualified,
		Reasons:        reasons,
	}
}

// score ranks a qualified match. Internal only, never surfaced.
// Starts at 1.0 and shaves points for thin fits: a request in the outer
// 10% of the product's range, an urgency tighter than the product can
// fund, and turnover under 1.5x the required minimum.
func score(profile domain.Profile, product domain.Product) float64 {
	s := 1.0

	width := product.AmountMax - product.AmountMin
	amount := *profile.AmountRequested
	if amount > product.AmountMax-0.1*width || amount < product.AmountMin+0.1*width {
		s -= 0.1
	}

	if profile.UrgencyDays != nil && *profile.UrgencyDays < product.SpeedDays.Min {
		s -= 0.1
	}

	if *profile.MonthlyTurnover < 1.5*product.MinMonthlyTurnover {
		s -= 0.05
	}

	return s
}
