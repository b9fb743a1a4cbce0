// Package matching implements the eligibility engine: it classifies each
// lender product against a partial applicant profile into qualified,
// needs-more-info or not-qualified, with per-product reasons and
// improvement suggestions.
//
// All functions here are pure: no mutation of inputs, no stored state,
// safe to call concurrently. The calling service re-runs the full match
// on every profile change.
package matching

// Policy says how a violated requirement dimension is treated.
type Policy string

const (
	// PolicyHard: an immutable fact. Any violation is disqualifying and
	// reported as a reason.
	PolicyHard Policy = "hard"

	// PolicyFlex: negotiable within a bounded tolerance. A violation
	// produces an improvement suggestion instead of disqualification.
	PolicyFlex Policy = "flex"

	// PolicyHardOrNone: hard only when the product requires the
	// attribute; otherwise ignored.
	PolicyHardOrNone Policy = "hard_or_none"

	// PolicyRefine: never disqualifies; only affects ranking.
	PolicyRefine Policy = "refine"
)

// Dimension names a profile attribute the evaluator checks.
type Dimension string

const (
	DimYearsTrading         Dimension = "yearsTrading"
	DimMonthlyTurnover      Dimension = "monthlyTurnover"
	DimAmountRequested      Dimension = "amountRequested"
	DimUrgencyDays          Dimension = "urgencyDays"
	DimVATRegistered        Dimension = "vatRegistered"
	DimProvince             Dimension = "province"
	DimSARegistered         Dimension = "saRegistered"
	DimSADirector           Dimension = "saDirector"
	DimBankStatements       Dimension = "bankStatements"
	DimCollateralAcceptable Dimension = "collateralAcceptable"
)

// requirementPolicy is the single source of truth for how each dimension
// is treated. Turnover is deliberately hard, never adjustable: suggesting
// an applicant "increase turnover" is not actionable the way lowering the
// requested amount is.
//
// Collateral is a hybrid: it refines ranking and is the lowest-priority
// question in the flow, but an explicit refusal against a product that
// requires collateral still hard-disqualifies. That asymmetry is
// intentional.
var requirementPolicy = map[Dimension]Policy{
	DimYearsTrading:         PolicyHard,
	DimMonthlyTurnover:      PolicyHard,
	DimAmountRequested:      PolicyFlex,
	DimUrgencyDays:          PolicyFlex,
	DimVATRegistered:        PolicyHardOrNone,
	DimProvince:             PolicyHard,
	DimSARegistered:         PolicyHard,
	DimSADirector:           PolicyHardOrNone,
	DimBankStatements:       PolicyHard,
	DimCollateralAcceptable: PolicyRefine,
}

// PolicyFor returns the classification policy for a dimension.
func PolicyFor(d Dimension) Policy {
	return requirementPolicy[d]
}

// amountTolerance is how far a requested amount may sit outside the
// product's range before the shortfall/excess stops being a fixable gap
// and becomes a hard reason.
const amountTolerance = 0.20
