// Package domain defines the core business entities for the SME Funding
// Assistant. These models are independent of external services and represent
// the canonical data structures used throughout the BFA.
package domain

// Profile holds everything known so far about a funding applicant.
//
// Every field is a pointer: nil means "not provided yet", which is a
// different state from false or zero. An applicant who has not answered
// the VAT question must never be treated as unregistered, so the
// three states (unknown / true / false) are carried all the way through
// matching. Do not replace these with value types.
type Profile struct {
	Industry             *string  `json:"industry,omitempty"`
	YearsTrading         *float64 `json:"yearsTrading,omitempty"`
	MonthlyTurnover      *float64 `json:"monthlyTurnover,omitempty"`
	VATRegistered        *bool    `json:"vatRegistered,omitempty"`
	AmountRequested      *float64 `json:"amountRequested,omitempty"`
	UseOfFunds           *string  `json:"useOfFunds,omitempty"`
	UrgencyDays          *int     `json:"urgencyDays,omitempty"`
	Province             *string  `json:"province,omitempty"`
	CollateralAcceptable *bool    `json:"collateralAcceptable,omitempty"`
	SARegistered         *bool    `json:"saRegistered,omitempty"`
	SADirector           *bool    `json:"saDirector,omitempty"`
	BankStatements       *bool    `json:"bankStatements,omitempty"`

	// Contact is carried through for downstream use; it plays no part
	// in matching.
	Contact *Contact `json:"contact,omitempty"`
}

// Contact is the applicant's contact details.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ProfilePatch is a sparse profile update produced by the extraction
// service: only newly learned fields are set. It has the same shape as
// Profile so the extractor contract stays trivial.
type ProfilePatch = Profile

// Apply merges a sparse patch into the profile and returns the result.
// A field already known on the receiver is never overwritten by the
// patch — the extractor only supplies new facts, and a stale or empty
// patch must not erase what the applicant already told us.
func (p Profile) Apply(patch ProfilePatch) Profile {
	if p.Industry == nil {
		p.Industry = patch.Industry
	}
	if p.YearsTrading == nil {
		p.YearsTrading = patch.YearsTrading
	}
	if p.MonthlyTurnover == nil {
		p.MonthlyTurnover = patch.MonthlyTurnover
	}
	if p.VATRegistered == nil {
		p.VATRegistered = patch.VATRegistered
	}
	if p.AmountRequested == nil {
		p.AmountRequested = patch.AmountRequested
	}
	if p.UseOfFunds == nil {
		p.UseOfFunds = patch.UseOfFunds
	}
	if p.UrgencyDays == nil {
		p.UrgencyDays = patch.UrgencyDays
	}
	if p.Province == nil {
		p.Province = patch.Province
	}
	if p.CollateralAcceptable == nil {
		p.CollateralAcceptable = patch.CollateralAcceptable
	}
	if p.SARegistered == nil {
		p.SARegistered = patch.SARegistered
	}
	if p.SADirector == nil {
		p.SADirector = patch.SADirector
	}
	if p.BankStatements == nil {
		p.BankStatements = patch.BankStatements
	}
	if p.Contact == nil {
		p.Contact = patch.Contact
	}
	return p
}

// Empty reports whether no field of the profile is set. Used to tell
// "the extractor learned nothing" apart from a real update.
func (p Profile) Empty() bool {
	return p.Industry == nil &&
		p.YearsTrading == nil &&
		p.MonthlyTurnover == nil &&
		p.VATRegistered == nil &&
		p.AmountRequested == nil &&
		p.UseOfFunds == nil &&
		p.UrgencyDays == nil &&
		p.Province == nil &&
		p.CollateralAcceptable == nil &&
		p.SARegistered == nil &&
		p.SADirector == nil &&
		p.BankStatements == nil &&
		p.Contact == nil
}

// Helpers for building profiles in services and tests.

// String returns a *string.
func String(s string) *string { return &s }

// Float returns a *float64.
func Float(f float64) *float64 { return &f }

// Int returns a *int.
func Int(i int) *int { return &i }

// Bool returns a *bool.
func Bool(b bool) *bool { return &b }
