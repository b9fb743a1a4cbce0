// Package flow decides what to ask the applicant next. It looks only at
// which profile fields are present — never at product rules — so the
// question order stays stable regardless of the catalog.
package flow

import (
	"fmt"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
)

// Human labels for the core four, used in prompts.
const (
	labelIndustry  = "your industry"
	labelYears     = "how long you have been trading"
	labelTurnover  = "your average monthly turnover"
	labelAmount    = "how much funding you need"
	labelSeparator = ", "
)

// NextQuestionGroup returns the next question to put to the applicant,
// and false when every group is complete and the conversation can move
// to open-ended lever guidance.
//
// Groups are fixed and ordered; the first incomplete group wins:
//
//  1. the core four (industry, years trading, turnover, amount)
//  2. SA registration and SA director, asked together
//  3. bank statements
//  4. province and VAT registration, asked together
//  5. collateral, last because it only refines results
func NextQuestionGroup(p domain.Profile) (string, bool) {
	var missingCore []string
	if p.Industry == nil {
		missingCore = append(missingCore, labelIndustry)
	}
	if p.YearsTrading == nil {
		missingCore = append(missingCore, labelYears)
	}
	if p.MonthlyTurnover == nil {
		missingCore = append(missingCore, labelTurnover)
	}
	if p.AmountRequested == nil {
		missingCore = append(missingCore, labelAmount)
	}

	switch {
	case len(missingCore) >= 3:
		return fmt.Sprintf(
			"To find funding options for your business, tell us %s.",
			joinLabels(missingCore)), true
	case len(missingCore) > 0:
		return fmt.Sprintf("Could you also share %s?", joinLabels(missingCore)), true
	}

	if p.SARegistered == nil || p.SADirector == nil {
		return "Is your business registered in South Africa, and does it have at least one South African director?", true
	}

	if p.BankStatements == nil {
		return "Can you provide your business bank statements?", true
	}

	if p.Province == nil || p.VATRegistered == nil {
		return "Which province does your business operate from, and is it VAT registered?", true
	}

	if p.CollateralAcceptable == nil {
		return "Would you be open to offering collateral or security for funding?", true
	}

	return "", false
}

// rephrasings maps each canonical question to the wording used when the
// applicant dodged it the first time. Asking twice with identical words
// reads robotic, so repeats get a softer lead-in.
var rephrasings = map[string]string{
	"Is your business registered in South Africa, and does it have at least one South African director?": "Before we go further, I still need to confirm: is the business registered in South Africa, and is at least one director South African?",
	"Can you provide your business bank statements?":                                                     "One thing still outstanding: would you be able to share your business bank statements?",
	"Which province does your business operate from, and is it VAT registered?":                          "I still need to know which province you operate from, and whether the business is VAT registered.",
	"Would you be open to offering collateral or security for funding?":                                  "And just to check once more, could you offer any collateral or security if a lender asked for it?",
}

// Rephrase returns an alternate wording for a question that has already
// been asked in this conversation. Questions with no registered variant
// come back unchanged.
func Rephrase(question string) string {
	if alt, ok := rephrasings[question]; ok {
		return alt
	}
	return question
}

// HasHardRequirements reports whether every gating fact is known:
// the core four plus SA registration, SA director, bank statements,
// province and VAT status. Collateral is deliberately excluded — it is
// a refinement, never a gate, even though a product that demands
// collateral can still disqualify an applicant who refuses it.
func HasHardRequirements(p domain.Profile) bool {
	return p.Industry != nil &&
		p.MonthlyTurnover != nil &&
		p.YearsTrading != nil &&
		p.AmountRequested != nil &&
		p.SARegistered != nil &&
		p.SADirector != nil &&
		p.BankStatements != nil &&
		p.Province != nil &&
		p.VATRegistered != nil
}

func joinLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	case 2:
		return labels[0] + " and " + labels[1]
	}
	out := ""
	for i, l := range labels {
		switch {
		case i == 0:
			out = l
		case i == len(labels)-1:
			out += " and " + l
		default:
			out += labelSeparator + l
		}
	}
	return out
}
