package domain

import "time"

// Classification is the evaluator's verdict for one profile/product pair.
type Classification string

const (
	Qualified    Classification = "qualified"
	NeedMoreInfo Classification = "needMoreInfo"
	NotQualified Classification = "notQualified"
)

// MatchResult is the outcome of evaluating one product against one
// profile. It is transient: recomputed from scratch on every profile
// change, never stored.
type MatchResult struct {
	Product        Product        `json:"product"`
	Classification Classification `json:"classification"`

	// Reasons are hard-blocker explanations, in evaluation order.
	Reasons []string `json:"reasons,omitempty"`

	// Improvements are fixable-gap suggestions; only populated when the
	// classification is needMoreInfo.
	Improvements []string `json:"improvements,omitempty"`

	// Score ranks qualified matches. Internal only — never serialized.
	Score float64 `json:"-"`
}

// NeedInfoMatch pairs a product with what is blocking or missing.
type NeedInfoMatch struct {
	Product      Product  `json:"product"`
	Reasons      []string `json:"reasons,omitempty"`
	Improvements []string `json:"improvements"`
}

// NotQualifiedMatch pairs a product with its disqualifying reasons.
type NotQualifiedMatch struct {
	Product Product  `json:"product"`
	Reasons []string `json:"reasons"`
}

// Buckets is the full result of matching a profile against the catalog.
// Qualified products are ordered best-first; the ranking score itself is
// not exposed.
type Buckets struct {
	Qualified    []Product           `json:"qualified"`
	NeedMoreInfo []NeedInfoMatch     `json:"needMoreInfo"`
	NotQualified []NotQualifiedMatch `json:"notQualified"`
}

// MatchRun is the API-facing result of one full match pass. Complete
// signals whether every gating question has been answered; while it is
// false, NextQuestion carries what to ask next and the buckets should
// be treated as provisional.
type MatchRun struct {
	ApplicantID  string    `json:"applicantId,omitempty"`
	Buckets      Buckets   `json:"buckets"`
	Levers       []string  `json:"levers,omitempty"`
	Complete     bool      `json:"complete"`
	NextQuestion string    `json:"nextQuestion,omitempty"`
	ProcessedAt  time.Time `json:"processedAt"`
}
