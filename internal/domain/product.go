package domain

// ProductType classifies a lender's offer.
type ProductType string

const (
	ProductWorkingCapital     ProductType = "Working Capital"
	ProductInvoiceDiscounting ProductType = "Invoice Discounting"
	ProductMerchantCashAdv    ProductType = "Merchant Cash Advance"
	ProductAssetFinance       ProductType = "Asset Finance"
	ProductTermLoan           ProductType = "Term Loan"
)

// SpeedDays is a funding turnaround window in days, inclusive.
type SpeedDays struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Product is one lender offer from the catalog. Products are immutable
// inputs sourced from the catalog store; matching never mutates them.
type Product struct {
	ID                 string      `json:"id"`
	Provider           string      `json:"provider"`
	ProductType        ProductType `json:"productType"`
	AmountMin          float64     `json:"amountMin"`
	AmountMax          float64     `json:"amountMax"`
	MinYears           float64     `json:"minYears"`
	MinMonthlyTurnover float64     `json:"minMonthlyTurnover"`
	VATRequired        bool        `json:"vatRequired"`

	// ProvincesAllowed is an allow-list; empty/nil means available everywhere.
	ProvincesAllowed []string `json:"provincesAllowed,omitempty"`

	// SectorExclusions is a deny-list of industries.
	SectorExclusions []string `json:"sectorExclusions,omitempty"`

	SpeedDays SpeedDays `json:"speedDays"`

	// CollateralRequired and SADirectorRequired are optional per-product
	// requirements; nil means the product does not care.
	CollateralRequired *bool `json:"collateralRequired,omitempty"`
	SADirectorRequired *bool `json:"saDirectorRequired,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// Validate reports whether the product record is structurally usable by
// the evaluator. A broken record indicates an upstream catalog bug; the
// matcher skips such products rather than aborting the whole match.
func (p *Product) Validate() error {
	if p.ID == "" {
		return &ErrInvalidProduct{ProductID: p.ID, Reason: "missing id"}
	}
	if p.AmountMin <= 0 || p.AmountMax <= 0 || p.AmountMax < p.AmountMin {
		return &ErrInvalidProduct{ProductID: p.ID, Reason: "invalid amount range"}
	}
	if p.MinYears < 0 || p.MinMonthlyTurnover < 0 {
		return &ErrInvalidProduct{ProductID: p.ID, Reason: "negative minimum requirement"}
	}
	if p.SpeedDays.Min < 0 || p.SpeedDays.Max < p.SpeedDays.Min {
		return &ErrInvalidProduct{ProductID: p.ID, Reason: "invalid speed window"}
	}
	return nil
}

// AllowsProvince reports whether the product is offered in the province.
// An empty allow-list means all provinces. An unrecognised province
// string simply fails the allow-list; validating province names is the
// extraction layer's job, not ours.
func (p *Product) AllowsProvince(province string) bool {
	if len(p.ProvincesAllowed) == 0 {
		return true
	}
	for _, allowed := range p.ProvincesAllowed {
		if allowed == province {
			return true
		}
	}
	return false
}

// ExcludesSector reports whether the industry is on the deny-list.
func (p *Product) ExcludesSector(industry string) bool {
	for _, excluded := range p.SectorExclusions {
		if excluded == industry {
			return true
		}
	}
	return false
}
