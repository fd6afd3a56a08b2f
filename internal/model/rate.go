package model

import "github.com/shopspring/decimal"

// TaxKind identifies the kind of tax a rate entry levies
type TaxKind string

// Known tax kinds. The catalog is not restricted to these; they cover the
// built-in data and the common override tiers.
const (
	TaxKindVATStandard     TaxKind = "vat_standard"
	TaxKindVATReduced      TaxKind = "vat_reduced"
	TaxKindVATReducedAlt   TaxKind = "vat_reduced_alt"
	TaxKindVATSuperReduced TaxKind = "vat_super_reduced"
	TaxKindGST             TaxKind = "gst"
	TaxKindHST             TaxKind = "hst"
	TaxKindPST             TaxKind = "pst"
	TaxKindQST             TaxKind = "qst"
	TaxKindSalesTax        TaxKind = "sales_tax"
)

// RateEntry is one tax levied by a region. Rate is a fraction in [0,1].
// When Compound is set the entry applies to the original amount plus all tax
// accumulated before it in the region's sequence; order is significant only
// then.
type RateEntry struct {
	TaxKind  TaxKind `json:"tax_kind"`
	Rate     float64 `json:"rate"`
	Compound bool    `json:"compound,omitempty"`
}

// RateDecimal returns the rate as an exact decimal.
func (e RateEntry) RateDecimal() decimal.Decimal {
	return decimal.NewFromFloat(e.Rate)
}

// AppliedRate is a rate entry together with the tax amount it contributed in
// one evaluation, for receipt/breakdown display.
type AppliedRate struct {
	RateEntry
	Amount decimal.Decimal `json:"amount"`
}
