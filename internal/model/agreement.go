package model

import (
	"github.com/shopspring/decimal"
)

// AgreementKind distinguishes customs unions (cross-border, e.g. EU) from
// federal states (sub-national, e.g. US, CA).
type AgreementKind string

const (
	AgreementCustomsUnion AgreementKind = "customs_union"
	AgreementFederalState AgreementKind = "federal_state"
)

// RuleType tags the rule variants an agreement slot can carry.
type RuleType string

const (
	RuleOrigin         RuleType = "origin"
	RuleDestination    RuleType = "destination"
	RuleReverseCharge  RuleType = "reverse_charge"
	RuleExempt         RuleType = "exempt"
	RuleZeroRated      RuleType = "zero_rated"
	RuleThresholdBased RuleType = "threshold_based"
)

// Terminal reports whether the rule type resolves directly to a policy.
// Threshold branches may only name terminal types.
func (t RuleType) Terminal() bool {
	switch t {
	case RuleOrigin, RuleDestination, RuleExempt, RuleZeroRated, RuleReverseCharge:
		return true
	}
	return false
}

// AppliesTo declares which goods/services categories an agreement covers.
type AppliesTo struct {
	PhysicalGoods bool `json:"physical_goods"`
	DigitalGoods  bool `json:"digital_goods"`
	Services      bool `json:"services"`
}

// TaxRule is one tagged rule variant. Only the fields for its Type are
// meaningful: exempt may set RequiresResaleCertificate / RequiresRegistration,
// threshold_based carries the threshold/branch fields (with a separate triple
// for digital products).
type TaxRule struct {
	Type RuleType `json:"type"`

	RequiresResaleCertificate bool `json:"requires_resale_certificate,omitempty"`
	RequiresRegistration      bool `json:"requires_registration,omitempty"`

	Threshold      *float64 `json:"threshold,omitempty"`
	BelowThreshold RuleType `json:"below_threshold,omitempty"`
	AboveThreshold RuleType `json:"above_threshold,omitempty"`

	ThresholdDigital      *float64 `json:"threshold_digital,omitempty"`
	BelowThresholdDigital RuleType `json:"below_threshold_digital,omitempty"`
	AboveThresholdDigital RuleType `json:"above_threshold_digital,omitempty"`
}

// hasPhysicalTriple reports whether the physical threshold triple is complete.
func (r *TaxRule) hasPhysicalTriple() bool {
	return r.Threshold != nil && r.BelowThreshold != "" && r.AboveThreshold != ""
}

// hasDigitalTriple reports whether the digital threshold triple is complete.
func (r *TaxRule) hasDigitalTriple() bool {
	return r.ThresholdDigital != nil && r.BelowThresholdDigital != "" && r.AboveThresholdDigital != ""
}

// ThresholdBranch picks the branch rule type for a threshold_based rule.
// Digital scenarios use the digital triple when configured, otherwise the
// physical triple. The per-call amount is compared strictly against the
// threshold; ignoreThreshold forces the above branch (callers tracking a
// cumulative total externally set it once that total crosses the limit).
func (r *TaxRule) ThresholdBranch(amount decimal.Decimal, digital, ignoreThreshold bool) RuleType {
	threshold := r.Threshold
	below, above := r.BelowThreshold, r.AboveThreshold
	if digital && r.hasDigitalTriple() {
		threshold = r.ThresholdDigital
		below, above = r.BelowThresholdDigital, r.AboveThresholdDigital
	} else if !r.hasPhysicalTriple() {
		return RuleDestination
	}

	if !ignoreThreshold && amount.LessThan(decimal.NewFromFloat(*threshold)) {
		return below
	}
	return above
}

// TaxRules holds the three rule slots of an agreement. A nil internal slot
// degrades to destination treatment at resolution time.
type TaxRules struct {
	InternalB2B    *TaxRule `json:"internal_b2b,omitempty"`
	InternalB2C    *TaxRule `json:"internal_b2c,omitempty"`
	ExternalExport *TaxRule `json:"external_export,omitempty"`
}

// TradeAgreement is one configured customs union or federal state. Loaded
// once from the agreements document; immutable for the process lifetime.
type TradeAgreement struct {
	Name      string        `json:"name"`
	Kind      AgreementKind `json:"type"`
	Members   []string      `json:"members"`
	AppliesTo AppliesTo     `json:"applies_to"`
	Rules     TaxRules      `json:"tax_rules"`
}

// IsFederal reports whether the agreement governs sub-national jurisdictions.
func (a *TradeAgreement) IsFederal() bool {
	return a.Kind == AgreementFederalState
}

// IsCustomsUnion reports whether the agreement governs a cross-border union.
func (a *TradeAgreement) IsCustomsUnion() bool {
	return a.Kind == AgreementCustomsUnion
}

// HasMember reports whether any of the region's identifiers appear in the
// members set. Members may list country codes or subdivision codes
// (e.g. "US-CA") depending on the agreement's granularity.
func (a *TradeAgreement) HasMember(r Region) bool {
	for _, id := range r.Identifiers() {
		for _, m := range a.Members {
			if m == id {
				return true
			}
		}
	}
	return false
}
