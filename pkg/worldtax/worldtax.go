// Package worldtax provides a public API for resolving the tax treatment of
// cross-border and domestic commercial transactions.
//
// A Calculator evaluates TaxScenario values against an immutable
// TaxDatabase. The database is built once (from the embedded data or
// caller-supplied JSON) and shared read-only across any number of
// concurrent evaluations.
//
// Example usage:
//
//	db, err := worldtax.DefaultDatabase()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	calc := worldtax.NewCalculator(db)
//
//	scenario := worldtax.NewScenario(
//	    worldtax.MustRegion("DE", ""),
//	    worldtax.MustRegion("FR", ""),
//	    worldtax.TransactionB2C,
//	)
//	tax, err := calc.CalculateTax(scenario, 100.0)
package worldtax

import (
	"github.com/rezonia/worldtax/internal/database"
	"github.com/rezonia/worldtax/internal/engine"
	"github.com/rezonia/worldtax/internal/model"
)

// Re-export core types for public API
type (
	Region            = model.Region
	TaxScenario       = model.TaxScenario
	TransactionType   = model.TransactionType
	AgreementOverride = model.AgreementOverride
	TradeAgreement    = model.TradeAgreement
	TaxRule           = model.TaxRule
	RuleType          = model.RuleType
	RateEntry         = model.RateEntry
	AppliedRate       = model.AppliedRate
	TaxKind           = model.TaxKind
	Policy            = model.Policy

	TaxDatabase = database.TaxDatabase
	Calculator  = engine.Calculator
	Result      = engine.Result
)

// Re-export transaction types
const (
	TransactionB2B = model.TransactionB2B
	TransactionB2C = model.TransactionB2C
)

// Re-export policies
const (
	PolicyNone          = model.PolicyNone
	PolicyOrigin        = model.PolicyOrigin
	PolicyDestination   = model.PolicyDestination
	PolicyReverseCharge = model.PolicyReverseCharge
	PolicyExempt        = model.PolicyExempt
	PolicyZeroRated     = model.PolicyZeroRated
)

// Re-export common tax kinds
const (
	TaxKindVATStandard     = model.TaxKindVATStandard
	TaxKindVATReduced      = model.TaxKindVATReduced
	TaxKindVATReducedAlt   = model.TaxKindVATReducedAlt
	TaxKindVATSuperReduced = model.TaxKindVATSuperReduced
	TaxKindGST             = model.TaxKindGST
	TaxKindHST             = model.TaxKindHST
	TaxKindPST             = model.TaxKindPST
	TaxKindQST             = model.TaxKindQST
	TaxKindSalesTax        = model.TaxKindSalesTax
)

// Re-export error types
type (
	ValidationError        = model.ValidationError
	ConfigError            = model.ConfigError
	RegionNotFoundError    = model.RegionNotFoundError
	RateNotFoundError      = model.RateNotFoundError
	AgreementNotFoundError = model.AgreementNotFoundError
)

// NewRegion creates a validated region from ISO-3166 codes.
func NewRegion(country, subdivision string) (Region, error) {
	return model.NewRegion(country, subdivision)
}

// MustRegion creates a region, panicking on invalid codes.
func MustRegion(country, subdivision string) Region {
	return model.MustRegion(country, subdivision)
}

// NewScenario creates a scenario with default attributes.
func NewScenario(source, destination Region, transactionType TransactionType) *TaxScenario {
	return model.NewScenario(source, destination, transactionType)
}

// UseAgreement forces a specific trade agreement by name.
func UseAgreement(name string) *AgreementOverride {
	return model.UseAgreement(name)
}

// NoAgreement forces the plain cross-border path.
func NoAgreement() *AgreementOverride {
	return model.NoAgreement()
}

// DefaultDatabase builds a database from the embedded rate and agreement
// documents.
func DefaultDatabase() (*TaxDatabase, error) {
	return database.Default()
}

// DatabaseFromJSON builds a database from caller-supplied JSON documents.
func DatabaseFromJSON(rates, agreements []byte) (*TaxDatabase, error) {
	return database.FromJSON(rates, agreements)
}

// DatabaseFromFiles builds a database from JSON documents on disk.
func DatabaseFromFiles(ratesPath, agreementsPath string) (*TaxDatabase, error) {
	return database.FromFiles(ratesPath, agreementsPath)
}

// NewCalculator creates a calculator bound to a database.
func NewCalculator(db *TaxDatabase) *Calculator {
	return engine.NewCalculator(db)
}
