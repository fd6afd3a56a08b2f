// Package engine implements the tax resolution pipeline: jurisdiction
// classification, calculation policy resolution, and rate aggregation.
// Evaluation is a pure computation over a scenario and an immutable
// database; one evaluation produces both the tax figure and the applied
// rate breakdown so the two can never drift apart.
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/worldtax/internal/database"
	dec "github.com/rezonia/worldtax/internal/decimal"
	"github.com/rezonia/worldtax/internal/model"
)

// Result is the outcome of one evaluation.
type Result struct {
	// Tax is the total tax amount, unrounded.
	Tax decimal.Decimal
	// Applied lists the rate entries that produced Tax, in application
	// order, each with its contribution.
	Applied []model.AppliedRate
	// Policy is the calculation policy that was resolved.
	Policy model.Policy
	// Classification is the jurisdictional classification that was applied.
	Classification Classification
}

// Calculator evaluates tax scenarios against one shared database.
type Calculator struct {
	db *database.TaxDatabase
}

// NewCalculator creates a calculator bound to a database. The database is
// read-only; a single calculator may serve concurrent evaluations.
func NewCalculator(db *database.TaxDatabase) *Calculator {
	return &Calculator{db: db}
}

// Database returns the underlying database.
func (c *Calculator) Database() *database.TaxDatabase {
	return c.db
}

// Evaluate runs the full pipeline for one scenario and amount.
func (c *Calculator) Evaluate(scenario *model.TaxScenario, amount decimal.Decimal) (*Result, error) {
	classification, err := Classify(c.db, scenario.SourceRegion, scenario.DestinationRegion, scenario.TradeAgreementOverride)
	if err != nil {
		return nil, err
	}

	policy := Resolve(classification, scenario, amount)

	tax, applied, err := aggregate(c.db, policy, scenario, amount)
	if err != nil {
		return nil, err
	}

	return &Result{
		Tax:            tax,
		Applied:        applied,
		Policy:         policy,
		Classification: classification,
	}, nil
}

// CalculateTax evaluates the scenario and returns the tax amount rounded to
// 2 decimal places.
func (c *Calculator) CalculateTax(scenario *model.TaxScenario, amount float64) (float64, error) {
	result, err := c.Evaluate(scenario, dec.FromFloat(amount))
	if err != nil {
		return 0, err
	}
	return dec.RoundCurrency(result.Tax).InexactFloat64(), nil
}

// CalculateTaxDecimal evaluates the scenario and returns the exact,
// unrounded tax amount for callers requiring cent-level precision.
func (c *Calculator) CalculateTaxDecimal(scenario *model.TaxScenario, amount decimal.Decimal) (decimal.Decimal, error) {
	result, err := c.Evaluate(scenario, amount)
	if err != nil {
		return decimal.Zero, err
	}
	return result.Tax, nil
}

// GetRates evaluates the scenario and returns the applied rate breakdown.
// The list comes from the same evaluation that produces the tax figure.
func (c *Calculator) GetRates(scenario *model.TaxScenario, amount float64) ([]model.AppliedRate, error) {
	result, err := c.Evaluate(scenario, dec.FromFloat(amount))
	if err != nil {
		return nil, err
	}
	return result.Applied, nil
}
