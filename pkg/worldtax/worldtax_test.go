package worldtax_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/worldtax/pkg/worldtax"
)

func newCalculator(t *testing.T) *worldtax.Calculator {
	t.Helper()
	db, err := worldtax.DefaultDatabase()
	require.NoError(t, err)
	return worldtax.NewCalculator(db)
}

func TestCalculateTax_DomesticVAT(t *testing.T) {
	calc := newCalculator(t)

	scenario := worldtax.NewScenario(
		worldtax.MustRegion("DE", ""),
		worldtax.MustRegion("DE", ""),
		worldtax.TransactionB2C,
	)
	tax, err := calc.CalculateTax(scenario, 100)
	require.NoError(t, err)
	assert.Equal(t, 19.0, tax)
}

func TestCalculateTax_IntraEU(t *testing.T) {
	calc := newCalculator(t)

	b2b := worldtax.NewScenario(
		worldtax.MustRegion("DE", ""),
		worldtax.MustRegion("FR", ""),
		worldtax.TransactionB2B,
	)
	tax, err := calc.CalculateTax(b2b, 5000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tax)

	b2c := worldtax.NewScenario(
		worldtax.MustRegion("DE", ""),
		worldtax.MustRegion("FR", ""),
		worldtax.TransactionB2C,
	)
	tax, err = calc.CalculateTax(b2c, 100)
	require.NoError(t, err)
	assert.Equal(t, 19.0, tax)
}

func TestCalculateTax_ProvincialCompound(t *testing.T) {
	calc := newCalculator(t)

	scenario := worldtax.NewScenario(
		worldtax.MustRegion("CA", "BC"),
		worldtax.MustRegion("CA", "BC"),
		worldtax.TransactionB2C,
	)
	tax, err := calc.CalculateTax(scenario, 100000)
	require.NoError(t, err)
	assert.Equal(t, 12350.0, tax)
}

func TestEvaluate_FullResult(t *testing.T) {
	calc := newCalculator(t)

	scenario := worldtax.NewScenario(
		worldtax.MustRegion("DE", ""),
		worldtax.MustRegion("TH", ""),
		worldtax.TransactionB2C,
	)
	result, err := calc.Evaluate(scenario, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, worldtax.PolicyZeroRated, result.Policy)
	assert.True(t, result.Tax.IsZero())
	require.NotNil(t, result.Classification.Agreement)
	assert.Equal(t, "European Union", result.Classification.Agreement.Name)
}

func TestAgreementOverride(t *testing.T) {
	calc := newCalculator(t)

	scenario := worldtax.NewScenario(
		worldtax.MustRegion("DE", ""),
		worldtax.MustRegion("FR", ""),
		worldtax.TransactionB2B,
	).WithAgreementOverride(worldtax.NoAgreement())

	tax, err := calc.CalculateTax(scenario, 100)
	require.NoError(t, err)
	assert.Equal(t, 20.0, tax)
}

func TestRateOverride(t *testing.T) {
	calc := newCalculator(t)

	scenario := worldtax.NewScenario(
		worldtax.MustRegion("DE", ""),
		worldtax.MustRegion("DE", ""),
		worldtax.TransactionB2C,
	).WithRateOverride(worldtax.TaxKindGST)

	_, err := calc.CalculateTax(scenario, 100)
	require.Error(t, err)

	var notFound *worldtax.RateNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestDatabaseFromJSON(t *testing.T) {
	rates := []byte(`{"DE": [{"tax_kind": "vat_standard", "rate": 0.07, "compound": false}]}`)
	agreements := []byte(`{}`)

	db, err := worldtax.DatabaseFromJSON(rates, agreements)
	require.NoError(t, err)

	calc := worldtax.NewCalculator(db)
	scenario := worldtax.NewScenario(
		worldtax.MustRegion("DE", ""),
		worldtax.MustRegion("DE", ""),
		worldtax.TransactionB2C,
	)
	tax, err := calc.CalculateTax(scenario, 100)
	require.NoError(t, err)
	assert.Equal(t, 7.0, tax)
}

func TestInvalidRegion(t *testing.T) {
	_, err := worldtax.NewRegion("ZZ", "")
	require.Error(t, err)

	var validationErr *worldtax.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}
