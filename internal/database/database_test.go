package database_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/worldtax/internal/database"
	"github.com/rezonia/worldtax/internal/model"
)

func TestDefault(t *testing.T) {
	db, err := database.Default()
	require.NoError(t, err)

	entries, ok := db.Rates("DE")
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, model.TaxKindVATStandard, entries[0].TaxKind)
	assert.Equal(t, 0.19, entries[0].Rate)
	assert.False(t, entries[0].Compound)

	_, err = db.Agreement("EU")
	require.NoError(t, err)
	_, err = db.Agreement("US")
	require.NoError(t, err)
	_, err = db.Agreement("CA")
	require.NoError(t, err)
	_, err = db.Agreement("GCC")
	require.NoError(t, err)
}

func TestDefault_CompoundOrdering(t *testing.T) {
	db, err := database.Default()
	require.NoError(t, err)

	entries, ok := db.Rates("CA-BC")
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.Equal(t, model.TaxKindGST, entries[0].TaxKind)
	assert.False(t, entries[0].Compound)
	assert.Equal(t, model.TaxKindPST, entries[1].TaxKind)
	assert.True(t, entries[1].Compound)
}

func TestFromJSON_RegistryOrder(t *testing.T) {
	rates := []byte(`{"DE": [{"tax_kind": "vat_standard", "rate": 0.19}]}`)
	agreements := []byte(`{
		"ZULU":  {"name": "Zulu", "type": "customs_union", "members": ["DE", "FR"]},
		"ALPHA": {"name": "Alpha", "type": "customs_union", "members": ["IT", "ES"]},
		"MIKE":  {"name": "Mike", "type": "federal_state", "members": ["US-CA"]}
	}`)

	db, err := database.FromJSON(rates, agreements)
	require.NoError(t, err)

	// Document order, not lexical order
	assert.Equal(t, []string{"ZULU", "ALPHA", "MIKE"}, db.AgreementNames())
}

func TestFromJSON_MalformedRates(t *testing.T) {
	_, err := database.FromJSON([]byte(`{not json`), []byte(`{}`))
	require.Error(t, err)

	var configErr *model.ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "rates", configErr.Document)
}

func TestFromJSON_MalformedAgreements(t *testing.T) {
	_, err := database.FromJSON([]byte(`{}`), []byte(`[1, 2]`))
	require.Error(t, err)

	var configErr *model.ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "agreements", configErr.Document)
}

func TestFromJSON_RateOutOfRange(t *testing.T) {
	rates := []byte(`{"DE": [{"tax_kind": "vat_standard", "rate": 19.0}]}`)
	_, err := database.FromJSON(rates, []byte(`{}`))
	require.Error(t, err)

	var configErr *model.ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "rates", configErr.Document)
}

func TestFromJSON_UnknownRuleType(t *testing.T) {
	agreements := []byte(`{
		"EU": {
			"name": "EU", "type": "customs_union", "members": ["DE", "FR"],
			"tax_rules": {"internal_b2b": {"type": "split_payment"}}
		}
	}`)
	_, err := database.FromJSON([]byte(`{}`), agreements)
	require.Error(t, err)

	var configErr *model.ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "agreements", configErr.Document)
}

func TestFromJSON_NestedThresholdRejected(t *testing.T) {
	agreements := []byte(`{
		"EU": {
			"name": "EU", "type": "customs_union", "members": ["DE", "FR"],
			"tax_rules": {"internal_b2c": {
				"type": "threshold_based",
				"threshold": 10000,
				"below_threshold": "threshold_based",
				"above_threshold": "destination"
			}}
		}
	}`)
	_, err := database.FromJSON([]byte(`{}`), agreements)
	require.Error(t, err)
}

func TestFromJSON_UnknownAgreementKind(t *testing.T) {
	agreements := []byte(`{"X": {"name": "X", "type": "bilateral", "members": ["DE", "FR"]}}`)
	_, err := database.FromJSON([]byte(`{}`), agreements)
	require.Error(t, err)
}

func TestRatesForRegion_SubdivisionFallback(t *testing.T) {
	rates := []byte(`{"FR": [{"tax_kind": "vat_standard", "rate": 0.20}]}`)
	db, err := database.FromJSON(rates, []byte(`{}`))
	require.NoError(t, err)

	// FR-IDF is not in the catalog; the country entry serves it
	entries, err := db.RatesForRegion(model.MustRegion("FR", "IDF"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.20, entries[0].Rate)
}

func TestRatesForRegion_NotFound(t *testing.T) {
	db, err := database.FromJSON([]byte(`{}`), []byte(`{}`))
	require.NoError(t, err)

	_, err = db.RatesForRegion(model.MustRegion("DE", ""))
	require.Error(t, err)

	var notFound *model.RegionNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "DE", notFound.Region)
}

func TestRates_EmptyEntriesIsNotMissing(t *testing.T) {
	db, err := database.Default()
	require.NoError(t, err)

	// Qatar levies no VAT but is configured; Oregon likewise
	entries, ok := db.Rates("QA")
	assert.True(t, ok)
	assert.Empty(t, entries)

	entries, ok = db.Rates("US-OR")
	assert.True(t, ok)
	assert.Empty(t, entries)
}

func TestAgreement_NotFound(t *testing.T) {
	db, err := database.Default()
	require.NoError(t, err)

	_, err = db.Agreement("NAFTA")
	require.Error(t, err)

	var notFound *model.AgreementNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "NAFTA", notFound.Name)
}

func TestEUMembership(t *testing.T) {
	db, err := database.Default()
	require.NoError(t, err)

	eu, err := db.Agreement("EU")
	require.NoError(t, err)
	assert.Len(t, eu.Members, 27)
	assert.True(t, eu.HasMember(model.MustRegion("DE", "")))
	assert.False(t, eu.HasMember(model.MustRegion("GB", "")))
}
