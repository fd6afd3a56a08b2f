// Package database loads and serves the immutable tax database: the rate
// catalog (region code -> ordered rate entries) and the trade agreement
// registry. A database is constructed once, never mutated afterwards, and is
// safe to share across any number of concurrent evaluations.
package database

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rezonia/worldtax/internal/model"
)

//go:embed data/vat_rates.json
var builtinRates []byte

//go:embed data/trade_agreements.json
var builtinAgreements []byte

// TaxDatabase is the immutable aggregate of the rate catalog and the trade
// agreement registry.
type TaxDatabase struct {
	rates      map[string][]model.RateEntry
	agreements map[string]*model.TradeAgreement
	// order is the agreements document's key order; agreement auto-detection
	// iterates in this order and the first match wins.
	order []string
}

// Default constructs a database from the built-in rate and agreement data.
func Default() (*TaxDatabase, error) {
	return FromJSON(builtinRates, builtinAgreements)
}

// FromJSON constructs a database from two JSON documents: the rate document
// (region code -> array of rate entries in application order) and the
// agreement document (name -> trade agreement).
func FromJSON(rates, agreements []byte) (*TaxDatabase, error) {
	db := &TaxDatabase{
		rates:      make(map[string][]model.RateEntry),
		agreements: make(map[string]*model.TradeAgreement),
	}

	if err := json.Unmarshal(rates, &db.rates); err != nil {
		return nil, model.NewConfigError("rates", "invalid JSON", err)
	}
	if err := db.validateRates(); err != nil {
		return nil, err
	}

	if err := db.unmarshalAgreements(agreements); err != nil {
		return nil, err
	}
	if err := db.validateAgreements(); err != nil {
		return nil, err
	}

	return db, nil
}

// FromFiles constructs a database from rate and agreement documents on disk.
func FromFiles(ratesPath, agreementsPath string) (*TaxDatabase, error) {
	rates, err := os.ReadFile(ratesPath)
	if err != nil {
		return nil, model.NewConfigError("rates", "failed to read "+ratesPath, err)
	}
	agreements, err := os.ReadFile(agreementsPath)
	if err != nil {
		return nil, model.NewConfigError("agreements", "failed to read "+agreementsPath, err)
	}
	return FromJSON(rates, agreements)
}

// unmarshalAgreements decodes the agreements object token by token so the
// document's key order is preserved. encoding/json map decoding would lose
// it, and iteration order is part of the classifier's contract.
func (db *TaxDatabase) unmarshalAgreements(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return model.NewConfigError("agreements", "invalid JSON", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return model.NewConfigError("agreements", "document must be a JSON object", nil)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return model.NewConfigError("agreements", "invalid JSON", err)
		}
		name := tok.(string)

		var agreement model.TradeAgreement
		if err := dec.Decode(&agreement); err != nil {
			return model.NewConfigError("agreements", "invalid agreement "+name, err)
		}
		if agreement.Name == "" {
			agreement.Name = name
		}

		db.agreements[name] = &agreement
		db.order = append(db.order, name)
	}

	return nil
}

func (db *TaxDatabase) validateRates() error {
	for code, entries := range db.rates {
		for i, entry := range entries {
			if entry.TaxKind == "" {
				return model.NewConfigError("rates", fmt.Sprintf("%s: entry %d has no tax_kind", code, i), nil)
			}
			if entry.Rate < 0 || entry.Rate > 1 {
				return model.NewConfigError("rates", fmt.Sprintf("%s: entry %d rate %v outside [0,1]", code, i, entry.Rate), nil)
			}
		}
	}
	return nil
}

func (db *TaxDatabase) validateAgreements() error {
	for _, name := range db.order {
		agreement := db.agreements[name]
		if agreement.Kind != model.AgreementCustomsUnion && agreement.Kind != model.AgreementFederalState {
			return model.NewConfigError("agreements", fmt.Sprintf("%s: unknown type %q", name, agreement.Kind), nil)
		}
		if len(agreement.Members) == 0 {
			return model.NewConfigError("agreements", name+": empty members set", nil)
		}
		for slot, rule := range map[string]*model.TaxRule{
			"internal_b2b":    agreement.Rules.InternalB2B,
			"internal_b2c":    agreement.Rules.InternalB2C,
			"external_export": agreement.Rules.ExternalExport,
		} {
			if err := validateRule(name, slot, rule); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRule(agreement, slot string, rule *model.TaxRule) error {
	if rule == nil {
		return nil
	}
	if !rule.Type.Terminal() && rule.Type != model.RuleThresholdBased {
		return model.NewConfigError("agreements", fmt.Sprintf("%s.%s: unknown rule type %q", agreement, slot, rule.Type), nil)
	}
	// Threshold branches must resolve in one step; nested threshold rules
	// would recurse without a base case.
	for field, branch := range map[string]model.RuleType{
		"below_threshold":         rule.BelowThreshold,
		"above_threshold":         rule.AboveThreshold,
		"below_threshold_digital": rule.BelowThresholdDigital,
		"above_threshold_digital": rule.AboveThresholdDigital,
	} {
		if branch != "" && !branch.Terminal() {
			return model.NewConfigError("agreements", fmt.Sprintf("%s.%s: %s must name a terminal rule type, got %q", agreement, slot, field, branch), nil)
		}
	}
	return nil
}

// Rates returns the rate entries configured under an exact catalog code and
// whether the code exists. A present code with no entries is a taxless
// jurisdiction, not a lookup failure.
func (db *TaxDatabase) Rates(code string) ([]model.RateEntry, bool) {
	entries, ok := db.rates[code]
	return entries, ok
}

// RatesForRegion resolves a region's rate entries, preferring the
// subdivision code ("CC-SUB") over the bare country code. A region present
// under neither code fails with RegionNotFoundError.
func (db *TaxDatabase) RatesForRegion(region model.Region) ([]model.RateEntry, error) {
	for _, id := range region.Identifiers() {
		if entries, ok := db.rates[id]; ok {
			return entries, nil
		}
	}
	return nil, &model.RegionNotFoundError{Region: region.Code()}
}

// Agreement returns the trade agreement registered under name.
func (db *TaxDatabase) Agreement(name string) (*model.TradeAgreement, error) {
	agreement, ok := db.agreements[name]
	if !ok {
		return nil, &model.AgreementNotFoundError{Name: name}
	}
	return agreement, nil
}

// Agreements returns all trade agreements in registry (document) order.
func (db *TaxDatabase) Agreements() []*model.TradeAgreement {
	out := make([]*model.TradeAgreement, 0, len(db.order))
	for _, name := range db.order {
		out = append(out, db.agreements[name])
	}
	return out
}

// AgreementNames returns the registry's names in document order.
func (db *TaxDatabase) AgreementNames() []string {
	out := make([]string, len(db.order))
	copy(out, db.order)
	return out
}

// RegionCodes returns every catalog code with configured rate entries.
func (db *TaxDatabase) RegionCodes() []string {
	out := make([]string, 0, len(db.rates))
	for code := range db.rates {
		out = append(out, code)
	}
	return out
}
