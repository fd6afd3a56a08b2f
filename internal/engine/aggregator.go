package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/worldtax/internal/database"
	"github.com/rezonia/worldtax/internal/model"
)

// aggregate looks up the rate entries for the resolved policy's rate region
// and combines them into a total tax figure plus the ordered list of applied
// rates. Non-taxing policies yield zero tax and an empty list without a
// catalog lookup.
func aggregate(db *database.TaxDatabase, policy model.Policy, scenario *model.TaxScenario, amount decimal.Decimal) (decimal.Decimal, []model.AppliedRate, error) {
	var region model.Region
	switch policy {
	case model.PolicyOrigin:
		region = scenario.SourceRegion
	case model.PolicyDestination:
		region = scenario.DestinationRegion
	case model.PolicyReverseCharge, model.PolicyExempt, model.PolicyZeroRated, model.PolicyNone:
		return decimal.Zero, nil, nil
	}

	entries, err := db.RatesForRegion(region)
	if err != nil {
		return decimal.Zero, nil, err
	}

	if scenario.RateOverride != "" {
		entries = filterByKind(entries, scenario.RateOverride)
		if len(entries) == 0 {
			return decimal.Zero, nil, &model.RateNotFoundError{
				Region:  region.Code(),
				TaxKind: scenario.RateOverride,
			}
		}
	}

	// Non-compound entries apply to the original amount; compound entries
	// apply to the original amount plus the tax accumulated so far, so a
	// provincial tax can stack on (price + federal tax).
	total := decimal.Zero
	applied := make([]model.AppliedRate, 0, len(entries))
	for _, entry := range entries {
		base := amount
		if entry.Compound {
			base = amount.Add(total)
		}
		contribution := base.Mul(entry.RateDecimal())
		total = total.Add(contribution)
		applied = append(applied, model.AppliedRate{
			RateEntry: entry,
			Amount:    contribution,
		})
	}

	return total, applied, nil
}

func filterByKind(entries []model.RateEntry, kind model.TaxKind) []model.RateEntry {
	out := make([]model.RateEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.TaxKind == kind {
			out = append(out, entry)
		}
	}
	return out
}
