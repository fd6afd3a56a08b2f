package engine

import (
	"github.com/rezonia/worldtax/internal/database"
	"github.com/rezonia/worldtax/internal/model"
)

// ClassificationKind says which jurisdictional situation governs a pair of
// regions.
type ClassificationKind int

const (
	// ClassNoAgreement means no configured agreement governs the pair; the
	// resolver falls back to the default cross-border table.
	ClassNoAgreement ClassificationKind = iota
	// ClassInternal means both regions are members of the matched agreement.
	ClassInternal
	// ClassExternalExport means the source is a member and the destination
	// is not: an export out of the union.
	ClassExternalExport
)

func (k ClassificationKind) String() string {
	switch k {
	case ClassNoAgreement:
		return "no_agreement"
	case ClassInternal:
		return "internal"
	case ClassExternalExport:
		return "external_export"
	}
	return "unknown"
}

// Classification is the classifier's result. Agreement is nil exactly when
// Kind is ClassNoAgreement.
type Classification struct {
	Kind      ClassificationKind
	Agreement *model.TradeAgreement
}

// Classify determines which trade agreement, if any, governs the pair of
// regions. Pure function over the registry.
//
// With no override, agreements are scanned in registry order and the first
// match wins; the configuration is assumed to keep agreements disjoint.
// Same-country pairs consider only federal-state agreements and
// cross-country pairs only customs unions, so a domestic sale inside an EU
// country is never classified as intra-union trade.
func Classify(db *database.TaxDatabase, source, destination model.Region, override *model.AgreementOverride) (Classification, error) {
	if override != nil {
		if override.IsNoAgreement() {
			return Classification{Kind: ClassNoAgreement}, nil
		}
		// An explicit agreement bypasses membership matching, but the
		// internal/export split still follows the members set.
		agreement, err := db.Agreement(override.AgreementName())
		if err != nil {
			return Classification{}, err
		}
		if agreement.HasMember(source) && !agreement.HasMember(destination) {
			return Classification{Kind: ClassExternalExport, Agreement: agreement}, nil
		}
		return Classification{Kind: ClassInternal, Agreement: agreement}, nil
	}

	sameCountry := source.Country() == destination.Country()

	for _, agreement := range db.Agreements() {
		if agreement.IsFederal() != sameCountry {
			continue
		}
		if agreement.HasMember(source) && agreement.HasMember(destination) {
			return Classification{Kind: ClassInternal, Agreement: agreement}, nil
		}
	}

	// Second pass: a source-only membership is an export out of that union,
	// served by the agreement's external_export rule slot.
	if !sameCountry {
		for _, agreement := range db.Agreements() {
			if agreement.IsFederal() {
				continue
			}
			if agreement.HasMember(source) {
				return Classification{Kind: ClassExternalExport, Agreement: agreement}, nil
			}
		}
	}

	return Classification{Kind: ClassNoAgreement}, nil
}
