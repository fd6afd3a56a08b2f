package model

// TransactionType distinguishes business-to-business from
// business-to-consumer transactions.
type TransactionType string

const (
	TransactionB2B TransactionType = "b2b"
	TransactionB2C TransactionType = "b2c"
)

// Valid reports whether the transaction type is one of the known values.
func (t TransactionType) Valid() bool {
	return t == TransactionB2B || t == TransactionB2C
}

// overrideKind tags the AgreementOverride variants.
type overrideKind int

const (
	overrideUse overrideKind = iota
	overrideNone
)

// AgreementOverride forces the jurisdiction classification instead of
// auto-detecting: either a named agreement (membership is not re-checked)
// or no agreement at all (plain cross-border treatment).
type AgreementOverride struct {
	kind overrideKind
	name string
}

// UseAgreement forces a specific agreement by name.
func UseAgreement(name string) *AgreementOverride {
	return &AgreementOverride{kind: overrideUse, name: name}
}

// NoAgreement forces the plain cross-border path.
func NoAgreement() *AgreementOverride {
	return &AgreementOverride{kind: overrideNone}
}

// IsNoAgreement reports whether the override forces the no-agreement path.
func (o *AgreementOverride) IsNoAgreement() bool {
	return o.kind == overrideNone
}

// AgreementName returns the forced agreement name; empty for NoAgreement.
func (o *AgreementOverride) AgreementName() string {
	return o.name
}

// TaxScenario bundles the facts of one transaction. Created per transaction
// by the caller and read-only during evaluation; evaluation never mutates
// the shared database, so any number of scenarios may be evaluated
// concurrently against one database.
type TaxScenario struct {
	SourceRegion      Region
	DestinationRegion Region
	TransactionType   TransactionType

	// TradeAgreementOverride, when set, bypasses agreement auto-detection.
	TradeAgreementOverride *AgreementOverride

	IsDigitalProductOrService bool
	HasResaleCertificate      bool

	// IgnoreThreshold forces the above-threshold branch of threshold-based
	// rules. Threshold evaluation is otherwise per call; callers needing a
	// cumulative threshold track the running total themselves and set this
	// once it crosses the published limit.
	IgnoreThreshold bool

	// RateOverride restricts the rate lookup to a single tax kind
	// (e.g. a reduced VAT tier). Empty means all configured entries apply.
	RateOverride TaxKind
}

// NewScenario creates a scenario with default attributes: no override, a
// physical product, no resale certificate, thresholds honored, all
// configured rate entries applied.
func NewScenario(source, destination Region, transactionType TransactionType) *TaxScenario {
	return &TaxScenario{
		SourceRegion:      source,
		DestinationRegion: destination,
		TransactionType:   transactionType,
	}
}

// WithAgreementOverride sets the trade agreement override.
func (s *TaxScenario) WithAgreementOverride(o *AgreementOverride) *TaxScenario {
	s.TradeAgreementOverride = o
	return s
}

// WithRateOverride restricts rate lookups to one tax kind.
func (s *TaxScenario) WithRateOverride(kind TaxKind) *TaxScenario {
	s.RateOverride = kind
	return s
}

// IsSameCountry reports whether source and destination share a country.
func (s *TaxScenario) IsSameCountry() bool {
	return s.SourceRegion.Country() == s.DestinationRegion.Country()
}
