package model

import "fmt"

// ValidationError represents invalid region input
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// ConfigError represents a malformed rates or agreements document.
// Document is "rates" or "agreements".
type ConfigError struct {
	Document string
	Message  string
	Cause    error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed %s document: %s (%v)", e.Document, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed %s document: %s", e.Document, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new config error
func NewConfigError(document, message string, cause error) *ConfigError {
	return &ConfigError{
		Document: document,
		Message:  message,
		Cause:    cause,
	}
}

// RegionNotFoundError reports a rate lookup for a region absent from the
// catalog. Deliberately distinct from a configured zero rate: missing data
// must never surface as zero tax.
type RegionNotFoundError struct {
	Region string
}

func (e *RegionNotFoundError) Error() string {
	return fmt.Sprintf("region not found in rate catalog: %s", e.Region)
}

// RateNotFoundError reports a rate-tier override that matched no catalog
// entry for the region.
type RateNotFoundError struct {
	Region  string
	TaxKind TaxKind
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("rate %s not found for region %s", e.TaxKind, e.Region)
}

// AgreementNotFoundError reports a trade agreement override that references
// an unknown agreement name.
type AgreementNotFoundError struct {
	Name string
}

func (e *AgreementNotFoundError) Error() string {
	return fmt.Sprintf("trade agreement not found: %s", e.Name)
}
