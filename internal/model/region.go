package model

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate carries the ISO-3166 checks; validator instances cache struct
// metadata and are safe for concurrent use.
var validate = validator.New()

// Region is a validated (country, optional subdivision) identifier.
// Immutable once constructed.
type Region struct {
	country     string
	subdivision string
}

// NewRegion creates a Region from an ISO-3166-1 alpha-2 country code and an
// optional subdivision code (bare, e.g. "BC", or prefixed, e.g. "CA-BC").
// Codes are validated against the ISO-3166 lists.
func NewRegion(country, subdivision string) (Region, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	subdivision = strings.ToUpper(strings.TrimSpace(subdivision))
	subdivision = strings.TrimPrefix(subdivision, country+"-")

	if err := validate.Var(country, "iso3166_1_alpha2"); err != nil {
		return Region{}, NewValidationError("country", country, "iso3166_1_alpha2", "invalid country code")
	}

	if subdivision != "" {
		// ISO-3166-2 codes are "CC-SUB", so this also checks that the
		// subdivision belongs to the stated country.
		if err := validate.Var(country+"-"+subdivision, "iso3166_2"); err != nil {
			return Region{}, NewValidationError("subdivision", subdivision, "iso3166_2", "invalid subdivision code for "+country)
		}
	}

	return Region{country: country, subdivision: subdivision}, nil
}

// MustRegion creates a Region, panicking on invalid input. Intended for
// tests and static configuration.
func MustRegion(country, subdivision string) Region {
	r, err := NewRegion(country, subdivision)
	if err != nil {
		panic(err)
	}
	return r
}

// Country returns the ISO-3166-1 alpha-2 country code.
func (r Region) Country() string {
	return r.country
}

// Subdivision returns the bare subdivision code, or "" if none.
func (r Region) Subdivision() string {
	return r.subdivision
}

// HasSubdivision reports whether the region carries a subdivision code.
func (r Region) HasSubdivision() bool {
	return r.subdivision != ""
}

// Code returns the catalog identifier: "CC-SUB" with a subdivision,
// otherwise the bare country code.
func (r Region) Code() string {
	if r.subdivision == "" {
		return r.country
	}
	return r.country + "-" + r.subdivision
}

// Identifiers returns the codes under which this region can appear in an
// agreement's members set, most specific first.
func (r Region) Identifiers() []string {
	if r.subdivision == "" {
		return []string{r.country}
	}
	return []string{r.country + "-" + r.subdivision, r.country}
}

func (r Region) String() string {
	return r.Code()
}
