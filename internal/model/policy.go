package model

// Policy is the resolved calculation policy for one evaluation. Closed sum:
// every consumer switches exhaustively over these values.
type Policy int

const (
	// PolicyNone applies no tax.
	PolicyNone Policy = iota
	// PolicyOrigin charges the source region's rates.
	PolicyOrigin
	// PolicyDestination charges the destination region's rates.
	PolicyDestination
	// PolicyReverseCharge shifts remittance to the buyer; seller charges 0.
	PolicyReverseCharge
	// PolicyExempt applies no tax (exemption).
	PolicyExempt
	// PolicyZeroRated taxes at 0%; distinct from Exempt for reporting.
	PolicyZeroRated
)

func (p Policy) String() string {
	switch p {
	case PolicyNone:
		return "none"
	case PolicyOrigin:
		return "origin"
	case PolicyDestination:
		return "destination"
	case PolicyReverseCharge:
		return "reverse_charge"
	case PolicyExempt:
		return "exempt"
	case PolicyZeroRated:
		return "zero_rated"
	}
	return "unknown"
}

// Taxable reports whether the policy leads to a rate lookup at all.
func (p Policy) Taxable() bool {
	return p == PolicyOrigin || p == PolicyDestination
}
