package server

// RegionInput identifies a region in API requests
type RegionInput struct {
	Country     string `json:"country"`
	Subdivision string `json:"subdivision,omitempty"`
}

// CalculateRequest is the request for the calculate and rates endpoints
type CalculateRequest struct {
	Source          RegionInput `json:"source"`
	Destination     RegionInput `json:"destination"`
	TransactionType string      `json:"transaction_type"`
	Amount          float64     `json:"amount"`

	DigitalProductOrService bool `json:"digital_product_or_service,omitempty"`
	ResaleCertificate       bool `json:"resale_certificate,omitempty"`
	IgnoreThreshold         bool `json:"ignore_threshold,omitempty"`

	// TradeAgreement forces a named agreement; NoAgreement forces the plain
	// cross-border path. Mutually exclusive.
	TradeAgreement string `json:"trade_agreement,omitempty"`
	NoAgreement    bool   `json:"no_agreement,omitempty"`

	RateOverride string `json:"rate_override,omitempty"`
}

// RateOutput is one applied rate in a response
type RateOutput struct {
	TaxKind  string  `json:"tax_kind"`
	Rate     float64 `json:"rate"`
	Compound bool    `json:"compound"`
	Amount   float64 `json:"amount"`
}

// CalculateResponse is the response for the calculate endpoint
type CalculateResponse struct {
	TaxAmount      float64      `json:"tax_amount"`
	Total          float64      `json:"total"`
	Policy         string       `json:"policy"`
	Classification string       `json:"classification"`
	Agreement      string       `json:"agreement,omitempty"`
	Rates          []RateOutput `json:"rates"`
}

// RatesResponse is the response for the rates endpoint
type RatesResponse struct {
	Policy string       `json:"policy"`
	Rates  []RateOutput `json:"rates"`
}

// AgreementSummary is one registry entry in the agreements listing
type AgreementSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Members int    `json:"members"`
}

// CatalogResponse is the response for the catalog endpoint
type CatalogResponse struct {
	Region  string       `json:"region"`
	Entries []RateOutput `json:"entries"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
