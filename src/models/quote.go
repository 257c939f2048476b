package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DutyLine is one entry of the flattened duty breakdown returned by the
// compliance API. Rate is a fraction (0.05 = 5%).
type DutyLine struct {
	Description string  `json:"description"`
	Rate        float64 `json:"rate"`
	RatePercent float64 `json:"rate_percent"`
	Type        string  `json:"type"`
}

// QuoteRequest carries everything the compliance adapter needs to build an
// upstream quote document.
type QuoteRequest struct {
	HSCode          string
	CountryOfOrigin string
	VendorCountry   string
	CostPerUnit     decimal.Decimal
	Quantity        int
	Description     string
	ImportCountry   string
	SPIApplicable   bool
	ImportDate      time.Time
}

// DutyQuote is the flattened result of one compliance API call. The original
// request payload and raw upstream response ride along for diagnostic replay.
type DutyQuote struct {
	DutyLines            []DutyLine      `json:"duty_lines"`
	TotalDutyRate        float64         `json:"total_duty_rate"`
	TotalDutyRatePercent float64         `json:"total_duty_rate_percent"`
	TotalDutyAmount      decimal.Decimal `json:"total_duty_amount"`
	APIResponse          interface{}     `json:"api_response"`
	RequestPayload       interface{}     `json:"request_payload"`
}
