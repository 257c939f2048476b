package models

import (
	"github.com/shopspring/decimal"
)

// Calculation methods accepted by the local estimator.
const (
	MethodStandard     = "standard"
	MethodPreferential = "preferential"
)

// SummaryEntry is a name/value pair in the duty calculation summary.
type SummaryEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TariffResult is the local estimator's output for one vendor. It is built
// fresh per request and never mutated after construction. Exactly one of
// SPITariffRate or IEEPATariffRate is set, depending on the calculation
// method.
type TariffResult struct {
	VendorCountry      string          `json:"vendor_country"`
	CountryOfOrigin    string          `json:"country_of_origin"`
	CostPerUnit        decimal.Decimal `json:"cost_per_unit"`
	Quantity           int             `json:"quantity"`
	CustomsValue       decimal.Decimal `json:"customs_value"`
	BaselineTariffRate float64         `json:"baseline_tariff_rate"`
	ReciprocalRate     float64         `json:"reciprocal_tariff_rate"`
	Chapter301Rate     float64         `json:"chapter_301_tariff_rate"`
	TotalTariffRate    float64         `json:"total_tariff_rate"`
	DutyAmount         decimal.Decimal `json:"duty_amount"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	DeminimisApplied   bool            `json:"deminimis_applied"`
	SPITariffRate      *float64        `json:"spi_tariff_rate,omitempty"`
	IEEPATariffRate    *float64        `json:"ieepa_tariff_rate,omitempty"`
	CalculationSummary []SummaryEntry  `json:"dutyCalculationSummary"`
}
