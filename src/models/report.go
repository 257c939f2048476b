package models

import "github.com/shopspring/decimal"

// ReportMeta is the product metadata block shown at the top of the export.
type ReportMeta struct {
	ShipDate      string `json:"ship_date"`
	Destination   string `json:"destination"`
	SKU           string `json:"sku"`
	Description   string `json:"description"`
	HSCode        string `json:"hs_code"`
	OrderQuantity int    `json:"order_quantity"`
	SPIApplicable bool   `json:"spi_applicable"`
}

// ReportVendor is one vendor column in the comparison table. TotalDutyRate
// arrives pre-formatted from the quote endpoint (e.g. "12.50%") and is
// written to the sheet as supplied.
type ReportVendor struct {
	Name            string          `json:"name"`
	VendorCountry   string          `json:"country"`
	CountryOfOrigin string          `json:"coo"`
	CostPerUnit     decimal.Decimal `json:"cost"`
	Quantity        int             `json:"quantity"`
	DutyLines       []DutyLine      `json:"duty_lines"`
	TotalDutyRate   string          `json:"total_duty_rate"`
	TotalDutyAmount decimal.Decimal `json:"total_duty_amount"`
}

// ReportRequest is the body of POST /export_excel.
type ReportRequest struct {
	FormData ReportMeta     `json:"formData"`
	Vendors  []ReportVendor `json:"vendors"`
}
