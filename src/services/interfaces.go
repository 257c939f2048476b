package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/username/tariffscope/src/models"
)

// TariffEstimator produces a local heuristic duty estimate for one vendor.
type TariffEstimator interface {
	Estimate(hsCode, countryOfOrigin, vendorCountry string, costPerUnit decimal.Decimal, quantity int, method string) models.TariffResult
}

// ComplianceService delegates authoritative duty computation to the external
// compliance API.
type ComplianceService interface {
	QuoteDuties(ctx context.Context, req models.QuoteRequest) (models.DutyQuote, error)
	// ClassifyHS asks the same endpoint family for its classification of the
	// line item, returning the HS code it settled on (empty when the
	// response carries none).
	ClassifyHS(ctx context.Context, req models.QuoteRequest) (string, error)
}

// ClassificationService resolves a free-text product description to an HS
// code via the two-stage external lookup.
type ClassificationService interface {
	Classify(ctx context.Context, req models.ClassifyRequest) (models.ClassificationResult, error)
}

// ReportService renders a vendor comparison spreadsheet.
type ReportService interface {
	BuildReport(req models.ReportRequest) ([]byte, error)
}
