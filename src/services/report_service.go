// src/services/report_service.go
package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/username/tariffscope/src/logger"
	"github.com/username/tariffscope/src/models"
)

const reportSheetName = "Tariff Comparison"

// missingDutyPlaceholder marks a duty type another vendor has but this one
// does not.
const missingDutyPlaceholder = "N/A"

type reportServiceImpl struct{}

// NewReportService creates the spreadsheet report builder.
func NewReportService() ReportService {
	return &reportServiceImpl{}
}

// BuildReport renders the vendor comparison workbook and returns its bytes.
// Cell values are deterministic for identical input; the download filename
// (which is timestamped) is the handler's concern.
func (s *reportServiceImpl) BuildReport(req models.ReportRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name report sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create bold style: %w", err)
	}

	row := 1

	// Section 1: product metadata as key/value rows.
	metaRows := []struct {
		label string
		value interface{}
	}{
		{"Ship Date", req.FormData.ShipDate},
		{"Destination", req.FormData.Destination},
		{"SKU", req.FormData.SKU},
		{"Description", req.FormData.Description},
		{"HS Code", req.FormData.HSCode},
		{"Order Quantity", req.FormData.OrderQuantity},
		{"SPI Applicable", req.FormData.SPIApplicable},
	}
	for _, m := range metaRows {
		if err := s.setRow(f, row, m.label, m.value); err != nil {
			return nil, err
		}
		if err := s.styleCell(f, 1, row, boldStyle); err != nil {
			return nil, err
		}
		row++
	}

	row++ // blank separator row

	// Section 2 header: metric column then one column per vendor.
	headerRow := row
	if err := s.setCell(f, 1, headerRow, "Metric"); err != nil {
		return nil, err
	}
	for i, vendor := range req.Vendors {
		name := vendor.Name
		if name == "" {
			name = fmt.Sprintf("Vendor %d", i+1)
		}
		if err := s.setCell(f, i+2, headerRow, name); err != nil {
			return nil, err
		}
	}
	for col := 1; col <= len(req.Vendors)+1; col++ {
		if err := s.styleCell(f, col, headerRow, boldStyle); err != nil {
			return nil, err
		}
	}
	row++

	// Fixed vendor attribute rows.
	attrRows := []struct {
		label string
		value func(v models.ReportVendor) interface{}
	}{
		{"Vendor Country", func(v models.ReportVendor) interface{} { return v.VendorCountry }},
		{"Country of Origin", func(v models.ReportVendor) interface{} { return v.CountryOfOrigin }},
		{"Cost per Unit", func(v models.ReportVendor) interface{} { return formatCurrency(v.CostPerUnit) }},
		{"Quantity", func(v models.ReportVendor) interface{} { return v.Quantity }},
	}
	for _, a := range attrRows {
		if err := s.setCell(f, 1, row, a.label); err != nil {
			return nil, err
		}
		for i, vendor := range req.Vendors {
			if err := s.setCell(f, i+2, row, a.value(vendor)); err != nil {
				return nil, err
			}
		}
		row++
	}

	// Duty breakdown: the union of duty-line descriptions across all
	// vendors, sorted ascending. Vendors lacking a type get a placeholder.
	for _, dutyType := range dutyTypeUnion(req.Vendors) {
		if err := s.setCell(f, 1, row, dutyType); err != nil {
			return nil, err
		}
		for i, vendor := range req.Vendors {
			value := missingDutyPlaceholder
			if line, ok := findDutyLine(vendor, dutyType); ok {
				value = fmt.Sprintf("%.2f%%", line.RatePercent)
			}
			if err := s.setCell(f, i+2, row, value); err != nil {
				return nil, err
			}
		}
		row++
	}

	// Trailing totals, landed cost emphasized.
	totalRows := []struct {
		label string
		bold  bool
		value func(v models.ReportVendor) interface{}
	}{
		{"Total Duty Rate", false, func(v models.ReportVendor) interface{} { return v.TotalDutyRate }},
		{"Total Duty Amount", false, func(v models.ReportVendor) interface{} { return formatCurrency(v.TotalDutyAmount) }},
		{"Total Landed Cost", true, func(v models.ReportVendor) interface{} { return formatCurrency(landedCost(v)) }},
	}
	for _, t := range totalRows {
		if err := s.setCell(f, 1, row, t.label); err != nil {
			return nil, err
		}
		for i, vendor := range req.Vendors {
			if err := s.setCell(f, i+2, row, t.value(vendor)); err != nil {
				return nil, err
			}
		}
		if t.bold {
			for col := 1; col <= len(req.Vendors)+1; col++ {
				if err := s.styleCell(f, col, row, boldStyle); err != nil {
					return nil, err
				}
			}
		}
		row++
	}

	// Widen the metric column for readability.
	if err := f.SetColWidth(reportSheetName, "A", "A", 24); err != nil {
		logger.L.Warn("Failed to set report column width", "error", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportServiceImpl) setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell coordinates (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(reportSheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

func (s *reportServiceImpl) setRow(f *excelize.File, row int, label string, value interface{}) error {
	if err := s.setCell(f, 1, row, label); err != nil {
		return err
	}
	return s.setCell(f, 2, row, value)
}

func (s *reportServiceImpl) styleCell(f *excelize.File, col, row, styleID int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell coordinates (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellStyle(reportSheetName, cell, cell, styleID); err != nil {
		return fmt.Errorf("failed to style cell %s: %w", cell, err)
	}
	return nil
}

// dutyTypeUnion collects every duty-line description present in any vendor,
// sorted ascending.
func dutyTypeUnion(vendors []models.ReportVendor) []string {
	seen := map[string]bool{}
	for _, vendor := range vendors {
		for _, line := range vendor.DutyLines {
			seen[line.Description] = true
		}
	}
	union := make([]string, 0, len(seen))
	for desc := range seen {
		union = append(union, desc)
	}
	sort.Strings(union)
	return union
}

func findDutyLine(vendor models.ReportVendor, description string) (models.DutyLine, bool) {
	for _, line := range vendor.DutyLines {
		if line.Description == description {
			return line, true
		}
	}
	return models.DutyLine{}, false
}

// landedCost is merchandise value plus the computed duty amount.
func landedCost(v models.ReportVendor) decimal.Decimal {
	return v.CostPerUnit.Mul(decimal.NewFromInt(int64(v.Quantity))).Add(v.TotalDutyAmount)
}

func formatCurrency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
