package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/username/tariffscope/src/logger"
	"github.com/username/tariffscope/src/models"
	"github.com/username/tariffscope/src/services"
	"github.com/username/tariffscope/src/utils"
)

// CalculateVendorRequest is the body of POST /calculate_vendor.
type CalculateVendorRequest struct {
	Description   string          `json:"description"`
	HSCode        string          `json:"hs_code"`
	COO           string          `json:"coo" validate:"required"`
	Cost          decimal.Decimal `json:"cost" validate:"gt=0"`
	Quantity      int             `json:"quantity"`
	ImportCountry string          `json:"import_country"`
	ImportDate    string          `json:"import_date"`
	SPIApplicable bool            `json:"spi_applicable"`
}

// VendorQuoteResponse is the success envelope. TotalDutyRate is
// pre-formatted for direct display.
type VendorQuoteResponse struct {
	Success         bool              `json:"success"`
	DutyLines       []models.DutyLine `json:"duty_lines"`
	TotalDutyRate   string            `json:"total_duty_rate"`
	TotalDutyAmount decimal.Decimal   `json:"total_duty_amount"`
	APIResponse     interface{}       `json:"api_response"`
	RequestPayload  interface{}       `json:"request_payload"`
}

type vendorQuoteError struct {
	Success        bool        `json:"success"`
	Error          string      `json:"error"`
	ErrorResponse  interface{} `json:"error_response,omitempty"`
	APIResponse    interface{} `json:"api_response"`
	RequestPayload interface{} `json:"request_payload,omitempty"`
}

type VendorHandler struct {
	compliance services.ComplianceService
	validate   *validator.Validate
}

func NewVendorHandler(compliance services.ComplianceService, validate *validator.Validate) *VendorHandler {
	return &VendorHandler{
		compliance: compliance,
		validate:   validate,
	}
}

// HandleCalculateVendor delegates a single vendor's duty calculation to the
// external compliance API and returns the flattened quote. Upstream failures
// come back as a 500 carrying the upstream status, body and the request
// document for diagnostics.
func (h *VendorHandler) HandleCalculateVendor(w http.ResponseWriter, r *http.Request) {
	var req CalculateVendorRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendJSONError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.SendJSONError(w, ValidationErrorMessage(err), http.StatusBadRequest)
		return
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	importCountry := req.ImportCountry
	if importCountry == "" {
		importCountry = "US"
	}

	quoteReq := models.QuoteRequest{
		HSCode:          req.HSCode,
		CountryOfOrigin: req.COO,
		// Ship-from defaults to the country of origin.
		VendorCountry: req.COO,
		CostPerUnit:   req.Cost,
		Quantity:      quantity,
		Description:   req.Description,
		ImportCountry: importCountry,
		SPIApplicable: req.SPIApplicable,
		ImportDate:    utils.ParseImportDate(req.ImportDate),
	}

	quote, err := h.compliance.QuoteDuties(r.Context(), quoteReq)
	if err != nil {
		logger.L.Error("Compliance duty quote failed", "coo", req.COO, "hsCode", req.HSCode, "error", err)

		errBody := vendorQuoteError{Success: false, Error: err.Error()}
		var qe *services.QuoteError
		if errors.As(err, &qe) {
			errBody.Error = qe.Message
			errBody.ErrorResponse = qe.Body
			errBody.RequestPayload = qe.RequestPayload
		}
		utils.SendJSON(w, errBody, http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, VendorQuoteResponse{
		Success:         true,
		DutyLines:       quote.DutyLines,
		TotalDutyRate:   formatPercent(quote.TotalDutyRatePercent),
		TotalDutyAmount: quote.TotalDutyAmount,
		APIResponse:     quote.APIResponse,
		RequestPayload:  quote.RequestPayload,
	}, http.StatusOK)
}

// formatPercent renders a percentage value for display ("12.50%").
func formatPercent(percent float64) string {
	return fmt.Sprintf("%.2f%%", percent)
}
