package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/username/tariffscope/src/logger"
	"github.com/username/tariffscope/src/models"
	"github.com/username/tariffscope/src/reference"
	"github.com/username/tariffscope/src/services"
	"github.com/username/tariffscope/src/utils"
)

// CalculateRequest is the body of POST /api/calculate.
type CalculateRequest struct {
	HSCode            string          `json:"hs_code" validate:"required"`
	CountryOfOrigin   string          `json:"country_of_origin" validate:"required"`
	VendorCountry     string          `json:"vendor_country"`
	CostPerUnit       decimal.Decimal `json:"cost_per_unit" validate:"gt=0"`
	Quantity          int             `json:"quantity" validate:"required,gt=0"`
	CalculationMethod string          `json:"calculation_method" validate:"omitempty,oneof=standard preferential"`
}

type TariffHandler struct {
	estimator services.TariffEstimator
	validate  *validator.Validate
}

func NewTariffHandler(estimator services.TariffEstimator, validate *validator.Validate) *TariffHandler {
	return &TariffHandler{
		estimator: estimator,
		validate:  validate,
	}
}

// HandleCalculate runs the local heuristic estimate for a single vendor.
// Validation failures, including a "Not Specified" origin, are 400s and
// never reach the estimator.
func (h *TariffHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendJSONError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.SendJSONError(w, ValidationErrorMessage(err), http.StatusBadRequest)
		return
	}
	if req.CountryOfOrigin == reference.NotSpecified {
		utils.SendJSONError(w, "Country of Origin cannot be 'Not Specified' for calculations", http.StatusBadRequest)
		return
	}

	method := req.CalculationMethod
	if method == "" {
		method = models.MethodStandard
	}
	vendorCountry := req.VendorCountry
	if vendorCountry == "" {
		vendorCountry = req.CountryOfOrigin
	}

	result := h.estimator.Estimate(req.HSCode, req.CountryOfOrigin, vendorCountry, req.CostPerUnit, req.Quantity, method)

	logger.L.Debug("Local tariff estimate computed",
		"hsCode", req.HSCode,
		"coo", req.CountryOfOrigin,
		"method", method,
		"deminimisApplied", result.DeminimisApplied)

	utils.SendJSON(w, result, http.StatusOK)
}
