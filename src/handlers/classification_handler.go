package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/username/tariffscope/src/logger"
	"github.com/username/tariffscope/src/models"
	"github.com/username/tariffscope/src/services"
	"github.com/username/tariffscope/src/utils"
)

// ClassifyHSRequest is the body of POST /classify_hs.
type ClassifyHSRequest struct {
	Description        string `json:"description" validate:"required"`
	COO                string `json:"coo"`
	DestinationCountry string `json:"destination_country"`
	VerifyDescription  bool   `json:"verify_description"`
}

type ClassificationHandler struct {
	classifier services.ClassificationService
	validate   *validator.Validate
}

func NewClassificationHandler(classifier services.ClassificationService, validate *validator.Validate) *ClassificationHandler {
	return &ClassificationHandler{
		classifier: classifier,
		validate:   validate,
	}
}

// HandleClassifyHS resolves a product description to an HS code. Every
// outcome including verification failure is a 200 with a tagged outcome;
// only malformed input is an HTTP error.
func (h *ClassificationHandler) HandleClassifyHS(w http.ResponseWriter, r *http.Request) {
	var req ClassifyHSRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendJSONError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.SendJSONError(w, ValidationErrorMessage(err), http.StatusBadRequest)
		return
	}

	result, err := h.classifier.Classify(r.Context(), models.ClassifyRequest{
		Description:        req.Description,
		CountryOfOrigin:    req.COO,
		DestinationCountry: req.DestinationCountry,
		VerifyDescription:  req.VerifyDescription,
	})
	if err != nil {
		logger.L.Error("HS classification failed", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("classification failed: %v", err), http.StatusInternalServerError)
		return
	}

	logger.L.Debug("HS classification finished", "outcome", result.Outcome, "hsCode", result.HSCode)
	utils.SendJSON(w, result, http.StatusOK)
}
