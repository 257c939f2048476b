package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/username/tariffscope/src/reference"
	"github.com/username/tariffscope/src/utils"
)

// ReferenceHandler serves the static country and HS-code lookups plus the
// liveness probe. These routes are unauthenticated.
type ReferenceHandler struct{}

func NewReferenceHandler() *ReferenceHandler {
	return &ReferenceHandler{}
}

func (h *ReferenceHandler) HandleGetCountries(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, map[string]interface{}{
		"countries": reference.Countries(),
	}, http.StatusOK)
}

func (h *ReferenceHandler) HandleGetHSCodes(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, map[string]interface{}{
		"hs_codes": reference.HSCodeList(),
	}, http.StatusOK)
}

func (h *ReferenceHandler) HandleGetHSCodeInfo(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	info, found := reference.LookupHS(code)
	if !found {
		utils.SendJSONError(w, "HS Code not found", http.StatusNotFound)
		return
	}
	utils.SendJSON(w, map[string]interface{}{
		"hs_code":       code,
		"description":   info.Description,
		"baseline_rate": info.BaselineRate,
	}, http.StatusOK)
}

func (h *ReferenceHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// HandleRoot answers the banner request; template rendering lives in the
// frontend, the backend only confirms it is up.
func (h *ReferenceHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, map[string]string{"message": "Tariffscope backend is running"}, http.StatusOK)
}
