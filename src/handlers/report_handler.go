package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/username/tariffscope/src/logger"
	"github.com/username/tariffscope/src/models"
	"github.com/username/tariffscope/src/services"
	"github.com/username/tariffscope/src/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reports services.ReportService
}

func NewReportHandler(reports services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// HandleExportExcel renders the vendor comparison workbook and returns it as
// a downloadable attachment. Nothing is retained server side.
func (h *ReportHandler) HandleExportExcel(w http.ResponseWriter, r *http.Request) {
	var req models.ReportRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendJSONError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Vendors) == 0 {
		utils.SendJSONError(w, "Missing required field: vendors", http.StatusBadRequest)
		return
	}

	data, err := h.reports.BuildReport(req)
	if err != nil {
		logger.L.Error("Report generation failed", "vendorCount", len(req.Vendors), "error", err)
		utils.SendJSONError(w, fmt.Sprintf("report generation failed: %v", err), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("tariff_comparison_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.L.Error("Failed to write report response", "filename", filename, "error", err)
	}
}
