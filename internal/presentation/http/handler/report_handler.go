package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/sparta-gym-api/internal/application/service"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/request"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/response"
)

// ReportHandler handles income report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func reportRange(req *request.ReportRequest) service.ReportRange {
	return service.ReportRange{From: req.From, To: req.To, Preset: req.Preset}
}

// Summary handles the income report of a range
// @Summary Report summary
// @Tags reports
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param preset query string false "today, week, month or year" default(month)
// @Success 200 {object} response.APIResponse
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	var req request.ReportRequest
	if !bindQuery(c, &req) {
		return
	}

	report, err := h.reportService.Summary(c.Request.Context(), reportRange(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Report generated successfully", report)
}

// Export handles downloading the report as CSV or XLSX
// @Summary Export report
// @Tags reports
// @Security BearerAuth
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var req request.ReportRequest
	if !bindQuery(c, &req) {
		return
	}

	file, err := h.reportService.Export(c.Request.Context(), reportRange(&req), req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Print handles the printable HTML version of the report
// @Summary Printable report
// @Tags reports
// @Security BearerAuth
// @Produce html
// @Success 200 {string} string
// @Router /reports/print [get]
func (h *ReportHandler) Print(c *gin.Context) {
	var req request.ReportRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.reportService.PrintHTML(c.Request.Context(), reportRange(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
