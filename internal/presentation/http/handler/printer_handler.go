package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/application/service"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/request"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus(c.Request.Context()))
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	result, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	printed(c, result, "Test page sent to printer")
}

// PrintReceipt prints the receipt of a sale or a membership payment.
// The receipt is returned even when the printer is unavailable.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	var req request.PrintReceiptRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.printerService.PrintReceipt(c.Request.Context(), req.Type, uuid.MustParse(req.ID))
	if err != nil {
		response.Error(c, err)
		return
	}
	printed(c, result, "Receipt printed successfully")
}

func printed(c *gin.Context, result *service.PrintResult, message string) {
	if !result.Printed {
		message = "Receipt generated but printing failed"
	}
	response.OK(c, message, result)
}
