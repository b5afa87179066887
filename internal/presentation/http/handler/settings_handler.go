package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/sparta-gym-api/internal/application/service"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/request"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles gym settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves the gym settings
// @Summary Get settings
// @Tags settings
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings updates the gym settings
// @Summary Update settings
// @Tags settings
// @Security BearerAuth
// @Param request body request.UpdateSettingsRequest true "Fields to change"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		GymName:           req.GymName,
		Address:           req.Address,
		Phone:             req.Phone,
		TaxID:             req.TaxID,
		Currency:          req.Currency,
		DailyPrice:        req.DailyPrice,
		MonthlyPrice:      req.MonthlyPrice,
		QuarterlyPrice:    req.QuarterlyPrice,
		ReminderDays:      req.ReminderDays,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
