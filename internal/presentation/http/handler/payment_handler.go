package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/sparta-gym-api/internal/application/service"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/request"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/response"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
)

// PaymentHandler handles membership payment HTTP requests
type PaymentHandler struct {
	paymentService  *service.PaymentService
	reminderService *service.ReminderService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService, reminderService *service.ReminderService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, reminderService: reminderService}
}

// List handles listing payments
// @Summary List payments
// @Tags payments
// @Security BearerAuth
// @Param client_id query string false "Client ID"
// @Param type query string false "daily, monthly, quarterly or product"
// @Param method query string false "Payment method"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param search query string false "Client name"
// @Success 200 {object} response.APIResponse
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	var req request.PaymentFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	clientID, ok := optionalUUID(c, "client_id", req.ClientID)
	if !ok {
		return
	}
	paymentType, ok := optionalEnum(c, "type", req.Type, enum.ParsePaymentType)
	if !ok {
		return
	}
	method, ok := optionalEnum(c, "method", req.Method, enum.ParsePaymentMethod)
	if !ok {
		return
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), &service.ListPaymentsInput{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		ClientID:   clientID,
		Type:       paymentType,
		Method:     method,
		From:       req.From,
		To:         req.To,
		Search:     req.Search,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Payments retrieved successfully", result)
}

// Create handles recording a membership payment
// @Summary Create payment
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreatePaymentRequest true "Payment"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req request.CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), &service.CreatePaymentInput{
		UserID:   GetUserID(c),
		ClientID: req.ClientID,
		Type:     req.Type,
		Amount:   req.Amount,
		Period:   req.Period,
		PaidAt:   req.PaidAt,
		Method:   req.Method,
		Notes:    req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment recorded successfully", payment)
}

// Get handles fetching a payment
// @Summary Get payment
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.APIResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment retrieved successfully", payment)
}

// Update handles editing a membership payment
// @Summary Update payment
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body request.UpdatePaymentRequest true "Fields to change"
// @Success 200 {object} response.APIResponse
// @Router /payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.UpdatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), id, &service.UpdatePaymentInput{
		Type:   req.Type,
		Amount: req.Amount,
		Period: req.Period,
		PaidAt: req.PaidAt,
		Method: req.Method,
		Notes:  req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment updated successfully", payment)
}

// Delete handles deleting a membership payment
// @Summary Delete payment
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.APIResponse
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment deleted successfully", nil)
}

// Summary handles totals per payment type
// @Summary Payment summary
// @Tags payments
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} response.APIResponse
// @Router /payments/summary [get]
func (h *PaymentHandler) Summary(c *gin.Context) {
	summary, err := h.paymentService.Summary(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment summary retrieved successfully", summary)
}

// Expiring handles the expiring-soon list
// @Summary Expiring memberships
// @Tags payments
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /payments/expiring [get]
func (h *PaymentHandler) Expiring(c *gin.Context) {
	expiring, err := h.paymentService.ListExpiring(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expiring memberships retrieved successfully", expiring)
}

// NotifyExpiring emails every expiring client that has an email address
// @Summary Send expiry reminders
// @Tags payments
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /payments/expiring/notify [post]
func (h *PaymentHandler) NotifyExpiring(c *gin.Context) {
	result, err := h.reminderService.Notify(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reminders processed", result)
}
