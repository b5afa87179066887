package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/sparta-gym-api/internal/application/service"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/request"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/response"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
)

// SaleHandler handles product sale HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create handles selling a product
// @Summary Create sale
// @Description Sells one product and takes it out of stock. Requires an Idempotency-Key header.
// @Tags sales
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Unique key per sale attempt"
// @Param request body request.CreateSaleRequest true "Sale"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), &service.CreateSaleInput{
		UserID:     *userID,
		ProductID:  req.ProductID,
		ClientID:   req.ClientID,
		Quantity:   req.Quantity,
		Method:     req.Method,
		AmountPaid: req.AmountPaid,
		Notes:      req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale created successfully", sale)
}

// List handles listing sales (supports both page-based and cursor-based pagination)
// @Summary List sales
// @Tags sales
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param client_id query string false "Client ID"
// @Param product_id query string false "Product ID"
// @Param status query string false "paid or pending"
// @Param method query string false "Payment method"
// @Param cancelled query bool false "Cancelled flag"
// @Success 200 {object} response.APIResponse
// @Router /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var req request.SaleFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	filter, ok := saleFilter(c, &req)
	if !ok {
		return
	}

	if wantsCursor(req.Cursor, req.Limit) {
		result, err := h.saleService.ListSalesWithCursor(c.Request.Context(), cursorParams(req.Cursor, req.Direction, req.Limit), filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.SuccessWithCursor(c, "Sales retrieved successfully", result)
		return
	}

	result, err := h.saleService.ListSales(c.Request.Context(), &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Sales retrieved successfully", result)
}

func saleFilter(c *gin.Context, req *request.SaleFilterRequest) (service.SaleFilter, bool) {
	filter := service.SaleFilter{From: req.From, To: req.To}
	var ok bool

	if filter.ClientID, ok = optionalUUID(c, "client_id", req.ClientID); !ok {
		return filter, false
	}
	if filter.ProductID, ok = optionalUUID(c, "product_id", req.ProductID); !ok {
		return filter, false
	}
	if filter.Status, ok = optionalEnum(c, "status", req.Status, enum.ParsePaymentStatus); !ok {
		return filter, false
	}
	if filter.Method, ok = optionalEnum(c, "method", req.Method, enum.ParsePaymentMethod); !ok {
		return filter, false
	}
	if filter.Cancelled, ok = optionalBool(c, "cancelled", req.Cancelled); !ok {
		return filter, false
	}
	return filter, true
}

// Get handles fetching a sale
// @Summary Get sale
// @Tags sales
// @Security BearerAuth
// @Param id path string true "Sale ID"
// @Success 200 {object} response.APIResponse
// @Router /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", sale)
}

// Cancel handles voiding a sale and restoring its stock
// @Summary Cancel sale
// @Tags sales
// @Security BearerAuth
// @Param id path string true "Sale ID"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.CancelSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale cancelled successfully", sale)
}

// DebtHandler handles fiado (credit sale) HTTP requests
type DebtHandler struct {
	debtService *service.DebtService
}

// NewDebtHandler creates a new debt handler
func NewDebtHandler(debtService *service.DebtService) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// List handles open debts grouped by client
// @Summary List debts
// @Tags debts
// @Security BearerAuth
// @Param search query string false "Client name"
// @Success 200 {object} response.APIResponse
// @Router /debts [get]
func (h *DebtHandler) List(c *gin.Context) {
	debts, err := h.debtService.ListDebts(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Debts retrieved successfully", debts)
}

// Stats handles outstanding credit totals
// @Summary Debt stats
// @Tags debts
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /debts/stats [get]
func (h *DebtHandler) Stats(c *gin.Context) {
	stats, err := h.debtService.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Debt stats retrieved successfully", stats)
}

// Pay handles a payment towards a credit sale
// @Summary Pay debt
// @Tags debts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param saleId path string true "Sale ID"
// @Param request body request.PayDebtRequest true "Payment"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /debts/{saleId}/pay [post]
func (h *DebtHandler) Pay(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	saleID, ok := paramID(c, "saleId")
	if !ok {
		return
	}

	var req request.PayDebtRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.debtService.PayDebt(c.Request.Context(), &service.PayDebtInput{
		UserID: *userID,
		SaleID: saleID,
		Amount: req.Amount,
		Method: req.Method,
		Notes:  req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Payment recorded successfully"
	if result.FullyPaid {
		message = "Debt fully paid"
	}
	response.OK(c, message, result)
}

// History handles credit sales with at least one payment
// @Summary Debt history
// @Tags debts
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Success 200 {object} response.APIResponse
// @Router /debts/history [get]
func (h *DebtHandler) History(c *gin.Context) {
	var params pagination.PaginationParams
	if !bindQuery(c, &params) {
		return
	}

	result, err := h.debtService.History(c.Request.Context(), &params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Debt history retrieved successfully", result)
}
