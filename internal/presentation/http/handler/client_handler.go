package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/sparta-gym-api/internal/application/service"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/request"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/response"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
)

// ClientHandler handles gym member HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

func clientInput(req *request.ClientRequest) *service.ClientInput {
	return &service.ClientInput{
		Name:   req.Name,
		DNI:    req.DNI,
		Phone:  req.Phone,
		Email:  req.Email,
		Status: req.Status,
		Notes:  req.Notes,
	}
}

// List handles listing clients (supports both page-based and cursor-based pagination)
// @Summary List clients
// @Tags clients
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name, DNI or phone"
// @Param status query string false "active or inactive"
// @Success 200 {object} response.APIResponse
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	var req request.ClientFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	status, ok := optionalEnum(c, "status", req.Status, enum.ParseClientStatus)
	if !ok {
		return
	}

	if wantsCursor(req.Cursor, req.Limit) {
		result, err := h.clientService.ListClientsWithCursor(c.Request.Context(), &repository.ClientCursorFilterParams{
			Cursor: cursorParams(req.Cursor, req.Direction, req.Limit),
			Search: req.Search,
			Status: status,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.SuccessWithCursor(c, "Clients retrieved successfully", result)
		return
	}

	result, err := h.clientService.ListClients(c.Request.Context(), &repository.ClientFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		Search:     req.Search,
		Status:     status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Clients retrieved successfully", result)
}

// Create handles registering a client
// @Summary Create client
// @Tags clients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ClientRequest true "Client"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), clientInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Client created successfully", client)
}

// Get handles fetching a client
// @Summary Get client
// @Tags clients
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client retrieved successfully", client)
}

// Update handles editing a client
// @Summary Update client
// @Tags clients
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param request body request.ClientRequest true "Fields to change"
// @Success 200 {object} response.APIResponse
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), id, clientInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client updated successfully", client)
}

// Delete handles soft deleting a client
// @Summary Delete client
// @Tags clients
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} response.APIResponse
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client deleted successfully", nil)
}

// Stats handles client counters
// @Summary Client stats
// @Tags clients
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /clients/stats [get]
func (h *ClientHandler) Stats(c *gin.Context) {
	stats, err := h.clientService.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client stats retrieved successfully", stats)
}

// Membership handles the computed membership of a client
// @Summary Client membership
// @Tags clients
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} response.APIResponse
// @Router /clients/{id}/membership [get]
func (h *ClientHandler) Membership(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	membership, err := h.clientService.GetMembership(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Membership retrieved successfully", membership)
}

// Payments handles a client's payment history
// @Summary Client payments
// @Tags clients
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} response.APIResponse
// @Router /clients/{id}/payments [get]
func (h *ClientHandler) Payments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	payments, err := h.clientService.GetPayments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payments retrieved successfully", payments)
}

// Debts handles a client's open credit sales
// @Summary Client debts
// @Tags clients
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} response.APIResponse
// @Router /clients/{id}/debts [get]
func (h *ClientHandler) Debts(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	debts, err := h.clientService.GetDebts(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Debts retrieved successfully", debts)
}
