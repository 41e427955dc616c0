package handler

import (
	orderapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/order"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order placement and management endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Place godoc
// @Summary      Place an order
// @Description  Place an order from the submitted items. The server recomputes the total from the catalog and rejects mismatches, then clears the user's cart.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.PlaceOrderRequest true "Order placement request"
// @Success      201 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderapp.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Place(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// ListMine godoc
// @Summary      List my orders
// @Description  List the authenticated user's orders, newest first
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20) maximum(100)
// @Param        status query string false "Filter by status" Enums(processing, shipped, delivered, cancelled)
// @Success      200 {object} dto.Response{data=[]orderapp.OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter orderapp.ListOrdersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	normalizeOrderFilter(&filter)

	orders, total, err := h.orderService.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Get godoc
// @Summary      Get order
// @Description  Retrieve one order. Customers can only read their own orders; admins can read any.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), userID, orderID, isAdmin(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// ListAll godoc
// @Summary      List all orders
// @Description  List every order with pagination and optional status filter. Admin only.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20) maximum(100)
// @Param        status query string false "Filter by status" Enums(processing, shipped, delivered, cancelled)
// @Success      200 {object} dto.Response{data=[]orderapp.OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	var filter orderapp.ListOrdersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	normalizeOrderFilter(&filter)

	orders, total, err := h.orderService.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// UpdateStatus godoc
// @Summary      Update order status
// @Description  Advance an order through processing, shipped, delivered, or cancel it. Admin only.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.UpdateOrderStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

func normalizeOrderFilter(filter *orderapp.ListOrdersFilter) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
}
