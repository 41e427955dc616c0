package handler

import (
	cartapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/cart"
	"github.com/gin-gonic/gin"
)

// CartHandler handles the authenticated user's cart endpoints
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// Get godoc
// @Summary      Get cart
// @Description  Retrieve the authenticated user's cart with enriched product details
// @Tags         cart
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem godoc
// @Summary      Add cart item
// @Description  Add a product variant to the cart. An existing line with the same product, variant and price type has its quantity increased instead.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.AddCartItemRequest true "Cart line to add"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req cartapp.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateItem godoc
// @Summary      Update cart item
// @Description  Set the absolute quantity of an existing cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.UpdateCartItemRequest true "Cart line with new quantity"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/items [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req cartapp.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem godoc
// @Summary      Remove cart item
// @Description  Remove a cart line identified by product, variant index and price type
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.RemoveCartItemRequest true "Cart line identity"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/items [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req cartapp.RemoveCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// Clear godoc
// @Summary      Clear cart
// @Description  Remove every line from the authenticated user's cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Success      204 "No Content"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
