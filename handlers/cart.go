package handlers

import (
	"errors"
	"net/http"
	"strings"

	"storefront-backend/dtos"
	"storefront-backend/middleware"
	"storefront-backend/services"
	"storefront-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	Service *services.CartService
}

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type updateCartItemRequest struct {
	CartItemID *string `json:"cart_item_id"`
	Quantity   *int    `json:"quantity"`
}

type removeFromCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Size      string `json:"size" binding:"required"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.Service.GetCart(c.Request.Context(), userID)
	h.respond(c, view, err, "Failed to fetch cart")
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	productID, ok := parseProductID(c, req.ProductID)
	if !ok {
		return
	}

	view, err := h.Service.AddItem(c.Request.Context(), userID, services.AddItemInput{
		ProductID: productID,
		Size:      strings.TrimSpace(req.Size),
		Color:     strings.TrimSpace(req.Color),
		Quantity:  req.Quantity,
	})
	h.respond(c, view, err, "Failed to add item to cart")
}

// UpdateCartItem overwrites the quantity of one line. A missing quantity is treated
// as zero and removes the line.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.CartItemID == nil || strings.TrimSpace(*req.CartItemID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart_item_id is required."})
		return
	}
	cartItemID, err := uuid.Parse(strings.TrimSpace(*req.CartItemID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart_item_id must be a valid UUID"})
		return
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.Service.SetQuantity(c.Request.Context(), userID, cartItemID, quantity)
	h.respond(c, view, err, "Failed to update cart item")
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req removeFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	productID, ok := parseProductID(c, req.ProductID)
	if !ok {
		return
	}

	view, err := h.Service.RemoveItem(c.Request.Context(), userID, services.RemoveItemInput{
		ProductID: productID,
		Size:      strings.TrimSpace(req.Size),
		Color:     strings.TrimSpace(req.Color),
	})
	h.respond(c, view, err, "Failed to remove item from cart")
}

// parseProductID accepts any textual UUID form uuid.Parse does, upper case included.
func parseProductID(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *CartHandler) respond(c *gin.Context, view *dtos.CartResponse, err error, failMsg string) {
	if err == nil {
		c.JSON(http.StatusOK, view)
		return
	}

	switch {
	case errors.Is(err, services.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrMalformedInput):
		msg := strings.TrimPrefix(err.Error(), services.ErrMalformedInput.Error()+": ")
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case services.IsClientError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
	}
}
