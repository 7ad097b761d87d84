package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Manubolla/Dummyshop/internal/cart/domain"
	"github.com/Manubolla/Dummyshop/internal/cart/service"
	catalogrepo "github.com/Manubolla/Dummyshop/internal/catalog/repository"
	catalogservice "github.com/Manubolla/Dummyshop/internal/catalog/service"
	"github.com/Manubolla/Dummyshop/internal/platform/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	cartService    service.CartService
	catalogService catalogservice.CatalogService
}

func NewCartHandler(cs service.CartService, catalog catalogservice.CatalogService) *CartHandler {
	return &CartHandler{cartService: cs, catalogService: catalog}
}

// RegisterRoutes mounts the cart. Mutating routes run behind requireSession.
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, requireSession gin.HandlerFunc) {
	cartRoutes := router.Group("/cart")
	{
		cartRoutes.GET("", h.GetCart)
		cartRoutes.GET("/items/:id", h.GetQuantity)
		cartRoutes.POST("/items", requireSession, h.AddItem)
		cartRoutes.DELETE("/items/:id", requireSession, h.RemoveItem)
		cartRoutes.DELETE("", requireSession, h.ClearCart)
		cartRoutes.POST("/checkout", requireSession, h.Checkout)
	}
}

type cartResponse struct {
	Items         []domain.CartEntry `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
	TotalPrice    decimal.Decimal    `json:"total_price"`
	Persisted     bool               `json:"persisted"`
}

func toResponse(state domain.CartState, err error) cartResponse {
	return cartResponse{
		Items:         state.Entries(),
		TotalQuantity: state.TotalQuantity(),
		TotalPrice:    state.TotalPrice(),
		Persisted:     err == nil,
	}
}

type addItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, toResponse(h.cartService.Cart(), nil))
}

// GetQuantity answers 0 for an id that is not in the cart or not a number.
func (h *CartHandler) GetQuantity(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	quantity := 0
	if err == nil {
		quantity = h.cartService.GetQuantity(productID)
	}
	c.JSON(http.StatusOK, gin.H{"product_id": c.Param("id"), "quantity": quantity})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	product, err := h.catalogService.GetProductDetails(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("AddItem: product lookup failed", err, "product_id", req.ProductID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve product"})
		return
	}

	state, err := h.cartService.AddItem(c.Request.Context(), *product)
	h.respond(c, "AddItem", state, err)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, toResponse(h.cartService.Cart(), nil))
		return
	}
	state, err := h.cartService.RemoveItem(c.Request.Context(), productID)
	h.respond(c, "RemoveItem", state, err)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	state, err := h.cartService.ClearCart(c.Request.Context())
	h.respond(c, "ClearCart", state, err)
}

func (h *CartHandler) Checkout(c *gin.Context) {
	receipt, err := h.cartService.Checkout(c.Request.Context())
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrPersistenceFailure):
		logger.Warn("Checkout: cart cleared but not persisted", "err", err)
	case err != nil:
		logger.Error("Checkout: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt, "persisted": err == nil})
}

// respond keeps a mutation that failed to persist: the client still gets the
// new state, flagged as not persisted.
func (h *CartHandler) respond(c *gin.Context, op string, state domain.CartState, err error) {
	if err != nil {
		if !errors.Is(err, service.ErrPersistenceFailure) {
			logger.Error(op+": service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		logger.Warn(op+": cart not persisted", "err", err)
	}
	c.JSON(http.StatusOK, toResponse(state, err))
}
