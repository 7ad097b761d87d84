package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Manubolla/Dummyshop/internal/favorites/service"
	"github.com/Manubolla/Dummyshop/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

type FavoritesHandler struct {
	favoritesService service.FavoritesService
}

func NewFavoritesHandler(fs service.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{favoritesService: fs}
}

func (h *FavoritesHandler) RegisterRoutes(router *gin.RouterGroup, requireSession gin.HandlerFunc) {
	favoriteRoutes := router.Group("/favorites")
	{
		favoriteRoutes.GET("", h.ListFavorites)
		favoriteRoutes.GET("/:id", h.IsFavorite)
		favoriteRoutes.POST("/:id/toggle", requireSession, h.ToggleFavorite)
	}
	router.GET("/preferences/sort", h.GetSortPreference)
	router.PUT("/preferences/sort", requireSession, h.SetSortPreference)
}

func (h *FavoritesHandler) ListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"favorites": h.favoritesService.List()})
}

func (h *FavoritesHandler) IsFavorite(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	favorite := err == nil && h.favoritesService.IsFavorite(productID)
	c.JSON(http.StatusOK, gin.H{"product_id": c.Param("id"), "favorite": favorite})
}

func (h *FavoritesHandler) ToggleFavorite(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"favorites": h.favoritesService.List()})
		return
	}

	state, err := h.favoritesService.Toggle(c.Request.Context(), productID)
	if err != nil {
		if !errors.Is(err, service.ErrPersistenceFailure) {
			logger.Error("ToggleFavorite: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update favorites"})
			return
		}
		logger.Warn("ToggleFavorite: favorites not persisted", "err", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"favorites": state.ProductIDs,
		"favorite":  state.Contains(productID),
		"persisted": err == nil,
	})
}

type sortPreferenceRequest struct {
	SortBy string `json:"sort_by" binding:"required"`
}

func (h *FavoritesHandler) GetSortPreference(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sort_by": h.favoritesService.SortPreference()})
}

func (h *FavoritesHandler) SetSortPreference(c *gin.Context) {
	var req sortPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	key, err := h.favoritesService.SetSortPreference(c.Request.Context(), req.SortBy)
	switch {
	case errors.Is(err, service.ErrInvalidSortKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrPersistenceFailure):
		logger.Warn("SetSortPreference: preference not persisted", "err", err)
	case err != nil:
		logger.Error("SetSortPreference: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preference"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sort_by": key, "persisted": err == nil})
}
