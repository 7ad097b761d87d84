package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Manubolla/Dummyshop/internal/catalog/repository"
	"github.com/Manubolla/Dummyshop/internal/catalog/service"
	listing "github.com/Manubolla/Dummyshop/internal/listing/domain"
	listingservice "github.com/Manubolla/Dummyshop/internal/listing/service"
	"github.com/Manubolla/Dummyshop/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	defaultSort    func() listing.SortKey
}

// NewCatalogHandler serves the product listing. defaultSort supplies the sort
// used when a request names none; nil means sort by price.
func NewCatalogHandler(cs service.CatalogService, defaultSort func() listing.SortKey) *CatalogHandler {
	if defaultSort == nil {
		defaultSort = func() listing.SortKey { return listing.SortByPrice }
	}
	return &CatalogHandler{catalogService: cs, defaultSort: defaultSort}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/", h.ListProducts)
		productRoutes.GET("/:id", h.GetProduct)
	}
	router.GET("/categories", h.ListCategories)
	router.GET("/categories/:slug/products", h.ListProductsByCategory)
	router.GET("/price-presets", h.ListPricePresets)
}

// ListProducts fetches the whole catalog and narrows it with the query
// parameters q, category, min_price, max_price, sort and order.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	query, err := h.parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		logger.Error("ListProducts: service error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve products"})
		return
	}

	view := listingservice.ComputeView(products, query)
	c.JSON(http.StatusOK, gin.H{
		"products":            view,
		"total":               len(view),
		"active_filter_count": listingservice.ActiveFilterCount(query),
		"query":               query,
	})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": repository.ErrProductNotFound.Error()})
		return
	}

	product, err := h.catalogService.GetProductDetails(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("GetProduct: service error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product, "formatted_price": product.FormattedPrice()})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		logger.Error("ListCategories: service error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) ListProductsByCategory(c *gin.Context) {
	products, err := h.catalogService.ListProductsByCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		logger.Error("ListProductsByCategory: service error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (h *CatalogHandler) ListPricePresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": listing.PricePresets, "default": listing.DefaultPriceRange})
}

func (h *CatalogHandler) parseQuery(c *gin.Context) (listing.QueryState, error) {
	q := listing.DefaultQueryState()
	q.SortKey = h.defaultSort()
	q.SearchText = c.Query("q")
	q.CategoryFilter = c.Query("category")

	if raw := c.Query("min_price"); raw != "" {
		v, err := listing.ParsePriceBound(raw)
		if err != nil {
			return q, errors.New("min_price must be a number")
		}
		q.PriceRange.Min = v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := listing.ParsePriceBound(raw)
		if err != nil {
			return q, errors.New("max_price must be a number")
		}
		q.PriceRange.Max = v
	}
	if raw := c.Query("sort"); raw != "" {
		key, err := listing.ParseSortKey(raw)
		if err != nil {
			return q, err
		}
		q.SortKey = key
	}
	q.SortDirection = q.SortKey.DefaultDirection()
	if raw := c.Query("order"); raw != "" {
		dir, err := listing.ParseSortDirection(raw)
		if err != nil {
			return q, err
		}
		q.SortDirection = dir
	}
	return q, nil
}
