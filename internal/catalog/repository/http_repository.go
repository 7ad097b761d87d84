package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Manubolla/Dummyshop/internal/catalog/domain"
	"github.com/Manubolla/Dummyshop/internal/platform/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNetworkFailure  = errors.New("product source unavailable")
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	ListProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error)
}

type productsEnvelope struct {
	Products []domain.Product `json:"products"`
}

type httpProductRepository struct {
	baseURL    string
	pageLimit  int
	httpClient *http.Client
}

// NewHTTPProductRepository reads the dummyjson product API rooted at baseURL
// (e.g. https://dummyjson.com/products). A zero timeout leaves the transport
// default in place.
func NewHTTPProductRepository(baseURL string, pageLimit int, timeout time.Duration) ProductRepository {
	return &httpProductRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageLimit:  pageLimit,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (r *httpProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	reqURL := r.baseURL
	if r.pageLimit >= 0 {
		reqURL += "?limit=" + strconv.Itoa(r.pageLimit)
	}
	var env productsEnvelope
	if err := r.getJSON(ctx, reqURL, &env); err != nil {
		return nil, err
	}
	return nonNil(env.Products), nil
}

func (r *httpProductRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.getJSON(ctx, r.baseURL+"/categories", &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

func (r *httpProductRepository) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var p domain.Product
	if err := r.getJSON(ctx, fmt.Sprintf("%s/%d", r.baseURL, id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *httpProductRepository) ListProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error) {
	var env productsEnvelope
	if err := r.getJSON(ctx, r.baseURL+"/category/"+url.PathEscape(slug), &env); err != nil {
		return nil, err
	}
	return nonNil(env.Products), nil
}

func (r *httpProductRepository) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrNetworkFailure, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		logger.Error("ProductSource: request failed", err, "url", reqURL)
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		logger.Error("ProductSource: unexpected status", nil, "url", reqURL, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrNetworkFailure, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Error("ProductSource: decode failed", err, "url", reqURL)
		return fmt.Errorf("%w: decode response: %v", ErrNetworkFailure, err)
	}
	return nil
}

func nonNil(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}
