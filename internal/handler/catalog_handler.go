package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/repository"
	"github.com/bcod/campus-market/internal/security"
	"github.com/bcod/campus-market/internal/service"
	"github.com/bcod/campus-market/pkg/response"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// CatalogHandler handles product and category HTTP requests
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProducts returns one catalog page
// GET /api/public/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	q := repository.ProductQuery{
		Keyword:    c.Query("keyword"),
		PageNumber: intQuery(c, "pageNumber", 0),
		PageSize:   intQuery(c, "pageSize", defaultPageSize),
		SortBy:     c.DefaultQuery("sortBy", "id"),
		SortOrder:  c.DefaultQuery("sortOrder", "asc"),
	}
	if q.PageNumber < 0 {
		q.PageNumber = 0
	}
	if q.PageSize <= 0 || q.PageSize > maxPageSize {
		q.PageSize = defaultPageSize
	}
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid categoryId")
			return
		}
		q.CategoryID = id
	}

	page, err := h.catalogService.ListProducts(c.Request.Context(), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetProduct returns a single listing
// GET /api/public/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListCategories returns all categories
// GET /api/public/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateProduct adds a listing
// POST /api/admin/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sc := security.FromGin(c)
	p, err := h.catalogService.CreateProduct(c.Request.Context(), sc.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.NotFound(c, "Category not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProduct replaces a listing's mutable fields
// PUT /api/admin/products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.catalogService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			response.NotFound(c, "Product not found")
		case errors.Is(err, service.ErrCategoryNotFound):
			response.NotFound(c, "Category not found")
		default:
			response.InternalError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteProduct removes a listing and echoes the removed row
// DELETE /api/admin/products/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.catalogService.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// pathID parses a numeric path parameter, answering 400 itself on garbage
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
