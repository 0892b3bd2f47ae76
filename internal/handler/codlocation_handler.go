package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/service"
	"github.com/bcod/campus-market/pkg/response"
)

// CodLocationHandler handles pickup-spot HTTP requests
type CodLocationHandler struct {
	locationService service.CodLocationService
}

// NewCodLocationHandler creates a new CodLocationHandler
func NewCodLocationHandler(locationService service.CodLocationService) *CodLocationHandler {
	return &CodLocationHandler{locationService: locationService}
}

// ListActive returns the spots buyers can pick at checkout
// GET /api/cod-locations
func (h *CodLocationHandler) ListActive(c *gin.Context) {
	locations, err := h.locationService.ListActive(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// List returns every spot including deactivated ones
// GET /api/admin/cod-locations
func (h *CodLocationHandler) List(c *gin.Context) {
	locations, err := h.locationService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// Create adds a new spot
// POST /api/admin/cod-locations
func (h *CodLocationHandler) Create(c *gin.Context) {
	var req dto.CodLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	loc, err := h.locationService.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

// Update replaces a spot's fields
// PUT /api/admin/cod-locations/:id
func (h *CodLocationHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CodLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	loc, err := h.locationService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrLocationNotFound) {
			response.NotFound(c, "COD location not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// SetActive toggles a spot's availability
// PUT /api/admin/cod-locations/:id/status
func (h *CodLocationHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	active, err := strconv.ParseBool(c.DefaultQuery("active", "true"))
	if err != nil {
		response.BadRequest(c, "invalid active flag")
		return
	}

	loc, err := h.locationService.SetActive(c.Request.Context(), id, active)
	if err != nil {
		if errors.Is(err, service.ErrLocationNotFound) {
			response.NotFound(c, "COD location not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}
