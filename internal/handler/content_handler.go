package handler

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/centerkech-api/internal/dto"
	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/pkg/response"
)

type contentService interface {
	List(ctx context.Context, contentType string) (map[string]json.RawMessage, error)
	Get(ctx context.Context, key string) (*models.Content, error)
	Upsert(ctx context.Context, key string, req dto.UpsertContentRequest, actorID string) (*models.Content, error)
}

type locationService interface {
	List(ctx context.Context) ([]models.Location, error)
	Get(ctx context.Context, id string) (*models.Location, error)
	Upsert(ctx context.Context, id string, req dto.UpsertLocationRequest) (*models.Location, error)
	Delete(ctx context.Context, id string) error
}

// ContentHandler serves site content and centre locations.
type ContentHandler struct {
	content   contentService
	locations locationService
}

// NewContentHandler constructs the handler.
func NewContentHandler(content contentService, locations locationService) *ContentHandler {
	return &ContentHandler{content: content, locations: locations}
}

// List godoc
// @Summary Site content keyed by content key
// @Tags Content
// @Produce json
// @Param type query string false "hero, services, features, testimonials or general"
// @Success 200 {object} response.Envelope
// @Router /content [get]
func (h *ContentHandler) List(c *gin.Context) {
	items, err := h.content.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", items)
}

// Get godoc
// @Summary One content record
// @Tags Content
// @Produce json
// @Param key path string true "Content key"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /content/{key} [get]
func (h *ContentHandler) Get(c *gin.Context) {
	item, err := h.content.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", item)
}

// Upsert godoc
// @Summary Create or replace content
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Content key"
// @Param payload body dto.UpsertContentRequest true "Content"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /content/{key} [put]
func (h *ContentHandler) Upsert(c *gin.Context) {
	var req dto.UpsertContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	item, err := h.content.Upsert(c.Request.Context(), c.Param("key"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Content updated successfully", item)
}

// ListLocations godoc
// @Summary All centres
// @Tags Locations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/locations [get]
func (h *ContentHandler) ListLocations(c *gin.Context) {
	items, err := h.locations.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", items)
}

// GetLocation godoc
// @Summary One centre
// @Tags Locations
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /content/locations/{id} [get]
func (h *ContentHandler) GetLocation(c *gin.Context) {
	item, err := h.locations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", item)
}

// UpsertLocation godoc
// @Summary Create or replace a centre
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Location ID"
// @Param payload body dto.UpsertLocationRequest true "Location"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /content/locations/{id} [put]
func (h *ContentHandler) UpsertLocation(c *gin.Context) {
	var req dto.UpsertLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	item, err := h.locations.Upsert(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Location updated successfully", item)
}

// DeleteLocation godoc
// @Summary Delete a centre
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Location ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /content/locations/{id} [delete]
func (h *ContentHandler) DeleteLocation(c *gin.Context) {
	if err := h.locations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Location deleted successfully", nil)
}
