package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ngcrud-backend-go/internal/core"
	"ngcrud-backend-go/internal/middleware"
	"ngcrud-backend-go/internal/models"
)

// ThingHandler handles the thing destinations.
type ThingHandler struct {
	thingService core.ThingService
	titles       Titles
	logger       *zap.Logger
}

// NewThingHandler creates a new ThingHandler.
func NewThingHandler(ts core.ThingService, titles Titles, logger *zap.Logger) *ThingHandler {
	return &ThingHandler{thingService: ts, titles: titles, logger: logger}
}

// ListThings handles GET /things
func (h *ThingHandler) ListThings(c *gin.Context) {
	things, err := h.thingService.List(c.Request.Context())
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ThingListResponse{Title: h.titles.Home(), Things: things})
}

// GetThing handles GET /things/:id
func (h *ThingHandler) GetThing(c *gin.Context) {
	viewerUID := ""
	if identity := middleware.GetIdentity(c); identity != nil {
		viewerUID = identity.UID
	}

	detail, err := h.thingService.GetDetail(c.Request.Context(), c.Param("id"), viewerUID)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ThingDetailResponse{
		Title:            h.titles.Thing(detail.Thing.Name),
		Thing:            detail.Thing,
		OwnerDisplayName: detail.OwnerDisplayName,
		IsOwner:          detail.IsOwner,
	})
}

// CreateThing handles POST /things
func (h *ThingHandler) CreateThing(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}

	var req models.ThingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: validationDetails(err)})
		return
	}

	thing, err := h.thingService.Create(c.Request.Context(), identity.UID, req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, ThingFormResponse{Title: h.titles.NewItem(), Thing: *thing})
}

// UpdateThing handles PUT /things/:id
func (h *ThingHandler) UpdateThing(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}

	var req models.ThingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: validationDetails(err)})
		return
	}

	thing, err := h.thingService.Update(c.Request.Context(), identity.UID, c.Param("id"), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ThingFormResponse{Title: h.titles.EditItem(), Thing: *thing})
}

// DeleteThing handles DELETE /things/:id. The thing is hidden, not removed.
func (h *ThingHandler) DeleteThing(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}

	if err := h.thingService.Delete(c.Request.Context(), identity.UID, c.Param("id")); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
