package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ngcrud-backend-go/internal/core"
	"ngcrud-backend-go/internal/middleware"
)

// UserHandler handles profile lookups.
type UserHandler struct {
	identityService core.IdentityService
	logger          *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(is core.IdentityService, logger *zap.Logger) *UserHandler {
	return &UserHandler{identityService: is, logger: logger}
}

// GetCurrentUserProfile handles GET /users/me
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}

	profile, err := h.identityService.GetProfile(c.Request.Context(), identity.UID)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetUserProfile handles GET /users/:uid. Other users only see the public part of a profile.
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}

	uid := c.Param("uid")
	profile, err := h.identityService.GetProfile(c.Request.Context(), uid)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	if uid == identity.UID {
		c.JSON(http.StatusOK, profile)
		return
	}
	c.JSON(http.StatusOK, profile.Public())
}
