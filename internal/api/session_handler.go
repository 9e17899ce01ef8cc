package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ngcrud-backend-go/internal/core"
	"ngcrud-backend-go/internal/middleware"
)

// SessionHandler turns sign-in and sign-out events into identity links.
type SessionHandler struct {
	identityService core.IdentityService
	logger          *zap.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(is core.IdentityService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{identityService: is, logger: logger}
}

// SignIn handles POST /session. It is called by the client after every Firebase sign-in and
// makes sure the Users profile exists and records the login time.
func (h *SessionHandler) SignIn(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}

	profile, created, err := h.identityService.SignIn(c.Request.Context(), identity)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, SessionResponse{Identity: *identity, Profile: *profile, Created: created})
}

// SignOut handles DELETE /session. Nothing is written to the store.
func (h *SessionHandler) SignOut(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}
	h.identityService.SignOut(c.Request.Context(), identity.UID)
	c.Status(http.StatusNoContent)
}
