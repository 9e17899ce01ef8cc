package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ngcrud-backend-go/internal/core"
	"ngcrud-backend-go/internal/db"
	"ngcrud-backend-go/internal/middleware"
	"ngcrud-backend-go/internal/models"
)

// mapErrorToStatus maps service and store errors to HTTP status codes and an ErrorResponse.
func mapErrorToStatus(c *gin.Context, logger *zap.Logger, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrThingNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrThingNotFound.Error()}
	case errors.Is(err, core.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrUserNotFound.Error()}
	case errors.Is(err, core.ErrForbiddenAccess):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbiddenAccess.Error()}
	case errors.Is(err, core.ErrUnauthenticated):
		statusCode = http.StatusUnauthorized
		errResponse = ErrorResponse{Error: core.ErrUnauthenticated.Error()}
	case errors.Is(err, models.ErrInvalidStatus):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: models.ErrInvalidStatus.Error()}
	case errors.Is(err, db.ErrStoreQuery), errors.Is(err, db.ErrStoreRead), errors.Is(err, db.ErrStoreWrite):
		logger.Error("Document store error", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		statusCode = http.StatusBadGateway
		errResponse = ErrorResponse{Error: "The document store rejected or failed the operation."}
	default:
		logger.Error("Internal Server Error", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}

	c.JSON(statusCode, errResponse)
}
