package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ngcrud-backend-go/internal/config"
	"ngcrud-backend-go/internal/core"
	"ngcrud-backend-go/internal/middleware"
)

// HomePath is where unknown routes are redirected.
const HomePath = "/api/v1/things"

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (request id, logging, recovery, CORS, rate limit, metrics) is expected on
// router already. metricsHandler may be nil, in which case /metrics is not served.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
	thingService core.ThingService,
	identityService core.IdentityService,
	metricsHandler http.Handler,
) {
	titles := Titles{SiteName: appConfig.SiteName}
	thingHandler := NewThingHandler(thingService, titles, logger)
	sessionHandler := NewSessionHandler(identityService, logger)
	userHandler := NewUserHandler(identityService, logger)

	apiV1 := router.Group("/api/v1")
	{
		things := apiV1.Group("/things")
		{
			things.GET("", authMW.OptionalAuth(), thingHandler.ListThings)
			things.GET("/:id", authMW.OptionalAuth(), thingHandler.GetThing)
			things.POST("", authMW.RequireAuth(), thingHandler.CreateThing)
			things.PUT("/:id", authMW.RequireAuth(), thingHandler.UpdateThing)
			things.DELETE("/:id", authMW.RequireAuth(), thingHandler.DeleteThing)
		}

		session := apiV1.Group("/session", authMW.RequireAuth())
		{
			session.POST("", sessionHandler.SignIn)
			session.DELETE("", sessionHandler.SignOut)
		}

		users := apiV1.Group("/users", authMW.RequireAuth())
		{
			users.GET("/me", userHandler.GetCurrentUserProfile)
			users.GET("/:uid", userHandler.GetUserProfile)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": appConfig.SiteName + " backend is healthy."})
	})
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	router.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, HomePath)
	})

	logger.Info("API routes configured successfully under /api/v1, /health and /metrics.")
}
