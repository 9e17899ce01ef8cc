package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ngcrud-backend-go/internal/api"
	"ngcrud-backend-go/internal/cache"
	"ngcrud-backend-go/internal/config"
	"ngcrud-backend-go/internal/core"
	"ngcrud-backend-go/internal/db"
	"ngcrud-backend-go/internal/logger"
	"ngcrud-backend-go/internal/messagequeue"
	"ngcrud-backend-go/internal/middleware"
)

func main() {
	// --- 1. Load .env outside release mode ---
	if os.Getenv("GIN_MODE") != gin.ReleaseMode {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: no .env file loaded:", err)
		}
	}

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 3. Initialize Logger (Zap) ---
	zapLogger, err := logger.New(appConfig.GinMode)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded", zap.String("storeDriver", appConfig.StoreDriver), zap.String("ginMode", appConfig.GinMode))

	// --- 4. Initialize Firebase Admin SDK (Auth, and Firestore unless the memory driver is used) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	clients, err := db.InitFirebase(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}

	// --- 5. Initialize Document Store and Repositories ---
	store, err := db.NewDocumentStore(appConfig, clients)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize document store", zap.Error(err))
	}
	defer store.Close()
	thingRepo := db.NewThingRepository(store, nil)
	userRepo := db.NewUserRepository(store)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 6. Initialize Event Publisher ---
	publisher := newPublisher(appConfig, zapLogger)
	defer publisher.Close()

	// --- 7. Initialize Redis (optional: shared rate limits and owner name cache) ---
	redisClient := newRedisClient(appConfig, zapLogger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// --- 8. Initialize Services ---
	var thingOpts []core.ThingServiceOption
	if appConfig.OwnerCacheTTL > 0 {
		var ownerNames cache.Cache = cache.NewMemoryCache(appConfig.OwnerCacheTTL, 2*appConfig.OwnerCacheTTL)
		if redisClient != nil {
			ownerNames = cache.NewRedisCache(redisClient, "ngcrud:cache")
		}
		thingOpts = append(thingOpts, core.WithOwnerNameCache(ownerNames, appConfig.OwnerCacheTTL))
	}
	identityService := core.NewIdentityService(userRepo, publisher, zapLogger, nil)
	thingService := core.NewThingService(thingRepo, userRepo, publisher, zapLogger, nil, thingOpts...)
	zapLogger.Info("Core services initialized successfully.")

	// --- 9. Setup Gin HTTP Engine ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	if err := api.RegisterValidators(); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to register request validators", zap.Error(err))
	}
	router := gin.New()
	// Only listed proxies may set X-Forwarded-For; otherwise ClientIP is the peer address.
	if err := router.SetTrustedProxies(appConfig.TrustedProxies); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Invalid TRUSTED_PROXIES", zap.Error(err))
	}

	// --- 10. Apply Global Middleware (order matters) ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewMetrics(registry)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to register HTTP metrics", zap.Error(err))
	}

	rateLimit, err := middleware.RateLimit(appConfig.RateLimit, redisClient)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to configure rate limiting", zap.Error(err))
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(metrics.Handler())
	router.Use(middleware.CORSMiddleware(appConfig))
	router.Use(rateLimit)
	if appConfig.ClientURL == "" {
		zapLogger.Warn("CLIENT_URL is not configured; CORS allows any origin without credentials.")
	}

	// --- 11. Setup API Routes ---
	authMW := middleware.NewAuthMiddleware(clients.Auth, zapLogger)
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		authMW,
		thingService,
		identityService,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)

	// --- 12. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 13. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), appConfig.ShutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	zapLogger.Info("Server exiting gracefully.")
}

// newPublisher connects to RabbitMQ when RABBITMQ_URL is set. Events are dropped otherwise,
// and also when the broker is unreachable at startup.
func newPublisher(appConfig *config.Config, zapLogger *zap.Logger) messagequeue.Publisher {
	if appConfig.RabbitMQURL == "" {
		zapLogger.Info("RABBITMQ_URL not set; domain events are disabled.")
		return messagequeue.NoopPublisher{}
	}
	publisher, err := messagequeue.NewRabbitMQPublisher(messagequeue.NewRabbitMQPublisherConfig{
		URL:      appConfig.RabbitMQURL,
		Exchange: appConfig.EventsExchange,
	}, zapLogger)
	if err != nil {
		zapLogger.Error("Failed to connect to RabbitMQ; domain events are disabled.", zap.Error(err))
		return messagequeue.NoopPublisher{}
	}
	return publisher
}

// newRedisClient returns nil when REDIS_URL is unset or unusable. Rate limits and cached owner
// names then stay in process memory.
func newRedisClient(appConfig *config.Config, zapLogger *zap.Logger) *redis.Client {
	if appConfig.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(appConfig.RedisURL)
	if err != nil {
		zapLogger.Error("Invalid REDIS_URL; using in-memory rate limiting.", zap.Error(err))
		return nil
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		zapLogger.Error("Redis is unreachable; using in-memory rate limiting.", zap.Error(err))
		_ = client.Close()
		return nil
	}
	zapLogger.Info("Rate limiting backed by Redis.")
	return client
}
