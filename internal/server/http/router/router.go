package router

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polkiloo/storerating/internal/domain/model"
	"github.com/polkiloo/storerating/internal/server/http/handlers"
	"github.com/polkiloo/storerating/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware. Forwarding
// headers are honoured only from trustedProxies; with none, the client
// address is the connection's remote address.
func Setup(facade handlers.RatingFacade, limiter *middleware.LoginLimiter, logger *slog.Logger, trustedProxies []string) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	if err := engine.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.DecompressRequest(middleware.MaxInflatedBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	authHandler := handlers.NewAuthHandler(facade, logger)
	storeHandler := handlers.NewStoreHandler(facade, logger)
	healthHandler := handlers.NewHealthHandler(facade, logger)

	engine.GET("/healthz", healthHandler.Check)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	throttle := limiter.Middleware()
	engine.POST("/login", throttle, authHandler.Login)

	api := engine.Group("/api")
	api.POST("/auth", throttle, authHandler.Login)
	api.GET("/auth", authHandler.Probe)
	api.POST("/register", authHandler.Register)
	api.PUT("/register", authHandler.Register)

	secured := api.Group("")
	secured.Use(middleware.AuthRequired(facade))
	secured.GET("/me", authHandler.Me)
	secured.GET("/stores", storeHandler.List)
	secured.POST("/stores", middleware.RequireRole(model.RoleAdmin), storeHandler.Create)

	return engine, nil
}
