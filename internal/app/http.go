package app

import (
	"context"
	"time"

	"github.com/bill8575/e-learning/internal/auth"
	"github.com/bill8575/e-learning/internal/config"
	"github.com/bill8575/e-learning/internal/gateway"
	"github.com/bill8575/e-learning/internal/gateway/identitytoolkit"
	"github.com/bill8575/e-learning/internal/gateway/local"
	"github.com/bill8575/e-learning/internal/handler"
	"github.com/bill8575/e-learning/internal/logger"
	"github.com/bill8575/e-learning/internal/middleware"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	store, cleanup, err := setupStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	gateways := []gateway.Gateway{
		local.New(time.Hour),
	}

	if cfg.ProviderAPIKey != "" {
		itk, err := identitytoolkit.New(cfg.ProviderBaseURL, cfg.ProviderAPIKey)
		if err != nil {
			return nil, nil, err
		}
		gateways = append(gateways, itk)
	}

	registry := gateway.NewRegistry(gateways...)

	gw, err := registry.Get(cfg.AuthGateway)
	if err != nil {
		return nil, nil, err
	}

	controller := auth.NewController(gw, store)
	controller.Subscribe(auth.NavigationListener(logNavigator{}))

	// auto-login: pick up a persisted session from a prior run
	if e := controller.Restore(ctx); e.Kind == auth.EventSuccess {
		logger.Info("previous session resumed", map[string]any{
			"user_id": e.UserID,
		})
	}

	authHandler := handler.NewHandler(controller)
	authMiddleware := middleware.NewAuthMiddleware(controller)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		userID, _ := middleware.UserIDFromContext(c.Request.Context())
		c.JSON(200, gin.H{
			"user_id": userID,
		})
	})

	return router, cleanup, nil
}
