package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"curio/internal/artworks"
	"curio/internal/auth"
	"curio/internal/collections"
	"curio/internal/museum"
	synchub "curio/internal/sync"
	"curio/pkg/database"
	"curio/pkg/logger"
	"curio/pkg/utils"
)

func main() {
	cfg := utils.LoadConfig()
	logger.Init(cfg.Env)

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger())

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	// Museum adapters + aggregation core
	va := museum.NewVAClient()
	if cfg.VABaseURL != "" {
		va.BaseURL = cfg.VABaseURL
	}
	met := museum.NewMETClient()
	if cfg.METBaseURL != "" {
		met.BaseURL = cfg.METBaseURL
	}
	agg := museum.NewAggregator(va, met)

	// Artwork search/detail (public)
	artworks.NewHandler(agg).RegisterRoutes(router.Group("/artworks"))

	// Collections (public, per the store's REST contract)
	colRepo := collections.NewRepo(db)
	colHandler := collections.NewHandler(colRepo, agg, hub)
	colHandler.RegisterRoutes(router.Group(""))

	// Auth
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTDuration)
	authRepo := auth.NewRepo(db)
	auth.NewHandler(authRepo, tokens).RegisterRoutes(router.Group("/auth"))

	protected := router.Group("/users")
	protected.Use(auth.AuthMiddleware(tokens))
	protected.GET("/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"email":    claims.Email,
		})
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "path not found"})
	})

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("HTTP API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	log.Info().Msg("server stopped")
}
