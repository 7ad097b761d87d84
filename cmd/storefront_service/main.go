package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapi "github.com/Manubolla/Dummyshop/internal/cart/api"
	cartrepo "github.com/Manubolla/Dummyshop/internal/cart/repository"
	cartservice "github.com/Manubolla/Dummyshop/internal/cart/service"
	catalogapi "github.com/Manubolla/Dummyshop/internal/catalog/api"
	catalogrepo "github.com/Manubolla/Dummyshop/internal/catalog/repository"
	catalogservice "github.com/Manubolla/Dummyshop/internal/catalog/service"
	favoritesapi "github.com/Manubolla/Dummyshop/internal/favorites/api"
	favoritesrepo "github.com/Manubolla/Dummyshop/internal/favorites/repository"
	favoritesservice "github.com/Manubolla/Dummyshop/internal/favorites/service"
	notificationapi "github.com/Manubolla/Dummyshop/internal/notification/api"
	notificationservice "github.com/Manubolla/Dummyshop/internal/notification/service"
	"github.com/Manubolla/Dummyshop/internal/platform/auth"
	"github.com/Manubolla/Dummyshop/internal/platform/config"
	"github.com/Manubolla/Dummyshop/internal/platform/kvstore"
	"github.com/Manubolla/Dummyshop/internal/platform/logger"
	"github.com/Manubolla/Dummyshop/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load Config
	serverCfg := config.LoadServerConfig("8080")
	storageCfg := config.LoadStorageConfig()
	catalogCfg := config.LoadCatalogConfig()
	notifyCfg := config.LoadNotificationConfig()
	sessionCfg := config.LoadSessionConfig()

	logger.Info("Starting Storefront Service...", "storage_driver", storageCfg.Driver, "catalog", catalogCfg.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup Storage
	store, closeStore, err := kvstore.Open(ctx, storageCfg.Driver, storageCfg.DSN)
	if err != nil {
		logger.Error("Failed to open state storage", err, "driver", storageCfg.Driver)
		os.Exit(1)
	}
	defer closeStore()

	// Setup Dependencies
	m := metrics.New()
	scheduler := notificationservice.NewScheduler(notifyCfg.CheckoutDelay, notifyCfg.DispatchSpec, m)

	productRepository := catalogrepo.NewHTTPProductRepository(catalogCfg.BaseURL, catalogCfg.PageLimit, catalogCfg.Timeout)
	catalogService := catalogservice.NewCatalogService(productRepository, m)

	cartService, err := cartservice.NewCartService(ctx, cartrepo.NewKVStateRepository(store), m, scheduler)
	if err != nil {
		logger.Error("Failed to restore cart", err)
		os.Exit(1)
	}
	favoritesService, err := favoritesservice.NewFavoritesService(ctx, favoritesrepo.NewKVStateRepository(store), m)
	if err != nil {
		logger.Error("Failed to restore favorites", err)
		os.Exit(1)
	}

	var issuer *auth.Issuer
	if sessionCfg.Enabled() {
		if sessionCfg.AppKeyHash == "" {
			logger.Warn("SESSION_SECRET is set without SESSION_APP_KEY_HASH; no session can be issued")
		}
		issuer = auth.NewIssuer(sessionCfg.Secret, sessionCfg.AppKeyHash, sessionCfg.TTL)
	}
	requireSession := auth.RequireSession(issuer)

	if err := scheduler.Start(); err != nil {
		logger.Error("Failed to start notification dispatcher", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	// Setup Gin Router
	router := gin.Default()
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	apiV1 := router.Group("/api/v1")
	if issuer != nil {
		apiV1.POST("/session", auth.SessionHandler(issuer))
	}
	catalogapi.NewCatalogHandler(catalogService, favoritesService.SortPreference).RegisterRoutes(apiV1)
	cartapi.NewCartHandler(cartService, catalogService).RegisterRoutes(apiV1, requireSession)
	favoritesapi.NewFavoritesHandler(favoritesService).RegisterRoutes(apiV1, requireSession)
	notificationapi.NewNotificationHandler(scheduler).RegisterRoutes(apiV1)

	srv := &http.Server{Addr: serverCfg.Port, Handler: router}
	go func() {
		logger.Info("Storefront Service running on port " + serverCfg.Port)
		if errSrv := srv.ListenAndServe(); errSrv != nil && !errors.Is(errSrv, http.ErrServerClosed) {
			logger.Error("Failed to run Storefront Service server", errSrv)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down Storefront Service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err)
	}
}
