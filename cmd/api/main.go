package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freight-dispatch/internal/api"
	"freight-dispatch/internal/config"
	"freight-dispatch/internal/modules/credits"
	"freight-dispatch/internal/modules/materials"
	"freight-dispatch/internal/modules/notifications"
	"freight-dispatch/internal/modules/trips"
	"freight-dispatch/internal/modules/users"
	"freight-dispatch/internal/modules/vehicles"
	"freight-dispatch/internal/storage"
	"freight-dispatch/pkg/cache"
	"freight-dispatch/pkg/logger"
	"freight-dispatch/pkg/notify"

	appmiddleware "freight-dispatch/internal/api/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.ServiceName, cfg.LogLevel)

	// 2. --- Database ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := storage.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	dbPool, err := storage.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()
	appLog.Info("connected to postgres")

	// 3. --- Redis (advisory cache, startup survives without it) ---
	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		appLog.Warn("redis unavailable, rate-card cache disabled", logger.Error(err))
		redisClient = nil
	}
	rateCards := cache.NewRateCardCache(redisClient)

	// 4. --- Push gateway ---
	pusher := notify.NewFCMSender(cfg.FCMServerKey, cfg.FCMEndpoint)

	// 5. --- Dependency Injection ---
	userRepo := users.NewRepository(dbPool)
	userService := users.NewService(userRepo, cfg.JWTSecret, appLog)
	userHandler := users.NewHandler(userService)

	vehicleRepo := vehicles.NewRepository(dbPool)
	vehicleService := vehicles.NewService(vehicleRepo, rateCards, appLog)
	vehicleHandler := vehicles.NewHandler(vehicleService)

	materialRepo := materials.NewRepository(dbPool)
	materialService := materials.NewService(materialRepo)
	materialHandler := materials.NewHandler(materialService)

	notificationRepo := notifications.NewRepository(dbPool)
	notificationService := notifications.NewService(notificationRepo)
	notificationHandler := notifications.NewHandler(notificationService)

	creditRepo := credits.NewRepository(dbPool)
	creditService := credits.NewService(creditRepo, appLog)
	creditHandler := credits.NewHandler(creditService)

	tripRepo := trips.NewRepository(dbPool)
	tripService := trips.NewService(tripRepo,
		vehicleService, vehicleService, materialService,
		userRepo, notificationService, creditService,
		pusher, appLog)
	tripHandler := trips.NewHandler(tripService)

	// Background pickup reminders.
	tripService.StartReminderLoop(ctx)

	// 6. --- HTTP Server ---
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(appmiddleware.Metrics())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api.SetupRoutes(e,
		userHandler,
		vehicleHandler,
		materialHandler,
		tripHandler,
		notificationHandler,
		creditHandler,
		cfg.JWTSecret,
	)

	// 7. --- Start with graceful shutdown ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server, an error occurred:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
