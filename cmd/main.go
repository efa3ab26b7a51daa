package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	bookingcfg "summitcess-gateway/internal/booking/config"
	"summitcess-gateway/internal/di"
	gatewayhttp "summitcess-gateway/internal/gateway/http"
	sessioncfg "summitcess-gateway/internal/session/config"
	"summitcess-gateway/internal/shared/logger"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Port string `env:"SERVER_PORT" envDefault:"3000"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("SummitCess session gateway starting")

	sessionConfig, err := sessioncfg.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load session configuration: %v", err)
	}
	bookingConfig, err := bookingcfg.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load booking configuration: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sessionConfig.RedisAddr,
		Password: sessionConfig.RedisPassword,
		DB:       sessionConfig.RedisDB,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to ping Redis: %v", err)
	}
	appLogger.Info("Redis connection established successfully")

	container := di.NewContainer()
	container.Logger = appLogger
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	if err := container.InitializeSession(redisClient, sessionConfig); err != nil {
		log.Fatalf("Failed to initialize session module: %v", err)
	}
	appLogger.Info("Session module initialized successfully")

	if err := container.InitializeBooking(bookingConfig); err != nil {
		log.Fatalf("Failed to initialize booking module: %v", err)
	}
	appLogger.Info("Booking module initialized successfully")

	app := fiber.New(fiber.Config{
		AppName:      "SummitCess Session Gateway v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appLogger.Errorf("HTTP Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
	})

	middleware := gatewayhttp.NewGatewayMiddleware(container.SessionModule.Usecase(), sessionConfig)

	app.Use(recover.New())
	app.Use(middleware.CORS())
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.RequestID())
	app.Use(middleware.SessionCookie())
	app.Use(middleware.PaymentRedirect())

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"timestamp": time.Now().UTC(),
			"modules": fiber.Map{
				"session": "initialized",
				"booking": "initialized",
			},
		})
	})

	sessionHandler := gatewayhttp.NewSessionHTTPHandler(container.SessionModule.Usecase())
	sessionHandler.SetupRoutes(app, middleware)

	paymentHandler := gatewayhttp.NewPaymentHTTPHandler(container.BookingModule.Usecase())
	paymentHandler.SetupRoutes(app)

	dashboardHandler := gatewayhttp.NewDashboardHTTPHandler()
	dashboardHandler.SetupRoutes(app, middleware)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		appLogger.Info("Shutting down gateway")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLogger.Errorf("Shutdown error: %v", err)
		}
	}()

	addr := serverCfg.Host + ":" + serverCfg.Port
	appLogger.Infof("Listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
