package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"threadbrief/config"
	"threadbrief/handlers"
	"threadbrief/llm"
	"threadbrief/logger"
	"threadbrief/repository/sqlite"
	briefservice "threadbrief/services/brief"
	"threadbrief/transcript"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if err := logger.Init(cfg.LogDir, cfg.Debug); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logger")
	}

	db, err := sqlite.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	briefRepo := sqlite.NewBriefRepository(db)
	rateRepo := sqlite.NewRateRepository(db)

	transcripts := transcript.NewService(cfg)
	generator := llm.NewClient(llm.Config{
		APIKey:            cfg.LLM.APIKey,
		Endpoint:          cfg.LLM.Endpoint,
		MaxRetries:        cfg.LLM.MaxRetries,
		RetryBackoff:      cfg.LLM.RetryBackoff,
		RequestTimeout:    cfg.LLM.RequestTimeout,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})

	briefs := briefservice.NewService(cfg, transcripts, generator, briefRepo, rateRepo)
	h := handlers.New(cfg, briefs)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorHandler: handlers.ErrorHandler,
	})

	setupMiddleware(app, cfg)
	setupRoutes(app, h)

	go func() {
		logrus.WithField("port", cfg.ServerPort).Info("Starting server")
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
}

func setupMiddleware(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))

	if logConfig, err := logger.FiberConfig(cfg.LogDir); err == nil {
		app.Use(fiberLogger.New(*logConfig))
	} else {
		logrus.WithError(err).Warn("Falling back to default request logging")
		app.Use(fiberLogger.New())
	}

	if cfg.CORS.Enabled {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.CORS.AllowedOrigins, ","),
			AllowMethods:     strings.Join(cfg.CORS.AllowedMethods, ","),
			AllowHeaders:     strings.Join(cfg.CORS.AllowedHeaders, ","),
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}))
	}

	if cfg.RateLimit.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.RequestsPerMinute,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
		}))
	}
}

func setupRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Get("/health", h.HealthCheck)

	api := app.Group("/api")
	api.Post("/briefs", h.CreateBrief)
	api.Get("/briefs/:id", h.GetBrief)
	api.Get("/video-meta", h.VideoMeta)
}
