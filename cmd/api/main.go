package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"pitchvault/internal/config"
	"pitchvault/internal/handler"
	"pitchvault/internal/middleware"
	"pitchvault/internal/repository"
	"pitchvault/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (signature receipts will not be archived)", err)
	}

	repos := repository.NewRepositories(db, redisClient)
	services := service.NewServices(repos, redisClient, minioClient, cfg)
	handlers := handler.NewHandlers(services)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go services.Agreement.RunExpirySweeper(sweeperCtx, cfg.ExpirySweepInterval, cfg.ExpiryWarningWindow)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, cfg *config.Config) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")
	protected := v1.Group("", middleware.AuthRequired(cfg.JWTSecret))

	agreements := protected.Group("/agreements")
	agreements.Post("/", h.Agreement.Create)
	agreements.Get("/", h.Agreement.List)
	agreements.Post("/bulk-approve", h.Agreement.BulkApprove)
	agreements.Post("/bulk-reject", h.Agreement.BulkReject)
	agreements.Get("/:pitchId/can-request", h.Agreement.CanRequest)
	agreements.Get("/:id", h.Agreement.Get)
	agreements.Get("/:id/audit", h.Agreement.AuditTrail)
	agreements.Post("/:id/approve", h.Agreement.Approve)
	agreements.Post("/:id/reject", h.Agreement.Reject)
	agreements.Post("/:id/revoke", h.Agreement.Revoke)
	agreements.Post("/:id/sign", h.Agreement.Sign)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Get("/stream", h.Notification.Stream)
	notifications.Post("/mark-read", h.Notification.MarkRead)
	notifications.Post("/delete", h.Notification.Delete)
}
