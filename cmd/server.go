package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/feiyu23/spark-resume-ai/pkg/auth"
	"github.com/feiyu23/spark-resume-ai/pkg/errx"
	"github.com/feiyu23/spark-resume-ai/pkg/logx"
)

func main() {
	// 1. Initialize Logger
	logx.SetLevel(logx.LevelInfo)
	logx.Info("Starting Spark Resume AI Server...")

	// 2. Initialize Dependency Container
	container := NewContainer()
	defer container.DB.Close()
	defer container.Redis.Close()

	// 3. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "Spark Resume AI",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
	})

	// 4. Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Configure for production
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// 5. Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"db":     container.DB.Ping() == nil,
			"redis":  container.Redis.Ping(c.Context()).Err() == nil,
		})
	})

	// 6. Register Routes
	authMiddleware := auth.Middleware(container.TokenService, container.Keyring)

	// Resumes: /api/v1/resumes
	container.ResumeHandlers.RegisterRoutes(app, authMiddleware)

	// Analyses: /api/v1/analyses
	container.AnalysisHandlers.RegisterRoutes(app, authMiddleware)

	// 7. Start Background Workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	container.AnalysisWorker.Start(workerCtx)

	// 8. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		logx.Infof("Server listening on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	logx.Info("Shutting down server...")

	stopWorkers()
	if err := app.Shutdown(); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	// Fiber errors (e.g. route not found)
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
			"code":  e.Code,
		})
	}

	if e, ok := err.(*errx.Error); ok {
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	// Default unknown error
	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
