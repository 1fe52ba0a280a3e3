package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	// 1. Initialize Logger
	logx.SetDefaultLogger(logx.NewLogger(logx.LoadFromEnv()))

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}

	logx.Infof("🚀 Starting %s API Server...", cfg.Server.AppName)

	// 3. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.Cleanup()

	workers, stopWorkers := context.WithCancel(context.Background())
	container.StartBackgroundServices(workers)

	// 4. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               cfg.Server.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler(cfg.Server.Debug),
		BodyLimit:             cfg.Server.BodyLimit,
		IdleTimeout:           120 * time.Second,
	})

	// 5. Global Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.Server.Debug,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Accept-Language, X-Request-ID, CF-IPCountry",
		AllowMethods:  "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${reqHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	// Request metadata (request id, client ip, country) for every handler.
	app.Use(container.IAM.Gate.CaptureMeta())

	// 6. Health Check & Info Endpoints
	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler(cfg))
	app.Get("/api/docs", apiDocsHandler)

	if container.LocalFS != nil {
		app.Static("/media", container.LocalFS.BasePath())
		logx.Info("✓ Local media served under /media")
	}

	// 7. Register Routes
	// /api/user/*, /api/admin/*, /api/languages, /internal/accounts/*
	container.IAM.RegisterRoutes(app)
	logx.Info("✓ IAM routes registered")

	// 8. 404 Handler
	app.Use(notFoundHandler)

	printRouteSummary()

	// 9. Start Server with Graceful Shutdown
	startServer(app, cfg.Server.Port, func() {
		stopWorkers()
	})
}

// ============================================================================
// Handler Functions
// ============================================================================

func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		health := fiber.Map{
			"status":  "healthy",
			"service": "passport",
			"version": container.Config.Server.Version,
		}

		checkStorage := c.QueryBool("check_storage", false)
		for name, err := range container.HealthCheck(ctx, checkStorage) {
			if err != nil {
				health[name] = "unhealthy"
				health[name+"_error"] = err.Error()
				health["status"] = "degraded"
				continue
			}
			health[name] = "healthy"
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

func infoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     cfg.Server.AppName,
			"version":     cfg.Server.Version,
			"description": "Account, login and e-mail verification service",
			"features": []string{
				"Password and social login",
				"E-mail OTP verification",
				"Signed service-to-service lookups",
			},
			"endpoints": fiber.Map{
				"docs":   "/api/docs",
				"health": "/health",
			},
		})
	}
}

func apiDocsHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"endpoints": fiber.Map{
			"user": fiber.Map{
				"register":               "POST /api/user/register",
				"login":                  "POST /api/user/login",
				"login_google":           "POST /api/user/login-google",
				"login_google_assertion": "POST /api/user/login-google-assertion",
				"login_facebook":         "POST /api/user/login-facebook",
				"refresh_token":          "POST /api/user/refresh-token",
				"forgot_password":        "POST /api/user/forgot-password",
				"reset_password":         "POST /api/user/reset-password",
				"check_otp":              "POST /api/user/check-otp",
				"profile":                "GET /api/user/profile",
				"update_profile":         "PUT /api/user/profile",
				"avatar":                 "POST /api/user/avatar",
				"change_password":        "PUT /api/user/change-password",
				"send_mail_otp":          "POST /api/user/send-mail-otp",
				"verify_email":           "POST /api/user/verify-email",
				"language":               "PUT /api/user/language",
				"list":                   "GET /api/user/list",
			},
			"admin": fiber.Map{
				"login":  "POST /api/admin/login",
				"create": "POST /api/admin/create",
			},
			"languages": "GET /api/languages",
			"internal": fiber.Map{
				"by_id":    "POST /internal/accounts/by-id",
				"by_email": "POST /internal/accounts/by-email",
			},
		},
		"authentication": fiber.Map{
			"types": []string{"JWT", "Signed parameters"},
			"headers": fiber.Map{
				"jwt": "Authorization: Bearer <token>",
			},
		},
	})
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": requestIDOf(c),
	})
}

// ============================================================================
// Error Handler
// ============================================================================

// globalErrorHandler converts errx errors into the standard error envelope.
func globalErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		reqID := requestIDOf(c)

		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{
				"error":      e.Message,
				"code":       "FIBER_ERROR",
				"status":     e.Code,
				"request_id": reqID,
			})
		}

		resp := errx.ResponseOf(err, reqID)

		entry := logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"ip":         c.IP(),
			"request_id": reqID,
			"error_code": resp.Code,
			"body_bytes": len(c.Body()),
		})
		if token := bearerToken(c); token != "" {
			entry = entry.WithField("bearer", logx.Mask(token))
		}
		if resp.Status >= fiber.StatusInternalServerError {
			entry.WithError(err).Error("Request failed")
		} else {
			entry.Debugf("Request rejected: %v", err)
		}

		if debug {
			if e, ok := errx.As(err); ok && e.Err != nil {
				details := map[string]any{"underlying_error": e.Err.Error()}
				for k, v := range resp.Details {
					details[k] = v
				}
				resp.Details = details
			}
		}

		return c.Status(resp.Status).JSON(resp)
	}
}

// ============================================================================
// Utility Functions
// ============================================================================

func requestIDOf(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.Get("X-Request-ID")
}

func bearerToken(c *fiber.Ctx) string {
	return strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "))
}

func printRouteSummary() {
	logx.Info("📋 Route Summary:")
	logx.Info("   ├─ User: /api/user/*")
	logx.Info("   ├─ Admin: /api/admin/*")
	logx.Info("   ├─ Languages: /api/languages")
	logx.Info("   ├─ Internal (signed): /internal/accounts/*")
	logx.Info("   ├─ Health: /health")
	logx.Info("   └─ Docs: /api/docs")
}

func startServer(app *fiber.App, port string, onShutdown func()) {
	go func() {
		logx.Info(strings.Repeat("=", 61))
		logx.Infof("🚀 Server listening on port %s", port)
		logx.Infof("📚 API Docs: http://localhost:%s/api/docs", port)
		logx.Infof("💚 Health Check: http://localhost:%s/health", port)
		logx.Info(strings.Repeat("=", 61))

		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(app, onShutdown)
}

func gracefulShutdown(app *fiber.App, onShutdown func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logx.Infof("🛑 Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}
	onShutdown()

	logx.Info("✅ Server exited successfully")
}
