// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/app/handlers"
	"github.com/andinotravel/reservas/app/middleware"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers bundles the handler set the router mounts
type Handlers struct {
	Reservation handlers.ReservationHandlerInterface
	Reschedule  handlers.RescheduleHandlerInterface
	Discount    handlers.DiscountHandlerInterface
	Catalog     handlers.CatalogHandlerInterface
	Support     handlers.SupportHandlerInterface
	Admin       handlers.AdminHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app          *fiber.App
	handlers     Handlers
	auth         *middleware.AuthMiddleware
	allowOrigins []string
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(h Handlers, auth *middleware.AuthMiddleware, allowOrigins []string) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Reservas API",
		ServerHeader: "Reservas",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:          app,
		handlers:     h,
		auth:         auth,
		allowOrigins: allowOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	// Prometheus scrape endpoint, outside the API group
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Public catalog
	api.Get("/categories", r.handlers.Catalog.ListCategories)
	api.Get("/services", r.handlers.Catalog.ListServices)
	api.Get("/services/:id", r.handlers.Catalog.GetService)
	api.Get("/packages", r.handlers.Catalog.ListTourPackages)
	api.Get("/packages/:id", r.handlers.Catalog.GetTourPackage)

	// Reservations, authenticated
	reservations := api.Group("/reservations", r.auth.Authenticate())
	reservations.Post("/", r.handlers.Reservation.Create)
	reservations.Get("/", r.handlers.Reservation.List)
	reservations.Get("/:id", r.handlers.Reservation.Get)
	reservations.Post("/:id/cancel", r.handlers.Reservation.Cancel)
	reservations.Post("/:id/reschedule", r.handlers.Reschedule.Reschedule)
	reservations.Get("/:id/reschedules", r.handlers.Reschedule.ListHistory)

	// Discount assignments, agents and admins only
	discounts := api.Group("/discount-assignments", r.auth.RequireRole(models.RoleAgent))
	discounts.Post("/", r.handlers.Discount.Assign)
	discounts.Put("/:id", r.handlers.Discount.UpdateAssignment)
	discounts.Get("/", r.handlers.Discount.ListAssignments)
	api.Get("/discounts", r.auth.RequireRole(models.RoleAgent), r.handlers.Discount.ListDiscounts)

	// Support tickets, authenticated
	support := api.Group("/support/tickets", r.auth.Authenticate())
	support.Post("/", r.handlers.Support.Create)
	support.Get("/", r.handlers.Support.List)
	support.Post("/:id/messages", r.handlers.Support.AddMessage)
	support.Post("/:id/resolve", r.auth.RequireRole(models.RoleAgent, models.RoleSupport), r.handlers.Support.Resolve)

	// Admin surface
	admin := api.Group("/admin", r.auth.RequireRole(models.RoleAdmin))
	admin.Get("/rules", r.handlers.Admin.ListRules)
	admin.Get("/rules/value", r.handlers.Admin.RuleValue)
	admin.Get("/config", r.handlers.Admin.ListConfigEntries)
	admin.Get("/config/:key", r.handlers.Admin.GetConfigEntry)
	admin.Get("/reports/reschedules.xlsx", r.handlers.Admin.DownloadRescheduleReport)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000, // 1 year
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	// CORS middleware
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.allowOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			contentType := c.Get("Content-Type")
			return strings.Contains(contentType, "image/") ||
				strings.Contains(contentType, "video/")
		},
	}))

	// Structured access logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health" || c.Path() == "/metrics"
		},
	}))

	// Request metrics
	r.app.Use(middleware.Metrics())

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "reservas-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
