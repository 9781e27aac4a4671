// Package main provides the main entry point for the Reservas booking backend
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andinotravel/reservas/app/handlers"
	"github.com/andinotravel/reservas/app/middleware"
	"github.com/andinotravel/reservas/app/router"
	"github.com/andinotravel/reservas/app/services"
	businessflow "github.com/andinotravel/reservas/business_flow"
	"github.com/andinotravel/reservas/config"
	"github.com/andinotravel/reservas/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Reservas application...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger through lumberjack when file output
// is configured
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	if cfg.Output == "both" {
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
		return
	}
	log.SetOutput(rotator)
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings
// Redis to detect connectivity issues. The returned cancel function stops it.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeNotificationService initializes the notification service
func initializeNotificationService(cfg *config.ProductionConfig) services.NotificationService {
	smsProvider := services.NewMockSMSProvider()

	var emailProvider services.EmailProvider
	if cfg.Email.Host != "" {
		emailProvider = services.NewSMTPEmailProvider(
			cfg.Email.Host,
			cfg.Email.Port,
			cfg.Email.Username,
			cfg.Email.Password,
			cfg.Email.FromEmail,
		)
	} else {
		emailProvider = services.NewRecordingEmailProvider()
	}

	return services.NewNotificationService(smsProvider, emailProvider)
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Repositories
	customerRepo := repository.NewCustomerRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	packageRepo := repository.NewTourPackageRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	assignmentRepo := repository.NewServiceDiscountRepository(db)
	ruleRepo := repository.NewRescheduleRuleRepository(db)
	historyRepo := repository.NewRescheduleHistoryRepository(db)
	ticketRepo := repository.NewSupportTicketRepository(db)
	messageRepo := repository.NewSupportMessageRepository(db)
	supportConfigRepo := repository.NewSupportConfigRepository(db)
	globalConfigRepo := repository.NewGlobalConfigRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	txManager := repository.NewTxManager(db)

	// Services
	notificationService := initializeNotificationService(cfg)

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Flows
	rescheduleFlow := businessflow.NewRescheduleFlow(
		reservationRepo,
		ruleRepo,
		historyRepo,
		customerRepo,
		auditRepo,
		txManager,
		notificationService,
		nil,
		rc,
		cfg.Cache.RuleTTL,
	)

	discountFlow := businessflow.NewDiscountFlow(
		serviceRepo,
		discountRepo,
		assignmentRepo,
		auditRepo,
		txManager,
		nil,
	)

	reservationFlow := businessflow.NewReservationFlow(
		reservationRepo,
		serviceRepo,
		couponRepo,
		customerRepo,
		auditRepo,
		txManager,
		nil,
	)

	catalogFlow := businessflow.NewCatalogFlow(categoryRepo, serviceRepo, packageRepo)
	globalConfigFlow := businessflow.NewGlobalConfigFlow(globalConfigRepo)

	supportFlow := businessflow.NewSupportFlow(
		ticketRepo,
		messageRepo,
		supportConfigRepo,
		customerRepo,
		reservationRepo,
		auditRepo,
		txManager,
		notificationService,
		nil,
	)

	reportFlow := businessflow.NewAdminReportFlow(historyRepo, reservationRepo, nil)

	// Handlers
	h := router.Handlers{
		Reservation: handlers.NewReservationHandler(reservationFlow),
		Reschedule:  handlers.NewRescheduleHandler(rescheduleFlow),
		Discount:    handlers.NewDiscountHandler(discountFlow),
		Catalog:     handlers.NewCatalogHandler(catalogFlow),
		Support:     handlers.NewSupportHandler(supportFlow),
		Admin:       handlers.NewAdminHandler(rescheduleFlow, globalConfigFlow, reportFlow),
	}

	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	appRouter := router.NewFiberRouter(h, authMiddleware, cfg.Security.AllowedOrigins)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
