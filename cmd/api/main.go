package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/assetdesk-io/assetdesk-api/internal/config"
	"github.com/assetdesk-io/assetdesk-api/internal/database"
	"github.com/assetdesk-io/assetdesk-api/internal/handler"
	"github.com/assetdesk-io/assetdesk-api/internal/middleware"
	"github.com/assetdesk-io/assetdesk-api/internal/models"
	"github.com/assetdesk-io/assetdesk-api/internal/repository"
	"github.com/assetdesk-io/assetdesk-api/internal/router"
	"github.com/assetdesk-io/assetdesk-api/internal/service"
	"github.com/assetdesk-io/assetdesk-api/pkg/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Computer{},
		&models.Device{},
		&models.Location{},
		&models.Employee{},
		&models.AssignmentEvent{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var cache *service.CurrentAssignmentCache
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		cache = service.NewCurrentAssignmentCache(redisClient, cfg.CurrentCacheTTL, logger)
	}

	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.New(events.Config{URL: cfg.NATSURL, Subject: cfg.AuditSubject}, logger)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer publisher.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	computerRepo := repository.NewComputerRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	eventRepo := repository.NewAssignmentEventRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	guard := service.NewPolicyGuard(logger)

	var auditPublisher service.AuditPublisher
	if publisher != nil {
		auditPublisher = publisher
	}
	auditService := service.NewAuditService(auditRepo, auditPublisher, logger)

	ledgerService := service.NewLedgerService(eventRepo, computerRepo, deviceRepo, locationRepo, employeeRepo, guard, auditService, cache, validate, logger)
	resolverService := service.NewResolverService(eventRepo, cache, logger)
	equipmentService := service.NewEquipmentService(computerRepo, deviceRepo, eventRepo, guard, auditService, validate, logger)
	locationService := service.NewLocationService(locationRepo, eventRepo, guard, auditService, validate, logger)
	employeeService := service.NewEmployeeService(employeeRepo, eventRepo, guard, auditService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		EquipmentHandler: handler.NewEquipmentHandler(equipmentService, logger),
		LocationHandler:  handler.NewLocationHandler(locationService, logger),
		EmployeeHandler:  handler.NewEmployeeHandler(employeeService, logger),
		LedgerHandler:    handler.NewLedgerHandler(ledgerService, resolverService, logger),
		AuditHandler:     handler.NewAuditHandler(auditService, logger),
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
