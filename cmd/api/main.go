package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/sparta-gym-api/internal/application/service"
	"github.com/sangkips/sparta-gym-api/internal/config"
	"github.com/sangkips/sparta-gym-api/internal/infrastructure/database"
	"github.com/sangkips/sparta-gym-api/internal/infrastructure/repository"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/handler"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/routes"
	"github.com/sangkips/sparta-gym-api/pkg/email"
	"github.com/sangkips/sparta-gym-api/pkg/oauth"
	"github.com/sangkips/sparta-gym-api/pkg/printer"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
)

const (
	cleanupInterval = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(&cfg.Database, cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed roles, the first admin, default categories and settings
	if err := database.SeedDefaultData(db, cfg.Admin); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	clock := service.NewClock(cfg.App.Location())

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	clientRepo := repository.NewClientRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)

	// Initialize email service
	mailer := newMailer(cfg)

	// Initialize Google OAuth; the state is signed with the JWT secret
	google := oauth.NewGoogle(oauth.GoogleConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
		StateSecret:        cfg.JWT.Secret,
	})

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo)
	authService := service.NewAuthService(userRepo, passwordResetRepo, jwtManager, mailer, clock)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)
	clientService := service.NewClientService(clientRepo, paymentRepo, saleRepo, clock)
	paymentService := service.NewPaymentService(paymentRepo, clientRepo, settingsService, clock)
	reminderService := service.NewReminderService(paymentService, settingsService, mailer, clock)
	productService := service.NewProductService(productRepo, categoryRepo, settingsService)
	categoryService := service.NewCategoryService(categoryRepo, productRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, clientRepo, clock)
	debtService := service.NewDebtService(saleRepo, clock)
	reportService := service.NewReportService(paymentRepo, saleRepo, analyticsRepo, settingsService, clock)
	dashboardService := service.NewDashboardService(clientRepo, paymentRepo, saleRepo, productService, paymentService, clock)
	printerService := service.NewPrinterService(thermalPrinter, saleRepo, paymentRepo, userRepo, settingsService, clock, cfg.Printer.CharWidth)
	cleanupService := service.NewCleanupService(idempotencyRepo, passwordResetRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService, google),
		User:      handler.NewUserHandler(userService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Client:    handler.NewClientHandler(clientService),
		Payment:   handler.NewPaymentHandler(paymentService, reminderService),
		Product:   handler.NewProductHandler(productService),
		Category:  handler.NewCategoryHandler(categoryService),
		Sale:      handler.NewSaleHandler(saleService),
		Debt:      handler.NewDebtHandler(debtService),
		Report:    handler.NewReportHandler(reportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiLimiter, loginLimiter := routes.NewLimiters(&cfg.RateLimit)
	go apiLimiter.RunCleanup(ctx.Done())
	go loginLimiter.RunCleanup(ctx.Done())

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Ping:            func(ctx context.Context) error { return database.Ping(ctx, db) },
		APILimiter:      apiLimiter,
		LoginLimiter:    loginLimiter,
	})

	// Background jobs
	go cleanupService.Run(ctx, cleanupInterval)
	if cfg.Reminder.Enabled {
		go reminderService.Run(ctx, cfg.Reminder.Interval)
	}

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s, timezone: %s", cfg.App.Env, cfg.App.Location())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("Server exited")
}

func newMailer(cfg *config.Config) *email.Mailer {
	emailCfg := email.Config{
		Provider:     cfg.Email.Provider,
		SMTPHost:     cfg.Email.Host,
		SMTPPort:     cfg.Email.Port,
		SMTPUsername: cfg.Email.Username,
		SMTPPassword: cfg.Email.Password,
		ResendAPIKey: cfg.Email.ResendAPIKey,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	}

	sender, err := email.NewSender(emailCfg)
	if err != nil {
		log.Printf("Warning: email disabled: %v", err)
		emailCfg.Provider = "none"
		sender, _ = email.NewSender(emailCfg)
	}
	return email.NewMailer(sender, emailCfg)
}
