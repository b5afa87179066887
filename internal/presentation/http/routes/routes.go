package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/sparta-gym-api/internal/config"
	domainRepo "github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/handler"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/middleware"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Settings  *handler.SettingsHandler
	Client    *handler.ClientHandler
	Payment   *handler.PaymentHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Sale      *handler.SaleHandler
	Debt      *handler.DebtHandler
	Report    *handler.ReportHandler
	Dashboard *handler.DashboardHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// Ping checks the database for /health
	Ping func(ctx context.Context) error
	// Limiters are created by the caller so it can run their cleanup loops
	APILimiter   *middleware.RateLimiter
	LoginLimiter *middleware.RateLimiter
}

// NewLimiters builds the per-user API limiter and the per-IP login limiter
func NewLimiters(cfg *config.RateLimitConfig) (api, login *middleware.RateLimiter) {
	api = middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
		Requests: cfg.Requests,
		Per:      time.Duration(cfg.Duration) * time.Second,
	})
	login = middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		Requests: cfg.LoginRequests,
		Per:      time.Duration(cfg.LoginDuration) * time.Second,
	})
	return api, login
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	if deps.APILimiter == nil || deps.LoginLimiter == nil {
		deps.APILimiter, deps.LoginLimiter = NewLimiters(&deps.Cfg.RateLimit)
	}

	router.GET("/health", health(deps))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h, deps)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.APILimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func health(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code, db := "ok", http.StatusOK, "ok"
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				status, code, db = "degraded", http.StatusServiceUnavailable, err.Error()
			}
		}
		c.JSON(code, gin.H{
			"status":   status,
			"service":  deps.Cfg.App.Name,
			"database": db,
		})
	}
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", deps.LoginLimiter.Middleware(), h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", deps.LoginLimiter.Middleware(), h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Settings are readable by everyone signed in, prices feed the payment form
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", middleware.RequirePermission("manage-settings"), h.Settings.UpdateSettings)

	protected.GET("/dashboard", middleware.RequirePermission("view-dashboard"), h.Dashboard.GetStats)

	registerClientRoutes(protected, h)
	registerPaymentRoutes(protected, h)
	registerProductRoutes(protected, h)
	registerCategoryRoutes(protected, h)
	registerSaleRoutes(protected, h, deps)
	registerDebtRoutes(protected, h)
	registerReportRoutes(protected, h)
	registerUserRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerClientRoutes(protected *gin.RouterGroup, h *Handlers) {
	clients := protected.Group("/clients")
	clients.Use(middleware.RequirePermission("manage-clients"))
	{
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.GET("/stats", h.Client.Stats)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
		clients.GET("/:id/membership", h.Client.Membership)
		clients.GET("/:id/payments", h.Client.Payments)
		clients.GET("/:id/debts", h.Client.Debts)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers) {
	payments := protected.Group("/payments")
	payments.Use(middleware.RequirePermission("manage-payments"))
	{
		payments.GET("", h.Payment.List)
		payments.POST("", h.Payment.Create)
		payments.GET("/summary", h.Payment.Summary)
		payments.GET("/expiring", h.Payment.Expiring)
		payments.POST("/expiring/notify", h.Payment.NotifyExpiring)
		payments.GET("/:id", h.Payment.Get)
		payments.PUT("/:id", h.Payment.Update)
		payments.DELETE("/:id", h.Payment.Delete)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	products.Use(middleware.RequirePermission("manage-products"))
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.POST("/import", h.Product.Import)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/stats", h.Product.Stats)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.POST("/:id/stock", h.Product.AdjustStock)
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	categories.Use(middleware.RequirePermission("manage-products"))
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := protected.Group("/sales")
	sales.Use(middleware.RequirePermission("manage-sales"))
	{
		sales.GET("", h.Sale.List)
		sales.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}), h.Sale.Create)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/cancel", h.Sale.Cancel)
	}
}

func registerDebtRoutes(protected *gin.RouterGroup, h *Handlers) {
	debts := protected.Group("/debts")
	debts.Use(middleware.RequirePermission("manage-sales"))
	{
		debts.GET("", h.Debt.List)
		debts.GET("/stats", h.Debt.Stats)
		debts.GET("/history", h.Debt.History)
		debts.POST("/:saleId/pay", h.Debt.Pay)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission("view-reports"))
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/export", h.Report.Export)
		reports.GET("/print", h.Report.Print)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}

	protected.GET("/roles", middleware.RequirePermission("manage-users"), h.User.ListRoles)
	protected.GET("/permissions", middleware.RequirePermission("manage-users"), h.User.ListPermissions)
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	printer.Use(middleware.RequirePermission("manage-sales"))
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
		printer.POST("/receipt", h.Printer.PrintReceipt)
	}
}
