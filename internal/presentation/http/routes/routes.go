package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/bonos-api/internal/config"
	"github.com/sangkips/bonos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/internal/presentation/http/handler"
	"github.com/sangkips/bonos-api/internal/presentation/http/middleware"
	"github.com/sangkips/bonos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Client  *handler.ClientHandler
	Vendor  *handler.VendorHandler
	Invoice *handler.InvoiceHandler
	Bonus   *handler.BonusHandler
	Report  *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes, limited per client IP
		registerAuthRoutes(v1, h, deps)

		// Protected routes, limited per user
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.RateLimiter.ByUser())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	auth := v1.Group("/auth")
	auth.Use(deps.RateLimiter.ByIP())
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	registerClientRoutes(protected, h, deps)
	registerVendorRoutes(protected, h, deps)
	registerInvoiceRoutes(protected, h, deps)

	reports := protected.Group("/reports")
	{
		reports.GET("/billing", h.Report.Billing)
	}

	// Admin only
	admin := protected.Group("")
	admin.Use(middleware.RequireRole(enum.UserRoleAdmin.String()))
	{
		admin.POST("/bonuses/calculate", h.Bonus.Calculate)
		registerUserRoutes(admin, h)
	}
}

// importGuard makes bulk imports safe to retry
func importGuard(deps *Deps) gin.HandlerFunc {
	return middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:     deps.IdempotencyRepo,
		Required: true,
	})
}

func registerClientRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	clients := protected.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.POST("/import", importGuard(deps), h.Client.Import)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
	}
}

func registerVendorRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	vendors := protected.Group("/vendors")
	{
		vendors.GET("", h.Vendor.List)
		vendors.POST("", h.Vendor.Create)
		vendors.POST("/import", importGuard(deps), h.Vendor.Import)
		vendors.GET("/:id", h.Vendor.Get)
		vendors.PUT("/:id", h.Vendor.Update)
		vendors.DELETE("/:id", h.Vendor.Delete)
		vendors.GET("/:id/clients", h.Vendor.ListAssignments)
		vendors.POST("/:id/clients", h.Vendor.AddAssignment)
		vendors.PUT("/:id/clients/:client_id", h.Vendor.UpdateAssignment)
		vendors.DELETE("/:id/clients/:client_id", h.Vendor.RemoveAssignment)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		// A retried create with the same key replays the first response
		invoices.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Invoice.Create)
		invoices.POST("/import", importGuard(deps), h.Invoice.Import)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.DELETE("/:id", h.Invoice.Delete)
	}
}

func registerUserRoutes(admin *gin.RouterGroup, h *Handlers) {
	users := admin.Group("/users")
	{
		users.GET("", h.User.List)
		users.GET("/pending", h.User.ListPending)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.POST("/:id/approve", h.User.Approve)
		users.POST("/:id/reject", h.User.Reject)
		users.DELETE("/:id", h.User.Delete)
	}
}
