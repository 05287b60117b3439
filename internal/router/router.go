package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"gstdesk/internal/config"
	"gstdesk/internal/domain"
	"gstdesk/internal/handler"
	"gstdesk/internal/middleware"
	"gstdesk/internal/observability"
	"gstdesk/internal/service"

	_ "gstdesk/docs" // swagger spec
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Business *handler.BusinessHandler
	User     *handler.UserHandler
	Invoice  *handler.InvoiceHandler
	Purchase *handler.PurchaseHandler
	Filing   *handler.FilingHandler
	Payment  *handler.PaymentHandler
	Report   *handler.ReportHandler
	Tools    *handler.ToolsHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	log *logrus.Logger,
	metrics *observability.Metrics,
	authSvc service.AuthService,
	h Handlers,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Secure(cfg.Server.IsProduction()))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(metrics.Middleware())

	// Health checks and operational endpoints
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if !cfg.Server.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)
	v1.POST("/businesses", h.Business.Register)

	// Protected routes - require valid JWT and a business
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	protected.Use(middleware.BusinessGuard())

	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	writers := middleware.RequireRole(domain.RoleAdmin, domain.RoleMember)

	protected.GET("/businesses/me", h.Business.GetMine)
	protected.PUT("/businesses/me", adminOnly, h.Business.UpdateMine)

	users := protected.Group("/users")
	users.POST("", adminOnly, h.User.Create)
	users.GET("", adminOnly, h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", adminOnly, h.User.Delete)

	invoices := protected.Group("/invoices")
	invoices.POST("", writers, h.Invoice.Create)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.PUT("/:id", writers, h.Invoice.Update)
	invoices.DELETE("/:id", writers, h.Invoice.Delete)

	purchases := protected.Group("/purchases")
	purchases.POST("", writers, h.Purchase.Create)
	purchases.GET("", h.Purchase.List)
	purchases.GET("/:id", h.Purchase.GetByID)
	purchases.PUT("/:id", writers, h.Purchase.Update)
	purchases.DELETE("/:id", writers, h.Purchase.Delete)

	protected.GET("/liability/:period", h.Report.Liability)
	protected.GET("/compliance", h.Report.Compliance)
	exports := protected.Group("/exports/:period")
	exports.POST("/gstr3b", writers, h.Report.ExportGSTR3B)
	exports.POST("/invoices", writers, h.Report.ExportInvoices)

	returns := protected.Group("/returns")
	returns.POST("", writers, h.Filing.Start)
	returns.GET("", h.Filing.List)
	returns.GET("/:id", h.Filing.GetByID)
	returns.POST("/:id/auto-populate", adminOnly, h.Filing.AutoPopulate)
	returns.POST("/:id/file-nil", adminOnly, h.Filing.FileNil)
	returns.GET("/:id/late-fee", h.Filing.LateFee)
	protected.POST("/late-fee", h.Filing.CalculateLateFee)

	payments := protected.Group("/payments")
	payments.POST("", writers, h.Payment.Create)
	payments.GET("", h.Payment.List)
	payments.GET("/:id", h.Payment.GetByID)

	protected.GET("/hsn/:code", h.Tools.LookupHSN)
	protected.POST("/calculate/line", h.Tools.CalculateLine)

	return r
}
