package router

import (
	"strings"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/config"
	"github.com/Joe-Bills/moto-spares-manager/internal/handler"
	"github.com/Joe-Bills/moto-spares-manager/internal/infra"
	"github.com/Joe-Bills/moto-spares-manager/internal/middleware"
	"github.com/Joe-Bills/moto-spares-manager/internal/repository"
	"github.com/Joe-Bills/moto-spares-manager/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the wired service layer, shared by the HTTP handlers and the
// background workers.
type Services struct {
	Auth       service.AuthService
	Audit      service.AuditService
	Categories service.CategoryService
	Products   service.ProductService
	Sales      service.SaleService
	Expenses   service.ExpenseService
	Inventory  service.InventoryService
	Reports    service.ReportService
}

// NewServices builds every repository and service on top of db.
// queue may be nil when Redis is unavailable; emailed reports then answer 503.
// Dependency graph: Service ← Repository ← DB
func NewServices(cfg *config.Config, db *gorm.DB, queue service.ReportQueue) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	auditSvc := service.NewAuditService(auditRepo)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo, cfg.MediaBaseURL)
	images := infra.NewMediaStore(cfg.MediaRoot)

	return &Services{
		Auth:       service.NewAuthService(userRepo, auditSvc, cfg),
		Audit:      auditSvc,
		Categories: service.NewCategoryService(categoryRepo, auditSvc),
		Products:   service.NewProductService(productRepo, saleRepo, inventorySvc, auditSvc, images, cfg.MediaBaseURL),
		Sales:      service.NewSaleService(saleRepo, inventorySvc, auditSvc),
		Expenses:   service.NewExpenseService(expenseRepo, auditSvc),
		Inventory:  inventorySvc,
		Reports:    service.NewReportService(saleRepo, expenseRepo, productRepo, queue, auditSvc, cfg),
	}
}

// New wires the handlers and returns a configured Gin engine.
// db, rdb and smtpCB are only used by the health check; rdb and smtpCB may be nil.
func New(cfg *config.Config, svcs *Services, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth)
	usersH := handler.NewUsersHandler(svcs.Auth)
	categoriesH := handler.NewCategoriesHandler(svcs.Categories)
	productsH := handler.NewProductsHandler(svcs.Products)
	salesH := handler.NewSalesHandler(svcs.Sales)
	expensesH := handler.NewExpensesHandler(svcs.Expenses)
	auditH := handler.NewAuditLogsHandler(svcs.Audit)
	inventoryH := handler.NewInventoryHandler(svcs.Inventory)
	reportsH := handler.NewReportsHandler(svcs.Reports)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	if db != nil {
		health := handler.Health(db, rdb, smtpCB)
		r.GET("/health", health)
		r.GET("/v1/health", health)
	}
	if strings.HasPrefix(cfg.MediaBaseURL, "/") && cfg.MediaRoot != "" {
		r.Static(cfg.MediaBaseURL, cfg.MediaRoot)
	}

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Reads and creates are open to any authenticated
	// user; updates, deletes and admin views need a privileged role.
	admin := middleware.RequirePrivileged()
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/auth/me", authH.Me)
		v1.GET("/settings", handler.Settings(cfg.Settings()))
		v1.POST("/users", admin, usersH.Create)

		categories := v1.Group("/categories")
		{
			categories.GET("", categoriesH.List)
			categories.POST("", categoriesH.Create)
			categories.GET("/:id", categoriesH.Get)
			categories.PUT("/:id", admin, categoriesH.Update)
			categories.DELETE("/:id", admin, categoriesH.Delete)
		}

		products := v1.Group("/products")
		{
			products.GET("", productsH.List)
			products.POST("", productsH.Create)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", admin, productsH.Update)
			products.DELETE("/:id", admin, productsH.Delete)
			products.POST("/:id/restock", productsH.Restock)
			products.POST("/:id/image", admin, productsH.UploadImage)
			products.DELETE("/:id/image", admin, productsH.RemoveImage)
		}

		sales := v1.Group("/sales")
		{
			sales.GET("", salesH.List)
			sales.POST("", salesH.Create)
			sales.GET("/:id", salesH.Get)
			sales.PUT("/:id", admin, salesH.Update)
			sales.DELETE("/:id", admin, salesH.Delete)
		}

		expenses := v1.Group("/expenses")
		{
			expenses.GET("", expensesH.List)
			expenses.POST("", expensesH.Create)
			expenses.GET("/:id", expensesH.Get)
			expenses.PUT("/:id", admin, expensesH.Update)
			expenses.DELETE("/:id", admin, expensesH.Delete)
		}

		v1.GET("/audit-logs", admin, auditH.List)

		inv := v1.Group("/inventory")
		{
			inv.GET("/alerts", inventoryH.Alerts)
			inv.POST("/stock-validation", inventoryH.ValidateStock)
			inv.GET("/movements", admin, inventoryH.Movements)
		}

		reports := v1.Group("/reports", admin)
		{
			reports.GET("/data", reportsH.Data)
			reports.GET("/sales/pdf", reportsH.SalesPDF)
			reports.GET("/sales/excel", reportsH.SalesExcel)
			reports.POST("/sales/email", reportsH.EmailSales)
		}
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
