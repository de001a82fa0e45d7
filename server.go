package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/handlers"
	"bitbucket.org/mmdatafocus/shop_backend/middlewares"
	"bitbucket.org/mmdatafocus/shop_backend/models"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger logs only requests that recorded errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func registerRoutes(r *gin.Engine) {
	managerOrAdmin := middlewares.RequireRoles(models.UserRoleManager, models.UserRoleAdmin)
	adminOnly := middlewares.RequireRoles(models.UserRoleAdmin)

	api := r.Group("/api")

	api.POST("/auth/register", handlers.RegisterHandler())
	api.POST("/auth/login", handlers.LoginHandler())

	auth := api.Group("")
	auth.Use(middlewares.AuthMiddleware())

	auth.POST("/auth/logout", handlers.LogoutHandler())
	auth.GET("/auth/me", handlers.MeHandler())

	auth.GET("/categories", handlers.ListCategoriesHandler())
	auth.POST("/categories", managerOrAdmin, handlers.CreateCategoryHandler())
	auth.PUT("/categories/:id", managerOrAdmin, handlers.UpdateCategoryHandler())
	auth.DELETE("/categories/:id", managerOrAdmin, handlers.DeleteCategoryHandler())

	auth.GET("/product-types", handlers.ListProductTypesHandler())
	auth.POST("/product-types", managerOrAdmin, handlers.CreateProductTypeHandler())
	auth.PUT("/product-types/:id", managerOrAdmin, handlers.UpdateProductTypeHandler())
	auth.DELETE("/product-types/:id", managerOrAdmin, handlers.DeleteProductTypeHandler())

	auth.GET("/products", handlers.ListProductsHandler())
	auth.GET("/products/:id", handlers.GetProductHandler())
	auth.POST("/products", managerOrAdmin, handlers.CreateProductHandler())
	auth.PUT("/products/:id", managerOrAdmin, handlers.UpdateProductHandler())
	auth.DELETE("/products/:id", managerOrAdmin, handlers.DeleteProductHandler())

	auth.GET("/suppliers", handlers.ListSuppliersHandler())
	auth.POST("/suppliers", managerOrAdmin, handlers.CreateSupplierHandler())
	auth.PUT("/suppliers/:id", managerOrAdmin, handlers.UpdateSupplierHandler())

	auth.GET("/customers", handlers.ListCustomersHandler())
	auth.POST("/customers", handlers.CreateCustomerHandler())
	auth.PUT("/customers/:id", managerOrAdmin, handlers.UpdateCustomerHandler())

	auth.GET("/purchase-orders", handlers.ListPurchaseOrdersHandler())
	auth.GET("/purchase-orders/:id", handlers.GetPurchaseOrderHandler())
	auth.POST("/purchase-orders", managerOrAdmin, handlers.CreatePurchaseOrderHandler())
	auth.PATCH("/purchase-orders/:id/payment-status", managerOrAdmin, handlers.SetPurchaseOrderPaymentStatusHandler())

	auth.GET("/sales-orders", handlers.ListSalesOrdersHandler())
	auth.GET("/sales-orders/:id", handlers.GetSalesOrderHandler())
	auth.POST("/sales-orders", handlers.CreateSalesOrderHandler())
	auth.PATCH("/sales-orders/:id/payment-status", managerOrAdmin, handlers.SetSalesOrderPaymentStatusHandler())

	auth.GET("/inventory", handlers.GetInventoryHandler())
	auth.GET("/inventory/summary", handlers.GetInventorySummaryHandler())
	auth.GET("/dashboard/stats", handlers.GetDashboardStatsHandler())

	auth.POST("/reports/export", handlers.ExportReportHandler())

	auth.GET("/users", adminOnly, handlers.ListUsersHandler())
	auth.PUT("/users/:id/role", adminOnly, handlers.UpdateUserRoleHandler())
	auth.PUT("/users/:id/active", adminOnly, handlers.SetUserActiveHandler())
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the platform considers the revision healthy.
	// Until DB/Redis are ready, we return 503 for app endpoints.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow the startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate critical endpoints on dependency readiness.
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	registerRoutes(r)
	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables and causes 504/502 timeouts.
	// Allow disabling migrations on startup (run them as a separate job instead).
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
		if err := models.SeedAdminUser(context.Background()); err != nil {
			logger.WithFields(logrus.Fields{"field": "seed"}).Error("admin seed failed: " + err.Error())
		}
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/api")
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
