package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reporthub/api/internal/cache"
	"github.com/reporthub/api/internal/config"
	"github.com/reporthub/api/internal/database"
	"github.com/reporthub/api/internal/handler"
	"github.com/reporthub/api/internal/middleware"
	"github.com/reporthub/api/internal/report"
	"github.com/reporthub/api/internal/store"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		// Continue without Redis cache (fail-open)
		redisCache = nil
	}

	// Lifecycle service over the gorm store
	reportStore := store.NewGormStore(db)
	reportService := report.NewService(reportStore)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(db, cfg.JWTSecret)
	fieldHandler := handler.NewFieldHandler(db)
	templateHandler := handler.NewTemplateHandler(db, redisCache, reportStore)
	reportHandler := handler.NewReportHandler(db, reportService)
	exportHandler := handler.NewExportHandler(reportService, reportHandler)
	userHandler := handler.NewUserHandler(db)
	locationHandler := handler.NewLocationHandler(db)
	analyticsHandler := handler.NewAnalyticsHandler(db)

	// Setup router
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Auth
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
	}

	// Authenticated routes
	user := api.Group("")
	user.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		user.GET("/auth/me", authHandler.Me)
		user.GET("/locations", locationHandler.List)

		// Templates (active only)
		user.GET("/report-templates", templateHandler.ListActive)
		user.GET("/report-templates/:id", templateHandler.Get)
		user.GET("/report-templates/:id/form", reportHandler.RenderForm)

		// Reports
		user.GET("/reports", reportHandler.ListMine)
		user.GET("/reports/:id", reportHandler.Get)
		user.POST("/reports", reportHandler.Upsert)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AdminMiddleware(cfg.JWTSecret))
	{
		// Users
		admin.GET("/users", userHandler.List)
		admin.PUT("/users/:id/approve", userHandler.Approve)
		admin.PUT("/users/:id/role", userHandler.UpdateRole)
		admin.DELETE("/users/:id", userHandler.Delete)

		// Locations
		admin.GET("/locations", locationHandler.List)
		admin.POST("/locations", locationHandler.Create)
		admin.PUT("/locations/:id", locationHandler.Update)
		admin.DELETE("/locations/:id", locationHandler.Delete)

		// Field definitions
		admin.GET("/fields", fieldHandler.List)
		admin.GET("/fields/sections", fieldHandler.Sections)
		admin.GET("/field-types", fieldHandler.FieldTypes)
		admin.POST("/fields", fieldHandler.Create)
		admin.PUT("/fields/:id", fieldHandler.Update)
		admin.DELETE("/fields/:id", fieldHandler.SoftDelete)
		admin.POST("/fields/:id/restore", fieldHandler.Restore)

		// Templates
		admin.GET("/report-templates", templateHandler.ListAdmin)
		admin.POST("/report-templates/from-fields", templateHandler.Compose)
		admin.POST("/report-templates/preview", templateHandler.Preview)
		admin.PUT("/report-templates/:id", templateHandler.Update)
		admin.DELETE("/report-templates/:id", templateHandler.Delete)

		// Reports
		admin.GET("/reports/search", reportHandler.Search)
		admin.POST("/reports/bulk-actions", reportHandler.BulkAction)
		admin.PUT("/reports/:id/:action", reportHandler.Review)
		admin.GET("/reports/export", exportHandler.Export)

		// Analytics
		admin.GET("/analytics", analyticsHandler.GetAnalytics)
	}

	log.Printf("API server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
