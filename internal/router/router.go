package router

import (
	"net/http"
	"time"

	"github.com/ensdash/ensdash-backend/internal/config"
	"github.com/ensdash/ensdash-backend/internal/handler"
	"github.com/ensdash/ensdash-backend/internal/middleware"
	"github.com/ensdash/ensdash-backend/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Dashboard *handler.DashboardHandler
	Ensemble  *handler.EnsembleHandler
	Alert     *handler.AlertHandler
	Priority  *handler.PriorityHandler
	Export    *handler.ExportHandler
	Media     *handler.MediaHandler
	System    *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded faculty media statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Reporting API ─────────────────────────────────────────────────
	api := router.Group("/api/v1")
	{
		api.GET("/meta", handlers.Dashboard.GetMeta)
		api.GET("/dashboard", handlers.Dashboard.GetDashboard)
		api.GET("/ensembles", handlers.Ensemble.ListEnsembles)
		api.GET("/alerts", handlers.Alert.GetAlerts)
		api.GET("/performance-classes", handlers.Alert.GetPerformanceClasses)
		api.GET("/priority", handlers.Priority.GetPriority)
		api.GET("/export/:report", handlers.Export.ExportReport)
		api.POST("/faculty/:name/media", handlers.Media.UploadFacultyMedia)
	}

	// ─── Operator endpoints (rate limited) ─────────────────────────────
	reloadLimiter := middleware.NewRateLimiter(5, time.Minute)
	admin := router.Group("/api/v1/admin")
	admin.Use(reloadLimiter.Middleware())
	{
		admin.POST("/reload", handlers.System.ReloadSnapshot)
	}

	return router
}
