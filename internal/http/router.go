package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/fapdigital/editais-backend/internal/http/handlers"
	httpMW "github.com/fapdigital/editais-backend/internal/http/middleware"
	"github.com/fapdigital/editais-backend/internal/observability"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	Metrics         *observability.Metrics
	OTelService     string
	FrontendOrigins string

	AdminAuth *httpMW.AdminAuthMiddleware

	HealthHandler    *httpH.HealthHandler
	PublicHandler    *httpH.PublicEditaisHandler
	AdminHandler     *httpH.AdminEditaisHandler
	DashboardHandler *httpH.DashboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.CORS(cfg.FrontendOrigins))
	if cfg.OTelService != "" {
		r.Use(otelgin.Middleware(cfg.OTelService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readiness", cfg.HealthHandler.Readiness)
	}

	api := r.Group("/api")
	{
		// Public catalog (cached, no auth)
		if cfg.PublicHandler != nil {
			api.GET("/editais", cfg.PublicHandler.List)
			api.GET("/editais/search", cfg.PublicHandler.Search)
			api.GET("/editais/:slug", cfg.PublicHandler.GetBySlug)
		}
	}

	admin := api.Group("/admin")
	{
		// Middleware
		if cfg.AdminAuth != nil {
			admin.Use(cfg.AdminAuth.RequireAdmin())
		}

		// Record management
		if cfg.AdminHandler != nil {
			admin.GET("/editais", cfg.AdminHandler.List)
			admin.POST("/editais", cfg.AdminHandler.Create)
			admin.GET("/editais/:id", cfg.AdminHandler.Get)
			admin.PUT("/editais/:id", cfg.AdminHandler.Update)
			admin.DELETE("/editais/:id", cfg.AdminHandler.Delete)
		}

		// Operations
		if cfg.DashboardHandler != nil {
			admin.GET("/dashboard", cfg.DashboardHandler.Summary)
			admin.POST("/sweep", cfg.DashboardHandler.TriggerSweep)
		}
	}

	return r
}
