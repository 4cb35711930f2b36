package app

import (
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fapdigital/editais-backend/internal/http"
	httpH "github.com/fapdigital/editais-backend/internal/http/handlers"
	httpMW "github.com/fapdigital/editais-backend/internal/http/middleware"
	"github.com/fapdigital/editais-backend/internal/observability"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

type Middleware struct {
	AdminAuth *httpMW.AdminAuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Public    *httpH.PublicEditaisHandler
	Admin     *httpH.AdminEditaisHandler
	Dashboard *httpH.DashboardHandler
}

func wireHandlers(db *gorm.DB, rdb *goredis.Client, log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(db, rdb),
		Public:    httpH.NewPublicEditaisHandler(log, services.Catalog),
		Admin:     httpH.NewAdminEditaisHandler(log, services.Edital),
		Dashboard: httpH.NewDashboardHandler(log, services.Dashboard, services.Sweep, cfg.Location),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		AdminAuth: httpMW.NewAdminAuthMiddleware(log, cfg.AdminAPIToken),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	routerCfg := http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		FrontendOrigins:  cfg.FrontendOrigins,
		AdminAuth:        middleware.AdminAuth,
		HealthHandler:    handlers.Health,
		PublicHandler:    handlers.Public,
		AdminHandler:     handlers.Admin,
		DashboardHandler: handlers.Dashboard,
	}
	if observability.TracingEnabled() {
		routerCfg.OTelService = cfg.OTelService
	}
	return http.NewServer(routerCfg)
}
