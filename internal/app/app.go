package app

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/fapdigital/editais-backend/internal/data/db"
	"github.com/fapdigital/editais-backend/internal/http"
	"github.com/fapdigital/editais-backend/internal/observability"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	cancel   context.CancelFunc
	otelStop func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	dbService, err := db.NewService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbService.DB()

	clientset := wireClients(log)
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, clientset, reposet)

	metrics := observability.Init(log)

	handlerset := wireHandlers(theDB, clientset.Redis, log, cfg, serviceset)
	middleware := wireMiddleware(log, cfg)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:      log,
		DB:       theDB,
		Server:   server,
		Cfg:      cfg,
		Clients:  clientset,
		Repos:    reposet,
		Services: serviceset,
		Metrics:  metrics,
	}, nil
}

// Start launches the background pieces: tracing, the metrics endpoint and
// its collectors, and the daily sweep worker. Safe to call once.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.otelStop = observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: a.Cfg.OTelService,
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		a.Metrics.StartRedisCollector(ctx, a.Log, os.Getenv("REDIS_ADDR"))
		a.Metrics.StartRecordCountCollector(ctx, a.Log, a.DB)
		a.Metrics.StartSLOEvaluator(ctx, a.Log)
	}

	if a.Services.SweepWorker != nil {
		a.Services.SweepWorker.Start(ctx)
	}
}

// Run serves addr until ctx is cancelled, then drains in-flight requests
// before returning.
func (a *App) Run(ctx context.Context, addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelStop != nil {
		_ = a.otelStop(context.Background())
		a.otelStop = nil
	}
	a.Clients.Close()
	if a.Log != nil {
		a.Log.Sync()
	}
}
