package app

import (
	"gorm.io/gorm"

	"github.com/fapdigital/editais-backend/internal/cache"
	"github.com/fapdigital/editais-backend/internal/jobs/sweepworker"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
	"github.com/fapdigital/editais-backend/internal/services"
	"github.com/fapdigital/editais-backend/internal/slug"
)

type Services struct {
	Versions  cache.VersionStore
	Pages     cache.PageCache
	Allocator *slug.Allocator

	Edital    services.EditalService
	Catalog   services.PublicCatalogService
	Sweep     services.StatusSweepService
	Dashboard services.DashboardService

	SweepWorker *sweepworker.Worker
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")

	versions := cache.NewRedisVersionStore(clients.Redis, log)
	pages := cache.NewRedisPageCache(clients.Redis, log)
	allocator := slug.NewAllocator(reposet.Edital, cfg.SlugMaxAttempts, log)

	editalService := services.NewEditalService(db, log, reposet.Edital, allocator, versions, cfg.Location)
	catalog := services.NewPublicCatalogService(db, log, reposet.Edital, versions, pages, cfg.CacheTTL)
	sweep := services.NewStatusSweepService(db, log, reposet.Edital, reposet.SweepRun, versions)
	dashboard := services.NewDashboardService(db, log, reposet.Edital, reposet.SweepRun, versions, cfg.Location)

	worker := sweepworker.New(log, sweep, cfg.Location, cfg.SweepAt, cfg.SweepEnabled)

	return Services{
		Versions:    versions,
		Pages:       pages,
		Allocator:   allocator,
		Edital:      editalService,
		Catalog:     catalog,
		Sweep:       sweep,
		Dashboard:   dashboard,
		SweepWorker: worker,
	}
}
