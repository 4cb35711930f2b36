package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fapdigital/editais-backend/internal/cache"
	"github.com/fapdigital/editais-backend/internal/data/repos"
	types "github.com/fapdigital/editais-backend/internal/domain"
	domedital "github.com/fapdigital/editais-backend/internal/domain/editais"
	"github.com/fapdigital/editais-backend/internal/pkg/dbctx"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

// panelSize caps each dashboard list; the dashboard is a glance, not a report.
const panelSize = 5

type DashboardSummary struct {
	TotalRecords    int64                  `json:"total_records"`
	StatusCounts    map[types.Status]int64 `json:"status_counts"`
	CacheVersions   map[string]int64       `json:"cache_versions"`
	NextOpenings    []*types.Edital        `json:"next_openings"`
	ClosingSoon     []*types.Edital        `json:"closing_soon"`
	RecentlyUpdated []*types.Edital        `json:"recently_updated"`
	RecentSweeps    []*types.SweepRun      `json:"recent_sweeps"`
}

type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
	db        *gorm.DB
	log       *logger.Logger
	repo      repos.EditalRepo
	sweepRuns repos.SweepRunRepo
	versions  cache.VersionStore
	loc       *time.Location
	now       func() time.Time
}

func NewDashboardService(
	db *gorm.DB,
	baseLog *logger.Logger,
	repo repos.EditalRepo,
	sweepRuns repos.SweepRunRepo,
	versions cache.VersionStore,
	loc *time.Location,
) DashboardService {
	serviceLog := baseLog.With("service", "DashboardService")
	return &dashboardService{
		db:        db,
		log:       serviceLog,
		repo:      repo,
		sweepRuns: sweepRuns,
		versions:  versions,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	dbc := dbctx.New(ctx)
	today := domedital.DateOnly(s.now().In(s.loc))

	counts, err := s.repo.CountByStatus(dbc)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}

	upcoming, err := s.repo.ListUpcoming(dbc, today, panelSize)
	if err != nil {
		return nil, err
	}
	closing, err := s.repo.ListClosingSoon(dbc, today, panelSize)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.ListRecentlyUpdated(dbc, panelSize)
	if err != nil {
		return nil, err
	}

	sweeps, err := s.sweepRuns.Latest(dbc, panelSize)
	if err != nil {
		return nil, err
	}

	versions := make(map[string]int64, len(cache.AllNamespaces))
	for _, ns := range cache.AllNamespaces {
		versions[ns] = s.versions.CurrentVersion(ctx, ns)
	}

	return &DashboardSummary{
		TotalRecords:    total,
		StatusCounts:    counts,
		CacheVersions:   versions,
		NextOpenings:    upcoming,
		ClosingSoon:     closing,
		RecentlyUpdated: recent,
		RecentSweeps:    sweeps,
	}, nil
}
