package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fapdigital/editais-backend/internal/cache"
	"github.com/fapdigital/editais-backend/internal/data/repos"
	types "github.com/fapdigital/editais-backend/internal/domain"
	domedital "github.com/fapdigital/editais-backend/internal/domain/editais"
	"github.com/fapdigital/editais-backend/internal/observability"
	"github.com/fapdigital/editais-backend/internal/pkg/dbctx"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

// SweepResult summarizes one sweep: how many records were scanned, how many
// transitioned, and which ones failed. Partial failure is a result, not an
// error; the job still exits clean.
type SweepResult struct {
	RanFor     time.Time
	Scanned    int
	Updated    int
	FailedIDs  []uuid.UUID
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// StatusSweepService re-derives status for every unpinned dated record.
// It exists for the records nobody touches across a day boundary.
type StatusSweepService interface {
	Sweep(ctx context.Context, today time.Time, dryRun bool) (*SweepResult, error)
}

type statusSweepService struct {
	db        *gorm.DB
	log       *logger.Logger
	repo      repos.EditalRepo
	sweepRuns repos.SweepRunRepo
	versions  cache.VersionStore
	now       func() time.Time
}

func NewStatusSweepService(
	db *gorm.DB,
	baseLog *logger.Logger,
	repo repos.EditalRepo,
	sweepRuns repos.SweepRunRepo,
	versions cache.VersionStore,
) StatusSweepService {
	serviceLog := baseLog.With("service", "StatusSweepService")
	return &statusSweepService{
		db:        db,
		log:       serviceLog,
		repo:      repo,
		sweepRuns: sweepRuns,
		versions:  versions,
		now:       time.Now,
	}
}

func (s *statusSweepService) Sweep(ctx context.Context, today time.Time, dryRun bool) (*SweepResult, error) {
	dbc := dbctx.New(ctx)
	res := &SweepResult{
		RanFor:    domedital.DateOnly(today),
		DryRun:    dryRun,
		StartedAt: s.now(),
	}

	rows, err := s.repo.ListSweepable(dbc)
	if err != nil {
		return nil, fmt.Errorf("list sweepable records: %w", err)
	}
	res.Scanned = len(rows)

	for _, rec := range rows {
		if err := ctx.Err(); err != nil {
			res.FinishedAt = s.now()
			return res, err
		}

		derived := domedital.DeriveStatus(today, rec.StartDate, rec.EndDate, rec.Status)
		if derived == rec.Status {
			continue
		}
		if dryRun {
			s.log.Info("Would transition status", "id", rec.ID, "slug", rec.Slug, "from", rec.Status, "to", derived)
			res.Updated++
			continue
		}

		// Each record commits on its own; one poison record must never
		// block the rest of the sweep.
		if err := s.repo.UpdateStatus(dbc, rec.ID, derived); err != nil {
			s.log.Error("Record failed to update, continuing sweep", "id", rec.ID, "slug", rec.Slug, "error", err)
			res.FailedIDs = append(res.FailedIDs, rec.ID)
			continue
		}
		if m := observability.Current(); m != nil {
			m.IncStatusTransition(string(rec.Status), string(derived), "sweep")
		}
		s.log.Info("Status transitioned", "id", rec.ID, "slug", rec.Slug, "from", rec.Status, "to", derived)
		res.Updated++
	}

	// One bump at the end covers every change; a bump per record would only
	// burn versions for no extra invalidation.
	if res.Updated > 0 && !dryRun {
		for _, ns := range cache.AllNamespaces {
			s.versions.Bump(ctx, ns)
		}
	}

	res.FinishedAt = s.now()
	s.recordRun(dbc, res)

	if m := observability.Current(); m != nil {
		status := "ok"
		if len(res.FailedIDs) > 0 {
			status = "partial"
		}
		m.ObserveSweep(status, res.FinishedAt.Sub(res.StartedAt), res.Scanned, res.Updated, len(res.FailedIDs))
	}

	s.log.Info("Sweep finished",
		"ran_for", res.RanFor.Format("2006-01-02"),
		"scanned", res.Scanned,
		"updated", res.Updated,
		"failed", len(res.FailedIDs),
		"dry_run", res.DryRun,
	)
	return res, nil
}

// recordRun persists the bookkeeping row for the dashboard. Bookkeeping
// failures are logged, never allowed to fail the sweep itself.
func (s *statusSweepService) recordRun(dbc dbctx.Context, res *SweepResult) {
	run := &types.SweepRun{
		RanFor:     res.RanFor,
		Scanned:    res.Scanned,
		Updated:    res.Updated,
		DryRun:     res.DryRun,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
	if len(res.FailedIDs) > 0 {
		if raw, err := json.Marshal(res.FailedIDs); err == nil {
			run.FailedIDs = datatypes.JSON(raw)
		}
	}
	if err := s.sweepRuns.Create(dbc, run); err != nil {
		s.log.Warn("Sweep bookkeeping row failed", "error", err)
	}
}
