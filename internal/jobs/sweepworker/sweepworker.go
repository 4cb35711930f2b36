// Package sweepworker schedules the daily status sweep inside the API
// process. Deployments that prefer an external scheduler run the statussweep
// command instead and leave this worker disabled.
package sweepworker

import (
	"context"
	"time"

	"github.com/fapdigital/editais-backend/internal/pkg/logger"
	"github.com/fapdigital/editais-backend/internal/services"
)

const runTimeout = 10 * time.Minute

type Worker struct {
	log     *logger.Logger
	sweeps  services.StatusSweepService
	loc     *time.Location
	at      string
	enabled bool
	now     func() time.Time
}

// New builds the worker. at is local wall-clock time in "HH:MM" form; the
// sweep fires once per day at that moment in loc.
func New(baseLog *logger.Logger, sweeps services.StatusSweepService, loc *time.Location, at string, enabled bool) *Worker {
	return &Worker{
		log:     baseLog.With("component", "SweepWorker"),
		sweeps:  sweeps,
		loc:     loc,
		at:      at,
		enabled: enabled,
		now:     time.Now,
	}
}

func (w *Worker) Start(ctx context.Context) {
	if !w.enabled {
		w.log.Info("Sweep worker disabled")
		return
	}
	w.log.Info("Starting sweep worker", "at", w.at, "tz", w.loc.String())
	go w.runLoop(ctx)
}

func (w *Worker) runLoop(ctx context.Context) {
	for {
		now := w.now().In(w.loc)
		next := w.nextRunTime(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			w.log.Info("Sweep worker stopped")
			return
		case <-timer.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	res, err := w.sweeps.Sweep(runCtx, w.now().In(w.loc), false)
	if err != nil {
		w.log.Error("Daily sweep failed", "error", err)
		return
	}
	if len(res.FailedIDs) > 0 {
		w.log.Warn("Daily sweep finished with failures",
			"scanned", res.Scanned, "updated", res.Updated, "failed", len(res.FailedIDs))
		return
	}
	w.log.Info("Daily sweep finished", "scanned", res.Scanned, "updated", res.Updated)
}

// nextRunTime returns the next occurrence of the configured wall-clock time,
// today if still ahead, otherwise tomorrow.
func (w *Worker) nextRunTime(now time.Time) time.Time {
	hh, mm := w.clock()
	runAt := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, w.loc)
	if !runAt.After(now) {
		runAt = runAt.AddDate(0, 0, 1)
	}
	return runAt
}

func (w *Worker) clock() (int, int) {
	parsed, err := time.Parse("15:04", w.at)
	if err != nil {
		w.log.Warn("Unparseable sweep time, defaulting to 00:05", "at", w.at)
		return 0, 5
	}
	return parsed.Hour(), parsed.Minute()
}
