package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fapdigital/editais-backend/internal/app"
)

// statussweep runs one status sweep and exits. It is the entry point for
// external schedulers (cron, Kubernetes CronJob); deployments using the
// in-process worker do not need it.
func main() {
	var dateArg string
	var dryRun bool
	flag.StringVar(&dateArg, "date", "", "sweep as of this date (YYYY-MM-DD, default today)")
	flag.BoolVar(&dryRun, "dry-run", false, "report transitions without writing")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	loc := application.Cfg.Location
	today := time.Now().In(loc)
	if raw := strings.TrimSpace(dateArg); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			fmt.Printf("invalid -date %q: %v\n", raw, err)
			os.Exit(1)
		}
		today = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	result, err := application.Services.Sweep.Sweep(ctx, today, dryRun)
	if err != nil {
		fmt.Printf("sweep failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("sweep for %s: scanned=%d updated=%d failed=%d dry_run=%v took=%s\n",
		result.RanFor.Format("2006-01-02"),
		result.Scanned,
		result.Updated,
		len(result.FailedIDs),
		result.DryRun,
		result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond),
	)
	for _, id := range result.FailedIDs {
		fmt.Printf("  failed: %s\n", id)
	}
	// Per-record failures are reported above but do not fail the run; the
	// next sweep retries them.
}
