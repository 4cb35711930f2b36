package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fapdigital/editais-backend/internal/domain"
)

func SeedEdital(tb testing.TB, ctx context.Context, tx *gorm.DB, title, slug string, status types.Status) *types.Edital {
	tb.Helper()
	e := &types.Edital{
		ID:       uuid.New(),
		Title:    title,
		Slug:     slug,
		Status:   status,
		Category: "pesquisa",
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed edital %q: %v", slug, err)
	}
	return e
}

func SeedSweepRun(tb testing.TB, ctx context.Context, tx *gorm.DB, ranFor time.Time, scanned, updated int) *types.SweepRun {
	tb.Helper()
	r := &types.SweepRun{
		ID:         uuid.New(),
		RanFor:     ranFor,
		Scanned:    scanned,
		Updated:    updated,
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed sweep run: %v", err)
	}
	return r
}
