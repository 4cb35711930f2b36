package slug

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fapdigital/editais-backend/internal/observability"
	"github.com/fapdigital/editais-backend/internal/pkg/ctxutil"
	"github.com/fapdigital/editais-backend/internal/pkg/dbctx"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

// Checker answers whether a candidate is already held by another record.
// Implemented by the edital repository.
type Checker interface {
	SlugExists(dbc dbctx.Context, slug string, excludeID uuid.UUID) (bool, error)
}

const DefaultMaxAttempts = 10000

// maxBaseLen bounds the normalized base so even a timestamp-suffixed
// candidate stays a reasonable URL segment.
const maxBaseLen = 160

type Allocator struct {
	checker     Checker
	maxAttempts int
	log         *logger.Logger
	now         func() time.Time
}

func NewAllocator(checker Checker, maxAttempts int, baseLog *logger.Logger) *Allocator {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{
		checker:     checker,
		maxAttempts: maxAttempts,
		log:         baseLog.With("component", "SlugAllocator"),
		now:         time.Now,
	}
}

// Allocate returns a unique slug for the title. excludeID names the record
// the slug is for, so a record keeping its own slug is not a collision and
// re-allocation is idempotent. Contention alone never fails the call: when
// every numbered suffix up to the bound is taken, a nanosecond timestamp
// suffix guarantees termination. Only store failures and context
// cancellation surface as errors.
func (a *Allocator) Allocate(dbc dbctx.Context, title string, excludeID uuid.UUID) (string, error) {
	dbc.Ctx = ctxutil.Default(dbc.Ctx)

	base := Normalize(title)
	if base == "" {
		base = a.fallbackBase(excludeID)
	}
	if len(base) > maxBaseLen {
		// Normalize emits ASCII only, so byte slicing cannot split a rune.
		base = strings.TrimRight(base[:maxBaseLen], Separator)
	}

	candidate := base
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if err := dbc.Ctx.Err(); err != nil {
			return "", err
		}
		taken, err := a.checker.SlugExists(dbc, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("slug allocation check: %w", err)
		}
		if !taken {
			outcome := "free"
			if attempt > 1 {
				outcome = "suffixed"
				a.log.Debug("Resolved slug collision", "base", base, "slug", candidate, "attempts", attempt)
			}
			if m := observability.Current(); m != nil {
				m.ObserveSlugAllocation(outcome, attempt)
			}
			return candidate, nil
		}
		candidate = base + Separator + strconv.Itoa(attempt+1)
	}

	// Pathological contention on an identical title. The timestamp suffix
	// keeps allocation terminating instead of scanning forever.
	fallback := base + Separator + strconv.FormatInt(a.now().UnixNano(), 10)
	a.log.Warn("Slug suffix space exhausted, falling back to timestamp",
		"base", base, "slug", fallback, "attempts", a.maxAttempts)
	if m := observability.Current(); m != nil {
		m.ObserveSlugAllocation("fallback", a.maxAttempts)
	}
	return fallback, nil
}

func (a *Allocator) fallbackBase(excludeID uuid.UUID) string {
	if excludeID != uuid.Nil {
		return "edital" + Separator + excludeID.String()[:8]
	}
	return "edital" + Separator + strconv.FormatInt(a.now().UnixNano(), 10)
}
