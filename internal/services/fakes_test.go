package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fapdigital/editais-backend/internal/cache"
	"github.com/fapdigital/editais-backend/internal/data/repos"
	types "github.com/fapdigital/editais-backend/internal/domain"
	"github.com/fapdigital/editais-backend/internal/pkg/dbctx"
	apperrors "github.com/fapdigital/editais-backend/internal/pkg/errors"
)

var (
	_ repos.EditalRepo   = (*fakeEditalRepo)(nil)
	_ repos.SweepRunRepo = (*fakeSweepRunRepo)(nil)
	_ cache.VersionStore = (*fakeVersionStore)(nil)
	_ cache.PageCache    = (*fakePageCache)(nil)
)

func dbcBg() dbctx.Context { return dbctx.New(context.Background()) }

// fakeEditalRepo is an in-memory stand-in for the GORM repository. Ghost
// slugs simulate the commit-time race: invisible to SlugExists until a
// persist trips over them, visible afterwards, exactly like a concurrent
// writer whose row commits between pre-check and insert.
type fakeEditalRepo struct {
	mu             sync.Mutex
	byID           map[uuid.UUID]*types.Edital
	ghosts         map[string]bool
	alwaysConflict bool
	failStatusFor  map[uuid.UUID]error
	listErr        error
	listDelay      time.Duration

	persistCalls   int
	listCalls      int
	searchCalls    int
	slugCalls      int
	getBySlugCalls int
}

func newFakeEditalRepo() *fakeEditalRepo {
	return &fakeEditalRepo{
		byID:          map[uuid.UUID]*types.Edital{},
		ghosts:        map[string]bool{},
		failStatusFor: map[uuid.UUID]error{},
	}
}

var errDuplicate = errors.New(`duplicate key value violates unique constraint "idx_edital_slug"`)

func (f *fakeEditalRepo) slugTakenLocked(slug string, excludeID uuid.UUID) bool {
	for id, rec := range f.byID {
		if rec.Slug == slug && id != excludeID {
			return true
		}
	}
	return false
}

func (f *fakeEditalRepo) persistLocked(e *types.Edital) error {
	f.persistCalls++
	if f.alwaysConflict {
		return errDuplicate
	}
	if f.ghosts[e.Slug] {
		// The competitor's row is committed now; later checks see it.
		ghost := &types.Edital{ID: uuid.New(), Title: e.Title, Slug: e.Slug, Status: types.StatusOpen}
		f.byID[ghost.ID] = ghost
		delete(f.ghosts, e.Slug)
		return errDuplicate
	}
	if f.slugTakenLocked(e.Slug, e.ID) {
		return errDuplicate
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEditalRepo) Create(dbc dbctx.Context, e *types.Edital) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.persistLocked(e)
}

func (f *fakeEditalRepo) Update(dbc dbctx.Context, e *types.Edital) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[e.ID]; !ok {
		return apperrors.ErrNotFound
	}
	return f.persistLocked(e)
}

func (f *fakeEditalRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Edital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeEditalRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Edital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getBySlugCalls++
	for _, rec := range f.byID {
		if rec.Slug == slug {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeEditalRepo) SlugExists(dbc dbctx.Context, slug string, excludeID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slugCalls++
	return f.slugTakenLocked(slug, excludeID), nil
}

func (f *fakeEditalRepo) ListPublic(dbc dbctx.Context, filter repos.ListFilter) ([]*types.Edital, int64, error) {
	if f.listDelay > 0 {
		time.Sleep(f.listDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []*types.Edital
	for _, rec := range f.byID {
		if rec.Status == types.StatusDraft {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.Category != "" && rec.Category != filter.Category {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, int64(len(out)), nil
}

func (f *fakeEditalRepo) ListAdmin(dbc dbctx.Context, filter repos.ListFilter) ([]*types.Edital, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Edital
	for _, rec := range f.byID {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.Category != "" && rec.Category != filter.Category {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, int64(len(out)), nil
}

func (f *fakeEditalRepo) Search(dbc dbctx.Context, query string, limit int) ([]*types.Edital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	term := strings.ToLower(strings.TrimSpace(query))
	var out []*types.Edital
	if term == "" {
		return out, nil
	}
	for _, rec := range f.byID {
		if rec.Status == types.StatusDraft {
			continue
		}
		if strings.Contains(strings.ToLower(rec.Title), term) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEditalRepo) ListSweepable(dbc dbctx.Context) ([]*types.Edital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*types.Edital
	for _, rec := range f.byID {
		if rec.Status.Pinned() {
			continue
		}
		if rec.StartDate == nil && rec.EndDate == nil {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (f *fakeEditalRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status types.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failStatusFor[id]; ok {
		return err
	}
	rec, ok := f.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	rec.Status = status
	return nil
}

func (f *fakeEditalRepo) SoftDeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEditalRepo) CountByStatus(dbc dbctx.Context) (map[types.Status]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[types.Status]int64{}
	for _, rec := range f.byID {
		out[rec.Status]++
	}
	return out, nil
}

func (f *fakeEditalRepo) ListUpcoming(dbc dbctx.Context, today time.Time, limit int) ([]*types.Edital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Edital
	for _, rec := range f.byID {
		if rec.Status != types.StatusScheduled || rec.StartDate == nil || rec.StartDate.Before(today) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(*out[j].StartDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEditalRepo) ListClosingSoon(dbc dbctx.Context, today time.Time, limit int) ([]*types.Edital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Edital
	for _, rec := range f.byID {
		if rec.Status != types.StatusOpen || rec.EndDate == nil || rec.EndDate.Before(today) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(*out[j].EndDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEditalRepo) ListRecentlyUpdated(dbc dbctx.Context, limit int) ([]*types.Edital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Edital
	for _, rec := range f.byID {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeVersionStore struct {
	mu    sync.Mutex
	vals  map[string]int64
	bumps map[string]int
}

func newFakeVersionStore() *fakeVersionStore {
	return &fakeVersionStore{vals: map[string]int64{}, bumps: map[string]int{}}
}

func (f *fakeVersionStore) CurrentVersion(ctx context.Context, ns string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vals[ns]; !ok {
		f.vals[ns] = 1
	}
	return f.vals[ns]
}

func (f *fakeVersionStore) Bump(ctx context.Context, ns string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vals[ns]++
	f.bumps[ns]++
	return f.vals[ns]
}

type fakePageCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
	hits int
}

func newFakePageCache() *fakePageCache {
	return &fakePageCache{data: map[string][]byte{}}
}

func (f *fakePageCache) Get(ctx context.Context, key string, dest interface{}) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.data[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	f.hits++
	return true
}

func (f *fakePageCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	f.data[key] = raw
	f.sets++
}

type fakeSweepRunRepo struct {
	mu   sync.Mutex
	runs []*types.SweepRun
	err  error
}

func (f *fakeSweepRunRepo) Create(dbc dbctx.Context, run *types.SweepRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *run
	f.runs = append(f.runs, &cp)
	return nil
}

func (f *fakeSweepRunRepo) Latest(dbc dbctx.Context, limit int) ([]*types.SweepRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*types.SweepRun, 0, limit)
	for i := len(f.runs) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *f.runs[i]
		out = append(out, &cp)
	}
	return out, nil
}
