package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fapdigital/editais-backend/internal/cache"
	types "github.com/fapdigital/editais-backend/internal/domain"
	apperrors "github.com/fapdigital/editais-backend/internal/pkg/errors"
)

func newCatalogForTest(t *testing.T, repo *fakeEditalRepo, vs *fakeVersionStore, pc *fakePageCache) PublicCatalogService {
	t.Helper()
	return NewPublicCatalogService(nil, testLogger(t), repo, vs, pc, time.Minute)
}

func TestListServesFromCacheUntilBump(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	pc := newFakePageCache()
	svc := newCatalogForTest(t, repo, vs, pc)
	ctx := context.Background()

	seedRecord(repo, "aberto-um", types.StatusOpen, dateAt(2025, 1, 10), dateAt(2025, 1, 20))
	seedRecord(repo, "aberto-dois", types.StatusOpen, dateAt(2025, 1, 12), dateAt(2025, 1, 25))

	page, err := svc.List(ctx, ListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("page = %+v", page)
	}
	if repo.listCalls != 1 || pc.sets != 1 {
		t.Fatalf("listCalls=%d sets=%d after first read", repo.listCalls, pc.sets)
	}

	again, err := svc.List(ctx, ListRequest{})
	if err != nil {
		t.Fatalf("List cached: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("listCalls = %d, want cache to answer the second read", repo.listCalls)
	}
	if again.Total != page.Total || len(again.Items) != len(page.Items) {
		t.Fatalf("cached page differs: %+v vs %+v", again, page)
	}

	// A write-side bump moves the namespace version; the old entry is
	// orphaned and the next read goes back to the store.
	vs.Bump(ctx, cache.NamespaceListing)
	if _, err := svc.List(ctx, ListRequest{}); err != nil {
		t.Fatalf("List after bump: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("listCalls = %d after bump, want 2", repo.listCalls)
	}
}

func TestListKeysDiscriminateFilters(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	pc := newFakePageCache()
	svc := newCatalogForTest(t, repo, vs, pc)
	ctx := context.Background()

	seedRecord(repo, "aberto", types.StatusOpen, nil, nil)

	if _, err := svc.List(ctx, ListRequest{Page: 1}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := svc.List(ctx, ListRequest{Page: 2}); err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if _, err := svc.List(ctx, ListRequest{Category: "pesquisa"}); err != nil {
		t.Fatalf("List category: %v", err)
	}
	if _, err := svc.List(ctx, ListRequest{Status: types.StatusOpen}); err != nil {
		t.Fatalf("List status: %v", err)
	}
	if repo.listCalls != 4 {
		t.Fatalf("listCalls = %d, want a distinct key per filter combination", repo.listCalls)
	}

	// Page 0 normalizes to page 1 and shares its key.
	if _, err := svc.List(ctx, ListRequest{Page: 0}); err != nil {
		t.Fatalf("List page 0: %v", err)
	}
	if repo.listCalls != 4 {
		t.Fatalf("listCalls = %d, normalized request should hit the page-1 entry", repo.listCalls)
	}
}

func TestGetBySlugCachesHitsNotMisses(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	pc := newFakePageCache()
	svc := newCatalogForTest(t, repo, vs, pc)
	ctx := context.Background()

	seedRecord(repo, "meu-edital", types.StatusOpen, nil, nil)

	rec, err := svc.GetBySlug(ctx, "meu-edital")
	if err != nil || rec.Slug != "meu-edital" {
		t.Fatalf("GetBySlug: %v %v", rec, err)
	}
	if _, err := svc.GetBySlug(ctx, "meu-edital"); err != nil {
		t.Fatalf("GetBySlug cached: %v", err)
	}
	if repo.getBySlugCalls != 1 {
		t.Fatalf("getBySlugCalls = %d, want 1", repo.getBySlugCalls)
	}

	if _, err := svc.GetBySlug(ctx, "nao-existe"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("missing slug = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetBySlug(ctx, "nao-existe"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("missing slug again = %v, want ErrNotFound", err)
	}
	if repo.getBySlugCalls != 3 {
		t.Fatalf("getBySlugCalls = %d, negative results must not be cached", repo.getBySlugCalls)
	}
}

func TestSearchCachesByQuery(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	pc := newFakePageCache()
	svc := newCatalogForTest(t, repo, vs, pc)
	ctx := context.Background()

	seedRecord(repo, "bolsas-2025", types.StatusOpen, nil, nil)

	if _, err := svc.Search(ctx, "bolsas", 10); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := svc.Search(ctx, "bolsas", 10); err != nil {
		t.Fatalf("Search cached: %v", err)
	}
	if repo.searchCalls != 1 {
		t.Fatalf("searchCalls = %d, want 1", repo.searchCalls)
	}
	if _, err := svc.Search(ctx, "outra consulta", 10); err != nil {
		t.Fatalf("Search other: %v", err)
	}
	if repo.searchCalls != 2 {
		t.Fatalf("searchCalls = %d, want distinct key per query", repo.searchCalls)
	}
}

func TestListCollapsesConcurrentMisses(t *testing.T) {
	repo := newFakeEditalRepo()
	repo.listDelay = 50 * time.Millisecond
	vs := newFakeVersionStore()
	pc := newFakePageCache()
	svc := newCatalogForTest(t, repo, vs, pc)

	seedRecord(repo, "aberto", types.StatusOpen, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.List(context.Background(), ListRequest{}); err != nil {
				t.Errorf("List: %v", err)
			}
		}()
	}
	wg.Wait()

	if repo.listCalls != 1 {
		t.Fatalf("listCalls = %d, want concurrent misses collapsed into one query", repo.listCalls)
	}
}
