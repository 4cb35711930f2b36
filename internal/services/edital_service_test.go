package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fapdigital/editais-backend/internal/cache"
	types "github.com/fapdigital/editais-backend/internal/domain"
	apperrors "github.com/fapdigital/editais-backend/internal/pkg/errors"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
	"github.com/fapdigital/editais-backend/internal/slug"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func fixedNow() time.Time {
	return time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
}

func dateAt(y int, m time.Month, d int) *time.Time {
	v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &v
}

func newEditalServiceForTest(t *testing.T, repo *fakeEditalRepo, vs *fakeVersionStore) EditalService {
	t.Helper()
	log := testLogger(t)
	alloc := slug.NewAllocator(repo, 100, log)
	svc := NewEditalService(nil, log, repo, alloc, vs, time.UTC).(*editalService)
	svc.now = fixedNow
	return svc
}

func assertBumps(t *testing.T, vs *fakeVersionStore, want int) {
	t.Helper()
	for _, ns := range cache.AllNamespaces {
		if vs.bumps[ns] != want {
			t.Fatalf("namespace %s bumped %d times, want %d", ns, vs.bumps[ns], want)
		}
	}
}

func TestCreateDerivesStatusAndAllocatesSlug(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	svc := newEditalServiceForTest(t, repo, vs)

	rec, err := svc.Create(context.Background(), EditalInput{
		Title:     "Edital de Fomento à Pesquisa 2025",
		Category:  "pesquisa",
		StartDate: dateAt(2025, 1, 10),
		EndDate:   dateAt(2025, 1, 20),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Slug != "edital-de-fomento-a-pesquisa-2025" {
		t.Fatalf("slug = %q", rec.Slug)
	}
	if rec.Status != types.StatusOpen {
		t.Fatalf("status = %q, want open (today inside window)", rec.Status)
	}
	if _, err := repo.GetByID(dbcBg(), rec.ID); err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
	assertBumps(t, vs, 1)
}

func TestCreateDatelessDefaultsToDraft(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	svc := newEditalServiceForTest(t, repo, vs)

	rec, err := svc.Create(context.Background(), EditalInput{Title: "Sem Datas"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Status != types.StatusDraft {
		t.Fatalf("status = %q, want draft", rec.Status)
	}
}

func TestCreateHonorsPinnedStatus(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	svc := newEditalServiceForTest(t, repo, vs)

	rec, err := svc.Create(context.Background(), EditalInput{
		Title:     "Pinado em rascunho",
		Status:    types.StatusDraft,
		StartDate: dateAt(2025, 1, 1),
		EndDate:   dateAt(2025, 1, 31),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Status != types.StatusDraft {
		t.Fatalf("status = %q, pinned draft must survive date derivation", rec.Status)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	svc := newEditalServiceForTest(t, repo, vs)

	if _, err := svc.Create(context.Background(), EditalInput{Title: "   "}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("empty title = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.Create(context.Background(), EditalInput{Title: "ok", Status: "published"}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("unknown status = %v, want ErrInvalidArgument", err)
	}
	assertBumps(t, vs, 0)
}

func TestCreateResolvesVisibleCollision(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	svc := newEditalServiceForTest(t, repo, vs)

	first, err := svc.Create(context.Background(), EditalInput{Title: "Chamada Interna"})
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}
	second, err := svc.Create(context.Background(), EditalInput{Title: "Chamada Interna"})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if first.Slug != "chamada-interna" || second.Slug != "chamada-interna-2" {
		t.Fatalf("slugs = %q, %q", first.Slug, second.Slug)
	}
}

func TestCreateRetriesCommitRaceOnce(t *testing.T) {
	repo := newFakeEditalRepo()
	repo.ghosts["chamada-interna"] = true
	vs := newFakeVersionStore()
	svc := newEditalServiceForTest(t, repo, vs)

	rec, err := svc.Create(context.Background(), EditalInput{Title: "Chamada Interna"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Slug != "chamada-interna-2" {
		t.Fatalf("slug = %q, want re-allocated -2 after losing the race", rec.Slug)
	}
	if repo.persistCalls != 2 {
		t.Fatalf("persist attempts = %d, want exactly 2", repo.persistCalls)
	}
	assertBumps(t, vs, 1)
}

func TestCreateSurfacesRepeatedConflict(t *testing.T) {
	repo := newFakeEditalRepo()
	repo.alwaysConflict = true
	vs := newFakeVersionStore()
	svc := newEditalServiceForTest(t, repo, vs)

	_, err := svc.Create(context.Background(), EditalInput{Title: "Azarado"})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("Create = %v, want ErrConflict after one retry", err)
	}
	if repo.persistCalls != 2 {
		t.Fatalf("persist attempts = %d, want exactly 2 (one retry)", repo.persistCalls)
	}
	assertBumps(t, vs, 0)
}

func TestUpdateKeepsSlugAndRederives(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	svc := newEditalServiceForTest(t, repo, vs)

	rec, err := svc.Create(context.Background(), EditalInput{
		Title:     "Bolsas de Extensão",
		StartDate: dateAt(2025, 1, 10),
		EndDate:   dateAt(2025, 1, 20),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(context.Background(), rec.ID, EditalInput{
		Title:     "Bolsas de Extensão (retificado)",
		StartDate: dateAt(2025, 1, 1),
		EndDate:   dateAt(2025, 1, 10),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug != rec.Slug {
		t.Fatalf("slug changed on update: %q -> %q", rec.Slug, updated.Slug)
	}
	if updated.Status != types.StatusClosed {
		t.Fatalf("status = %q, want closed (window now past)", updated.Status)
	}
	assertBumps(t, vs, 2)
}

func TestUpdatePinAndUnpin(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	svc := newEditalServiceForTest(t, repo, vs)

	rec, err := svc.Create(context.Background(), EditalInput{
		Title:     "Processo em análise",
		StartDate: dateAt(2025, 1, 1),
		EndDate:   dateAt(2025, 1, 10),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Status != types.StatusClosed {
		t.Fatalf("precondition: status = %q, want closed", rec.Status)
	}

	pinned, err := svc.Update(context.Background(), rec.ID, EditalInput{
		Title:     rec.Title,
		Status:    types.StatusInProgress,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
	})
	if err != nil {
		t.Fatalf("Update pin: %v", err)
	}
	if pinned.Status != types.StatusInProgress {
		t.Fatalf("status = %q, want pinned in_progress", pinned.Status)
	}

	unpinned, err := svc.Update(context.Background(), rec.ID, EditalInput{
		Title:     rec.Title,
		Status:    types.StatusOpen,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
	})
	if err != nil {
		t.Fatalf("Update unpin: %v", err)
	}
	if unpinned.Status != types.StatusClosed {
		t.Fatalf("status = %q, want closed re-derived after unpin", unpinned.Status)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	svc := newEditalServiceForTest(t, repo, vs)

	if _, err := svc.Update(context.Background(), uuid.New(), EditalInput{Title: "x"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("Update = %v, want ErrNotFound", err)
	}
	assertBumps(t, vs, 0)
}

func TestDeleteBumpsOnceAndOnlyOnSuccess(t *testing.T) {
	repo := newFakeEditalRepo()
	vs := newFakeVersionStore()
	svc := newEditalServiceForTest(t, repo, vs)

	rec, err := svc.Create(context.Background(), EditalInput{Title: "Para remover"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(context.Background(), rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertBumps(t, vs, 2)

	if err := svc.Delete(context.Background(), rec.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("Delete again = %v, want ErrNotFound", err)
	}
	assertBumps(t, vs, 2)
}
