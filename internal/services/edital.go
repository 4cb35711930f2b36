package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fapdigital/editais-backend/internal/cache"
	"github.com/fapdigital/editais-backend/internal/data/repos"
	"github.com/fapdigital/editais-backend/internal/data/repos/editais"
	types "github.com/fapdigital/editais-backend/internal/domain"
	domedital "github.com/fapdigital/editais-backend/internal/domain/editais"
	"github.com/fapdigital/editais-backend/internal/observability"
	"github.com/fapdigital/editais-backend/internal/pkg/dbctx"
	apperrors "github.com/fapdigital/editais-backend/internal/pkg/errors"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
	"github.com/fapdigital/editais-backend/internal/slug"
)

// EditalInput carries one administrative write. Status may be empty, in
// which case the current (or derived) status stands; setting it to draft or
// in_progress pins the record against date-derived transitions.
type EditalInput struct {
	Title       string
	Summary     string
	Body        string
	Category    string
	DocumentURL string
	Attachments []types.Attachment
	StartDate   *time.Time
	EndDate     *time.Time
	Status      types.Status
}

// EditalService orchestrates the write path: slug allocation, status
// derivation, persistence and cache invalidation, in that order. The write
// and the cache bump are deliberately not atomic; a crash in between
// self-heals on the next write or sweep.
type EditalService interface {
	Create(ctx context.Context, in EditalInput) (*types.Edital, error)
	Update(ctx context.Context, id uuid.UUID, in EditalInput) (*types.Edital, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*types.Edital, error)
	List(ctx context.Context, f repos.ListFilter) ([]*types.Edital, int64, error)
}

type editalService struct {
	db        *gorm.DB
	log       *logger.Logger
	repo      repos.EditalRepo
	allocator *slug.Allocator
	versions  cache.VersionStore
	loc       *time.Location
	now       func() time.Time
}

func NewEditalService(
	db *gorm.DB,
	baseLog *logger.Logger,
	repo repos.EditalRepo,
	allocator *slug.Allocator,
	versions cache.VersionStore,
	loc *time.Location,
) EditalService {
	serviceLog := baseLog.With("service", "EditalService")
	return &editalService{
		db:        db,
		log:       serviceLog,
		repo:      repo,
		allocator: allocator,
		versions:  versions,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *editalService) today() time.Time {
	return s.now().In(s.loc)
}

func (s *editalService) Create(ctx context.Context, in EditalInput) (*types.Edital, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrInvalidArgument)
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidArgument, in.Status)
	}

	rec := &types.Edital{ID: uuid.New()}
	applyInput(rec, in)

	dbc := dbctx.New(ctx)
	allocated, err := s.allocator.Allocate(dbc, rec.Title, rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Slug = allocated

	rec.Status = domedital.DeriveStatus(s.today(), rec.StartDate, rec.EndDate, in.Status)
	if rec.Status == "" {
		rec.Status = types.StatusDraft
	}

	persist := func() error { return s.repo.Create(dbc, rec) }
	if err := s.persistWithRetry(dbc, rec, persist); err != nil {
		return nil, err
	}

	if m := observability.Current(); m != nil {
		m.IncStatusTransition("", string(rec.Status), "write")
	}
	s.bumpAll(ctx)
	s.log.Info("Created edital", "id", rec.ID, "slug", rec.Slug, "status", rec.Status)
	return rec, nil
}

func (s *editalService) Update(ctx context.Context, id uuid.UUID, in EditalInput) (*types.Edital, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrInvalidArgument)
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidArgument, in.Status)
	}

	dbc := dbctx.New(ctx)
	rec, err := s.repo.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	prevStatus := rec.Status

	applyInput(rec, in)

	// Slugs are stable once a record has been surfaced with one; only a
	// record that never got a slug is allocated here.
	if rec.Slug == "" {
		allocated, err := s.allocator.Allocate(dbc, rec.Title, rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Slug = allocated
	}

	current := rec.Status
	if in.Status != "" {
		current = in.Status
	}
	rec.Status = domedital.DeriveStatus(s.today(), rec.StartDate, rec.EndDate, current)
	if rec.Status == "" {
		rec.Status = types.StatusDraft
	}

	persist := func() error { return s.repo.Update(dbc, rec) }
	if err := s.persistWithRetry(dbc, rec, persist); err != nil {
		return nil, err
	}

	if rec.Status != prevStatus {
		if m := observability.Current(); m != nil {
			m.IncStatusTransition(string(prevStatus), string(rec.Status), "write")
		}
	}
	s.bumpAll(ctx)
	s.log.Info("Updated edital", "id", rec.ID, "slug", rec.Slug, "status", rec.Status)
	return rec, nil
}

func (s *editalService) Delete(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.New(ctx)
	if err := s.repo.SoftDeleteByID(dbc, id); err != nil {
		return err
	}
	s.bumpAll(ctx)
	s.log.Info("Deleted edital", "id", id)
	return nil
}

func (s *editalService) GetByID(ctx context.Context, id uuid.UUID) (*types.Edital, error) {
	return s.repo.GetByID(dbctx.New(ctx), id)
}

// List is the administrative listing: uncached and draft-inclusive, unlike
// the public catalog.
func (s *editalService) List(ctx context.Context, f repos.ListFilter) ([]*types.Edital, int64, error) {
	return s.repo.ListAdmin(dbctx.New(ctx), f)
}

// persistWithRetry runs the write once and, when the unique index rejects
// the slug (a race the allocator's pre-check missed), re-allocates and
// retries exactly once before surfacing the conflict.
func (s *editalService) persistWithRetry(dbc dbctx.Context, rec *types.Edital, persist func() error) error {
	err := persist()
	if err == nil {
		return nil
	}
	if !editais.IsUniqueViolation(err) {
		return err
	}

	s.log.Warn("Slug lost a commit race, re-allocating once", "id", rec.ID, "slug", rec.Slug)
	allocated, allocErr := s.allocator.Allocate(dbc, rec.Title, rec.ID)
	if allocErr != nil {
		return allocErr
	}
	rec.Slug = allocated

	if err := persist(); err != nil {
		if editais.IsUniqueViolation(err) {
			return fmt.Errorf("%w: slug %q", apperrors.ErrConflict, rec.Slug)
		}
		return err
	}
	return nil
}

// bumpAll invalidates every namespace that serves edital reads. Bumps are
// fail-open and never veto a completed write.
func (s *editalService) bumpAll(ctx context.Context) {
	for _, ns := range cache.AllNamespaces {
		s.versions.Bump(ctx, ns)
	}
}

func applyInput(rec *types.Edital, in EditalInput) {
	rec.Title = strings.TrimSpace(in.Title)
	rec.Summary = in.Summary
	rec.Body = in.Body
	rec.Category = strings.TrimSpace(in.Category)
	rec.DocumentURL = strings.TrimSpace(in.DocumentURL)
	rec.StartDate = in.StartDate
	rec.EndDate = in.EndDate
	if in.Attachments != nil {
		if raw, err := json.Marshal(in.Attachments); err == nil {
			rec.Attachments = datatypes.JSON(raw)
		}
	}
}
