package editais

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fapdigital/editais-backend/internal/domain"
	"github.com/fapdigital/editais-backend/internal/pkg/dbctx"
	apperrors "github.com/fapdigital/editais-backend/internal/pkg/errors"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

// ListFilter narrows a listing. Zero values mean "no filter".
type ListFilter struct {
	Status   types.Status
	Category string
	Page     int
	PerPage  int
}

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type EditalRepo interface {
	Create(dbc dbctx.Context, e *types.Edital) error
	Update(dbc dbctx.Context, e *types.Edital) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Edital, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Edital, error)
	SlugExists(dbc dbctx.Context, slug string, excludeID uuid.UUID) (bool, error)
	ListPublic(dbc dbctx.Context, f ListFilter) ([]*types.Edital, int64, error)
	ListAdmin(dbc dbctx.Context, f ListFilter) ([]*types.Edital, int64, error)
	Search(dbc dbctx.Context, query string, limit int) ([]*types.Edital, error)
	ListSweepable(dbc dbctx.Context) ([]*types.Edital, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status types.Status) error
	SoftDeleteByID(dbc dbctx.Context, id uuid.UUID) error
	CountByStatus(dbc dbctx.Context) (map[types.Status]int64, error)
	ListUpcoming(dbc dbctx.Context, today time.Time, limit int) ([]*types.Edital, error)
	ListClosingSoon(dbc dbctx.Context, today time.Time, limit int) ([]*types.Edital, error)
	ListRecentlyUpdated(dbc dbctx.Context, limit int) ([]*types.Edital, error)
}

type editalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEditalRepo(db *gorm.DB, baseLog *logger.Logger) EditalRepo {
	repoLog := baseLog.With("repo", "EditalRepo")
	return &editalRepo{db: db, log: repoLog}
}

func (r *editalRepo) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *editalRepo) Create(dbc dbctx.Context, e *types.Edital) error {
	return r.conn(dbc).Create(e).Error
}

func (r *editalRepo) Update(dbc dbctx.Context, e *types.Edital) error {
	res := r.conn(dbc).Model(e).Select("*").Omit("id", "created_at").Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *editalRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Edital, error) {
	var e types.Edital
	if err := r.conn(dbc).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *editalRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Edital, error) {
	var e types.Edital
	if err := r.conn(dbc).First(&e, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// SlugExists reports whether another live record already holds the candidate.
// A record matching excludeID re-claiming its own slug is not a collision.
func (r *editalRepo) SlugExists(dbc dbctx.Context, slug string, excludeID uuid.UUID) (bool, error) {
	q := r.conn(dbc).Model(&types.Edital{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *editalRepo) listQuery(dbc dbctx.Context, f ListFilter, includeDrafts bool) *gorm.DB {
	q := r.conn(dbc).Model(&types.Edital{})
	if !includeDrafts {
		q = q.Where("status <> ?", types.StatusDraft)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	return q
}

func (r *editalRepo) pagedList(dbc dbctx.Context, f ListFilter, includeDrafts bool) ([]*types.Edital, int64, error) {
	var total int64
	if err := r.listQuery(dbc, f, includeDrafts).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	var rows []*types.Edital
	err := r.listQuery(dbc, f, includeDrafts).
		Order("start_date DESC NULLS LAST").
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListPublic never returns drafts, whatever the filter says.
func (r *editalRepo) ListPublic(dbc dbctx.Context, f ListFilter) ([]*types.Edital, int64, error) {
	return r.pagedList(dbc, f, false)
}

// ListAdmin sees every record, drafts included.
func (r *editalRepo) ListAdmin(dbc dbctx.Context, f ListFilter) ([]*types.Edital, int64, error) {
	return r.pagedList(dbc, f, true)
}

func (r *editalRepo) Search(dbc dbctx.Context, query string, limit int) ([]*types.Edital, error) {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return []*types.Edital{}, nil
	}
	if limit < 1 || limit > maxPerPage {
		limit = defaultPerPage
	}
	like := "%" + term + "%"

	var rows []*types.Edital
	err := r.conn(dbc).
		Where("status <> ?", types.StatusDraft).
		Where("LOWER(title) LIKE ? OR LOWER(summary) LIKE ? OR LOWER(category) LIKE ?", like, like, like).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListSweepable returns every record the daily sweep may touch: not pinned,
// and carrying at least one date to derive from.
func (r *editalRepo) ListSweepable(dbc dbctx.Context) ([]*types.Edital, error) {
	var rows []*types.Edital
	err := r.conn(dbc).
		Where("status NOT IN ?", []types.Status{types.StatusDraft, types.StatusInProgress}).
		Where("start_date IS NOT NULL OR end_date IS NOT NULL").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *editalRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status types.Status) error {
	res := r.conn(dbc).Model(&types.Edital{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *editalRepo) SoftDeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	res := r.conn(dbc).Delete(&types.Edital{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *editalRepo) CountByStatus(dbc dbctx.Context) (map[types.Status]int64, error) {
	var rows []struct {
		Status types.Status
		N      int64
	}
	err := r.conn(dbc).Model(&types.Edital{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[types.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

// ListUpcoming returns scheduled records opening on or after today, nearest
// opening first.
func (r *editalRepo) ListUpcoming(dbc dbctx.Context, today time.Time, limit int) ([]*types.Edital, error) {
	var rows []*types.Edital
	err := r.conn(dbc).
		Where("status = ?", types.StatusScheduled).
		Where("start_date >= ?", today).
		Order("start_date ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListClosingSoon returns open records whose window ends on or after today,
// soonest deadline first.
func (r *editalRepo) ListClosingSoon(dbc dbctx.Context, today time.Time, limit int) ([]*types.Edital, error) {
	var rows []*types.Edital
	err := r.conn(dbc).
		Where("status = ?", types.StatusOpen).
		Where("end_date >= ?", today).
		Order("end_date ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *editalRepo) ListRecentlyUpdated(dbc dbctx.Context, limit int) ([]*types.Edital, error) {
	var rows []*types.Edital
	err := r.conn(dbc).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
