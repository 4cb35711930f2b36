package editais

import (
	"gorm.io/gorm"

	types "github.com/fapdigital/editais-backend/internal/domain"
	"github.com/fapdigital/editais-backend/internal/pkg/dbctx"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

type SweepRunRepo interface {
	Create(dbc dbctx.Context, run *types.SweepRun) error
	Latest(dbc dbctx.Context, limit int) ([]*types.SweepRun, error)
}

type sweepRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSweepRunRepo(db *gorm.DB, baseLog *logger.Logger) SweepRunRepo {
	repoLog := baseLog.With("repo", "SweepRunRepo")
	return &sweepRunRepo{db: db, log: repoLog}
}

func (r *sweepRunRepo) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *sweepRunRepo) Create(dbc dbctx.Context, run *types.SweepRun) error {
	return r.conn(dbc).Create(run).Error
}

func (r *sweepRunRepo) Latest(dbc dbctx.Context, limit int) ([]*types.SweepRun, error) {
	if limit < 1 || limit > maxPerPage {
		limit = defaultPerPage
	}
	var rows []*types.SweepRun
	err := r.conn(dbc).
		Order("started_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
