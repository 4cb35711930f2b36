package repos

import (
	"github.com/fapdigital/editais-backend/internal/data/repos/editais"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type EditalRepo = editais.EditalRepo
type SweepRunRepo = editais.SweepRunRepo

type ListFilter = editais.ListFilter

func NewEditalRepo(db *gorm.DB, baseLog *logger.Logger) EditalRepo {
	return editais.NewEditalRepo(db, baseLog)
}

func NewSweepRunRepo(db *gorm.DB, baseLog *logger.Logger) SweepRunRepo {
	return editais.NewSweepRunRepo(db, baseLog)
}

// IsUniqueViolation re-exports the driver-level duplicate-slug check for
// callers that only import the registry.
func IsUniqueViolation(err error) bool { return editais.IsUniqueViolation(err) }
