package app

import (
	"gorm.io/gorm"

	"github.com/fapdigital/editais-backend/internal/data/repos"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

type Repos struct {
	Edital   repos.EditalRepo
	SweepRun repos.SweepRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Edital:   repos.NewEditalRepo(db, log),
		SweepRun: repos.NewSweepRunRepo(db, log),
	}
}
