package editais

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SweepRun records one execution of the daily status sweep, kept for the
// admin dashboard and for auditing partial failures.
type SweepRun struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RanFor     time.Time      `gorm:"column:ran_for;type:date;not null;index" json:"ran_for"`
	Scanned    int            `gorm:"column:scanned;not null;default:0" json:"scanned"`
	Updated    int            `gorm:"column:updated;not null;default:0" json:"updated"`
	FailedIDs  datatypes.JSON `gorm:"column:failed_ids;type:jsonb" json:"failed_ids,omitempty"`
	DryRun     bool           `gorm:"column:dry_run;not null;default:false" json:"dry_run"`
	StartedAt  time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt time.Time      `gorm:"column:finished_at" json:"finished_at"`
}

func (SweepRun) TableName() string { return "edital_sweep_run" }

func (s *SweepRun) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
