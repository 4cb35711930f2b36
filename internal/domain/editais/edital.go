package editais

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Edital is a public funding announcement. Slug is assigned once by the
// allocator and stays stable for the life of the record; status follows the
// date window unless pinned by an administrator.
type Edital struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex:idx_edital_slug,where:deleted_at IS NULL" json:"slug"`
	Status      Status         `gorm:"column:status;not null;default:'draft';index" json:"status"`
	Summary     string         `gorm:"column:summary" json:"summary"`
	Body        string         `gorm:"column:body;type:text" json:"body"`
	Category    string         `gorm:"column:category;index" json:"category"`
	DocumentURL string         `gorm:"column:document_url" json:"document_url,omitempty"`
	Attachments datatypes.JSON `gorm:"column:attachments;type:jsonb" json:"attachments,omitempty"`
	StartDate   *time.Time     `gorm:"column:start_date;type:date" json:"start_date,omitempty"`
	EndDate     *time.Time     `gorm:"column:end_date;type:date" json:"end_date,omitempty"`

	// CURRENT_TIMESTAMP is the one default both postgres and sqlite parse.
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Edital) TableName() string { return "edital" }

func (e *Edital) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Attachment is one entry of the Attachments JSON column.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
