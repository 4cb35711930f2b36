// Package domain re-exports the persisted model types so callers outside
// the domain tree can import a single package.
package domain

import (
	"github.com/fapdigital/editais-backend/internal/domain/editais"
)

type Edital = editais.Edital
type Attachment = editais.Attachment
type SweepRun = editais.SweepRun

type Status = editais.Status

const (
	StatusDraft      = editais.StatusDraft
	StatusScheduled  = editais.StatusScheduled
	StatusOpen       = editais.StatusOpen
	StatusInProgress = editais.StatusInProgress
	StatusClosed     = editais.StatusClosed
)

// AllStatuses mirrors editais.AllStatuses for callers of this package.
var AllStatuses = editais.AllStatuses
