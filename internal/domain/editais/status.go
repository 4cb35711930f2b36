package editais

import "time"

// Status is the publication lifecycle state of an edital. Scheduled, open
// and closed are derived from the date window; draft and in_progress are set
// by administrators and never overwritten by date logic.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusScheduled  Status = "scheduled"
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// AllStatuses lists every valid status value, in lifecycle order.
var AllStatuses = []Status{StatusDraft, StatusScheduled, StatusOpen, StatusInProgress, StatusClosed}

func (s Status) String() string { return string(s) }

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Pinned reports whether s is held by administrator action and must not be
// recomputed from dates.
func (s Status) Pinned() bool {
	return s == StatusDraft || s == StatusInProgress
}

// DateOnly truncates t to its calendar day, discarding clock and zone. The
// caller decides the zone before calling (time.Now().In(loc)); from there on
// status derivation is a pure date comparison.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DeriveStatus maps the date window to a lifecycle status. Both boundary
// days are inclusive: a record opens on its start date and stays open
// through its end date. Pinned statuses and records without any date pass
// through unchanged.
func DeriveStatus(today time.Time, start, end *time.Time, current Status) Status {
	if current.Pinned() {
		return current
	}
	day := DateOnly(today)
	switch {
	case start != nil && end != nil:
		if day.Before(DateOnly(*start)) {
			return StatusScheduled
		}
		if day.After(DateOnly(*end)) {
			return StatusClosed
		}
		return StatusOpen
	case start != nil:
		if day.Before(DateOnly(*start)) {
			return StatusScheduled
		}
		return StatusOpen
	case end != nil:
		if day.After(DateOnly(*end)) {
			return StatusClosed
		}
		return StatusOpen
	default:
		return current
	}
}
