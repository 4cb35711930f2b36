package editais

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDeriveStatusBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		today   time.Time
		start   *time.Time
		end     *time.Time
		current Status
		want    Status
	}{
		{"both/before start", *date(2025, 1, 9), date(2025, 1, 10), date(2025, 1, 20), StatusScheduled, StatusScheduled},
		{"both/on start day", *date(2025, 1, 10), date(2025, 1, 10), date(2025, 1, 20), StatusScheduled, StatusOpen},
		{"both/inside window", *date(2025, 1, 15), date(2025, 1, 10), date(2025, 1, 20), StatusScheduled, StatusOpen},
		{"both/on end day", *date(2025, 1, 20), date(2025, 1, 10), date(2025, 1, 20), StatusOpen, StatusOpen},
		{"both/day after end", *date(2025, 1, 21), date(2025, 1, 10), date(2025, 1, 20), StatusOpen, StatusClosed},
		{"start only/before", *date(2025, 1, 15), date(2025, 2, 1), nil, StatusOpen, StatusScheduled},
		{"start only/on start day", *date(2025, 2, 1), date(2025, 2, 1), nil, StatusScheduled, StatusOpen},
		{"start only/after", *date(2025, 3, 1), date(2025, 2, 1), nil, StatusScheduled, StatusOpen},
		{"end only/before end", *date(2025, 1, 19), nil, date(2025, 1, 20), StatusScheduled, StatusOpen},
		{"end only/on end day", *date(2025, 1, 20), nil, date(2025, 1, 20), StatusOpen, StatusOpen},
		{"end only/after end", *date(2025, 1, 21), nil, date(2025, 1, 20), StatusOpen, StatusClosed},
		{"no dates keeps current", *date(2025, 1, 15), nil, nil, StatusClosed, StatusClosed},
		{"no dates keeps empty", *date(2025, 1, 15), nil, nil, Status(""), Status("")},
		{"draft pinned with dates", *date(2025, 1, 15), date(2025, 1, 10), date(2025, 1, 20), StatusDraft, StatusDraft},
		{"in_progress pinned past end", *date(2025, 2, 15), date(2025, 1, 10), date(2025, 1, 20), StatusInProgress, StatusInProgress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveStatus(tc.today, tc.start, tc.end, tc.current); got != tc.want {
				t.Fatalf("DeriveStatus(%v, %v, %v, %q) = %q, want %q",
					tc.today.Format("2006-01-02"), tc.start, tc.end, tc.current, got, tc.want)
			}
		})
	}
}

func TestDeriveStatusIgnoresClockAndZone(t *testing.T) {
	// 23:59 in Sao Paulo is already the next day in UTC; the derivation must
	// follow the calendar day of the value it is given, not UTC.
	loc := time.FixedZone("BRT", -3*60*60)
	today := time.Date(2025, 1, 20, 23, 59, 0, 0, loc)
	got := DeriveStatus(today, date(2025, 1, 10), date(2025, 1, 20), StatusOpen)
	if got != StatusOpen {
		t.Fatalf("end-day evening in local zone = %q, want %q", got, StatusOpen)
	}

	startEvening := time.Date(2025, 1, 9, 22, 0, 0, 0, loc)
	if got := DeriveStatus(startEvening, date(2025, 1, 10), nil, StatusScheduled); got != StatusScheduled {
		t.Fatalf("evening before start = %q, want %q", got, StatusScheduled)
	}
}

func TestStatusPredicates(t *testing.T) {
	for _, s := range AllStatuses {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if Status("published").Valid() {
		t.Fatal("unknown status should not be valid")
	}
	if !StatusDraft.Pinned() || !StatusInProgress.Pinned() {
		t.Fatal("draft and in_progress are pinned")
	}
	if StatusScheduled.Pinned() || StatusOpen.Pinned() || StatusClosed.Pinned() {
		t.Fatal("date-derived statuses are not pinned")
	}
}
