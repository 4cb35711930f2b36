package handlers

import (
	"strings"
	"testing"
	"time"

	types "github.com/fapdigital/editais-backend/internal/domain"
	"github.com/fapdigital/editais-backend/internal/pkg/pointers"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := parseDate(nil)
	if err != nil || got != nil {
		t.Fatalf("nil input: got=%v err=%v", got, err)
	}

	got, err = parseDate(pointers.String("   "))
	if err != nil || got != nil {
		t.Fatalf("blank input: got=%v err=%v", got, err)
	}

	got, err = parseDate(pointers.String("2025-03-01"))
	if err != nil {
		t.Fatalf("valid date: %v", err)
	}
	if want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC); got == nil || !got.Equal(want) {
		t.Fatalf("parsed = %v, want %v", got, want)
	}

	if _, err = parseDate(pointers.String("01/03/2025")); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestEditalRequestToInput(t *testing.T) {
	t.Parallel()

	req := editalRequest{
		Title:       "  Chamada PIBIC 2025  ",
		Summary:     "Bolsas de iniciação científica",
		Category:    " bolsas ",
		DocumentURL: " https://fap.example/docs/pibic.pdf ",
		Status:      "draft",
		StartDate:   pointers.String("2025-03-01"),
		EndDate:     pointers.String("2025-04-30"),
	}

	in, err := req.toInput()
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if in.Title != "Chamada PIBIC 2025" || in.Category != "bolsas" {
		t.Fatalf("fields not trimmed: title=%q category=%q", in.Title, in.Category)
	}
	if in.DocumentURL != "https://fap.example/docs/pibic.pdf" {
		t.Fatalf("document_url not trimmed: %q", in.DocumentURL)
	}
	if in.Status != types.StatusDraft {
		t.Fatalf("status = %q, want draft", in.Status)
	}
	if in.StartDate == nil || in.EndDate == nil {
		t.Fatalf("dates not parsed: start=%v end=%v", in.StartDate, in.EndDate)
	}
}

func TestEditalRequestToInputRejectsInvertedDates(t *testing.T) {
	t.Parallel()

	req := editalRequest{
		Title:     "Chamada",
		StartDate: pointers.String("2025-04-30"),
		EndDate:   pointers.String("2025-03-01"),
	}
	if _, err := req.toInput(); err == nil || !strings.Contains(err.Error(), "before") {
		t.Fatalf("expected inverted-dates error, got %v", err)
	}
}

func TestEditalRequestToInputRejectsMalformedDates(t *testing.T) {
	t.Parallel()

	req := editalRequest{Title: "Chamada", StartDate: pointers.String("next tuesday")}
	if _, err := req.toInput(); err == nil {
		t.Fatalf("expected error for malformed start_date")
	}

	req = editalRequest{Title: "Chamada", EndDate: pointers.String("2025-13-40")}
	if _, err := req.toInput(); err == nil {
		t.Fatalf("expected error for malformed end_date")
	}
}
