package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fapdigital/editais-backend/internal/app"
	types "github.com/fapdigital/editais-backend/internal/domain"
	"github.com/fapdigital/editais-backend/internal/pkg/pointers"
	"github.com/fapdigital/editais-backend/internal/services"
)

type seedFile struct {
	Editais []seedEdital `yaml:"editais"`
}

type seedEdital struct {
	Title       string           `yaml:"title"`
	Summary     string           `yaml:"summary"`
	Body        string           `yaml:"body"`
	Category    string           `yaml:"category"`
	DocumentURL string           `yaml:"document_url"`
	Attachments []seedAttachment `yaml:"attachments"`
	StartDate   string           `yaml:"start_date"`
	EndDate     string           `yaml:"end_date"`
	Status      string           `yaml:"status"`
}

type seedAttachment struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// seed loads a YAML fixture file and creates each record through the
// regular write path, so slugs and statuses come out the same as they
// would from the admin UI.
func main() {
	var file string
	flag.StringVar(&file, "file", "seeds/editais.yaml", "fixture file to load")
	flag.Parse()

	raw, err := os.ReadFile(file)
	if err != nil {
		fmt.Printf("read %s: %v\n", file, err)
		os.Exit(1)
	}
	var fixtures seedFile
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		fmt.Printf("parse %s: %v\n", file, err)
		os.Exit(1)
	}
	if len(fixtures.Editais) == 0 {
		fmt.Printf("no editais in %s\n", file)
		return
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	created := 0
	for _, seed := range fixtures.Editais {
		in, err := seed.toInput()
		if err != nil {
			fmt.Printf("skipping %q: %v\n", seed.Title, err)
			continue
		}
		rec, err := application.Services.Edital.Create(ctx, in)
		if err != nil {
			fmt.Printf("create %q: %v\n", seed.Title, err)
			continue
		}
		fmt.Printf("created %s (%s) status=%s\n", rec.Slug, rec.ID, rec.Status)
		created++
	}
	fmt.Printf("seeded %d of %d records from %s\n", created, len(fixtures.Editais), file)
}

func (s seedEdital) toInput() (services.EditalInput, error) {
	in := services.EditalInput{
		Title:       strings.TrimSpace(s.Title),
		Summary:     s.Summary,
		Body:        s.Body,
		Category:    strings.TrimSpace(s.Category),
		DocumentURL: strings.TrimSpace(s.DocumentURL),
		Status:      types.Status(strings.TrimSpace(s.Status)),
	}
	for _, att := range s.Attachments {
		in.Attachments = append(in.Attachments, types.Attachment{Name: att.Name, URL: att.URL})
	}
	var err error
	if in.StartDate, err = parseSeedDate(s.StartDate); err != nil {
		return in, fmt.Errorf("start_date: %w", err)
	}
	if in.EndDate, err = parseSeedDate(s.EndDate); err != nil {
		return in, fmt.Errorf("end_date: %w", err)
	}
	return in, nil
}

func parseSeedDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return pointers.Time(t), nil
}
