package laliga

import (
	"context"
	"fmt"
	"log/slog"

	"scrape-etl/lib/etl"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("services/laliga")

type Config struct {
	Url string `json:"url"`
	// home teams whose matches are kept
	Teams []string `json:"teams"`
	// home team -> city the match is played in
	Locations  map[string]string `json:"locations"`
	TeamsFile  string            `json:"teams_file"`
	Sport      string            `json:"sport"`
	Tournament string            `json:"tournament"`
	CsvPath    string            `json:"csv_path"`
}

func DefaultConfig() Config {
	return Config{
		Url:   "https://www.sport.es/resultados/futbol/primera-division/calendario-liga/",
		Teams: []string{"Barcelona", "Espanyol", "Girona"},
		Locations: map[string]string{
			"Barcelona": "Barcelona",
			"Espanyol":  "Barcelona",
			"Girona":    "Girona",
		},
		TeamsFile:  "24_25_LaLiga_teams.txt",
		Sport:      "Football (M)",
		Tournament: "La Liga",
		CsvPath:    "calendar_LaLiga.csv",
	}
}

type Service struct {
	fetcher  etl.DocumentFetcher
	progress *etl.ProgressLogger
}

func NewService(fetcher etl.DocumentFetcher, progress *etl.ProgressLogger) Service {
	return Service{
		fetcher:  fetcher,
		progress: progress,
	}
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Run scrapes the calendar, builds fixture labels and exports the calendar
// CSV once.
func (s Service) Run(ctx context.Context, cfg Config) error {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	s.progress.Note(ctx, "Preliminaries complete. Initiating ETL process")

	matches, err := s.extract(ctx, cfg.Url, cfg.Teams)
	if err != nil {
		return failSpan(span, err)
	}
	s.progress.Note(ctx, "Data extraction complete. Initiating Transformation process")

	abbreviations, err := etl.LoadLookupCSV(cfg.TeamsFile)
	if err != nil {
		return failSpan(span, err)
	}
	s.progress.Note(ctx, "Abbreviation teams from CSV done")

	calendar, err := s.transform(ctx, matches, abbreviations, cfg)
	if err != nil {
		return failSpan(span, err)
	}
	s.progress.Note(ctx, "Creation of the calendar to be exported done")

	err = etl.WriteCSV(cfg.CsvPath, calendar, etl.SinkOptions{Index: true})
	if err != nil {
		return failSpan(span, err)
	}
	etl.CountRecords(ctx, pipelineName, "load", calendar.Len())
	slog.InfoContext(ctx, "wrote csv", "path", cfg.CsvPath, "rows", calendar.Len())
	s.progress.Note(ctx, fmt.Sprintf("CSV with name %s exported", cfg.CsvPath))

	return nil
}

func (s Service) extract(ctx context.Context, url string, teams []string) (*etl.RecordSet, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	span.SetAttributes(
		attribute.String("url", url),
		attribute.StringSlice("teams", teams),
	)
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, failSpan(span, err)
	}
	rs, err := Extract(body, teams)
	if err != nil {
		return nil, failSpan(span, err)
	}

	etl.CountRecords(ctx, pipelineName, "extract", rs.Len())
	slog.DebugContext(ctx, "extracted matches", "rows", rs.Len())
	return rs, nil
}

func (s Service) transform(ctx context.Context, matches *etl.RecordSet, abbreviations etl.LookupTable[string], cfg Config) (*etl.RecordSet, error) {
	ctx, span := tracer.Start(ctx, "Transform")
	defer span.End()

	err := AddFixture(matches, abbreviations)
	if err != nil {
		return nil, failSpan(span, err)
	}
	s.progress.Note(ctx, "Setting fixture attribute done")

	locations := etl.NewLookupTable("locations", cfg.Locations)
	calendar, err := CalendarTable(matches, cfg.Sport, cfg.Tournament, locations)
	if err != nil {
		return nil, failSpan(span, err)
	}

	etl.CountRecords(ctx, pipelineName, "transform", calendar.Len())
	return calendar, nil
}
