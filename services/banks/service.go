package banks

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	configlibsql "scrape-etl/lib/configutil/libsql"
	"scrape-etl/lib/etl"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("services/banks")

type Config struct {
	Url       string              `json:"url"`
	RatesFile string              `json:"rates_file"`
	CsvPath   string              `json:"csv_path"`
	Database  configlibsql.Struct `json:"database"`
	Table     string              `json:"table"`
	// defaults to DefaultQueries(Table) when empty
	Queries []string `json:"queries"`
}

// DefaultConfig mirrors the original script. The stray space in the archive
// url is kept as found.
func DefaultConfig() Config {
	return Config{
		Url:       "https://web.archive.org/web/20230908091635 /https://en.wikipedia.org/wiki/List_of_largest_banks",
		RatesFile: "exchange_rate.csv",
		CsvPath:   "Largest_banks_data.csv",
		Database:  configlibsql.Struct{File: "Banks.db"},
		Table:     "Largest_banks",
	}
}

func (c Config) queries() []string {
	if len(c.Queries) > 0 {
		return c.Queries
	}
	return DefaultQueries(c.Table)
}

type Service struct {
	fetcher  etl.DocumentFetcher
	progress *etl.ProgressLogger
	out      io.Writer
}

// NewService creates the bank pipeline. Query results are printed to out.
func NewService(fetcher etl.DocumentFetcher, progress *etl.ProgressLogger, out io.Writer) Service {
	return Service{
		fetcher:  fetcher,
		progress: progress,
		out:      out,
	}
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Run executes fetch, extract, transform, load and the verification
// queries once. Each load step commits on its own: a failing database step
// leaves the CSV already written.
func (s Service) Run(ctx context.Context, cfg Config) error {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	s.progress.Note(ctx, "Preliminaries complete. Initiating ETL process")

	rs, err := s.extract(ctx, cfg.Url)
	if err != nil {
		return failSpan(span, err)
	}
	s.progress.Note(ctx, "Data extraction complete. Initiating Transformation process")

	err = s.transform(ctx, rs, cfg.RatesFile)
	if err != nil {
		return failSpan(span, err)
	}
	s.progress.Note(ctx, "Data transformation complete. Initiating Loading process")

	err = etl.WriteCSV(cfg.CsvPath, rs, etl.SinkOptions{Index: true})
	if err != nil {
		return failSpan(span, err)
	}
	slog.InfoContext(ctx, "wrote csv", "path", cfg.CsvPath, "rows", rs.Len())
	s.progress.Note(ctx, "Data saved to CSV file")

	db, err := cfg.Database.OpenDB()
	if err != nil {
		return failSpan(span, errors.Wrapf(err, "open database %s", cfg.Database.Describe()))
	}
	defer func() {
		err := db.Close()
		if err != nil {
			slog.WarnContext(ctx, "failed to close database", "err", err)
			return
		}
		s.progress.Note(ctx, "Server connection closed")
	}()
	s.progress.Note(ctx, "SQL Connection initiated")

	err = s.load(ctx, db, cfg.Table, rs)
	if err != nil {
		return failSpan(span, err)
	}
	s.progress.Note(ctx, "Data loaded to Database as a table, Executing queries")

	for i, query := range cfg.queries() {
		err = s.query(ctx, db, query)
		if err != nil {
			return failSpan(span, err)
		}
		s.progress.Note(ctx, fmt.Sprintf("Query %d executed", i+1))
	}

	return nil
}

func (s Service) extract(ctx context.Context, url string) (*etl.RecordSet, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	span.SetAttributes(attribute.String("url", url))
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, failSpan(span, err)
	}
	rs, err := Extract(body)
	if err != nil {
		return nil, failSpan(span, err)
	}

	countRecords(ctx, "extract", rs)
	slog.DebugContext(ctx, "extracted banks", "rows", rs.Len())
	return rs, nil
}

func (s Service) transform(ctx context.Context, rs *etl.RecordSet, ratesFile string) error {
	ctx, span := tracer.Start(ctx, "Transform")
	defer span.End()

	rates, err := LoadRates(ratesFile)
	if err != nil {
		return failSpan(span, err)
	}
	err = Transform(rs, rates)
	if err != nil {
		return failSpan(span, err)
	}

	countRecords(ctx, "transform", rs)
	return nil
}

func (s Service) load(ctx context.Context, db *sql.DB, table string, rs *etl.RecordSet) error {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()

	span.SetAttributes(attribute.String("table", table))
	err := etl.WriteTable(ctx, db, table, rs, etl.SinkOptions{Index: true})
	if err != nil {
		return failSpan(span, err)
	}

	countRecords(ctx, "load", rs)
	return nil
}

func (s Service) query(ctx context.Context, db *sql.DB, query string) error {
	ctx, span := tracer.Start(ctx, "Query")
	defer span.End()

	span.SetAttributes(attribute.String("query", query))
	result, err := etl.RunQuery(ctx, db, query)
	if err != nil {
		return failSpan(span, err)
	}
	result.Render(s.out)
	return nil
}
