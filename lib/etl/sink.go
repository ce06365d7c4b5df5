package etl

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// SinkOptions controls how a RecordSet is persisted.
type SinkOptions struct {
	// Index adds the 0-based row number as a leading column: unnamed in CSV
	// output, "index" in database tables.
	Index bool
}

// IndexColumn is the name of the row number column in database tables.
const IndexColumn = "index"

// FormatValue renders a record value for text output. Numbers use the
// shortest exact form and always carry a decimal point.
func FormatValue(v any) string {
	switch v := v.(type) {
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return s
		}
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// WriteCSV overwrites path with the record set.
func WriteCSV(path string, rs *RecordSet, opts SinkOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}

	err = writeCSV(f, rs, opts)
	closeErr := f.Close()
	if err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(closeErr, "close %s", path)
}

func writeCSV(f *os.File, rs *RecordSet, opts SinkOptions) error {
	w := csv.NewWriter(f)

	header := rs.schema.Names()
	if opts.Index {
		header = append([]string{""}, header...)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, values := range rs.records {
		row := make([]string, 0, len(values)+1)
		if opts.Index {
			row = append(row, strconv.Itoa(i))
		}
		for _, v := range values {
			row = append(row, FormatValue(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqlType(t FieldType) string {
	if t == TypeNumber {
		return "REAL"
	}
	return "TEXT"
}

// WriteTable replaces table with the record set: the table is dropped,
// recreated from the schema and filled inside one transaction.
func WriteTable(ctx context.Context, db *sql.DB, table string, rs *RecordSet, opts SinkOptions) error {
	var columns, defs []string
	if opts.Index {
		columns = append(columns, quoteIdent(IndexColumn))
		defs = append(defs, quoteIdent(IndexColumn)+" INTEGER")
	}
	for _, f := range rs.schema.Fields {
		columns = append(columns, quoteIdent(f.Name))
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdent(f.Name), sqlType(f.Type)))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table)))
	if err != nil {
		return errors.Wrapf(err, "drop %s", table)
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "),
	))
	if err != nil {
		return errors.Wrapf(err, "create %s", table)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(columns, ", "), placeholders,
	))
	if err != nil {
		return errors.Wrapf(err, "prepare insert into %s", table)
	}
	defer stmt.Close()

	for i, values := range rs.records {
		args := make([]any, 0, len(columns))
		if opts.Index {
			args = append(args, int64(i))
		}
		args = append(args, values...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.Wrapf(err, "insert record %d into %s", i, table)
		}
	}

	return errors.Wrap(tx.Commit(), "commit")
}
