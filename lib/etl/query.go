package etl

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
)

// QueryResult is the tabular output of a verification query.
type QueryResult struct {
	Query   string
	Columns []string
	Rows    [][]any
}

// RunQuery executes a read query and collects every row.
func RunQuery(ctx context.Context, db *sql.DB, query string) (QueryResult, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return QueryResult{}, errors.Wrapf(err, "query %q", query)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return QueryResult{}, errors.Wrap(err, "read columns")
	}

	result := QueryResult{Query: query, Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return QueryResult{}, errors.Wrap(err, "scan row")
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return QueryResult{}, errors.Wrap(err, "iterate rows")
	}
	return result, nil
}

// Render prints the query followed by its rows as a table.
func (r QueryResult) Render(w io.Writer) {
	fmt.Fprintf(w, "Query: %s\n", r.Query)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)

	header := make(table.Row, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, values := range r.Rows {
		row := make(table.Row, len(values))
		for i, v := range values {
			row[i] = FormatValue(v)
		}
		t.AppendRow(row)
	}
	t.Render()
}
