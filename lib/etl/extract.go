package etl

import (
	"math"
	"strconv"
	"strings"

	"scrape-etl/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
)

// ParseDocument parses an HTML body into a goquery document.
func ParseDocument(body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parse html"), ErrParse)
	}
	return doc, nil
}

// CellSpec names the table cell found at Pos in a row.
type CellSpec struct {
	Name     string
	Pos      int
	Optional bool
}

func Cell(name string, pos int) CellSpec {
	return CellSpec{Name: name, Pos: pos}
}

func OptionalCell(name string, pos int) CellSpec {
	return CellSpec{Name: name, Pos: pos, Optional: true}
}

// RowLayout maps named fields onto cell positions of a table row.
type RowLayout struct {
	cells []CellSpec
}

func NewRowLayout(cells ...CellSpec) RowLayout {
	return RowLayout{cells: append([]CellSpec(nil), cells...)}
}

// Bind reads the layout's cells out of a row's <td> selection. A required
// cell past the end of the row is a schema mismatch.
func (l RowLayout) Bind(tds *goquery.Selection) (Cells, error) {
	n := tds.Length()
	cells := Cells{values: make(map[string]string, len(l.cells))}
	for _, spec := range l.cells {
		if spec.Pos >= n {
			if spec.Optional {
				continue
			}
			return Cells{}, schemaError(
				"row has %d cells, %q expects cell %d", n, spec.Name, spec.Pos,
			)
		}
		cells.values[spec.Name] = htmlutil.SelectionText(tds.Eq(spec.Pos))
	}
	return cells, nil
}

// Cells holds the trimmed text of one bound row.
type Cells struct {
	values map[string]string
}

// Has reports whether the cell was present in the row.
func (c Cells) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Text returns the cell text, or "" for an absent optional cell.
func (c Cells) Text(name string) string {
	return c.values[name]
}

func (c Cells) Float(name string) (float64, error) {
	text, ok := c.values[name]
	if !ok {
		return 0, schemaError("cell %q is absent", name)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, parseError("cell %q: %q is not a number", name, text)
	}
	return f, nil
}

// DataCells returns the <td> cells of a row; header rows made of <th> only
// come back empty.
func DataCells(row *goquery.Selection) *goquery.Selection {
	return row.Find("td")
}
