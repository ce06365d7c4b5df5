package etl

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// LookupTable is a read-only key -> value map used for enrichment.
type LookupTable[V any] struct {
	name    string
	entries map[string]V
}

func NewLookupTable[V any](name string, entries map[string]V) LookupTable[V] {
	copied := make(map[string]V, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return LookupTable[V]{name: name, entries: copied}
}

func (t LookupTable[V]) Name() string { return t.name }
func (t LookupTable[V]) Len() int     { return len(t.entries) }

// Get returns the value for key. A miss is an ErrLookupKey error, with a
// hint naming the closest known key when there is one.
func (t LookupTable[V]) Get(key string) (V, error) {
	v, ok := t.entries[key]
	if !ok {
		var zero V
		return zero, lookupKeyError(t.name, key, t.Keys())
	}
	return v, nil
}

func (t LookupTable[V]) Has(key string) bool {
	_, ok := t.entries[key]
	return ok
}

// Keys returns the keys in sorted order.
func (t LookupTable[V]) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadLookupCSV reads a two column CSV file (key, value) with a header row.
// Keys and values are whitespace-trimmed; later duplicates win.
func LoadLookupCSV(path string) (LookupTable[string], error) {
	f, err := os.Open(path)
	if err != nil {
		return LookupTable[string]{}, errors.Wrap(err, "open lookup file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return LookupTable[string]{}, errors.Mark(errors.Wrapf(err, "read %s", path), ErrParse)
	}
	if len(rows) == 0 {
		return LookupTable[string]{}, parseError("%s: empty lookup file", path)
	}

	entries := make(map[string]string, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return LookupTable[string]{}, schemaError("%s: line %d has %d columns, want 2", path, i+2, len(row))
		}
		entries[strings.TrimSpace(row[0])] = strings.TrimSpace(row[1])
	}
	return NewLookupTable(path, entries), nil
}

// ParseFloatTable converts every value of a string table to float64.
func ParseFloatTable(t LookupTable[string]) (LookupTable[float64], error) {
	entries := make(map[string]float64, len(t.entries))
	for _, k := range t.Keys() {
		f, err := strconv.ParseFloat(t.entries[k], 64)
		if err != nil {
			return LookupTable[float64]{}, parseError("%s: value %q for %q is not a number", t.name, t.entries[k], k)
		}
		entries[k] = f
	}
	return LookupTable[float64]{name: t.name, entries: entries}, nil
}
