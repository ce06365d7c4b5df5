package etl

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// FieldType is the scalar kind of a column.
type FieldType string

const (
	TypeText   FieldType = "text"
	TypeNumber FieldType = "number"
)

// Field describes a single column in a dataset.
type Field struct {
	Name string
	Type FieldType
}

func Text(name string) Field   { return Field{Name: name, Type: TypeText} }
func Number(name string) Field { return Field{Name: name, Type: TypeNumber} }

// Schema is the ordered column set shared by every record of a RecordSet.
type Schema struct {
	Fields []Field
}

func NewSchema(fields ...Field) Schema {
	return Schema{Fields: append([]Field(nil), fields...)}
}

// Names returns the ordered list of column names.
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (s Schema) check(values []any) error {
	if len(values) != len(s.Fields) {
		return schemaError("got %d values for %d columns %v", len(values), len(s.Fields), s.Names())
	}
	for i, f := range s.Fields {
		if err := checkValue(f, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(f Field, v any) error {
	switch f.Type {
	case TypeNumber:
		if _, ok := v.(float64); ok {
			return nil
		}
	case TypeText:
		if _, ok := v.(string); ok {
			return nil
		}
	}
	return schemaError("column %q expects %s, got %T", f.Name, f.Type, v)
}

// Record is one row of a RecordSet. Values are aligned with the schema.
type Record struct {
	schema *Schema
	values []any
}

func (r Record) Values() []any {
	return append([]any(nil), r.values...)
}

// Get returns the value of the named column.
func (r Record) Get(name string) (any, error) {
	i := r.schema.Index(name)
	if i < 0 {
		return nil, schemaError("unknown column %q", name)
	}
	return r.values[i], nil
}

func (r Record) Text(name string) (string, error) {
	v, err := r.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", schemaError("column %q is not text", name)
	}
	return s, nil
}

func (r Record) Float(name string) (float64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, schemaError("column %q is not a number", name)
	}
	return f, nil
}

// RecordSet is an ordered sequence of records sharing one schema.
// It only grows: records are appended during extraction and columns are
// added during enrichment.
type RecordSet struct {
	schema  *Schema
	records [][]any
}

func NewRecordSet(schema Schema) *RecordSet {
	s := NewSchema(schema.Fields...)
	return &RecordSet{schema: &s}
}

func (rs *RecordSet) Schema() Schema { return NewSchema(rs.schema.Fields...) }
func (rs *RecordSet) Len() int       { return len(rs.records) }

// Append adds a record. The values must match the schema exactly.
func (rs *RecordSet) Append(values ...any) error {
	if err := rs.schema.check(values); err != nil {
		return errors.Wrapf(err, "append record %d", len(rs.records))
	}
	rs.records = append(rs.records, append([]any(nil), values...))
	return nil
}

func (rs *RecordSet) Record(i int) Record {
	return Record{schema: rs.schema, values: rs.records[i]}
}

func (rs *RecordSet) Records() []Record {
	out := make([]Record, len(rs.records))
	for i := range rs.records {
		out[i] = rs.Record(i)
	}
	return out
}

// AddColumn widens the set with a computed column. compute is called once per
// record in order; the first error aborts and leaves the set unchanged.
func (rs *RecordSet) AddColumn(field Field, compute func(Record) (any, error)) error {
	if rs.schema.Index(field.Name) >= 0 {
		return schemaError("column %q already exists", field.Name)
	}

	computed := make([]any, len(rs.records))
	for i := range rs.records {
		v, err := compute(rs.Record(i))
		if err != nil {
			return errors.Wrapf(err, "compute %s for record %d", field.Name, i)
		}
		if err := checkValue(field, v); err != nil {
			return errors.Wrapf(err, "compute %s for record %d", field.Name, i)
		}
		computed[i] = v
	}

	rs.schema.Fields = append(rs.schema.Fields, field)
	for i, v := range computed {
		rs.records[i] = append(rs.records[i], v)
	}
	return nil
}

// Column describes one column of a projection: either a copy of an existing
// column (From) or a constant value repeated on every row.
type Column struct {
	Field Field
	From  string
	Const any
}

// Select builds a new RecordSet from the given columns, preserving row order.
func (rs *RecordSet) Select(columns ...Column) (*RecordSet, error) {
	fields := make([]Field, len(columns))
	sources := make([]int, len(columns))
	for i, c := range columns {
		fields[i] = c.Field
		sources[i] = -1
		if c.From == "" {
			if err := checkValue(c.Field, c.Const); err != nil {
				return nil, err
			}
			continue
		}
		idx := rs.schema.Index(c.From)
		if idx < 0 {
			return nil, schemaError("unknown column %q", c.From)
		}
		if rs.schema.Fields[idx].Type != c.Field.Type {
			return nil, schemaError("column %q is %s, not %s", c.From, rs.schema.Fields[idx].Type, c.Field.Type)
		}
		sources[i] = idx
	}

	out := NewRecordSet(NewSchema(fields...))
	for _, values := range rs.records {
		row := make([]any, len(columns))
		for i, src := range sources {
			if src < 0 {
				row[i] = columns[i].Const
				continue
			}
			row[i] = values[src]
		}
		out.records = append(out.records, row)
	}
	return out, nil
}

func (rs *RecordSet) String() string {
	return fmt.Sprintf("RecordSet(%d records, %v)", len(rs.records), rs.schema.Names())
}
