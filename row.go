package fabrica

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/syssam/fabrica/schema"
)

// Row holds the column values of one row, keyed by column name. Before
// insert it is the mutable pending state handed to before-create
// callbacks; after insert it reflects what the database returned,
// including generated columns.
type Row struct {
	table  *schema.Table
	values map[string]any
}

func newRow(t *schema.Table) *Row {
	return &Row{table: t, values: make(map[string]any, len(t.Columns))}
}

// Table returns the table descriptor this row belongs to.
func (r *Row) Table() *schema.Table {
	return r.table
}

// Get returns the value of the named column, or nil if the column is
// unset or NULL.
func (r *Row) Get(column string) any {
	return r.values[column]
}

// Has reports whether the named column carries a value. An explicit NULL
// counts as set.
func (r *Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Set assigns a column value. Used by before-create callbacks to adjust
// the pending row before it is inserted.
func (r *Row) Set(column string, v any) {
	r.values[column] = v
}

// Columns returns the set columns in table declaration order.
func (r *Row) Columns() []string {
	cols := make([]string, 0, len(r.values))
	for _, c := range r.table.Columns {
		if _, ok := r.values[c.Name]; ok {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

// PK returns the value of the table's primary key column.
func (r *Row) PK() (any, error) {
	pk := r.table.PK()
	if pk == nil {
		return nil, &MissingPrimaryKeyError{Table: r.table.Name}
	}
	return r.values[pk.Name], nil
}

// Int64 returns the named column as an int64. Integer-typed driver values
// are converted; anything else returns false.
func (r *Row) Int64(column string) (int64, bool) {
	switch v := r.values[column].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	default:
		return 0, false
	}
}

// String returns the named column as a string. []byte driver values are
// converted; anything else returns false.
func (r *Row) String(column string) (string, bool) {
	switch v := r.values[column].(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}

// Decode maps the row into a struct pointer. Columns match struct fields
// by the `db` tag first, then by the snake_case form of the field name.
// NULL columns leave the field at its zero value; pointer fields receive
// nil for NULL and an allocated value otherwise.
func (r *Row) Decode(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return configErrorf("Decode expects a non-nil struct pointer, got %T", v)
	}
	elem := rv.Elem()
	rt := elem.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		column := sf.Tag.Get("db")
		if column == "-" {
			continue
		}
		if column == "" {
			column = snakeCase(sf.Name)
		}
		val, ok := r.values[column]
		if !ok || val == nil {
			continue
		}
		if err := assign(elem.Field(i), val); err != nil {
			return configErrorf("Decode column %q into field %s: %v", column, sf.Name, err)
		}
	}
	return nil
}

// assign sets dst to val with the loose conversions database drivers
// require: integer widening, []byte to string, and time passthrough.
func assign(dst reflect.Value, val any) error {
	if dst.Kind() == reflect.Pointer {
		p := reflect.New(dst.Type().Elem())
		if err := assign(p.Elem(), val); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
	sv := reflect.ValueOf(val)
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}
	switch {
	case sv.Type().ConvertibleTo(dst.Type()) && compatibleKinds(sv.Kind(), dst.Kind()):
		dst.Set(sv.Convert(dst.Type()))
		return nil
	case dst.Kind() == reflect.String:
		if b, ok := val.([]byte); ok {
			dst.SetString(string(b))
			return nil
		}
	case dst.Type() == reflect.TypeOf(time.Time{}):
		if s, ok := val.(string); ok {
			for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
				if t, err := time.Parse(layout, s); err == nil {
					dst.Set(reflect.ValueOf(t))
					return nil
				}
			}
		}
	case dst.Kind() == reflect.Bool:
		// sqlite stores booleans as integers.
		if n, ok := asInt64(val); ok {
			dst.SetBool(n != 0)
			return nil
		}
	}
	return fmt.Errorf("cannot assign %T to %s", val, dst.Type())
}

func compatibleKinds(src, dst reflect.Kind) bool {
	num := func(k reflect.Kind) bool {
		return k >= reflect.Int && k <= reflect.Float64
	}
	if num(src) && num(dst) {
		return true
	}
	return src == dst
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// snakeCase converts a Go field name to its database column form:
// AuthorID -> author_id, Name -> name.
func snakeCase(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && (name[i-1] < 'A' || name[i-1] > 'Z') {
				sb.WriteByte('_')
			}
			sb.WriteRune(r - 'A' + 'a')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
