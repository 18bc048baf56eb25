// Package schema provides the table metadata model consumed by fabrica.
//
// A Table describes everything the factory needs to synthesize insertable
// rows: the ordered column list, foreign keys, unique keys, and the primary
// key. Descriptors are plain values, typically produced by schema
// introspection or declared inline in tests:
//
//	author := schema.NewTable("author",
//	    schema.Serial("id"),
//	    schema.String("name").NotNull(),
//	    schema.String("email").MaxLen(100),
//	).PrimaryKey("id").Unique("email")
//
// Descriptors are treated as immutable once handed to the factory.
package schema

import "fmt"

// Type identifies the value type of a column.
type Type int

const (
	TypeInvalid Type = iota
	TypeString
	TypeInt
	TypeInt64
	TypeFloat64
	TypeBool
	TypeUUID
	TypeTime
	TypeDate
	TypeEnum
	TypeBytes

	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeString:  "string",
	TypeInt:     "int",
	TypeInt64:   "int64",
	TypeFloat64: "float64",
	TypeBool:    "bool",
	TypeUUID:    "uuid",
	TypeTime:    "time",
	TypeDate:    "date",
	TypeEnum:    "enum",
	TypeBytes:   "bytes",
}

// String returns the type name.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a declared type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Column describes one table column.
type Column struct {
	// Name is the column name as it appears in the database.
	Name string
	// Type is the column value type.
	Type Type
	// Nullable reports whether the column accepts NULL.
	Nullable bool
	// Generated reports whether the database supplies the value
	// (identity, sequence or default expression). Generated columns are
	// never assigned by the factory.
	Generated bool
	// Size is the maximum length for text columns. Zero or negative
	// means unbounded.
	Size int
	// Enums holds the declared members for TypeEnum columns, in
	// declaration order.
	Enums []string
}

// String builds a string column descriptor.
func String(name string) *Column {
	return &Column{Name: name, Type: TypeString, Nullable: true}
}

// Int builds an int column descriptor.
func Int(name string) *Column {
	return &Column{Name: name, Type: TypeInt, Nullable: true}
}

// Int64 builds an int64 column descriptor.
func Int64(name string) *Column {
	return &Column{Name: name, Type: TypeInt64, Nullable: true}
}

// Float64 builds a float64 column descriptor.
func Float64(name string) *Column {
	return &Column{Name: name, Type: TypeFloat64, Nullable: true}
}

// Bool builds a bool column descriptor.
func Bool(name string) *Column {
	return &Column{Name: name, Type: TypeBool, Nullable: true}
}

// UUID builds a uuid column descriptor.
func UUID(name string) *Column {
	return &Column{Name: name, Type: TypeUUID, Nullable: true}
}

// Time builds a timestamp column descriptor.
func Time(name string) *Column {
	return &Column{Name: name, Type: TypeTime, Nullable: true}
}

// Date builds a date-only column descriptor.
func Date(name string) *Column {
	return &Column{Name: name, Type: TypeDate, Nullable: true}
}

// Enum builds an enum column descriptor with the given members.
func Enum(name string, values ...string) *Column {
	return &Column{Name: name, Type: TypeEnum, Nullable: true, Enums: values}
}

// Bytes builds a binary column descriptor.
func Bytes(name string) *Column {
	return &Column{Name: name, Type: TypeBytes, Nullable: true}
}

// Serial builds the common auto-increment primary key column: an int64
// identity column. Shorthand for Int64(name).Identity().
func Serial(name string) *Column {
	return Int64(name).Identity()
}

// NotNull marks the column NOT NULL.
func (c *Column) NotNull() *Column {
	c.Nullable = false
	return c
}

// Identity marks the column as database-generated. Identity columns are
// implicitly NOT NULL from the database's point of view, but the factory
// never assigns them, so nullability is irrelevant here.
func (c *Column) Identity() *Column {
	c.Generated = true
	c.Nullable = false
	return c
}

// Defaulted marks the column as carrying a database default expression.
// Like identity columns, defaulted columns are left for the database.
func (c *Column) Defaulted() *Column {
	c.Generated = true
	return c
}

// MaxLen sets the maximum length for text columns.
func (c *Column) MaxLen(n int) *Column {
	c.Size = n
	return c
}

// ForeignKey describes a directional edge from the owning table to a
// referenced table. Single-column edges only; composite foreign keys are
// not modeled.
type ForeignKey struct {
	// Column is the source column in the owning table.
	Column string
	// RefTable is the referenced table name.
	RefTable string
	// RefColumn is the referenced column, normally the target's primary key.
	RefColumn string
}

// UniqueKey describes a unique constraint over one or more columns.
type UniqueKey struct {
	Columns []string
}

// Table describes one database table.
type Table struct {
	Name        string
	Columns     []*Column
	ForeignKeys []ForeignKey
	UniqueKeys  []UniqueKey
	// PKColumns holds the primary key column names. Single-column
	// primary keys are the norm; the factory uses the first column for
	// FK targeting and row lookup.
	PKColumns []string

	columns map[string]*Column
}

// NewTable builds a table descriptor from the given columns.
func NewTable(name string, columns ...*Column) *Table {
	t := &Table{
		Name:    name,
		Columns: columns,
		columns: make(map[string]*Column, len(columns)),
	}
	for _, c := range columns {
		t.columns[c.Name] = c
	}
	return t
}

// PrimaryKey declares the primary key columns.
func (t *Table) PrimaryKey(columns ...string) *Table {
	t.PKColumns = columns
	return t
}

// ForeignKey declares a foreign key edge from column to refTable(refColumn).
func (t *Table) ForeignKey(column, refTable, refColumn string) *Table {
	t.ForeignKeys = append(t.ForeignKeys, ForeignKey{
		Column:    column,
		RefTable:  refTable,
		RefColumn: refColumn,
	})
	return t
}

// Unique declares a unique constraint over the given columns.
func (t *Table) Unique(columns ...string) *Table {
	t.UniqueKeys = append(t.UniqueKeys, UniqueKey{Columns: columns})
	return t
}

// Column returns the column descriptor with the given name, or nil.
func (t *Table) Column(name string) *Column {
	if t.columns != nil {
		return t.columns[name]
	}
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// PK returns the first primary key column descriptor, or nil if the table
// has no primary key.
func (t *Table) PK() *Column {
	if len(t.PKColumns) == 0 {
		return nil
	}
	return t.Column(t.PKColumns[0])
}

// Schema is a set of tables addressable by name. Foreign keys reference
// tables by name, so cross-table operations resolve through a Schema.
type Schema struct {
	tables map[string]*Table
	order  []string
}

// NewSchema builds a schema from the given tables.
func NewSchema(tables ...*Table) *Schema {
	s := &Schema{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		s.Add(t)
	}
	return s
}

// Add registers a table, replacing any previous table with the same name.
func (s *Schema) Add(t *Table) *Schema {
	if _, ok := s.tables[t.Name]; !ok {
		s.order = append(s.order, t.Name)
	}
	s.tables[t.Name] = t
	return s
}

// Table returns the table with the given name, or nil.
func (s *Schema) Table(name string) *Table {
	return s.tables[name]
}

// Tables returns all tables in registration order.
func (s *Schema) Tables() []*Table {
	ts := make([]*Table, 0, len(s.order))
	for _, name := range s.order {
		ts = append(ts, s.tables[name])
	}
	return ts
}
