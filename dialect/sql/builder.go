package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/fabrica/dialect"
)

// Builder is the shared base for all statement builders. It accumulates
// the statement text and its arguments, and handles the two dialect
// differences that matter here: identifier quoting and the placeholder
// format (postgres uses $n, mysql and sqlite use ?).
type Builder struct {
	sb      strings.Builder
	dialect string
	args    []any
}

// SetDialect sets the builder dialect. It is used for garnering dialect
// specific output.
func (b *Builder) SetDialect(dialect string) {
	b.dialect = dialect
}

// Dialect returns the dialect of the builder.
func (b *Builder) Dialect() string {
	return b.dialect
}

func (b *Builder) postgres() bool {
	return b.dialect == dialect.Postgres
}

// Quote quotes the given identifier with the dialect's quote character.
func (b *Builder) Quote(ident string) string {
	quote := `"`
	if b.dialect == dialect.MySQL {
		quote = "`"
	}
	return quote + ident + quote
}

// Ident appends the given string as a quoted identifier.
func (b *Builder) Ident(s string) *Builder {
	b.sb.WriteString(b.Quote(s))
	return b
}

// WriteString appends the given string to the statement.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Arg appends the given argument and writes its placeholder.
func (b *Builder) Arg(v any) *Builder {
	b.args = append(b.args, v)
	if b.postgres() {
		b.sb.WriteString("$" + strconv.Itoa(len(b.args)))
	} else {
		b.sb.WriteString("?")
	}
	return b
}

// String returns the accumulated statement text.
func (b *Builder) String() string {
	return b.sb.String()
}

// InsertBuilder is a builder for INSERT statements.
//
//	Insert("users").
//	    Columns("name", "email").
//	    Values("alice", "alice@mail").
//	    Returning("id")
type InsertBuilder struct {
	Builder
	table     string
	columns   []string
	values    []any
	returning []string
}

// Insert creates a builder for the INSERT statement.
func Insert(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Dialect sets the dialect and returns the builder.
func (i *InsertBuilder) Dialect(dialect string) *InsertBuilder {
	i.SetDialect(dialect)
	return i
}

// Columns appends the given columns to the insert statement.
func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append(i.columns, columns...)
	return i
}

// Values appends a value for each column in the statement.
func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.values = append(i.values, values...)
	return i
}

// Returning adds a RETURNING clause to the insert statement.
// Supported by postgres and sqlite.
func (i *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	i.returning = columns
	return i
}

// Query returns statement text and its arguments.
func (i *InsertBuilder) Query() (string, []any) {
	i.WriteString("INSERT INTO ").Ident(i.table)
	if len(i.columns) == 0 {
		i.WriteString(" DEFAULT VALUES")
	} else {
		i.WriteString(" (")
		for n, c := range i.columns {
			if n > 0 {
				i.WriteString(", ")
			}
			i.Ident(c)
		}
		i.WriteString(") VALUES (")
		for n, v := range i.values {
			if n > 0 {
				i.WriteString(", ")
			}
			i.Arg(v)
		}
		i.WriteString(")")
	}
	if len(i.returning) > 0 {
		i.WriteString(" RETURNING ")
		for n, c := range i.returning {
			if n > 0 {
				i.WriteString(", ")
			}
			i.Ident(c)
		}
	}
	return i.String(), i.args
}

// UpdateBuilder is a builder for UPDATE statements.
type UpdateBuilder struct {
	Builder
	table     string
	columns   []string
	values    []any
	wherecol  string
	whereval  any
	hasWhere  bool
}

// Update creates a builder for the UPDATE statement.
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Dialect sets the dialect and returns the builder.
func (u *UpdateBuilder) Dialect(dialect string) *UpdateBuilder {
	u.SetDialect(dialect)
	return u
}

// Set sets a column to the given value.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	u.columns = append(u.columns, column)
	u.values = append(u.values, v)
	return u
}

// Where restricts the update to rows where column equals v.
func (u *UpdateBuilder) Where(column string, v any) *UpdateBuilder {
	u.wherecol, u.whereval, u.hasWhere = column, v, true
	return u
}

// Query returns statement text and its arguments.
func (u *UpdateBuilder) Query() (string, []any) {
	u.WriteString("UPDATE ").Ident(u.table).WriteString(" SET ")
	for n, c := range u.columns {
		if n > 0 {
			u.WriteString(", ")
		}
		u.Ident(c).WriteString(" = ").Arg(u.values[n])
	}
	if u.hasWhere {
		u.WriteString(" WHERE ").Ident(u.wherecol).WriteString(" = ").Arg(u.whereval)
	}
	return u.String(), u.args
}

// SelectBuilder is a builder for SELECT statements.
type SelectBuilder struct {
	Builder
	columns  []string
	table    string
	wherecol string
	whereval any
	hasWhere bool
	limit    int
}

// Select creates a builder for the SELECT statement. No columns means
// SELECT *.
func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

// Dialect sets the dialect and returns the builder.
func (s *SelectBuilder) Dialect(dialect string) *SelectBuilder {
	s.SetDialect(dialect)
	return s
}

// From sets the source table.
func (s *SelectBuilder) From(table string) *SelectBuilder {
	s.table = table
	return s
}

// Where restricts the selection to rows where column equals v.
func (s *SelectBuilder) Where(column string, v any) *SelectBuilder {
	s.wherecol, s.whereval, s.hasWhere = column, v, true
	return s
}

// Limit adds a LIMIT clause.
func (s *SelectBuilder) Limit(n int) *SelectBuilder {
	s.limit = n
	return s
}

// Query returns statement text and its arguments.
func (s *SelectBuilder) Query() (string, []any) {
	s.WriteString("SELECT ")
	if len(s.columns) == 0 {
		s.WriteString("*")
	} else {
		for n, c := range s.columns {
			if n > 0 {
				s.WriteString(", ")
			}
			s.Ident(c)
		}
	}
	s.WriteString(" FROM ").Ident(s.table)
	if s.hasWhere {
		s.WriteString(" WHERE ").Ident(s.wherecol).WriteString(" = ").Arg(s.whereval)
	}
	if s.limit > 0 {
		s.WriteString(" LIMIT " + strconv.Itoa(s.limit))
	}
	return s.String(), s.args
}
