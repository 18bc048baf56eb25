// Package fabrica is a test-data factory for SQL databases. Given table
// metadata, it materializes minimal valid row graphs: it generates values
// for required columns, auto-creates parent rows across foreign key
// edges, breaks dependency cycles at nullable edges, and inserts through
// a pluggable dialect driver.
//
//	drv, err := sql.Open(dialect.SQLite, "file:test?mode=memory")
//	...
//	fab := fabrica.New(drv, sch)
//	post, err := fab.Create("posts").Set("title", "hello").Build(ctx)
//
// Creating a post auto-creates its author when posts.author_id is a
// required foreign key.
package fabrica

import (
	"context"
	"log/slog"

	"github.com/syssam/fabrica/dialect"
	"github.com/syssam/fabrica/gen"
	"github.com/syssam/fabrica/schema"
)

// Context is the factory entry point. It holds the driver, the schema and
// the registries shared by all builders. Safe for concurrent use; each
// Create returns an independent builder.
type Context struct {
	drv         dialect.Driver
	schema      *schema.Schema
	log         *slog.Logger
	registry    *generatorRegistry
	definitions *definitionRegistry

	// generateNullables controls whether nullable non-FK columns receive
	// generated values and whether nullable FK edges spawn parent rows.
	generateNullables bool
	debug             bool
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for query logging under WithDebug.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.log = l }
}

// WithGenerateNullables sets the context-wide default for nullable value
// generation. Builders override it per build with GenerateNullables.
func WithGenerateNullables(v bool) Option {
	return func(c *Context) { c.generateNullables = v }
}

// WithDebug wraps the driver so every query and exec is logged with its
// duration, using the logger from WithLogger.
func WithDebug() Option {
	return func(c *Context) { c.debug = true }
}

// New builds a factory over the given driver and schema. Nullable
// generation defaults to on; see WithGenerateNullables.
func New(drv dialect.Driver, sch *schema.Schema, opts ...Option) *Context {
	c := &Context{
		drv:               drv,
		schema:            sch,
		log:               slog.New(slog.DiscardHandler),
		registry:          newGeneratorRegistry(),
		definitions:       newDefinitionRegistry(),
		generateNullables: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.debug {
		c.drv = dialect.Debug(c.drv, c.log)
	}
	return c
}

// Driver returns the underlying dialect driver.
func (c *Context) Driver() dialect.Driver {
	return c.drv
}

// Schema returns the schema the factory operates on.
func (c *Context) Schema() *schema.Schema {
	return c.schema
}

// Create returns a builder for one row of the named table. Unknown table
// names are reported by Build.
func (c *Context) Create(table string) *Builder {
	t := c.schema.Table(table)
	if t == nil {
		b := newBuilder(c, &schema.Table{Name: table})
		b.err = configErrorf("unknown table %q", table)
		return b
	}
	return newBuilder(c, t)
}

// Get fetches one row of the named table by primary key. Returns a
// NotFoundError, matching errors.Is(err, ErrNotFound), when no row
// exists.
func (c *Context) Get(ctx context.Context, table string, pk any) (*Row, error) {
	t := c.schema.Table(table)
	if t == nil {
		return nil, configErrorf("unknown table %q", table)
	}
	pkCol := t.PK()
	if pkCol == nil {
		return nil, &MissingPrimaryKeyError{Table: t.Name}
	}
	return c.selectByPK(ctx, t, pkCol.Name, pk)
}

// RegisterColumnGenerator binds a generator to one exact column,
// overriding type-level and built-in generators for it.
func (c *Context) RegisterColumnGenerator(table, column string, g gen.Generator) {
	c.registry.registerColumn(table, column, g)
}

// RegisterTypeGenerator binds a generator to a value type, replacing the
// built-in one.
func (c *Context) RegisterTypeGenerator(t schema.Type, g gen.Generator) {
	c.registry.registerType(t, g)
}

// Sequence binds a counter-fed generator to a column: fn receives 1, 2,
// 3, ... across builds. Shorthand for RegisterColumnGenerator with
// gen.Sequence.
func (c *Context) Sequence(table, column string, fn func(n int64) any) {
	c.registry.registerColumn(table, column, gen.Sequence(fn))
}

// GenerateNullables toggles the context-wide default for nullable value
// generation. Affects builds started afterwards; not synchronized with
// builds already in flight.
func (c *Context) GenerateNullables(v bool) {
	c.generateNullables = v
}

// Define registers the factory definition for a table: default values,
// default generators, traits and lifecycle callbacks. Redefining a table
// replaces its previous definition.
func (c *Context) Define(table string, fn func(*DefinitionBuilder)) error {
	if c.schema.Table(table) == nil {
		return configErrorf("unknown table %q", table)
	}
	db := newDefinitionBuilder()
	fn(db)
	c.definitions.register(table, db.def)
	return nil
}
