package fabrica

import (
	"context"
	"fmt"

	"github.com/syssam/fabrica/gen"
	"github.com/syssam/fabrica/schema"
)

// Builder assembles and persists one row. Obtained from Context.Create,
// configured with explicit values, generators and traits, and consumed by
// a single Build call. A builder is not safe for concurrent use; build
// many rows concurrently by creating one builder per goroutine, or use
// Times for a homogeneous batch.
type Builder struct {
	c     *Context
	table *schema.Table

	explicit   map[string]any
	generators map[string]gen.Generator
	traits     []string

	// nil means inherit the Context-wide setting. Child builders created
	// for foreign key targets inherit the resolved value.
	genNullables *bool

	chain creationChain
	built bool
	err   error
}

func newBuilder(c *Context, t *schema.Table) *Builder {
	return &Builder{
		c:          c,
		table:      t,
		explicit:   make(map[string]any),
		generators: make(map[string]gen.Generator),
	}
}

// Set assigns an explicit value to a column. Explicit values always win:
// they suppress generation and, on foreign key columns, suppress parent
// auto-creation.
func (b *Builder) Set(column string, v any) *Builder {
	if b.err == nil && b.table.Column(column) == nil {
		b.err = configErrorf("unknown column %q in table %q", column, b.table.Name)
		return b
	}
	b.explicit[column] = v
	return b
}

// SetNull assigns an explicit NULL to a column. Equivalent to Set with a
// nil value; spelled out because Set(col, nil) reads ambiguously.
func (b *Builder) SetNull(column string) *Builder {
	return b.Set(column, nil)
}

// GenerateNullables overrides the Context-wide nullable-generation
// setting for this build and the parent rows it creates.
func (b *Builder) GenerateNullables(v bool) *Builder {
	b.genNullables = &v
	return b
}

// WithGenerator overrides the value generator for one column, for this
// build only. Beats both definition generators and registry
// registrations.
func (b *Builder) WithGenerator(column string, g gen.Generator) *Builder {
	if b.err == nil && b.table.Column(column) == nil {
		b.err = configErrorf("unknown column %q in table %q", column, b.table.Name)
		return b
	}
	b.generators[column] = g
	return b
}

// Trait activates named traits of the table's factory definition, in
// order. Later traits override earlier ones where they touch the same
// column.
func (b *Builder) Trait(names ...string) *Builder {
	b.traits = append(b.traits, names...)
	return b
}

// Build generates missing values, auto-creates required parent rows,
// inserts the row and returns it as persisted. Build is terminal: the
// builder cannot be reused afterwards.
func (b *Builder) Build(ctx context.Context) (*Row, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.built {
		return nil, configErrorf("builder for table %q already used; create a new one", b.table.Name)
	}
	b.built = true
	return b.build(ctx)
}

// Times builds n rows with this builder's configuration, each with
// freshly generated values. Rows are returned in creation order; the
// first failure aborts the batch.
func (b *Builder) Times(ctx context.Context, n int) ([]*Row, error) {
	return b.TimesFunc(ctx, n, nil)
}

// TimesFunc builds n rows, invoking fn on each row's builder before it
// runs, for per-iteration customization. fn may be nil.
func (b *Builder) TimesFunc(ctx context.Context, n int, fn func(i int, b *Builder)) ([]*Row, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.built {
		return nil, configErrorf("builder for table %q already used; create a new one", b.table.Name)
	}
	b.built = true
	rows := make([]*Row, 0, n)
	for i := 0; i < n; i++ {
		clone := b.clone()
		if fn != nil {
			fn(i, clone)
		}
		if clone.err != nil {
			return nil, clone.err
		}
		row, err := clone.build(ctx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// clone copies the builder's configuration into a fresh, unconsumed
// builder.
func (b *Builder) clone() *Builder {
	nb := newBuilder(b.c, b.table)
	for k, v := range b.explicit {
		nb.explicit[k] = v
	}
	for k, v := range b.generators {
		nb.generators[k] = v
	}
	nb.traits = append([]string(nil), b.traits...)
	nb.genNullables = b.genNullables
	nb.chain = b.chain
	return nb
}

// build runs the five build phases: merge the factory definition, resolve
// foreign keys, fill column values, run before-create callbacks, insert,
// run after-create callbacks.
func (b *Builder) build(ctx context.Context) (*Row, error) {
	genNullables := b.c.generateNullables
	if b.genNullables != nil {
		genNullables = *b.genNullables
	}

	before, after, err := b.applyDefinition()
	if err != nil {
		return nil, err
	}
	if err := b.resolveForeignKeys(ctx, genNullables); err != nil {
		return nil, err
	}
	pending, err := b.fill(genNullables)
	if err != nil {
		return nil, err
	}
	for _, cb := range before {
		cb(pending)
	}
	row, err := b.c.insertReturning(ctx, b.table, pending)
	if err != nil {
		return nil, err
	}
	for _, cb := range after {
		cb(row)
	}
	return row, nil
}

// applyDefinition merges the table's registered factory definition into
// the builder: defaults and generators insert-if-absent, so caller-set
// values always win. Returns the definition's lifecycle callbacks.
func (b *Builder) applyDefinition() (before, after []Callback, err error) {
	def := b.c.definitions.resolve(b.table.Name)
	if def == nil {
		if len(b.traits) > 0 {
			return nil, nil, configErrorf("table %q has no factory definition; traits %v cannot apply", b.table.Name, b.traits)
		}
		return nil, nil, nil
	}
	for _, name := range b.traits {
		if !def.hasTrait(name) {
			return nil, nil, configErrorf("unknown trait %q for table %q", name, b.table.Name)
		}
	}
	for k, v := range def.resolveDefaults(b.traits) {
		if _, ok := b.explicit[k]; !ok {
			b.explicit[k] = v
		}
	}
	for k, g := range def.resolveGenerators(b.traits) {
		if _, ok := b.generators[k]; !ok {
			b.generators[k] = g
		}
	}
	return def.resolveBefore(b.traits), def.resolveAfter(b.traits), nil
}

// resolveForeignKeys walks the table's foreign keys in declaration order
// and decides, per key: keep the caller's explicit value, leave NULL,
// abort on an impossible cycle, or recursively create the parent row and
// reference its primary key.
func (b *Builder) resolveForeignKeys(ctx context.Context, genNullables bool) error {
	for _, fk := range b.table.ForeignKeys {
		if _, ok := b.explicit[fk.Column]; ok {
			continue
		}
		col := b.table.Column(fk.Column)
		if col == nil {
			return configErrorf("foreign key column %q missing from table %q", fk.Column, b.table.Name)
		}
		parent := b.c.schema.Table(fk.RefTable)
		if parent == nil {
			return configErrorf("foreign key %s.%s references unknown table %q", b.table.Name, fk.Column, fk.RefTable)
		}

		if fk.RefTable == b.table.Name {
			if !col.Nullable {
				return &SelfReferenceError{Table: b.table.Name, Column: fk.Column}
			}
			if !genNullables {
				continue
			}
			// One level of self-reference: the parent row leaves its own
			// self foreign key NULL, terminating the recursion.
			if err := b.createParent(ctx, parent, fk, b.chain, false); err != nil {
				return err
			}
			continue
		}

		effective := b.chain.add(b.table)
		if effective.contains(fk.RefTable) {
			if col.Nullable {
				b.explicit[fk.Column] = nil
				continue
			}
			path := effective.path(parent)
			if findBreakableEdge(b.c.schema, path) == nil {
				return &CycleError{Path: names(path)}
			}
			// A nullable edge exists further along the cycle; keep
			// recursing and it will be left NULL when its turn comes.
		} else if col.Nullable && !genNullables {
			continue
		}
		if err := b.createParent(ctx, parent, fk, effective, genNullables); err != nil {
			return err
		}
	}
	return nil
}

// createParent builds a row in the parent table and stores its primary
// key as the explicit value of the foreign key column.
func (b *Builder) createParent(ctx context.Context, parent *schema.Table, fk schema.ForeignKey, chain creationChain, genNullables bool) error {
	child := newBuilder(b.c, parent)
	child.chain = chain
	child.genNullables = &genNullables
	row, err := child.build(ctx)
	if err != nil {
		return err
	}
	ref := fk.RefColumn
	if ref == "" {
		pk := parent.PK()
		if pk == nil {
			return &MissingPrimaryKeyError{Table: parent.Name}
		}
		ref = pk.Name
	}
	if !row.Has(ref) {
		return fmt.Errorf("fabrica: created %s row carries no %s value to reference from %s.%s",
			parent.Name, ref, b.table.Name, fk.Column)
	}
	b.explicit[fk.Column] = row.Get(ref)
	return nil
}

// fill produces the pending row: explicit values verbatim, generated
// columns skipped, required columns generated, nullable columns generated
// only when nullable generation is on.
func (b *Builder) fill(genNullables bool) (*Row, error) {
	pending := newRow(b.table)
	for _, col := range b.table.Columns {
		if v, ok := b.explicit[col.Name]; ok {
			pending.Set(col.Name, v)
			continue
		}
		if col.Generated {
			continue
		}
		if IsForeignKeyColumn(b.table, col.Name) {
			if !col.Nullable {
				return nil, fmt.Errorf("fabrica: required foreign key %s.%s left unresolved", b.table.Name, col.Name)
			}
			continue
		}
		if col.Nullable && !genNullables {
			continue
		}
		v, err := b.generate(col)
		if err != nil {
			return nil, err
		}
		pending.Set(col.Name, v)
	}
	return pending, nil
}

// generate resolves the generator for a column and produces one value.
// Resolution order: builder override, registry column binding, registry
// type binding, first enum member for enum columns.
func (b *Builder) generate(col *schema.Column) (any, error) {
	unique := IsUniqueColumn(b.table, col.Name)
	if g, ok := b.generators[col.Name]; ok {
		return gen.Column(g, col, unique), nil
	}
	if g := b.c.registry.resolve(b.table, col); g != nil {
		return gen.Column(g, col, unique), nil
	}
	if col.Type == schema.TypeEnum && len(col.Enums) > 0 {
		return col.Enums[0], nil
	}
	return nil, &UnsupportedTypeError{Table: b.table.Name, Column: col.Name, Type: col.Type.String()}
}
