package fabrica

import (
	"sync"

	"github.com/syssam/fabrica/gen"
)

// Callback mutates a row during the build lifecycle. Before-create
// callbacks see the pending row prior to insert; after-create callbacks
// receive the persisted row.
type Callback func(*Row)

// definition is a reusable factory definition for one table: default
// column values, per-column generators, named traits, and lifecycle
// callbacks. Immutable once built by DefinitionBuilder.
type definition struct {
	defaults   map[string]any
	generators map[string]gen.Generator
	traits     map[string]*trait
	before     []Callback
	after      []Callback
}

// trait is a named variation overlaid on a base definition.
type trait struct {
	overrides  map[string]any
	generators map[string]gen.Generator
	before     []Callback
	after      []Callback
}

// resolveDefaults merges base defaults with the overrides of the active
// traits. Traits apply in activation order, later traits winning.
func (d *definition) resolveDefaults(traits []string) map[string]any {
	resolved := make(map[string]any, len(d.defaults))
	for k, v := range d.defaults {
		resolved[k] = v
	}
	for _, name := range traits {
		if t, ok := d.traits[name]; ok {
			for k, v := range t.overrides {
				resolved[k] = v
			}
		}
	}
	return resolved
}

// resolveGenerators merges base generators with trait generators.
func (d *definition) resolveGenerators(traits []string) map[string]gen.Generator {
	resolved := make(map[string]gen.Generator, len(d.generators))
	for k, v := range d.generators {
		resolved[k] = v
	}
	for _, name := range traits {
		if t, ok := d.traits[name]; ok {
			for k, v := range t.generators {
				resolved[k] = v
			}
		}
	}
	return resolved
}

// resolveBefore returns base before-create callbacks followed by trait
// callbacks in activation order.
func (d *definition) resolveBefore(traits []string) []Callback {
	resolved := append([]Callback(nil), d.before...)
	for _, name := range traits {
		if t, ok := d.traits[name]; ok {
			resolved = append(resolved, t.before...)
		}
	}
	return resolved
}

// resolveAfter returns base after-create callbacks followed by trait
// callbacks in activation order.
func (d *definition) resolveAfter(traits []string) []Callback {
	resolved := append([]Callback(nil), d.after...)
	for _, name := range traits {
		if t, ok := d.traits[name]; ok {
			resolved = append(resolved, t.after...)
		}
	}
	return resolved
}

func (d *definition) hasTrait(name string) bool {
	_, ok := d.traits[name]
	return ok
}

// DefinitionBuilder configures a factory definition inside Context.Define.
type DefinitionBuilder struct {
	def *definition
}

func newDefinitionBuilder() *DefinitionBuilder {
	return &DefinitionBuilder{def: &definition{
		defaults:   make(map[string]any),
		generators: make(map[string]gen.Generator),
		traits:     make(map[string]*trait),
	}}
}

// Set declares a default value for a column. Defaults never overwrite
// values the caller sets explicitly on a builder.
func (b *DefinitionBuilder) Set(column string, v any) *DefinitionBuilder {
	b.def.defaults[column] = v
	return b
}

// WithGenerator declares a default generator for a column.
func (b *DefinitionBuilder) WithGenerator(column string, g gen.Generator) *DefinitionBuilder {
	b.def.generators[column] = g
	return b
}

// Trait declares a named variation of this definition.
func (b *DefinitionBuilder) Trait(name string, fn func(*TraitBuilder)) *DefinitionBuilder {
	tb := &TraitBuilder{t: &trait{
		overrides:  make(map[string]any),
		generators: make(map[string]gen.Generator),
	}}
	fn(tb)
	b.def.traits[name] = tb.t
	return b
}

// BeforeCreate registers a callback that runs against the pending row
// before the insert.
func (b *DefinitionBuilder) BeforeCreate(fn Callback) *DefinitionBuilder {
	b.def.before = append(b.def.before, fn)
	return b
}

// AfterCreate registers a callback that runs against the persisted row
// after the insert.
func (b *DefinitionBuilder) AfterCreate(fn Callback) *DefinitionBuilder {
	b.def.after = append(b.def.after, fn)
	return b
}

// TraitBuilder configures a named trait inside DefinitionBuilder.Trait.
type TraitBuilder struct {
	t *trait
}

// Set declares a column override for this trait.
func (b *TraitBuilder) Set(column string, v any) *TraitBuilder {
	b.t.overrides[column] = v
	return b
}

// WithGenerator declares a generator override for this trait.
func (b *TraitBuilder) WithGenerator(column string, g gen.Generator) *TraitBuilder {
	b.t.generators[column] = g
	return b
}

// BeforeCreate registers a trait before-create callback.
func (b *TraitBuilder) BeforeCreate(fn Callback) *TraitBuilder {
	b.t.before = append(b.t.before, fn)
	return b
}

// AfterCreate registers a trait after-create callback.
func (b *TraitBuilder) AfterCreate(fn Callback) *TraitBuilder {
	b.t.after = append(b.t.after, fn)
	return b
}

// definitionRegistry stores factory definitions keyed by table name.
// Registration happens during setup; lookups run concurrently with
// builds.
type definitionRegistry struct {
	mu          sync.RWMutex
	definitions map[string]*definition
}

func newDefinitionRegistry() *definitionRegistry {
	return &definitionRegistry{definitions: make(map[string]*definition)}
}

func (r *definitionRegistry) register(table string, def *definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[table] = def
}

func (r *definitionRegistry) resolve(table string) *definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.definitions[table]
}
