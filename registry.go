package fabrica

import (
	"sync"

	"github.com/syssam/fabrica/gen"
	"github.com/syssam/fabrica/schema"
)

// generatorRegistry resolves value generators for columns. Resolution
// order: a registry override for the exact column beats a registry
// override for the column's type; per-build overrides are handled by the
// builder before the registry is consulted at all.
//
// Registration normally happens during test setup, but lookups run
// concurrently with builds on other goroutines, so access is guarded.
type generatorRegistry struct {
	mu      sync.RWMutex
	columns map[string]gen.Generator
	types   map[schema.Type]gen.Generator
}

// newGeneratorRegistry returns a registry pre-populated with the built-in
// generators for common scalar types. Built-ins can be replaced via
// registerType.
func newGeneratorRegistry() *generatorRegistry {
	return &generatorRegistry{
		columns: make(map[string]gen.Generator),
		types: map[schema.Type]gen.Generator{
			schema.TypeString:  gen.String{},
			schema.TypeInt:     gen.Int{},
			schema.TypeInt64:   gen.Int64{},
			schema.TypeFloat64: gen.Float64{},
			schema.TypeBool:    gen.Bool{},
			schema.TypeUUID:    gen.UUID{},
			schema.TypeTime:    gen.Time{},
			schema.TypeDate:    gen.Date{},
		},
	}
}

// columnKey qualifies a column with its table: two tables may both have
// an "email" column with different generators.
func columnKey(table, column string) string {
	return table + "." + column
}

// registerColumn binds a generator to one exact column.
func (r *generatorRegistry) registerColumn(table, column string, g gen.Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.columns[columnKey(table, column)] = g
}

// registerType binds a generator to a value type, replacing any built-in.
func (r *generatorRegistry) registerType(t schema.Type, g gen.Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t] = g
}

// resolve returns the generator for the given column, or nil when neither
// a column-level nor a type-level registration exists.
func (r *generatorRegistry) resolve(table *schema.Table, col *schema.Column) gen.Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.columns[columnKey(table.Name, col.Name)]; ok {
		return g
	}
	return r.types[col.Type]
}
