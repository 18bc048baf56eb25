package fabrica

import (
	"strings"

	"github.com/syssam/fabrica/schema"
)

// creationChain tracks the tables whose row creation is in progress on
// the current call path. It is an immutable value: add returns a new
// chain, so recursive builds can carry it down the stack without
// synchronization. Each top-level build starts from an empty chain.
type creationChain struct {
	tables []*schema.Table
}

// add returns a new chain with the given table appended.
func (c creationChain) add(t *schema.Table) creationChain {
	tables := make([]*schema.Table, len(c.tables), len(c.tables)+1)
	copy(tables, c.tables)
	return creationChain{tables: append(tables, t)}
}

// contains reports whether a table with the given name is on the chain.
// Comparison is by name: two descriptor instances of the same table must
// be treated as the same node.
func (c creationChain) contains(name string) bool {
	for _, t := range c.tables {
		if t.Name == name {
			return true
		}
	}
	return false
}

// path returns the chain extended with the table closing the cycle, for
// edge walking and diagnostics. The chain already ends with the table
// currently being built.
func (c creationChain) path(parent *schema.Table) []*schema.Table {
	path := make([]*schema.Table, len(c.tables), len(c.tables)+1)
	copy(path, c.tables)
	return append(path, parent)
}

// names returns the table names along the given path.
func names(path []*schema.Table) []string {
	ns := make([]string, len(path))
	for i, t := range path {
		ns[i] = t.Name
	}
	return ns
}

// String renders the chain for diagnostics.
func (c creationChain) String() string {
	return strings.Join(names(c.tables), " -> ")
}
