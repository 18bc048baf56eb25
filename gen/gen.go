// Package gen provides the value generators used by fabrica to fabricate
// column values.
//
// A Generator produces values under two constraints: the column's maximum
// length and whether the column is bound by a unique constraint. Generators
// that want richer context (the column name, enum members) additionally
// implement ColumnGenerator; the factory prefers that method when present.
//
// Generators must be safe for concurrent use. Built-in uniqueness is
// backed by process-wide atomic counters that are monotonic for the life
// of the process and intentionally never reset.
package gen

import (
	"sync/atomic"

	"github.com/syssam/fabrica/schema"
)

// Generator produces a value under basic constraints.
type Generator interface {
	// Generate returns a new value. maxLen is the maximum length for
	// text values (zero or negative means unbounded); unique reports
	// whether the target column is bound by a unique constraint.
	Generate(maxLen int, unique bool) any
}

// ColumnGenerator is an optional richer interface. Generators that
// implement it receive the full column descriptor, enabling semantic
// generation such as name-prefixed strings.
type ColumnGenerator interface {
	Generator
	GenerateColumn(col *schema.Column, unique bool) any
}

// Func adapts an ordinary function to the Generator interface.
type Func func(maxLen int, unique bool) any

// Generate calls f.
func (f Func) Generate(maxLen int, unique bool) any {
	return f(maxLen, unique)
}

// Column calls the column-aware method when g implements ColumnGenerator,
// and falls back to Generate with the column's declared constraints.
func Column(g Generator, col *schema.Column, unique bool) any {
	if cg, ok := g.(ColumnGenerator); ok {
		return cg.GenerateColumn(col, unique)
	}
	return g.Generate(col.Size, unique)
}

// Sequence returns a generator that feeds a monotonically increasing
// counter (starting at 1) to fn. Each Sequence call owns its own counter.
func Sequence(fn func(n int64) any) Generator {
	var counter atomic.Int64
	return Func(func(int, bool) any {
		return fn(counter.Add(1))
	})
}

// Const returns a generator that always produces v.
func Const(v any) Generator {
	return Func(func(int, bool) any { return v })
}
