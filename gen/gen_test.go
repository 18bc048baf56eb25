package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fabrica/schema"
)

func TestSequence(t *testing.T) {
	g := Sequence(func(n int64) any { return n * 10 })
	assert.Equal(t, int64(10), g.Generate(0, false))
	assert.Equal(t, int64(20), g.Generate(0, false))
	assert.Equal(t, int64(30), g.Generate(0, true))

	// Each Sequence owns its own counter.
	g2 := Sequence(func(n int64) any { return n })
	assert.Equal(t, int64(1), g2.Generate(0, false))
}

func TestConst(t *testing.T) {
	g := Const("fixed")
	assert.Equal(t, "fixed", g.Generate(0, false))
	assert.Equal(t, "fixed", g.Generate(5, true))
}

func TestFunc(t *testing.T) {
	var gotMax int
	var gotUnique bool
	g := Func(func(maxLen int, unique bool) any {
		gotMax, gotUnique = maxLen, unique
		return "v"
	})
	assert.Equal(t, "v", g.Generate(7, true))
	assert.Equal(t, 7, gotMax)
	assert.True(t, gotUnique)
}

func TestColumnPrefersColumnGenerator(t *testing.T) {
	col := schema.String("email").MaxLen(40)

	// String implements ColumnGenerator and should see the column name.
	v := Column(String{}, col, false)
	s, ok := v.(string)
	require.True(t, ok)
	assert.Contains(t, s, "email")

	// A plain Generator falls back to Generate with the declared size.
	var gotMax int
	plain := Func(func(maxLen int, unique bool) any {
		gotMax = maxLen
		return "x"
	})
	assert.Equal(t, "x", Column(plain, col, false))
	assert.Equal(t, 40, gotMax)
}
