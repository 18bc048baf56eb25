package fabrica

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fabrica/gen"
	"github.com/syssam/fabrica/schema"
)

func TestRegistryBuiltins(t *testing.T) {
	r := newGeneratorRegistry()
	users := schema.NewTable("users",
		schema.String("name"),
		schema.Int("age"),
		schema.Int64("score"),
		schema.Float64("weight"),
		schema.Bool("active"),
		schema.UUID("token"),
		schema.Time("created_at"),
		schema.Date("born_on"),
		schema.Enum("status", "a", "b"),
		schema.Bytes("payload"),
	)
	for _, col := range []string{"name", "age", "score", "weight", "active", "token", "created_at", "born_on"} {
		assert.NotNil(t, r.resolve(users, users.Column(col)), "no built-in for %s", col)
	}
	// Enum and bytes have no built-in; the builder handles enums itself.
	assert.Nil(t, r.resolve(users, users.Column("status")))
	assert.Nil(t, r.resolve(users, users.Column("payload")))
}

func TestRegistryColumnBeatsType(t *testing.T) {
	r := newGeneratorRegistry()
	users := schema.NewTable("users", schema.String("email"))
	posts := schema.NewTable("posts", schema.String("email"))

	typeGen := gen.Const("type-level")
	colGen := gen.Const("column-level")
	r.registerType(schema.TypeString, typeGen)
	r.registerColumn("users", "email", colGen)

	got := r.resolve(users, users.Column("email"))
	require.NotNil(t, got)
	assert.Equal(t, "column-level", got.Generate(0, false))

	// Same column name on another table still resolves at type level.
	got = r.resolve(posts, posts.Column("email"))
	require.NotNil(t, got)
	assert.Equal(t, "type-level", got.Generate(0, false))
}

func TestRegistryTypeOverrideReplacesBuiltin(t *testing.T) {
	r := newGeneratorRegistry()
	users := schema.NewTable("users", schema.Int("age"))
	r.registerType(schema.TypeInt, gen.Const(42))
	got := r.resolve(users, users.Column("age"))
	require.NotNil(t, got)
	assert.Equal(t, 42, got.Generate(0, false))
}
