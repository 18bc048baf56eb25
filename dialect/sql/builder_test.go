package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/fabrica/dialect"
)

func TestInsertBuilder(t *testing.T) {
	tests := []struct {
		name      string
		input     *InsertBuilder
		wantQuery string
		wantArgs  []any
	}{
		{
			name: "mysql",
			input: Insert("users").Dialect(dialect.MySQL).
				Columns("name", "email").Values("alice", "alice@mail"),
			wantQuery: "INSERT INTO `users` (`name`, `email`) VALUES (?, ?)",
			wantArgs:  []any{"alice", "alice@mail"},
		},
		{
			name: "postgres placeholders",
			input: Insert("users").Dialect(dialect.Postgres).
				Columns("name", "email").Values("alice", "alice@mail"),
			wantQuery: `INSERT INTO "users" ("name", "email") VALUES ($1, $2)`,
			wantArgs:  []any{"alice", "alice@mail"},
		},
		{
			name: "postgres returning",
			input: Insert("users").Dialect(dialect.Postgres).
				Columns("name").Values("alice").Returning("id", "name"),
			wantQuery: `INSERT INTO "users" ("name") VALUES ($1) RETURNING "id", "name"`,
			wantArgs:  []any{"alice"},
		},
		{
			name:      "default values",
			input:     Insert("users").Dialect(dialect.SQLite),
			wantQuery: `INSERT INTO "users" DEFAULT VALUES`,
		},
		{
			name: "nil argument",
			input: Insert("posts").Dialect(dialect.SQLite).
				Columns("title", "author_id").Values("hello", nil),
			wantQuery: `INSERT INTO "posts" ("title", "author_id") VALUES (?, ?)`,
			wantArgs:  []any{"hello", nil},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := tt.input.Query()
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args := Update("users").Dialect(dialect.Postgres).
		Set("team_id", 3).Where("id", 7).Query()
	assert.Equal(t, `UPDATE "users" SET "team_id" = $1 WHERE "id" = $2`, query)
	assert.Equal(t, []any{3, 7}, args)

	query, args = Update("users").Dialect(dialect.MySQL).
		Set("name", "bob").Set("email", nil).Where("id", 1).Query()
	assert.Equal(t, "UPDATE `users` SET `name` = ?, `email` = ? WHERE `id` = ?", query)
	assert.Equal(t, []any{"bob", nil, 1}, args)
}

func TestSelectBuilder(t *testing.T) {
	query, args := Select().Dialect(dialect.SQLite).
		From("users").Where("id", int64(5)).Limit(1).Query()
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = ? LIMIT 1`, query)
	assert.Equal(t, []any{int64(5)}, args)

	query, args = Select("id", "name").Dialect(dialect.Postgres).
		From("users").Where("email", "a@b").Query()
	assert.Equal(t, `SELECT "id", "name" FROM "users" WHERE "email" = $1`, query)
	assert.Equal(t, []any{"a@b"}, args)
}
