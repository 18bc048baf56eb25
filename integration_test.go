package fabrica

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/fabrica/dialect"
	fsql "github.com/syssam/fabrica/dialect/sql"
	"github.com/syssam/fabrica/schema"
)

// openSQLite opens an in-memory SQLite database with foreign key
// enforcement on, so the factory's output is checked by a real engine.
func openSQLite(t *testing.T) *fsql.Driver {
	t.Helper()
	drv, err := fsql.Open(dialect.SQLite, "file:fabrica?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	drv.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { drv.Close() })
	return drv
}

func execAll(t *testing.T, drv *fsql.Driver, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		require.NoError(t, drv.Exec(context.Background(), stmt, []any{}, nil), stmt)
	}
}

func TestIntegrationEntityGraph(t *testing.T) {
	drv := openSQLite(t)
	execAll(t, drv,
		`DROP TABLE IF EXISTS posts`,
		`DROP TABLE IF EXISTS authors`,
		`CREATE TABLE authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE
		)`,
		`CREATE TABLE posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			author_id INTEGER NOT NULL REFERENCES authors(id)
		)`,
	)

	authors := schema.NewTable("authors",
		schema.Serial("id"),
		schema.String("name").NotNull().MaxLen(50),
		schema.String("email").MaxLen(100),
	).PrimaryKey("id").Unique("email")
	posts := schema.NewTable("posts",
		schema.Serial("id"),
		schema.String("title").NotNull().MaxLen(100),
		schema.Int64("author_id").NotNull(),
	).PrimaryKey("id").ForeignKey("author_id", "authors", "id")
	fab := New(drv, schema.NewSchema(authors, posts))

	post, err := fab.Create("posts").Set("title", "hello world").Build(context.Background())
	require.NoError(t, err)

	title, _ := post.String("title")
	assert.Equal(t, "hello world", title)
	authorID, ok := post.Int64("author_id")
	require.True(t, ok, "author must have been auto-created")

	author, err := fab.Get(context.Background(), "authors", authorID)
	require.NoError(t, err)
	name, _ := author.String("name")
	assert.NotEmpty(t, name)
	email, _ := author.String("email")
	assert.NotEmpty(t, email, "nullable columns are generated by default")

	type postModel struct {
		ID       int64
		Title    string
		AuthorID int64
	}
	var pm postModel
	require.NoError(t, post.Decode(&pm))
	assert.Equal(t, "hello world", pm.Title)
	assert.Equal(t, authorID, pm.AuthorID)

	// Unique emails survive a batch insert against the real constraint.
	more, err := fab.Create("authors").Times(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, more, 5)
	seen := map[string]bool{}
	for _, a := range more {
		e, _ := a.String("email")
		assert.False(t, seen[e], "duplicate email %q", e)
		seen[e] = true
	}

	_, err = fab.Get(context.Background(), "authors", int64(9999))
	assert.True(t, IsNotFound(err))
}

func TestIntegrationCycleBreakAndPatch(t *testing.T) {
	drv := openSQLite(t)
	execAll(t, drv,
		`DROP TABLE IF EXISTS people`,
		`DROP TABLE IF EXISTS companies`,
		`CREATE TABLE companies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			ceo_id INTEGER REFERENCES people(id)
		)`,
		`CREATE TABLE people (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			company_id INTEGER NOT NULL REFERENCES companies(id)
		)`,
	)

	fab := New(drv, cycleSchema(true))

	person, err := fab.Create("people").Build(context.Background())
	require.NoError(t, err)
	personID, _ := person.Int64("id")
	companyID, ok := person.Int64("company_id")
	require.True(t, ok)

	company, err := fab.Get(context.Background(), "companies", companyID)
	require.NoError(t, err)
	assert.Nil(t, company.Get("ceo_id"), "broken cyclic edge stays NULL")

	// Close the edge explicitly now that both rows exist.
	require.NoError(t, fab.PatchForeignKey(context.Background(), "companies", companyID, "ceo_id", personID))
	company, err = fab.Get(context.Background(), "companies", companyID)
	require.NoError(t, err)
	ceoID, ok := company.Int64("ceo_id")
	require.True(t, ok)
	assert.Equal(t, personID, ceoID)
}

func TestIntegrationSelfReference(t *testing.T) {
	drv := openSQLite(t)
	execAll(t, drv,
		`DROP TABLE IF EXISTS categories`,
		`CREATE TABLE categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			parent_id INTEGER REFERENCES categories(id)
		)`,
	)

	fab := New(drv, selfRefSchema(true))

	child, err := fab.Create("categories").Build(context.Background())
	require.NoError(t, err)
	parentID, ok := child.Int64("parent_id")
	require.True(t, ok, "a parent category must have been created")

	parent, err := fab.Get(context.Background(), "categories", parentID)
	require.NoError(t, err)
	assert.Nil(t, parent.Get("parent_id"), "self-reference stops after one level")
}

func TestIntegrationConstraintViolation(t *testing.T) {
	drv := openSQLite(t)
	execAll(t, drv,
		`DROP TABLE IF EXISTS tags`,
		`CREATE TABLE tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT NOT NULL UNIQUE
		)`,
	)

	tags := schema.NewTable("tags",
		schema.Serial("id"),
		schema.String("label").NotNull().MaxLen(30),
	).PrimaryKey("id").Unique("label")
	fab := New(drv, schema.NewSchema(tags))

	_, err := fab.Create("tags").Set("label", "dup").Build(context.Background())
	require.NoError(t, err)
	_, err = fab.Create("tags").Set("label", "dup").Build(context.Background())
	require.Error(t, err)
	assert.True(t, IsConstraintError(err))
}
