package fabrica

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/fabrica/schema"
)

func TestForeignKeyMetadata(t *testing.T) {
	posts := schema.NewTable("posts",
		schema.Serial("id"),
		schema.String("title").NotNull(),
		schema.Int64("author_id").NotNull(),
		schema.Int64("editor_id"),
	).
		PrimaryKey("id").
		ForeignKey("author_id", "authors", "id").
		ForeignKey("editor_id", "authors", "id")

	fks := ForeignKeysOf(posts)
	assert.Len(t, fks, 2)
	assert.Equal(t, "author_id", fks[0].Column)
	assert.Equal(t, "editor_id", fks[1].Column)

	assert.True(t, IsForeignKeyColumn(posts, "author_id"))
	assert.True(t, IsForeignKeyColumn(posts, "editor_id"))
	assert.False(t, IsForeignKeyColumn(posts, "title"))
	assert.False(t, IsForeignKeyColumn(posts, "missing"))
}

func TestUniqueMetadata(t *testing.T) {
	users := schema.NewTable("users",
		schema.Serial("id"),
		schema.String("email").NotNull(),
		schema.String("org").NotNull(),
		schema.String("handle").NotNull(),
		schema.String("bio"),
	).
		PrimaryKey("id").
		Unique("email").
		Unique("org", "handle")

	unique := UniqueColumnsOf(users)
	assert.Equal(t, map[string]bool{"email": true, "org": true, "handle": true}, unique)

	assert.True(t, IsUniqueColumn(users, "email"))
	assert.True(t, IsUniqueColumn(users, "handle"), "composite unique members count")
	assert.False(t, IsUniqueColumn(users, "bio"))
	assert.False(t, IsUniqueColumn(users, "id"), "primary key is not a declared unique key")
}
