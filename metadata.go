package fabrica

import "github.com/syssam/fabrica/schema"

// Pure metadata queries over table descriptors. These are the only
// relational facts the factory needs: which columns are foreign keys, and
// which columns are bound by a uniqueness constraint.

// ForeignKeysOf returns the table's foreign keys in declaration order.
func ForeignKeysOf(t *schema.Table) []schema.ForeignKey {
	return t.ForeignKeys
}

// IsForeignKeyColumn reports whether the named column participates in any
// foreign key of the table.
func IsForeignKeyColumn(t *schema.Table, column string) bool {
	for _, fk := range t.ForeignKeys {
		if fk.Column == column {
			return true
		}
	}
	return false
}

// UniqueColumnsOf returns the set of columns participating in any unique
// key, single or composite. The primary key is implicitly unique but is
// not part of Table.UniqueKeys, so primary key columns appear here only
// when they are also bound by a separate unique constraint.
func UniqueColumnsOf(t *schema.Table) map[string]bool {
	unique := make(map[string]bool)
	for _, uk := range t.UniqueKeys {
		for _, c := range uk.Columns {
			unique[c] = true
		}
	}
	return unique
}

// IsUniqueColumn reports whether the named column is bound by a unique
// constraint other than the primary key.
func IsUniqueColumn(t *schema.Table, column string) bool {
	return UniqueColumnsOf(t)[column]
}
