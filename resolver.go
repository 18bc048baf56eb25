package fabrica

import (
	"context"

	"github.com/syssam/fabrica/schema"
)

// breakableEdge identifies a foreign key inside a cycle that may be left
// NULL to break it.
type breakableEdge struct {
	table *schema.Table
	fk    schema.ForeignKey
}

// findBreakableEdge walks every consecutive (from, to) pair along the
// cycle path and returns the first foreign key whose source column is
// nullable and whose target is the next table on the path. A nil result
// means the cycle has no nullable edge and is unresolvable: every edge is
// NOT NULL, so no insertion order can exist.
//
// Edge order is chain order first, then foreign key declaration order
// within a table. The first match wins.
func findBreakableEdge(sch *schema.Schema, path []*schema.Table) *breakableEdge {
	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]
		for _, fk := range from.ForeignKeys {
			if fk.RefTable != to.Name {
				continue
			}
			col := from.Column(fk.Column)
			if col != nil && col.Nullable {
				return &breakableEdge{table: from, fk: fk}
			}
		}
	}
	return nil
}

// PatchForeignKey sets table.column to value on the row identified by the
// given primary key. The factory never repairs broken cyclic edges on its
// own: a foreign key left NULL to break a cycle stays NULL. Callers that
// want the edge closed after both sides exist use this explicit, opt-in
// helper.
func (c *Context) PatchForeignKey(ctx context.Context, table string, pk any, column string, value any) error {
	t := c.schema.Table(table)
	if t == nil {
		return configErrorf("unknown table %q", table)
	}
	pkCol := t.PK()
	if pkCol == nil {
		return &MissingPrimaryKeyError{Table: t.Name}
	}
	if t.Column(column) == nil {
		return configErrorf("unknown column %q in table %q", column, table)
	}
	return c.updateColumn(ctx, t, pkCol.Name, pk, column, value)
}
