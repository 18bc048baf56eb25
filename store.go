package fabrica

import (
	"context"
	"fmt"

	"github.com/syssam/fabrica/dialect"
	dsql "github.com/syssam/fabrica/dialect/sql"
	"github.com/syssam/fabrica/schema"
)

// The persistence layer. Exactly three operations are needed: insert a
// row and read it back with database-generated columns filled, update one
// column on one row, and select one row by primary key. Everything goes
// through the dialect.Driver, so tests can plug in sqlmock and production
// code a real database.

// insertReturning inserts the pending row and returns the persisted row.
// On postgres the insert carries a RETURNING clause; on mysql and sqlite
// the row is re-selected by primary key, using LastInsertId when the
// primary key is database-generated.
func (c *Context) insertReturning(ctx context.Context, t *schema.Table, pending *Row) (*Row, error) {
	cols := pending.Columns()
	vals := make([]any, len(cols))
	for i, col := range cols {
		vals[i] = pending.Get(col)
	}
	if c.drv.Dialect() == dialect.Postgres {
		return c.insertReturningAll(ctx, t, cols, vals)
	}

	builder := dsql.Insert(t.Name).Dialect(c.drv.Dialect()).Columns(cols...).Values(vals...)
	query, args := builder.Query()
	var res dsql.Result
	if err := c.drv.Exec(ctx, query, args, &res); err != nil {
		return nil, c.insertError(t, err)
	}

	pkCol := t.PK()
	if pkCol == nil {
		// Without a primary key the inserted row cannot be re-selected;
		// the in-memory values are the best available view.
		return pending, nil
	}
	pkVal := pending.Get(pkCol.Name)
	if !pending.Has(pkCol.Name) && pkCol.Generated {
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("fabrica: insert %s: last insert id: %w", t.Name, err)
		}
		pkVal = id
	}
	return c.selectByPK(ctx, t, pkCol.Name, pkVal)
}

// insertReturningAll performs INSERT ... RETURNING over every table
// column and scans the result.
func (c *Context) insertReturningAll(ctx context.Context, t *schema.Table, cols []string, vals []any) (*Row, error) {
	all := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		all[i] = col.Name
	}
	builder := dsql.Insert(t.Name).Dialect(c.drv.Dialect()).Columns(cols...).Values(vals...).Returning(all...)
	query, args := builder.Query()
	var rows dsql.Rows
	if err := c.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, c.insertError(t, err)
	}
	defer rows.Close()
	row, err := scanRow(&rows, t)
	if err != nil {
		return nil, fmt.Errorf("fabrica: insert %s: %w", t.Name, err)
	}
	return row, nil
}

// insertError recognizes driver constraint violations; anything else
// propagates wrapped with the failing operation only.
func (c *Context) insertError(t *schema.Table, err error) error {
	if dsql.IsConstraintViolation(err) {
		return &ConstraintError{msg: fmt.Sprintf("insert %s: %v", t.Name, err), wrap: err}
	}
	return fmt.Errorf("fabrica: insert %s: %w", t.Name, err)
}

// selectByPK fetches one row by primary key. A missing row yields a
// NotFoundError that satisfies errors.Is(err, ErrNotFound).
func (c *Context) selectByPK(ctx context.Context, t *schema.Table, pkColumn string, pkValue any) (*Row, error) {
	builder := dsql.Select().Dialect(c.drv.Dialect()).From(t.Name).Where(pkColumn, pkValue).Limit(1)
	query, args := builder.Query()
	var rows dsql.Rows
	if err := c.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("fabrica: select %s: %w", t.Name, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("fabrica: select %s: %w", t.Name, err)
		}
		return nil, &NotFoundError{table: t.Name, pk: pkValue}
	}
	return scanCurrent(&rows, t)
}

// updateColumn sets one column on the row identified by primary key.
func (c *Context) updateColumn(ctx context.Context, t *schema.Table, pkColumn string, pkValue any, column string, value any) error {
	builder := dsql.Update(t.Name).Dialect(c.drv.Dialect()).Set(column, value).Where(pkColumn, pkValue)
	query, args := builder.Query()
	if err := c.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("fabrica: update %s.%s: %w", t.Name, column, err)
	}
	return nil
}

// scanRow advances to the first result row and scans it.
func scanRow(rows *dsql.Rows, t *schema.Table) (*Row, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("no row returned")
	}
	return scanCurrent(rows, t)
}

// scanCurrent scans the current result row into a Row keyed by the
// result's column names.
func scanCurrent(rows *dsql.Rows, t *schema.Table) (*Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = new(any)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	row := newRow(t)
	for i, col := range cols {
		row.values[col] = *dest[i].(*any)
	}
	return row, nil
}
