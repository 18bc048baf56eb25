package sql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsConstraintViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pq unique", &pq.Error{Code: "23505"}, true},
		{"pq foreign key", &pq.Error{Code: "23503"}, true},
		{"pq not null", &pq.Error{Code: "23502"}, true},
		{"pq check", &pq.Error{Code: "23514"}, true},
		{"pq syntax error", &pq.Error{Code: "42601"}, false},
		{"mysql dup entry", &mysql.MySQLError{Number: 1062}, true},
		{"mysql no referenced row", &mysql.MySQLError{Number: 1452}, true},
		{"mysql row is referenced", &mysql.MySQLError{Number: 1451}, true},
		{"mysql bad null", &mysql.MySQLError{Number: 1048}, true},
		{"mysql check", &mysql.MySQLError{Number: 3819}, true},
		{"mysql unrelated", &mysql.MySQLError{Number: 1146}, false},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), true},
		{"sqlite foreign key", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), true},
		{"sqlite not null", errors.New("constraint failed: NOT NULL constraint failed: users.name (1299)"), true},
		{"plain error", errors.New("connection refused"), false},
		{"wrapped pq", fmt.Errorf("dialect/sql: exec: %w", &pq.Error{Code: "23505"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConstraintViolation(tt.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, IsUniqueViolation(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsUniqueViolation(&mysql.MySQLError{Number: 1452}))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, IsUniqueViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsForeignKeyViolation(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsForeignKeyViolation(&mysql.MySQLError{Number: 1062}))
	assert.True(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsForeignKeyViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, IsForeignKeyViolation(nil))
}
