package fabrica

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCycleError(t *testing.T) {
	err := &CycleError{Path: []string{"people", "companies", "people"}}
	assert.Equal(t,
		"fabrica: circular dependency detected in table creation chain: people -> companies -> people",
		err.Error(),
	)
	assert.True(t, IsCycleError(err))
	assert.True(t, IsCycleError(fmt.Errorf("build: %w", err)))
	assert.False(t, IsCycleError(errors.New("other")))
	assert.False(t, IsCycleError(nil))
}

func TestSelfReferenceError(t *testing.T) {
	err := &SelfReferenceError{Table: "categories", Column: "parent_id"}
	assert.Equal(t, "fabrica: not null self-reference categories.parent_id is impossible to populate", err.Error())
	assert.True(t, IsSelfReferenceError(err))
	assert.False(t, IsSelfReferenceError(errors.New("other")))
}

func TestUnsupportedTypeError(t *testing.T) {
	err := &UnsupportedTypeError{Table: "users", Column: "payload", Type: "bytes"}
	assert.Contains(t, err.Error(), "unsupported type bytes for column users.payload")
	assert.True(t, IsUnsupportedType(err))
	assert.True(t, IsUnsupportedType(fmt.Errorf("wrap: %w", err)))
	assert.False(t, IsUnsupportedType(nil))
}

func TestMissingPrimaryKeyError(t *testing.T) {
	err := &MissingPrimaryKeyError{Table: "logs"}
	assert.Equal(t, "fabrica: table logs has no primary key", err.Error())
	assert.True(t, IsMissingPrimaryKey(err))
	assert.False(t, IsMissingPrimaryKey(errors.New("other")))
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{table: "users", pk: 7}
	assert.Equal(t, "fabrica: users row not found (pk=7)", err.Error())
	assert.Equal(t, "users", err.Table())
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("get: %w", err), ErrNotFound))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestConstraintError(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: users.email")
	err := &ConstraintError{msg: "insert users: boom", wrap: cause}
	assert.Equal(t, "fabrica: constraint failed: insert users: boom", err.Error())
	assert.True(t, IsConstraintError(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsConstraintError(cause))
}

func TestConfigError(t *testing.T) {
	err := configErrorf("unknown table %q", "missing")
	assert.Equal(t, `fabrica: unknown table "missing"`, err.Error())
	assert.True(t, IsConfigError(err))
	assert.False(t, IsConfigError(nil))
}
