package fabrica

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("fabrica: row not found")
)

// CycleError is returned when a NOT NULL foreign key sits on a circular
// dependency with no nullable edge anywhere along the path. Such a cycle
// cannot be inserted into a database that enforces referential integrity,
// so the build is aborted. The caller must restructure the schema or
// supply explicit values to break the cycle manually.
type CycleError struct {
	// Path holds the table names along the creation chain, ending with
	// the table that closed the cycle.
	Path []string
}

// Error returns the error string.
func (e *CycleError) Error() string {
	return fmt.Sprintf(
		"fabrica: circular dependency detected in table creation chain: %s",
		strings.Join(e.Path, " -> "),
	)
}

// IsCycleError returns true if the error is a CycleError.
func IsCycleError(err error) bool {
	if err == nil {
		return false
	}
	var e *CycleError
	return errors.As(err, &e)
}

// SelfReferenceError is returned when a table declares a NOT NULL foreign
// key to itself. No insertion order can satisfy such a schema without
// deferred constraints, so it is reported as a schema-level error.
type SelfReferenceError struct {
	Table  string
	Column string
}

// Error returns the error string.
func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("fabrica: not null self-reference %s.%s is impossible to populate", e.Table, e.Column)
}

// IsSelfReferenceError returns true if the error is a SelfReferenceError.
func IsSelfReferenceError(err error) bool {
	if err == nil {
		return false
	}
	var e *SelfReferenceError
	return errors.As(err, &e)
}

// UnsupportedTypeError is returned when no value generator resolves for a
// column that requires one. Recoverable by registering a generator for
// the column or its type and building again.
type UnsupportedTypeError struct {
	Table  string
	Column string
	Type   string
}

// Error returns the error string.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf(
		"fabrica: unsupported type %s for column %s.%s: register a generator via RegisterTypeGenerator or WithGenerator",
		e.Type, e.Table, e.Column,
	)
}

// IsUnsupportedType returns true if the error is an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedTypeError
	return errors.As(err, &e)
}

// MissingPrimaryKeyError is returned when a table without a primary key is
// asked to participate as a foreign key target or is looked up by primary
// key.
type MissingPrimaryKeyError struct {
	Table string
}

// Error returns the error string.
func (e *MissingPrimaryKeyError) Error() string {
	return fmt.Sprintf("fabrica: table %s has no primary key", e.Table)
}

// IsMissingPrimaryKey returns true if the error is a MissingPrimaryKeyError.
func IsMissingPrimaryKey(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingPrimaryKeyError
	return errors.As(err, &e)
}

// NotFoundError is returned by Get when no row matches the primary key.
type NotFoundError struct {
	table string
	pk    any
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("fabrica: %s row not found (pk=%v)", e.table, e.pk)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Table returns the table name that was queried.
func (e *NotFoundError) Table() string {
	return e.table
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// ConstraintError wraps a constraint violation raised by the database
// driver during insert, such as a check constraint the factory does not
// model. The underlying driver error is preserved for errors.As.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("fabrica: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e *ConstraintError) Unwrap() error {
	return e.wrap
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConstraintError
	return errors.As(err, &e)
}

// ConfigError reports a misuse of the builder or definition API, such as
// activating an unknown trait or building a table that is not part of the
// schema.
type ConfigError struct {
	msg string
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	return "fabrica: " + e.msg
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}
