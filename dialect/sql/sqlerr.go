package sql

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// mysql error numbers for constraint violations.
const (
	mysqlDupEntry      = 1062
	mysqlNoRefRow      = 1216
	mysqlNoRefRow2     = 1452
	mysqlRowIsRef      = 1217
	mysqlRowIsRef2     = 1451
	mysqlBadNull       = 1048
	mysqlCheckViolated = 3819
)

// IsConstraintViolation reports whether err is a constraint violation
// raised by one of the supported drivers: a unique, foreign key, not-null
// or check constraint failure. Errors from other sources return false.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqerr *pq.Error
	if errors.As(err, &pqerr) {
		// Class 23 - Integrity Constraint Violation.
		return strings.HasPrefix(string(pqerr.Code), "23")
	}
	var myerr *mysql.MySQLError
	if errors.As(err, &myerr) {
		switch myerr.Number {
		case mysqlDupEntry, mysqlNoRefRow, mysqlNoRefRow2,
			mysqlRowIsRef, mysqlRowIsRef2, mysqlBadNull, mysqlCheckViolated:
			return true
		}
		return false
	}
	// modernc.org/sqlite reports constraint failures through error text
	// only; the extended codes are not exported as typed errors.
	msg := err.Error()
	return strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint") ||
		strings.Contains(msg, "NOT NULL constraint") ||
		strings.Contains(msg, "CHECK constraint")
}

// IsUniqueViolation reports whether err is specifically a unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqerr *pq.Error
	if errors.As(err, &pqerr) {
		return pqerr.Code == "23505"
	}
	var myerr *mysql.MySQLError
	if errors.As(err, &myerr) {
		return myerr.Number == mysqlDupEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}

// IsForeignKeyViolation reports whether err is specifically a foreign
// key constraint violation.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqerr *pq.Error
	if errors.As(err, &pqerr) {
		return pqerr.Code == "23503"
	}
	var myerr *mysql.MySQLError
	if errors.As(err, &myerr) {
		switch myerr.Number {
		case mysqlNoRefRow, mysqlNoRefRow2, mysqlRowIsRef, mysqlRowIsRef2:
			return true
		}
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint")
}
