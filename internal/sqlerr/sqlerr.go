// Package sqlerr handles database driver errors.
//
// It parses cryptic error codes from the SQLite driver and converts
// them into consistent application errors (e.g. turning a UNIQUE
// constraint failure on person.dni into a 400 with a
// PERSON_ALREADY_EXISTS code and a message a client can display).
package sqlerr

import (
	"errors"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Code classifies a database error into the categories the application
// cares about.
type Code int

const (
	// Other is any database error that is not a recognized constraint
	// violation.
	Other Code = iota
	UniqueViolation
	NotNullViolation
	ForeignKeyViolation
	CheckViolation
)

// Error is the normalized form of a SQLite driver error.
//
// TableName and ColumnName are parsed from the driver message when
// SQLite includes them (unique and not-null violations name the exact
// "table.column"; foreign key failures do not).
type Error struct {
	Code         Code
	DatabaseCode int    // SQLite extended result code
	Message      string // driver's message
	TableName    string
	ColumnName   string

	driverErr error
}

// Error satisfies the error interface with the driver's message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the original driver error for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// ErrCode reports the mapped Code for err, or Other when err does not
// wrap a *sqlerr.Error.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// MapCode maps a go-sqlite3 extended error code onto a Code.
//
// A primary-key violation is reported as UniqueViolation: the rowid
// primary key is just another uniqueness constraint from the client's
// point of view.
func MapCode(code sqlite3.ErrNoExtended) Code {
	switch code {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintRowID:
		return UniqueViolation
	case sqlite3.ErrConstraintNotNull:
		return NotNullViolation
	case sqlite3.ErrConstraintForeignKey:
		return ForeignKeyViolation
	case sqlite3.ErrConstraintCheck:
		return CheckViolation
	default:
		return Other
	}
}

// ConvertSqliteError converts a raw sqlite3.Error into our normalized
// Error, parsing table/column metadata out of the message text.
func ConvertSqliteError(src sqlite3.Error) *Error {
	table, column := parseConstraintTarget(src.Error())

	return &Error{
		Code:         MapCode(src.ExtendedCode),
		DatabaseCode: int(src.ExtendedCode),
		Message:      src.Error(),
		TableName:    table,
		ColumnName:   column,
		driverErr:    src,
	}
}

// parseConstraintTarget extracts "table" and "column" from SQLite
// constraint messages of the form
//
//	UNIQUE constraint failed: person.dni
//	NOT NULL constraint failed: person.first_name
//
// Foreign key failures ("FOREIGN KEY constraint failed") carry no
// target, so both results are empty.
func parseConstraintTarget(message string) (table, column string) {
	_, target, ok := strings.Cut(message, "constraint failed: ")
	if !ok {
		return "", ""
	}

	// Multi-column constraints list targets comma-separated; the first
	// one is enough to phrase a useful message.
	if first, _, found := strings.Cut(target, ","); found {
		target = first
	}
	target = strings.TrimSpace(target)

	table, column, ok = strings.Cut(target, ".")
	if !ok {
		return "", ""
	}
	return table, column
}
