package nodes

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedStatement is returned when a statement lacks a clause that
	// is required to render it.
	ErrMalformedStatement = errors.New("squill: malformed statement")

	// ErrUnsupported is returned when a construct cannot be expressed in the
	// target dialect. The same statement may render for another dialect.
	ErrUnsupported = errors.New("squill: unsupported construct")
)

// MalformedStatementError describes a missing or inconsistent clause.
type MalformedStatementError struct {
	Statement string // statement kind, e.g. "insert"
	Reason    string
}

func (e *MalformedStatementError) Error() string {
	return fmt.Sprintf("squill: malformed %s statement: %s", e.Statement, e.Reason)
}

// Is reports whether target is ErrMalformedStatement.
func (e *MalformedStatementError) Is(target error) bool {
	return target == ErrMalformedStatement
}

// Malformed returns a MalformedStatementError.
func Malformed(statement, reason string) error {
	return &MalformedStatementError{Statement: statement, Reason: reason}
}

// UnsupportedError names a construct a dialect cannot express.
type UnsupportedError struct {
	Dialect   string
	Construct string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("squill: %s does not support %s", e.Dialect, e.Construct)
}

// Is reports whether target is ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Unsupported returns an UnsupportedError.
func Unsupported(dialect, construct string) error {
	return &UnsupportedError{Dialect: dialect, Construct: construct}
}
