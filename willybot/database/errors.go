package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun/driver/pgdriver"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// RepositoryError wraps a storage failure that is neither a missing row nor
// a constraint violation.
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// NotFoundError is returned when a lookup matches no row, or when a write
// names an attribute the table does not recognise.
type NotFoundError struct {
	Entity string
	Key    string
	ID     any
}

func (nfe *NotFoundError) Error() string {
	key := nfe.Key
	if key == "" {
		key = "id"
	}
	return fmt.Sprintf("%s with %s %v not found", nfe.Entity, key, nfe.ID)
}

// ConstraintError is a uniqueness or foreign-key violation on write.
type ConstraintError struct {
	Entity string
	Err    error
}

func (ce *ConstraintError) Error() string {
	return fmt.Sprintf("%s violates a constraint: %v", ce.Entity, ce.Err)
}

func (ce *ConstraintError) Unwrap() error {
	return ce.Err
}

// ValidationError reports malformed user supplied input.
type ValidationError struct {
	Field  string
	Reason string
}

func (ve *ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Reason
	}
	return fmt.Sprintf("invalid %s: %s", ve.Field, ve.Reason)
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConstraint(err error) bool {
	var target *ConstraintError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// translate maps driver errors onto the error taxonomy.
func translate(operation, entity string, id any, err error) error {
	if err == nil {
		return nil
	}
	var (
		nf *NotFoundError
		ce *ConstraintError
		ve *ValidationError
	)
	if errors.As(err, &nf) || errors.As(err, &ce) || errors.As(err, &ve) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	if isConstraintViolation(err) {
		return &ConstraintError{Entity: entity, Err: err}
	}
	return &RepositoryError{Operation: operation, Entity: entity, Err: err}
}

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		// Extended result codes keep the primary code in the low byte.
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.IntegrityViolation()
	}
	return false
}
