package ledger

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Category sentinels for storage failures. Callers match them with errors.Is
// through the wrapping PersistenceError.
var (
	// ErrConstraintViolation marks uniqueness or foreign-key violations; the
	// whole unit of work was rolled back.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrConcurrency marks lock-wait timeouts and deadlocks. Nothing was
	// persisted; the caller may retry the whole operation.
	ErrConcurrency = errors.New("concurrent update conflict")
	// ErrConnectivity marks an unreachable or closed storage backend.
	ErrConnectivity = errors.New("storage unreachable")
)

// ValidationError rejects malformed input before any write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a storage failure with the operation and entity it
// occurred on. It unwraps to both the category sentinel and the underlying
// driver error.
type PersistenceError struct {
	Op     string
	Entity string
	Kind   error // one of the category sentinels above, nil if unclassified
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	if e.Kind != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Err}
}

// wrapStorageErr classifies err into the taxonomy above. Unique and FK
// violations arrive as gorm sentinels (TranslateError); lock and
// connectivity failures are matched on the driver message because neither
// sqlite nor postgres exposes a portable error type for them.
func wrapStorageErr(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	pe := &PersistenceError{Op: op, Entity: entity, Err: err}
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		pe.Kind = ErrConstraintViolation
	case strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "database table is locked"),
		strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "lock timeout"),
		strings.Contains(msg, "could not obtain lock"):
		pe.Kind = ErrConcurrency
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "bad connection"),
		strings.Contains(msg, "database is closed"):
		pe.Kind = ErrConnectivity
	}
	return pe
}
