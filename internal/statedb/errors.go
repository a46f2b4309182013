package statedb

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch indicates the database was written by a different
// schema version. Ward state is never auto-migrated or discarded; the
// operator must move the file aside or export it first.
var ErrSchemaMismatch = errors.New("state database schema version mismatch")

// PersistenceError wraps a durable-store read or write failure. An applied
// in-memory transition is not rolled back when one is returned; the live
// session remains authoritative and the risk is restart-time data loss.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err originates in the durable store.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

func persistenceErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
