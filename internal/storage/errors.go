package storage

import "fmt"

// PersistenceError reports that the storage medium could not read, decode or
// write a collection.
type PersistenceError struct {
	Op         string
	Collection Collection
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ConflictError is returned by a Backend when the version a writer read is no
// longer the stored one.
type ConflictError struct {
	Collection Collection
	Expected   Version
	Actual     Version
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("collection %s changed: expected version %q, found %q", e.Collection, e.Expected, e.Actual)
}
