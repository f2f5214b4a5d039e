package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/GustavoCaso/spendwatch/internal/logger"
)

// Collection names one of the independently stored JSON arrays.
type Collection string

const (
	ExpensesCollection      Collection = "expenses"
	BudgetsCollection       Collection = "budgets"
	NotificationsCollection Collection = "notifications"
	AlertsCollection        Collection = "alerts"
)

// AllCollections is also the order in which ClearAll takes collection locks.
var AllCollections = []Collection{
	ExpensesCollection,
	BudgetsCollection,
	NotificationsCollection,
	AlertsCollection,
}

// Version is an opaque token identifying one stored state of a collection.
// The empty Version means the collection has never been written.
type Version string

// Backend is the durable medium. Read returns nil data and an empty Version
// for a collection that does not exist. Write must fail with *ConflictError
// when expected is not the current version.
type Backend interface {
	Read(ctx context.Context, c Collection) ([]byte, Version, error)
	Write(ctx context.Context, c Collection, data []byte, expected Version) (Version, error)
	Clear(ctx context.Context, collections ...Collection) error
	Close() error
}

const writeAttempts = 2

// Store serialises every read-modify-write on a collection through a
// per-collection mutex and relies on the backend version check to detect
// writers outside this process.
type Store struct {
	backend Backend
	logger  *logger.Logger

	mu    sync.Mutex
	locks map[Collection]*sync.Mutex
}

func New(backend Backend, logger *logger.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With("component", "store"),
		locks:   make(map[Collection]*sync.Mutex),
	}
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) lock(c Collection) func() {
	s.mu.Lock()
	l, ok := s.locks[c]
	if !ok {
		l = &sync.Mutex{}
		s.locks[c] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// update runs fn against the latest stored bytes of c and writes the result
// with the version that was read. A version conflict is retried once with a
// fresh read; a second conflict is reported as a PersistenceError.
func (s *Store) update(ctx context.Context, c Collection, fn func(current []byte) ([]byte, bool, error)) error {
	unlock := s.lock(c)
	defer unlock()

	var conflict error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, version, err := s.backend.Read(ctx, c)
		if err != nil {
			return &PersistenceError{Op: "read", Collection: c, Err: err}
		}

		next, changed, err := fn(data)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		_, err = s.backend.Write(ctx, c, next, version)
		if err == nil {
			return nil
		}

		var conflictErr *ConflictError
		if !errors.As(err, &conflictErr) {
			return &PersistenceError{Op: "write", Collection: c, Err: err}
		}

		s.logger.Warn("Collection changed during write", "collection", c, "attempt", attempt, "error", err)
		conflict = err
	}

	return &PersistenceError{Op: "write", Collection: c, Err: conflict}
}

func decode[T any](c Collection, data []byte) ([]T, error) {
	records := []T{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &PersistenceError{Op: "decode", Collection: c, Err: err}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func encode[T any](c Collection, records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, &PersistenceError{Op: "encode", Collection: c, Err: err}
	}
	return data, nil
}

func modify[T any](ctx context.Context, s *Store, c Collection, fn func(records []T) ([]T, bool)) error {
	return s.update(ctx, c, func(current []byte) ([]byte, bool, error) {
		records, err := decode[T](c, current)
		if err != nil {
			return nil, false, err
		}

		next, changed := fn(records)
		if !changed {
			return nil, false, nil
		}

		data, err := encode(c, next)
		if err != nil {
			return nil, false, err
		}
		return data, true, nil
	})
}

// ReadCollection returns every record of c. A collection that was never
// written is an empty slice, not an error.
func ReadCollection[T any](ctx context.Context, s *Store, c Collection) ([]T, error) {
	data, _, err := s.backend.Read(ctx, c)
	if err != nil {
		return nil, &PersistenceError{Op: "read", Collection: c, Err: err}
	}
	return decode[T](c, data)
}

// ReplaceCollection overwrites c with records, whatever it held before.
func ReplaceCollection[T any](ctx context.Context, s *Store, c Collection, records []T) error {
	data, err := encode(c, records)
	if err != nil {
		return err
	}
	return s.update(ctx, c, func([]byte) ([]byte, bool, error) {
		return data, true, nil
	})
}

// AppendRecord adds record to the end of c.
func AppendRecord[T any](ctx context.Context, s *Store, c Collection, record T) error {
	return modify(ctx, s, c, func(records []T) ([]T, bool) {
		return append(records, record), true
	})
}

// UpsertByKey replaces the first record of c whose key matches record's key,
// or appends record when none does.
func UpsertByKey[T any, K comparable](ctx context.Context, s *Store, c Collection, record T, key func(T) K) error {
	want := key(record)
	return modify(ctx, s, c, func(records []T) ([]T, bool) {
		for i := range records {
			if key(records[i]) == want {
				records[i] = record
				return records, true
			}
		}
		return append(records, record), true
	})
}

// ClearAll removes every collection. It holds all collection locks so no
// append can interleave with the clear.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, c := range AllCollections {
		unlock := s.lock(c)
		defer unlock()
	}

	if err := s.backend.Clear(ctx, AllCollections...); err != nil {
		return &PersistenceError{Op: "clear", Err: err}
	}
	return nil
}
