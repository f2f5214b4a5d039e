// Package memory keeps collections in process memory. It is used by tests and
// by ephemeral runs configured with the "memory" backend.
package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

type entry struct {
	data    []byte
	version uint64
}

type Backend struct {
	mu      sync.Mutex
	seq     uint64
	entries map[storage.Collection]entry
}

func New() *Backend {
	return &Backend{entries: make(map[storage.Collection]entry)}
}

func (b *Backend) current(c storage.Collection) (entry, storage.Version) {
	e, ok := b.entries[c]
	if !ok {
		return entry{}, ""
	}
	return e, storage.Version(strconv.FormatUint(e.version, 10))
}

func (b *Backend) Read(_ context.Context, c storage.Collection) ([]byte, storage.Version, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, version := b.current(c)
	if version == "" {
		return nil, "", nil
	}
	return append([]byte(nil), e.data...), version, nil
}

func (b *Backend) Write(_ context.Context, c storage.Collection, data []byte, expected storage.Version) (storage.Version, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, actual := b.current(c); actual != expected {
		return "", &storage.ConflictError{Collection: c, Expected: expected, Actual: actual}
	}

	b.seq++
	b.entries[c] = entry{data: append([]byte(nil), data...), version: b.seq}
	return storage.Version(strconv.FormatUint(b.seq, 10)), nil
}

func (b *Backend) Clear(_ context.Context, collections ...storage.Collection) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range collections {
		delete(b.entries, c)
	}
	return nil
}

func (b *Backend) Close() error {
	return nil
}
