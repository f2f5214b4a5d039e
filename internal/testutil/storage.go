package testutil

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/GustavoCaso/spendwatch/internal/logger"
	"github.com/GustavoCaso/spendwatch/internal/storage"
	"github.com/GustavoCaso/spendwatch/internal/storage/memory"
)

var ErrUnavailable = errors.New("storage medium unavailable")

// NewTestStore returns a store over a fresh in-memory backend.
func NewTestStore(t *testing.T, logger *logger.Logger) *storage.Store {
	t.Helper()

	s := storage.New(memory.New(), logger)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Failed to close test store: %v", err)
		}
	})
	return s
}

// FlakyBackend wraps a Backend and fails the operations whose switch is on.
type FlakyBackend struct {
	storage.Backend

	FailReads  atomic.Bool
	FailWrites atomic.Bool
	FailClear  atomic.Bool

	// ConflictWrites makes the next N writes report a version conflict.
	ConflictWrites atomic.Int32

	// Reads counts every Read call, failed ones included.
	Reads atomic.Int64
}

func NewFlakyBackend() *FlakyBackend {
	return &FlakyBackend{Backend: memory.New()}
}

func (f *FlakyBackend) Read(ctx context.Context, c storage.Collection) ([]byte, storage.Version, error) {
	f.Reads.Add(1)
	if f.FailReads.Load() {
		return nil, "", ErrUnavailable
	}
	return f.Backend.Read(ctx, c)
}

func (f *FlakyBackend) Write(
	ctx context.Context,
	c storage.Collection,
	data []byte,
	expected storage.Version,
) (storage.Version, error) {
	if f.FailWrites.Load() {
		return "", ErrUnavailable
	}
	if f.ConflictWrites.Load() > 0 {
		f.ConflictWrites.Add(-1)
		return "", &storage.ConflictError{Collection: c, Expected: expected, Actual: "elsewhere"}
	}
	return f.Backend.Write(ctx, c, data, expected)
}

func (f *FlakyBackend) Clear(ctx context.Context, collections ...storage.Collection) error {
	if f.FailClear.Load() {
		return ErrUnavailable
	}
	return f.Backend.Clear(ctx, collections...)
}
