// Package storagetest holds the behaviour every storage.Backend must share.
// Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCaso/spendwatch/internal/logger"
	"github.com/GustavoCaso/spendwatch/internal/storage"
)

// Run exercises newBackend against the backend contract. Every subtest gets a
// fresh backend.
func Run(t *testing.T, newBackend func(t *testing.T) storage.Backend) {
	t.Helper()

	t.Run("missing collection", func(t *testing.T) {
		b := newBackend(t)

		data, version, err := b.Read(context.Background(), storage.ExpensesCollection)
		require.NoError(t, err)
		assert.Nil(t, data)
		assert.Equal(t, storage.Version(""), version)
	})

	t.Run("write then read", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		written, err := b.Write(ctx, storage.BudgetsCollection, []byte(`[{"limit":100,"month":"2024-05"}]`), "")
		require.NoError(t, err)
		assert.NotEmpty(t, written)

		data, version, err := b.Read(ctx, storage.BudgetsCollection)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"limit":100,"month":"2024-05"}]`, string(data))
		assert.Equal(t, written, version)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		first, err := b.Write(ctx, storage.ExpensesCollection, []byte(`[]`), "")
		require.NoError(t, err)

		_, err = b.Write(ctx, storage.ExpensesCollection, []byte(`[{"id":"a"}]`), first)
		require.NoError(t, err)

		_, err = b.Write(ctx, storage.ExpensesCollection, []byte(`[{"id":"b"}]`), first)
		var conflict *storage.ConflictError
		require.True(t, errors.As(err, &conflict), "expected conflict, got %v", err)
		assert.Equal(t, storage.ExpensesCollection, conflict.Collection)

		_, err = b.Write(ctx, storage.NotificationsCollection, []byte(`[]`), first)
		require.True(t, errors.As(err, &conflict), "creating with a version must conflict, got %v", err)

		data, _, err := b.Read(ctx, storage.ExpensesCollection)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"a"}]`, string(data))
	})

	t.Run("clear", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		for _, c := range storage.AllCollections {
			_, err := b.Write(ctx, c, []byte(`[]`), "")
			require.NoError(t, err)
		}

		require.NoError(t, b.Clear(ctx, storage.ExpensesCollection, storage.BudgetsCollection))

		for _, c := range []storage.Collection{storage.ExpensesCollection, storage.BudgetsCollection} {
			data, version, err := b.Read(ctx, c)
			require.NoError(t, err)
			assert.Nil(t, data)
			assert.Empty(t, version)
		}

		data, _, err := b.Read(ctx, storage.NotificationsCollection)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(data))

		require.NoError(t, b.Clear(ctx, storage.AllCollections...), "clearing missing collections is not an error")
	})

	t.Run("concurrent appends through a store", func(t *testing.T) {
		store := storage.New(newBackend(t), logger.New(logger.Config{Output: "discard"}))
		ctx := context.Background()

		const writers = 25
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- store.AppendExpense(ctx, storage.Expense{
					ID:       string(rune('a' + i)),
					Amount:   storage.NewAmount(1, 0),
					Category: storage.CategoryFood,
					Date:     "2024-05-01",
				})
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		expenses, err := store.Expenses(ctx)
		require.NoError(t, err)
		assert.Len(t, expenses, writers)
	})
}
