package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCaso/spendwatch/internal/storage"
	"github.com/GustavoCaso/spendwatch/internal/testutil"
)

func newStore(t *testing.T) (*storage.Store, *testutil.FlakyBackend) {
	t.Helper()
	backend := testutil.NewFlakyBackend()
	return storage.New(backend, testutil.TestLogger(t)), backend
}

func TestReadCollectionEmpty(t *testing.T) {
	store, _ := newStore(t)

	expenses, err := store.Expenses(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, expenses)
	assert.Empty(t, expenses)
}

func TestReadCollectionCorrupt(t *testing.T) {
	store, backend := newStore(t)
	_, err := backend.Write(t.Context(), storage.ExpensesCollection, []byte(`{not json`), "")
	require.NoError(t, err)

	_, err = store.Expenses(t.Context())
	var persistErr *storage.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "decode", persistErr.Op)
	assert.Equal(t, storage.ExpensesCollection, persistErr.Collection)
}

func TestReplaceCollectionRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := t.Context()

	records := []storage.Expense{
		{ID: "a", Amount: 2550, Category: storage.CategoryFood, Date: "2024-05-01", Note: "lunch"},
		{ID: "b", Amount: 1, Category: storage.CategoryOther, Date: "2024-05-02"},
	}
	require.NoError(t, storage.ReplaceCollection(ctx, store, storage.ExpensesCollection, records))

	got, err := store.Expenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	require.NoError(t, storage.ReplaceCollection[storage.Expense](ctx, store, storage.ExpensesCollection, nil))
	got, err = store.Expenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpsertBudget(t *testing.T) {
	store, _ := newStore(t)
	ctx := t.Context()

	require.NoError(t, store.UpsertBudget(ctx, storage.Budget{Limit: 100000, Month: "2024-05"}))
	require.NoError(t, store.UpsertBudget(ctx, storage.Budget{Limit: 50000, Month: "2024-06"}))
	require.NoError(t, store.UpsertBudget(ctx, storage.Budget{Limit: 120000, Month: "2024-05"}))

	budgets, err := store.Budgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []storage.Budget{
		{Limit: 120000, Month: "2024-05"},
		{Limit: 50000, Month: "2024-06"},
	}, budgets)

	b, err := store.BudgetForMonth(ctx, "2024-05")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, storage.Amount(120000), b.Limit)

	b, err = store.BudgetForMonth(ctx, "2024-07")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestMarkNotificationRead(t *testing.T) {
	store, _ := newStore(t)
	ctx := t.Context()

	notifications := []storage.Notification{
		{ID: "n1", Title: "Expense Added", Body: "one", Date: "2024-05-01T10:00:00.000Z"},
		{ID: "n2", Title: "Budget Warning", Body: "two", Date: "2024-05-02T10:00:00.000Z"},
		{ID: "n3", Title: "Expense Added", Body: "three", Date: "2024-05-03T10:00:00.000Z", Read: true},
	}
	for _, n := range notifications {
		require.NoError(t, store.AppendNotification(ctx, n))
	}

	found, err := store.MarkNotificationRead(ctx, "n2")
	require.NoError(t, err)
	assert.True(t, found)

	got, err := store.Notifications(ctx)
	require.NoError(t, err)
	want := append([]storage.Notification(nil), notifications...)
	want[1].Read = true
	assert.Equal(t, want, got)

	found, err = store.MarkNotificationRead(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	again, err := store.Notifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestAlertLevels(t *testing.T) {
	store, _ := newStore(t)
	ctx := t.Context()

	raised, err := store.RaiseAlertLevel(ctx, "2024-05", 1)
	require.NoError(t, err)
	assert.True(t, raised)

	raised, err = store.RaiseAlertLevel(ctx, "2024-05", 1)
	require.NoError(t, err)
	assert.False(t, raised)

	raised, err = store.RaiseAlertLevel(ctx, "2024-05", 2)
	require.NoError(t, err)
	assert.True(t, raised)

	raised, err = store.RaiseAlertLevel(ctx, "2024-06", 1)
	require.NoError(t, err)
	assert.True(t, raised)

	require.NoError(t, store.LowerAlertLevel(ctx, "2024-06", 2))
	require.NoError(t, store.LowerAlertLevel(ctx, "2024-05", 1))

	markers, err := store.AlertMarkers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []storage.AlertMarker{{Month: "2024-05", Level: 1}, {Month: "2024-06", Level: 1}}, markers)

	require.NoError(t, store.LowerAlertLevel(ctx, "2024-05", 0))

	markers, err = store.AlertMarkers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []storage.AlertMarker{{Month: "2024-06", Level: 1}}, markers)

	raised, err = store.RaiseAlertLevel(ctx, "2024-05", 1)
	require.NoError(t, err)
	assert.True(t, raised)
}

func TestConflictIsRetriedOnce(t *testing.T) {
	store, backend := newStore(t)
	ctx := t.Context()

	backend.ConflictWrites.Store(1)
	require.NoError(t, store.AppendExpense(ctx, storage.Expense{ID: "a", Amount: 100, Category: storage.CategoryFood, Date: "2024-05-01"}))

	expenses, err := store.Expenses(ctx)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)

	backend.ConflictWrites.Store(2)
	err = store.AppendExpense(ctx, storage.Expense{ID: "b", Amount: 100, Category: storage.CategoryFood, Date: "2024-05-01"})

	var persistErr *storage.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	var conflict *storage.ConflictError
	require.ErrorAs(t, err, &conflict)

	expenses, err = store.Expenses(ctx)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)
}

func TestWriteFailure(t *testing.T) {
	store, backend := newStore(t)
	backend.FailWrites.Store(true)

	err := store.UpsertBudget(t.Context(), storage.Budget{Limit: 1, Month: "2024-05"})
	var persistErr *storage.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "write", persistErr.Op)
	assert.ErrorIs(t, err, testutil.ErrUnavailable)
}

func TestClearAll(t *testing.T) {
	store, backend := newStore(t)
	ctx := t.Context()

	require.NoError(t, store.AppendExpense(ctx, storage.Expense{ID: "a", Amount: 1, Category: storage.CategoryFood, Date: "2024-05-01"}))
	require.NoError(t, store.UpsertBudget(ctx, storage.Budget{Limit: 1, Month: "2024-05"}))
	require.NoError(t, store.AppendNotification(ctx, storage.Notification{ID: "n"}))
	_, err := store.RaiseAlertLevel(ctx, "2024-05", 1)
	require.NoError(t, err)

	require.NoError(t, store.ClearAll(ctx))

	for _, c := range storage.AllCollections {
		records, err := storage.ReadCollection[json.RawMessage](ctx, store, c)
		require.NoError(t, err)
		assert.Empty(t, records, c)
	}

	backend.FailClear.Store(true)
	err = store.ClearAll(ctx)
	var persistErr *storage.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "clear", persistErr.Op)
}

func TestCancelledContext(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := store.AppendExpense(ctx, storage.Expense{ID: "a"})
	require.True(t, errors.Is(err, context.Canceled))
}
