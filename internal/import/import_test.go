package importutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCaso/spendwatch/internal/category"
	"github.com/GustavoCaso/spendwatch/internal/identifier"
	"github.com/GustavoCaso/spendwatch/internal/ledger"
	"github.com/GustavoCaso/spendwatch/internal/notify"
	"github.com/GustavoCaso/spendwatch/internal/storage"
	"github.com/GustavoCaso/spendwatch/internal/testutil"
)

func newService(t *testing.T) *ledger.Service {
	t.Helper()

	logger := testutil.TestLogger(t)
	store := testutil.NewTestStore(t, logger)
	ids := identifier.NewFast()
	dispatcher := notify.NewDispatcher(store, notify.Discard{}, ids, logger)
	now := func() time.Time { return time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC) }
	return ledger.New(store, dispatcher, ids, logger, ledger.Config{}, ledger.WithClock(now))
}

func TestImport(t *testing.T) {
	service := newService(t)
	data := &ParsedData{
		Headers: []string{"date", "category", "amount", "note"},
		Rows: [][]string{
			{"2024-05-01", "food", "12.50", "lunch"},
			{"", "Travel", "99", ""},
			{"2024-05-03", "Food", "abc", ""},
			{"2024-05-04", "Pets", "10", ""},
		},
	}

	result, err := Import(t.Context(), service, data, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Errors, 2)

	var rowErr *RowError
	require.True(t, errors.As(result.Errors[0], &rowErr))
	assert.Equal(t, 3, rowErr.Row)
	assert.ErrorIs(t, result.Errors[0], storage.ErrInvalidAmount)

	require.True(t, errors.As(result.Errors[1], &rowErr))
	assert.Equal(t, 4, rowErr.Row)
	var validation *ledger.ValidationError
	assert.True(t, errors.As(result.Errors[1], &validation))

	expenses := service.ListExpenses(t.Context())
	require.Len(t, expenses, 2)
	assert.Equal(t, storage.CategoryFood, expenses[0].Category)
	assert.Equal(t, "2024-05-20", expenses[1].Date, "missing dates default to today")
}

func TestImportMissingColumn(t *testing.T) {
	_, err := Import(t.Context(), newService(t), &ParsedData{
		Headers: []string{"date", "amount"},
		Rows:    [][]string{{"2024-05-01", "1"}},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"category"`)
}

func TestImportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	result, err := Import(ctx, newService(t), &ParsedData{
		Headers: []string{"category", "amount"},
		Rows:    [][]string{{"Food", "1"}},
	}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Imported)
}

func TestImportMatchesNotes(t *testing.T) {
	matcher, err := category.NewMatcher(nil)
	require.NoError(t, err)

	service := newService(t)
	result, err := Import(t.Context(), service, &ParsedData{
		Headers: []string{"amount", "note"},
		Rows: [][]string{
			{"8", "taxi home"},
			{"3", "mystery"},
		},
	}, matcher)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)

	expenses := service.ListExpenses(t.Context())
	require.Len(t, expenses, 1)
	assert.Equal(t, storage.CategoryTransportation, expenses[0].Category)
}
