package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

var expenses = []storage.Expense{
	{ID: "a", Amount: 1250, Category: storage.CategoryFood, Date: "2024-05-01", Note: "lunch, with team"},
	{ID: "b", Amount: 300000, Category: storage.CategoryHousing, Date: "2024-05-02"},
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, expenses))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{"a", "2024-05-01", "Food", "12.50", "lunch, with team"}, records[1])
	assert.Equal(t, []string{"b", "2024-05-02", "Housing", "3000.00", ""}, records[2])
}

func TestCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, nil))
	assert.Equal(t, "id,date,category,amount,note\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, expenses))

	var decoded []storage.Expense
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, expenses, decoded)
	assert.Contains(t, buf.String(), `"amount": 12.5`)
}

func TestJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
