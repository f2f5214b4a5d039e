package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

// Header is the first row of every CSV export. Imports accept the same columns.
var Header = []string{"id", "date", "category", "amount", "note"}

// CSV exports expenses to CSV format
// format: id,date,category,amount,note
func CSV(writer io.Writer, expenses []storage.Expense) error {
	w := csv.NewWriter(writer)

	records := make([][]string, 0, len(expenses)+1)
	records = append(records, Header)
	for _, expense := range expenses {
		records = append(records, []string{
			expense.ID,
			expense.Date,
			string(expense.Category),
			expense.Amount.String(),
			expense.Note,
		})
	}

	// WriteAll flushes
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV records: %w", err)
	}
	return nil
}

// JSON exports expenses as an indented array of the persisted expense shape.
func JSON(writer io.Writer, expenses []storage.Expense) error {
	if expenses == nil {
		expenses = []storage.Expense{}
	}
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(expenses); err != nil {
		return fmt.Errorf("failed to write JSON records: %w", err)
	}
	return nil
}
