package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GustavoCaso/spendwatch/internal/export"
	"github.com/GustavoCaso/spendwatch/internal/filter"
	"github.com/GustavoCaso/spendwatch/internal/ledger"
	"github.com/GustavoCaso/spendwatch/internal/report"
	"github.com/GustavoCaso/spendwatch/internal/storage"
)

func (rt *router) createExpense(w http.ResponseWriter, r *http.Request) {
	var input ledger.ExpenseInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := rt.service.RecordExpense(r.Context(), input)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

// expenses reads the collection once and narrows it to ?month= when set.
func (rt *router) expenses(r *http.Request) []storage.Expense {
	expenses := rt.service.ListExpenses(r.Context())
	if month := r.URL.Query().Get("month"); month != "" {
		expenses = report.FilterByMonth(expenses, month)
	}
	return expenses
}

func (rt *router) listExpenses(w http.ResponseWriter, r *http.Request) {
	f, sort, err := filter.ParseExpenseFilters(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses := rt.expenses(r)
	if f.Empty() && r.URL.Query().Get("sort") == "" {
		writeJSON(w, http.StatusOK, expenses)
		return
	}
	writeJSON(w, http.StatusOK, filter.Apply(expenses, f, sort))
}

func (rt *router) exportExpenses(w http.ResponseWriter, r *http.Request) {
	expenses := rt.expenses(r)

	var err error
	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
		err = export.CSV(w, expenses)
	case "json":
		w.Header().Set("Content-Type", "application/json")
		err = export.JSON(w, expenses)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}
	if err != nil {
		rt.logger.Error("Failed to export expenses", "error", err)
	}
}

type budgetRequest struct {
	Limit storage.Amount `json:"limit"`
}

func (rt *router) setBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := rt.service.SetBudget(r.Context(), storage.Budget{
		Limit: req.Limit,
		Month: chi.URLParam(r, "month"),
	})
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *router) getBudget(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	b := rt.service.GetBudgetForMonth(r.Context(), month)
	if b == nil {
		writeError(w, http.StatusNotFound, "no budget for "+month)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (rt *router) listNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.service.NotificationHistory(r.Context()))
}

func (rt *router) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := rt.service.MarkNotificationRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *router) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := rt.service.Summary(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (rt *router) resetData(w http.ResponseWriter, r *http.Request) {
	if err := rt.service.ResetAllData(r.Context()); err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
