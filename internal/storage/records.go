package storage

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryHousing        Category = "Housing"
	CategoryUtilities      Category = "Utilities"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealthcare     Category = "Healthcare"
	CategoryShopping       Category = "Shopping"
	CategoryEducation      Category = "Education"
	CategoryTravel         Category = "Travel"
	CategoryOther          Category = "Other"
)

// Categories lists every category an expense can be recorded against, in the
// order they are offered to users.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryShopping,
	CategoryEducation,
	CategoryTravel,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// NormalizeCategory maps name onto a known category ignoring case and
// surrounding space. Unknown names come back trimmed but otherwise unchanged.
func NormalizeCategory(name string) Category {
	name = strings.TrimSpace(name)
	for _, c := range Categories {
		if strings.EqualFold(string(c), name) {
			return c
		}
	}
	return Category(name)
}

const (
	DateLayout         = "2006-01-02"
	MonthLayout        = "2006-01"
	NotificationLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Expense is immutable once recorded.
type Expense struct {
	ID       string   `json:"id" validate:"required"`
	Amount   Amount   `json:"amount" validate:"gt=0,lte=999999999999"`
	Category Category `json:"category" validate:"required,oneof=Food Transportation Housing Utilities Entertainment Healthcare Shopping Education Travel Other"`
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	Note     string   `json:"note,omitempty" validate:"max=500"`
}

// Month returns the YYYY-MM prefix of the expense date.
func (e Expense) Month() string {
	if len(e.Date) < len(MonthLayout) {
		return e.Date
	}
	return e.Date[:len(MonthLayout)]
}

// Budget is keyed by Month: saving a budget for a month replaces the previous one.
type Budget struct {
	Limit Amount `json:"limit" validate:"gt=0,lte=999999999999"`
	Month string `json:"month" validate:"required,datetime=2006-01"`
}

// Notification keeps every field fixed after creation except Read.
type Notification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Date  string `json:"date"`
	Read  bool   `json:"read"`
}

// FormatNotificationDate renders t the way notification dates are persisted.
func FormatNotificationDate(t time.Time) string {
	return t.UTC().Format(NotificationLayout)
}

// AlertMarker records the most severe budget alert already issued for a month.
// Level follows the ordering of budget alert kinds: higher is more severe.
type AlertMarker struct {
	Month string `json:"month"`
	Level int    `json:"level"`
}
