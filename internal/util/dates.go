package util

import (
	"time"
)

const (
	dateLayout    = "2006-01-02"
	monthLayout   = "2006-01"
	displayLayout = "02/01/2006"
)

// DisplayDate renders a YYYY-MM-DD date as DD/MM/YYYY. Dates that do not parse
// are returned unchanged.
func DisplayDate(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(displayLayout)
}

// DisplayMonth renders a YYYY-MM month as "May 2024".
func DisplayMonth(month string) string {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return month
	}
	return t.Format("January 2006")
}

func ValidMonth(month string) bool {
	_, err := time.Parse(monthLayout, month)
	return err == nil
}

func ValidDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}
