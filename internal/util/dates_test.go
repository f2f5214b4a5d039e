package util

import (
	"testing"
)

func TestDisplayDate(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		expected string
	}{
		{name: "regular date", date: "2024-05-14", expected: "14/05/2024"},
		{name: "leap day", date: "2024-02-29", expected: "29/02/2024"},
		{name: "invalid day", date: "2023-02-29", expected: "2023-02-29"},
		{name: "not a date", date: "yesterday", expected: "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayDate(tt.date); got != tt.expected {
				t.Errorf("DisplayDate(%q) = %q, want %q", tt.date, got, tt.expected)
			}
		})
	}
}

func TestDisplayMonth(t *testing.T) {
	if got := DisplayMonth("2024-05"); got != "May 2024" {
		t.Errorf("DisplayMonth() = %q, want %q", got, "May 2024")
	}
	if got := DisplayMonth("2024-13"); got != "2024-13" {
		t.Errorf("DisplayMonth() = %q, want %q", got, "2024-13")
	}
}

func TestValidMonthAndDate(t *testing.T) {
	validMonths := []string{"2024-01", "1999-12"}
	invalidMonths := []string{"2024-13", "2024-5", "May", "2024-05-01", ""}

	for _, m := range validMonths {
		if !ValidMonth(m) {
			t.Errorf("ValidMonth(%q) = false, want true", m)
		}
	}
	for _, m := range invalidMonths {
		if ValidMonth(m) {
			t.Errorf("ValidMonth(%q) = true, want false", m)
		}
	}

	if !ValidDate("2024-02-29") {
		t.Error("ValidDate(2024-02-29) = false, want true")
	}
	if ValidDate("2023-02-29") {
		t.Error("ValidDate(2023-02-29) = true, want false")
	}
}
