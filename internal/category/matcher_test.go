package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

func TestMatch(t *testing.T) {
	m, err := NewMatcher(nil)
	require.NoError(t, err)

	tests := []struct {
		text     string
		category storage.Category
		ok       bool
	}{
		{text: "Team LUNCH", category: storage.CategoryFood, ok: true},
		{text: "grab to airport", category: storage.CategoryTransportation, ok: true},
		{text: "Netflix subscription", category: storage.CategoryEntertainment, ok: true},
		{text: "hotel in Penang", category: storage.CategoryTravel, ok: true},
		{text: "birthday present", ok: false},
		{text: "", ok: false},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			category, ok := m.Match(test.text)
			assert.Equal(t, test.ok, ok)
			assert.Equal(t, test.category, category)
		})
	}
}

func TestFirstCategoryWins(t *testing.T) {
	m, err := NewMatcher(nil)
	require.NoError(t, err)

	category, ok := m.Match("coffee on the train")
	require.True(t, ok)
	assert.Equal(t, storage.CategoryFood, category)
}

func TestOverrides(t *testing.T) {
	m, err := NewMatcher(map[string]string{
		"other": "present|gift",
		"Food":  "",
	})
	require.NoError(t, err)

	category, ok := m.Match("birthday present")
	require.True(t, ok)
	assert.Equal(t, storage.CategoryOther, category)

	_, ok = m.Match("lunch")
	assert.False(t, ok, "empty pattern disables the category")
}

func TestNewMatcherErrors(t *testing.T) {
	_, err := NewMatcher(map[string]string{"Pets": "dog"})
	require.ErrorContains(t, err, "unknown category")

	_, err = NewMatcher(map[string]string{"Food": "("})
	require.ErrorContains(t, err, "invalid pattern")
}

func TestNilMatcher(t *testing.T) {
	var m *Matcher
	_, ok := m.Match("lunch")
	assert.False(t, ok)
}
