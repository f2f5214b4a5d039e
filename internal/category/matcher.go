package category

import (
	"fmt"
	"regexp"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

// DefaultPatterns are matched case-insensitively against expense notes.
var DefaultPatterns = map[storage.Category]string{
	storage.CategoryFood:           `lunch|dinner|breakfast|coffee|grocer|restaurant|food|snack`,
	storage.CategoryTransportation: `bus|train|taxi|uber|grab|fuel|petrol|parking|toll|mrt|lrt`,
	storage.CategoryHousing:        `rent|mortgage|furniture|repair`,
	storage.CategoryUtilities:      `electric|water bill|internet|phone|mobile|utility`,
	storage.CategoryEntertainment:  `movie|cinema|netflix|spotify|concert|game`,
	storage.CategoryHealthcare:     `doctor|pharmacy|clinic|dentist|hospital|medicine`,
	storage.CategoryShopping:       `clothes|shoes|amazon|shopee|lazada|mall`,
	storage.CategoryEducation:      `course|book|tuition|school|class`,
	storage.CategoryTravel:         `flight|hotel|airbnb|trip|holiday`,
}

type matcher struct {
	re       *regexp.Regexp
	category storage.Category
}

// Matcher suggests a category for free text. Categories are tried in the
// order of storage.Categories and the first match wins.
type Matcher struct {
	matchers []matcher
}

// NewMatcher compiles DefaultPatterns with overrides applied on top. An empty
// override disables the category.
func NewMatcher(overrides map[string]string) (*Matcher, error) {
	patterns := make(map[storage.Category]string, len(DefaultPatterns))
	for c, p := range DefaultPatterns {
		patterns[c] = p
	}
	for name, p := range overrides {
		c := storage.NormalizeCategory(name)
		if !c.Valid() {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		patterns[c] = p
	}

	m := &Matcher{}
	for _, c := range storage.Categories {
		pattern := patterns[c]
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for %s: %w", c, err)
		}
		m.matchers = append(m.matchers, matcher{re: re, category: c})
	}
	return m, nil
}

func (m *Matcher) Match(s string) (storage.Category, bool) {
	if m == nil || s == "" {
		return "", false
	}
	for _, matcher := range m.matchers {
		if matcher.re.MatchString(s) {
			return matcher.category, true
		}
	}
	return "", false
}
