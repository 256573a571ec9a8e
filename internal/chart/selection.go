package chart

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// All is the selector value meaning "no filter" for both structures and years.
const All = "All"

// YearFilter selects either every year or a single one.
type YearFilter struct {
	All  bool
	Year int
}

// AllYears is the pass-through year filter.
var AllYears = YearFilter{All: true}

// ForYear filters to a single year.
func ForYear(year int) YearFilter {
	return YearFilter{Year: year}
}

// ParseYearFilter accepts "All" (or an empty string) and decimal years.
func ParseYearFilter(s string) (YearFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == All {
		return AllYears, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return YearFilter{}, fmt.Errorf("invalid year %q", s)
	}
	return ForYear(year), nil
}

// Matches reports whether a record year passes the filter.
func (f YearFilter) Matches(year int) bool {
	return f.All || f.Year == year
}

func (f YearFilter) String() string {
	if f.All {
		return All
	}
	return strconv.Itoa(f.Year)
}

// Selection is the pair of selector values a chart is built from.
// Structures may contain All; explicit names are used as given, duplicates
// included.
type Selection struct {
	Structures []string
	Year       YearFilter
}

// NewSelection builds a selection, treating an absent structure list as All.
func NewSelection(structures []string, year YearFilter) Selection {
	if structures == nil {
		structures = []string{All}
	}
	return Selection{Structures: structures, Year: year}
}

// IncludesAll reports whether the structure selection contains All.
func (s Selection) IncludesAll() bool {
	return slices.Contains(s.Structures, All)
}

// Key is a canonical string for the selection, used for caching.
func (s Selection) Key() string {
	if s.IncludesAll() {
		return All + "|" + s.Year.String()
	}
	return strings.Join(s.Structures, "\x1f") + "|" + s.Year.String()
}
