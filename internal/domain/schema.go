package domain

import "strings"

// Column is a canonical flow-record column.
type Column int

const (
	ColumnDate Column = iota
	ColumnInflow
	ColumnStructure
)

func (c Column) String() string {
	switch c {
	case ColumnDate:
		return "date"
	case ColumnInflow:
		return "inflow"
	case ColumnStructure:
		return "structure"
	default:
		return "unknown"
	}
}

// columnRule maps headers containing any of Keywords to Column.
type columnRule struct {
	Column   Column
	Keywords []string
}

// columnRules is the header resolution table, applied in order. A header
// resolves to the first rule with a keyword it contains.
var columnRules = []columnRule{
	{Column: ColumnDate, Keywords: []string{"date"}},
	{Column: ColumnInflow, Keywords: []string{"inflow"}},
	{Column: ColumnStructure, Keywords: []string{"structure", "barrage"}},
}

// ColumnMap holds the header index of each canonical column. Structure is -1
// when the sheet has no structure column.
type ColumnMap struct {
	Date      int
	Inflow    int
	Structure int
}

// HasStructure reports whether a structure column was found.
func (m ColumnMap) HasStructure() bool {
	return m.Structure >= 0
}

// NormalizeHeader trims and lower-cases a header for resolution.
func NormalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// ResolveColumns maps sheet headers onto the canonical columns. When several
// headers resolve to the same column the leftmost one is used. Date and
// inflow are required; a missing structure column is allowed.
func ResolveColumns(headers []string) (ColumnMap, error) {
	found := map[Column]int{}
	for i, h := range headers {
		col, ok := resolveHeader(NormalizeHeader(h))
		if !ok {
			continue
		}
		if _, dup := found[col]; !dup {
			found[col] = i
		}
	}

	m := ColumnMap{Date: -1, Inflow: -1, Structure: -1}
	if i, ok := found[ColumnDate]; ok {
		m.Date = i
	} else {
		return m, &MissingColumnError{Column: ColumnDate}
	}
	if i, ok := found[ColumnInflow]; ok {
		m.Inflow = i
	} else {
		return m, &MissingColumnError{Column: ColumnInflow}
	}
	if i, ok := found[ColumnStructure]; ok {
		m.Structure = i
	}
	return m, nil
}

func resolveHeader(h string) (Column, bool) {
	if h == "" {
		return 0, false
	}
	for _, rule := range columnRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(h, kw) {
				return rule.Column, true
			}
		}
	}
	return 0, false
}
