// Package export renders report maps into portable formats: CSV and JSON
// files for local use, and a Google Sheets writer for shared spreadsheets.
package export

import (
	"fmt"
	"sort"

	"taxledger/internal/report"
)

// sectionOrder fixes the top-level row order so exports are stable across
// runs. Unknown sections sort after the known ones.
var sectionOrder = map[string]int{
	"metadata":   0,
	"summary":    1,
	"categories": 2,
	"details":    3,
}

// Rows flattens a report map into ordered key/value rows. Nested maps use
// dotted keys; list items are indexed. Keys within a level are alphabetical.
func Rows(rep report.Report) [][]string {
	sections := make([]string, 0, len(rep))
	for k := range rep {
		sections = append(sections, k)
	}
	sort.Slice(sections, func(i, j int) bool {
		oi, iok := sectionOrder[sections[i]]
		oj, jok := sectionOrder[sections[j]]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return sections[i] < sections[j]
	})

	var rows [][]string
	for _, section := range sections {
		flatten(section, rep[section], &rows)
	}
	return rows
}

func flatten(prefix string, v any, rows *[][]string) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(prefix+"."+k, val[k], rows)
		}
	case []map[string]any:
		for i, item := range val {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), item, rows)
		}
	case []any:
		for i, item := range val {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), item, rows)
		}
	default:
		*rows = append(*rows, []string{prefix, fmt.Sprint(val)})
	}
}
