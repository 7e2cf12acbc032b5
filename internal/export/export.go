// Package export writes fetched users back out as CSV, LDIF or XLSX.
// Users are flattened to dotted columns first; headers use hyphens in
// place of dots so the files re-import cleanly.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pingone-tools/p1admin/internal/dotpath"
	"github.com/pingone-tools/p1admin/internal/sets"
)

// knownColumns lead the output in this order when populated; everything
// else follows sorted.
var knownColumns = []string{"username", "id", "email", "name.given", "name.family", "population.name"}

// Flattened converts raw API users into flat export rows. The population
// reference is rewritten from id to name using the id-to-name table; an
// unknown id is kept as-is so no information is lost.
func Flattened(users []map[string]any, populationNames map[string]string) (rows []map[string]any) {
	for _, user := range users {
		flat := dotpath.Flatten(user)
		if id, ok := flat["population.id"].(string); ok {
			name, known := populationNames[id]
			if !known {
				name = id
			}
			flat["population.name"] = name
			delete(flat, "population.id")
		}
		rows = append(rows, flat)
	}
	return
}

// Columns picks the output order for a set of flat rows: known columns
// first, then the remaining keys sorted.
func Columns(rows []map[string]any) (cols []string) {
	present := sets.New[string]()
	for _, row := range rows {
		for key := range row {
			present.Add(key)
		}
	}
	taken := sets.New[string]()
	for _, col := range knownColumns {
		if present.Has(col) {
			cols = append(cols, col)
			taken.Add(col)
		}
	}
	var extras []string
	for key := range present {
		if !taken.Has(key) {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	cols = append(cols, extras...)
	return
}

func hyphenate(col string) string {
	return strings.ReplaceAll(col, ".", "-")
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
