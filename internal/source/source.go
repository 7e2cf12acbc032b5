// Package source reads tabular user data into one common shape: an
// ordered header row plus one string map per record. CSV, LDIF and XLSX
// files are supported, as are Google Sheets.
package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a parsed input file. Headers preserves column order; each row
// maps header name to the cell value, with absent cells simply missing.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// FromRows builds a Table from a raw string grid. The first row is the
// header (trimmed); fully empty rows are dropped; cells beyond the header
// width are ignored.
func FromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	t := &Table{}
	for _, h := range rows[0] {
		t.Headers = append(t.Headers, strings.TrimSpace(h))
	}
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		record := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				record[h] = row[i]
			}
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Open reads path with the reader matching its extension: .csv, .ldif
// (or .ldf), .xlsx.
func Open(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return OpenCSV(path)
	case ".ldif", ".ldf":
		return OpenLDIF(path)
	case ".xlsx":
		return OpenXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported input type: %s", filepath.Ext(path))
	}
}
