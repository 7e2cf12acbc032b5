package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteCSV writes the rows under hyphenated headers.
func WriteCSV(w io.Writer, cols []string, rows []map[string]any) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = hyphenate(col)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(cols))
		for i, col := range cols {
			if v, ok := row[col]; ok {
				record[i] = cellString(v)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLDIF writes one entry per user. The dn is derived from the
// username, falling back to the id; users with neither are skipped.
func WriteLDIF(w io.Writer, cols []string, rows []map[string]any) error {
	for _, row := range rows {
		uid, _ := row["username"].(string)
		if uid == "" {
			uid, _ = row["id"].(string)
		}
		if uid == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "dn: uid=%s\nobjectClass: inetOrgPerson\n", uid); err != nil {
			return err
		}
		for _, col := range cols {
			v, ok := row[col]
			if !ok {
				continue
			}
			value := cellString(v)
			if value == "" {
				continue
			}
			if _, err := fmt.Fprintf(w, "%s: %s\n", hyphenate(col), value); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteXLSX writes the rows to a single-sheet workbook.
func WriteXLSX(w io.Writer, cols []string, rows []map[string]any) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]

	header := make([]any, len(cols))
	for i, col := range cols {
		header[i] = hyphenate(col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for n, row := range rows {
		record := make([]any, len(cols))
		for i, col := range cols {
			if v, ok := row[col]; ok {
				record[i] = cellString(v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return err
		}
	}
	return f.Write(w)
}
