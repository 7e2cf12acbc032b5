package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pingone-tools/p1admin/internal/export"
)

type exportOptions struct {
	output  string
	format  string
	columns []string
}

func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every user to a CSV, LDIF or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			format := opts.format
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
			}
			if format != "csv" && format != "ldif" && format != "xlsx" {
				return withCode(exitUsage, fmt.Errorf("cannot tell the format from %q; pass --format csv|ldif|xlsx", opts.output))
			}

			conn, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx := cmd.Context()
			users, err := conn.client.AllUsers(ctx)
			if err != nil {
				return mapCode(err)
			}
			names, err := conn.client.PopulationNames(ctx)
			if err != nil {
				return mapCode(err)
			}

			rows := export.Flattened(users, names)
			cols := chosenColumns(opts.columns)
			if len(cols) == 0 {
				cols = export.Columns(rows)
			}

			f, err := os.Create(opts.output)
			if err != nil {
				return err
			}
			switch format {
			case "csv":
				err = export.WriteCSV(f, cols, rows)
			case "ldif":
				err = export.WriteLDIF(f, cols, rows)
			case "xlsx":
				err = export.WriteXLSX(f, cols, rows)
			}
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}

			conn.markWorking()
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d users to %s\n", len(rows), opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (.csv, .ldif or .xlsx)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Force the output format: csv, ldif or xlsx")
	cmd.Flags().StringSliceVar(&opts.columns, "columns", nil, "Columns to export (dotted names; default: known columns first, rest sorted)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// chosenColumns trims the flag values and drops empties.
func chosenColumns(raw []string) (cols []string) {
	for _, col := range raw {
		if c := strings.TrimSpace(col); c != "" {
			cols = append(cols, c)
		}
	}
	return
}
