package main

import (
	"github.com/spf13/cobra"

	"github.com/pingone-tools/p1admin/internal/attrmap"
	"github.com/pingone-tools/p1admin/internal/source"
)

func newSuggestCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest an attribute mapping for a file's column headers",
		Long: "Suggest an attribute mapping for a file's column headers. The output\n" +
			"is a mapping document ready to edit and pass to import --mapping.",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := source.Open(file)
			if err != nil {
				return withCode(exitUsage, err)
			}
			m := attrmap.Mapping{Targets: attrmap.Suggest(table.Headers)}
			return writeJSONDocument(cmd.OutOrStdout(), m)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Input file (.csv, .ldif or .xlsx)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
