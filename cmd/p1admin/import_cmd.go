package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pingone-tools/p1admin/internal/attrmap"
	"github.com/pingone-tools/p1admin/internal/config"
	"github.com/pingone-tools/p1admin/internal/importer"
	"github.com/pingone-tools/p1admin/internal/source"
)

type importOptions struct {
	file        string
	mappingFile string
	population  string
	enabled     bool
	suggest     bool
	validate    bool
	dryRun      bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create and update users from a CSV, LDIF or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := source.Open(opts.file)
			if err != nil {
				return withCode(exitUsage, err)
			}
			mapping, err := loadMapping(opts.mappingFile)
			if err != nil {
				return err
			}
			if opts.population != "" {
				mapping.FixedPopulationID = opts.population
			}
			if cmd.Flags().Changed("enabled") {
				mapping.FixedEnabled = &opts.enabled
			}
			if opts.suggest {
				mergeSuggestions(&mapping, table.Headers)
			}

			conn, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()

			log := config.Use().Logger()
			summary, err := importer.Run(cmd.Context(), conn.client, table, importer.Options{
				Mapping:  mapping,
				Validate: opts.validate,
				DryRun:   opts.dryRun,
				Progress: func(phase string, completed, total int) {
					log.Infof("%s %d/%d", phase, completed, total)
				},
				Log: conn.rec,
			})
			if err != nil {
				return mapCode(err)
			}

			conn.markWorking()
			fmt.Fprintln(cmd.ErrOrStderr(), summary.String())
			if err := writeJSONLine(summary); err != nil {
				return err
			}
			if len(summary.Errors) > 0 {
				return withCode(exitPartial, fmt.Errorf("import completed with %d errors", len(summary.Errors)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Input file (.csv, .ldif or .xlsx)")
	cmd.Flags().StringVarP(&opts.mappingFile, "mapping", "m", "", "Mapping file (JSON; see the suggest command)")
	cmd.Flags().StringVar(&opts.population, "population", "", "Fixed population id applied to every imported user")
	cmd.Flags().BoolVar(&opts.enabled, "enabled", false, "Fixed enabled state applied to every imported user")
	cmd.Flags().BoolVar(&opts.suggest, "suggest", false, "Fill unmapped headers from the suggestion dictionary")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "Dry-run every create server-side before writing anything")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Plan and validate only; write nothing")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// mergeSuggestions fills suggested targets for headers the mapping does not
// cover. Explicit entries always win.
func mergeSuggestions(m *attrmap.Mapping, headers []string) {
	if m.Targets == nil {
		m.Targets = make(map[string]string, len(headers))
	}
	for header, target := range attrmap.Suggest(headers) {
		if _, ok := m.Targets[header]; !ok {
			m.Targets[header] = target
		}
	}
}

func loadMapping(path string) (attrmap.Mapping, error) {
	var m attrmap.Mapping
	if path == "" {
		return m, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return m, withCode(exitUsage, err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, withCode(exitUsage, fmt.Errorf("parse %s: %w", path, err))
	}
	return m, nil
}
