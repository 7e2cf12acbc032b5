package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "p1admin",
		Short:         "PingOne user administration: fetch, import, export, delete",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("profile", "", "Saved connection profile to use")

	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newPopulationsCmd())
	cmd.AddCommand(newSuggestCmd())
	cmd.AddCommand(newProfilesCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
