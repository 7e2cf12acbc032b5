package main

import (
	"sort"

	"github.com/spf13/cobra"
)

func newPopulationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "populations",
		Short: "List the environment's populations as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()

			byName, err := conn.client.Populations(cmd.Context())
			if err != nil {
				return mapCode(err)
			}

			names := make([]string, 0, len(byName))
			for name := range byName {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if err := writeJSONLine(map[string]string{"name": name, "id": byName[name]}); err != nil {
					return err
				}
			}
			conn.markWorking()
			return nil
		},
	}
	return cmd
}
