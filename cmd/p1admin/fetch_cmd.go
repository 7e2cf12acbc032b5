package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch every user in the environment as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()

			var count int
			var writeErr error
			err = conn.client.Users(cmd.Context(), func(user map[string]any) {
				if writeErr == nil {
					writeErr = writeJSONLine(user)
				}
				count++
			})
			if err != nil {
				return mapCode(err)
			}
			if writeErr != nil {
				return writeErr
			}
			conn.markWorking()
			fmt.Fprintf(cmd.ErrOrStderr(), "fetched %d users\n", count)
			return nil
		},
	}
	return cmd
}
