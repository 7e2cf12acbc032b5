package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pingone-tools/p1admin/internal/bulk"
	"github.com/pingone-tools/p1admin/internal/config"
	"github.com/pingone-tools/p1admin/internal/normalize"
	"github.com/pingone-tools/p1admin/internal/reconcile"
	"github.com/pingone-tools/p1admin/internal/source"
)

type deleteOptions struct {
	file      string
	usernames []string
	confirm   bool
}

type deleteResult struct {
	Deleted int      `json:"deleted"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors,omitempty"`
}

func newDeleteCmd() *cobra.Command {
	var opts deleteOptions

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete users listed in a file or by username",
		Long: "Delete users listed in a file or by username. Usernames are resolved\n" +
			"against the environment first; any that cannot be found abort the whole\n" +
			"batch. Without --confirm the resolved targets are printed and nothing\n" +
			"is deleted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := deleteTargets(opts)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				return withCode(exitUsage, fmt.Errorf("nothing to delete: pass --file or --username"))
			}

			conn, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx := cmd.Context()
			existing, err := conn.client.AllUsers(ctx)
			if err != nil {
				return mapCode(err)
			}
			items, unknown := resolveDeletes(targets, reconcile.Snapshot(existing))
			if len(unknown) > 0 {
				return withCode(exitValidation,
					fmt.Errorf("%d users not found, nothing deleted: %s", len(unknown), strings.Join(unknown, ", ")))
			}

			if !opts.confirm {
				for _, item := range items {
					if err := writeJSONLine(item); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "would delete %d users; pass --confirm to proceed\n", len(items))
				return nil
			}

			log := config.Use().Logger()
			d := bulk.New(conn.client)
			d.Log = conn.rec
			d.Progress = func(completed, total int) {
				log.Infof("delete %d/%d", completed, total)
			}
			res, err := d.Deletes(ctx, items)
			if err != nil {
				return mapCode(err)
			}

			conn.markWorking()
			fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %d/%d users\n", res.Succeeded, res.Total)
			if err := writeJSONLine(deleteResult{Deleted: res.Succeeded, Total: res.Total, Errors: res.Errors}); err != nil {
				return err
			}
			if len(res.Errors) > 0 {
				return withCode(exitPartial, fmt.Errorf("delete completed with %d errors", len(res.Errors)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "File of users to delete (.csv, .ldif or .xlsx; username or id columns)")
	cmd.Flags().StringArrayVarP(&opts.usernames, "username", "u", nil, "Username to delete (repeatable)")
	cmd.Flags().BoolVar(&opts.confirm, "confirm", false, "Actually delete; without it targets are only listed")
	return cmd
}

// deleteTargets gathers raw id/username pairs from the file and flags.
func deleteTargets(opts deleteOptions) ([]map[string]any, error) {
	var targets []map[string]any
	if opts.file != "" {
		table, err := source.Open(opts.file)
		if err != nil {
			return nil, withCode(exitUsage, err)
		}
		for _, row := range table.Rows {
			target := map[string]any{}
			if id := strings.TrimSpace(row["id"]); id != "" {
				target["id"] = id
			}
			username := strings.TrimSpace(row["username"])
			if username == "" {
				username = strings.TrimSpace(row["uid"])
			}
			if username != "" {
				target["username"] = username
			}
			if len(target) > 0 {
				targets = append(targets, target)
			}
		}
	}
	for _, username := range opts.usernames {
		if u := strings.TrimSpace(username); u != "" {
			targets = append(targets, map[string]any{"username": u})
		}
	}
	return targets, nil
}

// resolveDeletes fills in missing ids from the directory snapshot.
// Usernames that resolve to nothing are returned separately so the caller
// can refuse the batch.
func resolveDeletes(targets []map[string]any, index map[string]string) (items []map[string]any, unknown []string) {
	for _, target := range targets {
		if id, ok := target["id"].(string); ok && id != "" {
			items = append(items, target)
			continue
		}
		username, _ := target["username"].(string)
		if id, ok := index[normalize.Key(username)]; ok {
			target["id"] = id
			items = append(items, target)
			continue
		}
		unknown = append(unknown, username)
	}
	return
}
