package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pingone-tools/p1admin/internal/config"
	"github.com/pingone-tools/p1admin/internal/profile"
)

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage saved connection profiles",
	}
	cmd.AddCommand(newProfilesListCmd())
	cmd.AddCommand(newProfilesSaveCmd())
	cmd.AddCommand(newProfilesDeleteCmd())
	cmd.AddCommand(newProfilesTestCmd())
	return cmd
}

func openStore() (*profile.Store, error) {
	s, err := profile.Load(config.Use().ProfilesPath)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	return s, nil
}

func newProfilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved profiles (secrets are never printed)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			for _, name := range store.Names() {
				p, _ := store.Get(name)
				if err := writeJSONLine(map[string]any{
					"name":           name,
					"environment_id": p.EnvironmentID,
					"client_id":      p.ClientID,
					"last_working":   name == store.Meta.LastWorkingProfile,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newProfilesSaveCmd() *cobra.Command {
	var (
		name        string
		p           profile.Profile
		autoConnect bool
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save or replace a connection profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			if err := store.Set(name, p); err != nil {
				return withCode(exitUsage, err)
			}
			if cmd.Flags().Changed("auto-connect") {
				store.Meta.AutoConnectLast = autoConnect
			}
			if err := store.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved profile %q\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Profile name")
	cmd.Flags().StringVar(&p.EnvironmentID, "environment-id", "", "PingOne environment id")
	cmd.Flags().StringVar(&p.ClientID, "client-id", "", "Worker app client id")
	cmd.Flags().StringVar(&p.ClientSecret, "client-secret", "", "Worker app client secret")
	cmd.Flags().BoolVar(&autoConnect, "auto-connect", false, "Reconnect with the last working profile by default")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("environment-id")
	_ = cmd.MarkFlagRequired("client-id")
	_ = cmd.MarkFlagRequired("client-secret")
	return cmd
}

func newProfilesDeleteCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a saved profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			if !store.Delete(name) {
				return withCode(exitUsage, fmt.Errorf("unknown profile %q", name))
			}
			if err := store.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "deleted profile %q\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Profile name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProfilesTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [name]",
		Short: "Authenticate with a profile and record it as working",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("profile", args[0]); err != nil {
					return withCode(exitUsage, err)
				}
			}
			conn, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.client.Authenticate(cmd.Context()); err != nil {
				return mapCode(err)
			}
			conn.markWorking()
			fmt.Fprintf(cmd.ErrOrStderr(), "authenticated\n")
			return nil
		},
	}
	return cmd
}
