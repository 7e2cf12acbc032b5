package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pingone-tools/p1admin/internal/apilog"
	"github.com/pingone-tools/p1admin/internal/config"
	"github.com/pingone-tools/p1admin/internal/pingone"
	"github.com/pingone-tools/p1admin/internal/profile"
)

// connection bundles what a command needs to talk to PingOne.
type connection struct {
	client  *pingone.Client
	rec     *apilog.Recorder
	store   *profile.Store
	profile string
}

// connect resolves credentials in order: the --profile flag, then the
// P1_* environment, then the auto-connect profile when enabled.
func connect(cmd *cobra.Command) (*connection, error) {
	cfg := config.Use()
	store, err := profile.Load(cfg.ProfilesPath)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}

	name, _ := cmd.Flags().GetString("profile")
	var p profile.Profile
	switch {
	case name != "":
		var ok bool
		if p, ok = store.Get(name); !ok {
			return nil, withCode(exitUsage,
				fmt.Errorf("unknown profile %q (saved: %s)", name, strings.Join(store.Names(), ", ")))
		}
	case cfg.PingOne.EnvironmentID != "" && cfg.PingOne.ClientID != "":
		p = profile.Profile{
			EnvironmentID: cfg.PingOne.EnvironmentID,
			ClientID:      cfg.PingOne.ClientID,
			ClientSecret:  cfg.PingOne.ClientSecret,
		}
	default:
		var ok bool
		if p, name, ok = store.AutoConnect(); !ok {
			return nil, withCode(exitUsage, errors.New(
				"no credentials: pass --profile, set P1_ENVIRONMENT_ID/P1_CLIENT_ID/P1_CLIENT_SECRET, or enable auto_connect_last in profiles.json"))
		}
	}

	rec, err := apilog.New(cfg.LogOptions())
	if err != nil {
		return nil, withCode(exitUsage, err)
	}

	client := pingone.NewClient(pingone.Options{
		APIBase:       cfg.PingOne.APIBase,
		AuthBase:      cfg.PingOne.AuthBase,
		EnvironmentID: p.EnvironmentID,
		ClientID:      p.ClientID,
		ClientSecret:  p.ClientSecret,
		Timeout:       cfg.PingOne.Timeout,
		PageLimit:     cfg.PingOne.PageLimit,
		Log:           rec,
	})
	return &connection{client: client, rec: rec, store: store, profile: name}, nil
}

func (c *connection) Close() {
	if c.rec != nil {
		_ = c.rec.Close()
	}
}

// markWorking records a successful run against the named profile so
// auto-connect has something to come back to.
func (c *connection) markWorking() {
	if c.profile == "" || c.store == nil {
		return
	}
	c.store.MarkWorking(c.profile)
	_ = c.store.Save()
}
