// Package cli implements the popdash command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"popdash/internal/config"
	"popdash/internal/engine"
)

// Version is filled when building with -ldflags, but *not* when installing
// via "go install".
var Version string

// app carries the configuration resolved before any subcommand runs.
type app struct {
	cfg config.Config
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "popdash",
		Short: "World population dashboard.",
		Long: `World population dashboard.
	Serves the dashboard API, or runs a single dashboard query against a
	countries CSV and prints the resulting table.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		Run: func(cmd *cobra.Command, args []string) {
			if getFlag(cmd, "version") {
				fmt.Fprintln(cmd.OutOrStdout(), "popdash", version())
				return
			}
			cmd.Help()
		},
	}
	root.Flags().Bool("version", false, "Report version of this executable")
	root.PersistentFlags().String("data", "", "countries CSV `file` (default $POPDASH_DATA_PATH)")
	root.PersistentFlags().IntSlice("years", nil, "population years to load (default $POPDASH_YEARS)")
	root.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")

	root.AddCommand(
		a.serveCmd(),
		a.topCmd(),
		a.sharesCmd(),
		a.seriesCmd(),
		a.distributionCmd(),
		a.choroplethCmd(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func version() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown version)"
}

// setup resolves the environment config, then applies flag overrides.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data") {
		cfg.DataPath = getString(cmd, "data")
	}
	if cmd.Flags().Changed("years") {
		cfg.Years, err = cmd.Flags().GetIntSlice("years")
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log.SetLevel(cfg.Level())
	if getFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	a.cfg = cfg
	return nil
}

func (a *app) load() (*engine.Table, error) {
	return engine.LoadFile(a.cfg.DataPath, a.cfg.Years)
}

func getFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func getString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func getInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		log.Fatal(err)
	}
	return v
}
