// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/signplot/signplot/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// resolveConfigFile returns the --config value, falling back to the XDG
// config path when the flag is unset.
func resolveConfigFile() string {
	if configFile != "" {
		return configFile
	}
	return xdg.DefaultConfigFile()
}

// NewRootCmd creates the root command for the SignPlot CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signplot",
		Short: "SignPlot - sign-driven land sales for voxel game servers",
		Long: `SignPlot sells land parcels through physical in-world signs and
keeps every sign referencing a parcel synchronized with its sale state.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
