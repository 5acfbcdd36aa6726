/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for autolink.
package cmd

import (
	"github.com/spf13/cobra"

	"bennypowers.dev/autolink/cmd/internal/options"
	"bennypowers.dev/autolink/cmd/search"
	"bennypowers.dev/autolink/cmd/verify"
	"bennypowers.dev/autolink/cmd/version"
)

var rootCmd = &cobra.Command{
	Use:   "autolink",
	Short: "Discover native modules to link into an app",
	Long: `autolink finds the native modules installed in a JavaScript project's
dependency directories, picks one copy of each package with closest-wins
precedence and reports the modules that support a target platform.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return options.Bind(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	options.Register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(search.Cmd)
	rootCmd.AddCommand(verify.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
