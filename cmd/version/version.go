/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides the version command for autolink.
package version

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/autolink/internal/version"
)

// Cmd is the version cobra command that prints version and build information.
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for autolink.`,
	RunE:  run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("error reading format flag: %w", err)
	}
	w := cmd.OutOrStdout()
	switch format {
	case "json":
		out, err := json.MarshalIndent(version.Info(), "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling version info: %w", err)
		}
		fmt.Fprintln(w, string(out))
	case "text":
		info := version.Info()
		fmt.Fprintf(w, "autolink %s\n", info.Version)
		if info.GitCommit != "unknown" {
			fmt.Fprintf(w, "  commit:   %s\n", info.GitCommit)
		}
		if info.BuildTime != "unknown" {
			fmt.Fprintf(w, "  built:    %s\n", info.BuildTime)
		}
		fmt.Fprintf(w, "  go:       %s\n", info.GoVersion)
		fmt.Fprintf(w, "  platform: %s\n", info.Platform)
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", format)
	}
	return nil
}
