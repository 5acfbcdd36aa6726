/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package search provides the search command for autolink.
package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/autolink/cmd/internal/options"
	"bennypowers.dev/autolink/fs"
	"bennypowers.dev/autolink/internal/logger"
	"bennypowers.dev/autolink/load"
	"bennypowers.dev/autolink/resolver"
)

// Cmd is the search cobra command.
var Cmd = &cobra.Command{
	Use:   "search",
	Short: "List the native modules linked for a platform",
	Long: `Search the project's dependency directories for native modules and print
the ones that would be linked for --platform, one per package name.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "table", "Output format: table, json, yaml")
	Cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	filesystem := fs.NewOSFileSystem()
	opts := options.Load()
	opts.FS = filesystem

	modules, err := load.Modules(cmd.Context(), opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render(&buf, modules, format); err != nil {
		return err
	}

	if output != "" {
		if err := filesystem.WriteFile(output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("error writing %s: %w", output, err)
		}
		logger.Info("wrote %d module(s) to %s", len(modules), output)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

func render(w io.Writer, modules resolver.ModuleMap, format string) error {
	switch format {
	case "json":
		return outputJSON(w, modules)
	case "yaml":
		return outputYAML(w, modules)
	case "table", "":
		return outputTable(w, modules)
	default:
		return fmt.Errorf("unknown format %q (expected table, json or yaml)", format)
	}
}

func outputJSON(w io.Writer, modules resolver.ModuleMap) error {
	if modules == nil {
		modules = resolver.ModuleMap{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(modules)
}

func outputYAML(w io.Writer, modules resolver.ModuleMap) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(modules.Sorted()); err != nil {
		return err
	}
	return enc.Close()
}

func outputTable(w io.Writer, modules resolver.ModuleMap) error {
	if len(modules) == 0 {
		return nil
	}

	// Calculate column widths
	nameWidth := 4
	versionWidth := 7
	platformsWidth := 9
	for _, m := range modules {
		nameWidth = max(nameWidth, len(m.Name))
		versionWidth = max(versionWidth, len(versionString(m)))
		platformsWidth = max(platformsWidth, len(platformsString(m)))
	}

	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", nameWidth, "NAME", versionWidth, "VERSION", platformsWidth, "PLATFORMS", "PATH")
	for _, m := range modules.Sorted() {
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", nameWidth, m.Name, versionWidth, versionString(m), platformsWidth, platformsString(m), m.Path)
	}
	return nil
}

func versionString(m *resolver.Module) string {
	if m.Version == "" {
		return "-"
	}
	return m.Version
}

func platformsString(m *resolver.Module) string {
	names := make([]string, 0, len(m.Platforms))
	for _, p := range m.Platforms {
		names = append(names, string(p))
	}
	return strings.Join(names, ",")
}
