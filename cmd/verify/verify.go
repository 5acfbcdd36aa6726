/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package verify provides the verify command for autolink.
package verify

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/autolink/cmd/internal/options"
	"bennypowers.dev/autolink/load"
	"bennypowers.dev/autolink/resolver"
)

// ErrDuplicates is returned in strict mode when any package is shadowed.
var ErrDuplicates = errors.New("found shadowed duplicate modules")

// Cmd is the verify cobra command.
var Cmd = &cobra.Command{
	Use:   "verify",
	Short: "Report packages installed more than once",
	Long: `Verify resolves modules like search does and reports every package that
shadows another copy of itself in a lower priority search path. Shadowed
copies never get linked, but differing native versions often break builds.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("strict", false, "Exit with an error when duplicates are found")
}

func run(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")

	modules, err := load.Modules(cmd.Context(), options.Load())
	if err != nil {
		return err
	}

	return report(cmd.OutOrStdout(), resolver.Verify(modules), strict)
}

func report(w io.Writer, warnings []resolver.Warning, strict bool) error {
	if len(warnings) == 0 {
		fmt.Fprintln(w, "✅ Everything is fine!")
		return nil
	}

	for _, warning := range warnings {
		fmt.Fprint(w, "⚠️  ", warning.String())
	}

	if strict {
		return fmt.Errorf("%w: %d package(s)", ErrDuplicates, len(warnings))
	}
	return nil
}
