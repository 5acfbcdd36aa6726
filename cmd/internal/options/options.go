/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package options holds the flags shared by every command that resolves
// modules.
package options

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bennypowers.dev/autolink/internal/logger"
	"bennypowers.dev/autolink/load"
)

// EnvPrefix prefixes environment variables, e.g. AUTOLINK_PLATFORM.
const EnvPrefix = "AUTOLINK"

const (
	rootKey        = "root"
	platformKey    = "platform"
	searchPathKey  = "search-path"
	excludeKey     = "exclude"
	fallthroughKey = "fallthrough"
	concurrencyKey = "concurrency"
	verboseKey     = "verbose"
)

// Register adds the shared flags to flags.
func Register(flags *pflag.FlagSet) {
	flags.String(rootKey, "", "Project root (default: closest directory with a package.json)")
	flags.StringP(platformKey, "p", "", "Target platform (ios, android, web, macos, tvos)")
	flags.StringSlice(searchPathKey, nil, "Search path, highest priority first (repeatable; replaces configured paths)")
	flags.StringSlice(excludeKey, nil, "Package name to leave unlinked (repeatable)")
	flags.Bool(fallthroughKey, false, "Let a lower priority copy win when the closest copy lacks the platform")
	flags.Int(concurrencyKey, 0, "Maximum descriptor reads in flight (default: GOMAXPROCS)")
	flags.BoolP(verboseKey, "v", false, "Print debug output to stderr")
}

// EnvFile is read from the working directory, if present, before flags are
// bound. Variables already set in the environment win.
const EnvFile = ".env"

// Bind connects the flags of cmd to viper, so that each one can also be set
// through its AUTOLINK_ environment variable, and applies --verbose.
func Bind(cmd *cobra.Command) error {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading %s: %w", EnvFile, err)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetVerbose(viper.GetBool(verboseKey))
	return nil
}

// Load returns the load options described by flags and environment.
func Load() load.Options {
	opts := load.Options{
		Root:        viper.GetString(rootKey),
		Platform:    viper.GetString(platformKey),
		SearchPaths: viper.GetStringSlice(searchPathKey),
		Exclude:     viper.GetStringSlice(excludeKey),
		Concurrency: viper.GetInt(concurrencyKey),
	}
	if viper.IsSet(fallthroughKey) {
		enabled := viper.GetBool(fallthroughKey)
		opts.PlatformFallthrough = &enabled
	}
	return opts
}
