/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package load provides a high-level API for discovering native modules.
package load

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"bennypowers.dev/autolink/config"
	"bennypowers.dev/autolink/fs"
	"bennypowers.dev/autolink/internal/logger"
	"bennypowers.dev/autolink/npm"
	"bennypowers.dev/autolink/resolver"
)

// Options configures how modules are discovered.
type Options struct {
	// Root is the project root. When empty, the closest directory above the
	// working directory that has a package.json is used.
	Root string

	// FS is the filesystem to use. Defaults to OS filesystem if nil.
	FS fs.FileSystem

	// Platform is the target platform, e.g. "ios". Required.
	Platform string

	// SearchPaths replace every configured search path if set.
	// Relative entries resolve against Root.
	SearchPaths []string

	// Exclude adds package names to the configured exclusions.
	Exclude []string

	// PlatformFallthrough overrides the configured fallthrough policy if set.
	PlatformFallthrough *bool

	// Concurrency bounds parallel descriptor loads. See resolver.Options.
	Concurrency int
}

// Modules discovers the native modules linked into a project.
//
// The loading process:
//  1. Finds the project root if Options.Root is empty
//  2. Reads expo.autolinking from the project's package.json
//  3. Reads .config/autolinking.{yaml,yml,json}
//  4. Applies Options values (they take precedence over both)
//  5. Resolves modules for Options.Platform
func Modules(ctx context.Context, opts Options) (resolver.ModuleMap, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}

	resolved, err := ResolveOptions(filesystem, opts)
	if err != nil {
		return nil, err
	}

	return resolver.Resolve(ctx, filesystem, resolved)
}

// ResolveOptions merges every configuration source into the explicit
// options the resolver consumes.
func ResolveOptions(filesystem fs.FileSystem, opts Options) (resolver.Options, error) {
	root, err := projectRoot(filesystem, opts.Root)
	if err != nil {
		return resolver.Options{}, err
	}
	logger.Debug("project root: %s", root)

	manifest, err := config.LoadManifest(filesystem, root)
	if err != nil {
		return resolver.Options{}, fmt.Errorf("failed to load package.json config: %w", err)
	}

	file, err := config.Load(filesystem, root)
	if err != nil {
		return resolver.Options{}, fmt.Errorf("failed to load config file: %w", err)
	}

	overrides := &config.Config{PlatformFallthrough: opts.PlatformFallthrough}
	resolved, err := config.Merge(manifest, file, overrides).Options(filesystem, root, opts.Platform)
	if err != nil {
		return resolver.Options{}, err
	}

	// Explicit options win over platform blocks as well as top-level values.
	if len(opts.SearchPaths) > 0 {
		explicit, err := (&config.Config{SearchPaths: opts.SearchPaths}).Options(filesystem, root, opts.Platform)
		if err != nil {
			return resolver.Options{}, err
		}
		resolved.SearchPaths = explicit.SearchPaths
	}
	for _, name := range opts.Exclude {
		if !slices.Contains(resolved.Exclude, name) {
			resolved.Exclude = append(resolved.Exclude, name)
		}
	}

	resolved.Concurrency = opts.Concurrency
	logger.Debug("search paths for %s: %v", resolved.Platform, resolved.SearchPaths)
	return resolved, nil
}

func projectRoot(filesystem fs.FileSystem, root string) (string, error) {
	if root == "" {
		return npm.FindProjectRoot(filesystem, ".")
	}
	if filepath.IsAbs(root) {
		return filepath.Clean(root), nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root path: %w", err)
	}
	return abs, nil
}
