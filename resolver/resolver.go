/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver merges the packages found in ordered search paths into
// one module per package name.
//
// Search paths are ordered from most specific (an app's own node_modules) to
// least specific (a hoisted workspace node_modules). The first search path
// that contains a package name owns that name, whatever the versions say,
// which is how Node resolves nested dependencies.
package resolver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bennypowers.dev/autolink/descriptor"
	alfs "bennypowers.dev/autolink/fs"
	"bennypowers.dev/autolink/internal/logger"
	"bennypowers.dev/autolink/npm"
	"bennypowers.dev/autolink/scanner"
)

// Options configures a resolution.
type Options struct {
	// SearchPaths are the dependency directories, highest priority first.
	SearchPaths []string

	// Platform is the platform modules must support.
	Platform descriptor.Platform

	// Exclude lists package names to leave out entirely.
	Exclude []string

	// PlatformFallthrough lets a lower priority copy of a package win when
	// every higher priority copy lacks support for Platform. By default the
	// closest copy owns the name even when it is then filtered out.
	PlatformFallthrough bool

	// Concurrency bounds descriptor loads in flight per search path.
	// Defaults to GOMAXPROCS when zero or negative.
	Concurrency int
}

// Resolver resolves modules against a filesystem.
type Resolver struct {
	fs      alfs.FileSystem
	scanner *scanner.Scanner
}

// New creates a Resolver. Scanner options such as custom marker names are
// passed through.
func New(filesystem alfs.FileSystem, opts ...scanner.Option) *Resolver {
	return &Resolver{
		fs:      filesystem,
		scanner: scanner.New(filesystem, opts...),
	}
}

// Resolve is a convenience for New(filesystem).Resolve(ctx, opts).
func Resolve(ctx context.Context, filesystem alfs.FileSystem, opts Options) (ModuleMap, error) {
	return New(filesystem).Resolve(ctx, opts)
}

// Resolve scans every search path and merges the results. Any malformed
// package aborts the whole call; a cancelled context returns ctx.Err().
// No partial map is ever returned alongside an error.
func (r *Resolver) Resolve(ctx context.Context, opts Options) (ModuleMap, error) {
	if opts.Platform == "" {
		return nil, ErrNoPlatform
	}
	platform, err := descriptor.ParsePlatform(string(opts.Platform))
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	scans, err := r.scanSearchPaths(ctx, opts.SearchPaths)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		excluded[canonicalName(name)] = true
	}

	result := make(ModuleMap)
	seen := make(map[string]bool)

	for index, matches := range scans {
		searchPath := opts.SearchPaths[index]

		var pending []scanner.Match
		for _, m := range uniqueByName(searchPath, matches) {
			if excluded[m.Name] {
				logger.Debug("excluding %s", m.Name)
				continue
			}
			if seen[m.Name] {
				r.recordDuplicate(result[m.Name], m, index)
				continue
			}
			pending = append(pending, m)
		}

		pkgs, err := r.loadAll(ctx, pending, concurrency)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &Error{SearchPath: searchPath, SearchPathIndex: index, Err: err}
		}

		for i, m := range pending {
			pkg := pkgs[i]
			if !pkg.Config.SupportsPlatform(platform) {
				logger.Debug("%s at %s does not support %s", m.Name, m.Path, platform)
				if !opts.PlatformFallthrough {
					seen[m.Name] = true
				}
				continue
			}

			result[m.Name] = &Module{
				Name:            m.Name,
				Path:            m.Path,
				Version:         pkg.Manifest.Version,
				Platforms:       pkg.Config.Platforms,
				Config:          pkg.Config,
				ConfigPath:      pkg.ConfigPath,
				SearchPathIndex: index,
			}
			seen[m.Name] = true
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// scanSearchPaths scans all search paths concurrently. Results keep the
// search path order; merging happens afterwards, strictly in that order.
func (r *Resolver) scanSearchPaths(ctx context.Context, searchPaths []string) ([][]scanner.Match, error) {
	scans := make([][]scanner.Match, len(searchPaths))
	errs := make([]error, len(searchPaths))

	// A plain group: one failing search path must not cancel the others,
	// or their context errors could mask the real failure.
	var g errgroup.Group
	for i, searchPath := range searchPaths {
		g.Go(func() error {
			logger.Debug("scanning search path %d: %s", i, searchPath)
			scans[i], errs[i] = r.scanner.ScanAll(ctx, searchPath)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// report the highest priority failure, not whichever finished first
	for i, err := range errs {
		if err != nil {
			return nil, &Error{SearchPath: searchPaths[i], SearchPathIndex: i, Err: err}
		}
	}
	return scans, nil
}

// loadAll loads descriptors for matches concurrently. The returned error is
// the one for the earliest match in sorted order, so failures are reported
// deterministically.
func (r *Resolver) loadAll(ctx context.Context, matches []scanner.Match, concurrency int) ([]*descriptor.Package, error) {
	pkgs := make([]*descriptor.Package, len(matches))
	errs := make([]error, len(matches))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, m := range matches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			pkgs[i], errs[i] = descriptor.LoadFile(r.fs, m.ConfigPath)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return pkgs, nil
}

// recordDuplicate notes a shadowed copy on the winning module. Copies that
// resolve to the winner's own directory are the same package, not
// duplicates. The shadowed version is read on a best-effort basis since the
// copy is never linked.
func (r *Resolver) recordDuplicate(winner *Module, m scanner.Match, index int) {
	if winner == nil || winner.Path == m.Path {
		return
	}
	for _, d := range winner.Duplicates {
		if d.Path == m.Path {
			return
		}
	}

	rev := Revision{Path: m.Path, SearchPathIndex: index}
	if manifest, err := descriptor.LoadManifest(r.fs, m.Path); err == nil {
		rev.Version = manifest.Version
	} else {
		logger.Debug("reading version of shadowed %s: %v", m.Name, err)
	}
	winner.Duplicates = append(winner.Duplicates, rev)
}

// uniqueByName drops later matches whose name repeats an earlier one within
// the same search path. Matches arrive sorted by path, so the survivor does
// not depend on directory enumeration order.
func uniqueByName(searchPath string, matches []scanner.Match) []scanner.Match {
	names := make(map[string]string, len(matches))
	out := make([]scanner.Match, 0, len(matches))
	for _, m := range matches {
		if first, ok := names[m.Name]; ok {
			logger.Warn("%s appears twice in %s (%s and %s); using %s", m.Name, searchPath, first, m.Path, first)
			continue
		}
		names[m.Name] = m.Path
		out = append(out, m)
	}
	return out
}

func canonicalName(name string) string {
	if n, err := npm.ParseName(name); err == nil {
		return n.String()
	}
	return name
}
