/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package scanner finds module packages inside one dependency directory.
//
// Only two layouts are recognised, mirroring flat node_modules trees:
//
//	<root>/<name>/<marker>
//	<root>/@<scope>/<name>/<marker>
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"bennypowers.dev/autolink/descriptor"
	alfs "bennypowers.dev/autolink/fs"
	"bennypowers.dev/autolink/internal/logger"
	"bennypowers.dev/autolink/npm"
)

// Match is one package directory containing a descriptor marker file.
type Match struct {
	// Name is the package name derived from the path below the root.
	Name string

	// Path is the package directory with symlinks resolved.
	Path string

	// ConfigPath is the marker file inside Path.
	ConfigPath string

	// Root is the search root the match was found in.
	Root string
}

// Scanner enumerates packages under search roots.
type Scanner struct {
	fs      alfs.FileSystem
	markers []string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithMarkers overrides the descriptor file names, highest priority first.
func WithMarkers(names ...string) Option {
	return func(s *Scanner) {
		s.markers = slices.Clone(names)
	}
}

// New creates a Scanner over filesystem.
func New(filesystem alfs.FileSystem, opts ...Option) *Scanner {
	s := &Scanner{
		fs:      filesystem,
		markers: slices.Clone(descriptor.ConfigFileNames),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns the packages under root, sorted by their path below root.
// Nothing touches the filesystem until the sequence is iterated, and every
// iteration scans afresh. A root that does not exist yields nothing.
func (s *Scanner) Scan(ctx context.Context, root string) iter.Seq2[Match, error] {
	return func(yield func(Match, error) bool) {
		matches, err := s.ScanAll(ctx, root)
		if err != nil {
			yield(Match{}, err)
			return
		}
		for _, m := range matches {
			if !yield(m, nil) {
				return
			}
		}
	}
}

// ScanAll is Scan collected into a slice.
func (s *Scanner) ScanAll(ctx context.Context, root string) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := s.fs.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("search path %s does not exist", root)
			return nil, nil
		}
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		logger.Debug("search path %s is not a directory", root)
		return nil, nil
	}

	fsys := alfs.Sub(s.fs, root)

	// package dir relative to root -> marker priority
	found := make(map[string]int)
	for priority, marker := range s.markers {
		for _, pattern := range patterns(marker) {
			paths, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("scanning %s for %s: %w", root, pattern, err)
			}
			for _, p := range paths {
				dir := path.Dir(p)
				if _, seen := found[dir]; !seen {
					found[dir] = priority
				}
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	dirs := make([]string, 0, len(found))
	for dir := range found {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)

	matches := make([]Match, 0, len(dirs))
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name, ok := npm.NameFromPath(dir)
		if !ok {
			logger.Debug("ignoring %s in %s: not a package name", dir, root)
			continue
		}

		real, err := s.fs.RealPath(filepath.Join(root, filepath.FromSlash(dir)))
		if err != nil {
			return nil, fmt.Errorf("resolving %s in %s: %w", dir, root, err)
		}

		matches = append(matches, Match{
			Name:       name,
			Path:       real,
			ConfigPath: filepath.Join(real, s.markers[found[dir]]),
			Root:       root,
		})
	}

	return matches, nil
}

// patterns returns the glob patterns locating marker in plain and scoped
// package directories.
func patterns(marker string) []string {
	escaped := escapeMeta(marker)
	return []string{
		"*/" + escaped,
		"@*/*/" + escaped,
	}
}

func escapeMeta(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '{', '}':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
