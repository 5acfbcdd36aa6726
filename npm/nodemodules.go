/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package npm

import (
	"errors"
	"fmt"
	"path/filepath"

	alfs "bennypowers.dev/autolink/fs"
)

// ErrNoProjectRoot indicates no package.json was found above a directory.
var ErrNoProjectRoot = errors.New("no project root")

const (
	// NodeModules is the name of the dependency directory.
	NodeModules = "node_modules"

	// ManifestFileName is the package metadata file.
	ManifestFileName = "package.json"
)

// FindNodeModules walks up the directory tree from startDir and returns every
// existing node_modules directory, closest first. This is the order in which
// Node itself resolves packages, so nested copies shadow hoisted ones.
func FindNodeModules(filesystem alfs.FileSystem, startDir string) ([]string, error) {
	dir, err := absDir(startDir)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for {
		candidate := filepath.Join(dir, NodeModules)
		if info, err := filesystem.Stat(candidate); err == nil && info.IsDir() {
			dirs = append(dirs, candidate)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return dirs, nil
}

// FindProjectRoot walks up from startDir to the closest directory that has a
// package.json. Returns an error if none is found.
func FindProjectRoot(filesystem alfs.FileSystem, startDir string) (string, error) {
	dir, err := absDir(startDir)
	if err != nil {
		return "", err
	}
	start := dir

	for {
		if filesystem.Exists(filepath.Join(dir, ManifestFileName)) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: no %s found in %s or any parent directory", ErrNoProjectRoot, ManifestFileName, start)
}

func absDir(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}
	return abs, nil
}
