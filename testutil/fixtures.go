/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package testutil provides testing utilities for autolink.
package testutil

import (
	"encoding/json"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/autolink/internal/mapfs"
)

// updateGolden enables updating golden files with actual output when -update flag is set.
var updateGolden = flag.Bool("update", false, "update golden files with actual output")

// testdataDirs are tried in order since go test runs in the package directory.
var testdataDirs = []string{
	"testdata",
	filepath.Join("..", "testdata"),
	filepath.Join("..", "..", "testdata"),
}

// NewFixtureFS loads fixture files from testdata and returns a MapFileSystem
// with files mapped to the specified root path.
func NewFixtureFS(t *testing.T, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()

	mfs := mapfs.New()

	var fixturePath string
	for _, dir := range testdataDirs {
		p := filepath.Join(dir, fixtureDir)
		if _, err := os.Stat(p); err == nil {
			fixturePath = p
			break
		}
	}
	if fixturePath == "" {
		t.Fatalf("Could not find fixtures at %s (tried all paths)", fixtureDir)
	}

	err := filepath.WalkDir(fixturePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fixturePath, path)
		if err != nil {
			return err
		}

		mfs.AddFile(filepath.Join(rootPath, relPath), string(content), 0644)
		return nil
	})

	if err != nil {
		t.Fatalf("Failed to load fixtures from %s: %v", fixtureDir, err)
	}

	return mfs
}

// Module describes a package to add with AddModule.
type Module struct {
	Name      string
	Version   string
	Platforms []string
}

// AddModule writes package.json and expo-module.config.json for m into dir.
// An empty Version omits the field.
func AddModule(t *testing.T, mfs *mapfs.MapFileSystem, dir string, m Module) {
	t.Helper()

	manifest := map[string]string{"name": m.Name}
	if m.Version != "" {
		manifest["version"] = m.Version
	}
	pkg, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("marshal package.json: %v", err)
	}

	platforms := m.Platforms
	if platforms == nil {
		platforms = []string{}
	}
	cfg, err := json.Marshal(map[string]any{"platforms": platforms})
	if err != nil {
		t.Fatalf("marshal descriptor: %v", err)
	}

	mfs.AddFile(filepath.Join(dir, "package.json"), string(pkg), 0644)
	mfs.AddFile(filepath.Join(dir, "expo-module.config.json"), string(cfg), 0644)
}

// LoadFixtureFile reads a single fixture file and returns its content.
func LoadFixtureFile(t *testing.T, fixturePath string) []byte {
	t.Helper()

	for _, dir := range testdataDirs {
		content, err := os.ReadFile(filepath.Join(dir, fixturePath))
		if err == nil {
			return content
		}
	}
	t.Fatalf("Failed to read fixture %s (tried all paths)", fixturePath)
	return nil
}

// UpdateGoldenFile writes actual output to the golden file when -update flag is set.
func UpdateGoldenFile(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()
	if !*updateGolden {
		return
	}

	targetPath := filepath.Join(testdataDirs[0], goldenPath)
	for _, dir := range testdataDirs {
		p := filepath.Join(dir, goldenPath)
		if _, err := os.Stat(filepath.Dir(p)); err == nil {
			targetPath = p
			break
		}
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		t.Fatalf("Failed to create directory for golden file %s: %v", goldenPath, err)
	}

	if err := os.WriteFile(targetPath, actual, 0644); err != nil {
		t.Fatalf("Failed to write golden file %s: %v", goldenPath, err)
	}

	t.Logf("Updated golden file: %s", targetPath)
}
