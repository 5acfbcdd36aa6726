/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package descriptor reads the identity and module configuration of a
// package directory: package.json for name and version, and the module
// descriptor marker file for supported platforms.
package descriptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/tidwall/jsonc"

	alfs "bennypowers.dev/autolink/fs"
	"bennypowers.dev/autolink/npm"
)

const (
	// ConfigFileName is the module descriptor marker file.
	ConfigFileName = "expo-module.config.json"

	// LegacyConfigFileName is the descriptor name used by older modules.
	LegacyConfigFileName = "unimodule.json"
)

// ConfigFileNames are the marker file names in priority order. When a
// package ships more than one, the first wins.
var ConfigFileNames = []string{ConfigFileName, LegacyConfigFileName}

// Manifest is the subset of package.json autolinking cares about.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Package is a loaded module package.
type Package struct {
	// Dir is the package directory as given to Load.
	Dir string

	// ConfigPath is the descriptor file that was read.
	ConfigPath string

	Manifest *Manifest
	Config   *Config
}

// Load reads the package in dir. It returns an error matching
// ErrNotAModule if dir has no descriptor marker file.
func Load(filesystem alfs.FileSystem, dir string) (*Package, error) {
	configPath, err := findConfigFile(filesystem, dir)
	if err != nil {
		return nil, err
	}
	return LoadFile(filesystem, configPath)
}

// LoadConfig reads only the descriptor in dir, without package.json.
func LoadConfig(filesystem alfs.FileSystem, dir string) (*Config, error) {
	configPath, err := findConfigFile(filesystem, dir)
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(filesystem, configPath)
}

func findConfigFile(filesystem alfs.FileSystem, dir string) (string, error) {
	configPath, ok := FindConfigFile(filesystem, dir)
	if !ok {
		return "", &Error{
			Kind: ErrNotAModule,
			Dir:  dir,
			File: filepath.Join(dir, ConfigFileName),
			Err:  fs.ErrNotExist,
		}
	}
	return configPath, nil
}

// LoadFile reads the package whose descriptor is at configPath.
func LoadFile(filesystem alfs.FileSystem, configPath string) (*Package, error) {
	dir := filepath.Dir(configPath)

	cfg, err := LoadConfigFile(filesystem, configPath)
	if err != nil {
		return nil, err
	}

	manifest, err := LoadManifest(filesystem, dir)
	if err != nil {
		return nil, err
	}

	return &Package{
		Dir:        dir,
		ConfigPath: configPath,
		Manifest:   manifest,
		Config:     cfg,
	}, nil
}

// FindConfigFile returns the highest-priority descriptor file in dir.
func FindConfigFile(filesystem alfs.FileSystem, dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		p := filepath.Join(dir, name)
		if info, err := filesystem.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// LoadConfigFile reads and parses a descriptor file. Comments and trailing
// commas are tolerated.
func LoadConfigFile(filesystem alfs.FileSystem, path string) (*Config, error) {
	dir := filepath.Dir(path)

	data, err := filesystem.ReadFile(path)
	if err != nil {
		kind := ErrMalformedDescriptor
		if errors.Is(err, fs.ErrNotExist) {
			kind = ErrNotAModule
		}
		return nil, &Error{Kind: kind, Dir: dir, File: path, Err: err}
	}

	cfg := &Config{}
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, &Error{Kind: ErrMalformedDescriptor, Dir: dir, File: path, Err: err}
	}
	return cfg, nil
}

// LoadManifest reads dir/package.json. A missing or unparsable file is an
// ErrMalformedMetadata error; a missing version is not.
func LoadManifest(filesystem alfs.FileSystem, dir string) (*Manifest, error) {
	path := filepath.Join(dir, npm.ManifestFileName)

	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: ErrMalformedMetadata, Dir: dir, File: path, Err: err}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &fields); err != nil {
		return nil, &Error{Kind: ErrMalformedMetadata, Dir: dir, File: path, Err: err}
	}
	if fields == nil {
		return nil, &Error{Kind: ErrMalformedMetadata, Dir: dir, File: path, Err: fmt.Errorf("not a JSON object")}
	}

	m := &Manifest{}
	for _, f := range []struct {
		key string
		dst *string
	}{{"name", &m.Name}, {"version", &m.Version}} {
		key, dst := f.key, f.dst
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, &Error{
				Kind: ErrMalformedMetadata,
				Dir:  dir,
				File: path,
				Err:  fmt.Errorf("%q must be a string: %w", key, err),
			}
		}
	}

	return m, nil
}
