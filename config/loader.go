/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/autolink/descriptor"
	alfs "bennypowers.dev/autolink/fs"
	"bennypowers.dev/autolink/internal/logger"
	"bennypowers.dev/autolink/npm"
	"bennypowers.dev/autolink/resolver"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "autolinking"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json", ".toml"}

// Load searches for .config/autolinking.{yaml,yml,json,toml} from rootDir.
// Returns nil if no config found (not an error).
func Load(filesystem alfs.FileSystem, rootDir string) (*Config, error) {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if !filesystem.Exists(configPath) {
			continue
		}

		data, err := filesystem.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		cfg := &Config{}
		switch ext {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, cfg)
		case ".json":
			err = json.Unmarshal(jsonc.ToJSON(data), cfg)
		case ".toml":
			err = unmarshalTOML(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, asInvalid(err))
		}

		logger.Debug("loaded config from %s", configPath)
		return cfg, nil
	}

	return nil, nil
}

// unmarshalTOML decodes TOML through the JSON form of the document, so
// platform tables such as [ios] reach Config.UnmarshalJSON.
func unmarshalTOML(data []byte, cfg *Config) error {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, cfg)
}

// LoadManifest reads the expo.autolinking block of rootDir/package.json.
// Returns nil if the manifest or the block is absent (not an error).
func LoadManifest(filesystem alfs.FileSystem, rootDir string) (*Config, error) {
	manifestPath := filepath.Join(rootDir, npm.ManifestFileName)
	data, err := filesystem.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var manifest struct {
		Expo *struct {
			Autolinking json.RawMessage `json:"autolinking"`
		} `json:"expo"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &manifest); err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, asInvalid(err))
	}
	if manifest.Expo == nil || len(manifest.Expo.Autolinking) == 0 || string(manifest.Expo.Autolinking) == "null" {
		return nil, nil
	}

	cfg := &Config{}
	if err := json.Unmarshal(manifest.Expo.Autolinking, cfg); err != nil {
		return nil, fmt.Errorf("%s: expo.autolinking: %w", manifestPath, asInvalid(err))
	}
	return cfg, nil
}

// Options produces the resolver options for platform. Search paths are made
// absolute against rootDir and glob entries are expanded; when no search
// paths are configured, every node_modules directory from rootDir upward is
// used, closest first.
func (c *Config) Options(filesystem alfs.FileSystem, rootDir string, platform string) (resolver.Options, error) {
	if platform == "" {
		return resolver.Options{}, resolver.ErrNoPlatform
	}
	p, err := descriptor.ParsePlatform(platform)
	if err != nil {
		return resolver.Options{}, err
	}

	pc := c.ForPlatform(p)

	var searchPaths []string
	if len(pc.SearchPaths) == 0 {
		searchPaths, err = npm.FindNodeModules(filesystem, rootDir)
		if err != nil {
			return resolver.Options{}, err
		}
	} else {
		for _, entry := range pc.SearchPaths {
			expanded, err := expandSearchPath(filesystem, rootDir, entry)
			if err != nil {
				return resolver.Options{}, err
			}
			searchPaths = appendUnique(searchPaths, expanded...)
		}
	}

	opts := resolver.Options{
		SearchPaths: searchPaths,
		Platform:    p,
		Exclude:     slices.Clone(pc.Exclude),
	}
	if c.PlatformFallthrough != nil {
		opts.PlatformFallthrough = *c.PlatformFallthrough
	}
	return opts, nil
}

// expandSearchPath makes entry absolute and expands it if it is a glob.
// Glob matches are directories only, in sorted order. A plain entry is
// passed through even if it does not exist yet.
func expandSearchPath(filesystem alfs.FileSystem, rootDir, entry string) ([]string, error) {
	pattern := filepath.ToSlash(entry)
	if !path.IsAbs(pattern) && !filepath.IsAbs(entry) {
		pattern = path.Join(filepath.ToSlash(rootDir), pattern)
	}

	if !containsGlob(pattern) {
		return []string{filepath.Clean(filepath.FromSlash(pattern))}, nil
	}

	baseDir, relPattern := doublestar.SplitPattern(pattern)
	if !doublestar.ValidatePattern(relPattern) {
		return nil, fmt.Errorf("%w: search path %q: %w", ErrInvalidConfig, entry, doublestar.ErrBadPattern)
	}

	base := filepath.FromSlash(baseDir)
	if !filesystem.Exists(base) {
		return nil, nil
	}

	var matches []string
	err := doublestar.GlobWalk(alfs.Sub(filesystem, base), relPattern, func(p string, d fs.DirEntry) error {
		matches = append(matches, filepath.Join(base, filepath.FromSlash(p)))
		return nil
	}, doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("expanding search path %q: %w", entry, err)
	}

	dirs := matches[:0]
	for _, m := range matches {
		if info, err := filesystem.Stat(m); err == nil && info.IsDir() {
			dirs = append(dirs, m)
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}

// containsGlob returns true if the pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func asInvalid(err error) error {
	if errors.Is(err, ErrInvalidConfig) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}
