/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for native module
// autolinking.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/autolink/descriptor"
)

// ErrInvalidConfig indicates an autolinking configuration that cannot be
// decoded.
var ErrInvalidConfig = errors.New("invalid autolinking config")

// Config represents the autolinking configuration.
//
// The same shape is read from package.json under expo.autolinking, from
// .config/autolinking.{yaml,yml,json}, and is built from command line flags.
type Config struct {
	// SearchPaths are dependency directories, highest priority first.
	// Relative entries resolve against the project root and may be globs.
	SearchPaths []string `yaml:"searchPaths,omitempty" json:"searchPaths,omitempty"`

	// Exclude lists package names that are never linked.
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`

	// PlatformFallthrough lets a lower priority copy of a package win when
	// the closest copy does not support the target platform.
	PlatformFallthrough *bool `yaml:"platformFallthrough,omitempty" json:"platformFallthrough,omitempty"`

	// Platforms holds per-platform overrides, keyed like "ios: {...}".
	Platforms map[descriptor.Platform]*PlatformConfig `yaml:"-" json:"-"`
}

// PlatformConfig overrides top-level values for one platform.
type PlatformConfig struct {
	SearchPaths []string `yaml:"searchPaths,omitempty" json:"searchPaths,omitempty"`
	Exclude     []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

const (
	searchPathsKey = "searchPaths"
	excludeKey     = "exclude"
	fallthroughKey = "platformFallthrough"
)

// Default returns a config with default values. Search paths are left empty
// so that Options falls back to the node_modules directories above the
// project root.
func Default() *Config {
	return &Config{}
}

// ForPlatform returns the search paths and exclusions that apply to p,
// with the platform block taking precedence over top-level values.
func (c *Config) ForPlatform(p descriptor.Platform) PlatformConfig {
	out := PlatformConfig{
		SearchPaths: c.SearchPaths,
		Exclude:     c.Exclude,
	}
	if pc := c.Platforms[p]; pc != nil {
		if pc.SearchPaths != nil {
			out.SearchPaths = pc.SearchPaths
		}
		if pc.Exclude != nil {
			out.Exclude = pc.Exclude
		}
	}
	return out
}

// UnmarshalJSON decodes the known keys and any block keyed by a known
// platform. Other keys are ignored since package.json shares the
// expo.autolinking object with other tools.
func (c *Config) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: expected an object", ErrInvalidConfig)
	}

	decoders := make(map[string]func(any) error, len(fields))
	for key, raw := range fields {
		decoders[key] = func(dst any) error { return json.Unmarshal(raw, dst) }
	}
	return c.decode(decoders)
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: expected a mapping", ErrInvalidConfig, node.Line)
	}

	decoders := make(map[string]func(any) error, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		decoders[key] = value.Decode
	}
	return c.decode(decoders)
}

// decode fills c from per-key decoders, visiting keys in sorted order so
// that the first reported error does not depend on map iteration.
func (c *Config) decode(decoders map[string]func(any) error) error {
	*c = Config{}
	for _, key := range slices.Sorted(maps.Keys(decoders)) {
		decode := decoders[key]
		var err error
		switch key {
		case searchPathsKey:
			err = decode(&c.SearchPaths)
		case excludeKey:
			err = decode(&c.Exclude)
		case fallthroughKey:
			err = decode(&c.PlatformFallthrough)
		default:
			p := descriptor.Platform(key)
			if !p.IsKnown() {
				continue
			}
			pc := &PlatformConfig{}
			if err = decode(pc); err == nil {
				if c.Platforms == nil {
					c.Platforms = make(map[descriptor.Platform]*PlatformConfig)
				}
				c.Platforms[p] = pc
			}
		}
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidConfig, key, err)
		}
	}
	return nil
}

// MarshalJSON writes platform blocks alongside the top-level keys.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.flatten())
}

// MarshalYAML writes platform blocks alongside the top-level keys.
func (c Config) MarshalYAML() (any, error) {
	return c.flatten(), nil
}

func (c Config) flatten() map[string]any {
	out := make(map[string]any)
	if c.SearchPaths != nil {
		out[searchPathsKey] = c.SearchPaths
	}
	if c.Exclude != nil {
		out[excludeKey] = c.Exclude
	}
	if c.PlatformFallthrough != nil {
		out[fallthroughKey] = *c.PlatformFallthrough
	}
	for p, pc := range c.Platforms {
		if pc != nil {
			out[string(p)] = pc
		}
	}
	return out
}

// Merge layers configs, lowest precedence first. Search paths and the
// fallthrough flag are replaced by any later layer that sets them;
// exclusions accumulate. Nil layers are skipped.
func Merge(layers ...*Config) *Config {
	out := Default()
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		if layer.SearchPaths != nil {
			out.SearchPaths = slices.Clone(layer.SearchPaths)
		}
		out.Exclude = appendUnique(out.Exclude, layer.Exclude...)
		if layer.PlatformFallthrough != nil {
			v := *layer.PlatformFallthrough
			out.PlatformFallthrough = &v
		}
		for p, pc := range layer.Platforms {
			if pc == nil {
				continue
			}
			if out.Platforms == nil {
				out.Platforms = make(map[descriptor.Platform]*PlatformConfig)
			}
			merged := out.Platforms[p]
			if merged == nil {
				merged = &PlatformConfig{}
				out.Platforms[p] = merged
			}
			if pc.SearchPaths != nil {
				merged.SearchPaths = slices.Clone(pc.SearchPaths)
			}
			if pc.Exclude != nil {
				if merged.Exclude == nil {
					merged.Exclude = []string{}
				}
				merged.Exclude = appendUnique(merged.Exclude, pc.Exclude...)
			}
		}
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
