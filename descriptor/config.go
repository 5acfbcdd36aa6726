/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package descriptor

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

const platformsKey = "platforms"

// Config is the content of a module descriptor marker file.
//
// Only Platforms is interpreted. Blocks keyed by a platform identifier and
// all other fields are carried verbatim for code generators downstream.
type Config struct {
	// Platforms lists the platforms the module supports, in declared order.
	Platforms []Platform

	// Blocks holds per-platform sections such as "ios" or "android".
	Blocks map[Platform]json.RawMessage

	// Extra holds the remaining top-level fields.
	Extra map[string]json.RawMessage
}

// AppleConfig is the typed view of an ios, macos or tvos block.
type AppleConfig struct {
	Modules                []string `json:"modules,omitempty"`
	PodspecPath            string   `json:"podspecPath,omitempty"`
	AppDelegateSubscribers []string `json:"appDelegateSubscribers,omitempty"`
	ReactDelegateHandlers  []string `json:"reactDelegateHandlers,omitempty"`
}

// AndroidConfig is the typed view of the android block.
type AndroidConfig struct {
	Modules []string `json:"modules,omitempty"`
}

// SupportsPlatform returns true if the descriptor declares p.
func (c *Config) SupportsPlatform(p Platform) bool {
	return slices.Contains(c.Platforms, p)
}

// Block returns the raw block for p.
func (c *Config) Block(p Platform) (json.RawMessage, bool) {
	raw, ok := c.Blocks[p]
	return raw, ok
}

// DecodeBlock decodes the block for p into v. A missing block leaves v
// untouched.
func (c *Config) DecodeBlock(p Platform, v any) error {
	raw, ok := c.Blocks[p]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding %s block: %w", p, err)
	}
	return nil
}

// Apple decodes the block for an Apple platform.
func (c *Config) Apple(p Platform) (*AppleConfig, error) {
	cfg := &AppleConfig{}
	if err := c.DecodeBlock(p, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Android decodes the android block.
func (c *Config) Android() (*AndroidConfig, error) {
	cfg := &AndroidConfig{}
	if err := c.DecodeBlock(PlatformAndroid, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UnmarshalJSON splits a descriptor object into platforms, platform blocks
// and everything else.
func (c *Config) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("descriptor must be a JSON object")
	}

	var declared []string
	if raw, ok := fields[platformsKey]; ok {
		if err := json.Unmarshal(raw, &declared); err != nil {
			return fmt.Errorf("%q must be an array of strings: %w", platformsKey, err)
		}
	}

	platforms := make([]Platform, 0, len(declared))
	for _, s := range declared {
		p, err := ParsePlatform(s)
		if err != nil {
			return err
		}
		if !slices.Contains(platforms, p) {
			platforms = append(platforms, p)
		}
	}

	cfg := Config{Platforms: platforms}
	// platform -> key its block was read from
	blockKeys := make(map[Platform]string)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if key == platformsKey {
			continue
		}
		raw := fields[key]
		p, ok := blockPlatform(key, platforms)
		if !ok {
			cfg.setExtra(key, raw)
			continue
		}
		// the lowercase spelling wins; other spellings stay in Extra
		if prev, taken := blockKeys[p]; taken {
			if key != string(p) {
				cfg.setExtra(key, raw)
				continue
			}
			cfg.setExtra(prev, cfg.Blocks[p])
		}
		if cfg.Blocks == nil {
			cfg.Blocks = make(map[Platform]json.RawMessage)
		}
		cfg.Blocks[p] = raw
		blockKeys[p] = key
	}

	*c = cfg
	return nil
}

// blockPlatform reports whether key names a platform block: a known
// platform or one the descriptor declares, in any letter case.
func blockPlatform(key string, declared []Platform) (Platform, bool) {
	p, err := ParsePlatform(key)
	if err != nil {
		return "", false
	}
	return p, p.IsKnown() || slices.Contains(declared, p)
}

func (c *Config) setExtra(key string, raw json.RawMessage) {
	if c.Extra == nil {
		c.Extra = make(map[string]json.RawMessage)
	}
	c.Extra[key] = raw
}

// MarshalJSON reassembles the descriptor object. Keys are sorted, so the
// output is stable. Platforms and block keys come out in their normalized
// form: lowercase, with repeated platforms dropped.
func (c Config) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(c.Blocks)+len(c.Extra)+1)
	for key, raw := range c.Extra {
		fields[key] = raw
	}
	for p, raw := range c.Blocks {
		fields[string(p)] = raw
	}

	platforms := c.Platforms
	if platforms == nil {
		platforms = []Platform{}
	}
	raw, err := json.Marshal(platforms)
	if err != nil {
		return nil, err
	}
	fields[platformsKey] = raw

	return json.Marshal(fields)
}

// MarshalYAML renders the descriptor through its JSON form so that raw
// blocks come out as YAML mappings rather than byte sequences.
func (c Config) MarshalYAML() (any, error) {
	data, err := c.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
