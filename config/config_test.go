/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/autolink/descriptor"
)

func ptr[T any](v T) *T { return &v }

func TestMerge(t *testing.T) {
	manifest := &Config{
		SearchPaths: []string{"from-manifest"},
		Exclude:     []string{"a"},
		Platforms: map[descriptor.Platform]*PlatformConfig{
			descriptor.PlatformIOS: {Exclude: []string{"ios-a"}},
		},
	}
	file := &Config{
		SearchPaths:         []string{"from-file"},
		Exclude:             []string{"b", "a"},
		PlatformFallthrough: ptr(true),
		Platforms: map[descriptor.Platform]*PlatformConfig{
			descriptor.PlatformIOS: {SearchPaths: []string{"ios-file"}, Exclude: []string{"ios-b"}},
		},
	}
	flags := &Config{PlatformFallthrough: ptr(false)}

	merged := Merge(nil, manifest, file, nil, flags)

	assert.Equal(t, []string{"from-file"}, merged.SearchPaths)
	assert.Equal(t, []string{"a", "b"}, merged.Exclude)
	require.NotNil(t, merged.PlatformFallthrough)
	assert.False(t, *merged.PlatformFallthrough)

	ios := merged.Platforms[descriptor.PlatformIOS]
	require.NotNil(t, ios)
	assert.Equal(t, []string{"ios-file"}, ios.SearchPaths)
	assert.Equal(t, []string{"ios-a", "ios-b"}, ios.Exclude)

	// layers are not aliased
	merged.SearchPaths[0] = "changed"
	assert.Equal(t, "from-file", file.SearchPaths[0])
}

func TestMerge_Empty(t *testing.T) {
	merged := Merge()
	require.NotNil(t, merged)
	assert.Nil(t, merged.SearchPaths)
	assert.Nil(t, merged.PlatformFallthrough)
}

func TestConfig_JSONRoundTrip(t *testing.T) {
	cfg := &Config{
		SearchPaths: []string{"node_modules"},
		Platforms: map[descriptor.Platform]*PlatformConfig{
			descriptor.PlatformAndroid: {Exclude: []string{"x"}},
		},
	}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"searchPaths":["node_modules"],"android":{"exclude":["x"]}}`, string(data))

	var decoded Config
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, cfg.SearchPaths, decoded.SearchPaths)
	assert.Equal(t, []string{"x"}, decoded.Platforms[descriptor.PlatformAndroid].Exclude)
}

func TestConfig_YAML(t *testing.T) {
	var cfg Config
	err := yaml.Unmarshal([]byte("exclude: [a]\ntvos:\n  searchPaths: [tv]\nunknownKey: 1\n"), &cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, cfg.Exclude)
	assert.Equal(t, []string{"tv"}, cfg.Platforms[descriptor.PlatformTVOS].SearchPaths)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "tvos:")

	err = yaml.Unmarshal([]byte("- a\n- b\n"), &cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestForPlatform(t *testing.T) {
	cfg := &Config{
		SearchPaths: []string{"top"},
		Exclude:     []string{"x"},
		Platforms: map[descriptor.Platform]*PlatformConfig{
			descriptor.PlatformIOS: {SearchPaths: []string{"ios"}},
		},
	}

	ios := cfg.ForPlatform(descriptor.PlatformIOS)
	if !slices.Equal(ios.SearchPaths, []string{"ios"}) || !slices.Equal(ios.Exclude, []string{"x"}) {
		t.Errorf("unexpected ios config %+v", ios)
	}

	android := cfg.ForPlatform(descriptor.PlatformAndroid)
	if !slices.Equal(android.SearchPaths, []string{"top"}) {
		t.Errorf("unexpected android config %+v", android)
	}
}
