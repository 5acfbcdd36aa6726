/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package descriptor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfig_UnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"platforms": ["iOS", "android", "ios", "windows"],
		"ios": {"modules": ["A"]},
		"android": {"modules": ["b.B"]},
		"web": {"entry": "index.web.js"},
		"windows": {"project": "x.vcxproj"},
		"name": "legacy"
	}`)

	var cfg Config
	require.NoError(t, json.Unmarshal(data, &cfg))

	assert.Equal(t, []Platform{PlatformIOS, PlatformAndroid, "windows"}, cfg.Platforms)
	assert.Len(t, cfg.Blocks, 4, "known platforms and declared platforms are blocks")
	assert.Contains(t, cfg.Blocks, PlatformWeb)
	assert.Contains(t, cfg.Blocks, Platform("windows"))
	assert.Equal(t, map[string]json.RawMessage{"name": json.RawMessage(`"legacy"`)}, cfg.Extra)

	assert.True(t, cfg.SupportsPlatform("windows"))
	assert.False(t, cfg.SupportsPlatform(PlatformWeb), "a block alone does not declare support")
}

func TestConfig_UnmarshalJSON_BlockKeyCase(t *testing.T) {
	t.Run("mixed case block", func(t *testing.T) {
		var cfg Config
		require.NoError(t, json.Unmarshal([]byte(`{"platforms":["iOS"],"iOS":{"modules":["A"]}}`), &cfg))

		assert.Equal(t, []Platform{PlatformIOS}, cfg.Platforms)
		assert.Empty(t, cfg.Extra)

		apple, err := cfg.Apple(PlatformIOS)
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, apple.Modules)
	})

	t.Run("declared unknown platform", func(t *testing.T) {
		var cfg Config
		require.NoError(t, json.Unmarshal([]byte(`{"platforms":["Windows"],"Windows":{"project":"x"}}`), &cfg))
		assert.Contains(t, cfg.Blocks, Platform("windows"))
		assert.Empty(t, cfg.Extra)
	})

	t.Run("lowercase spelling wins", func(t *testing.T) {
		var cfg Config
		require.NoError(t, json.Unmarshal([]byte(`{"platforms":["ios"],"IOS":{"modules":["Upper"]},"ios":{"modules":["Lower"]}}`), &cfg))

		apple, err := cfg.Apple(PlatformIOS)
		require.NoError(t, err)
		assert.Equal(t, []string{"Lower"}, apple.Modules)
		assert.Equal(t, map[string]json.RawMessage{"IOS": json.RawMessage(`{"modules":["Upper"]}`)}, cfg.Extra)
	})

	t.Run("unrelated keys keep their case", func(t *testing.T) {
		var cfg Config
		require.NoError(t, json.Unmarshal([]byte(`{"platforms":["ios"],"Name":"x"}`), &cfg))
		assert.Contains(t, cfg.Extra, "Name")
	})
}

func TestConfig_UnmarshalJSON_Errors(t *testing.T) {
	for name, data := range map[string]string{
		"string platforms": `{"platforms": "ios"}`,
		"number in array":  `{"platforms": ["ios", 1]}`,
		"empty platform":   `{"platforms": [""]}`,
		"not an object":    `["ios"]`,
		"null":             `null`,
	} {
		t.Run(name, func(t *testing.T) {
			var cfg Config
			assert.Error(t, json.Unmarshal([]byte(data), &cfg))
		})
	}
}

func TestConfig_MissingPlatforms(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(`{"ios": {}}`), &cfg))
	assert.Empty(t, cfg.Platforms)
	assert.False(t, cfg.SupportsPlatform(PlatformIOS))
}

func TestConfig_MarshalJSON_Stable(t *testing.T) {
	data := []byte(`{"ios":{"modules":["A"]},"platforms":["ios"],"zeta":1,"alpha":{"b":2, "a":1}}`)

	var cfg Config
	require.NoError(t, json.Unmarshal(data, &cfg))

	first, err := json.Marshal(cfg)
	require.NoError(t, err)
	second, err := json.Marshal(&cfg)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.JSONEq(t, string(data), string(first))
	assert.Equal(t, `{"alpha":{"b":2,"a":1},"ios":{"modules":["A"]},"platforms":["ios"],"zeta":1}`, string(first))
}

func TestConfig_MarshalJSON_Normalized(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(`{"platforms":["iOS","ios","Android"],"iOS":{}}`), &cfg))

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Equal(t, `{"ios":{},"platforms":["ios","android"]}`, string(out))
}

func TestConfig_MarshalYAML(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(`{"platforms":["android"],"android":{"modules":["a.B"]}}`), &cfg))

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Equal(t, "android:\n    modules:\n        - a.B\nplatforms:\n    - android\n", string(out))
}

func TestConfig_DecodeBlock_Missing(t *testing.T) {
	cfg := Config{Platforms: []Platform{PlatformIOS}}
	apple, err := cfg.Apple(PlatformIOS)
	require.NoError(t, err)
	assert.Empty(t, apple.Modules)
}
