/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"slices"

	"bennypowers.dev/autolink/descriptor"
)

// Module is the package that won resolution for its name.
type Module struct {
	// Name is the package name, derived from its location in the search path.
	Name string `json:"name" yaml:"name"`

	// Path is the package directory with symlinks resolved.
	Path string `json:"path" yaml:"path"`

	// Version comes from the package's own package.json and may be empty.
	Version string `json:"version" yaml:"version"`

	// Platforms are the platforms the descriptor declares.
	Platforms []descriptor.Platform `json:"platforms" yaml:"platforms"`

	// Config is the descriptor, passed through for code generators.
	Config *descriptor.Config `json:"config" yaml:"config"`

	// ConfigPath is the descriptor file that was read.
	ConfigPath string `json:"configPath" yaml:"configPath"`

	// SearchPathIndex is the position of the search path that supplied the
	// package; 0 is the highest priority.
	SearchPathIndex int `json:"searchPathIndex" yaml:"searchPathIndex"`

	// Duplicates are copies of the same package in lower priority search
	// paths that lost to this one. They are informational only.
	Duplicates []Revision `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
}

// Revision is a shadowed copy of a package.
type Revision struct {
	Path            string `json:"path" yaml:"path"`
	Version         string `json:"version" yaml:"version"`
	SearchPathIndex int    `json:"searchPathIndex" yaml:"searchPathIndex"`
}

// ModuleMap maps package names to the winning module.
type ModuleMap map[string]*Module

// Names returns the package names in sorted order.
func (m ModuleMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Sorted returns the modules ordered by name.
func (m ModuleMap) Sorted() []*Module {
	out := make([]*Module, 0, len(m))
	for _, name := range m.Names() {
		out = append(out, m[name])
	}
	return out
}
