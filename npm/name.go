/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package npm handles npm package names and node_modules layouts.
package npm

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidName indicates a string is not a usable package name.
var ErrInvalidName = errors.New("invalid package name")

// maxNameLength is npm's limit on the full name, scope included.
const maxNameLength = 214

// namePattern matches @scope/pkg or pkg
var namePattern = regexp.MustCompile(`^(?:(@[^/]+)/)?([^/]+)$`)

// Name is a parsed package name.
type Name struct {
	// Scope is the scope including the leading "@", or empty.
	Scope string

	// Base is the unscoped part of the name.
	Base string
}

// String returns the full package name.
func (n Name) String() string {
	if n.Scope == "" {
		return n.Base
	}
	return n.Scope + "/" + n.Base
}

// IsScoped returns true for @scope/pkg names.
func (n Name) IsScoped() bool {
	return n.Scope != ""
}

// ParseName parses and validates a package name. The result is NFC
// normalized so that names read from NFD filesystems compare equal.
func ParseName(raw string) (Name, error) {
	name := norm.NFC.String(raw)
	if name == "" {
		return Name{}, fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return Name{}, fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidName, name, maxNameLength)
	}

	matches := namePattern.FindStringSubmatch(name)
	if matches == nil {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	n := Name{Scope: matches[1], Base: matches[2]}
	if n.Scope != "" && !validSegment(n.Scope[1:]) {
		return Name{}, fmt.Errorf("%w: bad scope in %q", ErrInvalidName, name)
	}
	if strings.HasPrefix(n.Base, "@") || !validSegment(n.Base) {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return n, nil
}

// NameFromPath derives the package name from a package directory's path
// relative to the directory holding packages, using forward slashes.
// Only "pkg" and "@scope/pkg" shapes are accepted.
func NameFromPath(rel string) (string, bool) {
	rel = path.Clean(rel)
	segments := strings.Split(rel, "/")
	switch len(segments) {
	case 1:
		if strings.HasPrefix(segments[0], "@") {
			return "", false
		}
	case 2:
		if !strings.HasPrefix(segments[0], "@") {
			return "", false
		}
	default:
		return "", false
	}

	n, err := ParseName(rel)
	if err != nil {
		return "", false
	}
	return n.String(), true
}

// validSegment rejects names npm would refuse and path tricks: dot and
// underscore prefixes, whitespace, and characters unsafe in paths.
func validSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, "_") {
		return false
	}
	return !strings.ContainsAny(s, " \t\n\\:*?\"<>|~'()!")
}
