/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"
	"strings"
)

// Warning describes a package found in more than one search path.
type Warning struct {
	Name     string
	Linked   Revision
	Shadowed []Revision
}

func (w Warning) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "found multiple revisions of %s\n", w.Name)
	fmt.Fprintf(&b, "  - %s (%s) <- linked\n", w.Linked.Path, versionOrUnknown(w.Linked.Version))
	for _, rev := range w.Shadowed {
		fmt.Fprintf(&b, "  - %s (%s)\n", rev.Path, versionOrUnknown(rev.Version))
	}
	return b.String()
}

// Verify reports every module that shadows copies of itself in lower
// priority search paths, sorted by name. Shadowing is legal; the warnings
// exist because differing native code versions are a common source of
// build failures.
func Verify(modules ModuleMap) []Warning {
	var warnings []Warning
	for _, m := range modules.Sorted() {
		if len(m.Duplicates) == 0 {
			continue
		}
		warnings = append(warnings, Warning{
			Name: m.Name,
			Linked: Revision{
				Path:            m.Path,
				Version:         m.Version,
				SearchPathIndex: m.SearchPathIndex,
			},
			Shadowed: m.Duplicates,
		})
	}
	return warnings
}

func versionOrUnknown(v string) string {
	if v == "" {
		return "unknown version"
	}
	return v
}
