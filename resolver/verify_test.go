/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/autolink/descriptor"
	"bennypowers.dev/autolink/resolver"
	"bennypowers.dev/autolink/testutil"
)

func TestVerify(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/search/workspace", "/repo")

	modules := resolve(t, mfs, resolver.Options{
		SearchPaths: []string{"/repo/packages/app/node_modules", "/repo/node_modules"},
		Platform:    descriptor.PlatformIOS,
	})

	warnings := resolver.Verify(modules)
	require.Len(t, warnings, 1)

	w := warnings[0]
	assert.Equal(t, "pkg", w.Name)
	assert.Equal(t, "/repo/packages/app/node_modules/pkg", w.Linked.Path)
	assert.Equal(t, "1.0.0", w.Linked.Version)
	require.Len(t, w.Shadowed, 1)
	assert.Equal(t, "0.0.0", w.Shadowed[0].Version)

	msg := w.String()
	assert.Contains(t, msg, "found multiple revisions of pkg")
	assert.Contains(t, msg, "/repo/packages/app/node_modules/pkg (1.0.0) <- linked")
	assert.Contains(t, msg, "/repo/node_modules/pkg (0.0.0)")
}

func TestVerify_Clean(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/search/scoped", "/project")

	modules := resolve(t, mfs, resolver.Options{
		SearchPaths: []string{"/project/node_modules"},
		Platform:    descriptor.PlatformIOS,
	})
	assert.Empty(t, resolver.Verify(modules))
	assert.Empty(t, resolver.Verify(nil))
}

func TestWarning_UnknownVersion(t *testing.T) {
	w := resolver.Warning{
		Name:     "pkg",
		Linked:   resolver.Revision{Path: "/a/pkg"},
		Shadowed: []resolver.Revision{{Path: "/b/pkg", Version: "2.0.0", SearchPathIndex: 1}},
	}
	assert.Contains(t, w.String(), "/a/pkg (unknown version) <- linked")
	assert.Contains(t, w.String(), "/b/pkg (2.0.0)")
}
