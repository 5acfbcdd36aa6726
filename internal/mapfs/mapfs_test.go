/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package mapfs

import (
	"errors"
	"io/fs"
	"testing"
)

func TestMapFileSystem_ReadFile(t *testing.T) {
	mfs := New()
	mfs.AddFile("/project/package.json", `{"name":"app"}`, 0644)

	data, err := mfs.ReadFile("/project/package.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"name":"app"}` {
		t.Errorf("unexpected content %q", data)
	}

	if _, err := mfs.ReadFile("/project/missing.json"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestMapFileSystem_Exists(t *testing.T) {
	mfs := New()
	mfs.AddFile("/project/node_modules/pkg/package.json", `{}`, 0644)
	mfs.AddDir("/project/empty", 0755)

	for _, p := range []string{"/", "/project", "/project/node_modules", "/project/node_modules/pkg/package.json", "/project/empty"} {
		if !mfs.Exists(p) {
			t.Errorf("expected %s to exist", p)
		}
	}
	if mfs.Exists("/project/node_modules/other") {
		t.Error("expected /project/node_modules/other not to exist")
	}
}

func TestMapFileSystem_Symlink(t *testing.T) {
	mfs := New()
	mfs.AddFile("/store/pkg@1.0.0/package.json", `{"name":"pkg","version":"1.0.0"}`, 0644)
	mfs.AddSymlink("/project/node_modules/pkg", "/store/pkg@1.0.0")

	t.Run("read through link", func(t *testing.T) {
		data, err := mfs.ReadFile("/project/node_modules/pkg/package.json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"name":"pkg","version":"1.0.0"}` {
			t.Errorf("unexpected content %q", data)
		}
	})

	t.Run("stat follows link", func(t *testing.T) {
		info, err := mfs.Stat("/project/node_modules/pkg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected link to resolve to a directory")
		}
	})

	t.Run("listing reports link", func(t *testing.T) {
		entries, err := mfs.ReadDir("/project/node_modules")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 || entries[0].Name() != "pkg" {
			t.Fatalf("unexpected entries %v", entries)
		}
		if entries[0].Type()&fs.ModeSymlink == 0 {
			t.Errorf("expected symlink entry, got mode %v", entries[0].Type())
		}
	})

	t.Run("real path", func(t *testing.T) {
		real, err := mfs.RealPath("/project/node_modules/pkg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if real != "/store/pkg@1.0.0" {
			t.Errorf("RealPath = %q, want /store/pkg@1.0.0", real)
		}
	})

	t.Run("relative target", func(t *testing.T) {
		mfs.AddSymlink("/project/node_modules/alias", "../../store/pkg@1.0.0")
		real, err := mfs.RealPath("/project/node_modules/alias")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if real != "/store/pkg@1.0.0" {
			t.Errorf("RealPath = %q, want /store/pkg@1.0.0", real)
		}
	})
}

func TestMapFileSystem_SymlinkLoop(t *testing.T) {
	mfs := New()
	mfs.AddSymlink("/a", "/b")
	mfs.AddSymlink("/b", "/a")

	if _, err := mfs.RealPath("/a"); err == nil {
		t.Error("expected error for symlink loop")
	}
}

func TestMapFileSystem_RealPathMissing(t *testing.T) {
	mfs := New()
	if _, err := mfs.RealPath("/nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
