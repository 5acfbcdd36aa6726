/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package fs

import (
	"io/fs"
	"path/filepath"
)

// Sub presents the subtree of filesystem at root as an fs.FS with
// slash-separated, root-relative names, which is what doublestar.Glob
// expects. Symlinks are followed by Stat, so globs traverse them.
func Sub(filesystem FileSystem, root string) fs.FS {
	return subFS{fs: filesystem, root: root}
}

type subFS struct {
	fs   FileSystem
	root string
}

var (
	_ fs.ReadDirFS = subFS{}
	_ fs.StatFS    = subFS{}
)

func (s subFS) join(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return filepath.Join(s.root, filepath.FromSlash(name)), nil
}

func (s subFS) Open(name string) (fs.File, error) {
	p, err := s.join("open", name)
	if err != nil {
		return nil, err
	}
	return s.fs.Open(p)
}

func (s subFS) ReadDir(name string) ([]fs.DirEntry, error) {
	p, err := s.join("readdir", name)
	if err != nil {
		return nil, err
	}
	return s.fs.ReadDir(p)
}

func (s subFS) Stat(name string) (fs.FileInfo, error) {
	p, err := s.join("stat", name)
	if err != nil {
		return nil, err
	}
	return s.fs.Stat(p)
}
