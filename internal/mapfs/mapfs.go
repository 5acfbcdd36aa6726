/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mapfs provides an in-memory filesystem implementation for testing.
package mapfs

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"testing/fstest"
	"time"
)

// maxLinkHops bounds symlink resolution, like the kernel's ELOOP limit.
const maxLinkHops = 40

// MapFileSystem implements FileSystem using an in-memory fstest.MapFS.
// Symlinks are stored as entries with fs.ModeSymlink so that directory
// listings report them, and every path is resolved through them before use.
type MapFileSystem struct {
	mu      sync.RWMutex
	mapFS   fstest.MapFS
	links   map[string]string
	modTime time.Time
}

// New creates a new in-memory filesystem for testing.
func New() *MapFileSystem {
	return &MapFileSystem{
		mapFS:   make(fstest.MapFS),
		links:   make(map[string]string),
		modTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddFile adds a file to the in-memory filesystem.
func (mfs *MapFileSystem) AddFile(p string, content string, mode fs.FileMode) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	p = mfs.cleanPath(p)
	mfs.mapFS[p] = &fstest.MapFile{
		Data:    []byte(content),
		Mode:    mode,
		ModTime: mfs.modTime,
	}
}

// AddDir adds a directory to the in-memory filesystem.
func (mfs *MapFileSystem) AddDir(p string, mode fs.FileMode) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	p = mfs.cleanPath(p)
	mfs.mapFS[p] = &fstest.MapFile{
		Mode:    fs.ModeDir | mode.Perm(),
		ModTime: mfs.modTime,
	}
}

// AddSymlink makes link point at target. A relative target is interpreted
// relative to the directory containing link.
func (mfs *MapFileSystem) AddSymlink(link, target string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if !path.IsAbs(target) {
		target = path.Join(path.Dir("/"+mfs.cleanPath(link)), target)
	}

	link = mfs.cleanPath(link)
	mfs.links[link] = mfs.cleanPath(target)
	mfs.mapFS[link] = &fstest.MapFile{
		Data:    []byte(target),
		Mode:    fs.ModeSymlink | 0o777,
		ModTime: mfs.modTime,
	}
}

// WriteFile implements FileSystem.
func (mfs *MapFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name, err := mfs.resolveLocked(name)
	if err != nil {
		return err
	}

	if err := mfs.ensureParentDirLocked(name); err != nil {
		return err
	}

	mfs.mapFS[name] = &fstest.MapFile{
		Data:    append([]byte(nil), data...),
		Mode:    perm,
		ModTime: mfs.modTime,
	}

	return nil
}

// ReadFile implements FileSystem.
func (mfs *MapFileSystem) ReadFile(name string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	resolved, err := mfs.resolveLocked(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(mfs.mapFS, resolved)
}

// Stat implements FileSystem. Symlinks are followed.
func (mfs *MapFileSystem) Stat(name string) (fs.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	resolved, err := mfs.resolveLocked(name)
	if err != nil {
		return nil, err
	}
	return fs.Stat(mfs.mapFS, resolved)
}

// Exists implements FileSystem.
func (mfs *MapFileSystem) Exists(p string) bool {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	resolved, err := mfs.resolveLocked(p)
	if err != nil {
		return false
	}
	return mfs.existsLocked(resolved)
}

// ReadDir implements FileSystem.
func (mfs *MapFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	resolved, err := mfs.resolveLocked(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(mfs.mapFS, resolved)
}

// RealPath implements FileSystem. The returned path is absolute.
func (mfs *MapFileSystem) RealPath(name string) (string, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	resolved, err := mfs.resolveLocked(name)
	if err != nil {
		return "", err
	}
	if !mfs.existsLocked(resolved) {
		return "", &fs.PathError{Op: "realpath", Path: name, Err: fs.ErrNotExist}
	}
	if resolved == "." {
		return "/", nil
	}
	return "/" + resolved, nil
}

// Open implements FileSystem.
func (mfs *MapFileSystem) Open(name string) (fs.File, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	resolved, err := mfs.resolveLocked(name)
	if err != nil {
		return nil, err
	}
	return mfs.mapFS.Open(resolved)
}

func (mfs *MapFileSystem) existsLocked(p string) bool {
	if p == "." {
		return true
	}
	if _, exists := mfs.mapFS[p]; exists {
		return true
	}

	prefix := p + "/"
	for filePath := range mfs.mapFS {
		if strings.HasPrefix(filePath, prefix) {
			return true
		}
	}

	return false
}

// resolveLocked cleans p and substitutes symlinked path prefixes until no
// component of the path is a link.
func (mfs *MapFileSystem) resolveLocked(p string) (string, error) {
	p = mfs.cleanPath(p)
	if len(mfs.links) == 0 {
		return p, nil
	}

	for hops := 0; hops < maxLinkHops; hops++ {
		replaced := false
		segments := strings.Split(p, "/")
		for i := range segments {
			prefix := strings.Join(segments[:i+1], "/")
			target, ok := mfs.links[prefix]
			if !ok {
				continue
			}
			rest := strings.Join(segments[i+1:], "/")
			p = mfs.cleanPath(path.Join("/"+target, rest))
			replaced = true
			break
		}
		if !replaced {
			return p, nil
		}
	}

	return "", &fs.PathError{Op: "resolve", Path: p, Err: fmt.Errorf("too many levels of symbolic links")}
}

func (mfs *MapFileSystem) cleanPath(p string) string {
	cleaned := path.Clean(p)
	if !path.IsAbs(cleaned) {
		cleaned = "/" + cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" {
		return "."
	}
	return cleaned
}

func (mfs *MapFileSystem) ensureParentDirLocked(filePath string) error {
	dir := path.Dir(filePath)
	if dir == "." || dir == "/" || dir == "" {
		return nil
	}

	if file, exists := mfs.mapFS[dir]; exists && !file.Mode.IsDir() {
		return &fs.PathError{Op: "open", Path: filePath, Err: fmt.Errorf("not a directory")}
	}

	return nil
}
