// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

// Disk stores assets on the local filesystem below a public root directory.
type Disk struct {
	root string
}

// NewDisk returns a Disk backend rooted at root (e.g. "public"). Keys map to
// files relative to root.
func NewDisk(root string) *Disk {
	return &Disk{root: root}
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(key))
}

// EnsureDir creates the directory for key prefix dir.
func (d *Disk) EnsureDir(_ context.Context, dir string) error {
	return os.MkdirAll(d.path(dir), 0o755)
}

// Write creates the file exclusively; an existing file yields ErrExist.
// A partially written file is removed.
func (d *Disk) Write(_ context.Context, key string, data []byte, _ string) error {
	full := d.path(key)
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return ErrExist
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(full)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return fmt.Errorf("close %s: %w", key, err)
	}
	return nil
}

// Remove deletes the file at key.
func (d *Disk) Remove(_ context.Context, key string) error {
	return os.Remove(d.path(key))
}

// Handler serves files from the root without directory listings.
func (d *Disk) Handler() http.Handler {
	return http.FileServer(filesOnly{http.Dir(d.root)})
}

// filesOnly hides directories so the file server never lists them.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
