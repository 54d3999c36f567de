// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package filestore persists uploaded assets under the public uploads tree
// and hands back the URL path each one is served from. Names are sanitized
// and suffixed with a millisecond timestamp; writes never overwrite an
// existing file. Storage is pluggable: local disk or an S3-compatible bucket.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// RootDir is the top-level directory (and URL segment) of all stored assets.
const RootDir = "uploads"

// URLPrefix is the path prefix of every value returned by Save.
const URLPrefix = "/" + RootDir + "/"

// Asset directories below RootDir.
const (
	DirIcons          = "icons"
	DirCovers         = "covers"
	DirSiteThumbs     = "site_thumbs"
	DirCategoryIcons  = "category_icons"
	DirCategoryThumbs = "category_thumbs"
	DirCategoryCovers = "category_covers"
	DirSoftThumbs     = "soft_thumbs"
)

// maxCollisions bounds how many times Save advances the timestamp token
// when a name is already taken.
const maxCollisions = 1000

// deleteConcurrency limits parallel removals in DeleteAll.
const deleteConcurrency = 4

// ErrExist is returned by a Backend when the key is already taken.
var ErrExist = errors.New("file already exists")

// File is one uploaded file held in memory.
type File struct {
	Name        string // client-supplied filename
	Data        []byte
	ContentType string
}

// Backend is the storage primitive behind a Store. Keys are slash-separated
// paths such as "uploads/icons/a_20261015T101500123Z.png".
type Backend interface {
	// EnsureDir creates dir and its parents. It is idempotent.
	EnsureDir(ctx context.Context, dir string) error
	// Write stores data under key, returning ErrExist if key is taken.
	Write(ctx context.Context, key string, data []byte, contentType string) error
	// Remove deletes key. A missing key yields an error wrapping fs.ErrNotExist.
	Remove(ctx context.Context, key string) error
	// Handler serves GET requests for URL paths under URLPrefix.
	Handler() http.Handler
}

// Store saves and deletes uploaded assets.
type Store struct {
	backend Backend
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for name tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a Store writing through b.
func New(b Backend, opts ...Option) *Store {
	s := &Store{backend: b, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Save writes f under dir and returns its URL path, e.g.
// "/uploads/icons/My_Icon_20261015T101500123Z.png". A nil file is not an
// error and yields "".
func (s *Store) Save(ctx context.Context, f *File, dir string) (string, error) {
	if f == nil {
		return "", nil
	}
	dir, err := cleanDir(dir)
	if err != nil {
		return "", err
	}
	full := path.Join(RootDir, dir)
	if err := s.backend.EnsureDir(ctx, full); err != nil {
		return "", fmt.Errorf("create %s: %w", full, err)
	}

	base, ext := splitName(SanitizeName(f.Name))
	t := s.now()
	for range maxCollisions {
		key := path.Join(full, base+"_"+Token(t)+ext)
		err := s.backend.Write(ctx, key, f.Data, f.ContentType)
		if err == nil {
			return "/" + key, nil
		}
		if !errors.Is(err, ErrExist) {
			return "", fmt.Errorf("save %s: %w", key, err)
		}
		t = t.Add(time.Millisecond)
	}
	return "", fmt.Errorf("save %s/%s%s: too many name collisions", full, base, ext)
}

// Delete removes the asset at urlPath. Empty paths, paths outside the
// uploads tree and already-missing files are ignored; other failures are
// logged, never returned.
func (s *Store) Delete(ctx context.Context, urlPath string) {
	if urlPath == "" {
		return
	}
	key, ok := KeyFromPath(urlPath)
	if !ok {
		slog.Warn("refusing to delete path outside uploads", "path", urlPath)
		return
	}
	if err := s.backend.Remove(ctx, key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("delete asset failed", "error", err, "path", urlPath)
	}
}

// DeleteAll removes every given asset concurrently and waits for all of them.
func (s *Store) DeleteAll(ctx context.Context, urlPaths ...string) {
	var g errgroup.Group
	g.SetLimit(deleteConcurrency)
	for _, p := range urlPaths {
		g.Go(func() error {
			s.Delete(ctx, p)
			return nil
		})
	}
	_ = g.Wait()
}

// Handler serves stored assets for requests under URLPrefix.
func (s *Store) Handler() http.Handler {
	return s.backend.Handler()
}

// KeyFromPath converts a URL path returned by Save back to a backend key.
// It reports false for anything that does not resolve inside the uploads tree.
func KeyFromPath(urlPath string) (string, bool) {
	if !strings.HasPrefix(urlPath, URLPrefix) || strings.Contains(urlPath, `\`) {
		return "", false
	}
	for _, seg := range strings.Split(urlPath, "/") {
		if seg == ".." {
			return "", false
		}
	}
	cleaned := path.Clean(urlPath)
	if !strings.HasPrefix(cleaned, URLPrefix) {
		return "", false
	}
	return strings.TrimPrefix(cleaned, "/"), true
}

// cleanDir validates a relative directory below RootDir.
func cleanDir(dir string) (string, error) {
	d := strings.TrimSuffix(dir, "/")
	if d == "" || strings.HasPrefix(d, "/") || strings.Contains(d, `\`) {
		return "", fmt.Errorf("invalid upload directory %q", dir)
	}
	for _, seg := range strings.Split(d, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("invalid upload directory %q", dir)
		}
	}
	return d, nil
}
