// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory repositories and request helpers shared
// by the handler tests. Files are written to a per-test temporary directory.
package handlers

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"softcatalog/internal/filestore"
	"softcatalog/internal/models"
	"softcatalog/internal/store"
)

var errDBDown = errors.New("db down")

type fakeAdmins struct {
	mu        sync.Mutex
	rows      map[string]models.Admin
	nextID    int64
	err       error
	createErr error // returned by Create only
}

func (f *fakeAdmins) List(context.Context) ([]models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Admin, 0, len(f.rows))
	for _, a := range f.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAdmins) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.rows[username]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeAdmins) Create(_ context.Context, username string, email *string, _ string) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.rows[username]; ok {
		return nil, fmt.Errorf("create admin: %w", store.ErrDuplicate)
	}
	f.nextID++
	a := models.Admin{ID: f.nextID, Username: username, Email: email, CreatedAt: time.Now()}
	f.rows[username] = a
	return &a, nil
}

func (f *fakeAdmins) Update(_ context.Context, username string, upd models.AdminUpdate) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[username]
	if !ok {
		return nil, nil
	}
	if upd.EmailSet {
		a.Email = upd.Email
	}
	f.rows[username] = a
	return &a, nil
}

func (f *fakeAdmins) Delete(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[username]; !ok {
		return false, nil
	}
	delete(f.rows, username)
	return true, nil
}

type fakePlatforms struct {
	mu     sync.Mutex
	rows   map[int64]models.Platform
	nextID int64
	err    error // returned by writes
}

func (f *fakePlatforms) List(context.Context) ([]models.Platform, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Platform, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePlatforms) FindByID(_ context.Context, id int64) (*models.Platform, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePlatforms) Create(_ context.Context, p *models.Platform) (*models.Platform, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	row := *p
	row.ID = f.nextID
	f.rows[row.ID] = row
	return &row, nil
}

func (f *fakePlatforms) Update(_ context.Context, p *models.Platform) (*models.Platform, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.rows[p.ID]; !ok {
		return nil, nil
	}
	f.rows[p.ID] = *p
	row := *p
	return &row, nil
}

func (f *fakePlatforms) Delete(_ context.Context, id int64) (*models.Platform, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	delete(f.rows, id)
	return &p, nil
}

type fakeCategories struct {
	mu     sync.Mutex
	rows   map[int64]models.Category
	nextID int64
	err    error
	inUse  map[int64]bool // categories referenced by software
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Category, 0, len(f.rows))
	for _, c := range f.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategories) FindByID(_ context.Context, id int64) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	row := *c
	row.ID = f.nextID
	f.rows[row.ID] = row
	return &row, nil
}

func (f *fakeCategories) Update(_ context.Context, c *models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cur, ok := f.rows[c.ID]
	if !ok {
		return nil, nil
	}
	if cur.PlatformID != c.PlatformID && f.inUse[c.ID] {
		return nil, fmt.Errorf("update category %d: %w", c.ID, store.ErrInUse)
	}
	f.rows[c.ID] = *c
	row := *c
	return &row, nil
}

func (f *fakeCategories) Delete(_ context.Context, id int64) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	delete(f.rows, id)
	return &c, nil
}

type fakeSoftware struct {
	mu     sync.Mutex
	rows   map[int64]models.Software
	nextID int64
	err    error
}

func (f *fakeSoftware) List(context.Context) ([]models.Software, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Software, 0, len(f.rows))
	for _, s := range f.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadID < out[j].UploadID })
	return out, nil
}

func (f *fakeSoftware) Create(_ context.Context, sw *models.Software) (*models.Software, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	row := *sw
	row.UploadID = f.nextID
	f.rows[row.UploadID] = row
	return &row, nil
}

func (f *fakeSoftware) Delete(_ context.Context, id int64) (*models.Software, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	delete(f.rows, id)
	return &s, nil
}

// testEnv holds the API under test and its backing fakes.
type testEnv struct {
	api        *API
	admins     *fakeAdmins
	platforms  *fakePlatforms
	categories *fakeCategories
	software   *fakeSoftware
	root       string // disk root of the file store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		admins:     &fakeAdmins{rows: map[string]models.Admin{}},
		platforms:  &fakePlatforms{rows: map[int64]models.Platform{}},
		categories: &fakeCategories{rows: map[int64]models.Category{}},
		software:   &fakeSoftware{rows: map[int64]models.Software{}},
		root:       t.TempDir(),
	}
	files := filestore.New(filestore.NewDisk(env.root))
	env.api = NewAPI(env.admins, env.platforms, env.categories, env.software, files, nil, 10<<20)
	return env
}

// storedFiles lists every file under the store root, as URL paths.
func (env *testEnv) storedFiles(t *testing.T) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(env.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(env.root, p)
			out = append(out, "/"+filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

// exists reports whether urlPath is present in the store.
func (env *testEnv) exists(urlPath string) bool {
	_, err := os.Stat(filepath.Join(env.root, filepath.FromSlash(strings.TrimPrefix(urlPath, "/"))))
	return err == nil
}

// pngBytes returns a small valid PNG image.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	return buf.Bytes()
}

// hugePNG returns a PNG header that declares 20000x20000 pixels. Only the
// header is valid, which is all a dimension check reads.
func hugePNG(t *testing.T) []byte {
	t.Helper()
	data := pngBytes(t)
	binary.BigEndian.PutUint32(data[16:20], 20000)
	binary.BigEndian.PutUint32(data[20:24], 20000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

type formFileSpec struct {
	field, name string
	data        []byte
}

// multipartRequest builds a multipart/form-data request.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFileSpec) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeBody decodes a JSON response body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func getRequest(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func longString(n int) string {
	return strings.Repeat("a", n)
}

func formRequest(method, target, encoded string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(encoded))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// referencedErr mimics a repository foreign-key failure.
func referencedErr() error {
	return fmt.Errorf("delete: %w: fk violation", store.ErrReferenced)
}
