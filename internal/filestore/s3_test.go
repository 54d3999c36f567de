// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket is a minimal S3 endpoint honouring If-None-Match on PUT.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	acl     map[string]string
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		if _, exists := f.objects[r.URL.Path]; exists && r.Header.Get("If-None-Match") == "*" {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusPreconditionFailed)
			fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>PreconditionFailed</Code><Message>At least one of the pre-conditions you specified did not hold</Message></Error>`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.acl[r.URL.Path] = r.Header.Get("X-Amz-Acl")
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeS3(t *testing.T) (*S3, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: map[string][]byte{}, acl: map[string]string{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	b, err := NewS3(S3Config{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "catalog",
	})
	require.NoError(t, err)
	return b, bucket
}

func TestNewS3_RequiresSettings(t *testing.T) {
	_, err := NewS3(S3Config{Endpoint: "https://s3.example.com"})
	assert.Error(t, err)
}

func TestS3_SaveAndDelete(t *testing.T) {
	b, bucket := newFakeS3(t)
	s := New(b, WithClock(func() time.Time { return fixedTime }))
	ctx := context.Background()

	first, err := s.Save(ctx, &File{Name: "cover art.png", Data: []byte("one"), ContentType: "image/png"}, DirCovers)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/covers/cover_art_20261015T101500123Z.png", first)

	second, err := s.Save(ctx, &File{Name: "cover art.png", Data: []byte("two")}, DirCovers)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/covers/cover_art_20261015T101500124Z.png", second)

	assert.Equal(t, []byte("one"), bucket.objects["/catalog"+first])
	assert.Equal(t, "public-read", bucket.acl["/catalog"+first])

	s.Delete(ctx, first)
	_, ok := bucket.objects["/catalog"+first]
	assert.False(t, ok)
}

func TestS3_FileURL(t *testing.T) {
	b := &S3{bucket: "catalog", endpoint: "https://fsn1.example.com"}
	assert.Equal(t, "https://fsn1.example.com/catalog/uploads/icons/a.png", b.FileURL("uploads/icons/a.png"))

	b.publicURL = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/uploads/icons/a.png", b.FileURL("uploads/icons/a.png"))
}

func TestS3_HandlerRedirects(t *testing.T) {
	b := &S3{bucket: "catalog", endpoint: "https://fsn1.example.com"}

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/icons/a.png", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://fsn1.example.com/catalog/uploads/icons/a.png", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/../secret", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIsConditionFailure(t *testing.T) {
	assert.True(t, isConditionFailure(&smithy.GenericAPIError{Code: "PreconditionFailed"}))
	assert.True(t, isConditionFailure(fmt.Errorf("wrapped: %w", &smithy.GenericAPIError{Code: "ConditionalRequestConflict"})))
	assert.False(t, isConditionFailure(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isConditionFailure(errors.New("boom")))
	assert.False(t, isConditionFailure(nil))
}
