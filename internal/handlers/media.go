// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"softcatalog/internal/filestore"
	"softcatalog/internal/imaging"
)

// mediaSlot binds a form file field to its upload directory and the record
// column that stores the resulting path.
type mediaSlot struct {
	field string
	label string
	dir   string
	dst   **string
	sized bool // decodable images must fit imaging.MaxPixels
}

// pendingFile is a file read from the request but not yet stored.
type pendingFile struct {
	slot mediaSlot
	file *filestore.File
}

// readMedia reads the files for slots. Any content is accepted, but images
// in a format imaging can decode must stay within its pixel cap. It returns a
// client message for rejected content; no file is written here.
func readMedia(r *http.Request, slots ...mediaSlot) ([]pendingFile, string, error) {
	var pending []pendingFile
	for _, slot := range slots {
		f, err := formFile(r, slot.field)
		if err != nil {
			return nil, "", err
		}
		if f == nil {
			continue
		}
		if slot.sized && errors.Is(imaging.Check(f.Name, f.Data), imaging.ErrTooLarge) {
			return nil, slot.label + " dimensions are too large", nil
		}
		pending = append(pending, pendingFile{slot: slot, file: f})
	}
	return pending, "", nil
}

// mediaBatch tracks the files written for one request so they can be
// removed if the database write fails, and the files they replace so those
// can be removed once it succeeds.
type mediaBatch struct {
	files   *filestore.Store
	written []string
	stale   []string
}

// saveMedia writes every pending file and points its slot at the new path.
// On failure the files already written are removed before returning.
func (a *API) saveMedia(ctx context.Context, pending []pendingFile) (*mediaBatch, error) {
	b := &mediaBatch{files: a.files}
	for _, p := range pending {
		path, err := a.files.Save(ctx, p.file, p.slot.dir)
		if err != nil {
			b.rollback(ctx)
			return nil, fmt.Errorf("save %s: %w", p.slot.field, err)
		}
		b.written = append(b.written, path)
		if old := *p.slot.dst; old != nil && *old != "" {
			b.stale = append(b.stale, *old)
		}
		*p.slot.dst = &path
	}
	return b, nil
}

// rollback removes the files written by this batch.
func (b *mediaBatch) rollback(ctx context.Context) {
	b.files.DeleteAll(context.WithoutCancel(ctx), b.written...)
}

// commit removes the files replaced by this batch.
func (b *mediaBatch) commit(ctx context.Context) {
	b.files.DeleteAll(context.WithoutCancel(ctx), b.stale...)
}

// removeFiles deletes assets of a record that is already gone from the
// database. It runs to completion even if the client disconnects.
func (a *API) removeFiles(ctx context.Context, paths ...string) {
	a.files.DeleteAll(context.WithoutCancel(ctx), paths...)
}
