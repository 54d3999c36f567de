// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"softcatalog/internal/filestore"
)

const (
	// multipartMemory is how much of a multipart body is held in memory
	// before parts spill to temporary files.
	multipartMemory = 32 << 20

	// maxJSONBody caps JSON request bodies.
	maxJSONBody = 1 << 20
)

var (
	errTooLarge   = errors.New("request body too large")
	errBadRequest = errors.New("malformed request body")
)

// parseForm parses a multipart or urlencoded body capped at maxUpload bytes.
func (a *API) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if ct == "multipart/form-data" {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}

	var mbe *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &mbe):
		return errTooLarge
	default:
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
}

// cleanupForm removes temporary files of a parsed multipart form.
func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		r.MultipartForm.RemoveAll()
	}
}

// writeBodyError answers a parseForm or decodeJSON failure.
func writeBodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, errTooLarge) {
		writeError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	writeError(w, "Invalid request body", http.StatusBadRequest)
}

// formValue returns the trimmed value of field and whether it was sent.
func formValue(r *http.Request, field string) (string, bool) {
	v, ok := r.PostForm[field]
	if !ok || len(v) == 0 {
		return "", false
	}
	return strings.TrimSpace(v[0]), true
}

// formFile reads an uploaded file. A missing part, or the empty part
// browsers send when no file was chosen, yields nil.
func formFile(r *http.Request, field string) (*filestore.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 || headers[0].Filename == "" {
		return nil, nil
	}
	fh := headers[0]

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	return &filestore.File{
		Name:        fh.Filename,
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}

// decodeJSON decodes a capped JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(dst)

	var mbe *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &mbe):
		return errTooLarge
	default:
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
}

// parseID parses a positive integer id.
func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// jsonID is an id in a JSON body, sent either as a number or a numeric
// string. Zero means absent; Invalid marks a value that could not be read.
type jsonID struct {
	Value   int64
	Invalid bool
}

func (id *jsonID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			id.Invalid = true
			return nil
		}
	}
	v, ok := parseID(s)
	if !ok {
		id.Invalid = true
		return nil
	}
	id.Value = v
	return nil
}

// message validates a required jsonID, returning a client message or "".
func (id jsonID) message(label string) string {
	if id.Invalid {
		return label + " must be a positive integer"
	}
	if id.Value == 0 {
		return label + " is required"
	}
	return ""
}

// optionalString is a JSON field that distinguishes absent from null.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(bytes.TrimSpace(b)) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
