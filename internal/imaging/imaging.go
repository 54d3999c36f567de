// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging identifies uploaded images and measures their dimensions.
// Raster formats are identified by decoding only their header, so the check
// stays cheap even for large files. SVG is accepted by extension when the
// content looks like XML.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/http"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// MaxPixels caps width*height to refuse decompression bombs.
// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
const MaxPixels = 100_000_000

var (
	// ErrNotImage is returned for content that is not a supported image.
	ErrNotImage = errors.New("not a supported image")
	// ErrTooLarge is returned when the image dimensions exceed MaxPixels.
	ErrTooLarge = errors.New("image dimensions too large")
)

// Check reports whether data is a JPEG, PNG, GIF, BMP, WebP or SVG image
// within MaxPixels.
// name is the client-supplied filename and only matters for SVG.
func Check(name string, data []byte) error {
	return check(name, data, MaxPixels)
}

func check(name string, data []byte, limit int64) error {
	if len(data) == 0 {
		return ErrNotImage
	}
	if strings.EqualFold(filepath.Ext(name), ".svg") {
		if looksLikeSVG(data) {
			return nil
		}
		return ErrNotImage
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > limit {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

// looksLikeSVG sniffs the leading bytes for XML text containing an <svg
// element.
func looksLikeSVG(data []byte) bool {
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "text/xml") && !strings.HasPrefix(ct, "text/plain") {
		return false
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}
