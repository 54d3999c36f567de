// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Software is a downloadable package. Its identity is the upload record
// that holds the binary; the thumbnail lives in soft_thumb.
type Software struct {
	UploadID    int64   `json:"upload_id"`
	PlatformID  int64   `json:"platform_id"`
	CatID       int64   `json:"cat_id"`
	PackageName string  `json:"package_name"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Vendor      string  `json:"vendor"`
	Version     string  `json:"version"`
	ReleaseDate Date    `json:"release_date"`
	UploadDate  Date    `json:"upload_date"`
	Path        *string `json:"path"`
	Thumbnail   *string `json:"thumbnail"`
}

// MediaPaths returns the stored binary and thumbnail paths that are set.
func (s *Software) MediaPaths() []string {
	return nonNil(s.Path, s.Thumbnail)
}
