// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// CategoryType classifies a category as applications or games.
type CategoryType string

const (
	CategoryApp  CategoryType = "App"
	CategoryGame CategoryType = "Game"
)

// Valid reports whether t is one of the known category types.
// Matching is case-sensitive, as stored.
func (t CategoryType) Valid() bool {
	return t == CategoryApp || t == CategoryGame
}

// Category is a named grouping of software within one platform.
type Category struct {
	ID          int64        `json:"cat_id"`
	PlatformID  int64        `json:"platform_id"`
	Type        CategoryType `json:"type"`
	Name        string       `json:"cat_name"`
	Description *string      `json:"cat_description"`
	Icon        *string      `json:"icon"`
	Thumb       *string      `json:"cat_thumb"`
	Cover       *string      `json:"cover"`
}

// MediaPaths returns the stored asset paths that are set.
func (c *Category) MediaPaths() []string {
	return nonNil(c.Icon, c.Thumb, c.Cover)
}
