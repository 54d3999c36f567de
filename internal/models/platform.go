// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Platform is a target operating system or device family that groups
// categories and software.
type Platform struct {
	ID          int64   `json:"platform_id"`
	Name        string  `json:"platform_name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Cover       *string `json:"cover"`
	Thumbnail   *string `json:"thumbnail"`
}

// MediaPaths returns the stored asset paths that are set.
func (p *Platform) MediaPaths() []string {
	return nonNil(p.Icon, p.Cover, p.Thumbnail)
}

// nonNil collects the non-empty values of the given optional strings.
func nonNil(values ...*string) []string {
	var out []string
	for _, v := range values {
		if v != nil && *v != "" {
			out = append(out, *v)
		}
	}
	return out
}

// OptionalString maps blank input onto NULL.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences an optional string, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
