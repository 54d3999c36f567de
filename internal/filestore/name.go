// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package filestore

import (
	"path"
	"regexp"
	"strings"
	"time"
)

var (
	whitespace  = regexp.MustCompile(`\s`)
	disallowed  = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	underscores = regexp.MustCompile(`_+`)

	tokenStrip = strings.NewReplacer("-", "", ":", "", ".", "")
)

// SanitizeName reduces a client-supplied filename to a safe base name:
// whitespace becomes "_", characters outside [A-Za-z0-9._-] are dropped and
// runs of "_" collapse to one. Any directory part is discarded first.
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = whitespace.ReplaceAllString(name, "_")
	name = disallowed.ReplaceAllString(name, "")
	return underscores.ReplaceAllString(name, "_")
}

// DirName turns free text such as a category name into a single safe
// directory segment, falling back to "uncategorized".
func DirName(s string) string {
	d := SanitizeName(strings.TrimSpace(s))
	if strings.Trim(d, "._") == "" {
		return "uncategorized"
	}
	return d
}

// Token renders t as a compact UTC ISO-8601 timestamp with milliseconds,
// e.g. 20261015T101500123Z.
func Token(t time.Time) string {
	return tokenStrip.Replace(t.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
}

// splitName separates a sanitized name into base and extension, giving
// nameless uploads a placeholder base.
func splitName(name string) (base, ext string) {
	ext = path.Ext(name)
	base = strings.TrimSuffix(name, ext)
	if ext == "." {
		ext = ""
	}
	if strings.Trim(base, ".") == "" {
		base = "file"
	}
	return base, ext
}
