// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listview filters and paginates fetched collections the way the
// admin list screens do: case-insensitive substring search over text
// fields, exact type and platform filters, and fixed-size pages.
package listview

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPerPage is the page size when per_page is omitted.
	DefaultPerPage = 10
	// MaxPerPage caps per_page.
	MaxPerPage = 100
)

// params lists the query parameters that switch on projection.
var params = []string{"q", "type", "platform_id", "page", "per_page"}

// Query is a parsed list request.
type Query struct {
	Search     string
	Type       string
	PlatformID *int64
	Page       int
	PerPage    int

	active bool
}

// Active reports whether the request carried any list parameter. Inactive
// queries return the collection unchanged.
func (q Query) Active() bool {
	return q.active
}

// ParseQuery reads q, type, platform_id, page and per_page from v.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{Page: 1, PerPage: DefaultPerPage}
	for _, p := range params {
		if v.Has(p) {
			q.active = true
			break
		}
	}

	q.Search = strings.TrimSpace(v.Get("q"))
	q.Type = strings.TrimSpace(v.Get("type"))

	if s := v.Get("platform_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return Query{}, fmt.Errorf("platform_id must be a positive integer")
		}
		q.PlatformID = &id
	}
	if s := v.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Query{}, fmt.Errorf("page must be a positive integer")
		}
		q.Page = n
	}
	if s := v.Get("per_page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxPerPage {
			return Query{}, fmt.Errorf("per_page must be between 1 and %d", MaxPerPage)
		}
		q.PerPage = n
	}
	return q, nil
}

// Fields exposes the searchable and filterable parts of one item.
// A zero PlatformID or empty Type means the item has no such attribute and
// never matches a filter on it.
type Fields struct {
	Text       []string
	Type       string
	PlatformID int64
}

// Result is one page of a projected collection.
type Result[T any] struct {
	Items      []T `json:"-"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// Apply filters items by q and returns the requested page.
func Apply[T any](items []T, q Query, fields func(T) Fields) Result[T] {
	needle := strings.ToLower(q.Search)
	matched := make([]T, 0, len(items))
	for _, it := range items {
		f := fields(it)
		if q.Type != "" && f.Type != q.Type {
			continue
		}
		if q.PlatformID != nil && f.PlatformID != *q.PlatformID {
			continue
		}
		if needle != "" && !containsAny(f.Text, needle) {
			continue
		}
		matched = append(matched, it)
	}

	perPage := q.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	page := max(q.Page, 1)

	total := len(matched)
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	return Result[T]{
		Items:      matched[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}
}

func containsAny(texts []string, needle string) bool {
	for _, t := range texts {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
