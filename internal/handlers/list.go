// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"softcatalog/internal/listview"
)

// serveList answers a collection GET. The full list comes from the list
// cache or the repository; list parameters, when present, project it.
func serveList[T any](a *API, w http.ResponseWriter, r *http.Request, name string, load func(context.Context) ([]T, error), fields func(T) listview.Fields) {
	q, err := listview.ParseQuery(r.URL.Query())
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var items []T
	if !a.lists.Load(ctx, name, &items) {
		items, err = load(ctx)
		if err != nil {
			serverError(w, r, "list "+name, err)
			return
		}
		a.lists.Store(ctx, name, items)
	}
	if items == nil {
		items = []T{}
	}

	if !q.Active() {
		writeJSON(w, http.StatusOK, map[string]any{name: items})
		return
	}

	res := listview.Apply(items, q, fields)
	writeJSON(w, http.StatusOK, map[string]any{
		name:          res.Items,
		"total":       res.Total,
		"page":        res.Page,
		"per_page":    res.PerPage,
		"total_pages": res.TotalPages,
	})
}
