// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires the catalog API, the asset file server and the
// middleware chains into one chi router.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"softcatalog/internal/filestore"
	"softcatalog/internal/handlers"
	"softcatalog/internal/middleware"
)

// New creates the router. files serves stored assets under /uploads/.
// A nil limiter disables write rate limiting.
func New(api *handlers.API, files http.Handler, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		if limiter != nil {
			r.Use(limiter.Writes)
		}

		r.Handle("/admin", api.Admins())
		r.Handle("/platform", api.Platforms())
		r.Handle("/category", api.Categories())
		r.Handle("/category/id/{cat_id}", api.CategoryByID())
		r.Handle("/software", api.Software())
		r.Handle("/upload", api.Upload())
	})

	r.Handle(filestore.URLPrefix+"*", files)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
