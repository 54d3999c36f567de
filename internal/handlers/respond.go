// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"softcatalog/internal/middleware"
	"softcatalog/internal/store"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serverError logs err with the request context and writes a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logError(r, op, err)
	writeError(w, "Internal Server Error", http.StatusInternalServerError)
}

func logError(r *http.Request, op string, err error) {
	slog.Error(op,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.RequestIDFromCtx(r.Context()),
	)
}

// storeError maps repository failures: constraint conflicts become 409
// with conflictMsg, anything else a logged 500.
func storeError(w http.ResponseWriter, r *http.Request, op string, err error, conflictMsg string) {
	if errors.Is(err, store.ErrDuplicate) || errors.Is(err, store.ErrReferenced) {
		slog.Info(op+": conflict", "error", err)
		writeError(w, conflictMsg, http.StatusConflict)
		return
	}
	serverError(w, r, op, err)
}
