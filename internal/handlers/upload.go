// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"softcatalog/internal/filestore"
)

type uploadPaths struct {
	Icon      *string `json:"icon"`
	Cover     *string `json:"cover"`
	Thumbnail *string `json:"thumbnail"`
}

// uploadAssets stores standalone site assets that are not yet attached to
// any record and returns their public paths.
func (a *API) uploadAssets(w http.ResponseWriter, r *http.Request) {
	if err := a.parseForm(w, r); err != nil {
		msg := "Invalid request body"
		status := http.StatusBadRequest
		if errors.Is(err, errTooLarge) {
			msg, status = "Request body too large", http.StatusRequestEntityTooLarge
		}
		uploadFailed(w, msg, status)
		return
	}
	defer cleanupForm(r)

	var paths uploadPaths
	pending, msg, err := readMedia(r,
		mediaSlot{field: "icon", label: "Icon", dir: filestore.DirIcons, dst: &paths.Icon, sized: true},
		mediaSlot{field: "cover", label: "Cover", dir: filestore.DirCovers, dst: &paths.Cover, sized: true},
		mediaSlot{field: "thumbnail", label: "Thumbnail", dir: filestore.DirSiteThumbs, dst: &paths.Thumbnail, sized: true},
	)
	if err != nil {
		logError(r, "read upload files", err)
		uploadFailed(w, "Error reading files", http.StatusInternalServerError)
		return
	}
	if msg != "" {
		uploadFailed(w, msg, http.StatusBadRequest)
		return
	}

	if _, err := a.saveMedia(r.Context(), pending); err != nil {
		logError(r, "save upload files", err)
		uploadFailed(w, "Error saving files", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"filepaths": paths,
	})
}

func uploadFailed(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}
