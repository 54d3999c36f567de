// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"softcatalog/internal/cache"
	"softcatalog/internal/filestore"
	"softcatalog/internal/listview"
	"softcatalog/internal/models"
)

func platformFields(p models.Platform) listview.Fields {
	return listview.Fields{
		Text:       []string{p.Name, models.StringValue(p.Description)},
		PlatformID: p.ID,
	}
}

// platformSlots maps the platform media fields onto p.
func platformSlots(p *models.Platform) []mediaSlot {
	return []mediaSlot{
		{field: "icon", label: "Icon", dir: filestore.DirIcons, dst: &p.Icon, sized: true},
		{field: "cover", label: "Cover", dir: filestore.DirCovers, dst: &p.Cover, sized: true},
		{field: "thumbnail", label: "Thumbnail", dir: filestore.DirSiteThumbs, dst: &p.Thumbnail, sized: true},
	}
}

func (a *API) listPlatforms(w http.ResponseWriter, r *http.Request) {
	serveList(a, w, r, cache.ListPlatforms, a.platforms.List, platformFields)
}

func (a *API) createPlatform(w http.ResponseWriter, r *http.Request) {
	if err := a.parseForm(w, r); err != nil {
		writeBodyError(w, err)
		return
	}
	defer cleanupForm(r)

	name, _ := formValue(r, "platform_name")
	desc, _ := formValue(r, "description")
	if msg := firstError(
		requireText("Platform name", name, maxNameLen),
		optionalText("Description", desc, maxDescriptionLen),
	); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	p := &models.Platform{Name: name, Description: models.OptionalString(desc)}
	pending, msg, err := readMedia(r, platformSlots(p)...)
	if err != nil {
		serverError(w, r, "read platform media", err)
		return
	}
	if msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	batch, err := a.saveMedia(ctx, pending)
	if err != nil {
		serverError(w, r, "save platform media", err)
		return
	}

	created, err := a.platforms.Create(ctx, p)
	if err != nil {
		batch.rollback(ctx)
		storeError(w, r, "create platform", err, "Platform could not be created")
		return
	}
	a.lists.Invalidate(ctx, cache.ListPlatforms)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Platform added successfully",
		"platform": created,
	})
}

func (a *API) updatePlatform(w http.ResponseWriter, r *http.Request) {
	if err := a.parseForm(w, r); err != nil {
		writeBodyError(w, err)
		return
	}
	defer cleanupForm(r)

	rawID, hasID := formValue(r, "platform_id")
	id, msg := requireFormID(rawID, hasID, "Platform ID")
	name, _ := formValue(r, "platform_name")
	desc, hasDesc := formValue(r, "description")
	if msg = firstError(
		msg,
		requireText("Platform name", name, maxNameLen),
		optionalText("Description", desc, maxDescriptionLen),
	); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	current, err := a.platforms.FindByID(ctx, id)
	if err != nil {
		serverError(w, r, "find platform", err)
		return
	}
	if current == nil {
		writeError(w, "Platform not found", http.StatusNotFound)
		return
	}

	next := *current
	next.Name = name
	if hasDesc {
		next.Description = models.OptionalString(desc)
	}

	pending, msg, err := readMedia(r, platformSlots(&next)...)
	if err != nil {
		serverError(w, r, "read platform media", err)
		return
	}
	if msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	batch, err := a.saveMedia(ctx, pending)
	if err != nil {
		serverError(w, r, "save platform media", err)
		return
	}

	updated, err := a.platforms.Update(ctx, &next)
	if err != nil {
		batch.rollback(ctx)
		storeError(w, r, "update platform", err, "Platform could not be updated")
		return
	}
	if updated == nil {
		batch.rollback(ctx)
		writeError(w, "Platform not found", http.StatusNotFound)
		return
	}
	batch.commit(ctx)
	a.lists.Invalidate(ctx, cache.ListPlatforms)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Platform updated successfully",
		"platform": updated,
	})
}

func (a *API) deletePlatform(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlatformID jsonID `json:"platform_id"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeBodyError(w, err)
		return
	}
	if msg := body.PlatformID.message("Platform ID"); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	deleted, err := a.platforms.Delete(ctx, body.PlatformID.Value)
	if err != nil {
		storeError(w, r, "delete platform", err, "Platform still has categories or software")
		return
	}
	if deleted == nil {
		writeError(w, "Platform not found", http.StatusNotFound)
		return
	}
	a.removeFiles(ctx, deleted.MediaPaths()...)
	a.lists.Invalidate(ctx, cache.ListPlatforms, cache.ListCategories, cache.ListSoftware)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Platform deleted successfully"})
}
