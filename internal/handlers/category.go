// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"softcatalog/internal/cache"
	"softcatalog/internal/filestore"
	"softcatalog/internal/listview"
	"softcatalog/internal/models"
	"softcatalog/internal/store"
)

func categoryFields(c models.Category) listview.Fields {
	return listview.Fields{
		Text:       []string{c.Name, models.StringValue(c.Description)},
		Type:       string(c.Type),
		PlatformID: c.PlatformID,
	}
}

// categorySlots maps the category media fields onto c.
func categorySlots(c *models.Category) []mediaSlot {
	return []mediaSlot{
		{field: "icon", label: "Icon", dir: filestore.DirCategoryIcons, dst: &c.Icon, sized: true},
		{field: "cat_thumb", label: "Thumbnail", dir: filestore.DirCategoryThumbs, dst: &c.Thumb, sized: true},
		{field: "cover", label: "Cover", dir: filestore.DirCategoryCovers, dst: &c.Cover, sized: true},
	}
}

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	serveList(a, w, r, cache.ListCategories, a.categories.List, categoryFields)
}

func (a *API) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "cat_id"))
	if !ok {
		writeError(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	c, err := a.categories.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find category", err)
		return
	}
	if c == nil {
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	if err := a.parseForm(w, r); err != nil {
		writeBodyError(w, err)
		return
	}
	defer cleanupForm(r)

	rawPlatform, hasPlatform := formValue(r, "platform_id")
	platformID, msg := requireFormID(rawPlatform, hasPlatform, "Platform ID")
	typ, _ := formValue(r, "type")
	name, _ := formValue(r, "cat_name")
	desc, _ := formValue(r, "cat_description")
	if msg = firstError(
		msg,
		validateCategoryType(typ),
		requireText("Category name", name, maxNameLen),
		optionalText("Category description", desc, maxDescriptionLen),
	); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	c := &models.Category{
		PlatformID:  platformID,
		Type:        models.CategoryType(typ),
		Name:        name,
		Description: models.OptionalString(desc),
	}
	pending, msg, err := readMedia(r, categorySlots(c)...)
	if err != nil {
		serverError(w, r, "read category media", err)
		return
	}
	if msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	platform, err := a.platforms.FindByID(ctx, platformID)
	if err != nil {
		serverError(w, r, "find platform", err)
		return
	}
	if platform == nil {
		writeError(w, "Platform not found", http.StatusNotFound)
		return
	}

	batch, err := a.saveMedia(ctx, pending)
	if err != nil {
		serverError(w, r, "save category media", err)
		return
	}

	created, err := a.categories.Create(ctx, c)
	if err != nil {
		batch.rollback(ctx)
		storeError(w, r, "create category", err, "Platform no longer exists")
		return
	}
	a.lists.Invalidate(ctx, cache.ListCategories)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Category added successfully",
		"category": created,
	})
}

// updateCategory applies only the fields present in the form; each one
// present is validated like on create.
func (a *API) updateCategory(w http.ResponseWriter, r *http.Request) {
	if err := a.parseForm(w, r); err != nil {
		writeBodyError(w, err)
		return
	}
	defer cleanupForm(r)

	rawID, hasID := formValue(r, "cat_id")
	id, msg := requireFormID(rawID, hasID, "Category ID")

	rawPlatform, hasPlatform := formValue(r, "platform_id")
	var platformID int64
	if msg == "" && hasPlatform {
		platformID, msg = requireFormID(rawPlatform, true, "Platform ID")
	}
	typ, hasType := formValue(r, "type")
	if msg == "" && hasType {
		msg = validateCategoryType(typ)
	}
	name, hasName := formValue(r, "cat_name")
	if msg == "" && hasName {
		msg = requireText("Category name", name, maxNameLen)
	}
	desc, hasDesc := formValue(r, "cat_description")
	if msg == "" && hasDesc {
		msg = optionalText("Category description", desc, maxDescriptionLen)
	}
	if msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	current, err := a.categories.FindByID(ctx, id)
	if err != nil {
		serverError(w, r, "find category", err)
		return
	}
	if current == nil {
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}

	next := *current
	if hasPlatform {
		next.PlatformID = platformID
	}
	if hasType {
		next.Type = models.CategoryType(typ)
	}
	if hasName {
		next.Name = name
	}
	if hasDesc {
		next.Description = models.OptionalString(desc)
	}

	pending, msg, err := readMedia(r, categorySlots(&next)...)
	if err != nil {
		serverError(w, r, "read category media", err)
		return
	}
	if msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	if next.PlatformID != current.PlatformID {
		platform, err := a.platforms.FindByID(ctx, next.PlatformID)
		if err != nil {
			serverError(w, r, "find platform", err)
			return
		}
		if platform == nil {
			writeError(w, "Platform not found", http.StatusNotFound)
			return
		}
	}

	batch, err := a.saveMedia(ctx, pending)
	if err != nil {
		serverError(w, r, "save category media", err)
		return
	}

	updated, err := a.categories.Update(ctx, &next)
	if errors.Is(err, store.ErrInUse) {
		batch.rollback(ctx)
		writeError(w, "Category still has software on its platform", http.StatusConflict)
		return
	}
	if err != nil {
		batch.rollback(ctx)
		storeError(w, r, "update category", err, "Category could not be updated")
		return
	}
	if updated == nil {
		batch.rollback(ctx)
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}
	batch.commit(ctx)
	a.lists.Invalidate(ctx, cache.ListCategories)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Category updated successfully",
		"category": updated,
	})
}

func (a *API) deleteCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CatID jsonID `json:"cat_id"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeBodyError(w, err)
		return
	}
	if msg := body.CatID.message("Category ID"); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	deleted, err := a.categories.Delete(ctx, body.CatID.Value)
	if err != nil {
		storeError(w, r, "delete category", err, "Category still has software")
		return
	}
	if deleted == nil {
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}
	a.removeFiles(ctx, deleted.MediaPaths()...)
	a.lists.Invalidate(ctx, cache.ListCategories)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}
