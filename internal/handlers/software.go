// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"path"

	"softcatalog/internal/cache"
	"softcatalog/internal/filestore"
	"softcatalog/internal/listview"
	"softcatalog/internal/models"
)

func softwareFields(s models.Software) listview.Fields {
	return listview.Fields{
		Text:       []string{s.Name, s.PackageName, s.Description, s.Vendor},
		PlatformID: s.PlatformID,
	}
}

// softwareSlots places the binary in a folder named after the category and
// the thumbnail in its soft_thumbs subfolder.
func softwareSlots(sw *models.Software, catName string) []mediaSlot {
	dir := filestore.DirName(catName)
	return []mediaSlot{
		{field: "upload", label: "Upload file", dir: dir, dst: &sw.Path},
		{field: "thumbnail", label: "Thumbnail", dir: path.Join(dir, filestore.DirSoftThumbs), dst: &sw.Thumbnail, sized: true},
	}
}

func (a *API) listSoftware(w http.ResponseWriter, r *http.Request) {
	serveList(a, w, r, cache.ListSoftware, a.software.List, softwareFields)
}

func (a *API) createSoftware(w http.ResponseWriter, r *http.Request) {
	if err := a.parseForm(w, r); err != nil {
		writeBodyError(w, err)
		return
	}
	defer cleanupForm(r)

	rawUploadDate, _ := formValue(r, "upload_date")
	uploadDate, msg := requireFormDate(rawUploadDate, "Upload date")

	var platformID, catID int64
	if msg == "" {
		v, ok := formValue(r, "platform_id")
		platformID, msg = requireFormID(v, ok, "Platform ID")
	}
	if msg == "" {
		v, ok := formValue(r, "cat_id")
		catID, msg = requireFormID(v, ok, "Category ID")
	}

	pkg, _ := formValue(r, "package_name")
	name, _ := formValue(r, "name")
	desc, _ := formValue(r, "description")
	vendor, _ := formValue(r, "vendor")
	version, _ := formValue(r, "version")
	msg = firstError(
		msg,
		requireText("Package name", pkg, maxPackageNameLen),
		requireText("Name", name, maxNameLen),
		requireText("Description", desc, maxDescriptionLen),
		requireText("Vendor", vendor, maxVendorLen),
		requireText("Version", version, maxVersionLen),
	)

	var releaseDate models.Date
	if msg == "" {
		rawRelease, _ := formValue(r, "release_date")
		releaseDate, msg = requireFormDate(rawRelease, "Release date")
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
	cat, err := a.categories.FindByID(ctx, catID)
	if err != nil {
		serverError(w, r, "find category", err)
		return
	}
	if cat == nil {
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}
	if cat.PlatformID != platform.ID {
		writeError(w, "Category does not belong to the platform", http.StatusBadRequest)
		return
	}

	sw := &models.Software{
		PlatformID:  platformID,
		CatID:       catID,
		PackageName: pkg,
		Name:        name,
		Description: desc,
		Vendor:      vendor,
		Version:     version,
		ReleaseDate: releaseDate,
		UploadDate:  uploadDate,
	}
	slots := softwareSlots(sw, cat.Name)
	pending, msg, err := readMedia(r, slots...)
	if err != nil {
		serverError(w, r, "read software files", err)
		return
	}
	if msg == "" {
		msg = missingSlot(pending, slots)
	}
	if msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	batch, err := a.saveMedia(ctx, pending)
	if err != nil {
		serverError(w, r, "save software files", err)
		return
	}

	created, err := a.software.Create(ctx, sw)
	if err != nil {
		batch.rollback(ctx)
		storeError(w, r, "create software", err, "Platform or category no longer exists")
		return
	}
	a.lists.Invalidate(ctx, cache.ListSoftware)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Software added successfully",
		"software": created,
	})
}

// missingSlot reports the first slot with no file among pending.
func missingSlot(pending []pendingFile, slots []mediaSlot) string {
	for _, s := range slots {
		found := false
		for _, p := range pending {
			if p.slot.field == s.field {
				found = true
				break
			}
		}
		if !found {
			return s.label + " is required"
		}
	}
	return ""
}

func (a *API) deleteSoftware(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UploadID jsonID `json:"upload_id"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeBodyError(w, err)
		return
	}
	if msg := body.UploadID.message("Upload ID"); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	deleted, err := a.software.Delete(ctx, body.UploadID.Value)
	if err != nil {
		serverError(w, r, "delete software", err)
		return
	}
	if deleted == nil {
		writeError(w, "Software not found", http.StatusNotFound)
		return
	}
	a.removeFiles(ctx, deleted.MediaPaths()...)
	a.lists.Invalidate(ctx, cache.ListSoftware)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Software deleted successfully"})
}
