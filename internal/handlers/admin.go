// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"softcatalog/internal/cache"
	"softcatalog/internal/listview"
	"softcatalog/internal/models"
)

func adminFields(a models.Admin) listview.Fields {
	return listview.Fields{Text: []string{a.Username, models.StringValue(a.Email)}}
}

func (a *API) listAdmins(w http.ResponseWriter, r *http.Request) {
	serveList(a, w, r, cache.ListAdmins, a.admins.List, adminFields)
}

func (a *API) createAdmin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string  `json:"username"`
		Password string  `json:"password"`
		Email    *string `json:"email"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeBodyError(w, err)
		return
	}

	username := strings.TrimSpace(body.Username)
	email := normalizeEmail(body.Email)
	msg := firstError(
		requireText("Username", username, maxUsernameLen),
		validatePassword(body.Password),
	)
	if msg == "" && email != nil {
		msg = validateEmail(*email)
	}
	if msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	existing, err := a.admins.FindByUsername(ctx, username)
	if err != nil {
		serverError(w, r, "find admin", err)
		return
	}
	if existing != nil {
		writeError(w, "Username already exists", http.StatusConflict)
		return
	}

	// The unique constraint still catches a concurrent insert.
	admin, err := a.admins.Create(ctx, username, email, body.Password)
	if err != nil {
		storeError(w, r, "create admin", err, "Username already exists")
		return
	}
	a.lists.Invalidate(ctx, cache.ListAdmins)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Admin added successfully",
		"admin":   admin,
	})
}

func (a *API) updateAdmin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string         `json:"username"`
		Email    optionalString `json:"email"`
		Password *string        `json:"password"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeBodyError(w, err)
		return
	}

	username := strings.TrimSpace(body.Username)
	if username == "" {
		writeError(w, "Username is required", http.StatusBadRequest)
		return
	}

	upd := models.AdminUpdate{EmailSet: body.Email.Set, Email: normalizeEmail(body.Email.Value)}
	if upd.Email != nil {
		if msg := validateEmail(*upd.Email); msg != "" {
			writeError(w, msg, http.StatusBadRequest)
			return
		}
	}
	if body.Password != nil && *body.Password != "" {
		if msg := validatePassword(*body.Password); msg != "" {
			writeError(w, msg, http.StatusBadRequest)
			return
		}
		upd.Password = *body.Password
	}
	if upd.Empty() {
		writeError(w, "Email or password is required", http.StatusBadRequest)
		return
	}

	admin, err := a.admins.Update(r.Context(), username, upd)
	if err != nil {
		storeError(w, r, "update admin", err, "Admin could not be updated")
		return
	}
	if admin == nil {
		writeError(w, "Admin not found", http.StatusNotFound)
		return
	}
	a.lists.Invalidate(r.Context(), cache.ListAdmins)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Admin updated successfully",
		"admin":   admin,
	})
}

func (a *API) deleteAdmin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeBodyError(w, err)
		return
	}
	username := strings.TrimSpace(body.Username)
	if username == "" {
		writeError(w, "Username is required", http.StatusBadRequest)
		return
	}

	deleted, err := a.admins.Delete(r.Context(), username)
	if err != nil {
		storeError(w, r, "delete admin", err, "Admin is still referenced")
		return
	}
	if !deleted {
		writeError(w, "Admin not found", http.StatusNotFound)
		return
	}
	a.lists.Invalidate(r.Context(), cache.ListAdmins)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Admin deleted successfully"})
}

// normalizeEmail trims an optional email and maps blank input to nil.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	return models.OptionalString(strings.TrimSpace(*email))
}
