// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"strings"
)

// Resource dispatches a request to the handler registered for its method.
// Methods without a handler get 405 and an Allow header.
type Resource struct {
	Get    http.HandlerFunc
	Post   http.HandlerFunc
	Put    http.HandlerFunc
	Delete http.HandlerFunc
}

// Allow lists the supported methods in a stable order.
func (res Resource) Allow() string {
	var methods []string
	if res.Get != nil {
		methods = append(methods, http.MethodGet)
	}
	if res.Post != nil {
		methods = append(methods, http.MethodPost)
	}
	if res.Put != nil {
		methods = append(methods, http.MethodPut)
	}
	if res.Delete != nil {
		methods = append(methods, http.MethodDelete)
	}
	return strings.Join(methods, ", ")
}

func (res Resource) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var h http.HandlerFunc
	switch r.Method {
	case http.MethodGet:
		h = res.Get
	case http.MethodPost:
		h = res.Post
	case http.MethodPut:
		h = res.Put
	case http.MethodDelete:
		h = res.Delete
	}
	if h == nil {
		w.Header().Set("Allow", res.Allow())
		writeError(w, fmt.Sprintf("Method %s Not Allowed", r.Method), http.StatusMethodNotAllowed)
		return
	}
	h(w, r)
}

// Admins serves /api/admin.
func (a *API) Admins() http.Handler {
	return Resource{Get: a.listAdmins, Post: a.createAdmin, Put: a.updateAdmin, Delete: a.deleteAdmin}
}

// Platforms serves /api/platform.
func (a *API) Platforms() http.Handler {
	return Resource{Get: a.listPlatforms, Post: a.createPlatform, Put: a.updatePlatform, Delete: a.deletePlatform}
}

// Categories serves /api/category.
func (a *API) Categories() http.Handler {
	return Resource{Get: a.listCategories, Post: a.createCategory, Put: a.updateCategory, Delete: a.deleteCategory}
}

// CategoryByID serves /api/category/id/{cat_id}.
func (a *API) CategoryByID() http.Handler {
	return Resource{Get: a.getCategory}
}

// Software serves /api/software.
func (a *API) Software() http.Handler {
	return Resource{Get: a.listSoftware, Post: a.createSoftware, Delete: a.deleteSoftware}
}

// Upload serves /api/upload.
func (a *API) Upload() http.Handler {
	return Resource{Post: a.uploadAssets}
}
