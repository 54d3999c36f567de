// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON API handlers of the catalog console.
// Each entity is exposed as a Resource that dispatches on the HTTP method.
// Handlers validate input before any side effect, write new files before
// touching the database, and only remove replaced files once the database
// write has succeeded.
package handlers

import (
	"context"

	"softcatalog/internal/cache"
	"softcatalog/internal/filestore"
	"softcatalog/internal/models"
)

// AdminRepo persists admin accounts.
type AdminRepo interface {
	List(ctx context.Context) ([]models.Admin, error)
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	Create(ctx context.Context, username string, email *string, password string) (*models.Admin, error)
	Update(ctx context.Context, username string, upd models.AdminUpdate) (*models.Admin, error)
	Delete(ctx context.Context, username string) (bool, error)
}

// PlatformRepo persists platforms.
type PlatformRepo interface {
	List(ctx context.Context) ([]models.Platform, error)
	FindByID(ctx context.Context, id int64) (*models.Platform, error)
	Create(ctx context.Context, p *models.Platform) (*models.Platform, error)
	Update(ctx context.Context, p *models.Platform) (*models.Platform, error)
	Delete(ctx context.Context, id int64) (*models.Platform, error)
}

// CategoryRepo persists categories.
type CategoryRepo interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id int64) (*models.Category, error)
}

// SoftwareRepo persists software entries.
type SoftwareRepo interface {
	List(ctx context.Context) ([]models.Software, error)
	Create(ctx context.Context, sw *models.Software) (*models.Software, error)
	Delete(ctx context.Context, uploadID int64) (*models.Software, error)
}

// API groups the catalog handlers and their dependencies.
type API struct {
	admins     AdminRepo
	platforms  PlatformRepo
	categories CategoryRepo
	software   SoftwareRepo
	files      *filestore.Store
	lists      *cache.ListCache // nil disables list caching
	maxUpload  int64
}

// NewAPI creates the API handler group. lists may be nil.
func NewAPI(admins AdminRepo, platforms PlatformRepo, categories CategoryRepo, software SoftwareRepo, files *filestore.Store, lists *cache.ListCache, maxUpload int64) *API {
	return &API{
		admins:     admins,
		platforms:  platforms,
		categories: categories,
		software:   software,
		files:      files,
		lists:      lists,
		maxUpload:  maxUpload,
	}
}
