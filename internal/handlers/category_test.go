// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softcatalog/internal/models"
)

// seedPlatform inserts a platform directly into the fake repository.
func seedPlatform(env *testEnv, id int64, name string) {
	env.platforms.rows[id] = models.Platform{ID: id, Name: name}
	if id > env.platforms.nextID {
		env.platforms.nextID = id
	}
}

func seedCategory(env *testEnv, c models.Category) {
	env.categories.rows[c.ID] = c
	if c.ID > env.categories.nextID {
		env.categories.nextID = c.ID
	}
}

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t)
	seedPlatform(env, 1, "Windows")

	req := multipartRequest(t, http.MethodPost, "/api/category",
		map[string]string{"platform_id": "1", "type": "Game", "cat_name": "Puzzle"},
		formFileSpec{field: "cat_thumb", name: "thumb.png", data: pngBytes(t)},
	)
	rec := serve(env.api.Categories(), req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "Category added successfully", body["message"])
	c := body["category"].(map[string]any)
	assert.Equal(t, "Puzzle", c["cat_name"])
	assert.Equal(t, "Game", c["type"])
	assert.Nil(t, c["cat_description"])
	thumb, _ := c["cat_thumb"].(string)
	assert.True(t, strings.HasPrefix(thumb, "/uploads/category_thumbs/thumb_"), thumb)
}

func TestCreateCategory_Validation(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   string
	}{
		{"missing platform", map[string]string{"type": "App", "cat_name": "x"}, "Platform ID is required"},
		{"missing type", map[string]string{"platform_id": "1", "cat_name": "x"}, "Type is required"},
		{"lowercase type", map[string]string{"platform_id": "1", "type": "app", "cat_name": "x"}, `Type must be "App" or "Game"`},
		{"missing name", map[string]string{"platform_id": "1", "type": "App"}, "Category name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			seedPlatform(env, 1, "Windows")
			rec := serve(env.api.Categories(), multipartRequest(t, http.MethodPost, "/api/category", tt.fields))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decodeBody(t, rec)["error"])
		})
	}
}

func TestCreateCategory_UnknownPlatform(t *testing.T) {
	env := newTestEnv(t)
	req := multipartRequest(t, http.MethodPost, "/api/category",
		map[string]string{"platform_id": "7", "type": "App", "cat_name": "Tools"},
		formFileSpec{field: "icon", name: "i.png", data: pngBytes(t)},
	)
	rec := serve(env.api.Categories(), req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Platform not found", decodeBody(t, rec)["error"])
	assert.Empty(t, env.storedFiles(t))
}

func TestUpdateCategory_Partial(t *testing.T) {
	env := newTestEnv(t)
	seedPlatform(env, 1, "Windows")
	desc := "Utilities"
	seedCategory(env, models.Category{ID: 3, PlatformID: 1, Type: models.CategoryApp, Name: "Tools", Description: &desc})

	rec := serve(env.api.Categories(), multipartRequest(t, http.MethodPut, "/api/category",
		map[string]string{"cat_id": "3", "type": "Game"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Category updated successfully", decodeBody(t, rec)["message"])

	got := env.categories.rows[3]
	assert.Equal(t, models.CategoryGame, got.Type)
	assert.Equal(t, "Tools", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
}

func TestUpdateCategory_Errors(t *testing.T) {
	env := newTestEnv(t)
	seedPlatform(env, 1, "Windows")
	seedCategory(env, models.Category{ID: 3, PlatformID: 1, Type: models.CategoryApp, Name: "Tools"})
	h := env.api.Categories()

	rec := serve(h, multipartRequest(t, http.MethodPut, "/api/category", map[string]string{"cat_id": "3", "cat_name": ""}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category name is required", decodeBody(t, rec)["error"])

	rec = serve(h, multipartRequest(t, http.MethodPut, "/api/category", map[string]string{"cat_id": "4", "cat_name": "X"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found", decodeBody(t, rec)["error"])

	rec = serve(h, multipartRequest(t, http.MethodPut, "/api/category", map[string]string{"cat_id": "3", "platform_id": "2"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Platform not found", decodeBody(t, rec)["error"])
}

func TestUpdateCategory_MoveWithSoftware(t *testing.T) {
	env := newTestEnv(t)
	seedPlatform(env, 1, "Windows")
	seedPlatform(env, 2, "Linux")
	seedCategory(env, models.Category{ID: 3, PlatformID: 1, Type: models.CategoryApp, Name: "Tools"})
	env.categories.inUse = map[int64]bool{3: true}
	h := env.api.Categories()

	rec := serve(h, multipartRequest(t, http.MethodPut, "/api/category",
		map[string]string{"cat_id": "3", "platform_id": "2"},
		formFileSpec{field: "icon", name: "i.png", data: pngBytes(t)},
	))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Category still has software on its platform", decodeBody(t, rec)["error"])
	assert.Equal(t, int64(1), env.categories.rows[3].PlatformID)
	assert.Empty(t, env.storedFiles(t))

	// Other fields can still change while the platform stays.
	rec = serve(h, multipartRequest(t, http.MethodPut, "/api/category",
		map[string]string{"cat_id": "3", "platform_id": "1", "cat_name": "Utilities"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Utilities", env.categories.rows[3].Name)

	env.categories.inUse = nil
	rec = serve(h, multipartRequest(t, http.MethodPut, "/api/category",
		map[string]string{"cat_id": "3", "platform_id": "2"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(2), env.categories.rows[3].PlatformID)
}

func TestDeleteCategory(t *testing.T) {
	env := newTestEnv(t)
	h := env.api.Categories()

	rec := serve(h, jsonRequest(http.MethodDelete, "/api/category", `{"cat_id":5}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Category not found"}`, rec.Body.String())

	seedPlatform(env, 1, "Windows")
	serve(h, multipartRequest(t, http.MethodPost, "/api/category",
		map[string]string{"platform_id": "1", "type": "App", "cat_name": "Tools"},
		formFileSpec{field: "cover", name: "c.png", data: pngBytes(t)},
	))
	require.Len(t, env.storedFiles(t), 1)

	rec = serve(h, jsonRequest(http.MethodDelete, "/api/category", `{"cat_id":1}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Category deleted successfully", decodeBody(t, rec)["message"])
	assert.Empty(t, env.storedFiles(t))
}

func TestDeleteCategory_Referenced(t *testing.T) {
	env := newTestEnv(t)
	env.categories.err = referencedErr()

	rec := serve(env.api.Categories(), jsonRequest(http.MethodDelete, "/api/category", `{"cat_id":1}`))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Category still has software", decodeBody(t, rec)["error"])
}

func TestGetCategory(t *testing.T) {
	env := newTestEnv(t)
	seedCategory(env, models.Category{ID: 2, PlatformID: 1, Type: models.CategoryApp, Name: "Tools"})

	r := chi.NewRouter()
	r.Handle("/api/category/id/{cat_id}", env.api.CategoryByID())

	rec := serve(r, getRequest("/api/category/id/2"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Tools", body["cat_name"])
	assert.EqualValues(t, 2, body["cat_id"])

	rec = serve(r, getRequest("/api/category/id/99"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found", decodeBody(t, rec)["error"])

	rec = serve(r, getRequest("/api/category/id/abc"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid category ID", decodeBody(t, rec)["error"])
}

func TestListCategories_Projection(t *testing.T) {
	env := newTestEnv(t)
	seedCategory(env, models.Category{ID: 1, PlatformID: 1, Type: models.CategoryApp, Name: "Office"})
	seedCategory(env, models.Category{ID: 2, PlatformID: 1, Type: models.CategoryGame, Name: "Puzzle"})
	seedCategory(env, models.Category{ID: 3, PlatformID: 2, Type: models.CategoryGame, Name: "Racing"})
	h := env.api.Categories()

	rec := serve(h, getRequest("/api/category"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["categories"], 3)
	assert.NotContains(t, body, "total")

	rec = serve(h, getRequest("/api/category?type=Game&page=1&per_page=1"))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 2, body["total_pages"])
	items := body["categories"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Puzzle", items[0].(map[string]any)["cat_name"])

	rec = serve(h, getRequest("/api/category?q=RAC&platform_id=2"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["total"])

	rec = serve(h, getRequest("/api/category?page=0"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
