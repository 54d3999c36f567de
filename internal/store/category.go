// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"softcatalog/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `cat_id, platform_id, type, cat_name, cat_description, icon, cat_thumb, cover`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.PlatformID, &c.Type, &c.Name,
		&c.Description, &c.Icon, &c.Thumb, &c.Cover,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by id.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM category ORDER BY cat_id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM category WHERE cat_id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO category (platform_id, type, cat_name, cat_description, icon, cat_thumb, cover)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+categoryColumns,
		c.PlatformID, c.Type, c.Name, c.Description, c.Icon, c.Thumb, c.Cover,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", classify(err))
	}
	return result, nil
}

// Update overwrites every column of the category with c.ID. Returns nil
// if the category does not exist. Moving a category that software still
// references to another platform fails with ErrInUse, since each software
// row carries the platform of its category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update category: %w", err)
	}
	defer tx.Rollback()

	var platformID int64
	err = tx.QueryRowContext(ctx,
		`SELECT platform_id FROM category WHERE cat_id = $1 FOR UPDATE`, c.ID,
	).Scan(&platformID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock category: %w", err)
	}

	if platformID != c.PlatformID {
		var used bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM software WHERE cat_id = $1)`, c.ID,
		).Scan(&used)
		if err != nil {
			return nil, fmt.Errorf("check category software: %w", err)
		}
		if used {
			return nil, fmt.Errorf("update category %d: %w", c.ID, ErrInUse)
		}
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE category
		SET platform_id = $1, type = $2, cat_name = $3, cat_description = $4,
		    icon = $5, cat_thumb = $6, cover = $7
		WHERE cat_id = $8
		RETURNING `+categoryColumns,
		c.PlatformID, c.Type, c.Name, c.Description, c.Icon, c.Thumb, c.Cover, c.ID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", classify(err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update category: %w", err)
	}
	return result, nil
}

// Delete removes a category and returns the deleted row. Returns nil if
// the category does not exist.
func (s *CategoryStore) Delete(ctx context.Context, id int64) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `DELETE FROM category WHERE cat_id = $1 RETURNING `+categoryColumns, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete category: %w", classify(err))
	}
	return c, nil
}
