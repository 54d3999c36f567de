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

// PlatformStore manages platforms in the database.
type PlatformStore struct {
	db *sql.DB
}

// NewPlatformStore returns a new PlatformStore.
func NewPlatformStore(db *sql.DB) *PlatformStore {
	return &PlatformStore{db: db}
}

const platformColumns = `platform_id, platform_name, description, icon, cover, thumbnail`

func scanPlatform(row scanner) (*models.Platform, error) {
	var p models.Platform
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Icon, &p.Cover, &p.Thumbnail)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all platforms ordered by id.
func (s *PlatformStore) List(ctx context.Context) ([]models.Platform, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+platformColumns+` FROM platform ORDER BY platform_id`)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()

	items := []models.Platform{}
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a platform by ID. Returns nil if not found.
func (s *PlatformStore) FindByID(ctx context.Context, id int64) (*models.Platform, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+platformColumns+` FROM platform WHERE platform_id = $1`, id)
	p, err := scanPlatform(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find platform by id: %w", err)
	}
	return p, nil
}

// Create inserts a new platform and returns it with its assigned id.
func (s *PlatformStore) Create(ctx context.Context, p *models.Platform) (*models.Platform, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO platform (platform_name, description, icon, cover, thumbnail)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+platformColumns,
		p.Name, p.Description, p.Icon, p.Cover, p.Thumbnail,
	)
	result, err := scanPlatform(row)
	if err != nil {
		return nil, fmt.Errorf("create platform: %w", classify(err))
	}
	return result, nil
}

// Update overwrites every column of the platform with p.ID. Returns nil if
// the platform does not exist.
func (s *PlatformStore) Update(ctx context.Context, p *models.Platform) (*models.Platform, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE platform
		SET platform_name = $1, description = $2, icon = $3, cover = $4, thumbnail = $5
		WHERE platform_id = $6
		RETURNING `+platformColumns,
		p.Name, p.Description, p.Icon, p.Cover, p.Thumbnail, p.ID,
	)
	result, err := scanPlatform(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update platform: %w", classify(err))
	}
	return result, nil
}

// Delete removes a platform and returns the deleted row so its media can
// be cleaned up. Returns nil if the platform does not exist.
func (s *PlatformStore) Delete(ctx context.Context, id int64) (*models.Platform, error) {
	row := s.db.QueryRowContext(ctx, `DELETE FROM platform WHERE platform_id = $1 RETURNING `+platformColumns, id)
	p, err := scanPlatform(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete platform: %w", classify(err))
	}
	return p, nil
}
