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

// SoftwareStore manages software entries. One entry spans three tables:
// upload (the binary), software (its metadata, keyed by upload_id) and
// soft_thumb (its thumbnail). Writes touch all three in one transaction.
type SoftwareStore struct {
	db *sql.DB
}

// NewSoftwareStore returns a new SoftwareStore.
func NewSoftwareStore(db *sql.DB) *SoftwareStore {
	return &SoftwareStore{db: db}
}

const softwareSelect = `
	SELECT s.upload_id, s.platform_id, s.cat_id, s.package_name, s.name,
	       s.description, s.vendor, s.version, s.release_date,
	       u.upload_date, u.path,
	       (SELECT t.link FROM soft_thumb t
	         WHERE t.software_id = s.upload_id
	         ORDER BY t.thumb_id LIMIT 1) AS thumbnail
	FROM software s
	JOIN upload u ON u.upload_id = s.upload_id`

func scanSoftware(row scanner) (*models.Software, error) {
	var sw models.Software
	err := row.Scan(
		&sw.UploadID, &sw.PlatformID, &sw.CatID, &sw.PackageName, &sw.Name,
		&sw.Description, &sw.Vendor, &sw.Version, &sw.ReleaseDate,
		&sw.UploadDate, &sw.Path, &sw.Thumbnail,
	)
	if err != nil {
		return nil, err
	}
	return &sw, nil
}

// List returns all software entries ordered by upload id.
func (s *SoftwareStore) List(ctx context.Context) ([]models.Software, error) {
	rows, err := s.db.QueryContext(ctx, softwareSelect+` ORDER BY s.upload_id`)
	if err != nil {
		return nil, fmt.Errorf("list software: %w", err)
	}
	defer rows.Close()

	items := []models.Software{}
	for rows.Next() {
		sw, err := scanSoftware(rows)
		if err != nil {
			return nil, fmt.Errorf("scan software: %w", err)
		}
		items = append(items, *sw)
	}
	return items, rows.Err()
}

// Create inserts the upload, software and thumbnail rows for sw in one
// transaction and returns the stored entry. Nothing is persisted on error.
func (s *SoftwareStore) Create(ctx context.Context, sw *models.Software) (*models.Software, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create software: %w", err)
	}
	defer tx.Rollback()

	var uploadID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO upload (upload_date, path) VALUES ($1, $2) RETURNING upload_id`,
		sw.UploadDate, sw.Path,
	).Scan(&uploadID)
	if err != nil {
		return nil, fmt.Errorf("insert upload: %w", classify(err))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO software (upload_id, platform_id, cat_id, package_name, name,
		                      description, vendor, version, release_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uploadID, sw.PlatformID, sw.CatID, sw.PackageName, sw.Name,
		sw.Description, sw.Vendor, sw.Version, sw.ReleaseDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert software: %w", classify(err))
	}

	if sw.Thumbnail != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO soft_thumb (link, software_id) VALUES ($1, $2)`,
			sw.Thumbnail, uploadID,
		)
		if err != nil {
			return nil, fmt.Errorf("insert soft_thumb: %w", classify(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create software: %w", err)
	}

	created := *sw
	created.UploadID = uploadID
	return &created, nil
}

// Delete removes the thumbnail, software and upload rows of an entry in one
// transaction and returns the deleted entry so its files can be removed.
// Returns nil if the entry does not exist.
func (s *SoftwareStore) Delete(ctx context.Context, uploadID int64) (*models.Software, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete software: %w", err)
	}
	defer tx.Rollback()

	sw, err := scanSoftware(tx.QueryRowContext(ctx, softwareSelect+` WHERE s.upload_id = $1 FOR UPDATE OF s`, uploadID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load software for delete: %w", err)
	}

	for _, stmt := range []string{
		`DELETE FROM soft_thumb WHERE software_id = $1`,
		`DELETE FROM software WHERE upload_id = $1`,
		`DELETE FROM upload WHERE upload_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, uploadID); err != nil {
			return nil, fmt.Errorf("delete software: %w", classify(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete software: %w", err)
	}
	return sw, nil
}
