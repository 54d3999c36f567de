// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"softcatalog/internal/models"
)

// AdminStore handles admin account persistence.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = `id, username, email, created_at`

func scanAdmin(row scanner) (*models.Admin, error) {
	var a models.Admin
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all admins ordered by id.
func (s *AdminStore) List(ctx context.Context) ([]models.Admin, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+adminColumns+` FROM admin ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	items := []models.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindByUsername retrieves an admin by username. Returns nil if not found.
func (s *AdminStore) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admin WHERE username = $1`, username)
	a, err := scanAdmin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by username: %w", err)
	}
	return a, nil
}

// Create inserts a new admin with a bcrypt-hashed password.
func (s *AdminStore) Create(ctx context.Context, username string, email *string, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO admin (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+adminColumns,
		username, email, string(hash),
	)
	a, err := scanAdmin(row)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", classify(err))
	}
	return a, nil
}

// Update applies the supplied fields to the named admin and returns the
// result. Returns nil if no such admin exists.
func (s *AdminStore) Update(ctx context.Context, username string, upd models.AdminUpdate) (*models.Admin, error) {
	var hash *string
	if upd.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(b)
		hash = &h
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE admin SET
			email = CASE WHEN $1::boolean THEN $2::text ELSE email END,
			password_hash = COALESCE($3::text, password_hash)
		WHERE username = $4
		RETURNING `+adminColumns,
		upd.EmailSet, upd.Email, hash, username,
	)
	a, err := scanAdmin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update admin: %w", classify(err))
	}
	return a, nil
}

// Delete removes the named admin. Reports whether a row was deleted.
func (s *AdminStore) Delete(ctx context.Context, username string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM admin WHERE username = $1`, username)
	if err != nil {
		return false, fmt.Errorf("delete admin: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete admin: %w", err)
	}
	return n > 0, nil
}
