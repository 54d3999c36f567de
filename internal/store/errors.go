// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all catalog entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate marks a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced marks a foreign key violation: the row points at a
	// missing record, or other rows still point at it.
	ErrReferenced = errors.New("record referenced")
	// ErrInUse marks an update refused because other rows depend on the
	// value it would change.
	ErrInUse = errors.New("record in use")
)

// PostgreSQL SQLSTATE codes mapped to sentinel errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// classify wraps constraint violations with the matching sentinel so
// callers can test with errors.Is.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %w", ErrReferenced, err)
	}
	return err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
