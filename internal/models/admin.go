// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Admin is a console operator account. The password hash is write-only
// and never leaves the store.
type Admin struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminUpdate carries the fields of a partial admin update.
// EmailSet distinguishes "leave unchanged" from "clear"; a nil Email with
// EmailSet clears the column. An empty Password keeps the current hash.
type AdminUpdate struct {
	EmailSet bool
	Email    *string
	Password string
}

// Empty reports whether the update would change nothing.
func (u AdminUpdate) Empty() bool {
	return !u.EmailSet && u.Password == ""
}
