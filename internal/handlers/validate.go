// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/mail"
	"unicode/utf8"

	"softcatalog/internal/models"
)

// Validation limits for catalog fields.
const (
	maxUsernameLen    = 50
	maxEmailLen       = 254
	maxPasswordBytes  = 72 // bcrypt ignores anything longer
	maxNameLen        = 100
	maxDescriptionLen = 5_000
	maxPackageNameLen = 255
	maxVendorLen      = 100
	maxVersionLen     = 50
)

// requireText checks a required trimmed field and returns the first error found.
func requireText(label, value string, maxLen int) string {
	if value == "" {
		return label + " is required"
	}
	return optionalText(label, value, maxLen)
}

// optionalText checks the length of an optional field.
func optionalText(label, value string, maxLen int) string {
	if utf8.RuneCountInString(value) > maxLen {
		return fmt.Sprintf("%s is too long (max %d characters)", label, maxLen)
	}
	return ""
}

// validateEmail accepts a bare address such as "ops@example.com".
func validateEmail(email string) string {
	if utf8.RuneCountInString(email) > maxEmailLen {
		return fmt.Sprintf("Email is too long (max %d characters)", maxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "Invalid email address"
	}
	return ""
}

// validatePassword checks a new password.
func validatePassword(pw string) string {
	if pw == "" {
		return "Password is required"
	}
	if len(pw) > maxPasswordBytes {
		return fmt.Sprintf("Password is too long (max %d bytes)", maxPasswordBytes)
	}
	return ""
}

// validateCategoryType checks the category type enum.
func validateCategoryType(t string) string {
	if t == "" {
		return "Type is required"
	}
	if !models.CategoryType(t).Valid() {
		return fmt.Sprintf("Type must be %q or %q", models.CategoryApp, models.CategoryGame)
	}
	return ""
}

// firstError returns the first non-empty message.
func firstError(msgs ...string) string {
	for _, m := range msgs {
		if m != "" {
			return m
		}
	}
	return ""
}

// requireFormID reads a required positive id from the form.
func requireFormID(value string, present bool, label string) (int64, string) {
	if !present || value == "" {
		return 0, label + " is required"
	}
	id, ok := parseID(value)
	if !ok {
		return 0, label + " must be a positive integer"
	}
	return id, ""
}

// requireFormDate reads a required YYYY-MM-DD date from the form.
func requireFormDate(value, label string) (models.Date, string) {
	if value == "" {
		return models.Date{}, label + " is required"
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return models.Date{}, label + " must be a date in YYYY-MM-DD format"
	}
	return d, ""
}
