// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoAdminPassword is returned when neither a hash nor a password is configured.
var ErrNoAdminPassword = errors.New("admin password not configured")

// PasswordVerifier checks the admin password against a bcrypt hash.
type PasswordVerifier struct {
	hash []byte
}

// NewPasswordVerifier builds a verifier from a bcrypt hash, or, when hash is
// empty, by hashing the plain password once at startup.
func NewPasswordVerifier(hash, plain string) (*PasswordVerifier, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
		return &PasswordVerifier{hash: []byte(hash)}, nil
	}
	if plain == "" {
		return nil, ErrNoAdminPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &PasswordVerifier{hash: h}, nil
}

// Verify reports whether password matches.
func (v *PasswordVerifier) Verify(password string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil
}
