// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package store

import "errors"

var (
	// ErrNotFound is returned when the addressed entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExists is returned when adding an entry that is already present.
	ErrExists = errors.New("already exists")

	// ErrUnsupportedType is returned for uploads that are not image, audio or video.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrTooLarge is returned for uploads above the size limit.
	ErrTooLarge = errors.New("file too large")

	// ErrInvalidName is returned for upload names that escape the upload directory.
	ErrInvalidName = errors.New("invalid file name")
)
