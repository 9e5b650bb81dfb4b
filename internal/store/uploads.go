// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// sniffLen is enough for every matcher filetype ships.
const sniffLen = 262

// UploadInfo describes a stored media file.
type UploadInfo struct {
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	Size     int64     `json:"size"`
	MIME     string    `json:"mime"`
	Modified time.Time `json:"modified"`
}

// UploadStore keeps admin-uploaded media in a single directory.
type UploadStore struct {
	dir     string
	urlBase string
	maxSize int64
}

// NewUploadStore stores files under dir and reports them under urlBase.
func NewUploadStore(dir, urlBase string, maxSize int64) *UploadStore {
	return &UploadStore{dir: dir, urlBase: strings.TrimSuffix(urlBase, "/"), maxSize: maxSize}
}

// Dir returns the upload directory.
func (s *UploadStore) Dir() string { return s.dir }

// MaxSize returns the per-file size limit in bytes.
func (s *UploadStore) MaxSize() int64 { return s.maxSize }

// Save sniffs r and stores it if it is an image, audio or video file.
// The stored name is random; only the detected extension is kept.
func (s *UploadStore) Save(r io.Reader) (UploadInfo, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return UploadInfo{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return UploadInfo{}, ErrUnsupportedType
	}
	if !filetype.IsImage(head) && !filetype.IsAudio(head) && !filetype.IsVideo(head) {
		return UploadInfo{}, ErrUnsupportedType
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return UploadInfo{}, fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.New().String() + "." + kind.Extension
	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return UploadInfo{}, fmt.Errorf("create upload: %w", err)
	}

	// One extra byte detects oversize input.
	body := io.MultiReader(bytes.NewReader(head), r)
	written, err := io.Copy(f, io.LimitReader(body, s.maxSize+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		if errors.Is(err, ErrTooLarge) {
			return UploadInfo{}, err
		}
		return UploadInfo{}, fmt.Errorf("write upload: %w", err)
	}

	return UploadInfo{
		Name:     name,
		URL:      s.urlBase + "/" + name,
		Size:     written,
		MIME:     kind.MIME.Value,
		Modified: time.Now().UTC(),
	}, nil
}

// List returns stored uploads, newest first.
func (s *UploadStore) List() ([]UploadInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []UploadInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	out := make([]UploadInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		mime := ""
		if t := filetype.GetType(strings.TrimPrefix(filepath.Ext(e.Name()), ".")); t != filetype.Unknown {
			mime = t.MIME.Value
		}
		out = append(out, UploadInfo{
			Name:     e.Name(),
			URL:      s.urlBase + "/" + e.Name(),
			Size:     info.Size(),
			MIME:     mime,
			Modified: info.ModTime().UTC(),
		})
	}
	slices.SortFunc(out, func(a, b UploadInfo) int { return b.Modified.Compare(a.Modified) })
	return out, nil
}

// Delete removes a stored upload by name.
func (s *UploadStore) Delete(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
