// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"net/http"
	"path"
	"strings"
)

// fileServer serves files from dir and answers missing paths with the
// JSON 404 instead of http.FileServer's plain-text page. Directory
// listings are never produced.
func fileServer(dir string) http.Handler {
	root := http.Dir(dir)
	fs := http.FileServer(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !servable(root, r.URL.Path) {
			notFound(w, r)
			return
		}
		setCacheControl(w, r.URL.Path)
		fs.ServeHTTP(w, r)
	})
}

// servable reports whether name is a regular file, or a directory that
// holds an index.html.
func servable(root http.Dir, name string) bool {
	name = path.Clean("/" + name)
	f, err := root.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return false
	}
	if !stat.IsDir() {
		return true
	}
	return servable(root, path.Join(name, "index.html"))
}

func setCacheControl(w http.ResponseWriter, p string) {
	switch {
	case strings.HasSuffix(p, ".js"), strings.HasSuffix(p, ".css"):
		w.Header().Set("Cache-Control", "public, max-age=86400")
	case strings.HasSuffix(p, ".png"), strings.HasSuffix(p, ".jpg"), strings.HasSuffix(p, ".gif"),
		strings.HasSuffix(p, ".webp"), strings.HasSuffix(p, ".svg"), strings.HasSuffix(p, ".mp3"),
		strings.HasSuffix(p, ".mp4"):
		w.Header().Set("Cache-Control", "public, max-age=604800")
	default:
		w.Header().Set("Cache-Control", "public, max-age=300")
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, "Not found", "The requested resource was not found", nil)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, "Method not allowed", "The requested method is not supported for this resource", nil)
}
