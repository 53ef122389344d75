package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// mimeTypes is the closed set of extensions the static responder
// recognizes; everything else falls back to octet-stream.
var mimeTypes = map[string]string{
	".htm":  "text/html",
	".html": "text/html",
	".css":  "text/css",
	".txt":  "text/plain",
	".js":   "text/javascript",
	".json": "application/json",
	".xml":  "application/xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpe":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".ico":  "image/vnd.microsoft.icon",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".svg":  "image/svg+xml",
	".svgz": "image/svg+xml",
	".mp3":  "audio/mpeg",
}

func mimeByExtension(path string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return "application/octet-stream"
}

// handleStatic serves files under the www-root. Directory targets
// resolve to index.html; any path that escapes the root, via dot
// segments or symlinks, is rejected.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	// r.URL.Path is already URL-decoded by net/http.
	target := r.URL.Path
	if !strings.HasPrefix(target, "/") {
		s.staticError(w, r, http.StatusBadRequest, "Invalid path")
		return
	}

	root, err := filepath.Abs(s.staticRoot)
	if err != nil {
		s.staticError(w, r, http.StatusBadRequest, "Invalid path")
		return
	}

	full := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(target, "/")))
	if !insideRoot(root, full) {
		s.staticError(w, r, http.StatusBadRequest, "Invalid path")
		return
	}

	if info, err := os.Stat(full); err == nil && info.IsDir() {
		full = filepath.Join(full, "index.html")
	}

	// Resolve symlinks before the final containment check so a link
	// pointing outside the root cannot smuggle files out.
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		if os.IsNotExist(err) {
			s.staticError(w, r, http.StatusNotFound, "File not found")
			return
		}
		s.staticError(w, r, http.StatusBadRequest, "Invalid path")
		return
	}
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil || !insideRoot(resolvedRoot, resolved) {
		s.staticError(w, r, http.StatusBadRequest, "Invalid path")
		return
	}

	file, err := os.Open(resolved)
	if err != nil {
		s.staticError(w, r, http.StatusNotFound, "File not found")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		s.staticError(w, r, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Type", mimeByExtension(resolved))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		io.Copy(w, file)
	}
}

func (s *Server) staticError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		io.WriteString(w, message)
	}
}

// insideRoot reports whether path stays within root after lexical
// cleaning.
func insideRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
