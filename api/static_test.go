package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newStaticServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"index.html":     "<html>game</html>",
		"app.js":         "console.log('hi')",
		"style.css":      "body {}",
		"data/world.png": "not-a-real-png",
		"noext":          "raw bytes",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	return newTestServer(t, Options{StaticRoot: root}), root
}

func getStatic(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestStatic_ServesFilesWithMIMETypes(t *testing.T) {
	s, _ := newStaticServer(t)

	tests := []struct {
		target   string
		wantType string
		wantBody string
	}{
		{"/index.html", "text/html", "<html>game</html>"},
		{"/app.js", "text/javascript", "console.log('hi')"},
		{"/style.css", "text/css", "body {}"},
		{"/data/world.png", "image/png", "not-a-real-png"},
		{"/noext", "application/octet-stream", "raw bytes"},
	}
	for _, tt := range tests {
		w := getStatic(s, tt.target)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", tt.target, w.Code)
			continue
		}
		if ct := w.Header().Get("Content-Type"); ct != tt.wantType {
			t.Errorf("%s: expected %q, got %q", tt.target, tt.wantType, ct)
		}
		if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
			t.Errorf("%s: expected no-cache, got %q", tt.target, cc)
		}
		if got := w.Body.String(); got != tt.wantBody {
			t.Errorf("%s: expected body %q, got %q", tt.target, tt.wantBody, got)
		}
	}
}

func TestStatic_DirectoryServesIndex(t *testing.T) {
	s, _ := newStaticServer(t)

	for _, target := range []string{"/", "/index.html"} {
		w := getStatic(s, target)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", target, w.Code)
		}
		if got := w.Body.String(); got != "<html>game</html>" {
			t.Errorf("%s: expected index content, got %q", target, got)
		}
	}
}

func TestStatic_MissingFile(t *testing.T) {
	s, _ := newStaticServer(t)

	w := getStatic(s, "/nope.html")
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("Expected text/plain, got %q", ct)
	}
	if got := w.Body.String(); got != "File not found" {
		t.Errorf("Expected %q, got %q", "File not found", got)
	}
}

func TestStatic_EscapeAttemptRejected(t *testing.T) {
	s, root := newStaticServer(t)

	// Place a file just outside the root to prove it stays unreachable.
	outside := filepath.Join(filepath.Dir(root), "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	defer os.Remove(outside)

	// Percent-encoded dot segments survive into r.URL.Path after
	// decoding; a raw "../" would be cleaned by the client.
	w := getStatic(s, "/%2e%2e/secret.txt")
	if w.Code == http.StatusOK {
		t.Fatalf("Escape attempt succeeded: %q", w.Body.String())
	}
	if w.Body.String() == "secret" {
		t.Fatal("Served a file outside the www root")
	}
}

func TestStatic_HeadOmitsBody(t *testing.T) {
	s, _ := newStaticServer(t)

	req := httptest.NewRequest(http.MethodHead, "/index.html", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body on HEAD, got %q", w.Body.String())
	}
}

func TestMimeByExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.HTML", "text/html"},
		{"a.svg", "image/svg+xml"},
		{"a.mp3", "audio/mpeg"},
		{"a.ico", "image/vnd.microsoft.icon"},
		{"a.bin", "application/octet-stream"},
		{"a", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := mimeByExtension(tt.path); got != tt.want {
			t.Errorf("mimeByExtension(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
