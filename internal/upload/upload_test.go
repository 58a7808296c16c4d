package upload

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// 1x1 transparent PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestSaveAndResolve(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	id, url, err := s.Save(base64.StdEncoding.EncodeToString(pngBytes), "photo.png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}
	if url != "/uploads/"+id+"/pet.png" {
		t.Fatalf("unexpected url: %s", url)
	}

	data, mimeType, ok := s.Resolve(url)
	if !ok {
		t.Fatal("resolve failed for stored upload")
	}
	if mimeType != "image/png" {
		t.Fatalf("unexpected mime type: %s", mimeType)
	}
	if len(data) != len(pngBytes) {
		t.Fatalf("byte length mismatch: %d != %d", len(data), len(pngBytes))
	}
}

func TestSaveExtensionFallback(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, tc := range []struct {
		filename string
		want     string
	}{
		{"pet.JPG", "/pet.jpg"},
		{"pet.jpeg", "/pet.jpeg"},
		{"pet.webp", "/pet.webp"},
		{"pet.svg", "/pet.png"},
		{"", "/pet.png"},
	} {
		_, url, err := s.Save(base64.StdEncoding.EncodeToString(pngBytes), tc.filename)
		if err != nil {
			t.Fatalf("save %q: %v", tc.filename, err)
		}
		if !strings.HasSuffix(url, tc.want) {
			t.Fatalf("filename %q: got %s, want suffix %s", tc.filename, url, tc.want)
		}
	}
}

func TestSaveRejectsBadBase64(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, _, err := s.Save("not base64!!!", "x.png"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestResolveRejectsOutsideUploads(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, u := range []string{
		"https://example.com/dog.png",
		"/images/dog.png",
		"/uploads/../secret.txt",
		"/uploads/",
	} {
		if _, _, ok := s.Resolve(u); ok {
			t.Fatalf("resolve must refuse %s", u)
		}
	}
}

func TestSweepOrphans(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	payload := base64.StdEncoding.EncodeToString(pngBytes)
	keptID, keptURL, err := s.Save(payload, "a.png")
	if err != nil {
		t.Fatalf("save kept: %v", err)
	}
	orphanID, _, err := s.Save(payload, "b.png")
	if err != nil {
		t.Fatalf("save orphan: %v", err)
	}

	// age both directories past the ttl
	old := time.Now().Add(-2 * time.Hour)
	for _, id := range []string{keptID, orphanID} {
		if err := os.Chtimes(filepath.Join(dir, id), old, old); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	removed, err := s.SweepOrphans([]string{keptURL}, time.Hour)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("want 1 removed, got %d", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, keptID)); err != nil {
		t.Fatalf("referenced upload must survive sweep: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, orphanID)); !os.IsNotExist(err) {
		t.Fatal("orphan upload must be removed")
	}
}
