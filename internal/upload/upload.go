// Package upload stores uploaded pet photos on the local filesystem, one
// directory per image id, under the public static-asset root.
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const publicPrefix = "/uploads/"

// ErrInvalidImage marks payloads that could not be decoded; handlers report
// these as client errors rather than server failures.
var ErrInvalidImage = errors.New("upload: invalid image payload")

var validExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save decodes the base64 payload and writes it to <dir>/<id>/pet<ext>.
// The extension comes from filename when recognized, otherwise .png.
// It returns the generated id and the public URL of the stored image.
func (s *Store) Save(imageBase64, filename string) (id, publicURL string, err error) {
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !validExtensions[ext] {
		ext = ".png"
	}

	id = uuid.NewString()
	imageDir := filepath.Join(s.dir, id)
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create image dir: %w", err)
	}

	name := "pet" + ext
	if err := os.WriteFile(filepath.Join(imageDir, name), data, 0o644); err != nil {
		return "", "", fmt.Errorf("write image: %w", err)
	}
	return id, publicPrefix + id + "/" + name, nil
}

// Resolve maps a site-relative upload URL back to the stored bytes and a
// sniffed MIME type. Absolute URLs and paths outside the upload root report
// ok=false so callers can use the text-only generation flow.
func (s *Store) Resolve(imageURL string) (data []byte, mimeType string, ok bool) {
	if !strings.HasPrefix(imageURL, publicPrefix) {
		return nil, "", false
	}
	rel := path.Clean(strings.TrimPrefix(imageURL, publicPrefix))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil, "", false
	}
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, "", false
	}
	return data, http.DetectContentType(data), true
}

// SweepOrphans removes per-image directories that are older than ttl and
// whose id does not appear in any referenced image URL. It returns the
// number of directories removed.
func (s *Store) SweepOrphans(referencedURLs []string, ttl time.Duration) (int, error) {
	referenced := make(map[string]bool, len(referencedURLs))
	for _, u := range referencedURLs {
		if strings.HasPrefix(u, publicPrefix) {
			rest := strings.TrimPrefix(u, publicPrefix)
			if i := strings.IndexByte(rest, '/'); i > 0 {
				referenced[rest[:i]] = true
			}
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read upload dir: %w", err)
	}

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || referenced[e.Name()] {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
			log.Printf("⚠️ failed to remove orphan upload %s: %v", e.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
