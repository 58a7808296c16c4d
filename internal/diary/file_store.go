package diary

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// recordDoc is the persisted form of Record. CreatedAt is kept as the raw
// ISO-8601 string so that one bad timestamp does not abort reading the
// whole collection.
type recordDoc struct {
	ID                 string `json:"id"`
	Author             string `json:"author"`
	PetName            string `json:"petName,omitempty"`
	ImageURL           string `json:"imageUrl"`
	CreatedAt          string `json:"createdAt"`
	Content            string `json:"content"`
	PetCharacteristics string `json:"petCharacteristics,omitempty"`
	FirstPersonPronoun string `json:"firstPersonPronoun,omitempty"`
}

// FileStore keeps the full collection in a single JSON file. All access is
// serialized by a process-wide mutex; writes go through a temp file and
// rename so a crash mid-write cannot leave a truncated document behind.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileStore{path: path}, nil
}

func (s *FileStore) ReadAll() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)

	var docs []recordDoc
	dec := json.NewDecoder(f)
	if err := dec.Decode(&docs); err != nil {
		if err == io.EOF {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}

	records := make([]Record, 0, len(docs))
	for _, d := range docs {
		createdAt, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
		if err != nil {
			log.Printf("⚠️ record %s has unparsable createdAt %q, substituting current time: %v", d.ID, d.CreatedAt, err)
			createdAt = time.Now()
		}
		records = append(records, Record{
			ID:                 d.ID,
			Author:             d.Author,
			PetName:            d.PetName,
			ImageURL:           d.ImageURL,
			CreatedAt:          createdAt,
			Content:            d.Content,
			PetCharacteristics: d.PetCharacteristics,
			FirstPersonPronoun: d.FirstPersonPronoun,
		})
	}
	return records, nil
}

func (s *FileStore) WriteAll(records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]recordDoc, 0, len(records))
	for _, r := range records {
		docs = append(docs, recordDoc{
			ID:                 r.ID,
			Author:             r.Author,
			PetName:            r.PetName,
			ImageURL:           r.ImageURL,
			CreatedAt:          r.CreatedAt.Format(time.RFC3339Nano),
			Content:            r.Content,
			PetCharacteristics: r.PetCharacteristics,
			FirstPersonPronoun: r.FirstPersonPronoun,
		})
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".diaries-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}
