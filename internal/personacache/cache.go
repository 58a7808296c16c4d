// Package personacache keeps previously used pet personas in a local JSON
// file on the client side, so repeat entries do not retype characteristics
// and pronoun. It is never synchronized with the server.
package personacache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pet-diary/internal/persona"
)

type SavedPersona struct {
	ID                 string    `json:"id"`
	PetName            string    `json:"petName"`
	PetCharacteristics string    `json:"petCharacteristics,omitempty"`
	FirstPersonPronoun string    `json:"firstPersonPronoun"`
	CreatedAt          time.Time `json:"createdAt"`
	LastUsedAt         time.Time `json:"lastUsedAt"`
}

type Cache struct {
	path string
	mu   sync.Mutex
}

func New(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &Cache{path: path}, nil
}

// LoadAll returns the saved personas, most recently used first.
func (c *Cache) LoadAll() ([]SavedPersona, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadUnlocked()
}

// Save upserts by pet name: an existing persona with the same name gets its
// characteristics, pronoun and lastUsedAt refreshed instead of a duplicate
// entry. The returned persona is the stored one.
func (c *Cache) Save(petName, characteristics, pronoun string) (SavedPersona, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pronoun == "" {
		pronoun = persona.DefaultPronoun
	}

	personas, err := c.loadUnlocked()
	if err != nil {
		return SavedPersona{}, err
	}

	now := time.Now()
	idx := -1
	for i, p := range personas {
		if p.PetName == petName {
			idx = i
			break
		}
	}

	var saved SavedPersona
	if idx >= 0 {
		personas[idx].PetCharacteristics = characteristics
		personas[idx].FirstPersonPronoun = pronoun
		personas[idx].LastUsedAt = now
		saved = personas[idx]
	} else {
		saved = SavedPersona{
			ID:                 uuid.NewString(),
			PetName:            petName,
			PetCharacteristics: characteristics,
			FirstPersonPronoun: pronoun,
			CreatedAt:          now,
			LastUsedAt:         now,
		}
		personas = append(personas, saved)
	}

	if err := c.saveUnlocked(personas); err != nil {
		return SavedPersona{}, err
	}
	return saved, nil
}

// TouchLastUsed records that the persona was just used again.
func (c *Cache) TouchLastUsed(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	personas, err := c.loadUnlocked()
	if err != nil {
		return err
	}
	for i, p := range personas {
		if p.ID == id {
			personas[i].LastUsedAt = time.Now()
			return c.saveUnlocked(personas)
		}
	}
	return nil
}

func (c *Cache) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	personas, err := c.loadUnlocked()
	if err != nil {
		return err
	}
	out := personas[:0]
	for _, p := range personas {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return c.saveUnlocked(out)
}

func (c *Cache) loadUnlocked() ([]SavedPersona, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []SavedPersona{}, nil
		}
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)

	var personas []SavedPersona
	dec := json.NewDecoder(f)
	if err := dec.Decode(&personas); err != nil {
		if err == io.EOF {
			return []SavedPersona{}, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	for i := range personas {
		if personas[i].FirstPersonPronoun == "" {
			personas[i].FirstPersonPronoun = persona.DefaultPronoun
		}
	}
	sortByLastUsed(personas)
	return personas, nil
}

// saveUnlocked keeps the collection sorted by lastUsedAt descending, so the
// file order matches what list callers see.
func (c *Cache) saveUnlocked(personas []SavedPersona) error {
	sortByLastUsed(personas)
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(personas)
}

func sortByLastUsed(personas []SavedPersona) {
	sort.SliceStable(personas, func(i, j int) bool {
		return personas[i].LastUsedAt.After(personas[j].LastUsedAt)
	})
}
