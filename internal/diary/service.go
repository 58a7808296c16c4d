package diary

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"pet-diary/internal/llm"
	"pet-diary/internal/persona"
)

// userRequest is the user-level message sent with (or without) the photo.
// The persona instruction built per entry travels as the system prompt.
const userRequest = "この写真に写っているペットの今日の様子を見て、日記を書いてください。"

// ImageResolver turns a site-relative image URL into the stored bytes and
// their MIME type. ok is false for URLs that do not point at a local upload,
// in which case generation falls back to the text-only flow.
type ImageResolver interface {
	Resolve(imageURL string) (data []byte, mimeType string, ok bool)
}

type CreateInput struct {
	Author             string
	ImageURL           string
	PetName            string
	Memo               string
	PetCharacteristics string
	FirstPersonPronoun string
}

// UpdateInput carries a partial update; nil fields keep their stored value.
type UpdateInput struct {
	PetName            *string
	ImageURL           *string
	Content            *string
	CreatedAt          *time.Time
	PetCharacteristics *string
	FirstPersonPronoun *string
}

// Service orchestrates generation and persistence of diary records.
type Service struct {
	store   Store
	llm     llm.Client
	prompts *persona.Template
	images  ImageResolver
}

func NewService(store Store, llmClient llm.Client, prompts *persona.Template, images ImageResolver) *Service {
	return &Service{store: store, llm: llmClient, prompts: prompts, images: images}
}

func (s *Service) List() ([]Record, error) {
	return s.store.ReadAll()
}

func (s *Service) Get(id string) (Record, error) {
	records, err := s.store.ReadAll()
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

// Create generates diary text for the uploaded photo and persists a new
// record. A failed or empty generation does not abort creation: the record
// is stored with PlaceholderContent so the owner can edit it by hand.
func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	systemPrompt := s.prompts.Build(in.PetName, in.PetCharacteristics, in.Memo, in.FirstPersonPronoun)

	content := s.generate(ctx, systemPrompt, in.ImageURL)

	rec := Record{
		ID:                 uuid.NewString(),
		Author:             in.Author,
		PetName:            in.PetName,
		ImageURL:           in.ImageURL,
		CreatedAt:          time.Now(),
		Content:            content,
		PetCharacteristics: in.PetCharacteristics,
		FirstPersonPronoun: in.FirstPersonPronoun,
	}
	rec.Normalize()

	records, err := s.store.ReadAll()
	if err != nil {
		return Record{}, err
	}
	records = append(records, rec)
	if err := s.store.WriteAll(records); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) generate(ctx context.Context, systemPrompt, imageURL string) string {
	var (
		resp llm.Response
		err  error
	)
	if data, mimeType, ok := s.images.Resolve(imageURL); ok {
		resp, err = s.llm.GenerateVision(ctx, systemPrompt, userRequest, data, mimeType)
	} else {
		resp, err = s.llm.GenerateText(ctx, systemPrompt, userRequest)
	}
	if err != nil {
		log.Printf("⚠️ diary generation failed, using placeholder content: %v", err)
		return PlaceholderContent
	}
	return resp.Content
}

// Update applies the supplied fields to an existing record. Author and ID
// are never touched, and generation is not re-run.
func (s *Service) Update(id string, in UpdateInput) (Record, error) {
	records, err := s.store.ReadAll()
	if err != nil {
		return Record{}, err
	}
	idx := -1
	for i, r := range records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Record{}, ErrNotFound
	}

	rec := records[idx]
	if in.PetName != nil {
		rec.PetName = *in.PetName
	}
	if in.ImageURL != nil {
		rec.ImageURL = *in.ImageURL
	}
	if in.Content != nil {
		rec.Content = *in.Content
	}
	if in.CreatedAt != nil {
		rec.CreatedAt = *in.CreatedAt
	}
	if in.PetCharacteristics != nil {
		rec.PetCharacteristics = *in.PetCharacteristics
	}
	if in.FirstPersonPronoun != nil {
		rec.FirstPersonPronoun = *in.FirstPersonPronoun
	}
	rec.Normalize()

	records[idx] = rec
	if err := s.store.WriteAll(records); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Delete(id string) error {
	records, err := s.store.ReadAll()
	if err != nil {
		return err
	}
	out := records[:0]
	found := false
	for _, r := range records {
		if r.ID == id {
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		return ErrNotFound
	}
	return s.store.WriteAll(out)
}
