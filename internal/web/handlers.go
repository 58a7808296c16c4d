package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"pet-diary/internal/diary"
	"pet-diary/internal/upload"
)

type createRequest struct {
	Author             *string `json:"author"`
	ImageURL           *string `json:"imageUrl"`
	PetName            *string `json:"petName"`
	Memo               *string `json:"memo"`
	PetCharacteristics *string `json:"petCharacteristics"`
	FirstPersonPronoun *string `json:"firstPersonPronoun"`
}

// updateRequest deliberately has no author or id field: both are immutable
// and silently ignored when present in the body.
type updateRequest struct {
	PetName            *string `json:"petName"`
	ImageURL           *string `json:"imageUrl"`
	Content            *string `json:"content"`
	CreatedAt          *string `json:"createdAt"`
	PetCharacteristics *string `json:"petCharacteristics"`
	FirstPersonPronoun *string `json:"firstPersonPronoun"`
}

type uploadRequest struct {
	Image    string `json:"image"`
	Filename string `json:"filename"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func (s *Server) handleDiaries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listDiaries(w, r)
	case http.MethodPost:
		s.createDiary(w, r)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (s *Server) listDiaries(w http.ResponseWriter, _ *http.Request) {
	records, err := s.diaries.List()
	if err != nil {
		log.Printf("❌ Failed to read diary store: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	// the collection changes between requests; never let clients cache it
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) createDiary(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Author == nil || req.ImageURL == nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: expected { author:string, imageUrl:string }")
		return
	}

	in := diary.CreateInput{
		Author:   *req.Author,
		ImageURL: *req.ImageURL,
	}
	if req.PetName != nil {
		in.PetName = *req.PetName
	}
	if req.Memo != nil {
		in.Memo = *req.Memo
	}
	if req.PetCharacteristics != nil {
		in.PetCharacteristics = *req.PetCharacteristics
	}
	if req.FirstPersonPronoun != nil {
		in.FirstPersonPronoun = *req.FirstPersonPronoun
	}

	rec, err := s.diaries.Create(r.Context(), in)
	if err != nil {
		log.Printf("❌ Failed to create diary: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Location", "/diaries/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleDiaryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/diaries/")
	if id == "" || strings.Contains(id, "/") {
		writeMessage(w, http.StatusNotFound, "Not Found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getDiary(w, id)
	case http.MethodPut:
		s.updateDiary(w, r, id)
	case http.MethodDelete:
		s.deleteDiary(w, id)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (s *Server) getDiary(w http.ResponseWriter, id string) {
	rec, err := s.diaries.Get(id)
	if err != nil {
		if errors.Is(err, diary.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Not Found")
			return
		}
		log.Printf("❌ Failed to read diary store: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) updateDiary(w http.ResponseWriter, r *http.Request, id string) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	in := diary.UpdateInput{
		PetName:            req.PetName,
		ImageURL:           req.ImageURL,
		Content:            req.Content,
		PetCharacteristics: req.PetCharacteristics,
		FirstPersonPronoun: req.FirstPersonPronoun,
	}
	if req.CreatedAt != nil {
		createdAt, err := time.Parse(time.RFC3339Nano, *req.CreatedAt)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid JSON: createdAt must be an ISO-8601 timestamp")
			return
		}
		in.CreatedAt = &createdAt
	}

	rec, err := s.diaries.Update(id, in)
	if err != nil {
		if errors.Is(err, diary.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Not Found")
			return
		}
		log.Printf("❌ Failed to update diary %s: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteDiary(w http.ResponseWriter, id string) {
	if err := s.diaries.Delete(id); err != nil {
		if errors.Is(err, diary.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Not Found")
			return
		}
		log.Printf("❌ Failed to delete diary %s: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Image == "" {
		writeMessage(w, http.StatusBadRequest, "画像データが送信されていません")
		return
	}

	id, imageURL, err := s.uploads.Save(req.Image, req.Filename)
	if err != nil {
		log.Printf("❌ Upload failed: %v", err)
		if errors.Is(err, upload.ErrInvalidImage) {
			writeMessage(w, http.StatusBadRequest, "画像データを読み取れませんでした")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "画像のアップロードに失敗しました")
		return
	}

	log.Printf("✅ Image uploaded: %s", imageURL)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"imageUrl": imageURL,
		"id":       id,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}
