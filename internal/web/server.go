// Package web exposes the diary collection over HTTP.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"pet-diary/internal/diary"
	"pet-diary/internal/upload"
)

type Server struct {
	diaries   *diary.Service
	uploads   *upload.Store
	uploadDir string
	server    *http.Server
	port      int
	startTime time.Time
}

func NewServer(diaries *diary.Service, uploads *upload.Store, uploadDir string, port int) *Server {
	return &Server{
		diaries:   diaries,
		uploads:   uploads,
		uploadDir: uploadDir,
		port:      port,
		startTime: time.Now(),
	}
}

// Handler builds the route table. Split out from Start so tests can drive
// the full mux through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/diaries", s.handleDiaries)     // list + create
	mux.HandleFunc("/diaries/", s.handleDiaryByID)  // read-one, update, delete
	mux.HandleFunc("/upload", s.handleUpload)       // base64 image ingestion
	mux.HandleFunc("/api/status", s.handleStatus)   // health check endpoint
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir))))

	return mux
}

func (s *Server) Start() error {
	// No WriteTimeout: diary creation blocks on the LLM call and routinely
	// takes several seconds.
	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", s.port),
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	log.Printf("🌐 Starting pet diary server on http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
