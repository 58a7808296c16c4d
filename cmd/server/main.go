package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pet-diary/internal/config"
	"pet-diary/internal/diary"
	"pet-diary/internal/llm"
	"pet-diary/internal/persona"
	"pet-diary/internal/scheduler"
	"pet-diary/internal/upload"
	"pet-diary/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	store, err := diary.NewFileStore(cfg.DataFilePath)
	if err != nil {
		log.Fatalf("failed to init diary store: %v", err)
	}

	uploads, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to init upload store: %v", err)
	}

	factory := llm.NewFactory(cfg)
	llmClient, err := factory.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	prompts := persona.Load(cfg.PromptTemplatePath)

	diaries := diary.NewService(store, llmClient, prompts, uploads)
	server := web.NewServer(diaries, uploads, cfg.UploadDir, cfg.Port)

	sched := scheduler.New()
	sched.SetSweepFunction(func(ctx context.Context) error {
		records, err := store.ReadAll()
		if err != nil {
			return err
		}
		urls := make([]string, 0, len(records))
		for _, r := range records {
			urls = append(urls, r.ImageURL)
		}
		removed, err := uploads.SweepOrphans(urls, cfg.UploadOrphanTTL)
		if err != nil {
			return err
		}
		if removed > 0 {
			log.Printf("🧹 Removed %d orphan upload(s)", removed)
		}
		return nil
	})
	if err := sched.Start(cfg.UploadSweepSchedule); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Shutting down...")
	sched.Stop()
	if err := server.Stop(); err != nil {
		log.Printf("❌ Server shutdown failed: %v", err)
	}
	log.Println("✅ Bye")
}
