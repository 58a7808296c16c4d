package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Prompts
	PromptTemplatePath string `env:"PROMPT_TEMPLATE_PATH"`

	// Storage
	DataFilePath string `env:"DATA_FILE_PATH" envDefault:"data/diaries.json"`
	UploadDir    string `env:"UPLOAD_DIR" envDefault:"public/uploads"`

	// Upload housekeeping
	UploadSweepSchedule string        `env:"UPLOAD_SWEEP_SCHEDULE" envDefault:"0 * * * *"`
	UploadOrphanTTL     time.Duration `env:"UPLOAD_ORPHAN_TTL" envDefault:"24h"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
