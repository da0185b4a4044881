package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingAPIKey = errors.New("API key not found: set GOOGLE_API_KEY or GEMINI_API_KEY (or put it in a .env file)")

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type EnvVars struct {
	GoogleAPIKey string `envconfig:"GOOGLE_API_KEY"`
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	LLMApiKey    string `envconfig:"LLM_API_KEY"`

	LLMProvider    string        `envconfig:"LLM_PROVIDER" default:"gemini"`
	// LLMBaseURL overrides the provider endpoint; empty means its default.
	LLMBaseURL     string        `envconfig:"LLM_BASE_URL"`
	LLMModel       string        `envconfig:"LLM_MODEL" default:"gemini-2.0-flash"`
	LLMTimeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	LLMTemperature float32       `envconfig:"LLM_TEMPERATURE" default:"0.7"`

	DefinitionsDir string `envconfig:"DEFINITIONS_DIR" default:"definitions"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"warn"`
	RenderWidth    int    `envconfig:"RENDER_WIDTH" default:"60"`
}

// LoadEnv reads a .env file when one exists, then the process environment.
// A missing credential is an error: the bots cannot do anything without it.
func LoadEnv() (*EnvVars, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var v EnvVars
	if err := envconfig.Process("", &v); err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// APIKey picks the credential for the configured provider. GOOGLE_API_KEY
// wins over GEMINI_API_KEY when both are set.
func (v *EnvVars) APIKey() string {
	if v.Provider() == ProviderOpenAI {
		return strings.TrimSpace(v.LLMApiKey)
	}
	if k := strings.TrimSpace(v.GoogleAPIKey); k != "" {
		return k
	}
	return strings.TrimSpace(v.GeminiAPIKey)
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// BaseURL is the endpoint to call. Gemini gets "" unless overridden so the
// SDK picks its own.
func (v *EnvVars) BaseURL() string {
	if u := strings.TrimSpace(v.LLMBaseURL); u != "" {
		return u
	}
	if v.Provider() == ProviderOpenAI {
		return defaultOpenAIBaseURL
	}
	return ""
}

func (v *EnvVars) Provider() string {
	return strings.ToLower(strings.TrimSpace(v.LLMProvider))
}

func (v *EnvVars) Validate() error {
	switch v.Provider() {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("LLM_PROVIDER %q: expected %q or %q", v.LLMProvider, ProviderGemini, ProviderOpenAI)
	}
	if v.APIKey() == "" {
		if v.Provider() == ProviderOpenAI {
			return fmt.Errorf("LLM_API_KEY is required for the openai provider: %w", ErrMissingAPIKey)
		}
		return ErrMissingAPIKey
	}
	if v.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %s", v.LLMTimeout)
	}
	if v.RenderWidth < 30 {
		return fmt.Errorf("RENDER_WIDTH must be at least 30, got %d", v.RenderWidth)
	}
	return nil
}
