package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ccastromar/pizzabot/internal/logx"
)

// OpenAIClient talks to any OpenAI-compatible /chat/completions endpoint.
type OpenAIClient struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	JSONOutput  bool
	HTTP        *http.Client
	Timeout     time.Duration
}

// Compile-time interface conformance
var _ LLMClient = (*OpenAIClient)(nil)

func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Model:       model,
		Temperature: 0.7,
		HTTP:        &http.Client{},
		Timeout:     60 * time.Second,
	}
}

func (c *OpenAIClient) Ping(ctx context.Context) error {
	if c.APIKey == "" {
		return fmt.Errorf("openai api key is empty")
	}
	ctx, cancel := c.withTimeout(ctx, 10*time.Second)
	defer cancel()

	url := strings.TrimRight(c.BaseURL, "/") + "/models"
	err := withRetry(ctx, 3, 100*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
		resp, err := c.client().Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return &StatusError{Provider: "openai", Op: "ping", Code: resp.StatusCode, Body: string(b)}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("openai ping: %w", err)
	}
	return nil
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *OpenAIClient) Chat(ctx context.Context, system string, history []Message, user string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("openai api key is empty")
	}

	msgs := make([]openAIMessage, 0, len(history)+2)
	if system != "" {
		msgs = append(msgs, openAIMessage{Role: "system", Content: system})
	}
	for _, m := range history {
		role := "user"
		if m.Role == RoleModel {
			role = "assistant"
		}
		msgs = append(msgs, openAIMessage{Role: role, Content: m.Content})
	}
	msgs = append(msgs, openAIMessage{Role: "user", Content: user})

	payload := map[string]any{
		"model":       c.Model,
		"messages":    msgs,
		"temperature": c.Temperature,
	}
	if c.JSONOutput {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx, 60*time.Second)
	defer cancel()
	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	timer := logx.Start(c.Model, "LLM", "openai chat")
	err = withRetry(ctx, 3, 100*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.client().Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return &StatusError{Provider: "openai", Op: "chat", Code: resp.StatusCode, Body: string(b)}
		}
		return json.NewDecoder(resp.Body).Decode(&result)
	})
	timer.End()
	if err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) client() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *OpenAIClient) withTimeout(ctx context.Context, fallback time.Duration) (context.Context, context.CancelFunc) {
	to := c.Timeout
	if to <= 0 {
		to = fallback
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, to)
}
