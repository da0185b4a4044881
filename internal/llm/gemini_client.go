package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ccastromar/pizzabot/internal/logx"
)

// GeminiClient calls Gemini through the genai SDK. The transcript is sent in
// full on every turn; the SDK keeps no conversation state for us.
type GeminiClient struct {
	client      *genai.Client
	Model       string
	Temperature float32
	// JSONOutput asks the model for application/json replies.
	JSONOutput bool
	Timeout    time.Duration
}

var _ LLMClient = (*GeminiClient)(nil)

// NewGeminiClient builds a client for the Gemini API. An empty baseURL uses
// the SDK default endpoint.
func NewGeminiClient(ctx context.Context, baseURL, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{
		client:      client,
		Model:       model,
		Temperature: 0.7,
		Timeout:     60 * time.Second,
	}, nil
}

// Ping fetches the model metadata, which fails fast on a bad key.
func (c *GeminiClient) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := c.client.Models.Get(ctx, c.Model, nil); err != nil {
		return fmt.Errorf("gemini ping: %w", err)
	}
	return nil
}

func (c *GeminiClient) Chat(ctx context.Context, system string, history []Message, user string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		if m.Role == RoleModel {
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		} else {
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	contents = append(contents, genai.NewContentFromText(user, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.Temperature),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if c.JSONOutput {
		cfg.ResponseMIMEType = "application/json"
	}

	ctx, cancel := c.withTimeout(ctx, 60*time.Second)
	defer cancel()

	var resp *genai.GenerateContentResponse
	timer := logx.Start(c.Model, "LLM", "gemini generateContent")
	err := withRetry(ctx, 3, 200*time.Millisecond, func() error {
		var err error
		resp, err = c.client.Models.GenerateContent(ctx, c.Model, contents, cfg)
		return err
	})
	timer.End()
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return text, nil
}

func (c *GeminiClient) withTimeout(ctx context.Context, fallback time.Duration) (context.Context, context.CancelFunc) {
	to := c.Timeout
	if to <= 0 {
		to = fallback
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, to)
}
