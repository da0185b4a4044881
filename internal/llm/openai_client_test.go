package llm

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "sync/atomic"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
)

func TestOpenAI_Ping_OK(t *testing.T) {
    var gotAuth string
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/models" {
            t.Errorf("unexpected path: %s", r.URL.Path)
        }
        gotAuth = r.Header.Get("Authorization")
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte(`{"data":[]}`))
    }))
    defer ts.Close()

    c := NewOpenAIClient(ts.URL, "test-key", "gpt-4.1")
    c.Timeout = 500 * time.Millisecond

    if err := c.Ping(context.Background()); err != nil {
        t.Fatalf("Ping() unexpected error: %v", err)
    }
    if gotAuth != "Bearer test-key" {
        t.Fatalf("expected Authorization header to be set, got %q", gotAuth)
    }
}

func TestOpenAI_Ping_Unauthorized(t *testing.T) {
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        http.Error(w, "nope", http.StatusUnauthorized)
    }))
    defer ts.Close()

    c := NewOpenAIClient(ts.URL, "test-key", "gpt-4.1")
    c.Timeout = 200 * time.Millisecond

    err := c.Ping(context.Background())
    if err == nil {
        t.Fatalf("expected error for non-200 status")
    }
    if !IsAuthError(err) {
        t.Fatalf("expected an auth error, got %v", err)
    }
    if have := err.Error(); !(strings.Contains(have, "401") && strings.Contains(have, "nope")) {
        t.Fatalf("unexpected error: %v", err)
    }
}

func TestOpenAI_Chat_SendsTranscript(t *testing.T) {
    var got struct {
        Model          string            `json:"model"`
        Messages       []openAIMessage   `json:"messages"`
        ResponseFormat map[string]string `json:"response_format"`
    }
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
            t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
        }
        if ct := r.Header.Get("Content-Type"); ct != "application/json" {
            t.Errorf("expected Content-Type application/json, got %s", ct)
        }
        _ = json.NewDecoder(r.Body).Decode(&got)
        _ = json.NewEncoder(w).Encode(map[string]any{
            "choices": []any{map[string]any{"message": map[string]any{"content": "  hello world \n"}}},
        })
    }))
    defer ts.Close()

    c := NewOpenAIClient(ts.URL, "key", "gpt-4.1")
    c.JSONOutput = true
    history := []Message{
        {Role: RoleUser, Content: "hi"},
        {Role: RoleModel, Content: "welcome"},
    }

    out, err := c.Chat(context.Background(), "be a pizza bot", history, "a large pizza")
    require.NoError(t, err)
    require.Equal(t, "hello world", out)

    require.Equal(t, "gpt-4.1", got.Model)
    require.Equal(t, []openAIMessage{
        {Role: "system", Content: "be a pizza bot"},
        {Role: "user", Content: "hi"},
        {Role: "assistant", Content: "welcome"},
        {Role: "user", Content: "a large pizza"},
    }, got.Messages)
    require.Equal(t, "json_object", got.ResponseFormat["type"])
}

func TestOpenAI_Chat_Non200(t *testing.T) {
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        http.Error(w, "boom", http.StatusInternalServerError)
    }))
    defer ts.Close()

    c := NewOpenAIClient(ts.URL, "key", "gpt-4.1")
    c.Timeout = 200 * time.Millisecond

    _, err := c.Chat(context.Background(), "", nil, "hi")
    require.Error(t, err)
    require.Contains(t, err.Error(), "status 500")
    require.Contains(t, err.Error(), "boom")
    require.False(t, IsAuthError(err))
}

func TestOpenAI_Chat_RetriesRateLimit(t *testing.T) {
    var calls int32
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if atomic.AddInt32(&calls, 1) == 1 {
            http.Error(w, "slow down", http.StatusTooManyRequests)
            return
        }
        _, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
    }))
    defer ts.Close()

    c := NewOpenAIClient(ts.URL, "key", "gpt-4.1")
    out, err := c.Chat(context.Background(), "", nil, "hi")
    require.NoError(t, err)
    require.Equal(t, "ok", out)
    require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOpenAI_Chat_EmptyChoices(t *testing.T) {
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        _, _ = w.Write([]byte(`{"choices":[]}`))
    }))
    defer ts.Close()

    c := NewOpenAIClient(ts.URL, "key", "gpt-4.1")
    _, err := c.Chat(context.Background(), "", nil, "hi")
    require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAI_Chat_BadJSON(t *testing.T) {
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        _, _ = w.Write([]byte(`{malformed`))
    }))
    defer ts.Close()

    c := NewOpenAIClient(ts.URL, "key", "gpt-4.1")
    if _, err := c.Chat(context.Background(), "", nil, "hi"); err == nil {
        t.Fatalf("expected JSON decode error")
    }
}

func TestOpenAI_APIKey_Required(t *testing.T) {
    c := NewOpenAIClient("http://example", "", "gpt-4.1")
    if err := c.Ping(context.Background()); err == nil {
        t.Fatalf("expected error when API key is empty for Ping")
    }
    if _, err := c.Chat(context.Background(), "", nil, "hello"); err == nil {
        t.Fatalf("expected error when API key is empty for Chat")
    }
}

func TestOpenAI_Chat_ContextTimeout(t *testing.T) {
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        time.Sleep(300 * time.Millisecond)
        _, _ = w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
    }))
    defer ts.Close()

    c := NewOpenAIClient(ts.URL, "key", "gpt-4.1")
    c.Timeout = 100 * time.Millisecond // request should time out

    if _, err := c.Chat(context.Background(), "", nil, "hi"); err == nil {
        t.Fatalf("expected timeout error from context")
    }
}
