package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newFakeCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 34, "total_tokens": 46},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

func TestOpenAIGenerateText(t *testing.T) {
	srv := newFakeCompletionServer(t, "きょうは公園を走ったよ。")
	defer srv.Close()

	c := NewOpenAI("test-key", srv.URL+"/v1", "gpt-4o-mini", "", "")
	resp, err := c.GenerateText(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Content != "きょうは公園を走ったよ。" {
		t.Fatalf("unexpected content: %q", resp.Content)
	}
	if resp.TotalTokens != 46 {
		t.Fatalf("unexpected usage: %d", resp.TotalTokens)
	}
}

func TestOpenAIEmptyResponseIsError(t *testing.T) {
	srv := newFakeCompletionServer(t, "   ")
	defer srv.Close()

	c := NewOpenAI("test-key", srv.URL+"/v1", "gpt-4o-mini", "", "")
	_, err := c.GenerateVision(context.Background(), "system", "user", []byte{0x89, 0x50}, "image/png")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("want ErrEmptyResponse, got %v", err)
	}
}

func TestImageDataURL(t *testing.T) {
	url := imageDataURL([]byte("abc"), "image/jpeg")
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Fatalf("unexpected prefix: %s", url)
	}
	if !strings.HasSuffix(url, "YWJj") {
		t.Fatalf("unexpected payload: %s", url)
	}
}

func TestFactoryUnknownProvider(t *testing.T) {
	f := &Factory{}
	if _, err := f.CreateClient("claude", "m"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
