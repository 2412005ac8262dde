package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resume-parser-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient("test-key", "gpt-4o", 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.apiURL = srv.URL
	return c, srv
}

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestNewClientRequiresConfiguration(t *testing.T) {
	var confErr *llm.ConfigurationError

	if _, err := NewClient("", "gpt-4o", 0); !errors.As(err, &confErr) {
		t.Fatalf("missing key: err = %v, want ConfigurationError", err)
	}
	if _, err := NewClient("key", "  ", 0); !errors.As(err, &confErr) {
		t.Fatalf("missing model: err = %v, want ConfigurationError", err)
	}
	if _, err := NewClient("key", "gpt-4o", 0); err != nil {
		t.Fatalf("valid config: %v", err)
	}
}

func TestExtractFromTextSendsZeroTemperatureJSONMode(t *testing.T) {
	var captured chatRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("request decode: %v", err)
		}
		io.WriteString(w, chatReply(`{"profile":{"name":"Ada","surname":"Lovelace"}}`))
	})

	raw, err := c.ExtractFromText(context.Background(), "Ada Lovelace\nAnalyst")
	if err != nil {
		t.Fatalf("ExtractFromText: %v", err)
	}
	if !strings.Contains(string(raw), `"Ada"`) {
		t.Errorf("unexpected output: %s", raw)
	}
	if captured.Temperature == nil || *captured.Temperature != 0 {
		t.Error("temperature not pinned to 0")
	}
	if captured.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %q", captured.ResponseFormat.Type)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("messages = %d, want system+user", len(captured.Messages))
	}
	user, _ := captured.Messages[1].Content.(string)
	if !strings.Contains(user, "Ada Lovelace") || !strings.Contains(user, "workExperiences") {
		t.Error("user prompt missing resume text or schema block")
	}
}

func TestExtractFromImagesSendsAllPagesInOneCall(t *testing.T) {
	calls := 0
	var captured chatRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		io.WriteString(w, chatReply(`{"profile":{"name":"Ada","surname":"Lovelace"}}`))
	})

	pages := [][]byte{[]byte("png-1"), []byte("png-2"), []byte("png-3")}
	if _, err := c.ExtractFromImages(context.Background(), pages); err != nil {
		t.Fatalf("ExtractFromImages: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	parts, ok := captured.Messages[1].Content.([]any)
	if !ok {
		t.Fatalf("user content is %T, want array of parts", captured.Messages[1].Content)
	}
	if len(parts) != 4 {
		t.Fatalf("content parts = %d, want prompt + 3 images", len(parts))
	}
	img := parts[1].(map[string]any)
	url, _ := img["image_url"].(map[string]any)["url"].(string)
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("image url = %q", url)
	}
}

func TestExtractFromImagesRequiresPages(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := c.ExtractFromImages(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty page set")
	}
}

func TestExtractStripsMarkdownFences(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatReply("```json\n{\"profile\":{\"name\":\"Ada\"}}\n```"))
	})
	raw, err := c.ExtractFromText(context.Background(), "text")
	if err != nil {
		t.Fatalf("ExtractFromText: %v", err)
	}
	if string(raw) != `{"profile":{"name":"Ada"}}` {
		t.Errorf("output = %s", raw)
	}
}

func TestExtractEmptyContent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatReply("   "))
	})
	if _, err := c.ExtractFromText(context.Background(), "text"); !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestExtractMissingChoices(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	})
	if _, err := c.ExtractFromText(context.Background(), "text"); !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestExtractMalformedOutputRetainsRaw(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatReply("Sure! Here is the resume data you asked for."))
	})
	_, err := c.ExtractFromText(context.Background(), "text")

	var malformed *llm.MalformedOutputError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *MalformedOutputError", err)
	}
	if !strings.Contains(malformed.Raw, "Sure!") {
		t.Errorf("Raw = %q", malformed.Raw)
	}
}

func TestExtractProviderError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":{"message":"rate limited","type":"rate_limit_error"}}`)
	})
	_, err := c.ExtractFromText(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("err = %v, want provider error", err)
	}
}

func TestExtractServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream unavailable")
	})
	_, err := c.ExtractFromText(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("err = %v, want 502 status error", err)
	}
}
