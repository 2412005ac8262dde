package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Client abstracts the model provider behind the two extraction entry points.
// Both return the model's output as a decoded JSON object, never raw prose.
type Client interface {
	// ExtractFromText runs text-mode extraction over the resume's plain text.
	ExtractFromText(ctx context.Context, resumeText string) (json.RawMessage, error)
	// ExtractFromImages runs vision-mode extraction over rendered page images
	// (PNG bytes, document order), all pages in a single request.
	ExtractFromImages(ctx context.Context, pages [][]byte) (json.RawMessage, error)
}

// ConfigurationError reports missing provider configuration. It is raised at
// construction time so a misconfigured deployment fails on startup, not on the
// first job.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("llm configuration: %s is required", e.Field)
}

// PlaceholderClient stands in when no provider is configured in dev. Every
// call fails with a ConfigurationError so jobs finalize instead of hanging.
type PlaceholderClient struct{}

func (PlaceholderClient) ExtractFromText(ctx context.Context, resumeText string) (json.RawMessage, error) {
	return nil, &ConfigurationError{Field: "OPENAI_API_KEY"}
}

func (PlaceholderClient) ExtractFromImages(ctx context.Context, pages [][]byte) (json.RawMessage, error) {
	return nil, &ConfigurationError{Field: "OPENAI_API_KEY"}
}

var _ Client = PlaceholderClient{}

// ErrEmptyResponse means the provider answered but carried no content.
var ErrEmptyResponse = errors.New("empty model response")

// MalformedOutputError means the model's content was not a parseable JSON
// object. Raw keeps the original content for diagnostics.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// DecodeObject strips markdown code fences from model content and parses the
// remainder as a JSON object. Models wrap JSON in ```json fences often enough
// that stripping is unconditional; content without fences passes through
// unchanged.
func DecodeObject(content string) (json.RawMessage, error) {
	cleaned := StripFences(content)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, &MalformedOutputError{Raw: content, Err: err}
	}
	// A literal null unmarshals into a nil map without error; the contract is
	// an object or a hard failure.
	if probe == nil {
		return nil, &MalformedOutputError{Raw: content, Err: errors.New("expected a JSON object, got null")}
	}
	return json.RawMessage(cleaned), nil
}

// StripFences removes ```json and ``` markers anywhere in the content and
// trims surrounding whitespace. Applying it to unfenced content is a no-op.
func StripFences(content string) string {
	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
