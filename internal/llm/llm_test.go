package llm

import (
	"errors"
	"testing"
)

func TestDecodeObjectStripsFences(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bare object", content: `{"profile":{"name":"Ada"}}`},
		{name: "json fence", content: "```json\n{\"profile\":{\"name\":\"Ada\"}}\n```"},
		{name: "plain fence", content: "```\n{\"profile\":{\"name\":\"Ada\"}}\n```"},
		{name: "fence no newline", content: "```json{\"profile\":{\"name\":\"Ada\"}}```"},
		{name: "surrounding whitespace", content: "  \n{\"profile\":{\"name\":\"Ada\"}}\n  "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			raw, err := DecodeObject(tt.content)
			if err != nil {
				t.Fatalf("DecodeObject: %v", err)
			}
			if string(raw) != `{"profile":{"name":"Ada"}}` {
				t.Fatalf("decoded = %s", raw)
			}
		})
	}
}

func TestDecodeObjectEmpty(t *testing.T) {
	for _, content := range []string{"", "   ", "```json\n```", "```\n\n```"} {
		if _, err := DecodeObject(content); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("DecodeObject(%q) err = %v, want ErrEmptyResponse", content, err)
		}
	}
}

func TestDecodeObjectMalformedRetainsRaw(t *testing.T) {
	content := "```json\n{\"profile\": incomplete\n```"
	_, err := DecodeObject(content)

	var malformed *MalformedOutputError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *MalformedOutputError", err)
	}
	if malformed.Raw != content {
		t.Errorf("Raw = %q, want original content", malformed.Raw)
	}
	if malformed.Err == nil {
		t.Error("wrapped parse error missing")
	}
}

func TestDecodeObjectRejectsNonObject(t *testing.T) {
	for _, content := range []string{`[1,2,3]`, `"just a string"`, `42`, `null`, "```json\nnull\n```", `Sure, here is the JSON:`} {
		var malformed *MalformedOutputError
		if _, err := DecodeObject(content); !errors.As(err, &malformed) {
			t.Errorf("DecodeObject(%q) err = %v, want *MalformedOutputError", content, err)
		}
	}
}

func TestStripFencesIdempotent(t *testing.T) {
	content := "```json\n{\"a\":1}\n```"
	once := StripFences(content)
	twice := StripFences(once)
	if once != twice {
		t.Errorf("StripFences not idempotent: %q vs %q", once, twice)
	}
}
