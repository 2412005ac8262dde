package extraction

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"resume-parser-backend/internal/llm"
	"resume-parser-backend/internal/render"
	"resume-parser-backend/internal/resumes"
)

func fastRetries(t *testing.T) {
	t.Helper()
	oldBase := storeRetryBase
	storeRetryBase = time.Millisecond
	t.Cleanup(func() { storeRetryBase = oldBase })
}

type transientErr struct{}

func (transientErr) Error() string   { return "dial tcp: connect: connection refused" }
func (transientErr) Timeout() bool   { return false }
func (transientErr) Temporary() bool { return true }

var _ net.Error = transientErr{}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	fastRetries(t)

	calls := 0
	err := retryStoreUpdate(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return transientErr{}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryExhaustsAfterThreeAttempts(t *testing.T) {
	fastRetries(t)

	calls := 0
	err := retryStoreUpdate(context.Background(), func(ctx context.Context) error {
		calls++
		return transientErr{}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryDoesNotRetryPermanentErrors(t *testing.T) {
	fastRetries(t)

	permanent := errors.New("violates check constraint")
	calls := 0
	err := retryStoreUpdate(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetryDoesNotRetryTerminalStatusGuard(t *testing.T) {
	fastRetries(t)

	calls := 0
	err := retryStoreUpdate(context.Background(), func(ctx context.Context) error {
		calls++
		return resumes.ErrTerminalStatus
	})
	if !errors.Is(err, resumes.ErrTerminalStatus) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestIsTransientStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "net error", err: transientErr{}, want: true},
		{name: "connection reset", err: errors.New("read: connection reset by peer"), want: true},
		{name: "broken pipe", err: errors.New("write: broken pipe"), want: true},
		{name: "io timeout", err: errors.New("i/o timeout"), want: true},
		{name: "constraint violation", err: errors.New("duplicate key value"), want: false},
		{name: "not found", err: resumes.ErrNotFound, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransientStoreError(tt.err); got != tt.want {
				t.Fatalf("isTransientStoreError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "conversion", err: &render.ConversionError{Err: errors.New("exit 1")}, want: KindConversionError},
		{name: "empty response", err: llm.ErrEmptyResponse, want: KindEmptyModelResponse},
		{name: "malformed output", err: &llm.MalformedOutputError{Raw: "nope", Err: errors.New("bad json")}, want: KindMalformedModelOutput},
		{name: "schema", err: &SchemaValidationError{Err: errors.New("month out of range")}, want: KindSchemaValidation},
		{name: "configuration", err: &llm.ConfigurationError{Field: "OPENAI_API_KEY"}, want: KindConfiguration},
		{name: "deadline", err: context.DeadlineExceeded, want: KindTimeout},
		{name: "other", err: errors.New("mystery"), want: KindInternal},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}
