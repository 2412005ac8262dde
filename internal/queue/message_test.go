package queue

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		ResumeID:   "resume-123",
		RequestID:  "request-456",
		EnqueuedAt: "2026-08-30T22:00:00Z",
		Version:    MessageVersion,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

func TestDecodeMessageRejectsMalformed(t *testing.T) {
	if _, err := DecodeMessage([]byte(`{"resumeId":`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLocalClientProcessesEveryMessage(t *testing.T) {
	var processed atomic.Int32
	client, err := NewLocalClient(func(ctx context.Context, msg Message) error {
		processed.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("NewLocalClient: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := client.Send(context.Background(), Message{ResumeID: "r", Version: MessageVersion}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	client.Wait()

	if got := processed.Load(); got != 5 {
		t.Fatalf("processed = %d, want 5", got)
	}
}

func TestLocalClientSurvivesProcessorPanic(t *testing.T) {
	client, err := NewLocalClient(func(ctx context.Context, msg Message) error {
		panic("boom")
	})
	if err != nil {
		t.Fatalf("NewLocalClient: %v", err)
	}
	if err := client.Send(context.Background(), Message{ResumeID: "r"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	client.Wait()
}

func TestLocalClientRequiresProcessor(t *testing.T) {
	if _, err := NewLocalClient(nil); err == nil {
		t.Fatal("expected error for nil processor")
	}
}

func TestLocalClientRejectsCancelledContext(t *testing.T) {
	client, _ := NewLocalClient(func(ctx context.Context, msg Message) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.Send(ctx, Message{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
