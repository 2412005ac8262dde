package workerproc

import (
	"context"
	"errors"
	"testing"
)

type fakeProcessor struct {
	resumeID  string
	requestID string
	err       error
}

func (f *fakeProcessor) Process(ctx context.Context, resumeID, requestID string) error {
	f.resumeID = resumeID
	f.requestID = requestID
	return f.err
}

func TestParseMessage(t *testing.T) {
	msg, meta, err := ParseMessage(`{"resumeId":"r-1","requestId":"req-1","version":1}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if msg.ResumeID != "r-1" || msg.RequestID != "req-1" {
		t.Fatalf("msg = %+v", msg)
	}
	if meta.BodyLen == 0 || meta.BodySHA == "" {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestParseMessageEmptyBody(t *testing.T) {
	var emptyErr ErrEmptyBody
	if _, _, err := ParseMessage("   "); !errors.As(err, &emptyErr) {
		t.Fatalf("err = %v, want ErrEmptyBody", err)
	}
}

func TestParseMessageBadJSON(t *testing.T) {
	var decodeErr ErrDecode
	if _, _, err := ParseMessage(`{"resumeId":`); !errors.As(err, &decodeErr) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}

func TestParseMessageMissingResumeID(t *testing.T) {
	var missingErr ErrMissingResumeID
	_, _, err := ParseMessage(`{"requestId":"req-1","version":1}`)
	if !errors.As(err, &missingErr) {
		t.Fatalf("err = %v, want ErrMissingResumeID", err)
	}
	if missingErr.RequestID != "req-1" {
		t.Fatalf("requestID = %q", missingErr.RequestID)
	}
}

func TestHandleMessageInvokesProcessor(t *testing.T) {
	proc := &fakeProcessor{}
	if err := HandleMessage(context.Background(), proc, `{"resumeId":"r-1","requestId":"req-1","version":1}`); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if proc.resumeID != "r-1" || proc.requestID != "req-1" {
		t.Fatalf("processor got %q/%q", proc.resumeID, proc.requestID)
	}
}

func TestHandleMessageWrapsProcessorError(t *testing.T) {
	cause := errors.New("pipeline exploded")
	proc := &fakeProcessor{err: cause}

	err := HandleMessage(context.Background(), proc, `{"resumeId":"r-1","version":1}`)
	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("err = %v, want ErrProcess", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not wrapped")
	}
}

func TestHandleMessageNilProcessor(t *testing.T) {
	if err := HandleMessage(context.Background(), nil, `{"resumeId":"r-1"}`); err == nil {
		t.Fatal("expected error for nil processor")
	}
}
