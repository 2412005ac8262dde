package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"resume-parser-backend/internal/queue"
)

// Processor drives one extraction job to a terminal status.
type Processor interface {
	Process(ctx context.Context, resumeID, requestID string) error
}

// MessageMeta captures payload details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingResumeID indicates a message without a resume id.
type ErrMissingResumeID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingResumeID) Error() string { return "missing resume id" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	ResumeID  string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process resume"
	}
	return "process resume: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.ResumeID) == "" {
		return msg, meta, ErrMissingResumeID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// HandleMessage parses, validates, and processes a message payload.
func HandleMessage(ctx context.Context, processor Processor, body string) error {
	if processor == nil {
		return errors.New("extraction processor not configured")
	}

	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}

	if err := processor.Process(ctx, msg.ResumeID, msg.RequestID); err != nil {
		return ErrProcess{ResumeID: msg.ResumeID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
