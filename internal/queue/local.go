package queue

import (
	"context"
	"fmt"
	"sync"

	"resume-parser-backend/internal/shared/telemetry"
)

// Processor handles one job message to completion, including finalizing the
// job record on failure.
type Processor func(ctx context.Context, msg Message) error

// LocalClient dispatches messages to an in-process worker goroutine. It is
// the single-binary deployment's queue: every accepted message is tracked
// until its processor returns, so no job is ever dropped between submit and
// processing.
type LocalClient struct {
	process Processor
	wg      sync.WaitGroup
}

// NewLocalClient constructs a LocalClient around the given processor.
func NewLocalClient(process Processor) (*LocalClient, error) {
	if process == nil {
		return nil, fmt.Errorf("processor is required")
	}
	return &LocalClient{process: process}, nil
}

// Send accepts the message and processes it on a supervised goroutine. The
// worker runs on a detached context so an aborted HTTP request cannot cancel
// a job already accepted.
func (c *LocalClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				telemetry.Error("queue.local_panic", map[string]any{
					"resume_id": msg.ResumeID,
					"panic":     fmt.Sprintf("%v", r),
				})
			}
		}()
		if err := c.process(context.Background(), msg); err != nil {
			telemetry.Error("queue.local_process_failed", map[string]any{
				"resume_id":  msg.ResumeID,
				"request_id": msg.RequestID,
				"error":      err.Error(),
			})
		}
	}()
	return nil
}

// Wait blocks until all accepted messages finish processing.
func (c *LocalClient) Wait() {
	c.wg.Wait()
}

var _ Client = (*LocalClient)(nil)
