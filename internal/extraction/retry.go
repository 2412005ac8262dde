package extraction

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"time"
)

var (
	storeRetryAttempts = 3
	storeRetryBase     = 2 * time.Second
)

// retryStoreUpdate runs fn up to storeRetryAttempts times with delays
// doubling from storeRetryBase, retrying only transient connectivity
// failures. Permanent errors (a terminal-status guard, a constraint
// violation) return immediately; retrying cannot fix them.
func retryStoreUpdate(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	delay := storeRetryBase
	for attempt := 1; attempt <= storeRetryAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !isTransientStoreError(err) {
			return err
		}
		if attempt == storeRetryAttempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return err
}

// isTransientStoreError reports whether a job-store error looks like a
// connectivity blip worth retrying.
func isTransientStoreError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"i/o timeout",
		"too many connections",
		"connection timed out",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
