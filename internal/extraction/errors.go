package extraction

import (
	"context"
	"errors"
	"strings"

	"resume-parser-backend/internal/llm"
	"resume-parser-backend/internal/render"
)

// Error kinds persisted in failure diagnostics. Stable identifiers: clients
// and dashboards key off them.
const (
	KindConversionError      = "conversion_error"
	KindEmptyModelResponse   = "empty_model_response"
	KindMalformedModelOutput = "malformed_model_output"
	KindSchemaValidation     = "schema_validation_error"
	KindConfiguration        = "configuration_error"
	KindTimeout              = "timeout"
	KindStoreError           = "store_error"
	KindPanic                = "panic"
	KindInternal             = "internal_error"
)

// Classify maps a pipeline error to its diagnostic kind.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var convErr *render.ConversionError
	if errors.As(err, &convErr) {
		return KindConversionError
	}
	if errors.Is(err, llm.ErrEmptyResponse) {
		return KindEmptyModelResponse
	}
	var malformed *llm.MalformedOutputError
	if errors.As(err, &malformed) {
		return KindMalformedModelOutput
	}
	var schemaErr *SchemaValidationError
	if errors.As(err, &schemaErr) {
		return KindSchemaValidation
	}
	var confErr *llm.ConfigurationError
	if errors.As(err, &confErr) {
		return KindConfiguration
	}
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return KindTimeout
	}
	return KindInternal
}

// sanitizeMessage flattens an error message to a single bounded line fit for
// a persisted diagnostic.
func sanitizeMessage(err error) string {
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	if len(msg) > 500 {
		msg = msg[:500]
	}
	return msg
}
