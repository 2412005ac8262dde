package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"resume-parser-backend/internal/shared/telemetry"
)

// Extract pulls plain text from a PDF payload using github.com/ledongthuc/pdf.
// It never fails: any parse error (corrupt xref, encrypted stream, malformed
// content) degrades to empty text so the caller can fall back to image mode.
func Extract(data []byte) string {
	text, err := extract(data)
	if err != nil {
		telemetry.Warn("pdftext.extract_failed", map[string]any{
			"size_bytes": len(data),
			"error":      err.Error(),
		})
		return ""
	}
	return strings.TrimSpace(text)
}

func extract(data []byte) (text string, err error) {
	// The pdf library panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	if len(data) == 0 {
		return "", fmt.Errorf("empty pdf data")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
