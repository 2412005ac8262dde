package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"resume-parser-backend/internal/shared/telemetry"
)

// ConversionError indicates the rasterizer failed outright. It is fatal for the
// job: an empty image set would otherwise masquerade as "nothing to extract".
type ConversionError struct {
	Err    error
	Stderr string
}

func (e *ConversionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("pdf page conversion failed: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("pdf page conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// PageImage is one rendered page, PNG-encoded, in document order.
type PageImage struct {
	Page int
	PNG  []byte
}

// Config controls the external rasterizer invocation.
type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // default 200, enough for legible text recognition
	MaxPages int    // default 3
}

// Renderer converts the leading pages of a PDF into raster images via pdftoppm.
type Renderer struct {
	cfg    Config
	runner Runner
}

// New constructs a Renderer with the exec-backed runner.
func New(cfg Config) *Renderer {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 3
	}
	return &Renderer{cfg: cfg, runner: execRunner{}}
}

// NewWithRunner constructs a Renderer with a caller-supplied runner (tests).
func NewWithRunner(cfg Config, runner Runner) *Renderer {
	r := New(cfg)
	r.runner = runner
	return r
}

// Render rasterizes up to MaxPages leading pages of the PDF at the configured
// DPI. Each invocation gets its own scratch directory, removed on every exit
// path, so concurrent jobs never collide. Fewer pages than the cap is normal
// for short documents; a rasterizer failure is a ConversionError.
func (r *Renderer) Render(ctx context.Context, data []byte) ([]PageImage, error) {
	scratch, err := os.MkdirTemp("", "resume-render-*")
	if err != nil {
		return nil, &ConversionError{Err: fmt.Errorf("scratch dir: %w", err)}
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			telemetry.Warn("render.scratch_cleanup_failed", map[string]any{
				"dir":   scratch,
				"error": rmErr.Error(),
			})
		}
	}()

	inPath := filepath.Join(scratch, "input.pdf")
	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return nil, &ConversionError{Err: fmt.Errorf("write input: %w", err)}
	}

	prefix := filepath.Join(scratch, "page")
	// pdftoppm -r 200 -png -f 1 -l 3 <in.pdf> <scratch/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm,
		"-r", fmt.Sprintf("%d", r.cfg.DPI),
		"-png",
		"-f", "1",
		"-l", fmt.Sprintf("%d", r.cfg.MaxPages),
		inPath, prefix)
	if err != nil {
		return nil, &ConversionError{Err: err, Stderr: truncate(string(errb), 2<<10)}
	}

	pages := collectPages(prefix, r.cfg.MaxPages)
	if len(pages) == 0 {
		return nil, &ConversionError{Err: fmt.Errorf("rasterizer produced no page images")}
	}
	return pages, nil
}

// collectPages probes for the next expected page file and stops at the first
// gap. pdftoppm zero-pads page numbers based on the document's page count, so
// each index is probed across padding widths.
func collectPages(prefix string, maxPages int) []PageImage {
	var out []PageImage
	for page := 1; page <= maxPages; page++ {
		data, ok := readPageFile(prefix, page)
		if !ok {
			break
		}
		out = append(out, PageImage{Page: page, PNG: data})
	}
	return out
}

func readPageFile(prefix string, page int) ([]byte, bool) {
	candidates := []string{
		fmt.Sprintf("%s-%d.png", prefix, page),
		fmt.Sprintf("%s-%02d.png", prefix, page),
		fmt.Sprintf("%s-%03d.png", prefix, page),
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, true
		}
	}
	return nil, false
}
