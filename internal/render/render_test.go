package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

// scriptedRunner fakes pdftoppm by dropping page files into the scratch dir
// it finds in the command arguments.
type scriptedRunner struct {
	pages   int
	pad     string
	fail    error
	stderr  string
	lastCmd []string
}

func (s *scriptedRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.lastCmd = append([]string{name}, args...)
	if s.fail != nil {
		return nil, []byte(s.stderr), s.fail
	}
	prefix := args[len(args)-1]
	for i := 1; i <= s.pages; i++ {
		path := fmt.Sprintf("%s-%s.png", prefix, fmt.Sprintf(s.pad, i))
		if err := os.WriteFile(path, []byte(fmt.Sprintf("png-%d", i)), 0o600); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func TestRenderCollectsPagesInOrder(t *testing.T) {
	runner := &scriptedRunner{pages: 3, pad: "%d"}
	r := NewWithRunner(Config{}, runner)

	pages, err := r.Render(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(pages))
	}
	for i, p := range pages {
		if p.Page != i+1 {
			t.Errorf("page[%d].Page = %d, want %d", i, p.Page, i+1)
		}
		if want := fmt.Sprintf("png-%d", i+1); string(p.PNG) != want {
			t.Errorf("page[%d].PNG = %q, want %q", i, p.PNG, want)
		}
	}
}

func TestRenderHandlesZeroPaddedPageNames(t *testing.T) {
	runner := &scriptedRunner{pages: 2, pad: "%02d"}
	r := NewWithRunner(Config{}, runner)

	pages, err := r.Render(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
}

func TestRenderShortDocumentStopsAtFirstGap(t *testing.T) {
	runner := &scriptedRunner{pages: 1, pad: "%d"}
	r := NewWithRunner(Config{MaxPages: 3}, runner)

	pages, err := r.Render(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
}

func TestRenderCommandFailureIsConversionError(t *testing.T) {
	runner := &scriptedRunner{fail: errors.New("exit status 1"), stderr: "Syntax Error: broken xref"}
	r := NewWithRunner(Config{}, runner)

	_, err := r.Render(context.Background(), []byte("not a pdf"))
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("err = %v, want *ConversionError", err)
	}
	if !strings.Contains(convErr.Stderr, "broken xref") {
		t.Errorf("stderr not retained: %q", convErr.Stderr)
	}
}

func TestRenderNoOutputIsConversionError(t *testing.T) {
	runner := &scriptedRunner{pages: 0}
	r := NewWithRunner(Config{}, runner)

	_, err := r.Render(context.Background(), []byte("%PDF-1.4"))
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("err = %v, want *ConversionError", err)
	}
}

func TestRenderPassesConfiguredFlags(t *testing.T) {
	runner := &scriptedRunner{pages: 1, pad: "%d"}
	r := NewWithRunner(Config{DPI: 150, MaxPages: 2, Pdftoppm: "/usr/bin/pdftoppm"}, runner)

	if _, err := r.Render(context.Background(), []byte("%PDF-1.4")); err != nil {
		t.Fatalf("render: %v", err)
	}
	cmd := strings.Join(runner.lastCmd, " ")
	if !strings.HasPrefix(cmd, "/usr/bin/pdftoppm -r 150 -png -f 1 -l 2 ") {
		t.Errorf("unexpected command: %s", cmd)
	}
}

func TestRenderCleansScratchDir(t *testing.T) {
	runner := &scriptedRunner{pages: 1, pad: "%d"}
	r := NewWithRunner(Config{}, runner)

	if _, err := r.Render(context.Background(), []byte("%PDF-1.4")); err != nil {
		t.Fatalf("render: %v", err)
	}
	prefix := runner.lastCmd[len(runner.lastCmd)-1]
	if _, err := os.Stat(prefix + "-1.png"); !os.IsNotExist(err) {
		t.Errorf("scratch dir not removed, page file still present")
	}
}
