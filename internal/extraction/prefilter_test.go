package extraction

import (
	"strings"
	"testing"
)

func TestClassifyDocumentModeThreshold(t *testing.T) {
	tests := []struct {
		name    string
		char    string
		textLen int
		want    Mode
	}{
		{name: "empty", char: "a", textLen: 0, want: ModeImage},
		{name: "just under", char: "a", textLen: 99, want: ModeImage},
		{name: "at threshold", char: "a", textLen: 100, want: ModeImage},
		{name: "just over", char: "a", textLen: 101, want: ModeText},
		{name: "long", char: "a", textLen: 5000, want: ModeText},
		// Multi-byte scripts count characters, not bytes: 60 Cyrillic
		// characters are 120 bytes yet stay below the threshold.
		{name: "cyrillic under threshold", char: "д", textLen: 60, want: ModeImage},
		{name: "cyrillic at threshold", char: "д", textLen: 100, want: ModeImage},
		{name: "cyrillic over threshold", char: "д", textLen: 101, want: ModeText},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cls := ClassifyDocument(strings.Repeat(tt.char, tt.textLen), 1024)
			if cls.Mode != tt.want {
				t.Fatalf("mode = %q, want %q", cls.Mode, tt.want)
			}
			if cls.TextLen != tt.textLen {
				t.Fatalf("textLen = %d, want %d", cls.TextLen, tt.textLen)
			}
		})
	}
}

func TestClassifyDocumentSizeClass(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want SizeClass
	}{
		{name: "tiny", size: 10, want: SizeSmall},
		{name: "just under 4MB", size: 4<<20 - 1, want: SizeSmall},
		{name: "exactly 4MB", size: 4 << 20, want: SizeLarge},
		{name: "large", size: 20 << 20, want: SizeLarge},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if cls := ClassifyDocument("", tt.size); cls.SizeClass != tt.want {
				t.Fatalf("sizeClass = %q, want %q", cls.SizeClass, tt.want)
			}
		})
	}
}

func TestSizeClassDoesNotAffectMode(t *testing.T) {
	long := strings.Repeat("x", 200)
	small := ClassifyDocument(long, 10)
	large := ClassifyDocument(long, 50<<20)
	if small.Mode != large.Mode {
		t.Fatalf("mode differs by size: %q vs %q", small.Mode, large.Mode)
	}
}
