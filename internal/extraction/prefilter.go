package extraction

import "unicode/utf8"

// Mode selects which extraction path a document takes.
type Mode string

const (
	ModeText  Mode = "text"
	ModeImage Mode = "image"
)

// SizeClass buckets documents by declared byte length. Informational today,
// but it is the hook point for size-based routing later.
type SizeClass string

const (
	SizeSmall SizeClass = "small"
	SizeLarge SizeClass = "large"
)

const (
	// Documents yielding at most this much text are treated as image-based;
	// scanned or decorative PDFs produce little or no extractable text.
	textModeThreshold = 100

	smallFileThreshold = 4 << 20 // 4MB
)

// Classification is the prefilter's verdict for one document.
type Classification struct {
	Mode      Mode
	SizeClass SizeClass
	TextLen   int
}

// ClassifyDocument decides the extraction mode from already-extracted text
// and the declared byte length. Text extraction failures upstream surface as
// empty text and land in image mode.
func ClassifyDocument(text string, declaredSize int64) Classification {
	// Character count, not bytes: multi-byte scripts must not inflate the
	// measure and route sparse scans away from image mode.
	textLen := utf8.RuneCountInString(text)
	c := Classification{
		Mode:      ModeImage,
		SizeClass: SizeLarge,
		TextLen:   textLen,
	}
	if textLen > textModeThreshold {
		c.Mode = ModeText
	}
	if declaredSize < smallFileThreshold {
		c.SizeClass = SizeSmall
	}
	return c
}
