//go:build !tesseract

package ocr

import (
	"errors"
	"image"
)

// ErrTesseractNotEnabled is returned when Tesseract support was not compiled
// in. Rebuild with -tags tesseract to enable it.
var ErrTesseractNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags tesseract")

// Tesseract is unavailable in this build.
type Tesseract struct{}

// NewTesseract always returns ErrTesseractNotEnabled in this build.
func NewTesseract(language string) (*Tesseract, error) {
	return nil, ErrTesseractNotEnabled
}

// Close is a no-op.
func (t *Tesseract) Close() error { return nil }

// Version returns an empty string.
func (t *Tesseract) Version() string { return "" }

// Recognize always returns ErrTesseractNotEnabled.
func (t *Tesseract) Recognize(glyph image.Image, alphabet string) ([]Candidate, error) {
	return nil, ErrTesseractNotEnabled
}
