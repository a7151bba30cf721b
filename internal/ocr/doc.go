// Package ocr recognises the single letter or digit printed on a die face.
//
// A Recognizer receives one upright, binarized glyph and the alphabet it may
// belong to, and returns every plausible character ranked best first with
// an error score (lower is better). The face assembler only looks at the
// first two candidates.
//
// # Backends
//
// TemplateMatcher compares the glyph pixel by pixel against bitmaps of the
// DiceKey alphabet rendered from golang.org/x/image/font/basicfont. It has
// no native dependencies and is the default.
//
// Tesseract wraps the Tesseract engine via gosseract/v2 and is only
// compiled with the "tesseract" build tag:
//
//	go build -tags tesseract ./...
//
// Tesseract and its English language data must then be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Without the tag NewTesseract returns ErrTesseractNotEnabled.
package ocr
