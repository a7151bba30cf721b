//go:build tesseract

package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// ErrTesseractNotEnabled is only returned by builds without the tesseract tag.
var ErrTesseractNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags tesseract")

// Tesseract recognises glyphs with the Tesseract engine in single-character
// mode. One client is shared by all calls, so Recognize serialises them.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseract creates a client for language (for example "eng").
// The client should be closed when no longer needed.
func NewTesseract(language string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	return &Tesseract{client: client}, nil
}

// Close releases the Tesseract client.
func (t *Tesseract) Close() error {
	if t == nil || t.client == nil {
		return nil
	}
	return t.client.Close()
}

// Version returns the engine version.
func (t *Tesseract) Version() string {
	return t.client.Version()
}

// Recognize implements Recognizer. Tesseract reports only its best guess,
// so at most one candidate is returned; its Error is one minus the
// engine's confidence.
func (t *Tesseract) Recognize(glyph image.Image, alphabet string) ([]Candidate, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, glyph); err != nil {
		return nil, fmt.Errorf("failed to encode glyph: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetWhitelist(alphabet); err != nil {
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := t.client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" || !strings.ContainsRune(alphabet, rune(text[0])) {
		return nil, nil
	}

	confidence := 0.0
	if boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_SYMBOL); err == nil && len(boxes) > 0 {
		confidence = float64(boxes[0].Confidence) / 100
	}
	return []Candidate{{Character: text[0], Error: 1 - confidence}}, nil
}
