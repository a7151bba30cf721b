//go:build !tesseract

package ocr

import (
	"errors"
	"image"
	"testing"
)

func TestNewTesseractReturnsError(t *testing.T) {
	client, err := NewTesseract("eng")
	if !errors.Is(err, ErrTesseractNotEnabled) {
		t.Errorf("Expected ErrTesseractNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when tesseract is disabled")
	}
}

func TestStubRecognize(t *testing.T) {
	var client *Tesseract
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
	if _, err := client.Recognize(image.NewGray(image.Rect(0, 0, 4, 4)), "AB"); !errors.Is(err, ErrTesseractNotEnabled) {
		t.Errorf("Expected ErrTesseractNotEnabled, got: %v", err)
	}
}
