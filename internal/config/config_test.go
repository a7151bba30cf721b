package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cal := Default()
	require.NoError(t, cal.Validate())
	assert.Equal(t, 4*time.Second, cal.GracePeriod)
	assert.Equal(t, 2, cal.CorrectableError)
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cal, err := Parse([]byte("die_spacing_mm: 10.5\ngrace_period: 3s\nocr_invalid_penalty: 3\n"))
	require.NoError(t, err)

	assert.InDelta(t, 10.5, cal.DieSpacingMM, 1e-9)
	assert.Equal(t, 3*time.Second, cal.GracePeriod)
	assert.Equal(t, 3, cal.OCRInvalidPenalty)
	assert.InDelta(t, Default().DieSizeMM, cal.DieSizeMM, 1e-9)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative size", "die_size_mm: -1\n"},
		{"spacing below size", "die_spacing_mm: 4\n"},
		{"epsilon too wide", "cell_epsilon: 0.6\n"},
		{"penalty out of range", "ocr_invalid_penalty: 300\n"},
		{"not yaml", "die_size_mm: [1, 2\n"},
		{"wrong type", "die_size_mm: large\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alignment_tolerance_mm: 1.5\n"), 0o600))

	cal, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, cal.AlignmentToleranceMM, 1e-9)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.yaml")
	require.NoError(t, os.WriteFile(path, []byte("correctable_error: 1\n"), 0o600))

	t.Setenv(EnvCalibration, path)
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvOCR, "tesseract")

	s, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, s.Debug)
	assert.Equal(t, OCRTesseract, s.OCR)
	assert.Equal(t, 1, s.Calibration.CorrectableError)

	t.Setenv(EnvCalibration, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvOCR, "")
	s, err = FromEnv()
	require.NoError(t, err)
	assert.False(t, s.Debug)
	assert.Equal(t, OCRTemplate, s.OCR)
	assert.Equal(t, Default(), s.Calibration)

	t.Setenv(EnvOCR, "easyocr")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestPixelsPerMM(t *testing.T) {
	cal := Default()
	assert.InDelta(t, 10, cal.PixelsPerMM(65), 1e-9)
}
