// Package config holds the physical calibration of a DiceKey and the
// tolerances the reader applies when fitting detections to it.
//
// Defaults are built in. A YAML calibration file may override any subset
// of them:
//
//	die_spacing_mm: 10.2
//	alignment_tolerance_mm: 1.2
//	grace_period: 3s
//
// The environment variable DICEKEY_CALIBRATION names such a file,
// DICEKEY_LOG_LEVEL=debug turns on debug logging and DICEKEY_OCR picks the
// glyph recognizer.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvCalibration = "DICEKEY_CALIBRATION"
	EnvLogLevel    = "DICEKEY_LOG_LEVEL"
	EnvOCR         = "DICEKEY_OCR"
)

// OCR backends selectable with DICEKEY_OCR.
const (
	OCRTemplate  = "template"
	OCRTesseract = "tesseract"
)

// Calibration describes the printed key and the reader's tolerances.
// Lengths are in millimetres on the physical key.
type Calibration struct {
	// DieSizeMM is the width of one die face.
	DieSizeMM float64 `yaml:"die_size_mm"`

	// DieSpacingMM is the distance between the centers of adjacent dice.
	DieSpacingMM float64 `yaml:"die_spacing_mm"`

	// UndoverlineLengthMM is the printed length of an underline or overline,
	// margins included. The pixel scale of a frame is estimated from it.
	UndoverlineLengthMM float64 `yaml:"undoverline_length_mm"`

	// UndoverlineOffsetMM is the distance from a die's center to the center
	// of its underline (below) or overline (above).
	UndoverlineOffsetMM float64 `yaml:"undoverline_offset_mm"`

	// TextWidthMM and TextHeightMM bound the letter and digit printed
	// between the lines.
	TextWidthMM  float64 `yaml:"text_width_mm"`
	TextHeightMM float64 `yaml:"text_height_mm"`

	// AlignmentToleranceMM is how far a die center may sit from a row or
	// column line and still count as a member of it.
	AlignmentToleranceMM float64 `yaml:"alignment_tolerance_mm"`

	// PairingToleranceMM is how close the die centers implied by an
	// underline and an overline must be for the two to belong to one die.
	PairingToleranceMM float64 `yaml:"pairing_tolerance_mm"`

	// StepTolerance (fraction) and StepTolerancePixels bound how far a
	// single row or column step may differ from the mean step.
	StepTolerance       float64 `yaml:"step_tolerance"`
	StepTolerancePixels float64 `yaml:"step_tolerance_pixels"`

	// CellEpsilon is how far, in cells, a point may sit from a lattice
	// position and still be assigned to it.
	CellEpsilon float64 `yaml:"cell_epsilon"`

	// Error penalties charged by the face assembler.
	OCRSecondChoicePenalty    int `yaml:"ocr_second_choice_penalty"`
	OCRInvalidPenalty         int `yaml:"ocr_invalid_penalty"`
	MissingUndoverlinePenalty int `yaml:"missing_undoverline_penalty"`

	// CorrectableError is the largest single-face error a scan may finish
	// with once GracePeriod has passed without improvement.
	CorrectableError int           `yaml:"correctable_error"`
	GracePeriod      time.Duration `yaml:"grace_period"`
}

// Default returns the built-in calibration.
func Default() Calibration {
	return Calibration{
		DieSizeMM:                 8,
		DieSpacingMM:              10,
		UndoverlineLengthMM:       6.5,
		UndoverlineOffsetMM:       2.6,
		TextWidthMM:               6,
		TextHeightMM:              3.4,
		AlignmentToleranceMM:      1,
		PairingToleranceMM:        1,
		StepTolerance:             0.05,
		StepTolerancePixels:       2,
		CellEpsilon:               0.3,
		OCRSecondChoicePenalty:    1,
		OCRInvalidPenalty:         2,
		MissingUndoverlinePenalty: 2,
		CorrectableError:          2,
		GracePeriod:               4000 * time.Millisecond,
	}
}

// Load reads a YAML calibration file and overlays it on Default.
func Load(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Calibration{}, fmt.Errorf("failed to read calibration: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML calibration data and overlays it on Default.
func Parse(data []byte) (Calibration, error) {
	cal := Default()
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return Calibration{}, fmt.Errorf("failed to parse calibration: %w", err)
	}
	if err := cal.Validate(); err != nil {
		return Calibration{}, err
	}
	return cal, nil
}

// Validate checks that every value is usable.
func (c Calibration) Validate() error {
	var errs []error
	positive := map[string]float64{
		"die_size_mm":            c.DieSizeMM,
		"die_spacing_mm":         c.DieSpacingMM,
		"undoverline_length_mm":  c.UndoverlineLengthMM,
		"undoverline_offset_mm":  c.UndoverlineOffsetMM,
		"text_width_mm":          c.TextWidthMM,
		"text_height_mm":         c.TextHeightMM,
		"alignment_tolerance_mm": c.AlignmentToleranceMM,
		"pairing_tolerance_mm":   c.PairingToleranceMM,
	}
	for _, name := range sortedKeys(positive) {
		if positive[name] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", name, positive[name]))
		}
	}
	if c.DieSpacingMM < c.DieSizeMM {
		errs = append(errs, fmt.Errorf("die_spacing_mm %g is smaller than die_size_mm %g", c.DieSpacingMM, c.DieSizeMM))
	}
	if c.StepTolerance < 0 || c.StepTolerance >= 1 {
		errs = append(errs, fmt.Errorf("step_tolerance must be in [0,1), got %g", c.StepTolerance))
	}
	if c.StepTolerancePixels < 0 {
		errs = append(errs, fmt.Errorf("step_tolerance_pixels must not be negative, got %g", c.StepTolerancePixels))
	}
	if c.CellEpsilon <= 0 || c.CellEpsilon >= 0.5 {
		errs = append(errs, fmt.Errorf("cell_epsilon must be in (0,0.5), got %g", c.CellEpsilon))
	}
	penalties := map[string]int{
		"ocr_second_choice_penalty":   c.OCRSecondChoicePenalty,
		"ocr_invalid_penalty":         c.OCRInvalidPenalty,
		"missing_undoverline_penalty": c.MissingUndoverlinePenalty,
		"correctable_error":           c.CorrectableError,
	}
	for _, name := range sortedKeys(penalties) {
		if v := penalties[name]; v < 0 || v >= 255 {
			errs = append(errs, fmt.Errorf("%s must be in [0,255), got %d", name, v))
		}
	}
	if c.GracePeriod < 0 {
		errs = append(errs, fmt.Errorf("grace_period must not be negative, got %v", c.GracePeriod))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid calibration: %w", errors.Join(errs...))
	}
	return nil
}

// Settings is the process configuration assembled from the environment.
type Settings struct {
	Calibration Calibration
	Debug       bool
	// OCR is OCRTemplate or OCRTesseract.
	OCR string
}

// FromEnv builds Settings from DICEKEY_CALIBRATION, DICEKEY_LOG_LEVEL and
// DICEKEY_OCR.
func FromEnv() (Settings, error) {
	s := Settings{
		Calibration: Default(),
		Debug:       os.Getenv(EnvLogLevel) == "debug",
		OCR:         OCRTemplate,
	}
	switch ocr := os.Getenv(EnvOCR); ocr {
	case "", OCRTemplate:
	case OCRTesseract:
		s.OCR = OCRTesseract
	default:
		return Settings{}, fmt.Errorf("%s must be %q or %q, got %q", EnvOCR, OCRTemplate, OCRTesseract, ocr)
	}
	if path := os.Getenv(EnvCalibration); path != "" {
		cal, err := Load(path)
		if err != nil {
			return Settings{}, err
		}
		s.Calibration = cal
	}
	return s, nil
}

// PixelsPerMM returns the pixel scale implied by an undoverline measured at
// lengthPixels.
func (c Calibration) PixelsPerMM(lengthPixels float64) float64 {
	return lengthPixels / c.UndoverlineLengthMM
}
