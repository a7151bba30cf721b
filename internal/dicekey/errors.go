package dicekey

import (
	"errors"
	"fmt"
)

// Error kinds reported by the reading pipeline. Only
// ErrMalformedHumanReadableForm is returned to callers as a hard failure;
// the others describe per-frame misreads that the scanning loop recovers
// from by waiting for the next frame.
var (
	// ErrDecodeInvalid marks an undoverline whose bit pattern fails the
	// direction-marker or code-table check.
	ErrDecodeInvalid = errors.New("undoverline pattern is not a valid code")

	// ErrGridNotFound means no die could anchor a 5×5 lattice.
	ErrGridNotFound = errors.New("no 5x5 grid found among detected dice")

	// ErrFaceUnreadable marks a cell with no undoverline or no OCR result.
	ErrFaceUnreadable = errors.New("face could not be read")

	// ErrNonUniqueLetters means a letter was read on more than one die.
	ErrNonUniqueLetters = errors.New("letters are not unique across the key")

	// ErrMalformedHumanReadableForm is returned for a human-readable form of
	// the wrong length or containing characters outside the alphabet.
	ErrMalformedHumanReadableForm = errors.New("malformed human-readable form")
)

// FormError locates the problem in a malformed human-readable form.
type FormError struct {
	Position int
	Reason   string
}

func (e *FormError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("%v: %s", ErrMalformedHumanReadableForm, e.Reason)
	}
	return fmt.Sprintf("%v: position %d: %s", ErrMalformedHumanReadableForm, e.Position, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformedHumanReadableForm).
func (e *FormError) Unwrap() error { return ErrMalformedHumanReadableForm }
