package reader

import (
	"github.com/ironsheep/dicekey-reader/internal/config"
	"github.com/ironsheep/dicekey-reader/internal/dicekey"
	"github.com/ironsheep/dicekey-reader/internal/ocr"
	"github.com/ironsheep/dicekey-reader/internal/undoverline"
)

// FaceReading holds the independent readings of one die.
type FaceReading struct {
	Underline *undoverline.Reading
	Overline  *undoverline.Reading
	// Letters and Digits are the OCR candidates, best first.
	Letters []ocr.Candidate
	Digits  []ocr.Candidate
	// Orientation is the face's clockwise quarter-turns relative to the
	// grid.
	Orientation int
}

// Majority returns the value held by at least two of a, b and c, or zero.
// Zero never counts as a vote.
func Majority(a, b, c byte) byte {
	switch {
	case a != 0 && (a == b || a == c):
		return a
	case b != 0 && b == c:
		return b
	}
	return 0
}

// AssembleFace reconciles the readings of a die into a face.
//
// The letter and digit are each the majority of the underline, the overline
// and the best OCR candidate. The error is decided in order:
//
//   - no OCR candidates: the maximum error;
//   - both bars name the same face: the OCR penalties, a smaller one when
//     the expected character was the second candidate;
//   - the underline agrees with OCR: the overline is wrong by the Hamming
//     distance between the code it should carry and the code read, or by
//     the missing-bar penalty when it was not found;
//   - the overline agrees with OCR: the same, for the underline;
//   - otherwise the maximum error.
func AssembleFace(in FaceReading, cal config.Calibration) dicekey.Face {
	ocrLetter, ocrDigit := best(in.Letters), best(in.Digits)
	var uL, uD, oL, oD byte
	if in.Underline != nil {
		uL, uD = in.Underline.Letter(), in.Underline.Digit()
	}
	if in.Overline != nil {
		oL, oD = in.Overline.Letter(), in.Overline.Digit()
	}

	face := dicekey.Face{
		Letter:      Majority(uL, oL, ocrLetter),
		Digit:       Majority(uD, oD, ocrDigit),
		Orientation: in.Orientation,
	}

	switch {
	case len(in.Letters) == 0 && len(in.Digits) == 0:
		face.Error = dicekey.MaxError

	case in.Underline != nil && in.Overline != nil && in.Underline.Spec == in.Overline.Spec:
		spec := in.Underline.Spec
		lm := penalty(in.Letters, spec.Letter, cal)
		dm := penalty(in.Digits, spec.Digit, cal)
		face.Error.Magnitude = lm + dm
		if lm > 0 {
			face.Error.Location |= dicekey.LocationOCRLetter
		}
		if dm > 0 {
			face.Error.Location |= dicekey.LocationOCRDigit
		}

	case in.Underline != nil && uL == ocrLetter && uD == ocrDigit:
		face.Error = dicekey.FaceError{Location: dicekey.LocationOverline, Magnitude: cal.MissingUndoverlinePenalty}
		if in.Overline != nil {
			face.Error.Magnitude = dicekey.HammingDistance(in.Underline.Spec.OverlineCode, in.Overline.Code)
		}

	case in.Overline != nil && oL == ocrLetter && oD == ocrDigit:
		face.Error = dicekey.FaceError{Location: dicekey.LocationUnderline, Magnitude: cal.MissingUndoverlinePenalty}
		if in.Underline != nil {
			face.Error.Magnitude = dicekey.HammingDistance(in.Overline.Spec.UnderlineCode, in.Underline.Code)
		}

	default:
		face.Error = dicekey.MaxError
	}
	return face
}

// penalty charges an OCR channel for not ranking want first.
func penalty(candidates []ocr.Candidate, want byte, cal config.Calibration) int {
	switch {
	case len(candidates) > 0 && candidates[0].Character == want:
		return 0
	case len(candidates) > 1 && candidates[1].Character == want:
		return cal.OCRSecondChoicePenalty
	}
	return cal.OCRInvalidPenalty
}

func best(candidates []ocr.Candidate) byte {
	if len(candidates) == 0 {
		return 0
	}
	return candidates[0].Character
}
