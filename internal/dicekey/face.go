package dicekey

// MaxErrorMagnitude is the error of a face that could not be read at all.
const MaxErrorMagnitude = 255

// Location is a bitmask of the readings that disagreed with the face the
// reader settled on.
type Location uint8

// Reading channels of a single die.
const (
	LocationUnderline Location = 1 << iota
	LocationOverline
	LocationOCRLetter
	LocationOCRDigit

	LocationNone Location = 0
	LocationAll           = LocationUnderline | LocationOverline | LocationOCRLetter | LocationOCRDigit
)

// FaceError quantifies how unreliable a face reading is.
type FaceError struct {
	Magnitude int
	Location  Location
}

// MaxError is the error of an unreadable face.
var MaxError = FaceError{Magnitude: MaxErrorMagnitude, Location: LocationAll}

// Face is the reading of one die.
//
// Letter and Digit are zero when unknown. Orientation counts clockwise
// quarter-turns from upright.
type Face struct {
	Letter      byte
	Digit       byte
	Orientation int
	Error       FaceError
}

// UnreadFace returns the placeholder for a cell where nothing was read.
func UnreadFace() Face {
	return Face{Error: MaxError}
}

// IsDefined reports whether the face has a letter, a digit and an error
// below the maximum.
func (f Face) IsDefined() bool {
	return f.Letter != 0 && f.Digit != 0 && f.Error.Magnitude < MaxErrorMagnitude
}

// SameReading reports whether f and g show the same letter and digit in
// the same orientation. Errors are not compared.
func (f Face) SameReading(g Face) bool {
	return f.Letter == g.Letter && f.Digit == g.Digit && f.Orientation == g.Orientation
}

// Rotate returns the face turned clockwise by quarterTurns.
func (f Face) Rotate(quarterTurns int) Face {
	f.Orientation = mod4(f.Orientation + quarterTurns)
	return f
}

// Spec returns the specification matching the face's letter and digit.
func (f Face) Spec() (FaceSpecification, bool) {
	return SpecFor(f.Letter, f.Digit)
}

func mod4(n int) int {
	n %= 4
	if n < 0 {
		n += 4
	}
	return n
}
