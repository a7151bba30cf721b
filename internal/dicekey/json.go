package dicekey

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type faceJSON struct {
	Letter      string    `json:"letter"`
	Digit       string    `json:"digit"`
	Orientation string    `json:"orientationAs0to3ClockwiseTurnsFromUpright"`
	Error       errorJSON `json:"error"`
}

type errorJSON struct {
	Magnitude int `json:"magnitude"`
	Location  int `json:"location"`
}

// MarshalJSON encodes the face with empty strings for an unknown letter or
// digit and the orientation as a single character '0'..'3'.
func (f Face) MarshalJSON() ([]byte, error) {
	return json.Marshal(faceJSON{
		Letter:      charString(f.Letter),
		Digit:       charString(f.Digit),
		Orientation: strconv.Itoa(mod4(f.Orientation)),
		Error:       errorJSON{Magnitude: f.Error.Magnitude, Location: int(f.Error.Location)},
	})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (f *Face) UnmarshalJSON(data []byte) error {
	var raw faceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	letter, err := singleChar(raw.Letter)
	if err != nil || (letter != 0 && !IsLetter(letter)) {
		return fmt.Errorf("invalid letter %q", raw.Letter)
	}
	digit, err := singleChar(raw.Digit)
	if err != nil || (digit != 0 && !IsDigit(digit)) {
		return fmt.Errorf("invalid digit %q", raw.Digit)
	}
	orientation, err := strconv.Atoi(raw.Orientation)
	if err != nil || orientation < 0 || orientation > 3 {
		return fmt.Errorf("invalid orientation %q", raw.Orientation)
	}
	if raw.Error.Magnitude < 0 || raw.Error.Magnitude > MaxErrorMagnitude {
		return fmt.Errorf("error magnitude %d out of range", raw.Error.Magnitude)
	}
	*f = Face{
		Letter:      letter,
		Digit:       digit,
		Orientation: orientation,
		Error:       FaceError{Magnitude: raw.Error.Magnitude, Location: Location(raw.Error.Location) & LocationAll},
	}
	return nil
}

// MarshalJSON encodes an initialized credential as an array of 25 faces and
// an uninitialized one as [].
func (c Credential) MarshalJSON() ([]byte, error) {
	if !c.Initialized {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Faces[:])
}

// UnmarshalJSON accepts [] or an array of exactly 25 faces.
func (c *Credential) UnmarshalJSON(data []byte) error {
	var faces []Face
	if err := json.Unmarshal(data, &faces); err != nil {
		return err
	}
	switch len(faces) {
	case 0:
		*c = Credential{}
	case NumFaces:
		var all [NumFaces]Face
		copy(all[:], faces)
		*c = NewCredential(all)
	default:
		return fmt.Errorf("credential has %d faces, want 0 or %d", len(faces), NumFaces)
	}
	return nil
}

func charString(c byte) string {
	if c == 0 {
		return ""
	}
	return string(rune(c))
}

func singleChar(s string) (byte, error) {
	switch len(s) {
	case 0:
		return 0, nil
	case 1:
		return s[0], nil
	}
	return 0, fmt.Errorf("%q is not a single character", s)
}
