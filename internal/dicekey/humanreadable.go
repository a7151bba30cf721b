package dicekey

import (
	"fmt"
	"strings"
)

// OrientationChars maps an orientation (0..3) to its human-readable
// character: the direction the top of the die faces.
const OrientationChars = "trbl"

// unreadChar stands in for a letter or digit that was not read.
const unreadChar = '-'

// HumanReadableForm writes the faces in cell order as letter, digit and,
// when withOrientation is set, an orientation character. Faces without a
// letter or digit are written with '-' in place of the missing character.
func (c Credential) HumanReadableForm(withOrientation bool) string {
	if !c.Initialized {
		return ""
	}
	per := 2
	if withOrientation {
		per = 3
	}
	var b strings.Builder
	b.Grow(NumFaces * per)
	for _, f := range c.Faces {
		b.WriteByte(orUnknown(f.Letter, unreadChar))
		b.WriteByte(orUnknown(f.Digit, unreadChar))
		if withOrientation {
			b.WriteByte(OrientationChars[mod4(f.Orientation)])
		}
	}
	return b.String()
}

// CanonicalHumanReadableForm rotates c to its canonical orientation before
// writing it.
func (c Credential) CanonicalHumanReadableForm(withOrientation bool) string {
	return c.CanonicalOrientation().HumanReadableForm(withOrientation)
}

// ParseHumanReadableForm reads a 50-character (letter and digit per face)
// or 75-character (letter, digit and orientation per face) key. Letters
// may be in either case. Faces parsed without an orientation are upright.
//
// Any other length or any character outside the alphabets yields a
// *FormError wrapping ErrMalformedHumanReadableForm.
func ParseHumanReadableForm(s string) (Credential, error) {
	var per int
	switch len(s) {
	case NumFaces * 2:
		per = 2
	case NumFaces * 3:
		per = 3
	default:
		return Credential{}, &FormError{
			Position: -1,
			Reason:   fmt.Sprintf("length %d, want %d or %d", len(s), NumFaces*2, NumFaces*3),
		}
	}

	var faces [NumFaces]Face
	for i := range faces {
		at := i * per
		letter := toUpper(s[at])
		if !IsLetter(letter) {
			return Credential{}, &FormError{Position: at, Reason: fmt.Sprintf("%q is not a key letter", s[at])}
		}
		digit := s[at+1]
		if !IsDigit(digit) {
			return Credential{}, &FormError{Position: at + 1, Reason: fmt.Sprintf("%q is not a key digit", digit)}
		}
		orientation := 0
		if per == 3 {
			orientation = strings.IndexByte(OrientationChars, toLower(s[at+2]))
			if orientation < 0 {
				return Credential{}, &FormError{Position: at + 2, Reason: fmt.Sprintf("%q is not an orientation", s[at+2])}
			}
		}
		faces[i] = Face{Letter: letter, Digit: digit, Orientation: orientation}
	}
	return NewCredential(faces), nil
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}
