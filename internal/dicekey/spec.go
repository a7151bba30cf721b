package dicekey

import (
	"math/bits"
	"strings"
)

const (
	// Letters is the DiceKey letter alphabet: A to Z without Q.
	Letters = "ABCDEFGHIJKLMNOPRSTUVWXYZ"

	// Digits is the DiceKey digit alphabet.
	Digits = "123456"

	// NumFaceSpecifications is the number of distinct letter/digit faces.
	NumFaceSpecifications = len(Letters) * len(Digits)
)

// FaceSpecification is one letter/digit face together with the 8-bit codes
// printed on its underline and overline.
type FaceSpecification struct {
	Letter        byte
	Digit         byte
	UnderlineCode byte
	OverlineCode  byte
}

// lookup is one entry of a 256-way code table; ok is false for bytes that
// are not assigned to any face.
type lookup struct {
	spec FaceSpecification
	ok   bool
}

var (
	specifications [NumFaceSpecifications]FaceSpecification
	byUnderline    [256]lookup
	byOverline     [256]lookup
)

func init() {
	// Codes are drawn from the bytes with two to six bits set so that no
	// face is printed as an all-black or near-all-black bar. Underlines take
	// the smallest such bytes in ascending order and overlines the largest
	// in descending order.
	var usable []byte
	for b := 0; b < 256; b++ {
		if n := bits.OnesCount8(uint8(b)); n >= 2 && n <= 6 {
			usable = append(usable, byte(b))
		}
	}

	for i := range specifications {
		s := FaceSpecification{
			Letter:        Letters[i/len(Digits)],
			Digit:         Digits[i%len(Digits)],
			UnderlineCode: usable[i],
			OverlineCode:  usable[len(usable)-1-i],
		}
		specifications[i] = s
		byUnderline[s.UnderlineCode] = lookup{spec: s, ok: true}
		byOverline[s.OverlineCode] = lookup{spec: s, ok: true}
	}
}

// UnderlineSpec returns the face whose underline carries code.
func UnderlineSpec(code byte) (FaceSpecification, bool) {
	l := byUnderline[code]
	return l.spec, l.ok
}

// OverlineSpec returns the face whose overline carries code.
func OverlineSpec(code byte) (FaceSpecification, bool) {
	l := byOverline[code]
	return l.spec, l.ok
}

// SpecFor returns the specification of the face showing letter and digit.
func SpecFor(letter, digit byte) (FaceSpecification, bool) {
	li := strings.IndexByte(Letters, toUpper(letter))
	di := strings.IndexByte(Digits, digit)
	if li < 0 || di < 0 {
		return FaceSpecification{}, false
	}
	return specifications[li*len(Digits)+di], true
}

// Specifications returns every face specification in letter-major order.
func Specifications() []FaceSpecification {
	out := make([]FaceSpecification, len(specifications))
	copy(out, specifications[:])
	return out
}

// HammingDistance counts the bits in which a and b differ.
func HammingDistance(a, b byte) int {
	return bits.OnesCount8(a ^ b)
}

// IsLetter reports whether c is in the letter alphabet.
func IsLetter(c byte) bool { return c != 0 && strings.IndexByte(Letters, c) >= 0 }

// IsDigit reports whether c is in the digit alphabet.
func IsDigit(c byte) bool { return c != 0 && strings.IndexByte(Digits, c) >= 0 }

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
