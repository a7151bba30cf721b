package undoverline

import (
	"fmt"

	"github.com/ironsheep/dicekey-reader/internal/dicekey"
)

// NumBits is the number of bit cells on a bar.
const NumBits = 11

// Bit positions within the 11-bit field, most significant first.
const (
	forwardMarkerBit = 10
	overlineBit      = 9
	reverseMarkerBit = 0
	codeShift        = 1
)

// Reading is a successfully decoded bit pattern.
type Reading struct {
	// Overline is true for a bar printed above the text.
	Overline bool
	// Reversed is true when the pattern was sampled right to left.
	Reversed bool
	// Code is the 8-bit letter-digit code.
	Code byte
	// Spec is the face the code belongs to.
	Spec dicekey.FaceSpecification
}

// Letter returns the decoded letter.
func (r Reading) Letter() byte { return r.Spec.Letter }

// Digit returns the decoded digit.
func (r Reading) Digit() byte { return r.Spec.Digit }

// DecodeBits interprets an 11-bit sample, first sample in bit 10. Exactly
// one of bits 10 and 0 must be set; when it is bit 0 the sample was taken
// backwards and is reversed before decoding. Patterns that fail either
// check or whose code names no face wrap dicekey.ErrDecodeInvalid.
func DecodeBits(bits uint16) (Reading, error) {
	bits &= 1<<NumBits - 1
	forward := bits>>forwardMarkerBit&1 == 1
	backward := bits>>reverseMarkerBit&1 == 1
	if forward == backward {
		return Reading{}, fmt.Errorf("%w: direction markers of %011b", dicekey.ErrDecodeInvalid, bits)
	}

	r := Reading{Reversed: backward}
	if backward {
		bits = Reverse(bits)
	}
	r.Overline = bits>>overlineBit&1 == 1
	r.Code = byte(bits >> codeShift)

	var ok bool
	if r.Overline {
		r.Spec, ok = dicekey.OverlineSpec(r.Code)
	} else {
		r.Spec, ok = dicekey.UnderlineSpec(r.Code)
	}
	if !ok {
		return Reading{}, fmt.Errorf("%w: code %#02x is not assigned", dicekey.ErrDecodeInvalid, r.Code)
	}
	return r, nil
}

// EncodeBits returns the forward 11-bit pattern printed for spec.
func EncodeBits(spec dicekey.FaceSpecification, overline bool) uint16 {
	code := spec.UnderlineCode
	bits := uint16(1) << forwardMarkerBit
	if overline {
		code = spec.OverlineCode
		bits |= 1 << overlineBit
	}
	return bits | uint16(code)<<codeShift
}

// Reverse mirrors an 11-bit pattern end to end.
func Reverse(bits uint16) uint16 {
	var out uint16
	for i := 0; i < NumBits; i++ {
		out = out<<1 | bits>>i&1
	}
	return out
}
