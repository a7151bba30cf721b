package undoverline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/dicekey-reader/internal/dicekey"
	"github.com/ironsheep/dicekey-reader/internal/undoverline"
)

func TestDecodeBits_EveryFace(t *testing.T) {
	for _, spec := range dicekey.Specifications() {
		for _, overline := range []bool{false, true} {
			bits := undoverline.EncodeBits(spec, overline)

			forward, err := undoverline.DecodeBits(bits)
			require.NoError(t, err)
			assert.Equal(t, spec, forward.Spec)
			assert.Equal(t, overline, forward.Overline)
			assert.False(t, forward.Reversed)

			backward, err := undoverline.DecodeBits(undoverline.Reverse(bits))
			require.NoError(t, err)
			assert.Equal(t, forward.Letter(), backward.Letter())
			assert.Equal(t, forward.Digit(), backward.Digit())
			assert.Equal(t, overline, backward.Overline)
			assert.True(t, backward.Reversed)
		}
	}
}

func TestDecodeBits_Invalid(t *testing.T) {
	tests := []struct {
		name string
		bits uint16
	}{
		{"no marker", 0b00011000110},
		{"both markers", 0b10011000111},
		{"unassigned code", 0b10000000000},
		{"unassigned overline code", 0b11000000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := undoverline.DecodeBits(tt.bits)
			assert.ErrorIs(t, err, dicekey.ErrDecodeInvalid)
		})
	}
}

func TestReverse(t *testing.T) {
	assert.Equal(t, uint16(0b00000000001), undoverline.Reverse(0b10000000000))
	assert.Equal(t, uint16(0b01100000010), undoverline.Reverse(0b01000000110))

	bits := uint16(0b10110011010)
	assert.Equal(t, bits, undoverline.Reverse(undoverline.Reverse(bits)))
}
