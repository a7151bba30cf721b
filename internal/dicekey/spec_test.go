package dicekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecificationTables(t *testing.T) {
	specs := Specifications()
	require.Len(t, specs, 150)

	underlines := map[byte]bool{}
	overlines := map[byte]bool{}
	for _, s := range specs {
		assert.False(t, underlines[s.UnderlineCode], "duplicate underline code %#x", s.UnderlineCode)
		assert.False(t, overlines[s.OverlineCode], "duplicate overline code %#x", s.OverlineCode)
		underlines[s.UnderlineCode] = true
		overlines[s.OverlineCode] = true

		got, ok := UnderlineSpec(s.UnderlineCode)
		require.True(t, ok)
		assert.Equal(t, s, got)

		got, ok = OverlineSpec(s.OverlineCode)
		require.True(t, ok)
		assert.Equal(t, s, got)

		assert.NotEqual(t, s.UnderlineCode, s.OverlineCode, "face %c%c", s.Letter, s.Digit)
	}
}

func TestSpecificationTables_Misses(t *testing.T) {
	for _, code := range []byte{0x00, 0x01, 0x80, 0xFF, 0xFE} {
		_, ok := UnderlineSpec(code)
		assert.False(t, ok, "underline %#x", code)
		_, ok = OverlineSpec(code)
		assert.False(t, ok, "overline %#x", code)
	}

	hits := 0
	for b := 0; b < 256; b++ {
		if _, ok := UnderlineSpec(byte(b)); ok {
			hits++
		}
	}
	assert.Equal(t, NumFaceSpecifications, hits)
}

func TestSpecFor(t *testing.T) {
	s, ok := SpecFor('A', '1')
	require.True(t, ok)
	assert.Equal(t, byte('A'), s.Letter)
	assert.Equal(t, byte('1'), s.Digit)

	s, ok = SpecFor('z', '6')
	require.True(t, ok)
	assert.Equal(t, byte('Z'), s.Letter)

	_, ok = SpecFor('Q', '1')
	assert.False(t, ok)
	_, ok = SpecFor('A', '7')
	assert.False(t, ok)
	_, ok = SpecFor(0, 0)
	assert.False(t, ok)
}

func TestHammingDistance(t *testing.T) {
	assert.Equal(t, 0, HammingDistance(0x5A, 0x5A))
	assert.Equal(t, 8, HammingDistance(0x00, 0xFF))
	assert.Equal(t, 2, HammingDistance(0x03, 0x00))
}
