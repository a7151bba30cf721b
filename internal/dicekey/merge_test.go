package dicekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withError(c Credential, cell int, magnitude int, loc Location) Credential {
	c.Faces[cell].Error = FaceError{Magnitude: magnitude, Location: loc}
	return c
}

func TestMergeFaces(t *testing.T) {
	a1 := Face{Letter: 'A', Digit: '1'}
	tests := []struct {
		name     string
		previous Face
		current  Face
		want     Face
	}{
		{
			"both undefined keeps lower error",
			Face{Letter: 'A', Error: FaceError{Magnitude: 3, Location: LocationAll}},
			UnreadFace(),
			Face{Letter: 'A', Error: FaceError{Magnitude: 3, Location: LocationAll}},
		},
		{
			"only previous defined",
			a1,
			UnreadFace(),
			a1,
		},
		{
			"only current defined",
			UnreadFace(),
			a1,
			a1,
		},
		{
			"disjoint locations cancel",
			Face{Letter: 'A', Digit: '1', Error: FaceError{Magnitude: 2, Location: LocationUnderline}},
			Face{Letter: 'A', Digit: '1', Error: FaceError{Magnitude: 1, Location: LocationOverline}},
			a1,
		},
		{
			"shared location survives with smaller magnitude",
			Face{Letter: 'A', Digit: '1', Error: FaceError{Magnitude: 2, Location: LocationOverline | LocationOCRDigit}},
			Face{Letter: 'A', Digit: '1', Error: FaceError{Magnitude: 1, Location: LocationOverline}},
			Face{Letter: 'A', Digit: '1', Error: FaceError{Magnitude: 1, Location: LocationOverline}},
		},
		{
			"disagreeing readings keep lower error",
			Face{Letter: 'B', Digit: '1', Error: FaceError{Magnitude: 1, Location: LocationOCRLetter}},
			Face{Letter: 'A', Digit: '1', Error: FaceError{Magnitude: 4, Location: LocationOverline}},
			Face{Letter: 'B', Digit: '1', Error: FaceError{Magnitude: 1, Location: LocationOCRLetter}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeFaces(tt.previous, tt.current))
		})
	}
}

func TestMerge_WithSelfKeepsTotalError(t *testing.T) {
	c := sampleCredential(t)
	c = withError(c, 2, 2, LocationOverline)
	c = withError(c, 11, 1, LocationOCRLetter|LocationOCRDigit)
	c.Faces[20] = UnreadFace()

	merged := Merge(c, c)
	assert.Equal(t, c.TotalError(), merged.TotalError())
	assert.Equal(t, c, merged)
}

func TestMerge_DisjointLocationsCancel(t *testing.T) {
	base := sampleCredential(t)
	a := withError(base, 3, 1, LocationUnderline)
	b := withError(base, 3, 1, LocationOverline)

	merged := Merge(a, b)
	assert.Equal(t, FaceError{}, merged.Faces[3].Error)
	assert.Equal(t, 0, merged.TotalError())
}

func TestMerge_RecoversRotatedPrevious(t *testing.T) {
	base := sampleCredential(t)
	current := withError(base, 6, 2, LocationOverline)
	previous := withError(base, 6, 1, LocationUnderline).Rotate(3)

	merged := Merge(previous, current)
	assert.Equal(t, FaceError{}, merged.Faces[6].Error)
	assert.True(t, merged.Equal(base))
}

func TestMerge_NoMatchReturnsCurrent(t *testing.T) {
	current := sampleCredential(t)
	var faces [NumFaces]Face
	for i := range faces {
		faces[i] = Face{Letter: Letters[NumFaces-1-i], Digit: '6'}
	}
	previous := NewCredential(faces)

	assert.Equal(t, current, Merge(previous, current))
}

func TestMerge_Uninitialized(t *testing.T) {
	c := sampleCredential(t)
	assert.Equal(t, c, Merge(Credential{}, c))
	assert.Equal(t, c, Merge(c, Credential{}))
	assert.Equal(t, Credential{}, Merge(Credential{}, Credential{}))
}

func TestIsPotentialMatch(t *testing.T) {
	c := sampleCredential(t)
	assert.True(t, IsPotentialMatch(c, c))
	assert.False(t, IsPotentialMatch(c, c.Rotate(1)))
	assert.False(t, IsPotentialMatch(Credential{}, c))
}

func TestIsPotentialMatch_ErrorFacesMayDisagree(t *testing.T) {
	c := sampleCredential(t)
	other := c
	for i := 0; i < 15; i++ {
		other.Faces[i] = Face{Letter: 'Z', Digit: '6', Error: FaceError{Magnitude: 1, Location: LocationOCRLetter}}
	}
	// ten cells still agree exactly
	assert.True(t, IsPotentialMatch(c, other))

	other.Faces[15] = Face{Letter: 'Z', Digit: '6', Error: FaceError{Magnitude: 1, Location: LocationOCRLetter}}
	// only nine agree now
	assert.False(t, IsPotentialMatch(c, other))
}

func TestIsPotentialMatch_ZeroErrorConflict(t *testing.T) {
	c := sampleCredential(t)
	other := c
	other.Faces[5].Digit = '6'
	if other.Faces[5].Digit == c.Faces[5].Digit {
		other.Faces[5].Digit = '5'
	}
	require.Zero(t, other.Faces[5].Error.Magnitude)
	assert.False(t, IsPotentialMatch(c, other))
}

func TestIsPotentialMatch_UnreadCellsDoNotCount(t *testing.T) {
	c := sampleCredential(t)
	for i := 0; i < 15; i++ {
		c.Faces[i] = UnreadFace()
	}
	// ten defined cells agree, fifteen were read in neither scan
	assert.True(t, IsPotentialMatch(c, c))

	c.Faces[15] = UnreadFace()
	assert.False(t, IsPotentialMatch(c, c))
}
