package dicekey

import "strings"

const (
	// GridSize is the number of dice along each side of the key.
	GridSize = 5

	// NumFaces is the number of dice in a key.
	NumFaces = GridSize * GridSize

	// WorstTotalError is the total error of a key that cannot be trusted.
	WorstTotalError = NumFaces * MaxErrorMagnitude
)

// Credential is a full 25-face key in row-major order.
//
// The zero value is an uninitialized credential: the result of a frame in
// which no key was found.
type Credential struct {
	Faces       [NumFaces]Face
	Initialized bool
}

// NewCredential wraps a complete set of faces.
func NewCredential(faces [NumFaces]Face) Credential {
	return Credential{Faces: faces, Initialized: true}
}

// Rotate returns the credential turned clockwise by quarterTurns. Every
// face moves to its new cell and has its own orientation turned by the same
// amount.
func (c Credential) Rotate(quarterTurns int) Credential {
	turns := mod4(quarterTurns)
	if !c.Initialized || turns == 0 {
		return c
	}
	out := c
	for t := 0; t < turns; t++ {
		var next [NumFaces]Face
		for row := 0; row < GridSize; row++ {
			for col := 0; col < GridSize; col++ {
				from := (GridSize-1-col)*GridSize + row
				next[row*GridSize+col] = out.Faces[from].Rotate(1)
			}
		}
		out.Faces = next
	}
	return out
}

// CanonicalOrientation returns the rotation of c whose top-left cell holds
// the alphabetically earliest letter. Ties are broken by comparing the
// remaining cells in order, so the result is unique and applying it twice
// changes nothing.
func (c Credential) CanonicalOrientation() Credential {
	if !c.Initialized {
		return c
	}
	best := c
	bestKey := best.orderingKey()
	for turns := 1; turns < 4; turns++ {
		r := c.Rotate(turns)
		if k := r.orderingKey(); k < bestKey {
			best, bestKey = r, k
		}
	}
	return best
}

// orderingKey is the human-readable form with unknown characters sorting
// after every real one.
func (c Credential) orderingKey() string {
	var b strings.Builder
	b.Grow(NumFaces * 3)
	for _, f := range c.Faces {
		b.WriteByte(orUnknown(f.Letter, '~'))
		b.WriteByte(orUnknown(f.Digit, '~'))
		b.WriteByte(OrientationChars[mod4(f.Orientation)])
	}
	return b.String()
}

// LettersUnique reports whether no letter appears on more than one face.
// A fully read key with unique letters uses every letter exactly once.
func (c Credential) LettersUnique() bool {
	var seen [256]bool
	for _, f := range c.Faces {
		if f.Letter == 0 {
			continue
		}
		if seen[f.Letter] {
			return false
		}
		seen[f.Letter] = true
	}
	return true
}

// EnforceUniqueLetters raises every face to the maximum error when a letter
// repeats, since a repeat means the frame was misread as a whole. It
// returns ErrNonUniqueLetters in that case.
func (c *Credential) EnforceUniqueLetters() error {
	if c.LettersUnique() {
		return nil
	}
	for i := range c.Faces {
		c.Faces[i].Error = MaxError
	}
	return ErrNonUniqueLetters
}

// TotalError sums the face errors. Uninitialized keys and keys with
// repeated letters count as WorstTotalError.
func (c Credential) TotalError() int {
	if !c.Initialized || !c.LettersUnique() {
		return WorstTotalError
	}
	total := 0
	for _, f := range c.Faces {
		total += f.Error.Magnitude
	}
	return total
}

// MaxFaceError returns the largest single-face error magnitude.
func (c Credential) MaxFaceError() int {
	if !c.Initialized {
		return MaxErrorMagnitude
	}
	worst := 0
	for _, f := range c.Faces {
		worst = max(worst, f.Error.Magnitude)
	}
	return worst
}

// Equal reports whether both credentials show the same readings in every
// cell. Errors are not compared.
func (c Credential) Equal(o Credential) bool {
	if c.Initialized != o.Initialized {
		return false
	}
	for i := range c.Faces {
		if !c.Faces[i].SameReading(o.Faces[i]) {
			return false
		}
	}
	return true
}

func orUnknown(c, unknown byte) byte {
	if c == 0 {
		return unknown
	}
	return c
}
