package ocr

import "image"

// Candidate is one possible reading of a glyph.
type Candidate struct {
	Character byte    `json:"character"`
	Error     float64 `json:"error"`
}

// Recognizer reads a single glyph. The returned candidates are restricted to
// alphabet and sorted by ascending Error. An empty result means the glyph
// could not be read at all.
type Recognizer interface {
	Recognize(glyph image.Image, alphabet string) ([]Candidate, error)
}

// Characters returns the candidate characters in rank order.
func Characters(candidates []Candidate) []byte {
	out := make([]byte, len(candidates))
	for i, c := range candidates {
		out[i] = c.Character
	}
	return out
}
