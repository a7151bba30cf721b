// Package dicekey models a DiceKey: a 5×5 grid of dice, each showing one
// letter and one digit, read from a photograph.
//
// A Credential holds 25 Faces in row-major grid order. Each Face carries
// the letter, digit and orientation the reader settled on together with a
// FaceError describing how much the independent readings of that die
// disagreed and where. The package also holds the static lookup tables
// that map the 8-bit codes printed on each die's underline and overline to
// a FaceSpecification, the human-readable text form, the JSON encoding,
// and the rules for merging two scans of the same key.
//
// # Orientation
//
// Orientation counts clockwise quarter-turns from upright (0..3). Rotating
// a whole credential moves faces between cells and turns every face by the
// same amount, so four quarter-turns are the identity.
//
// # Human-readable form
//
// Each face is written as its letter, its digit and, optionally, one of
// the orientation characters 't', 'r', 'b', 'l' (top of the die facing up,
// right, down, left). A key is the concatenation of its 25 faces in cell
// order, for example "A1tB2rC3b...".
package dicekey
