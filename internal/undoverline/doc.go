// Package undoverline decodes the dotted bars printed above (overline) and
// below (underline) the letter and digit on every DiceKey face.
//
// A bar is 13 units long: a black margin unit at each end and 11 bit cells
// between them, a white cell reading as 1. In the forward reading direction
// (left to right on an upright face) the first cell is a marker that is
// always white and the last is always black, so a bar read backwards is
// recognised and corrected. The second cell is set on overlines, and the
// remaining eight cells carry the code of the face's letter and digit.
package undoverline
