// Package grid recovers the 5x5 lattice of a DiceKey from the bars decoded
// in one frame.
//
// Bars are first paired into dice. Each die is then tried as a lattice
// point: the other dice lying on its row and column lines must be evenly
// spaced, and the first die that finds five evenly spaced dice along both
// lines fixes the grid's center, angle and spacing. The resulting Model
// maps any point to a cell index and gives every cell an expected center,
// including cells where nothing was read.
package grid
