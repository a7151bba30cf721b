// Package reader turns one camera frame into a 25-face credential.
//
// ReadFrame decodes every rectangle candidate as an undoverline, pairs the
// bars into dice, reconstructs the grid and, for each cell that has at
// least one bar, reads the printed letter and digit with a Recognizer. The
// three readings of each face are reconciled by AssembleFace.
package reader
