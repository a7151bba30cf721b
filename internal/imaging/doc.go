// Package imaging holds the pixel-level operations the DiceKey reader needs:
// loading and caching frames, grayscale sampling along undoverlines,
// extracting the upright, binarized text region of a die for OCR, and two
// diagnostics: a debug overlay of the reconstructed grid and a crop of a
// single cell.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Sampling positions are
// floating point; a pixel's value is taken to lie at its integer
// coordinate, so (10.5, 3) is halfway between pixels (10,3) and (11,3).
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Sampler and the extraction
// functions never modify their inputs and may be used from several
// goroutines at once.
package imaging
