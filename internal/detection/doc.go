// Package detection finds the rectangle candidates that the undoverline
// decoder reads.
//
// A Finder turns a frame into rotated rectangles around dark, elongated
// shapes. Nothing about dice is known at this stage: text strokes, shadows
// and printing defects all come back as long as they are shaped like a
// bar. The decoder rejects what does not carry a valid code.
//
// # Finders
//
//   - ContourFinder is pure Go. It binarizes the frame at the bimodal
//     threshold of its intensity histogram, groups 8-connected dark pixels
//     into components, and fits a rectangle to each component from its
//     second moments.
//   - OpenCVFinder uses gocv and is only built with the opencv build tag.
//
// Both finders drop candidates whose area falls outside the dominant area
// cluster, so a handful of large smudges or tiny specks do not survive.
//
// # Coordinate System
//
// Rectangles use image coordinates with the origin at the top-left, X to
// the right and Y down. Pixel centers sit on integer coordinates.
package detection
