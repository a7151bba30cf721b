//go:build !opencv

package main

import "github.com/ironsheep/dicekey-reader/internal/detection"

const finderName = "contour"

func newFinder() (detection.Finder, error) {
	return detection.NewContourFinder(detection.DefaultOptions()), nil
}
