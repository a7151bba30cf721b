//go:build opencv

package main

import "github.com/ironsheep/dicekey-reader/internal/detection"

const finderName = "opencv"

func newFinder() (detection.Finder, error) {
	return detection.NewOpenCVFinder(detection.DefaultOptions())
}
