//go:build !opencv

package detection

import (
	"errors"
	"testing"
)

func TestOpenCVFinderStub(t *testing.T) {
	if _, err := NewOpenCVFinder(DefaultOptions()); !errors.Is(err, ErrOpenCVNotEnabled) {
		t.Errorf("NewOpenCVFinder() error = %v, want ErrOpenCVNotEnabled", err)
	}
	var f *OpenCVFinder
	if _, err := f.FindCandidates(whiteImage(4, 4)); !errors.Is(err, ErrOpenCVNotEnabled) {
		t.Errorf("FindCandidates() error = %v, want ErrOpenCVNotEnabled", err)
	}
}
