//go:build !opencv

package detection

import (
	"errors"
	"image"

	"github.com/ironsheep/dicekey-reader/internal/geometry"
)

// ErrOpenCVNotEnabled is returned when the binary was built without the
// opencv build tag.
var ErrOpenCVNotEnabled = errors.New("opencv support not enabled; rebuild with -tags opencv")

// OpenCVFinder is unavailable in this build.
type OpenCVFinder struct {
	BlockSize int
}

// NewOpenCVFinder always fails in this build.
func NewOpenCVFinder(Options) (*OpenCVFinder, error) {
	return nil, ErrOpenCVNotEnabled
}

// FindCandidates always fails in this build.
func (f *OpenCVFinder) FindCandidates(image.Image) ([]geometry.RotatedRect, error) {
	return nil, ErrOpenCVNotEnabled
}
