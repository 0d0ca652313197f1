// Package trace converts pixel buffers into SVG markup.
//
// Two strategies are provided: Monochrome, which binarises the image with a
// luminance threshold, and Color, which quantizes it to a small palette. Both
// emit one <path> per fill color built from horizontal pixel runs, so the
// output is exact at 1:1 scale rather than curve-fitted. Documents always carry
// intrinsic width, height and viewBox attributes.
//
// Both strategies check their context between rows and return ctx.Err() when
// it ends.
package trace

import (
	"errors"

	"github.com/ironsheep/svgcode-mcp/internal/imaging"
)

// ErrEmptyImage is returned for a nil or zero-area buffer.
var ErrEmptyImage = errors.New("image has no pixels")

// rowsPerCheck is how many rows are traced between context checks.
const rowsPerCheck = 32

func checkBuffer(buf *imaging.PixelBuffer) error {
	if buf == nil || buf.Image == nil || buf.Width() == 0 || buf.Height() == 0 {
		return ErrEmptyImage
	}
	return nil
}
