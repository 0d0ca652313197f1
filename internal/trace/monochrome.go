package trace

import (
	"context"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/svgcode-mcp/internal/imaging"
	"github.com/ironsheep/svgcode-mcp/internal/task"
)

// Monochrome traces an image into a single black layer.
//
// Pixels darker than Threshold (after an optional Gaussian blur of
// BlurRadius) become ink; lighter or transparent pixels are left empty.
type Monochrome struct {
	Threshold  uint8
	BlurRadius float64
}

// Convert returns the traced SVG. It never registers a periodic task.
func (m *Monochrome) Convert(ctx context.Context, buf *imaging.PixelBuffer, _ task.Registrar) (string, error) {
	if err := checkBuffer(buf); err != nil {
		return "", err
	}

	var gray image.Image = effect.Grayscale(buf.Image)
	if m.BlurRadius > 0 {
		gray = blur.Gaussian(gray, m.BlurRadius)
	}
	bin := segment.Threshold(gray, m.Threshold)

	src := buf.Image
	w, h := buf.Width(), buf.Height()
	ink := &strings.Builder{}

	for y := 0; y < h; y++ {
		if y%rowsPerCheck == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}
		start := -1
		for x := 0; x <= w; x++ {
			on := x < w &&
				bin.Pix[y*bin.Stride+x] == 0 &&
				src.Pix[y*src.Stride+x*4+3] >= imaging.AlphaCutoff
			switch {
			case on && start < 0:
				start = x
			case !on && start >= 0:
				writeRun(ink, y, start, x)
				start = -1
			}
		}
	}

	var out strings.Builder
	writeDocument(&out, w, h, []layer{{fill: "#000", d: ink}})
	return out.String(), nil
}
