package trace

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/svgcode-mcp/internal/imaging"
	"github.com/ironsheep/svgcode-mcp/internal/task"
)

// DefaultProgressInterval is used when Color.Interval is zero.
const DefaultProgressInterval = 100 * time.Millisecond

// ProgressFunc receives the completed share of a conversion, 0-100.
type ProgressFunc func(percent int)

// Color traces an image into one filled layer per palette color.
//
// The palette holds up to Colors dominant colors; every opaque pixel is
// assigned to the nearest entry in CIE L*a*b* space.
//
// When Progress is set and a Registrar is supplied, Convert starts a periodic
// task that calls Progress every Interval with the share of rows processed.
// The task is registered with the Registrar (replacing any previous one) and
// cancelled when Convert returns.
type Color struct {
	Colors   int
	Interval time.Duration
	Progress ProgressFunc
}

// Convert returns the traced SVG.
func (c *Color) Convert(ctx context.Context, buf *imaging.PixelBuffer, reg task.Registrar) (string, error) {
	if err := checkBuffer(buf); err != nil {
		return "", err
	}

	w, h := buf.Width(), buf.Height()
	var rows atomic.Int64

	if reg != nil && c.Progress != nil {
		interval := c.Interval
		if interval <= 0 {
			interval = DefaultProgressInterval
		}
		progress := reg.StartPeriodic(interval, func() {
			c.Progress(int(rows.Load() * 100 / int64(h)))
		})
		defer progress.Cancel()
	}

	palette := imaging.DominantColors(buf, c.Colors)
	layers := make([]layer, len(palette))
	for i, hex := range palette.Hex() {
		layers[i] = layer{fill: hex, d: &strings.Builder{}}
	}

	src := buf.Image
	nearest := make(map[uint32]int)

	for y := 0; y < h; y++ {
		if y%rowsPerCheck == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}
		start, current := 0, -1
		for x := 0; x <= w; x++ {
			idx := -1
			if x < w {
				p := src.Pix[y*src.Stride+x*4:]
				if p[3] >= imaging.AlphaCutoff {
					key := uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
					var ok bool
					if idx, ok = nearest[key]; !ok {
						idx = palette.Nearest(colorful.Color{
							R: float64(p[0]) / 255,
							G: float64(p[1]) / 255,
							B: float64(p[2]) / 255,
						})
						nearest[key] = idx
					}
				}
			}
			if idx != current {
				if current >= 0 {
					writeRun(layers[current].d, y, start, x)
				}
				start, current = x, idx
			}
		}
		rows.Add(1)
	}

	var out strings.Builder
	writeDocument(&out, w, h, layers)
	return out.String(), nil
}
