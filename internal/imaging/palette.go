package imaging

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// AlphaCutoff is the minimum alpha for a pixel to count as drawn. Pixels below
// it are treated as background by the palette and the tracers.
const AlphaCutoff = 128

// Palette is an ordered set of representative colors, most frequent first.
type Palette []colorful.Color

// bucket accumulates the pixels that quantize to the same key.
type bucket struct {
	key     uint32
	count   int
	r, g, b int
}

// DominantColors extracts up to count representative colors from buf.
//
// # Color Quantization
//
// To group similar colors, each RGB component is divided by 16 and rounded
// down, so colors within the same 16-unit cell share a bucket. Unlike a plain
// histogram, the returned color of a bucket is the mean of the pixels that fell
// into it, which keeps pure whites and blacks exact.
//
// Pixels with alpha below AlphaCutoff are skipped. Ties in frequency are broken
// by bucket key so the result is deterministic. A fully transparent image
// yields an empty palette.
func DominantColors(buf *PixelBuffer, count int) Palette {
	img := buf.Image
	buckets := make(map[uint32]*bucket)

	for y := 0; y < img.Rect.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+img.Rect.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			r, g, b, a := row[i], row[i+1], row[i+2], row[i+3]
			if a < AlphaCutoff {
				continue
			}
			key := uint32(r/16)<<8 | uint32(g/16)<<4 | uint32(b/16)
			bk, ok := buckets[key]
			if !ok {
				bk = &bucket{key: key}
				buckets[key] = bk
			}
			bk.count++
			bk.r += int(r)
			bk.g += int(g)
			bk.b += int(b)
		}
	}

	sorted := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		sorted = append(sorted, bk)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].key < sorted[j].key
	})

	if len(sorted) > count {
		sorted = sorted[:count]
	}

	palette := make(Palette, len(sorted))
	for i, bk := range sorted {
		palette[i] = colorful.Color{
			R: float64(bk.r) / float64(bk.count) / 255,
			G: float64(bk.g) / float64(bk.count) / 255,
			B: float64(bk.b) / float64(bk.count) / 255,
		}
	}
	return palette
}

// Nearest returns the index of the palette entry closest to c in CIE L*a*b*
// space. It returns -1 for an empty palette.
func (p Palette) Nearest(c colorful.Color) int {
	best, bestDist := -1, 0.0
	for i, pc := range p {
		d := c.DistanceLab(pc)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Hex returns each palette color as "#rrggbb".
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Clamped().Hex()
	}
	return out
}
