package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrDecode marks input that could not be decoded as an image.
var ErrDecode = errors.New("unsupported or corrupt image")

// PixelBuffer holds decoded, upright, non-premultiplied pixel data ready for
// tracing.
//
// Conversion strategies read Image directly; everything else treats the
// buffer as opaque.
type PixelBuffer struct {
	// Image is the decoded pixel data. Bounds always start at (0,0).
	Image *image.NRGBA

	// Format is the name reported by the registered decoder ("png", "jpeg", ...).
	Format string

	// SourceWidth and SourceHeight are the dimensions before any downscaling.
	SourceWidth  int
	SourceHeight int
}

// Width returns the buffer width in pixels.
func (p *PixelBuffer) Width() int { return p.Image.Bounds().Dx() }

// Height returns the buffer height in pixels.
func (p *PixelBuffer) Height() int { return p.Image.Bounds().Dy() }

// Decode reads an image from r and prepares it for tracing.
//
// EXIF orientation is applied so the traced output matches what a viewer
// shows. When maxDimension is positive and either side exceeds it, the image
// is downscaled with Lanczos resampling, preserving aspect ratio.
//
// # Errors
//
//   - Wraps ErrDecode when the data is not a supported image
//   - Returns the reader's error if reading fails
func Decode(r io.Reader, maxDimension int) (*PixelBuffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	buf := &PixelBuffer{
		Format:       format,
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
	}

	if maxDimension > 0 && (bounds.Dx() > maxDimension || bounds.Dy() > maxDimension) {
		buf.Image = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	} else {
		buf.Image = imaging.Clone(img)
	}

	return buf, nil
}

// ImageCache provides thread-safe caching of decoded pixel buffers to avoid
// redundant disk reads and decodes when the same file is converted again.
//
// Buffers are keyed by the exact path string. Cached buffers must be treated
// as read-only by callers.
type ImageCache struct {
	mu           sync.RWMutex
	buffers      map[string]*PixelBuffer
	maxDimension int
}

// NewImageCache creates an empty cache that downsizes images to maxDimension
// (0 disables downsizing).
func NewImageCache(maxDimension int) *ImageCache {
	return &ImageCache{
		buffers:      make(map[string]*PixelBuffer),
		maxDimension: maxDimension,
	}
}

// Load returns the cached buffer for path, decoding the file on first use.
func (c *ImageCache) Load(path string) (*PixelBuffer, error) {
	c.mu.RLock()
	if buf, ok := c.buffers[path]; ok {
		c.mu.RUnlock()
		return buf, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	buf, err := Decode(f, c.maxDimension)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.buffers[path] = buf
	c.mu.Unlock()

	return buf, nil
}

// Evict removes path from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.buffers, path)
	c.mu.Unlock()
}

// Clear removes every cached buffer.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.buffers = make(map[string]*PixelBuffer)
	c.mu.Unlock()
}

// Len returns the number of cached buffers.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}
