// Package acquire turns conversion input into a decoded pixel buffer.
//
// Two strategies exist: Background decodes on a separate goroutine so the
// caller can be interrupted through its context while a large file is being
// read, and Main decodes synchronously on the caller's goroutine. Select picks
// one once, from a capability flag, so the choice is fixed for the lifetime of
// whatever holds the returned Acquirer.
package acquire

import (
	"bytes"
	"context"
	"errors"

	"github.com/ironsheep/svgcode-mcp/internal/imaging"
)

// ErrNoInput is returned when an Input names neither a file nor data.
var ErrNoInput = errors.New("no input image")

// Input identifies the image to convert. Data takes precedence over Path.
type Input struct {
	Path string
	Data []byte
}

// Acquirer produces a pixel buffer for an input.
type Acquirer interface {
	Acquire(ctx context.Context, in Input) (*imaging.PixelBuffer, error)
}

// Main decodes on the calling goroutine. Files are served from Cache when set.
type Main struct {
	Cache        *imaging.ImageCache
	MaxDimension int
}

// Acquire decodes in synchronously. ctx is only checked before starting.
func (m *Main) Acquire(ctx context.Context, in Input) (*imaging.PixelBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decode(in, m.Cache, m.MaxDimension)
}

// Background decodes on its own goroutine and waits for the result or for
// ctx to end, whichever comes first. A decode abandoned by a cancelled ctx
// still runs to completion; its result is discarded.
type Background struct {
	Cache        *imaging.ImageCache
	MaxDimension int
}

type result struct {
	buf *imaging.PixelBuffer
	err error
}

// Acquire decodes in off the calling goroutine.
func (b *Background) Acquire(ctx context.Context, in Input) (*imaging.PixelBuffer, error) {
	done := make(chan result, 1)
	go func() {
		buf, err := decode(in, b.Cache, b.MaxDimension)
		done <- result{buf, err}
	}()

	select {
	case r := <-done:
		return r.buf, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Select returns bg when supportsBackground is true and main otherwise.
func Select(supportsBackground bool, bg, main Acquirer) Acquirer {
	if supportsBackground {
		return bg
	}
	return main
}

func decode(in Input, cache *imaging.ImageCache, maxDimension int) (*imaging.PixelBuffer, error) {
	switch {
	case in.Data != nil:
		return imaging.Decode(bytes.NewReader(in.Data), maxDimension)
	case in.Path == "":
		return nil, ErrNoInput
	case cache != nil:
		return cache.Load(in.Path)
	default:
		return imaging.NewImageCache(maxDimension).Load(in.Path)
	}
}
