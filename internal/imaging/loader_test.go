package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// createTestImage writes a solid-color PNG into the test's temp dir and
// returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "test-image.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 30))
	src.Set(0, 0, color.RGBA{255, 0, 0, 255})

	buf, err := Decode(bytes.NewReader(encodePNG(t, src)), 0)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if buf.Format != "png" {
		t.Errorf("Format: got %s, want png", buf.Format)
	}
	if buf.Width() != 40 || buf.Height() != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", buf.Width(), buf.Height())
	}
	if buf.SourceWidth != 40 || buf.SourceHeight != 30 {
		t.Errorf("source dimensions: got %dx%d, want 40x30", buf.SourceWidth, buf.SourceHeight)
	}
	if got := buf.Image.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel (0,0): got %v, want opaque red", got)
	}
}

func TestDecode_JPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var data bytes.Buffer
	if err := jpeg.Encode(&data, src, nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}

	buf, err := Decode(&data, 0)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if buf.Format != "jpeg" {
		t.Errorf("Format: got %s, want jpeg", buf.Format)
	}
}

func TestDecode_Downscale(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"landscape", 400, 200, 100, 100, 50},
		{"portrait", 100, 300, 150, 50, 150},
		{"within bounds", 80, 60, 100, 80, 60},
		{"disabled", 400, 200, 0, 400, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			buf, err := Decode(bytes.NewReader(encodePNG(t, src)), tt.max)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if buf.Width() != tt.wantW || buf.Height() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", buf.Width(), buf.Height(), tt.wantW, tt.wantH)
			}
			if buf.SourceWidth != tt.w || buf.SourceHeight != tt.h {
				t.Errorf("source: got %dx%d, want %dx%d", buf.SourceWidth, buf.SourceHeight, tt.w, tt.h)
			}
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader("not an image"), 0)
	if err == nil {
		t.Fatal("Decode should fail for invalid image data")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error should wrap ErrDecode, got %v", err)
	}
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache(0)
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.Len() != 0 {
		t.Fatalf("new cache should be empty, has %d entries", cache.Len())
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache(0)
	imgPath := createTestImage(t, 100, 100, color.RGBA{255, 0, 0, 255})

	buf1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if buf1.Width() != 100 || buf1.Height() != 100 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x100", buf1.Width(), buf1.Height())
	}

	// Second load should return cached buffer
	buf2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if buf1 != buf2 {
		t.Error("second Load did not return cached buffer")
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache(0)
	_, err := cache.Load("/nonexistent/path/to/image.png")
	if err == nil {
		t.Error("Load should fail for non-existent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := NewImageCache(0)
	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := cache.Load(path)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Load should fail with ErrDecode, got %v", err)
	}
	if cache.Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	cache := NewImageCache(0)
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 255, 0, 255})

	if _, err := cache.Load(imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Evict(imgPath)
	if cache.Len() != 0 {
		t.Error("Evict did not remove buffer from cache")
	}

	// Should not panic
	cache.Evict("/nonexistent/path")

	if _, err := cache.Load(imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear did not empty cache: %d buffers remain", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache(0)
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}
