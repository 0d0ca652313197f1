// Package imaging decodes raster input into pixel buffers ready for tracing
// and extracts the color palette used by the color tracer.
//
// All buffers are *image.NRGBA with bounds starting at (0,0), where X increases
// rightward and Y increases downward. EXIF orientation has already been applied.
//
// # Supported Formats
//
// PNG, JPEG, GIF, BMP, TIFF and WebP are registered as decoders. The format
// is detected from file contents, not the extension.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached PixelBuffers are
// shared between callers and must not be modified.
//
// # Error Handling
//
// Decode failures wrap ErrDecode so callers can tell unsupported or corrupt
// input apart from I/O errors such as a missing file.
//
// # Performance Considerations
//
// Large inputs are downscaled to a configurable maximum dimension at decode
// time. The cache keeps buffers until Evict or Clear is called.
package imaging
