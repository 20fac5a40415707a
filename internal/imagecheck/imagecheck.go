package imagecheck

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmpty             = errors.New("no image data")
	ErrTooLarge          = errors.New("image exceeds size limit")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

var allowedExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// Info describes a sniffed image payload.
type Info struct {
	Format string
	Width  int
	Height int
}

// Sniff identifies the payload by decoding its header. Only formats with a
// registered decoder pass, which confines the supported set to PNG, JPEG,
// BMP, TIFF and WEBP.
func Sniff(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: use PNG, JPG, JPEG, BMP, TIFF or WEBP", ErrUnsupportedFormat)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Validate runs the full pre-engine checks: presence, size limit, format.
// The size check comes first so an oversized payload is rejected regardless
// of content.
func Validate(data []byte, maxBytes int64) (Info, error) {
	if len(data) == 0 {
		return Info{}, ErrEmpty
	}
	if int64(len(data)) > maxBytes {
		return Info{}, fmt.Errorf("%w: maximum size is %d bytes", ErrTooLarge, maxBytes)
	}
	return Sniff(data)
}

// ValidateExtension checks an uploaded filename against the supported set
// before the body is read.
func ValidateExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("%w: file extension missing", ErrUnsupportedFormat)
	}
	if !allowedExt[ext] {
		return fmt.Errorf("%w: %s not allowed, use PNG, JPG, JPEG, BMP, TIFF or WEBP", ErrUnsupportedFormat, ext)
	}
	return nil
}

// Ext returns the canonical file extension for a sniffed format name.
func Ext(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "":
		return ".bin"
	default:
		return "." + format
	}
}
