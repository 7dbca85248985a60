// Package imaging inspects uploaded image payloads and renders the default
// avatar placeholder.
package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	_ "image/gif"  // GIF decode support
	_ "image/jpeg" // JPEG decode support
	"image/png"
	"sync"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // BMP decode support
	_ "golang.org/x/image/tiff" // TIFF decode support
	_ "golang.org/x/image/webp" // WebP decode support

	"github.com/adboard/adboard-api/internal/domain"
)

// ErrNotAnImage is returned when a payload cannot be decoded by any
// registered image format.
var ErrNotAnImage = errors.New("payload is not a supported image")

// MaxDimension bounds width and height so a tiny file cannot declare a
// huge canvas.
const MaxDimension = 10000

var mediaTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
}

// Info describes a decoded image header.
type Info struct {
	MediaType string
	Width     int
	Height    int
}

// Inspect decodes the header of data and reports its real media type.
// The client-declared content type is never trusted.
// Failures are returned as *domain.ValidationError on field "image".
func Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, domain.NewValidationError("image", "", domain.ErrImageDataEmpty)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, domain.NewValidationError("image", "", ErrNotAnImage)
	}

	mediaType, ok := mediaTypes[format]
	if !ok {
		return Info{}, domain.NewValidationError("image", "", ErrNotAnImage)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return Info{}, domain.NewValidationError("image", "image dimensions out of range", ErrNotAnImage)
	}

	return Info{MediaType: mediaType, Width: cfg.Width, Height: cfg.Height}, nil
}

var (
	placeholderOnce sync.Once
	placeholderPNG  []byte
)

// Placeholder returns a 128x128 PNG silhouette served for users without an
// avatar when no default avatar file is configured.
func Placeholder() []byte {
	placeholderOnce.Do(func() {
		placeholderPNG = renderPlaceholder(128)
	})
	return placeholderPNG
}

func renderPlaceholder(size int) []byte {
	bg := color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	fg := color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}

	// Draw the silhouette on a small canvas and scale it up so the edges
	// are smoothed by the interpolator.
	const base = 32
	src := image.NewRGBA(image.Rect(0, 0, base, base))
	draw.Draw(src, src.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	fill := func(cx, cy, r int) {
		for y := cy - r; y <= cy+r; y++ {
			for x := cx - r; x <= cx+r; x++ {
				if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
					src.Set(x, y, fg)
				}
			}
		}
	}
	fill(base/2, base*3/8, base/6) // head
	fill(base/2, base+base/8, base/2-2)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	// Encoding an in-memory RGBA image cannot fail.
	_ = png.Encode(&buf, dst)
	return buf.Bytes()
}
