package sheet

import (
	"bytes"
	"image"
	"image/png"

	"github.com/HugoSmits86/nativewebp"
	"github.com/pkg/errors"
)

// Sheet formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Encode serializes the raster in the given format.
func Encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case FormatPNG, "":
		if err := png.Encode(&buf, img); err != nil {
			return nil, errors.Wrap(err, "sheet: encoding PNG")
		}
	case FormatWebP:
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return nil, errors.Wrap(err, "sheet: encoding WebP")
		}
	default:
		return nil, errors.Errorf("sheet: unknown format %q", format)
	}

	return buf.Bytes(), nil
}

// Ext returns the file extension for a sheet format, dot included.
func Ext(format string) string {
	if format == FormatWebP {
		return ".webp"
	}
	return ".png"
}
