package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces an opaque render to w×h with CatmullRom filtering.
// Renders are opaque, so no premultiply pass is needed. An image already
// at or below the target size is returned unchanged.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	// Force opaque; the filter can leave alpha at 254 from rounding.
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 255
	}
	return dst
}

// Factor clamps a supersample factor to at least 1.
func Factor(s int) int {
	if s < 1 {
		return 1
	}
	return s
}
