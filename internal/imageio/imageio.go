// Package imageio saves renders in the supported output formats and loads
// them back for inspection.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"barycentric-renderer/internal/ppm"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

// Output formats.
const (
	FormatPPM  = "ppm"
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

// FormatFor returns the output format for path. A non-empty override wins;
// otherwise the extension decides, falling back to PPM.
func FormatFor(path, override string) (string, error) {
	f := strings.ToLower(override)
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		switch f {
		case FormatPNG, FormatWebP, FormatTGA:
			return f, nil
		default:
			return FormatPPM, nil
		}
	}
	switch f {
	case FormatPPM, FormatPNG, FormatWebP, FormatTGA:
		return f, nil
	}
	return "", fmt.Errorf("imageio: unknown format %q", override)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case FormatPPM:
		err = ppm.Encode(w, img)
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	case FormatTGA:
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("imageio: unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", format, err)
	}
	return nil
}

// Save writes img to path, creating parent directories as needed.
// A failed write leaves no file behind.
func Save(path string, img image.Image, format string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("imageio: create %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("imageio: close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return Encode(f, img, format)
}

// Load decodes a render (ppm, png, jpeg, tga, webp) and returns it as NRGBA
// together with the format name. TGA has no magic number, so the extension
// picks the decoder; anything unrecognised is sniffed by image.Decode.
func Load(path string) (*image.NRGBA, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	var img image.Image
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case FormatPPM:
		img, err = ppm.Decode(f)
	case FormatTGA:
		img, err = tga.Decode(f)
	case FormatWebP:
		img, err = webp.Decode(f)
	case FormatPNG:
		img, err = png.Decode(f)
	case "jpg", "jpeg":
		format = "jpeg"
		img, err = jpeg.Decode(f)
	default:
		img, format, err = image.Decode(f)
	}
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return toNRGBA(img), format, nil
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha; draw and force opaque.
		draw.Draw(dst, b, src, b.Min, draw.Src)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.Pix[dst.PixOffset(x, y)+3] = 255
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.SetNRGBA(x, y, color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA))
			}
		}
	}
	return dst
}

// Stats summarizes a render.
type Stats struct {
	Width    int
	Height   int
	Covered  int        // pixels with any non-zero channel
	MeanRGB  [3]float64 // over all pixels
	MaxValue uint8
}

// Coverage returns the fraction of covered pixels.
func (s Stats) Coverage() float64 {
	n := s.Width * s.Height
	if n == 0 {
		return 0
	}
	return float64(s.Covered) / float64(n)
}

// ComputeStats scans img. Alpha is ignored.
func ComputeStats(img *image.NRGBA) Stats {
	b := img.Bounds()
	s := Stats{Width: b.Dx(), Height: b.Dy()}

	var sum [3]float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			r, g, bl := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
			if r|g|bl != 0 {
				s.Covered++
			}
			sum[0] += float64(r)
			sum[1] += float64(g)
			sum[2] += float64(bl)
			s.MaxValue = max(s.MaxValue, r, g, bl)
		}
	}

	if n := float64(s.Width * s.Height); n > 0 {
		for k := range sum {
			s.MeanRGB[k] = sum[k] / n
		}
	}
	return s
}
