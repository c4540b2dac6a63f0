// Package ppm reads and writes binary portable pixmaps (P6, maxval 255).
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// ErrFormat is returned for input that is not a P6 image this package handles.
var ErrFormat = errors.New("ppm: invalid format")

const magic = "P6"

// MaxPixels bounds the image size accepted by Decode.
const MaxPixels = 1 << 26

func init() {
	image.RegisterFormat("ppm", magic, Decode, DecodeConfig)
}

// EncodeRGB writes a P6 image from a packed RGB slice (row-major, top row
// first, len = width*height*3).
func EncodeRGB(w io.Writer, width, height int, pix []uint8) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrFormat, width, height)
	}
	if len(pix) != width*height*3 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrFormat, len(pix), width, height)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n255\n", magic, width, height); err != nil {
		return fmt.Errorf("ppm: write header: %w", err)
	}
	if _, err := bw.Write(pix); err != nil {
		return fmt.Errorf("ppm: write pixels: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("ppm: flush: %w", err)
	}
	return nil
}

// Encode writes img as P6. Alpha is dropped.
func Encode(w io.Writer, img image.Image) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	pix := make([]uint8, 0, width*height*3)

	if n, ok := img.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := n.Pix[n.PixOffset(b.Min.X, y):n.PixOffset(b.Max.X, y)]
			for i := 0; i < len(row); i += 4 {
				pix = append(pix, row[i], row[i+1], row[i+2])
			}
		}
		return EncodeRGB(w, width, height, pix)
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix = append(pix, c.R, c.G, c.B)
		}
	}
	return EncodeRGB(w, width, height, pix)
}

// DecodeConfig reads only the header.
func DecodeConfig(r io.Reader) (image.Config, error) {
	w, h, err := readHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: w, Height: h}, nil
}

// Decode reads a P6 image into an opaque NRGBA.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	w, h, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	row := make([]uint8, w*3)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, fmt.Errorf("ppm: read row %d: %w", y, err)
		}
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			dst[x*4] = row[x*3]
			dst[x*4+1] = row[x*3+1]
			dst[x*4+2] = row[x*3+2]
			dst[x*4+3] = 255
		}
	}
	return img, nil
}

// readHeader parses "P6 <w> <h> <maxval>" and consumes the single
// whitespace byte that precedes the raster.
func readHeader(br *bufio.Reader) (width, height int, err error) {
	m := make([]byte, 2)
	if _, err := io.ReadFull(br, m); err != nil {
		return 0, 0, fmt.Errorf("ppm: read magic: %w", err)
	}
	if string(m) != magic {
		return 0, 0, fmt.Errorf("%w: magic %q", ErrFormat, m)
	}

	var vals [3]int
	for i := range vals {
		v, err := readInt(br)
		if err != nil {
			return 0, 0, err
		}
		vals[i] = v
	}
	width, height = vals[0], vals[1]
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: size %dx%d", ErrFormat, width, height)
	}
	if width > MaxPixels/height {
		return 0, 0, fmt.Errorf("%w: size %dx%d exceeds %d pixels", ErrFormat, width, height, MaxPixels)
	}
	if vals[2] != 255 {
		return 0, 0, fmt.Errorf("%w: maxval %d unsupported", ErrFormat, vals[2])
	}

	c, err := br.ReadByte()
	if err != nil {
		return 0, 0, fmt.Errorf("ppm: read header: %w", err)
	}
	if !isSpace(c) {
		return 0, 0, fmt.Errorf("%w: no whitespace after maxval", ErrFormat)
	}
	return width, height, nil
}

// readInt skips whitespace and '#' comments, then reads a decimal number.
// The byte that ends the number is left unread.
func readInt(br *bufio.Reader) (int, error) {
	var c byte
	var err error
	for {
		c, err = br.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("ppm: read header: %w", err)
		}
		if c == '#' {
			if _, err := br.ReadString('\n'); err != nil {
				return 0, fmt.Errorf("ppm: read comment: %w", err)
			}
			continue
		}
		if !isSpace(c) {
			break
		}
	}

	if c < '0' || c > '9' {
		return 0, fmt.Errorf("%w: unexpected %q in header", ErrFormat, c)
	}
	n := 0
	for c >= '0' && c <= '9' {
		n = n*10 + int(c-'0')
		if n > 1<<20 {
			return 0, fmt.Errorf("%w: header value too large", ErrFormat)
		}
		c, err = br.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("ppm: read header: %w", err)
		}
	}
	if err := br.UnreadByte(); err != nil {
		return 0, fmt.Errorf("ppm: read header: %w", err)
	}
	return n, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
