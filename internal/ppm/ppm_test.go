package ppm

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestEncodeRGBExactBytes(t *testing.T) {
	var buf bytes.Buffer
	pix := []uint8{255, 0, 0, 0, 255, 0}
	if err := EncodeRGB(&buf, 2, 1, pix); err != nil {
		t.Fatalf("EncodeRGB: %v", err)
	}
	want := append([]byte("P6\n2 1\n255\n"), pix...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("EncodeRGB wrote %q, want %q", buf.Bytes(), want)
	}
}

func TestEncodeRGBRejectsMismatch(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		pix  []uint8
	}{
		{"short", 2, 2, make([]uint8, 11)},
		{"zero width", 0, 1, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := EncodeRGB(&bytes.Buffer{}, tc.w, tc.h, tc.pix)
			if !errors.Is(err, ErrFormat) {
				t.Errorf("EncodeRGB() error = %v, want ErrFormat", err)
			}
		})
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncodeRGBSurfacesWriteError(t *testing.T) {
	err := EncodeRGB(failWriter{}, 1, 1, []uint8{1, 2, 3})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("EncodeRGB() error = %v, want wrapped write error", err)
	}
}

func TestEncodeDropsAlphaRowMajor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 10})
	img.SetNRGBA(1, 0, color.NRGBA{4, 5, 6, 255})
	img.SetNRGBA(0, 1, color.NRGBA{7, 8, 9, 255})
	img.SetNRGBA(1, 1, color.NRGBA{10, 11, 12, 0})

	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := append([]byte("P6\n2 2\n255\n"), 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Encode wrote %v, want %v", buf.Bytes(), want)
	}
}

func TestDecodeHeaderVariants(t *testing.T) {
	pix := []byte{9, 8, 7, 6, 5, 4}
	headers := []string{
		"P6\n2 1\n255\n",
		"P6\n2\n1\n255\n",
		"P6 2 1 255 ",
		"P6\n# made by hand\n2 1\n# max\n255\n",
	}
	for _, h := range headers {
		img, err := Decode(bytes.NewReader(append([]byte(h), pix...)))
		if err != nil {
			t.Errorf("Decode(%q): %v", h, err)
			continue
		}
		if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
			t.Errorf("Decode(%q) bounds = %v, want 2x1", h, b)
			continue
		}
		got := img.(*image.NRGBA).NRGBAAt(1, 0)
		if got != (color.NRGBA{6, 5, 4, 255}) {
			t.Errorf("Decode(%q) pixel (1,0) = %v, want {6 5 4 255}", h, got)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	inputs := map[string]string{
		"ascii pixmap":   "P3\n1 1\n255\n0 0 0\n",
		"maxval 65535":   "P6\n1 1\n65535\n\x00\x00\x00\x00\x00\x00",
		"zero size":      "P6\n0 1\n255\n",
		"garbage header": "P6\nwide 1\n255\n",
		"oversized":      "P6\n1048576 1048576\n255\n\x00\x00\x00",
		"just over max":  "P6\n8193 8192\n255\n",
		"overflowing":    "P6\n4294967296 4294967296\n255\n",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(in)); !errors.Is(err, ErrFormat) {
				t.Errorf("Decode() error = %v, want ErrFormat", err)
			}
		})
	}

	cfg, err := DecodeConfig(strings.NewReader("P6\n8192 8192\n255\n"))
	if err != nil || cfg.Width != 8192 || cfg.Height != 8192 {
		t.Errorf("DecodeConfig(8192x8192) = %+v, %v; want accepted at MaxPixels", cfg, err)
	}

	if _, err := Decode(strings.NewReader("P6\n2 2\n255\n\x01\x02")); err == nil {
		t.Error("Decode() of truncated raster succeeded")
	}
}

func TestRegisteredWithImagePackage(t *testing.T) {
	data := append([]byte("P6\n1 1\n255\n"), 200, 100, 50)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image.DecodeConfig: %v", err)
	}
	if format != "ppm" || cfg.Width != 1 || cfg.Height != 1 {
		t.Errorf("DecodeConfig = %q %dx%d, want ppm 1x1", format, cfg.Width, cfg.Height)
	}
}
