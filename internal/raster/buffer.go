package raster

import "image"

// FrameBuffer holds the rendering target as a flat RGB slice.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // RGB interleaved, row-major, top row first, len = W*H*3
}

// NewFrameBuffer allocates a zeroed (black) buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*3),
	}
}

// PixOffset returns the index of pixel (x, y)'s red channel in Pix.
func (fb *FrameBuffer) PixOffset(x, y int) int {
	return (y*fb.Width + x) * 3
}

func (fb *FrameBuffer) Set(x, y int, r, g, b uint8) {
	i := fb.PixOffset(x, y)
	fb.Pix[i] = r
	fb.Pix[i+1] = g
	fb.Pix[i+2] = b
}

func (fb *FrameBuffer) At(x, y int) (r, g, b uint8) {
	i := fb.PixOffset(x, y)
	return fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2]
}

// ToNRGBA copies the buffer into an opaque NRGBA image.
func (fb *FrameBuffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		src := fb.Pix[y*fb.Width*3 : (y+1)*fb.Width*3]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < fb.Width; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 255
		}
	}
	return img
}

// FromNRGBA drops alpha and returns the RGB buffer of img.
func FromNRGBA(img *image.NRGBA) *FrameBuffer {
	b := img.Bounds()
	fb := NewFrameBuffer(b.Dx(), b.Dy())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			fb.Set(x, y, img.Pix[i], img.Pix[i+1], img.Pix[i+2])
		}
	}
	return fb
}
