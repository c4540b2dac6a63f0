package raster

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgravesa/go-parallel/parallel"
)

// ErrInvalidSize is returned for non-positive image dimensions or sample counts.
var ErrInvalidSize = errors.New("raster: invalid size")

// Options controls a single render.
type Options struct {
	Width   int
	Height  int
	Samples int // anti-aliasing sub-samples per pixel

	// Jitter supplies sub-pixel offsets per row. Nil means SeededJitter(0).
	Jitter JitterFunc
}

// Render samples tri over a Width×Height grid of the unit square and returns
// a freshly allocated buffer whose pixels are the mean barycentric weights
// of the sub-samples that fell inside the triangle.
//
// Rows render in parallel. Each row writes only its own cells and reads the
// shared sampler, so no locking is needed.
func Render(tri Triangle, opts Options) (*FrameBuffer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Width, opts.Height)
	}
	if opts.Samples <= 0 {
		return nil, fmt.Errorf("%w: samples=%d", ErrInvalidSize, opts.Samples)
	}

	s, err := NewSampler(tri)
	if err != nil {
		return nil, err
	}

	jitter := opts.Jitter
	if jitter == nil {
		jitter = SeededJitter(0)
	}

	log := Logger()
	log.Debug("raster: render start",
		"width", opts.Width, "height", opts.Height, "samples", opts.Samples)
	start := time.Now()

	fb := NewFrameBuffer(opts.Width, opts.Height)
	parallel.For(opts.Height, func(y, _ int) {
		renderRow(fb, s, y, opts.Samples, jitter(y))
	})

	log.Debug("raster: render done", "elapsed", time.Since(start))
	return fb, nil
}

func renderRow(fb *FrameBuffer, s *Sampler, y, samples int, j Jitter) {
	row := fb.Pix[y*fb.Width*3 : (y+1)*fb.Width*3]
	for x := 0; x < fb.Width; x++ {
		c := s.Shade(x, y, fb.Width, fb.Height, samples, j)
		row[x*3] = ToByte(c[0])
		row[x*3+1] = ToByte(c[1])
		row[x*3+2] = ToByte(c[2])
	}
}

// Coverage returns the number of non-black pixels in fb.
func Coverage(fb *FrameBuffer) int {
	n := 0
	for i := 0; i < len(fb.Pix); i += 3 {
		if fb.Pix[i]|fb.Pix[i+1]|fb.Pix[i+2] != 0 {
			n++
		}
	}
	return n
}
