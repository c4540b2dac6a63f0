package raster

import "math/rand/v2"

// Jitter yields sub-pixel offsets, each in [0, 1).
type Jitter interface {
	Offset() (dx, dy float64)
}

// JitterFunc returns the jitter source for one image row. Rows get
// independent sources so a parallel render is reproducible for a seed.
type JitterFunc func(row int) Jitter

type randomJitter struct {
	r *rand.Rand
}

// Offset draws y before x.
func (j *randomJitter) Offset() (dx, dy float64) {
	dy = j.r.Float64()
	dx = j.r.Float64()
	return dx, dy
}

// SeededJitter returns uniformly distributed offsets from a PCG stream
// keyed by (seed, row).
func SeededJitter(seed uint64) JitterFunc {
	return func(row int) Jitter {
		return &randomJitter{r: rand.New(rand.NewPCG(seed, uint64(row)))}
	}
}

// FixedOffset is a Jitter that always returns the same offset.
type FixedOffset struct {
	DX, DY float64
}

func (f FixedOffset) Offset() (dx, dy float64) {
	return f.DX, f.DY
}

// FixedJitter samples every pixel at the same offset into the cell.
func FixedJitter(dx, dy float64) JitterFunc {
	j := FixedOffset{DX: dx, DY: dy}
	return func(int) Jitter { return j }
}

// ZeroJitter samples every pixel at its top-left corner.
func ZeroJitter() JitterFunc {
	return FixedJitter(0, 0)
}
