package raster

import (
	"errors"
	"fmt"
	"math"

	"barycentric-renderer/internal/mathutil"
)

// ErrDegenerateTriangle is returned when the triangle's vertices are
// collinear (or non-finite), so its plane normal has zero length.
var ErrDegenerateTriangle = errors.New("raster: degenerate triangle")

// Triangle is three vertices in the z=0 plane.
type Triangle struct {
	A mathutil.Vec3 `json:"a"`
	B mathutil.Vec3 `json:"b"`
	C mathutil.Vec3 `json:"c"`
}

// Centroid returns the mean of the three vertices.
func (t Triangle) Centroid() mathutil.Vec3 {
	return t.A.Add(t.B).Add(t.C).Scale(1.0 / 3)
}

// Weights are the barycentric coordinates (wa, wb, wc) of a point.
// They are signed area ratios and are not renormalized.
type Weights [3]float64

// Inside reports whether every weight is non-negative.
// Points on an edge or vertex (a zero weight) count as inside.
func (w Weights) Inside() bool {
	return w[0] >= 0 && w[1] >= 0 && w[2] >= 0
}

func (w Weights) Sum() float64 {
	return w[0] + w[1] + w[2]
}

// Sampler evaluates barycentric weights against one triangle.
// The plane normal is computed once; a Sampler is read-only after
// construction and may be shared across goroutines.
type Sampler struct {
	tri Triangle
	n   mathutil.Vec3 // (b-a) × (c-a)
	nn  float64       // n·n

	// Edge vectors opposite each vertex.
	cb, ac, ba mathutil.Vec3
}

// NewSampler precomputes the triangle normal. Degenerate triangles are
// rejected here so no NaN ever reaches the image.
func NewSampler(tri Triangle) (*Sampler, error) {
	if !tri.A.IsFinite() || !tri.B.IsFinite() || !tri.C.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite vertex in %v", ErrDegenerateTriangle, tri)
	}

	n := tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A))
	nn := n.Dot(n)
	if nn == 0 || math.IsInf(nn, 0) {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateTriangle, tri)
	}

	return &Sampler{
		tri: tri,
		n:   n,
		nn:  nn,
		cb:  tri.C.Sub(tri.B),
		ac:  tri.A.Sub(tri.C),
		ba:  tri.B.Sub(tri.A),
	}, nil
}

// Weights computes the barycentric weights of q, which is assumed to lie in
// the triangle's plane.
func (s *Sampler) Weights(q mathutil.Vec3) Weights {
	na := s.cb.Cross(q.Sub(s.tri.B))
	nb := s.ac.Cross(q.Sub(s.tri.C))
	nc := s.ba.Cross(q.Sub(s.tri.A))

	return Weights{
		s.n.Dot(na) / s.nn,
		s.n.Dot(nb) / s.nn,
		s.n.Dot(nc) / s.nn,
	}
}

// Shade returns the mean barycentric colour of pixel (x, y) over samples
// jittered sub-samples. The pixel maps orthographically onto the unit
// square: p = (x/width, y/height). Every sub-sample is offset by the
// jitter, including when samples == 1.
func (s *Sampler) Shade(x, y, width, height, samples int, jitter Jitter) [3]float64 {
	invW := 1.0 / float64(width)
	invH := 1.0 / float64(height)
	px := float64(x) / float64(width)
	py := float64(y) / float64(height)

	var sum [3]float64
	for i := 0; i < samples; i++ {
		dx, dy := jitter.Offset()
		q := mathutil.Vec3{px + dx*invW, py + dy*invH, 0}

		w := s.Weights(q)
		if !w.Inside() {
			continue
		}
		sum[0] += w[0]
		sum[1] += w[1]
		sum[2] += w[2]
	}

	inv := 1.0 / float64(samples)
	return [3]float64{sum[0] * inv, sum[1] * inv, sum[2] * inv}
}

// ToByte converts a channel in [0,1] to 0–255 by truncating v*255.999.
// Out-of-range values are clamped and NaN maps to 0.
func ToByte(v float64) uint8 {
	f := math.Floor(v * 255.999)
	if !(f > 0) {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}
