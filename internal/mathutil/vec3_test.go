package mathutil

import (
	"math"
	"testing"
)

func TestCross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want Vec3
	}{
		{"x cross y", Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{"y cross x", Vec3{0, 1, 0}, Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		{"parallel", Vec3{2, 2, 0}, Vec3{1, 1, 0}, Vec3{}},
		{"general", Vec3{1, 2, 3}, Vec3{4, 5, 6}, Vec3{-3, 6, -3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Cross(tc.b); got != tc.want {
				t.Errorf("%v.Cross(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestCrossOrthogonal(t *testing.T) {
	a := Vec3{0.3, -1.2, 4}
	b := Vec3{2.5, 0.1, -0.7}
	c := a.Cross(b)
	if d := c.Dot(a); math.Abs(d) > 1e-12 {
		t.Errorf("cross not orthogonal to a: dot = %g", d)
	}
	if d := c.Dot(b); math.Abs(d) > 1e-12 {
		t.Errorf("cross not orthogonal to b: dot = %g", d)
	}
}

func TestCrossTriangleArea(t *testing.T) {
	// Right triangle with legs 3 and 4 has area 6.
	c := Vec3{3, 0, 0}.Cross(Vec3{0, 4, 0})
	if got := c.Dot(c); got != 144 {
		t.Errorf("|cross|^2 = %g, want 144", got)
	}
}

func TestDotSub(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %g, want 32", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub = %v, want (3,3,3)", got)
	}
	if a != (Vec3{1, 2, 3}) || b != (Vec3{4, 5, 6}) {
		t.Error("operands were mutated")
	}
}

func TestIsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if (Vec3{math.NaN(), 0, 0}).IsFinite() {
		t.Error("NaN component reported finite")
	}
	if (Vec3{0, math.Inf(1), 0}).IsFinite() {
		t.Error("Inf component reported finite")
	}
}
