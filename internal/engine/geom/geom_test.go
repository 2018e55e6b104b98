package geom

import (
	"math"
	"testing"
)

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}.Normalize()
	if math.Abs(float64(v.Length()-1)) > 1e-5 {
		t.Errorf("expected unit length, got %v", v.Length())
	}

	zero := Vec3{}.Normalize()
	if zero != (Vec3{}) {
		t.Errorf("expected zero vector to normalize to itself, got %v", zero)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := x.Cross(y)
	if z != (Vec3{0, 0, 1}) {
		t.Errorf("expected x cross y = z, got %v", z)
	}
}

func TestMat4IdentityTransform(t *testing.T) {
	p := Vec3{1, 2, 3}
	got := Identity().TransformPoint(p)
	if got != p {
		t.Errorf("identity transform changed point: got %v, want %v", got, p)
	}
}

func TestMat4TranslateThenScale(t *testing.T) {
	m := Translate(Vec3{10, 0, 0}).Mul(ScaleUniform(Vec3{2, 2, 2}))
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{12, 2, 2}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRotateYQuarterTurn(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	got := m.TransformPoint(Vec3{1, 0, 0})
	want := Vec3{0, 0, -1}
	if math.Abs(float64(got.X-want.X)) > 1e-5 ||
		math.Abs(float64(got.Y-want.Y)) > 1e-5 ||
		math.Abs(float64(got.Z-want.Z)) > 1e-5 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBox3ExpandAndSize(t *testing.T) {
	b := EmptyBox()
	if !b.IsEmpty() {
		t.Fatal("expected fresh box to be empty")
	}

	b = b.ExpandByPoint(Vec3{-1, 0, 2})
	b = b.ExpandByPoint(Vec3{3, 5, -2})

	size := b.Size()
	if size != (Vec3{4, 5, 4}) {
		t.Errorf("expected size (4,5,4), got %v", size)
	}

	center := b.Center()
	if center != (Vec3{1, 2.5, 0}) {
		t.Errorf("expected center (1,2.5,0), got %v", center)
	}
}

func TestBox3EmptySize(t *testing.T) {
	if EmptyBox().Size() != (Vec3{}) {
		t.Error("expected empty box size to be zero")
	}
}
