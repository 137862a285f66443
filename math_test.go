package planar_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planarphys/planar"
)

func TestVec2IsOrderedPair(t *testing.T) {
	v := planar.Vec2{3.0, -4.0}
	assert.Equal(t, 3.0, v[0])
	assert.Equal(t, -4.0, v[1])

	// A plain [2]float64 converts without ceremony.
	raw := [2]float64{1.0, 2.0}
	w := planar.Vec2(raw)
	assert.Equal(t, planar.Vec2{1.0, 2.0}, w)
}

func TestVec2Algebra(t *testing.T) {
	a := planar.Vec2{1.0, 2.0}
	b := planar.Vec2{3.0, 5.0}

	assert.Equal(t, planar.Vec2{4.0, 7.0}, planar.AddVV(a, b))
	assert.Equal(t, planar.Vec2{-2.0, -3.0}, planar.SubVV(a, b))
	assert.Equal(t, planar.Vec2{2.0, 4.0}, planar.MulSV(2.0, a))
	assert.Equal(t, 13.0, planar.DotVV(a, b))
	assert.Equal(t, -1.0, planar.CrossVV(a, b))
	assert.Equal(t, planar.Vec2{-2.0, 1.0}, planar.SkewV(a))
	assert.Equal(t, 5.0, planar.LengthV(planar.Vec2{3.0, 4.0}))

	// dot(skew(a), b) == cross(a, b)
	assert.Equal(t, planar.CrossVV(a, b), planar.DotVV(planar.SkewV(a), b))
}

func TestVec2OutParameterForms(t *testing.T) {
	var out planar.Vec2
	v := planar.Vec2{1.0, 2.0}
	w := planar.Vec2{10.0, 20.0}

	planar.AddVVTo(&out, v, w)
	assert.Equal(t, planar.Vec2{11.0, 22.0}, out)

	planar.SubVVTo(&out, v, w)
	assert.Equal(t, planar.Vec2{-9.0, -18.0}, out)

	out = v
	planar.MulAddTo(&out, 2.0, w)
	assert.Equal(t, planar.Vec2{21.0, 42.0}, out)

	out = v
	planar.MulSubTo(&out, 2.0, w)
	assert.Equal(t, planar.Vec2{-19.0, -38.0}, out)
}

func TestNormalize(t *testing.T) {
	v, length := planar.NormalizeV(planar.Vec2{3.0, 4.0})
	assert.InDelta(t, 5.0, length, 1e-15)
	assert.InDelta(t, 0.6, v[0], 1e-15)
	assert.InDelta(t, 0.8, v[1], 1e-15)

	// Degenerate input returns length zero.
	_, length = planar.NormalizeV(planar.Vec2{})
	assert.Equal(t, 0.0, length)
}

func TestRotAndTransform(t *testing.T) {
	q := planar.MakeRot(math.Pi / 2.0)
	v := planar.MulRV(q, planar.Vec2{1.0, 0.0})
	assert.InDelta(t, 0.0, v[0], 1e-15)
	assert.InDelta(t, 1.0, v[1], 1e-15)

	// Inverse rotation undoes rotation.
	back := planar.MulTRV(q, v)
	assert.InDelta(t, 1.0, back[0], 1e-15)
	assert.InDelta(t, 0.0, back[1], 1e-15)

	var xf planar.Transform
	xf.Set(planar.Vec2{1.0, 2.0}, math.Pi/2.0)
	p := planar.MulXV(xf, planar.Vec2{1.0, 0.0})
	assert.InDelta(t, 1.0, p[0], 1e-15)
	assert.InDelta(t, 3.0, p[1], 1e-15)

	local := planar.MulTXV(xf, p)
	assert.InDelta(t, 1.0, local[0], 1e-15)
	assert.InDelta(t, 0.0, local[1], 1e-15)
}

func TestMat22Solve(t *testing.T) {
	m := planar.MakeMat22FromScalars(2.0, 1.0, 1.0, 3.0)
	b := planar.Vec2{5.0, 10.0}
	x := m.Solve(b)

	// Verify A * x = b.
	got := planar.MulMV(m, x)
	assert.InDelta(t, b[0], got[0], 1e-12)
	assert.InDelta(t, b[1], got[1], 1e-12)
}

func TestMat33Solve(t *testing.T) {
	m := planar.MakeMat33FromColumns(
		planar.Vec3{2.0, 1.0, 0.0},
		planar.Vec3{1.0, 3.0, 1.0},
		planar.Vec3{0.0, 1.0, 4.0},
	)
	b := planar.Vec3{1.0, 2.0, 3.0}
	x := m.Solve33(b)

	got := planar.MulM3V3(m, x)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, b[i], got[i], 1e-12)
	}
}

func TestSweepGetTransform(t *testing.T) {
	var sweep planar.Sweep
	sweep.C0 = planar.Vec2{0.0, 0.0}
	sweep.C = planar.Vec2{10.0, 0.0}
	sweep.A0 = 0.0
	sweep.A = math.Pi

	var xf planar.Transform
	sweep.GetTransform(&xf, 0.0)
	assert.InDelta(t, 0.0, xf.P[0], 1e-15)

	sweep.GetTransform(&xf, 1.0)
	assert.InDelta(t, 10.0, xf.P[0], 1e-12)
	assert.InDelta(t, math.Pi, xf.Q.GetAngle(), 1e-12)

	sweep.GetTransform(&xf, 0.5)
	assert.InDelta(t, 5.0, xf.P[0], 1e-12)
}

func TestSweepAdvance(t *testing.T) {
	var sweep planar.Sweep
	sweep.C0 = planar.Vec2{0.0, 0.0}
	sweep.C = planar.Vec2{8.0, 0.0}

	sweep.Advance(0.5)
	require.Equal(t, 0.5, sweep.Alpha0)
	assert.InDelta(t, 4.0, sweep.C0[0], 1e-12)
}
