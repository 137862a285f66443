package planar

import (
	"math"
)

// IsValidFloat reports whether x is a usable coordinate (not NaN or infinity).
func IsValidFloat(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Vec2 is a 2D column vector stored as an ordered pair, indexable as
// v[0] (x) and v[1] (y). Vectors are plain data: all algebra lives in
// package-level functions so that any ordered-pair producer interoperates
// without conversion.
type Vec2 [2]float64

// Vec2zero is the zero vector.
var Vec2zero = Vec2{}

func MakeVec2(x, y float64) Vec2 {
	return Vec2{x, y}
}

func IsValidVec2(v Vec2) bool {
	return IsValidFloat(v[0]) && IsValidFloat(v[1])
}

// AddVV returns a + b.
func AddVV(a, b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

// SubVV returns a - b.
func SubVV(a, b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

// MulSV returns s * a.
func MulSV(s float64, a Vec2) Vec2 {
	return Vec2{s * a[0], s * a[1]}
}

// NegV returns -a.
func NegV(a Vec2) Vec2 {
	return Vec2{-a[0], -a[1]}
}

// DotVV performs the dot product on two vectors.
func DotVV(a, b Vec2) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// CrossVV performs the cross product on two vectors. In 2D this produces a
// scalar.
func CrossVV(a, b Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// CrossVS performs the cross product on a vector and a scalar. In 2D this
// produces a vector.
func CrossVS(a Vec2, s float64) Vec2 {
	return Vec2{s * a[1], -s * a[0]}
}

// CrossSV performs the cross product on a scalar and a vector. In 2D this
// produces a vector.
func CrossSV(s float64, a Vec2) Vec2 {
	return Vec2{-s * a[1], s * a[0]}
}

// SkewV returns the vector such that DotVV(SkewV(a), b) == CrossVV(a, b).
func SkewV(a Vec2) Vec2 {
	return Vec2{-a[1], a[0]}
}

// LengthV returns the norm of a.
func LengthV(a Vec2) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1])
}

// LengthSquaredV returns the squared norm of a. For performance, use this
// instead of LengthV when possible.
func LengthSquaredV(a Vec2) float64 {
	return a[0]*a[0] + a[1]*a[1]
}

// NormalizeV returns a scaled to unit length together with its original
// length. Vectors shorter than epsilon come back unchanged with length 0.
func NormalizeV(a Vec2) (Vec2, float64) {
	length := LengthV(a)
	if length < epsilon {
		return a, 0.0
	}

	invLength := 1.0 / length
	return Vec2{a[0] * invLength, a[1] * invLength}, length
}

func DistanceVV(a, b Vec2) float64 {
	return LengthV(SubVV(a, b))
}

func DistanceSquaredVV(a, b Vec2) float64 {
	c := SubVV(a, b)
	return DotVV(c, c)
}

func EqualsVV(a, b Vec2) bool {
	return a[0] == b[0] && a[1] == b[1]
}

func AbsV(a Vec2) Vec2 {
	return Vec2{math.Abs(a[0]), math.Abs(a[1])}
}

func MinV(a, b Vec2) Vec2 {
	return Vec2{math.Min(a[0], b[0]), math.Min(a[1], b[1])}
}

func MaxV(a, b Vec2) Vec2 {
	return Vec2{math.Max(a[0], b[0]), math.Max(a[1], b[1])}
}

func ClampV(a, low, high Vec2) Vec2 {
	return MaxV(low, MinV(a, high))
}

// MulAdd returns a + s*b, the fused form the integrators use.
func MulAdd(a Vec2, s float64, b Vec2) Vec2 {
	return Vec2{a[0] + s*b[0], a[1] + s*b[1]}
}

// Out-parameter forms. The velocity and position solvers run these in their
// inner loops; writing through the pointer keeps the iteration free of any
// per-step allocation regardless of how the compiler treats the value forms.

// AddVVTo writes a + b into out.
func AddVVTo(out *Vec2, a, b Vec2) {
	out[0] = a[0] + b[0]
	out[1] = a[1] + b[1]
}

// SubVVTo writes a - b into out.
func SubVVTo(out *Vec2, a, b Vec2) {
	out[0] = a[0] - b[0]
	out[1] = a[1] - b[1]
}

// MulSVTo writes s * a into out.
func MulSVTo(out *Vec2, s float64, a Vec2) {
	out[0] = s * a[0]
	out[1] = s * a[1]
}

// MulAddTo accumulates s * b onto out.
func MulAddTo(out *Vec2, s float64, b Vec2) {
	out[0] += s * b[0]
	out[1] += s * b[1]
}

// MulSubTo subtracts s * b from out.
func MulSubTo(out *Vec2, s float64, b Vec2) {
	out[0] -= s * b[0]
	out[1] -= s * b[1]
}

// Vec3 is a 2D column vector with 3 elements, used by the 3x3 joint solvers.
type Vec3 [3]float64

func MakeVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func AddV3V3(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func SubV3V3(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func MulSV3(s float64, a Vec3) Vec3 {
	return Vec3{s * a[0], s * a[1], s * a[2]}
}

func NegV3(a Vec3) Vec3 {
	return Vec3{-a[0], -a[1], -a[2]}
}

func DotV3V3(a, b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func CrossV3V3(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Mat22 is a 2-by-2 matrix stored in column-major order.
type Mat22 struct {
	Ex, Ey Vec2
}

func MakeMat22FromColumns(c1, c2 Vec2) Mat22 {
	return Mat22{Ex: c1, Ey: c2}
}

func MakeMat22FromScalars(a11, a12, a21, a22 float64) Mat22 {
	return Mat22{
		Ex: Vec2{a11, a21},
		Ey: Vec2{a12, a22},
	}
}

func (m *Mat22) SetIdentity() {
	m.Ex = Vec2{1.0, 0.0}
	m.Ey = Vec2{0.0, 1.0}
}

func (m *Mat22) SetZero() {
	m.Ex = Vec2{}
	m.Ey = Vec2{}
}

func (m Mat22) GetInverse() Mat22 {
	a := m.Ex[0]
	b := m.Ey[0]
	c := m.Ex[1]
	d := m.Ey[1]

	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}

	return Mat22{
		Ex: Vec2{det * d, -det * c},
		Ey: Vec2{-det * b, det * a},
	}
}

// Solve solves A * x = b, where b is a column vector. This is more efficient
// than computing the inverse in one-shot cases.
func (m Mat22) Solve(b Vec2) Vec2 {
	a11 := m.Ex[0]
	a12 := m.Ey[0]
	a21 := m.Ex[1]
	a22 := m.Ey[1]

	det := a11*a22 - a12*a21
	if det != 0.0 {
		det = 1.0 / det
	}

	return Vec2{
		det * (a22*b[0] - a12*b[1]),
		det * (a11*b[1] - a21*b[0]),
	}
}

// MulMV multiplies a matrix times a vector. If a rotation matrix is
// provided, this transforms the vector from one frame to another.
func MulMV(a Mat22, v Vec2) Vec2 {
	return Vec2{
		a.Ex[0]*v[0] + a.Ey[0]*v[1],
		a.Ex[1]*v[0] + a.Ey[1]*v[1],
	}
}

// MulTMV multiplies a matrix transpose times a vector (inverse transform for
// rotation matrices).
func MulTMV(a Mat22, v Vec2) Vec2 {
	return Vec2{DotVV(v, a.Ex), DotVV(v, a.Ey)}
}

func AddMM(a, b Mat22) Mat22 {
	return MakeMat22FromColumns(AddVV(a.Ex, b.Ex), AddVV(a.Ey, b.Ey))
}

// MulMM computes A * B.
func MulMM(a, b Mat22) Mat22 {
	return MakeMat22FromColumns(MulMV(a, b.Ex), MulMV(a, b.Ey))
}

// MulTMM computes A^T * B.
func MulTMM(a, b Mat22) Mat22 {
	c1 := Vec2{DotVV(a.Ex, b.Ex), DotVV(a.Ey, b.Ex)}
	c2 := Vec2{DotVV(a.Ex, b.Ey), DotVV(a.Ey, b.Ey)}
	return MakeMat22FromColumns(c1, c2)
}

func AbsM(a Mat22) Mat22 {
	return MakeMat22FromColumns(AbsV(a.Ex), AbsV(a.Ey))
}

// Mat33 is a 3-by-3 matrix stored in column-major order.
type Mat33 struct {
	Ex, Ey, Ez Vec3
}

func MakeMat33FromColumns(c1, c2, c3 Vec3) Mat33 {
	return Mat33{Ex: c1, Ey: c2, Ez: c3}
}

func (m *Mat33) SetZero() {
	m.Ex = Vec3{}
	m.Ey = Vec3{}
	m.Ez = Vec3{}
}

// MulM3V3 multiplies a matrix times a vector.
func MulM3V3(a Mat33, v Vec3) Vec3 {
	return AddV3V3(
		AddV3V3(MulSV3(v[0], a.Ex), MulSV3(v[1], a.Ey)),
		MulSV3(v[2], a.Ez),
	)
}

// MulM3V2 multiplies the upper-left 2x2 block times a vector.
func MulM3V2(a Mat33, v Vec2) Vec2 {
	return Vec2{
		a.Ex[0]*v[0] + a.Ey[0]*v[1],
		a.Ex[1]*v[0] + a.Ey[1]*v[1],
	}
}

// Solve33 solves A * x = b, where b is a column vector. This is more
// efficient than computing the inverse in one-shot cases.
func (m Mat33) Solve33(b Vec3) Vec3 {
	det := DotV3V3(m.Ex, CrossV3V3(m.Ey, m.Ez))
	if det != 0.0 {
		det = 1.0 / det
	}

	return Vec3{
		det * DotV3V3(b, CrossV3V3(m.Ey, m.Ez)),
		det * DotV3V3(m.Ex, CrossV3V3(b, m.Ez)),
		det * DotV3V3(m.Ex, CrossV3V3(m.Ey, b)),
	}
}

// Solve22 solves A * x = b using only the upper-left 2x2 block of A.
func (m Mat33) Solve22(b Vec2) Vec2 {
	a11 := m.Ex[0]
	a12 := m.Ey[0]
	a21 := m.Ex[1]
	a22 := m.Ey[1]

	det := a11*a22 - a12*a21
	if det != 0.0 {
		det = 1.0 / det
	}

	return Vec2{
		det * (a22*b[0] - a12*b[1]),
		det * (a11*b[1] - a21*b[0]),
	}
}

// GetInverse22 writes the inverse of the upper-left 2x2 block into out,
// zeroing the rest.
func (m Mat33) GetInverse22(out *Mat33) {
	a := m.Ex[0]
	b := m.Ey[0]
	c := m.Ex[1]
	d := m.Ey[1]

	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}

	out.Ex = Vec3{det * d, -det * c, 0.0}
	out.Ey = Vec3{-det * b, det * a, 0.0}
	out.Ez = Vec3{}
}

// GetSymInverse33 writes the symmetric inverse into out. Returns the zero
// matrix if singular.
func (m Mat33) GetSymInverse33(out *Mat33) {
	det := DotV3V3(m.Ex, CrossV3V3(m.Ey, m.Ez))
	if det != 0.0 {
		det = 1.0 / det
	}

	a11 := m.Ex[0]
	a12 := m.Ey[0]
	a13 := m.Ez[0]
	a22 := m.Ey[1]
	a23 := m.Ez[1]
	a33 := m.Ez[2]

	out.Ex = Vec3{
		det * (a22*a33 - a23*a23),
		det * (a13*a23 - a12*a33),
		det * (a12*a23 - a13*a22),
	}
	out.Ey = Vec3{
		out.Ex[1],
		det * (a11*a33 - a13*a13),
		det * (a13*a12 - a11*a23),
	}
	out.Ez = Vec3{
		out.Ex[2],
		out.Ey[2],
		det * (a11*a22 - a12*a12),
	}
}

// Rot is a rotation stored as its sine and cosine.
type Rot struct {
	S, C float64
}

// MakeRot initializes from an angle in radians.
func MakeRot(angle float64) Rot {
	return Rot{
		S: math.Sin(angle),
		C: math.Cos(angle),
	}
}

// Set replaces the rotation using an angle in radians.
func (q *Rot) Set(angle float64) {
	q.S = math.Sin(angle)
	q.C = math.Cos(angle)
}

func (q *Rot) SetIdentity() {
	q.S = 0.0
	q.C = 1.0
}

// GetAngle returns the angle in radians.
func (q Rot) GetAngle() float64 {
	return math.Atan2(q.S, q.C)
}

// GetXAxis returns the rotated x-axis.
func (q Rot) GetXAxis() Vec2 {
	return Vec2{q.C, q.S}
}

// GetYAxis returns the rotated y-axis.
func (q Rot) GetYAxis() Vec2 {
	return Vec2{-q.S, q.C}
}

// MulRR multiplies two rotations: q * r.
func MulRR(q, r Rot) Rot {
	return Rot{
		S: q.S*r.C + q.C*r.S,
		C: q.C*r.C - q.S*r.S,
	}
}

// MulTRR transpose-multiplies two rotations: qT * r.
func MulTRR(q, r Rot) Rot {
	return Rot{
		S: q.C*r.S - q.S*r.C,
		C: q.C*r.C + q.S*r.S,
	}
}

// MulRV rotates a vector.
func MulRV(q Rot, v Vec2) Vec2 {
	return Vec2{
		q.C*v[0] - q.S*v[1],
		q.S*v[0] + q.C*v[1],
	}
}

// MulTRV inverse-rotates a vector.
func MulTRV(q Rot, v Vec2) Vec2 {
	return Vec2{
		q.C*v[0] + q.S*v[1],
		-q.S*v[0] + q.C*v[1],
	}
}

// Transform contains translation and rotation. It represents the position and
// orientation of a rigid frame.
type Transform struct {
	P Vec2
	Q Rot
}

func MakeTransform() Transform {
	var xf Transform
	xf.Q.SetIdentity()
	return xf
}

func MakeTransformFromPositionAndRotation(position Vec2, rotation Rot) Transform {
	return Transform{P: position, Q: rotation}
}

func (t *Transform) SetIdentity() {
	t.P = Vec2{}
	t.Q.SetIdentity()
}

// Set replaces the transform from a position and an angle in radians.
func (t *Transform) Set(position Vec2, angle float64) {
	t.P = position
	t.Q.Set(angle)
}

// MulXV applies the transform to a point: rotate then translate.
func MulXV(t Transform, v Vec2) Vec2 {
	return Vec2{
		t.Q.C*v[0] - t.Q.S*v[1] + t.P[0],
		t.Q.S*v[0] + t.Q.C*v[1] + t.P[1],
	}
}

// MulTXV applies the inverse transform to a point.
func MulTXV(t Transform, v Vec2) Vec2 {
	px := v[0] - t.P[0]
	py := v[1] - t.P[1]
	return Vec2{
		t.Q.C*px + t.Q.S*py,
		-t.Q.S*px + t.Q.C*py,
	}
}

func MulXX(a, b Transform) Transform {
	return Transform{
		P: AddVV(MulRV(a.Q, b.P), a.P),
		Q: MulRR(a.Q, b.Q),
	}
}

func MulTXX(a, b Transform) Transform {
	return Transform{
		P: MulTRV(a.Q, SubVV(b.P, a.P)),
		Q: MulTRR(a.Q, b.Q),
	}
}

// Sweep describes the motion of a body/shape for TOI computation. Shapes are
// defined with respect to the body origin, which may not coincide with the
// center of mass. However, to support dynamics we must interpolate the center
// of mass position.
type Sweep struct {
	LocalCenter Vec2 // local center of mass position
	C0, C       Vec2 // center world positions
	A0, A       float64

	// Fraction of the current time step in the range [0,1].
	// C0 and A0 are the positions at Alpha0.
	Alpha0 float64
}

// GetTransform writes the interpolated transform at a particular time into
// xf, where beta is a factor in [0,1] and alpha0 indicates the beginning of
// the sweep interval.
func (sweep Sweep) GetTransform(xf *Transform, beta float64) {
	xf.P = AddVV(MulSV(1.0-beta, sweep.C0), MulSV(beta, sweep.C))
	xf.Q.Set((1.0-beta)*sweep.A0 + beta*sweep.A)

	// Shift to origin.
	SubVVTo(&xf.P, xf.P, MulRV(xf.Q, sweep.LocalCenter))
}

// Advance moves the sweep forward, yielding a new initial state.
// alpha is the new Alpha0.
func (sweep *Sweep) Advance(alpha float64) {
	assert(sweep.Alpha0 < 1.0)
	beta := (alpha - sweep.Alpha0) / (1.0 - sweep.Alpha0)
	MulAddTo(&sweep.C0, beta, SubVV(sweep.C, sweep.C0))
	sweep.A0 += beta * (sweep.A - sweep.A0)
	sweep.Alpha0 = alpha
}

// Normalize brings the sweep angles back into [-2*pi, 2*pi] so that
// trigonometry stays accurate over long runs.
func (sweep *Sweep) Normalize() {
	twoPi := 2.0 * pi
	d := twoPi * math.Floor(sweep.A0/twoPi)
	sweep.A0 -= d
	sweep.A -= d
}

func clampFloat(a, low, high float64) float64 {
	return math.Max(low, math.Min(a, high))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
