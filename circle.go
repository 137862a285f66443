package planar

import (
	"math"
)

// CircleShape is a solid circle with a local center offset.
type CircleShape struct {
	shape

	// P is the position of the circle center in the parent body frame.
	P Vec2
}

func MakeCircleShape(radius float64) CircleShape {
	return CircleShape{
		shape: shape{
			shapeType: ShapeTypeCircle,
			radius:    radius,
		},
	}
}

func NewCircleShape(radius float64) *CircleShape {
	res := MakeCircleShape(radius)
	return &res
}

func (s *CircleShape) Clone() Shape {
	clone := *s
	return &clone
}

func (s *CircleShape) GetChildCount() int {
	return 1
}

func (s *CircleShape) TestPoint(xf Transform, p Vec2) bool {
	center := AddVV(xf.P, MulRV(xf.Q, s.P))
	d := SubVV(p, center)
	return DotVV(d, d) <= s.radius*s.radius
}

// RayCast solves the quadratic from Collision Detection in Interactive 3D
// Environments, section 3.1.2:
//
//	x = s + a * r
//	norm(x) = radius
func (s *CircleShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform, childIndex int) bool {
	position := AddVV(xf.P, MulRV(xf.Q, s.P))
	sv := SubVV(input.P1, position)
	b := DotVV(sv, sv) - s.radius*s.radius

	r := SubVV(input.P2, input.P1)
	c := DotVV(sv, r)
	rr := DotVV(r, r)
	sigma := c*c - rr*b

	// Check for negative discriminant and short segment.
	if sigma < 0.0 || rr < epsilon {
		return false
	}

	// Find the point of intersection of the line with the circle.
	a := -(c + math.Sqrt(sigma))

	// Is the intersection point on the segment?
	if 0.0 <= a && a <= input.MaxFraction*rr {
		a /= rr
		output.Fraction = a
		output.Normal, _ = NormalizeV(MulAdd(sv, a, r))
		return true
	}

	return false
}

func (s *CircleShape) ComputeAABB(aabb *AABB, xf Transform, childIndex int) {
	p := AddVV(xf.P, MulRV(xf.Q, s.P))
	aabb.LowerBound = Vec2{p[0] - s.radius, p[1] - s.radius}
	aabb.UpperBound = Vec2{p[0] + s.radius, p[1] + s.radius}
}

func (s *CircleShape) ComputeMass(massData *MassData, density float64) {
	massData.Mass = density * pi * s.radius * s.radius
	massData.Center = s.P

	// Inertia about the local origin.
	massData.I = massData.Mass * (0.5*s.radius*s.radius + DotVV(s.P, s.P))
}
