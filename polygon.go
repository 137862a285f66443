package planar

// PolygonShape is a convex polygon. It is assumed that the interior of the
// polygon is to the left of each edge. Polygons have a maximum number of
// vertices equal to MaxPolygonVertices. In most cases you should not need
// many vertices for a convex polygon.
type PolygonShape struct {
	shape

	Centroid Vec2
	Vertices [MaxPolygonVertices]Vec2
	Normals  [MaxPolygonVertices]Vec2
	Count    int
}

func MakePolygonShape() PolygonShape {
	return PolygonShape{
		shape: shape{
			shapeType: ShapeTypePolygon,
			radius:    PolygonRadius,
		},
	}
}

func NewPolygonShape() *PolygonShape {
	res := MakePolygonShape()
	return &res
}

func (poly *PolygonShape) GetVertex(index int) Vec2 {
	assert(0 <= index && index < poly.Count)
	return poly.Vertices[index]
}

func (poly *PolygonShape) Clone() Shape {
	clone := *poly
	return &clone
}

// SetAsBox builds an axis-aligned box centered on the local origin with the
// given half-widths.
func (poly *PolygonShape) SetAsBox(hx, hy float64) {
	poly.Count = 4
	poly.Vertices[0] = Vec2{-hx, -hy}
	poly.Vertices[1] = Vec2{hx, -hy}
	poly.Vertices[2] = Vec2{hx, hy}
	poly.Vertices[3] = Vec2{-hx, hy}
	poly.Normals[0] = Vec2{0.0, -1.0}
	poly.Normals[1] = Vec2{1.0, 0.0}
	poly.Normals[2] = Vec2{0.0, 1.0}
	poly.Normals[3] = Vec2{-1.0, 0.0}
	poly.Centroid = Vec2{}
}

// SetAsOrientedBox builds a box positioned and rotated in the body frame.
func (poly *PolygonShape) SetAsOrientedBox(hx, hy float64, center Vec2, angle float64) {
	poly.SetAsBox(hx, hy)
	poly.Centroid = center

	xf := Transform{P: center}
	xf.Q.Set(angle)

	// Transform vertices and normals.
	for i := 0; i < poly.Count; i++ {
		poly.Vertices[i] = MulXV(xf, poly.Vertices[i])
		poly.Normals[i] = MulRV(xf.Q, poly.Normals[i])
	}
}

func (poly *PolygonShape) GetChildCount() int {
	return 1
}

// ComputeCentroid returns the area centroid of a simple polygon.
func ComputeCentroid(vs []Vec2) Vec2 {
	count := len(vs)
	assert(count >= 3)

	c := Vec2{}
	area := 0.0

	// pRef is the reference point for forming triangles. Its location does
	// not change the result, except for rounding error.
	pRef := Vec2{}
	for i := 0; i < count; i++ {
		pRef = AddVV(pRef, vs[i])
	}
	pRef = MulSV(1.0/float64(count), pRef)

	inv3 := 1.0 / 3.0

	for i := 0; i < count; i++ {
		// Triangle vertices.
		p1 := pRef
		p2 := vs[i]
		p3 := vs[0]
		if i+1 < count {
			p3 = vs[i+1]
		}

		e1 := SubVV(p2, p1)
		e2 := SubVV(p3, p1)

		d := CrossVV(e1, e2)

		triangleArea := 0.5 * d
		area += triangleArea

		// Area weighted centroid.
		c = MulAdd(c, triangleArea*inv3, AddVV(AddVV(p1, p2), p3))
	}

	assert(area > epsilon)
	return MulSV(1.0/area, c)
}

// Set builds a convex hull from the given points. The count of resulting
// hull vertices may be reduced: collinear points are merged and points too
// close together are welded. Degenerate input trips an assert.
func (poly *PolygonShape) Set(vertices []Vec2) {
	count := len(vertices)
	assert(3 <= count && count <= MaxPolygonVertices)
	if count < 3 {
		poly.SetAsBox(1.0, 1.0)
		return
	}

	n := minInt(count, MaxPolygonVertices)

	// Perform welding and copy vertices into a local buffer.
	var ps [MaxPolygonVertices]Vec2
	tempCount := 0

	for i := 0; i < n; i++ {
		v := vertices[i]

		unique := true
		for j := 0; j < tempCount; j++ {
			if DistanceSquaredVV(v, ps[j]) < (0.5*LinearSlop)*(0.5*LinearSlop) {
				unique = false
				break
			}
		}

		if unique {
			ps[tempCount] = v
			tempCount++
		}
	}

	n = tempCount
	if n < 3 {
		// Polygon is degenerate.
		assert(false)
		poly.SetAsBox(1.0, 1.0)
		return
	}

	// Create the convex hull using the gift wrapping algorithm.

	// Find the right-most point on the hull.
	i0 := 0
	x0 := ps[0][0]
	for i := 1; i < n; i++ {
		x := ps[i][0]
		if x > x0 || (x == x0 && ps[i][1] < ps[i0][1]) {
			i0 = i
			x0 = x
		}
	}

	var hull [MaxPolygonVertices]int
	m := 0
	ih := i0

	for {
		assert(m < MaxPolygonVertices)
		hull[m] = ih

		ie := 0
		for j := 1; j < n; j++ {
			if ie == ih {
				ie = j
				continue
			}

			r := SubVV(ps[ie], ps[hull[m]])
			v := SubVV(ps[j], ps[hull[m]])
			c := CrossVV(r, v)
			if c < 0.0 {
				ie = j
			}

			// Collinearity check.
			if c == 0.0 && LengthSquaredV(v) > LengthSquaredV(r) {
				ie = j
			}
		}

		m++
		ih = ie

		if ie == i0 {
			break
		}
	}

	if m < 3 {
		// Polygon is degenerate.
		assert(false)
		poly.SetAsBox(1.0, 1.0)
		return
	}

	poly.Count = m

	for i := 0; i < m; i++ {
		poly.Vertices[i] = ps[hull[i]]
	}

	// Compute normals. Ensure the edges have non-zero length.
	for i := 0; i < m; i++ {
		i1 := i
		i2 := 0
		if i+1 < m {
			i2 = i + 1
		}

		edge := SubVV(poly.Vertices[i2], poly.Vertices[i1])
		assert(LengthSquaredV(edge) > epsilon*epsilon)
		poly.Normals[i], _ = NormalizeV(CrossVS(edge, 1.0))
	}

	poly.Centroid = ComputeCentroid(poly.Vertices[:m])
}

func (poly *PolygonShape) TestPoint(xf Transform, p Vec2) bool {
	pLocal := MulTRV(xf.Q, SubVV(p, xf.P))

	for i := 0; i < poly.Count; i++ {
		dot := DotVV(poly.Normals[i], SubVV(pLocal, poly.Vertices[i]))
		if dot > 0.0 {
			return false
		}
	}

	return true
}

func (poly *PolygonShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform, childIndex int) bool {
	// Put the ray into the polygon's frame of reference.
	p1 := MulTRV(xf.Q, SubVV(input.P1, xf.P))
	p2 := MulTRV(xf.Q, SubVV(input.P2, xf.P))
	d := SubVV(p2, p1)

	lower := 0.0
	upper := input.MaxFraction

	index := -1

	for i := 0; i < poly.Count; i++ {
		// p = p1 + a * d
		// dot(normal, p - v) = 0
		// dot(normal, p1 - v) + a * dot(normal, d) = 0
		numerator := DotVV(poly.Normals[i], SubVV(poly.Vertices[i], p1))
		denominator := DotVV(poly.Normals[i], d)

		if denominator == 0.0 {
			if numerator < 0.0 {
				return false
			}
		} else {
			// We want the predicate without division:
			// lower < numerator / denominator, where denominator < 0.
			// Since denominator < 0, the inequality flips:
			// denominator * lower > numerator.
			if denominator < 0.0 && numerator < lower*denominator {
				// The segment enters this half-space.
				lower = numerator / denominator
				index = i
			} else if denominator > 0.0 && numerator < upper*denominator {
				// The segment exits this half-space.
				upper = numerator / denominator
			}
		}

		if upper < lower {
			return false
		}
	}

	assert(0.0 <= lower && lower <= input.MaxFraction)

	if index >= 0 {
		output.Fraction = lower
		output.Normal = MulRV(xf.Q, poly.Normals[index])
		return true
	}

	return false
}

func (poly *PolygonShape) ComputeAABB(aabb *AABB, xf Transform, childIndex int) {
	lower := MulXV(xf, poly.Vertices[0])
	upper := lower

	for i := 1; i < poly.Count; i++ {
		v := MulXV(xf, poly.Vertices[i])
		lower = MinV(lower, v)
		upper = MaxV(upper, v)
	}

	r := Vec2{poly.radius, poly.radius}
	aabb.LowerBound = SubVV(lower, r)
	aabb.UpperBound = AddVV(upper, r)
}

func (poly *PolygonShape) ComputeMass(massData *MassData, density float64) {
	// Polygon mass, centroid, and inertia.
	// Let rho be the polygon density in mass per unit area.
	// Then:
	// mass = rho * int(dA)
	// centroid.x = (1/mass) * rho * int(x * dA)
	// centroid.y = (1/mass) * rho * int(y * dA)
	// I = rho * int((x*x + y*y) * dA)
	//
	// We can compute these integrals by summing all the integrals
	// for each triangle of the polygon. To evaluate the integral
	// for a single triangle, we make a change of variables to
	// the (u,v) coordinates of the triangle:
	// x = x0 + e1x * u + e2x * v
	// y = y0 + e1y * u + e2y * v
	// where 0 <= u && 0 <= v && u + v <= 1.
	//
	// We integrate u from [0,1-v] and then v from [0,1].
	// We also need to use the Jacobian of the transformation:
	// D = cross(e1, e2)
	//
	// Simplification: triangle centroid = (1/3) * (p1 + p2 + p3)

	assert(poly.Count >= 3)

	center := Vec2{}
	area := 0.0
	inertia := 0.0

	// s is the reference point for forming triangles. Its location does not
	// change the result, except for rounding error.
	s := Vec2{}
	for i := 0; i < poly.Count; i++ {
		s = AddVV(s, poly.Vertices[i])
	}
	s = MulSV(1.0/float64(poly.Count), s)

	inv3 := 1.0 / 3.0

	for i := 0; i < poly.Count; i++ {
		// Triangle vertices.
		e1 := SubVV(poly.Vertices[i], s)
		e2 := SubVV(poly.Vertices[0], s)
		if i+1 < poly.Count {
			e2 = SubVV(poly.Vertices[i+1], s)
		}

		d := CrossVV(e1, e2)

		triangleArea := 0.5 * d
		area += triangleArea

		// Area weighted centroid.
		center = MulAdd(center, triangleArea*inv3, AddVV(e1, e2))

		ex1, ey1 := e1[0], e1[1]
		ex2, ey2 := e2[0], e2[1]

		intx2 := ex1*ex1 + ex2*ex1 + ex2*ex2
		inty2 := ey1*ey1 + ey2*ey1 + ey2*ey2

		inertia += (0.25 * inv3 * d) * (intx2 + inty2)
	}

	// Total mass.
	massData.Mass = density * area

	// Center of mass.
	assert(area > epsilon)
	center = MulSV(1.0/area, center)
	massData.Center = AddVV(center, s)

	// Inertia tensor relative to the local origin (point s), then shifted to
	// the center of mass and finally to the original body origin.
	massData.I = density * inertia
	massData.I += massData.Mass * (DotVV(massData.Center, massData.Center) - DotVV(center, center))
}

// Validate reports whether the polygon is convex with a counter-clockwise
// winding. This is a slow check meant for diagnostics.
func (poly *PolygonShape) Validate() bool {
	for i := 0; i < poly.Count; i++ {
		i1 := i
		i2 := 0
		if i < poly.Count-1 {
			i2 = i1 + 1
		}

		p := poly.Vertices[i1]
		e := SubVV(poly.Vertices[i2], p)

		for j := 0; j < poly.Count; j++ {
			if j == i1 || j == i2 {
				continue
			}

			v := SubVV(poly.Vertices[j], p)
			c := CrossVV(e, v)
			if c < 0.0 {
				return false
			}
		}
	}

	return true
}
