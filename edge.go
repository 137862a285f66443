package planar

// EdgeShape is a line segment. Edges can be connected in chains or loops to
// other edge shapes. The connectivity information is used to ensure correct
// contact normals.
type EdgeShape struct {
	shape

	// The edge vertices.
	Vertex1, Vertex2 Vec2

	// Optional adjacent vertices, used for smooth collision.
	Vertex0, Vertex3       Vec2
	HasVertex0, HasVertex3 bool
}

func MakeEdgeShape() EdgeShape {
	return EdgeShape{
		shape: shape{
			shapeType: ShapeTypeEdge,
			radius:    PolygonRadius,
		},
	}
}

func NewEdgeShape() *EdgeShape {
	res := MakeEdgeShape()
	return &res
}

// Set replaces the segment with isolated end points (no adjacency).
func (s *EdgeShape) Set(v1, v2 Vec2) {
	s.Vertex1 = v1
	s.Vertex2 = v2
	s.HasVertex0 = false
	s.HasVertex3 = false
}

func (s *EdgeShape) Clone() Shape {
	clone := *s
	return &clone
}

func (s *EdgeShape) GetChildCount() int {
	return 1
}

func (s *EdgeShape) TestPoint(xf Transform, p Vec2) bool {
	return false
}

// RayCast intersects the ray with the segment:
//
//	p = p1 + t * d
//	v = v1 + s * e
//	p1 + t * d = v1 + s * e
//	s * e - t * d = p1 - v1
func (s *EdgeShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform, childIndex int) bool {
	// Put the ray into the edge's frame of reference.
	p1 := MulTRV(xf.Q, SubVV(input.P1, xf.P))
	p2 := MulTRV(xf.Q, SubVV(input.P2, xf.P))
	d := SubVV(p2, p1)

	v1 := s.Vertex1
	v2 := s.Vertex2
	e := SubVV(v2, v1)
	normal, _ := NormalizeV(Vec2{e[1], -e[0]})

	// q = p1 + t * d
	// dot(normal, q - v1) = 0
	// dot(normal, p1 - v1) + t * dot(normal, d) = 0
	numerator := DotVV(normal, SubVV(v1, p1))
	denominator := DotVV(normal, d)

	if denominator == 0.0 {
		return false
	}

	t := numerator / denominator
	if t < 0.0 || input.MaxFraction < t {
		return false
	}

	q := MulAdd(p1, t, d)

	// q = v1 + s * r
	// s = dot(q - v1, r) / dot(r, r)
	r := SubVV(v2, v1)
	rr := DotVV(r, r)
	if rr == 0.0 {
		return false
	}

	fraction := DotVV(SubVV(q, v1), r) / rr
	if fraction < 0.0 || 1.0 < fraction {
		return false
	}

	output.Fraction = t
	if numerator > 0.0 {
		output.Normal = NegV(MulRV(xf.Q, normal))
	} else {
		output.Normal = MulRV(xf.Q, normal)
	}

	return true
}

func (s *EdgeShape) ComputeAABB(aabb *AABB, xf Transform, childIndex int) {
	v1 := MulXV(xf, s.Vertex1)
	v2 := MulXV(xf, s.Vertex2)

	lower := MinV(v1, v2)
	upper := MaxV(v1, v2)

	r := Vec2{s.radius, s.radius}
	aabb.LowerBound = SubVV(lower, r)
	aabb.UpperBound = AddVV(upper, r)
}

func (s *EdgeShape) ComputeMass(massData *MassData, density float64) {
	massData.Mass = 0.0
	massData.Center = MulSV(0.5, AddVV(s.Vertex1, s.Vertex2))
	massData.I = 0.0
}
