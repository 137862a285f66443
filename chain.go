package planar

// ChainShape is a free form sequence of line segments. The chain has
// two-sided collision, so you may use any winding order. Connectivity
// information is used to create smooth collisions.
//
// The chain will not collide properly if there are self-intersections.
type ChainShape struct {
	shape

	// The vertices, owned by the shape.
	Vertices []Vec2

	PrevVertex, NextVertex       Vec2
	HasPrevVertex, HasNextVertex bool
}

func MakeChainShape() ChainShape {
	return ChainShape{
		shape: shape{
			shapeType: ShapeTypeChain,
			radius:    PolygonRadius,
		},
	}
}

func NewChainShape() *ChainShape {
	res := MakeChainShape()
	return &res
}

// CreateLoop creates a loop: the last vertex is connected back to the first.
// Vertices must be distinct by more than LinearSlop.
func (s *ChainShape) CreateLoop(vertices []Vec2) {
	assert(s.Vertices == nil)
	assert(len(vertices) >= 3)
	if len(vertices) < 3 {
		return
	}

	for i := 1; i < len(vertices); i++ {
		// If this fires, the vertices are too close together.
		assert(DistanceSquaredVV(vertices[i-1], vertices[i]) > LinearSlop*LinearSlop)
	}

	count := len(vertices)
	s.Vertices = make([]Vec2, count+1)
	copy(s.Vertices, vertices)
	s.Vertices[count] = s.Vertices[0]
	s.PrevVertex = s.Vertices[count-1]
	s.NextVertex = s.Vertices[1]
	s.HasPrevVertex = true
	s.HasNextVertex = true
}

// CreateChain creates an open chain with two internal ghost vertices left
// unset; use SetPrevVertex and SetNextVertex to connect to adjacent chains.
func (s *ChainShape) CreateChain(vertices []Vec2) {
	assert(s.Vertices == nil)
	assert(len(vertices) >= 2)
	for i := 1; i < len(vertices); i++ {
		// If this fires, the vertices are too close together.
		assert(DistanceSquaredVV(vertices[i-1], vertices[i]) > LinearSlop*LinearSlop)
	}

	s.Vertices = make([]Vec2, len(vertices))
	copy(s.Vertices, vertices)

	s.HasPrevVertex = false
	s.HasNextVertex = false
	s.PrevVertex = Vec2{}
	s.NextVertex = Vec2{}
}

// SetPrevVertex establishes connectivity to a vertex that precedes the first
// vertex. Only meaningful for open chains.
func (s *ChainShape) SetPrevVertex(prevVertex Vec2) {
	s.PrevVertex = prevVertex
	s.HasPrevVertex = true
}

// SetNextVertex establishes connectivity to a vertex that follows the last
// vertex. Only meaningful for open chains.
func (s *ChainShape) SetNextVertex(nextVertex Vec2) {
	s.NextVertex = nextVertex
	s.HasNextVertex = true
}

func (s *ChainShape) Clone() Shape {
	clone := MakeChainShape()
	clone.Vertices = make([]Vec2, len(s.Vertices))
	copy(clone.Vertices, s.Vertices)
	clone.PrevVertex = s.PrevVertex
	clone.NextVertex = s.NextVertex
	clone.HasPrevVertex = s.HasPrevVertex
	clone.HasNextVertex = s.HasNextVertex
	return &clone
}

func (s *ChainShape) GetChildCount() int {
	// edge count = vertex count - 1
	return len(s.Vertices) - 1
}

// GetChildEdge writes a child edge, including the adjacency the neighboring
// vertices provide.
func (s *ChainShape) GetChildEdge(edge *EdgeShape, index int) {
	count := len(s.Vertices)
	assert(0 <= index && index < count-1)

	edge.shapeType = ShapeTypeEdge
	edge.radius = s.radius

	edge.Vertex1 = s.Vertices[index+0]
	edge.Vertex2 = s.Vertices[index+1]

	if index > 0 {
		edge.Vertex0 = s.Vertices[index-1]
		edge.HasVertex0 = true
	} else {
		edge.Vertex0 = s.PrevVertex
		edge.HasVertex0 = s.HasPrevVertex
	}

	if index < count-2 {
		edge.Vertex3 = s.Vertices[index+2]
		edge.HasVertex3 = true
	} else {
		edge.Vertex3 = s.NextVertex
		edge.HasVertex3 = s.HasNextVertex
	}
}

func (s *ChainShape) TestPoint(xf Transform, p Vec2) bool {
	return false
}

func (s *ChainShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform, childIndex int) bool {
	count := len(s.Vertices)
	assert(childIndex < count)

	edge := MakeEdgeShape()

	i1 := childIndex
	i2 := childIndex + 1
	if i2 == count {
		i2 = 0
	}

	edge.Vertex1 = s.Vertices[i1]
	edge.Vertex2 = s.Vertices[i2]

	return edge.RayCast(output, input, xf, 0)
}

func (s *ChainShape) ComputeAABB(aabb *AABB, xf Transform, childIndex int) {
	count := len(s.Vertices)
	assert(childIndex < count)

	i1 := childIndex
	i2 := childIndex + 1
	if i2 == count {
		i2 = 0
	}

	v1 := MulXV(xf, s.Vertices[i1])
	v2 := MulXV(xf, s.Vertices[i2])

	aabb.LowerBound = MinV(v1, v2)
	aabb.UpperBound = MaxV(v1, v2)
}

// ComputeMass: chains have no volume and are intended for static geometry.
func (s *ChainShape) ComputeMass(massData *MassData, density float64) {
	massData.Mass = 0.0
	massData.Center = Vec2{}
	massData.I = 0.0
}
