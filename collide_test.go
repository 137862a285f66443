package planar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planarphys/planar"
)

func TestCollideCircles(t *testing.T) {
	circleA := planar.NewCircleShape(1.0)
	circleB := planar.NewCircleShape(1.0)

	xfA := planar.MakeTransform()
	xfB := planar.MakeTransform()
	xfB.P = planar.Vec2{1.5, 0.0}

	var manifold planar.Manifold
	planar.CollideCircles(&manifold, circleA, xfA, circleB, xfB)

	require.Equal(t, 1, manifold.PointCount)
	assert.Equal(t, planar.ManifoldCircles, manifold.Type)

	var wm planar.WorldManifold
	wm.Initialize(&manifold, xfA, circleA.GetRadius(), xfB, circleB.GetRadius())

	// Normal points from A to B.
	assert.InDelta(t, 1.0, wm.Normal[0], 1e-12)
	assert.InDelta(t, 0.0, wm.Normal[1], 1e-12)
	assert.InDelta(t, -0.5, wm.Separations[0], 1e-12)

	// Separated circles produce no points.
	xfB.P = planar.Vec2{3.0, 0.0}
	planar.CollideCircles(&manifold, circleA, xfA, circleB, xfB)
	assert.Equal(t, 0, manifold.PointCount)
}

func TestCollidePolygonAndCircle(t *testing.T) {
	box := planar.NewPolygonShape()
	box.SetAsBox(1.0, 1.0)
	circle := planar.NewCircleShape(0.5)

	xfA := planar.MakeTransform()
	xfB := planar.MakeTransform()
	xfB.P = planar.Vec2{1.3, 0.0}

	var manifold planar.Manifold
	planar.CollidePolygonAndCircle(&manifold, box, xfA, circle, xfB)

	require.Equal(t, 1, manifold.PointCount)
	assert.Equal(t, planar.ManifoldFaceA, manifold.Type)

	var wm planar.WorldManifold
	wm.Initialize(&manifold, xfA, box.GetRadius(), xfB, circle.GetRadius())
	assert.InDelta(t, 1.0, wm.Normal[0], 1e-12)
	assert.Less(t, wm.Separations[0], 0.0)
}

func TestCollidePolygonsTwoPointManifold(t *testing.T) {
	boxA := planar.NewPolygonShape()
	boxA.SetAsBox(1.0, 1.0)
	boxB := planar.NewPolygonShape()
	boxB.SetAsBox(1.0, 1.0)

	xfA := planar.MakeTransform()
	xfB := planar.MakeTransform()
	xfB.P = planar.Vec2{1.9, 0.0}

	var manifold planar.Manifold
	planar.CollidePolygons(&manifold, boxA, xfA, boxB, xfB)

	// Face-to-face overlap yields the full two point manifold.
	require.Equal(t, 2, manifold.PointCount)

	var wm planar.WorldManifold
	wm.Initialize(&manifold, xfA, boxA.GetRadius(), xfB, boxB.GetRadius())
	assert.InDelta(t, 1.0, wm.Normal[0], 1e-9)

	// Feature ids are distinct so impulses can be matched across steps.
	assert.NotEqual(t, manifold.Points[0].Id.Key(), manifold.Points[1].Id.Key())
}

func TestCollideEdgeAndCircleGhostVertexSuppression(t *testing.T) {
	// Chain segment with a neighbor on the A side: a circle sitting past
	// the shared vertex must not collide with this segment, the neighbor
	// owns that region.
	edge := planar.NewEdgeShape()
	edge.Set(planar.Vec2{0.0, 0.0}, planar.Vec2{2.0, 0.0})
	edge.Vertex0 = planar.Vec2{-2.0, 0.0}
	edge.HasVertex0 = true

	circle := planar.NewCircleShape(0.5)

	xfA := planar.MakeTransform()
	xfB := planar.MakeTransform()
	xfB.P = planar.Vec2{-0.4, 0.3}

	var manifold planar.Manifold
	planar.CollideEdgeAndCircle(&manifold, edge, xfA, circle, xfB)
	assert.Equal(t, 0, manifold.PointCount)

	// Without the adjacency the same circle hits the end vertex.
	edge.HasVertex0 = false
	planar.CollideEdgeAndCircle(&manifold, edge, xfA, circle, xfB)
	assert.Equal(t, 1, manifold.PointCount)
}

func TestCollideEdgeAndPolygon(t *testing.T) {
	edge := planar.NewEdgeShape()
	edge.Set(planar.Vec2{-2.0, 0.0}, planar.Vec2{2.0, 0.0})

	box := planar.NewPolygonShape()
	box.SetAsBox(0.5, 0.5)

	xfA := planar.MakeTransform()
	xfB := planar.MakeTransform()
	xfB.P = planar.Vec2{0.0, 0.49}

	var manifold planar.Manifold
	planar.CollideEdgeAndPolygon(&manifold, edge, xfA, box, xfB)

	require.Equal(t, 2, manifold.PointCount)

	var wm planar.WorldManifold
	wm.Initialize(&manifold, xfA, edge.GetRadius(), xfB, box.GetRadius())
	assert.InDelta(t, 0.0, wm.Normal[0], 1e-9)
	assert.InDelta(t, 1.0, wm.Normal[1], 1e-9)
}

func TestGetPointStates(t *testing.T) {
	var m1, m2 planar.Manifold
	m1.PointCount = 1
	m1.Points[0].Id.SetKey(7)

	m2.PointCount = 2
	m2.Points[0].Id.SetKey(7)
	m2.Points[1].Id.SetKey(9)

	var state1, state2 [planar.MaxManifoldPoints]uint8
	planar.GetPointStates(&state1, &state2, &m1, &m2)

	assert.Equal(t, planar.PointStatePersist, state1[0])
	assert.Equal(t, planar.PointStatePersist, state2[0])
	assert.Equal(t, planar.PointStateAdd, state2[1])
}

func TestClipSegmentToLine(t *testing.T) {
	vIn := []planar.ClipVertex{
		{V: planar.Vec2{-1.0, 0.0}},
		{V: planar.Vec2{1.0, 0.0}},
	}
	vOut := make([]planar.ClipVertex, 2)

	// Clip against x <= 0.5.
	np := planar.ClipSegmentToLine(vOut, vIn, planar.Vec2{1.0, 0.0}, 0.5, 0)
	require.Equal(t, 2, np)
	assert.Equal(t, planar.Vec2{-1.0, 0.0}, vOut[0].V)
	assert.InDelta(t, 0.5, vOut[1].V[0], 1e-12)
}

// Ray casting a shape and its AABB must agree on clear hits and misses.
func TestShapeRayCastAgreesWithAABB(t *testing.T) {
	shapes := []planar.Shape{
		planar.NewCircleShape(1.0),
		func() planar.Shape {
			p := planar.NewPolygonShape()
			p.SetAsBox(1.0, 1.0)
			return p
		}(),
	}

	xf := planar.MakeTransform()

	rays := []struct {
		p1, p2 planar.Vec2
		hit    bool
	}{
		{planar.Vec2{-5.0, 0.0}, planar.Vec2{5.0, 0.0}, true},
		{planar.Vec2{-5.0, 3.0}, planar.Vec2{5.0, 3.0}, false},
		{planar.Vec2{0.0, 5.0}, planar.Vec2{0.0, -5.0}, true},
	}

	for _, shape := range shapes {
		var aabb planar.AABB
		shape.ComputeAABB(&aabb, xf, 0)

		for _, ray := range rays {
			input := planar.RayCastInput{P1: ray.p1, P2: ray.p2, MaxFraction: 1.0}

			var shapeOut, aabbOut planar.RayCastOutput
			shapeHit := shape.RayCast(&shapeOut, input, xf, 0)
			aabbHit := aabb.RayCast(&aabbOut, input)

			assert.Equal(t, ray.hit, shapeHit)
			if shapeHit {
				// The shape cannot be hit before its bounding box.
				assert.True(t, aabbHit)
				assert.LessOrEqual(t, aabbOut.Fraction, shapeOut.Fraction+1e-6)
			}
		}
	}
}

func TestPolygonSetBuildsConvexHull(t *testing.T) {
	poly := planar.NewPolygonShape()
	poly.Set([]planar.Vec2{
		{0.0, 0.0},
		{1.0, 0.0},
		{1.0, 1.0},
		{0.0, 1.0},
	})

	assert.Equal(t, 4, poly.Count)
	assert.True(t, poly.Validate())

	centroid := poly.Centroid
	assert.InDelta(t, 0.5, centroid[0], 1e-12)
	assert.InDelta(t, 0.5, centroid[1], 1e-12)
}

func TestShapeMassProperties(t *testing.T) {
	circle := planar.NewCircleShape(2.0)
	circle.P = planar.Vec2{1.0, 0.0}

	var md planar.MassData
	circle.ComputeMass(&md, 1.0)
	assert.InDelta(t, 4.0*3.14159265358979, md.Mass, 1e-6)
	assert.Equal(t, planar.Vec2{1.0, 0.0}, md.Center)

	box := planar.NewPolygonShape()
	box.SetAsBox(0.5, 0.5)
	box.ComputeMass(&md, 2.0)
	assert.InDelta(t, 2.0, md.Mass, 1e-12)
	assert.InDelta(t, 0.0, md.Center[0], 1e-12)

	// A 1x1 box of mass 2 about its center: I = m*(w^2+h^2)/12.
	assert.InDelta(t, 2.0*(1.0+1.0)/12.0, md.I, 1e-12)
}

func TestChainChildEdges(t *testing.T) {
	chain := planar.NewChainShape()
	chain.CreateChain([]planar.Vec2{
		{0.0, 0.0},
		{1.0, 0.0},
		{2.0, 0.5},
		{3.0, 0.0},
	})

	require.Equal(t, 3, chain.GetChildCount())

	var edge planar.EdgeShape
	chain.GetChildEdge(&edge, 1)
	assert.Equal(t, planar.Vec2{1.0, 0.0}, edge.Vertex1)
	assert.Equal(t, planar.Vec2{2.0, 0.5}, edge.Vertex2)
	assert.True(t, edge.HasVertex0)
	assert.True(t, edge.HasVertex3)
	assert.Equal(t, planar.Vec2{0.0, 0.0}, edge.Vertex0)
	assert.Equal(t, planar.Vec2{3.0, 0.0}, edge.Vertex3)

	// End segments have one-sided adjacency on an open chain.
	chain.GetChildEdge(&edge, 0)
	assert.False(t, edge.HasVertex0)
	assert.True(t, edge.HasVertex3)
}
