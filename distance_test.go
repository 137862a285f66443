package planar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/planarphys/planar"
)

func circleDistance(t *testing.T, xB float64) planar.DistanceOutput {
	t.Helper()

	circleA := planar.NewCircleShape(1.0)
	circleB := planar.NewCircleShape(1.0)

	var input planar.DistanceInput
	input.ProxyA.Set(circleA, 0)
	input.ProxyB.Set(circleB, 0)
	input.TransformA = planar.MakeTransform()
	input.TransformB = planar.MakeTransform()
	input.TransformB.P = planar.Vec2{xB, 0.0}
	input.UseRadii = true

	var cache planar.SimplexCache
	var output planar.DistanceOutput
	planar.Distance(&output, &cache, &input)
	return output
}

func TestDistanceOverlappingCircles(t *testing.T) {
	// Unit circles at (0,0) and (1.9,0): the radii overlap, so the
	// distance collapses to zero and the witness points coincide.
	output := circleDistance(t, 1.9)

	assert.Equal(t, 0.0, output.Distance)
	assert.Equal(t, output.PointA, output.PointB)
}

func TestDistanceSeparatedCircles(t *testing.T) {
	// Same pair at (2.1,0): gap of 0.1 between the surfaces.
	output := circleDistance(t, 2.1)

	assert.InDelta(t, 0.1, output.Distance, 1e-12)
	assert.InDelta(t, 1.0, output.PointA[0], 1e-12)
	assert.InDelta(t, 1.1, output.PointB[0], 1e-12)
}

func TestDistancePolygonPair(t *testing.T) {
	boxA := planar.NewPolygonShape()
	boxA.SetAsBox(0.5, 0.5)
	boxB := planar.NewPolygonShape()
	boxB.SetAsBox(0.5, 0.5)

	var input planar.DistanceInput
	input.ProxyA.Set(boxA, 0)
	input.ProxyB.Set(boxB, 0)
	input.TransformA = planar.MakeTransform()
	input.TransformB = planar.MakeTransform()
	input.TransformB.P = planar.Vec2{3.0, 0.0}

	var cache planar.SimplexCache
	var output planar.DistanceOutput
	planar.Distance(&output, &cache, &input)

	assert.InDelta(t, 2.0, output.Distance, 1e-12)

	// Warm started re-query converges immediately to the same result.
	var output2 planar.DistanceOutput
	planar.Distance(&output2, &cache, &input)
	assert.Equal(t, output.Distance, output2.Distance)
}

func TestDistanceProxySupport(t *testing.T) {
	box := planar.NewPolygonShape()
	box.SetAsBox(1.0, 2.0)

	var proxy planar.DistanceProxy
	proxy.Set(box, 0)

	assert.Equal(t, 4, proxy.GetVertexCount())
	support := proxy.GetSupportVertex(planar.Vec2{1.0, 1.0})
	assert.Equal(t, planar.Vec2{1.0, 2.0}, support)
}

func TestTestOverlapShapes(t *testing.T) {
	circleA := planar.NewCircleShape(1.0)
	circleB := planar.NewCircleShape(1.0)

	xfA := planar.MakeTransform()
	xfB := planar.MakeTransform()

	xfB.P = planar.Vec2{1.9, 0.0}
	assert.True(t, planar.TestOverlapShapes(circleA, 0, circleB, 0, xfA, xfB))

	xfB.P = planar.Vec2{2.1, 0.0}
	assert.False(t, planar.TestOverlapShapes(circleA, 0, circleB, 0, xfA, xfB))
}
