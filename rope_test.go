package planar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planarphys/planar"
)

func TestRopeHangsFromPinnedEnd(t *testing.T) {
	const n = 10

	def := planar.MakeRopeDef()
	def.Gravity = planar.Vec2{0.0, -10.0}
	def.Vertices = make([]planar.Vec2, n)
	def.Masses = make([]float64, n)
	for i := 0; i < n; i++ {
		def.Vertices[i] = planar.Vec2{float64(i) * 0.5, 0.0}
		def.Masses[i] = 1.0
	}
	// Pin the first particle.
	def.Masses[0] = 0.0

	var rope planar.Rope
	rope.Initialize(&def)

	require.Equal(t, n, rope.GetVertexCount())

	for i := 0; i < 600; i++ {
		rope.Step(1.0/60.0, 4)
	}

	vertices := rope.GetVertices()

	// The pinned end never moves.
	assert.Equal(t, planar.Vec2{0.0, 0.0}, vertices[0])

	// The free end swings below the pin.
	assert.Less(t, vertices[n-1][1], -1.0)

	// Stretch constraints keep segment lengths near rest.
	for i := 0; i < n-1; i++ {
		length := planar.DistanceVV(vertices[i], vertices[i+1])
		assert.InDelta(t, 0.5, length, 0.1, "segment %d", i)
	}
}
