package planar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planarphys/planar"
)

func TestBroadPhasePairEmission(t *testing.T) {
	bp := planar.MakeBroadPhase()

	// Three proxies: a and b overlap, c lies far away from both (fat bounds
	// included).
	a := bp.CreateProxy(planar.AABB{
		LowerBound: planar.Vec2{0.0, 0.0},
		UpperBound: planar.Vec2{1.0, 1.0},
	}, "a")
	b := bp.CreateProxy(planar.AABB{
		LowerBound: planar.Vec2{0.5, 0.0},
		UpperBound: planar.Vec2{1.5, 1.0},
	}, "b")
	c := bp.CreateProxy(planar.AABB{
		LowerBound: planar.Vec2{10.0, 0.0},
		UpperBound: planar.Vec2{11.0, 1.0},
	}, "c")

	var pairs [][2]string
	bp.UpdatePairs(func(userDataA, userDataB interface{}) {
		pairs = append(pairs, [2]string{userDataA.(string), userDataB.(string)})
	})

	// Both endpoints moved (were created), yet the pair appears exactly
	// once.
	require.Len(t, pairs, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, pairs[0][:])

	// With a drained move buffer, no pairs are emitted even though proxies
	// still overlap.
	pairs = nil
	bp.UpdatePairs(func(userDataA, userDataB interface{}) {
		pairs = append(pairs, [2]string{userDataA.(string), userDataB.(string)})
	})
	assert.Empty(t, pairs)

	// Moving c next to b produces the new pair only. A small displacement
	// keeps the predictive fattening from reaching proxy a.
	bp.MoveProxy(c, planar.AABB{
		LowerBound: planar.Vec2{1.6, 0.0},
		UpperBound: planar.Vec2{2.6, 1.0},
	}, planar.Vec2{0.1, 0.0})

	pairs = nil
	bp.UpdatePairs(func(userDataA, userDataB interface{}) {
		pairs = append(pairs, [2]string{userDataA.(string), userDataB.(string)})
	})
	require.Len(t, pairs, 1)
	assert.ElementsMatch(t, []string{"b", "c"}, pairs[0][:])

	assert.Equal(t, 3, bp.GetProxyCount())

	bp.DestroyProxy(a)
	bp.DestroyProxy(b)
	bp.DestroyProxy(c)
	assert.Equal(t, 0, bp.GetProxyCount())
}

func TestBroadPhaseTouchProxy(t *testing.T) {
	bp := planar.MakeBroadPhase()

	a := bp.CreateProxy(planar.AABB{
		LowerBound: planar.Vec2{0.0, 0.0},
		UpperBound: planar.Vec2{1.0, 1.0},
	}, 1)
	bp.CreateProxy(planar.AABB{
		LowerBound: planar.Vec2{0.5, 0.5},
		UpperBound: planar.Vec2{1.5, 1.5},
	}, 2)

	// Drain the initial pairs.
	bp.UpdatePairs(func(a, b interface{}) {})

	// TouchProxy re-emits pairs for a stationary proxy.
	bp.TouchProxy(a)
	count := 0
	bp.UpdatePairs(func(a, b interface{}) {
		count++
	})
	assert.Equal(t, 1, count)
}
