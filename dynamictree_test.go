package planar_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planarphys/planar"
)

func makeTestAABB(rng *rand.Rand, extent float64) planar.AABB {
	center := planar.Vec2{
		extent * (2.0*rng.Float64() - 1.0),
		extent * (2.0*rng.Float64() - 1.0),
	}
	half := planar.Vec2{
		0.1 + 0.9*rng.Float64(),
		0.1 + 0.9*rng.Float64(),
	}
	return planar.AABB{
		LowerBound: planar.SubVV(center, half),
		UpperBound: planar.AddVV(center, half),
	}
}

func TestDynamicTreeBasic(t *testing.T) {
	tree := planar.MakeDynamicTree()

	aabb := planar.AABB{
		LowerBound: planar.Vec2{0.0, 0.0},
		UpperBound: planar.Vec2{1.0, 1.0},
	}
	id := tree.CreateProxy(aabb, 42)

	assert.Equal(t, 42, tree.GetUserData(id))

	// The fat AABB contains the user AABB.
	fat := tree.GetFatAABB(id)
	assert.True(t, fat.Contains(aabb))

	// A small move inside the fat bounds does not restructure.
	small := planar.AABB{
		LowerBound: planar.Vec2{0.01, 0.01},
		UpperBound: planar.Vec2{1.01, 1.01},
	}
	assert.False(t, tree.MoveProxy(id, small, planar.Vec2{0.01, 0.01}))

	// A large move does.
	big := planar.AABB{
		LowerBound: planar.Vec2{5.0, 5.0},
		UpperBound: planar.Vec2{6.0, 6.0},
	}
	assert.True(t, tree.MoveProxy(id, big, planar.Vec2{5.0, 5.0}))

	tree.DestroyProxy(id)
}

func TestDynamicTreeQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	tree := planar.MakeDynamicTree()

	type proxy struct {
		id   int
		aabb planar.AABB
	}
	var proxies []proxy

	for i := 0; i < 64; i++ {
		aabb := makeTestAABB(rng, 20.0)
		id := tree.CreateProxy(aabb, i)
		proxies = append(proxies, proxy{id: id, aabb: aabb})
	}

	for trial := 0; trial < 50; trial++ {
		query := makeTestAABB(rng, 20.0)

		var hits []int
		tree.Query(func(nodeId int) bool {
			hits = append(hits, tree.GetUserData(nodeId).(int))
			return true
		}, query)

		var expected []int
		for _, p := range proxies {
			if planar.TestOverlapAABB(tree.GetFatAABB(p.id), query) {
				expected = append(expected, tree.GetUserData(p.id).(int))
			}
		}

		sort.Ints(hits)
		sort.Ints(expected)
		require.Equal(t, expected, hits)
	}
}

// Stress: random create/destroy/move operations, with the structural
// invariants validated and queries checked against a brute-force oracle.
func TestDynamicTreeStress(t *testing.T) {
	const proxyCount = 128
	const opCount = 10000

	rng := rand.New(rand.NewSource(888))
	tree := planar.MakeDynamicTree()

	ids := make([]int, 0, proxyCount)
	aabbs := make(map[int]planar.AABB)

	create := func() {
		aabb := makeTestAABB(rng, 50.0)
		id := tree.CreateProxy(aabb, nil)
		ids = append(ids, id)
		aabbs[id] = aabb
	}

	for i := 0; i < proxyCount; i++ {
		create()
	}

	for op := 0; op < opCount; op++ {
		switch rng.Intn(3) {
		case 0: // destroy + create to keep the population stable
			k := rng.Intn(len(ids))
			id := ids[k]
			tree.DestroyProxy(id)
			delete(aabbs, id)
			ids[k] = ids[len(ids)-1]
			ids = ids[:len(ids)-1]
			create()

		case 1: // move
			k := rng.Intn(len(ids))
			id := ids[k]
			aabb := makeTestAABB(rng, 50.0)
			displacement := planar.Vec2{
				2.0*rng.Float64() - 1.0,
				2.0*rng.Float64() - 1.0,
			}
			tree.MoveProxy(id, aabb, displacement)
			aabbs[id] = aabb

		case 2: // query against the oracle
			query := makeTestAABB(rng, 50.0)

			got := map[int]bool{}
			tree.Query(func(nodeId int) bool {
				got[nodeId] = true
				return true
			}, query)

			for _, id := range ids {
				want := planar.TestOverlapAABB(tree.GetFatAABB(id), query)
				require.Equal(t, want, got[id], "op %d proxy %d", op, id)
			}
		}
	}

	// Validate panics on any structural or metric violation.
	tree.Validate()

	assert.LessOrEqual(t, tree.GetMaxBalance(), 1+tree.GetHeight()/2)
	assert.Greater(t, tree.GetAreaRatio(), 0.0)
}

func TestDynamicTreeRayCast(t *testing.T) {
	tree := planar.MakeDynamicTree()

	// Three boxes along the x axis.
	for i := 0; i < 3; i++ {
		x := float64(i) * 5.0
		tree.CreateProxy(planar.AABB{
			LowerBound: planar.Vec2{x, -0.5},
			UpperBound: planar.Vec2{x + 1.0, 0.5},
		}, i)
	}

	var visited []int
	input := planar.RayCastInput{
		P1:          planar.Vec2{-5.0, 0.0},
		P2:          planar.Vec2{20.0, 0.0},
		MaxFraction: 1.0,
	}
	tree.RayCast(func(in planar.RayCastInput, nodeId int) float64 {
		visited = append(visited, tree.GetUserData(nodeId).(int))
		return in.MaxFraction
	}, input)

	sort.Ints(visited)
	assert.Equal(t, []int{0, 1, 2}, visited)

	// Returning zero from the callback terminates the cast.
	count := 0
	tree.RayCast(func(in planar.RayCastInput, nodeId int) float64 {
		count++
		return 0.0
	}, input)
	assert.Equal(t, 1, count)
}
