package planar

import (
	"sort"
)

// BroadPhaseAddPairCallback receives the user data of both proxies of a
// newly overlapping pair.
type BroadPhaseAddPairCallback func(userDataA interface{}, userDataB interface{})

type proxyPair struct {
	proxyIdA int
	proxyIdB int
}

const nullProxy = -1

// BroadPhase wraps the dynamic tree with a move buffer: proxies that were
// created or moved since the last UpdatePairs call are queried against the
// tree and new overlapping pairs are reported, canonicalized and
// deduplicated, in ascending (idA, idB) order. Deterministic pair emission
// is what makes repeated steps reproducible.
type BroadPhase struct {
	tree DynamicTree

	proxyCount int

	moveBuffer []int

	pairBuffer []proxyPair

	queryProxyId int
}

func MakeBroadPhase() BroadPhase {
	return BroadPhase{
		tree:       MakeDynamicTree(),
		moveBuffer: make([]int, 0, 16),
		pairBuffer: make([]proxyPair, 0, 16),
	}
}

func pairLessThan(a, b proxyPair) bool {
	if a.proxyIdA < b.proxyIdA {
		return true
	}
	if a.proxyIdA == b.proxyIdA {
		return a.proxyIdB < b.proxyIdB
	}
	return false
}

func (bp *BroadPhase) GetUserData(proxyId int) interface{} {
	return bp.tree.GetUserData(proxyId)
}

// TestOverlap reports whether the fat AABBs of two proxies overlap.
func (bp *BroadPhase) TestOverlap(proxyIdA, proxyIdB int) bool {
	return TestOverlapAABB(
		bp.tree.GetFatAABB(proxyIdA),
		bp.tree.GetFatAABB(proxyIdB),
	)
}

func (bp *BroadPhase) GetFatAABB(proxyId int) AABB {
	return bp.tree.GetFatAABB(proxyId)
}

func (bp *BroadPhase) GetProxyCount() int {
	return bp.proxyCount
}

func (bp *BroadPhase) GetTreeHeight() int {
	return bp.tree.GetHeight()
}

func (bp *BroadPhase) GetTreeBalance() int {
	return bp.tree.GetMaxBalance()
}

func (bp *BroadPhase) GetTreeQuality() float64 {
	return bp.tree.GetAreaRatio()
}

// CreateProxy creates a proxy and buffers it for the next UpdatePairs.
func (bp *BroadPhase) CreateProxy(aabb AABB, userData interface{}) int {
	proxyId := bp.tree.CreateProxy(aabb, userData)
	bp.proxyCount++
	bp.bufferMove(proxyId)
	return proxyId
}

// DestroyProxy removes a proxy. It is up to the client to remove any pairs.
func (bp *BroadPhase) DestroyProxy(proxyId int) {
	bp.unBufferMove(proxyId)
	bp.proxyCount--
	bp.tree.DestroyProxy(proxyId)
}

// MoveProxy updates a proxy's AABB; if the tree had to reinsert the leaf the
// proxy is buffered so pairs get refreshed.
func (bp *BroadPhase) MoveProxy(proxyId int, aabb AABB, displacement Vec2) {
	buffer := bp.tree.MoveProxy(proxyId, aabb, displacement)
	if buffer {
		bp.bufferMove(proxyId)
	}
}

// TouchProxy forces pair re-evaluation for a proxy, e.g. after a filter
// change.
func (bp *BroadPhase) TouchProxy(proxyId int) {
	bp.bufferMove(proxyId)
}

func (bp *BroadPhase) bufferMove(proxyId int) {
	bp.moveBuffer = append(bp.moveBuffer, proxyId)
}

func (bp *BroadPhase) unBufferMove(proxyId int) {
	for i := range bp.moveBuffer {
		if bp.moveBuffer[i] == proxyId {
			bp.moveBuffer[i] = nullProxy
		}
	}
}

// queryCallback is called from DynamicTree.Query while gathering pairs.
func (bp *BroadPhase) queryCallback(proxyId int) bool {
	// A proxy cannot form a pair with itself.
	if proxyId == bp.queryProxyId {
		return true
	}

	bp.pairBuffer = append(bp.pairBuffer, proxyPair{
		proxyIdA: minInt(proxyId, bp.queryProxyId),
		proxyIdB: maxInt(proxyId, bp.queryProxyId),
	})

	return true
}

// UpdatePairs reports every unique pair of overlapping proxies where at
// least one endpoint is in the move buffer, then clears the buffer.
func (bp *BroadPhase) UpdatePairs(addPairCallback BroadPhaseAddPairCallback) {
	// Reset pair buffer.
	bp.pairBuffer = bp.pairBuffer[:0]

	// Perform tree queries for all moving proxies.
	for _, proxyId := range bp.moveBuffer {
		bp.queryProxyId = proxyId
		if bp.queryProxyId == nullProxy {
			continue
		}

		// We have to query the tree with the fat AABB so that
		// we don't fail to create a pair that may touch later.
		fatAABB := bp.tree.GetFatAABB(bp.queryProxyId)

		bp.tree.Query(bp.queryCallback, fatAABB)
	}

	// Reset move buffer.
	bp.moveBuffer = bp.moveBuffer[:0]

	// Sort the pair buffer to expose duplicates.
	pairs := bp.pairBuffer
	sort.Slice(pairs, func(i, j int) bool {
		return pairLessThan(pairs[i], pairs[j])
	})

	// Send the pairs back to the client.
	i := 0
	for i < len(pairs) {
		primaryPair := pairs[i]
		userDataA := bp.tree.GetUserData(primaryPair.proxyIdA)
		userDataB := bp.tree.GetUserData(primaryPair.proxyIdB)

		addPairCallback(userDataA, userDataB)
		i++

		// Skip any duplicate pairs.
		for i < len(pairs) {
			pair := pairs[i]
			if pair.proxyIdA != primaryPair.proxyIdA || pair.proxyIdB != primaryPair.proxyIdB {
				break
			}
			i++
		}
	}
}

// Query invokes the callback for each proxy whose fat AABB overlaps the
// query AABB.
func (bp *BroadPhase) Query(callback TreeQueryCallback, aabb AABB) {
	bp.tree.Query(callback, aabb)
}

// RayCast performs a clipped ray cast against the proxies in the tree.
func (bp *BroadPhase) RayCast(callback TreeRayCastCallback, input RayCastInput) {
	bp.tree.RayCast(callback, input)
}

// ShiftOrigin shifts the world origin of all proxies.
func (bp *BroadPhase) ShiftOrigin(newOrigin Vec2) {
	bp.tree.ShiftOrigin(newOrigin)
}
