package planar

import (
	"math"
)

// TreeQueryCallback is invoked for each leaf overlapping a query AABB.
// Return false to terminate the query.
type TreeQueryCallback func(nodeId int) bool

// TreeRayCastCallback is invoked for each leaf hit by a ray cast. The return
// value becomes the new max fraction: 0 terminates the cast, input.MaxFraction
// continues unchanged, anything else clips the ray.
type TreeRayCastCallback func(input RayCastInput, nodeId int) float64

const nullNode = -1

type treeNode struct {
	// Enlarged (fat) AABB.
	aabb AABB

	userData interface{}

	// parent doubles as the free-list next pointer while the node is pooled.
	parent int

	child1 int
	child2 int

	// leaf = 0, free node = -1
	height int
}

func (node *treeNode) isLeaf() bool {
	return node.child1 == nullNode
}

// DynamicTree is a dynamic AABB tree broad-phase, inspired by Nathanael
// Presson's btDbvt. Data is arranged in a binary tree to accelerate volume
// queries and ray casts. Leaves are proxies with an AABB, expanded by
// aabbExtension so the client object can move by small amounts without
// triggering a tree update.
//
// Nodes are pooled and relocatable, so node indices rather than pointers
// identify proxies.
type DynamicTree struct {
	root int

	nodes        []treeNode
	nodeCount    int
	nodeCapacity int

	freeList int

	insertionCount int
}

func MakeDynamicTree() DynamicTree {
	tree := DynamicTree{}
	tree.root = nullNode

	tree.nodeCapacity = 16
	tree.nodeCount = 0
	tree.nodes = make([]treeNode, tree.nodeCapacity)

	// Build a linked list for the free list.
	for i := 0; i < tree.nodeCapacity-1; i++ {
		tree.nodes[i].parent = i + 1
		tree.nodes[i].height = -1
	}
	tree.nodes[tree.nodeCapacity-1].parent = nullNode
	tree.nodes[tree.nodeCapacity-1].height = -1
	tree.freeList = 0

	return tree
}

// GetUserData returns the data registered with a proxy. The id stays valid
// until the proxy is destroyed.
func (tree *DynamicTree) GetUserData(proxyId int) interface{} {
	assert(0 <= proxyId && proxyId < tree.nodeCapacity)
	return tree.nodes[proxyId].userData
}

// GetFatAABB returns the enlarged AABB for a proxy.
func (tree *DynamicTree) GetFatAABB(proxyId int) AABB {
	assert(0 <= proxyId && proxyId < tree.nodeCapacity)
	return tree.nodes[proxyId].aabb
}

// Allocate a node from the pool. Grow the pool if necessary.
func (tree *DynamicTree) allocateNode() int {
	// Expand the node pool as needed.
	if tree.freeList == nullNode {
		assert(tree.nodeCount == tree.nodeCapacity)

		// The free list is empty. Rebuild a bigger pool.
		tree.nodes = append(tree.nodes, make([]treeNode, tree.nodeCapacity)...)
		tree.nodeCapacity *= 2

		for i := tree.nodeCount; i < tree.nodeCapacity-1; i++ {
			tree.nodes[i].parent = i + 1
			tree.nodes[i].height = -1
		}
		tree.nodes[tree.nodeCapacity-1].parent = nullNode
		tree.nodes[tree.nodeCapacity-1].height = -1
		tree.freeList = tree.nodeCount
	}

	// Peel a node off the free list.
	nodeId := tree.freeList
	tree.freeList = tree.nodes[nodeId].parent
	tree.nodes[nodeId].parent = nullNode
	tree.nodes[nodeId].child1 = nullNode
	tree.nodes[nodeId].child2 = nullNode
	tree.nodes[nodeId].height = 0
	tree.nodes[nodeId].userData = nil
	tree.nodeCount++

	return nodeId
}

// Return a node to the pool.
func (tree *DynamicTree) freeNode(nodeId int) {
	assert(0 <= nodeId && nodeId < tree.nodeCapacity)
	assert(0 < tree.nodeCount)
	tree.nodes[nodeId].parent = tree.freeList
	tree.nodes[nodeId].height = -1
	tree.nodes[nodeId].userData = nil
	tree.freeList = nodeId
	tree.nodeCount--
}

// CreateProxy inserts a leaf with a fattened AABB and returns its stable id.
func (tree *DynamicTree) CreateProxy(aabb AABB, userData interface{}) int {
	proxyId := tree.allocateNode()

	// Fatten the aabb.
	r := Vec2{aabbExtension, aabbExtension}
	tree.nodes[proxyId].aabb.LowerBound = SubVV(aabb.LowerBound, r)
	tree.nodes[proxyId].aabb.UpperBound = AddVV(aabb.UpperBound, r)
	tree.nodes[proxyId].userData = userData
	tree.nodes[proxyId].height = 0

	tree.insertLeaf(proxyId)

	return proxyId
}

// DestroyProxy removes a leaf and rebalances on the way up.
func (tree *DynamicTree) DestroyProxy(proxyId int) {
	assert(0 <= proxyId && proxyId < tree.nodeCapacity)
	assert(tree.nodes[proxyId].isLeaf())

	tree.removeLeaf(proxyId)
	tree.freeNode(proxyId)
}

// MoveProxy updates a proxy with a new user AABB. If the new AABB still fits
// inside the leaf's fat AABB no restructure happens and false is returned.
// Otherwise the leaf is reinserted with a fat AABB predicted along the
// displacement and true is returned.
func (tree *DynamicTree) MoveProxy(proxyId int, aabb AABB, displacement Vec2) bool {
	assert(0 <= proxyId && proxyId < tree.nodeCapacity)
	assert(tree.nodes[proxyId].isLeaf())

	if tree.nodes[proxyId].aabb.Contains(aabb) {
		return false
	}

	tree.removeLeaf(proxyId)

	// Extend AABB.
	b := aabb
	r := Vec2{aabbExtension, aabbExtension}
	b.LowerBound = SubVV(b.LowerBound, r)
	b.UpperBound = AddVV(b.UpperBound, r)

	// Predict AABB displacement.
	d := MulSV(aabbMultiplier, displacement)

	if d[0] < 0.0 {
		b.LowerBound[0] += d[0]
	} else {
		b.UpperBound[0] += d[0]
	}

	if d[1] < 0.0 {
		b.LowerBound[1] += d[1]
	} else {
		b.UpperBound[1] += d[1]
	}

	tree.nodes[proxyId].aabb = b

	tree.insertLeaf(proxyId)

	return true
}

// Query invokes the callback for each proxy whose fat AABB overlaps the
// query AABB.
func (tree *DynamicTree) Query(queryCallback TreeQueryCallback, aabb AABB) {
	var stack growableStack
	stack.reset()
	stack.push(tree.root)

	for stack.count() > 0 {
		nodeId := stack.pop()
		if nodeId == nullNode {
			continue
		}

		node := &tree.nodes[nodeId]

		if TestOverlapAABB(node.aabb, aabb) {
			if node.isLeaf() {
				proceed := queryCallback(nodeId)
				if !proceed {
					return
				}
			} else {
				stack.push(node.child1)
				stack.push(node.child2)
			}
		}
	}
}

// RayCast walks the tree along a segment, pruning by the running max
// fraction. The callback decides how the clip fraction evolves at each leaf.
func (tree *DynamicTree) RayCast(rayCastCallback TreeRayCastCallback, input RayCastInput) {
	p1 := input.P1
	p2 := input.P2
	r, length := NormalizeV(SubVV(p2, p1))
	assert(length > 0.0)

	// v is perpendicular to the segment.
	v := CrossSV(1.0, r)
	absV := AbsV(v)

	// Separating axis for segment (Gino, p80):
	// |dot(v, p1 - c)| > dot(|v|, h)

	maxFraction := input.MaxFraction

	// Build a bounding box for the segment.
	var segmentAABB AABB
	{
		t := MulAdd(p1, maxFraction, SubVV(p2, p1))
		segmentAABB.LowerBound = MinV(p1, t)
		segmentAABB.UpperBound = MaxV(p1, t)
	}

	var stack growableStack
	stack.reset()
	stack.push(tree.root)

	for stack.count() > 0 {
		nodeId := stack.pop()
		if nodeId == nullNode {
			continue
		}

		node := &tree.nodes[nodeId]

		if !TestOverlapAABB(node.aabb, segmentAABB) {
			continue
		}

		// Separating axis for segment (Gino, p80).
		c := node.aabb.GetCenter()
		h := node.aabb.GetExtents()

		separation := math.Abs(DotVV(v, SubVV(p1, c))) - DotVV(absV, h)
		if separation > 0.0 {
			continue
		}

		if node.isLeaf() {
			subInput := RayCastInput{
				P1:          input.P1,
				P2:          input.P2,
				MaxFraction: maxFraction,
			}

			value := rayCastCallback(subInput, nodeId)

			if value == 0.0 {
				// The client has terminated the ray cast.
				return
			}

			if value > 0.0 {
				// Update segment bounding box.
				maxFraction = value
				t := MulAdd(p1, maxFraction, SubVV(p2, p1))
				segmentAABB.LowerBound = MinV(p1, t)
				segmentAABB.UpperBound = MaxV(p1, t)
			}
		} else {
			stack.push(node.child1)
			stack.push(node.child2)
		}
	}
}

func (tree *DynamicTree) insertLeaf(leaf int) {
	tree.insertionCount++

	if tree.root == nullNode {
		tree.root = leaf
		tree.nodes[tree.root].parent = nullNode
		return
	}

	// Find the best sibling for this node using the surface area heuristic.
	leafAABB := tree.nodes[leaf].aabb
	index := tree.root
	for !tree.nodes[index].isLeaf() {
		child1 := tree.nodes[index].child1
		child2 := tree.nodes[index].child2

		area := tree.nodes[index].aabb.GetPerimeter()

		var combinedAABB AABB
		combinedAABB.CombineTwo(tree.nodes[index].aabb, leafAABB)
		combinedArea := combinedAABB.GetPerimeter()

		// Cost of creating a new parent for this node and the new leaf.
		cost := 2.0 * combinedArea

		// Minimum cost of pushing the leaf further down the tree.
		inheritanceCost := 2.0 * (combinedArea - area)

		// Cost of descending into child1.
		var cost1 float64
		{
			var aabb AABB
			aabb.CombineTwo(leafAABB, tree.nodes[child1].aabb)
			if tree.nodes[child1].isLeaf() {
				cost1 = aabb.GetPerimeter() + inheritanceCost
			} else {
				oldArea := tree.nodes[child1].aabb.GetPerimeter()
				newArea := aabb.GetPerimeter()
				cost1 = (newArea - oldArea) + inheritanceCost
			}
		}

		// Cost of descending into child2.
		var cost2 float64
		{
			var aabb AABB
			aabb.CombineTwo(leafAABB, tree.nodes[child2].aabb)
			if tree.nodes[child2].isLeaf() {
				cost2 = aabb.GetPerimeter() + inheritanceCost
			} else {
				oldArea := tree.nodes[child2].aabb.GetPerimeter()
				newArea := aabb.GetPerimeter()
				cost2 = (newArea - oldArea) + inheritanceCost
			}
		}

		// Descend according to the minimum cost.
		if cost < cost1 && cost < cost2 {
			break
		}

		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index

	// Create a new parent.
	oldParent := tree.nodes[sibling].parent
	newParent := tree.allocateNode()
	tree.nodes[newParent].parent = oldParent
	tree.nodes[newParent].userData = nil
	tree.nodes[newParent].aabb.CombineTwo(leafAABB, tree.nodes[sibling].aabb)
	tree.nodes[newParent].height = tree.nodes[sibling].height + 1

	if oldParent != nullNode {
		// The sibling was not the root.
		if tree.nodes[oldParent].child1 == sibling {
			tree.nodes[oldParent].child1 = newParent
		} else {
			tree.nodes[oldParent].child2 = newParent
		}

		tree.nodes[newParent].child1 = sibling
		tree.nodes[newParent].child2 = leaf
		tree.nodes[sibling].parent = newParent
		tree.nodes[leaf].parent = newParent
	} else {
		// The sibling was the root.
		tree.nodes[newParent].child1 = sibling
		tree.nodes[newParent].child2 = leaf
		tree.nodes[sibling].parent = newParent
		tree.nodes[leaf].parent = newParent
		tree.root = newParent
	}

	// Walk back up the tree fixing heights and AABBs.
	index = tree.nodes[leaf].parent
	for index != nullNode {
		index = tree.balance(index)

		child1 := tree.nodes[index].child1
		child2 := tree.nodes[index].child2

		assert(child1 != nullNode)
		assert(child2 != nullNode)

		tree.nodes[index].height = 1 + maxInt(tree.nodes[child1].height, tree.nodes[child2].height)
		tree.nodes[index].aabb.CombineTwo(tree.nodes[child1].aabb, tree.nodes[child2].aabb)

		index = tree.nodes[index].parent
	}
}

func (tree *DynamicTree) removeLeaf(leaf int) {
	if leaf == tree.root {
		tree.root = nullNode
		return
	}

	parent := tree.nodes[leaf].parent
	grandParent := tree.nodes[parent].parent
	var sibling int
	if tree.nodes[parent].child1 == leaf {
		sibling = tree.nodes[parent].child2
	} else {
		sibling = tree.nodes[parent].child1
	}

	if grandParent != nullNode {
		// Destroy parent and connect sibling to grandparent.
		if tree.nodes[grandParent].child1 == parent {
			tree.nodes[grandParent].child1 = sibling
		} else {
			tree.nodes[grandParent].child2 = sibling
		}
		tree.nodes[sibling].parent = grandParent
		tree.freeNode(parent)

		// Adjust ancestor bounds.
		index := grandParent
		for index != nullNode {
			index = tree.balance(index)

			child1 := tree.nodes[index].child1
			child2 := tree.nodes[index].child2

			tree.nodes[index].aabb.CombineTwo(tree.nodes[child1].aabb, tree.nodes[child2].aabb)
			tree.nodes[index].height = 1 + maxInt(tree.nodes[child1].height, tree.nodes[child2].height)

			index = tree.nodes[index].parent
		}
	} else {
		tree.root = sibling
		tree.nodes[sibling].parent = nullNode
		tree.freeNode(parent)
	}
}

// balance performs a left or right rotation if node A is imbalanced.
// Returns the new subtree root index.
func (tree *DynamicTree) balance(iA int) int {
	assert(iA != nullNode)

	a := &tree.nodes[iA]
	if a.isLeaf() || a.height < 2 {
		return iA
	}

	iB := a.child1
	iC := a.child2
	assert(0 <= iB && iB < tree.nodeCapacity)
	assert(0 <= iC && iC < tree.nodeCapacity)

	b := &tree.nodes[iB]
	c := &tree.nodes[iC]

	balance := c.height - b.height

	// Rotate C up.
	if balance > 1 {
		iF := c.child1
		iG := c.child2
		assert(0 <= iF && iF < tree.nodeCapacity)
		assert(0 <= iG && iG < tree.nodeCapacity)
		f := &tree.nodes[iF]
		g := &tree.nodes[iG]

		// Swap A and C.
		c.child1 = iA
		c.parent = a.parent
		a.parent = iC

		// A's old parent should point to C.
		if c.parent != nullNode {
			if tree.nodes[c.parent].child1 == iA {
				tree.nodes[c.parent].child1 = iC
			} else {
				assert(tree.nodes[c.parent].child2 == iA)
				tree.nodes[c.parent].child2 = iC
			}
		} else {
			tree.root = iC
		}

		// Rotate.
		if f.height > g.height {
			c.child2 = iF
			a.child2 = iG
			g.parent = iA
			a.aabb.CombineTwo(b.aabb, g.aabb)
			c.aabb.CombineTwo(a.aabb, f.aabb)

			a.height = 1 + maxInt(b.height, g.height)
			c.height = 1 + maxInt(a.height, f.height)
		} else {
			c.child2 = iG
			a.child2 = iF
			f.parent = iA
			a.aabb.CombineTwo(b.aabb, f.aabb)
			c.aabb.CombineTwo(a.aabb, g.aabb)

			a.height = 1 + maxInt(b.height, f.height)
			c.height = 1 + maxInt(a.height, g.height)
		}

		return iC
	}

	// Rotate B up.
	if balance < -1 {
		iD := b.child1
		iE := b.child2
		assert(0 <= iD && iD < tree.nodeCapacity)
		assert(0 <= iE && iE < tree.nodeCapacity)

		d := &tree.nodes[iD]
		e := &tree.nodes[iE]

		// Swap A and B.
		b.child1 = iA
		b.parent = a.parent
		a.parent = iB

		// A's old parent should point to B.
		if b.parent != nullNode {
			if tree.nodes[b.parent].child1 == iA {
				tree.nodes[b.parent].child1 = iB
			} else {
				assert(tree.nodes[b.parent].child2 == iA)
				tree.nodes[b.parent].child2 = iB
			}
		} else {
			tree.root = iB
		}

		// Rotate.
		if d.height > e.height {
			b.child2 = iD
			a.child1 = iE
			e.parent = iA
			a.aabb.CombineTwo(c.aabb, e.aabb)
			b.aabb.CombineTwo(a.aabb, d.aabb)

			a.height = 1 + maxInt(c.height, e.height)
			b.height = 1 + maxInt(a.height, d.height)
		} else {
			b.child2 = iE
			a.child1 = iD
			d.parent = iA
			a.aabb.CombineTwo(c.aabb, d.aabb)
			b.aabb.CombineTwo(a.aabb, e.aabb)

			a.height = 1 + maxInt(c.height, d.height)
			b.height = 1 + maxInt(a.height, e.height)
		}

		return iB
	}

	return iA
}

// GetHeight returns the height of the root.
func (tree *DynamicTree) GetHeight() int {
	if tree.root == nullNode {
		return 0
	}
	return tree.nodes[tree.root].height
}

// GetAreaRatio returns the ratio of the sum of node perimeters to the root
// perimeter, a balance quality metric.
func (tree *DynamicTree) GetAreaRatio() float64 {
	if tree.root == nullNode {
		return 0.0
	}

	root := &tree.nodes[tree.root]
	rootArea := root.aabb.GetPerimeter()

	totalArea := 0.0
	for i := 0; i < tree.nodeCapacity; i++ {
		node := &tree.nodes[i]
		if node.height < 0 {
			// Free node in pool.
			continue
		}

		totalArea += node.aabb.GetPerimeter()
	}

	return totalArea / rootArea
}

// computeHeight measures the height of a sub-tree by traversal, ignoring the
// cached heights. Used by validation.
func (tree *DynamicTree) computeHeight(nodeId int) int {
	assert(0 <= nodeId && nodeId < tree.nodeCapacity)
	node := &tree.nodes[nodeId]

	if node.isLeaf() {
		return 0
	}

	height1 := tree.computeHeight(node.child1)
	height2 := tree.computeHeight(node.child2)
	return 1 + maxInt(height1, height2)
}

func (tree *DynamicTree) validateStructure(index int) {
	if index == nullNode {
		return
	}

	if index == tree.root {
		assert(tree.nodes[index].parent == nullNode)
	}

	node := &tree.nodes[index]

	child1 := node.child1
	child2 := node.child2

	if node.isLeaf() {
		assert(child1 == nullNode)
		assert(child2 == nullNode)
		assert(node.height == 0)
		return
	}

	assert(0 <= child1 && child1 < tree.nodeCapacity)
	assert(0 <= child2 && child2 < tree.nodeCapacity)

	assert(tree.nodes[child1].parent == index)
	assert(tree.nodes[child2].parent == index)

	tree.validateStructure(child1)
	tree.validateStructure(child2)
}

func (tree *DynamicTree) validateMetrics(index int) {
	if index == nullNode {
		return
	}

	node := &tree.nodes[index]

	child1 := node.child1
	child2 := node.child2

	if node.isLeaf() {
		assert(child1 == nullNode)
		assert(child2 == nullNode)
		assert(node.height == 0)
		return
	}

	assert(0 <= child1 && child1 < tree.nodeCapacity)
	assert(0 <= child2 && child2 < tree.nodeCapacity)

	height1 := tree.nodes[child1].height
	height2 := tree.nodes[child2].height
	height := 1 + maxInt(height1, height2)
	assert(node.height == height)

	var aabb AABB
	aabb.CombineTwo(tree.nodes[child1].aabb, tree.nodes[child2].aabb)

	assert(aabb.LowerBound == node.aabb.LowerBound)
	assert(aabb.UpperBound == node.aabb.UpperBound)

	tree.validateMetrics(child1)
	tree.validateMetrics(child2)
}

// Validate checks the tree invariants: proper binary structure, enclosing
// internal AABBs, consistent heights and an intact free list. It panics on
// corruption.
func (tree *DynamicTree) Validate() {
	tree.validateStructure(tree.root)
	tree.validateMetrics(tree.root)

	freeCount := 0
	freeIndex := tree.freeList
	for freeIndex != nullNode {
		assert(0 <= freeIndex && freeIndex < tree.nodeCapacity)
		freeIndex = tree.nodes[freeIndex].parent
		freeCount++
	}

	assert(tree.GetHeight() == tree.computeHeightFromRoot())
	assert(tree.nodeCount+freeCount == tree.nodeCapacity)
}

func (tree *DynamicTree) computeHeightFromRoot() int {
	if tree.root == nullNode {
		return 0
	}
	return tree.computeHeight(tree.root)
}

// GetMaxBalance returns the maximum height difference between the two
// children of any node.
func (tree *DynamicTree) GetMaxBalance() int {
	maxBalance := 0
	for i := 0; i < tree.nodeCapacity; i++ {
		node := &tree.nodes[i]
		if node.height <= 1 {
			continue
		}

		assert(!node.isLeaf())

		child1 := node.child1
		child2 := node.child2
		balance := absInt(tree.nodes[child2].height - tree.nodes[child1].height)
		maxBalance = maxInt(maxBalance, balance)
	}

	return maxBalance
}

// RebuildBottomUp rebuilds the whole tree with an O(n^2) greedy pairing.
// Expensive, but produces a near-optimal tree.
func (tree *DynamicTree) RebuildBottomUp() {
	nodes := make([]int, tree.nodeCount)
	count := 0

	// Build array of leaves. Free the rest.
	for i := 0; i < tree.nodeCapacity; i++ {
		if tree.nodes[i].height < 0 {
			// Free node in pool.
			continue
		}

		if tree.nodes[i].isLeaf() {
			tree.nodes[i].parent = nullNode
			nodes[count] = i
			count++
		} else {
			tree.freeNode(i)
		}
	}

	for count > 1 {
		minCost := maxFloat
		iMin, jMin := -1, -1

		for i := 0; i < count; i++ {
			aabbI := tree.nodes[nodes[i]].aabb

			for j := i + 1; j < count; j++ {
				aabbJ := tree.nodes[nodes[j]].aabb
				var b AABB
				b.CombineTwo(aabbI, aabbJ)
				cost := b.GetPerimeter()
				if cost < minCost {
					iMin = i
					jMin = j
					minCost = cost
				}
			}
		}

		index1 := nodes[iMin]
		index2 := nodes[jMin]

		parentIndex := tree.allocateNode()
		child1 := &tree.nodes[index1]
		child2 := &tree.nodes[index2]

		parent := &tree.nodes[parentIndex]
		parent.child1 = index1
		parent.child2 = index2
		parent.height = 1 + maxInt(child1.height, child2.height)
		parent.aabb.CombineTwo(child1.aabb, child2.aabb)
		parent.parent = nullNode

		child1.parent = parentIndex
		child2.parent = parentIndex

		nodes[jMin] = nodes[count-1]
		nodes[iMin] = parentIndex
		count--
	}

	tree.root = nodes[0]

	tree.Validate()
}

// ShiftOrigin moves the origin of the whole tree, e.g. to recenter a large
// world around the camera.
func (tree *DynamicTree) ShiftOrigin(newOrigin Vec2) {
	for i := 0; i < tree.nodeCapacity; i++ {
		SubVVTo(&tree.nodes[i].aabb.LowerBound, tree.nodes[i].aabb.LowerBound, newOrigin)
		SubVVTo(&tree.nodes[i].aabb.UpperBound, tree.nodes[i].aabb.UpperBound, newOrigin)
	}
}
