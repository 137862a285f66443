package planar

import (
	"math"
)

const nullFeature uint8 = math.MaxUint8

const (
	featureTypeVertex uint8 = 0
	featureTypeFace   uint8 = 1
)

// ContactFeature describes the features that intersect to form a contact
// point. It must stay 4 bytes or less.
type ContactFeature struct {
	IndexA uint8 // feature index on shape A
	IndexB uint8 // feature index on shape B
	TypeA  uint8
	TypeB  uint8
}

// ContactID identifies a contact point between two shapes across steps.
type ContactID ContactFeature

// Key packs the id for quick comparison.
func (id ContactID) Key() uint32 {
	var key uint32
	key |= uint32(id.IndexA)
	key |= uint32(id.IndexB) << 8
	key |= uint32(id.TypeA) << 16
	key |= uint32(id.TypeB) << 24
	return key
}

func (id *ContactID) SetKey(key uint32) {
	id.IndexA = uint8(key & 0xFF)
	id.IndexB = uint8(key >> 8 & 0xFF)
	id.TypeA = uint8(key >> 16 & 0xFF)
	id.TypeB = uint8(key >> 24 & 0xFF)
}

// ManifoldPoint is a contact point belonging to a contact manifold. It holds
// details related to the geometry and dynamics of the contact points.
// The local point usage depends on the manifold type:
//   - ManifoldCircles: the local center of circle B
//   - ManifoldFaceA: the local center of circle B or the clip point of polygon B
//   - ManifoldFaceB: the clip point of polygon A
//
// This structure is stored across time steps, so keep it small.
// The impulses are used for internal caching and may not provide reliable
// contact forces, especially for high speed collisions.
type ManifoldPoint struct {
	LocalPoint     Vec2      // usage depends on manifold type
	NormalImpulse  float64   // the non-penetration impulse
	TangentImpulse float64   // the friction impulse
	Id             ContactID // uniquely identifies a contact point between two shapes
}

// Manifold types. The local point and normal usage depends on the type:
//   - ManifoldCircles: local point is the local center of circle A, normal unused
//   - ManifoldFaceA: the center of face A, normal on polygon A
//   - ManifoldFaceB: the center of face B, normal on polygon B
const (
	ManifoldCircles uint8 = iota
	ManifoldFaceA
	ManifoldFaceB
)

// Manifold holds contact geometry for two touching convex shapes. Contacts
// are stored this way so that position correction can account for movement,
// which is critical for continuous physics. All contact scenarios must be
// expressed in one of the manifold types.
type Manifold struct {
	Points      [MaxManifoldPoints]ManifoldPoint
	LocalNormal Vec2 // not used for ManifoldCircles
	LocalPoint  Vec2 // usage depends on manifold type
	Type        uint8
	PointCount  int
}

// WorldManifold is used to compute the current state of a contact manifold.
type WorldManifold struct {
	Normal      Vec2                          // world vector pointing from A to B
	Points      [MaxManifoldPoints]Vec2       // world contact points
	Separations [MaxManifoldPoints]float64 // negative values indicate overlap, in meters
}

// Initialize evaluates the manifold in world coordinates using the provided
// transforms and radii.
func (wm *WorldManifold) Initialize(manifold *Manifold, xfA Transform, radiusA float64, xfB Transform, radiusB float64) {
	if manifold.PointCount == 0 {
		return
	}

	switch manifold.Type {
	case ManifoldCircles:
		wm.Normal = Vec2{1.0, 0.0}
		pointA := MulXV(xfA, manifold.LocalPoint)
		pointB := MulXV(xfB, manifold.Points[0].LocalPoint)
		if DistanceSquaredVV(pointA, pointB) > epsilon*epsilon {
			wm.Normal, _ = NormalizeV(SubVV(pointB, pointA))
		}

		cA := MulAdd(pointA, radiusA, wm.Normal)
		cB := MulAdd(pointB, -radiusB, wm.Normal)

		wm.Points[0] = MulSV(0.5, AddVV(cA, cB))
		wm.Separations[0] = DotVV(SubVV(cB, cA), wm.Normal)

	case ManifoldFaceA:
		wm.Normal = MulRV(xfA.Q, manifold.LocalNormal)
		planePoint := MulXV(xfA, manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := MulXV(xfB, manifold.Points[i].LocalPoint)
			cA := MulAdd(clipPoint, radiusA-DotVV(SubVV(clipPoint, planePoint), wm.Normal), wm.Normal)
			cB := MulAdd(clipPoint, -radiusB, wm.Normal)
			wm.Points[i] = MulSV(0.5, AddVV(cA, cB))
			wm.Separations[i] = DotVV(SubVV(cB, cA), wm.Normal)
		}

	case ManifoldFaceB:
		wm.Normal = MulRV(xfB.Q, manifold.LocalNormal)
		planePoint := MulXV(xfB, manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := MulXV(xfA, manifold.Points[i].LocalPoint)
			cB := MulAdd(clipPoint, radiusB-DotVV(SubVV(clipPoint, planePoint), wm.Normal), wm.Normal)
			cA := MulAdd(clipPoint, -radiusA, wm.Normal)
			wm.Points[i] = MulSV(0.5, AddVV(cA, cB))
			wm.Separations[i] = DotVV(SubVV(cA, cB), wm.Normal)
		}

		// Ensure normal points from A to B.
		wm.Normal = NegV(wm.Normal)
	}
}

// Point states for GetPointStates.
const (
	PointStateNull    uint8 = iota // point does not exist
	PointStateAdd                  // point was added in the update
	PointStatePersist              // point persisted across the update
	PointStateRemove               // point was removed in the update
)

// GetPointStates computes the point states given two manifolds. The states
// pertain to the transition from manifold1 to manifold2, so state1 is either
// persist or remove while state2 is either add or persist.
func GetPointStates(state1, state2 *[MaxManifoldPoints]uint8, manifold1, manifold2 *Manifold) {
	for i := 0; i < MaxManifoldPoints; i++ {
		state1[i] = PointStateNull
		state2[i] = PointStateNull
	}

	// Detect persists and removes.
	for i := 0; i < manifold1.PointCount; i++ {
		id := manifold1.Points[i].Id

		state1[i] = PointStateRemove
		for j := 0; j < manifold2.PointCount; j++ {
			if manifold2.Points[j].Id.Key() == id.Key() {
				state1[i] = PointStatePersist
				break
			}
		}
	}

	// Detect persists and adds.
	for i := 0; i < manifold2.PointCount; i++ {
		id := manifold2.Points[i].Id

		state2[i] = PointStateAdd
		for j := 0; j < manifold1.PointCount; j++ {
			if manifold1.Points[j].Id.Key() == id.Key() {
				state2[i] = PointStatePersist
				break
			}
		}
	}
}

// ClipVertex is used for computing contact manifolds.
type ClipVertex struct {
	V  Vec2
	Id ContactID
}

// RayCastInput describes a ray. The ray extends from P1 to
// P1 + MaxFraction * (P2 - P1).
type RayCastInput struct {
	P1, P2      Vec2
	MaxFraction float64
}

// RayCastOutput reports a hit at P1 + Fraction * (P2 - P1), where P1 and P2
// come from the input.
type RayCastOutput struct {
	Normal   Vec2
	Fraction float64
}

// AABB is an axis aligned bounding box.
type AABB struct {
	LowerBound Vec2
	UpperBound Vec2
}

// GetCenter returns the center of the AABB.
func (bb AABB) GetCenter() Vec2 {
	return MulSV(0.5, AddVV(bb.LowerBound, bb.UpperBound))
}

// GetExtents returns the half-widths of the AABB.
func (bb AABB) GetExtents() Vec2 {
	return MulSV(0.5, SubVV(bb.UpperBound, bb.LowerBound))
}

// GetPerimeter returns the perimeter length.
func (bb AABB) GetPerimeter() float64 {
	wx := bb.UpperBound[0] - bb.LowerBound[0]
	wy := bb.UpperBound[1] - bb.LowerBound[1]
	return 2.0 * (wx + wy)
}

// Combine grows this AABB to contain the other.
func (bb *AABB) Combine(aabb AABB) {
	bb.LowerBound = MinV(bb.LowerBound, aabb.LowerBound)
	bb.UpperBound = MaxV(bb.UpperBound, aabb.UpperBound)
}

// CombineTwo replaces this AABB with the union of two others.
func (bb *AABB) CombineTwo(aabb1, aabb2 AABB) {
	bb.LowerBound = MinV(aabb1.LowerBound, aabb2.LowerBound)
	bb.UpperBound = MaxV(aabb1.UpperBound, aabb2.UpperBound)
}

// Contains reports whether this AABB contains the provided AABB.
func (bb AABB) Contains(aabb AABB) bool {
	return bb.LowerBound[0] <= aabb.LowerBound[0] &&
		bb.LowerBound[1] <= aabb.LowerBound[1] &&
		aabb.UpperBound[0] <= bb.UpperBound[0] &&
		aabb.UpperBound[1] <= bb.UpperBound[1]
}

func (bb AABB) IsValid() bool {
	d := SubVV(bb.UpperBound, bb.LowerBound)
	valid := d[0] >= 0.0 && d[1] >= 0.0
	return valid && IsValidVec2(bb.LowerBound) && IsValidVec2(bb.UpperBound)
}

// RayCast intersects a segment with the box.
// From Real-time Collision Detection, p179.
func (bb AABB) RayCast(output *RayCastOutput, input RayCastInput) bool {
	tmin := -maxFloat
	tmax := maxFloat

	p := input.P1
	d := SubVV(input.P2, input.P1)
	absD := AbsV(d)

	var normal Vec2

	for i := 0; i < 2; i++ {
		if absD[i] < epsilon {
			// Parallel.
			if p[i] < bb.LowerBound[i] || bb.UpperBound[i] < p[i] {
				return false
			}
		} else {
			invD := 1.0 / d[i]
			t1 := (bb.LowerBound[i] - p[i]) * invD
			t2 := (bb.UpperBound[i] - p[i]) * invD

			// Sign of the normal vector.
			s := -1.0

			if t1 > t2 {
				t1, t2 = t2, t1
				s = 1.0
			}

			// Push the min up.
			if t1 > tmin {
				normal = Vec2{}
				normal[i] = s
				tmin = t1
			}

			// Pull the max down.
			tmax = math.Min(tmax, t2)

			if tmin > tmax {
				return false
			}
		}
	}

	// Does the ray start inside the box?
	// Does the ray intersect beyond the max fraction?
	if tmin < 0.0 || input.MaxFraction < tmin {
		return false
	}

	output.Fraction = tmin
	output.Normal = normal
	return true
}

// TestOverlapAABB reports whether two bounding boxes overlap.
func TestOverlapAABB(a, b AABB) bool {
	d1 := SubVV(b.LowerBound, a.UpperBound)
	d2 := SubVV(a.LowerBound, b.UpperBound)

	if d1[0] > 0.0 || d1[1] > 0.0 {
		return false
	}

	if d2[0] > 0.0 || d2[1] > 0.0 {
		return false
	}

	return true
}

// ClipSegmentToLine performs Sutherland-Hodgman clipping.
func ClipSegmentToLine(vOut []ClipVertex, vIn []ClipVertex, normal Vec2, offset float64, vertexIndexA int) int {
	// Start with no output points.
	numOut := 0

	// Calculate the distance of end points to the line.
	distance0 := DotVV(normal, vIn[0].V) - offset
	distance1 := DotVV(normal, vIn[1].V) - offset

	// If the points are behind the plane.
	if distance0 <= 0.0 {
		vOut[numOut] = vIn[0]
		numOut++
	}

	if distance1 <= 0.0 {
		vOut[numOut] = vIn[1]
		numOut++
	}

	// If the points are on different sides of the plane.
	if distance0*distance1 < 0.0 {
		// Find intersection point of edge and plane.
		interp := distance0 / (distance0 - distance1)
		vOut[numOut].V = MulAdd(vIn[0].V, interp, SubVV(vIn[1].V, vIn[0].V))

		// VertexA is hitting edgeB.
		vOut[numOut].Id.IndexA = uint8(vertexIndexA)
		vOut[numOut].Id.IndexB = vIn[0].Id.IndexB
		vOut[numOut].Id.TypeA = featureTypeVertex
		vOut[numOut].Id.TypeB = featureTypeFace
		numOut++
	}

	return numOut
}

// TestOverlapShapes reports whether two shape children overlap under the
// given transforms.
func TestOverlapShapes(shapeA Shape, indexA int, shapeB Shape, indexB int, xfA, xfB Transform) bool {
	var input DistanceInput
	input.ProxyA.Set(shapeA, indexA)
	input.ProxyB.Set(shapeB, indexB)
	input.TransformA = xfA
	input.TransformB = xfB
	input.UseRadii = true

	var cache SimplexCache
	var output DistanceOutput

	Distance(&output, &cache, &input)

	return output.Distance < 10.0*epsilon
}
