package planar

import (
	"math"
)

// CollideEdgeAndCircle computes contact points for edge versus circle,
// accounting for edge connectivity.
func CollideEdgeAndCircle(manifold *Manifold, edgeA *EdgeShape, xfA Transform, circleB *CircleShape, xfB Transform) {
	manifold.PointCount = 0

	// Compute circle in frame of edge.
	q := MulTXV(xfA, MulXV(xfB, circleB.P))

	a := edgeA.Vertex1
	b := edgeA.Vertex2
	e := SubVV(b, a)

	// Barycentric coordinates.
	u := DotVV(e, SubVV(b, q))
	v := DotVV(e, SubVV(q, a))

	radius := edgeA.radius + circleB.radius

	var cf ContactFeature
	cf.IndexB = 0
	cf.TypeB = featureTypeVertex

	// Region A
	if v <= 0.0 {
		p := a
		d := SubVV(q, p)
		dd := DotVV(d, d)
		if dd > radius*radius {
			return
		}

		// Is there an edge connected to A?
		if edgeA.HasVertex0 {
			a1 := edgeA.Vertex0
			b1 := a
			e1 := SubVV(b1, a1)
			u1 := DotVV(e1, SubVV(b1, q))

			// Is the circle in Region AB of the previous edge?
			if u1 > 0.0 {
				return
			}
		}

		cf.IndexA = 0
		cf.TypeA = featureTypeVertex
		manifold.PointCount = 1
		manifold.Type = ManifoldCircles
		manifold.LocalNormal = Vec2{}
		manifold.LocalPoint = p
		manifold.Points[0].Id = ContactID(cf)
		manifold.Points[0].LocalPoint = circleB.P
		return
	}

	// Region B
	if u <= 0.0 {
		p := b
		d := SubVV(q, p)
		dd := DotVV(d, d)
		if dd > radius*radius {
			return
		}

		// Is there an edge connected to B?
		if edgeA.HasVertex3 {
			b2 := edgeA.Vertex3
			a2 := b
			e2 := SubVV(b2, a2)
			v2 := DotVV(e2, SubVV(q, a2))

			// Is the circle in Region AB of the next edge?
			if v2 > 0.0 {
				return
			}
		}

		cf.IndexA = 1
		cf.TypeA = featureTypeVertex
		manifold.PointCount = 1
		manifold.Type = ManifoldCircles
		manifold.LocalNormal = Vec2{}
		manifold.LocalPoint = p
		manifold.Points[0].Id = ContactID(cf)
		manifold.Points[0].LocalPoint = circleB.P
		return
	}

	// Region AB
	den := DotVV(e, e)
	assert(den > 0.0)
	p := MulSV(1.0/den, AddVV(MulSV(u, a), MulSV(v, b)))
	d := SubVV(q, p)
	dd := DotVV(d, d)
	if dd > radius*radius {
		return
	}

	n := Vec2{-e[1], e[0]}
	if DotVV(n, SubVV(q, a)) < 0.0 {
		n = NegV(n)
	}
	n, _ = NormalizeV(n)

	cf.IndexA = 0
	cf.TypeA = featureTypeFace
	manifold.PointCount = 1
	manifold.Type = ManifoldFaceA
	manifold.LocalNormal = n
	manifold.LocalPoint = a
	manifold.Points[0].Id = ContactID(cf)
	manifold.Points[0].LocalPoint = circleB.P
}

// epAxis keeps track of the best separating axis.
const (
	epAxisUnknown uint8 = iota
	epAxisEdgeA
	epAxisEdgeB
)

type epAxis struct {
	axisType   uint8
	index      int
	separation float64
}

// tempPolygon holds polygon B expressed in frame A.
type tempPolygon struct {
	vertices [MaxPolygonVertices]Vec2
	normals  [MaxPolygonVertices]Vec2
	count    int
}

// referenceFace is the face used for clipping.
type referenceFace struct {
	i1, i2 int

	v1, v2 Vec2

	normal Vec2

	sideNormal1 Vec2
	sideOffset1 float64

	sideNormal2 Vec2
	sideOffset2 float64
}

// epCollider collides an edge and a polygon, taking into account edge
// adjacency so that contacts with internal chain vertices are suppressed.
type epCollider struct {
	polygonB tempPolygon

	xf                        Transform
	centroidB                 Vec2
	v0, v1, v2, v3            Vec2
	normal0, normal1, normal2 Vec2
	normal                    Vec2
	lowerLimit, upperLimit    Vec2
	radius                    float64
	front                     bool
}

// collide implements the one-sided edge-polygon algorithm:
//  1. Classify v1 and v2
//  2. Classify polygon centroid as front or back
//  3. Flip normal if necessary
//  4. Initialize normal range to [-pi, pi] about face normal
//  5. Adjust normal range according to adjacent edges
//  6. Visit each separating axis, only accept axes within the range
//  7. Return if _any_ axis indicates separation
//  8. Clip
func (collider *epCollider) collide(manifold *Manifold, edgeA *EdgeShape, xfA Transform, polygonB *PolygonShape, xfB Transform) {
	collider.xf = MulTXX(xfA, xfB)

	collider.centroidB = MulXV(collider.xf, polygonB.Centroid)

	collider.v0 = edgeA.Vertex0
	collider.v1 = edgeA.Vertex1
	collider.v2 = edgeA.Vertex2
	collider.v3 = edgeA.Vertex3

	hasVertex0 := edgeA.HasVertex0
	hasVertex3 := edgeA.HasVertex3

	edge1, _ := NormalizeV(SubVV(collider.v2, collider.v1))
	collider.normal1 = Vec2{edge1[1], -edge1[0]}
	offset1 := DotVV(collider.normal1, SubVV(collider.centroidB, collider.v1))
	offset0, offset2 := 0.0, 0.0
	convex1, convex2 := false, false

	// Is there a preceding edge?
	if hasVertex0 {
		edge0, _ := NormalizeV(SubVV(collider.v1, collider.v0))
		collider.normal0 = Vec2{edge0[1], -edge0[0]}
		convex1 = CrossVV(edge0, edge1) >= 0.0
		offset0 = DotVV(collider.normal0, SubVV(collider.centroidB, collider.v0))
	}

	// Is there a following edge?
	if hasVertex3 {
		edge2, _ := NormalizeV(SubVV(collider.v3, collider.v2))
		collider.normal2 = Vec2{edge2[1], -edge2[0]}
		convex2 = CrossVV(edge1, edge2) > 0.0
		offset2 = DotVV(collider.normal2, SubVV(collider.centroidB, collider.v2))
	}

	// Determine front or back collision. Determine collision normal limits.
	if hasVertex0 && hasVertex3 {
		if convex1 && convex2 {
			collider.front = offset0 >= 0.0 || offset1 >= 0.0 || offset2 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal0
				collider.upperLimit = collider.normal2
			} else {
				collider.normal = NegV(collider.normal1)
				collider.lowerLimit = NegV(collider.normal1)
				collider.upperLimit = NegV(collider.normal1)
			}
		} else if convex1 {
			collider.front = offset0 >= 0.0 || (offset1 >= 0.0 && offset2 >= 0.0)
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal0
				collider.upperLimit = collider.normal1
			} else {
				collider.normal = NegV(collider.normal1)
				collider.lowerLimit = NegV(collider.normal2)
				collider.upperLimit = NegV(collider.normal1)
			}
		} else if convex2 {
			collider.front = offset2 >= 0.0 || (offset0 >= 0.0 && offset1 >= 0.0)
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal1
				collider.upperLimit = collider.normal2
			} else {
				collider.normal = NegV(collider.normal1)
				collider.lowerLimit = NegV(collider.normal1)
				collider.upperLimit = NegV(collider.normal0)
			}
		} else {
			collider.front = offset0 >= 0.0 && offset1 >= 0.0 && offset2 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal1
				collider.upperLimit = collider.normal1
			} else {
				collider.normal = NegV(collider.normal1)
				collider.lowerLimit = NegV(collider.normal2)
				collider.upperLimit = NegV(collider.normal0)
			}
		}
	} else if hasVertex0 {
		if convex1 {
			collider.front = offset0 >= 0.0 || offset1 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal0
				collider.upperLimit = NegV(collider.normal1)
			} else {
				collider.normal = NegV(collider.normal1)
				collider.lowerLimit = collider.normal1
				collider.upperLimit = NegV(collider.normal1)
			}
		} else {
			collider.front = offset0 >= 0.0 && offset1 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal1
				collider.upperLimit = NegV(collider.normal1)
			} else {
				collider.normal = NegV(collider.normal1)
				collider.lowerLimit = collider.normal1
				collider.upperLimit = NegV(collider.normal0)
			}
		}
	} else if hasVertex3 {
		if convex2 {
			collider.front = offset1 >= 0.0 || offset2 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = NegV(collider.normal1)
				collider.upperLimit = collider.normal2
			} else {
				collider.normal = NegV(collider.normal1)
				collider.lowerLimit = NegV(collider.normal1)
				collider.upperLimit = collider.normal1
			}
		} else {
			collider.front = offset1 >= 0.0 && offset2 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = NegV(collider.normal1)
				collider.upperLimit = collider.normal1
			} else {
				collider.normal = NegV(collider.normal1)
				collider.lowerLimit = NegV(collider.normal2)
				collider.upperLimit = collider.normal1
			}
		}
	} else {
		collider.front = offset1 >= 0.0
		if collider.front {
			collider.normal = collider.normal1
			collider.lowerLimit = NegV(collider.normal1)
			collider.upperLimit = NegV(collider.normal1)
		} else {
			collider.normal = NegV(collider.normal1)
			collider.lowerLimit = collider.normal1
			collider.upperLimit = collider.normal1
		}
	}

	// Get polygonB in frameA.
	collider.polygonB.count = polygonB.Count
	for i := 0; i < polygonB.Count; i++ {
		collider.polygonB.vertices[i] = MulXV(collider.xf, polygonB.Vertices[i])
		collider.polygonB.normals[i] = MulRV(collider.xf.Q, polygonB.Normals[i])
	}

	collider.radius = polygonB.radius + edgeA.radius

	manifold.PointCount = 0

	edgeAxis := collider.computeEdgeSeparation()

	// If no valid normal can be found then this edge should not collide.
	if edgeAxis.axisType == epAxisUnknown {
		return
	}

	if edgeAxis.separation > collider.radius {
		return
	}

	polygonAxis := collider.computePolygonSeparation()
	if polygonAxis.axisType != epAxisUnknown && polygonAxis.separation > collider.radius {
		return
	}

	// Use hysteresis for jitter reduction.
	const relativeTol = 0.98
	const absoluteTol = 0.001

	var primaryAxis epAxis
	if polygonAxis.axisType == epAxisUnknown {
		primaryAxis = edgeAxis
	} else if polygonAxis.separation > relativeTol*edgeAxis.separation+absoluteTol {
		primaryAxis = polygonAxis
	} else {
		primaryAxis = edgeAxis
	}

	var ie [2]ClipVertex
	var rf referenceFace
	if primaryAxis.axisType == epAxisEdgeA {
		manifold.Type = ManifoldFaceA

		// Search for the polygon normal that is most anti-parallel to the
		// edge normal.
		bestIndex := 0
		bestValue := DotVV(collider.normal, collider.polygonB.normals[0])
		for i := 1; i < collider.polygonB.count; i++ {
			value := DotVV(collider.normal, collider.polygonB.normals[i])
			if value < bestValue {
				bestValue = value
				bestIndex = i
			}
		}

		i1 := bestIndex
		i2 := 0
		if i1+1 < collider.polygonB.count {
			i2 = i1 + 1
		}

		ie[0].V = collider.polygonB.vertices[i1]
		ie[0].Id.IndexA = 0
		ie[0].Id.IndexB = uint8(i1)
		ie[0].Id.TypeA = featureTypeFace
		ie[0].Id.TypeB = featureTypeVertex

		ie[1].V = collider.polygonB.vertices[i2]
		ie[1].Id.IndexA = 0
		ie[1].Id.IndexB = uint8(i2)
		ie[1].Id.TypeA = featureTypeFace
		ie[1].Id.TypeB = featureTypeVertex

		if collider.front {
			rf.i1 = 0
			rf.i2 = 1
			rf.v1 = collider.v1
			rf.v2 = collider.v2
			rf.normal = collider.normal1
		} else {
			rf.i1 = 1
			rf.i2 = 0
			rf.v1 = collider.v2
			rf.v2 = collider.v1
			rf.normal = NegV(collider.normal1)
		}
	} else {
		manifold.Type = ManifoldFaceB

		ie[0].V = collider.v1
		ie[0].Id.IndexA = 0
		ie[0].Id.IndexB = uint8(primaryAxis.index)
		ie[0].Id.TypeA = featureTypeVertex
		ie[0].Id.TypeB = featureTypeFace

		ie[1].V = collider.v2
		ie[1].Id.IndexA = 0
		ie[1].Id.IndexB = uint8(primaryAxis.index)
		ie[1].Id.TypeA = featureTypeVertex
		ie[1].Id.TypeB = featureTypeFace

		rf.i1 = primaryAxis.index
		if rf.i1+1 < collider.polygonB.count {
			rf.i2 = rf.i1 + 1
		} else {
			rf.i2 = 0
		}

		rf.v1 = collider.polygonB.vertices[rf.i1]
		rf.v2 = collider.polygonB.vertices[rf.i2]
		rf.normal = collider.polygonB.normals[rf.i1]
	}

	rf.sideNormal1 = Vec2{rf.normal[1], -rf.normal[0]}
	rf.sideNormal2 = NegV(rf.sideNormal1)
	rf.sideOffset1 = DotVV(rf.sideNormal1, rf.v1)
	rf.sideOffset2 = DotVV(rf.sideNormal2, rf.v2)

	// Clip incident edge against extruded edge1 side edges.
	var clipPoints1, clipPoints2 [2]ClipVertex

	// Clip to box side 1.
	np := ClipSegmentToLine(clipPoints1[:], ie[:], rf.sideNormal1, rf.sideOffset1, rf.i1)
	if np < MaxManifoldPoints {
		return
	}

	// Clip to negative box side 1.
	np = ClipSegmentToLine(clipPoints2[:], clipPoints1[:], rf.sideNormal2, rf.sideOffset2, rf.i2)
	if np < MaxManifoldPoints {
		return
	}

	// Now clipPoints2 contains the clipped points.
	if primaryAxis.axisType == epAxisEdgeA {
		manifold.LocalNormal = rf.normal
		manifold.LocalPoint = rf.v1
	} else {
		manifold.LocalNormal = polygonB.Normals[rf.i1]
		manifold.LocalPoint = polygonB.Vertices[rf.i1]
	}

	pointCount := 0
	for i := 0; i < MaxManifoldPoints; i++ {
		separation := DotVV(rf.normal, SubVV(clipPoints2[i].V, rf.v1))

		if separation <= collider.radius {
			cp := &manifold.Points[pointCount]

			if primaryAxis.axisType == epAxisEdgeA {
				cp.LocalPoint = MulTXV(collider.xf, clipPoints2[i].V)
				cp.Id = clipPoints2[i].Id
			} else {
				cp.LocalPoint = clipPoints2[i].V
				cp.Id.TypeA = clipPoints2[i].Id.TypeB
				cp.Id.TypeB = clipPoints2[i].Id.TypeA
				cp.Id.IndexA = clipPoints2[i].Id.IndexB
				cp.Id.IndexB = clipPoints2[i].Id.IndexA
			}

			pointCount++
		}
	}

	manifold.PointCount = pointCount
}

func (collider *epCollider) computeEdgeSeparation() epAxis {
	var axis epAxis
	axis.axisType = epAxisEdgeA
	if collider.front {
		axis.index = 0
	} else {
		axis.index = 1
	}
	axis.separation = maxFloat

	for i := 0; i < collider.polygonB.count; i++ {
		s := DotVV(collider.normal, SubVV(collider.polygonB.vertices[i], collider.v1))
		if s < axis.separation {
			axis.separation = s
		}
	}

	return axis
}

func (collider *epCollider) computePolygonSeparation() epAxis {
	var axis epAxis
	axis.axisType = epAxisUnknown
	axis.index = -1
	axis.separation = -maxFloat

	perp := Vec2{-collider.normal[1], collider.normal[0]}

	for i := 0; i < collider.polygonB.count; i++ {
		n := NegV(collider.polygonB.normals[i])

		s1 := DotVV(n, SubVV(collider.polygonB.vertices[i], collider.v1))
		s2 := DotVV(n, SubVV(collider.polygonB.vertices[i], collider.v2))
		s := math.Min(s1, s2)

		if s > collider.radius {
			// No collision.
			axis.axisType = epAxisEdgeB
			axis.index = i
			axis.separation = s
			return axis
		}

		// Adjacency.
		if DotVV(n, perp) >= 0.0 {
			if DotVV(SubVV(n, collider.upperLimit), collider.normal) < -AngularSlop {
				continue
			}
		} else {
			if DotVV(SubVV(n, collider.lowerLimit), collider.normal) < -AngularSlop {
				continue
			}
		}

		if s > axis.separation {
			axis.axisType = epAxisEdgeB
			axis.index = i
			axis.separation = s
		}
	}

	return axis
}

// CollideEdgeAndPolygon computes the manifold for an edge and a polygon.
func CollideEdgeAndPolygon(manifold *Manifold, edgeA *EdgeShape, xfA Transform, polygonB *PolygonShape, xfB Transform) {
	var collider epCollider
	collider.collide(manifold, edgeA, xfA, polygonB, xfB)
}
