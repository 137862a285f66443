package planar

import (
	"math"
)

type velocityConstraintPoint struct {
	rA             Vec2
	rB             Vec2
	normalImpulse  float64
	tangentImpulse float64
	normalMass     float64
	tangentMass    float64
	velocityBias   float64
}

type contactVelocityConstraint struct {
	points           [MaxManifoldPoints]velocityConstraintPoint
	normal           Vec2
	normalMass       Mat22
	k                Mat22
	indexA           int
	indexB           int
	invMassA, invMassB float64
	invIA, invIB     float64
	friction         float64
	restitution      float64
	tangentSpeed     float64
	pointCount       int
	contactIndex     int
}

type contactPositionConstraint struct {
	localPoints                [MaxManifoldPoints]Vec2
	localNormal                Vec2
	localPoint                 Vec2
	indexA                     int
	indexB                     int
	invMassA, invMassB         float64
	localCenterA, localCenterB Vec2
	invIA, invIB               float64
	manifoldType               uint8
	radiusA, radiusB           float64
	pointCount                 int
}

type contactSolverDef struct {
	step       timeStep
	contacts   []*Contact
	count      int
	positions  []position
	velocities []velocity
}

// contactSolver turns the manifolds of an island's contacts into velocity
// and position constraints and iterates them sequentially.
type contactSolver struct {
	step                timeStep
	positions           []position
	velocities          []velocity
	positionConstraints []contactPositionConstraint
	velocityConstraints []contactVelocityConstraint
	contacts            []*Contact
	count               int
}

// Block solving is normally enabled; the block solver sometimes has to deal
// with a poorly conditioned effective mass matrix and falls back to one
// point.
var blockSolve = true

func makeContactSolver(def *contactSolverDef) contactSolver {
	solver := contactSolver{}

	solver.step = def.step
	solver.count = def.count
	solver.positionConstraints = make([]contactPositionConstraint, solver.count)
	solver.velocityConstraints = make([]contactVelocityConstraint, solver.count)
	solver.positions = def.positions
	solver.velocities = def.velocities
	solver.contacts = def.contacts

	// Initialize position independent portions of the constraints.
	for i := 0; i < solver.count; i++ {
		contact := solver.contacts[i]

		fixtureA := contact.GetFixtureA()
		fixtureB := contact.GetFixtureB()
		shapeA := fixtureA.GetShape()
		shapeB := fixtureB.GetShape()
		radiusA := shapeA.GetRadius()
		radiusB := shapeB.GetRadius()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()
		manifold := contact.GetManifold()

		pointCount := manifold.PointCount
		assert(pointCount > 0)

		vc := &solver.velocityConstraints[i]
		vc.friction = contact.friction
		vc.restitution = contact.restitution
		vc.tangentSpeed = contact.tangentSpeed
		vc.indexA = bodyA.islandIndex
		vc.indexB = bodyB.islandIndex
		vc.invMassA = bodyA.invMass
		vc.invMassB = bodyB.invMass
		vc.invIA = bodyA.invI
		vc.invIB = bodyB.invI
		vc.contactIndex = i
		vc.pointCount = pointCount
		vc.k.SetZero()
		vc.normalMass.SetZero()

		pc := &solver.positionConstraints[i]
		pc.indexA = bodyA.islandIndex
		pc.indexB = bodyB.islandIndex
		pc.invMassA = bodyA.invMass
		pc.invMassB = bodyB.invMass
		pc.localCenterA = bodyA.sweep.LocalCenter
		pc.localCenterB = bodyB.sweep.LocalCenter
		pc.invIA = bodyA.invI
		pc.invIB = bodyB.invI
		pc.localNormal = manifold.LocalNormal
		pc.localPoint = manifold.LocalPoint
		pc.pointCount = pointCount
		pc.radiusA = radiusA
		pc.radiusB = radiusB
		pc.manifoldType = manifold.Type

		for j := 0; j < pointCount; j++ {
			cp := &manifold.Points[j]
			vcp := &vc.points[j]

			if solver.step.warmStarting {
				vcp.normalImpulse = solver.step.dtRatio * cp.NormalImpulse
				vcp.tangentImpulse = solver.step.dtRatio * cp.TangentImpulse
			} else {
				vcp.normalImpulse = 0.0
				vcp.tangentImpulse = 0.0
			}

			vcp.rA = Vec2{}
			vcp.rB = Vec2{}
			vcp.normalMass = 0.0
			vcp.tangentMass = 0.0
			vcp.velocityBias = 0.0

			pc.localPoints[j] = cp.LocalPoint
		}
	}

	return solver
}

// initializeVelocityConstraints sets up the position dependent portions of
// the velocity constraints.
func (solver *contactSolver) initializeVelocityConstraints() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]
		pc := &solver.positionConstraints[i]

		radiusA := pc.radiusA
		radiusB := pc.radiusB
		manifold := solver.contacts[vc.contactIndex].GetManifold()

		indexA := vc.indexA
		indexB := vc.indexB

		mA := vc.invMassA
		mB := vc.invMassB
		iA := vc.invIA
		iB := vc.invIB
		localCenterA := pc.localCenterA
		localCenterB := pc.localCenterB

		cA := solver.positions[indexA].c
		aA := solver.positions[indexA].a
		vA := solver.velocities[indexA].v
		wA := solver.velocities[indexA].w

		cB := solver.positions[indexB].c
		aB := solver.positions[indexB].a
		vB := solver.velocities[indexB].v
		wB := solver.velocities[indexB].w

		assert(manifold.PointCount > 0)

		var xfA, xfB Transform
		xfA.Q.Set(aA)
		xfB.Q.Set(aB)
		xfA.P = SubVV(cA, MulRV(xfA.Q, localCenterA))
		xfB.P = SubVV(cB, MulRV(xfB.Q, localCenterB))

		var worldManifold WorldManifold
		worldManifold.Initialize(manifold, xfA, radiusA, xfB, radiusB)

		vc.normal = worldManifold.Normal

		pointCount := vc.pointCount
		for j := 0; j < pointCount; j++ {
			vcp := &vc.points[j]

			vcp.rA = SubVV(worldManifold.Points[j], cA)
			vcp.rB = SubVV(worldManifold.Points[j], cB)

			rnA := CrossVV(vcp.rA, vc.normal)
			rnB := CrossVV(vcp.rB, vc.normal)

			kNormal := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			if kNormal > 0.0 {
				vcp.normalMass = 1.0 / kNormal
			} else {
				vcp.normalMass = 0.0
			}

			tangent := CrossVS(vc.normal, 1.0)

			rtA := CrossVV(vcp.rA, tangent)
			rtB := CrossVV(vcp.rB, tangent)

			kTangent := mA + mB + iA*rtA*rtA + iB*rtB*rtB

			if kTangent > 0.0 {
				vcp.tangentMass = 1.0 / kTangent
			} else {
				vcp.tangentMass = 0.0
			}

			// Setup a velocity bias for restitution.
			vcp.velocityBias = 0.0
			vRel := DotVV(vc.normal,
				SubVV(
					SubVV(AddVV(vB, CrossSV(wB, vcp.rB)), vA),
					CrossSV(wA, vcp.rA),
				))
			if vRel < -velocityThreshold {
				vcp.velocityBias = -vc.restitution * vRel
			}
		}

		// If we have two points, then prepare the block solver.
		if vc.pointCount == 2 && blockSolve {
			vcp1 := &vc.points[0]
			vcp2 := &vc.points[1]

			rn1A := CrossVV(vcp1.rA, vc.normal)
			rn1B := CrossVV(vcp1.rB, vc.normal)
			rn2A := CrossVV(vcp2.rA, vc.normal)
			rn2B := CrossVV(vcp2.rB, vc.normal)

			k11 := mA + mB + iA*rn1A*rn1A + iB*rn1B*rn1B
			k22 := mA + mB + iA*rn2A*rn2A + iB*rn2B*rn2B
			k12 := mA + mB + iA*rn1A*rn2A + iB*rn1B*rn2B

			// Ensure a reasonable condition number.
			const maxConditionNumber = 1000.0
			if k11*k11 < maxConditionNumber*(k11*k22-k12*k12) {
				// K is safe to invert.
				vc.k.Ex = Vec2{k11, k12}
				vc.k.Ey = Vec2{k12, k22}
				vc.normalMass = vc.k.GetInverse()
			} else {
				// The constraints are redundant, just use one.
				vc.pointCount = 1
			}
		}
	}
}

func (solver *contactSolver) warmStart() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]

		indexA := vc.indexA
		indexB := vc.indexB
		mA := vc.invMassA
		iA := vc.invIA
		mB := vc.invMassB
		iB := vc.invIB
		pointCount := vc.pointCount

		vA := solver.velocities[indexA].v
		wA := solver.velocities[indexA].w
		vB := solver.velocities[indexB].v
		wB := solver.velocities[indexB].w

		normal := vc.normal
		tangent := CrossVS(normal, 1.0)

		for j := 0; j < pointCount; j++ {
			vcp := &vc.points[j]
			p := AddVV(MulSV(vcp.normalImpulse, normal), MulSV(vcp.tangentImpulse, tangent))
			wA -= iA * CrossVV(vcp.rA, p)
			MulSubTo(&vA, mA, p)
			wB += iB * CrossVV(vcp.rB, p)
			MulAddTo(&vB, mB, p)
		}

		solver.velocities[indexA].v = vA
		solver.velocities[indexA].w = wA
		solver.velocities[indexB].v = vB
		solver.velocities[indexB].w = wB
	}
}

func (solver *contactSolver) solveVelocityConstraints() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]

		indexA := vc.indexA
		indexB := vc.indexB
		mA := vc.invMassA
		iA := vc.invIA
		mB := vc.invMassB
		iB := vc.invIB
		pointCount := vc.pointCount

		vA := solver.velocities[indexA].v
		wA := solver.velocities[indexA].w
		vB := solver.velocities[indexB].v
		wB := solver.velocities[indexB].w

		normal := vc.normal
		tangent := CrossVS(normal, 1.0)
		friction := vc.friction

		assert(pointCount == 1 || pointCount == 2)

		// Solve tangent constraints first because non-penetration is more
		// important than friction.
		for j := 0; j < pointCount; j++ {
			vcp := &vc.points[j]

			// Relative velocity at contact.
			dv := AddVV(vB, SubVV(SubVV(CrossSV(wB, vcp.rB), vA), CrossSV(wA, vcp.rA)))

			// Compute tangent force.
			vt := DotVV(dv, tangent) - vc.tangentSpeed
			lambda := vcp.tangentMass * (-vt)

			// Clamp the accumulated force.
			maxFriction := friction * vcp.normalImpulse
			newImpulse := clampFloat(vcp.tangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - vcp.tangentImpulse
			vcp.tangentImpulse = newImpulse

			// Apply contact impulse.
			p := MulSV(lambda, tangent)

			MulSubTo(&vA, mA, p)
			wA -= iA * CrossVV(vcp.rA, p)

			MulAddTo(&vB, mB, p)
			wB += iB * CrossVV(vcp.rB, p)
		}

		// Solve normal constraints.
		if pointCount == 1 || !blockSolve {
			for j := 0; j < pointCount; j++ {
				vcp := &vc.points[j]

				// Relative velocity at contact.
				dv := AddVV(vB, SubVV(SubVV(CrossSV(wB, vcp.rB), vA), CrossSV(wA, vcp.rA)))

				// Compute normal impulse.
				vn := DotVV(dv, normal)
				lambda := -vcp.normalMass * (vn - vcp.velocityBias)

				// Clamp the accumulated impulse.
				newImpulse := math.Max(vcp.normalImpulse+lambda, 0.0)
				lambda = newImpulse - vcp.normalImpulse
				vcp.normalImpulse = newImpulse

				// Apply contact impulse.
				p := MulSV(lambda, normal)
				MulSubTo(&vA, mA, p)
				wA -= iA * CrossVV(vcp.rA, p)

				MulAddTo(&vB, mB, p)
				wB += iB * CrossVV(vcp.rB, p)
			}
		} else {
			// Block solver: build the mini LCP for this contact patch.
			//
			// vn = A * x + b, vn >= 0, x >= 0 and vn_i * x_i = 0 with i = 1..2
			//
			// A = J * W * JT and J = ( -n, -r1 x n, n, r2 x n )
			// b = vn0 - velocityBias
			//
			// The system is solved using the "Total enumeration method"
			// (s. Murty). The complementary constraint vn_i * x_i implies
			// that we must have in any solution either vn_i = 0 or x_i = 0.
			// So for the 2D contact problem the cases vn1 = 0 and vn2 = 0,
			// x1 = 0 and x2 = 0, x1 = 0 and vn2 = 0, x2 = 0 and vn1 = 0 need
			// to be tested. The first valid solution that satisfies the
			// problem is chosen.
			//
			// In order to account for the accumulated impulse 'a' (because
			// of the iterative nature of the solver which only requires that
			// the accumulated impulse is clamped and not the incremental
			// impulse) we change the impulse variable (x_i):
			//
			// substitute x = a + d, where
			// a := old total impulse
			// x := new total impulse
			// d := incremental impulse
			//
			// For the current iteration we extend the formula for the
			// incremental impulse to compute the new total impulse:
			//
			// vn = A * d + b
			//    = A * (x - a) + b
			//    = A * x + b - A * a
			//    = A * x + b'
			// b' = b - A * a

			cp1 := &vc.points[0]
			cp2 := &vc.points[1]

			a := Vec2{cp1.normalImpulse, cp2.normalImpulse}
			assert(a[0] >= 0.0 && a[1] >= 0.0)

			// Relative velocity at contact.
			dv1 := AddVV(vB, SubVV(SubVV(CrossSV(wB, cp1.rB), vA), CrossSV(wA, cp1.rA)))
			dv2 := AddVV(vB, SubVV(SubVV(CrossSV(wB, cp2.rB), vA), CrossSV(wA, cp2.rA)))

			// Compute normal velocity.
			vn1 := DotVV(dv1, normal)
			vn2 := DotVV(dv2, normal)

			b := Vec2{vn1 - cp1.velocityBias, vn2 - cp2.velocityBias}

			// Compute b'.
			b = SubVV(b, MulMV(vc.k, a))

			for {
				// Case 1: vn = 0
				//
				// 0 = A * x + b'
				//
				// Solve for x:
				//
				// x = -inv(A) * b'
				x := NegV(MulMV(vc.normalMass, b))

				if x[0] >= 0.0 && x[1] >= 0.0 {
					// Get the incremental impulse.
					d := SubVV(x, a)

					// Apply incremental impulse.
					p1 := MulSV(d[0], normal)
					p2 := MulSV(d[1], normal)
					MulSubTo(&vA, mA, AddVV(p1, p2))
					wA -= iA * (CrossVV(cp1.rA, p1) + CrossVV(cp2.rA, p2))

					MulAddTo(&vB, mB, AddVV(p1, p2))
					wB += iB * (CrossVV(cp1.rB, p1) + CrossVV(cp2.rB, p2))

					// Accumulate.
					cp1.normalImpulse = x[0]
					cp2.normalImpulse = x[1]
					break
				}

				// Case 2: vn1 = 0 and x2 = 0
				//
				//   0 = a11 * x1 + a12 * 0 + b1'
				// vn2 = a21 * x1 + a22 * 0 + b2'
				x[0] = -cp1.normalMass * b[0]
				x[1] = 0.0
				vn2 = vc.k.Ex[1]*x[0] + b[1]
				if x[0] >= 0.0 && vn2 >= 0.0 {
					d := SubVV(x, a)

					p1 := MulSV(d[0], normal)
					p2 := MulSV(d[1], normal)
					MulSubTo(&vA, mA, AddVV(p1, p2))
					wA -= iA * (CrossVV(cp1.rA, p1) + CrossVV(cp2.rA, p2))

					MulAddTo(&vB, mB, AddVV(p1, p2))
					wB += iB * (CrossVV(cp1.rB, p1) + CrossVV(cp2.rB, p2))

					cp1.normalImpulse = x[0]
					cp2.normalImpulse = x[1]
					break
				}

				// Case 3: vn2 = 0 and x1 = 0
				//
				// vn1 = a11 * 0 + a12 * x2 + b1'
				//   0 = a21 * 0 + a22 * x2 + b2'
				x[0] = 0.0
				x[1] = -cp2.normalMass * b[1]
				vn1 = vc.k.Ey[0]*x[1] + b[0]
				if x[1] >= 0.0 && vn1 >= 0.0 {
					d := SubVV(x, a)

					p1 := MulSV(d[0], normal)
					p2 := MulSV(d[1], normal)
					MulSubTo(&vA, mA, AddVV(p1, p2))
					wA -= iA * (CrossVV(cp1.rA, p1) + CrossVV(cp2.rA, p2))

					MulAddTo(&vB, mB, AddVV(p1, p2))
					wB += iB * (CrossVV(cp1.rB, p1) + CrossVV(cp2.rB, p2))

					cp1.normalImpulse = x[0]
					cp2.normalImpulse = x[1]
					break
				}

				// Case 4: x1 = 0 and x2 = 0
				//
				// vn1 = b1
				// vn2 = b2
				x[0] = 0.0
				x[1] = 0.0
				vn1 = b[0]
				vn2 = b[1]
				if vn1 >= 0.0 && vn2 >= 0.0 {
					d := SubVV(x, a)

					p1 := MulSV(d[0], normal)
					p2 := MulSV(d[1], normal)
					MulSubTo(&vA, mA, AddVV(p1, p2))
					wA -= iA * (CrossVV(cp1.rA, p1) + CrossVV(cp2.rA, p2))

					MulAddTo(&vB, mB, AddVV(p1, p2))
					wB += iB * (CrossVV(cp1.rB, p1) + CrossVV(cp2.rB, p2))

					cp1.normalImpulse = x[0]
					cp2.normalImpulse = x[1]
					break
				}

				// No solution, give up. This is hit sometimes, but it
				// doesn't seem to matter.
				break
			}
		}

		solver.velocities[indexA].v = vA
		solver.velocities[indexA].w = wA
		solver.velocities[indexB].v = vB
		solver.velocities[indexB].w = wB
	}
}

// storeImpulses writes the accumulated impulses back into the manifolds so
// they survive to the next step (warm starting).
func (solver *contactSolver) storeImpulses() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]
		manifold := solver.contacts[vc.contactIndex].GetManifold()

		for j := 0; j < vc.pointCount; j++ {
			manifold.Points[j].NormalImpulse = vc.points[j].normalImpulse
			manifold.Points[j].TangentImpulse = vc.points[j].tangentImpulse
		}
	}
}

type positionSolverManifold struct {
	normal     Vec2
	point      Vec2
	separation float64
}

func (psm *positionSolverManifold) initialize(pc *contactPositionConstraint, xfA, xfB Transform, index int) {
	assert(pc.pointCount > 0)

	switch pc.manifoldType {
	case ManifoldCircles:
		pointA := MulXV(xfA, pc.localPoint)
		pointB := MulXV(xfB, pc.localPoints[0])
		psm.normal, _ = NormalizeV(SubVV(pointB, pointA))
		psm.point = MulSV(0.5, AddVV(pointA, pointB))
		psm.separation = DotVV(SubVV(pointB, pointA), psm.normal) - pc.radiusA - pc.radiusB

	case ManifoldFaceA:
		psm.normal = MulRV(xfA.Q, pc.localNormal)
		planePoint := MulXV(xfA, pc.localPoint)

		clipPoint := MulXV(xfB, pc.localPoints[index])
		psm.separation = DotVV(SubVV(clipPoint, planePoint), psm.normal) - pc.radiusA - pc.radiusB
		psm.point = clipPoint

	case ManifoldFaceB:
		psm.normal = MulRV(xfB.Q, pc.localNormal)
		planePoint := MulXV(xfB, pc.localPoint)

		clipPoint := MulXV(xfA, pc.localPoints[index])
		psm.separation = DotVV(SubVV(clipPoint, planePoint), psm.normal) - pc.radiusA - pc.radiusB
		psm.point = clipPoint

		// Ensure normal points from A to B.
		psm.normal = NegV(psm.normal)
	}
}

// solvePositionConstraints is the sequential position solver. Returns true
// when the worst separation is within tolerance.
func (solver *contactSolver) solvePositionConstraints() bool {
	minSeparation := 0.0

	for i := 0; i < solver.count; i++ {
		pc := &solver.positionConstraints[i]

		indexA := pc.indexA
		indexB := pc.indexB
		localCenterA := pc.localCenterA
		mA := pc.invMassA
		iA := pc.invIA
		localCenterB := pc.localCenterB
		mB := pc.invMassB
		iB := pc.invIB
		pointCount := pc.pointCount

		cA := solver.positions[indexA].c
		aA := solver.positions[indexA].a

		cB := solver.positions[indexB].c
		aB := solver.positions[indexB].a

		// Solve normal constraints.
		for j := 0; j < pointCount; j++ {
			var xfA, xfB Transform
			xfA.Q.Set(aA)
			xfB.Q.Set(aB)
			xfA.P = SubVV(cA, MulRV(xfA.Q, localCenterA))
			xfB.P = SubVV(cB, MulRV(xfB.Q, localCenterB))

			var psm positionSolverManifold
			psm.initialize(pc, xfA, xfB, j)
			normal := psm.normal

			point := psm.point
			separation := psm.separation

			rA := SubVV(point, cA)
			rB := SubVV(point, cB)

			// Track max constraint error.
			minSeparation = math.Min(minSeparation, separation)

			// Prevent large corrections and allow slop.
			c := clampFloat(baumgarte*(separation+LinearSlop), -maxLinearCorrection, 0.0)

			// Compute the effective mass.
			rnA := CrossVV(rA, normal)
			rnB := CrossVV(rB, normal)
			k := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			// Compute normal impulse.
			impulse := 0.0
			if k > 0.0 {
				impulse = -c / k
			}

			p := MulSV(impulse, normal)

			MulSubTo(&cA, mA, p)
			aA -= iA * CrossVV(rA, p)

			MulAddTo(&cB, mB, p)
			aB += iB * CrossVV(rB, p)
		}

		solver.positions[indexA].c = cA
		solver.positions[indexA].a = aA

		solver.positions[indexB].c = cB
		solver.positions[indexB].a = aB
	}

	// We can't expect minSeparation >= -LinearSlop because we don't push the
	// separation above -LinearSlop.
	return minSeparation >= -3.0*LinearSlop
}

// solveTOIPositionConstraints is the sequential position solver used by the
// TOI sub-stepper: only the two TOI bodies get mass, everything else is
// treated as static ballast.
func (solver *contactSolver) solveTOIPositionConstraints(toiIndexA, toiIndexB int) bool {
	minSeparation := 0.0

	for i := 0; i < solver.count; i++ {
		pc := &solver.positionConstraints[i]

		indexA := pc.indexA
		indexB := pc.indexB
		localCenterA := pc.localCenterA
		localCenterB := pc.localCenterB
		pointCount := pc.pointCount

		mA := 0.0
		iA := 0.0
		if indexA == toiIndexA || indexA == toiIndexB {
			mA = pc.invMassA
			iA = pc.invIA
		}

		mB := 0.0
		iB := 0.0
		if indexB == toiIndexA || indexB == toiIndexB {
			mB = pc.invMassB
			iB = pc.invIB
		}

		cA := solver.positions[indexA].c
		aA := solver.positions[indexA].a

		cB := solver.positions[indexB].c
		aB := solver.positions[indexB].a

		// Solve normal constraints.
		for j := 0; j < pointCount; j++ {
			var xfA, xfB Transform
			xfA.Q.Set(aA)
			xfB.Q.Set(aB)
			xfA.P = SubVV(cA, MulRV(xfA.Q, localCenterA))
			xfB.P = SubVV(cB, MulRV(xfB.Q, localCenterB))

			var psm positionSolverManifold
			psm.initialize(pc, xfA, xfB, j)
			normal := psm.normal

			point := psm.point
			separation := psm.separation

			rA := SubVV(point, cA)
			rB := SubVV(point, cB)

			// Track max constraint error.
			minSeparation = math.Min(minSeparation, separation)

			// Prevent large corrections and allow slop.
			c := clampFloat(toiBaumgarte*(separation+LinearSlop), -maxLinearCorrection, 0.0)

			// Compute the effective mass.
			rnA := CrossVV(rA, normal)
			rnB := CrossVV(rB, normal)
			k := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			// Compute normal impulse.
			impulse := 0.0
			if k > 0.0 {
				impulse = -c / k
			}

			p := MulSV(impulse, normal)

			MulSubTo(&cA, mA, p)
			aA -= iA * CrossVV(rA, p)

			MulAddTo(&cB, mB, p)
			aB += iB * CrossVV(rB, p)
		}

		solver.positions[indexA].c = cA
		solver.positions[indexA].a = aA

		solver.positions[indexB].c = cB
		solver.positions[indexB].a = aB
	}

	return minSeparation >= -1.5*LinearSlop
}
