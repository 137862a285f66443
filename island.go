package planar

import (
	"math"
)

// island is a transient connected component of awake dynamic bodies plus
// their contacts and joints, solved as a unit.
//
// Position correction here is done only by a separate non-linear
// Gauss-Seidel position solver (the velocity bias carries restitution
// alone): radius vectors and
// position errors are recomputed per iteration, and iterations terminate
// early once every constraint reports an error within slop.
//
// Body state is staged into compact position/velocity arrays for the solver
// loops; constraints carry read-only mass data so the bodies themselves are
// untouched until the write-back.
type island struct {
	listener ContactListener

	bodies   []*Body
	contacts []*Contact
	joints   []Joint

	positions  []position
	velocities []velocity

	bodyCount    int
	jointCount   int
	contactCount int

	bodyCapacity    int
	contactCapacity int
	jointCapacity   int
}

func makeIsland(bodyCapacity, contactCapacity, jointCapacity int, listener ContactListener) island {
	return island{
		bodyCapacity:    bodyCapacity,
		contactCapacity: contactCapacity,
		jointCapacity:   jointCapacity,

		listener: listener,

		bodies:   make([]*Body, bodyCapacity),
		contacts: make([]*Contact, contactCapacity),
		joints:   make([]Joint, jointCapacity),

		velocities: make([]velocity, bodyCapacity),
		positions:  make([]position, bodyCapacity),
	}
}

func (island *island) clear() {
	island.bodyCount = 0
	island.contactCount = 0
	island.jointCount = 0
}

func (island *island) addBody(body *Body) {
	assert(island.bodyCount < island.bodyCapacity)
	body.islandIndex = island.bodyCount
	island.bodies[island.bodyCount] = body
	island.bodyCount++
}

func (island *island) addContact(contact *Contact) {
	assert(island.contactCount < island.contactCapacity)
	island.contacts[island.contactCount] = contact
	island.contactCount++
}

func (island *island) addJoint(joint Joint) {
	assert(island.jointCount < island.jointCapacity)
	island.joints[island.jointCount] = joint
	island.jointCount++
}

func (island *island) solve(step timeStep, gravity Vec2, allowSleep bool) {
	h := step.dt

	// Integrate velocities and apply damping. Initialize the body state.
	for i := 0; i < island.bodyCount; i++ {
		b := island.bodies[i]

		c := b.sweep.C
		a := b.sweep.A
		v := b.linearVelocity
		w := b.angularVelocity

		// Store positions for continuous collision.
		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A

		if b.bodyType == DynamicBody {
			// Integrate velocities.
			MulAddTo(&v, h, AddVV(
				MulSV(b.gravityScale, gravity),
				MulSV(b.invMass, b.force),
			))
			w += h * b.invI * b.torque

			// Apply damping.
			// ODE: dv/dt + c * v = 0
			// Solution: v(t) = v0 * exp(-c * t)
			// Time step: v(t + dt) = v0 * exp(-c * (t + dt))
			//                      = v0 * exp(-c * t) * exp(-c * dt)
			//                      = v * exp(-c * dt)
			// v2 = exp(-c * dt) * v1
			// Pade approximation:
			// v2 = v1 * 1 / (1 + c * dt)
			MulSVTo(&v, 1.0/(1.0+h*b.linearDamping), v)
			w *= 1.0 / (1.0 + h*b.angularDamping)
		}

		island.positions[i].c = c
		island.positions[i].a = a
		island.velocities[i].v = v
		island.velocities[i].w = w
	}

	// Solver data.
	var data solverData
	data.step = step
	data.positions = island.positions
	data.velocities = island.velocities

	// Initialize velocity constraints.
	var def contactSolverDef
	def.step = step
	def.contacts = island.contacts
	def.count = island.contactCount
	def.positions = island.positions
	def.velocities = island.velocities

	solver := makeContactSolver(&def)
	solver.initializeVelocityConstraints()

	if step.warmStarting {
		solver.warmStart()
	}

	for i := 0; i < island.jointCount; i++ {
		island.joints[i].InitVelocityConstraints(&data)
	}

	// Solve velocity constraints.
	for i := 0; i < step.velocityIterations; i++ {
		for j := 0; j < island.jointCount; j++ {
			island.joints[j].SolveVelocityConstraints(&data)
		}

		solver.solveVelocityConstraints()
	}

	// Store impulses for warm starting.
	solver.storeImpulses()

	// Integrate positions.
	for i := 0; i < island.bodyCount; i++ {
		c := island.positions[i].c
		a := island.positions[i].a
		v := island.velocities[i].v
		w := island.velocities[i].w

		// Check for large velocities.
		translation := MulSV(h, v)
		if DotVV(translation, translation) > maxTranslationSquared {
			ratio := maxTranslation / LengthV(translation)
			MulSVTo(&v, ratio, v)
		}

		rotation := h * w
		if rotation*rotation > maxRotationSquared {
			ratio := maxRotation / math.Abs(rotation)
			w *= ratio
		}

		// Integrate.
		MulAddTo(&c, h, v)
		a += h * w

		island.positions[i].c = c
		island.positions[i].a = a
		island.velocities[i].v = v
		island.velocities[i].w = w
	}

	// Solve position constraints.
	positionSolved := false
	for i := 0; i < step.positionIterations; i++ {
		contactsOkay := solver.solvePositionConstraints()

		jointsOkay := true
		for j := 0; j < island.jointCount; j++ {
			jointOkay := island.joints[j].SolvePositionConstraints(&data)
			jointsOkay = jointsOkay && jointOkay
		}

		if contactsOkay && jointsOkay {
			// Exit early if the position errors are small.
			positionSolved = true
			break
		}
	}

	// Copy state buffers back to the bodies.
	for i := 0; i < island.bodyCount; i++ {
		body := island.bodies[i]
		body.sweep.C = island.positions[i].c
		body.sweep.A = island.positions[i].a
		body.linearVelocity = island.velocities[i].v
		body.angularVelocity = island.velocities[i].w
		body.synchronizeTransform()
	}

	island.report(solver.velocityConstraints)

	if allowSleep {
		minSleepTime := maxFloat

		const linTolSqr = linearSleepTolerance * linearSleepTolerance
		const angTolSqr = angularSleepTolerance * angularSleepTolerance

		for i := 0; i < island.bodyCount; i++ {
			b := island.bodies[i]
			if b.GetType() == StaticBody {
				continue
			}

			if b.flags&bodyFlagAutoSleep == 0 ||
				b.angularVelocity*b.angularVelocity > angTolSqr ||
				DotVV(b.linearVelocity, b.linearVelocity) > linTolSqr {
				b.sleepTime = 0.0
				minSleepTime = 0.0
			} else {
				b.sleepTime += h
				minSleepTime = math.Min(minSleepTime, b.sleepTime)
			}
		}

		if minSleepTime >= timeToSleep && positionSolved {
			for i := 0; i < island.bodyCount; i++ {
				island.bodies[i].SetAwake(false)
			}
		}
	}
}

// solveTOI runs the position-only sub-step for a TOI island: the two TOI
// bodies get corrected against all staged contacts, then velocities are
// solved and positions integrated over the remaining sub-step.
func (island *island) solveTOI(subStep timeStep, toiIndexA, toiIndexB int) {
	assert(toiIndexA < island.bodyCount)
	assert(toiIndexB < island.bodyCount)

	// Initialize the body state.
	for i := 0; i < island.bodyCount; i++ {
		b := island.bodies[i]
		island.positions[i].c = b.sweep.C
		island.positions[i].a = b.sweep.A
		island.velocities[i].v = b.linearVelocity
		island.velocities[i].w = b.angularVelocity
	}

	var def contactSolverDef
	def.contacts = island.contacts
	def.count = island.contactCount
	def.step = subStep
	def.positions = island.positions
	def.velocities = island.velocities
	solver := makeContactSolver(&def)

	// Solve position constraints.
	for i := 0; i < subStep.positionIterations; i++ {
		contactsOkay := solver.solveTOIPositionConstraints(toiIndexA, toiIndexB)
		if contactsOkay {
			break
		}
	}

	// Leap of faith to new safe state.
	island.bodies[toiIndexA].sweep.C0 = island.positions[toiIndexA].c
	island.bodies[toiIndexA].sweep.A0 = island.positions[toiIndexA].a
	island.bodies[toiIndexB].sweep.C0 = island.positions[toiIndexB].c
	island.bodies[toiIndexB].sweep.A0 = island.positions[toiIndexB].a

	// No warm starting is needed for TOI events because warm starting
	// impulses were applied in the discrete solver.
	solver.initializeVelocityConstraints()

	// Solve velocity constraints.
	for i := 0; i < subStep.velocityIterations; i++ {
		solver.solveVelocityConstraints()
	}

	// Don't store the TOI contact forces for warm starting because they can
	// be quite large.

	h := subStep.dt

	// Integrate positions.
	for i := 0; i < island.bodyCount; i++ {
		c := island.positions[i].c
		a := island.positions[i].a
		v := island.velocities[i].v
		w := island.velocities[i].w

		// Check for large velocities.
		translation := MulSV(h, v)
		if DotVV(translation, translation) > maxTranslationSquared {
			ratio := maxTranslation / LengthV(translation)
			MulSVTo(&v, ratio, v)
		}

		rotation := h * w
		if rotation*rotation > maxRotationSquared {
			ratio := maxRotation / math.Abs(rotation)
			w *= ratio
		}

		// Integrate.
		MulAddTo(&c, h, v)
		a += h * w

		island.positions[i].c = c
		island.positions[i].a = a
		island.velocities[i].v = v
		island.velocities[i].w = w

		// Sync bodies.
		body := island.bodies[i]
		body.sweep.C = c
		body.sweep.A = a
		body.linearVelocity = v
		body.angularVelocity = w
		body.synchronizeTransform()
	}

	island.report(solver.velocityConstraints)
}

// report delivers post-solve impulses to the contact listener.
func (island *island) report(constraints []contactVelocityConstraint) {
	if island.listener == nil {
		return
	}

	for i := 0; i < island.contactCount; i++ {
		c := island.contacts[i]

		vc := &constraints[i]

		var impulse ContactImpulse
		impulse.Count = vc.pointCount

		for j := 0; j < vc.pointCount; j++ {
			impulse.NormalImpulses[j] = vc.points[j].normalImpulse
			impulse.TangentImpulses[j] = vc.points[j].tangentImpulse
		}

		island.listener.PostSolve(c, &impulse)
	}
}
