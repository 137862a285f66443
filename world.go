package planar

import (
	"math"
)

const (
	worldFlagNewFixture  = 0x0001
	worldFlagLocked      = 0x0002
	worldFlagClearForces = 0x0004
)

// Pending mutation kinds. Body/joint graph mutations issued while the world
// is locked (from inside contact callbacks) are queued and applied after the
// step completes.
const (
	pendingCreateBody uint8 = iota
	pendingDestroyBody
	pendingCreateJoint
	pendingDestroyJoint
)

type pendingMutation struct {
	kind  uint8
	body  *Body
	joint Joint
}

// World manages all physics entities, dynamic simulation, and asynchronous
// queries.
type World struct {
	flags int

	contactManager ContactManager

	bodyList  *Body
	jointList Joint

	bodyCount  int
	jointCount int

	gravity    Vec2
	allowSleep bool

	destructionListener DestructionListener

	// This is used to compute the time step ratio to support a variable
	// time step.
	invDt0 float64

	// These are for debugging the solver.
	warmStarting      bool
	continuousPhysics bool
	subStepping       bool

	stepComplete bool

	// Graph mutations issued from inside step callbacks, applied in order
	// once the step completes.
	pending []pendingMutation
}

// MakeWorld constructs a world with the given gravity vector.
func MakeWorld(gravity Vec2) World {
	return World{
		warmStarting:      true,
		continuousPhysics: true,

		stepComplete: true,

		allowSleep: true,
		gravity:    gravity,

		flags: worldFlagClearForces,

		contactManager: makeContactManager(),
	}
}

// NewWorld constructs a world with the given gravity vector.
func NewWorld(gravity Vec2) *World {
	w := MakeWorld(gravity)
	return &w
}

// GetBodyList returns the head of the world body list. With GetNext this
// iterates all bodies in the world.
func (world *World) GetBodyList() *Body {
	return world.bodyList
}

// GetJointList returns the head of the world joint list.
func (world *World) GetJointList() Joint {
	return world.jointList
}

// GetContactList returns the head of the world contact list. Contacts in the
// list may not be touching; avoid holding the reference, contacts are
// created and destroyed in the middle of a time step.
func (world *World) GetContactList() *Contact {
	return world.contactManager.contactList
}

func (world *World) GetBodyCount() int {
	return world.bodyCount
}

func (world *World) GetJointCount() int {
	return world.jointCount
}

func (world *World) GetContactCount() int {
	return world.contactManager.contactCount
}

// SetGravity changes the global gravity vector.
func (world *World) SetGravity(gravity Vec2) {
	world.gravity = gravity
}

func (world *World) GetGravity() Vec2 {
	return world.gravity
}

// IsLocked reports whether the world is in the middle of a time step.
func (world *World) IsLocked() bool {
	return world.flags&worldFlagLocked == worldFlagLocked
}

// SetAutoClearForces controls the automatic clearing of forces after each
// time step.
func (world *World) SetAutoClearForces(flag bool) {
	if flag {
		world.flags |= worldFlagClearForces
	} else {
		world.flags &^= worldFlagClearForces
	}
}

// GetAutoClearForces reports whether forces are cleared after each step.
func (world *World) GetAutoClearForces() bool {
	return world.flags&worldFlagClearForces == worldFlagClearForces
}

// SetDestructionListener registers a destruction listener. The listener is
// owned by you and must remain in scope.
func (world *World) SetDestructionListener(listener DestructionListener) {
	world.destructionListener = listener
}

// SetContactFilter registers a contact filter to provide specific control
// over collision. Otherwise the default filter is used.
func (world *World) SetContactFilter(filter ContactFilter) {
	world.contactManager.contactFilter = filter
}

// SetContactListener registers a contact event listener.
func (world *World) SetContactListener(listener ContactListener) {
	world.contactManager.contactListener = listener
}

// SetWarmStarting enables/disables warm starting. For testing.
func (world *World) SetWarmStarting(flag bool) {
	world.warmStarting = flag
}

func (world *World) GetWarmStarting() bool {
	return world.warmStarting
}

// SetContinuousPhysics enables/disables continuous physics. For testing.
func (world *World) SetContinuousPhysics(flag bool) {
	world.continuousPhysics = flag
}

func (world *World) GetContinuousPhysics() bool {
	return world.continuousPhysics
}

// SetSubStepping enables/disables single-stepped continuous physics. For
// testing.
func (world *World) SetSubStepping(flag bool) {
	world.subStepping = flag
}

func (world *World) GetSubStepping() bool {
	return world.subStepping
}

// CreateBody creates a rigid body from a definition. No reference to the
// definition is retained.
//
// Called from inside a step callback, the body is constructed immediately
// but joins the world only after the step completes.
func (world *World) CreateBody(def *BodyDef) *Body {
	b := newBody(def, world)

	if world.IsLocked() {
		world.pending = append(world.pending, pendingMutation{kind: pendingCreateBody, body: b})
		return b
	}

	world.linkBody(b)

	return b
}

// linkBody adds a constructed body to the world doubly linked list.
func (world *World) linkBody(b *Body) {
	b.prev = nil
	b.next = world.bodyList
	if world.bodyList != nil {
		world.bodyList.prev = b
	}
	world.bodyList = b
	world.bodyCount++
}

// DestroyBody destroys a rigid body. Destruction cascades: attached joints
// first, then contacts, then fixtures with their broad-phase proxies.
//
// Called from inside a step callback, the destruction is queued and applied
// after the step completes; until then the body keeps simulating.
func (world *World) DestroyBody(b *Body) {
	if world.IsLocked() {
		world.pending = append(world.pending, pendingMutation{kind: pendingDestroyBody, body: b})
		return
	}

	assert(world.bodyCount > 0)

	// Delete the attached joints.
	je := b.jointList
	for je != nil {
		je0 := je
		je = je.Next

		if world.destructionListener != nil {
			world.destructionListener.SayGoodbyeToJoint(je0.Joint)
		}

		world.DestroyJoint(je0.Joint)

		b.jointList = je
	}
	b.jointList = nil

	// Delete the attached contacts.
	ce := b.contactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		world.contactManager.destroy(ce0.Contact)
	}
	b.contactList = nil

	// Delete the attached fixtures. This destroys broad-phase proxies.
	f := b.fixtureList
	for f != nil {
		f0 := f
		f = f.next

		if world.destructionListener != nil {
			world.destructionListener.SayGoodbyeToFixture(f0)
		}

		f0.destroyProxies(&world.contactManager.broadPhase)
		f0.destroy()

		b.fixtureList = f
		b.fixtureCount--
	}

	b.fixtureList = nil
	b.fixtureCount = 0

	// Remove from world body list.
	if b.prev != nil {
		b.prev.next = b.next
	}

	if b.next != nil {
		b.next.prev = b.prev
	}

	if b == world.bodyList {
		world.bodyList = b.next
	}

	world.bodyCount--
}

// CreateJoint creates a joint to constrain bodies together. No reference to
// the definition is retained. This may cause the connected bodies to cease
// colliding.
//
// Called from inside a step callback, the joint is constructed immediately
// but joins the world only after the step completes.
func (world *World) CreateJoint(def JointDef) Joint {
	j := jointCreate(def)

	if world.IsLocked() {
		world.pending = append(world.pending, pendingMutation{kind: pendingCreateJoint, joint: j})
		return j
	}

	world.linkJoint(j)

	return j
}

// linkJoint adds a constructed joint to the world list and both bodies'
// joint edge lists, flagging contacts for filtering when the joint disables
// collision between its bodies.
func (world *World) linkJoint(j Joint) {
	jb := j.base()

	// Connect to the world list.
	jb.prev = nil
	jb.next = world.jointList
	if world.jointList != nil {
		world.jointList.base().prev = j
	}
	world.jointList = j
	world.jointCount++

	// Connect to the bodies' doubly linked lists.
	jb.edgeA.Joint = j
	jb.edgeA.Other = jb.bodyB
	jb.edgeA.Prev = nil
	jb.edgeA.Next = jb.bodyA.jointList
	if jb.bodyA.jointList != nil {
		jb.bodyA.jointList.Prev = &jb.edgeA
	}
	jb.bodyA.jointList = &jb.edgeA

	jb.edgeB.Joint = j
	jb.edgeB.Other = jb.bodyA
	jb.edgeB.Prev = nil
	jb.edgeB.Next = jb.bodyB.jointList
	if jb.bodyB.jointList != nil {
		jb.bodyB.jointList.Prev = &jb.edgeB
	}
	jb.bodyB.jointList = &jb.edgeB

	// If the joint prevents collisions, then flag any contacts for
	// filtering.
	if !jb.collideConnected {
		for edge := jb.bodyB.GetContactList(); edge != nil; edge = edge.Next {
			if edge.Other == jb.bodyA {
				// Flag the contact for filtering at the next time step
				// (where either body is awake).
				edge.Contact.FlagForFiltering()
			}
		}
	}

	// Note: creating a joint doesn't wake the bodies.
}

// DestroyJoint destroys a joint. This may cause the connected bodies to
// begin colliding.
//
// Called from inside a step callback, the destruction is queued and applied
// after the step completes.
func (world *World) DestroyJoint(j Joint) {
	if world.IsLocked() {
		world.pending = append(world.pending, pendingMutation{kind: pendingDestroyJoint, joint: j})
		return
	}

	jb := j.base()

	collideConnected := jb.collideConnected

	// Remove from the doubly linked list.
	if jb.prev != nil {
		jb.prev.base().next = jb.next
	}

	if jb.next != nil {
		jb.next.base().prev = jb.prev
	}

	if j == world.jointList {
		world.jointList = jb.next
	}

	// Disconnect from island graph.
	bodyA := jb.bodyA
	bodyB := jb.bodyB

	// Wake up connected bodies.
	bodyA.SetAwake(true)
	bodyB.SetAwake(true)

	// Remove from body A.
	if jb.edgeA.Prev != nil {
		jb.edgeA.Prev.Next = jb.edgeA.Next
	}

	if jb.edgeA.Next != nil {
		jb.edgeA.Next.Prev = jb.edgeA.Prev
	}

	if &jb.edgeA == bodyA.jointList {
		bodyA.jointList = jb.edgeA.Next
	}

	jb.edgeA.Prev = nil
	jb.edgeA.Next = nil

	// Remove from body B.
	if jb.edgeB.Prev != nil {
		jb.edgeB.Prev.Next = jb.edgeB.Next
	}

	if jb.edgeB.Next != nil {
		jb.edgeB.Next.Prev = jb.edgeB.Prev
	}

	if &jb.edgeB == bodyB.jointList {
		bodyB.jointList = jb.edgeB.Next
	}

	jb.edgeB.Prev = nil
	jb.edgeB.Next = nil

	assert(world.jointCount > 0)
	world.jointCount--

	// If the joint prevented collisions, then flag any contacts for
	// filtering.
	if !collideConnected {
		for edge := bodyB.GetContactList(); edge != nil; edge = edge.Next {
			if edge.Other == bodyA {
				// Flag the contact for filtering at the next time step
				// (where either body is awake).
				edge.Contact.FlagForFiltering()
			}
		}
	}
}

// SetAllowSleeping enables/disables sleep.
func (world *World) SetAllowSleeping(flag bool) {
	if flag == world.allowSleep {
		return
	}

	world.allowSleep = flag
	if !world.allowSleep {
		for b := world.bodyList; b != nil; b = b.next {
			b.SetAwake(true)
		}
	}
}

func (world *World) GetAllowSleeping() bool {
	return world.allowSleep
}

// solve finds islands, integrates and solves constraints, and solves
// position constraints.
func (world *World) solve(step timeStep) {
	// Size the island for the worst case.
	isl := makeIsland(
		world.bodyCount,
		world.contactManager.contactCount,
		world.jointCount,
		world.contactManager.contactListener,
	)

	// Clear all the island flags.
	for b := world.bodyList; b != nil; b = b.next {
		b.flags &^= bodyFlagIsland
	}
	for c := world.contactManager.contactList; c != nil; c = c.GetNext() {
		c.flags &^= contactFlagIsland
	}
	for j := world.jointList; j != nil; j = j.GetNext() {
		j.base().islandFlag = false
	}

	// Build and simulate all awake islands.
	stackSize := world.bodyCount
	stack := make([]*Body, stackSize)

	for seed := world.bodyList; seed != nil; seed = seed.next {
		if seed.flags&bodyFlagIsland != 0 {
			continue
		}

		if !seed.IsAwake() || !seed.IsActive() {
			continue
		}

		// The seed can be dynamic or kinematic.
		if seed.GetType() == StaticBody {
			continue
		}

		// Reset island and stack.
		isl.clear()
		stackCount := 0
		stack[stackCount] = seed
		stackCount++
		seed.flags |= bodyFlagIsland

		// Perform a depth first search (DFS) on the constraint graph.
		for stackCount > 0 {
			// Grab the next body off the stack and add it to the island.
			stackCount--
			b := stack[stackCount]
			assert(b.IsActive())
			isl.addBody(b)

			// Make sure the body is awake (without resetting sleep timer).
			b.flags |= bodyFlagAwake

			// To keep islands as small as possible, we don't propagate
			// islands across static bodies.
			if b.GetType() == StaticBody {
				continue
			}

			// Search all contacts connected to this body.
			for ce := b.contactList; ce != nil; ce = ce.Next {
				contact := ce.Contact

				// Has this contact already been added to an island?
				if contact.flags&contactFlagIsland != 0 {
					continue
				}

				// Is this contact solid and touching?
				if !contact.IsEnabled() || !contact.IsTouching() {
					continue
				}

				// Skip sensors.
				sensorA := contact.fixtureA.isSensor
				sensorB := contact.fixtureB.isSensor
				if sensorA || sensorB {
					continue
				}

				isl.addContact(contact)
				contact.flags |= contactFlagIsland

				other := ce.Other

				// Was the other body already added to this island?
				if other.flags&bodyFlagIsland != 0 {
					continue
				}

				assert(stackCount < stackSize)
				stack[stackCount] = other
				stackCount++
				other.flags |= bodyFlagIsland
			}

			// Search all joints connected to this body.
			for je := b.jointList; je != nil; je = je.Next {
				if je.Joint.base().islandFlag {
					continue
				}

				other := je.Other

				// Don't simulate joints connected to inactive bodies.
				if !other.IsActive() {
					continue
				}

				isl.addJoint(je.Joint)
				je.Joint.base().islandFlag = true

				if other.flags&bodyFlagIsland != 0 {
					continue
				}

				assert(stackCount < stackSize)
				stack[stackCount] = other
				stackCount++
				other.flags |= bodyFlagIsland
			}
		}

		isl.solve(step, world.gravity, world.allowSleep)

		// Post solve cleanup: allow static bodies to participate in other
		// islands.
		for i := 0; i < isl.bodyCount; i++ {
			b := isl.bodies[i]
			if b.GetType() == StaticBody {
				b.flags &^= bodyFlagIsland
			}
		}
	}

	// Synchronize fixtures, check for out of range bodies.
	for b := world.bodyList; b != nil; b = b.GetNext() {
		// If a body was not in an island then it did not move.
		if b.flags&bodyFlagIsland == 0 {
			continue
		}

		if b.GetType() == StaticBody {
			continue
		}

		// Update fixtures (for broad-phase).
		b.synchronizeFixtures()
	}

	// Look for new contacts.
	world.contactManager.findNewContacts()
}

// solveTOI finds TOI contacts and solves them via position-only sub-steps.
func (world *World) solveTOI(step timeStep) {
	isl := makeIsland(2*maxTOIContacts, maxTOIContacts, 0, world.contactManager.contactListener)

	if world.stepComplete {
		for b := world.bodyList; b != nil; b = b.next {
			b.flags &^= bodyFlagIsland
			b.sweep.Alpha0 = 0.0
		}

		for c := world.contactManager.contactList; c != nil; c = c.GetNext() {
			// Invalidate TOI.
			c.flags &^= contactFlagTOI | contactFlagIsland
			c.toiCount = 0
			c.toi = 1.0
		}
	}

	// Find TOI events and solve them.
	for {
		// Find the first TOI.
		var minContact *Contact
		minAlpha := 1.0

		for c := world.contactManager.contactList; c != nil; c = c.GetNext() {
			// Is this contact disabled?
			if !c.IsEnabled() {
				continue
			}

			// Prevent excessive sub-stepping.
			if c.toiCount > maxSubSteps {
				continue
			}

			alpha := 1.0
			if c.flags&contactFlagTOI != 0 {
				// This contact has a valid cached TOI.
				alpha = c.toi
			} else {
				fA := c.GetFixtureA()
				fB := c.GetFixtureB()

				// Is there a sensor?
				if fA.IsSensor() || fB.IsSensor() {
					continue
				}

				bA := fA.GetBody()
				bB := fB.GetBody()

				typeA := bA.bodyType
				typeB := bB.bodyType
				assert(typeA == DynamicBody || typeB == DynamicBody)

				activeA := bA.IsAwake() && typeA != StaticBody
				activeB := bB.IsAwake() && typeB != StaticBody

				// Is at least one body active (awake and dynamic or
				// kinematic)?
				if !activeA && !activeB {
					continue
				}

				collideA := bA.IsBullet() || typeA != DynamicBody
				collideB := bB.IsBullet() || typeB != DynamicBody

				// Are these two non-bullet dynamic bodies?
				if !collideA && !collideB {
					continue
				}

				// Compute the TOI for this contact.
				// Put the sweeps onto the same time interval.
				alpha0 := bA.sweep.Alpha0

				if bA.sweep.Alpha0 < bB.sweep.Alpha0 {
					alpha0 = bB.sweep.Alpha0
					bA.sweep.Advance(alpha0)
				} else if bB.sweep.Alpha0 < bA.sweep.Alpha0 {
					alpha0 = bA.sweep.Alpha0
					bB.sweep.Advance(alpha0)
				}

				assert(alpha0 < 1.0)

				indexA := c.GetChildIndexA()
				indexB := c.GetChildIndexB()

				// Compute the time of impact in interval [0, minTOI].
				var input TOIInput
				input.ProxyA.Set(fA.GetShape(), indexA)
				input.ProxyB.Set(fB.GetShape(), indexB)
				input.SweepA = bA.sweep
				input.SweepB = bB.sweep
				input.TMax = 1.0

				var output TOIOutput
				TimeOfImpact(&output, &input)

				// Beta is the fraction of the remaining portion of the
				// step.
				beta := output.T
				if output.State == TOIStateTouching {
					alpha = math.Min(alpha0+(1.0-alpha0)*beta, 1.0)
				} else {
					alpha = 1.0
				}

				c.toi = alpha
				c.flags |= contactFlagTOI
			}

			if alpha < minAlpha {
				// This is the minimum TOI found so far.
				minContact = c
				minAlpha = alpha
			}
		}

		if minContact == nil || 1.0-10.0*epsilon < minAlpha {
			// No more TOI events. Done!
			world.stepComplete = true
			break
		}

		// Advance the bodies to the TOI.
		fA := minContact.GetFixtureA()
		fB := minContact.GetFixtureB()
		bA := fA.GetBody()
		bB := fB.GetBody()

		backup1 := bA.sweep
		backup2 := bB.sweep

		bA.advance(minAlpha)
		bB.advance(minAlpha)

		// The TOI contact likely has some new contact points.
		minContact.update(world.contactManager.contactListener)
		minContact.flags &^= contactFlagTOI
		minContact.toiCount++

		// Is the contact solid?
		if !minContact.IsEnabled() || !minContact.IsTouching() {
			// Restore the sweeps.
			minContact.SetEnabled(false)
			bA.sweep = backup1
			bB.sweep = backup2
			bA.synchronizeTransform()
			bB.synchronizeTransform()
			continue
		}

		bA.SetAwake(true)
		bB.SetAwake(true)

		// Build the island.
		isl.clear()
		isl.addBody(bA)
		isl.addBody(bB)
		isl.addContact(minContact)

		bA.flags |= bodyFlagIsland
		bB.flags |= bodyFlagIsland
		minContact.flags |= contactFlagIsland

		// Get contacts on bodyA and bodyB.
		bodies := [2]*Body{bA, bB}

		for i := 0; i < 2; i++ {
			body := bodies[i]
			if body.bodyType != DynamicBody {
				continue
			}
			for ce := body.contactList; ce != nil; ce = ce.Next {
				if isl.bodyCount == isl.bodyCapacity {
					break
				}

				if isl.contactCount == isl.contactCapacity {
					break
				}

				contact := ce.Contact

				// Has this contact already been added to the island?
				if contact.flags&contactFlagIsland != 0 {
					continue
				}

				// Only add static, kinematic, or bullet bodies.
				other := ce.Other
				if other.bodyType == DynamicBody &&
					!body.IsBullet() && !other.IsBullet() {
					continue
				}

				// Skip sensors.
				sensorA := contact.fixtureA.isSensor
				sensorB := contact.fixtureB.isSensor
				if sensorA || sensorB {
					continue
				}

				// Tentatively advance the body to the TOI.
				backup := other.sweep
				if other.flags&bodyFlagIsland == 0 {
					other.advance(minAlpha)
				}

				// Update the contact points.
				contact.update(world.contactManager.contactListener)

				// Was the contact disabled by the user?
				if !contact.IsEnabled() {
					other.sweep = backup
					other.synchronizeTransform()
					continue
				}

				// Are there contact points?
				if !contact.IsTouching() {
					other.sweep = backup
					other.synchronizeTransform()
					continue
				}

				// Add the contact to the island.
				contact.flags |= contactFlagIsland
				isl.addContact(contact)

				// Has the other body already been added to the island?
				if other.flags&bodyFlagIsland != 0 {
					continue
				}

				// Add the other body to the island.
				other.flags |= bodyFlagIsland

				if other.bodyType != StaticBody {
					other.SetAwake(true)
				}

				isl.addBody(other)
			}
		}

		var subStep timeStep
		subStep.dt = (1.0 - minAlpha) * step.dt
		subStep.invDt = 1.0 / subStep.dt
		subStep.dtRatio = 1.0
		subStep.positionIterations = 20
		subStep.velocityIterations = step.velocityIterations
		subStep.warmStarting = false
		isl.solveTOI(subStep, bA.islandIndex, bB.islandIndex)

		// Reset island flags and synchronize broad-phase proxies.
		for i := 0; i < isl.bodyCount; i++ {
			body := isl.bodies[i]
			body.flags &^= bodyFlagIsland

			if body.bodyType != DynamicBody {
				continue
			}

			body.synchronizeFixtures()

			// Invalidate all contact TOIs on this displaced body.
			for ce := body.contactList; ce != nil; ce = ce.Next {
				ce.Contact.flags &^= contactFlagTOI | contactFlagIsland
			}
		}

		// Commit fixture proxy movements to the broad-phase so that new
		// contacts are created. Also, some contacts can be destroyed.
		world.contactManager.findNewContacts()

		if world.subStepping {
			world.stepComplete = false
			break
		}
	}
}

// Step advances the simulation, performing collision detection, integration,
// and constraint solution.
//
// dt is the amount of time to simulate; this should not vary.
// velocityIterations and positionIterations control the constraint solver
// quality.
//
// Body and joint creation or destruction requested by contact callbacks
// during the step is applied after the solve, before Step returns.
func (world *World) Step(dt float64, velocityIterations, positionIterations int) {
	// If new fixtures were added, we need to find the new contacts.
	if world.flags&worldFlagNewFixture != 0 {
		world.contactManager.findNewContacts()
		world.flags &^= worldFlagNewFixture
	}

	world.flags |= worldFlagLocked

	var step timeStep
	step.dt = dt
	step.velocityIterations = velocityIterations
	step.positionIterations = positionIterations
	if dt > 0.0 {
		step.invDt = 1.0 / dt
	} else {
		step.invDt = 0.0
	}

	step.dtRatio = world.invDt0 * dt

	step.warmStarting = world.warmStarting

	// Update contacts. This is where some contacts are destroyed.
	world.contactManager.collide()

	// Integrate velocities, solve velocity constraints, and integrate
	// positions.
	if world.stepComplete && step.dt > 0.0 {
		world.solve(step)
	}

	// Handle TOI events.
	if world.continuousPhysics && step.dt > 0.0 {
		world.solveTOI(step)
	}

	if step.dt > 0.0 {
		world.invDt0 = step.invDt
	}

	if world.flags&worldFlagClearForces != 0 {
		world.ClearForces()
	}

	world.flags &^= worldFlagLocked

	world.flushPending()
}

// flushPending applies the body/joint graph mutations that were issued from
// inside step callbacks, in the order they were requested.
func (world *World) flushPending() {
	if len(world.pending) == 0 {
		return
	}

	pending := world.pending
	world.pending = nil

	for _, op := range pending {
		switch op.kind {
		case pendingCreateBody:
			world.linkBody(op.body)
		case pendingDestroyBody:
			world.DestroyBody(op.body)
		case pendingCreateJoint:
			world.linkJoint(op.joint)
		case pendingDestroyJoint:
			world.DestroyJoint(op.joint)
		}
	}
}

// ClearForces zeroes the force and torque accumulators on every body. By
// default this is called automatically at the end of each Step; disable
// that with SetAutoClearForces when sub-stepping a fixed dt with multiple
// Step calls per frame.
func (world *World) ClearForces() {
	for body := world.bodyList; body != nil; body = body.GetNext() {
		body.force = Vec2{}
		body.torque = 0.0
	}
}

// QueryAABB queries the world for all fixtures that potentially overlap the
// provided AABB. The callback returns false to terminate.
func (world *World) QueryAABB(callback QueryCallback, aabb AABB) {
	broadPhase := &world.contactManager.broadPhase
	broadPhase.Query(func(proxyId int) bool {
		proxy := broadPhase.GetUserData(proxyId).(*fixtureProxy)
		return callback(proxy.fixture)
	}, aabb)
}

// RayCast rays-casts the world for all fixtures in the path of the ray. Your
// callback controls whether you get the closest point, any point, or n
// points; it clips the ray by returning a fraction per §RayCastCallback.
// The ray-cast ignores shapes that contain the starting point.
func (world *World) RayCast(callback RayCastCallback, point1, point2 Vec2) {
	broadPhase := &world.contactManager.broadPhase

	wrapper := func(input RayCastInput, nodeId int) float64 {
		userData := broadPhase.GetUserData(nodeId)
		proxy := userData.(*fixtureProxy)
		fixture := proxy.fixture
		index := proxy.childIndex
		var output RayCastOutput
		hit := fixture.RayCast(&output, input, index)

		if hit {
			fraction := output.Fraction
			point := AddVV(MulSV(1.0-fraction, input.P1), MulSV(fraction, input.P2))
			return callback(fixture, point, output.Normal, fraction)
		}

		return input.MaxFraction
	}

	input := RayCastInput{
		P1:          point1,
		P2:          point2,
		MaxFraction: 1.0,
	}
	broadPhase.RayCast(wrapper, input)
}

// GetProxyCount returns the number of broad-phase proxies.
func (world *World) GetProxyCount() int {
	return world.contactManager.broadPhase.GetProxyCount()
}

// GetTreeHeight returns the height of the dynamic tree.
func (world *World) GetTreeHeight() int {
	return world.contactManager.broadPhase.GetTreeHeight()
}

// GetTreeBalance returns the balance of the dynamic tree.
func (world *World) GetTreeBalance() int {
	return world.contactManager.broadPhase.GetTreeBalance()
}

// GetTreeQuality returns the quality metric of the dynamic tree. The smaller
// the better; the minimum is 1.
func (world *World) GetTreeQuality() float64 {
	return world.contactManager.broadPhase.GetTreeQuality()
}

// ShiftOrigin shifts the world origin. Useful for large worlds. The body
// shift formula is: position -= newOrigin.
func (world *World) ShiftOrigin(newOrigin Vec2) {
	assert(world.flags&worldFlagLocked == 0)
	if world.flags&worldFlagLocked == worldFlagLocked {
		return
	}

	for b := world.bodyList; b != nil; b = b.next {
		SubVVTo(&b.xf.P, b.xf.P, newOrigin)
		SubVVTo(&b.sweep.C0, b.sweep.C0, newOrigin)
		SubVVTo(&b.sweep.C, b.sweep.C, newOrigin)
	}

	for j := world.jointList; j != nil; j = j.GetNext() {
		j.ShiftOrigin(newOrigin)
	}

	world.contactManager.broadPhase.ShiftOrigin(newOrigin)
}
