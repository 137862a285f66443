package planar

// Body types.
//   - static: zero mass, zero velocity, may be manually moved
//   - kinematic: zero mass, non-zero velocity set by user, moved by solver
//   - dynamic: positive mass, non-zero velocity determined by forces, moved
//     by solver
const (
	StaticBody uint8 = iota
	KinematicBody
	DynamicBody
)

// BodyDef holds all the data needed to construct a rigid body. You can
// safely re-use body definitions. Shapes are added to a body after
// construction.
type BodyDef struct {
	// The body type: static, kinematic, or dynamic.
	// Note: if a dynamic body would have zero mass, the mass is set to one.
	Type uint8

	// The world position of the body. Avoid creating bodies at the origin
	// since this can lead to many overlapping shapes.
	Position Vec2

	// The world angle of the body in radians.
	Angle float64

	// The linear velocity of the body's origin in world co-ordinates.
	LinearVelocity Vec2

	// The angular velocity of the body.
	AngularVelocity float64

	// Linear damping is used to reduce the linear velocity. The damping
	// parameter can be larger than 1.0 but the damping effect becomes
	// sensitive to the time step when the damping parameter is large.
	// Units are 1/time.
	LinearDamping float64

	// Angular damping is used to reduce the angular velocity. Same caveats
	// as LinearDamping.
	AngularDamping float64

	// Set this flag to false if this body should never fall asleep. Note
	// that this increases CPU usage.
	AllowSleep bool

	// Is this body initially awake or sleeping?
	Awake bool

	// Should this body be prevented from rotating? Useful for characters.
	FixedRotation bool

	// Is this a fast moving body that should be prevented from tunneling
	// through other moving bodies? Note that all bodies are prevented from
	// tunneling through kinematic and static bodies. This setting is only
	// considered on dynamic bodies. Use this flag sparingly since it
	// increases processing time.
	Bullet bool

	// Does this body start out active?
	Active bool

	// Use this to store application specific body data.
	UserData interface{}

	// Scale the gravity applied to this body.
	GravityScale float64
}

// MakeBodyDef returns a body definition with the default values.
func MakeBodyDef() BodyDef {
	return BodyDef{
		AllowSleep:   true,
		Awake:        true,
		Type:         StaticBody,
		Active:       true,
		GravityScale: 1.0,
	}
}

const (
	bodyFlagIsland        uint32 = 0x0001
	bodyFlagAwake         uint32 = 0x0002
	bodyFlagAutoSleep     uint32 = 0x0004
	bodyFlagBullet        uint32 = 0x0008
	bodyFlagFixedRotation uint32 = 0x0010
	bodyFlagActive        uint32 = 0x0020
	bodyFlagTOI           uint32 = 0x0040
)

// Body is a rigid body. Create these via World.CreateBody.
type Body struct {
	bodyType uint8

	flags uint32

	islandIndex int

	xf    Transform // the body origin transform
	sweep Sweep     // the swept motion for CCD

	linearVelocity  Vec2
	angularVelocity float64

	force  Vec2
	torque float64

	world *World
	prev  *Body
	next  *Body

	fixtureList  *Fixture
	fixtureCount int

	jointList   *JointEdge
	contactList *ContactEdge

	mass, invMass float64

	// Rotational inertia about the center of mass.
	i, invI float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	sleepTime float64

	userData interface{}
}

func newBody(bd *BodyDef, world *World) *Body {
	assert(IsValidVec2(bd.Position))
	assert(IsValidVec2(bd.LinearVelocity))
	assert(IsValidFloat(bd.Angle))
	assert(IsValidFloat(bd.AngularVelocity))
	assert(IsValidFloat(bd.AngularDamping) && bd.AngularDamping >= 0.0)
	assert(IsValidFloat(bd.LinearDamping) && bd.LinearDamping >= 0.0)

	body := &Body{}

	if bd.Bullet {
		body.flags |= bodyFlagBullet
	}
	if bd.FixedRotation {
		body.flags |= bodyFlagFixedRotation
	}
	if bd.AllowSleep {
		body.flags |= bodyFlagAutoSleep
	}
	if bd.Awake {
		body.flags |= bodyFlagAwake
	}
	if bd.Active {
		body.flags |= bodyFlagActive
	}

	body.world = world

	body.xf.P = bd.Position
	body.xf.Q.Set(bd.Angle)

	body.sweep.LocalCenter = Vec2{}
	body.sweep.C0 = body.xf.P
	body.sweep.C = body.xf.P
	body.sweep.A0 = bd.Angle
	body.sweep.A = bd.Angle
	body.sweep.Alpha0 = 0.0

	body.linearVelocity = bd.LinearVelocity
	body.angularVelocity = bd.AngularVelocity

	body.linearDamping = bd.LinearDamping
	body.angularDamping = bd.AngularDamping
	body.gravityScale = bd.GravityScale

	body.bodyType = bd.Type

	if body.bodyType == DynamicBody {
		body.mass = 1.0
		body.invMass = 1.0
	}

	body.userData = bd.UserData

	return body
}

func (body *Body) GetType() uint8 {
	return body.bodyType
}

// GetTransform returns the body origin transform.
func (body *Body) GetTransform() Transform {
	return body.xf
}

// GetPosition returns the world position of the body origin.
func (body *Body) GetPosition() Vec2 {
	return body.xf.P
}

// GetAngle returns the current world rotation angle in radians.
func (body *Body) GetAngle() float64 {
	return body.sweep.A
}

// GetWorldCenter returns the world position of the center of mass.
func (body *Body) GetWorldCenter() Vec2 {
	return body.sweep.C
}

// GetLocalCenter returns the local position of the center of mass.
func (body *Body) GetLocalCenter() Vec2 {
	return body.sweep.LocalCenter
}

// SetLinearVelocity sets the linear velocity of the center of mass.
func (body *Body) SetLinearVelocity(v Vec2) {
	if body.bodyType == StaticBody {
		return
	}

	if DotVV(v, v) > 0.0 {
		body.SetAwake(true)
	}

	body.linearVelocity = v
}

func (body *Body) GetLinearVelocity() Vec2 {
	return body.linearVelocity
}

// SetAngularVelocity sets the angular velocity in radians/second.
func (body *Body) SetAngularVelocity(w float64) {
	if body.bodyType == StaticBody {
		return
	}

	if w*w > 0.0 {
		body.SetAwake(true)
	}

	body.angularVelocity = w
}

func (body *Body) GetAngularVelocity() float64 {
	return body.angularVelocity
}

// GetMass returns the total mass in kilograms.
func (body *Body) GetMass() float64 {
	return body.mass
}

// GetInertia returns the rotational inertia about the body origin.
func (body *Body) GetInertia() float64 {
	return body.i + body.mass*DotVV(body.sweep.LocalCenter, body.sweep.LocalCenter)
}

// GetMassData writes the mass, inertia and center of the body.
func (body *Body) GetMassData(data *MassData) {
	data.Mass = body.mass
	data.I = body.i + body.mass*DotVV(body.sweep.LocalCenter, body.sweep.LocalCenter)
	data.Center = body.sweep.LocalCenter
}

// GetWorldPoint returns the world coordinates of a point given in body-local
// coordinates.
func (body *Body) GetWorldPoint(localPoint Vec2) Vec2 {
	return MulXV(body.xf, localPoint)
}

// GetWorldVector returns the world direction of a body-local vector.
func (body *Body) GetWorldVector(localVector Vec2) Vec2 {
	return MulRV(body.xf.Q, localVector)
}

// GetLocalPoint returns the body-local coordinates of a world point.
func (body *Body) GetLocalPoint(worldPoint Vec2) Vec2 {
	return MulTXV(body.xf, worldPoint)
}

// GetLocalVector returns the body-local direction of a world vector.
func (body *Body) GetLocalVector(worldVector Vec2) Vec2 {
	return MulTRV(body.xf.Q, worldVector)
}

// GetLinearVelocityFromWorldPoint returns the world velocity of a world
// point attached to the body.
func (body *Body) GetLinearVelocityFromWorldPoint(worldPoint Vec2) Vec2 {
	return AddVV(body.linearVelocity, CrossSV(body.angularVelocity, SubVV(worldPoint, body.sweep.C)))
}

// GetLinearVelocityFromLocalPoint returns the world velocity of a local
// point.
func (body *Body) GetLinearVelocityFromLocalPoint(localPoint Vec2) Vec2 {
	return body.GetLinearVelocityFromWorldPoint(body.GetWorldPoint(localPoint))
}

func (body *Body) GetLinearDamping() float64 {
	return body.linearDamping
}

func (body *Body) SetLinearDamping(linearDamping float64) {
	body.linearDamping = linearDamping
}

func (body *Body) GetAngularDamping() float64 {
	return body.angularDamping
}

func (body *Body) SetAngularDamping(angularDamping float64) {
	body.angularDamping = angularDamping
}

func (body *Body) GetGravityScale() float64 {
	return body.gravityScale
}

func (body *Body) SetGravityScale(scale float64) {
	body.gravityScale = scale
}

// SetBullet requests continuous collision treatment for this body.
func (body *Body) SetBullet(flag bool) {
	if flag {
		body.flags |= bodyFlagBullet
	} else {
		body.flags &^= bodyFlagBullet
	}
}

func (body *Body) IsBullet() bool {
	return body.flags&bodyFlagBullet == bodyFlagBullet
}

// SetAwake sets the sleep state of the body. A sleeping body has very low
// CPU cost. Putting a body to sleep zeroes its velocities and forces.
func (body *Body) SetAwake(flag bool) {
	if flag {
		body.flags |= bodyFlagAwake
		body.sleepTime = 0.0
	} else {
		body.flags &^= bodyFlagAwake
		body.sleepTime = 0.0
		body.linearVelocity = Vec2{}
		body.angularVelocity = 0.0
		body.force = Vec2{}
		body.torque = 0.0
	}
}

func (body *Body) IsAwake() bool {
	return body.flags&bodyFlagAwake == bodyFlagAwake
}

func (body *Body) IsActive() bool {
	return body.flags&bodyFlagActive == bodyFlagActive
}

func (body *Body) IsFixedRotation() bool {
	return body.flags&bodyFlagFixedRotation == bodyFlagFixedRotation
}

// SetSleepingAllowed controls whether this body is allowed to fall asleep.
func (body *Body) SetSleepingAllowed(flag bool) {
	if flag {
		body.flags |= bodyFlagAutoSleep
	} else {
		body.flags &^= bodyFlagAutoSleep
		body.SetAwake(true)
	}
}

func (body *Body) IsSleepingAllowed() bool {
	return body.flags&bodyFlagAutoSleep == bodyFlagAutoSleep
}

// GetFixtureList returns the head of the fixture list.
func (body *Body) GetFixtureList() *Fixture {
	return body.fixtureList
}

// GetJointList returns the head of the joint edge list.
func (body *Body) GetJointList() *JointEdge {
	return body.jointList
}

// GetContactList returns the head of the contact edge list. A contact in the
// list may not actually be touching; check Contact.IsTouching.
func (body *Body) GetContactList() *ContactEdge {
	return body.contactList
}

// GetNext returns the next body in the world's body list.
func (body *Body) GetNext() *Body {
	return body.next
}

func (body *Body) SetUserData(data interface{}) {
	body.userData = data
}

func (body *Body) GetUserData() interface{} {
	return body.userData
}

// GetWorld returns the parent world.
func (body *Body) GetWorld() *World {
	return body.world
}

// ApplyForce applies a force at a world point. If the force is not applied
// at the center of mass, it will generate a torque and affect the angular
// velocity.
func (body *Body) ApplyForce(force, point Vec2, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && body.flags&bodyFlagAwake == 0 {
		body.SetAwake(true)
	}

	// Don't accumulate a force if the body is sleeping.
	if body.flags&bodyFlagAwake != 0 {
		body.force = AddVV(body.force, force)
		body.torque += CrossVV(SubVV(point, body.sweep.C), force)
	}
}

// ApplyForceToCenter applies a force to the center of mass.
func (body *Body) ApplyForceToCenter(force Vec2, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && body.flags&bodyFlagAwake == 0 {
		body.SetAwake(true)
	}

	if body.flags&bodyFlagAwake != 0 {
		body.force = AddVV(body.force, force)
	}
}

// ApplyTorque applies a torque. This affects the angular velocity without
// affecting the linear velocity of the center of mass.
func (body *Body) ApplyTorque(torque float64, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && body.flags&bodyFlagAwake == 0 {
		body.SetAwake(true)
	}

	if body.flags&bodyFlagAwake != 0 {
		body.torque += torque
	}
}

// ApplyLinearImpulse applies an impulse at a point. This immediately
// modifies the velocity, and also the angular velocity if the point of
// application is not the center of mass.
func (body *Body) ApplyLinearImpulse(impulse, point Vec2, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && body.flags&bodyFlagAwake == 0 {
		body.SetAwake(true)
	}

	// Don't accumulate velocity if the body is sleeping.
	if body.flags&bodyFlagAwake != 0 {
		MulAddTo(&body.linearVelocity, body.invMass, impulse)
		body.angularVelocity += body.invI * CrossVV(SubVV(point, body.sweep.C), impulse)
	}
}

// ApplyLinearImpulseToCenter applies an impulse to the center of mass.
func (body *Body) ApplyLinearImpulseToCenter(impulse Vec2, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && body.flags&bodyFlagAwake == 0 {
		body.SetAwake(true)
	}

	if body.flags&bodyFlagAwake != 0 {
		MulAddTo(&body.linearVelocity, body.invMass, impulse)
	}
}

// ApplyAngularImpulse applies an angular impulse.
func (body *Body) ApplyAngularImpulse(impulse float64, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && body.flags&bodyFlagAwake == 0 {
		body.SetAwake(true)
	}

	if body.flags&bodyFlagAwake != 0 {
		body.angularVelocity += body.invI * impulse
	}
}

func (body *Body) synchronizeTransform() {
	body.xf.Q.Set(body.sweep.A)
	body.xf.P = SubVV(body.sweep.C, MulRV(body.xf.Q, body.sweep.LocalCenter))
}

// advance moves the body to the new safe time. This doesn't sync the
// broad-phase.
func (body *Body) advance(alpha float64) {
	body.sweep.Advance(alpha)
	body.sweep.C = body.sweep.C0
	body.sweep.A = body.sweep.A0
	body.xf.Q.Set(body.sweep.A)
	body.xf.P = SubVV(body.sweep.C, MulRV(body.xf.Q, body.sweep.LocalCenter))
}

// SetType changes the body type. This alters the mass and velocity, deletes
// the attached contacts and refreshes the broad-phase proxies.
func (body *Body) SetType(bodyType uint8) {
	assert(!body.world.IsLocked())
	if body.world.IsLocked() {
		return
	}

	if body.bodyType == bodyType {
		return
	}

	body.bodyType = bodyType

	body.ResetMassData()

	if body.bodyType == StaticBody {
		body.linearVelocity = Vec2{}
		body.angularVelocity = 0.0
		body.sweep.A0 = body.sweep.A
		body.sweep.C0 = body.sweep.C
		body.synchronizeFixtures()
	}

	body.SetAwake(true)

	body.force = Vec2{}
	body.torque = 0.0

	// Delete the attached contacts.
	ce := body.contactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		body.world.contactManager.destroy(ce0.Contact)
	}
	body.contactList = nil

	// Touch the proxies so that new contacts will be created (when
	// appropriate).
	broadPhase := &body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		for i := range f.proxies {
			broadPhase.TouchProxy(f.proxies[i].proxyId)
		}
	}
}

// CreateFixtureFromDef creates a fixture and attaches it to this body. If
// the density is non-zero, this updates the mass of the body. Contacts are
// not created until the next time step.
// This function is locked during callbacks.
func (body *Body) CreateFixtureFromDef(def *FixtureDef) *Fixture {
	assert(!body.world.IsLocked())
	if body.world.IsLocked() {
		return nil
	}

	fixture := &Fixture{}
	fixture.create(body, def)

	if body.flags&bodyFlagActive != 0 {
		broadPhase := &body.world.contactManager.broadPhase
		fixture.createProxies(broadPhase, body.xf)
	}

	fixture.next = body.fixtureList
	body.fixtureList = fixture
	body.fixtureCount++

	fixture.body = body

	// Adjust mass properties if needed.
	if fixture.density > 0.0 {
		body.ResetMassData()
	}

	// Let the world know we have a new fixture. This will cause new
	// contacts to be created at the beginning of the next time step.
	body.world.flags |= worldFlagNewFixture

	return fixture
}

// CreateFixture creates a fixture from a shape and density, using default
// values for the other fixture properties.
// This function is locked during callbacks.
func (body *Body) CreateFixture(shape Shape, density float64) *Fixture {
	def := MakeFixtureDef()
	def.Shape = shape
	def.Density = density

	return body.CreateFixtureFromDef(&def)
}

// DestroyFixture removes a fixture from this body, destroying all contacts
// associated with it and the broad-phase proxies.
// This function is locked during callbacks.
func (body *Body) DestroyFixture(fixture *Fixture) {
	if fixture == nil {
		return
	}

	assert(!body.world.IsLocked())
	if body.world.IsLocked() {
		return
	}

	assert(fixture.body == body)

	// Remove the fixture from this body's singly linked list.
	assert(body.fixtureCount > 0)
	node := &body.fixtureList
	found := false
	for *node != nil {
		if *node == fixture {
			*node = fixture.next
			found = true
			break
		}

		node = &(*node).next
	}

	// You tried to remove a shape that is not attached to this body.
	assert(found)

	// Destroy any contacts associated with the fixture.
	edge := body.contactList
	for edge != nil {
		c := edge.Contact
		edge = edge.Next

		fixtureA := c.GetFixtureA()
		fixtureB := c.GetFixtureB()

		if fixture == fixtureA || fixture == fixtureB {
			// This destroys the contact and removes it from this body's
			// contact list.
			body.world.contactManager.destroy(c)
		}
	}

	if body.flags&bodyFlagActive != 0 {
		broadPhase := &body.world.contactManager.broadPhase
		fixture.destroyProxies(broadPhase)
	}

	fixture.body = nil
	fixture.next = nil
	fixture.destroy()

	body.fixtureCount--

	body.ResetMassData()
}

// ResetMassData recomputes the mass, inertia and center of mass from the
// attached fixtures. Normally this does not need to be called unless you set
// mass data to override the computed values.
func (body *Body) ResetMassData() {
	// Compute mass data from shapes. Each shape has its own density.
	body.mass = 0.0
	body.invMass = 0.0
	body.i = 0.0
	body.invI = 0.0
	body.sweep.LocalCenter = Vec2{}

	// Static and kinematic bodies have zero mass.
	if body.bodyType == StaticBody || body.bodyType == KinematicBody {
		body.sweep.C0 = body.xf.P
		body.sweep.C = body.xf.P
		body.sweep.A0 = body.sweep.A
		return
	}

	assert(body.bodyType == DynamicBody)

	// Accumulate mass over all fixtures.
	localCenter := Vec2{}
	for f := body.fixtureList; f != nil; f = f.next {
		if f.density == 0.0 {
			continue
		}

		var massData MassData
		f.GetMassData(&massData)
		body.mass += massData.Mass
		localCenter = MulAdd(localCenter, massData.Mass, massData.Center)
		body.i += massData.I
	}

	// Compute center of mass.
	if body.mass > 0.0 {
		body.invMass = 1.0 / body.mass
		localCenter = MulSV(body.invMass, localCenter)
	} else {
		// Force all dynamic bodies to have a positive mass.
		body.mass = 1.0
		body.invMass = 1.0
	}

	if body.i > 0.0 && body.flags&bodyFlagFixedRotation == 0 {
		// Center the inertia about the center of mass.
		body.i -= body.mass * DotVV(localCenter, localCenter)
		assert(body.i > 0.0)
		body.invI = 1.0 / body.i
	} else {
		body.i = 0.0
		body.invI = 0.0
	}

	// Move center of mass.
	oldCenter := body.sweep.C
	body.sweep.LocalCenter = localCenter
	body.sweep.C0 = MulXV(body.xf, body.sweep.LocalCenter)
	body.sweep.C = body.sweep.C0

	// Update center of mass velocity.
	body.linearVelocity = AddVV(
		body.linearVelocity,
		CrossSV(body.angularVelocity, SubVV(body.sweep.C, oldCenter)),
	)
}

// SetMassData overrides the mass properties. Note that this changes the
// center of mass position. Creating or destroying fixtures can also alter
// the mass. This has no effect if the body isn't dynamic.
func (body *Body) SetMassData(massData *MassData) {
	assert(!body.world.IsLocked())
	if body.world.IsLocked() {
		return
	}

	if body.bodyType != DynamicBody {
		return
	}

	body.invMass = 0.0
	body.i = 0.0
	body.invI = 0.0

	body.mass = massData.Mass
	if body.mass <= 0.0 {
		body.mass = 1.0
	}

	body.invMass = 1.0 / body.mass

	if massData.I > 0.0 && body.flags&bodyFlagFixedRotation == 0 {
		body.i = massData.I - body.mass*DotVV(massData.Center, massData.Center)
		assert(body.i > 0.0)
		body.invI = 1.0 / body.i
	}

	// Move center of mass.
	oldCenter := body.sweep.C
	body.sweep.LocalCenter = massData.Center
	body.sweep.C0 = MulXV(body.xf, body.sweep.LocalCenter)
	body.sweep.C = body.sweep.C0

	// Update center of mass velocity.
	body.linearVelocity = AddVV(
		body.linearVelocity,
		CrossSV(body.angularVelocity, SubVV(body.sweep.C, oldCenter)),
	)
}

// shouldCollide reports whether collision between this body and the other is
// permitted: at least one must be dynamic, and no connecting joint may
// disable collision.
func (body *Body) shouldCollide(other *Body) bool {
	// At least one body should be dynamic.
	if body.bodyType != DynamicBody && other.bodyType != DynamicBody {
		return false
	}

	// Does a joint prevent collision?
	for jn := body.jointList; jn != nil; jn = jn.Next {
		if jn.Other == other {
			if !jn.Joint.IsCollideConnected() {
				return false
			}
		}
	}

	return true
}

// SetTransform sets the position of the body's origin and rotation.
// Manipulating a body's transform may cause non-physical behavior. Note:
// contacts are updated on the next call to World.Step.
func (body *Body) SetTransform(position Vec2, angle float64) {
	assert(!body.world.IsLocked())
	if body.world.IsLocked() {
		return
	}

	body.xf.Q.Set(angle)
	body.xf.P = position

	body.sweep.C = MulXV(body.xf, body.sweep.LocalCenter)
	body.sweep.A = angle

	body.sweep.C0 = body.sweep.C
	body.sweep.A0 = angle

	broadPhase := &body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		f.synchronize(broadPhase, body.xf, body.xf)
	}
}

func (body *Body) synchronizeFixtures() {
	var xf1 Transform
	xf1.Q.Set(body.sweep.A0)
	xf1.P = SubVV(body.sweep.C0, MulRV(xf1.Q, body.sweep.LocalCenter))

	broadPhase := &body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		f.synchronize(broadPhase, xf1, body.xf)
	}
}

// SetActive sets the active state of the body. An inactive body is not
// simulated and cannot be collided with or woken up. Fixtures on an inactive
// body are implicitly inactive: their proxies are removed from the
// broad-phase.
func (body *Body) SetActive(flag bool) {
	assert(!body.world.IsLocked())

	if flag == body.IsActive() {
		return
	}

	if flag {
		body.flags |= bodyFlagActive

		// Create all proxies. Contacts are created the next time step.
		broadPhase := &body.world.contactManager.broadPhase
		for f := body.fixtureList; f != nil; f = f.next {
			f.createProxies(broadPhase, body.xf)
		}
	} else {
		body.flags &^= bodyFlagActive

		// Destroy all proxies.
		broadPhase := &body.world.contactManager.broadPhase
		for f := body.fixtureList; f != nil; f = f.next {
			f.destroyProxies(broadPhase)
		}

		// Destroy the attached contacts.
		ce := body.contactList
		for ce != nil {
			ce0 := ce
			ce = ce.Next
			body.world.contactManager.destroy(ce0.Contact)
		}
		body.contactList = nil
	}
}

// SetFixedRotation locks the body rotation. This causes the mass to be
// reset.
func (body *Body) SetFixedRotation(flag bool) {
	status := body.flags&bodyFlagFixedRotation == bodyFlagFixedRotation
	if status == flag {
		return
	}

	if flag {
		body.flags |= bodyFlagFixedRotation
	} else {
		body.flags &^= bodyFlagFixedRotation
	}

	body.angularVelocity = 0.0

	body.ResetMassData()
}
