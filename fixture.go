package planar

// Filter holds contact filtering data.
type Filter struct {
	// The collision category bits. Normally you would just set one bit.
	CategoryBits uint16

	// The collision mask bits. This states the categories that this shape
	// would accept for collision.
	MaskBits uint16

	// Collision groups allow a certain group of objects to never collide
	// (negative) or always collide (positive). Zero means no collision
	// group. Non-zero group filtering always wins against the mask bits.
	GroupIndex int16
}

func MakeFilter() Filter {
	return Filter{
		CategoryBits: 0x0001,
		MaskBits:     0xFFFF,
		GroupIndex:   0,
	}
}

// FixtureDef is used to create a fixture. You can reuse fixture definitions
// safely.
type FixtureDef struct {
	// The shape, this must be set. The shape will be cloned, so you can
	// create the shape on the stack.
	Shape Shape

	// Use this to store application specific fixture data.
	UserData interface{}

	// The friction coefficient, usually in the range [0,1].
	Friction float64

	// The restitution (elasticity) usually in the range [0,1].
	Restitution float64

	// The density, usually in kg/m^2.
	Density float64

	// A sensor shape collects contact information but never generates a
	// collision response.
	IsSensor bool

	// Contact filtering data.
	Filter Filter
}

// MakeFixtureDef returns a definition with the default values.
func MakeFixtureDef() FixtureDef {
	return FixtureDef{
		Friction: 0.2,
		Filter:   MakeFilter(),
	}
}

// fixtureProxy connects a fixture child to the broad-phase.
type fixtureProxy struct {
	aabb       AABB
	fixture    *Fixture
	childIndex int
	proxyId    int
}

// Fixture attaches a shape to a body for collision detection. A fixture
// inherits its transform from its parent. Fixtures hold additional
// non-geometric data such as friction and collision filters.
// Fixtures are created via Body.CreateFixture; they cannot be reused.
type Fixture struct {
	density float64

	next *Fixture
	body *Body

	shape Shape

	friction    float64
	restitution float64

	proxies []fixtureProxy

	filter Filter

	isSensor bool

	userData interface{}
}

// GetType returns the child shape type. It is fixed for the life of the
// fixture.
func (fix *Fixture) GetType() uint8 {
	return fix.shape.GetType()
}

// GetShape returns the child shape. Manipulating the shape may lead to
// inconsistent collision state.
func (fix *Fixture) GetShape() Shape {
	return fix.shape
}

func (fix *Fixture) IsSensor() bool {
	return fix.isSensor
}

func (fix *Fixture) GetFilterData() Filter {
	return fix.filter
}

func (fix *Fixture) GetUserData() interface{} {
	return fix.userData
}

func (fix *Fixture) SetUserData(data interface{}) {
	fix.userData = data
}

// GetBody returns the parent body.
func (fix *Fixture) GetBody() *Body {
	return fix.body
}

// GetNext returns the next fixture in the parent body's fixture list.
func (fix *Fixture) GetNext() *Fixture {
	return fix.next
}

// SetDensity sets the density. It will not automatically adjust the mass of
// the body; call Body.ResetMassData to update it.
func (fix *Fixture) SetDensity(density float64) {
	assert(IsValidFloat(density) && density >= 0.0)
	fix.density = density
}

func (fix *Fixture) GetDensity() float64 {
	return fix.density
}

func (fix *Fixture) GetFriction() float64 {
	return fix.friction
}

// SetFriction sets the friction coefficient. Existing contacts keep their
// mixed value until reset.
func (fix *Fixture) SetFriction(friction float64) {
	fix.friction = friction
}

func (fix *Fixture) GetRestitution() float64 {
	return fix.restitution
}

// SetRestitution sets the restitution coefficient. Existing contacts keep
// their mixed value until reset.
func (fix *Fixture) SetRestitution(restitution float64) {
	fix.restitution = restitution
}

// TestPoint tests a world point for containment in the fixture's shape.
func (fix *Fixture) TestPoint(p Vec2) bool {
	return fix.shape.TestPoint(fix.body.GetTransform(), p)
}

// RayCast casts a ray against a child shape.
func (fix *Fixture) RayCast(output *RayCastOutput, input RayCastInput, childIndex int) bool {
	return fix.shape.RayCast(output, input, fix.body.GetTransform(), childIndex)
}

// GetMassData computes the mass data for the fixture's shape at its density.
func (fix *Fixture) GetMassData(massData *MassData) {
	fix.shape.ComputeMass(massData, fix.density)
}

// GetAABB returns the fixture's AABB as maintained by the broad-phase. It
// is potentially fatter than the tight shape AABB.
func (fix *Fixture) GetAABB(childIndex int) AABB {
	assert(0 <= childIndex && childIndex < len(fix.proxies))
	return fix.proxies[childIndex].aabb
}

func (fix *Fixture) create(body *Body, def *FixtureDef) {
	fix.userData = def.UserData
	fix.friction = def.Friction
	fix.restitution = def.Restitution

	fix.body = body
	fix.next = nil

	fix.filter = def.Filter

	fix.isSensor = def.IsSensor

	fix.shape = def.Shape.Clone()

	fix.proxies = nil

	fix.density = def.Density
}

func (fix *Fixture) destroy() {
	// The proxies must be destroyed before calling this.
	assert(fix.proxies == nil)
	fix.shape = nil
}

func (fix *Fixture) createProxies(broadPhase *BroadPhase, xf Transform) {
	assert(fix.proxies == nil)

	// Create proxies in the broad-phase, one per shape child.
	childCount := fix.shape.GetChildCount()
	fix.proxies = make([]fixtureProxy, childCount)

	for i := 0; i < childCount; i++ {
		proxy := &fix.proxies[i]
		fix.shape.ComputeAABB(&proxy.aabb, xf, i)
		proxy.proxyId = broadPhase.CreateProxy(proxy.aabb, proxy)
		proxy.fixture = fix
		proxy.childIndex = i
	}
}

func (fix *Fixture) destroyProxies(broadPhase *BroadPhase) {
	for i := range fix.proxies {
		proxy := &fix.proxies[i]
		broadPhase.DestroyProxy(proxy.proxyId)
		proxy.proxyId = nullProxy
	}

	fix.proxies = nil
}

// synchronize updates the broad-phase proxies with an AABB that covers the
// swept shape between the two transforms (may miss some rotation effect).
func (fix *Fixture) synchronize(broadPhase *BroadPhase, transform1, transform2 Transform) {
	for i := range fix.proxies {
		proxy := &fix.proxies[i]

		var aabb1, aabb2 AABB
		fix.shape.ComputeAABB(&aabb1, transform1, proxy.childIndex)
		fix.shape.ComputeAABB(&aabb2, transform2, proxy.childIndex)

		proxy.aabb.CombineTwo(aabb1, aabb2)

		displacement := SubVV(transform2.P, transform1.P)

		broadPhase.MoveProxy(proxy.proxyId, proxy.aabb, displacement)
	}
}

// SetFilterData replaces the contact filtering data. This will not update
// contacts until the next time step when either parent body is active.
func (fix *Fixture) SetFilterData(filter Filter) {
	fix.filter = filter
	fix.Refilter()
}

// Refilter flags associated contacts for filtering and touches the proxies
// so new pairs may be created.
func (fix *Fixture) Refilter() {
	if fix.body == nil {
		return
	}

	// Flag associated contacts for filtering.
	for edge := fix.body.GetContactList(); edge != nil; edge = edge.Next {
		contact := edge.Contact
		fixtureA := contact.GetFixtureA()
		fixtureB := contact.GetFixtureB()
		if fixtureA == fix || fixtureB == fix {
			contact.FlagForFiltering()
		}
	}

	world := fix.body.GetWorld()
	if world == nil {
		return
	}

	broadPhase := &world.contactManager.broadPhase
	for i := range fix.proxies {
		broadPhase.TouchProxy(fix.proxies[i].proxyId)
	}
}

// SetSensor sets whether this fixture is a sensor. Sensors detect contacts
// without producing a response.
func (fix *Fixture) SetSensor(sensor bool) {
	if sensor != fix.isSensor {
		fix.body.SetAwake(true)
		fix.isSensor = sensor
	}
}
