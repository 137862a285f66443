package planar

import (
	"math"
)

// MixFriction is the friction mixing law. The idea is to allow either
// fixture to drive the friction to zero. For example, anything slides on
// ice.
func MixFriction(friction1, friction2 float64) float64 {
	return math.Sqrt(friction1 * friction2)
}

// MixRestitution is the restitution mixing law. The idea is to allow
// anything to bounce off an inelastic surface. For example, a superball
// bounces on anything.
func MixRestitution(restitution1, restitution2 float64) float64 {
	if restitution1 > restitution2 {
		return restitution1
	}
	return restitution2
}

// ContactEdge connects bodies and contacts together in a contact graph where
// each body is a node and each contact is an edge. A contact edge belongs to
// a doubly linked list maintained in each attached body. Each contact has
// two contact edges, one for each attached body.
type ContactEdge struct {
	Other   *Body    // provides quick access to the other body attached
	Contact *Contact // the contact
	Prev    *ContactEdge
	Next    *ContactEdge
}

const (
	// Used when crawling the contact graph when forming islands.
	contactFlagIsland uint32 = 0x0001

	// Set when the shapes are touching.
	contactFlagTouching uint32 = 0x0002

	// This contact can be disabled (by user).
	contactFlagEnabled uint32 = 0x0004

	// This contact needs filtering because a fixture filter was changed.
	contactFlagFilter uint32 = 0x0008

	// This bullet contact had a TOI event.
	contactFlagBulletHit uint32 = 0x0010

	// This contact has a valid TOI in toi.
	contactFlagTOI uint32 = 0x0020
)

// evaluateFcn produces the manifold for one canonical shape-type pairing.
type evaluateFcn func(contact *Contact, manifold *Manifold, xfA, xfB Transform)

type contactRegister struct {
	fcn     evaluateFcn
	primary bool
}

// contactRegisters is the narrow-phase dispatch table, keyed on the
// (typeA, typeB) pair with A, B canonicalized: secondary entries flip the
// fixtures on creation.
var contactRegisters [shapeTypeCount][shapeTypeCount]contactRegister

func addContactType(fcn evaluateFcn, type1, type2 uint8) {
	contactRegisters[type1][type2] = contactRegister{fcn: fcn, primary: true}
	if type1 != type2 {
		contactRegisters[type2][type1] = contactRegister{fcn: fcn, primary: false}
	}
}

func init() {
	addContactType(evaluateCircles, ShapeTypeCircle, ShapeTypeCircle)
	addContactType(evaluatePolygonAndCircle, ShapeTypePolygon, ShapeTypeCircle)
	addContactType(evaluatePolygons, ShapeTypePolygon, ShapeTypePolygon)
	addContactType(evaluateEdgeAndCircle, ShapeTypeEdge, ShapeTypeCircle)
	addContactType(evaluateEdgeAndPolygon, ShapeTypeEdge, ShapeTypePolygon)
	addContactType(evaluateChainAndCircle, ShapeTypeChain, ShapeTypeCircle)
	addContactType(evaluateChainAndPolygon, ShapeTypeChain, ShapeTypePolygon)
}

func evaluateCircles(c *Contact, manifold *Manifold, xfA, xfB Transform) {
	CollideCircles(manifold,
		c.fixtureA.GetShape().(*CircleShape), xfA,
		c.fixtureB.GetShape().(*CircleShape), xfB)
}

func evaluatePolygonAndCircle(c *Contact, manifold *Manifold, xfA, xfB Transform) {
	CollidePolygonAndCircle(manifold,
		c.fixtureA.GetShape().(*PolygonShape), xfA,
		c.fixtureB.GetShape().(*CircleShape), xfB)
}

func evaluatePolygons(c *Contact, manifold *Manifold, xfA, xfB Transform) {
	CollidePolygons(manifold,
		c.fixtureA.GetShape().(*PolygonShape), xfA,
		c.fixtureB.GetShape().(*PolygonShape), xfB)
}

func evaluateEdgeAndCircle(c *Contact, manifold *Manifold, xfA, xfB Transform) {
	CollideEdgeAndCircle(manifold,
		c.fixtureA.GetShape().(*EdgeShape), xfA,
		c.fixtureB.GetShape().(*CircleShape), xfB)
}

func evaluateEdgeAndPolygon(c *Contact, manifold *Manifold, xfA, xfB Transform) {
	CollideEdgeAndPolygon(manifold,
		c.fixtureA.GetShape().(*EdgeShape), xfA,
		c.fixtureB.GetShape().(*PolygonShape), xfB)
}

func evaluateChainAndCircle(c *Contact, manifold *Manifold, xfA, xfB Transform) {
	chain := c.fixtureA.GetShape().(*ChainShape)
	edge := MakeEdgeShape()
	chain.GetChildEdge(&edge, c.indexA)
	CollideEdgeAndCircle(manifold, &edge, xfA,
		c.fixtureB.GetShape().(*CircleShape), xfB)
}

func evaluateChainAndPolygon(c *Contact, manifold *Manifold, xfA, xfB Transform) {
	chain := c.fixtureA.GetShape().(*ChainShape)
	edge := MakeEdgeShape()
	chain.GetChildEdge(&edge, c.indexA)
	CollideEdgeAndPolygon(manifold, &edge, xfA,
		c.fixtureB.GetShape().(*PolygonShape), xfB)
}

// Contact manages contact between two shapes. A contact exists for each
// overlapping AABB in the broad-phase (except if filtered), so a contact
// object may exist that has no contact points.
type Contact struct {
	flags uint32

	// World contact list pointers.
	prev *Contact
	next *Contact

	// Nodes for connecting bodies.
	nodeA ContactEdge
	nodeB ContactEdge

	fixtureA *Fixture
	fixtureB *Fixture

	indexA int
	indexB int

	manifold Manifold

	evaluate evaluateFcn

	toiCount     int
	toi          float64
	friction     float64
	restitution  float64
	tangentSpeed float64
}

// newContact builds a contact for the fixture pair, canonicalizing the order
// per the dispatch table. Returns nil when no register covers the pairing
// (e.g. two non-convex chains).
func newContact(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) *Contact {
	type1 := fixtureA.GetType()
	type2 := fixtureB.GetType()

	assert(type1 < shapeTypeCount)
	assert(type2 < shapeTypeCount)

	register := contactRegisters[type1][type2]
	if register.fcn == nil {
		return nil
	}

	if !register.primary {
		fixtureA, fixtureB = fixtureB, fixtureA
		indexA, indexB = indexB, indexA
	}

	c := &Contact{
		flags:    contactFlagEnabled,
		fixtureA: fixtureA,
		fixtureB: fixtureB,
		indexA:   indexA,
		indexB:   indexB,
		evaluate: contactRegisters[fixtureA.GetType()][fixtureB.GetType()].fcn,
	}

	c.friction = MixFriction(fixtureA.friction, fixtureB.friction)
	c.restitution = MixRestitution(fixtureA.restitution, fixtureB.restitution)

	return c
}

// GetManifold returns the contact manifold. Do not modify it unless you
// understand the internals of the solver.
func (c *Contact) GetManifold() *Manifold {
	return &c.manifold
}

// GetWorldManifold writes the world manifold for the current transforms.
func (c *Contact) GetWorldManifold(worldManifold *WorldManifold) {
	bodyA := c.fixtureA.GetBody()
	bodyB := c.fixtureB.GetBody()
	shapeA := c.fixtureA.GetShape()
	shapeB := c.fixtureB.GetShape()

	worldManifold.Initialize(&c.manifold, bodyA.GetTransform(), shapeA.GetRadius(), bodyB.GetTransform(), shapeB.GetRadius())
}

// IsTouching reports whether the fixtures are touching.
func (c *Contact) IsTouching() bool {
	return c.flags&contactFlagTouching == contactFlagTouching
}

// SetEnabled enables or disables this contact. The effect of disabling lasts
// only the current time step; use this inside PreSolve to cancel a
// collision response.
func (c *Contact) SetEnabled(flag bool) {
	if flag {
		c.flags |= contactFlagEnabled
	} else {
		c.flags &^= contactFlagEnabled
	}
}

func (c *Contact) IsEnabled() bool {
	return c.flags&contactFlagEnabled == contactFlagEnabled
}

// GetNext returns the next contact in the world's contact list.
func (c *Contact) GetNext() *Contact {
	return c.next
}

func (c *Contact) GetFixtureA() *Fixture {
	return c.fixtureA
}

// GetChildIndexA returns the child primitive index for fixture A.
func (c *Contact) GetChildIndexA() int {
	return c.indexA
}

func (c *Contact) GetFixtureB() *Fixture {
	return c.fixtureB
}

// GetChildIndexB returns the child primitive index for fixture B.
func (c *Contact) GetChildIndexB() int {
	return c.indexB
}

// SetFriction overrides the default friction mixture. You can call this in
// PreSolve. The value persists until set or reset.
func (c *Contact) SetFriction(friction float64) {
	c.friction = friction
}

func (c *Contact) GetFriction() float64 {
	return c.friction
}

// ResetFriction restores the default friction mixture.
func (c *Contact) ResetFriction() {
	c.friction = MixFriction(c.fixtureA.friction, c.fixtureB.friction)
}

// SetRestitution overrides the default restitution mixture.
func (c *Contact) SetRestitution(restitution float64) {
	c.restitution = restitution
}

func (c *Contact) GetRestitution() float64 {
	return c.restitution
}

// ResetRestitution restores the default restitution mixture.
func (c *Contact) ResetRestitution() {
	c.restitution = MixRestitution(c.fixtureA.restitution, c.fixtureB.restitution)
}

// SetTangentSpeed sets the desired tangent speed for a conveyor belt
// behavior, in meters per second.
func (c *Contact) SetTangentSpeed(speed float64) {
	c.tangentSpeed = speed
}

func (c *Contact) GetTangentSpeed() float64 {
	return c.tangentSpeed
}

// FlagForFiltering marks the contact for filter re-evaluation on the next
// step.
func (c *Contact) FlagForFiltering() {
	c.flags |= contactFlagFilter
}

// Evaluate runs the narrow phase for the current pair under the given
// transforms.
func (c *Contact) Evaluate(manifold *Manifold, xfA, xfB Transform) {
	c.evaluate(c, manifold, xfA, xfB)
}

// update refreshes the contact manifold and touching status, warm starting
// point impulses whose feature ids persisted, and notifies the listener of
// transitions. Do not assume the fixture AABBs are overlapping or valid.
func (c *Contact) update(listener ContactListener) {
	oldManifold := c.manifold

	// Re-enable this contact.
	c.flags |= contactFlagEnabled

	touching := false
	wasTouching := c.flags&contactFlagTouching == contactFlagTouching

	sensorA := c.fixtureA.IsSensor()
	sensorB := c.fixtureB.IsSensor()
	sensor := sensorA || sensorB

	bodyA := c.fixtureA.GetBody()
	bodyB := c.fixtureB.GetBody()
	xfA := bodyA.GetTransform()
	xfB := bodyB.GetTransform()

	if sensor {
		shapeA := c.fixtureA.GetShape()
		shapeB := c.fixtureB.GetShape()
		touching = TestOverlapShapes(shapeA, c.indexA, shapeB, c.indexB, xfA, xfB)

		// Sensors don't generate manifolds.
		c.manifold.PointCount = 0
	} else {
		c.Evaluate(&c.manifold, xfA, xfB)
		touching = c.manifold.PointCount > 0

		// Match old contact ids to new contact ids and copy the stored
		// impulses to warm start the solver.
		for i := 0; i < c.manifold.PointCount; i++ {
			mp2 := &c.manifold.Points[i]
			mp2.NormalImpulse = 0.0
			mp2.TangentImpulse = 0.0
			id2 := mp2.Id

			for j := 0; j < oldManifold.PointCount; j++ {
				mp1 := &oldManifold.Points[j]

				if mp1.Id.Key() == id2.Key() {
					mp2.NormalImpulse = mp1.NormalImpulse
					mp2.TangentImpulse = mp1.TangentImpulse
					break
				}
			}
		}

		if touching != wasTouching {
			bodyA.SetAwake(true)
			bodyB.SetAwake(true)
		}
	}

	if touching {
		c.flags |= contactFlagTouching
	} else {
		c.flags &^= contactFlagTouching
	}

	if !wasTouching && touching && listener != nil {
		listener.BeginContact(c)
	}

	if wasTouching && !touching && listener != nil {
		listener.EndContact(c)
	}

	if !sensor && touching && listener != nil {
		listener.PreSolve(c, oldManifold)
	}
}
