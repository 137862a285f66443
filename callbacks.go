package planar

// DestructionListener is notified when any fixture or joint is about to be
// destroyed implicitly, e.g. due to the destruction of its parent body. This
// gives clients a chance to nullify their references.
type DestructionListener interface {
	// SayGoodbyeToFixture is called when a fixture is about to be destroyed.
	SayGoodbyeToFixture(fixture *Fixture)

	// SayGoodbyeToJoint is called when a joint is about to be destroyed.
	SayGoodbyeToJoint(joint Joint)
}

// ContactFilter decides whether contact calculations should be performed
// between two fixtures.
type ContactFilter interface {
	ShouldCollide(fixtureA, fixtureB *Fixture) bool
}

// ContactImpulse carries contact impulses for reporting. Impulses are used
// instead of forces because sub-step forces may approach infinity for rigid
// body collisions. These match up one-to-one with the points in Manifold.
type ContactImpulse struct {
	NormalImpulses  [MaxManifoldPoints]float64
	TangentImpulses [MaxManifoldPoints]float64
	Count           int
}

// ContactListener observes contact lifecycle events. The callbacks run
// synchronously inside World.Step. Body and joint creation or destruction
// requested from inside them is queued by the world and applied at the end
// of World.Step, just before it returns; until then the affected entities
// keep their current state.
type ContactListener interface {
	// BeginContact is called when two fixtures begin to touch.
	BeginContact(contact *Contact)

	// EndContact is called when two fixtures cease to touch.
	EndContact(contact *Contact)

	// PreSolve is called after a contact is updated. This allows you to
	// inspect a contact before it goes to the solver. If you are careful,
	// you can modify the contact manifold (e.g. disable the contact).
	// A copy of the old manifold is provided so that you can detect changes.
	// Notes: this is called only for awake bodies, only while the contact
	// is touching (at least one manifold point), and never for sensors. If
	// you set the number of contact points to zero, you will not get an
	// EndContact callback, but you may get a BeginContact callback the next
	// step.
	PreSolve(contact *Contact, oldManifold Manifold)

	// PostSolve lets you inspect a contact after the solver is finished,
	// useful for inspecting impulses. The contact manifold does not include
	// time of impact impulses, which can be arbitrarily large if the
	// sub-step is small; hence the impulse is provided explicitly in a
	// separate data structure. Only called for contacts that are touching,
	// solid, and awake.
	PostSolve(contact *Contact, impulse *ContactImpulse)
}

// defaultContactFilter implements the standard category/mask/group filtering.
type defaultContactFilter struct{}

// ShouldCollide returns true if contact calculations should be performed
// between these two fixtures. If you implement your own collision filter you
// may want to build from this implementation: group indices win over the
// mask bits.
func (cf defaultContactFilter) ShouldCollide(fixtureA, fixtureB *Fixture) bool {
	filterA := fixtureA.GetFilterData()
	filterB := fixtureB.GetFilterData()

	if filterA.GroupIndex == filterB.GroupIndex && filterA.GroupIndex != 0 {
		return filterA.GroupIndex > 0
	}

	return filterA.MaskBits&filterB.CategoryBits != 0 &&
		filterA.CategoryBits&filterB.MaskBits != 0
}

// RayCastCallback is called for each fixture found by a world ray cast. You
// control how the cast proceeds by the return value:
//
//	return -1: ignore this fixture and continue
//	return 0: terminate the ray cast
//	return fraction: clip the ray to this point
//	return 1: don't clip the ray and continue
type RayCastCallback func(fixture *Fixture, point Vec2, normal Vec2, fraction float64) float64

// QueryCallback is called for each fixture found in a world AABB query.
// Return false to terminate the query.
type QueryCallback func(fixture *Fixture) bool
