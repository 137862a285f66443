package planar

// ContactManager maintains the persistent contact set: it creates contacts
// from broad-phase pairs, runs the narrow phase over the world contact list
// and destroys contacts whose proxies no longer overlap or whose filters
// changed.
type ContactManager struct {
	broadPhase      BroadPhase
	contactList     *Contact
	contactCount    int
	contactFilter   ContactFilter
	contactListener ContactListener
}

func makeContactManager() ContactManager {
	return ContactManager{
		broadPhase:    MakeBroadPhase(),
		contactFilter: defaultContactFilter{},
	}
}

// destroy unlinks the contact from the world list and both bodies' edge
// lists, notifying the listener if it was touching.
func (mgr *ContactManager) destroy(c *Contact) {
	fixtureA := c.GetFixtureA()
	fixtureB := c.GetFixtureB()
	bodyA := fixtureA.GetBody()
	bodyB := fixtureB.GetBody()

	if mgr.contactListener != nil && c.IsTouching() {
		mgr.contactListener.EndContact(c)
	}

	// Remove from the world.
	if c.prev != nil {
		c.prev.next = c.next
	}

	if c.next != nil {
		c.next.prev = c.prev
	}

	if c == mgr.contactList {
		mgr.contactList = c.next
	}

	// Remove from body A.
	if c.nodeA.Prev != nil {
		c.nodeA.Prev.Next = c.nodeA.Next
	}

	if c.nodeA.Next != nil {
		c.nodeA.Next.Prev = c.nodeA.Prev
	}

	if &c.nodeA == bodyA.contactList {
		bodyA.contactList = c.nodeA.Next
	}

	// Remove from body B.
	if c.nodeB.Prev != nil {
		c.nodeB.Prev.Next = c.nodeB.Next
	}

	if c.nodeB.Next != nil {
		c.nodeB.Next.Prev = c.nodeB.Prev
	}

	if &c.nodeB == bodyB.contactList {
		bodyB.contactList = c.nodeB.Next
	}

	if c.manifold.PointCount > 0 && !fixtureA.IsSensor() && !fixtureB.IsSensor() {
		fixtureA.GetBody().SetAwake(true)
		fixtureB.GetBody().SetAwake(true)
	}

	mgr.contactCount--
}

// collide is the top level collision call for the time step. All the narrow
// phase collision is processed here for the world contact list.
func (mgr *ContactManager) collide() {
	// Update awake contacts.
	c := mgr.contactList

	for c != nil {
		fixtureA := c.GetFixtureA()
		fixtureB := c.GetFixtureB()
		indexA := c.GetChildIndexA()
		indexB := c.GetChildIndexB()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()

		// Is this contact flagged for filtering?
		if c.flags&contactFlagFilter != 0 {
			// Should these bodies collide?
			if !bodyB.shouldCollide(bodyA) {
				cNuke := c
				c = cNuke.GetNext()
				mgr.destroy(cNuke)
				continue
			}

			// Check user filtering.
			if mgr.contactFilter != nil && !mgr.contactFilter.ShouldCollide(fixtureA, fixtureB) {
				cNuke := c
				c = cNuke.GetNext()
				mgr.destroy(cNuke)
				continue
			}

			// Clear the filtering flag.
			c.flags &^= contactFlagFilter
		}

		proxyIdA := fixtureA.proxies[indexA].proxyId
		proxyIdB := fixtureB.proxies[indexB].proxyId
		overlap := mgr.broadPhase.TestOverlap(proxyIdA, proxyIdB)

		// Here we destroy contacts that cease to overlap in the
		// broad-phase, including those of sleeping bodies whose proxies
		// were moved (e.g. by Body.SetTransform).
		if !overlap {
			cNuke := c
			c = cNuke.GetNext()
			mgr.destroy(cNuke)
			continue
		}

		activeA := bodyA.IsAwake() && bodyA.bodyType != StaticBody
		activeB := bodyB.IsAwake() && bodyB.bodyType != StaticBody

		// At least one body must be awake and it must be dynamic or
		// kinematic.
		if !activeA && !activeB {
			c = c.GetNext()
			continue
		}

		// The contact persists.
		c.update(mgr.contactListener)
		c = c.GetNext()
	}
}

func (mgr *ContactManager) findNewContacts() {
	mgr.broadPhase.UpdatePairs(mgr.addPair)
}

// addPair is the broad-phase pair callback: create a contact for the fixture
// pair unless one already exists or filtering rejects it.
func (mgr *ContactManager) addPair(proxyUserDataA, proxyUserDataB interface{}) {
	proxyA := proxyUserDataA.(*fixtureProxy)
	proxyB := proxyUserDataB.(*fixtureProxy)

	fixtureA := proxyA.fixture
	fixtureB := proxyB.fixture

	indexA := proxyA.childIndex
	indexB := proxyB.childIndex

	bodyA := fixtureA.GetBody()
	bodyB := fixtureB.GetBody()

	// Are the fixtures on the same body?
	if bodyA == bodyB {
		return
	}

	// Does a contact already exist? Walking body B's edge list suffices
	// since every contact appears in both bodies' lists.
	for edge := bodyB.GetContactList(); edge != nil; edge = edge.Next {
		if edge.Other == bodyA {
			fA := edge.Contact.GetFixtureA()
			fB := edge.Contact.GetFixtureB()
			iA := edge.Contact.GetChildIndexA()
			iB := edge.Contact.GetChildIndexB()

			if fA == fixtureA && fB == fixtureB && iA == indexA && iB == indexB {
				return
			}

			if fA == fixtureB && fB == fixtureA && iA == indexB && iB == indexA {
				return
			}
		}
	}

	// Does a joint override collision? Is at least one body dynamic?
	if !bodyB.shouldCollide(bodyA) {
		return
	}

	// Check user filtering.
	if mgr.contactFilter != nil && !mgr.contactFilter.ShouldCollide(fixtureA, fixtureB) {
		return
	}

	// Call the factory.
	c := newContact(fixtureA, indexA, fixtureB, indexB)
	if c == nil {
		return
	}

	// Contact creation may swap fixtures.
	fixtureA = c.GetFixtureA()
	fixtureB = c.GetFixtureB()
	bodyA = fixtureA.GetBody()
	bodyB = fixtureB.GetBody()

	// Insert into the world.
	c.prev = nil
	c.next = mgr.contactList
	if mgr.contactList != nil {
		mgr.contactList.prev = c
	}
	mgr.contactList = c

	// Connect to island graph.

	// Connect to body A.
	c.nodeA.Contact = c
	c.nodeA.Other = bodyB

	c.nodeA.Prev = nil
	c.nodeA.Next = bodyA.contactList
	if bodyA.contactList != nil {
		bodyA.contactList.Prev = &c.nodeA
	}
	bodyA.contactList = &c.nodeA

	// Connect to body B.
	c.nodeB.Contact = c
	c.nodeB.Other = bodyA

	c.nodeB.Prev = nil
	c.nodeB.Next = bodyB.contactList
	if bodyB.contactList != nil {
		bodyB.contactList.Prev = &c.nodeB
	}
	bodyB.contactList = &c.nodeB

	// Wake up the bodies.
	if !fixtureA.IsSensor() && !fixtureB.IsSensor() {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}

	mgr.contactCount++
}
