package planar_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planarphys/planar"
)

func makeGroundEdge(world *planar.World, v1, v2 planar.Vec2) *planar.Body {
	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	shape := planar.MakeEdgeShape()
	shape.Set(v1, v2)
	ground.CreateFixture(&shape, 0.0)
	return ground
}

func TestWorldBodyLifecycle(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 4.0}
	body := world.CreateBody(&bd)
	require.NotNil(t, body)
	assert.Equal(t, 1, world.GetBodyCount())

	shape := planar.MakeCircleShape(0.5)
	fixture := body.CreateFixture(&shape, 1.0)
	require.NotNil(t, fixture)
	assert.Equal(t, 1, world.GetProxyCount())

	// Density drives the mass.
	assert.InDelta(t, math.Pi*0.25, body.GetMass(), 1e-12)

	body.DestroyFixture(fixture)
	assert.Equal(t, 0, world.GetProxyCount())

	// A dynamic body with no fixtures falls back to unit mass.
	assert.Equal(t, 1.0, body.GetMass())

	world.DestroyBody(body)
	assert.Equal(t, 0, world.GetBodyCount())
}

func TestWorldDestroyBodyCascades(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 0.0}
	bodyA := world.CreateBody(&bd)
	shapeA := planar.MakeCircleShape(0.5)
	bodyA.CreateFixture(&shapeA, 1.0)

	bd.Position = planar.Vec2{2.0, 0.0}
	bodyB := world.CreateBody(&bd)
	shapeB := planar.MakeCircleShape(0.5)
	bodyB.CreateFixture(&shapeB, 1.0)

	jd := planar.MakeDistanceJointDef()
	jd.Initialize(bodyA, bodyB, bodyA.GetPosition(), bodyB.GetPosition())
	joint := world.CreateJoint(&jd)
	require.NotNil(t, joint)
	assert.Equal(t, 1, world.GetJointCount())

	type goodbye struct {
		fixtures int
		joints   int
	}
	var seen goodbye
	world.SetDestructionListener(&recordingDestructionListener{
		fixture: func(f *planar.Fixture) { seen.fixtures++ },
		joint:   func(j planar.Joint) { seen.joints++ },
	})

	// Destroying body A removes its joint and fixture in that order.
	world.DestroyBody(bodyA)
	assert.Equal(t, 1, world.GetBodyCount())
	assert.Equal(t, 0, world.GetJointCount())
	assert.Equal(t, goodbye{fixtures: 1, joints: 1}, seen)

	// Body B's joint edge list must be clean.
	assert.Nil(t, bodyB.GetJointList())
}

type recordingDestructionListener struct {
	fixture func(*planar.Fixture)
	joint   func(planar.Joint)
}

func (l *recordingDestructionListener) SayGoodbyeToFixture(f *planar.Fixture) { l.fixture(f) }
func (l *recordingDestructionListener) SayGoodbyeToJoint(j planar.Joint)     { l.joint(j) }

// A box dropped on a ground edge must come to rest on the surface with the
// per-step normal impulse carrying its weight.
func TestBoxRestingOnEdge(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	makeGroundEdge(world, planar.Vec2{-20.0, 0.0}, planar.Vec2{20.0, 0.0})

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 10.0}
	box := world.CreateBody(&bd)

	shape := planar.MakePolygonShape()
	shape.SetAsBox(0.5, 0.5)
	box.CreateFixture(&shape, 1.0)

	require.InDelta(t, 1.0, box.GetMass(), 1e-12)

	const dt = 1.0 / 60.0
	for i := 0; i < 180; i++ {
		world.Step(dt, 8, 3)
	}

	// The box rests with its bottom on the edge: center height equals the
	// half-extent within the collision slop and shape skins.
	pos := box.GetPosition()
	assert.InDelta(t, 0.5, pos[1], 0.03)
	assert.Less(t, planar.LengthV(box.GetLinearVelocity()), 0.01)

	// Per-step normal impulse supports the weight: sum over the manifold
	// points approximately equals m*g*dt.
	var totalNormalImpulse float64
	for c := world.GetContactList(); c != nil; c = c.GetNext() {
		if !c.IsTouching() {
			continue
		}
		m := c.GetManifold()
		for i := 0; i < m.PointCount; i++ {
			totalNormalImpulse += m.Points[i].NormalImpulse
		}
	}
	expected := box.GetMass() * 10.0 * dt
	assert.InDelta(t, expected, totalNormalImpulse, 0.25*expected)
}

func TestContactListenerEvents(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	makeGroundEdge(world, planar.Vec2{-20.0, 0.0}, planar.Vec2{20.0, 0.0})

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 2.0}
	body := world.CreateBody(&bd)
	shape := planar.MakeCircleShape(0.5)
	body.CreateFixture(&shape, 1.0)

	listener := &countingContactListener{}
	world.SetContactListener(listener)

	for i := 0; i < 120; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	assert.GreaterOrEqual(t, listener.begin, 1)
	assert.Greater(t, listener.preSolve, 0)
	assert.Greater(t, listener.postSolve, 0)

	// Lifting the body far away ends the contact.
	body.SetTransform(planar.Vec2{0.0, 50.0}, 0.0)
	for i := 0; i < 10; i++ {
		world.Step(1.0/60.0, 8, 3)
	}
	assert.Equal(t, listener.begin, listener.end)
}

// mutatingContactListener mutates the body/joint graph from inside
// BeginContact; the world must queue the mutations until the step returns.
type mutatingContactListener struct {
	world   *planar.World
	victim  *planar.Body
	joint   planar.Joint
	spawned *planar.Body
	fired   bool
}

func (l *mutatingContactListener) BeginContact(contact *planar.Contact) {
	if l.fired {
		return
	}
	l.fired = true

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{50.0, 50.0}
	l.spawned = l.world.CreateBody(&bd)

	l.world.DestroyJoint(l.joint)
	l.world.DestroyBody(l.victim)
}

func (l *mutatingContactListener) EndContact(contact *planar.Contact) {}
func (l *mutatingContactListener) PreSolve(contact *planar.Contact, oldManifold planar.Manifold) {
}
func (l *mutatingContactListener) PostSolve(contact *planar.Contact, impulse *planar.ContactImpulse) {
}

// Graph mutations issued from inside a contact callback are deferred to the
// end of the step instead of tearing up the lists mid-iteration.
func TestListenerMutationsAreDeferred(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	makeGroundEdge(world, planar.Vec2{-20.0, 0.0}, planar.Vec2{20.0, 0.0})

	// The falling ball whose impact triggers the mutations.
	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 1.0}
	ball := world.CreateBody(&bd)
	ballShape := planar.MakeCircleShape(0.5)
	ball.CreateFixture(&ballShape, 1.0)

	// A jointed pair away from the action; the joint dies in the callback.
	bd.Position = planar.Vec2{10.0, 5.0}
	jointedA := world.CreateBody(&bd)
	shape := planar.MakeCircleShape(0.25)
	jointedA.CreateFixture(&shape, 1.0)

	bd.Position = planar.Vec2{11.0, 5.0}
	jointedB := world.CreateBody(&bd)
	jointedB.CreateFixture(&shape, 1.0)

	jd := planar.MakeDistanceJointDef()
	jd.Initialize(jointedA, jointedB, jointedA.GetPosition(), jointedB.GetPosition())
	joint := world.CreateJoint(&jd)

	// A bystander body destroyed from the callback.
	bd.Position = planar.Vec2{-10.0, 5.0}
	victim := world.CreateBody(&bd)
	victim.CreateFixture(&shape, 1.0)

	listener := &mutatingContactListener{
		world:  world,
		victim: victim,
		joint:  joint,
	}
	world.SetContactListener(listener)

	require.Equal(t, 5, world.GetBodyCount())
	require.Equal(t, 1, world.GetJointCount())

	for i := 0; i < 60; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// The ball landed and the callback fired without aborting the step.
	require.True(t, listener.fired)
	require.NotNil(t, listener.spawned)

	// Net count: +spawned, -victim.
	assert.Equal(t, 5, world.GetBodyCount())
	assert.Equal(t, 0, world.GetJointCount())
	assert.Nil(t, jointedA.GetJointList())
	assert.Nil(t, jointedB.GetJointList())

	spawnedLinked := false
	victimLinked := false
	for b := world.GetBodyList(); b != nil; b = b.GetNext() {
		if b == listener.spawned {
			spawnedLinked = true
		}
		if b == victim {
			victimLinked = true
		}
	}
	assert.True(t, spawnedLinked)
	assert.False(t, victimLinked)

	// The deferred body is fully live once the step has returned.
	spawnedShape := planar.MakeCircleShape(0.5)
	require.NotNil(t, listener.spawned.CreateFixture(&spawnedShape, 1.0))
	world.Step(1.0/60.0, 8, 3)
}

type countingContactListener struct {
	begin, end, preSolve, postSolve int
}

func (l *countingContactListener) BeginContact(contact *planar.Contact) { l.begin++ }
func (l *countingContactListener) EndContact(contact *planar.Contact)   { l.end++ }
func (l *countingContactListener) PreSolve(contact *planar.Contact, oldManifold planar.Manifold) {
	l.preSolve++
}
func (l *countingContactListener) PostSolve(contact *planar.Contact, impulse *planar.ContactImpulse) {
	l.postSolve++
}

func TestSensorDetectsWithoutResponse(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	// A sensor plate below the drop line.
	bd := planar.MakeBodyDef()
	bd.Position = planar.Vec2{0.0, 0.0}
	plate := world.CreateBody(&bd)
	plateShape := planar.MakePolygonShape()
	plateShape.SetAsBox(5.0, 0.5)
	fd := planar.MakeFixtureDef()
	fd.Shape = &plateShape
	fd.IsSensor = true
	plate.CreateFixtureFromDef(&fd)

	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 3.0}
	ball := world.CreateBody(&bd)
	ballShape := planar.MakeCircleShape(0.5)
	ball.CreateFixture(&ballShape, 1.0)

	listener := &countingContactListener{}
	world.SetContactListener(listener)

	for i := 0; i < 120; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// The sensor reported the pass-through but did not stop the ball.
	assert.GreaterOrEqual(t, listener.begin, 1)
	assert.Less(t, ball.GetPosition()[1], -1.0)
}

func TestVelocityClampedPerStep(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{})

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	body := world.CreateBody(&bd)
	shape := planar.MakeCircleShape(0.5)
	body.CreateFixture(&shape, 1.0)

	body.SetLinearVelocity(planar.Vec2{1e6, 0.0})
	body.SetAngularVelocity(1e6)

	const dt = 1.0 / 60.0
	world.Step(dt, 8, 3)

	// Translation and rotation per step are clamped to the configured
	// maxima (2 m and pi/2 rad).
	v := body.GetLinearVelocity()
	assert.LessOrEqual(t, planar.LengthV(v)*dt, 2.0+1e-9)
	assert.LessOrEqual(t, math.Abs(body.GetAngularVelocity())*dt, 0.5*math.Pi+1e-9)
}

func TestBodySleepAndWake(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	makeGroundEdge(world, planar.Vec2{-20.0, 0.0}, planar.Vec2{20.0, 0.0})

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 1.0}
	body := world.CreateBody(&bd)
	shape := planar.MakePolygonShape()
	shape.SetAsBox(0.5, 0.5)
	box := body.CreateFixture(&shape, 1.0)
	_ = box

	// Settle well past the sleep timer.
	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}
	assert.False(t, body.IsAwake())

	// An applied impulse wakes it.
	body.ApplyLinearImpulse(planar.Vec2{1.0, 0.0}, body.GetWorldCenter(), true)
	assert.True(t, body.IsAwake())
}

func TestQueryAABBAndRayCast(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{})

	positions := []planar.Vec2{
		{0.0, 0.0},
		{5.0, 0.0},
		{10.0, 0.0},
	}
	for _, p := range positions {
		bd := planar.MakeBodyDef()
		bd.Position = p
		b := world.CreateBody(&bd)
		shape := planar.MakeCircleShape(0.5)
		b.CreateFixture(&shape, 0.0)
	}

	// AABB query around the middle body.
	var found []*planar.Fixture
	world.QueryAABB(func(fixture *planar.Fixture) bool {
		found = append(found, fixture)
		return true
	}, planar.AABB{
		LowerBound: planar.Vec2{4.0, -1.0},
		UpperBound: planar.Vec2{6.0, 1.0},
	})
	assert.Len(t, found, 1)

	// Early termination.
	count := 0
	world.QueryAABB(func(fixture *planar.Fixture) bool {
		count++
		return false
	}, planar.AABB{
		LowerBound: planar.Vec2{-1.0, -1.0},
		UpperBound: planar.Vec2{11.0, 1.0},
	})
	assert.Equal(t, 1, count)

	// Closest-hit ray cast: clip to each hit fraction.
	var closest *planar.Fixture
	fraction := 1.0
	world.RayCast(func(fixture *planar.Fixture, point, normal planar.Vec2, f float64) float64 {
		closest = fixture
		fraction = f
		return f
	}, planar.Vec2{-5.0, 0.0}, planar.Vec2{15.0, 0.0})

	require.NotNil(t, closest)
	// First circle surface at x = -0.5 along a 20 m ray from x = -5.
	assert.InDelta(t, 4.5/20.0, fraction, 1e-6)
}

func TestBulletDoesNotTunnel(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{})

	// Thin static wall at x = 0.
	bd := planar.MakeBodyDef()
	wall := world.CreateBody(&bd)
	wallShape := planar.MakePolygonShape()
	wallShape.SetAsBox(0.05, 5.0)
	wall.CreateFixture(&wallShape, 0.0)

	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{-5.0, 0.0}
	bd.Bullet = true
	bullet := world.CreateBody(&bd)
	bulletShape := planar.MakeCircleShape(0.1)
	fd := planar.MakeFixtureDef()
	fd.Shape = &bulletShape
	fd.Density = 1.0
	fd.Restitution = 0.0
	bullet.CreateFixtureFromDef(&fd)

	// 600 m/s crosses the wall in a fraction of one step.
	bullet.SetLinearVelocity(planar.Vec2{600.0, 0.0})

	for i := 0; i < 10; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// Continuous collision must have stopped the bullet at the wall.
	assert.Less(t, bullet.GetPosition()[0], 0.0)
}

func TestKinematicBodyMovesWithoutForces(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	bd.Type = planar.KinematicBody
	body := world.CreateBody(&bd)
	shape := planar.MakeCircleShape(0.5)
	body.CreateFixture(&shape, 1.0)

	body.SetLinearVelocity(planar.Vec2{1.0, 0.0})

	for i := 0; i < 60; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// Kinematic bodies ignore gravity and keep their velocity.
	pos := body.GetPosition()
	assert.InDelta(t, 1.0, pos[0], 1e-9)
	assert.InDelta(t, 0.0, pos[1], 1e-9)
	assert.Equal(t, 0.0, body.GetMass())
}

// dumpWorld formats body state the way the golden determinism test compares
// runs.
func dumpWorld(world *planar.World, frame int) string {
	out := ""
	i := 0
	for b := world.GetBodyList(); b != nil; b = b.GetNext() {
		p := b.GetPosition()
		out += fmt.Sprintf("%03d/%02d: %.17g %.17g %.17g\n", frame, i, p[0], p[1], b.GetAngle())
		i++
	}
	return out
}

func runDeterminismScene(steps int) string {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	makeGroundEdge(world, planar.Vec2{-20.0, 0.0}, planar.Vec2{20.0, 0.0})

	// A chain ramp.
	{
		bd := planar.MakeBodyDef()
		ground := world.CreateBody(&bd)
		chain := planar.MakeChainShape()
		chain.CreateChain([]planar.Vec2{
			{-8.0, 4.0},
			{-6.0, 2.5},
			{-4.0, 1.5},
			{-2.0, 1.0},
		})
		ground.CreateFixture(&chain, 0.0)
	}

	// A stack of boxes.
	for i := 0; i < 5; i++ {
		bd := planar.MakeBodyDef()
		bd.Type = planar.DynamicBody
		bd.Position = planar.Vec2{2.0, 0.55 + 1.1*float64(i)}
		body := world.CreateBody(&bd)
		shape := planar.MakePolygonShape()
		shape.SetAsBox(0.5, 0.5)
		body.CreateFixture(&shape, 1.0)
	}

	// A ball rolling down the ramp.
	{
		bd := planar.MakeBodyDef()
		bd.Type = planar.DynamicBody
		bd.Position = planar.Vec2{-7.5, 6.0}
		body := world.CreateBody(&bd)
		shape := planar.MakeCircleShape(0.4)
		fd := planar.MakeFixtureDef()
		fd.Shape = &shape
		fd.Density = 1.0
		fd.Friction = 0.3
		fd.Restitution = 0.2
		body.CreateFixtureFromDef(&fd)
	}

	output := ""
	for frame := 0; frame < steps; frame++ {
		world.Step(1.0/60.0, 8, 3)
		output += dumpWorld(world, frame)
	}
	return output
}

// Two runs of the same scene must be bitwise identical.
func TestWorldDeterminism(t *testing.T) {
	first := runDeterminismScene(120)
	second := runDeterminismScene(120)

	if first != second {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(first),
			B:        difflib.SplitLines(second),
			FromFile: "first run",
			ToFile:   "second run",
			Context:  3,
		}
		text, _ := difflib.GetUnifiedDiffString(diff)
		t.Fatalf("simulation diverged between identical runs:\n%s", text)
	}
}
