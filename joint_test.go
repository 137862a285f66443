package planar_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planarphys/planar"
)

// A 30-plank suspension bridge hung between two ground anchors must settle.
func TestRevoluteBridgeSettles(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	const plankCount = 30

	shape := planar.MakePolygonShape()
	shape.SetAsBox(0.5, 0.125)

	fd := planar.MakeFixtureDef()
	fd.Shape = &shape
	fd.Density = 20.0
	fd.Friction = 0.2

	prev := ground
	planks := make([]*planar.Body, 0, plankCount)

	for i := 0; i < plankCount; i++ {
		pbd := planar.MakeBodyDef()
		pbd.Type = planar.DynamicBody
		pbd.Position = planar.Vec2{0.5 + 1.0*float64(i), 5.0}
		body := world.CreateBody(&pbd)
		body.CreateFixtureFromDef(&fd)
		planks = append(planks, body)

		jd := planar.MakeRevoluteJointDef()
		jd.Initialize(prev, body, planar.Vec2{1.0 * float64(i), 5.0})
		world.CreateJoint(&jd)

		prev = body
	}

	// Pin the far end back to the ground.
	jd := planar.MakeRevoluteJointDef()
	jd.Initialize(prev, ground, planar.Vec2{1.0 * plankCount, 5.0})
	world.CreateJoint(&jd)

	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	middle := planks[plankCount/2]
	assert.Less(t, planar.LengthV(middle.GetLinearVelocity()), 0.1)

	// The bridge sags below the anchor line but holds together.
	assert.Less(t, middle.GetPosition()[1], 5.0)
	assert.Greater(t, middle.GetPosition()[1], 0.0)
}

// The joint reaction force equals inv_dt times the accumulated impulse; for
// a hanging body the distance joint carries exactly its weight.
func TestDistanceJointReactionCarriesWeight(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, -4.0}
	body := world.CreateBody(&bd)
	shape := planar.MakeCircleShape(0.5)
	body.CreateFixture(&shape, 1.0)

	jd := planar.MakeDistanceJointDef()
	jd.Initialize(ground, body, planar.Vec2{0.0, 0.0}, planar.Vec2{0.0, -4.0})
	joint := world.CreateJoint(&jd).(*planar.DistanceJoint)

	const dt = 1.0 / 60.0
	for i := 0; i < 120; i++ {
		world.Step(dt, 8, 3)
	}

	force := joint.GetReactionForce(1.0 / dt)
	weight := body.GetMass() * 10.0

	// The reaction points up the rod, opposing gravity on body B.
	assert.InDelta(t, weight, math.Abs(force[1]), 0.05*weight)
	assert.InDelta(t, 0.0, force[0], 0.05*weight)
}

func TestRevoluteMotorSpinsWithinTorqueBudget(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 0.0}
	wheel := world.CreateBody(&bd)
	shape := planar.MakeCircleShape(0.5)
	wheel.CreateFixture(&shape, 1.0)

	jd := planar.MakeRevoluteJointDef()
	jd.Initialize(ground, wheel, planar.Vec2{0.0, 0.0})
	jd.EnableMotor = true
	jd.MotorSpeed = 4.0 * math.Pi
	jd.MaxMotorTorque = 1000.0
	joint := world.CreateJoint(&jd).(*planar.RevoluteJoint)

	const dt = 1.0 / 60.0
	for i := 0; i < 60; i++ {
		world.Step(dt, 8, 3)
	}

	// The motor reaches its target speed.
	assert.InDelta(t, 4.0*math.Pi, joint.GetJointSpeed(), 0.1)

	// Motor torque stays within the configured budget.
	assert.LessOrEqual(t, math.Abs(joint.GetMotorTorque(1.0/dt)), 1000.0+1e-9)
}

func TestRevoluteLimitClampsAngle(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{2.0, 0.0}
	arm := world.CreateBody(&bd)
	shape := planar.MakePolygonShape()
	shape.SetAsBox(2.0, 0.1)
	arm.CreateFixture(&shape, 1.0)

	jd := planar.MakeRevoluteJointDef()
	jd.Initialize(ground, arm, planar.Vec2{0.0, 0.0})
	jd.EnableLimit = true
	jd.LowerAngle = -0.25 * math.Pi
	jd.UpperAngle = 0.25 * math.Pi
	joint := world.CreateJoint(&jd).(*planar.RevoluteJoint)

	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// Gravity drags the arm down; the lower limit holds it.
	angle := joint.GetJointAngle()
	assert.GreaterOrEqual(t, angle, -0.25*math.Pi-0.05)
}

func TestPrismaticMotorDrivesTranslation(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 5.0}
	slider := world.CreateBody(&bd)
	shape := planar.MakePolygonShape()
	shape.SetAsBox(0.5, 0.5)
	slider.CreateFixture(&shape, 1.0)

	jd := planar.MakePrismaticJointDef()
	jd.Initialize(ground, slider, planar.Vec2{0.0, 5.0}, planar.Vec2{1.0, 0.0})
	jd.EnableLimit = true
	jd.LowerTranslation = -3.0
	jd.UpperTranslation = 3.0
	jd.EnableMotor = true
	jd.MotorSpeed = 2.0
	jd.MaxMotorForce = 10000.0
	joint := world.CreateJoint(&jd).(*planar.PrismaticJoint)

	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// Driven to the upper limit and held there, without vertical sag.
	assert.InDelta(t, 3.0, joint.GetJointTranslation(), 0.05)
	assert.InDelta(t, 5.0, slider.GetPosition()[1], 0.05)
}

func TestPulleyConservesTotalLength(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	world.CreateBody(&bd) // static anchor body for the scene

	makeBox := func(x float64, density float64) *planar.Body {
		b := planar.MakeBodyDef()
		b.Type = planar.DynamicBody
		b.Position = planar.Vec2{x, 5.0}
		body := world.CreateBody(&b)
		shape := planar.MakePolygonShape()
		shape.SetAsBox(0.5, 0.5)
		body.CreateFixture(&shape, density)
		return body
	}

	// Unequal masses so the pulley actually moves.
	bodyA := makeBox(-2.0, 1.0)
	bodyB := makeBox(2.0, 4.0)

	jd := planar.MakePulleyJointDef()
	jd.Initialize(bodyA, bodyB,
		planar.Vec2{-2.0, 10.0}, planar.Vec2{2.0, 10.0},
		planar.Vec2{-2.0, 5.5}, planar.Vec2{2.0, 5.5},
		1.0)
	joint := world.CreateJoint(&jd).(*planar.PulleyJoint)

	total0 := joint.GetCurrentLengthA() + joint.GetCurrentLengthB()

	for i := 0; i < 180; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// The heavy side went down, the light side up.
	assert.Greater(t, bodyA.GetPosition()[1], 5.0)
	assert.Less(t, bodyB.GetPosition()[1], 5.0)

	// length1 + ratio * length2 stays constant.
	total := joint.GetCurrentLengthA() + joint.GetCurrentLengthB()
	assert.InDelta(t, total0, total, 0.1)
}

func TestGearCouplesRevolutePair(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	makeWheel := func(x, radius float64) *planar.Body {
		b := planar.MakeBodyDef()
		b.Type = planar.DynamicBody
		b.Position = planar.Vec2{x, 0.0}
		body := world.CreateBody(&b)
		shape := planar.MakeCircleShape(radius)
		body.CreateFixture(&shape, 5.0)
		return body
	}

	wheel1 := makeWheel(-2.0, 1.0)
	wheel2 := makeWheel(2.0, 2.0)

	jd1 := planar.MakeRevoluteJointDef()
	jd1.Initialize(ground, wheel1, wheel1.GetPosition())
	joint1 := world.CreateJoint(&jd1)

	jd2 := planar.MakeRevoluteJointDef()
	jd2.Initialize(ground, wheel2, wheel2.GetPosition())
	joint2 := world.CreateJoint(&jd2)

	gd := planar.MakeGearJointDef()
	gd.BodyA = wheel1
	gd.BodyB = wheel2
	gd.Joint1 = joint1
	gd.Joint2 = joint2
	gd.Ratio = 2.0
	world.CreateJoint(&gd)

	// Spin the first wheel.
	wheel1.SetAngularVelocity(4.0)

	for i := 0; i < 120; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// coordinate1 + ratio * coordinate2 stays constant (both start at 0).
	c := wheel1.GetAngle() + 2.0*wheel2.GetAngle()
	assert.InDelta(t, 0.0, c, 0.05)
}

func TestRopeJointEnforcesMaxLength(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, -1.0}
	body := world.CreateBody(&bd)
	shape := planar.MakeCircleShape(0.25)
	body.CreateFixture(&shape, 1.0)

	jd := planar.MakeRopeJointDef()
	jd.BodyA = ground
	jd.BodyB = body
	jd.LocalAnchorA = planar.Vec2{0.0, 0.0}
	jd.LocalAnchorB = planar.Vec2{0.0, 0.0}
	jd.MaxLength = 3.0
	world.CreateJoint(&jd)

	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// The body dangles at the rope length, not beyond.
	dist := planar.DistanceVV(body.GetPosition(), planar.Vec2{})
	assert.LessOrEqual(t, dist, 3.0+0.02)
	assert.InDelta(t, 3.0, dist, 0.05)
}

func TestWheelSuspensionSupportsChassis(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	makeGroundEdge(world, planar.Vec2{-20.0, 0.0}, planar.Vec2{20.0, 0.0})

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 1.0}
	chassis := world.CreateBody(&bd)
	chassisShape := planar.MakePolygonShape()
	chassisShape.SetAsBox(1.0, 0.25)
	chassis.CreateFixture(&chassisShape, 1.0)

	bd.Position = planar.Vec2{0.0, 0.35}
	wheel := world.CreateBody(&bd)
	wheelShape := planar.MakeCircleShape(0.35)
	fd := planar.MakeFixtureDef()
	fd.Shape = &wheelShape
	fd.Density = 1.0
	fd.Friction = 0.9
	wheel.CreateFixtureFromDef(&fd)

	jd := planar.MakeWheelJointDef()
	jd.Initialize(chassis, wheel, wheel.GetPosition(), planar.Vec2{0.0, 1.0})
	jd.FrequencyHz = 4.0
	jd.DampingRatio = 0.7
	world.CreateJoint(&jd)

	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// The spring holds the chassis above the wheel.
	assert.Greater(t, chassis.GetPosition()[1], wheel.GetPosition()[1])
	assert.Less(t, planar.LengthV(chassis.GetLinearVelocity()), 0.1)
}

func TestWeldJointLocksRelativeMotion(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	makeGroundEdge(world, planar.Vec2{-20.0, 0.0}, planar.Vec2{20.0, 0.0})

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 3.0}
	bodyA := world.CreateBody(&bd)
	shape := planar.MakePolygonShape()
	shape.SetAsBox(0.5, 0.5)
	bodyA.CreateFixture(&shape, 1.0)

	bd.Position = planar.Vec2{1.0, 3.0}
	bodyB := world.CreateBody(&bd)
	bodyB.CreateFixture(&shape, 1.0)

	jd := planar.MakeWeldJointDef()
	jd.Initialize(bodyA, bodyB, planar.Vec2{0.5, 3.0})
	world.CreateJoint(&jd)

	offset0 := planar.SubVV(bodyB.GetPosition(), bodyA.GetPosition())

	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	offset := planar.SubVV(bodyB.GetPosition(), bodyA.GetPosition())
	assert.InDelta(t, offset0[0], offset[0], 0.05)
	assert.InDelta(t, offset0[1], offset[1], 0.05)
}

func TestMouseJointTracksTarget(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 0.0}
	body := world.CreateBody(&bd)
	shape := planar.MakeCircleShape(0.5)
	body.CreateFixture(&shape, 1.0)

	jd := planar.MakeMouseJointDef()
	jd.BodyA = ground
	jd.BodyB = body
	jd.Target = planar.Vec2{0.0, 0.0}
	jd.MaxForce = 1000.0 * body.GetMass()
	joint := world.CreateJoint(&jd).(*planar.MouseJoint)

	joint.SetTarget(planar.Vec2{3.0, 4.0})

	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	pos := body.GetPosition()
	assert.InDelta(t, 3.0, pos[0], 0.1)
	assert.InDelta(t, 4.0, pos[1], 0.1)
}

func TestFrictionJointDampsMotion(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{}) // top-down, no gravity

	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	bd.Type = planar.DynamicBody
	body := world.CreateBody(&bd)
	shape := planar.MakeCircleShape(0.5)
	body.CreateFixture(&shape, 1.0)

	jd := planar.MakeFrictionJointDef()
	jd.Initialize(ground, body, body.GetPosition())
	jd.MaxForce = 5.0
	jd.MaxTorque = 5.0
	world.CreateJoint(&jd)

	body.SetLinearVelocity(planar.Vec2{4.0, 0.0})

	for i := 0; i < 120; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// Top-down friction bleeds the velocity away.
	assert.Less(t, planar.LengthV(body.GetLinearVelocity()), 0.01)
}

func TestMotorJointSeeksOffset(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{})

	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	bd.Type = planar.DynamicBody
	body := world.CreateBody(&bd)
	shape := planar.MakeCircleShape(0.5)
	body.CreateFixture(&shape, 1.0)

	jd := planar.MakeMotorJointDef()
	jd.Initialize(ground, body)
	jd.MaxForce = 100.0
	jd.MaxTorque = 100.0
	joint := world.CreateJoint(&jd).(*planar.MotorJoint)

	joint.SetLinearOffset(planar.Vec2{2.0, 1.0})

	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	pos := body.GetPosition()
	assert.InDelta(t, 2.0, pos[0], 0.05)
	assert.InDelta(t, 1.0, pos[1], 0.05)
}

// Contact friction impulse is bounded by mu times the normal impulse.
func TestContactFrictionCone(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	// Sloped ground (slope 0.2) so friction carries part of the box's
	// weight; with mixed friction 0.3 the box comes to rest on it.
	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)
	groundShape := planar.MakeEdgeShape()
	groundShape.Set(planar.Vec2{-20.0, -4.0}, planar.Vec2{20.0, 4.0})
	gfd := planar.MakeFixtureDef()
	gfd.Shape = &groundShape
	gfd.Friction = 0.3
	ground.CreateFixtureFromDef(&gfd)

	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 2.0}
	box := world.CreateBody(&bd)
	boxShape := planar.MakePolygonShape()
	boxShape.SetAsBox(0.5, 0.5)
	bfd := planar.MakeFixtureDef()
	bfd.Shape = &boxShape
	bfd.Density = 1.0
	bfd.Friction = 0.3
	box.CreateFixtureFromDef(&bfd)

	for i := 0; i < 240; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	for c := world.GetContactList(); c != nil; c = c.GetNext() {
		if !c.IsTouching() {
			continue
		}
		m := c.GetManifold()
		mu := c.GetFriction()
		for i := 0; i < m.PointCount; i++ {
			require.GreaterOrEqual(t, m.Points[i].NormalImpulse, 0.0)
			assert.LessOrEqual(t,
				math.Abs(m.Points[i].TangentImpulse),
				mu*m.Points[i].NormalImpulse+1e-9)
		}
	}
}

func TestCollideConnectedFiltering(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 0.0}
	bodyA := world.CreateBody(&bd)
	shape := planar.MakeCircleShape(1.0)
	bodyA.CreateFixture(&shape, 1.0)

	bd.Position = planar.Vec2{1.0, 0.0}
	bodyB := world.CreateBody(&bd)
	bodyB.CreateFixture(&shape, 1.0)

	// Overlapping bodies joined with collideConnected = false never touch.
	jd := planar.MakeDistanceJointDef()
	jd.Initialize(bodyA, bodyB, bodyA.GetPosition(), bodyB.GetPosition())
	jd.CollideConnected = false
	world.CreateJoint(&jd)

	world.Step(1.0/60.0, 8, 3)

	for c := world.GetContactList(); c != nil; c = c.GetNext() {
		assert.False(t, c.IsTouching())
	}
}
