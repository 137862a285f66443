package planar_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planarphys/planar"
)

func buildSerializationScene() *planar.World {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	makeGroundEdge(world, planar.Vec2{-20.0, 0.0}, planar.Vec2{20.0, 0.0})

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{0.0, 4.0}
	bd.Bullet = true
	ball := world.CreateBody(&bd)
	circle := planar.MakeCircleShape(0.5)
	fd := planar.MakeFixtureDef()
	fd.Shape = &circle
	fd.Density = 1.0
	fd.Friction = 0.4
	fd.Restitution = 0.3
	ball.CreateFixtureFromDef(&fd)

	bd.Bullet = false
	bd.Position = planar.Vec2{3.0, 4.0}
	box := world.CreateBody(&bd)
	poly := planar.MakePolygonShape()
	poly.SetAsBox(0.5, 0.5)
	box.CreateFixture(&poly, 2.0)

	jd := planar.MakeDistanceJointDef()
	jd.Initialize(ball, box, ball.GetPosition(), box.GetPosition())
	world.CreateJoint(&jd)

	return world
}

func TestSnapshotRoundTrip(t *testing.T) {
	world := buildSerializationScene()

	snap := world.Snapshot()
	require.Len(t, snap.Bodies, 3)
	require.Len(t, snap.Joints, 1)

	restored := planar.RestoreWorld(snap)
	assert.Equal(t, world.GetBodyCount(), restored.GetBodyCount())
	assert.Equal(t, world.GetJointCount(), restored.GetJointCount())

	// Restored bodies reproduce positions, ordering, and mass.
	a := world.GetBodyList()
	b := restored.GetBodyList()
	for a != nil && b != nil {
		assert.Equal(t, a.GetType(), b.GetType())
		assert.Equal(t, a.GetPosition(), b.GetPosition())
		assert.Equal(t, a.GetAngle(), b.GetAngle())
		assert.Equal(t, a.GetMass(), b.GetMass())
		assert.Equal(t, a.IsBullet(), b.IsBullet())
		a = a.GetNext()
		b = b.GetNext()
	}
	assert.Nil(t, a)
	assert.Nil(t, b)
}

func TestSnapshotSurvivesJSON(t *testing.T) {
	world := buildSerializationScene()

	snap := world.Snapshot()

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded planar.WorldSnapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored := planar.RestoreWorld(&decoded)
	assert.Equal(t, world.GetBodyCount(), restored.GetBodyCount())
	assert.Equal(t, world.GetJointCount(), restored.GetJointCount())
}

// A restored world must simulate identically to the original.
func TestRestoredWorldSimulatesIdentically(t *testing.T) {
	original := buildSerializationScene()
	restored := planar.RestoreWorld(original.Snapshot())

	for i := 0; i < 120; i++ {
		original.Step(1.0/60.0, 8, 3)
		restored.Step(1.0/60.0, 8, 3)
	}

	a := original.GetBodyList()
	b := restored.GetBodyList()
	for a != nil && b != nil {
		assert.Equal(t, a.GetPosition(), b.GetPosition())
		assert.Equal(t, a.GetAngle(), b.GetAngle())
		assert.Equal(t, a.GetLinearVelocity(), b.GetLinearVelocity())
		a = a.GetNext()
		b = b.GetNext()
	}
}

func TestGearJointRoundTrip(t *testing.T) {
	world := planar.NewWorld(planar.Vec2{0.0, -10.0})

	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)
	groundShape := planar.MakeEdgeShape()
	groundShape.Set(planar.Vec2{-20.0, -5.0}, planar.Vec2{20.0, -5.0})
	ground.CreateFixture(&groundShape, 0.0)

	bd.Type = planar.DynamicBody
	bd.Position = planar.Vec2{-2.0, 0.0}
	wheel1 := world.CreateBody(&bd)
	c1 := planar.MakeCircleShape(1.0)
	wheel1.CreateFixture(&c1, 5.0)

	bd.Position = planar.Vec2{2.0, 0.0}
	wheel2 := world.CreateBody(&bd)
	c2 := planar.MakeCircleShape(2.0)
	wheel2.CreateFixture(&c2, 5.0)

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

	restored := planar.RestoreWorld(world.Snapshot())
	require.Equal(t, 3, restored.GetJointCount())

	// Find the restored gear joint and check it resolved both couplings.
	var gear *planar.GearJoint
	for j := restored.GetJointList(); j != nil; j = j.GetNext() {
		if g, ok := j.(*planar.GearJoint); ok {
			gear = g
		}
	}
	require.NotNil(t, gear)
	assert.Equal(t, 2.0, gear.GetRatio())
	assert.NotNil(t, gear.GetJoint1())
	assert.NotNil(t, gear.GetJoint2())
	assert.Equal(t, planar.RevoluteJointType, gear.GetJoint1().GetType())
}
