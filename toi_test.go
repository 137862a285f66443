package planar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planarphys/planar"
)

func TestTimeOfImpactAlreadyOverlapped(t *testing.T) {
	// Two unit circles, sweep A fixed at the origin, sweep B parked at
	// (1.9, 0): the surfaces already interpenetrate at t = 0, so the
	// solver reports them as overlapped at t = 0.
	circleA := planar.NewCircleShape(1.0)
	circleB := planar.NewCircleShape(1.0)

	var input planar.TOIInput
	input.ProxyA.Set(circleA, 0)
	input.ProxyB.Set(circleB, 0)
	input.SweepA = planar.Sweep{}
	input.SweepB = planar.Sweep{
		C0: planar.Vec2{1.9, 0.0},
		C:  planar.Vec2{1.9, 0.0},
	}
	input.TMax = 1.0

	var output planar.TOIOutput
	planar.TimeOfImpact(&output, &input)

	assert.Equal(t, 0.0, output.T)
	// Center distance 1.9 is below the target separation 2 - 3*LinearSlop
	// by more than the tolerance, so the start already counts as overlap.
	assert.Equal(t, planar.TOIStateOverlapped, output.State)
}

func TestTimeOfImpactApproachingCircles(t *testing.T) {
	// B sweeps from (10, 0) to (0, 0) toward A at the origin; first
	// contact happens when the centers are about two radii apart, at
	// roughly t = 0.8.
	circleA := planar.NewCircleShape(1.0)
	circleB := planar.NewCircleShape(1.0)

	var input planar.TOIInput
	input.ProxyA.Set(circleA, 0)
	input.ProxyB.Set(circleB, 0)
	input.SweepA = planar.Sweep{}
	input.SweepB = planar.Sweep{
		C0: planar.Vec2{10.0, 0.0},
		C:  planar.Vec2{0.0, 0.0},
	}
	input.TMax = 1.0

	var output planar.TOIOutput
	planar.TimeOfImpact(&output, &input)

	require.Equal(t, planar.TOIStateTouching, output.State)
	assert.InDelta(t, 0.8, output.T, 0.01)
}

func TestTimeOfImpactSeparated(t *testing.T) {
	// B moves parallel to A with a wide gap; no impact over the interval.
	circleA := planar.NewCircleShape(1.0)
	circleB := planar.NewCircleShape(1.0)

	var input planar.TOIInput
	input.ProxyA.Set(circleA, 0)
	input.ProxyB.Set(circleB, 0)
	input.SweepA = planar.Sweep{}
	input.SweepB = planar.Sweep{
		C0: planar.Vec2{0.0, 10.0},
		C:  planar.Vec2{5.0, 10.0},
	}
	input.TMax = 1.0

	var output planar.TOIOutput
	planar.TimeOfImpact(&output, &input)

	assert.Equal(t, planar.TOIStateSeparated, output.State)
	assert.Equal(t, 1.0, output.T)
}

func TestTimeOfImpactBulletThroughThinWall(t *testing.T) {
	// A fast box would tunnel through a thin static box in a discrete
	// step; the TOI solver must catch the crossing.
	wall := planar.NewPolygonShape()
	wall.SetAsBox(0.1, 5.0)

	bullet := planar.NewPolygonShape()
	bullet.SetAsBox(0.1, 0.1)

	var input planar.TOIInput
	input.ProxyA.Set(wall, 0)
	input.ProxyB.Set(bullet, 0)
	input.SweepA = planar.Sweep{}
	input.SweepB = planar.Sweep{
		C0: planar.Vec2{-10.0, 0.0},
		C:  planar.Vec2{10.0, 0.0},
	}
	input.TMax = 1.0

	var output planar.TOIOutput
	planar.TimeOfImpact(&output, &input)

	require.Equal(t, planar.TOIStateTouching, output.State)
	assert.Greater(t, output.T, 0.0)
	assert.Less(t, output.T, 0.5)
}
