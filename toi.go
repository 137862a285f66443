package planar

import (
	"math"
)

// TOIInput carries the swept proxy pair for a time of impact query.
// TMax defines the sweep interval [0, TMax].
type TOIInput struct {
	ProxyA DistanceProxy
	ProxyB DistanceProxy
	SweepA Sweep
	SweepB Sweep
	TMax   float64
}

// Time of impact result states.
const (
	TOIStateUnknown uint8 = iota + 1
	TOIStateFailed
	TOIStateOverlapped
	TOIStateTouching
	TOIStateSeparated
)

type TOIOutput struct {
	State uint8
	T     float64
}

// Per-process TOI counters used by tests and diagnostics.
var (
	TOICalls, TOIIters, TOIMaxIters int
	TOIRootIters, TOIMaxRootIters   int
)

const (
	separationPoints uint8 = iota
	separationFaceA
	separationFaceB
)

// separationFunction tracks one separating axis between two swept proxies:
// either the axis between closest points or a face normal on one proxy.
type separationFunction struct {
	proxyA, proxyB *DistanceProxy
	sweepA, sweepB Sweep
	sepType        uint8
	localPoint     Vec2
	axis           Vec2
}

func (fcn *separationFunction) initialize(cache *SimplexCache, proxyA *DistanceProxy, sweepA Sweep, proxyB *DistanceProxy, sweepB Sweep, t1 float64) float64 {
	fcn.proxyA = proxyA
	fcn.proxyB = proxyB
	count := cache.Count
	assert(0 < count && count < 3)

	fcn.sweepA = sweepA
	fcn.sweepB = sweepB

	var xfA, xfB Transform
	fcn.sweepA.GetTransform(&xfA, t1)
	fcn.sweepB.GetTransform(&xfB, t1)

	if count == 1 {
		fcn.sepType = separationPoints
		localPointA := fcn.proxyA.GetVertex(cache.IndexA[0])
		localPointB := fcn.proxyB.GetVertex(cache.IndexB[0])
		pointA := MulXV(xfA, localPointA)
		pointB := MulXV(xfB, localPointB)
		var s float64
		fcn.axis, s = NormalizeV(SubVV(pointB, pointA))
		return s
	}

	if cache.IndexA[0] == cache.IndexA[1] {
		// Two points on B and one on A.
		fcn.sepType = separationFaceB
		localPointB1 := proxyB.GetVertex(cache.IndexB[0])
		localPointB2 := proxyB.GetVertex(cache.IndexB[1])

		fcn.axis, _ = NormalizeV(CrossVS(SubVV(localPointB2, localPointB1), 1.0))
		normal := MulRV(xfB.Q, fcn.axis)

		fcn.localPoint = MulSV(0.5, AddVV(localPointB1, localPointB2))
		pointB := MulXV(xfB, fcn.localPoint)

		localPointA := proxyA.GetVertex(cache.IndexA[0])
		pointA := MulXV(xfA, localPointA)

		s := DotVV(SubVV(pointA, pointB), normal)
		if s < 0.0 {
			fcn.axis = NegV(fcn.axis)
			s = -s
		}

		return s
	}

	// Two points on A and one or two points on B.
	fcn.sepType = separationFaceA
	localPointA1 := fcn.proxyA.GetVertex(cache.IndexA[0])
	localPointA2 := fcn.proxyA.GetVertex(cache.IndexA[1])

	fcn.axis, _ = NormalizeV(CrossVS(SubVV(localPointA2, localPointA1), 1.0))
	normal := MulRV(xfA.Q, fcn.axis)

	fcn.localPoint = MulSV(0.5, AddVV(localPointA1, localPointA2))
	pointA := MulXV(xfA, fcn.localPoint)

	localPointB := fcn.proxyB.GetVertex(cache.IndexB[0])
	pointB := MulXV(xfB, localPointB)

	s := DotVV(SubVV(pointB, pointA), normal)
	if s < 0.0 {
		fcn.axis = NegV(fcn.axis)
		s = -s
	}

	return s
}

// findMinSeparation evaluates the minimum separation along the axis at time
// t and records the witness point indices.
func (fcn *separationFunction) findMinSeparation(indexA, indexB *int, t float64) float64 {
	var xfA, xfB Transform
	fcn.sweepA.GetTransform(&xfA, t)
	fcn.sweepB.GetTransform(&xfB, t)

	switch fcn.sepType {
	case separationPoints:
		axisA := MulTRV(xfA.Q, fcn.axis)
		axisB := MulTRV(xfB.Q, NegV(fcn.axis))

		*indexA = fcn.proxyA.GetSupport(axisA)
		*indexB = fcn.proxyB.GetSupport(axisB)

		localPointA := fcn.proxyA.GetVertex(*indexA)
		localPointB := fcn.proxyB.GetVertex(*indexB)

		pointA := MulXV(xfA, localPointA)
		pointB := MulXV(xfB, localPointB)

		return DotVV(SubVV(pointB, pointA), fcn.axis)

	case separationFaceA:
		normal := MulRV(xfA.Q, fcn.axis)
		pointA := MulXV(xfA, fcn.localPoint)

		axisB := MulTRV(xfB.Q, NegV(normal))

		*indexA = -1
		*indexB = fcn.proxyB.GetSupport(axisB)

		localPointB := fcn.proxyB.GetVertex(*indexB)
		pointB := MulXV(xfB, localPointB)

		return DotVV(SubVV(pointB, pointA), normal)

	case separationFaceB:
		normal := MulRV(xfB.Q, fcn.axis)
		pointB := MulXV(xfB, fcn.localPoint)

		axisA := MulTRV(xfA.Q, NegV(normal))

		*indexB = -1
		*indexA = fcn.proxyA.GetSupport(axisA)

		localPointA := fcn.proxyA.GetVertex(*indexA)
		pointA := MulXV(xfA, localPointA)

		return DotVV(SubVV(pointA, pointB), normal)

	default:
		assert(false)
		*indexA = -1
		*indexB = -1
		return 0.0
	}
}

// evaluate measures the separation of the stored witness points at time t.
func (fcn *separationFunction) evaluate(indexA, indexB int, t float64) float64 {
	var xfA, xfB Transform
	fcn.sweepA.GetTransform(&xfA, t)
	fcn.sweepB.GetTransform(&xfB, t)

	switch fcn.sepType {
	case separationPoints:
		localPointA := fcn.proxyA.GetVertex(indexA)
		localPointB := fcn.proxyB.GetVertex(indexB)

		pointA := MulXV(xfA, localPointA)
		pointB := MulXV(xfB, localPointB)

		return DotVV(SubVV(pointB, pointA), fcn.axis)

	case separationFaceA:
		normal := MulRV(xfA.Q, fcn.axis)
		pointA := MulXV(xfA, fcn.localPoint)

		localPointB := fcn.proxyB.GetVertex(indexB)
		pointB := MulXV(xfB, localPointB)

		return DotVV(SubVV(pointB, pointA), normal)

	case separationFaceB:
		normal := MulRV(xfB.Q, fcn.axis)
		pointB := MulXV(xfB, fcn.localPoint)

		localPointA := fcn.proxyA.GetVertex(indexA)
		pointA := MulXV(xfA, localPointA)

		return DotVV(SubVV(pointA, pointB), normal)

	default:
		assert(false)
		return 0.0
	}
}

// TimeOfImpact computes the upper bound on time before two shapes penetrate.
// Time is represented as a fraction between [0, TMax]. This uses a swept
// separating axis and may miss some intermediate, non-tunneling collision.
// If you change the time interval, call this function again.
//
// Use Distance to compute the contact point and normal at the time of
// impact. CCD is done via the local separating axis method: the solver seeks
// progression by computing the largest time at which separation is
// maintained.
func TimeOfImpact(output *TOIOutput, input *TOIInput) {
	TOICalls++

	output.State = TOIStateUnknown
	output.T = input.TMax

	proxyA := &input.ProxyA
	proxyB := &input.ProxyB

	sweepA := input.SweepA
	sweepB := input.SweepB

	// Large rotations can make the root finder fail, so normalize the sweep
	// angles.
	sweepA.Normalize()
	sweepB.Normalize()

	tMax := input.TMax

	totalRadius := proxyA.radius + proxyB.radius
	target := math.Max(LinearSlop, totalRadius-3.0*LinearSlop)
	tolerance := 0.25 * LinearSlop
	assert(target > tolerance)

	t1 := 0.0
	const maxIterations = 20
	iter := 0

	// Prepare input for distance query.
	var cache SimplexCache
	var distanceInput DistanceInput
	distanceInput.ProxyA = input.ProxyA
	distanceInput.ProxyB = input.ProxyB
	distanceInput.UseRadii = false

	// The outer loop progressively attempts to compute new separating axes.
	// This loop terminates when an axis is repeated (no progress is made).
	for {
		var xfA, xfB Transform
		sweepA.GetTransform(&xfA, t1)
		sweepB.GetTransform(&xfB, t1)

		// Get the distance between shapes. We can also use the results to
		// get a separating axis.
		distanceInput.TransformA = xfA
		distanceInput.TransformB = xfB
		var distanceOutput DistanceOutput
		Distance(&distanceOutput, &cache, &distanceInput)

		// If the shapes are overlapped, we give up on continuous collision.
		// At the start of the sweep, shapes already deeper than the target
		// separation (less the tolerance) count as overlapped too.
		if distanceOutput.Distance <= 0.0 || (iter == 0 && distanceOutput.Distance < target-tolerance) {
			output.State = TOIStateOverlapped
			output.T = 0.0
			break
		}

		if distanceOutput.Distance < target+tolerance {
			output.State = TOIStateTouching
			output.T = t1
			break
		}

		// Initialize the separating axis.
		var fcn separationFunction
		fcn.initialize(&cache, proxyA, sweepA, proxyB, sweepB, t1)

		// Compute the TOI on the separating axis. We do this by successively
		// resolving the deepest point. This loop is bounded by the number of
		// vertices.
		done := false
		t2 := tMax
		pushBackIter := 0
		for {
			// Find the deepest point at t2. Store the witness point indices.
			var indexA, indexB int
			s2 := fcn.findMinSeparation(&indexA, &indexB, t2)

			// Is the final configuration separated?
			if s2 > target+tolerance {
				output.State = TOIStateSeparated
				output.T = tMax
				done = true
				break
			}

			// Has the separation reached tolerance?
			if s2 > target-tolerance {
				// Advance the sweeps.
				t1 = t2
				break
			}

			// Compute the initial separation of the witness points.
			s1 := fcn.evaluate(indexA, indexB, t1)

			// Check for initial overlap. This might happen if the root
			// finder runs out of iterations.
			if s1 < target-tolerance {
				output.State = TOIStateFailed
				output.T = t1
				done = true
				break
			}

			// Check for touching. t1 holds the TOI (could be 0.0).
			if s1 <= target+tolerance {
				output.State = TOIStateTouching
				output.T = t1
				done = true
				break
			}

			// Compute 1D root of: f(x) - target = 0
			rootIterCount := 0
			a1, a2 := t1, t2

			for {
				// Use a mix of the secant rule and bisection.
				var t float64
				if rootIterCount&1 != 0 {
					// Secant rule to improve convergence.
					t = a1 + (target-s1)*(a2-a1)/(s2-s1)
				} else {
					// Bisection to guarantee progress.
					t = 0.5 * (a1 + a2)
				}

				rootIterCount++
				TOIRootIters++

				s := fcn.evaluate(indexA, indexB, t)

				if math.Abs(s-target) < tolerance {
					// t2 holds a tentative value for t1.
					t2 = t
					break
				}

				// Ensure we continue to bracket the root.
				if s > target {
					a1 = t
					s1 = s
				} else {
					a2 = t
					s2 = s
				}

				if rootIterCount == 50 {
					break
				}
			}

			TOIMaxRootIters = maxInt(TOIMaxRootIters, rootIterCount)

			pushBackIter++

			if pushBackIter == MaxPolygonVertices {
				break
			}
		}

		iter++
		TOIIters++

		if done {
			break
		}

		if iter == maxIterations {
			// Root finder got stuck. Semi-victory.
			output.State = TOIStateFailed
			output.T = t1
			break
		}
	}

	TOIMaxIters = maxInt(TOIMaxIters, iter)
}
