package planar

// timeStep carries the per-step solver parameters.
type timeStep struct {
	dt                 float64 // time step
	invDt              float64 // inverse time step (0 if dt == 0)
	dtRatio            float64 // dt * inv_dt0, scales impulses across variable steps
	velocityIterations int
	positionIterations int
	warmStarting       bool
}

// position is the solver staging slot for a body's center and angle.
type position struct {
	c Vec2
	a float64
}

// velocity is the solver staging slot for a body's linear and angular
// velocity.
type velocity struct {
	v Vec2
	w float64
}

// solverData bundles what the joint solvers need each step.
type solverData struct {
	step       timeStep
	positions  []position
	velocities []velocity
}
