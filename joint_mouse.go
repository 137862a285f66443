package planar

// MouseJointDef requires a world target point, tuning parameters, and the
// time step.
type MouseJointDef struct {
	BaseJointDef

	// The initial world target point. This is assumed to coincide with the
	// body anchor initially.
	Target Vec2

	// The maximum constraint force that can be exerted to move the
	// candidate body. Usually you will express this as some multiple of the
	// weight (multiplier * mass * gravity).
	MaxForce float64

	// The response speed.
	FrequencyHz float64

	// The damping ratio. 0 = no damping, 1 = critical damping.
	DampingRatio float64
}

func MakeMouseJointDef() MouseJointDef {
	res := MouseJointDef{}
	res.Type = MouseJointType
	res.FrequencyHz = 5.0
	res.DampingRatio = 0.7
	return res
}

// MouseJoint makes a point on a body track a specified world point. This is
// a soft constraint with a maximum force, which allows the constraint to
// stretch without applying huge forces. It is intended for use by
// interactive tools.
//
// p = attached point, m = mouse point
// C = p - m
// Cdot = v
//      = v + cross(w, r)
// J = [I r_skew]
type MouseJoint struct {
	joint

	localAnchorB Vec2
	targetA      Vec2
	frequencyHz  float64
	dampingRatio float64
	beta         float64

	// Solver shared
	impulse  Vec2
	maxForce float64
	gamma    float64

	// Solver temp
	indexA       int
	indexB       int
	rB           Vec2
	localCenterB Vec2
	invMassB     float64
	invIB        float64
	mass         Mat22
	c            Vec2
}

func newMouseJoint(def *MouseJointDef) *MouseJoint {
	res := &MouseJoint{
		joint: makeJoint(def),
	}

	assert(IsValidVec2(def.Target))
	assert(IsValidFloat(def.MaxForce) && def.MaxForce >= 0.0)
	assert(IsValidFloat(def.FrequencyHz) && def.FrequencyHz >= 0.0)
	assert(IsValidFloat(def.DampingRatio) && def.DampingRatio >= 0.0)

	res.targetA = def.Target
	res.localAnchorB = MulTXV(res.bodyB.GetTransform(), res.targetA)

	res.maxForce = def.MaxForce

	res.frequencyHz = def.FrequencyHz
	res.dampingRatio = def.DampingRatio

	return res
}

// SetTarget moves the target point and wakes the body.
func (j *MouseJoint) SetTarget(target Vec2) {
	if target != j.targetA {
		j.bodyB.SetAwake(true)
		j.targetA = target
	}
}

func (j *MouseJoint) GetTarget() Vec2 {
	return j.targetA
}

func (j *MouseJoint) SetMaxForce(force float64) {
	j.maxForce = force
}

func (j *MouseJoint) GetMaxForce() float64 {
	return j.maxForce
}

func (j *MouseJoint) SetFrequency(hz float64) {
	j.frequencyHz = hz
}

func (j *MouseJoint) GetFrequency() float64 {
	return j.frequencyHz
}

func (j *MouseJoint) SetDampingRatio(ratio float64) {
	j.dampingRatio = ratio
}

func (j *MouseJoint) GetDampingRatio() float64 {
	return j.dampingRatio
}

func (j *MouseJoint) GetAnchorA() Vec2 {
	return j.targetA
}

func (j *MouseJoint) GetAnchorB() Vec2 {
	return j.bodyB.GetWorldPoint(j.localAnchorB)
}

func (j *MouseJoint) GetReactionForce(invDt float64) Vec2 {
	return MulSV(invDt, j.impulse)
}

func (j *MouseJoint) GetReactionTorque(invDt float64) float64 {
	return 0.0
}

func (j *MouseJoint) ShiftOrigin(newOrigin Vec2) {
	SubVVTo(&j.targetA, j.targetA, newOrigin)
}

func (j *MouseJoint) InitVelocityConstraints(data *solverData) {
	j.indexB = j.bodyB.islandIndex
	j.localCenterB = j.bodyB.sweep.LocalCenter
	j.invMassB = j.bodyB.invMass
	j.invIB = j.bodyB.invI

	cB := data.positions[j.indexB].c
	aB := data.positions[j.indexB].a
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	qB := MakeRot(aB)

	mass := j.bodyB.GetMass()

	// Frequency
	omega := 2.0 * pi * j.frequencyHz

	// Damping coefficient
	d := 2.0 * mass * j.dampingRatio * omega

	// Spring stiffness
	k := mass * (omega * omega)

	// magic formulas
	// gamma has units of inverse mass.
	// beta has units of inverse time.
	h := data.step.dt
	assert(d+h*k > epsilon)
	j.gamma = h * (d + h*k)
	if j.gamma != 0.0 {
		j.gamma = 1.0 / j.gamma
	}
	j.beta = h * k * j.gamma

	// Compute the effective mass matrix.
	j.rB = MulRV(qB, SubVV(j.localAnchorB, j.localCenterB))

	// K    = [(1/m1 + 1/m2) * eye(2) - skew(r1) * invI1 * skew(r1) - skew(r2) * invI2 * skew(r2)]
	//      = [1/m1+1/m2     0    ] + invI1 * [r1.y*r1.y -r1.x*r1.y] + invI2 * [r1.y*r1.y -r1.x*r1.y]
	//        [    0     1/m1+1/m2]           [-r1.x*r1.y r1.x*r1.x]           [-r1.x*r1.y r1.x*r1.x]
	var k22 Mat22
	k22.Ex[0] = j.invMassB + j.invIB*j.rB[1]*j.rB[1] + j.gamma
	k22.Ex[1] = -j.invIB * j.rB[0] * j.rB[1]
	k22.Ey[0] = k22.Ex[1]
	k22.Ey[1] = j.invMassB + j.invIB*j.rB[0]*j.rB[0] + j.gamma

	j.mass = k22.GetInverse()

	j.c = SubVV(AddVV(cB, j.rB), j.targetA)
	MulSVTo(&j.c, j.beta, j.c)

	// Cheat with some damping.
	wB *= 0.98

	if data.step.warmStarting {
		MulSVTo(&j.impulse, data.step.dtRatio, j.impulse)
		MulAddTo(&vB, j.invMassB, j.impulse)
		wB += j.invIB * CrossVV(j.rB, j.impulse)
	} else {
		j.impulse = Vec2{}
	}

	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *MouseJoint) SolveVelocityConstraints(data *solverData) {
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	// Cdot = v + cross(w, r)
	cdot := AddVV(vB, CrossSV(wB, j.rB))
	impulse := MulMV(j.mass, NegV(AddVV(AddVV(cdot, j.c), MulSV(j.gamma, j.impulse))))

	oldImpulse := j.impulse
	j.impulse = AddVV(j.impulse, impulse)
	maxImpulse := data.step.dt * j.maxForce
	if LengthSquaredV(j.impulse) > maxImpulse*maxImpulse {
		MulSVTo(&j.impulse, maxImpulse/LengthV(j.impulse), j.impulse)
	}
	impulse = SubVV(j.impulse, oldImpulse)

	MulAddTo(&vB, j.invMassB, impulse)
	wB += j.invIB * CrossVV(j.rB, impulse)

	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *MouseJoint) SolvePositionConstraints(data *solverData) bool {
	return true
}
