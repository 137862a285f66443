package planar

// MotorJointDef controls the relative motion between two bodies.
type MotorJointDef struct {
	BaseJointDef

	// Position of body B minus the position of body A, in body A's frame,
	// in meters.
	LinearOffset Vec2

	// The body B angle minus body A angle in radians.
	AngularOffset float64

	// The maximum motor force in N.
	MaxForce float64

	// The maximum motor torque in N-m.
	MaxTorque float64

	// Position correction factor in the range [0,1].
	CorrectionFactor float64
}

func MakeMotorJointDef() MotorJointDef {
	res := MotorJointDef{}
	res.Type = MotorJointType
	res.MaxForce = 1.0
	res.MaxTorque = 1.0
	res.CorrectionFactor = 0.3
	return res
}

// Initialize captures the current offsets between the two bodies.
func (def *MotorJointDef) Initialize(bodyA, bodyB *Body) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	xB := def.BodyB.GetPosition()
	def.LinearOffset = def.BodyA.GetLocalPoint(xB)

	angleA := def.BodyA.GetAngle()
	angleB := def.BodyB.GetAngle()
	def.AngularOffset = angleB - angleA
}

// MotorJoint is used to control the relative motion between two bodies. A
// typical usage is to control the movement of a dynamic body with respect to
// the ground.
//
// Point-to-point constraint
// Cdot = v2 - v1
//      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
//
// Angle constraint
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2
type MotorJoint struct {
	joint

	// Solver shared
	linearOffset     Vec2
	angularOffset    float64
	linearImpulse    Vec2
	angularImpulse   float64
	maxForce         float64
	maxTorque        float64
	correctionFactor float64

	// Solver temp
	indexA       int
	indexB       int
	rA           Vec2
	rB           Vec2
	localCenterA Vec2
	localCenterB Vec2
	linearError  Vec2
	angularError float64
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64
	linearMass   Mat22
	angularMass  float64
}

func newMotorJoint(def *MotorJointDef) *MotorJoint {
	res := &MotorJoint{
		joint: makeJoint(def),
	}

	res.linearOffset = def.LinearOffset
	res.angularOffset = def.AngularOffset

	res.maxForce = def.MaxForce
	res.maxTorque = def.MaxTorque
	res.correctionFactor = def.CorrectionFactor

	return res
}

func (j *MotorJoint) GetAnchorA() Vec2 {
	return j.bodyA.GetPosition()
}

func (j *MotorJoint) GetAnchorB() Vec2 {
	return j.bodyB.GetPosition()
}

func (j *MotorJoint) GetReactionForce(invDt float64) Vec2 {
	return MulSV(invDt, j.linearImpulse)
}

func (j *MotorJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * j.angularImpulse
}

func (j *MotorJoint) SetMaxForce(force float64) {
	assert(IsValidFloat(force) && force >= 0.0)
	j.maxForce = force
}

func (j *MotorJoint) GetMaxForce() float64 {
	return j.maxForce
}

func (j *MotorJoint) SetMaxTorque(torque float64) {
	assert(IsValidFloat(torque) && torque >= 0.0)
	j.maxTorque = torque
}

func (j *MotorJoint) GetMaxTorque() float64 {
	return j.maxTorque
}

func (j *MotorJoint) SetCorrectionFactor(factor float64) {
	assert(IsValidFloat(factor) && 0.0 <= factor && factor <= 1.0)
	j.correctionFactor = factor
}

func (j *MotorJoint) GetCorrectionFactor() float64 {
	return j.correctionFactor
}

// SetLinearOffset sets the target linear offset, in frame A, in meters.
func (j *MotorJoint) SetLinearOffset(linearOffset Vec2) {
	if linearOffset != j.linearOffset {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.linearOffset = linearOffset
	}
}

func (j *MotorJoint) GetLinearOffset() Vec2 {
	return j.linearOffset
}

// SetAngularOffset sets the target angular offset, in radians.
func (j *MotorJoint) SetAngularOffset(angularOffset float64) {
	if angularOffset != j.angularOffset {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.angularOffset = angularOffset
	}
}

func (j *MotorJoint) GetAngularOffset() float64 {
	return j.angularOffset
}

func (j *MotorJoint) InitVelocityConstraints(data *solverData) {
	j.indexA = j.bodyA.islandIndex
	j.indexB = j.bodyB.islandIndex
	j.localCenterA = j.bodyA.sweep.LocalCenter
	j.localCenterB = j.bodyB.sweep.LocalCenter
	j.invMassA = j.bodyA.invMass
	j.invMassB = j.bodyB.invMass
	j.invIA = j.bodyA.invI
	j.invIB = j.bodyB.invI

	cA := data.positions[j.indexA].c
	aA := data.positions[j.indexA].a
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w

	cB := data.positions[j.indexB].c
	aB := data.positions[j.indexB].a
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	// Compute the effective mass matrix.
	j.rA = MulRV(qA, NegV(j.localCenterA))
	j.rB = MulRV(qB, NegV(j.localCenterB))

	mA := j.invMassA
	mB := j.invMassB
	iA := j.invIA
	iB := j.invIB

	var k Mat22
	k.Ex[0] = mA + mB + iA*j.rA[1]*j.rA[1] + iB*j.rB[1]*j.rB[1]
	k.Ex[1] = -iA*j.rA[0]*j.rA[1] - iB*j.rB[0]*j.rB[1]
	k.Ey[0] = k.Ex[1]
	k.Ey[1] = mA + mB + iA*j.rA[0]*j.rA[0] + iB*j.rB[0]*j.rB[0]

	j.linearMass = k.GetInverse()

	j.angularMass = iA + iB
	if j.angularMass > 0.0 {
		j.angularMass = 1.0 / j.angularMass
	}

	j.linearError = SubVV(SubVV(SubVV(AddVV(cB, j.rB), cA), j.rA), MulRV(qA, j.linearOffset))
	j.angularError = aB - aA - j.angularOffset

	if data.step.warmStarting {
		// Scale impulses to support a variable time step.
		MulSVTo(&j.linearImpulse, data.step.dtRatio, j.linearImpulse)
		j.angularImpulse *= data.step.dtRatio

		p := j.linearImpulse
		MulSubTo(&vA, mA, p)
		wA -= iA * (CrossVV(j.rA, p) + j.angularImpulse)
		MulAddTo(&vB, mB, p)
		wB += iB * (CrossVV(j.rB, p) + j.angularImpulse)
	} else {
		j.linearImpulse = Vec2{}
		j.angularImpulse = 0.0
	}

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *MotorJoint) SolveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	mA := j.invMassA
	mB := j.invMassB
	iA := j.invIA
	iB := j.invIB

	h := data.step.dt
	invH := data.step.invDt

	// Solve angular friction.
	{
		cdot := wB - wA + invH*j.correctionFactor*j.angularError
		impulse := -j.angularMass * cdot

		oldImpulse := j.angularImpulse
		maxImpulse := h * j.maxTorque
		j.angularImpulse = clampFloat(j.angularImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.angularImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve linear friction.
	{
		cdot := AddVV(
			SubVV(SubVV(AddVV(vB, CrossSV(wB, j.rB)), vA), CrossSV(wA, j.rA)),
			MulSV(invH*j.correctionFactor, j.linearError),
		)

		impulse := NegV(MulMV(j.linearMass, cdot))
		oldImpulse := j.linearImpulse
		j.linearImpulse = AddVV(j.linearImpulse, impulse)

		maxImpulse := h * j.maxForce

		if LengthSquaredV(j.linearImpulse) > maxImpulse*maxImpulse {
			j.linearImpulse, _ = NormalizeV(j.linearImpulse)
			MulSVTo(&j.linearImpulse, maxImpulse, j.linearImpulse)
		}

		impulse = SubVV(j.linearImpulse, oldImpulse)

		MulSubTo(&vA, mA, impulse)
		wA -= iA * CrossVV(j.rA, impulse)

		MulAddTo(&vB, mB, impulse)
		wB += iB * CrossVV(j.rB, impulse)
	}

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *MotorJoint) SolvePositionConstraints(data *solverData) bool {
	return true
}
