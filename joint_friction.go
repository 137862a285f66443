package planar

// FrictionJointDef requires defining local anchor points on both bodies.
type FrictionJointDef struct {
	BaseJointDef

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The maximum friction force in N.
	MaxForce float64

	// The maximum friction torque in N-m.
	MaxTorque float64
}

func MakeFrictionJointDef() FrictionJointDef {
	res := FrictionJointDef{}
	res.Type = FrictionJointType
	return res
}

// Initialize sets the bodies and anchors using a world anchor point.
func (def *FrictionJointDef) Initialize(bodyA, bodyB *Body, anchor Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = def.BodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = def.BodyB.GetLocalPoint(anchor)
}

// FrictionJoint is used for top-down friction. It provides 2D translational
// friction and angular friction.
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
type FrictionJoint struct {
	joint

	localAnchorA Vec2
	localAnchorB Vec2

	// Solver shared
	linearImpulse  Vec2
	angularImpulse float64
	maxForce       float64
	maxTorque      float64

	// Solver temp
	indexA       int
	indexB       int
	rA           Vec2
	rB           Vec2
	localCenterA Vec2
	localCenterB Vec2
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64
	linearMass   Mat22
	angularMass  float64
}

func newFrictionJoint(def *FrictionJointDef) *FrictionJoint {
	res := &FrictionJoint{
		joint: makeJoint(def),
	}

	res.localAnchorA = def.LocalAnchorA
	res.localAnchorB = def.LocalAnchorB

	res.maxForce = def.MaxForce
	res.maxTorque = def.MaxTorque

	return res
}

// GetLocalAnchorA returns the local anchor point relative to body A's
// origin.
func (j *FrictionJoint) GetLocalAnchorA() Vec2 {
	return j.localAnchorA
}

// GetLocalAnchorB returns the local anchor point relative to body B's
// origin.
func (j *FrictionJoint) GetLocalAnchorB() Vec2 {
	return j.localAnchorB
}

func (j *FrictionJoint) SetMaxForce(force float64) {
	assert(IsValidFloat(force) && force >= 0.0)
	j.maxForce = force
}

func (j *FrictionJoint) GetMaxForce() float64 {
	return j.maxForce
}

func (j *FrictionJoint) SetMaxTorque(torque float64) {
	assert(IsValidFloat(torque) && torque >= 0.0)
	j.maxTorque = torque
}

func (j *FrictionJoint) GetMaxTorque() float64 {
	return j.maxTorque
}

func (j *FrictionJoint) GetAnchorA() Vec2 {
	return j.bodyA.GetWorldPoint(j.localAnchorA)
}

func (j *FrictionJoint) GetAnchorB() Vec2 {
	return j.bodyB.GetWorldPoint(j.localAnchorB)
}

func (j *FrictionJoint) GetReactionForce(invDt float64) Vec2 {
	return MulSV(invDt, j.linearImpulse)
}

func (j *FrictionJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * j.angularImpulse
}

func (j *FrictionJoint) InitVelocityConstraints(data *solverData) {
	j.indexA = j.bodyA.islandIndex
	j.indexB = j.bodyB.islandIndex
	j.localCenterA = j.bodyA.sweep.LocalCenter
	j.localCenterB = j.bodyB.sweep.LocalCenter
	j.invMassA = j.bodyA.invMass
	j.invMassB = j.bodyB.invMass
	j.invIA = j.bodyA.invI
	j.invIB = j.bodyB.invI

	aA := data.positions[j.indexA].a
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w

	aB := data.positions[j.indexB].a
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	// Compute the effective mass matrix.
	j.rA = MulRV(qA, SubVV(j.localAnchorA, j.localCenterA))
	j.rB = MulRV(qB, SubVV(j.localAnchorB, j.localCenterB))

	// J = [-I -r1_skew I r2_skew]
	//     [ 0       -1 0       1]
	// r_skew = [-ry; rx]

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

func (j *FrictionJoint) SolveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	mA := j.invMassA
	mB := j.invMassB
	iA := j.invIA
	iB := j.invIB

	h := data.step.dt

	// Solve angular friction.
	{
		cdot := wB - wA
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
		cdot := SubVV(SubVV(AddVV(vB, CrossSV(wB, j.rB)), vA), CrossSV(wA, j.rA))

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

func (j *FrictionJoint) SolvePositionConstraints(data *solverData) bool {
	return true
}
