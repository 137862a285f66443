package planar

// GearJointDef requires two existing revolute or prismatic joints (any
// combination will work).
type GearJointDef struct {
	BaseJointDef

	// The first revolute/prismatic joint attached to the gear joint.
	Joint1 Joint

	// The second revolute/prismatic joint attached to the gear joint.
	Joint2 Joint

	// The gear ratio. See GearJoint for an explanation.
	Ratio float64
}

func MakeGearJointDef() GearJointDef {
	res := GearJointDef{}
	res.Type = GearJointType
	res.Ratio = 1.0
	return res
}

// GearJoint connects two joints together. Either joint can be a revolute or
// prismatic joint. You specify a gear ratio to bind the motions together:
//
//	coordinate1 + ratio * coordinate2 = constant
//
// The ratio can be negative or positive. If one joint is a revolute joint
// and the other joint is a prismatic joint, then the ratio will have units
// of length or units of 1/length.
//
// You have to manually destroy the gear joint if joint1 or joint2 is
// destroyed.
//
// Gear joint:
// C0 = (coordinate1 + ratio * coordinate2)_initial
// C = (coordinate1 + ratio * coordinate2) - C0 = 0
// J = [J1 ratio * J2]
// K = J * invM * JT
//   = J1 * invM1 * J1T + ratio * ratio * J2 * invM2 * J2T
//
// Revolute:
// coordinate = rotation
// Cdot = angularVelocity
// J = [0 0 1]
// K = J * invM * JT = invI
//
// Prismatic:
// coordinate = dot(p - pg, ug)
// Cdot = dot(v + cross(w, r), ug)
// J = [ug cross(r, ug)]
// K = J * invM * JT = invMass + invI * cross(r, ug)^2
type GearJoint struct {
	joint

	joint1 Joint
	joint2 Joint

	typeA uint8
	typeB uint8

	// Body A is connected to body C.
	// Body B is connected to body D.
	bodyC *Body
	bodyD *Body

	// Solver shared
	localAnchorA Vec2
	localAnchorB Vec2
	localAnchorC Vec2
	localAnchorD Vec2

	localAxisC Vec2
	localAxisD Vec2

	referenceAngleA float64
	referenceAngleB float64

	constant float64
	ratio    float64

	impulse float64

	// Solver temp
	indexA, indexB, indexC, indexD int
	lcA, lcB, lcC, lcD             Vec2
	mA, mB, mC, mD                 float64
	iA, iB, iC, iD                 float64
	jvAC, jvBD                     Vec2
	jwA, jwB, jwC, jwD             float64
	mass                           float64
}

func newGearJoint(def *GearJointDef) *GearJoint {
	res := &GearJoint{
		joint: makeJoint(def),
	}

	res.joint1 = def.Joint1
	res.joint2 = def.Joint2

	res.typeA = res.joint1.GetType()
	res.typeB = res.joint2.GetType()

	assert(res.typeA == RevoluteJointType || res.typeA == PrismaticJointType)
	assert(res.typeB == RevoluteJointType || res.typeB == PrismaticJointType)

	var coordinateA, coordinateB float64

	res.bodyC = res.joint1.GetBodyA()
	res.bodyA = res.joint1.GetBodyB()

	// Get geometry of joint1.
	xfA := res.bodyA.xf
	aA := res.bodyA.sweep.A
	xfC := res.bodyC.xf
	aC := res.bodyC.sweep.A

	if res.typeA == RevoluteJointType {
		revolute := def.Joint1.(*RevoluteJoint)
		res.localAnchorC = revolute.localAnchorA
		res.localAnchorA = revolute.localAnchorB
		res.referenceAngleA = revolute.referenceAngle
		res.localAxisC = Vec2{}

		coordinateA = aA - aC - res.referenceAngleA
	} else {
		prismatic := def.Joint1.(*PrismaticJoint)
		res.localAnchorC = prismatic.localAnchorA
		res.localAnchorA = prismatic.localAnchorB
		res.referenceAngleA = prismatic.referenceAngle
		res.localAxisC = prismatic.localXAxisA

		pC := res.localAnchorC
		pA := MulTRV(xfC.Q, AddVV(MulRV(xfA.Q, res.localAnchorA), SubVV(xfA.P, xfC.P)))
		coordinateA = DotVV(SubVV(pA, pC), res.localAxisC)
	}

	res.bodyD = res.joint2.GetBodyA()
	res.bodyB = res.joint2.GetBodyB()

	// Get geometry of joint2.
	xfB := res.bodyB.xf
	aB := res.bodyB.sweep.A
	xfD := res.bodyD.xf
	aD := res.bodyD.sweep.A

	if res.typeB == RevoluteJointType {
		revolute := def.Joint2.(*RevoluteJoint)
		res.localAnchorD = revolute.localAnchorA
		res.localAnchorB = revolute.localAnchorB
		res.referenceAngleB = revolute.referenceAngle
		res.localAxisD = Vec2{}

		coordinateB = aB - aD - res.referenceAngleB
	} else {
		prismatic := def.Joint2.(*PrismaticJoint)
		res.localAnchorD = prismatic.localAnchorA
		res.localAnchorB = prismatic.localAnchorB
		res.referenceAngleB = prismatic.referenceAngle
		res.localAxisD = prismatic.localXAxisA

		pD := res.localAnchorD
		pB := MulTRV(xfD.Q, AddVV(MulRV(xfB.Q, res.localAnchorB), SubVV(xfB.P, xfD.P)))
		coordinateB = DotVV(SubVV(pB, pD), res.localAxisD)
	}

	res.ratio = def.Ratio

	res.constant = coordinateA + res.ratio*coordinateB

	return res
}

// GetJoint1 returns the first joint.
func (j *GearJoint) GetJoint1() Joint {
	return j.joint1
}

// GetJoint2 returns the second joint.
func (j *GearJoint) GetJoint2() Joint {
	return j.joint2
}

func (j *GearJoint) SetRatio(ratio float64) {
	assert(IsValidFloat(ratio))
	j.ratio = ratio
}

func (j *GearJoint) GetRatio() float64 {
	return j.ratio
}

func (j *GearJoint) GetAnchorA() Vec2 {
	return j.bodyA.GetWorldPoint(j.localAnchorA)
}

func (j *GearJoint) GetAnchorB() Vec2 {
	return j.bodyB.GetWorldPoint(j.localAnchorB)
}

func (j *GearJoint) GetReactionForce(invDt float64) Vec2 {
	return MulSV(invDt, MulSV(j.impulse, j.jvAC))
}

func (j *GearJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * j.impulse * j.jwA
}

func (j *GearJoint) InitVelocityConstraints(data *solverData) {
	j.indexA = j.bodyA.islandIndex
	j.indexB = j.bodyB.islandIndex
	j.indexC = j.bodyC.islandIndex
	j.indexD = j.bodyD.islandIndex
	j.lcA = j.bodyA.sweep.LocalCenter
	j.lcB = j.bodyB.sweep.LocalCenter
	j.lcC = j.bodyC.sweep.LocalCenter
	j.lcD = j.bodyD.sweep.LocalCenter
	j.mA = j.bodyA.invMass
	j.mB = j.bodyB.invMass
	j.mC = j.bodyC.invMass
	j.mD = j.bodyD.invMass
	j.iA = j.bodyA.invI
	j.iB = j.bodyB.invI
	j.iC = j.bodyC.invI
	j.iD = j.bodyD.invI

	aA := data.positions[j.indexA].a
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w

	aB := data.positions[j.indexB].a
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	aC := data.positions[j.indexC].a
	vC := data.velocities[j.indexC].v
	wC := data.velocities[j.indexC].w

	aD := data.positions[j.indexD].a
	vD := data.velocities[j.indexD].v
	wD := data.velocities[j.indexD].w

	qA := MakeRot(aA)
	qB := MakeRot(aB)
	qC := MakeRot(aC)
	qD := MakeRot(aD)

	j.mass = 0.0

	if j.typeA == RevoluteJointType {
		j.jvAC = Vec2{}
		j.jwA = 1.0
		j.jwC = 1.0
		j.mass += j.iA + j.iC
	} else {
		u := MulRV(qC, j.localAxisC)
		rC := MulRV(qC, SubVV(j.localAnchorC, j.lcC))
		rA := MulRV(qA, SubVV(j.localAnchorA, j.lcA))
		j.jvAC = u
		j.jwC = CrossVV(rC, u)
		j.jwA = CrossVV(rA, u)
		j.mass += j.mC + j.mA + j.iC*j.jwC*j.jwC + j.iA*j.jwA*j.jwA
	}

	if j.typeB == RevoluteJointType {
		j.jvBD = Vec2{}
		j.jwB = j.ratio
		j.jwD = j.ratio
		j.mass += j.ratio * j.ratio * (j.iB + j.iD)
	} else {
		u := MulRV(qD, j.localAxisD)
		rD := MulRV(qD, SubVV(j.localAnchorD, j.lcD))
		rB := MulRV(qB, SubVV(j.localAnchorB, j.lcB))
		j.jvBD = MulSV(j.ratio, u)
		j.jwD = j.ratio * CrossVV(rD, u)
		j.jwB = j.ratio * CrossVV(rB, u)
		j.mass += j.ratio*j.ratio*(j.mD+j.mB) + j.iD*j.jwD*j.jwD + j.iB*j.jwB*j.jwB
	}

	// Compute effective mass.
	if j.mass > 0.0 {
		j.mass = 1.0 / j.mass
	} else {
		j.mass = 0.0
	}

	if data.step.warmStarting {
		MulAddTo(&vA, j.mA*j.impulse, j.jvAC)
		wA += j.iA * j.impulse * j.jwA
		MulAddTo(&vB, j.mB*j.impulse, j.jvBD)
		wB += j.iB * j.impulse * j.jwB
		MulSubTo(&vC, j.mC*j.impulse, j.jvAC)
		wC -= j.iC * j.impulse * j.jwC
		MulSubTo(&vD, j.mD*j.impulse, j.jvBD)
		wD -= j.iD * j.impulse * j.jwD
	} else {
		j.impulse = 0.0
	}

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
	data.velocities[j.indexC].v = vC
	data.velocities[j.indexC].w = wC
	data.velocities[j.indexD].v = vD
	data.velocities[j.indexD].w = wD
}

func (j *GearJoint) SolveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w
	vC := data.velocities[j.indexC].v
	wC := data.velocities[j.indexC].w
	vD := data.velocities[j.indexD].v
	wD := data.velocities[j.indexD].w

	cdot := DotVV(j.jvAC, SubVV(vA, vC)) + DotVV(j.jvBD, SubVV(vB, vD))
	cdot += (j.jwA*wA - j.jwC*wC) + (j.jwB*wB - j.jwD*wD)

	impulse := -j.mass * cdot
	j.impulse += impulse

	MulAddTo(&vA, j.mA*impulse, j.jvAC)
	wA += j.iA * impulse * j.jwA
	MulAddTo(&vB, j.mB*impulse, j.jvBD)
	wB += j.iB * impulse * j.jwB
	MulSubTo(&vC, j.mC*impulse, j.jvAC)
	wC -= j.iC * impulse * j.jwC
	MulSubTo(&vD, j.mD*impulse, j.jvBD)
	wD -= j.iD * impulse * j.jwD

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
	data.velocities[j.indexC].v = vC
	data.velocities[j.indexC].w = wC
	data.velocities[j.indexD].v = vD
	data.velocities[j.indexD].w = wD
}

func (j *GearJoint) SolvePositionConstraints(data *solverData) bool {
	cA := data.positions[j.indexA].c
	aA := data.positions[j.indexA].a
	cB := data.positions[j.indexB].c
	aB := data.positions[j.indexB].a
	cC := data.positions[j.indexC].c
	aC := data.positions[j.indexC].a
	cD := data.positions[j.indexD].c
	aD := data.positions[j.indexD].a

	qA := MakeRot(aA)
	qB := MakeRot(aB)
	qC := MakeRot(aC)
	qD := MakeRot(aD)

	linearError := 0.0

	var coordinateA, coordinateB float64

	var jvAC, jvBD Vec2
	var jwA, jwB, jwC, jwD float64
	mass := 0.0

	if j.typeA == RevoluteJointType {
		jvAC = Vec2{}
		jwA = 1.0
		jwC = 1.0
		mass += j.iA + j.iC

		coordinateA = aA - aC - j.referenceAngleA
	} else {
		u := MulRV(qC, j.localAxisC)
		rC := MulRV(qC, SubVV(j.localAnchorC, j.lcC))
		rA := MulRV(qA, SubVV(j.localAnchorA, j.lcA))
		jvAC = u
		jwC = CrossVV(rC, u)
		jwA = CrossVV(rA, u)
		mass += j.mC + j.mA + j.iC*jwC*jwC + j.iA*jwA*jwA

		pC := SubVV(j.localAnchorC, j.lcC)
		pA := MulTRV(qC, AddVV(rA, SubVV(cA, cC)))
		coordinateA = DotVV(SubVV(pA, pC), j.localAxisC)
	}

	if j.typeB == RevoluteJointType {
		jvBD = Vec2{}
		jwB = j.ratio
		jwD = j.ratio
		mass += j.ratio * j.ratio * (j.iB + j.iD)

		coordinateB = aB - aD - j.referenceAngleB
	} else {
		u := MulRV(qD, j.localAxisD)
		rD := MulRV(qD, SubVV(j.localAnchorD, j.lcD))
		rB := MulRV(qB, SubVV(j.localAnchorB, j.lcB))
		jvBD = MulSV(j.ratio, u)
		jwD = j.ratio * CrossVV(rD, u)
		jwB = j.ratio * CrossVV(rB, u)
		mass += j.ratio*j.ratio*(j.mD+j.mB) + j.iD*jwD*jwD + j.iB*jwB*jwB

		pD := SubVV(j.localAnchorD, j.lcD)
		pB := MulTRV(qD, AddVV(rB, SubVV(cB, cD)))
		coordinateB = DotVV(SubVV(pB, pD), j.localAxisD)
	}

	c := (coordinateA + j.ratio*coordinateB) - j.constant

	impulse := 0.0
	if mass > 0.0 {
		impulse = -c / mass
	}

	MulAddTo(&cA, j.mA*impulse, jvAC)
	aA += j.iA * impulse * jwA
	MulAddTo(&cB, j.mB*impulse, jvBD)
	aB += j.iB * impulse * jwB
	MulSubTo(&cC, j.mC*impulse, jvAC)
	aC -= j.iC * impulse * jwC
	MulSubTo(&cD, j.mD*impulse, jvBD)
	aD -= j.iD * impulse * jwD

	data.positions[j.indexA].c = cA
	data.positions[j.indexA].a = aA
	data.positions[j.indexB].c = cB
	data.positions[j.indexB].a = aB
	data.positions[j.indexC].c = cC
	data.positions[j.indexC].a = aC
	data.positions[j.indexD].c = cD
	data.positions[j.indexD].a = aD

	// The gear C-equation has no direct positional error metric.
	return linearError < LinearSlop
}
