package planar

import (
	"math"
)

// RevoluteJointDef requires defining an anchor point where the bodies are
// joined. The definition uses local anchor points so that the initial
// configuration can violate the constraint slightly. You also need to
// specify the initial relative angle for joint limits. This helps when
// saving and loading a game.
//
// The local anchor points are measured from the body's origin rather than
// the center of mass because:
//  1. you might not know where the center of mass will be;
//  2. if you add/remove shapes from a body and recompute the mass, the
//     joints will be broken.
type RevoluteJointDef struct {
	BaseJointDef

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The body B angle minus body A angle in the reference state (radians).
	ReferenceAngle float64

	// A flag to enable joint limits.
	EnableLimit bool

	// The lower angle for the joint limit (radians).
	LowerAngle float64

	// The upper angle for the joint limit (radians).
	UpperAngle float64

	// A flag to enable the joint motor.
	EnableMotor bool

	// The desired motor speed, usually in radians per second.
	MotorSpeed float64

	// The maximum motor torque used to achieve the desired motor speed,
	// usually in N-m.
	MaxMotorTorque float64
}

func MakeRevoluteJointDef() RevoluteJointDef {
	res := RevoluteJointDef{}
	res.Type = RevoluteJointType
	return res
}

// Initialize sets the bodies, anchors, and reference angle using a world
// anchor point.
func (def *RevoluteJointDef) Initialize(bodyA, bodyB *Body, anchor Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = def.BodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = def.BodyB.GetLocalPoint(anchor)
	def.ReferenceAngle = def.BodyB.GetAngle() - def.BodyA.GetAngle()
}

// RevoluteJoint constrains two bodies to share a common point while they are
// free to rotate about the point. The relative rotation about the shared
// point is the joint angle. You can limit the relative rotation with a joint
// limit that specifies a lower and upper angle. You can use a motor to drive
// the relative rotation about the shared point. A maximum motor torque is
// provided so that infinite forces are not generated.
//
// Point-to-point constraint
// C = p2 - p1
// Cdot = v2 - v1
//      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
// Identity used:
// w k % (rx i + ry j) = w * (-ry i + rx j)
//
// Motor constraint
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2
type RevoluteJoint struct {
	joint

	// Solver shared
	localAnchorA Vec2
	localAnchorB Vec2
	impulse      Vec3
	motorImpulse float64

	enableMotor    bool
	maxMotorTorque float64
	motorSpeed     float64

	enableLimit    bool
	referenceAngle float64
	lowerAngle     float64
	upperAngle     float64

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
	mass         Mat33   // effective mass for point-to-point constraint
	motorMass    float64 // effective mass for motor/limit angular constraint
	limitState   uint8
}

func newRevoluteJoint(def *RevoluteJointDef) *RevoluteJoint {
	res := &RevoluteJoint{
		joint: makeJoint(def),
	}

	res.localAnchorA = def.LocalAnchorA
	res.localAnchorB = def.LocalAnchorB
	res.referenceAngle = def.ReferenceAngle

	res.lowerAngle = def.LowerAngle
	res.upperAngle = def.UpperAngle
	res.maxMotorTorque = def.MaxMotorTorque
	res.motorSpeed = def.MotorSpeed
	res.enableLimit = def.EnableLimit
	res.enableMotor = def.EnableMotor
	res.limitState = limitStateInactive

	return res
}

// GetLocalAnchorA returns the local anchor point relative to body A's
// origin.
func (j *RevoluteJoint) GetLocalAnchorA() Vec2 {
	return j.localAnchorA
}

// GetLocalAnchorB returns the local anchor point relative to body B's
// origin.
func (j *RevoluteJoint) GetLocalAnchorB() Vec2 {
	return j.localAnchorB
}

// GetReferenceAngle returns the reference angle.
func (j *RevoluteJoint) GetReferenceAngle() float64 {
	return j.referenceAngle
}

func (j *RevoluteJoint) GetMaxMotorTorque() float64 {
	return j.maxMotorTorque
}

func (j *RevoluteJoint) GetMotorSpeed() float64 {
	return j.motorSpeed
}

// GetJointAngle returns the current joint angle in radians.
func (j *RevoluteJoint) GetJointAngle() float64 {
	return j.bodyB.sweep.A - j.bodyA.sweep.A - j.referenceAngle
}

// GetJointSpeed returns the current joint angle speed in radians per second.
func (j *RevoluteJoint) GetJointSpeed() float64 {
	return j.bodyB.angularVelocity - j.bodyA.angularVelocity
}

func (j *RevoluteJoint) IsMotorEnabled() bool {
	return j.enableMotor
}

func (j *RevoluteJoint) EnableMotor(flag bool) {
	if flag != j.enableMotor {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.enableMotor = flag
	}
}

// GetMotorTorque returns the current motor torque given the inverse time
// step.
func (j *RevoluteJoint) GetMotorTorque(invDt float64) float64 {
	return invDt * j.motorImpulse
}

func (j *RevoluteJoint) SetMotorSpeed(speed float64) {
	if speed != j.motorSpeed {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.motorSpeed = speed
	}
}

func (j *RevoluteJoint) SetMaxMotorTorque(torque float64) {
	if torque != j.maxMotorTorque {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.maxMotorTorque = torque
	}
}

func (j *RevoluteJoint) IsLimitEnabled() bool {
	return j.enableLimit
}

func (j *RevoluteJoint) EnableLimit(flag bool) {
	if flag != j.enableLimit {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.enableLimit = flag
		j.impulse[2] = 0.0
	}
}

func (j *RevoluteJoint) GetLowerLimit() float64 {
	return j.lowerAngle
}

func (j *RevoluteJoint) GetUpperLimit() float64 {
	return j.upperAngle
}

func (j *RevoluteJoint) SetLimits(lower, upper float64) {
	assert(lower <= upper)

	if lower != j.lowerAngle || upper != j.upperAngle {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.impulse[2] = 0.0
		j.lowerAngle = lower
		j.upperAngle = upper
	}
}

func (j *RevoluteJoint) GetAnchorA() Vec2 {
	return j.bodyA.GetWorldPoint(j.localAnchorA)
}

func (j *RevoluteJoint) GetAnchorB() Vec2 {
	return j.bodyB.GetWorldPoint(j.localAnchorB)
}

func (j *RevoluteJoint) GetReactionForce(invDt float64) Vec2 {
	return MulSV(invDt, Vec2{j.impulse[0], j.impulse[1]})
}

func (j *RevoluteJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * j.impulse[2]
}

func (j *RevoluteJoint) InitVelocityConstraints(data *solverData) {
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

	j.rA = MulRV(qA, SubVV(j.localAnchorA, j.localCenterA))
	j.rB = MulRV(qB, SubVV(j.localAnchorB, j.localCenterB))

	// J = [-I -r1_skew I r2_skew]
	//     [ 0       -1 0       1]
	// r_skew = [-ry; rx]
	//
	// K = [ mA+r1y^2*iA+mB+r2y^2*iB,  -r1y*iA*r1x-r2y*iB*r2x,          -r1y*iA-r2y*iB]
	//     [  -r1y*iA*r1x-r2y*iB*r2x, mA+r1x^2*iA+mB+r2x^2*iB,           r1x*iA+r2x*iB]
	//     [          -r1y*iA-r2y*iB,           r1x*iA+r2x*iB,                   iA+iB]

	mA := j.invMassA
	mB := j.invMassB
	iA := j.invIA
	iB := j.invIB

	fixedRotation := iA+iB == 0.0

	j.mass.Ex[0] = mA + mB + j.rA[1]*j.rA[1]*iA + j.rB[1]*j.rB[1]*iB
	j.mass.Ey[0] = -j.rA[1]*j.rA[0]*iA - j.rB[1]*j.rB[0]*iB
	j.mass.Ez[0] = -j.rA[1]*iA - j.rB[1]*iB
	j.mass.Ex[1] = j.mass.Ey[0]
	j.mass.Ey[1] = mA + mB + j.rA[0]*j.rA[0]*iA + j.rB[0]*j.rB[0]*iB
	j.mass.Ez[1] = j.rA[0]*iA + j.rB[0]*iB
	j.mass.Ex[2] = j.mass.Ez[0]
	j.mass.Ey[2] = j.mass.Ez[1]
	j.mass.Ez[2] = iA + iB

	j.motorMass = iA + iB
	if j.motorMass > 0.0 {
		j.motorMass = 1.0 / j.motorMass
	}

	if !j.enableMotor || fixedRotation {
		j.motorImpulse = 0.0
	}

	if j.enableLimit && !fixedRotation {
		jointAngle := aB - aA - j.referenceAngle
		if math.Abs(j.upperAngle-j.lowerAngle) < 2.0*AngularSlop {
			j.limitState = limitStateEqual
		} else if jointAngle <= j.lowerAngle {
			if j.limitState != limitStateAtLower {
				j.impulse[2] = 0.0
			}
			j.limitState = limitStateAtLower
		} else if jointAngle >= j.upperAngle {
			if j.limitState != limitStateAtUpper {
				j.impulse[2] = 0.0
			}
			j.limitState = limitStateAtUpper
		} else {
			j.limitState = limitStateInactive
			j.impulse[2] = 0.0
		}
	} else {
		j.limitState = limitStateInactive
	}

	if data.step.warmStarting {
		// Scale impulses to support a variable time step.
		j.impulse = MulSV3(data.step.dtRatio, j.impulse)
		j.motorImpulse *= data.step.dtRatio

		p := Vec2{j.impulse[0], j.impulse[1]}

		MulSubTo(&vA, mA, p)
		wA -= iA * (CrossVV(j.rA, p) + j.motorImpulse + j.impulse[2])

		MulAddTo(&vB, mB, p)
		wB += iB * (CrossVV(j.rB, p) + j.motorImpulse + j.impulse[2])
	} else {
		j.impulse = Vec3{}
		j.motorImpulse = 0.0
	}

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *RevoluteJoint) SolveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	mA := j.invMassA
	mB := j.invMassB
	iA := j.invIA
	iB := j.invIB

	fixedRotation := iA+iB == 0.0

	// Solve motor constraint.
	if j.enableMotor && j.limitState != limitStateEqual && !fixedRotation {
		cdot := wB - wA - j.motorSpeed
		impulse := -j.motorMass * cdot
		oldImpulse := j.motorImpulse
		maxImpulse := data.step.dt * j.maxMotorTorque
		j.motorImpulse = clampFloat(j.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve limit constraint.
	if j.enableLimit && j.limitState != limitStateInactive && !fixedRotation {
		cdot1 := SubVV(SubVV(AddVV(vB, CrossSV(wB, j.rB)), vA), CrossSV(wA, j.rA))
		cdot2 := wB - wA
		cdot := Vec3{cdot1[0], cdot1[1], cdot2}

		impulse := NegV3(j.mass.Solve33(cdot))

		if j.limitState == limitStateEqual {
			j.impulse = AddV3V3(j.impulse, impulse)
		} else if j.limitState == limitStateAtLower {
			newImpulse := j.impulse[2] + impulse[2]
			if newImpulse < 0.0 {
				rhs := AddVV(NegV(cdot1), MulSV(j.impulse[2], Vec2{j.mass.Ez[0], j.mass.Ez[1]}))
				reduced := j.mass.Solve22(rhs)
				impulse[0] = reduced[0]
				impulse[1] = reduced[1]
				impulse[2] = -j.impulse[2]
				j.impulse[0] += reduced[0]
				j.impulse[1] += reduced[1]
				j.impulse[2] = 0.0
			} else {
				j.impulse = AddV3V3(j.impulse, impulse)
			}
		} else if j.limitState == limitStateAtUpper {
			newImpulse := j.impulse[2] + impulse[2]
			if newImpulse > 0.0 {
				rhs := AddVV(NegV(cdot1), MulSV(j.impulse[2], Vec2{j.mass.Ez[0], j.mass.Ez[1]}))
				reduced := j.mass.Solve22(rhs)
				impulse[0] = reduced[0]
				impulse[1] = reduced[1]
				impulse[2] = -j.impulse[2]
				j.impulse[0] += reduced[0]
				j.impulse[1] += reduced[1]
				j.impulse[2] = 0.0
			} else {
				j.impulse = AddV3V3(j.impulse, impulse)
			}
		}

		p := Vec2{impulse[0], impulse[1]}

		MulSubTo(&vA, mA, p)
		wA -= iA * (CrossVV(j.rA, p) + impulse[2])

		MulAddTo(&vB, mB, p)
		wB += iB * (CrossVV(j.rB, p) + impulse[2])
	} else {
		// Solve point-to-point constraint.
		cdot := SubVV(SubVV(AddVV(vB, CrossSV(wB, j.rB)), vA), CrossSV(wA, j.rA))
		impulse := j.mass.Solve22(NegV(cdot))

		j.impulse[0] += impulse[0]
		j.impulse[1] += impulse[1]

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

func (j *RevoluteJoint) SolvePositionConstraints(data *solverData) bool {
	cA := data.positions[j.indexA].c
	aA := data.positions[j.indexA].a
	cB := data.positions[j.indexB].c
	aB := data.positions[j.indexB].a

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	angularError := 0.0
	positionError := 0.0

	fixedRotation := j.invIA+j.invIB == 0.0

	// Solve angular limit constraint.
	if j.enableLimit && j.limitState != limitStateInactive && !fixedRotation {
		angle := aB - aA - j.referenceAngle
		limitImpulse := 0.0

		if j.limitState == limitStateEqual {
			// Prevent large angular corrections.
			c := clampFloat(angle-j.lowerAngle, -maxAngularCorrection, maxAngularCorrection)
			limitImpulse = -j.motorMass * c
			angularError = math.Abs(c)
		} else if j.limitState == limitStateAtLower {
			c := angle - j.lowerAngle
			angularError = -c

			// Prevent large angular corrections and allow some slop.
			c = clampFloat(c+AngularSlop, -maxAngularCorrection, 0.0)
			limitImpulse = -j.motorMass * c
		} else if j.limitState == limitStateAtUpper {
			c := angle - j.upperAngle
			angularError = c

			// Prevent large angular corrections and allow some slop.
			c = clampFloat(c-AngularSlop, 0.0, maxAngularCorrection)
			limitImpulse = -j.motorMass * c
		}

		aA -= j.invIA * limitImpulse
		aB += j.invIB * limitImpulse
	}

	// Solve point-to-point constraint.
	{
		qA.Set(aA)
		qB.Set(aB)
		rA := MulRV(qA, SubVV(j.localAnchorA, j.localCenterA))
		rB := MulRV(qB, SubVV(j.localAnchorB, j.localCenterB))

		c := SubVV(SubVV(AddVV(cB, rB), cA), rA)
		positionError = LengthV(c)

		mA := j.invMassA
		mB := j.invMassB
		iA := j.invIA
		iB := j.invIB

		var k Mat22
		k.Ex[0] = mA + mB + iA*rA[1]*rA[1] + iB*rB[1]*rB[1]
		k.Ex[1] = -iA*rA[0]*rA[1] - iB*rB[0]*rB[1]
		k.Ey[0] = k.Ex[1]
		k.Ey[1] = mA + mB + iA*rA[0]*rA[0] + iB*rB[0]*rB[0]

		impulse := NegV(k.Solve(c))

		MulSubTo(&cA, mA, impulse)
		aA -= iA * CrossVV(rA, impulse)

		MulAddTo(&cB, mB, impulse)
		aB += iB * CrossVV(rB, impulse)
	}

	data.positions[j.indexA].c = cA
	data.positions[j.indexA].a = aA
	data.positions[j.indexB].c = cB
	data.positions[j.indexB].a = aB

	return positionError <= LinearSlop && angularError <= AngularSlop
}
