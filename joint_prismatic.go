package planar

import (
	"math"
)

// PrismaticJointDef requires defining a line of motion using an axis and an
// anchor point. The definition uses local anchor points and a local axis so
// that the initial configuration can violate the constraint slightly. The
// joint translation is zero when the local anchor points coincide in world
// space. Using local anchors and a local axis helps when saving and loading
// a game.
type PrismaticJointDef struct {
	BaseJointDef

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The local translation unit axis in body A.
	LocalAxisA Vec2

	// The constrained angle between the bodies: bodyB_angle - bodyA_angle.
	ReferenceAngle float64

	// Enable/disable the joint limit.
	EnableLimit bool

	// The lower translation limit, usually in meters.
	LowerTranslation float64

	// The upper translation limit, usually in meters.
	UpperTranslation float64

	// Enable/disable the joint motor.
	EnableMotor bool

	// The maximum motor force, usually in N.
	MaxMotorForce float64

	// The desired motor speed in meters per second.
	MotorSpeed float64
}

func MakePrismaticJointDef() PrismaticJointDef {
	res := PrismaticJointDef{}
	res.Type = PrismaticJointType
	res.LocalAxisA = Vec2{1.0, 0.0}
	return res
}

// Initialize sets the bodies, anchors, axis, and reference angle using a
// world anchor and a unit world axis.
func (def *PrismaticJointDef) Initialize(bodyA, bodyB *Body, anchor, axis Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = def.BodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = def.BodyB.GetLocalPoint(anchor)
	def.LocalAxisA = def.BodyA.GetLocalVector(axis)
	def.ReferenceAngle = def.BodyB.GetAngle() - def.BodyA.GetAngle()
}

// PrismaticJoint provides one degree of freedom: translation along an axis
// fixed in body A. Relative rotation is prevented. You can use a joint limit
// to restrict the range of motion and a joint motor to drive the motion or
// to model joint friction.
//
// Linear constraint (point-to-line)
// d = p2 - p1 = x2 + r2 - x1 - r1
// C = dot(perp, d)
// Cdot = dot(d, cross(w1, perp)) + dot(perp, v2 + cross(w2, r2) - v1 - cross(w1, r1))
//      = -dot(perp, v1) - dot(cross(d + r1, perp), w1) + dot(perp, v2) + dot(cross(r2, perp), v2)
// J = [-perp, -cross(d + r1, perp), perp, cross(r2,perp)]
//
// Angular constraint
// C = a2 - a1 + a_initial
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
//
// K = J * invM * JT
//
// J = [-a -s1 a s2]
//     [0  -1  0  1]
// a = perp
// s1 = cross(d + r1, a) = cross(p2 - x1, a)
// s2 = cross(r2, a) = cross(p2 - x2, a)
//
// Motor/Limit linear constraint
// C = dot(ax1, d)
// Cdot = -dot(ax1, v1) - dot(cross(d + r1, ax1), w1) + dot(ax1, v2) + dot(cross(r2, ax1), v2)
// J = [-ax1 -cross(d+r1,ax1) ax1 cross(r2,ax1)]
//
// Block Solver
// We develop a block solver that includes the joint limit. This makes the
// limit stiff (inelastic) even when the mass has poor distribution (leading
// to large torques about the joint anchor points).
//
// The Jacobian has 3 rows:
// J = [-uT -s1 uT s2] // linear
//     [0   -1   0  1] // angular
//     [-vT -a1 vT a2] // limit
//
// u = perp
// v = axis
// s1 = cross(d + r1, u), s2 = cross(r2, u)
// a1 = cross(d + r1, v), a2 = cross(r2, v)
//
// M * (v2 - v1) = JT * df
// J * v2 = bias
//
// v2 = v1 + invM * JT * df
// J * (v1 + invM * JT * df) = bias
// K * df = bias - J * v1 = -Cdot
// K = J * invM * JT
// Cdot = J * v1 - bias
//
// Now solve for f2:
// df = f2 - f1
// K * (f2 - f1) = -Cdot
// f2 = invK * (-Cdot) + f1
//
// Clamp accumulated limit impulse:
// lower: f2(3) = max(f2(3), 0)
// upper: f2(3) = min(f2(3), 0)
//
// Solve for correct f2(1:2):
// K(1:2, 1:2) * f2(1:2) = -Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3)) + K(1:2,1:2) * f1(1:2)
// f2(1:2) = invK(1:2,1:2) * (-Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3))) + f1(1:2)
//
// Now compute impulse to be applied:
// df = f2 - f1
type PrismaticJoint struct {
	joint

	// Solver shared
	localAnchorA     Vec2
	localAnchorB     Vec2
	localXAxisA      Vec2
	localYAxisA      Vec2
	referenceAngle   float64
	impulse          Vec3
	motorImpulse     float64
	lowerTranslation float64
	upperTranslation float64
	maxMotorForce    float64
	motorSpeed       float64
	enableLimit      bool
	enableMotor      bool
	limitState       uint8

	// Solver temp
	indexA       int
	indexB       int
	localCenterA Vec2
	localCenterB Vec2
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64
	axis, perp   Vec2
	s1, s2       float64
	a1, a2       float64
	k            Mat33
	motorMass    float64
}

func newPrismaticJoint(def *PrismaticJointDef) *PrismaticJoint {
	res := &PrismaticJoint{
		joint: makeJoint(def),
	}

	res.localAnchorA = def.LocalAnchorA
	res.localAnchorB = def.LocalAnchorB
	res.localXAxisA, _ = NormalizeV(def.LocalAxisA)
	res.localYAxisA = CrossSV(1.0, res.localXAxisA)
	res.referenceAngle = def.ReferenceAngle

	res.lowerTranslation = def.LowerTranslation
	res.upperTranslation = def.UpperTranslation
	res.maxMotorForce = def.MaxMotorForce
	res.motorSpeed = def.MotorSpeed
	res.enableLimit = def.EnableLimit
	res.enableMotor = def.EnableMotor
	res.limitState = limitStateInactive

	return res
}

// GetLocalAnchorA returns the local anchor point relative to body A's
// origin.
func (j *PrismaticJoint) GetLocalAnchorA() Vec2 {
	return j.localAnchorA
}

// GetLocalAnchorB returns the local anchor point relative to body B's
// origin.
func (j *PrismaticJoint) GetLocalAnchorB() Vec2 {
	return j.localAnchorB
}

// GetLocalAxisA returns the local joint axis relative to body A.
func (j *PrismaticJoint) GetLocalAxisA() Vec2 {
	return j.localXAxisA
}

func (j *PrismaticJoint) GetReferenceAngle() float64 {
	return j.referenceAngle
}

func (j *PrismaticJoint) GetMaxMotorForce() float64 {
	return j.maxMotorForce
}

func (j *PrismaticJoint) GetMotorSpeed() float64 {
	return j.motorSpeed
}

// GetJointTranslation returns the current joint translation, usually in
// meters.
func (j *PrismaticJoint) GetJointTranslation() float64 {
	pA := j.bodyA.GetWorldPoint(j.localAnchorA)
	pB := j.bodyB.GetWorldPoint(j.localAnchorB)
	d := SubVV(pB, pA)
	axis := j.bodyA.GetWorldVector(j.localXAxisA)

	return DotVV(d, axis)
}

// GetJointSpeed returns the current joint translation speed, usually in
// meters per second.
func (j *PrismaticJoint) GetJointSpeed() float64 {
	bA := j.bodyA
	bB := j.bodyB

	rA := MulRV(bA.xf.Q, SubVV(j.localAnchorA, bA.sweep.LocalCenter))
	rB := MulRV(bB.xf.Q, SubVV(j.localAnchorB, bB.sweep.LocalCenter))
	p1 := AddVV(bA.sweep.C, rA)
	p2 := AddVV(bB.sweep.C, rB)
	d := SubVV(p2, p1)
	axis := MulRV(bA.xf.Q, j.localXAxisA)

	vA := bA.linearVelocity
	vB := bB.linearVelocity
	wA := bA.angularVelocity
	wB := bB.angularVelocity

	return DotVV(d, CrossSV(wA, axis)) +
		DotVV(axis, SubVV(SubVV(AddVV(vB, CrossSV(wB, rB)), vA), CrossSV(wA, rA)))
}

func (j *PrismaticJoint) IsLimitEnabled() bool {
	return j.enableLimit
}

func (j *PrismaticJoint) EnableLimit(flag bool) {
	if flag != j.enableLimit {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.enableLimit = flag
		j.impulse[2] = 0.0
	}
}

func (j *PrismaticJoint) GetLowerLimit() float64 {
	return j.lowerTranslation
}

func (j *PrismaticJoint) GetUpperLimit() float64 {
	return j.upperTranslation
}

func (j *PrismaticJoint) SetLimits(lower, upper float64) {
	assert(lower <= upper)
	if lower != j.lowerTranslation || upper != j.upperTranslation {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.lowerTranslation = lower
		j.upperTranslation = upper
		j.impulse[2] = 0.0
	}
}

func (j *PrismaticJoint) IsMotorEnabled() bool {
	return j.enableMotor
}

func (j *PrismaticJoint) EnableMotor(flag bool) {
	if flag != j.enableMotor {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.enableMotor = flag
	}
}

func (j *PrismaticJoint) SetMotorSpeed(speed float64) {
	if speed != j.motorSpeed {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.motorSpeed = speed
	}
}

func (j *PrismaticJoint) SetMaxMotorForce(force float64) {
	if force != j.maxMotorForce {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.maxMotorForce = force
	}
}

// GetMotorForce returns the current motor force given the inverse time step.
func (j *PrismaticJoint) GetMotorForce(invDt float64) float64 {
	return invDt * j.motorImpulse
}

func (j *PrismaticJoint) GetAnchorA() Vec2 {
	return j.bodyA.GetWorldPoint(j.localAnchorA)
}

func (j *PrismaticJoint) GetAnchorB() Vec2 {
	return j.bodyB.GetWorldPoint(j.localAnchorB)
}

func (j *PrismaticJoint) GetReactionForce(invDt float64) Vec2 {
	return MulSV(invDt, AddVV(
		MulSV(j.impulse[0], j.perp),
		MulSV(j.motorImpulse+j.impulse[2], j.axis),
	))
}

func (j *PrismaticJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * j.impulse[1]
}

func (j *PrismaticJoint) InitVelocityConstraints(data *solverData) {
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

	// Compute the effective masses.
	rA := MulRV(qA, SubVV(j.localAnchorA, j.localCenterA))
	rB := MulRV(qB, SubVV(j.localAnchorB, j.localCenterB))
	d := SubVV(AddVV(SubVV(cB, cA), rB), rA)

	mA := j.invMassA
	mB := j.invMassB
	iA := j.invIA
	iB := j.invIB

	// Compute motor Jacobian and effective mass.
	{
		j.axis = MulRV(qA, j.localXAxisA)
		j.a1 = CrossVV(AddVV(d, rA), j.axis)
		j.a2 = CrossVV(rB, j.axis)

		j.motorMass = mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
		if j.motorMass > 0.0 {
			j.motorMass = 1.0 / j.motorMass
		}
	}

	// Prismatic constraint.
	{
		j.perp = MulRV(qA, j.localYAxisA)

		j.s1 = CrossVV(AddVV(d, rA), j.perp)
		j.s2 = CrossVV(rB, j.perp)

		k11 := mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
		k12 := iA*j.s1 + iB*j.s2
		k13 := iA*j.s1*j.a1 + iB*j.s2*j.a2
		k22 := iA + iB
		if k22 == 0.0 {
			// For bodies with fixed rotation.
			k22 = 1.0
		}
		k23 := iA*j.a1 + iB*j.a2
		k33 := mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2

		j.k.Ex = Vec3{k11, k12, k13}
		j.k.Ey = Vec3{k12, k22, k23}
		j.k.Ez = Vec3{k13, k23, k33}
	}

	// Compute motor and limit terms.
	if j.enableLimit {
		jointTranslation := DotVV(j.axis, d)
		if math.Abs(j.upperTranslation-j.lowerTranslation) < 2.0*LinearSlop {
			j.limitState = limitStateEqual
		} else if jointTranslation <= j.lowerTranslation {
			if j.limitState != limitStateAtLower {
				j.limitState = limitStateAtLower
				j.impulse[2] = 0.0
			}
		} else if jointTranslation >= j.upperTranslation {
			if j.limitState != limitStateAtUpper {
				j.limitState = limitStateAtUpper
				j.impulse[2] = 0.0
			}
		} else {
			j.limitState = limitStateInactive
			j.impulse[2] = 0.0
		}
	} else {
		j.limitState = limitStateInactive
		j.impulse[2] = 0.0
	}

	if !j.enableMotor {
		j.motorImpulse = 0.0
	}

	if data.step.warmStarting {
		// Account for variable time step.
		j.impulse = MulSV3(data.step.dtRatio, j.impulse)
		j.motorImpulse *= data.step.dtRatio

		p := AddVV(MulSV(j.impulse[0], j.perp), MulSV(j.motorImpulse+j.impulse[2], j.axis))
		lA := j.impulse[0]*j.s1 + j.impulse[1] + (j.motorImpulse+j.impulse[2])*j.a1
		lB := j.impulse[0]*j.s2 + j.impulse[1] + (j.motorImpulse+j.impulse[2])*j.a2

		MulSubTo(&vA, mA, p)
		wA -= iA * lA

		MulAddTo(&vB, mB, p)
		wB += iB * lB
	} else {
		j.impulse = Vec3{}
		j.motorImpulse = 0.0
	}

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *PrismaticJoint) SolveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	mA := j.invMassA
	mB := j.invMassB
	iA := j.invIA
	iB := j.invIB

	// Solve linear motor constraint.
	if j.enableMotor && j.limitState != limitStateEqual {
		cdot := DotVV(j.axis, SubVV(vB, vA)) + j.a2*wB - j.a1*wA
		impulse := j.motorMass * (j.motorSpeed - cdot)
		oldImpulse := j.motorImpulse
		maxImpulse := data.step.dt * j.maxMotorForce
		j.motorImpulse = clampFloat(j.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - oldImpulse

		p := MulSV(impulse, j.axis)
		lA := impulse * j.a1
		lB := impulse * j.a2

		MulSubTo(&vA, mA, p)
		wA -= iA * lA

		MulAddTo(&vB, mB, p)
		wB += iB * lB
	}

	var cdot1 Vec2
	cdot1[0] = DotVV(j.perp, SubVV(vB, vA)) + j.s2*wB - j.s1*wA
	cdot1[1] = wB - wA

	if j.enableLimit && j.limitState != limitStateInactive {
		// Solve prismatic and limit constraint in block form.
		cdot2 := DotVV(j.axis, SubVV(vB, vA)) + j.a2*wB - j.a1*wA
		cdot := Vec3{cdot1[0], cdot1[1], cdot2}

		f1 := j.impulse
		df := j.k.Solve33(NegV3(cdot))
		j.impulse = AddV3V3(j.impulse, df)

		if j.limitState == limitStateAtLower {
			j.impulse[2] = math.Max(j.impulse[2], 0.0)
		} else if j.limitState == limitStateAtUpper {
			j.impulse[2] = math.Min(j.impulse[2], 0.0)
		}

		// f2(1:2) = invK(1:2,1:2) * (-Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3))) + f1(1:2)
		b := SubVV(NegV(cdot1), MulSV(j.impulse[2]-f1[2], Vec2{j.k.Ez[0], j.k.Ez[1]}))
		f2r := AddVV(j.k.Solve22(b), Vec2{f1[0], f1[1]})
		j.impulse[0] = f2r[0]
		j.impulse[1] = f2r[1]

		df = SubV3V3(j.impulse, f1)

		p := AddVV(MulSV(df[0], j.perp), MulSV(df[2], j.axis))
		lA := df[0]*j.s1 + df[1] + df[2]*j.a1
		lB := df[0]*j.s2 + df[1] + df[2]*j.a2

		MulSubTo(&vA, mA, p)
		wA -= iA * lA

		MulAddTo(&vB, mB, p)
		wB += iB * lB
	} else {
		// Limit is inactive, just solve the prismatic constraint in block
		// form.
		df := j.k.Solve22(NegV(cdot1))
		j.impulse[0] += df[0]
		j.impulse[1] += df[1]

		p := MulSV(df[0], j.perp)
		lA := df[0]*j.s1 + df[1]
		lB := df[0]*j.s2 + df[1]

		MulSubTo(&vA, mA, p)
		wA -= iA * lA

		MulAddTo(&vB, mB, p)
		wB += iB * lB
	}

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

// SolvePositionConstraints: a velocity based solver computes reaction forces
// (impulses) using the velocity constraint solver. Under this context, the
// position solver is not there to resolve forces, only to cope with
// integration error; the pseudo impulses have no physical meaning.
//
// We could take the active state from the velocity solver, but the joint
// might push past the limit when the velocity solver indicates the limit is
// inactive.
func (j *PrismaticJoint) SolvePositionConstraints(data *solverData) bool {
	cA := data.positions[j.indexA].c
	aA := data.positions[j.indexA].a
	cB := data.positions[j.indexB].c
	aB := data.positions[j.indexB].a

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	mA := j.invMassA
	mB := j.invMassB
	iA := j.invIA
	iB := j.invIB

	// Compute fresh Jacobians.
	rA := MulRV(qA, SubVV(j.localAnchorA, j.localCenterA))
	rB := MulRV(qB, SubVV(j.localAnchorB, j.localCenterB))
	d := SubVV(SubVV(AddVV(cB, rB), cA), rA)

	axis := MulRV(qA, j.localXAxisA)
	a1 := CrossVV(AddVV(d, rA), axis)
	a2 := CrossVV(rB, axis)
	perp := MulRV(qA, j.localYAxisA)

	s1 := CrossVV(AddVV(d, rA), perp)
	s2 := CrossVV(rB, perp)

	var impulse Vec3
	var c1 Vec2
	c1[0] = DotVV(perp, d)
	c1[1] = aB - aA - j.referenceAngle

	linearError := math.Abs(c1[0])
	angularError := math.Abs(c1[1])

	active := false
	c2 := 0.0
	if j.enableLimit {
		translation := DotVV(axis, d)
		if math.Abs(j.upperTranslation-j.lowerTranslation) < 2.0*LinearSlop {
			// Prevent large angular corrections.
			c2 = clampFloat(translation, -maxLinearCorrection, maxLinearCorrection)
			linearError = math.Max(linearError, math.Abs(translation))
			active = true
		} else if translation <= j.lowerTranslation {
			// Prevent large linear corrections and allow some slop.
			c2 = clampFloat(translation-j.lowerTranslation+LinearSlop, -maxLinearCorrection, 0.0)
			linearError = math.Max(linearError, j.lowerTranslation-translation)
			active = true
		} else if translation >= j.upperTranslation {
			// Prevent large linear corrections and allow some slop.
			c2 = clampFloat(translation-j.upperTranslation-LinearSlop, 0.0, maxLinearCorrection)
			linearError = math.Max(linearError, translation-j.upperTranslation)
			active = true
		}
	}

	if active {
		k11 := mA + mB + iA*s1*s1 + iB*s2*s2
		k12 := iA*s1 + iB*s2
		k13 := iA*s1*a1 + iB*s2*a2
		k22 := iA + iB
		if k22 == 0.0 {
			// For fixed rotation.
			k22 = 1.0
		}
		k23 := iA*a1 + iB*a2
		k33 := mA + mB + iA*a1*a1 + iB*a2*a2

		var k Mat33
		k.Ex = Vec3{k11, k12, k13}
		k.Ey = Vec3{k12, k22, k23}
		k.Ez = Vec3{k13, k23, k33}

		c := Vec3{c1[0], c1[1], c2}

		impulse = k.Solve33(NegV3(c))
	} else {
		k11 := mA + mB + iA*s1*s1 + iB*s2*s2
		k12 := iA*s1 + iB*s2
		k22 := iA + iB
		if k22 == 0.0 {
			k22 = 1.0
		}

		var k Mat22
		k.Ex = Vec2{k11, k12}
		k.Ey = Vec2{k12, k22}

		impulse1 := k.Solve(NegV(c1))
		impulse[0] = impulse1[0]
		impulse[1] = impulse1[1]
		impulse[2] = 0.0
	}

	p := AddVV(MulSV(impulse[0], perp), MulSV(impulse[2], axis))
	lA := impulse[0]*s1 + impulse[1] + impulse[2]*a1
	lB := impulse[0]*s2 + impulse[1] + impulse[2]*a2

	MulSubTo(&cA, mA, p)
	aA -= iA * lA
	MulAddTo(&cB, mB, p)
	aB += iB * lB

	data.positions[j.indexA].c = cA
	data.positions[j.indexA].a = aA
	data.positions[j.indexB].c = cB
	data.positions[j.indexB].a = aB

	return linearError <= LinearSlop && angularError <= AngularSlop
}
