package planar

import (
	"math"
)

// WheelJointDef requires defining a line of motion using an axis and an
// anchor point. The definition uses local anchor points and a local axis so
// that the initial configuration can violate the constraint slightly. The
// joint translation is zero when the local anchor points coincide in world
// space.
type WheelJointDef struct {
	BaseJointDef

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The local translation axis in body A.
	LocalAxisA Vec2

	// Enable/disable the joint motor.
	EnableMotor bool

	// The maximum motor torque, usually in N-m.
	MaxMotorTorque float64

	// The desired motor speed in radians per second.
	MotorSpeed float64

	// Suspension frequency, zero indicates no suspension.
	FrequencyHz float64

	// Suspension damping ratio, one indicates critical damping.
	DampingRatio float64
}

func MakeWheelJointDef() WheelJointDef {
	res := WheelJointDef{}
	res.Type = WheelJointType
	res.LocalAxisA = Vec2{1.0, 0.0}
	res.FrequencyHz = 2.0
	res.DampingRatio = 0.7
	return res
}

// Initialize sets the bodies, anchors, and axis using a
// world anchor and a world axis.
func (def *WheelJointDef) Initialize(bodyA, bodyB *Body, anchor, axis Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = def.BodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = def.BodyB.GetLocalPoint(anchor)
	def.LocalAxisA = def.BodyA.GetLocalVector(axis)
}

// WheelJoint provides two degrees of freedom: translation along an axis
// fixed in body A and rotation in the plane. In other words, it is a point
// to line constraint with a rotational motor and a linear spring/damper.
// This joint is designed for vehicle suspensions.
//
// Linear constraint (point-to-line)
// d = pB - pA = xB + rB - xA - rA
// C = dot(ay, d)
// Cdot = dot(d, cross(wA, ay)) + dot(ay, vB + cross(wB, rB) - vA - cross(wA, rA))
//      = -dot(ay, vA) - dot(cross(d + rA, ay), wA) + dot(ay, vB) + dot(cross(rB, ay), vB)
// J = [-ay, -cross(d + rA, ay), ay, cross(rB, ay)]
//
// Spring linear constraint
// C = dot(ax, d)
// Cdot = -dot(ax, vA) - dot(cross(d + rA, ax), wA) + dot(ax, vB) + dot(cross(rB, ax), vB)
// J = [-ax -cross(d+rA, ax) ax cross(rB, ax)]
//
// Motor rotational constraint
// Cdot = wB - wA
// J = [0 0 -1 0 0 1]
type WheelJoint struct {
	joint

	frequencyHz  float64
	dampingRatio float64

	// Solver shared
	localAnchorA Vec2
	localAnchorB Vec2
	localXAxisA  Vec2
	localYAxisA  Vec2

	impulse       float64
	motorImpulse  float64
	springImpulse float64

	maxMotorTorque float64
	motorSpeed     float64
	enableMotor    bool

	// Solver temp
	indexA       int
	indexB       int
	localCenterA Vec2
	localCenterB Vec2
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64

	ax, ay   Vec2
	sAx, sBx float64
	sAy, sBy float64

	mass       float64
	motorMass  float64
	springMass float64

	bias  float64
	gamma float64
}

func newWheelJoint(def *WheelJointDef) *WheelJoint {
	res := &WheelJoint{
		joint: makeJoint(def),
	}

	res.localAnchorA = def.LocalAnchorA
	res.localAnchorB = def.LocalAnchorB
	res.localXAxisA = def.LocalAxisA
	res.localYAxisA = CrossSV(1.0, res.localXAxisA)

	res.maxMotorTorque = def.MaxMotorTorque
	res.motorSpeed = def.MotorSpeed
	res.enableMotor = def.EnableMotor

	res.frequencyHz = def.FrequencyHz
	res.dampingRatio = def.DampingRatio

	return res
}

// GetLocalAnchorA returns the local anchor point relative to body A's
// origin.
func (j *WheelJoint) GetLocalAnchorA() Vec2 {
	return j.localAnchorA
}

// GetLocalAnchorB returns the local anchor point relative to body B's
// origin.
func (j *WheelJoint) GetLocalAnchorB() Vec2 {
	return j.localAnchorB
}

// GetLocalAxisA returns the local joint axis relative to body A.
func (j *WheelJoint) GetLocalAxisA() Vec2 {
	return j.localXAxisA
}

func (j *WheelJoint) GetMotorSpeed() float64 {
	return j.motorSpeed
}

func (j *WheelJoint) GetMaxMotorTorque() float64 {
	return j.maxMotorTorque
}

func (j *WheelJoint) SetSpringFrequencyHz(hz float64) {
	j.frequencyHz = hz
}

func (j *WheelJoint) GetSpringFrequencyHz() float64 {
	return j.frequencyHz
}

func (j *WheelJoint) SetSpringDampingRatio(ratio float64) {
	j.dampingRatio = ratio
}

func (j *WheelJoint) GetSpringDampingRatio() float64 {
	return j.dampingRatio
}

// GetJointTranslation returns the current joint translation, usually in
// meters.
func (j *WheelJoint) GetJointTranslation() float64 {
	bA := j.bodyA
	bB := j.bodyB

	pA := bA.GetWorldPoint(j.localAnchorA)
	pB := bB.GetWorldPoint(j.localAnchorB)
	d := SubVV(pB, pA)
	axis := bA.GetWorldVector(j.localXAxisA)

	return DotVV(d, axis)
}

// GetJointLinearSpeed returns the current joint translation speed, usually
// in meters per second.
func (j *WheelJoint) GetJointLinearSpeed() float64 {
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

// GetJointAngle returns the current joint angle in radians.
func (j *WheelJoint) GetJointAngle() float64 {
	return j.bodyB.sweep.A - j.bodyA.sweep.A
}

// GetJointAngularSpeed returns the current joint angular speed in radians
// per second.
func (j *WheelJoint) GetJointAngularSpeed() float64 {
	return j.bodyB.angularVelocity - j.bodyA.angularVelocity
}

func (j *WheelJoint) IsMotorEnabled() bool {
	return j.enableMotor
}

func (j *WheelJoint) EnableMotor(flag bool) {
	if flag != j.enableMotor {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.enableMotor = flag
	}
}

func (j *WheelJoint) SetMotorSpeed(speed float64) {
	if speed != j.motorSpeed {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.motorSpeed = speed
	}
}

func (j *WheelJoint) SetMaxMotorTorque(torque float64) {
	if torque != j.maxMotorTorque {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.maxMotorTorque = torque
	}
}

// GetMotorTorque returns the current motor torque given the inverse time
// step.
func (j *WheelJoint) GetMotorTorque(invDt float64) float64 {
	return invDt * j.motorImpulse
}

func (j *WheelJoint) GetAnchorA() Vec2 {
	return j.bodyA.GetWorldPoint(j.localAnchorA)
}

func (j *WheelJoint) GetAnchorB() Vec2 {
	return j.bodyB.GetWorldPoint(j.localAnchorB)
}

func (j *WheelJoint) GetReactionForce(invDt float64) Vec2 {
	return MulSV(invDt, AddVV(MulSV(j.impulse, j.ay), MulSV(j.springImpulse, j.ax)))
}

func (j *WheelJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * j.motorImpulse
}

func (j *WheelJoint) InitVelocityConstraints(data *solverData) {
	j.indexA = j.bodyA.islandIndex
	j.indexB = j.bodyB.islandIndex
	j.localCenterA = j.bodyA.sweep.LocalCenter
	j.localCenterB = j.bodyB.sweep.LocalCenter
	j.invMassA = j.bodyA.invMass
	j.invMassB = j.bodyB.invMass
	j.invIA = j.bodyA.invI
	j.invIB = j.bodyB.invI

	mA := j.invMassA
	mB := j.invMassB
	iA := j.invIA
	iB := j.invIB

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
	d := SubVV(SubVV(AddVV(cB, rB), cA), rA)

	// Point to line constraint.
	{
		j.ay = MulRV(qA, j.localYAxisA)
		j.sAy = CrossVV(AddVV(d, rA), j.ay)
		j.sBy = CrossVV(rB, j.ay)

		j.mass = mA + mB + iA*j.sAy*j.sAy + iB*j.sBy*j.sBy

		if j.mass > 0.0 {
			j.mass = 1.0 / j.mass
		}
	}

	// Spring constraint.
	j.springMass = 0.0
	j.bias = 0.0
	j.gamma = 0.0
	if j.frequencyHz > 0.0 {
		j.ax = MulRV(qA, j.localXAxisA)
		j.sAx = CrossVV(AddVV(d, rA), j.ax)
		j.sBx = CrossVV(rB, j.ax)

		invMass := mA + mB + iA*j.sAx*j.sAx + iB*j.sBx*j.sBx

		if invMass > 0.0 {
			j.springMass = 1.0 / invMass

			c := DotVV(d, j.ax)

			// Frequency
			omega := 2.0 * pi * j.frequencyHz

			// Damping coefficient
			damp := 2.0 * j.springMass * j.dampingRatio * omega

			// Spring stiffness
			k := j.springMass * omega * omega

			// magic formulas
			h := data.step.dt
			j.gamma = h * (damp + h*k)
			if j.gamma > 0.0 {
				j.gamma = 1.0 / j.gamma
			}

			j.bias = c * h * k * j.gamma

			j.springMass = invMass + j.gamma
			if j.springMass > 0.0 {
				j.springMass = 1.0 / j.springMass
			}
		}
	} else {
		j.springImpulse = 0.0
	}

	// Rotational motor.
	if j.enableMotor {
		j.motorMass = iA + iB
		if j.motorMass > 0.0 {
			j.motorMass = 1.0 / j.motorMass
		}
	} else {
		j.motorMass = 0.0
		j.motorImpulse = 0.0
	}

	if data.step.warmStarting {
		// Account for variable time step.
		j.impulse *= data.step.dtRatio
		j.springImpulse *= data.step.dtRatio
		j.motorImpulse *= data.step.dtRatio

		p := AddVV(MulSV(j.impulse, j.ay), MulSV(j.springImpulse, j.ax))
		lA := j.impulse*j.sAy + j.springImpulse*j.sAx + j.motorImpulse
		lB := j.impulse*j.sBy + j.springImpulse*j.sBx + j.motorImpulse

		MulSubTo(&vA, j.invMassA, p)
		wA -= j.invIA * lA

		MulAddTo(&vB, j.invMassB, p)
		wB += j.invIB * lB
	} else {
		j.impulse = 0.0
		j.springImpulse = 0.0
		j.motorImpulse = 0.0
	}

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *WheelJoint) SolveVelocityConstraints(data *solverData) {
	mA := j.invMassA
	mB := j.invMassB
	iA := j.invIA
	iB := j.invIB

	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	// Solve spring constraint.
	{
		cdot := DotVV(j.ax, SubVV(vB, vA)) + j.sBx*wB - j.sAx*wA
		impulse := -j.springMass * (cdot + j.bias + j.gamma*j.springImpulse)
		j.springImpulse += impulse

		p := MulSV(impulse, j.ax)
		lA := impulse * j.sAx
		lB := impulse * j.sBx

		MulSubTo(&vA, mA, p)
		wA -= iA * lA

		MulAddTo(&vB, mB, p)
		wB += iB * lB
	}

	// Solve rotational motor constraint.
	{
		cdot := wB - wA - j.motorSpeed
		impulse := -j.motorMass * cdot

		oldImpulse := j.motorImpulse
		maxImpulse := data.step.dt * j.maxMotorTorque
		j.motorImpulse = clampFloat(j.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve point to line constraint.
	{
		cdot := DotVV(j.ay, SubVV(vB, vA)) + j.sBy*wB - j.sAy*wA
		impulse := -j.mass * cdot
		j.impulse += impulse

		p := MulSV(impulse, j.ay)
		lA := impulse * j.sAy
		lB := impulse * j.sBy

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

func (j *WheelJoint) SolvePositionConstraints(data *solverData) bool {
	cA := data.positions[j.indexA].c
	aA := data.positions[j.indexA].a
	cB := data.positions[j.indexB].c
	aB := data.positions[j.indexB].a

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	rA := MulRV(qA, SubVV(j.localAnchorA, j.localCenterA))
	rB := MulRV(qB, SubVV(j.localAnchorB, j.localCenterB))
	d := SubVV(AddVV(SubVV(cB, cA), rB), rA)

	ay := MulRV(qA, j.localYAxisA)

	sAy := CrossVV(AddVV(d, rA), ay)
	sBy := CrossVV(rB, ay)

	c := DotVV(d, ay)

	k := j.invMassA + j.invMassB + j.invIA*j.sAy*j.sAy + j.invIB*j.sBy*j.sBy

	impulse := 0.0
	if k != 0.0 {
		impulse = -c / k
	}

	p := MulSV(impulse, ay)
	lA := impulse * sAy
	lB := impulse * sBy

	MulSubTo(&cA, j.invMassA, p)
	aA -= j.invIA * lA
	MulAddTo(&cB, j.invMassB, p)
	aB += j.invIB * lB

	data.positions[j.indexA].c = cA
	data.positions[j.indexA].a = aA
	data.positions[j.indexB].c = cB
	data.positions[j.indexB].a = aB

	return math.Abs(c) <= LinearSlop
}
