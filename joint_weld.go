package planar

import (
	"math"
)

// WeldJointDef needs local anchor points where the bodies are attached and
// the relative body angle. The position of the anchor points is important
// for computing the reaction torque.
type WeldJointDef struct {
	BaseJointDef

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The body B angle minus body A angle in the reference state (radians).
	ReferenceAngle float64

	// The mass-spring-damper frequency in Hertz. Rotation only. Disable
	// softness with a value of 0.
	FrequencyHz float64

	// The damping ratio. 0 = no damping, 1 = critical damping.
	DampingRatio float64
}

func MakeWeldJointDef() WeldJointDef {
	res := WeldJointDef{}
	res.Type = WeldJointType
	return res
}

// Initialize sets the bodies, anchors, and reference angle using a world
// anchor point.
func (def *WeldJointDef) Initialize(bodyA, bodyB *Body, anchor Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = def.BodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = def.BodyB.GetLocalPoint(anchor)
	def.ReferenceAngle = def.BodyB.GetAngle() - def.BodyA.GetAngle()
}

// WeldJoint essentially glues two bodies together. A weld joint may distort
// somewhat because the island constraint solver is approximate.
//
// Point-to-point constraint
// C = p2 - p1
// Cdot = v2 - v1
//      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
//
// Angle constraint
// C = angle2 - angle1 - referenceAngle
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2
type WeldJoint struct {
	joint

	frequencyHz  float64
	dampingRatio float64
	bias         float64

	// Solver shared
	localAnchorA   Vec2
	localAnchorB   Vec2
	referenceAngle float64
	gamma          float64
	impulse        Vec3

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
	mass         Mat33
}

func newWeldJoint(def *WeldJointDef) *WeldJoint {
	res := &WeldJoint{
		joint: makeJoint(def),
	}

	res.localAnchorA = def.LocalAnchorA
	res.localAnchorB = def.LocalAnchorB
	res.referenceAngle = def.ReferenceAngle
	res.frequencyHz = def.FrequencyHz
	res.dampingRatio = def.DampingRatio

	return res
}

// GetLocalAnchorA returns the local anchor point relative to body A's
// origin.
func (j *WeldJoint) GetLocalAnchorA() Vec2 {
	return j.localAnchorA
}

// GetLocalAnchorB returns the local anchor point relative to body B's
// origin.
func (j *WeldJoint) GetLocalAnchorB() Vec2 {
	return j.localAnchorB
}

func (j *WeldJoint) GetReferenceAngle() float64 {
	return j.referenceAngle
}

func (j *WeldJoint) SetFrequency(hz float64) {
	j.frequencyHz = hz
}

func (j *WeldJoint) GetFrequency() float64 {
	return j.frequencyHz
}

func (j *WeldJoint) SetDampingRatio(ratio float64) {
	j.dampingRatio = ratio
}

func (j *WeldJoint) GetDampingRatio() float64 {
	return j.dampingRatio
}

func (j *WeldJoint) GetAnchorA() Vec2 {
	return j.bodyA.GetWorldPoint(j.localAnchorA)
}

func (j *WeldJoint) GetAnchorB() Vec2 {
	return j.bodyB.GetWorldPoint(j.localAnchorB)
}

func (j *WeldJoint) GetReactionForce(invDt float64) Vec2 {
	return MulSV(invDt, Vec2{j.impulse[0], j.impulse[1]})
}

func (j *WeldJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * j.impulse[2]
}

func (j *WeldJoint) InitVelocityConstraints(data *solverData) {
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

	var k Mat33
	k.Ex[0] = mA + mB + j.rA[1]*j.rA[1]*iA + j.rB[1]*j.rB[1]*iB
	k.Ey[0] = -j.rA[1]*j.rA[0]*iA - j.rB[1]*j.rB[0]*iB
	k.Ez[0] = -j.rA[1]*iA - j.rB[1]*iB
	k.Ex[1] = k.Ey[0]
	k.Ey[1] = mA + mB + j.rA[0]*j.rA[0]*iA + j.rB[0]*j.rB[0]*iB
	k.Ez[1] = j.rA[0]*iA + j.rB[0]*iB
	k.Ex[2] = k.Ez[0]
	k.Ey[2] = k.Ez[1]
	k.Ez[2] = iA + iB

	if j.frequencyHz > 0.0 {
		k.GetInverse22(&j.mass)

		invM := iA + iB
		m := 0.0
		if invM > 0.0 {
			m = 1.0 / invM
		}

		c := aB - aA - j.referenceAngle

		// Frequency
		omega := 2.0 * pi * j.frequencyHz

		// Damping coefficient
		d := 2.0 * m * j.dampingRatio * omega

		// Spring stiffness
		stiffness := m * omega * omega

		// magic formulas
		h := data.step.dt
		j.gamma = h * (d + h*stiffness)
		if j.gamma != 0.0 {
			j.gamma = 1.0 / j.gamma
		} else {
			j.gamma = 0.0
		}
		j.bias = c * h * stiffness * j.gamma

		invM += j.gamma
		if invM != 0.0 {
			j.mass.Ez[2] = 1.0 / invM
		} else {
			j.mass.Ez[2] = 0.0
		}
	} else if k.Ez[2] == 0.0 {
		k.GetInverse22(&j.mass)
		j.gamma = 0.0
		j.bias = 0.0
	} else {
		k.GetSymInverse33(&j.mass)
		j.gamma = 0.0
		j.bias = 0.0
	}

	if data.step.warmStarting {
		// Scale impulses to support a variable time step.
		j.impulse = MulSV3(data.step.dtRatio, j.impulse)

		p := Vec2{j.impulse[0], j.impulse[1]}

		MulSubTo(&vA, mA, p)
		wA -= iA * (CrossVV(j.rA, p) + j.impulse[2])

		MulAddTo(&vB, mB, p)
		wB += iB * (CrossVV(j.rB, p) + j.impulse[2])
	} else {
		j.impulse = Vec3{}
	}

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *WeldJoint) SolveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	mA := j.invMassA
	mB := j.invMassB
	iA := j.invIA
	iB := j.invIB

	if j.frequencyHz > 0.0 {
		cdot2 := wB - wA

		impulse2 := -j.mass.Ez[2] * (cdot2 + j.bias + j.gamma*j.impulse[2])
		j.impulse[2] += impulse2

		wA -= iA * impulse2
		wB += iB * impulse2

		cdot1 := SubVV(SubVV(AddVV(vB, CrossSV(wB, j.rB)), vA), CrossSV(wA, j.rA))

		impulse1 := NegV(MulM3V2(j.mass, cdot1))
		j.impulse[0] += impulse1[0]
		j.impulse[1] += impulse1[1]

		p := impulse1

		MulSubTo(&vA, mA, p)
		wA -= iA * CrossVV(j.rA, p)

		MulAddTo(&vB, mB, p)
		wB += iB * CrossVV(j.rB, p)
	} else {
		cdot1 := SubVV(SubVV(AddVV(vB, CrossSV(wB, j.rB)), vA), CrossSV(wA, j.rA))
		cdot2 := wB - wA
		cdot := Vec3{cdot1[0], cdot1[1], cdot2}

		impulse := NegV3(MulM3V3(j.mass, cdot))
		j.impulse = AddV3V3(j.impulse, impulse)

		p := Vec2{impulse[0], impulse[1]}

		MulSubTo(&vA, mA, p)
		wA -= iA * (CrossVV(j.rA, p) + impulse[2])

		MulAddTo(&vB, mB, p)
		wB += iB * (CrossVV(j.rB, p) + impulse[2])
	}

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *WeldJoint) SolvePositionConstraints(data *solverData) bool {
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

	rA := MulRV(qA, SubVV(j.localAnchorA, j.localCenterA))
	rB := MulRV(qB, SubVV(j.localAnchorB, j.localCenterB))

	positionError := 0.0
	angularError := 0.0

	var k Mat33
	k.Ex[0] = mA + mB + rA[1]*rA[1]*iA + rB[1]*rB[1]*iB
	k.Ey[0] = -rA[1]*rA[0]*iA - rB[1]*rB[0]*iB
	k.Ez[0] = -rA[1]*iA - rB[1]*iB
	k.Ex[1] = k.Ey[0]
	k.Ey[1] = mA + mB + rA[0]*rA[0]*iA + rB[0]*rB[0]*iB
	k.Ez[1] = rA[0]*iA + rB[0]*iB
	k.Ex[2] = k.Ez[0]
	k.Ey[2] = k.Ez[1]
	k.Ez[2] = iA + iB

	if j.frequencyHz > 0.0 {
		c1 := SubVV(SubVV(AddVV(cB, rB), cA), rA)

		positionError = LengthV(c1)
		angularError = 0.0

		p := NegV(k.Solve22(c1))

		MulSubTo(&cA, mA, p)
		aA -= iA * CrossVV(rA, p)

		MulAddTo(&cB, mB, p)
		aB += iB * CrossVV(rB, p)
	} else {
		c1 := SubVV(SubVV(AddVV(cB, rB), cA), rA)
		c2 := aB - aA - j.referenceAngle

		positionError = LengthV(c1)
		angularError = math.Abs(c2)

		c := Vec3{c1[0], c1[1], c2}

		var impulse Vec3
		if k.Ez[2] > 0.0 {
			impulse = NegV3(k.Solve33(c))
		} else {
			impulse2 := NegV(k.Solve22(c1))
			impulse = Vec3{impulse2[0], impulse2[1], 0.0}
		}

		p := Vec2{impulse[0], impulse[1]}

		MulSubTo(&cA, mA, p)
		aA -= iA * (CrossVV(rA, p) + impulse[2])

		MulAddTo(&cB, mB, p)
		aB += iB * (CrossVV(rB, p) + impulse[2])
	}

	data.positions[j.indexA].c = cA
	data.positions[j.indexA].a = aA
	data.positions[j.indexB].c = cB
	data.positions[j.indexB].a = aB

	return positionError <= LinearSlop && angularError <= AngularSlop
}
