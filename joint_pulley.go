package planar

import (
	"math"
)

// MinPulleyLength is the shortest workable rope length for a pulley.
const MinPulleyLength = 2.0

// PulleyJointDef requires two ground anchors, two dynamic body anchor
// points, and a pulley ratio.
type PulleyJointDef struct {
	BaseJointDef

	// The first ground anchor in world coordinates. This point never moves.
	GroundAnchorA Vec2

	// The second ground anchor in world coordinates. This point never
	// moves.
	GroundAnchorB Vec2

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The reference length for the segment attached to body A.
	LengthA float64

	// The reference length for the segment attached to body B.
	LengthB float64

	// The pulley ratio, used to simulate a block-and-tackle.
	Ratio float64
}

func MakePulleyJointDef() PulleyJointDef {
	res := PulleyJointDef{}
	res.Type = PulleyJointType
	res.GroundAnchorA = Vec2{-1.0, 1.0}
	res.GroundAnchorB = Vec2{1.0, 1.0}
	res.LocalAnchorA = Vec2{-1.0, 0.0}
	res.LocalAnchorB = Vec2{1.0, 0.0}
	res.Ratio = 1.0
	res.CollideConnected = true
	return res
}

// Initialize sets the bodies, anchors, lengths, and ratio using
// the world anchors.
func (def *PulleyJointDef) Initialize(bodyA, bodyB *Body, groundA, groundB, anchorA, anchorB Vec2, ratio float64) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.GroundAnchorA = groundA
	def.GroundAnchorB = groundB
	def.LocalAnchorA = def.BodyA.GetLocalPoint(anchorA)
	def.LocalAnchorB = def.BodyB.GetLocalPoint(anchorB)
	def.LengthA = DistanceVV(anchorA, groundA)
	def.LengthB = DistanceVV(anchorB, groundB)
	def.Ratio = ratio
	assert(def.Ratio > epsilon)
}

// PulleyJoint is connected to two bodies and two fixed ground points. The
// pulley supports a ratio such that:
//
//	lengthA + ratio * lengthB = constant
//
// The force transmitted is scaled by the ratio.
//
// The pulley joint can get a bit squirrelly by itself. It often works better
// when combined with prismatic joints. You should also cover the anchor
// points with static shapes to prevent one side from going to zero length.
//
// Pulley:
// length1 = norm(p1 - s1)
// length2 = norm(p2 - s2)
// C0 = (length1 + ratio * length2)_initial
// C = C0 - (length1 + ratio * length2)
// u1 = (p1 - s1) / norm(p1 - s1)
// u2 = (p2 - s2) / norm(p2 - s2)
// Cdot = -dot(u1, v1 + cross(w1, r1)) - ratio * dot(u2, v2 + cross(w2, r2))
// J = -[u1 cross(r1, u1) ratio * u2  ratio * cross(r2, u2)]
// K = J * invM * JT
//   = invMass1 + invI1 * cross(r1, u1)^2 + ratio^2 * (invMass2 + invI2 * cross(r2, u2)^2)
type PulleyJoint struct {
	joint

	groundAnchorA Vec2
	groundAnchorB Vec2
	lengthA       float64
	lengthB       float64

	// Solver shared
	localAnchorA Vec2
	localAnchorB Vec2
	constant     float64
	ratio        float64
	impulse      float64

	// Solver temp
	indexA       int
	indexB       int
	uA           Vec2
	uB           Vec2
	rA           Vec2
	rB           Vec2
	localCenterA Vec2
	localCenterB Vec2
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64
	mass         float64
}

func newPulleyJoint(def *PulleyJointDef) *PulleyJoint {
	res := &PulleyJoint{
		joint: makeJoint(def),
	}

	res.groundAnchorA = def.GroundAnchorA
	res.groundAnchorB = def.GroundAnchorB
	res.localAnchorA = def.LocalAnchorA
	res.localAnchorB = def.LocalAnchorB

	res.lengthA = def.LengthA
	res.lengthB = def.LengthB

	assert(def.Ratio != 0.0)
	res.ratio = def.Ratio

	res.constant = def.LengthA + res.ratio*def.LengthB

	return res
}

func (j *PulleyJoint) GetGroundAnchorA() Vec2 {
	return j.groundAnchorA
}

func (j *PulleyJoint) GetGroundAnchorB() Vec2 {
	return j.groundAnchorB
}

// GetLengthA returns the reference length of the segment attached to body A.
func (j *PulleyJoint) GetLengthA() float64 {
	return j.lengthA
}

// GetLengthB returns the reference length of the segment attached to body B.
func (j *PulleyJoint) GetLengthB() float64 {
	return j.lengthB
}

func (j *PulleyJoint) GetRatio() float64 {
	return j.ratio
}

// GetCurrentLengthA returns the current length of the segment attached to
// body A.
func (j *PulleyJoint) GetCurrentLengthA() float64 {
	p := j.bodyA.GetWorldPoint(j.localAnchorA)
	return DistanceVV(p, j.groundAnchorA)
}

// GetCurrentLengthB returns the current length of the segment attached to
// body B.
func (j *PulleyJoint) GetCurrentLengthB() float64 {
	p := j.bodyB.GetWorldPoint(j.localAnchorB)
	return DistanceVV(p, j.groundAnchorB)
}

func (j *PulleyJoint) GetAnchorA() Vec2 {
	return j.bodyA.GetWorldPoint(j.localAnchorA)
}

func (j *PulleyJoint) GetAnchorB() Vec2 {
	return j.bodyB.GetWorldPoint(j.localAnchorB)
}

func (j *PulleyJoint) GetReactionForce(invDt float64) Vec2 {
	return MulSV(invDt*j.impulse, j.uB)
}

func (j *PulleyJoint) GetReactionTorque(invDt float64) float64 {
	return 0.0
}

func (j *PulleyJoint) ShiftOrigin(newOrigin Vec2) {
	SubVVTo(&j.groundAnchorA, j.groundAnchorA, newOrigin)
	SubVVTo(&j.groundAnchorB, j.groundAnchorB, newOrigin)
}

func (j *PulleyJoint) InitVelocityConstraints(data *solverData) {
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

	j.rA = MulRV(qA, SubVV(j.localAnchorA, j.localCenterA))
	j.rB = MulRV(qB, SubVV(j.localAnchorB, j.localCenterB))

	// Get the pulley axes.
	j.uA = SubVV(AddVV(cA, j.rA), j.groundAnchorA)
	j.uB = SubVV(AddVV(cB, j.rB), j.groundAnchorB)

	lengthA := LengthV(j.uA)
	lengthB := LengthV(j.uB)

	if lengthA > 10.0*LinearSlop {
		MulSVTo(&j.uA, 1.0/lengthA, j.uA)
	} else {
		j.uA = Vec2{}
	}

	if lengthB > 10.0*LinearSlop {
		MulSVTo(&j.uB, 1.0/lengthB, j.uB)
	} else {
		j.uB = Vec2{}
	}

	// Compute effective mass.
	ruA := CrossVV(j.rA, j.uA)
	ruB := CrossVV(j.rB, j.uB)

	mA := j.invMassA + j.invIA*ruA*ruA
	mB := j.invMassB + j.invIB*ruB*ruB

	j.mass = mA + j.ratio*j.ratio*mB

	if j.mass > 0.0 {
		j.mass = 1.0 / j.mass
	}

	if data.step.warmStarting {
		// Scale impulses to support variable time steps.
		j.impulse *= data.step.dtRatio

		// Warm starting.
		pA := MulSV(-j.impulse, j.uA)
		pB := MulSV(-j.ratio*j.impulse, j.uB)

		MulAddTo(&vA, j.invMassA, pA)
		wA += j.invIA * CrossVV(j.rA, pA)
		MulAddTo(&vB, j.invMassB, pB)
		wB += j.invIB * CrossVV(j.rB, pB)
	} else {
		j.impulse = 0.0
	}

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *PulleyJoint) SolveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	vpA := AddVV(vA, CrossSV(wA, j.rA))
	vpB := AddVV(vB, CrossSV(wB, j.rB))

	cdot := -DotVV(j.uA, vpA) - j.ratio*DotVV(j.uB, vpB)
	impulse := -j.mass * cdot
	j.impulse += impulse

	pA := MulSV(-impulse, j.uA)
	pB := MulSV(-j.ratio*impulse, j.uB)
	MulAddTo(&vA, j.invMassA, pA)
	wA += j.invIA * CrossVV(j.rA, pA)
	MulAddTo(&vB, j.invMassB, pB)
	wB += j.invIB * CrossVV(j.rB, pB)

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

// SolvePositionConstraints recomputes the anchors and axes from the current
// positions rather than reusing the velocity-phase values, so the correction
// acts on the actual configuration.
func (j *PulleyJoint) SolvePositionConstraints(data *solverData) bool {
	cA := data.positions[j.indexA].c
	aA := data.positions[j.indexA].a
	cB := data.positions[j.indexB].c
	aB := data.positions[j.indexB].a

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	rA := MulRV(qA, SubVV(j.localAnchorA, j.localCenterA))
	rB := MulRV(qB, SubVV(j.localAnchorB, j.localCenterB))

	// Get the pulley axes.
	uA := SubVV(AddVV(cA, rA), j.groundAnchorA)
	uB := SubVV(AddVV(cB, rB), j.groundAnchorB)

	lengthA := LengthV(uA)
	lengthB := LengthV(uB)

	if lengthA > 10.0*LinearSlop {
		MulSVTo(&uA, 1.0/lengthA, uA)
	} else {
		uA = Vec2{}
	}

	if lengthB > 10.0*LinearSlop {
		MulSVTo(&uB, 1.0/lengthB, uB)
	} else {
		uB = Vec2{}
	}

	// Compute effective mass.
	ruA := CrossVV(rA, uA)
	ruB := CrossVV(rB, uB)

	mA := j.invMassA + j.invIA*ruA*ruA
	mB := j.invMassB + j.invIB*ruB*ruB

	mass := mA + j.ratio*j.ratio*mB

	if mass > 0.0 {
		mass = 1.0 / mass
	}

	c := j.constant - lengthA - j.ratio*lengthB
	linearError := math.Abs(c)

	impulse := -mass * c

	pA := MulSV(-impulse, uA)
	pB := MulSV(-j.ratio*impulse, uB)

	MulAddTo(&cA, j.invMassA, pA)
	aA += j.invIA * CrossVV(rA, pA)
	MulAddTo(&cB, j.invMassB, pB)
	aB += j.invIB * CrossVV(rB, pB)

	data.positions[j.indexA].c = cA
	data.positions[j.indexA].a = aA
	data.positions[j.indexB].c = cB
	data.positions[j.indexB].a = aB

	return linearError < LinearSlop
}
