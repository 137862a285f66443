package planar

import (
	"math"
)

// RopeJointDef requires two body anchor points and a maximum length.
// By default the connected objects will not collide; see CollideConnected.
type RopeJointDef struct {
	BaseJointDef

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The maximum length of the rope. This must be larger than LinearSlop
	// or the joint will have no effect.
	MaxLength float64
}

func MakeRopeJointDef() RopeJointDef {
	res := RopeJointDef{}
	res.Type = RopeJointType
	res.LocalAnchorA = Vec2{-1.0, 0.0}
	res.LocalAnchorB = Vec2{1.0, 0.0}
	return res
}

// RopeJoint enforces a maximum distance between two points on two bodies. It
// has no other effect. If you attempt to change the maximum length during
// the simulation you will get some non-physical behavior; a model that
// allowed dynamic length modification would be spongy. See DistanceJoint if
// you want to dynamically control length.
//
// Limit:
// C = norm(pB - pA) - L
// u = (pB - pA) / norm(pB - pA)
// Cdot = dot(u, vB + cross(wB, rB) - vA - cross(wA, rA))
// J = [-u -cross(rA, u) u cross(rB, u)]
// K = J * invM * JT
//   = invMassA + invIA * cross(rA, u)^2 + invMassB + invIB * cross(rB, u)^2
type RopeJoint struct {
	joint

	// Solver shared
	localAnchorA Vec2
	localAnchorB Vec2
	maxLength    float64
	length       float64
	impulse      float64

	// Solver temp
	indexA       int
	indexB       int
	u            Vec2
	rA           Vec2
	rB           Vec2
	localCenterA Vec2
	localCenterB Vec2
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64
	mass         float64
	state        uint8
}

func newRopeJoint(def *RopeJointDef) *RopeJoint {
	res := &RopeJoint{
		joint: makeJoint(def),
	}

	res.localAnchorA = def.LocalAnchorA
	res.localAnchorB = def.LocalAnchorB

	res.maxLength = def.MaxLength

	res.state = limitStateInactive

	return res
}

// GetLocalAnchorA returns the local anchor point relative to body A's
// origin.
func (j *RopeJoint) GetLocalAnchorA() Vec2 {
	return j.localAnchorA
}

// GetLocalAnchorB returns the local anchor point relative to body B's
// origin.
func (j *RopeJoint) GetLocalAnchorB() Vec2 {
	return j.localAnchorB
}

func (j *RopeJoint) SetMaxLength(length float64) {
	j.maxLength = length
}

func (j *RopeJoint) GetMaxLength() float64 {
	return j.maxLength
}

// GetLimitState returns the rope limit state: inactive while slack, at the
// upper limit while taut.
func (j *RopeJoint) GetLimitState() uint8 {
	return j.state
}

func (j *RopeJoint) GetAnchorA() Vec2 {
	return j.bodyA.GetWorldPoint(j.localAnchorA)
}

func (j *RopeJoint) GetAnchorB() Vec2 {
	return j.bodyB.GetWorldPoint(j.localAnchorB)
}

func (j *RopeJoint) GetReactionForce(invDt float64) Vec2 {
	return MulSV(invDt*j.impulse, j.u)
}

func (j *RopeJoint) GetReactionTorque(invDt float64) float64 {
	return 0.0
}

func (j *RopeJoint) InitVelocityConstraints(data *solverData) {
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
	j.u = SubVV(SubVV(AddVV(cB, j.rB), cA), j.rA)

	j.length = LengthV(j.u)

	c := j.length - j.maxLength
	if c > 0.0 {
		j.state = limitStateAtUpper
	} else {
		j.state = limitStateInactive
	}

	if j.length > LinearSlop {
		MulSVTo(&j.u, 1.0/j.length, j.u)
	} else {
		j.u = Vec2{}
		j.mass = 0.0
		j.impulse = 0.0
		return
	}

	// Compute effective mass.
	crA := CrossVV(j.rA, j.u)
	crB := CrossVV(j.rB, j.u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB

	if invMass != 0.0 {
		j.mass = 1.0 / invMass
	} else {
		j.mass = 0.0
	}

	if data.step.warmStarting {
		// Scale the impulse to support a variable time step.
		j.impulse *= data.step.dtRatio

		p := MulSV(j.impulse, j.u)
		MulSubTo(&vA, j.invMassA, p)
		wA -= j.invIA * CrossVV(j.rA, p)
		MulAddTo(&vB, j.invMassB, p)
		wB += j.invIB * CrossVV(j.rB, p)
	} else {
		j.impulse = 0.0
	}

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *RopeJoint) SolveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	// Cdot = dot(u, v + cross(w, r))
	vpA := AddVV(vA, CrossSV(wA, j.rA))
	vpB := AddVV(vB, CrossSV(wB, j.rB))
	c := j.length - j.maxLength
	cdot := DotVV(j.u, SubVV(vpB, vpA))

	// Predictive constraint.
	if c < 0.0 {
		cdot += data.step.invDt * c
	}

	impulse := -j.mass * cdot
	oldImpulse := j.impulse
	j.impulse = math.Min(0.0, j.impulse+impulse)
	impulse = j.impulse - oldImpulse

	p := MulSV(impulse, j.u)
	MulSubTo(&vA, j.invMassA, p)
	wA -= j.invIA * CrossVV(j.rA, p)
	MulAddTo(&vB, j.invMassB, p)
	wB += j.invIB * CrossVV(j.rB, p)

	data.velocities[j.indexA].v = vA
	data.velocities[j.indexA].w = wA
	data.velocities[j.indexB].v = vB
	data.velocities[j.indexB].w = wB
}

func (j *RopeJoint) SolvePositionConstraints(data *solverData) bool {
	cA := data.positions[j.indexA].c
	aA := data.positions[j.indexA].a
	cB := data.positions[j.indexB].c
	aB := data.positions[j.indexB].a

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	rA := MulRV(qA, SubVV(j.localAnchorA, j.localCenterA))
	rB := MulRV(qB, SubVV(j.localAnchorB, j.localCenterB))
	u := SubVV(SubVV(AddVV(cB, rB), cA), rA)

	u, length := NormalizeV(u)
	c := length - j.maxLength

	c = clampFloat(c, 0.0, maxLinearCorrection)

	impulse := -j.mass * c
	p := MulSV(impulse, u)

	MulSubTo(&cA, j.invMassA, p)
	aA -= j.invIA * CrossVV(rA, p)
	MulAddTo(&cB, j.invMassB, p)
	aB += j.invIB * CrossVV(rB, p)

	data.positions[j.indexA].c = cA
	data.positions[j.indexA].a = aA
	data.positions[j.indexB].c = cB
	data.positions[j.indexB].a = aB

	return length-j.maxLength < LinearSlop
}
