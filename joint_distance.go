package planar

import (
	"math"
)

// DistanceJointDef requires defining an anchor point on both bodies and the
// non-zero length of the distance joint. The definition uses local anchor
// points so that the initial configuration can violate the constraint
// slightly. This helps when saving and loading a game.
// Do not use a zero or short length.
type DistanceJointDef struct {
	BaseJointDef

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The natural length between the anchor points.
	Length float64

	// The mass-spring-damper frequency in Hertz. A value of 0 disables
	// softness.
	FrequencyHz float64

	// The damping ratio. 0 = no damping, 1 = critical damping.
	DampingRatio float64
}

func MakeDistanceJointDef() DistanceJointDef {
	res := DistanceJointDef{}
	res.Type = DistanceJointType
	res.Length = 1.0
	return res
}

// Initialize sets the bodies, anchors, and length using the world anchors.
func (def *DistanceJointDef) Initialize(bodyA, bodyB *Body, anchorA, anchorB Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = def.BodyA.GetLocalPoint(anchorA)
	def.LocalAnchorB = def.BodyB.GetLocalPoint(anchorB)
	def.Length = DistanceVV(anchorB, anchorA)
}

// DistanceJoint constrains two points on two bodies to remain at a fixed
// distance from each other. You can view this as a massless, rigid rod.
//
// 1-D constrained system
// m (v2 - v1) = lambda
// v2 + (beta/h) * x1 + gamma * lambda = 0, gamma has units of inverse mass.
// x2 = x1 + h * v2
//
// C = norm(p2 - p1) - L
// u = (p2 - p1) / norm(p2 - p1)
// Cdot = dot(u, v2 + cross(w2, r2) - v1 - cross(w1, r1))
// J = [-u -cross(r1, u) u cross(r2, u)]
// K = J * invM * JT
//   = invMass1 + invI1 * cross(r1, u)^2 + invMass2 + invI2 * cross(r2, u)^2
type DistanceJoint struct {
	joint

	frequencyHz  float64
	dampingRatio float64
	bias         float64

	// Solver shared
	localAnchorA Vec2
	localAnchorB Vec2
	gamma        float64
	impulse      float64
	length       float64

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
}

func newDistanceJoint(def *DistanceJointDef) *DistanceJoint {
	res := &DistanceJoint{
		joint: makeJoint(def),
	}

	res.localAnchorA = def.LocalAnchorA
	res.localAnchorB = def.LocalAnchorB
	res.length = def.Length
	res.frequencyHz = def.FrequencyHz
	res.dampingRatio = def.DampingRatio

	return res
}

// GetLocalAnchorA returns the local anchor point relative to body A's
// origin.
func (j *DistanceJoint) GetLocalAnchorA() Vec2 {
	return j.localAnchorA
}

// GetLocalAnchorB returns the local anchor point relative to body B's
// origin.
func (j *DistanceJoint) GetLocalAnchorB() Vec2 {
	return j.localAnchorB
}

func (j *DistanceJoint) SetLength(length float64) {
	j.length = length
}

func (j *DistanceJoint) GetLength() float64 {
	return j.length
}

func (j *DistanceJoint) SetFrequency(hz float64) {
	j.frequencyHz = hz
}

func (j *DistanceJoint) GetFrequency() float64 {
	return j.frequencyHz
}

func (j *DistanceJoint) SetDampingRatio(ratio float64) {
	j.dampingRatio = ratio
}

func (j *DistanceJoint) GetDampingRatio() float64 {
	return j.dampingRatio
}

func (j *DistanceJoint) GetAnchorA() Vec2 {
	return j.bodyA.GetWorldPoint(j.localAnchorA)
}

func (j *DistanceJoint) GetAnchorB() Vec2 {
	return j.bodyB.GetWorldPoint(j.localAnchorB)
}

func (j *DistanceJoint) GetReactionForce(invDt float64) Vec2 {
	return MulSV(invDt*j.impulse, j.u)
}

func (j *DistanceJoint) GetReactionTorque(invDt float64) float64 {
	return 0.0
}

func (j *DistanceJoint) InitVelocityConstraints(data *solverData) {
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

	// Handle singularity.
	length := LengthV(j.u)
	if length > LinearSlop {
		MulSVTo(&j.u, 1.0/length, j.u)
	} else {
		j.u = Vec2{}
	}

	crAu := CrossVV(j.rA, j.u)
	crBu := CrossVV(j.rB, j.u)
	invMass := j.invMassA + j.invIA*crAu*crAu + j.invMassB + j.invIB*crBu*crBu

	// Compute the effective mass matrix.
	if invMass != 0.0 {
		j.mass = 1.0 / invMass
	} else {
		j.mass = 0.0
	}

	if j.frequencyHz > 0.0 {
		c := length - j.length

		// Frequency
		omega := 2.0 * pi * j.frequencyHz

		// Damping coefficient
		d := 2.0 * j.mass * j.dampingRatio * omega

		// Spring stiffness
		k := j.mass * omega * omega

		// magic formulas
		h := data.step.dt
		j.gamma = h * (d + h*k)
		if j.gamma != 0.0 {
			j.gamma = 1.0 / j.gamma
		} else {
			j.gamma = 0.0
		}
		j.bias = c * h * k * j.gamma

		invMass += j.gamma
		if invMass != 0.0 {
			j.mass = 1.0 / invMass
		} else {
			j.mass = 0.0
		}
	} else {
		j.gamma = 0.0
		j.bias = 0.0
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

func (j *DistanceJoint) SolveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA].v
	wA := data.velocities[j.indexA].w
	vB := data.velocities[j.indexB].v
	wB := data.velocities[j.indexB].w

	// Cdot = dot(u, v + cross(w, r))
	vpA := AddVV(vA, CrossSV(wA, j.rA))
	vpB := AddVV(vB, CrossSV(wB, j.rB))
	cdot := DotVV(j.u, SubVV(vpB, vpA))

	impulse := -j.mass * (cdot + j.bias + j.gamma*j.impulse)
	j.impulse += impulse

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

func (j *DistanceJoint) SolvePositionConstraints(data *solverData) bool {
	if j.frequencyHz > 0.0 {
		// There is no position correction for soft distance constraints.
		return true
	}

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
	c := length - j.length
	c = clampFloat(c, -maxLinearCorrection, maxLinearCorrection)

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

	return math.Abs(c) < LinearSlop
}
