package planar

// Joint types.
const (
	UnknownJointType uint8 = iota
	RevoluteJointType
	PrismaticJointType
	DistanceJointType
	PulleyJointType
	MouseJointType
	GearJointType
	WheelJointType
	WeldJointType
	FrictionJointType
	RopeJointType
	MotorJointType
)

// Limit states for joints with limits.
const (
	limitStateInactive uint8 = iota
	limitStateAtLower
	limitStateAtUpper
	limitStateEqual
)

// JointEdge connects bodies and joints together in a joint graph where each
// body is a node and each joint is an edge. A joint edge belongs to a doubly
// linked list maintained in each attached body. Each joint has two joint
// edges, one for each attached body.
type JointEdge struct {
	Other *Body // provides quick access to the other body attached
	Joint Joint
	Prev  *JointEdge
	Next  *JointEdge
}

// JointDef is implemented by all joint definitions; the embedded
// BaseJointDef provides the accessors.
type JointDef interface {
	GetType() uint8
	GetBodyA() *Body
	GetBodyB() *Body
	GetUserData() interface{}
	IsCollideConnected() bool
}

// BaseJointDef carries the fields shared by all joint definitions.
type BaseJointDef struct {
	// The joint type is set automatically for concrete joint types.
	Type uint8

	// Use this to attach application specific data to your joints.
	UserData interface{}

	// The first attached body.
	BodyA *Body

	// The second attached body.
	BodyB *Body

	// Set this flag to true if the attached bodies should collide.
	CollideConnected bool
}

func (def *BaseJointDef) GetType() uint8 {
	return def.Type
}

func (def *BaseJointDef) GetBodyA() *Body {
	return def.BodyA
}

func (def *BaseJointDef) GetBodyB() *Body {
	return def.BodyB
}

func (def *BaseJointDef) GetUserData() interface{} {
	return def.UserData
}

func (def *BaseJointDef) IsCollideConnected() bool {
	return def.CollideConnected
}

// Joint constrains two bodies together in various fashions. Some joints also
// feature limits and motors. Concrete joints are created through
// World.CreateJoint.
type Joint interface {
	// GetType returns the joint kind for down casting.
	GetType() uint8

	// GetBodyA returns the first attached body.
	GetBodyA() *Body

	// GetBodyB returns the second attached body.
	GetBodyB() *Body

	// GetAnchorA returns the anchor point on body A in world coordinates.
	GetAnchorA() Vec2

	// GetAnchorB returns the anchor point on body B in world coordinates.
	GetAnchorB() Vec2

	// GetReactionForce returns the reaction force on body B at the joint
	// anchor, in Newtons: inv_dt times the accumulated linear impulse.
	GetReactionForce(invDt float64) Vec2

	// GetReactionTorque returns the reaction torque on body B, in N*m:
	// inv_dt times the accumulated angular impulse.
	GetReactionTorque(invDt float64) float64

	// GetNext returns the next joint in the world's joint list.
	GetNext() Joint

	GetUserData() interface{}
	SetUserData(data interface{})

	// IsActive is true when both attached bodies are active.
	IsActive() bool

	// IsCollideConnected reports whether the attached bodies may collide.
	IsCollideConnected() bool

	// ShiftOrigin shifts any points stored in world coordinates.
	ShiftOrigin(newOrigin Vec2)

	InitVelocityConstraints(data *solverData)
	SolveVelocityConstraints(data *solverData)

	// SolvePositionConstraints returns true when the positional error is
	// within tolerance.
	SolvePositionConstraints(data *solverData) bool

	base() *joint
}

// joint is the embedded base of every concrete joint.
type joint struct {
	jointType        uint8
	prev             Joint
	next             Joint
	edgeA            JointEdge
	edgeB            JointEdge
	bodyA            *Body
	bodyB            *Body
	index            int
	islandFlag       bool
	collideConnected bool
	userData         interface{}
}

func makeJoint(def JointDef) joint {
	assert(def.GetBodyA() != def.GetBodyB())

	return joint{
		jointType:        def.GetType(),
		bodyA:            def.GetBodyA(),
		bodyB:            def.GetBodyB(),
		collideConnected: def.IsCollideConnected(),
		userData:         def.GetUserData(),
	}
}

func (j *joint) GetType() uint8 {
	return j.jointType
}

func (j *joint) GetBodyA() *Body {
	return j.bodyA
}

func (j *joint) GetBodyB() *Body {
	return j.bodyB
}

func (j *joint) GetNext() Joint {
	return j.next
}

func (j *joint) GetUserData() interface{} {
	return j.userData
}

func (j *joint) SetUserData(data interface{}) {
	j.userData = data
}

func (j *joint) IsCollideConnected() bool {
	return j.collideConnected
}

func (j *joint) IsActive() bool {
	return j.bodyA.IsActive() && j.bodyB.IsActive()
}

func (j *joint) ShiftOrigin(newOrigin Vec2) {}

func (j *joint) base() *joint {
	return j
}

// jointCreate dispatches a joint definition to the matching constructor.
func jointCreate(def JointDef) Joint {
	switch d := def.(type) {
	case *DistanceJointDef:
		return newDistanceJoint(d)
	case *MouseJointDef:
		return newMouseJoint(d)
	case *PrismaticJointDef:
		return newPrismaticJoint(d)
	case *RevoluteJointDef:
		return newRevoluteJoint(d)
	case *PulleyJointDef:
		return newPulleyJoint(d)
	case *GearJointDef:
		return newGearJoint(d)
	case *WheelJointDef:
		return newWheelJoint(d)
	case *WeldJointDef:
		return newWeldJoint(d)
	case *FrictionJointDef:
		return newFrictionJoint(d)
	case *RopeJointDef:
		return newRopeJoint(d)
	case *MotorJointDef:
		return newMotorJoint(d)
	default:
		assert(false)
		return nil
	}
}
