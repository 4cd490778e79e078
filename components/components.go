// Package components defines ECS components for force field emitters.
package components

// FieldKind selects the force function an emitter evaluates.
type FieldKind uint8

const (
	KindVortex FieldKind = iota // Swirl of constant magnitude
	KindRadial                  // Homing pull, stronger with distance
)

// String returns the config name of the kind.
func (k FieldKind) String() string {
	if k == KindRadial {
		return "radial"
	}
	return "vortex"
}

// FieldTarget selects where an emitter's output goes.
type FieldTarget uint8

const (
	TargetWind     FieldTarget = iota // Summed over all particles into the ambient wind
	TargetVelocity                    // Added to each particle's velocity
)

// String returns the config name of the target.
func (t FieldTarget) String() string {
	if t == TargetVelocity {
		return "velocity"
	}
	return "wind"
}

// Anchor is the centre an emitter acts around.
type Anchor struct {
	X, Y         float64
	FollowCenter bool // Track the centre of the bounds instead of X, Y
}

// Field holds the force parameters of an emitter.
type Field struct {
	Kind     FieldKind
	Strength float64
	Scale    float64 // radial only
	Target   FieldTarget
}

// Trigger names an emitter and records whether it is currently held on.
type Trigger struct {
	Name   string
	Key    string
	Active bool
}
