package systems

import (
	"fmt"
	"sort"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/components"
	"github.com/pthm-cable/gust/config"
)

// emitter is an active field resolved against the current bounds.
type emitter struct {
	center r2.Vec
	field  components.Field
}

func (e emitter) at(pos r2.Vec) r2.Vec {
	if e.field.Kind == components.KindRadial {
		return RadialDeceleration(pos, e.center, e.field.Strength, e.field.Scale)
	}
	return Vortex(pos, e.center, e.field.Strength)
}

// FieldSources is the registry of named force field emitters. Each emitter
// is an entity carrying Anchor, Field and Trigger components.
type FieldSources struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Anchor, components.Field, components.Trigger]
	filter *ecs.Filter3[components.Anchor, components.Field, components.Trigger]

	scratch []emitter
}

// NewFieldSources creates a registry holding the given definitions, all
// inactive. Definitions are expected to be validated already.
func NewFieldSources(defs []config.FieldConfig) (*FieldSources, error) {
	world := ecs.NewWorld()
	f := &FieldSources{
		world:  world,
		mapper: ecs.NewMap3[components.Anchor, components.Field, components.Trigger](world),
		filter: ecs.NewFilter3[components.Anchor, components.Field, components.Trigger](world),
	}
	for _, def := range defs {
		if err := f.Add(def); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Add registers a new inactive emitter.
func (f *FieldSources) Add(def config.FieldConfig) error {
	if _, ok := f.find(def.Name); ok {
		return fmt.Errorf("field %q already registered", def.Name)
	}

	anchor := components.Anchor{X: def.Center.X, Y: def.Center.Y, FollowCenter: def.FollowCenter}
	field := components.Field{Strength: def.Strength, Scale: def.Scale}
	switch def.Kind {
	case config.FieldVortex:
		field.Kind = components.KindVortex
	case config.FieldRadial:
		field.Kind = components.KindRadial
		if def.Scale <= 0 {
			return fmt.Errorf("field %q: radial scale must be positive", def.Name)
		}
	default:
		return fmt.Errorf("field %q: unknown kind %q", def.Name, def.Kind)
	}
	switch def.Target {
	case config.TargetWind:
		field.Target = components.TargetWind
	case config.TargetVelocity:
		field.Target = components.TargetVelocity
	default:
		return fmt.Errorf("field %q: unknown target %q", def.Name, def.Target)
	}
	trigger := components.Trigger{Name: def.Name, Key: def.Key}

	f.mapper.NewEntity(&anchor, &field, &trigger)
	return nil
}

// Remove deletes the named emitter. It reports whether it existed.
func (f *FieldSources) Remove(name string) bool {
	e, ok := f.find(name)
	if !ok {
		return false
	}
	f.mapper.Remove(e)
	return true
}

// SetActive switches the named emitter on or off. It reports whether the
// emitter exists.
func (f *FieldSources) SetActive(name string, active bool) bool {
	e, ok := f.find(name)
	if !ok {
		return false
	}
	_, _, trigger := f.mapper.Get(e)
	trigger.Active = active
	return true
}

// Active reports whether the named emitter is on.
func (f *FieldSources) Active(name string) bool {
	e, ok := f.find(name)
	if !ok {
		return false
	}
	_, _, trigger := f.mapper.Get(e)
	return trigger.Active
}

// SetStrength retunes the named emitter.
func (f *FieldSources) SetStrength(name string, strength float64) bool {
	e, ok := f.find(name)
	if !ok {
		return false
	}
	_, field, _ := f.mapper.Get(e)
	field.Strength = strength
	return true
}

// Lookup returns a copy of the named emitter's components.
func (f *FieldSources) Lookup(name string) (components.Anchor, components.Field, bool) {
	e, ok := f.find(name)
	if !ok {
		return components.Anchor{}, components.Field{}, false
	}
	anchor, field, _ := f.mapper.Get(e)
	return *anchor, *field, true
}

// Count returns the number of registered emitters.
func (f *FieldSources) Count() int {
	n := 0
	query := f.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Triggers returns every emitter's trigger, sorted by name.
func (f *FieldSources) Triggers() []components.Trigger {
	var out []components.Trigger
	query := f.filter.Query()
	for query.Next() {
		_, _, trigger := query.Get()
		out = append(out, *trigger)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Compose sums every active wind-target field over every particle
// position. The result is meant to be added into the ambient wind.
func (f *FieldSources) Compose(b Bounds, particles []Particle) r2.Vec {
	var sum r2.Vec
	for _, em := range f.active(b, components.TargetWind) {
		for i := range particles {
			sum = r2.Add(sum, em.at(particles[i].Position))
		}
	}
	return sum
}

// Impulse adds every active velocity-target field directly to the
// particles' velocities.
func (f *FieldSources) Impulse(b Bounds, s *ParticleSystem) {
	for _, em := range f.active(b, components.TargetVelocity) {
		s.ApplyImpulse(em.at)
	}
}

// Sample evaluates every emitter targeting t at pos, active or not.
func (f *FieldSources) Sample(b Bounds, pos r2.Vec, t components.FieldTarget) r2.Vec {
	var sum r2.Vec
	query := f.filter.Query()
	for query.Next() {
		anchor, field, _ := query.Get()
		if field.Target != t {
			continue
		}
		sum = r2.Add(sum, emitter{center: center(anchor, b), field: *field}.at(pos))
	}
	return sum
}

// active resolves the active emitters with the given target. The returned
// slice is reused by the next call.
func (f *FieldSources) active(b Bounds, t components.FieldTarget) []emitter {
	f.scratch = f.scratch[:0]
	query := f.filter.Query()
	for query.Next() {
		anchor, field, trigger := query.Get()
		if !trigger.Active || field.Target != t {
			continue
		}
		f.scratch = append(f.scratch, emitter{center: center(anchor, b), field: *field})
	}
	return f.scratch
}

func (f *FieldSources) find(name string) (ecs.Entity, bool) {
	query := f.filter.Query()
	for query.Next() {
		_, _, trigger := query.Get()
		if trigger.Name == name {
			e := query.Entity()
			query.Close()
			return e, true
		}
	}
	return ecs.Entity{}, false
}

func center(a *components.Anchor, b Bounds) r2.Vec {
	if a.FollowCenter {
		return b.Center()
	}
	return r2.Vec{X: a.X, Y: a.Y}
}
