package systems

import "gonum.org/v1/gonum/spatial/r2"

// Vortex returns a swirl of constant magnitude |strength| around center,
// perpendicular to the radius through pos. Distance does not attenuate it.
// At the centre itself the result is the zero vector.
func Vortex(pos, center r2.Vec, strength float64) r2.Vec {
	d := r2.Sub(pos, center)
	dist := r2.Norm(d)
	if dist == 0 {
		return r2.Vec{}
	}

	// Radial unit vector rotated by 90 degrees
	tangent := r2.Vec{X: -d.Y / dist, Y: d.X / dist}
	return r2.Scale(strength, tangent)
}

// RadialDeceleration pulls pos towards center with a magnitude of
// strength*distance/scale, so far particles are pulled hardest and the
// pull fades to nothing at the centre. At the centre itself the result is
// the zero vector.
func RadialDeceleration(pos, center r2.Vec, strength, scale float64) r2.Vec {
	d := r2.Sub(center, pos)
	dist := r2.Norm(d)
	if dist == 0 {
		return r2.Vec{}
	}

	unit := r2.Vec{X: d.X / dist, Y: d.Y / dist}
	return r2.Scale(strength*(dist/scale), unit)
}
