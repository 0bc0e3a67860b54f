package physics

import "gonum.org/v1/gonum/spatial/r2"

// KineticEnergy is sum(1/2 m |v|^2).
func KineticEnergy(p Params, s State) float64 {
	e := 0.0
	for _, v := range s.Velocities {
		e += 0.5 * p.linkMass * r2.Norm2(v)
	}
	return e
}

// PotentialEnergy is the gravitational energy relative to the origin,
// -m g.x summed over links.
func PotentialEnergy(p Params, s State) float64 {
	e := 0.0
	for _, x := range s.Positions {
		e -= p.linkMass * r2.Dot(p.phys.Gravity, x)
	}
	return e
}

// ElasticEnergy is the energy stored in the springs.
func ElasticEnergy(p Params, s State) float64 {
	e := 0.0
	for i := 0; i+1 < s.Len(); i++ {
		stretch := r2.Norm(r2.Sub(s.Positions[i+1], s.Positions[i])) - p.restLength
		e += 0.5 * p.phys.Stiffness * stretch * stretch
	}
	return e
}

func Energy(p Params, s State) float64 {
	return KineticEnergy(p, s) + PotentialEnergy(p, s) + ElasticEnergy(p, s)
}

// MaxStretch returns the largest relative deviation of a segment from the
// rest length. Zero for a single link.
func MaxStretch(p Params, s State) float64 {
	if p.restLength == 0 {
		return 0
	}
	worst := 0.0
	for i := 0; i+1 < s.Len(); i++ {
		d := r2.Norm(r2.Sub(s.Positions[i+1], s.Positions[i]))
		rel := (d - p.restLength) / p.restLength
		if rel < 0 {
			rel = -rel
		}
		if rel > worst {
			worst = rel
		}
	}
	return worst
}
