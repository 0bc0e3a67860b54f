package physics

// ConstraintResolver clamps links against the floor (y = 0) and the two
// container walls after every integration step.
type ConstraintResolver struct {
	xMin, xMax float64
}

func NewConstraintResolver(p Params) ConstraintResolver {
	return ConstraintResolver{xMin: p.phys.XMin, xMax: p.phys.XMax}
}

// Resolve mutates s in place and returns how many bounds were violated.
// The floor is fully inelastic; walls reflect vx at half speed.
func (c ConstraintResolver) Resolve(s State) int {
	hits := 0
	for i := range s.Positions {
		p, v := &s.Positions[i], &s.Velocities[i]

		if p.Y < 0 {
			p.Y = 0
			v.Y = 0
			hits++
		}
		if p.X < c.xMin {
			p.X = c.xMin
			v.X *= -WallRestitution
			hits++
		}
		if p.X > c.xMax {
			p.X = c.xMax
			v.X *= -WallRestitution
			hits++
		}
	}
	return hits
}
