package physics

import "gonum.org/v1/gonum/spatial/r2"

// ForceModel maps a chain state to the net force on every link.
// It holds only immutable parameters, so Forces is a pure function.
type ForceModel struct {
	p Params
}

func NewForceModel(p Params) *ForceModel {
	return &ForceModel{p: p}
}

func (m *ForceModel) Params() Params { return m.p }

// Forces writes the net force on every link into out, reusing it when it
// has the right length, and returns it. Terms are added in order: gravity,
// spring coupling, damping, source force. A state that fails Validate is
// rejected with ErrShapeMismatch and out is returned untouched.
func (m *ForceModel) Forces(s State, out []r2.Vec) ([]r2.Vec, error) {
	if err := s.Validate(); err != nil {
		return out, err
	}
	n := s.Len()
	out = reset(out, n)

	weight := r2.Scale(m.p.linkMass, m.p.phys.Gravity)
	for i := range out {
		out[i] = r2.Add(out[i], weight)
	}

	m.addSprings(s.Positions, out)

	c := m.p.phys.Damping
	for i, v := range s.Velocities {
		out[i] = r2.Sub(out[i], r2.Scale(c, v))
	}

	if i, f, ok := m.SourceForce(s); ok {
		out[i] = r2.Add(out[i], f)
	}

	return out, nil
}

// Forces evaluates the force model once with a fresh buffer.
func Forces(p Params, s State) ([]r2.Vec, error) {
	return NewForceModel(p).Forces(s, nil)
}

// addSprings applies Hooke's law to every adjacent pair, equal and
// opposite. Coincident links are skipped.
func (m *ForceModel) addSprings(pos []r2.Vec, out []r2.Vec) int {
	k, rest := m.p.phys.Stiffness, m.p.restLength
	skipped := 0

	for i := 0; i+1 < len(pos); i++ {
		r := r2.Sub(pos[i+1], pos[i])
		d := r2.Norm(r)
		if d == 0 {
			skipped++
			continue
		}

		u := r2.Scale(1/d, r)
		f := r2.Scale(k*(d-rest), u)

		out[i] = r2.Add(out[i], f)
		out[i+1] = r2.Sub(out[i+1], f)
	}

	return skipped
}

// SpringForces returns the spring coupling term alone and the number of
// degenerate (zero length) segments that were skipped.
func (m *ForceModel) SpringForces(pos []r2.Vec) ([]r2.Vec, int) {
	out := make([]r2.Vec, len(pos))
	skipped := m.addSprings(pos, out)
	return out, skipped
}

// DegenerateSegments scans adjacent pairs for coincident links. first is
// the lower index of the first such pair, or -1 when there is none.
func DegenerateSegments(pos []r2.Vec) (first, count int) {
	first = -1
	for i := 0; i+1 < len(pos); i++ {
		if pos[i] == pos[i+1] {
			if first < 0 {
				first = i
			}
			count++
		}
	}
	return first, count
}

// DampingForces returns the linear drag term alone.
func (m *ForceModel) DampingForces(vel []r2.Vec) []r2.Vec {
	out := make([]r2.Vec, len(vel))
	for i, v := range vel {
		out[i] = r2.Scale(-m.p.phys.Damping, v)
	}
	return out
}

// SourceForce finds the link being lifted out of the pile: scanning from
// the top of the stack (N-1) down to 1, the first link below the pile
// height with upward velocity gets a vertical push of density * |v|^2.
// Link 0 is never a candidate. A state with fewer velocities than
// positions only considers the links that have both.
func (m *ForceModel) SourceForce(s State) (int, r2.Vec, bool) {
	for i := min(len(s.Positions), len(s.Velocities)) - 1; i >= 1; i-- {
		p, v := s.Positions[i], s.Velocities[i]
		if p.Y < m.p.pileHeight && v.Y > 0 {
			return i, r2.Vec{Y: m.p.density * r2.Norm2(v)}, true
		}
	}
	return -1, r2.Vec{}, false
}

func reset(buf []r2.Vec, n int) []r2.Vec {
	if cap(buf) < n {
		return make([]r2.Vec, n)
	}
	buf = buf[:n]
	for i := range buf {
		buf[i] = r2.Vec{}
	}
	return buf
}
