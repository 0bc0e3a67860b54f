// Package physics implements the chain fountain model.
//
// A chain is N point masses joined by stiff springs. Each step the
// [ForceModel] sums, per link:
//
//   - gravity on the link mass
//   - Hooke springs between index-adjacent links (equal and opposite)
//   - linear damping against the link velocity
//   - the source force on the one link being lifted out of the pile
//
// after which an integrator advances the state and the
// [ConstraintResolver] clamps it to the floor and the container walls.
//
// All parameters live in an immutable [Params] built once by [NewParams].
package physics
