// Package dynamo provides the shared primitives of the chain simulator.
//
// The package defines the values that cross package boundaries:
//
//   - [Snapshot]: a deep copy of the link positions at a sampled step
//   - [History]: the append-only trajectory produced by a run
//   - [Viewport]: the world rectangle every renderer maps onto its surface
//   - the sentinel errors every stage reports against
//
// # Example
//
//	params, _ := physics.NewParams(physics.DefaultPhysical())
//	x0 := initial.Layout(params, initial.DefaultOptions())
//	res, err := sim.New(params, integrators.NewEulerCromer()).Run(ctx, x0, sim.DefaultConfig())
//	if errors.Is(err, dynamo.ErrUnstable) {
//	    // dt too large for the spring stiffness
//	}
//
// # Ownership
//
// A History owns its snapshots exclusively. [History.Append] copies the
// positions it is given, so the live state can keep mutating.
package dynamo
