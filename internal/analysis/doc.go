// Package analysis turns recorded chain histories into numbers.
//
//   - [PowerSpectrum], [DominantFrequency]: oscillation content of a series
//   - [Extract]: named per-snapshot series such as tip height
//   - [NewPhasePortrait]: position against finite-difference velocity of a link
//   - [Divergence], [DivergenceRate]: how fast two nearby runs separate
//   - [Sweep]: fountain height across a range of one physical parameter
//
// # Sensitivity
//
// Two runs whose piles differ only in seed separate at a rate that can be
// read off the slope of ln(separation) over time:
//
//	d := analysis.Divergence(a.History, b.History)
//	rate, _ := analysis.DivergenceRate(a.History.Times(), d)
package analysis
