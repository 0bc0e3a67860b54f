// Package viz draws chain histories in the terminal.
//
//   - [Canvas]: Braille dot canvas the chain and container are drawn on
//   - [Replay]: Bubble Tea model that plays a history back
//   - [Progress]: sim observer printing a progress bar during long runs
//   - [WriteGIF]: renders the same canvas frames to an animated GIF
//
// # Key Bindings
//
//	Space - Play/Pause
//	[ ]   - Step one frame back/forward
//	R     - Restart
//	+ -   - Playback speed
//	T     - Cycle color themes
//	?     - Show help
package viz
