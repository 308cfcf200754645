// Package camera implements priority-based virtual camera selection,
// time-bounded blending between cameras, and a fixed pipeline of composable
// behaviors (follow damping, look-ahead framing, bounds confinement,
// trauma shake, letterboxing).
//
// The subsystem never renders; it produces an abstract Output record each
// frame that the view layer consumes. All state mutation happens inside
// Brain.Update calls driven by a single host loop.
package camera

import (
	"github.com/nlaroche/ascii-dungeon-sub002/vmath"
)

// Output is the per-frame camera result: world-space center, zoom level,
// rotation in degrees and an optional post-processing profile reference.
// Immutable value; returned by copy so listeners cannot corrupt Brain state
type Output struct {
	X, Y     float64
	Zoom     float64 // > 0; 1 = neutral
	Rotation float64 // Degrees
	Profile  string  // Post-processing profile reference, may be empty
}

// DefaultOutput is the origin view used before any camera has produced output
func DefaultOutput() Output {
	return Output{X: 0, Y: 0, Zoom: 1, Rotation: 0}
}

// lerpOutput interpolates position, zoom and rotation between two outputs.
// The profile snaps to the destination; profiles have no meaningful midpoint
func lerpOutput(from, to Output, t float64) Output {
	return Output{
		X:        vmath.Lerp(from.X, to.X, t),
		Y:        vmath.Lerp(from.Y, to.Y, t),
		Zoom:     vmath.Lerp(from.Zoom, to.Zoom, t),
		Rotation: vmath.Lerp(from.Rotation, to.Rotation, t),
		Profile:  to.Profile,
	}
}
