package camera

import (
	"github.com/nlaroche/ascii-dungeon-sub002/core"
)

// Resolver looks up an entity's world position.
// Returns ok=false when the entity is unknown; behaviors treat that as a
// recoverable condition and contribute identity for the frame
type Resolver func(core.Entity) (x, y float64, ok bool)

// frame carries the per-update context behaviors read while transforming
// an output: elapsed time, viewport extent and the position resolver
type frame struct {
	delta     float64 // Seconds, clamped non-negative
	viewportW float64
	viewportH float64
	resolver  Resolver
}

// behavior is one stage of the fixed camera pipeline. The set is closed
// (Transposer, Composer, Confiner, Shake) and each owner holds at most one
// of each kind, applied in declared order; there is no runtime type probing
type behavior interface {
	name() string
	apply(out Output, fr *frame) Output
}
