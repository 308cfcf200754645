package camera

import (
	"github.com/nlaroche/ascii-dungeon-sub002/core"
	"github.com/nlaroche/ascii-dungeon-sub002/vmath"
)

// BindingMode declares how the follow offset is anchored
type BindingMode int

const (
	// BindWorldSpace applies the offset in fixed world axes
	BindWorldSpace BindingMode = iota

	// BindLockToTarget would rotate the offset with the target's facing.
	// Target rotation is not exposed by the position resolver, so this mode
	// currently behaves like BindWorldSpace
	BindLockToTarget
)

// Transposer moves the camera toward a followed entity plus offset, with
// per-axis exponential damping. The smoothed position converges toward a
// stationary goal without overshoot; damping 0 follows exactly
type Transposer struct {
	FollowTarget       core.Entity
	OffsetX, OffsetY   float64
	DampingX, DampingY float64 // Time constants in seconds, >= 0
	Binding            BindingMode

	currentX, currentY float64
	initialized        bool
}

// NewTransposer returns a follow behavior for the given target with no
// offset and no damping
func NewTransposer(target core.Entity) *Transposer {
	return &Transposer{FollowTarget: target}
}

func (t *Transposer) name() string { return "transposer" }

func (t *Transposer) apply(out Output, fr *frame) Output {
	if !t.FollowTarget.Valid() || fr.resolver == nil {
		return out
	}
	tx, ty, ok := fr.resolver(t.FollowTarget)
	if !ok {
		return out
	}

	goalX := tx + t.OffsetX
	goalY := ty + t.OffsetY

	if !t.initialized {
		// First use snaps to the goal to avoid an initial pop
		t.currentX, t.currentY = goalX, goalY
		t.initialized = true
	} else {
		t.currentX += (goalX - t.currentX) * vmath.SmoothFactor(fr.delta, t.DampingX)
		t.currentY += (goalY - t.currentY) * vmath.SmoothFactor(fr.delta, t.DampingY)
	}

	out.X = t.currentX
	out.Y = t.currentY
	return out
}

// SnapToTarget discards the smoothed state so the next frame re-centers on
// the goal immediately, bypassing damping (used on camera activation)
func (t *Transposer) SnapToTarget() {
	t.initialized = false
}
