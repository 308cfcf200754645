package camera

import (
	"github.com/nlaroche/ascii-dungeon-sub002/core"
)

// Composer frames a look-at target at a configured screen anchor, leading
// the target by its velocity so fast movers stay framed.
// Velocity comes from finite-differencing successive resolved positions
type Composer struct {
	LookAtTarget core.Entity

	// ScreenX/Y place the subject at a normalized viewport anchor
	// (0.5, 0.5 = center)
	ScreenX, ScreenY float64

	// Dead-zone and soft-zone sizing is accepted as configuration but not
	// applied: true screen-space dead-zoning needs a screen-to-world
	// projection this subsystem does not have. The composer tracks the
	// lookahead-adjusted goal directly
	DeadZoneWidth, DeadZoneHeight float64
	SoftZoneWidth, SoftZoneHeight float64
	SoftZoneBias                  float64

	LookaheadTime float64 // Seconds of velocity lead

	lastX, lastY float64
	hasLast      bool
}

// NewComposer returns a centered framing behavior for the given target
func NewComposer(target core.Entity) *Composer {
	return &Composer{
		LookAtTarget: target,
		ScreenX:      0.5,
		ScreenY:      0.5,
	}
}

func (c *Composer) name() string { return "composer" }

func (c *Composer) apply(out Output, fr *frame) Output {
	if !c.LookAtTarget.Valid() || fr.resolver == nil {
		return out
	}
	px, py, ok := fr.resolver(c.LookAtTarget)
	if !ok {
		return out
	}

	var velX, velY float64
	if c.hasLast && fr.delta > 0 {
		velX = (px - c.lastX) / fr.delta
		velY = (py - c.lastY) / fr.delta
	}
	c.lastX, c.lastY = px, py
	c.hasLast = true

	goalX := px + velX*c.LookaheadTime
	goalY := py + velY*c.LookaheadTime

	// Camera center such that the goal lands at the screen anchor:
	// anchor = 0.5 + (goal - center)/viewport, solved for center
	out.X = goalX - (c.ScreenX-0.5)*fr.viewportW
	out.Y = goalY - (c.ScreenY-0.5)*fr.viewportH
	return out
}
