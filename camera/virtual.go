package camera

import (
	"github.com/nlaroche/ascii-dungeon-sub002/core"
	"github.com/nlaroche/ascii-dungeon-sub002/parameter"
	"github.com/nlaroche/ascii-dungeon-sub002/vmath"
)

// VirtualCamera is one candidate viewpoint: a parameter record that never
// renders directly. At most one registered camera is live at a time; the
// Brain selects it by effective priority
type VirtualCamera struct {
	// Blend settings used when this camera becomes live
	BlendTime  float64 // Seconds, >= 0
	BlendCurve BlendCurve

	Zoom     float64 // > 0
	Rotation float64 // Degrees
	Profile  string  // Post-processing profile reference

	priority int // Clamped to [parameter.PriorityMin, parameter.PriorityMax]
	boost    int // Temporary stacked boost; may push effective priority past the cap
	active   bool
	enabled  bool

	// Registration state, owned by the Brain
	owner      core.Entity
	brain      *Brain
	generation uint64
}

// NewVirtualCamera returns an inactive camera with neutral defaults.
// Register it with Brain.AddCamera before use
func NewVirtualCamera() *VirtualCamera {
	return &VirtualCamera{
		BlendTime:  parameter.DefaultBlendTime,
		BlendCurve: BlendEaseInOut,
		Zoom:       parameter.DefaultZoom,
		enabled:    true,
	}
}

// Owner returns the owning entity, or NoEntity before registration
func (c *VirtualCamera) Owner() core.Entity {
	return c.owner
}

// Priority returns the base priority (boost excluded)
func (c *VirtualCamera) Priority() int {
	return c.priority
}

// SetPriority clamps p to the valid range and triggers re-evaluation
func (c *VirtualCamera) SetPriority(p int) {
	c.priority = vmath.ClampInt(p, parameter.PriorityMin, parameter.PriorityMax)
	if c.brain != nil {
		c.brain.Evaluate()
	}
}

// BoostPriority temporarily raises effective priority by amount and schedules
// a revert after duration seconds. The revert runs inside Brain.Update and
// no-ops unless the camera's registration generation still matches, so a
// removed or re-added camera is never resurrected by a stale revert.
// Ignored on an unregistered camera (no clock to schedule against)
func (c *VirtualCamera) BoostPriority(amount int, duration float64) {
	if c.brain == nil {
		return
	}
	c.boost += amount
	c.brain.scheduleBoostRevert(c.owner, c.generation, amount, duration)
	c.brain.Evaluate()
}

// effectivePriority is the selection key: base priority plus pending boosts
func (c *VirtualCamera) effectivePriority() int {
	return c.priority + c.boost
}

// Active reports the activation flag (not liveness)
func (c *VirtualCamera) Active() bool {
	return c.active
}

// Activate marks the camera selectable and triggers re-evaluation
func (c *VirtualCamera) Activate() {
	c.active = true
	if c.brain != nil {
		c.brain.Evaluate()
	}
}

// Deactivate withdraws the camera from selection and triggers re-evaluation
func (c *VirtualCamera) Deactivate() {
	c.active = false
	if c.brain != nil {
		c.brain.Evaluate()
	}
}

// Enabled reports the enable flag; a disabled camera is never selected
func (c *VirtualCamera) Enabled() bool {
	return c.enabled
}

// SetEnabled toggles selectability and triggers re-evaluation
func (c *VirtualCamera) SetEnabled(enabled bool) {
	c.enabled = enabled
	if c.brain != nil {
		c.brain.Evaluate()
	}
}

// IsLive reports whether this camera currently drives Brain output
func (c *VirtualCamera) IsLive() bool {
	return c.brain != nil && c.brain.LiveCamera() == c.owner && c.owner.Valid()
}

// SetZoom sets the zoom level; non-positive values fall back to neutral
// at composition time
func (c *VirtualCamera) SetZoom(zoom float64) {
	c.Zoom = zoom
}

// SetRotation sets the rotation in degrees
func (c *VirtualCamera) SetRotation(degrees float64) {
	c.Rotation = degrees
}

// Output computes this camera's composed output: the owner's resolved world
// position (origin when unresolvable) run through the owner's registered
// behaviors in fixed order. Requires registration; an unregistered camera
// returns its raw settings at the origin
func (c *VirtualCamera) Output() Output {
	if c.brain == nil {
		zoom := c.Zoom
		if zoom <= 0 {
			zoom = parameter.DefaultZoom
		}
		return Output{Zoom: zoom, Rotation: c.Rotation, Profile: c.Profile}
	}
	return c.brain.composeOutput(c.owner, c)
}
