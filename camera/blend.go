package camera

import (
	"github.com/nlaroche/ascii-dungeon-sub002/core"
	"github.com/nlaroche/ascii-dungeon-sub002/vmath"
)

// BlendCurve selects the easing applied to blend progress
type BlendCurve int

const (
	// BlendLinear maps progress straight through
	BlendLinear BlendCurve = iota

	// BlendEaseIn starts slow (t squared)
	BlendEaseIn

	// BlendEaseOut ends slow (inverted square)
	BlendEaseOut

	// BlendEaseInOut starts and ends slow (piecewise cubic)
	BlendEaseInOut

	// BlendCut snaps to the incoming camera on the next update,
	// ignoring elapsed blend time
	BlendCut
)

// String returns the curve's config-file spelling
func (c BlendCurve) String() string {
	switch c {
	case BlendEaseIn:
		return "easeIn"
	case BlendEaseOut:
		return "easeOut"
	case BlendEaseInOut:
		return "easeInOut"
	case BlendCut:
		return "cut"
	default:
		return "linear"
	}
}

// ParseBlendCurve maps a config-file spelling to a curve.
// Unknown spellings fall back to linear
func ParseBlendCurve(s string) BlendCurve {
	switch s {
	case "easeIn":
		return BlendEaseIn
	case "easeOut":
		return BlendEaseOut
	case "easeInOut":
		return BlendEaseInOut
	case "cut":
		return BlendCut
	default:
		return BlendLinear
	}
}

// Ease maps clamped blend progress through the curve.
// Cut returns 1 unconditionally
func Ease(curve BlendCurve, t float64) float64 {
	t = vmath.Clamp01(t)
	switch curve {
	case BlendEaseIn:
		return t * t
	case BlendEaseOut:
		return 1 - (1-t)*(1-t)
	case BlendEaseInOut:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	case BlendCut:
		return 1
	default:
		return t
	}
}

// blendState tracks an in-flight camera-to-camera blend.
// progress is monotonically non-decreasing within one blend and the blend
// is cleared exactly when it reaches 1
type blendState struct {
	active   bool
	from     core.Entity // NoEntity when blending from the cached output
	progress float64     // 0..1
	duration float64     // Seconds; <= 0 snaps to 1
	curve    BlendCurve
}

// advance integrates dt into blend progress and reports completion.
// duration <= 0 and cut curves snap to 1 immediately
func (b *blendState) advance(dt float64) (done bool) {
	if !b.active {
		return false
	}
	if b.duration <= 0 || b.curve == BlendCut {
		b.progress = 1
	} else {
		b.progress = vmath.Clamp01(b.progress + dt/b.duration)
	}
	return b.progress >= 1
}
