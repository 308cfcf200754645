package camera

import (
	"github.com/nlaroche/ascii-dungeon-sub002/vmath"
)

// Confiner clamps the camera center to a world-space rectangle.
// With ConfineScreenEdges set, the clamp accounts for the visible viewport
// extent at the current zoom so the viewport rectangle itself stays inside
// the bounds; bounds smaller than the viewport on an axis center on the
// bounds midpoint instead (prevents inverted clamp ranges)
type Confiner struct {
	MinX, MinY float64
	MaxX, MaxY float64

	// Damping is accepted as configuration; the correction currently
	// applies immediately
	Damping float64

	ConfineScreenEdges bool
}

// NewConfiner returns a screen-edge confiner for the given bounds
func NewConfiner(minX, minY, maxX, maxY float64) *Confiner {
	return &Confiner{
		MinX: minX, MinY: minY,
		MaxX: maxX, MaxY: maxY,
		ConfineScreenEdges: true,
	}
}

func (c *Confiner) name() string { return "confiner" }

func (c *Confiner) apply(out Output, fr *frame) Output {
	if c.ConfineScreenEdges {
		zoom := out.Zoom
		if zoom <= 0 {
			zoom = 1
		}
		// Half-extents of the visible world area at this zoom
		halfW := fr.viewportW / (2 * zoom)
		halfH := fr.viewportH / (2 * zoom)
		out.X = confineAxis(out.X, c.MinX, c.MaxX, halfW)
		out.Y = confineAxis(out.Y, c.MinY, c.MaxY, halfH)
		return out
	}

	out.X = vmath.Clamp(out.X, c.MinX, c.MaxX)
	out.Y = vmath.Clamp(out.Y, c.MinY, c.MaxY)
	return out
}

// confineAxis clamps a viewport center so the visible span stays within
// [lo, hi]; when the span exceeds the bounds it centers on their midpoint
func confineAxis(center, lo, hi, half float64) float64 {
	if hi-lo >= 2*half {
		return vmath.Clamp(center, lo+half, hi-half)
	}
	return (lo + hi) / 2
}
