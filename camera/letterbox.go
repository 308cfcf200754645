package camera

import (
	"github.com/gdamore/tcell/v2"

	"github.com/nlaroche/ascii-dungeon-sub002/parameter"
	"github.com/nlaroche/ascii-dungeon-sub002/vmath"
)

// Letterbox produces cinematic bar heights independent of the camera output
// pipeline. Bars slide in and out over TransitionTime; boundary events fire
// exactly once each time an edge (fully shown, fully hidden) is reached
type Letterbox struct {
	// TargetRatio is the width/height aspect of the unobscured area
	TargetRatio    float64
	Enabled        bool
	TransitionTime float64 // Seconds for a full 0..1 slide
	BarColor       tcell.Color

	currentAmount float64 // 0 = hidden, 1 = fully shown
	targetAmount  float64
}

// NewLetterbox returns an enabled letterbox with the default cinematic ratio
func NewLetterbox() *Letterbox {
	return &Letterbox{
		TargetRatio:    parameter.DefaultLetterboxRatio,
		Enabled:        true,
		TransitionTime: parameter.DefaultLetterboxTransition,
		BarColor:       tcell.ColorBlack,
	}
}

// Show slides the bars in
func (l *Letterbox) Show() { l.targetAmount = 1 }

// Hide slides the bars out
func (l *Letterbox) Hide() { l.targetAmount = 0 }

// Toggle flips the slide direction
func (l *Letterbox) Toggle() {
	if l.targetAmount > 0 {
		l.Hide()
	} else {
		l.Show()
	}
}

// Amount returns the current bar extension in [0, 1]
func (l *Letterbox) Amount() float64 {
	return l.currentAmount
}

// Showing reports whether the bars are sliding in or fully shown
func (l *Letterbox) Showing() bool {
	return l.targetAmount > 0
}

// update moves currentAmount toward targetAmount at rate 1/TransitionTime.
// Returns +1 when the fully-shown edge is reached this step, -1 for the
// fully-hidden edge, 0 otherwise. An amount already at its target never
// re-reports its edge
func (l *Letterbox) update(dt float64) int {
	if !l.Enabled || l.currentAmount == l.targetAmount {
		return 0
	}

	if l.TransitionTime <= 0 {
		l.currentAmount = l.targetAmount
	} else {
		step := dt / l.TransitionTime
		if l.currentAmount < l.targetAmount {
			l.currentAmount = vmath.Clamp(l.currentAmount+step, 0, l.targetAmount)
		} else {
			l.currentAmount = vmath.Clamp(l.currentAmount-step, l.targetAmount, 1)
		}
	}

	switch l.currentAmount {
	case 1:
		return 1
	case 0:
		return -1
	}
	return 0
}

// BarHeight returns the height of one bar (top or bottom) for the given
// viewport, scaled by the current slide amount. Zero when the viewport is
// already at least as wide as the target ratio
func (l *Letterbox) BarHeight(viewportW, viewportH float64) float64 {
	if !l.Enabled || viewportH <= 0 || l.TargetRatio <= 0 {
		return 0
	}
	ratio := viewportW / viewportH
	if ratio >= l.TargetRatio {
		return 0
	}
	return (viewportH - viewportW/l.TargetRatio) / 2 * l.currentAmount
}
