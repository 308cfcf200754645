package parameter

// Virtual camera priority range
// Priorities are clamped to [PriorityMin, PriorityMax] on assignment;
// temporary boosts stack on top and may exceed PriorityMax
const (
	PriorityMin = 0
	PriorityMax = 100
)

// Camera defaults applied by NewVirtualCamera
const (
	// DefaultBlendTime is the blend duration in seconds for camera switches
	DefaultBlendTime = 0.5

	// DefaultZoom is the neutral zoom level (1:1)
	DefaultZoom = 1.0
)

// Viewport defaults used before the host reports a real size
const (
	DefaultViewportWidth  = 80.0
	DefaultViewportHeight = 24.0
)

// Shake noise shaping
// Three stacked sine channels produce non-repeating offsets; frequencies are
// relative multipliers of the behavior's base frequency
const (
	ShakeFreq1 = 1.0
	ShakeFreq2 = 2.3
	ShakeFreq3 = 5.1

	ShakeWeight1 = 0.5
	ShakeWeight2 = 0.3
	ShakeWeight3 = 0.2

	// Per-axis seed offsets decorrelate the x, y and rotation channels
	ShakeSeedOffsetY        = 71.3
	ShakeSeedOffsetRotation = 113.7
)

// Shake defaults applied by NewShake
const (
	DefaultShakeMaxOffset   = 1.5
	DefaultShakeMaxRotation = 2.0
	DefaultShakeFrequency   = 25.0
	DefaultShakeDecayRate   = 1.5
	DefaultTraumaExponent   = 2.0
)

// Letterbox defaults applied by NewLetterbox
const (
	// DefaultLetterboxRatio is the target aspect ratio of the unobscured area
	DefaultLetterboxRatio = 2.35

	// DefaultLetterboxTransition is the bar slide duration in seconds
	DefaultLetterboxTransition = 0.5
)
