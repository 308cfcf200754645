package event

import (
	"github.com/nlaroche/ascii-dungeon-sub002/core"
)

// CameraLivePayload identifies the camera involved in a live transition
type CameraLivePayload struct {
	Owner core.Entity
}

// BlendCompletePayload identifies the finished blend endpoints
// From is NoEntity when the blend started without a prior live camera
type BlendCompletePayload struct {
	From core.Entity
	To   core.Entity
}

// BoostExpiredPayload reports a reverted priority boost
type BoostExpiredPayload struct {
	Owner  core.Entity
	Amount int
}

// ShakeStartedPayload carries the projected shake duration in seconds
// Duration is trauma divided by decay rate at trigger time; retriggers
// while already shaking do not emit a new start
type ShakeStartedPayload struct {
	Owner    core.Entity
	Duration float64
}

// ShakeEndedPayload identifies the shake that decayed to zero
type ShakeEndedPayload struct {
	Owner core.Entity
}

// LetterboxPayload identifies the letterbox that reached a boundary
type LetterboxPayload struct {
	Owner core.Entity
}
