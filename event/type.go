package event

// EventType represents the type of camera event
type EventType int

const (
	// === Camera Lifecycle ===

	// EventCameraActivated signals a camera became live
	// Trigger: Brain selection change | Payload: *CameraLivePayload
	EventCameraActivated EventType = iota

	// EventCameraDeactivated signals a camera stopped being live
	// Trigger: Brain selection change | Payload: *CameraLivePayload
	EventCameraDeactivated

	// EventBlendComplete signals a camera blend finished
	// Trigger: blend progress reaching 1 | Payload: *BlendCompletePayload
	EventBlendComplete

	// EventBoostExpired signals a temporary priority boost was reverted
	// Trigger: boost deadline inside Brain.Update | Payload: *BoostExpiredPayload
	EventBoostExpired

	// === Shake ===

	// EventShakeStarted signals trauma rose from zero
	// Trigger: Shake.AddTrauma | Payload: *ShakeStartedPayload
	EventShakeStarted

	// EventShakeEnded signals trauma decayed back to zero
	// Trigger: trauma decay inside the frame pipeline | Payload: *ShakeEndedPayload
	EventShakeEnded

	// === Letterbox ===

	// EventLetterboxShown signals bars fully extended
	// Trigger: letterbox amount reaching 1 | Payload: *LetterboxPayload
	EventLetterboxShown

	// EventLetterboxHidden signals bars fully retracted
	// Trigger: letterbox amount reaching 0 | Payload: *LetterboxPayload
	EventLetterboxHidden
)

// Event is a single camera event with optional typed payload
// Frame is the Brain frame number at emission, letting consumers drop
// stale events after a reset
type Event struct {
	Type    EventType
	Payload any
	Frame   int64
}
