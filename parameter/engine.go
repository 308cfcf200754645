package parameter

// Frame Timing
const (
	// DefaultFrameDelta is the nominal delta applied on the very first update,
	// before two timestamps exist to difference (avoids division artifacts in
	// damping math)
	DefaultFrameDelta = 1.0 / 60.0
)

// Event Queue Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255
)
