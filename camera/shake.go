package camera

import (
	"math"

	"github.com/nlaroche/ascii-dungeon-sub002/core"
	"github.com/nlaroche/ascii-dungeon-sub002/event"
	"github.com/nlaroche/ascii-dungeon-sub002/parameter"
	"github.com/nlaroche/ascii-dungeon-sub002/vmath"
)

// Shake layers trauma-driven procedural offsets on the camera output.
// Trauma is a normalized 0..1 intensity that decays at DecayRate per second;
// the applied magnitude is trauma^TraumaExponent, so an exponent above 1
// ramps gently at low trauma and sharply near full trauma.
// Noise is a fixed three-sine stack seeded per instance, making a recorded
// shake reproducible on replay
type Shake struct {
	MaxOffsetX, MaxOffsetY float64
	MaxRotation            float64 // Degrees
	Frequency              float64 // Base oscillation rate, Hz
	DecayRate              float64 // Trauma lost per second
	TraumaExponent         float64

	trauma  float64 // 0..1
	elapsed float64
	seed    float64

	// Set at registration; nil queue means no events are emitted
	owner  core.Entity
	brain  *Brain
	events *event.Queue
}

// NewShake returns a shake behavior with the default profile.
// The seed fixes the noise phase; equal seeds reproduce equal shakes
func NewShake(seed float64) *Shake {
	return &Shake{
		MaxOffsetX:     parameter.DefaultShakeMaxOffset,
		MaxOffsetY:     parameter.DefaultShakeMaxOffset,
		MaxRotation:    parameter.DefaultShakeMaxRotation,
		Frequency:      parameter.DefaultShakeFrequency,
		DecayRate:      parameter.DefaultShakeDecayRate,
		TraumaExponent: parameter.DefaultTraumaExponent,
		seed:           seed,
	}
}

// Trauma returns the current normalized shake intensity
func (s *Shake) Trauma() float64 {
	return s.trauma
}

// AddTrauma raises trauma by amount, clamped to 1. A rise from zero emits
// a shake-start event carrying the projected duration amount/DecayRate
func (s *Shake) AddTrauma(amount float64) {
	was := s.trauma
	s.trauma = vmath.Clamp01(s.trauma + amount)
	if was <= 0 && s.trauma > 0 {
		var duration float64
		if s.DecayRate > 0 {
			duration = amount / s.DecayRate
		}
		s.emitStarted(duration)
	}
}

// SetTrauma overwrites trauma, firing start/end transitions as appropriate
func (s *Shake) SetTrauma(value float64) {
	was := s.trauma
	s.trauma = vmath.Clamp01(value)
	switch {
	case was <= 0 && s.trauma > 0:
		var duration float64
		if s.DecayRate > 0 {
			duration = s.trauma / s.DecayRate
		}
		s.emitStarted(duration)
	case was > 0 && s.trauma <= 0:
		s.emitEnded()
	}
}

// ClearTrauma stops the shake immediately
func (s *Shake) ClearTrauma() {
	s.SetTrauma(0)
}

// Shake is a convenience trigger equivalent to AddTrauma
func (s *Shake) Shake(intensity float64) {
	s.AddTrauma(intensity)
}

func (s *Shake) name() string { return "shake" }

func (s *Shake) apply(out Output, fr *frame) Output {
	if s.trauma <= 0 {
		return out
	}

	s.trauma -= s.DecayRate * fr.delta
	if s.trauma <= 0 {
		s.trauma = 0
		s.emitEnded()
		return out
	}

	s.elapsed += fr.delta
	magnitude := math.Pow(s.trauma, s.TraumaExponent)
	phase := s.elapsed * s.Frequency

	out.X += s.MaxOffsetX * magnitude * shakeNoise(phase+s.seed)
	out.Y += s.MaxOffsetY * magnitude * shakeNoise(phase+s.seed+parameter.ShakeSeedOffsetY)
	out.Rotation += s.MaxRotation * magnitude * shakeNoise(phase+s.seed+parameter.ShakeSeedOffsetRotation)
	return out
}

// shakeNoise samples a deterministic multi-frequency oscillation in [-1, 1]
func shakeNoise(p float64) float64 {
	return parameter.ShakeWeight1*math.Sin(p*parameter.ShakeFreq1) +
		parameter.ShakeWeight2*math.Sin(p*parameter.ShakeFreq2) +
		parameter.ShakeWeight3*math.Sin(p*parameter.ShakeFreq3)
}

func (s *Shake) emitStarted(duration float64) {
	if s.events == nil {
		return
	}
	s.events.Push(event.Event{
		Type:    event.EventShakeStarted,
		Payload: &event.ShakeStartedPayload{Owner: s.owner, Duration: duration},
		Frame:   s.frameNumber(),
	})
}

func (s *Shake) emitEnded() {
	if s.events == nil {
		return
	}
	s.events.Push(event.Event{
		Type:    event.EventShakeEnded,
		Payload: &event.ShakeEndedPayload{Owner: s.owner},
		Frame:   s.frameNumber(),
	})
}

func (s *Shake) frameNumber() int64 {
	if s.brain == nil {
		return 0
	}
	return s.brain.Frame()
}
