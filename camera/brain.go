package camera

import (
	"time"

	"github.com/nlaroche/ascii-dungeon-sub002/core"
	"github.com/nlaroche/ascii-dungeon-sub002/event"
	"github.com/nlaroche/ascii-dungeon-sub002/parameter"
)

// Listener receives the final camera output at the end of each update
type Listener func(Output)

// PanicHandler reports a behavior that panicked during output composition.
// The behavior's contribution is dropped for the frame; the pipeline
// continues (fail-soft)
type PanicHandler func(owner core.Entity, behavior string, recovered any)

// pendingBoost is a scheduled priority-boost revert. The generation token
// captured at schedule time must still match the camera's registration for
// the revert to apply; otherwise it is silently dropped
type pendingBoost struct {
	owner      core.Entity
	generation uint64
	amount     int
	deadline   float64 // Brain clock seconds
}

type listenerEntry struct {
	id int
	fn Listener
}

// Brain coordinates virtual cameras and their behaviors: it owns the
// owner-keyed registries, runs priority selection, drives the blend state
// machine and publishes one Output per frame.
//
// The Brain is an explicit session object: construct one per simulation and
// hand it to every camera and behavior through registration. It is owned by
// exactly one simulation thread; registration and Update must not be
// interleaved from other goroutines without external synchronization
type Brain struct {
	cameras     *store[*VirtualCamera]
	transposers *store[*Transposer]
	composers   *store[*Composer]
	confiners   *store[*Confiner]
	shakes      *store[*Shake]
	letterboxes *store[*Letterbox]

	resolver  Resolver
	viewportW float64
	viewportH float64

	live     core.Entity
	blend    blendState
	previous Output

	lastTime  time.Time
	hasTime   bool
	deltaTime float64
	clock     float64 // Accumulated simulation seconds
	frameNum  int64

	generation uint64
	boosts     []pendingBoost

	listeners  []listenerEntry
	nextListen int

	events       *event.Queue
	panicHandler PanicHandler
}

// NewBrain creates an empty camera session
func NewBrain() *Brain {
	return &Brain{
		cameras:     newStore[*VirtualCamera](),
		transposers: newStore[*Transposer](),
		composers:   newStore[*Composer](),
		confiners:   newStore[*Confiner](),
		shakes:      newStore[*Shake](),
		letterboxes: newStore[*Letterbox](),
		viewportW:   parameter.DefaultViewportWidth,
		viewportH:   parameter.DefaultViewportHeight,
		previous:    DefaultOutput(),
		events:      event.NewQueue(),
	}
}

// SetResolver injects the entity position lookup used by cameras and
// behaviors. A nil resolver makes every position fall back to the origin
func (b *Brain) SetResolver(r Resolver) {
	b.resolver = r
}

// SetViewportSize updates the viewport extent in world position units
func (b *Brain) SetViewportSize(w, h float64) {
	b.viewportW = w
	b.viewportH = h
}

// ViewportSize returns the current viewport extent
func (b *Brain) ViewportSize() (w, h float64) {
	return b.viewportW, b.viewportH
}

// Events exposes the lifecycle event queue for the host to consume
func (b *Brain) Events() *event.Queue {
	return b.events
}

// SetPanicHandler installs the fail-soft report sink for behavior panics
func (b *Brain) SetPanicHandler(h PanicHandler) {
	b.panicHandler = h
}

// Frame returns the update counter
func (b *Brain) Frame() int64 {
	return b.frameNum
}

// DeltaTime returns the last update's clamped frame delta in seconds
func (b *Brain) DeltaTime() float64 {
	return b.deltaTime
}

// LiveCamera returns the owner of the camera driving output, or NoEntity
func (b *Brain) LiveCamera() core.Entity {
	return b.live
}

// IsBlending reports whether a camera-to-camera blend is in flight
func (b *Brain) IsBlending() bool {
	return b.blend.active
}

// BlendProgress returns the in-flight blend progress in [0, 1], or 0 when
// no blend is active
func (b *Brain) BlendProgress() float64 {
	if !b.blend.active {
		return 0
	}
	return b.blend.progress
}

// --- Registration ---

// AddCamera registers a camera under its owning entity and re-evaluates
// selection. Re-registering an owner replaces the previous camera and
// advances the generation token, invalidating stale boost reverts
func (b *Brain) AddCamera(owner core.Entity, cam *VirtualCamera) {
	b.generation++
	cam.owner = owner
	cam.brain = b
	cam.generation = b.generation
	b.cameras.Set(owner, cam)
	b.Evaluate()
}

// RemoveCamera unregisters an owner's camera. If it was live, selection is
// re-evaluated immediately
func (b *Brain) RemoveCamera(owner core.Entity) {
	cam, ok := b.cameras.Get(owner)
	if !ok {
		return
	}
	cam.brain = nil
	b.cameras.Remove(owner)
	if b.live == owner {
		b.Evaluate()
	}
}

// AddTransposer registers a follow behavior for an owner
func (b *Brain) AddTransposer(owner core.Entity, t *Transposer) {
	b.transposers.Set(owner, t)
}

// RemoveTransposer unregisters an owner's follow behavior
func (b *Brain) RemoveTransposer(owner core.Entity) {
	b.transposers.Remove(owner)
}

// AddComposer registers a framing behavior for an owner
func (b *Brain) AddComposer(owner core.Entity, c *Composer) {
	b.composers.Set(owner, c)
}

// RemoveComposer unregisters an owner's framing behavior
func (b *Brain) RemoveComposer(owner core.Entity) {
	b.composers.Remove(owner)
}

// AddConfiner registers a bounds behavior for an owner
func (b *Brain) AddConfiner(owner core.Entity, c *Confiner) {
	b.confiners.Set(owner, c)
}

// RemoveConfiner unregisters an owner's bounds behavior
func (b *Brain) RemoveConfiner(owner core.Entity) {
	b.confiners.Remove(owner)
}

// AddShake registers a shake behavior for an owner and wires it to the
// session's event queue
func (b *Brain) AddShake(owner core.Entity, s *Shake) {
	s.owner = owner
	s.brain = b
	s.events = b.events
	b.shakes.Set(owner, s)
}

// RemoveShake unregisters an owner's shake behavior
func (b *Brain) RemoveShake(owner core.Entity) {
	if s, ok := b.shakes.Get(owner); ok {
		s.brain = nil
		s.events = nil
	}
	b.shakes.Remove(owner)
}

// AddLetterbox registers a letterbox for an owner
func (b *Brain) AddLetterbox(owner core.Entity, l *Letterbox) {
	b.letterboxes.Set(owner, l)
}

// RemoveLetterbox unregisters an owner's letterbox
func (b *Brain) RemoveLetterbox(owner core.Entity) {
	b.letterboxes.Remove(owner)
}

// Letterbox returns an owner's registered letterbox
func (b *Brain) Letterbox(owner core.Entity) (*Letterbox, bool) {
	return b.letterboxes.Get(owner)
}

// Shake returns an owner's registered shake behavior
func (b *Brain) Shake(owner core.Entity) (*Shake, bool) {
	return b.shakes.Get(owner)
}

// Transposer returns an owner's registered follow behavior
func (b *Brain) Transposer(owner core.Entity) (*Transposer, bool) {
	return b.transposers.Get(owner)
}

// Camera returns an owner's registered camera
func (b *Brain) Camera(owner core.Entity) (*VirtualCamera, bool) {
	return b.cameras.Get(owner)
}

// RemoveOwner unregisters an owner's camera and every behavior at once
// (owner-detach lifecycle hook)
func (b *Brain) RemoveOwner(owner core.Entity) {
	b.RemoveCamera(owner)
	b.RemoveTransposer(owner)
	b.RemoveComposer(owner)
	b.RemoveConfiner(owner)
	b.RemoveShake(owner)
	b.RemoveLetterbox(owner)
}

// --- Selection ---

// Evaluate scans all cameras and makes the highest-priority active and
// enabled one live. Ties resolve to the earliest-registered candidate
// (stable registration order). A selection change starts a blend using the
// incoming camera's settings and fires deactivate/activate exactly once
func (b *Brain) Evaluate() {
	var best *VirtualCamera
	bestOwner := core.NoEntity
	for _, owner := range b.cameras.Owners() {
		cam, ok := b.cameras.Get(owner)
		if !ok || !cam.active || !cam.enabled {
			continue
		}
		// Strict greater-than keeps the earliest registration on ties
		if best == nil || cam.effectivePriority() > best.effectivePriority() {
			best = cam
			bestOwner = owner
		}
	}

	if bestOwner == b.live {
		return
	}

	prev := b.live
	if bestOwner == core.NoEntity {
		// No candidate: output keeps the cached value until one appears
		b.live = core.NoEntity
		b.blend = blendState{}
		b.emitLive(event.EventCameraDeactivated, prev)
		return
	}

	b.blend = blendState{
		active:   true,
		from:     prev,
		progress: 0,
		duration: best.BlendTime,
		curve:    best.BlendCurve,
	}
	b.emitLive(event.EventCameraDeactivated, prev)
	b.live = bestOwner
	b.emitLive(event.EventCameraActivated, bestOwner)
}

// SwitchToCamera force-selects a camera by boosting its effective priority
// above the current maximum. Immediate mode skips blending: the camera is
// marked live directly and drives output fully on the next update.
// Returns false when the owner has no registered camera
func (b *Brain) SwitchToCamera(owner core.Entity, immediate bool) bool {
	cam, ok := b.cameras.Get(owner)
	if !ok {
		return false
	}

	cam.active = true
	maxPriority := b.maxEffectivePriority(owner)
	if cam.effectivePriority() <= maxPriority {
		cam.boost += maxPriority - cam.effectivePriority() + 1
	}

	if immediate {
		if b.live == owner {
			b.blend = blendState{}
			return true
		}
		prev := b.live
		b.blend = blendState{}
		b.emitLive(event.EventCameraDeactivated, prev)
		b.live = owner
		b.emitLive(event.EventCameraActivated, owner)
		return true
	}

	b.Evaluate()
	return true
}

// maxEffectivePriority scans selectable cameras, skipping the excluded owner
func (b *Brain) maxEffectivePriority(exclude core.Entity) int {
	max := 0
	for _, owner := range b.cameras.Owners() {
		if owner == exclude {
			continue
		}
		cam, ok := b.cameras.Get(owner)
		if !ok || !cam.active || !cam.enabled {
			continue
		}
		if cam.effectivePriority() > max {
			max = cam.effectivePriority()
		}
	}
	return max
}

// --- Frame update ---

// Update advances the subsystem by one frame and returns the final output.
// The delta is the non-negative difference from the previous call's
// timestamp; the first frame uses a nominal default. With no live camera
// the cached previous output is returned unchanged. Listeners are notified
// synchronously at the end. Update never panics outward: behavior panics
// are contained per behavior per frame
func (b *Brain) Update(now time.Time) Output {
	var dt float64
	if b.hasTime {
		dt = now.Sub(b.lastTime).Seconds()
		if dt < 0 {
			dt = 0
		}
	} else {
		dt = parameter.DefaultFrameDelta
		b.hasTime = true
	}
	b.lastTime = now
	b.deltaTime = dt
	b.clock += dt
	b.frameNum++

	b.processBoosts()
	b.updateLetterboxes(dt)

	liveCam, ok := b.cameras.Get(b.live)
	if !b.live.Valid() || !ok {
		b.notify(b.previous)
		return b.previous
	}

	liveOut := b.composeOutput(b.live, liveCam)
	out := liveOut

	if b.blend.active {
		fromOut := b.previous
		if b.blend.from.Valid() {
			if fromCam, ok := b.cameras.Get(b.blend.from); ok {
				fromOut = b.composeOutput(b.blend.from, fromCam)
			}
		}
		done := b.blend.advance(dt)
		t := Ease(b.blend.curve, b.blend.progress)
		out = lerpOutput(fromOut, liveOut, t)
		if done {
			from := b.blend.from
			b.blend = blendState{}
			b.events.Push(event.Event{
				Type:    event.EventBlendComplete,
				Payload: &event.BlendCompletePayload{From: from, To: b.live},
				Frame:   b.frameNum,
			})
		}
	}

	b.previous = out
	b.notify(out)
	return out
}

// Output returns the most recent published output (copy-on-read)
func (b *Brain) Output() Output {
	return b.previous
}

// composeOutput builds a camera's raw output from its owner's resolved
// position and runs it through the owner's behaviors in fixed order:
// transposer, composer, confiner, shake. Absent behaviors are identity
func (b *Brain) composeOutput(owner core.Entity, cam *VirtualCamera) Output {
	x, y := b.resolvePosition(owner)
	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = parameter.DefaultZoom
	}
	out := Output{X: x, Y: y, Zoom: zoom, Rotation: cam.Rotation, Profile: cam.Profile}

	fr := frame{
		delta:     b.deltaTime,
		viewportW: b.viewportW,
		viewportH: b.viewportH,
		resolver:  b.resolver,
	}

	if t, ok := b.transposers.Get(owner); ok {
		out = b.applyBehavior(owner, t, out, &fr)
	}
	if c, ok := b.composers.Get(owner); ok {
		out = b.applyBehavior(owner, c, out, &fr)
	}
	if c, ok := b.confiners.Get(owner); ok {
		out = b.applyBehavior(owner, c, out, &fr)
	}
	if s, ok := b.shakes.Get(owner); ok {
		out = b.applyBehavior(owner, s, out, &fr)
	}
	return out
}

// resolvePosition looks up an owner's world position with panic containment,
// falling back to the origin when the resolver is missing, fails or panics
func (b *Brain) resolvePosition(owner core.Entity) (x, y float64) {
	if b.resolver == nil {
		return 0, 0
	}
	defer func() {
		if r := recover(); r != nil {
			x, y = 0, 0
			if b.panicHandler != nil {
				b.panicHandler(owner, "resolver", r)
			}
		}
	}()
	rx, ry, ok := b.resolver(owner)
	if !ok {
		return 0, 0
	}
	return rx, ry
}

// applyBehavior runs one pipeline stage with panic containment: a panicking
// behavior contributes identity for this frame and the panic is reported
// through the installed handler
func (b *Brain) applyBehavior(owner core.Entity, bh behavior, out Output, fr *frame) (result Output) {
	result = out
	defer func() {
		if r := recover(); r != nil {
			result = out
			if b.panicHandler != nil {
				b.panicHandler(owner, bh.name(), r)
			}
		}
	}()
	return bh.apply(out, fr)
}

// --- Boost reverts ---

// scheduleBoostRevert queues a frame-synchronous revert processed inside
// Update once the session clock passes the deadline
func (b *Brain) scheduleBoostRevert(owner core.Entity, generation uint64, amount int, duration float64) {
	b.boosts = append(b.boosts, pendingBoost{
		owner:      owner,
		generation: generation,
		amount:     amount,
		deadline:   b.clock + duration,
	})
}

func (b *Brain) processBoosts() {
	if len(b.boosts) == 0 {
		return
	}
	remaining := b.boosts[:0]
	changed := false
	for _, pb := range b.boosts {
		if pb.deadline > b.clock {
			remaining = append(remaining, pb)
			continue
		}
		cam, ok := b.cameras.Get(pb.owner)
		if !ok || cam.generation != pb.generation {
			// Camera removed or re-registered since the boost: drop silently
			continue
		}
		cam.boost -= pb.amount
		changed = true
		b.events.Push(event.Event{
			Type:    event.EventBoostExpired,
			Payload: &event.BoostExpiredPayload{Owner: pb.owner, Amount: pb.amount},
			Frame:   b.frameNum,
		})
	}
	b.boosts = remaining
	if changed {
		b.Evaluate()
	}
}

// --- Letterboxes ---

func (b *Brain) updateLetterboxes(dt float64) {
	for _, owner := range b.letterboxes.Owners() {
		l, ok := b.letterboxes.Get(owner)
		if !ok {
			continue
		}
		switch l.update(dt) {
		case 1:
			b.events.Push(event.Event{
				Type:    event.EventLetterboxShown,
				Payload: &event.LetterboxPayload{Owner: owner},
				Frame:   b.frameNum,
			})
		case -1:
			b.events.Push(event.Event{
				Type:    event.EventLetterboxHidden,
				Payload: &event.LetterboxPayload{Owner: owner},
				Frame:   b.frameNum,
			})
		}
	}
}

// --- Listeners ---

// AddListener registers a synchronous output observer and returns its id
func (b *Brain) AddListener(fn Listener) int {
	b.nextListen++
	b.listeners = append(b.listeners, listenerEntry{id: b.nextListen, fn: fn})
	return b.nextListen
}

// RemoveListener unregisters a listener by id
func (b *Brain) RemoveListener(id int) {
	for i, entry := range b.listeners {
		if entry.id == id {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Subscribe registers a listener and returns its unsubscribe function
func (b *Brain) Subscribe(fn Listener) func() {
	id := b.AddListener(fn)
	return func() { b.RemoveListener(id) }
}

func (b *Brain) notify(out Output) {
	for _, entry := range b.listeners {
		entry.fn(out)
	}
}

func (b *Brain) emitLive(t event.EventType, owner core.Entity) {
	if !owner.Valid() {
		return
	}
	b.events.Push(event.Event{
		Type:    t,
		Payload: &event.CameraLivePayload{Owner: owner},
		Frame:   b.frameNum,
	})
}

// --- Session lifecycle ---

// Reset clears all registries, blend state, pending boosts and listeners
// (session end). The resolver, viewport and event queue are kept so a new
// session can reuse the Brain
func (b *Brain) Reset() {
	for _, owner := range b.cameras.Owners() {
		if cam, ok := b.cameras.Get(owner); ok {
			cam.brain = nil
		}
	}
	b.cameras.Clear()
	b.transposers.Clear()
	b.composers.Clear()
	b.confiners.Clear()
	b.shakes.Clear()
	b.letterboxes.Clear()
	b.live = core.NoEntity
	b.blend = blendState{}
	b.boosts = nil
	b.listeners = nil
	b.previous = DefaultOutput()
	b.hasTime = false
	b.deltaTime = 0
	b.clock = 0
	b.frameNum = 0
}
