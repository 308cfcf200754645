package camera

import (
	"math"
	"testing"
	"time"

	"github.com/nlaroche/ascii-dungeon-sub002/core"
	"github.com/nlaroche/ascii-dungeon-sub002/event"
)

const (
	entityA core.Entity = 1
	entityB core.Entity = 2
	entityC core.Entity = 3
)

// mapResolver builds a Resolver over a fixed position table
func mapResolver(positions map[core.Entity][2]float64) Resolver {
	return func(e core.Entity) (float64, float64, bool) {
		p, ok := positions[e]
		return p[0], p[1], ok
	}
}

// newTestBrain returns a brain with a resolver over the given positions and
// an established timebase (one priming update)
func newTestBrain(positions map[core.Entity][2]float64) (*Brain, time.Time) {
	b := NewBrain()
	b.SetResolver(mapResolver(positions))
	base := time.Unix(100, 0)
	b.Update(base)
	return b, base
}

// addCamera registers an active camera with the given priority and blend
func addCamera(b *Brain, owner core.Entity, priority int, blendTime float64, curve BlendCurve) *VirtualCamera {
	cam := NewVirtualCamera()
	cam.BlendTime = blendTime
	cam.BlendCurve = curve
	b.AddCamera(owner, cam)
	cam.SetPriority(priority)
	cam.Activate()
	return cam
}

// countEvents consumes the queue and tallies events by type
func countEvents(q *event.Queue) map[event.EventType]int {
	counts := make(map[event.EventType]int)
	for _, ev := range q.Consume() {
		counts[ev.Type]++
	}
	return counts
}

// TestHighestPrioritySelected verifies the maximal-priority active camera
// becomes live and its activation hook fires exactly once
func TestHighestPrioritySelected(t *testing.T) {
	b, _ := newTestBrain(map[core.Entity][2]float64{entityA: {0, 0}, entityB: {10, 0}})
	addCamera(b, entityA, 10, 0, BlendLinear)
	addCamera(b, entityB, 20, 0, BlendLinear)

	if b.LiveCamera() != entityB {
		t.Fatalf("live camera = %d, want %d", b.LiveCamera(), entityB)
	}

	activatedB := 0
	for _, ev := range b.Events().Consume() {
		if ev.Type == event.EventCameraActivated {
			if p, ok := ev.Payload.(*event.CameraLivePayload); ok && p.Owner == entityB {
				activatedB++
			}
		}
	}
	if activatedB != 1 {
		t.Errorf("camera B activation events = %d, want exactly 1", activatedB)
	}
}

// TestPriorityTieEarliestRegistered verifies ties resolve to the camera
// registered first, regardless of later additions
func TestPriorityTieEarliestRegistered(t *testing.T) {
	b, _ := newTestBrain(nil)
	addCamera(b, entityA, 10, 0, BlendLinear)
	addCamera(b, entityB, 10, 0, BlendLinear)
	addCamera(b, entityC, 10, 0, BlendLinear)

	if b.LiveCamera() != entityA {
		t.Errorf("live camera = %d, want earliest-registered %d", b.LiveCamera(), entityA)
	}
}

// TestDisabledCameraNeverSelected verifies enabled gating
func TestDisabledCameraNeverSelected(t *testing.T) {
	b, _ := newTestBrain(nil)
	high := addCamera(b, entityA, 90, 0, BlendLinear)
	addCamera(b, entityB, 10, 0, BlendLinear)

	high.SetEnabled(false)
	if b.LiveCamera() != entityB {
		t.Errorf("live camera = %d, want %d after disabling the high-priority one", b.LiveCamera(), entityB)
	}

	high.SetEnabled(true)
	if b.LiveCamera() != entityA {
		t.Errorf("live camera = %d, want %d after re-enabling", b.LiveCamera(), entityA)
	}
}

// TestLinearBlendMidpoint steps a 1-second linear blend from a camera at
// (0,0) to one at (10,0) and samples the halfway point
func TestLinearBlendMidpoint(t *testing.T) {
	b, now := newTestBrain(map[core.Entity][2]float64{entityA: {0, 0}, entityB: {10, 0}})
	addCamera(b, entityA, 20, 0, BlendLinear)
	camB := addCamera(b, entityB, 10, 1.0, BlendLinear)

	now = now.Add(50 * time.Millisecond)
	b.Update(now)

	camB.SetPriority(30) // Switch to B, starting B's 1s linear blend

	var out Output
	for i := 0; i < 10; i++ { // 0.5s at 20 fps
		now = now.Add(50 * time.Millisecond)
		out = b.Update(now)
	}

	if math.Abs(out.X-5.0) > 1e-9 {
		t.Errorf("output.X at blend midpoint = %v, want 5.0", out.X)
	}
	if p := b.BlendProgress(); math.Abs(p-0.5) > 1e-9 {
		t.Errorf("blend progress = %v, want 0.5", p)
	}
}

// TestBlendProgressMonotonic verifies progress never decreases and the
// blend clears exactly when it reaches 1
func TestBlendProgressMonotonic(t *testing.T) {
	b, now := newTestBrain(map[core.Entity][2]float64{entityA: {0, 0}, entityB: {10, 0}})
	addCamera(b, entityA, 20, 0, BlendLinear)
	camB := addCamera(b, entityB, 10, 0.3, BlendEaseInOut)
	camB.SetPriority(30)

	prev := 0.0
	completions := 0
	for i := 0; i < 30; i++ {
		now = now.Add(20 * time.Millisecond)
		b.Update(now)
		for _, ev := range b.Events().Consume() {
			if ev.Type == event.EventBlendComplete {
				completions++
			}
		}
		if b.IsBlending() {
			p := b.BlendProgress()
			if p < prev {
				t.Fatalf("blend progress decreased from %v to %v", prev, p)
			}
			if p < 0 || p > 1 {
				t.Fatalf("blend progress %v outside [0,1]", p)
			}
			prev = p
		}
	}

	if b.IsBlending() {
		t.Error("blend still active after 0.6s of a 0.3s blend")
	}
	if completions != 1 {
		t.Errorf("blend-complete events = %d, want exactly 1", completions)
	}
}

// TestCutCurveSnapsFirstFrame verifies a cut switch outputs the live
// camera's value on the very next update despite a long blend time
func TestCutCurveSnapsFirstFrame(t *testing.T) {
	b, now := newTestBrain(map[core.Entity][2]float64{entityA: {0, 0}, entityB: {10, 0}})
	addCamera(b, entityA, 20, 0, BlendLinear)
	camB := addCamera(b, entityB, 10, 10.0, BlendCut)
	camB.SetPriority(30)

	now = now.Add(time.Millisecond) // Tiny elapsed time
	out := b.Update(now)

	if out.X != 10 {
		t.Errorf("output.X on first frame after cut = %v, want 10", out.X)
	}
	if b.IsBlending() {
		t.Error("blend still active after cut switch")
	}
}

// TestZeroBlendDurationSnaps verifies blendTime 0 behaves like a cut
func TestZeroBlendDurationSnaps(t *testing.T) {
	b, now := newTestBrain(map[core.Entity][2]float64{entityA: {0, 0}, entityB: {10, 0}})
	addCamera(b, entityA, 20, 0, BlendLinear)
	camB := addCamera(b, entityB, 10, 0, BlendLinear)
	camB.SetPriority(30)

	now = now.Add(time.Millisecond)
	out := b.Update(now)
	if out.X != 10 {
		t.Errorf("output.X = %v, want 10 (zero-duration blend snaps)", out.X)
	}
}

// TestNoCameraReturnsCached verifies an empty registry yields the default
// output and a drained registry yields the last computed output
func TestNoCameraReturnsCached(t *testing.T) {
	b, now := newTestBrain(map[core.Entity][2]float64{entityA: {4, 7}})

	out := b.Update(now.Add(time.Second))
	if out != DefaultOutput() {
		t.Errorf("empty-registry output = %+v, want default", out)
	}

	addCamera(b, entityA, 10, 0, BlendLinear)
	now = now.Add(2 * time.Second)
	out = b.Update(now)
	if out.X != 4 || out.Y != 7 {
		t.Fatalf("live output = %+v, want position (4,7)", out)
	}

	b.RemoveCamera(entityA)
	out = b.Update(now.Add(time.Second))
	if out.X != 4 || out.Y != 7 {
		t.Errorf("cached output after removal = %+v, want (4,7)", out)
	}
}

// TestRemoveLiveCameraReevaluates verifies removal of the live camera
// promotes the next candidate immediately
func TestRemoveLiveCameraReevaluates(t *testing.T) {
	b, _ := newTestBrain(nil)
	addCamera(b, entityA, 50, 0, BlendLinear)
	addCamera(b, entityB, 10, 0, BlendLinear)

	if b.LiveCamera() != entityA {
		t.Fatalf("live camera = %d, want %d", b.LiveCamera(), entityA)
	}
	b.RemoveCamera(entityA)
	if b.LiveCamera() != entityB {
		t.Errorf("live camera after removal = %d, want %d", b.LiveCamera(), entityB)
	}
}

// TestBlendFromRemovedCameraFallsBack verifies a blend whose source camera
// vanished interpolates from the cached output instead
func TestBlendFromRemovedCameraFallsBack(t *testing.T) {
	b, now := newTestBrain(map[core.Entity][2]float64{entityA: {2, 0}, entityB: {10, 0}})
	addCamera(b, entityA, 20, 0, BlendLinear)
	now = now.Add(50 * time.Millisecond)
	b.Update(now) // Cache (2,0)

	camB := addCamera(b, entityB, 10, 1.0, BlendLinear)
	camB.SetPriority(30)
	b.RemoveCamera(entityA)

	now = now.Add(100 * time.Millisecond) // Progress 0.1
	out := b.Update(now)
	want := 2 + (10-2)*0.1
	if math.Abs(out.X-want) > 1e-9 {
		t.Errorf("output.X = %v, want %v (lerp from cached (2,0))", out.X, want)
	}
}

// TestSwitchToCameraImmediate verifies immediate switches skip blending
func TestSwitchToCameraImmediate(t *testing.T) {
	b, now := newTestBrain(map[core.Entity][2]float64{entityA: {0, 0}, entityB: {10, 0}})
	addCamera(b, entityA, 50, 0, BlendLinear)
	addCamera(b, entityB, 10, 5.0, BlendLinear)

	if !b.SwitchToCamera(entityB, true) {
		t.Fatal("SwitchToCamera returned false for a registered camera")
	}
	if b.LiveCamera() != entityB {
		t.Fatalf("live camera = %d, want %d", b.LiveCamera(), entityB)
	}
	if b.IsBlending() {
		t.Error("immediate switch left a blend active")
	}

	out := b.Update(now.Add(time.Millisecond))
	if out.X != 10 {
		t.Errorf("output.X = %v, want 10 right after immediate switch", out.X)
	}
}

// TestSwitchToCameraBlended verifies the non-immediate switch wins selection
// through boosting and blends normally
func TestSwitchToCameraBlended(t *testing.T) {
	b, _ := newTestBrain(map[core.Entity][2]float64{entityA: {0, 0}, entityB: {10, 0}})
	addCamera(b, entityA, 100, 0, BlendLinear)
	addCamera(b, entityB, 0, 1.0, BlendLinear)

	if !b.SwitchToCamera(entityB, false) {
		t.Fatal("SwitchToCamera returned false")
	}
	if b.LiveCamera() != entityB {
		t.Errorf("live camera = %d, want %d (boosted past 100)", b.LiveCamera(), entityB)
	}
	if !b.IsBlending() {
		t.Error("expected a blend in flight after non-immediate switch")
	}

	if b.SwitchToCamera(99, false) {
		t.Error("SwitchToCamera succeeded for an unregistered owner")
	}
}

// TestBoostRevertsAfterDuration verifies a temporary boost expires through
// the frame-synchronous scheduler and selection falls back
func TestBoostRevertsAfterDuration(t *testing.T) {
	b, now := newTestBrain(nil)
	camA := addCamera(b, entityA, 10, 0, BlendLinear)
	addCamera(b, entityB, 20, 0, BlendLinear)

	if b.LiveCamera() != entityB {
		t.Fatalf("live camera = %d, want %d", b.LiveCamera(), entityB)
	}

	camA.BoostPriority(50, 0.5)
	if b.LiveCamera() != entityA {
		t.Fatalf("live camera after boost = %d, want %d", b.LiveCamera(), entityA)
	}

	for i := 0; i < 12; i++ { // 0.6s
		now = now.Add(50 * time.Millisecond)
		b.Update(now)
	}

	if b.LiveCamera() != entityB {
		t.Errorf("live camera after boost expiry = %d, want %d", b.LiveCamera(), entityB)
	}
	counts := countEvents(b.Events())
	if counts[event.EventBoostExpired] != 1 {
		t.Errorf("boost-expired events = %d, want 1", counts[event.EventBoostExpired])
	}
}

// TestStaleBoostRevertDropped verifies a revert for a removed/re-added
// camera is discarded by the generation check
func TestStaleBoostRevertDropped(t *testing.T) {
	b, now := newTestBrain(nil)
	camA := addCamera(b, entityA, 10, 0, BlendLinear)
	camA.BoostPriority(30, 0.2)

	b.RemoveCamera(entityA)
	fresh := addCamera(b, entityA, 10, 0, BlendLinear)

	for i := 0; i < 10; i++ {
		now = now.Add(50 * time.Millisecond)
		b.Update(now)
	}

	if fresh.Priority() != 10 {
		t.Errorf("re-added camera priority = %d, want untouched 10", fresh.Priority())
	}
	if fresh.boost != 0 {
		t.Errorf("re-added camera boost = %d, want 0 (stale revert dropped)", fresh.boost)
	}
	counts := countEvents(b.Events())
	if counts[event.EventBoostExpired] != 0 {
		t.Errorf("boost-expired events = %d, want 0 for a stale revert", counts[event.EventBoostExpired])
	}
}

// TestNegativeDeltaClamped verifies a backwards clock tick freezes blend
// progress instead of rewinding it
func TestNegativeDeltaClamped(t *testing.T) {
	b, now := newTestBrain(map[core.Entity][2]float64{entityA: {0, 0}, entityB: {10, 0}})
	addCamera(b, entityA, 20, 0, BlendLinear)
	camB := addCamera(b, entityB, 10, 1.0, BlendLinear)
	camB.SetPriority(30)

	now = now.Add(100 * time.Millisecond)
	b.Update(now)
	before := b.BlendProgress()

	b.Update(now.Add(-time.Second)) // Clock went backwards
	if p := b.BlendProgress(); p != before {
		t.Errorf("blend progress changed from %v to %v on negative delta", before, p)
	}
}

// TestListenersNotifiedAndUnsubscribed verifies the observer contract
func TestListenersNotifiedAndUnsubscribed(t *testing.T) {
	b, now := newTestBrain(map[core.Entity][2]float64{entityA: {3, 0}})
	addCamera(b, entityA, 10, 0, BlendLinear)

	var got []Output
	unsubscribe := b.Subscribe(func(out Output) { got = append(got, out) })

	now = now.Add(50 * time.Millisecond)
	b.Update(now)
	if len(got) != 1 || got[0].X != 3 {
		t.Fatalf("listener received %+v, want one output with X=3", got)
	}

	unsubscribe()
	now = now.Add(50 * time.Millisecond)
	b.Update(now)
	if len(got) != 1 {
		t.Errorf("listener called %d times after unsubscribe, want 1", len(got))
	}
}

// TestBehaviorPanicFailSoft verifies a panicking behavior loses only its
// own contribution and the report reaches the handler
func TestBehaviorPanicFailSoft(t *testing.T) {
	positions := map[core.Entity][2]float64{entityA: {5, 5}}
	b := NewBrain()
	b.SetResolver(func(e core.Entity) (float64, float64, bool) {
		if e == entityC {
			panic("bad target script")
		}
		p, ok := positions[e]
		return p[0], p[1], ok
	})

	var reported string
	b.SetPanicHandler(func(owner core.Entity, behavior string, recovered any) {
		reported = behavior
	})

	base := time.Unix(100, 0)
	b.Update(base)
	addCamera(b, entityA, 10, 0, BlendLinear)
	b.AddTransposer(entityA, NewTransposer(entityC)) // Resolving entityC panics

	out := b.Update(base.Add(50 * time.Millisecond))
	if out.X != 5 || out.Y != 5 {
		t.Errorf("output = %+v, want raw position (5,5) with transposer dropped", out)
	}
	if reported != "transposer" {
		t.Errorf("panic reported for %q, want \"transposer\"", reported)
	}
}

// TestResetClearsSession verifies Reset empties registries and state
func TestResetClearsSession(t *testing.T) {
	b, now := newTestBrain(map[core.Entity][2]float64{entityA: {9, 9}})
	cam := addCamera(b, entityA, 10, 0, BlendLinear)
	b.AddShake(entityA, NewShake(1))
	b.AddLetterbox(entityA, NewLetterbox())
	b.Update(now.Add(time.Second))

	b.Reset()

	if b.LiveCamera() != core.NoEntity {
		t.Error("live camera survived Reset")
	}
	if _, ok := b.Camera(entityA); ok {
		t.Error("camera registry survived Reset")
	}
	if _, ok := b.Shake(entityA); ok {
		t.Error("shake registry survived Reset")
	}
	if cam.IsLive() {
		t.Error("detached camera still reports live")
	}
	if out := b.Output(); out != DefaultOutput() {
		t.Errorf("output after Reset = %+v, want default", out)
	}
}

// TestOutputCopyOnRead verifies listeners cannot corrupt Brain-owned state
// through the published output value
func TestOutputCopyOnRead(t *testing.T) {
	b, now := newTestBrain(map[core.Entity][2]float64{entityA: {1, 1}})
	addCamera(b, entityA, 10, 0, BlendLinear)

	b.AddListener(func(out Output) {
		out.X = -999 // Mutating the copy must not affect the cache
	})
	b.Update(now.Add(50 * time.Millisecond))

	if b.Output().X != 1 {
		t.Errorf("cached output.X = %v, want 1 (listener mutated a copy)", b.Output().X)
	}
}
