// Package config loads virtual-camera rig profiles from YAML and applies
// them to a camera session. Profiles are what the external editor
// collaborator round-trips; this package only consumes them
package config

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"

	"github.com/nlaroche/ascii-dungeon-sub002/camera"
	"github.com/nlaroche/ascii-dungeon-sub002/core"
)

// RigSpec describes one camera rig: the virtual camera plus its optional
// behaviors. Target entities are referenced by scene name and resolved at
// apply time
type RigSpec struct {
	Name       string          `yaml:"name"`
	Camera     CameraSpec      `yaml:"camera"`
	Transposer *TransposerSpec `yaml:"transposer,omitempty"`
	Composer   *ComposerSpec   `yaml:"composer,omitempty"`
	Confiner   *ConfinerSpec   `yaml:"confiner,omitempty"`
	Shake      *ShakeSpec      `yaml:"shake,omitempty"`
	Letterbox  *LetterboxSpec  `yaml:"letterbox,omitempty"`
}

type CameraSpec struct {
	Priority   int     `yaml:"priority"`
	Active     bool    `yaml:"active"`
	Disabled   bool    `yaml:"disabled"`
	BlendTime  float64 `yaml:"blend_time"`
	BlendCurve string  `yaml:"blend_curve"`
	Zoom       float64 `yaml:"zoom"`
	Rotation   float64 `yaml:"rotation"`
	Profile    string  `yaml:"profile"`
}

type TransposerSpec struct {
	FollowTarget string  `yaml:"follow_target"`
	OffsetX      float64 `yaml:"offset_x"`
	OffsetY      float64 `yaml:"offset_y"`
	DampingX     float64 `yaml:"damping_x"`
	DampingY     float64 `yaml:"damping_y"`
	Binding      string  `yaml:"binding"`
}

type ComposerSpec struct {
	LookAtTarget   string  `yaml:"look_at_target"`
	ScreenX        float64 `yaml:"screen_x"`
	ScreenY        float64 `yaml:"screen_y"`
	DeadZoneWidth  float64 `yaml:"dead_zone_width"`
	DeadZoneHeight float64 `yaml:"dead_zone_height"`
	SoftZoneWidth  float64 `yaml:"soft_zone_width"`
	SoftZoneHeight float64 `yaml:"soft_zone_height"`
	SoftZoneBias   float64 `yaml:"soft_zone_bias"`
	LookaheadTime  float64 `yaml:"lookahead_time"`
}

type ConfinerSpec struct {
	MinX               float64 `yaml:"min_x"`
	MinY               float64 `yaml:"min_y"`
	MaxX               float64 `yaml:"max_x"`
	MaxY               float64 `yaml:"max_y"`
	Damping            float64 `yaml:"damping"`
	ConfineScreenEdges bool    `yaml:"confine_screen_edges"`
}

type ShakeSpec struct {
	MaxOffsetX     float64 `yaml:"max_offset_x"`
	MaxOffsetY     float64 `yaml:"max_offset_y"`
	MaxRotation    float64 `yaml:"max_rotation"`
	Frequency      float64 `yaml:"frequency"`
	DecayRate      float64 `yaml:"decay_rate"`
	TraumaExponent float64 `yaml:"trauma_exponent"`
	Seed           float64 `yaml:"seed"`
}

type LetterboxSpec struct {
	TargetRatio    float64 `yaml:"target_ratio"`
	Disabled       bool    `yaml:"disabled"`
	TransitionTime float64 `yaml:"transition_time"`
	BarColor       string  `yaml:"bar_color"`
}

// File is the on-disk profile shape: a list of named rigs
type File struct {
	Rigs []RigSpec `yaml:"rigs"`
}

// Load reads and parses a rig profile file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a rig profile from YAML bytes
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: unmarshal rigs: %w", err)
	}
	return &f, nil
}

// Rig returns the named rig spec
func (f *File) Rig(name string) (*RigSpec, bool) {
	for i := range f.Rigs {
		if f.Rigs[i].Name == name {
			return &f.Rigs[i], true
		}
	}
	return nil, false
}

// TargetResolver maps a scene name from a profile to an entity id.
// Returning NoEntity leaves the behavior targetless (identity contribution)
type TargetResolver func(name string) core.Entity

// Apply registers the rig's camera and behaviors on the Brain under the
// given owner and returns the camera. Target names are resolved through
// targets; a nil resolver leaves all targets unset
func (s *RigSpec) Apply(b *camera.Brain, owner core.Entity, targets TargetResolver) *camera.VirtualCamera {
	lookup := func(name string) core.Entity {
		if name == "" || targets == nil {
			return core.NoEntity
		}
		return targets(name)
	}

	cam := camera.NewVirtualCamera()
	cam.BlendTime = s.Camera.BlendTime
	cam.BlendCurve = camera.ParseBlendCurve(s.Camera.BlendCurve)
	if s.Camera.Zoom > 0 {
		cam.Zoom = s.Camera.Zoom
	}
	cam.Rotation = s.Camera.Rotation
	cam.Profile = s.Camera.Profile
	cam.SetEnabled(!s.Camera.Disabled)
	b.AddCamera(owner, cam)
	cam.SetPriority(s.Camera.Priority)
	if s.Camera.Active {
		cam.Activate()
	}

	if t := s.Transposer; t != nil {
		tr := camera.NewTransposer(lookup(t.FollowTarget))
		tr.OffsetX = t.OffsetX
		tr.OffsetY = t.OffsetY
		tr.DampingX = t.DampingX
		tr.DampingY = t.DampingY
		if t.Binding == "lockToTarget" {
			tr.Binding = camera.BindLockToTarget
		}
		b.AddTransposer(owner, tr)
	}

	if c := s.Composer; c != nil {
		cp := camera.NewComposer(lookup(c.LookAtTarget))
		if c.ScreenX != 0 {
			cp.ScreenX = c.ScreenX
		}
		if c.ScreenY != 0 {
			cp.ScreenY = c.ScreenY
		}
		cp.DeadZoneWidth = c.DeadZoneWidth
		cp.DeadZoneHeight = c.DeadZoneHeight
		cp.SoftZoneWidth = c.SoftZoneWidth
		cp.SoftZoneHeight = c.SoftZoneHeight
		cp.SoftZoneBias = c.SoftZoneBias
		cp.LookaheadTime = c.LookaheadTime
		b.AddComposer(owner, cp)
	}

	if c := s.Confiner; c != nil {
		cf := camera.NewConfiner(c.MinX, c.MinY, c.MaxX, c.MaxY)
		cf.Damping = c.Damping
		cf.ConfineScreenEdges = c.ConfineScreenEdges
		b.AddConfiner(owner, cf)
	}

	if sh := s.Shake; sh != nil {
		shake := camera.NewShake(sh.Seed)
		if sh.MaxOffsetX != 0 {
			shake.MaxOffsetX = sh.MaxOffsetX
		}
		if sh.MaxOffsetY != 0 {
			shake.MaxOffsetY = sh.MaxOffsetY
		}
		if sh.MaxRotation != 0 {
			shake.MaxRotation = sh.MaxRotation
		}
		if sh.Frequency != 0 {
			shake.Frequency = sh.Frequency
		}
		if sh.DecayRate != 0 {
			shake.DecayRate = sh.DecayRate
		}
		if sh.TraumaExponent != 0 {
			shake.TraumaExponent = sh.TraumaExponent
		}
		b.AddShake(owner, shake)
	}

	if l := s.Letterbox; l != nil {
		lb := camera.NewLetterbox()
		if l.TargetRatio > 0 {
			lb.TargetRatio = l.TargetRatio
		}
		lb.Enabled = !l.Disabled
		if l.TransitionTime > 0 {
			lb.TransitionTime = l.TransitionTime
		}
		if l.BarColor != "" {
			lb.BarColor = tcell.GetColor(l.BarColor)
		}
		b.AddLetterbox(owner, lb)
	}

	return cam
}
