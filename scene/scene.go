// Package scene describes a track as a TOML document: an anchor followed by an ordered list of
// sections, each built from the last point of the one before it.
package scene

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/coastersim/keyframe"
	"github.com/oomph-ac/coastersim/oerror"
	"github.com/oomph-ac/coastersim/physics"
	"github.com/oomph-ac/coastersim/property"
	"github.com/pelletier/go-toml"
)

// Section kinds.
const (
	KindForce     = "force"
	KindGeometric = "geometric"
	KindCurved    = "curved"
	KindCopy      = "copy"
	KindBridge    = "bridge"
)

// Scene is a track description.
type Scene struct {
	Name     string    `toml:"name"`
	Anchor   Anchor    `toml:"anchor"`
	Sections []Section `toml:"section"`
}

// Anchor is a pose in the scene. Angles are in degrees.
type Anchor struct {
	Position    []float64 `toml:"position"`
	Pitch       float64   `toml:"pitch"`
	Yaw         float64   `toml:"yaw"`
	Roll        float64   `toml:"roll"`
	Velocity    float64   `toml:"velocity"`
	HeartOffset float64   `toml:"heart_offset"`
}

// Point returns the anchor as a point at rest in its pose.
func (a Anchor) Point() (physics.Point, error) {
	var pos mgl64.Vec3
	switch len(a.Position) {
	case 0:
	case 3:
		pos = mgl64.Vec3{a.Position[0], a.Position[1], a.Position[2]}
	default:
		return physics.Point{}, oerror.New("position needs 3 components, got %d", len(a.Position))
	}
	f := physics.FrameFromAngles(mgl64.DegToRad(a.Pitch), mgl64.DegToRad(a.Yaw), mgl64.DegToRad(a.Roll))
	return physics.NewAnchor(pos, f, a.Velocity, a.HeartOffset), nil
}

// Section is a single node of the track. Which fields apply depends on Kind.
type Section struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`

	// Duration and DurationType bound force and geometric sections.
	Duration     float64 `toml:"duration"`
	DurationType string  `toml:"duration_type"`
	Driven       bool    `toml:"driven"`
	Steering     bool    `toml:"steering"`

	Radius  float64 `toml:"radius"`
	Arc     float64 `toml:"arc"`
	Axis    float64 `toml:"axis"`
	LeadIn  float64 `toml:"lead_in"`
	LeadOut float64 `toml:"lead_out"`

	// Source names an earlier section whose path a copy section repeats.
	Source string  `toml:"source"`
	Start  float64 `toml:"start"`
	End    float64 `toml:"end"`

	Target    Anchor  `toml:"target"`
	OutWeight float64 `toml:"out_weight"`
	InWeight  float64 `toml:"in_weight"`

	Curves []Curve `toml:"curve"`
}

// Curve is the keyframe curve of a single property.
type Curve struct {
	Property string `toml:"property"`
	Keys     []Key  `toml:"key"`
}

// Key is a keyframe. In and Out name the interpolation on either side and default to bezier.
type Key struct {
	Time       float64 `toml:"time"`
	Value      float64 `toml:"value"`
	In         string  `toml:"in"`
	Out        string  `toml:"out"`
	InTangent  float64 `toml:"in_tangent"`
	OutTangent float64 `toml:"out_tangent"`
	InWeight   float64 `toml:"in_weight"`
	OutWeight  float64 `toml:"out_weight"`
}

// Parse returns the property and keyframe curve c describes.
func (c Curve) Parse() (property.ID, keyframe.Curve, error) {
	id, err := property.Parse(c.Property)
	if err != nil {
		return 0, nil, err
	}
	curve := make(keyframe.Curve, 0, len(c.Keys))
	for i, k := range c.Keys {
		in, err := keyframe.ParseInterpolation(k.In)
		if err != nil {
			return 0, nil, oerror.New("%v key %d: %w", id, i, err)
		}
		out, err := keyframe.ParseInterpolation(k.Out)
		if err != nil {
			return 0, nil, oerror.New("%v key %d: %w", id, i, err)
		}
		if i > 0 && k.Time < curve[i-1].Time {
			return 0, nil, oerror.New("%v key %d: time %v is before the previous key", id, i, k.Time)
		}
		curve = append(curve, keyframe.Keyframe{
			Time:       k.Time,
			Value:      k.Value,
			InInterp:   in,
			OutInterp:  out,
			InTangent:  k.InTangent,
			OutTangent: k.OutTangent,
			InWeight:   k.InWeight,
			OutWeight:  k.OutWeight,
		})
	}
	return id, curve, nil
}

// Parse decodes a scene from TOML and checks that it can be built.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, oerror.New("error decoding scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the scene file at path. A scene without a name is named after the file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oerror.New("error reading scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, oerror.New("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Validate checks names, kinds and curves without building anything.
func (s *Scene) Validate() error {
	if _, err := s.Anchor.Point(); err != nil {
		return oerror.New("anchor: %w", err)
	}
	seen := make(map[string]struct{}, len(s.Sections))
	for i, sec := range s.Sections {
		if err := sec.validate(seen); err != nil {
			return oerror.New("section %d (%s): %w", i, sec.Name, err)
		}
		if sec.Name != "" {
			seen[sec.Name] = struct{}{}
		}
	}
	return nil
}

func (sec Section) validate(earlier map[string]struct{}) error {
	switch sec.Kind {
	case KindForce, KindGeometric:
		if _, err := physics.ParseDurationType(sec.DurationType); err != nil {
			return err
		}
	case KindCurved:
	case KindCopy:
		if _, ok := earlier[sec.Source]; !ok {
			return oerror.New("unknown source section %q", sec.Source)
		}
	case KindBridge:
		if _, err := sec.Target.Point(); err != nil {
			return oerror.New("target: %w", err)
		}
	default:
		return oerror.New("unknown section kind %q", sec.Kind)
	}
	for _, c := range sec.Curves {
		if _, _, err := c.Parse(); err != nil {
			return err
		}
	}
	return nil
}
