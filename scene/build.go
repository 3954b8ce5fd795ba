package scene

import (
	"math"

	"github.com/google/uuid"
	"github.com/oomph-ac/coastersim/assert"
	"github.com/oomph-ac/coastersim/cache"
	"github.com/oomph-ac/coastersim/node"
	"github.com/oomph-ac/coastersim/oerror"
	"github.com/oomph-ac/coastersim/omath"
	"github.com/oomph-ac/coastersim/physics"
	"github.com/oomph-ac/coastersim/property"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Env holds what building a scene depends on. Every field is optional.
type Env struct {
	// Store receives the curves of every section. A private store is used when nil.
	Store *property.Store
	// Cache shares built sections between builds. Sections are always built when nil.
	Cache   *cache.Cache
	Options node.Options
	Log     logrus.FieldLogger
}

// Track is a built scene.
type Track struct {
	Name     string
	Sections []Built
	// Points is the whole track. Sections share their joining point, which appears once.
	Points []physics.Point

	store *property.Store
	cache *cache.Cache
}

// Built is a single built section.
type Built struct {
	Name   string
	Kind   string
	Node   property.NodeID
	Key    cache.Key
	Points []physics.Point
}

// Build builds every section of the scene in order.
func (s *Scene) Build(env Env) (*Track, error) {
	anchor, err := s.Anchor.Point()
	if err != nil {
		return nil, oerror.New("anchor: %w", err)
	}
	if env.Store == nil {
		env.Store = property.NewStore()
	}
	if env.Log == nil {
		env.Log = logrus.StandardLogger()
	}
	log := env.Log.WithField("scene", s.Name)
	opts := env.Options
	if opts.Debugf == nil {
		opts.Debugf = log.Debugf
	}

	t := &Track{Name: s.Name, store: env.Store, cache: env.Cache}
	for i, sec := range s.Sections {
		built, err := t.build(sec, anchor, env.Store, opts)
		if err != nil {
			t.Close()
			return nil, oerror.New("section %d (%s): %w", i, sec.Name, err)
		}
		log.WithFields(logrus.Fields{
			"section": sec.Name,
			"kind":    sec.Kind,
			"points":  len(built.Points),
		}).Debug("built section")

		if i == 0 {
			t.Points = append(t.Points, built.Points...)
		} else {
			t.Points = append(t.Points, built.Points[1:]...)
		}
		t.Sections = append(t.Sections, built)
		anchor = built.Points[len(built.Points)-1]
	}
	if len(t.Sections) == 0 {
		t.Points = append(t.Points, anchor)
	}
	return t, nil
}

func (t *Track) build(sec Section, anchor physics.Point, store *property.Store, opts node.Options) (built Built, err error) {
	id := uuid.New()
	defer func() {
		if err != nil {
			store.Delete(id)
		}
	}()
	for _, c := range sec.Curves {
		prop, curve, err := c.Parse()
		if err != nil {
			return Built{}, err
		}
		store.Set(id, prop, curve)
	}

	var (
		source    []physics.Point
		sourceKey cache.Key
	)
	if sec.Kind == KindCopy {
		src, ok := lo.Find(t.Sections, func(b Built) bool { return b.Name == sec.Source })
		if !ok {
			return Built{}, oerror.New("unknown source section %q", sec.Source)
		}
		source, sourceKey = src.Points, src.Key
	}
	b, err := sec.builder(store.Curves(id), opts, source)
	if err != nil {
		return Built{}, err
	}

	cfg := sec
	cfg.Name, cfg.Curves = "", nil
	key := cache.KeyOf(anchor, sec.Kind, struct {
		Section
		Energy physics.EnergyMode
		Source cache.Key
	}{cfg, opts.Energy, sourceKey}, store.Hash(id))

	var points []physics.Point
	if t.cache != nil {
		points = t.cache.Build(key, b, anchor)
	} else {
		points = b.Build(anchor, nil)
	}
	assert.IsTrue(len(points) > 0, "%s builder returned no points", sec.Kind)
	return Built{Name: sec.Name, Kind: sec.Kind, Node: id, Key: key, Points: points}, nil
}

func (sec Section) builder(curves node.Curves, opts node.Options, source []physics.Point) (node.Builder, error) {
	switch sec.Kind {
	case KindForce, KindGeometric:
		durationType, err := physics.ParseDurationType(sec.DurationType)
		if err != nil {
			return nil, err
		}
		iteration := physics.IterationConfig{Duration: sec.Duration, DurationType: durationType}
		if sec.Kind == KindForce {
			return node.ForceNode{Iteration: iteration, Driven: sec.Driven, Curves: curves, Options: opts}, nil
		}
		return node.GeometricNode{Iteration: iteration, Driven: sec.Driven, Steering: sec.Steering, Curves: curves, Options: opts}, nil
	case KindCurved:
		return node.CurvedNode{
			Radius:  sec.Radius,
			Arc:     sec.Arc,
			Axis:    sec.Axis,
			LeadIn:  sec.LeadIn,
			LeadOut: sec.LeadOut,
			Driven:  sec.Driven,
			Curves:  curves,
			Options: opts,
		}, nil
	case KindCopy:
		return node.CopyPathNode{Source: source, Start: sec.Start, End: sec.End, Driven: sec.Driven, Curves: curves, Options: opts}, nil
	case KindBridge:
		target, err := sec.Target.Point()
		if err != nil {
			return nil, oerror.New("target: %w", err)
		}
		return node.BridgeNode{
			Target:    target,
			OutWeight: sec.OutWeight,
			InWeight:  sec.InWeight,
			Driven:    sec.Driven,
			Curves:    curves,
			Options:   opts,
		}, nil
	}
	return nil, oerror.New("unknown section kind %q", sec.Kind)
}

// Close releases the cached sections and curves the track holds.
func (t *Track) Close() {
	for _, b := range t.Sections {
		if t.cache != nil {
			t.cache.Release(b.Key)
		}
		t.store.Delete(b.Node)
	}
}

// Summary describes a built track.
type Summary struct {
	Points   int
	Length   float64
	Duration float64

	MinVelocity  float64
	MaxVelocity  float64
	MeanVelocity float64
	// VelocitySpread is the standard deviation of the velocity over every point.
	VelocitySpread float64

	MinNormalForce  float64
	MaxNormalForce  float64
	MaxLateralForce float64
}

// Summary ...
func (t *Track) Summary() Summary {
	if len(t.Points) == 0 {
		return Summary{}
	}
	velocities := lo.Map(t.Points, func(p physics.Point, _ int) float64 { return p.Velocity })
	normals := lo.Map(t.Points, func(p physics.Point, _ int) float64 { return p.NormalForce })
	laterals := lo.Map(t.Points, func(p physics.Point, _ int) float64 { return math.Abs(p.LateralForce) })

	s := Summary{
		Points:         len(t.Points),
		Length:         t.Points[len(t.Points)-1].HeartArc - t.Points[0].HeartArc,
		Duration:       float64(len(t.Points)-1) * physics.DT,
		MeanVelocity:   omath.Mean(velocities),
		VelocitySpread: omath.StandardDeviation(velocities),
	}
	s.MinVelocity, s.MaxVelocity = omath.MinMax(velocities)
	s.MinNormalForce, s.MaxNormalForce = omath.MinMax(normals)
	_, s.MaxLateralForce = omath.MinMax(laterals)
	return s
}

// Fields returns the summary as log fields.
func (s Summary) Fields() logrus.Fields {
	return logrus.Fields{
		"points":      s.Points,
		"length":      math.Round(s.Length*100) / 100,
		"duration":    s.Duration,
		"minVelocity": math.Round(s.MinVelocity*100) / 100,
		"maxVelocity": math.Round(s.MaxVelocity*100) / 100,
		"maxNormal":   math.Round(s.MaxNormalForce*100) / 100,
		"minNormal":   math.Round(s.MinNormalForce*100) / 100,
		"maxLateral":  math.Round(s.MaxLateralForce*100) / 100,
	}
}
