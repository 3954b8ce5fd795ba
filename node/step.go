package node

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/coastersim/omath"
	"github.com/oomph-ac/coastersim/physics"
)

// stepper holds the state shared by every builder's fixed-rate loop.
type stepper struct {
	name    string
	anchor  physics.Point
	curves  Curves
	driven  bool
	domain  physics.DurationType
	opts    Options
	outcome Outcome
}

func newStepper(name string, anchor physics.Point, curves Curves, driven bool, domain physics.DurationType, opts Options) *stepper {
	return &stepper{name: name, anchor: anchor, curves: curves, driven: driven, domain: domain, opts: opts}
}

// run appends the anchor to out and then calls step until it reports that the build is over.
func (s *stepper) run(out []physics.Point, step func(i int, prev physics.Point) (physics.Point, bool)) []physics.Point {
	out = append(out, s.anchor)
	prev := s.anchor
	for i := 0; ; i++ {
		if i >= physics.MaxIterations {
			s.outcome = OutcomeIterationLimit
			break
		}
		next, ok := step(i, prev)
		if !ok {
			break
		}
		out = append(out, next)
		prev = next
	}
	s.opts.debugf("%s node finished: outcome=%v, steps=%d, velocity=%.3f, heartArc=%.3f", s.name, s.outcome, len(out)-1, prev.Velocity, prev.HeartArc)
	return out
}

// stop ends the loop with the given outcome.
func (s *stepper) stop(outcome Outcome) (physics.Point, bool) {
	s.outcome = outcome
	return physics.Point{}, false
}

// bounded reports whether an iteration config has been satisfied after i steps ending in prev.
func (s *stepper) bounded(cfg physics.IterationConfig, i int, prev physics.Point) bool {
	if cfg.DurationType == physics.DurationDistance {
		return prev.HeartArc >= s.anchor.HeartArc+cfg.Duration
	}
	return i >= int(math.Floor(physics.Hz*cfg.Duration+1e-9))
}

// coordinate returns where curves are sampled for the step following prev: elapsed time, or the heart
// distance the train is expected to have covered.
func (s *stepper) coordinate(i int, prev physics.Point) float64 {
	if s.domain == physics.DurationDistance {
		return prev.HeartArc - s.anchor.HeartArc + prev.Velocity*physics.DT
	}
	return float64(i+1) * physics.DT
}

// params samples the per step parameters at x.
func (s *stepper) params(x float64) physics.Params {
	return physics.Params{
		HeartOffset: s.curves.HeartOffset.Evaluate(x, s.anchor.HeartOffset),
		Friction:    s.curves.Friction.Evaluate(x, s.anchor.Friction),
		Resistance:  s.curves.Resistance.Evaluate(x, s.anchor.Resistance),
		DeltaRoll:   mgl64.DegToRad(s.curves.RollSpeed.Evaluate(x, 0)) * physics.DT,
		Driven:      s.driven,
	}
}

// travel returns prev carrying the speed it moves through the next step with. It returns false when a
// free running train is too slow to climb any further.
func (s *stepper) travel(prev physics.Point, x float64) (physics.Point, bool) {
	if s.driven {
		v := s.curves.DrivenVelocity.Evaluate(x, prev.Velocity)
		return prev.WithVelocity(math.Max(v, physics.MinVelocity)), true
	}
	if prev.Velocity < physics.MinVelocity {
		if prev.Frame.Pitch() >= 0 {
			return prev, false
		}
		return prev.WithVelocity(physics.MinVelocity), true
	}
	return prev, true
}

// settle fills in the velocity of next after moving from prev.
func (s *stepper) settle(prev, next physics.Point) physics.Point {
	if s.driven {
		return next.WithVelocity(prev.Velocity)
	}
	return next.WithVelocity(s.opts.Energy.Integrate(prev, next))
}

// withForces fills in the apparent forces of next from the turn between prev and next.
func withForces(prev, next physics.Point) physics.Point {
	c := physics.CurvatureFromFrames(next.Frame, prev.Frame)
	f := physics.ComputeForces(c, next.Frame, prev.Velocity, next.HeartAdvance)
	return next.WithForces(f.Normal, f.Lateral)
}

// meanDirection returns the direction halfway between two frames, used to move the heart across a step.
func meanDirection(a, b physics.Frame) mgl64.Vec3 {
	return omath.SafeNormalize(a.Direction.Add(b.Direction), b.Direction, physics.Epsilon)
}
