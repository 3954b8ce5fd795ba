package node

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/coastersim/omath"
	"github.com/oomph-ac/coastersim/physics"
)

// CurvedNode follows a circular arc of fixed radius. Axis banks the plane of the arc about the anchor's
// direction: 0° turns sideways, 90° turns upward. LeadIn and LeadOut ease the curvature in and out over
// the given number of degrees. Curves are sampled by elapsed time.
type CurvedNode struct {
	Radius  float64
	Arc     float64
	Axis    float64
	LeadIn  float64
	LeadOut float64
	Driven  bool
	Curves  Curves
	Options Options
}

// Build ...
func (n CurvedNode) Build(anchor physics.Point, out []physics.Point) []physics.Point {
	s := newStepper("curved", anchor, n.Curves, n.Driven, physics.DurationTime, n.Options)
	profile, ok := newArcProfile(n.Radius, n.Arc, n.LeadIn, n.LeadOut)
	if !ok {
		return s.run(out, func(int, physics.Point) (physics.Point, bool) { return s.stop(OutcomeDegenerate) })
	}
	axis := anchor.Frame.WithRoll(mgl64.DegToRad(n.Axis)).Normal

	var travelled float64
	return s.run(out, func(i int, prev physics.Point) (physics.Point, bool) {
		if travelled >= profile.length-1e-9 {
			return s.stop(OutcomeCompleted)
		}
		x := s.coordinate(i, prev)
		prev, ok := s.travel(prev, x)
		if !ok {
			return s.stop(OutcomeStalled)
		}
		params := s.params(x)

		ds := math.Min(prev.Velocity*physics.DT, profile.length-travelled)
		angle := profile.angle(travelled+ds) - profile.angle(travelled)
		travelled += ds

		frame := prev.Frame.RotateAround(axis, angle)
		pos := prev.HeartPosition.Add(meanDirection(prev.Frame, frame).Mul(chord(ds, angle)))
		next := s.settle(prev, prev.Advance(pos, frame.WithRoll(params.DeltaRoll), params))
		return withForces(prev, next), true
	})
}

// chord returns the straight distance between the ends of an arc of length ds turning by angle.
func chord(ds, angle float64) float64 {
	if math.Abs(angle) < physics.Epsilon {
		return ds
	}
	return 2 * math.Sin(angle/2) / angle * ds
}

// arcProfile maps distance travelled along a curved node to the angle turned. Curvature ramps in over
// leadIn metres with a smoothstep, holds at 1/radius and ramps out over leadOut metres, so the total
// turned angle is exactly the requested arc.
type arcProfile struct {
	curvature float64
	leadIn    float64
	hold      float64
	leadOut   float64
	length    float64
	arc       float64
}

func newArcProfile(radius, arcDeg, leadInDeg, leadOutDeg float64) (arcProfile, bool) {
	if radius < physics.Epsilon || arcDeg <= 0 {
		return arcProfile{}, false
	}
	arc := mgl64.DegToRad(arcDeg)
	p := arcProfile{
		curvature: 1 / radius,
		leadIn:    radius * mgl64.DegToRad(math.Max(leadInDeg, 0)),
		leadOut:   radius * mgl64.DegToRad(math.Max(leadOutDeg, 0)),
		arc:       arc,
	}
	// Easing covers half the angle of a full curvature stretch of the same length.
	full := radius * arc
	if eased := (p.leadIn + p.leadOut) / 2; eased > full {
		scale := full / eased
		p.leadIn *= scale
		p.leadOut *= scale
	}
	p.hold = full - (p.leadIn+p.leadOut)/2
	p.length = p.leadIn + p.hold + p.leadOut
	return p, true
}

// angle returns the angle turned after travelling s metres.
func (p arcProfile) angle(s float64) float64 {
	switch {
	case s <= 0:
		return 0
	case s >= p.length:
		return p.arc
	case s < p.leadIn:
		return p.curvature * p.leadIn * omath.SmoothstepIntegral(s/p.leadIn)
	case s < p.leadIn+p.hold:
		return p.curvature * (p.leadIn/2 + s - p.leadIn)
	}
	u := (s - p.leadIn - p.hold) / p.leadOut
	return p.curvature * (p.leadIn/2 + p.hold + p.leadOut*(0.5-omath.SmoothstepIntegral(1-u)))
}
