package node

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/coastersim/keyframe"
	"github.com/oomph-ac/coastersim/omath"
	"github.com/oomph-ac/coastersim/physics"
)

// samplesPerMetre is the density of the arc length table a bridge is resampled with.
const samplesPerMetre = 2

// BridgeNode joins the anchor to Target with a cubic Bezier. The control points leave the anchor along
// its direction and arrive along the target's, each at OutWeight/InWeight of the distance between the
// two ends. Roll blends to the target's along the shortest way round. Curves are sampled by elapsed time.
type BridgeNode struct {
	Target    physics.Point
	OutWeight float64
	InWeight  float64
	Driven    bool
	Curves    Curves
	Options   Options
}

// Build ...
func (n BridgeNode) Build(anchor physics.Point, out []physics.Point) []physics.Point {
	s := newStepper("bridge", anchor, n.Curves, n.Driven, physics.DurationTime, n.Options)
	curve, ok := newBridgeCurve(anchor, n.Target, n.OutWeight, n.InWeight)
	if !ok {
		return s.run(out, func(int, physics.Point) (physics.Point, bool) { return s.stop(OutcomeDegenerate) })
	}
	rollFrom := anchor.Frame.Roll()
	rollDelta := omath.WrapAngle(n.Target.Frame.Roll() - rollFrom)

	var travelled float64
	return s.run(out, func(i int, prev physics.Point) (physics.Point, bool) {
		if travelled >= curve.length()-1e-9 {
			return s.stop(OutcomeCompleted)
		}
		x := s.coordinate(i, prev)
		prev, ok := s.travel(prev, x)
		if !ok {
			return s.stop(OutcomeStalled)
		}
		travelled = math.Min(travelled+prev.Velocity*physics.DT, curve.length())
		w := omath.Smoothstep(travelled / curve.length())

		u := curve.parameterAt(travelled)
		pos, tangent := curve.position(u), curve.tangent(u)
		frame := physics.FrameFromDirection(tangent, rollFrom+rollDelta*w)

		params := s.params(x)
		if len(n.Curves.HeartOffset) == 0 {
			params.HeartOffset = omath.Lerp(anchor.HeartOffset, n.Target.HeartOffset, w)
		}
		params.DeltaRoll = omath.WrapAngle(frame.Roll() - prev.Frame.Roll())
		next := s.settle(prev, prev.Advance(pos, frame, params))
		return withForces(prev, next), true
	})
}

// bridgeCurve is a cubic Bezier with a piecewise linear table mapping arc length to curve parameter.
type bridgeCurve struct {
	p0, p1, p2, p3 mgl64.Vec3
	params         []float64
	arcs           []float64
	cursor         int
}

func newBridgeCurve(from, to physics.Point, outWeight, inWeight float64) (*bridgeCurve, bool) {
	span := to.HeartPosition.Sub(from.HeartPosition).Len()
	if span < physics.Epsilon {
		return nil, false
	}
	if outWeight <= 0 {
		outWeight = keyframe.DefaultWeight
	}
	if inWeight <= 0 {
		inWeight = keyframe.DefaultWeight
	}
	c := &bridgeCurve{
		p0: from.HeartPosition,
		p1: from.HeartPosition.Add(from.Frame.Direction.Mul(outWeight * span)),
		p2: to.HeartPosition.Sub(to.Frame.Direction.Mul(inWeight * span)),
		p3: to.HeartPosition,
	}

	hull := c.p1.Sub(c.p0).Len() + c.p2.Sub(c.p1).Len() + c.p3.Sub(c.p2).Len()
	samples := max(int(math.Ceil(hull*samplesPerMetre)), 2)
	c.params = make([]float64, samples+1)
	c.arcs = make([]float64, samples+1)
	prev := c.p0
	for i := 1; i <= samples; i++ {
		u := float64(i) / float64(samples)
		pos := c.position(u)
		c.params[i] = u
		c.arcs[i] = c.arcs[i-1] + pos.Sub(prev).Len()
		prev = pos
	}
	return c, c.length() > physics.Epsilon
}

func (c *bridgeCurve) length() float64 {
	return c.arcs[len(c.arcs)-1]
}

// parameterAt returns the curve parameter at arc length s. Queries must not go backwards.
func (c *bridgeCurve) parameterAt(s float64) float64 {
	for c.cursor < len(c.arcs)-2 && s > c.arcs[c.cursor+1] {
		c.cursor++
	}
	span := c.arcs[c.cursor+1] - c.arcs[c.cursor]
	if span <= 0 {
		return c.params[c.cursor]
	}
	t := omath.ClampFloat((s-c.arcs[c.cursor])/span, 0, 1)
	return omath.Lerp(c.params[c.cursor], c.params[c.cursor+1], t)
}

func (c *bridgeCurve) position(u float64) mgl64.Vec3 {
	return mgl64.CubicBezierCurve3D(omath.ClampFloat(u, 0, 1), c.p0, c.p1, c.p2, c.p3)
}

// tangent returns the curve's derivative at u, falling back to the chord where it vanishes.
func (c *bridgeCurve) tangent(u float64) mgl64.Vec3 {
	d := mgl64.QuadraticBezierCurve3D(omath.ClampFloat(u, 0, 1), c.p1.Sub(c.p0).Mul(3), c.p2.Sub(c.p1).Mul(3), c.p3.Sub(c.p2).Mul(3))
	return omath.SafeNormalize(d, c.p3.Sub(c.p0).Normalize(), physics.Epsilon)
}
