package keyframe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	newtonIterations = 8
	newtonTolerance  = 1e-6
	minDerivative    = 1e-9
)

// Evaluate samples curve at t. An empty curve yields def, and t outside the curve clamps to the first
// or last value.
func Evaluate(curve []Keyframe, t, def float64) float64 {
	if len(curve) == 0 {
		return def
	}
	first, last := curve[0], curve[len(curve)-1]
	if t <= first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	i := 0
	for i < len(curve)-2 && t >= curve[i+1].Time {
		i++
	}
	return evaluateSegment(curve[i], curve[i+1], t)
}

func evaluateSegment(start, end Keyframe, t float64) float64 {
	if start.OutInterp == InterpolationConstant {
		return start.Value
	}
	dt := end.Time - start.Time
	if dt <= 0 {
		return end.Value
	}

	switch max(start.OutInterp, end.InInterp) {
	case InterpolationLinear:
		u := (t - start.Time) / dt
		return start.Value + (end.Value-start.Value)*u
	default:
		return evaluateBezier(start, end, t, dt)
	}
}

// evaluateBezier treats the segment as a 2D cubic Bezier in (time, value) space and solves for the
// curve parameter whose time component matches t.
func evaluateBezier(start, end Keyframe, t, dt float64) float64 {
	outW, inW := weight(start.OutWeight), weight(end.InWeight)
	b := segmentBezier{
		mgl64.Vec2{start.Time, start.Value},
		mgl64.Vec2{start.Time + dt*outW, start.Value + start.OutTangent*dt*outW},
		mgl64.Vec2{end.Time - dt*inW, end.Value - end.InTangent*dt*inW},
		mgl64.Vec2{end.Time, end.Value},
	}

	u := (t - start.Time) / dt
	for range newtonIterations {
		diff := b.at(u).X() - t
		if math.Abs(diff) < newtonTolerance {
			break
		}
		d := b.derivative(u).X()
		if math.Abs(d) < minDerivative {
			break
		}
		u = math.Max(0, math.Min(1, u-diff/d))
	}
	return b.at(u).Y()
}

// segmentBezier holds the four control points of a segment.
type segmentBezier [4]mgl64.Vec2

func (b segmentBezier) at(u float64) mgl64.Vec2 {
	return mgl64.CubicBezierCurve2D(u, b[0], b[1], b[2], b[3])
}

// derivative is the quadratic Bezier over the scaled control point differences.
func (b segmentBezier) derivative(u float64) mgl64.Vec2 {
	return mgl64.QuadraticBezierCurve2D(u, b[1].Sub(b[0]).Mul(3), b[2].Sub(b[1]).Mul(3), b[3].Sub(b[2]).Mul(3))
}
