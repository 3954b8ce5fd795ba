// Package keyframe holds property curves and the evaluator that samples them. A curve is an ordered
// list of keyframes keyed by time (or arc distance, depending on the node that reads it).
package keyframe

import (
	"fmt"
	"strings"
)

// Interpolation describes how a curve moves between two keyframes. The values are ordered: when the
// outgoing and incoming interpolation of a segment disagree, the larger one wins.
type Interpolation uint8

const (
	InterpolationConstant Interpolation = iota
	InterpolationLinear
	InterpolationBezier
)

// DefaultWeight is the tangent weight used when a keyframe leaves its weight unset.
const DefaultWeight = 1.0 / 3.0

// String ...
func (i Interpolation) String() string {
	switch i {
	case InterpolationConstant:
		return "constant"
	case InterpolationLinear:
		return "linear"
	case InterpolationBezier:
		return "bezier"
	}
	return fmt.Sprintf("Interpolation(%d)", uint8(i))
}

// ParseInterpolation parses an interpolation name. An empty name parses as bezier.
func ParseInterpolation(name string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "constant", "step":
		return InterpolationConstant, nil
	case "linear":
		return InterpolationLinear, nil
	case "bezier", "":
		return InterpolationBezier, nil
	}
	return 0, fmt.Errorf("unknown interpolation %q", name)
}

// Keyframe is a single control point of a Curve.
type Keyframe struct {
	Time  float64
	Value float64

	InInterp  Interpolation
	OutInterp Interpolation

	InTangent  float64
	OutTangent float64
	InWeight   float64
	OutWeight  float64
}

// Curve is a list of keyframes sorted by non-decreasing Time. The ordering is not checked.
type Curve []Keyframe

// Evaluate samples the curve at t, returning def if the curve is empty.
func (c Curve) Evaluate(t, def float64) float64 {
	return Evaluate(c, t, def)
}

// Constant returns a single keyframe curve holding v.
func Constant(v float64) Curve {
	return Curve{{Value: v, InInterp: InterpolationConstant, OutInterp: InterpolationConstant}}
}

// Linear returns a two keyframe curve ramping linearly from v0 at t0 to v1 at t1.
func Linear(t0, v0, t1, v1 float64) Curve {
	return Curve{
		{Time: t0, Value: v0, InInterp: InterpolationLinear, OutInterp: InterpolationLinear},
		{Time: t1, Value: v1, InInterp: InterpolationLinear, OutInterp: InterpolationLinear},
	}
}

func weight(w float64) float64 {
	if w <= 0 {
		return DefaultWeight
	}
	return w
}
