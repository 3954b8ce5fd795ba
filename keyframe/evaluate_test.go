package keyframe

import (
	"math"
	"testing"
)

func bezierCurve() Curve {
	return Curve{
		{Time: 0, Value: 1, InInterp: InterpolationBezier, OutInterp: InterpolationBezier, OutTangent: 0.5},
		{Time: 1.5, Value: 3, InInterp: InterpolationBezier, OutInterp: InterpolationBezier, InTangent: -1, OutTangent: 2, InWeight: 0.25, OutWeight: 0.4},
		{Time: 4, Value: -2, InInterp: InterpolationBezier, OutInterp: InterpolationBezier, InTangent: 0.3},
	}
}

func TestEvaluateBoundaries(t *testing.T) {
	if v := Evaluate(nil, 3, 7.5); v != 7.5 {
		t.Fatalf("expected default for empty curve, got %v", v)
	}
	c := bezierCurve()
	if v := Evaluate(c, -10, 0); v != 1 {
		t.Fatalf("expected first value before the curve, got %v", v)
	}
	if v := Evaluate(c, 10, 0); v != -2 {
		t.Fatalf("expected last value after the curve, got %v", v)
	}
	if v := Evaluate(c, 4, 0); v != -2 {
		t.Fatalf("expected last value at the last keyframe, got %v", v)
	}
}

func TestEvaluateConstantSegment(t *testing.T) {
	c := Curve{
		{Time: 0, Value: 2, OutInterp: InterpolationConstant},
		{Time: 1, Value: 5, InInterp: InterpolationBezier, OutInterp: InterpolationLinear},
		{Time: 2, Value: 7, InInterp: InterpolationLinear},
	}
	for _, x := range []float64{0.01, 0.5, 0.999} {
		if v := c.Evaluate(x, 0); v != 2 {
			t.Fatalf("constant segment at %v: got %v, want 2", x, v)
		}
	}
	if v := c.Evaluate(1.5, 0); math.Abs(v-6) > 1e-12 {
		t.Fatalf("linear segment midpoint: got %v, want 6", v)
	}
}

func TestEvaluateInterpolationPromotion(t *testing.T) {
	// Linear out into a bezier in-interpolation evaluates as bezier.
	c := Curve{
		{Time: 0, Value: 0, OutInterp: InterpolationLinear},
		{Time: 1, Value: 1, InInterp: InterpolationBezier},
	}
	lin := Linear(0, 0, 1, 1)
	if got, want := c.Evaluate(0.25, 0), lin.Evaluate(0.25, 0); math.Abs(got-want) < 1e-6 {
		t.Fatalf("expected bezier easing to differ from linear, both gave %v", got)
	}
}

func TestEvaluateBezierContinuity(t *testing.T) {
	c := bezierCurve()
	boundary := c[1].Time
	before := Evaluate(c, boundary-1e-9, 0)
	after := Evaluate(c, boundary+1e-9, 0)
	at := Evaluate(c, boundary, 0)
	if math.Abs(before-after) > 1e-4 || math.Abs(at-c[1].Value) > 1e-4 {
		t.Fatalf("discontinuity at %v: before=%v at=%v after=%v", boundary, before, at, after)
	}
}

func TestEvaluateBezierFlatTangentsIsMonotonic(t *testing.T) {
	c := Curve{
		{Time: 0, Value: 0, InInterp: InterpolationBezier, OutInterp: InterpolationBezier},
		{Time: 2, Value: 10, InInterp: InterpolationBezier, OutInterp: InterpolationBezier},
	}
	prev := c.Evaluate(0, 0)
	for i := 1; i <= 200; i++ {
		v := c.Evaluate(float64(i)*0.01, 0)
		if v < prev-1e-9 {
			t.Fatalf("curve decreased at step %d: %v < %v", i, v, prev)
		}
		prev = v
	}
	if mid := c.Evaluate(1, 0); math.Abs(mid-5) > 1e-4 {
		t.Fatalf("symmetric ease should pass through the midpoint, got %v", mid)
	}
}

func TestEvaluateBezierCollinearHandlesFollowLine(t *testing.T) {
	// Handles pointing along the chord keep every control point on the line, so uneven weights only
	// change the parameterisation and the solved value must stay on the line.
	c := Curve{
		{Time: 1, Value: 2, OutInterp: InterpolationBezier, OutTangent: 3, OutWeight: 0.1},
		{Time: 3, Value: 8, InInterp: InterpolationBezier, InTangent: 3, InWeight: 0.6},
	}
	for i := 1; i < 40; i++ {
		x := 1 + float64(i)*0.05
		if got, want := c.Evaluate(x, 0), 2+3*(x-1); math.Abs(got-want) > 1e-4 {
			t.Fatalf("at %v: got %v, want %v", x, got, want)
		}
	}
}

func TestParseInterpolation(t *testing.T) {
	tests := map[string]Interpolation{
		"constant": InterpolationConstant,
		"Linear":   InterpolationLinear,
		" bezier ": InterpolationBezier,
		"":         InterpolationBezier,
	}
	for name, want := range tests {
		got, err := ParseInterpolation(name)
		if err != nil || got != want {
			t.Errorf("ParseInterpolation(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseInterpolation("cubic"); err == nil {
		t.Errorf("expected an error for an unknown interpolation")
	}
}
