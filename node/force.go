package node

import (
	"math"

	"github.com/oomph-ac/coastersim/omath"
	"github.com/oomph-ac/coastersim/physics"
)

// ForceNode steers the track so the rider feels the normal and lateral forces described by its curves.
type ForceNode struct {
	Iteration physics.IterationConfig
	Driven    bool
	Curves    Curves
	Options   Options
}

// Build ...
func (n ForceNode) Build(anchor physics.Point, out []physics.Point) []physics.Point {
	s := newStepper("force", anchor, n.Curves, n.Driven, n.Iteration.DurationType, n.Options)
	return s.run(out, func(i int, prev physics.Point) (physics.Point, bool) {
		if s.bounded(n.Iteration, i, prev) {
			return s.stop(OutcomeCompleted)
		}
		x := s.coordinate(i, prev)
		prev, ok := s.travel(prev, x)
		if !ok {
			return s.stop(OutcomeStalled)
		}
		params := s.params(x)
		target := physics.Forces{
			Normal:  n.Curves.NormalForce.Evaluate(x, 1),
			Lateral: n.Curves.LateralForce.Evaluate(x, 0),
		}

		frame := StepByForces(prev, target).WithRoll(params.DeltaRoll)
		pos := prev.HeartPosition.Add(meanDirection(prev.Frame, frame).Mul(prev.Velocity * physics.DT))
		next := s.settle(prev, prev.Advance(pos, frame, params))
		return next.WithForces(target.Normal, target.Lateral), true
	})
}

// StepByForces turns prev's frame so that, moving at prev's velocity for one step, the rider feels the
// target forces. The required accelerations are converted to angular rates and applied as a rotation
// about the lateral axis followed by one about the normal axis.
func StepByForces(prev physics.Point, target physics.Forces) physics.Frame {
	f := prev.Frame
	forceVec := f.Normal.Mul(-target.Normal).Sub(f.Lateral.Mul(target.Lateral)).Sub(physics.WorldUp)
	normalAccel := forceVec.Dot(f.Normal) * physics.G
	lateralAccel := forceVec.Dot(f.Lateral) * physics.G

	estimate := prev.HeartAdvance * physics.Hz
	if omath.ApproxEq(prev.HeartAdvance, 0, physics.Epsilon) {
		estimate = prev.Velocity
	}
	normalRate := omath.ClampFloat(normalAccel/math.Max(math.Abs(estimate), physics.MinVelocity), -physics.MaxAngleRate, physics.MaxAngleRate)
	lateralRate := omath.ClampFloat(lateralAccel/math.Max(math.Abs(prev.Velocity), physics.MinVelocity), -physics.MaxAngleRate, physics.MaxAngleRate)

	f = f.RotateAround(f.Lateral, -normalRate*physics.DT)
	f = f.RotateAround(f.Normal, lateralRate*physics.DT)
	return f.Orthonormalize()
}
