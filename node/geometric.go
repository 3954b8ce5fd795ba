package node

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/coastersim/physics"
)

// GeometricNode turns the track by pitch, yaw and roll rates given directly by its curves.
type GeometricNode struct {
	Iteration physics.IterationConfig
	Driven    bool
	// Steering treats roll as a twist independent of pitch and yaw, the way a banked vehicle steers.
	// Without it rotations are applied in the frame's own axes like an aircraft.
	Steering bool
	Curves   Curves
	Options  Options
}

// Build ...
func (n GeometricNode) Build(anchor physics.Point, out []physics.Point) []physics.Point {
	s := newStepper("geometric", anchor, n.Curves, n.Driven, n.Iteration.DurationType, n.Options)
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
		pitch := mgl64.DegToRad(n.Curves.PitchSpeed.Evaluate(x, 0)) * physics.DT
		yaw := mgl64.DegToRad(n.Curves.YawSpeed.Evaluate(x, 0)) * physics.DT

		frame := n.rotate(prev.Frame, pitch, yaw, params.DeltaRoll)
		pos := prev.HeartPosition.Add(meanDirection(prev.Frame, frame).Mul(prev.Velocity * physics.DT))
		next := s.settle(prev, prev.Advance(pos, frame, params))
		return withForces(prev, next), true
	})
}

func (n GeometricNode) rotate(f physics.Frame, pitch, yaw, roll float64) physics.Frame {
	if n.Steering {
		twist := f.Roll()
		return f.WithRoll(-twist).WithPitch(pitch).WithYaw(yaw).WithRoll(twist + roll)
	}
	f = f.RotateAround(f.Lateral, pitch)
	f = f.RotateAround(f.Normal, -yaw)
	return f.WithRoll(roll)
}
