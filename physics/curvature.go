package physics

import (
	"math"

	"github.com/oomph-ac/coastersim/omath"
)

// Curvature describes how the frame direction turned over one step, split into pitch and yaw.
type Curvature struct {
	DeltaPitch float64
	DeltaYaw   float64
	// YawScale compensates the yaw rate for foreshortening as the direction approaches vertical.
	YawScale   float64
	TotalAngle float64
}

// Straight reports whether the step did not turn at all.
func (c Curvature) Straight() bool {
	return c.TotalAngle < Epsilon
}

// CurvatureFromFrames measures the turn from prev to curr.
func CurvatureFromFrames(curr, prev Frame) Curvature {
	if curr.Direction.Sub(prev.Direction).Len() < Epsilon {
		return Curvature{YawScale: math.Cos(math.Abs(curr.Pitch()))}
	}
	c := Curvature{
		DeltaPitch: omath.WrapAngle(curr.Pitch() - prev.Pitch()),
		DeltaYaw:   omath.WrapAngle(curr.Yaw() - prev.Yaw()),
		YawScale:   math.Cos(math.Abs(curr.Pitch())),
	}
	yaw := c.YawScale * c.DeltaYaw
	c.TotalAngle = math.Sqrt(yaw*yaw + c.DeltaPitch*c.DeltaPitch)
	return c
}

// NormalAngle returns the angle the direction turned toward the frame normal, for a frame rolled by roll.
func (c Curvature) NormalAngle(roll float64) float64 {
	sin, cos := math.Sincos(roll)
	return -c.DeltaPitch*cos - c.YawScale*c.DeltaYaw*sin
}

// LateralAngle returns the angle the direction turned toward the frame lateral, for a frame rolled by roll.
func (c Curvature) LateralAngle(roll float64) float64 {
	sin, cos := math.Sincos(roll)
	return c.DeltaPitch*sin - c.YawScale*c.DeltaYaw*cos
}
