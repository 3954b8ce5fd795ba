package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/coastersim/omath"
)

// Frame is the orthonormal basis carried along the track. Direction is the path tangent, Normal is
// the axis the heart offset is measured along (pointing to the floor on level track) and Lateral
// points sideways. Direction×Lateral = Normal.
type Frame struct {
	Direction mgl64.Vec3
	Normal    mgl64.Vec3
	Lateral   mgl64.Vec3
}

// DefaultFrame returns a level frame facing -Z.
func DefaultFrame() Frame {
	return Frame{
		Direction: mgl64.Vec3{0, 0, -1},
		Normal:    mgl64.Vec3{0, -1, 0},
		Lateral:   mgl64.Vec3{1, 0, 0},
	}
}

// FrameFromDirection builds an unrolled frame around dir and then rolls it by roll radians. A vertical
// dir has no defined lateral, so world-right is used.
func FrameFromDirection(dir mgl64.Vec3, roll float64) Frame {
	d := omath.SafeNormalize(dir, DefaultFrame().Direction, Epsilon)
	l := omath.SafeNormalize(d.Cross(WorldUp), WorldRight, Epsilon)
	f := Frame{Direction: d, Normal: d.Cross(l), Lateral: l}.Orthonormalize()
	if roll != 0 {
		f = f.WithRoll(roll)
	}
	return f
}

// FrameFromAngles builds the frame with the given pitch, yaw and roll in radians, so that Pitch, Yaw and
// Roll report them back.
func FrameFromAngles(pitch, yaw, roll float64) Frame {
	sp, cp := math.Sincos(pitch)
	sy, cy := math.Sincos(yaw)
	return FrameFromDirection(mgl64.Vec3{-sy * cp, sp, -cy * cp}, roll)
}

// Roll ...
func (f Frame) Roll() float64 {
	return math.Atan2(f.Lateral.Y(), -f.Normal.Y())
}

// Pitch ...
func (f Frame) Pitch() float64 {
	return math.Atan2(f.Direction.Y(), math.Hypot(f.Direction.X(), f.Direction.Z()))
}

// Yaw ...
func (f Frame) Yaw() float64 {
	return math.Atan2(-f.Direction.X(), -f.Direction.Z())
}

// WithRoll rolls the frame about its direction by delta radians.
func (f Frame) WithRoll(delta float64) Frame {
	q := mgl64.QuatRotate(-delta, f.Direction)
	l := q.Rotate(f.Lateral)
	return Frame{
		Direction: f.Direction,
		Normal:    f.Direction.Cross(l),
		Lateral:   l,
	}.Orthonormalize()
}

// WithPitch pitches the frame by delta radians. The pitch axis is taken relative to world up, flipped
// when the frame is inverted so that pitching stays continuous through upside-down sections.
func (f Frame) WithPitch(delta float64) Frame {
	up := WorldUp
	if f.Normal.Y() >= 0 {
		up = up.Mul(-1)
	}
	axis := omath.SafeNormalize(up.Cross(f.Direction), f.Lateral.Mul(-1), Epsilon)
	return f.RotateAround(axis, -delta)
}

// WithYaw yaws the frame about world up by delta radians.
func (f Frame) WithYaw(delta float64) Frame {
	return f.RotateAround(WorldUp, delta)
}

// RotateAround rotates all three basis vectors about axis by angle radians.
func (f Frame) RotateAround(axis mgl64.Vec3, angle float64) Frame {
	if angle == 0 || axis.Len() < Epsilon {
		return f
	}
	q := mgl64.QuatRotate(angle, axis.Normalize())
	return Frame{
		Direction: q.Rotate(f.Direction),
		Normal:    q.Rotate(f.Normal),
		Lateral:   q.Rotate(f.Lateral),
	}.Orthonormalize()
}

// Orthonormalize re-orthogonalises the basis against Direction with Gram-Schmidt.
func (f Frame) Orthonormalize() Frame {
	d := omath.SafeNormalize(f.Direction, DefaultFrame().Direction, Epsilon)
	n := f.Normal.Sub(d.Mul(f.Normal.Dot(d)))
	if n.Len() < Epsilon {
		l := f.Lateral.Sub(d.Mul(f.Lateral.Dot(d)))
		if l.Len() < Epsilon {
			return FrameFromDirection(d, 0)
		}
		l = l.Normalize()
		return Frame{Direction: d, Normal: d.Cross(l), Lateral: l}
	}
	n = n.Normalize()
	return Frame{Direction: d, Normal: n, Lateral: n.Cross(d)}
}

// Basis returns the frame as a matrix with Direction, Normal and Lateral as its columns.
func (f Frame) Basis() mgl64.Mat3 {
	return mgl64.Mat3FromCols(f.Direction, f.Normal, f.Lateral)
}

// Transform rotates every basis vector by m.
func (f Frame) Transform(m mgl64.Mat3) Frame {
	return Frame{
		Direction: m.Mul3x1(f.Direction),
		Normal:    m.Mul3x1(f.Normal),
		Lateral:   m.Mul3x1(f.Lateral),
	}.Orthonormalize()
}

// Lerp blends two frames component-wise and re-orthonormalises the result.
func (f Frame) Lerp(to Frame, t float64) Frame {
	return Frame{
		Direction: f.Direction.Add(to.Direction.Sub(f.Direction).Mul(t)),
		Normal:    f.Normal.Add(to.Normal.Sub(f.Normal).Mul(t)),
		Lateral:   f.Lateral.Add(to.Lateral.Sub(f.Lateral).Mul(t)),
	}.Orthonormalize()
}
