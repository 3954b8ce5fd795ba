package physics

import "github.com/go-gl/mathgl/mgl64"

// Point is a single sample of the rider state. Points are values: builders derive every point from the
// previous one and never modify one in place.
type Point struct {
	HeartPosition mgl64.Vec3
	Frame         Frame
	Velocity      float64

	NormalForce  float64
	LateralForce float64

	// HeartArc and SpineArc accumulate the distance travelled along the heart line and the rail. They
	// drift apart wherever the heart offset or roll changes.
	HeartArc float64
	SpineArc float64
	// HeartAdvance is the distance the heart moved in the step that produced this point.
	HeartAdvance float64
	// FrictionOrigin is the heart arc at which the friction value last changed.
	FrictionOrigin float64

	RollSpeed   float64
	HeartOffset float64
	Friction    float64
	Resistance  float64
}

// NewAnchor returns a point at rest in the given pose, suitable as the seed of a build.
func NewAnchor(position mgl64.Vec3, frame Frame, velocity, heartOffset float64) Point {
	return Point{
		HeartPosition: position,
		Frame:         frame,
		Velocity:      velocity,
		NormalForce:   1,
		HeartOffset:   heartOffset,
	}
}

// SpinePosition returns the position of the rail, offset from the heart along the frame normal.
func (p Point) SpinePosition() mgl64.Vec3 {
	return p.HeartPosition.Add(p.Frame.Normal.Mul(p.HeartOffset))
}

// WithVelocity returns a copy of p moving at v.
func (p Point) WithVelocity(v float64) Point {
	p.Velocity = v
	return p
}

// WithForces returns a copy of p carrying the given apparent forces.
func (p Point) WithForces(normal, lateral float64) Point {
	p.NormalForce, p.LateralForce = normal, lateral
	return p
}

// Advance moves the heart to pos with frame f, accumulating heart and spine arc lengths and taking
// over the per step parameters in params.
func (p Point) Advance(pos mgl64.Vec3, f Frame, params Params) Point {
	next := p
	next.HeartPosition = pos
	next.Frame = f
	next.HeartOffset = params.HeartOffset
	next.Friction = params.Friction
	next.Resistance = params.Resistance
	next.RollSpeed = params.DeltaRoll * Hz

	next.HeartAdvance = pos.Sub(p.HeartPosition).Len()
	next.HeartArc = p.HeartArc + next.HeartAdvance
	next.SpineArc = p.SpineArc + next.SpinePosition().Sub(p.SpinePosition()).Len()
	if params.Friction != p.Friction {
		next.FrictionOrigin = p.HeartArc
	}
	return next
}
