// Package node implements the builders that turn an anchor point and a set of parameter curves into a
// sequence of points. Every builder steps at physics.Hz, never mutates its input and appends into a
// slice owned by the caller, so independent builds may run concurrently.
package node

import (
	"github.com/oomph-ac/coastersim/keyframe"
	"github.com/oomph-ac/coastersim/physics"
)

// Builder produces the points of a single node. The first point appended is always the anchor.
type Builder interface {
	Build(anchor physics.Point, out []physics.Point) []physics.Point
}

// Curves holds the keyframe curves a builder may read. Curves a builder does not use are ignored, and
// an empty curve falls back to the anchor's value (or the neutral value for rates and forces).
type Curves struct {
	RollSpeed      keyframe.Curve
	NormalForce    keyframe.Curve
	LateralForce   keyframe.Curve
	PitchSpeed     keyframe.Curve
	YawSpeed       keyframe.Curve
	DrivenVelocity keyframe.Curve
	HeartOffset    keyframe.Curve
	Friction       keyframe.Curve
	Resistance     keyframe.Curve
}

// Options define builder behaviour that is not part of the node itself.
type Options struct {
	// Energy selects the velocity integrator used when the node is not driven.
	Energy physics.EnergyMode
	// Debugf receives step traces for callers that need deep diagnostics.
	Debugf func(format string, args ...any)
}

func (o Options) debugf(format string, args ...any) {
	if o.Debugf != nil {
		o.Debugf(format, args...)
	}
}
