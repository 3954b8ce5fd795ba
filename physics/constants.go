package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Hz is the fixed rate every builder steps at.
	Hz = 100.0
	// DT is the length of a single step in seconds.
	DT = 1.0 / Hz
	// G is standard gravity in m/s².
	G = 9.80665

	// Epsilon is the threshold below which vectors are considered degenerate.
	Epsilon = 1e-6
	// MinVelocity is the slowest a train may move. Below it a climbing train stalls and a descending
	// one creeps over the crest.
	MinVelocity = 1e-3
	// MaxAngleRate bounds the angular rate (rad/s) derived from target forces.
	MaxAngleRate = 4 * math.Pi
	// MaxIterations caps the number of steps a single build may take.
	MaxIterations = 100_000
)

var (
	WorldUp    = mgl64.Vec3{0, 1, 0}
	WorldRight = mgl64.Vec3{1, 0, 0}
)
