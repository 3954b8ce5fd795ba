package physics

import (
	"fmt"
	"math"
	"strings"
)

// EnergyMode selects the velocity integrator.
type EnergyMode uint8

const (
	// EnergyModeDelta integrates the change in height each step. It is the default.
	EnergyModeDelta EnergyMode = iota
	// EnergyModeAbsolute rebuilds total energy every step, matching tracks saved by older versions.
	EnergyModeAbsolute
)

// String ...
func (m EnergyMode) String() string {
	if m == EnergyModeAbsolute {
		return "absolute"
	}
	return "delta"
}

// ParseEnergyMode parses "delta" or "absolute".
func ParseEnergyMode(name string) (EnergyMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "delta", "":
		return EnergyModeDelta, nil
	case "absolute", "legacy":
		return EnergyModeAbsolute, nil
	}
	return 0, fmt.Errorf("unknown energy mode %q", name)
}

// UpdateVelocity returns the speed after a step that rose by deltaY over distance metres. It works on
// the height change rather than absolute potential energy, which would lose precision over long tracks.
func UpdateVelocity(vPrev, deltaY, distance, friction, resistance float64) float64 {
	v2 := vPrev*vPrev - 2*G*(deltaY+friction*distance) - 2*vPrev*vPrev*vPrev*resistance*DT
	return math.Sqrt(math.Max(0, v2))
}

// UpdateVelocityAbsolute is the legacy integrator. It rebuilds the total energy of prev, including the
// friction loss accumulated since the friction origin, and solves for the speed at next.
func UpdateVelocityAbsolute(prev, next Point) float64 {
	frictionPrev := next.Friction * (prev.HeartArc - next.FrictionOrigin)
	frictionNext := next.Friction * (next.HeartArc - next.FrictionOrigin)

	energy := 0.5*prev.Velocity*prev.Velocity + G*(prev.HeartPosition.Y()+frictionPrev)
	energy -= prev.Velocity * prev.Velocity * prev.Velocity * next.Resistance * DT
	return math.Sqrt(math.Max(0, 2*(energy-G*(next.HeartPosition.Y()+frictionNext))))
}

// Integrate returns the free-running velocity at next given the state at prev.
func (m EnergyMode) Integrate(prev, next Point) float64 {
	if m == EnergyModeAbsolute {
		return UpdateVelocityAbsolute(prev, next)
	}
	deltaY := next.HeartPosition.Y() - prev.HeartPosition.Y()
	return UpdateVelocity(prev.Velocity, deltaY, next.HeartAdvance, next.Friction, next.Resistance)
}
