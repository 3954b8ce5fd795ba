package physics

import (
	"fmt"
	"strings"
)

// Params is the bundle of per step parameters threaded through advancement.
type Params struct {
	HeartOffset float64
	Friction    float64
	Resistance  float64
	// DeltaRoll is the roll applied during the step, in radians.
	DeltaRoll float64
	// Driven marks velocity as dictated by a curve rather than by energy.
	Driven bool
}

// DurationType selects what a builder's duration is measured in.
type DurationType uint8

const (
	DurationTime DurationType = iota
	DurationDistance
)

// String ...
func (d DurationType) String() string {
	if d == DurationDistance {
		return "distance"
	}
	return "time"
}

// ParseDurationType parses "time" or "distance".
func ParseDurationType(name string) (DurationType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "time", "":
		return DurationTime, nil
	case "distance":
		return DurationDistance, nil
	}
	return 0, fmt.Errorf("unknown duration type %q", name)
}

// IterationConfig bounds a build by elapsed simulated time or by travelled heart distance.
type IterationConfig struct {
	Duration     float64
	DurationType DurationType
}
