package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCurvatureStraight(t *testing.T) {
	f := DefaultFrame()
	c := CurvatureFromFrames(f.WithRoll(0.3), f)
	if !c.Straight() {
		t.Fatalf("rolling in place must not curve the track, got %+v", c)
	}
	forces := ComputeForces(c, f, 20, 0.2)
	if math.Abs(forces.Normal-1) > 1e-12 || math.Abs(forces.Lateral) > 1e-12 {
		t.Fatalf("expected 1g normal on straight level track, got %+v", forces)
	}
}

func TestForcesUnderRoll(t *testing.T) {
	// Banked 90°, gravity is felt entirely laterally.
	f := DefaultFrame().WithRoll(math.Pi / 2)
	forces := ComputeForces(Curvature{}, f, 10, 0.1)
	if math.Abs(forces.Normal) > 1e-9 || math.Abs(math.Abs(forces.Lateral)-1) > 1e-9 {
		t.Fatalf("expected gravity to move to the lateral axis, got %+v", forces)
	}
}

func TestForcesInValley(t *testing.T) {
	// Pitching up at speed presses the rider into the seat.
	const v = 20.0
	prev := DefaultFrame()
	curr := prev.WithPitch(v / 40 * DT) // radius 40 m
	c := CurvatureFromFrames(curr, prev)
	forces := ComputeForces(c, curr, v, v*DT)
	want := 1 + v*v/40/G
	if math.Abs(forces.Normal-want) > 1e-3 {
		t.Fatalf("expected %vg in the valley, got %vg", want, forces.Normal)
	}
	if math.Abs(forces.Lateral) > 1e-9 {
		t.Fatalf("expected no lateral force, got %v", forces.Lateral)
	}
}

func TestForcesInFlatTurn(t *testing.T) {
	const v = 15.0
	prev := DefaultFrame()
	curr := prev.WithYaw(v / 30 * DT)
	c := CurvatureFromFrames(curr, prev)
	forces := ComputeForces(c, curr, v, v*DT)
	if math.Abs(math.Abs(forces.Lateral)-v*v/30/G) > 1e-3 {
		t.Fatalf("expected %vg lateral, got %+v", v*v/30/G, forces)
	}
	if math.Abs(forces.Normal-1) > 1e-6 {
		t.Fatalf("expected 1g normal in a flat turn, got %v", forces.Normal)
	}
}

func TestUpdateVelocity(t *testing.T) {
	if v := UpdateVelocity(10, 0, 0.1, 0, 0); v != 10 {
		t.Fatalf("flat frictionless step changed speed: %v", v)
	}
	if v := UpdateVelocity(1, 5, 0.1, 0, 0); v != 0 {
		t.Fatalf("expected a stall clamped to zero, got %v", v)
	}
	// Climbing h metres and descending it again returns to the starting speed.
	v := 12.0
	for range 100 {
		v = UpdateVelocity(v, 0.03, 0.1, 0, 0)
	}
	for range 100 {
		v = UpdateVelocity(v, -0.03, 0.1, 0, 0)
	}
	if math.Abs(v-12) > 1e-9 {
		t.Fatalf("expected energy to be conserved, got %v", v)
	}
	if UpdateVelocity(12, 0, 0.1, 0.02, 0) >= 12 || UpdateVelocity(12, 0, 0.1, 0, 1e-3) >= 12 {
		t.Fatalf("friction and resistance must slow the train")
	}
}

func TestEnergyModesAgree(t *testing.T) {
	prev := NewAnchor(mgl64.Vec3{0, 10, 0}, DefaultFrame(), 14, 1.1)
	prev.Friction = 0.02
	prev.Resistance = 2e-5
	params := Params{HeartOffset: 1.1, Friction: 0.02, Resistance: 2e-5}
	for i := range 500 {
		pos := prev.HeartPosition.Add(mgl64.Vec3{0, -0.01 * math.Sin(float64(i)/40), -0.14})
		next := prev.Advance(pos, prev.Frame, params)
		delta, abs := EnergyModeDelta.Integrate(prev, next), EnergyModeAbsolute.Integrate(prev, next)
		if math.Abs(delta-abs) > 1e-9 {
			t.Fatalf("step %d: delta=%v absolute=%v", i, delta, abs)
		}
		prev = next.WithVelocity(delta)
	}
}

func TestAdvanceAccumulatesArcs(t *testing.T) {
	p := NewAnchor(mgl64.Vec3{}, DefaultFrame(), 10, 1)
	params := Params{HeartOffset: 1}
	for range 10 {
		p = p.Advance(p.HeartPosition.Add(p.Frame.Direction.Mul(0.1)), p.Frame, params)
	}
	if math.Abs(p.HeartArc-1) > 1e-12 || math.Abs(p.SpineArc-1) > 1e-12 {
		t.Fatalf("expected 1m on both arcs, got heart=%v spine=%v", p.HeartArc, p.SpineArc)
	}
	if !near(p.SpinePosition(), mgl64.Vec3{0, -1, -1}, 1e-12) {
		t.Fatalf("unexpected spine position %v", p.SpinePosition())
	}

	params.Friction = 0.03
	p = p.Advance(p.HeartPosition.Add(p.Frame.Direction.Mul(0.1)), p.Frame, params)
	if math.Abs(p.FrictionOrigin-1) > 1e-12 {
		t.Fatalf("expected the friction origin to reset to 1, got %v", p.FrictionOrigin)
	}
}
