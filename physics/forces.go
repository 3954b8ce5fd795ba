package physics

// Forces are the apparent forces felt by the rider, in g. A rider sitting still on level track feels a
// normal force of 1.
type Forces struct {
	Normal  float64
	Lateral float64
}

// ComputeForces derives the apparent forces for a step that turned by c, ending in frame f while
// moving at velocity and covering advance metres.
func ComputeForces(c Curvature, f Frame, velocity, advance float64) Forces {
	forceVec := WorldUp
	if !c.Straight() {
		roll := f.Roll()
		lateral := velocity * Hz * c.LateralAngle(roll) / G
		normal := advance * Hz * Hz * c.NormalAngle(roll) / G
		forceVec = forceVec.Add(f.Lateral.Mul(lateral)).Add(f.Normal.Mul(normal))
	}
	return Forces{
		Normal:  -forceVec.Dot(f.Normal),
		Lateral: -forceVec.Dot(f.Lateral),
	}
}
