package node

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/coastersim/omath"
	"github.com/oomph-ac/coastersim/physics"
)

// CopyPathNode replays the [Start, End] stretch of an existing path from the anchor's pose. Start and End
// are heart distances from the first source point; an End of zero or less copies to the end of the
// source. Velocity and forces are recomputed, since moving the path changes its heights. Curves are
// sampled by elapsed time.
type CopyPathNode struct {
	Source  []physics.Point
	Start   float64
	End     float64
	Driven  bool
	Curves  Curves
	Options Options
}

// Build ...
func (n CopyPathNode) Build(anchor physics.Point, out []physics.Point) []physics.Point {
	s := newStepper("copy path", anchor, n.Curves, n.Driven, physics.DurationTime, n.Options)
	path, ok := newPolyline(n.Source)
	start, end := n.Start, n.End
	if ok {
		start = max(start, 0)
		if end <= 0 || end > path.length() {
			end = path.length()
		}
	}
	if !ok || end-start < physics.Epsilon {
		return s.run(out, func(int, physics.Point) (physics.Point, bool) { return s.stop(OutcomeDegenerate) })
	}

	// Rigid transform taking the source's pose at start onto the anchor.
	srcPos, srcFrame := path.sample(start)
	rotation := anchor.Frame.Basis().Mul3(srcFrame.Basis().Transpose())
	translation := anchor.HeartPosition.Sub(rotation.Mul3x1(srcPos))
	path.reset()

	travelled := start
	return s.run(out, func(i int, prev physics.Point) (physics.Point, bool) {
		if travelled >= end-1e-9 {
			return s.stop(OutcomeCompleted)
		}
		x := s.coordinate(i, prev)
		prev, ok := s.travel(prev, x)
		if !ok {
			return s.stop(OutcomeStalled)
		}
		params := s.params(x)

		travelled = min(travelled+prev.Velocity*physics.DT, end)
		pos, frame := path.sample(travelled)
		pos = rotation.Mul3x1(pos).Add(translation)
		frame = frame.Transform(rotation)

		params.DeltaRoll = omath.WrapAngle(frame.Roll() - prev.Frame.Roll())
		next := s.settle(prev, prev.Advance(pos, frame, params))
		return withForces(prev, next), true
	})
}

// polyline is a point sequence indexed by cumulative heart distance, searched forward from a cursor.
type polyline struct {
	points []physics.Point
	arcs   []float64
	cursor int
}

func newPolyline(points []physics.Point) (*polyline, bool) {
	if len(points) < 2 {
		return nil, false
	}
	arcs := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		arcs[i] = arcs[i-1] + points[i].HeartPosition.Sub(points[i-1].HeartPosition).Len()
	}
	return &polyline{points: points, arcs: arcs}, arcs[len(arcs)-1] > 0
}

func (p *polyline) length() float64 {
	return p.arcs[len(p.arcs)-1]
}

func (p *polyline) reset() {
	p.cursor = 0
}

// sample returns the interpolated heart position and frame at distance s. Queries must not go backwards
// between resets.
func (p *polyline) sample(s float64) (mgl64.Vec3, physics.Frame) {
	for p.cursor < len(p.arcs)-2 && s > p.arcs[p.cursor+1] {
		p.cursor++
	}
	a, b := p.points[p.cursor], p.points[p.cursor+1]
	span := p.arcs[p.cursor+1] - p.arcs[p.cursor]
	var u float64
	if span > 0 {
		u = min(max((s-p.arcs[p.cursor])/span, 0), 1)
	}
	pos := a.HeartPosition.Add(b.HeartPosition.Sub(a.HeartPosition).Mul(u))
	return pos, a.Frame.Lerp(b.Frame, u)
}
