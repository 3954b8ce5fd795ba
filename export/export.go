// Package export turns built points into the forms other programs read: float32 vertices for a renderer
// and CSV rows for inspection.
package export

import (
	"encoding/binary"
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/coastersim/oerror"
	"github.com/oomph-ac/coastersim/omath"
	"github.com/oomph-ac/coastersim/physics"
	"github.com/samber/lo"
)

// Vertex is a point of the rail in render precision.
type Vertex struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Normal    mgl32.Vec3
	Lateral   mgl32.Vec3
	// Bank is the roll of the rail in degrees.
	Bank float32
	// Arc is the distance along the rail.
	Arc float32
}

// NewVertex converts a point into a vertex on the rail.
func NewVertex(p physics.Point) Vertex {
	v := Vertex{
		Position:  omath.Vec64To32(p.SpinePosition()),
		Direction: omath.Vec64To32(p.Frame.Direction),
		Normal:    omath.Vec64To32(p.Frame.Normal),
		Lateral:   omath.Vec64To32(p.Frame.Lateral),
		Arc:       float32(p.SpineArc),
	}
	v.Bank = mgl32.RadToDeg(omath.WrapAngle32(math32.Atan2(v.Lateral.Y(), -v.Normal.Y())))
	return v
}

// Vertices converts every point. A positive spacing keeps only the points at least spacing metres of
// rail apart, and always keeps the first and last point.
func Vertices(points []physics.Point, spacing float64) []Vertex {
	if spacing > 0 && len(points) > 2 {
		next := points[0].SpineArc
		last := len(points) - 1
		points = lo.Filter(points, func(p physics.Point, i int) bool {
			if i == 0 || i == last {
				return true
			}
			if p.SpineArc >= next+spacing {
				next = p.SpineArc
				return true
			}
			return false
		})
	}
	return lo.Map(points, func(p physics.Point, _ int) Vertex {
		return NewVertex(p)
	})
}

// WriteVertices writes the vertex count followed by the vertices as little endian float32 values.
func WriteVertices(w io.Writer, vs []Vertex) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(vs))); err != nil {
		return oerror.New("error writing vertex count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, vs); err != nil {
		return oerror.New("error writing vertices: %w", err)
	}
	return nil
}

// ReadVertices reads vertices written by WriteVertices.
func ReadVertices(r io.Reader) ([]Vertex, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, oerror.New("error reading vertex count: %w", err)
	}
	vs := make([]Vertex, n)
	if err := binary.Read(r, binary.LittleEndian, vs); err != nil {
		return nil, oerror.New("error reading vertices: %w", err)
	}
	return vs, nil
}

// Header is the first row written by WriteCSV.
var Header = []string{
	"time", "x", "y", "z", "spine_x", "spine_y", "spine_z",
	"pitch", "yaw", "roll", "velocity", "normal_force", "lateral_force",
	"heart_arc", "spine_arc", "heart_offset", "friction", "resistance",
}

// WriteCSV writes a row per point, angles in degrees.
func WriteCSV(w io.Writer, points []physics.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return oerror.New("error writing csv header: %w", err)
	}
	row := make([]string, len(Header))
	for i, p := range points {
		spine := p.SpinePosition()
		values := [...]float64{
			float64(i) * physics.DT,
			p.HeartPosition.X(), p.HeartPosition.Y(), p.HeartPosition.Z(),
			spine.X(), spine.Y(), spine.Z(),
			degrees(p.Frame.Pitch()), degrees(p.Frame.Yaw()), degrees(p.Frame.Roll()),
			p.Velocity, p.NormalForce, p.LateralForce,
			p.HeartArc, p.SpineArc, p.HeartOffset, p.Friction, p.Resistance,
		}
		for j, v := range values {
			row[j] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := cw.Write(row); err != nil {
			return oerror.New("error writing csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return oerror.New("error flushing csv: %w", err)
	}
	return nil
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
