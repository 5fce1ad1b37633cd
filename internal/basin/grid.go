package basin

import (
	"math"

	"github.com/san-kum/magbasin/internal/dynamo"
	"github.com/san-kum/magbasin/internal/physics"
)

// DefaultPlaneZ is the release height used in small-angle mode.
const DefaultPlaneZ = 0.1

// Grid maps pixel coordinates onto the horizontal plane. Row 0 is the top
// (MaxY) edge.
type Grid struct {
	Width, Height int
	Bounds        physics.Bounds
}

// Point returns the plane coordinates of pixel (px, py).
func (g Grid) Point(px, py int) (x, y float64) {
	b := g.Bounds
	x = b.MinX + b.Width()*float64(px)/float64(g.Width)
	y = b.MaxY - b.Height()*float64(py)/float64(g.Height)
	return x, y
}

func (g Grid) Size() int { return g.Width * g.Height }

// StartPosition lifts a plane point to a release position. In small-angle
// mode the bob starts at height planeZ. In rigorous mode it starts on the
// lower hemisphere of radius suspension.z about the suspension point; points
// outside that disc cannot be reached and report false.
func StartPosition(sys *physics.System, x, y, planeZ float64) (dynamo.Vec3, bool) {
	switch sys.Pendulum.Approximation {
	case physics.SmallAngle:
		return dynamo.V(x, y, planeZ), true
	case physics.Rigorous:
		s := sys.Pendulum.Suspension
		l := s.Z
		dx, dy := x-s.X, y-s.Y
		r2 := dx*dx + dy*dy
		if r2 > l*l {
			return dynamo.Vec3{}, false
		}
		return dynamo.V(x, y, s.Z-math.Sqrt(l*l-r2)), true
	}
	return dynamo.Vec3{}, false
}
