package physics

import "math"

// Bounds is an axis-aligned box in the horizontal plane.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Diverged reports whether (x, y) left the box scaled by two about the origin.
// The box always contains the origin, so this is a strictly wider region.
func (b Bounds) Diverged(x, y float64) bool {
	return x < 2*b.MinX || x > 2*b.MaxX || y < 2*b.MinY || y > 2*b.MaxY
}

// SuggestBounds derives the sampling box from the magnet layout: the
// bounding box of magnet x/y positions grown to contain the origin, padded on
// each axis by paddingRatio of its span (1.0 for a zero span). In rigorous
// mode the box is clipped to the horizontal radius reachable from a release
// height of heightLimitRatio·L, with L taken as the suspension height.
func SuggestBounds(s *System, paddingRatio, heightLimitRatio float64) Bounds {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)

	if len(s.Magnets) == 0 {
		minX, maxX, minY, maxY = -1, 1, -1, 1
	}
	for _, m := range s.Magnets {
		minX = math.Min(minX, m.Position.X)
		maxX = math.Max(maxX, m.Position.X)
		minY = math.Min(minY, m.Position.Y)
		maxY = math.Max(maxY, m.Position.Y)
	}

	minX, maxX = math.Min(minX, 0), math.Max(maxX, 0)
	minY, maxY = math.Min(minY, 0), math.Max(maxY, 0)

	padX, padY := 1.0, 1.0
	if w := maxX - minX; w != 0 {
		padX = w * paddingRatio
	}
	if h := maxY - minY; h != 0 {
		padY = h * paddingRatio
	}

	b := Bounds{
		MinX: minX - padX,
		MaxX: maxX + padX,
		MinY: minY - padY,
		MaxY: maxY + padY,
	}

	if s.Pendulum.Approximation == Rigorous {
		if r, ok := releaseRadius(s.Pendulum.Suspension.Z, heightLimitRatio); ok {
			b.MinX = math.Max(b.MinX, -r)
			b.MaxX = math.Min(b.MaxX, r)
			b.MinY = math.Max(b.MinY, -r)
			b.MaxY = math.Min(b.MaxY, r)
		}
	}

	return b
}

// releaseRadius is the horizontal offset of a bob on a rod of length l lifted
// to height ratio·l above its lowest point.
func releaseRadius(l, ratio float64) (float64, bool) {
	vertical := l - l*ratio
	if vertical <= 0 || vertical >= l {
		return 0, false
	}
	return math.Sqrt(l*l - vertical*vertical), true
}
