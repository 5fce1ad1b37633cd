package dynamo

import "math"

// Vec3 is a 3-D vector with value semantics. Every method returns a new value.
type Vec3 struct {
	X, Y, Z float64
}

func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Div divides every component by s. No guard against s == 0.
func (a Vec3) Div(s float64) Vec3 { return Vec3{a.X / s, a.Y / s, a.Z / s} }

// Mul is the componentwise product.
func (a Vec3) Mul(b Vec3) Vec3 { return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }

// DivVec is the componentwise quotient.
func (a Vec3) DivVec(b Vec3) Vec3 { return Vec3{a.X / b.X, a.Y / b.Y, a.Z / b.Z} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) LenSq() float64 { return a.X*a.X + a.Y*a.Y + a.Z*a.Z }

func (a Vec3) Len() float64 { return math.Sqrt(a.LenSq()) }

// Lerp returns a*(1-t) + b*t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return a.Scale(1 - t).Add(b.Scale(t))
}

func (a Vec3) IsFinite() bool {
	return isFinite(a.X) && isFinite(a.Y) && isFinite(a.Z)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
