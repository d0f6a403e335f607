package particles

import "math"

// Vec3 is a point or displacement in field space.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) LenSq() float64       { return a.X*a.X + a.Y*a.Y + a.Z*a.Z }
func (a Vec3) Len() float64         { return math.Sqrt(a.LenSq()) }

// Finite reports whether every component is a real number.
func (a Vec3) Finite() bool {
	return !math.IsNaN(a.X) && !math.IsInf(a.X, 0) &&
		!math.IsNaN(a.Y) && !math.IsInf(a.Y, 0) &&
		!math.IsNaN(a.Z) && !math.IsInf(a.Z, 0)
}

// RGB is a linear color with components in [0,1].
type RGB struct {
	R, G, B float64
}

func (c RGB) Scale(s float64) RGB { return RGB{c.R * s, c.G * s, c.B * s} }

// Palette used by the site theme.
var (
	ColorDanger = RGB{1, 0, 0.25}
	ColorMist   = RGB{1, 1, 1}
	ColorCyan   = RGB{0, 0.94, 1}
)

// wrap moves v to the opposite bound when it leaves [-limit, limit].
func wrap(v, limit float64) float64 {
	if v > limit {
		return -limit
	}
	if v < -limit {
		return limit
	}
	return v
}
