package types

import (
	"golang.org/x/image/math/f32"

	"github.com/chewxy/math32"
)

type Vec2 f32.Vec2
type Vec3 f32.Vec3

// Define a 2 component vector.
func XY(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Define a 3 component vector.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Splat a scalar into all components of a Vec3.
func Gray(v float32) Vec3 {
	return Vec3{v, v, v}
}

// Add a vector.
func (v Vec2) Add(v2 Vec2) Vec2 {
	return Vec2{v[0] + v2[0], v[1] + v2[1]}
}

// Subtract a vector.
func (v Vec2) Sub(v2 Vec2) Vec2 {
	return Vec2{v[0] - v2[0], v[1] - v2[1]}
}

// Multiply a 2 component vector with a scalar.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Divide a 2 component vector by a scalar.
func (v Vec2) Div(s float32) Vec2 {
	return Vec2{v[0] / s, v[1] / s}
}

// Calculate dot product of 2 vectors
func (v Vec2) Dot(v2 Vec2) float32 {
	return v[0]*v2[0] + v[1]*v2[1]
}

// Get 2 component vector length.
func (v Vec2) Len() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Component-wise absolute value.
func (v Vec2) Abs() Vec2 {
	return Vec2{math32.Abs(v[0]), math32.Abs(v[1])}
}

// Linear interpolation between v and v2, matching GLSL mix. The end points
// are reproduced exactly for t = 0 and t = 1.
func (v Vec2) Mix(v2 Vec2, t float32) Vec2 {
	return Vec2{v[0]*(1-t) + v2[0]*t, v[1]*(1-t) + v2[1]*t}
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Calculate dot product of 2 vectors
func (v Vec3) Dot(v2 Vec3) float32 {
	return v[0]*v2[0] + v[1]*v2[1] + v[2]*v2[2]
}

// Linear interpolation between v and v2, matching GLSL mix.
func (v Vec3) Mix(v2 Vec3, t float32) Vec3 {
	return Vec3{v[0]*(1-t) + v2[0]*t, v[1]*(1-t) + v2[1]*t, v[2]*(1-t) + v2[2]*t}
}

// Clamp each component to [lo, hi].
func (v Vec3) Clamp(lo, hi float32) Vec3 {
	return Vec3{Clamp(v[0], lo, hi), Clamp(v[1], lo, hi), Clamp(v[2], lo, hi)}
}

// Clamp a scalar to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Hermite interpolation between two edges, matching GLSL smoothstep.
func SmoothStep(edge0, edge1, x float32) float32 {
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Return 0 if x < edge and 1 otherwise, matching GLSL step.
func Step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

// Fractional part, matching GLSL fract.
func Fract(x float32) float32 {
	return x - math32.Floor(x)
}
