package math

import (
	"fmt"
	gomath "math"
)

const Epsilon = 1e-10

// Vec3 is an immutable 3d vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func V(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

func (v Vec3) Distance(o Vec3) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return gomath.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (v Vec3) IsClose(o Vec3, eps ...float64) bool {
	e := Epsilon
	if len(eps) > 0 {
		e = eps[0]
	}
	return gomath.Abs(v.X-o.X) <= e &&
		gomath.Abs(v.Y-o.Y) <= e &&
		gomath.Abs(v.Z-o.Z) <= e
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
