package math

import (
	gomath "math"
)

// BoundingBox is an axis aligned 3d box. The zero value is empty.
type BoundingBox struct {
	Min, Max Vec3
	has      bool
}

func NewBoundingBox(points ...Vec3) BoundingBox {
	var b BoundingBox
	b.Extend(points...)
	return b
}

func (b *BoundingBox) Extend(points ...Vec3) {
	for _, p := range points {
		if !b.has {
			b.Min, b.Max = p, p
			b.has = true
			continue
		}
		b.Min = Vec3{gomath.Min(b.Min.X, p.X), gomath.Min(b.Min.Y, p.Y), gomath.Min(b.Min.Z, p.Z)}
		b.Max = Vec3{gomath.Max(b.Max.X, p.X), gomath.Max(b.Max.Y, p.Y), gomath.Max(b.Max.Z, p.Z)}
	}
}

func (b BoundingBox) IsEmpty() bool {
	return !b.has
}

func (b BoundingBox) Contains(p Vec3) bool {
	return b.has &&
		p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b BoundingBox) Size() Vec3 {
	if !b.has {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

func (b BoundingBox) Center() Vec3 {
	if !b.has {
		return Vec3{}
	}
	return b.Min.Add(b.Size().Scale(0.5))
}

// distance of p to the closest point of the box, 0 if inside.
func (b BoundingBox) distance(p Vec3) float64 {
	dx := gomath.Max(gomath.Max(b.Min.X-p.X, 0), p.X-b.Max.X)
	dy := gomath.Max(gomath.Max(b.Min.Y-p.Y, 0), p.Y-b.Max.Y)
	dz := gomath.Max(gomath.Max(b.Min.Z-p.Z, 0), p.Z-b.Max.Z)
	return gomath.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (b BoundingBox) overlaps(o BoundingBox) bool {
	if !b.has || !o.has {
		return false
	}
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}
