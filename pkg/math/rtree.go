package math

import (
	"fmt"
	gomath "math"
	"slices"
	"sort"
)

const DefaultMaxNodeSize = 16

// RTree is an immutable spatial search tree for 3d points built
// once from its point set. Duplicate points are kept.
type RTree struct {
	root node
	size int
}

type node interface {
	bbox() BoundingBox
}

type leaf struct {
	points []Vec3
	box    BoundingBox
}

type inner struct {
	children []node
	box      BoundingBox
}

func (l *leaf) bbox() BoundingBox  { return l.box }
func (n *inner) bbox() BoundingBox { return n.box }

func NewRTree(points []Vec3, maxNodeSize ...int) (*RTree, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("point list must not be empty")
	}
	max := DefaultMaxNodeSize
	if len(maxNodeSize) > 0 && maxNodeSize[0] > 1 {
		max = maxNodeSize[0]
	}
	return &RTree{
		root: build(slices.Clone(points), max),
		size: len(points),
	}, nil
}

func build(points []Vec3, max int) node {
	if len(points) <= max {
		return &leaf{points: points, box: NewBoundingBox(points...)}
	}

	// split at the largest extent dimension
	box := NewBoundingBox(points...)
	size := box.Size()
	switch {
	case size.X >= size.Y && size.X >= size.Z:
		sort.Slice(points, func(i, j int) bool { return points[i].X < points[j].X })
	case size.Y >= size.Z:
		sort.Slice(points, func(i, j int) bool { return points[i].Y < points[j].Y })
	default:
		sort.Slice(points, func(i, j int) bool { return points[i].Z < points[j].Z })
	}

	n := &inner{box: box}
	count := (len(points) + max - 1) / max
	if count > max {
		count = max
	}
	chunk := (len(points) + count - 1) / count
	for i := 0; i < len(points); i += chunk {
		end := i + chunk
		if end > len(points) {
			end = len(points)
		}
		n.children = append(n.children, build(points[i:end], max))
	}
	return n
}

func (t *RTree) Len() int {
	return t.size
}

// Contains checks for the presence of a point within the default
// tolerance.
func (t *RTree) Contains(p Vec3) bool {
	found := false
	t.walk(t.root, NewBoundingBox(p), func(q Vec3) bool {
		if q.IsClose(p) {
			found = true
			return false
		}
		return true
	})
	return found
}

// NearestNeighbour yields the stored point closest to target and
// its distance.
func (t *RTree) NearestNeighbour(target Vec3) (Vec3, float64) {
	best := Vec3{}
	bestDist := gomath.Inf(1)
	t.nearest(t.root, target, &best, &bestDist)
	return best, bestDist
}

func (t *RTree) nearest(n node, target Vec3, best *Vec3, bestDist *float64) {
	switch e := n.(type) {
	case *leaf:
		for _, p := range e.points {
			if d := p.Distance(target); d < *bestDist {
				*best, *bestDist = p, d
			}
		}
	case *inner:
		children := slices.Clone(e.children)
		sort.Slice(children, func(i, j int) bool {
			return children[i].bbox().distance(target) < children[j].bbox().distance(target)
		})
		for _, c := range children {
			if c.bbox().distance(target) <= *bestDist {
				t.nearest(c, target, best, bestDist)
			}
		}
	}
}

// PointsInSphere yields all stored points within radius around
// center.
func (t *RTree) PointsInSphere(center Vec3, radius float64) []Vec3 {
	box := NewBoundingBox(
		center.Sub(Vec3{radius, radius, radius}),
		center.Add(Vec3{radius, radius, radius}),
	)
	var r []Vec3
	t.walk(t.root, box, func(p Vec3) bool {
		if p.Distance(center) <= radius {
			r = append(r, p)
		}
		return true
	})
	return r
}

// PointsInBBox yields all stored points inside the given box.
func (t *RTree) PointsInBBox(box BoundingBox) []Vec3 {
	var r []Vec3
	t.walk(t.root, box, func(p Vec3) bool {
		if box.Contains(p) {
			r = append(r, p)
		}
		return true
	})
	return r
}

func (t *RTree) walk(n node, box BoundingBox, f func(p Vec3) bool) bool {
	if !n.bbox().overlaps(box) {
		return true
	}
	switch e := n.(type) {
	case *leaf:
		for _, p := range e.points {
			if !f(p) {
				return false
			}
		}
	case *inner:
		for _, c := range e.children {
			if !t.walk(c, box, f) {
				return false
			}
		}
	}
	return true
}
