package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NoHit is returned by ray queries that miss.
const NoHit = -1.0

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB returns the smallest box enclosing every point. An empty slice
// yields the zero box.
func NewAABB(points []mgl64.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], p[i])
			max[i] = math.Max(max[i], p[i])
		}
	}

	return AABB{Min: min, Max: max}
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

// Corners returns the 8 corners of the box
func (a AABB) Corners() [8]mgl64.Vec3 {
	return [8]mgl64.Vec3{
		{a.Min.X(), a.Min.Y(), a.Min.Z()},
		{a.Min.X(), a.Min.Y(), a.Max.Z()},
		{a.Min.X(), a.Max.Y(), a.Min.Z()},
		{a.Min.X(), a.Max.Y(), a.Max.Z()},
		{a.Max.X(), a.Min.Y(), a.Min.Z()},
		{a.Max.X(), a.Min.Y(), a.Max.Z()},
		{a.Max.X(), a.Max.Y(), a.Min.Z()},
		{a.Max.X(), a.Max.Y(), a.Max.Z()},
	}
}

// Transform returns the world-space AABB enclosing the 8 transformed corners.
// For rotated boxes the result is larger than the oriented box it bounds.
func (a AABB) Transform(model mgl64.Mat4) AABB {
	corners := a.Corners()

	worldCorner := mgl64.TransformCoordinate(corners[0], model)
	min := worldCorner
	max := worldCorner

	for i := 1; i < 8; i++ {
		worldCorner = mgl64.TransformCoordinate(corners[i], model)

		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])

		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	return AABB{Min: min, Max: max}
}

// IntersectsTransformed brings both local boxes into world space with their
// model matrices and compares the axis-aligned extents.
func (a AABB) IntersectsTransformed(other AABB, otherModel, model mgl64.Mat4) bool {
	return a.Transform(model).Overlaps(other.Transform(otherModel))
}

// IntersectRay runs the slab test against the world-space box.
// It returns the entry distance when the ray hits from outside, the exit
// distance when the origin is inside the box, and NoHit otherwise.
func (a AABB) IntersectRay(ray Ray, model mgl64.Mat4) float64 {
	world := a.Transform(model)

	tNear := math.Inf(-1)
	tFar := math.Inf(1)

	for i := 0; i < 3; i++ {
		if ray.Direction[i] == 0 {
			// Parallel to the slab: either always inside it or never.
			if ray.Origin[i] < world.Min[i] || ray.Origin[i] > world.Max[i] {
				return NoHit
			}
			continue
		}

		t1 := (world.Min[i] - ray.Origin[i]) * ray.InvDirection[i]
		t2 := (world.Max[i] - ray.Origin[i]) * ray.InvDirection[i]

		tNear = math.Max(tNear, math.Min(t1, t2))
		tFar = math.Min(tFar, math.Max(t1, t2))
	}

	if tFar < tNear || tFar < 0 {
		return NoHit
	}
	if tNear < 0 {
		return tFar
	}

	return tNear
}
