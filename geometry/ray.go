package geometry

import "github.com/go-gl/mathgl/mgl64"

// Ray is a half-line used for picking. T holds the distance of the last hit
// along Direction, or NoHit.
type Ray struct {
	Origin       mgl64.Vec3
	Direction    mgl64.Vec3
	InvDirection mgl64.Vec3
	T            float64
}

// NewRay normalizes direction and precomputes its component-wise inverse.
// Zero components produce infinite inverses, which the slab test handles.
func NewRay(origin, direction mgl64.Vec3) Ray {
	if l := direction.Len(); l > 0 {
		direction = direction.Mul(1.0 / l)
	}

	var inv mgl64.Vec3
	for i := 0; i < 3; i++ {
		inv[i] = 1.0 / direction[i]
	}

	return Ray{
		Origin:       origin,
		Direction:    direction,
		InvDirection: inv,
		T:            NoHit,
	}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Point returns the point of the last recorded hit.
func (r Ray) Point() mgl64.Vec3 {
	return r.At(r.T)
}

func (r Ray) Hit() bool {
	return r.T >= 0
}
