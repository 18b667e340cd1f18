package softbody

import (
	"math"

	"github.com/akmonengine/jelly/constraint"
	"github.com/akmonengine/jelly/geometry"
	"github.com/akmonengine/jelly/logger"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Grab picks the nearest face hit by ray, with the points brought to world
// space by model. On success the face is pinned to the hit point and ray.T
// holds the hit distance. On failure ray.T is NoHit and any previous grab is
// dropped.
func (o *Object) Grab(ray *geometry.Ray, model mgl64.Mat4) bool {
	m := o.mesh

	best := -1
	bestT := math.Inf(1)
	var bestPoint mgl64.Vec3
	var bestDistances [3]float64

	for i, face := range m.Faces {
		a := mgl64.TransformCoordinate(m.Points[face.Points[0]].Position, model)
		b := mgl64.TransformCoordinate(m.Points[face.Points[1]].Position, model)
		c := mgl64.TransformCoordinate(m.Points[face.Points[2]].Position, model)

		normal := b.Sub(a).Cross(c.Sub(a))
		denominator := normal.Dot(ray.Direction)
		if math.Abs(denominator) < constraint.DefaultEpsilon*normal.Len() || denominator == 0 {
			continue
		}

		t := normal.Dot(a.Sub(ray.Origin)) / denominator
		if t < 0 || t >= bestT {
			continue
		}

		hit := ray.At(t)
		if !insideTriangle(a, b, c, normal, hit) {
			continue
		}

		best = i
		bestT = t
		bestPoint = hit
		bestDistances = [3]float64{a.Sub(hit).Len(), b.Sub(hit).Len(), c.Sub(hit).Len()}
	}

	if best < 0 {
		ray.T = geometry.NoHit
		o.Release()
		return false
	}

	ray.T = bestT
	o.grabbed = true
	o.grabFace = best
	o.grabPoint = bestPoint
	o.grabRestDistances = bestDistances
	o.grabLambdas = [3]float64{}

	logger.Debug("face grabbed", zap.Int("face", best), zap.Float64("t", bestT))

	return true
}

// insideTriangle reports whether p, lying on the plane of abc, is inside it.
func insideTriangle(a, b, c, normal, p mgl64.Vec3) bool {
	dAB := b.Sub(a).Cross(p.Sub(a)).Dot(normal)
	dBC := c.Sub(b).Cross(p.Sub(b)).Dot(normal)
	dCA := a.Sub(c).Cross(p.Sub(c)).Dot(normal)

	return (dAB >= 0 && dBC >= 0 && dCA >= 0) || (dAB <= 0 && dBC <= 0 && dCA <= 0)
}

// UpdateGrabPoint moves the world-space anchor of the grabbed face.
func (o *Object) UpdateGrabPoint(point mgl64.Vec3) {
	o.grabPoint = point
}

func (o *Object) GrabPoint() mgl64.Vec3 {
	return o.grabPoint
}

// Grabbed returns the grabbed face index.
func (o *Object) Grabbed() (int, bool) {
	return o.grabFace, o.grabbed
}

func (o *Object) Release() {
	o.grabbed = false
	o.grabFace = -1
}
