package softbody

import (
	"math"

	"github.com/akmonengine/jelly/constraint"
	"github.com/akmonengine/jelly/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Object runs the XPBD solve loop of one mesh and holds its grab state.
type Object struct {
	mesh   *Mesh
	static bool

	grabbed           bool
	grabFace          int
	grabPoint         mgl64.Vec3
	grabRestDistances [3]float64
	grabLambdas       [3]float64
}

func NewObject(mesh *Mesh) *Object {
	return &Object{
		mesh:     mesh,
		grabFace: -1,
	}
}

func (o *Object) Mesh() *Mesh {
	return o.mesh
}

// SetStatic freezes the object: Update becomes a no-op and it cannot be grabbed.
func (o *Object) SetStatic(static bool) {
	o.static = static
	if static {
		o.Release()
	}
}

func (o *Object) IsStatic() bool {
	return o.static
}

// AABB returns the local-space bounds of the current point positions.
func (o *Object) AABB() geometry.AABB {
	return geometry.NewAABB(o.mesh.Positions())
}

// ApplyForce spreads force evenly over the points as a velocity change.
func (o *Object) ApplyForce(force mgl64.Vec3) {
	perPoint := force.Mul(1.0 / float64(len(o.mesh.Points)))
	for i := range o.mesh.Points {
		p := &o.mesh.Points[i]
		p.Velocity = p.Velocity.Add(perPoint.Mul(p.InvMass))
	}
}

// Accelerate adds the same velocity change to every point.
func (o *Object) Accelerate(acceleration mgl64.Vec3) {
	for i := range o.mesh.Points {
		p := &o.mesh.Points[i]
		p.Velocity = p.Velocity.Add(acceleration)
	}
}

// Update advances the object by dt seconds. transform is the owning node's
// transform: its cached model matrix brings the points to world space, and
// its Position is moved to the new centroid afterwards.
func (o *Object) Update(dt float64, transform *geometry.Transform, params Params) {
	if o.static || dt <= 0 {
		return
	}

	substeps := params.Substeps
	if substeps < 1 {
		substeps = 1
	}

	m := o.mesh
	model := transform.ModelMatrix()
	for i := range m.Points {
		m.Points[i].Position = mgl64.TransformCoordinate(m.Points[i].Position, model)
	}

	m.resetLambdas()
	o.grabLambdas = [3]float64{}

	h := dt / float64(substeps)
	for step := 0; step < substeps; step++ {
		o.predict(h, params.Gravity)
		o.collide(params)
		o.solveConstraints(h, params.Epsilon)
		if o.grabbed {
			o.solveGrab(h, params.Epsilon)
		}
		o.updateVelocities(h)
	}

	o.recenter(transform)
	m.updateNormals()
}

func (o *Object) predict(h float64, gravity mgl64.Vec3) {
	for i := range o.mesh.Points {
		p := &o.mesh.Points[i]
		p.Velocity = p.Velocity.Add(gravity.Mul(h))
		p.PrevPosition = p.Position
		p.Position = p.Position.Add(p.Velocity.Mul(h))
	}
}

// collide keeps every point above the ground and inside the play space.
// A point that left is moved back to its previous position with the
// offending axis clamped to the boundary.
func (o *Object) collide(params Params) {
	for i := range o.mesh.Points {
		p := &o.mesh.Points[i]

		if p.Position.Y() < params.GroundHeight {
			p.Position = p.PrevPosition
			p.Position[1] = params.GroundHeight
		}

		for axis := 0; axis < 3; axis++ {
			limit := params.PlaySpace[axis]
			if math.Abs(p.Position[axis]) > limit {
				sign := math.Copysign(1, p.Position[axis])
				p.Position = p.PrevPosition
				p.Position[axis] = sign * limit
			}
		}
	}
}

// solveConstraints runs one Gauss-Seidel sweep: edge lengths, volume, spans.
func (o *Object) solveConstraints(h, epsilon float64) {
	m := o.mesh

	distanceAlpha := constraint.AlphaTilde(m.Material.DistanceCompliance, h)
	for i := range m.Edges {
		edge := &m.Edges[i]
		constraint.SolveDistance(
			&m.Points[edge.Points[0]].Particle,
			&m.Points[edge.Points[1]].Particle,
			edge.RestLength, distanceAlpha, &edge.LambdaLength, epsilon,
		)
	}

	o.solveVolume(h, epsilon)

	bendingAlpha := constraint.AlphaTilde(m.Material.BendingCompliance, h)
	for i := range m.Edges {
		edge := &m.Edges[i]
		constraint.SolveDistance(
			&m.Points[edge.Neighbors[0]].Particle,
			&m.Points[edge.Neighbors[1]].Particle,
			edge.RestSpanLength, bendingAlpha, &edge.LambdaSpan, epsilon,
		)
	}
}

func (o *Object) solveVolume(h, epsilon float64) {
	m := o.mesh

	maxC := m.RestVolume * 0.1
	c := m.orientation*m.SignedVolume() - m.Material.Pressure*m.RestVolume
	c = math.Max(math.Min(c, maxC), -maxC)
	if math.Abs(c) < epsilon {
		return
	}

	for i := range m.gradients {
		m.gradients[i] = mgl64.Vec3{}
	}
	scale := m.orientation / 6.0
	for _, face := range m.Faces {
		i0, i1, i2 := face.Points[0], face.Points[1], face.Points[2]
		p0 := m.Points[i0].Position
		p1 := m.Points[i1].Position
		p2 := m.Points[i2].Position

		m.gradients[i0] = m.gradients[i0].Add(p1.Cross(p2).Mul(scale))
		m.gradients[i1] = m.gradients[i1].Add(p2.Cross(p0).Mul(scale))
		m.gradients[i2] = m.gradients[i2].Add(p0.Cross(p1).Mul(scale))
	}

	alpha := constraint.AlphaTilde(m.Material.VolumeCompliance, h)
	constraint.Solve(c, m.particles, m.gradients, alpha, &m.LambdaVolume, epsilon)
}

// solveGrab pulls the grabbed face towards the grab point with three
// distance constraints against a pinned anchor.
func (o *Object) solveGrab(h, epsilon float64) {
	m := o.mesh
	face := m.Faces[o.grabFace]
	anchor := constraint.Particle{Position: o.grabPoint}
	alpha := constraint.AlphaTilde(m.Material.DistanceCompliance, h)

	for k := 0; k < 3; k++ {
		constraint.SolveDistance(
			&m.Points[face.Points[k]].Particle, &anchor,
			o.grabRestDistances[k], alpha, &o.grabLambdas[k], epsilon,
		)
	}
}

func (o *Object) updateVelocities(h float64) {
	inv := 1.0 / h
	for i := range o.mesh.Points {
		p := &o.mesh.Points[i]
		p.Velocity = p.Position.Sub(p.PrevPosition).Mul(inv)
	}
}

// recenter moves the transform to the world-space centroid of the points and
// brings the points back into the new local frame.
func (o *Object) recenter(transform *geometry.Transform) {
	m := o.mesh
	parent := transform.ParentMatrix()

	transform.Position = mgl64.TransformCoordinate(m.Center(), parent.Inv())
	transform.ComputeModelMatrix(parent)

	inv := transform.ModelMatrix().Inv()
	for i := range m.Points {
		m.Points[i].Position = mgl64.TransformCoordinate(m.Points[i].Position, inv)
	}
}
