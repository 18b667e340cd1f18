package geometry

import "github.com/go-gl/mathgl/mgl64"

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// Transform represents a position, orientation and scale in 3D space,
// relative to a parent frame. The world matrix is cached by
// ComputeModelMatrix so that one top-down pass per tick is enough.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3

	model  mgl64.Mat4
	parent mgl64.Mat4
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
		model:    mgl64.Ident4(),
		parent:   mgl64.Ident4(),
	}
}

// LocalMatrix composes translation * rotation * scale.
func (t *Transform) LocalMatrix() mgl64.Mat4 {
	translation := mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translation.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// ComputeModelMatrix caches parent * local as the world matrix.
func (t *Transform) ComputeModelMatrix(parent mgl64.Mat4) {
	t.parent = parent
	t.model = parent.Mul4(t.LocalMatrix())
}

// ModelMatrix returns the world matrix computed by the last ComputeModelMatrix.
func (t *Transform) ModelMatrix() mgl64.Mat4 {
	return t.model
}

// ParentMatrix returns the parent world matrix used by the last ComputeModelMatrix.
func (t *Transform) ParentMatrix() mgl64.Mat4 {
	return t.parent
}

func (t *Transform) Translate(delta mgl64.Vec3) {
	t.Position = t.Position.Add(delta)
}

// RotateEuler applies a rotation given in degrees around X, then Y, then Z.
func (t *Transform) RotateEuler(x, y, z float64) {
	q := mgl64.QuatRotate(mgl64.DegToRad(x), axisX).
		Mul(mgl64.QuatRotate(mgl64.DegToRad(y), axisY)).
		Mul(mgl64.QuatRotate(mgl64.DegToRad(z), axisZ))

	t.Rotation = t.Rotation.Mul(q).Normalize()
}

// Reset restores the identity transform
func (t *Transform) Reset() {
	*t = NewTransform()
}
