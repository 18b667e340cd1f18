// Package camera turns window coordinates into pick and drag rays.
package camera

import (
	"github.com/akmonengine/jelly/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

type Camera struct {
	Position  mgl64.Vec3
	Direction mgl64.Vec3
	Up        mgl64.Vec3

	width      int
	height     int
	fov        float64
	near       float64
	far        float64
	projection mgl64.Mat4
}

// New returns a camera at the origin looking down -Z. fov is the vertical
// field of view in degrees.
func New(width, height int, fov, near, far float64) *Camera {
	c := &Camera{
		Direction: mgl64.Vec3{0, 0, -1},
		Up:        mgl64.Vec3{0, 1, 0},
		fov:       fov,
		near:      near,
		far:       far,
	}
	c.Resize(width, height)
	return c
}

// Resize updates the viewport and the projection aspect ratio.
func (c *Camera) Resize(width, height int) {
	c.width = max(width, 1)
	c.height = max(height, 1)
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.fov), float64(c.width)/float64(c.height), c.near, c.far)
}

func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Position.Add(c.Direction), c.Up)
}

func (c *Camera) Projection() mgl64.Mat4 {
	return c.projection
}

// Viewport returns the window size in pixels.
func (c *Camera) Viewport() (width, height int) {
	return c.width, c.height
}

// WorldToScreen projects point to window pixels, measured from the top-left
// corner like ScreenToRay.
func (c *Camera) WorldToScreen(point mgl64.Vec3) (x, y float64) {
	win := mgl64.Project(point, c.ViewMatrix(), c.projection, 0, 0, c.width, c.height)
	return win.X(), float64(c.height) - win.Y()
}

// LookAt turns the camera towards target.
func (c *Camera) LookAt(target mgl64.Vec3) {
	if d := target.Sub(c.Position); d.Len() > 0 {
		c.Direction = d.Normalize()
	}
}

// Move translates the camera along its forward, right and up axes.
func (c *Camera) Move(forward, right, up float64) {
	rightAxis := c.Direction.Cross(c.Up).Normalize()
	c.Position = c.Position.
		Add(c.Direction.Mul(forward)).
		Add(rightAxis.Mul(right)).
		Add(c.Up.Mul(up))
}

// ScreenToRay returns the world-space ray from the camera through the window
// pixel (x, y), measured from the top-left corner.
func (c *Camera) ScreenToRay(x, y float64) (geometry.Ray, error) {
	direction, err := c.unproject(x, y, c.ViewMatrix())
	if err != nil {
		return geometry.Ray{}, err
	}
	return geometry.NewRay(c.Position, direction), nil
}

// ViewRayDirection returns the normalized view-space direction through the
// window pixel (x, y).
func (c *Camera) ViewRayDirection(x, y float64) (mgl64.Vec3, error) {
	return c.unproject(x, y, mgl64.Ident4())
}

func (c *Camera) unproject(x, y float64, modelview mgl64.Mat4) (mgl64.Vec3, error) {
	winY := float64(c.height) - y

	start, err := mgl64.UnProject(mgl64.Vec3{x, winY, 0}, modelview, c.projection, 0, 0, c.width, c.height)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	end, err := mgl64.UnProject(mgl64.Vec3{x, winY, 1}, modelview, c.projection, 0, 0, c.width, c.height)
	if err != nil {
		return mgl64.Vec3{}, err
	}

	return end.Sub(start).Normalize(), nil
}
