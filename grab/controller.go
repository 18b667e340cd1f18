package grab

import (
	"math"

	"github.com/akmonengine/jelly/constraint"
	"github.com/akmonengine/jelly/geometry"
	"github.com/akmonengine/jelly/logger"
	"github.com/akmonengine/jelly/scene"
	"github.com/akmonengine/jelly/softbody"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Viewer provides the world to view transform used to keep the grab depth.
type Viewer interface {
	ViewMatrix() mgl64.Mat4
}

// Controller drives picking, dragging and deletion of scene objects.
// At most one object is grabbed at a time.
type Controller struct {
	viewer Viewer

	node     scene.Handle
	object   *softbody.Object
	grabbing bool
	// grab point in view space
	grabPoint mgl64.Vec3

	Events Events
}

func NewController(viewer Viewer) *Controller {
	return &Controller{
		viewer: viewer,
		Events: NewEvents(),
	}
}

// Grab pins the nearest face hit by the world-space ray and records the hit
// distance in ray.T. It does nothing while another object is grabbed.
func (c *Controller) Grab(ray *geometry.Ray, graph *scene.Graph) bool {
	if c.grabbing && !graph.Valid(c.node) {
		logger.Debug("dropping grab on removed node")
		c.Release()
	}
	if c.grabbing {
		return false
	}

	h, _, ok := graph.Pick(*ray)
	if !ok {
		return false
	}

	object := graph.Object(h)
	if object == nil || object.IsStatic() {
		return false
	}

	if !object.Grab(ray, graph.Transform(h).ModelMatrix()) {
		return false
	}

	face, _ := object.Grabbed()
	world := ray.Point()

	c.node = h
	c.object = object
	c.grabbing = true
	c.grabPoint = mgl64.TransformCoordinate(world, c.viewer.ViewMatrix())

	c.Events.emit(GrabEvent{Node: h, Face: face, Point: world})
	logger.Debug("object grabbed", zap.Int("face", face), zap.Float64("t", ray.T))

	return true
}

// Drag moves the grab point along the view-space direction dir, keeping its
// depth from the camera.
func (c *Controller) Drag(dir mgl64.Vec3) {
	if !c.grabbing || math.Abs(dir.Z()) < constraint.DefaultEpsilon {
		return
	}

	t := c.grabPoint.Z() / dir.Z()
	c.grabPoint = dir.Mul(t)

	world := mgl64.TransformCoordinate(c.grabPoint, c.viewer.ViewMatrix().Inv())
	c.object.UpdateGrabPoint(world)
}

// Release lets go of the grabbed object, if any.
func (c *Controller) Release() {
	if !c.grabbing {
		return
	}

	c.object.Release()
	c.Events.emit(ReleaseEvent{Node: c.node})

	c.node = scene.Handle{}
	c.object = nil
	c.grabbing = false
}

// Delete removes the node hit by ray together with its subtree. Static
// objects and nodes without an object are kept.
func (c *Controller) Delete(ray *geometry.Ray, graph *scene.Graph) bool {
	h, _, ok := graph.Pick(*ray)
	if !ok {
		return false
	}

	object := graph.Object(h)
	if object == nil || object.IsStatic() {
		return false
	}

	if c.grabbing {
		for _, s := range graph.Flatten(h) {
			if s == c.node {
				c.Release()
				break
			}
		}
	}

	if err := graph.Remove(h); err != nil {
		logger.Warn("cannot delete node", zap.Error(err))
		return false
	}

	c.Events.emit(DeleteEvent{Node: h})

	return true
}

func (c *Controller) IsGrabbing() bool {
	return c.grabbing
}

// Grabbed returns the node of the grabbed object.
func (c *Controller) Grabbed() (scene.Handle, bool) {
	return c.node, c.grabbing
}

// GrabPoint returns the grab point in view space.
func (c *Controller) GrabPoint() mgl64.Vec3 {
	return c.grabPoint
}
