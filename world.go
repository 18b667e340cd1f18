package jelly

import (
	"fmt"

	"github.com/akmonengine/jelly/geometry"
	"github.com/akmonengine/jelly/grab"
	"github.com/akmonengine/jelly/logger"
	"github.com/akmonengine/jelly/meshgen"
	"github.com/akmonengine/jelly/scene"
	"github.com/akmonengine/jelly/softbody"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

const DEFAULT_WORKERS = 1

type World struct {
	// Scene hierarchy owning every soft body
	Graph *scene.Graph
	// Picking, dragging and deletion driven by the viewer
	Grabber *grab.Controller
	Params  softbody.Params
	Workers int
}

func NewWorld(params softbody.Params, viewer grab.Viewer) *World {
	return &World{
		Graph:   scene.New(),
		Grabber: grab.NewController(viewer),
		Params:  params,
		Workers: DEFAULT_WORKERS,
	}
}

// Spawn builds a soft body from surface and attaches it under the root at
// position.
func (w *World) Spawn(surface meshgen.Surface, position mgl64.Vec3, material softbody.Material) (scene.Handle, error) {
	mesh, err := surface.Mesh(material)
	if err != nil {
		return scene.Handle{}, fmt.Errorf("spawning body: %w", err)
	}

	h, err := w.Graph.Add(w.Graph.Root(), softbody.NewObject(mesh))
	if err != nil {
		return scene.Handle{}, fmt.Errorf("spawning body: %w", err)
	}

	w.Graph.Transform(h).Position = position
	w.Graph.UpdateTransforms()
	if err := w.Graph.UpdateAABB(h); err != nil {
		return scene.Handle{}, err
	}

	logger.Debug("body spawned",
		zap.Int("points", len(mesh.Points)),
		zap.Int("faces", len(mesh.Faces)),
		zap.Float64("restVolume", mesh.RestVolume))

	return h, nil
}

// Step advances every body by dt then delivers the interaction events
// buffered since the previous step.
func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	w.Graph.Update(dt, w.Params, w.Workers)
	w.Grabber.Events.Flush()
}

// Bodies returns the nodes owning an object, in pre-order.
func (w *World) Bodies() []scene.Handle {
	var bodies []scene.Handle
	w.Graph.Traverse(w.Graph.Root(), func(h scene.Handle) bool {
		if w.Graph.Object(h) != nil {
			bodies = append(bodies, h)
		}
		return true
	})
	return bodies
}

// Grab pins the body hit by ray. On success ray.T holds the hit distance.
func (w *World) Grab(ray *geometry.Ray) bool {
	return w.Grabber.Grab(ray, w.Graph)
}

// Drag moves the grab point along a view-space direction.
func (w *World) Drag(dir mgl64.Vec3) {
	w.Grabber.Drag(dir)
}

func (w *World) Release() {
	w.Grabber.Release()
}

// Delete removes the body hit by ray with its subtree.
func (w *World) Delete(ray *geometry.Ray) bool {
	return w.Grabber.Delete(ray, w.Graph)
}
