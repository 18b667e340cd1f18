// Package scene holds soft bodies in a hierarchy of transforms.
//
// Nodes live in an arena and are addressed by generational handles: removing
// a node invalidates every handle to it and to its descendants.
package scene

import (
	"errors"
	"math"

	"github.com/akmonengine/jelly/geometry"
	"github.com/akmonengine/jelly/logger"
	"github.com/akmonengine/jelly/softbody"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

var (
	ErrInvalidHandle = errors.New("scene: invalid node handle")
	ErrRootNode      = errors.New("scene: the root node cannot be removed")
)

// Handle addresses a node. The zero Handle is never valid.
type Handle struct {
	index      uint32
	generation uint32
}

type node struct {
	object    *softbody.Object
	transform geometry.Transform
	aabb      geometry.AABB

	parent    Handle
	hasParent bool
	children  []Handle

	generation uint32
	alive      bool
}

type Graph struct {
	nodes []node
	free  []uint32
	root  Handle
	count int
}

// New returns a graph holding only an empty root node.
func New() *Graph {
	g := &Graph{}
	g.root = g.alloc()
	return g
}

func (g *Graph) alloc() Handle {
	var index uint32
	if n := len(g.free); n > 0 {
		index = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		index = uint32(len(g.nodes))
		g.nodes = append(g.nodes, node{})
	}

	n := &g.nodes[index]
	n.generation++
	n.alive = true
	n.transform = geometry.NewTransform()
	g.count++

	return Handle{index: index, generation: n.generation}
}

func (g *Graph) Root() Handle {
	return g.root
}

// Len returns the number of live nodes, root included.
func (g *Graph) Len() int {
	return g.count
}

func (g *Graph) Valid(h Handle) bool {
	return int(h.index) < len(g.nodes) &&
		g.nodes[h.index].alive &&
		g.nodes[h.index].generation == h.generation
}

// Add creates a child of parent owning object, which may be nil. The new
// node starts at the parent's origin.
func (g *Graph) Add(parent Handle, object *softbody.Object) (Handle, error) {
	if !g.Valid(parent) {
		return Handle{}, ErrInvalidHandle
	}

	h := g.alloc()
	n := &g.nodes[h.index]
	n.object = object
	n.parent = parent
	n.hasParent = true
	n.transform.ComputeModelMatrix(g.nodes[parent.index].transform.ModelMatrix())
	if object != nil {
		n.aabb = object.AABB()
	}

	p := &g.nodes[parent.index]
	p.children = append(p.children, h)

	logger.Debug("scene node added", zap.Uint32("node", h.index), zap.Uint32("parent", parent.index))

	return h, nil
}

// Remove detaches h from its parent and frees it with its whole subtree.
func (g *Graph) Remove(h Handle) error {
	if !g.Valid(h) {
		return ErrInvalidHandle
	}
	if h == g.root {
		return ErrRootNode
	}

	parent := &g.nodes[g.nodes[h.index].parent.index]
	for i, child := range parent.children {
		if child == h {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}

	subtree := g.Flatten(h)
	for _, s := range subtree {
		n := &g.nodes[s.index]
		*n = node{generation: n.generation}
		g.free = append(g.free, s.index)
	}
	g.count -= len(subtree)

	logger.Debug("scene node removed", zap.Uint32("node", h.index), zap.Int("freed", len(subtree)))

	return nil
}

func (g *Graph) Parent(h Handle) (Handle, bool) {
	if !g.Valid(h) || !g.nodes[h.index].hasParent {
		return Handle{}, false
	}
	return g.nodes[h.index].parent, true
}

// Children returns a copy of the child handles of h.
func (g *Graph) Children(h Handle) []Handle {
	if !g.Valid(h) {
		return nil
	}
	children := make([]Handle, len(g.nodes[h.index].children))
	copy(children, g.nodes[h.index].children)
	return children
}

// Object returns the object owned by h, or nil.
func (g *Graph) Object(h Handle) *softbody.Object {
	if !g.Valid(h) {
		return nil
	}
	return g.nodes[h.index].object
}

// Transform returns the local transform of h, or nil for an invalid handle.
// Changes take effect on the next UpdateTransforms.
func (g *Graph) Transform(h Handle) *geometry.Transform {
	if !g.Valid(h) {
		return nil
	}
	return &g.nodes[h.index].transform
}

// Traverse visits the subtree of from in pre-order. Returning false from fn
// skips the children of the visited node. fn must not add or remove nodes.
func (g *Graph) Traverse(from Handle, fn func(h Handle) bool) {
	if !g.Valid(from) {
		return
	}
	g.traverse(from, fn)
}

func (g *Graph) traverse(h Handle, fn func(h Handle) bool) {
	if !fn(h) {
		return
	}
	for _, child := range g.nodes[h.index].children {
		g.traverse(child, fn)
	}
}

// Flatten returns the subtree of from in pre-order.
func (g *Graph) Flatten(from Handle) []Handle {
	var handles []Handle
	g.Traverse(from, func(h Handle) bool {
		handles = append(handles, h)
		return true
	})
	return handles
}

// UpdateTransforms recomputes every world matrix top-down.
func (g *Graph) UpdateTransforms() {
	g.Traverse(g.root, func(h Handle) bool {
		n := &g.nodes[h.index]
		parent := mgl64.Ident4()
		if n.hasParent {
			parent = g.nodes[n.parent.index].transform.ModelMatrix()
		}
		n.transform.ComputeModelMatrix(parent)
		return true
	})
}

// Update refreshes the world matrices then advances every object by dt.
// Bodies are independent, so workers > 1 solves them concurrently.
func (g *Graph) Update(dt float64, params softbody.Params, workers int) {
	g.UpdateTransforms()

	task(workers, g.Flatten(g.root), func(h Handle) {
		n := &g.nodes[h.index]
		if n.object != nil {
			n.object.Update(dt, &n.transform, params)
		}
	})
}

// UpdateAABB recomputes the cached local bounds of h from its object.
func (g *Graph) UpdateAABB(h Handle) error {
	if !g.Valid(h) {
		return ErrInvalidHandle
	}
	n := &g.nodes[h.index]
	if n.object != nil {
		n.aabb = n.object.AABB()
	}
	return nil
}

// AABB returns the cached local bounds of h.
func (g *Graph) AABB(h Handle) geometry.AABB {
	if !g.Valid(h) {
		return geometry.AABB{}
	}
	return g.nodes[h.index].aabb
}

// WorldAABB returns the cached bounds of h in world space.
func (g *Graph) WorldAABB(h Handle) geometry.AABB {
	if !g.Valid(h) {
		return geometry.AABB{}
	}
	n := &g.nodes[h.index]
	return n.aabb.Transform(n.transform.ModelMatrix())
}

// IntersectRay returns the distance along ray to the bounds of h, or NoHit.
// Nodes without an object are never hit.
func (g *Graph) IntersectRay(h Handle, ray geometry.Ray) float64 {
	if !g.Valid(h) || g.nodes[h.index].object == nil {
		return geometry.NoHit
	}
	n := &g.nodes[h.index]
	return n.aabb.IntersectRay(ray, n.transform.ModelMatrix())
}

// Intersects reports whether the world bounds of a and b overlap.
func (g *Graph) Intersects(a, b Handle) bool {
	if !g.Valid(a) || !g.Valid(b) {
		return false
	}
	na := &g.nodes[a.index]
	nb := &g.nodes[b.index]
	return na.aabb.IntersectsTransformed(nb.aabb, nb.transform.ModelMatrix(), na.transform.ModelMatrix())
}

// Pick returns the node whose bounds ray enters first.
func (g *Graph) Pick(ray geometry.Ray) (Handle, float64, bool) {
	hit := Handle{}
	nearest := math.Inf(1)

	g.Traverse(g.root, func(h Handle) bool {
		if t := g.IntersectRay(h, ray); t >= 0 && t < nearest {
			nearest = t
			hit = h
		}
		return true
	})

	if !g.Valid(hit) {
		return Handle{}, geometry.NoHit, false
	}
	return hit, nearest, true
}
