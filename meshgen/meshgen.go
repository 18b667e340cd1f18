// Package meshgen builds closed triangulated surfaces for soft bodies.
// Every surface winds counter-clockwise seen from outside.
package meshgen

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/akmonengine/jelly/softbody"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrUnknownShape = errors.New("meshgen: unknown shape")

type Surface struct {
	Vertices []softbody.Vertex
	Indices  []uint32
}

// Mesh builds a soft-body mesh from the surface.
func (s Surface) Mesh(material softbody.Material) (*softbody.Mesh, error) {
	return softbody.NewMeshWithMaterial(s.Vertices, s.Indices, material)
}

var generators = map[string]func() Surface{
	"tetrahedron": Tetrahedron,
	"cube":        Cube,
	"icosahedron": Icosahedron,
}

// ByName returns the surface generated for name.
func ByName(name string) (Surface, error) {
	generate, ok := generators[name]
	if !ok {
		return Surface{}, fmt.Errorf("%q (known: %v): %w", name, Names(), ErrUnknownShape)
	}
	return generate(), nil
}

// Names lists the shapes known to ByName, sorted.
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tetrahedron is the regular tetrahedron inscribed in the unit sphere.
func Tetrahedron() Surface {
	a := 1.0 / 3.0
	b := math.Sqrt(8.0) / 3.0
	c := math.Sqrt(2.0) / 3.0
	d := math.Sqrt(2.0 / 3.0)

	positions := []mgl64.Vec3{
		{0, 1, 0},
		{-c, -a, d},
		{-c, -a, -d},
		{b, -a, 0},
	}
	indices := []uint32{
		0, 2, 1,
		0, 3, 2,
		0, 1, 3,
		1, 2, 3,
	}

	return newSurface(positions, indices)
}

// Cube is the unit cube centered on the origin.
func Cube() Surface {
	positions := []mgl64.Vec3{
		// front
		{-0.5, -0.5, 0.5},
		{0.5, -0.5, 0.5},
		{0.5, 0.5, 0.5},
		{-0.5, 0.5, 0.5},
		// back
		{-0.5, -0.5, -0.5},
		{0.5, -0.5, -0.5},
		{0.5, 0.5, -0.5},
		{-0.5, 0.5, -0.5},
	}
	indices := []uint32{
		0, 1, 2, 2, 3, 0, // front
		1, 5, 6, 6, 2, 1, // right
		7, 6, 5, 5, 4, 7, // back
		4, 0, 3, 3, 7, 4, // left
		4, 5, 1, 1, 0, 4, // bottom
		3, 2, 6, 6, 7, 3, // top
	}

	return newSurface(positions, indices)
}

// Icosahedron has its twelve vertices on the golden rectangles of
// half-size 1 x 1/phi.
func Icosahedron() Surface {
	phi := (1.0 + math.Sqrt(5.0)) / 2.0
	a := 1.0
	b := 1.0 / phi

	positions := []mgl64.Vec3{
		{0, b, -a}, {b, a, 0}, {-b, a, 0},
		{0, b, a}, {0, -b, a}, {-a, 0, b},
		{0, -b, -a}, {a, 0, -b}, {a, 0, b},
		{-a, 0, -b}, {b, -a, 0}, {-b, -a, 0},
	}
	indices := []uint32{
		2, 1, 0, 1, 2, 3, 5, 4, 3, 4, 8, 3,
		7, 6, 0, 6, 9, 0, 11, 10, 4, 10, 11, 6,
		9, 5, 2, 5, 9, 11, 8, 7, 1, 7, 8, 10,
		2, 5, 3, 8, 1, 3, 9, 2, 0, 1, 7, 0,
		11, 9, 6, 7, 10, 6, 5, 11, 4, 10, 8, 4,
	}

	return newSurface(positions, indices)
}

func newSurface(positions []mgl64.Vec3, indices []uint32) Surface {
	normals := ComputeNormals(positions, indices)

	vertices := make([]softbody.Vertex, len(positions))
	for i, p := range positions {
		vertices[i] = softbody.Vertex{
			Position: p,
			UV:       sphericalUV(p),
			Normal:   normals[i],
		}
	}

	return Surface{Vertices: vertices, Indices: indices}
}

// ComputeNormals returns area-weighted vertex normals. Vertices that belong to
// no face keep a zero normal.
func ComputeNormals(positions []mgl64.Vec3, indices []uint32) []mgl64.Vec3 {
	normals := make([]mgl64.Vec3, len(positions))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		normal := positions[i1].Sub(positions[i0]).Cross(positions[i2].Sub(positions[i0]))

		normals[i0] = normals[i0].Add(normal)
		normals[i1] = normals[i1].Add(normal)
		normals[i2] = normals[i2].Add(normal)
	}

	for i, n := range normals {
		if l := n.Len(); l > 0 {
			normals[i] = n.Mul(1.0 / l)
		}
	}

	return normals
}

// sphericalUV maps a direction from the origin to equirectangular texture
// coordinates.
func sphericalUV(p mgl64.Vec3) mgl64.Vec2 {
	l := p.Len()
	if l == 0 {
		return mgl64.Vec2{}
	}
	d := p.Mul(1.0 / l)

	u := 0.5 + math.Atan2(d.Z(), d.X())/(2*math.Pi)
	v := 0.5 - math.Asin(d.Y())/math.Pi

	return mgl64.Vec2{u, v}
}
