package softbody

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/jelly/constraint"
	"github.com/akmonengine/jelly/logger"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// minRestVolume rejects flat or collapsed surfaces.
const minRestVolume = 1e-9

var (
	ErrEmptyMesh      = errors.New("softbody: mesh has no vertices or no faces")
	ErrIndexCount     = errors.New("softbody: index count is not a multiple of 3")
	ErrIndexRange     = errors.New("softbody: index out of range")
	ErrDegenerateFace = errors.New("softbody: face repeats a vertex")
	ErrNonManifold    = errors.New("softbody: surface is not a closed 2-manifold")
	ErrZeroVolume     = errors.New("softbody: surface encloses no volume")

	ErrInconsistentWinding = errors.New("softbody: neighboring faces have opposite winding")
	ErrUnreferencedVertex  = errors.New("softbody: vertex is not used by any face")
)

// ManifoldError reports an edge that does not border exactly two faces.
type ManifoldError struct {
	Edge  [2]uint32
	Faces int
}

func (e *ManifoldError) Error() string {
	return fmt.Sprintf("softbody: edge %d-%d borders %d face(s), want 2", e.Edge[0], e.Edge[1], e.Faces)
}

func (e *ManifoldError) Unwrap() error {
	return ErrNonManifold
}

// Vertex is one input surface vertex.
type Vertex struct {
	Position mgl64.Vec3
	UV       mgl64.Vec2
	Normal   mgl64.Vec3
}

// PointMass is a simulated vertex. UV and Normal are only read by renderers.
type PointMass struct {
	constraint.Particle
	UV     mgl64.Vec2
	Normal mgl64.Vec3
}

// Edge links two point masses. Faces are the two triangles bordering it and
// Neighbors their apexes, which carry the span (bending) constraint.
type Edge struct {
	Points         [2]int
	Faces          [2]int
	Neighbors      [2]int
	RestLength     float64
	RestSpanLength float64
	LambdaLength   float64
	LambdaSpan     float64
}

type Face struct {
	Points [3]int
}

// Mesh is the topology and rest state of one soft body.
type Mesh struct {
	Points       []PointMass
	Edges        []Edge
	Faces        []Face
	Material     Material
	RestVolume   float64
	LambdaVolume float64

	// orientation is +1 for outward winding and -1 for inward winding.
	orientation float64
	particles   []*constraint.Particle
	gradients   []mgl64.Vec3
}

func NewMesh(vertices []Vertex, indices []uint32) (*Mesh, error) {
	return NewMeshWithMaterial(vertices, indices, DefaultMaterial())
}

// NewMeshWithMaterial builds the point masses, faces and edges of a closed
// triangulated surface and derives its rest state.
func NewMeshWithMaterial(vertices []Vertex, indices []uint32, material Material) (*Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, ErrEmptyMesh
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%d indices: %w", len(indices), ErrIndexCount)
	}

	m := &Mesh{
		Points:   make([]PointMass, len(vertices)),
		Faces:    make([]Face, 0, len(indices)/3),
		Material: material,
	}

	for i, v := range vertices {
		m.Points[i] = PointMass{
			Particle: constraint.Particle{Position: v.Position, PrevPosition: v.Position},
			UV:       v.UV,
			Normal:   v.Normal,
		}
	}

	incidence := make([]int, len(vertices))
	for i := 0; i < len(indices); i += 3 {
		var face Face
		for j := 0; j < 3; j++ {
			index := indices[i+j]
			if int(index) >= len(vertices) {
				return nil, fmt.Errorf("index %d at position %d: %w", index, i+j, ErrIndexRange)
			}
			face.Points[j] = int(index)
			incidence[index]++
		}
		if face.Points[0] == face.Points[1] || face.Points[1] == face.Points[2] || face.Points[2] == face.Points[0] {
			return nil, fmt.Errorf("face %d: %w", i/3, ErrDegenerateFace)
		}
		m.Faces = append(m.Faces, face)
	}
	for i, n := range incidence {
		if n == 0 {
			return nil, fmt.Errorf("vertex %d: %w", i, ErrUnreferencedVertex)
		}
	}

	if err := m.buildEdges(); err != nil {
		return nil, err
	}

	signed := m.SignedVolume()
	if math.Abs(signed) < minRestVolume {
		return nil, ErrZeroVolume
	}
	m.RestVolume = math.Abs(signed)
	m.orientation = math.Copysign(1, signed)

	m.computeInverseMasses()

	m.particles = make([]*constraint.Particle, len(m.Points))
	for i := range m.Points {
		m.particles[i] = &m.Points[i].Particle
	}
	m.gradients = make([]mgl64.Vec3, len(m.Points))

	logger.Debug("softbody mesh built",
		zap.Int("points", len(m.Points)),
		zap.Int("edges", len(m.Edges)),
		zap.Int("faces", len(m.Faces)),
		zap.Float64("restVolume", m.RestVolume),
	)

	return m, nil
}

func (m *Mesh) buildEdges() error {
	lookup := make(map[[2]int]int, len(m.Faces)*3/2)
	faceCount := make([]int, 0, len(m.Faces)*3/2)

	for i, face := range m.Faces {
		for j := 0; j < 3; j++ {
			a := face.Points[j]
			b := face.Points[(j+1)%3]

			key := [2]int{a, b}
			if b < a {
				key = [2]int{b, a}
			}

			if e, ok := lookup[key]; ok {
				faceCount[e]++
				if faceCount[e] > 2 {
					return &ManifoldError{Edge: [2]uint32{uint32(key[0]), uint32(key[1])}, Faces: faceCount[e]}
				}
				// a closed surface walks each edge once in each direction
				if m.Edges[e].Points != [2]int{b, a} {
					return fmt.Errorf("edge %d-%d in faces %d and %d: %w", a, b, m.Edges[e].Faces[0], i, ErrInconsistentWinding)
				}
				m.Edges[e].Faces[1] = i
				continue
			}

			lookup[key] = len(m.Edges)
			faceCount = append(faceCount, 1)
			m.Edges = append(m.Edges, Edge{
				Points:     [2]int{a, b},
				Faces:      [2]int{i, -1},
				RestLength: m.Points[a].Position.Sub(m.Points[b].Position).Len(),
			})
		}
	}

	for e := range m.Edges {
		edge := &m.Edges[e]
		if faceCount[e] != 2 {
			return &ManifoldError{Edge: [2]uint32{uint32(edge.Points[0]), uint32(edge.Points[1])}, Faces: faceCount[e]}
		}

		for side := 0; side < 2; side++ {
			edge.Neighbors[side] = m.apex(m.Faces[edge.Faces[side]], edge.Points)
		}
		edge.RestSpanLength = m.Points[edge.Neighbors[0]].Position.Sub(m.Points[edge.Neighbors[1]].Position).Len()
	}

	return nil
}

// apex returns the vertex of face that is not on the edge.
func (m *Mesh) apex(face Face, edge [2]int) int {
	for _, p := range face.Points {
		if p != edge[0] && p != edge[1] {
			return p
		}
	}
	return face.Points[0]
}

func (m *Mesh) computeInverseMasses() {
	masses := m.TributaryMasses()
	maxInvMass := m.Material.InvMassClamp * float64(len(m.Points)) / m.RestVolume

	for i := range m.Points {
		m.Points[i].InvMass = math.Min(math.Abs(1.0/masses[i]), maxInvMass)
	}
}

// TributaryMasses returns, for every point, one third of the signed volume
// of each tetrahedron its incident faces form with the origin.
func (m *Mesh) TributaryMasses() []float64 {
	masses := make([]float64, len(m.Points))
	for _, face := range m.Faces {
		volume := m.faceVolume(face) / 3.0
		for _, p := range face.Points {
			masses[p] += volume
		}
	}
	return masses
}

func (m *Mesh) faceVolume(face Face) float64 {
	a := m.Points[face.Points[0]].Position
	b := m.Points[face.Points[1]].Position
	c := m.Points[face.Points[2]].Position

	return a.Dot(b.Cross(c)) / 6.0
}

// SignedVolume sums the signed tetrahedra of every face. It is positive for
// outward (counter-clockwise) winding.
func (m *Mesh) SignedVolume() float64 {
	var volume float64
	for _, face := range m.Faces {
		volume += m.faceVolume(face)
	}
	return volume
}

func (m *Mesh) Volume() float64 {
	return math.Abs(m.SignedVolume())
}

// Center returns the centroid of the point masses.
func (m *Mesh) Center() mgl64.Vec3 {
	var center mgl64.Vec3
	for i := range m.Points {
		center = center.Add(m.Points[i].Position)
	}
	return center.Mul(1.0 / float64(len(m.Points)))
}

func (m *Mesh) resetLambdas() {
	for i := range m.Edges {
		m.Edges[i].LambdaLength = 0
		m.Edges[i].LambdaSpan = 0
	}
	m.LambdaVolume = 0
}

// Positions returns a copy of the point positions, in mesh order.
func (m *Mesh) Positions() []mgl64.Vec3 {
	positions := make([]mgl64.Vec3, len(m.Points))
	for i := range m.Points {
		positions[i] = m.Points[i].Position
	}
	return positions
}

func (m *Mesh) UVs() []mgl64.Vec2 {
	uvs := make([]mgl64.Vec2, len(m.Points))
	for i := range m.Points {
		uvs[i] = m.Points[i].UV
	}
	return uvs
}

func (m *Mesh) Normals() []mgl64.Vec3 {
	normals := make([]mgl64.Vec3, len(m.Points))
	for i := range m.Points {
		normals[i] = m.Points[i].Normal
	}
	return normals
}

// Indices returns the triangle list.
func (m *Mesh) Indices() []uint32 {
	indices := make([]uint32, 0, len(m.Faces)*3)
	for _, face := range m.Faces {
		for _, p := range face.Points {
			indices = append(indices, uint32(p))
		}
	}
	return indices
}

// updateNormals recomputes area-weighted vertex normals from the faces.
func (m *Mesh) updateNormals() {
	for i := range m.Points {
		m.Points[i].Normal = mgl64.Vec3{}
	}

	for _, face := range m.Faces {
		a := &m.Points[face.Points[0]]
		b := &m.Points[face.Points[1]]
		c := &m.Points[face.Points[2]]

		normal := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position)).Mul(m.orientation)

		a.Normal = a.Normal.Add(normal)
		b.Normal = b.Normal.Add(normal)
		c.Normal = c.Normal.Add(normal)
	}

	for i := range m.Points {
		if l := m.Points[i].Normal.Len(); l > 0 {
			m.Points[i].Normal = m.Points[i].Normal.Mul(1.0 / l)
		}
	}
}
