package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return almostEqual(a.X(), b.X(), epsilon) &&
		almostEqual(a.Y(), b.Y(), epsilon) &&
		almostEqual(a.Z(), b.Z(), epsilon)
}

func unitBox() AABB {
	return AABB{Min: mgl64.Vec3{-0.5, -0.5, -0.5}, Max: mgl64.Vec3{0.5, 0.5, 0.5}}
}

// =============================================================================
// Overlap Tests
// =============================================================================

func TestAABBOverlaps_Separated(t *testing.T) {
	tests := []struct {
		name  string
		aabb1 AABB
		aabb2 AABB
	}{
		{
			name:  "Separated on X axis",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}},
		},
		{
			name:  "Separated on Y axis",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, -2, 0}, Max: mgl64.Vec3{1, -1, 1}},
		},
		{
			name:  "Separated on Z axis",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, 0, 2}, Max: mgl64.Vec3{1, 1, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.aabb1.Overlaps(tt.aabb2) {
				t.Errorf("AABBs should not overlap")
			}
			if tt.aabb2.Overlaps(tt.aabb1) {
				t.Errorf("AABBs should not overlap (symmetry test)")
			}
		})
	}
}

func TestAABBOverlaps_Overlapping(t *testing.T) {
	tests := []struct {
		name  string
		aabb1 AABB
		aabb2 AABB
	}{
		{
			name:  "Identical",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
		},
		{
			name:  "Containment",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{10, 10, 10}},
			aabb2: AABB{Min: mgl64.Vec3{2, 2, 2}, Max: mgl64.Vec3{3, 3, 3}},
		},
		{
			name:  "Edge touching",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.aabb1.Overlaps(tt.aabb2) {
				t.Errorf("AABBs should overlap")
			}
			if !tt.aabb2.Overlaps(tt.aabb1) {
				t.Errorf("AABBs should overlap (symmetry test)")
			}
		})
	}
}

func TestNewAABB(t *testing.T) {
	box := NewAABB([]mgl64.Vec3{{1, -2, 3}, {-1, 4, 0}, {0, 0, -5}})

	if !vec3AlmostEqual(box.Min, mgl64.Vec3{-1, -2, -5}, 1e-12) {
		t.Errorf("Min = %v, want (-1, -2, -5)", box.Min)
	}
	if !vec3AlmostEqual(box.Max, mgl64.Vec3{1, 4, 3}, 1e-12) {
		t.Errorf("Max = %v, want (1, 4, 3)", box.Max)
	}
	if empty := NewAABB(nil); empty != (AABB{}) {
		t.Errorf("NewAABB(nil) = %v, want zero box", empty)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := unitBox()

	if !box.ContainsPoint(mgl64.Vec3{0, 0, 0}) {
		t.Error("center should be inside")
	}
	if !box.ContainsPoint(mgl64.Vec3{0.5, 0.5, 0.5}) {
		t.Error("corner should be inside")
	}
	if box.ContainsPoint(mgl64.Vec3{0.6, 0, 0}) {
		t.Error("point outside on X should not be inside")
	}
}

// =============================================================================
// Transformed Box Tests
// =============================================================================

func TestAABBTransform(t *testing.T) {
	tests := []struct {
		name    string
		model   mgl64.Mat4
		wantMin mgl64.Vec3
		wantMax mgl64.Vec3
	}{
		{
			name:    "identity",
			model:   mgl64.Ident4(),
			wantMin: mgl64.Vec3{-0.5, -0.5, -0.5},
			wantMax: mgl64.Vec3{0.5, 0.5, 0.5},
		},
		{
			name:    "translation",
			model:   mgl64.Translate3D(1, 2, 3),
			wantMin: mgl64.Vec3{0.5, 1.5, 2.5},
			wantMax: mgl64.Vec3{1.5, 2.5, 3.5},
		},
		{
			name:    "scale",
			model:   mgl64.Scale3D(2, 4, 1),
			wantMin: mgl64.Vec3{-1, -2, -0.5},
			wantMax: mgl64.Vec3{1, 2, 0.5},
		},
		{
			name:    "rotation 45 degrees around Y grows the box",
			model:   mgl64.HomogRotate3DY(math.Pi / 4),
			wantMin: mgl64.Vec3{-math.Sqrt2 / 2, -0.5, -math.Sqrt2 / 2},
			wantMax: mgl64.Vec3{math.Sqrt2 / 2, 0.5, math.Sqrt2 / 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := unitBox().Transform(tt.model)
			if !vec3AlmostEqual(world.Min, tt.wantMin, 1e-9) {
				t.Errorf("Min = %v, want %v", world.Min, tt.wantMin)
			}
			if !vec3AlmostEqual(world.Max, tt.wantMax, 1e-9) {
				t.Errorf("Max = %v, want %v", world.Max, tt.wantMax)
			}
		})
	}
}

func TestAABBIntersectsTransformed(t *testing.T) {
	box := unitBox()
	rotated := mgl64.Translate3D(1.2, 0, 0).Mul4(mgl64.HomogRotate3DY(math.Pi / 4))

	tests := []struct {
		name       string
		otherModel mgl64.Mat4
		want       bool
	}{
		{"overlapping translation", mgl64.Translate3D(0.8, 0, 0), true},
		{"separated translation", mgl64.Translate3D(2, 0, 0), false},
		{"separated vertically", mgl64.Translate3D(0, 1.5, 0), false},
		// The rotated box does not touch the unit box, but its world AABB does.
		{"rotated neighbour is a conservative hit", rotated, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := box.IntersectsTransformed(box, tt.otherModel, mgl64.Ident4())
			if got != tt.want {
				t.Errorf("IntersectsTransformed() = %v, want %v", got, tt.want)
			}
			if back := box.IntersectsTransformed(box, mgl64.Ident4(), tt.otherModel); back != tt.want {
				t.Errorf("IntersectsTransformed() symmetry = %v, want %v", back, tt.want)
			}
		})
	}
}

// =============================================================================
// Slab Test
// =============================================================================

func TestAABBIntersectRay(t *testing.T) {
	tests := []struct {
		name   string
		ray    Ray
		model  mgl64.Mat4
		want   float64
		hitsIt bool
	}{
		{
			name:   "from outside towards center",
			ray:    NewRay(mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, 1}),
			model:  mgl64.Ident4(),
			want:   4.5,
			hitsIt: true,
		},
		{
			name:   "from inside returns exit distance",
			ray:    NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1}),
			model:  mgl64.Ident4(),
			want:   0.5,
			hitsIt: true,
		},
		{
			name:   "diagonal from outside",
			ray:    NewRay(mgl64.Vec3{-5, -5, -5}, mgl64.Vec3{1, 1, 1}),
			model:  mgl64.Ident4(),
			want:   4.5 * math.Sqrt(3),
			hitsIt: true,
		},
		{
			name:   "translated box",
			ray:    NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1}),
			model:  mgl64.Translate3D(0, 0, 10),
			want:   9.5,
			hitsIt: true,
		},
		{
			name:   "scaled box",
			ray:    NewRay(mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, 1}),
			model:  mgl64.Scale3D(2, 2, 2),
			want:   4,
			hitsIt: true,
		},
		{
			name:   "parallel miss",
			ray:    NewRay(mgl64.Vec3{5, 0, -5}, mgl64.Vec3{0, 0, 1}),
			model:  mgl64.Ident4(),
			hitsIt: false,
		},
		{
			name:   "oblique miss",
			ray:    NewRay(mgl64.Vec3{0, 3, -5}, mgl64.Vec3{1, 0, 1}),
			model:  mgl64.Ident4(),
			hitsIt: false,
		},
		{
			name:   "box behind the origin",
			ray:    NewRay(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, 1}),
			model:  mgl64.Ident4(),
			hitsIt: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := unitBox().IntersectRay(tt.ray, tt.model)
			if !tt.hitsIt {
				if got >= 0 {
					t.Errorf("IntersectRay() = %v, want negative", got)
				}
				return
			}
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("IntersectRay() = %v, want %v", got, tt.want)
			}
		})
	}
}
