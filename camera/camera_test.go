package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return math.Abs(a.X()-b.X()) < epsilon &&
		math.Abs(a.Y()-b.Y()) < epsilon &&
		math.Abs(a.Z()-b.Z()) < epsilon
}

func TestViewMatrix(t *testing.T) {
	c := New(800, 800, 90, 0.1, 1000)
	c.Position = mgl64.Vec3{0, 0, 5}

	got := mgl64.TransformCoordinate(mgl64.Vec3{0, 0, 0}, c.ViewMatrix())
	if !vec3AlmostEqual(got, mgl64.Vec3{0, 0, -5}, 1e-12) {
		t.Errorf("origin in view space = %v, want (0, 0, -5)", got)
	}
}

func TestLookAt(t *testing.T) {
	c := New(800, 600, 60, 0.1, 100)
	c.Position = mgl64.Vec3{0, 3, 0}

	c.LookAt(mgl64.Vec3{3, 3, 0})
	if !vec3AlmostEqual(c.Direction, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("Direction = %v, want (1, 0, 0)", c.Direction)
	}

	c.LookAt(c.Position)
	if !vec3AlmostEqual(c.Direction, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("looking at its own position should keep the direction, got %v", c.Direction)
	}
}

func TestMove(t *testing.T) {
	c := New(800, 600, 60, 0.1, 100)

	c.Move(2, 1, 3)

	// Facing -Z, right is +X.
	if !vec3AlmostEqual(c.Position, mgl64.Vec3{1, 3, -2}, 1e-12) {
		t.Errorf("Position = %v, want (1, 3, -2)", c.Position)
	}
}

func TestScreenToRay(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want mgl64.Vec3
	}{
		{"center", 400, 400, mgl64.Vec3{0, 0, -1}},
		{"top right corner", 800, 0, mgl64.Vec3{1, 1, -1}.Normalize()},
		{"bottom left corner", 0, 800, mgl64.Vec3{-1, -1, -1}.Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(800, 800, 90, 0.1, 1000)
			c.Position = mgl64.Vec3{1, 2, 5}

			ray, err := c.ScreenToRay(tt.x, tt.y)
			if err != nil {
				t.Fatalf("ScreenToRay() error = %v", err)
			}
			if ray.Origin != c.Position {
				t.Errorf("Origin = %v, want camera position", ray.Origin)
			}
			if !vec3AlmostEqual(ray.Direction, tt.want, 1e-6) {
				t.Errorf("Direction = %v, want %v", ray.Direction, tt.want)
			}
			if ray.Hit() {
				t.Error("a new pick ray should carry no hit")
			}

			view, err := c.ViewRayDirection(tt.x, tt.y)
			if err != nil {
				t.Fatalf("ViewRayDirection() error = %v", err)
			}
			if !vec3AlmostEqual(view, tt.want, 1e-6) {
				t.Errorf("view direction = %v, want %v", view, tt.want)
			}
		})
	}
}

func TestScreenToRay_RotatedCamera(t *testing.T) {
	c := New(640, 480, 70, 0.1, 1000)
	c.Position = mgl64.Vec3{0, 2, 0}
	c.LookAt(mgl64.Vec3{5, 2, 0})

	ray, err := c.ScreenToRay(320, 240)
	if err != nil {
		t.Fatalf("ScreenToRay() error = %v", err)
	}
	if !vec3AlmostEqual(ray.Direction, mgl64.Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("Direction = %v, want (1, 0, 0)", ray.Direction)
	}

	view, err := c.ViewRayDirection(320, 240)
	if err != nil {
		t.Fatalf("ViewRayDirection() error = %v", err)
	}
	if !vec3AlmostEqual(view, mgl64.Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("view direction = %v, want (0, 0, -1)", view)
	}
}

func TestWorldToScreen(t *testing.T) {
	c := New(800, 600, 60, 0.1, 100)
	c.Position = mgl64.Vec3{-10, 12, 10}
	c.LookAt(mgl64.Vec3{})

	x, y := c.WorldToScreen(mgl64.Vec3{})
	if math.Abs(x-400) > 1e-6 || math.Abs(y-300) > 1e-6 {
		t.Errorf("WorldToScreen(target) = (%v, %v), want the viewport center", x, y)
	}

	point := mgl64.Vec3{1, 2, -1}
	x, y = c.WorldToScreen(point)
	ray, err := c.ScreenToRay(x, y)
	if err != nil {
		t.Fatalf("ScreenToRay() error = %v", err)
	}

	toPoint := point.Sub(ray.Origin)
	closest := ray.At(toPoint.Dot(ray.Direction))
	if !vec3AlmostEqual(closest, point, 1e-6) {
		t.Errorf("ray through the projected pixel misses %v, closest point %v", point, closest)
	}

	if w, h := c.Viewport(); w != 800 || h != 600 {
		t.Errorf("Viewport() = (%d, %d), want (800, 600)", w, h)
	}
}
