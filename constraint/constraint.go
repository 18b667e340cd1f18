package constraint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Compliance presets, in m/N. Zero is perfectly stiff.
const STIFF_COMPLIANCE = CONCRETE_COMPLIANCE

const (
	CONCRETE_COMPLIANCE = 0.04e-9
	WOOD_COMPLIANCE     = 0.16e-9
	LEATHER_COMPLIANCE  = 14e-8
	TENDON_COMPLIANCE   = 0.2e-7
	RUBBER_COMPLIANCE   = 1e-6
	MUSCLE_COMPLIANCE   = 0.2e-3
	FAT_COMPLIANCE      = 1e-3
)

// DefaultEpsilon gates every solve: constraint errors and denominators below
// it are skipped.
const DefaultEpsilon = 1e-4

// Particle is a point mass driven by position-based constraints.
// InvMass 0 pins the particle in place.
type Particle struct {
	Position     mgl64.Vec3
	PrevPosition mgl64.Vec3
	Velocity     mgl64.Vec3
	InvMass      float64
}

// AlphaTilde scales a compliance by the squared (sub)step.
func AlphaTilde(compliance, dt float64) float64 {
	return compliance / (dt * dt)
}

// SolveDistance projects p0 and p1 towards restLength and accumulates the
// Lagrange multiplier in lambda.
func SolveDistance(p0, p1 *Particle, restLength, alpha float64, lambda *float64, epsilon float64) {
	delta := p0.Position.Sub(p1.Position)
	length := delta.Len()
	if length == 0 {
		return
	}

	c := length - restLength
	if math.Abs(c) < epsilon {
		return
	}

	w := p0.InvMass + p1.InvMass + alpha
	if w == 0 {
		return
	}

	n := delta.Mul(1.0 / length)
	deltaLambda := (-c - alpha*(*lambda)) / w

	p0.Position = p0.Position.Add(n.Mul(deltaLambda * p0.InvMass))
	p1.Position = p1.Position.Sub(n.Mul(deltaLambda * p1.InvMass))
	*lambda += deltaLambda
}

// Solve applies one XPBD projection of a scalar constraint with value c.
// gradients[i] is the gradient of c with respect to particles[i].
func Solve(c float64, particles []*Particle, gradients []mgl64.Vec3, alpha float64, lambda *float64, epsilon float64) {
	if math.Abs(c) < epsilon {
		return
	}

	denominator := alpha
	for i, p := range particles {
		denominator += p.InvMass * gradients[i].LenSqr()
	}
	if denominator < epsilon {
		return
	}

	deltaLambda := (-c - alpha*(*lambda)) / denominator
	for i, p := range particles {
		p.Position = p.Position.Add(gradients[i].Mul(deltaLambda * p.InvMass))
	}
	*lambda += deltaLambda
}
