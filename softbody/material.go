package softbody

import (
	"github.com/akmonengine/jelly/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// Material holds the per-mesh constraint tuning.
type Material struct {
	DistanceCompliance float64
	VolumeCompliance   float64
	// BendingCompliance drives the span constraint between the two apexes
	// of every edge.
	BendingCompliance float64
	// Pressure scales the target volume: 1 keeps the rest volume.
	Pressure float64
	// InvMassClamp caps every inverse mass to this multiple of points/restVolume.
	InvMassClamp float64
}

func DefaultMaterial() Material {
	return Material{
		DistanceCompliance: constraint.FAT_COMPLIANCE,
		VolumeCompliance:   0.0,
		BendingCompliance:  0.005,
		Pressure:           1.0,
		InvMassClamp:       4.0,
	}
}

// Params are the world settings passed to every solve.
type Params struct {
	Substeps     int
	Gravity      mgl64.Vec3
	GroundHeight float64
	// PlaySpace holds the half extents of the box centered on the origin
	// that points cannot leave.
	PlaySpace mgl64.Vec3
	Epsilon   float64
}

func DefaultParams() Params {
	return Params{
		Substeps:     10,
		Gravity:      mgl64.Vec3{0, -9.81, 0},
		GroundHeight: 0,
		PlaySpace:    mgl64.Vec3{10, 10, 10},
		Epsilon:      constraint.DefaultEpsilon,
	}
}
