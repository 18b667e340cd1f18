// Package config handles simulation configuration loading and management.
package config

import (
	"time"

	"github.com/akmonengine/jelly/softbody"
	"github.com/go-gl/mathgl/mgl64"
)

// Config holds all simulation settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Material   MaterialConfig   `yaml:"material"`
	World      WorldConfig      `yaml:"world"`
	Scene      SceneConfig      `yaml:"scene"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig holds the solver settings shared by every body.
type SimulationConfig struct {
	Substeps     int        `yaml:"substeps"`
	Gravity      mgl64.Vec3 `yaml:"gravity"`
	GroundHeight float64    `yaml:"ground_height"`
	PlaySpace    mgl64.Vec3 `yaml:"play_space"` // Half extents around the origin
	Epsilon      float64    `yaml:"epsilon"`
}

// MaterialConfig holds the default soft-body material.
type MaterialConfig struct {
	DistanceCompliance float64 `yaml:"distance_compliance"`
	VolumeCompliance   float64 `yaml:"volume_compliance"`
	BendingCompliance  float64 `yaml:"bending_compliance"`
	Pressure           float64 `yaml:"pressure"`
	InvMassClamp       float64 `yaml:"inv_mass_clamp"`
}

// WorldConfig holds the stepping settings.
type WorldConfig struct {
	Workers  int           `yaml:"workers"`
	TimeStep time.Duration `yaml:"time_step"`
	Frames   int           `yaml:"frames"`
	// Interact grabs and drags the first dynamic body halfway through the run.
	Interact bool `yaml:"interact"`
}

// SceneConfig lists the bodies spawned at startup.
type SceneConfig struct {
	Bodies []BodyConfig `yaml:"bodies"`
}

// BodyConfig places one body in the scene. A zero Scale means unit scale.
type BodyConfig struct {
	Shape    string     `yaml:"shape"` // tetrahedron, cube or icosahedron
	Position mgl64.Vec3 `yaml:"position"`
	Rotation mgl64.Vec3 `yaml:"rotation"` // Euler angles in degrees
	Scale    mgl64.Vec3 `yaml:"scale"`
	Static   bool       `yaml:"static"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// SpawnPosition is where the -shape flag drops its body.
var SpawnPosition = mgl64.Vec3{0, 5, 0}

// Default returns a Config with sensible default values.
func Default() *Config {
	params := softbody.DefaultParams()
	material := softbody.DefaultMaterial()

	return &Config{
		Simulation: SimulationConfig{
			Substeps:     params.Substeps,
			Gravity:      params.Gravity,
			GroundHeight: params.GroundHeight,
			PlaySpace:    params.PlaySpace,
			Epsilon:      params.Epsilon,
		},
		Material: MaterialConfig{
			DistanceCompliance: material.DistanceCompliance,
			VolumeCompliance:   material.VolumeCompliance,
			BendingCompliance:  material.BendingCompliance,
			Pressure:           material.Pressure,
			InvMassClamp:       material.InvMassClamp,
		},
		World: WorldConfig{
			Workers:  1,
			TimeStep: time.Second / 60,
			Frames:   600,
			Interact: true,
		},
		Scene: SceneConfig{
			Bodies: []BodyConfig{
				{Shape: "cube", Position: mgl64.Vec3{0, -0.5, 0}, Scale: mgl64.Vec3{20, 1, 20}, Static: true},
				{Shape: "cube", Position: mgl64.Vec3{-3, 3, 0}},
				{Shape: "icosahedron", Position: SpawnPosition},
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Params converts the simulation section for the solver.
func (c *Config) Params() softbody.Params {
	return softbody.Params{
		Substeps:     c.Simulation.Substeps,
		Gravity:      c.Simulation.Gravity,
		GroundHeight: c.Simulation.GroundHeight,
		PlaySpace:    c.Simulation.PlaySpace,
		Epsilon:      c.Simulation.Epsilon,
	}
}

func (c *Config) SoftbodyMaterial() softbody.Material {
	return softbody.Material{
		DistanceCompliance: c.Material.DistanceCompliance,
		VolumeCompliance:   c.Material.VolumeCompliance,
		BendingCompliance:  c.Material.BendingCompliance,
		Pressure:           c.Material.Pressure,
		InvMassClamp:       c.Material.InvMassClamp,
	}
}
