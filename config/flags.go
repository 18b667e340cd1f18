package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("log-file", "", "Write JSON logs to this file")
	flagWorkers  = flag.Int("workers", 0, "Number of solver goroutines")
	flagSubsteps = flag.Int("substeps", 0, "Solver substeps per frame")
	flagFrames   = flag.Int("frames", 0, "Number of frames to simulate")
	flagShape    = flag.String("shape", "", "Replace the scene with a single body of this shape")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWorkers > 0 {
		cfg.World.Workers = *flagWorkers
	}
	if *flagSubsteps > 0 {
		cfg.Simulation.Substeps = *flagSubsteps
	}
	if *flagFrames > 0 {
		cfg.World.Frames = *flagFrames
	}
	if *flagShape != "" {
		cfg.Scene.Bodies = []BodyConfig{{Shape: *flagShape, Position: SpawnPosition}}
	}
}
