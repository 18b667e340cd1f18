// Package main runs a soft-body scene headless and logs how it evolves.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/akmonengine/jelly/config"
	"github.com/akmonengine/jelly/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Jelly ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	sim, err := newSimulation(cfg)
	if err != nil {
		logger.Error("failed to build scene", zap.Error(err))
		os.Exit(1)
	}

	sim.run(cfg.World.Frames, cfg.World.TimeStep.Seconds(), cfg.World.Interact)

	logger.Info("simulation finished", zap.Int("frames", cfg.World.Frames), zap.Int("bodies", len(sim.world.Bodies())))
}
