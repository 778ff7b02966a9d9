// Package main flies a scripted ship over a generated planet and reports
// what the terrain streamer hands to the renderer.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/heatcore/frozen-worlds/internal/config"
	"github.com/heatcore/frozen-worlds/internal/logger"
	"github.com/heatcore/frozen-worlds/internal/terrain/stream"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	opts := logger.DefaultOptions(cfg.Logging.Level, cfg.Logging.LogFile)
	opts.Format = cfg.Logging.Format
	if err := logger.InitWithOptions(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== HeatCore terrain sim ===")
	logger.Debug("config loaded", zap.Any("config", cfg))

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
	}

	if err := run(cfg); err != nil {
		logger.Error("sim failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("sim finished")
}

func run(cfg *config.Config) error {
	m, err := stream.New(cfg.ManagerConfig(), stream.WithLogger(logger.Named("stream")))
	if err != nil {
		return fmt.Errorf("creating chunk manager: %w", err)
	}
	defer m.Shutdown()

	mc := m.Config()
	orbit := float32(mc.Radius*mc.ChunkSize) * mc.WorldScale
	fl := newFlight(cfg.Sim, orbit)

	start := time.Now()
	x0, z0 := fl.at(0)
	player := position(x0, z0, m.HeightAt)
	for tick := 0; tick < cfg.Sim.Ticks; tick++ {
		x, z := fl.at(tick)
		player = position(x, z, m.HeightAt)
		m.Tick(player)

		if cfg.Sim.StatsEvery > 0 && (tick+1)%cfg.Sim.StatsEvery == 0 {
			logStats(tick+1, player[0], player[2], m.Stats())
		}
		if cfg.Sim.FrameTime > 0 {
			time.Sleep(cfg.Sim.FrameTime)
		}
	}

	st := m.Stats()
	logger.Info("flight complete",
		zap.Int("ticks", cfg.Sim.Ticks),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("meshes", st.Meshes),
		zap.Uint64("completed", st.Completed),
		zap.Uint64("discarded", st.Discarded),
		zap.Uint64("failed", st.Failed),
	)

	if st.Failed > 0 {
		logger.Warn("some chunk jobs failed", zap.Uint64("failed", st.Failed))
	}

	if cfg.Sim.Dump != "" {
		if err := writeSnapshot(cfg.Sim.Dump, takeSnapshot(m, player)); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		logger.Info("snapshot written", zap.String("path", cfg.Sim.Dump))
	}
	return nil
}

func logStats(tick int, x, z float32, st stream.Stats) {
	logger.Info("stream stats",
		zap.Int("tick", tick),
		zap.Float32("x", x),
		zap.Float32("z", z),
		zap.Int("meshes", st.Meshes),
		zap.Int("pending", st.Pending),
		zap.Int("in_flight", st.InFlight),
		zap.Uint64("evicted", st.Evicted),
	)
}
