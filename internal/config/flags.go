package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagSeed    = flag.Uint64("seed", 0, "Planet seed")
	flagRadius  = flag.Int("radius", 0, "Active radius in chunks")
	flagWorkers = flag.Int("workers", 0, "Concurrent generation jobs")
	flagTicks   = flag.Int("ticks", 0, "Frames to simulate")
	flagDump    = flag.String("dump", "", "Write a JSON mesh snapshot to this path on exit")
	flagSave    = flag.Bool("save-config", false, "Write the effective config to the user config dir")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSave
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	// Seed 0 is a valid planet, so only an explicit flag overrides it.
	if set["seed"] {
		cfg.Terrain.Seed = *flagSeed
	}
	if *flagRadius > 0 {
		cfg.Terrain.Radius = *flagRadius
	}
	if *flagWorkers > 0 {
		cfg.Terrain.Workers = *flagWorkers
	}
	if *flagTicks > 0 {
		cfg.Sim.Ticks = *flagTicks
	}
	if *flagDump != "" {
		cfg.Sim.Dump = *flagDump
	}
}
