package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagCellRadius = flag.Float64("cell-radius", 0, "Override grid cell radius")
	flagInterval   = flag.Duration("rebuild-interval", -1, "Override periodic rebuild interval (0 disables)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
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
	if *flagCellRadius > 0 {
		cfg.Grid.CellRadius = float32(*flagCellRadius)
	}
	if *flagInterval >= 0 {
		cfg.Grid.RebuildInterval = *flagInterval
	}
}
