// pathfind is a CLI for building walkability grids and querying paths across them.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/gridpath/internal/config"
	"github.com/Faultbox/gridpath/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	// init writes a fresh config and must not depend on an existing one
	if command == "init" {
		os.Exit(cmdInit(args[1:]))
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(loggerOptions(cfg.Logging))
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	var code int
	switch command {
	case "info":
		code = cmdInfo(cfg, args[1:])
	case "query", "q":
		code = cmdQuery(cfg, args[1:])
	case "watch":
		code = cmdWatch(cfg, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		code = 1
	}

	if code != 0 {
		logger.Debug("exiting", zap.String("command", command), zap.Int("code", code))
		logger.Sync()
		os.Exit(code)
	}
}

func loggerOptions(l config.LoggingConfig) logger.Options {
	return logger.Options{
		Level:   l.Level,
		Console: true,
		File:    l.LogFile,
		Rotation: logger.Rotation{
			MaxSizeMB:  l.MaxSizeMB,
			MaxBackups: l.MaxBackups,
			MaxAgeDays: l.MaxAgeDays,
			Compress:   l.Compress,
		},
	}
}

func printUsage() {
	fmt.Println(`pathfind - grid pathfinding utility

Usage:
  pathfind [global options] <command> [options]

Global options:
  -config <file>            Config file (default ./pathfind.yaml)
  -debug                    Enable debug logging
  -cell-radius <r>          Override grid cell radius
  -rebuild-interval <d>     Override periodic rebuild interval for watch

Commands:
  init [-o file] [-user] [-force]    Write the default config
  info                               Show grid dimensions and obstacle counts
  query -from x,y -to x,y [-dense]   Print waypoints (or every cell) and path cost
  watch -from x,y -to x,y            Re-query whenever the layout changes

Exit status is 2 when no path exists.

Examples:
  pathfind init -o level1.yaml
  pathfind info
  pathfind -config level1.yaml query -from -20,-20 -to 18.5,3
  pathfind -debug watch -from 0,0 -to 10,10`)
}
