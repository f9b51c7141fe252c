package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/gridpath/internal/config"
	"github.com/Faultbox/gridpath/internal/obstacle"
	"github.com/Faultbox/gridpath/pkg/math"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    math.Vec2
		wantErr bool
	}{
		{"1,2", math.Vec2{X: 1, Y: 2}, false},
		{" -3.5 , 4.25 ", math.Vec2{X: -3.5, Y: 4.25}, false},
		{"", math.Vec2{}, true},
		{"1", math.Vec2{}, true},
		{"1,2,3", math.Vec2{}, true},
		{"a,2", math.Vec2{}, true},
		{"1,b", math.Vec2{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePoint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errBadPoint) {
				t.Errorf("expected errBadPoint, got %v", err)
			}
			if got != tt.want {
				t.Errorf("parsePoint(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// wallConfig is a unit 5x5 grid with a box over column 2, rows 0-3.
func wallConfig() *config.Config {
	cfg := config.Default()
	cfg.Grid.Center = math.Vec2{X: 2, Y: 2}
	cfg.Grid.Size = math.Vec2{X: 5, Y: 5}
	cfg.Grid.CellRadius = 0.5
	cfg.Obstacles = []config.Obstacle{
		{Shape: obstacle.ShapeBox, Min: math.Vec2{X: 1.5, Y: -0.5}, Max: math.Vec2{X: 2.5, Y: 3.5}},
	}
	return cfg
}

func TestRunQuery(t *testing.T) {
	e, err := newEngine(wallConfig())
	if err != nil {
		t.Fatalf("newEngine() error: %v", err)
	}

	var out bytes.Buffer
	code := runQuery(&out, e.pathFinder, math.Vec2{X: 0, Y: 2}, math.Vec2{X: 4, Y: 2}, false)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	want := "0,2\n2,4\n4,2\ncost 56 over 5 cells\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	out.Reset()
	runQuery(&out, e.pathFinder, math.Vec2{X: 0, Y: 2}, math.Vec2{X: 4, Y: 2}, true)
	if lines := strings.Count(out.String(), "\n"); lines != 6 {
		t.Errorf("dense output has %d lines, want 6: %q", lines, out.String())
	}
}

func TestRunQuery_NoPath(t *testing.T) {
	cfg := wallConfig()
	cfg.Obstacles[0].Max.Y = 4.5 // wall spans the whole column

	e, err := newEngine(cfg)
	if err != nil {
		t.Fatalf("newEngine() error: %v", err)
	}

	var out bytes.Buffer
	if code := runQuery(&out, e.pathFinder, math.Vec2{X: 0, Y: 2}, math.Vec2{X: 4, Y: 2}, false); code != exitNoPath {
		t.Errorf("expected exit %d, got %d", exitNoPath, code)
	}
	if out.String() != "no path\n" {
		t.Errorf("output = %q, want %q", out.String(), "no path\n")
	}
}

func TestEngine_Reload(t *testing.T) {
	cfg := wallConfig()
	e, err := newEngine(cfg)
	if err != nil {
		t.Fatalf("newEngine() error: %v", err)
	}
	grid := e.grid

	// Obstacle-only change keeps the grid
	cfg.Obstacles = nil
	if err := e.reload(cfg); err != nil {
		t.Fatalf("reload() error: %v", err)
	}
	if e.grid != grid {
		t.Error("expected the same grid for a layout-only change")
	}
	if e.grid.Lattice().Blocked() != 0 {
		t.Errorf("expected no blocked cells after removing obstacles, got %d", e.grid.Lattice().Blocked())
	}

	// Changing the cell size rebuilds the grid
	cfg.Grid.CellRadius = 0.25
	if err := e.reload(cfg); err != nil {
		t.Fatalf("reload() error: %v", err)
	}
	if e.grid == grid || e.grid.Width() != 10 {
		t.Errorf("expected a new 10-wide grid, got width %d", e.grid.Width())
	}

	// A bad layout is rejected
	cfg.Obstacles = []config.Obstacle{{Shape: "hexagon"}}
	if err := e.reload(cfg); !errors.Is(err, obstacle.ErrUnknownShape) {
		t.Errorf("expected ErrUnknownShape, got %v", err)
	}
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)

	if err := runInit(path, false); err != nil {
		t.Fatalf("runInit() error: %v", err)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Grid != config.Default().Grid {
		t.Errorf("grid = %+v, want defaults", cfg.Grid)
	}
	if _, err := newEngine(cfg); err != nil {
		t.Errorf("newEngine() on written config: %v", err)
	}

	// A second init refuses to clobber the file
	if err := runInit(path, false); !errors.Is(err, config.ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
	if err := runInit(path, true); err != nil {
		t.Errorf("runInit(force) error: %v", err)
	}
}

func TestLoggerOptions(t *testing.T) {
	l := config.Default().Logging
	l.LogFile = "pathfind.log"

	opts := loggerOptions(l)
	if !opts.Console || opts.File != "pathfind.log" || opts.Level != "info" {
		t.Errorf("unexpected options %+v", opts)
	}
	if r := opts.Rotation; r.MaxSizeMB != 20 || r.MaxBackups != 5 || r.MaxAgeDays != 14 || !r.Compress {
		t.Errorf("unexpected rotation %+v", r)
	}
}
