package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/gridpath/internal/config"
	"github.com/Faultbox/gridpath/internal/logger"
	"github.com/Faultbox/gridpath/internal/obstacle"
	"github.com/Faultbox/gridpath/internal/watch"
	"github.com/Faultbox/gridpath/internal/world"
	"github.com/Faultbox/gridpath/pkg/math"
)

const exitNoPath = 2

var errBadPoint = errors.New("expected point as x,y")

// engine is the grid and pathfinder built from one config.
type engine struct {
	grid       *world.Grid
	pathFinder *world.PathFinder
	obstacles  *obstacle.Space
}

func newEngine(cfg *config.Config) (*engine, error) {
	space, err := obstacle.NewSpace(cfg.Obstacles, cfg.Grid.Mask)
	if err != nil {
		return nil, fmt.Errorf("building obstacles: %w", err)
	}
	grid := world.NewGrid(gridConfig(cfg), space)
	return &engine{
		grid:       grid,
		pathFinder: world.NewPathFinder(grid),
		obstacles:  space,
	}, nil
}

func gridConfig(cfg *config.Config) world.GridConfig {
	return world.GridConfig{
		Center:     cfg.Grid.Center,
		Size:       cfg.Grid.Size,
		CellRadius: cfg.Grid.CellRadius,
	}
}

// reload applies a changed config. Layout-only changes keep the grid and swap the
// oracle; a changed grid shape needs a new grid.
func (e *engine) reload(cfg *config.Config) error {
	space, err := obstacle.NewSpace(cfg.Obstacles, cfg.Grid.Mask)
	if err != nil {
		return fmt.Errorf("building obstacles: %w", err)
	}
	e.obstacles = space

	if gc := gridConfig(cfg); gc != e.grid.Config() {
		e.grid = world.NewGrid(gc, space)
		e.pathFinder = world.NewPathFinder(e.grid)
		return nil
	}
	e.grid.SetOracle(space)
	e.grid.Rebuild()
	return nil
}

func parsePoint(s string) (math.Vec2, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return math.Vec2{}, fmt.Errorf("%w, got %q", errBadPoint, s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 32)
	if err != nil {
		return math.Vec2{}, fmt.Errorf("%w, got %q: %v", errBadPoint, s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
	if err != nil {
		return math.Vec2{}, fmt.Errorf("%w, got %q: %v", errBadPoint, s, err)
	}
	return math.Vec2{X: float32(x), Y: float32(y)}, nil
}

// endpointFlags registers -from and -to on fs.
func endpointFlags(fs *flag.FlagSet) (from, to *string) {
	from = fs.String("from", "", "Start point x,y")
	to = fs.String("to", "", "Goal point x,y")
	return from, to
}

func parseEndpoints(from, to string) (math.Vec2, math.Vec2, error) {
	start, err := parsePoint(from)
	if err != nil {
		return math.Vec2{}, math.Vec2{}, fmt.Errorf("-from: %w", err)
	}
	goal, err := parsePoint(to)
	if err != nil {
		return math.Vec2{}, math.Vec2{}, fmt.Errorf("-to: %w", err)
	}
	return start, goal, nil
}

func cmdInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	out := fs.String("o", config.FileName, "Output path")
	user := fs.Bool("user", false, "Write to the user config directory instead of -o")
	force := fs.Bool("force", false, "Overwrite an existing file")
	fs.Parse(args)

	path := *out
	if *user {
		path = config.UserPath()
	}
	if err := runInit(path, *force); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Wrote %s\n", path)
	return 0
}

// runInit writes the default layout to path.
func runInit(path string, force bool) error {
	cfg := config.Default()
	if err := cfg.SaveTo(path, force); err != nil {
		return err
	}
	logger.Info("config written", zap.String("path", path), zap.Bool("overwrite", force))
	return nil
}

func cmdInfo(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	e, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	l := e.grid.Lattice()
	fmt.Printf("Area:      center (%g, %g) size %g x %g\n",
		cfg.Grid.Center.X, cfg.Grid.Center.Y, cfg.Grid.Size.X, cfg.Grid.Size.Y)
	fmt.Printf("Cells:     %d x %d (%d total)\n", l.Width(), l.Height(), l.Width()*l.Height())
	fmt.Printf("Cell size: %g\n", e.grid.CellDiameter())
	fmt.Printf("Blocked:   %d\n", l.Blocked())
	fmt.Printf("Obstacles: %d\n", e.obstacles.Len())
	return 0
}

func cmdQuery(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	from, to := endpointFlags(fs)
	dense := fs.Bool("dense", false, "Print every cell instead of simplified waypoints")
	fs.Parse(args)

	start, goal, err := parseEndpoints(*from, *to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	e, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return runQuery(os.Stdout, e.pathFinder, start, goal, *dense)
}

// runQuery prints the path between start and goal and returns the exit code.
func runQuery(out io.Writer, pf *world.PathFinder, start, goal math.Vec2, dense bool) int {
	began := time.Now()
	cells := pf.FindCellPath(start, goal)
	took := time.Since(began)

	if cells == nil {
		logger.Info("no path", zap.Stringer("from", vecString(start)), zap.Stringer("to", vecString(goal)))
		fmt.Fprintln(out, "no path")
		return exitNoPath
	}

	cost := world.PathCost(cells)
	if dense {
		for _, c := range cells {
			fmt.Fprintf(out, "%d,%d\t%g,%g\n", c.X, c.Y, c.Center.X, c.Center.Y)
		}
	} else {
		points := make([]math.Vec2, len(cells))
		for i, c := range cells {
			points[i] = c.Center
		}
		for _, p := range world.SimplifyPath(points) {
			fmt.Fprintf(out, "%g,%g\n", p.X, p.Y)
		}
	}
	fmt.Fprintf(out, "cost %d over %d cells\n", cost, len(cells))

	logger.Debug("path found",
		zap.Int("cells", len(cells)),
		zap.Int("cost", cost),
		zap.Duration("took", took))
	return 0
}

func cmdWatch(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	from, to := endpointFlags(fs)
	fs.Parse(args)

	start, goal, err := parseEndpoints(*from, *to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	path := config.Path()
	if path == "" {
		fmt.Fprintf(os.Stderr, "Error: watch needs a config file (-config or ./%s)\n", config.FileName)
		return 1
	}

	e, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	w, err := watch.NewWatcher(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: watching %s: %v\n", path, err)
		return 1
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tick <-chan time.Time
	if cfg.Grid.RebuildInterval > 0 {
		ticker := time.NewTicker(cfg.Grid.RebuildInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	logger.Info("watching", zap.String("config", path), zap.Duration("rebuild_interval", cfg.Grid.RebuildInterval))
	runQuery(os.Stdout, e.pathFinder, start, goal, false)

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped watching")
			return 0
		case <-tick:
			e.grid.Rebuild()
			runQuery(os.Stdout, e.pathFinder, start, goal, false)
		case changed, ok := <-w.Events:
			if !ok {
				return 0
			}
			next, err := config.LoadFile(changed)
			if err != nil {
				// Keep serving the last good layout
				logger.Warn("config reload failed", zap.String("config", changed), zap.Error(err))
				continue
			}
			if err := e.reload(next); err != nil {
				logger.Warn("layout rejected", zap.String("config", changed), zap.Error(err))
				continue
			}
			logger.Info("layout reloaded", zap.String("config", changed), zap.Int("obstacles", e.obstacles.Len()))
			runQuery(os.Stdout, e.pathFinder, start, goal, false)
		case err, ok := <-w.Errors:
			if !ok {
				return 0
			}
			logger.Error("watch error", zap.Error(err))
		}
	}
}

// vecString formats a point for log fields.
type vecString math.Vec2

func (v vecString) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
