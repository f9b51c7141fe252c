// Package world provides the walkability grid and pathfinding over it.
package world

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/gridpath/internal/logger"
	gmath "github.com/Faultbox/gridpath/pkg/math"
)

// ShrinkFactor scales the query radius so cells flush against an obstacle stay walkable.
const ShrinkFactor = 0.9

// Oracle reports whether a circle in world space overlaps an obstacle.
type Oracle interface {
	IsBlocked(point gmath.Vec2, radius float32) bool
}

// GridConfig describes the area covered by a grid.
type GridConfig struct {
	Center     gmath.Vec2 // World-space center of the area
	Size       gmath.Vec2 // Full extent along each axis
	CellRadius float32    // Half the cell edge length
}

// Cell is one lattice position.
type Cell struct {
	X, Y     int        // Lattice coordinates
	Center   gmath.Vec2 // World-space center
	Walkable bool
}

// Lattice is an immutable snapshot of every cell produced by one rebuild.
type Lattice struct {
	width, height int
	bottomLeft    gmath.Vec2
	size          gmath.Vec2
	cells         []Cell
}

// Grid owns the current lattice and rebuilds it from an obstacle oracle.
type Grid struct {
	cfg      GridConfig
	diameter float32
	width    int
	height   int

	mu      sync.Mutex // serializes rebuilds and oracle swaps
	oracle  Oracle
	lattice atomic.Pointer[Lattice]
}

// NewGrid creates a grid and performs the initial rebuild.
// A nil oracle means the whole area is walkable.
func NewGrid(cfg GridConfig, oracle Oracle) *Grid {
	g := &Grid{
		cfg:      cfg,
		diameter: cfg.CellRadius * 2,
		oracle:   oracle,
	}
	if cfg.CellRadius > 0 && cfg.Size.X > 0 && cfg.Size.Y > 0 {
		g.width = roundToInt(cfg.Size.X / g.diameter)
		g.height = roundToInt(cfg.Size.Y / g.diameter)
	}
	g.Rebuild()
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// CellDiameter returns the world-space edge length of a cell.
func (g *Grid) CellDiameter() float32 { return g.diameter }

// Config returns the configuration the grid was built with.
func (g *Grid) Config() GridConfig { return g.cfg }

// SetOracle replaces the oracle used by subsequent rebuilds.
func (g *Grid) SetOracle(oracle Oracle) {
	g.mu.Lock()
	g.oracle = oracle
	g.mu.Unlock()
}

// Lattice returns the current snapshot. It never changes after being returned.
func (g *Grid) Lattice() *Lattice {
	return g.lattice.Load()
}

// Rebuild samples the oracle for every cell and publishes a fresh lattice.
func (g *Grid) Rebuild() {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Now()
	bottomLeft := g.cfg.Center.Sub(g.cfg.Size.Scale(0.5))
	l := &Lattice{
		width:      g.width,
		height:     g.height,
		bottomLeft: bottomLeft,
		size:       g.cfg.Size,
		cells:      make([]Cell, g.width*g.height),
	}

	r := g.cfg.CellRadius
	blocked := 0
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			center := gmath.Vec2{
				X: bottomLeft.X + float32(x)*g.diameter + r,
				Y: bottomLeft.Y + float32(y)*g.diameter + r,
			}
			walkable := g.oracle == nil || !g.oracle.IsBlocked(center, r*ShrinkFactor)
			if !walkable {
				blocked++
			}
			l.cells[y*g.width+x] = Cell{X: x, Y: y, Center: center, Walkable: walkable}
		}
	}

	g.lattice.Store(l)

	logger.Debug("grid rebuilt",
		zap.Int("width", g.width),
		zap.Int("height", g.height),
		zap.Int("blocked", blocked),
		zap.Duration("took", time.Since(start)))
}

// Width returns the number of columns.
func (l *Lattice) Width() int { return l.width }

// Height returns the number of rows.
func (l *Lattice) Height() int { return l.height }

// Blocked returns the number of unwalkable cells.
func (l *Lattice) Blocked() int {
	n := 0
	for i := range l.cells {
		if !l.cells[i].Walkable {
			n++
		}
	}
	return n
}

// Cell returns the cell at lattice coordinates (x, y).
func (l *Lattice) Cell(x, y int) (Cell, bool) {
	if !l.inBounds(x, y) {
		return Cell{}, false
	}
	return l.cells[l.key(x, y)], true
}

// CellAt maps a world point to the nearest cell. Points outside the area are
// clamped to the edge; only a zero-dimension lattice returns false.
func (l *Lattice) CellAt(p gmath.Vec2) (Cell, bool) {
	if l.width == 0 || l.height == 0 {
		return Cell{}, false
	}

	rel := p.Sub(l.bottomLeft)
	percentX := gmath.Clamp01(rel.X / l.size.X)
	percentY := gmath.Clamp01(rel.Y / l.size.Y)

	x := roundToInt(float32(l.width-1) * percentX)
	y := roundToInt(float32(l.height-1) * percentY)
	return l.Cell(x, y)
}

// Neighbors returns the in-bounds 8-connected neighbors of c, column-major from
// the bottom-left. Diagonals are offered even when both flanking cells are blocked.
func (l *Lattice) Neighbors(c Cell) []Cell {
	neighbors := make([]Cell, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := c.X+dx, c.Y+dy
			if l.inBounds(nx, ny) {
				neighbors = append(neighbors, l.cells[l.key(nx, ny)])
			}
		}
	}
	return neighbors
}

func (l *Lattice) inBounds(x, y int) bool {
	return x >= 0 && x < l.width && y >= 0 && y < l.height
}

func (l *Lattice) key(x, y int) int {
	return y*l.width + x
}

// roundToInt rounds half to even, matching the engine the grid layout came from.
func roundToInt(f float32) int {
	return int(math.RoundToEven(float64(f)))
}
