package world

import (
	"math"
	"sync"
	"testing"

	gmath "github.com/Faultbox/gridpath/pkg/math"
)

// cellOracle blocks the unit cells listed in blocked. Cell centers of a mock grid
// sit on integer coordinates, so rounding the query point recovers the cell.
type cellOracle struct {
	mu      sync.RWMutex
	blocked map[[2]int]bool
	radii   []float32
	record  bool
}

func (o *cellOracle) IsBlocked(p gmath.Vec2, radius float32) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.record {
		o.radii = append(o.radii, radius)
	}
	key := [2]int{int(math.Round(float64(p.X))), int(math.Round(float64(p.Y)))}
	return o.blocked[key]
}

func (o *cellOracle) set(x, y int, blocked bool) {
	o.mu.Lock()
	o.blocked[[2]int{x, y}] = blocked
	o.mu.Unlock()
}

// unitConfig covers a width x height area whose cell centers are (0,0)..(w-1,h-1).
func unitConfig(width, height int) GridConfig {
	return GridConfig{
		Center:     gmath.Vec2{X: float32(width-1) / 2, Y: float32(height-1) / 2},
		Size:       gmath.Vec2{X: float32(width), Y: float32(height)},
		CellRadius: 0.5,
	}
}

// mockGrid builds a unit grid from rows drawn top to bottom; '#' is blocked.
func mockGrid(rows ...string) (*Grid, *cellOracle) {
	height := len(rows)
	width := len(rows[0])
	oracle := &cellOracle{blocked: make(map[[2]int]bool)}
	for i, row := range rows {
		y := height - 1 - i
		for x, ch := range row {
			if ch == '#' {
				oracle.blocked[[2]int{x, y}] = true
			}
		}
	}
	return NewGrid(unitConfig(width, height), oracle), oracle
}

func TestNewGrid_Dimensions(t *testing.T) {
	tests := []struct {
		name          string
		cfg           GridConfig
		width, height int
	}{
		{"unit 5x5", unitConfig(5, 5), 5, 5},
		{"default area", GridConfig{Size: gmath.Vec2{X: 50, Y: 50}, CellRadius: 0.2}, 125, 125},
		{"half rounds to even", GridConfig{Size: gmath.Vec2{X: 2.5, Y: 3.5}, CellRadius: 0.5}, 2, 4},
		{"zero size", GridConfig{CellRadius: 0.5}, 0, 0},
		{"zero radius", GridConfig{Size: gmath.Vec2{X: 10, Y: 10}}, 0, 0},
		{"negative radius", GridConfig{Size: gmath.Vec2{X: 10, Y: 10}, CellRadius: -1}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(tt.cfg, nil)
			if g.Width() != tt.width || g.Height() != tt.height {
				t.Errorf("dimensions = %dx%d, want %dx%d", g.Width(), g.Height(), tt.width, tt.height)
			}
			l := g.Lattice()
			if l.Width() != tt.width || l.Height() != tt.height {
				t.Errorf("lattice dimensions = %dx%d, want %dx%d", l.Width(), l.Height(), tt.width, tt.height)
			}
		})
	}
}

func TestGrid_CellCenters(t *testing.T) {
	g := NewGrid(GridConfig{Size: gmath.Vec2{X: 50, Y: 50}, CellRadius: 0.2}, nil)
	l := g.Lattice()

	c, ok := l.Cell(0, 0)
	if !ok {
		t.Fatal("expected cell (0,0)")
	}
	if !approx(c.Center.X, -24.8) || !approx(c.Center.Y, -24.8) {
		t.Errorf("cell (0,0) center = %v, want (-24.8,-24.8)", c.Center)
	}

	c, _ = l.Cell(124, 124)
	if !approx(c.Center.X, 24.8) || !approx(c.Center.Y, 24.8) {
		t.Errorf("cell (124,124) center = %v, want (24.8,24.8)", c.Center)
	}

	if _, ok := l.Cell(125, 0); ok {
		t.Error("expected no cell past the last column")
	}
}

func TestGrid_RebuildShrinksQueryRadius(t *testing.T) {
	oracle := &cellOracle{blocked: map[[2]int]bool{}, record: true}
	NewGrid(unitConfig(3, 2), oracle)

	if len(oracle.radii) != 6 {
		t.Fatalf("expected one oracle query per cell (6), got %d", len(oracle.radii))
	}
	for _, r := range oracle.radii {
		if !approx(r, 0.45) {
			t.Errorf("query radius = %v, want 0.45", r)
		}
	}
}

func TestGrid_NilOracleIsWalkable(t *testing.T) {
	g := NewGrid(unitConfig(4, 4), nil)
	if n := g.Lattice().Blocked(); n != 0 {
		t.Errorf("expected no blocked cells without an oracle, got %d", n)
	}
}

func TestGrid_RebuildReplacesLattice(t *testing.T) {
	g, oracle := mockGrid(
		".....",
		".....",
		".....",
	)
	before := g.Lattice()

	oracle.set(2, 1, true)
	g.Rebuild()
	after := g.Lattice()

	if before == after {
		t.Fatal("expected rebuild to publish a new lattice")
	}
	if c, _ := before.Cell(2, 1); !c.Walkable {
		t.Error("old snapshot changed after rebuild")
	}
	if c, _ := after.Cell(2, 1); c.Walkable {
		t.Error("expected (2,1) blocked after rebuild")
	}
	if after.Blocked() != 1 {
		t.Errorf("expected 1 blocked cell, got %d", after.Blocked())
	}
}

func TestGrid_SetOracle(t *testing.T) {
	g := NewGrid(unitConfig(3, 3), nil)

	g.SetOracle(&cellOracle{blocked: map[[2]int]bool{{1, 1}: true}})
	if g.Lattice().Blocked() != 0 {
		t.Error("oracle swap must not take effect before a rebuild")
	}

	g.Rebuild()
	if c, _ := g.Lattice().Cell(1, 1); c.Walkable {
		t.Error("expected (1,1) blocked by the new oracle")
	}
}

func TestLattice_CellAt(t *testing.T) {
	g, _ := mockGrid(
		".....",
		".....",
		".....",
		".....",
		".....",
	)
	l := g.Lattice()

	tests := []struct {
		name string
		p    gmath.Vec2
		x, y int
	}{
		{"origin cell", gmath.Vec2{X: 0, Y: 0}, 0, 0},
		{"far corner", gmath.Vec2{X: 4, Y: 4}, 4, 4},
		{"center", gmath.Vec2{X: 2, Y: 2}, 2, 2},
		{"far below left", gmath.Vec2{X: -1000, Y: -1000}, 0, 0},
		{"far above right", gmath.Vec2{X: 1e6, Y: 1e6}, 4, 4},
		{"clamped one axis", gmath.Vec2{X: 3, Y: -50}, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := l.CellAt(tt.p)
			if !ok {
				t.Fatalf("CellAt(%v) returned no cell", tt.p)
			}
			if c.X != tt.x || c.Y != tt.y {
				t.Errorf("CellAt(%v) = (%d,%d), want (%d,%d)", tt.p, c.X, c.Y, tt.x, tt.y)
			}
		})
	}
}

func TestLattice_CellAtDegenerate(t *testing.T) {
	g := NewGrid(GridConfig{CellRadius: 0.5}, nil)
	if _, ok := g.Lattice().CellAt(gmath.Vec2{}); ok {
		t.Error("expected no cell on a zero-area grid")
	}
}

func TestLattice_Neighbors(t *testing.T) {
	g := NewGrid(unitConfig(3, 3), nil)
	l := g.Lattice()

	corner, _ := l.Cell(0, 0)
	if n := len(l.Neighbors(corner)); n != 3 {
		t.Errorf("corner neighbors = %d, want 3", n)
	}
	edge, _ := l.Cell(1, 0)
	if n := len(l.Neighbors(edge)); n != 5 {
		t.Errorf("edge neighbors = %d, want 5", n)
	}

	center, _ := l.Cell(1, 1)
	got := l.Neighbors(center)
	want := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
	if len(got) != len(want) {
		t.Fatalf("center neighbors = %d, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.X != want[i][0] || c.Y != want[i][1] {
			t.Errorf("neighbor %d = (%d,%d), want (%d,%d)", i, c.X, c.Y, want[i][0], want[i][1])
		}
	}
}

func TestLattice_NeighborsIncludeBlocked(t *testing.T) {
	g, _ := mockGrid(
		"###",
		"#.#",
		"###",
	)
	l := g.Lattice()
	center, _ := l.Cell(1, 1)
	if n := len(l.Neighbors(center)); n != 8 {
		t.Errorf("expected all 8 neighbors regardless of walkability, got %d", n)
	}
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}
