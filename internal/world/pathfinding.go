package world

import (
	"container/heap"

	gmath "github.com/Faultbox/gridpath/pkg/math"
)

// searchNode is the per-search state for one cell.
type searchNode struct {
	cell   Cell
	G      int // Cost from start
	H      int // Heuristic (estimated cost to goal)
	Parent *searchNode
	seq    int  // Order of first entry into the open set
	Index  int  // Index in heap, -1 when not open
	closed bool
}

// F returns the total score.
func (n *searchNode) F() int { return n.G + n.H }

// pathHeap orders the open set by total score, then heuristic, then first entry,
// which picks the same node as a front-to-back scan of an insertion-ordered list.
type pathHeap []*searchNode

func (h pathHeap) Len() int { return len(h) }
func (h pathHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.F() != b.F() {
		return a.F() < b.F()
	}
	if a.H != b.H {
		return a.H < b.H
	}
	return a.seq < b.seq
}
func (h pathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].Index = i
	h[j].Index = j
}

func (h *pathHeap) Push(x any) {
	n := len(*h)
	node := x.(*searchNode)
	node.Index = n
	*h = append(*h, node)
}

func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*h = old[0 : n-1]
	return node
}

// PathFinder runs A* searches against a grid's current lattice.
// It holds no per-search state, so one PathFinder may serve concurrent callers.
type PathFinder struct {
	grid *Grid
}

// NewPathFinder creates a new pathfinder.
func NewPathFinder(grid *Grid) *PathFinder {
	if grid == nil {
		return nil
	}
	return &PathFinder{grid: grid}
}

// FindPath returns simplified waypoints from the cell containing start to the
// cell containing goal. Returns nil if no path exists.
func (pf *PathFinder) FindPath(start, goal gmath.Vec2) []gmath.Vec2 {
	cells := pf.FindCellPath(start, goal)
	if cells == nil {
		return nil
	}
	points := make([]gmath.Vec2, len(cells))
	for i, c := range cells {
		points[i] = c.Center
	}
	return SimplifyPath(points)
}

// FindCellPath returns the full cell chain from start to goal, both inclusive.
// Returns nil if no path exists.
func (pf *PathFinder) FindCellPath(start, goal gmath.Vec2) []Cell {
	if pf == nil || pf.grid == nil {
		return nil
	}
	l := pf.grid.Lattice()

	startCell, ok := l.CellAt(start)
	if !ok {
		return nil
	}
	goalCell, ok := l.CellAt(goal)
	if !ok || !goalCell.Walkable {
		return nil
	}
	return l.search(startCell, goalCell)
}

// search runs A* from start to goal. An unwalkable start is still expanded.
func (l *Lattice) search(start, goal Cell) []Cell {
	openSet := &pathHeap{}
	nodes := make(map[int]*searchNode)
	seq := 0

	startNode := &searchNode{
		cell: start,
		H:    Distance(start.X, start.Y, goal.X, goal.Y),
	}
	heap.Push(openSet, startNode)
	nodes[l.key(start.X, start.Y)] = startNode

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*searchNode)
		current.closed = true

		if current.cell.X == goal.X && current.cell.Y == goal.Y {
			return reconstructPath(current)
		}

		for _, nc := range l.Neighbors(current.cell) {
			if !nc.Walkable {
				continue
			}

			k := l.key(nc.X, nc.Y)
			neighbor, exists := nodes[k]
			if exists && neighbor.closed {
				continue
			}

			g := current.G + Distance(current.cell.X, current.cell.Y, nc.X, nc.Y)
			if !exists {
				seq++
				neighbor = &searchNode{
					cell:   nc,
					G:      g,
					H:      Distance(nc.X, nc.Y, goal.X, goal.Y),
					Parent: current,
					seq:    seq,
				}
				nodes[k] = neighbor
				heap.Push(openSet, neighbor)
			} else if g < neighbor.G {
				// Found better path
				neighbor.G = g
				neighbor.Parent = current
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	// No path found
	return nil
}

func reconstructPath(node *searchNode) []Cell {
	var path []Cell
	for node != nil {
		path = append(path, node.cell)
		node = node.Parent
	}
	// Reverse path (it's built from goal to start)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
