package world

// Movement costs in fixed point: 10 per orthogonal step, 14 (~10*sqrt(2)) per diagonal.
const (
	StraightCost = 10
	DiagonalCost = 14
)

// Distance returns the octile cost between two lattice coordinates. It is both the
// step cost between neighbors and the heuristic, and never overestimates.
func Distance(ax, ay, bx, by int) int {
	dx := abs(ax - bx)
	dy := abs(ay - by)
	if dx > dy {
		return DiagonalCost*dy + StraightCost*(dx-dy)
	}
	return DiagonalCost*dx + StraightCost*(dy-dx)
}

// PathCost sums the step costs along a cell chain.
func PathCost(cells []Cell) int {
	total := 0
	for i := 1; i < len(cells); i++ {
		total += Distance(cells[i-1].X, cells[i-1].Y, cells[i].X, cells[i].Y)
	}
	return total
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
