package world

import (
	gmath "github.com/Faultbox/gridpath/pkg/math"
)

// SimplifyPath drops every interior point that sits on a straight run, keeping the
// endpoints and the last point before each change of direction. The polyline
// traced by the result is the same as the input's.
func SimplifyPath(path []gmath.Vec2) []gmath.Vec2 {
	if len(path) <= 2 {
		return path
	}

	simplified := make([]gmath.Vec2, 0, len(path))
	simplified = append(simplified, path[0])

	var oldDirection gmath.Vec2
	for i := 1; i < len(path); i++ {
		newDirection := path[i].Sub(path[i-1]).Normalize()
		// path[0] is already kept; the first segment always "changes" from zero.
		if !newDirection.ApproxEqual(oldDirection) && i > 1 {
			simplified = append(simplified, path[i-1])
		}
		oldDirection = newDirection
	}

	return append(simplified, path[len(path)-1])
}
