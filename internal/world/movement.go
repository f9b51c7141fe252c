package world

import (
	gmath "github.com/Faultbox/gridpath/pkg/math"
)

// ArriveDistance is how close an agent must get to a waypoint to advance.
const ArriveDistance = 0.1

// Follower steers a single agent along pathfinder waypoints at a constant speed.
// Paths are planned once per MoveTo; grid rebuilds do not alter a path in flight.
type Follower struct {
	pathFinder *PathFinder
	position   gmath.Vec2
	speed      float32 // World units per second

	// Current path
	path      []gmath.Vec2
	pathIndex int

	// Movement state
	IsFollowingPath bool
}

// NewFollower creates a follower standing at position.
func NewFollower(pathFinder *PathFinder, position gmath.Vec2, speed float32) *Follower {
	return &Follower{
		pathFinder: pathFinder,
		position:   position,
		speed:      speed,
	}
}

// MoveTo plans a path from the current position to goal.
// Returns the path if one exists, nil otherwise. Without a path the follower holds position.
func (f *Follower) MoveTo(goal gmath.Vec2) []gmath.Vec2 {
	if f.pathFinder == nil {
		return nil
	}

	path := f.pathFinder.FindPath(f.position, goal)
	if len(path) == 0 {
		f.ClearPath()
		return nil
	}

	f.path = path
	f.pathIndex = 0
	// Skip first waypoint if we are already standing on it
	if len(path) > 1 && f.position.Distance(path[0]) < ArriveDistance {
		f.pathIndex = 1
	}
	f.IsFollowingPath = true

	return path
}

// Update advances the agent by dt seconds, never passing the current waypoint
// within a single step.
func (f *Follower) Update(dt float32) {
	if !f.IsFollowingPath || dt <= 0 {
		return
	}

	target := f.path[f.pathIndex]
	f.position = f.position.MoveTowards(target, f.speed*dt)

	if f.position.Distance(target) < ArriveDistance {
		f.pathIndex++
		if f.pathIndex >= len(f.path) {
			f.IsFollowingPath = false
		}
	}
}

// ClearPath stops the current path following.
func (f *Follower) ClearPath() {
	f.path = nil
	f.pathIndex = 0
	f.IsFollowingPath = false
}

// Position returns the agent's world position.
func (f *Follower) Position() gmath.Vec2 {
	return f.position
}

// Path returns the current path.
func (f *Follower) Path() []gmath.Vec2 {
	return f.path
}

// PathIndex returns the index of the waypoint being approached.
func (f *Follower) PathIndex() int {
	return f.pathIndex
}
