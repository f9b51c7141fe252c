// Package obstacle answers "is this point blocked" queries for grid rebuilds.
package obstacle

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/Faultbox/gridpath/internal/config"
	"github.com/Faultbox/gridpath/pkg/math"
)

// Obstacle layout errors.
var (
	ErrUnknownShape = errors.New("unknown obstacle shape")
	ErrInvalidShape = errors.New("invalid obstacle dimensions")
)

// Shape kinds accepted in config.
const (
	ShapeCircle  = "circle"
	ShapeBox     = "box"
	ShapeSegment = "segment"
)

// DefaultLayer is assigned to obstacles that do not name a layer.
const DefaultLayer uint = 1

// Func adapts a plain function to the grid's oracle interface.
type Func func(point math.Vec2, radius float32) bool

// IsBlocked calls f.
func (f Func) IsBlocked(point math.Vec2, radius float32) bool {
	return f(point, radius)
}

// Space is a static physics space of obstacle shapes. A point is blocked when any
// shape on a layer selected by the mask lies within the query radius.
type Space struct {
	space  *cp.Space
	filter cp.ShapeFilter
	shapes int
}

// NewSpace builds a space from an obstacle layout. Only obstacles whose layer
// intersects mask block queries.
func NewSpace(obstacles []config.Obstacle, mask uint) (*Space, error) {
	space := cp.NewSpace()

	for i, o := range obstacles {
		shape, err := newShape(space.StaticBody, o)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		layer := o.Layer
		if layer == 0 {
			layer = DefaultLayer
		}
		shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: layer, Mask: cp.ALL_CATEGORIES})
		space.AddShape(shape)
	}

	return &Space{
		space:  space,
		filter: cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: mask},
		shapes: len(obstacles),
	}, nil
}

func newShape(body *cp.Body, o config.Obstacle) (*cp.Shape, error) {
	switch o.Shape {
	case ShapeCircle:
		if o.Radius <= 0 {
			return nil, fmt.Errorf("%w: circle radius %v", ErrInvalidShape, o.Radius)
		}
		return cp.NewCircle(body, float64(o.Radius), vec(o.Center)), nil
	case ShapeBox:
		if o.Max.X <= o.Min.X || o.Max.Y <= o.Min.Y {
			return nil, fmt.Errorf("%w: box min %v max %v", ErrInvalidShape, o.Min, o.Max)
		}
		bb := cp.BB{
			L: float64(o.Min.X),
			B: float64(o.Min.Y),
			R: float64(o.Max.X),
			T: float64(o.Max.Y),
		}
		return cp.NewBox2(body, bb, float64(o.Radius)), nil
	case ShapeSegment:
		if o.From == o.To {
			return nil, fmt.Errorf("%w: zero-length segment at %v", ErrInvalidShape, o.From)
		}
		if o.Radius < 0 {
			return nil, fmt.Errorf("%w: segment radius %v", ErrInvalidShape, o.Radius)
		}
		return cp.NewSegment(body, vec(o.From), vec(o.To), float64(o.Radius)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, o.Shape)
	}
}

// IsBlocked reports whether a circle of radius around point overlaps any shape.
// The bound is exclusive: a shape exactly radius away only touches and does not block.
func (s *Space) IsBlocked(point math.Vec2, radius float32) bool {
	if s == nil || s.shapes == 0 {
		return false
	}
	info := s.space.PointQueryNearest(vec(point), float64(radius), s.filter)
	return info.Shape != nil
}

// Len returns the number of shapes in the space.
func (s *Space) Len() int {
	if s == nil {
		return 0
	}
	return s.shapes
}

func vec(v math.Vec2) cp.Vector {
	return cp.Vector{X: float64(v.X), Y: float64(v.Y)}
}
