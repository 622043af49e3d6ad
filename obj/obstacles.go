package obj

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hordewave/common"
)

const collisionTypeObstacle cp.CollisionType = 1

// DefaultLayer is the category an obstacle gets when none is given.
const DefaultLayer uint = 1

type ObstacleID int

type ObstacleShape int

const (
	ShapeBox ObstacleShape = iota
	ShapeCircle
)

// ObstacleInfo describes one obstacle for drawing and debugging.
type ObstacleInfo struct {
	ID     ObstacleID
	Shape  ObstacleShape
	Bounds common.Rect
	Center common.Vec2
	Radius float64
	Layer  uint
}

type obstacle struct {
	info  ObstacleInfo
	shape *cp.Shape
}

// ObstacleWorld holds static blocking geometry in a Chipmunk space and
// answers spawn overlap queries against it. Obstacles may be added and
// removed at any time between queries.
type ObstacleWorld struct {
	space     *cp.Space
	obstacles map[ObstacleID]*obstacle
	next      ObstacleID
}

func NewObstacleWorld() *ObstacleWorld {
	return &ObstacleWorld{
		space:     cp.NewSpace(),
		obstacles: make(map[ObstacleID]*obstacle),
	}
}

func (ow *ObstacleWorld) add(shape *cp.Shape, info ObstacleInfo) ObstacleID {
	if info.Layer == 0 {
		info.Layer = DefaultLayer
	}
	shape.SetCollisionType(collisionTypeObstacle)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, info.Layer, cp.ALL_CATEGORIES))
	ow.space.AddShape(shape)

	ow.next++
	info.ID = ow.next
	ow.obstacles[info.ID] = &obstacle{info: info, shape: shape}
	return info.ID
}

// AddBox adds an axis-aligned box obstacle.
func (ow *ObstacleWorld) AddBox(r common.Rect, layer uint) ObstacleID {
	if ow == nil {
		return 0
	}
	bb := cp.BB{L: r.Min.X, B: r.Min.Y, R: r.Max.X, T: r.Max.Y}
	shape := cp.NewBox2(ow.space.StaticBody, bb, 0)
	return ow.add(shape, ObstacleInfo{
		Shape:  ShapeBox,
		Bounds: r,
		Center: r.Min.Add(r.Max).Scale(0.5),
		Layer:  layer,
	})
}

// AddCircle adds a round obstacle.
func (ow *ObstacleWorld) AddCircle(center common.Vec2, radius float64, layer uint) ObstacleID {
	if ow == nil {
		return 0
	}
	shape := cp.NewCircle(ow.space.StaticBody, radius, cp.Vector{X: center.X, Y: center.Y})
	return ow.add(shape, ObstacleInfo{
		Shape:  ShapeCircle,
		Bounds: common.Rect{Min: center.Sub(common.V(radius, radius)), Max: center.Add(common.V(radius, radius))},
		Center: center,
		Radius: radius,
		Layer:  layer,
	})
}

func (ow *ObstacleWorld) Remove(id ObstacleID) bool {
	if ow == nil {
		return false
	}
	o, ok := ow.obstacles[id]
	if !ok {
		return false
	}
	ow.space.RemoveShape(o.shape)
	delete(ow.obstacles, id)
	return true
}

func (ow *ObstacleWorld) Clear() {
	if ow == nil {
		return
	}
	for id := range ow.obstacles {
		ow.Remove(id)
	}
}

func (ow *ObstacleWorld) Len() int {
	if ow == nil {
		return 0
	}
	return len(ow.obstacles)
}

// Overlaps reports whether a circle of radius around p touches any obstacle
// whose layer intersects mask.
func (ow *ObstacleWorld) Overlaps(p common.Vec2, radius float64, mask uint) bool {
	if ow == nil || len(ow.obstacles) == 0 {
		return false
	}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, mask)
	info := ow.space.PointQueryNearest(cp.Vector{X: p.X, Y: p.Y}, radius, filter)
	return info.Shape != nil
}

// Obstacles returns a snapshot of every obstacle.
func (ow *ObstacleWorld) Obstacles() []ObstacleInfo {
	if ow == nil {
		return nil
	}
	out := make([]ObstacleInfo, 0, len(ow.obstacles))
	for _, o := range ow.obstacles {
		out = append(out, o.info)
	}
	return out
}
