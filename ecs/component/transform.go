package component

import "github.com/milk9111/hordewave/common"

type Transform struct {
	Position common.Vec2
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
