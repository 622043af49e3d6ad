package component

// Enemy holds the per-archetype stats an instance was created with. The
// Base* fields never change after creation; scaling rewrites the live values
// from them on every spawn.
type Enemy struct {
	Archetype string
	Radius    float64

	BaseHealth int
	BaseDamage int
	BaseSpeed  float64

	Damage int
	Speed  float64
}

var EnemyComponent = NewComponent[Enemy]()
