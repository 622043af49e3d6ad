package component

// PlayerTag marks the reference actor spawns are kept away from.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// BossTag marks enemies spawned through the boss path.
type BossTag struct{}

var BossTagComponent = NewComponent[BossTag]()

// Active is present while an enemy is out of the pool. Pooled instances keep
// their other components but lose this tag, so every gameplay system filters
// on it.
type Active struct{}

var ActiveComponent = NewComponent[Active]()
