package component

// DeathLatch makes the death broadcast of one activation fire at most once.
type DeathLatch struct {
	Fired bool
}

var DeathLatchComponent = NewComponent[DeathLatch]()
