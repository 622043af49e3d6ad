package component

// Attacker is the reference actor's automatic area attack.
type Attacker struct {
	Range    float64
	Damage   int
	Interval float64
	Timer    float64
}

var AttackerComponent = NewComponent[Attacker]()

// Contact is enemy touch damage with a per-enemy cooldown.
type Contact struct {
	Cooldown float64
	Timer    float64
}

var ContactComponent = NewComponent[Contact]()
