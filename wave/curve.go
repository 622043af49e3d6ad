package wave

import (
	"slices"

	"github.com/milk9111/hordewave/common"
)

// Curve maps normalized wave time in [0,1] to an income multiplier.
type Curve interface {
	Evaluate(t float64) float64
}

// Flat is a constant curve.
type Flat float64

func (f Flat) Evaluate(float64) float64 { return float64(f) }

type Key struct {
	T float64
	V float64
}

// Keyframes interpolates linearly between keys and holds the end values
// outside them.
type Keyframes struct {
	keys []Key
}

func NewKeyframes(keys ...Key) *Keyframes {
	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, func(a, b Key) int {
		switch {
		case a.T < b.T:
			return -1
		case a.T > b.T:
			return 1
		}
		return 0
	})
	return &Keyframes{keys: sorted}
}

// LinearRamp goes from `from` at t=0 to `to` at t=1.
func LinearRamp(from, to float64) *Keyframes {
	return NewKeyframes(Key{0, from}, Key{1, to})
}

func (k *Keyframes) Evaluate(t float64) float64 {
	if k == nil || len(k.keys) == 0 {
		return 1
	}
	if t <= k.keys[0].T {
		return k.keys[0].V
	}
	last := k.keys[len(k.keys)-1]
	if t >= last.T {
		return last.V
	}
	for i := 1; i < len(k.keys); i++ {
		b := k.keys[i]
		if t > b.T {
			continue
		}
		a := k.keys[i-1]
		span := b.T - a.T
		if span <= 0 {
			return b.V
		}
		return common.Lerp(a.V, b.V, (t-a.T)/span)
	}
	return last.V
}
