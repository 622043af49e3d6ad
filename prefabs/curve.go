package prefabs

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/hordewave/wave"
)

// ScriptCurve evaluates a tengo script per sample. The script reads `t` in
// [0,1] and assigns the multiplier to `value`.
type ScriptCurve struct {
	name     string
	compiled *tengo.Compiled
	failed   bool
}

func NewScriptCurve(name string, src []byte) (*ScriptCurve, error) {
	script := tengo.NewScript(src)
	if err := script.Add("t", 0.0); err != nil {
		return nil, fmt.Errorf("prefabs: curve %s: %w", name, err)
	}
	if err := script.Add("value", 1.0); err != nil {
		return nil, fmt.Errorf("prefabs: curve %s: %w", name, err)
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile curve %s: %w", name, err)
	}
	return &ScriptCurve{name: name, compiled: compiled}, nil
}

// LoadScriptCurve compiles a curve from the scripts directory.
func LoadScriptCurve(name string) (*ScriptCurve, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	return NewScriptCurve(name, src)
}

// Evaluate runs the script at t. Runtime errors are logged the first time
// and evaluate to 1.
func (c *ScriptCurve) Evaluate(t float64) float64 {
	if c == nil || c.compiled == nil {
		return 1
	}
	if err := c.compiled.Set("t", t); err != nil {
		return c.fail(err)
	}
	if err := c.compiled.Run(); err != nil {
		return c.fail(err)
	}
	v := c.compiled.Get("value")
	if v == nil || v.IsUndefined() {
		return c.fail(fmt.Errorf("value is undefined"))
	}
	return v.Float()
}

func (c *ScriptCurve) fail(err error) float64 {
	if !c.failed {
		c.failed = true
		log.Printf("prefabs: curve %s: %v", c.name, err)
	}
	return 1
}

func buildCurve(spec CurveSpec) (wave.Curve, error) {
	if spec.Script != "" {
		c, err := LoadScriptCurve(spec.Script)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	if len(spec.Keys) == 0 {
		return nil, nil
	}
	keys := make([]wave.Key, 0, len(spec.Keys))
	for _, k := range spec.Keys {
		keys = append(keys, wave.Key{T: k.T, V: k.V})
	}
	return wave.NewKeyframes(keys...), nil
}
