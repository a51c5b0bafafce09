package model

import (
	"encoding/json"
	"math"
)

// Value is an optional float. An invalid Value means the reading could not be
// computed (warm-up, missing field), which is different from a computed zero.
type Value struct {
	V     float64
	Valid bool
}

// None is the absent Value.
var None = Value{}

// Some wraps a computed float.
func Some(v float64) Value { return Value{V: v, Valid: true} }

// Float returns the wrapped float and whether it is present.
func (v Value) Float() (float64, bool) { return v.V, v.Valid }

// Finite reports whether the value is present and neither NaN nor infinite.
func (v Value) Finite() bool {
	return v.Valid && !math.IsNaN(v.V) && !math.IsInf(v.V, 0)
}

// Or returns the wrapped float when finite, otherwise def.
func (v Value) Or(def float64) float64 {
	if v.Finite() {
		return v.V
	}
	return def
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Finite() {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}
