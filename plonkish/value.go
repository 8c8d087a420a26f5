package plonkish

import "github.com/consensys/gnark/constraint"

// Value is a witness value that is either a known field element or unknown.
// Unknown values exist so that a circuit can be synthesized without a
// concrete instance (key generation); no arithmetic is ever performed on
// them.
type Value struct {
	known bool
	v     constraint.Element
}

func Known(v constraint.Element) Value {
	return Value{known: true, v: v}
}

func Unknown() Value {
	return Value{}
}

func (v Value) IsKnown() bool {
	return v.known
}

// Get returns the underlying element; ok is false for unknown values.
func (v Value) Get() (constraint.Element, bool) {
	return v.v, v.known
}
