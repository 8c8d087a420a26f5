// Package field abstracts the scalar field all circuit arithmetic happens in.
// The whole system is parametric in the field; it must match the scalar field
// of the proof backend, and weight constants are reduced into it before any
// shape is built.
package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint"
	"github.com/lazovicff/halo2-nn/field/bn254"
)

type Field interface {
	constraint.Field
	Field() *big.Int
	FieldBitLen() int
}

func GetFieldFromOrder(x *big.Int) Field {
	if x.Cmp(bn254.ScalarField) == 0 {
		return &bn254.Field{}
	}
	panic(fmt.Sprintf("unknown field %v", x))
}
