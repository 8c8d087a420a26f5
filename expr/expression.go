// Package expr implements gate polynomials as sums of terms over column
// queries, based on gnark frontend/internal/expr.
//
// A term's query ids refer to the query list of the gate that owns the
// expression; id 0 is the constant slot. Expressions are kept sorted so two
// gates can be compared structurally (shape equality).
package expr

import (
	"github.com/consensys/gnark/constraint"
)

type Expression []Term

// NewConstant returns c
func NewConstant(c constraint.Element) Expression {
	return Expression{NewTerm(0, 0, c)}
}

// NewLinear returns c * q
func NewLinear(q int, c constraint.Element) Expression {
	return Expression{NewTerm(q, 0, c)}
}

// NewQuadratic returns c * q0 * q1
func NewQuadratic(q0, q1 int, c constraint.Element) Expression {
	return Expression{NewTerm(q0, q1, c)}
}

func (e Expression) Clone() Expression {
	res := make(Expression, len(e))
	copy(res, e)
	return res
}

// Len returns the number of terms (implements Sort interface)
func (e Expression) Len() int {
	return len(e)
}

// Equal returns true if both SORTED expressions are the same
//
// pre conditions: e and o are sorted
func (e Expression) Equal(o Expression) bool {
	if len(e) != len(o) {
		return false
	}
	if (e == nil) != (o == nil) {
		return false
	}
	for i := 0; i < len(e); i++ {
		if e[i] != o[i] {
			return false
		}
	}
	return true
}

// Swap swaps two terms (implements Sort interface)
func (e Expression) Swap(i, j int) {
	e[i], e[j] = e[j], e[i]
}

// Less orders terms by query ids (implements Sort interface)
func (e Expression) Less(i, j int) bool {
	if e[i].QID0 != e[j].QID0 {
		return e[i].QID0 < e[j].QID0
	}
	return e[i].QID1 < e[j].QID1
}

// HashCode returns a fast-to-compute but NOT collision resistant hash code
// identifier for the expression
//
// requires sorted
func (e Expression) HashCode() uint64 {
	h := uint64(17)
	for _, val := range e {
		h = h*23 + val.HashCode()
	}
	return h
}

// Degree returns the degree of the polynomial
func (e Expression) Degree() int {
	res := 0
	for _, val := range e {
		deg := val.Degree()
		if deg == 2 {
			return 2
		}
		if deg > res {
			res = deg
		}
	}
	return res
}

func (e Expression) IsConstant() bool {
	for _, term := range e {
		if term.QID0 != 0 {
			return false
		}
		if term.QID1 != 0 {
			return false
		}
	}
	return true
}

// Evaluate computes the expression over concrete query values. at(q) must
// return the value of query q for q >= 1.
func (e Expression) Evaluate(f constraint.Field, at func(q int) constraint.Element) constraint.Element {
	var res constraint.Element
	for _, term := range e {
		v := term.Coeff
		if term.QID0 != 0 {
			v = f.Mul(v, at(term.QID0))
		}
		if term.QID1 != 0 {
			v = f.Mul(v, at(term.QID1))
		}
		res = f.Add(res, v)
	}
	return res
}
