package expr

// similar to gnark frontend/internal/expr/term, but the variable ids index a
// gate's column query list instead of circuit wires

import "github.com/consensys/gnark/constraint"

type Term struct {
	// if QID1 is 0, it means linear term.
	// if both qids are 0, it means constant
	QID0  int
	QID1  int
	Coeff constraint.Element
}

func NewTerm(qID0, qID1 int, coeff constraint.Element) Term {
	if qID0 < qID1 {
		qID0, qID1 = qID1, qID0
	}
	return Term{Coeff: coeff, QID0: qID0, QID1: qID1}
}

func (t *Term) SetCoeff(c constraint.Element) {
	t.Coeff = c
}

func (t Term) HashCode() uint64 {
	x := t.Coeff[0] ^ t.Coeff[1] ^ t.Coeff[2] ^ t.Coeff[3] ^ t.Coeff[4] ^ t.Coeff[5]
	x ^= uint64(t.QID0) * 998244353
	x ^= uint64(t.QID1) * 1000000007
	return x
}

func (t *Term) Degree() int {
	if t.QID0 == 0 {
		return 0
	}
	if t.QID1 == 0 {
		return 1
	}
	return 2
}
