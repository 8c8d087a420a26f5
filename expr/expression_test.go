package expr

import (
	"sort"
	"testing"

	"github.com/consensys/gnark/constraint"
	"github.com/stretchr/testify/require"

	"github.com/lazovicff/halo2-nn/field/bn254"
)

func TestTermDegree(t *testing.T) {
	fd := &bn254.Field{}
	c := NewTerm(0, 0, fd.One())
	require.Equal(t, 0, c.Degree())
	l := NewTerm(3, 0, fd.One())
	require.Equal(t, 1, l.Degree())
	q := NewTerm(3, 5, fd.One())
	require.Equal(t, 2, q.Degree())
	// NewTerm orders the ids
	require.Equal(t, 5, q.QID0)
	require.Equal(t, 3, q.QID1)
}

func TestExpressionEqual(t *testing.T) {
	fd := &bn254.Field{}
	two := fd.FromInterface(2)
	three := fd.FromInterface(3)

	a := Expression{NewTerm(1, 0, two), NewTerm(2, 0, three)}
	b := Expression{NewTerm(2, 0, three), NewTerm(1, 0, two)}
	sort.Sort(a)
	sort.Sort(b)
	require.True(t, a.Equal(b))
	require.Equal(t, a.HashCode(), b.HashCode())

	c := Expression{NewTerm(1, 0, three), NewTerm(2, 0, three)}
	sort.Sort(c)
	require.False(t, a.Equal(c))
}

func TestExpressionDegree(t *testing.T) {
	fd := &bn254.Field{}
	e := NewLinear(1, fd.One())
	require.Equal(t, 1, e.Degree())
	require.False(t, e.IsConstant())

	e = append(e, NewTerm(2, 3, fd.One()))
	require.Equal(t, 2, e.Degree())

	k := NewConstant(fd.One())
	require.Equal(t, 0, k.Degree())
	require.True(t, k.IsConstant())
}

func TestEvaluate(t *testing.T) {
	fd := &bn254.Field{}
	vals := []constraint.Element{fd.FromInterface(5), fd.FromInterface(7)}
	at := func(q int) constraint.Element { return vals[q-1] }

	// 2*q1 + 3*q1*q2 + 4 = 10 + 105 + 4 = 119
	e := Expression{
		NewTerm(1, 0, fd.FromInterface(2)),
		NewTerm(1, 2, fd.FromInterface(3)),
		NewTerm(0, 0, fd.FromInterface(4)),
	}
	sort.Sort(e)
	got := e.Evaluate(fd, at)
	require.Equal(t, fd.FromInterface(119), got)
}
