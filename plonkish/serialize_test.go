package plonkish

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lazovicff/halo2-nn/expr"
	"github.com/lazovicff/halo2-nn/field"
	"github.com/lazovicff/halo2-nn/field/bn254"
)

func buildLinearSystem(t *testing.T, fd field.Field, coeff int) *ConstraintSystem {
	t.Helper()
	cs := NewConstraintSystem(fd)
	a := cs.AdviceColumn()
	b := cs.AdviceColumn()
	sel := cs.Selector()
	cs.InstanceColumn(1)
	err := cs.CreateGate("lin", sel, func(v *VirtualCells) []expr.Expression {
		poly := v.QueryAdvice(b, RotCur).Clone()
		qa := v.QueryAdvice(a, RotCur)
		poly = append(poly, expr.NewTerm(qa[0].QID0, 0, fd.Neg(fd.FromInterface(coeff))))
		return []expr.Expression{poly}
	})
	require.NoError(t, err)
	return cs
}

func TestSerializeShapeDeterministic(t *testing.T) {
	fd := &bn254.Field{}
	s1, err := SerializeShape(buildLinearSystem(t, fd, 7))
	require.NoError(t, err)
	s2, err := SerializeShape(buildLinearSystem(t, fd, 7))
	require.NoError(t, err)
	require.Equal(t, s1, s2)
}

func TestSerializeShapeCoefficients(t *testing.T) {
	// same structure, different gate coefficients: shapes must differ
	fd := &bn254.Field{}
	s1, err := SerializeShape(buildLinearSystem(t, fd, 7))
	require.NoError(t, err)
	s2, err := SerializeShape(buildLinearSystem(t, fd, 8))
	require.NoError(t, err)
	require.NotEqual(t, s1, s2)
}
