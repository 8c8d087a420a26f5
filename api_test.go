package halo2nn_test

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"

	halo2nn "github.com/lazovicff/halo2-nn"
	"github.com/lazovicff/halo2-nn/circuit"
	"github.com/lazovicff/halo2-nn/field"
	"github.com/lazovicff/halo2-nn/test"
)

func TestCompileAndRun(t *testing.T) {
	assert := test.NewAssert(t)
	fd := field.GetFieldFromOrder(ecc.BN254.ScalarField())
	params := circuit.IdentityParams(fd)

	cr, err := halo2nn.Compile(fd, params)
	assert.NoError(err)

	input := make([]constraint.Element, circuit.InputSize)
	input[0] = fd.One()
	w, err := circuit.KnownWitness(fd, params, input)
	assert.NoError(err)
	_, output, err := circuit.Forward(fd, params, input)
	assert.NoError(err)

	assert.RunSucceeded(cr, w, output)

	// a public vector the witness does not produce must be rejected
	wrong := append([]constraint.Element{}, output...)
	wrong[9] = fd.One()
	assert.RunFailed(cr, w, wrong)
}

func TestShapeOf(t *testing.T) {
	assert := test.NewAssert(t)
	fd := field.GetFieldFromOrder(ecc.BN254.ScalarField())

	s1, err := halo2nn.ShapeOf(fd, circuit.IdentityParams(fd))
	assert.NoError(err)
	s2, err := halo2nn.ShapeOf(fd, circuit.IdentityParams(fd))
	assert.NoError(err)
	assert.Equal(s1, s2)
	assert.NotEmpty(s1)
}
