// Package test provides assertion helpers for running compiled circuits
// against witnesses inside Go tests.
package test

import (
	"testing"

	"github.com/consensys/gnark/constraint"
	"github.com/stretchr/testify/require"

	halo2nn "github.com/lazovicff/halo2-nn"
	"github.com/lazovicff/halo2-nn/circuit"
)

type Assert struct {
	t *testing.T
	*require.Assertions
}

func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t, Assertions: require.New(t)}
}

// RunSucceeded synthesizes w and requires the checker to accept it against
// the public output vector.
func (a *Assert) RunSucceeded(cr *halo2nn.CompileResult, w circuit.Witness, public []constraint.Element) {
	a.t.Helper()
	a.NoError(cr.Run(w, public))
}

// RunFailed synthesizes w and requires the checker to reject it. The
// rejection must be an error, never a panic.
func (a *Assert) RunFailed(cr *halo2nn.CompileResult, w circuit.Witness, public []constraint.Element) {
	a.t.Helper()
	a.Error(cr.Run(w, public))
}
