package circuit

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark/constraint"

	"github.com/lazovicff/halo2-nn/field"
	"github.com/lazovicff/halo2-nn/plonkish"
)

var ErrWitnessSize = errors.New("circuit: witness length mismatch")

// Witness carries the values of all three layers for one proof attempt.
// Lengths are fixed by the topology and validated at construction; the
// slices are never resized. An all-Unknown witness (WithoutWitness) is used
// to derive shape without committing real data.
type Witness struct {
	Input  []plonkish.Value
	Hidden []plonkish.Value
	Output []plonkish.Value
}

func NewWitness(input, hidden, output []plonkish.Value) (Witness, error) {
	if len(input) != InputSize {
		return Witness{}, fmt.Errorf("%w: %d input values, want %d", ErrWitnessSize, len(input), InputSize)
	}
	if len(hidden) != HiddenSize {
		return Witness{}, fmt.Errorf("%w: %d hidden values, want %d", ErrWitnessSize, len(hidden), HiddenSize)
	}
	if len(output) != OutputSize {
		return Witness{}, fmt.Errorf("%w: %d output values, want %d", ErrWitnessSize, len(output), OutputSize)
	}
	return Witness{Input: input, Hidden: hidden, Output: output}, nil
}

// WithoutWitness returns the all-Unknown witness.
func WithoutWitness() Witness {
	return Witness{
		Input:  unknowns(InputSize),
		Hidden: unknowns(HiddenSize),
		Output: unknowns(OutputSize),
	}
}

func unknowns(n int) []plonkish.Value {
	vals := make([]plonkish.Value, n)
	for i := range vals {
		vals[i] = plonkish.Unknown()
	}
	return vals
}

// Forward evaluates the network over the field: hidden = W1*input,
// output = W2*hidden. This is the prover-side computation whose result the
// circuit constrains.
func Forward(fd field.Field, p Params, input []constraint.Element) (hidden, output []constraint.Element, err error) {
	if len(input) != InputSize {
		return nil, nil, fmt.Errorf("%w: %d input values, want %d", ErrWitnessSize, len(input), InputSize)
	}
	if err := ValidateParams(p); err != nil {
		return nil, nil, err
	}
	hidden = matVec(fd, p.Layer1Weights(), input)
	output = matVec(fd, p.Layer2Weights(), hidden)
	return hidden, output, nil
}

func matVec(fd field.Field, m [][]constraint.Element, v []constraint.Element) []constraint.Element {
	res := make([]constraint.Element, len(m))
	for j := range m {
		for i := range m[j] {
			res[j] = fd.Add(res[j], fd.Mul(m[j][i], v[i]))
		}
	}
	return res
}

// KnownWitness runs the forward pass and wraps all three layers as known
// values, ready for synthesis.
func KnownWitness(fd field.Field, p Params, input []constraint.Element) (Witness, error) {
	hidden, output, err := Forward(fd, p, input)
	if err != nil {
		return Witness{}, err
	}
	return NewWitness(knowns(input), knowns(hidden), knowns(output))
}

func knowns(vals []constraint.Element) []plonkish.Value {
	res := make([]plonkish.Value, len(vals))
	for i, v := range vals {
		res[i] = plonkish.Known(v)
	}
	return res
}
