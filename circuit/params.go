// Package circuit encodes the forward pass of a fixed 10-128-10 feedforward
// network as a plonkish circuit: 128 shared advice columns reused by three
// single-row regions (input, hidden, output), two weighted-sum gates derived
// from the weight matrices, and the 10 output cells bound to a public
// instance column.
package circuit

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark/constraint"

	"github.com/lazovicff/halo2-nn/field"
)

// Layer sizes of the network topology. The topology is fixed; only the
// weight values vary between models.
const (
	InputSize  = 10
	HiddenSize = 128
	OutputSize = 10
)

var ErrParamsShape = errors.New("circuit: weight matrix has wrong dimensions")

// Params supplies the two fixed weight matrices of a trained model. Both
// accessors must be pure and deterministic, and every entry must already be
// reduced into the circuit's scalar field. Different models are different
// Params values plugged into the same circuit template; each yields a
// structurally identical shape with different gate coefficients.
type Params interface {
	// Layer1Weights is the input->hidden matrix, HiddenSize x InputSize.
	Layer1Weights() [][]constraint.Element
	// Layer2Weights is the hidden->output matrix, OutputSize x HiddenSize.
	Layer2Weights() [][]constraint.Element
}

// ValidateParams checks the matrix dimensions once, before any shape is
// derived from them.
func ValidateParams(p Params) error {
	if err := checkMatrix(p.Layer1Weights(), HiddenSize, InputSize); err != nil {
		return fmt.Errorf("layer 1: %w", err)
	}
	if err := checkMatrix(p.Layer2Weights(), OutputSize, HiddenSize); err != nil {
		return fmt.Errorf("layer 2: %w", err)
	}
	return nil
}

func checkMatrix(m [][]constraint.Element, rows, cols int) error {
	if len(m) != rows {
		return fmt.Errorf("%w: %d rows, want %d", ErrParamsShape, len(m), rows)
	}
	for i := range m {
		if len(m[i]) != cols {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrParamsShape, i, len(m[i]), cols)
		}
	}
	return nil
}

// MatrixParams is the standard Params implementation: two in-memory
// matrices reduced into the field at construction.
type MatrixParams struct {
	w1 [][]constraint.Element
	w2 [][]constraint.Element
}

// NewMatrixParams builds a provider from raw matrix entries. Entries can be
// anything the field converts (ints, strings, big.Int, fr elements); they
// are reduced immediately so the provider hands out field elements only.
func NewMatrixParams(fd field.Field, layer1, layer2 [][]interface{}) (*MatrixParams, error) {
	p := &MatrixParams{
		w1: reduceMatrix(fd, layer1),
		w2: reduceMatrix(fd, layer2),
	}
	if err := ValidateParams(p); err != nil {
		return nil, err
	}
	return p, nil
}

func reduceMatrix(fd field.Field, m [][]interface{}) [][]constraint.Element {
	res := make([][]constraint.Element, len(m))
	for i := range m {
		res[i] = make([]constraint.Element, len(m[i]))
		for j := range m[i] {
			res[i][j] = fd.FromInterface(m[i][j])
		}
	}
	return res
}

func (p *MatrixParams) Layer1Weights() [][]constraint.Element { return p.w1 }
func (p *MatrixParams) Layer2Weights() [][]constraint.Element { return p.w2 }

// IdentityParams is the pass-through model: hidden[i] = input[i] for i < 10
// (the remaining hidden neurons are zero) and output[i] = hidden[i]. Useful
// as a known-answer model in tests and examples.
func IdentityParams(fd field.Field) *MatrixParams {
	one := fd.One()
	w1 := make([][]constraint.Element, HiddenSize)
	for j := range w1 {
		w1[j] = make([]constraint.Element, InputSize)
		if j < InputSize {
			w1[j][j] = one
		}
	}
	w2 := make([][]constraint.Element, OutputSize)
	for j := range w2 {
		w2[j] = make([]constraint.Element, HiddenSize)
		w2[j][j] = one
	}
	return &MatrixParams{w1: w1, w2: w2}
}
