// Package halo2nn proves knowledge of a forward pass through a fixed
// 10-128-10 feedforward network: the prover knows the input and hidden
// activations, the verifier learns only the 10 declared outputs. The weight
// matrices are compiled into the circuit shape; the witness is synthesized
// per proof attempt.
package halo2nn

import (
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/logger"

	"github.com/lazovicff/halo2-nn/circuit"
	"github.com/lazovicff/halo2-nn/field"
	"github.com/lazovicff/halo2-nn/plonkish"
)

// CompileResult is a reusable shape: the constraint system and circuit
// config built once for one weight set. It is read-only after Compile and
// safe to share across concurrent syntheses.
type CompileResult struct {
	fd     field.Field
	cs     *plonkish.ConstraintSystem
	config circuit.Config
}

// Compile derives the circuit shape from the given weights.
func Compile(fd field.Field, params circuit.Params) (*CompileResult, error) {
	cs := plonkish.NewConstraintSystem(fd)
	cfg, err := circuit.Configure(cs, fd, params)
	if err != nil {
		return nil, err
	}
	log := logger.Logger()
	log.Debug().
		Int("nbAdvice", cs.NbAdviceColumns()).
		Int("nbSelectors", cs.NbSelectors()).
		Int("nbGates", len(cs.Gates())).
		Msg("configured circuit")
	return &CompileResult{fd: fd, cs: cs, config: cfg}, nil
}

func (cr *CompileResult) Field() field.Field { return cr.fd }

func (cr *CompileResult) ConstraintSystem() *plonkish.ConstraintSystem { return cr.cs }

func (cr *CompileResult) Config() circuit.Config { return cr.config }

// Synthesize commits the witness into a fresh assignment. Each call owns its
// assignment, so independent proof attempts may run on separate goroutines.
func (cr *CompileResult) Synthesize(w circuit.Witness) (*plonkish.Assignment, error) {
	asg := plonkish.NewAssignment(cr.cs)
	if _, err := circuit.Synthesize(cr.config, asg, w); err != nil {
		return nil, err
	}
	return asg, nil
}

// Run synthesizes the witness and checks it against the public output
// vector. It either fully succeeds or reports the first violation.
func (cr *CompileResult) Run(w circuit.Witness, public []constraint.Element) error {
	asg, err := cr.Synthesize(w)
	if err != nil {
		return err
	}
	return plonkish.Verify(asg, [][]constraint.Element{public})
}

// Shape serializes the static shape for key-generation tooling. The
// all-Unknown witness is synthesized first to make sure the layout itself is
// sound without committing real data.
func (cr *CompileResult) Shape() ([]byte, error) {
	if _, err := cr.Synthesize(circuit.WithoutWitness()); err != nil {
		return nil, err
	}
	return plonkish.SerializeShape(cr.cs)
}

// ShapeOf is the one-call form of Compile followed by Shape.
func ShapeOf(fd field.Field, params circuit.Params) ([]byte, error) {
	cr, err := Compile(fd, params)
	if err != nil {
		return nil, err
	}
	return cr.Shape()
}
