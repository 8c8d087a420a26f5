package circuit_test

import (
	"math/rand"
	"testing"

	"github.com/consensys/gnark/constraint"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	halo2nn "github.com/lazovicff/halo2-nn"
	"github.com/lazovicff/halo2-nn/circuit"
	"github.com/lazovicff/halo2-nn/field"
	"github.com/lazovicff/halo2-nn/field/bn254"
	"github.com/lazovicff/halo2-nn/plonkish"
)

func randomMatrix(rng *rand.Rand, rows, cols int) [][]interface{} {
	m := make([][]interface{}, rows)
	for j := range m {
		m[j] = make([]interface{}, cols)
		for i := range m[j] {
			m[j][i] = rng.Int63()
		}
	}
	return m
}

func randomParams(t require.TestingT, fd field.Field, rng *rand.Rand) *circuit.MatrixParams {
	p, err := circuit.NewMatrixParams(fd,
		randomMatrix(rng, circuit.HiddenSize, circuit.InputSize),
		randomMatrix(rng, circuit.OutputSize, circuit.HiddenSize),
	)
	require.NoError(t, err)
	return p
}

func randomVector(fd field.Field, rng *rand.Rand, n int) []constraint.Element {
	v := make([]constraint.Element, n)
	for i := range v {
		v[i] = fd.FromInterface(rng.Int63())
	}
	return v
}

func unitInput(fd field.Field) []constraint.Element {
	input := make([]constraint.Element, circuit.InputSize)
	input[0] = fd.One()
	return input
}

// The pass-through model: input [1,0,...,0] must propagate unchanged through
// both layers and end up bound as the public output.
func TestIdentityScenario(t *testing.T) {
	fd := &bn254.Field{}
	params := circuit.IdentityParams(fd)
	input := unitInput(fd)

	hidden, output, err := circuit.Forward(fd, params, input)
	require.NoError(t, err)
	require.Equal(t, fd.One(), hidden[0])
	for i := 1; i < circuit.HiddenSize; i++ {
		require.Equal(t, constraint.Element{}, hidden[i])
	}
	require.Equal(t, fd.One(), output[0])
	for i := 1; i < circuit.OutputSize; i++ {
		require.Equal(t, constraint.Element{}, output[i])
	}

	cr, err := halo2nn.Compile(fd, params)
	require.NoError(t, err)
	w, err := circuit.KnownWitness(fd, params, input)
	require.NoError(t, err)
	require.NoError(t, cr.Run(w, output))
}

// All-zero input zeroes both layers whatever the weights are.
func TestZeroInput(t *testing.T) {
	fd := &bn254.Field{}
	rng := rand.New(rand.NewSource(42))
	params := randomParams(t, fd, rng)
	input := make([]constraint.Element, circuit.InputSize)

	_, output, err := circuit.Forward(fd, params, input)
	require.NoError(t, err)
	for _, v := range output {
		require.Equal(t, constraint.Element{}, v)
	}

	cr, err := halo2nn.Compile(fd, params)
	require.NoError(t, err)
	w, err := circuit.KnownWitness(fd, params, input)
	require.NoError(t, err)
	require.NoError(t, cr.Run(w, output))
}

func TestForwardPassProperty(t *testing.T) {
	fd := &bn254.Field{}
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)
	properties.Property("forward-pass witness satisfies the circuit", prop.ForAll(
		func(seed int64) bool {
			rng := rand.New(rand.NewSource(seed))
			params := randomParams(t, fd, rng)
			input := randomVector(fd, rng, circuit.InputSize)

			cr, err := halo2nn.Compile(fd, params)
			if err != nil {
				return false
			}
			w, err := circuit.KnownWitness(fd, params, input)
			if err != nil {
				return false
			}
			_, output, err := circuit.Forward(fd, params, input)
			if err != nil {
				return false
			}
			return cr.Run(w, output) == nil
		},
		gen.Int64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// A witness computed under the old weights must violate a gate of the new
// shape, as an error, never a crash.
func TestPerturbedWeight(t *testing.T) {
	fd := &bn254.Field{}
	rng := rand.New(rand.NewSource(7))
	params := randomParams(t, fd, rng)
	input := randomVector(fd, rng, circuit.InputSize)

	w, err := circuit.KnownWitness(fd, params, input)
	require.NoError(t, err)
	_, output, err := circuit.Forward(fd, params, input)
	require.NoError(t, err)

	w1 := rawMatrix(fd, params.Layer1Weights())
	w1[3][5] = fd.ToBigInt(fd.Add(params.Layer1Weights()[3][5], fd.One()))
	perturbed, err := circuit.NewMatrixParams(fd, w1, rawMatrix(fd, params.Layer2Weights()))
	require.NoError(t, err)

	cr, err := halo2nn.Compile(fd, perturbed)
	require.NoError(t, err)
	err = cr.Run(w, output)
	require.ErrorIs(t, err, plonkish.ErrUnsatisfied)
}

// Binding probe: a declared output that is not the weighted sum of the
// hidden layer must be rejected even when the public vector agrees with it.
func TestTamperedOutputRejected(t *testing.T) {
	fd := &bn254.Field{}
	rng := rand.New(rand.NewSource(11))
	params := randomParams(t, fd, rng)
	input := randomVector(fd, rng, circuit.InputSize)

	cr, err := halo2nn.Compile(fd, params)
	require.NoError(t, err)
	hidden, output, err := circuit.Forward(fd, params, input)
	require.NoError(t, err)

	tampered := fd.Add(output[0], fd.One())
	outVals := append([]constraint.Element{tampered}, output[1:]...)
	w, err := circuit.NewWitness(knownVals(input), knownVals(hidden), knownVals(outVals))
	require.NoError(t, err)

	err = cr.Run(w, outVals)
	require.ErrorIs(t, err, plonkish.ErrUnsatisfied)
}

// Same probe one layer down: a hidden activation off by one violates both
// the hidden gate and the output gate.
func TestTamperedHiddenRejected(t *testing.T) {
	fd := &bn254.Field{}
	rng := rand.New(rand.NewSource(13))
	params := randomParams(t, fd, rng)
	input := randomVector(fd, rng, circuit.InputSize)

	cr, err := halo2nn.Compile(fd, params)
	require.NoError(t, err)
	hidden, output, err := circuit.Forward(fd, params, input)
	require.NoError(t, err)

	hidden[64] = fd.Add(hidden[64], fd.One())
	w, err := circuit.NewWitness(knownVals(input), knownVals(hidden), knownVals(output))
	require.NoError(t, err)

	err = cr.Run(w, output)
	require.ErrorIs(t, err, plonkish.ErrUnsatisfied)
}

func rawMatrix(fd field.Field, m [][]constraint.Element) [][]interface{} {
	res := make([][]interface{}, len(m))
	for j := range m {
		res[j] = make([]interface{}, len(m[j]))
		for i := range m[j] {
			res[j][i] = fd.ToBigInt(m[j][i])
		}
	}
	return res
}

func knownVals(vals []constraint.Element) []plonkish.Value {
	res := make([]plonkish.Value, len(vals))
	for i, v := range vals {
		res[i] = plonkish.Known(v)
	}
	return res
}

// Shape built from the all-Unknown witness must be identical to the shape a
// concrete witness is synthesized against.
func TestShapeIndependentOfWitness(t *testing.T) {
	fd := &bn254.Field{}
	rng := rand.New(rand.NewSource(5))
	params := randomParams(t, fd, rng)
	input := randomVector(fd, rng, circuit.InputSize)

	keygen, err := halo2nn.ShapeOf(fd, params)
	require.NoError(t, err)

	cr, err := halo2nn.Compile(fd, params)
	require.NoError(t, err)
	w, err := circuit.KnownWitness(fd, params, input)
	require.NoError(t, err)
	_, err = cr.Synthesize(w)
	require.NoError(t, err)
	concrete, err := plonkish.SerializeShape(cr.ConstraintSystem())
	require.NoError(t, err)

	require.Equal(t, keygen, concrete)
}

func TestRepeatedSynthesisDeterministic(t *testing.T) {
	fd := &bn254.Field{}
	rng := rand.New(rand.NewSource(21))
	params := randomParams(t, fd, rng)
	input := randomVector(fd, rng, circuit.InputSize)

	cr, err := halo2nn.Compile(fd, params)
	require.NoError(t, err)
	w, err := circuit.KnownWitness(fd, params, input)
	require.NoError(t, err)

	asg1 := plonkish.NewAssignment(cr.ConstraintSystem())
	out1, err := circuit.Synthesize(cr.Config(), asg1, w)
	require.NoError(t, err)
	asg2 := plonkish.NewAssignment(cr.ConstraintSystem())
	out2, err := circuit.Synthesize(cr.Config(), asg2, w)
	require.NoError(t, err)

	require.Len(t, out1, circuit.OutputSize)
	require.Equal(t, out1, out2)

	_, output, err := circuit.Forward(fd, params, input)
	require.NoError(t, err)
	require.NoError(t, plonkish.Verify(asg1, [][]constraint.Element{output}))
	require.NoError(t, plonkish.Verify(asg2, [][]constraint.Element{output}))
}

// One shape, many provers: concurrent syntheses each own their assignment
// and never share mutable layout state.
func TestParallelSynthesis(t *testing.T) {
	fd := &bn254.Field{}
	rng := rand.New(rand.NewSource(33))
	params := randomParams(t, fd, rng)

	cr, err := halo2nn.Compile(fd, params)
	require.NoError(t, err)

	var g errgroup.Group
	for k := 0; k < 8; k++ {
		input := randomVector(fd, rng, circuit.InputSize)
		g.Go(func() error {
			w, err := circuit.KnownWitness(fd, params, input)
			if err != nil {
				return err
			}
			_, output, err := circuit.Forward(fd, params, input)
			if err != nil {
				return err
			}
			return cr.Run(w, output)
		})
	}
	require.NoError(t, g.Wait())
}

func TestWitnessLengthValidation(t *testing.T) {
	fd := &bn254.Field{}
	_, err := circuit.NewWitness(
		make([]plonkish.Value, circuit.InputSize-1),
		make([]plonkish.Value, circuit.HiddenSize),
		make([]plonkish.Value, circuit.OutputSize),
	)
	require.ErrorIs(t, err, circuit.ErrWitnessSize)

	_, _, err = circuit.Forward(fd, circuit.IdentityParams(fd), make([]constraint.Element, 3))
	require.ErrorIs(t, err, circuit.ErrWitnessSize)
}

func TestParamsValidation(t *testing.T) {
	fd := &bn254.Field{}
	_, err := circuit.NewMatrixParams(fd,
		randomMatrix(rand.New(rand.NewSource(1)), circuit.HiddenSize-1, circuit.InputSize),
		randomMatrix(rand.New(rand.NewSource(2)), circuit.OutputSize, circuit.HiddenSize),
	)
	require.ErrorIs(t, err, circuit.ErrParamsShape)
}
