package circuit

import (
	"fmt"

	"github.com/consensys/gnark/constraint"

	"github.com/lazovicff/halo2-nn/expr"
	"github.com/lazovicff/halo2-nn/field"
	"github.com/lazovicff/halo2-nn/plonkish"
)

// Config is the static shape of the network circuit: 128 advice columns
// shared by all three layers, one selector per layer, and the public output
// column.
type Config struct {
	NodeColumns    []plonkish.Column
	LayerSelectors [3]plonkish.Selector
	OutputColumn   plonkish.Column
}

// Configure builds the shape as a pure function of the weights. It is called
// once per shape; identical weights yield structurally equal gates on every
// call.
//
// Each gate identity binds the destination cell to the previous layer:
//
//	advice(node_j, cur) - sum_i W[j][i] * advice(node_i, prev) = 0
//
// The prev rotation reaches the previous region's row, which the synthesizer
// guarantees holds the previous layer's values. Returning the weighted sum
// alone would leave the destination cell unconstrained.
func Configure(cs *plonkish.ConstraintSystem, fd field.Field, params Params) (Config, error) {
	if err := ValidateParams(params); err != nil {
		return Config{}, err
	}

	cfg := Config{NodeColumns: make([]plonkish.Column, HiddenSize)}
	for i := range cfg.NodeColumns {
		cfg.NodeColumns[i] = cs.AdviceColumn()
	}
	for i := range cfg.LayerSelectors {
		cfg.LayerSelectors[i] = cs.Selector()
	}
	cfg.OutputColumn = cs.InstanceColumn(OutputSize)

	err := cs.CreateGate("hidden_layer", cfg.LayerSelectors[1], func(v *plonkish.VirtualCells) []expr.Expression {
		return layerIdentities(fd, v, cfg.NodeColumns, params.Layer1Weights())
	})
	if err != nil {
		return Config{}, err
	}

	err = cs.CreateGate("output_layer", cfg.LayerSelectors[2], func(v *plonkish.VirtualCells) []expr.Expression {
		return layerIdentities(fd, v, cfg.NodeColumns, params.Layer2Weights())
	})
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// layerIdentities returns one identity per destination neuron. weights is
// indexed [destination][source]; the source values are queried on the
// previous row, the destination value on the current row.
func layerIdentities(fd field.Field, v *plonkish.VirtualCells, cols []plonkish.Column, weights [][]constraint.Element) []expr.Expression {
	nbSrc := len(weights[0])
	prev := make([]expr.Expression, nbSrc)
	for i := 0; i < nbSrc; i++ {
		prev[i] = v.QueryAdvice(cols[i], plonkish.RotPrev)
	}

	var zero constraint.Element
	identities := make([]expr.Expression, len(weights))
	for j := range weights {
		poly := v.QueryAdvice(cols[j], plonkish.RotCur).Clone()
		for i := 0; i < nbSrc; i++ {
			if weights[j][i] == zero {
				continue
			}
			term := expr.NewTerm(prev[i][0].QID0, 0, fd.Neg(weights[j][i]))
			poly = append(poly, term)
		}
		identities[j] = poly
	}
	return identities
}

// Synthesize assigns the witness into three consecutive single-row regions,
// enables each region's selector, and binds the 10 output cells to the
// instance column, in slot order. Any backend rejection aborts the whole
// synthesis; no partial state survives.
func Synthesize(cfg Config, asg *plonkish.Assignment, w Witness) ([]plonkish.AssignedCell, error) {
	if len(w.Input) != InputSize || len(w.Hidden) != HiddenSize || len(w.Output) != OutputSize {
		return nil, fmt.Errorf("%w: %d/%d/%d values, want %d/%d/%d",
			ErrWitnessSize, len(w.Input), len(w.Hidden), len(w.Output), InputSize, HiddenSize, OutputSize)
	}

	// input layer occupies the first row; columns 10..127 stay unused there
	err := asg.AssignRegion("input_layer", func(r *plonkish.Region) error {
		if err := r.EnableSelector(cfg.LayerSelectors[0]); err != nil {
			return err
		}
		return assignLayer(r, "input", cfg.NodeColumns, w.Input)
	})
	if err != nil {
		return nil, fmt.Errorf("circuit: %w", err)
	}

	// hidden layer reuses all 128 node columns one row below
	err = asg.AssignRegion("hidden_layer", func(r *plonkish.Region) error {
		if err := r.EnableSelector(cfg.LayerSelectors[1]); err != nil {
			return err
		}
		return assignLayer(r, "hidden", cfg.NodeColumns, w.Hidden)
	})
	if err != nil {
		return nil, fmt.Errorf("circuit: %w", err)
	}

	// output layer reuses columns 0..9 on the third row
	var outputs []plonkish.AssignedCell
	err = asg.AssignRegion("output_layer", func(r *plonkish.Region) error {
		if err := r.EnableSelector(cfg.LayerSelectors[2]); err != nil {
			return err
		}
		outputs = nil
		for i, v := range w.Output {
			cell, err := r.AssignAdvice(fmt.Sprintf("output_node_%d", i), cfg.NodeColumns[i], v)
			if err != nil {
				return err
			}
			outputs = append(outputs, cell)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("circuit: %w", err)
	}

	for i, cell := range outputs {
		if err := asg.ConstrainInstance(cell, cfg.OutputColumn, i); err != nil {
			return nil, fmt.Errorf("circuit: output %d: %w", i, err)
		}
	}
	return outputs, nil
}

func assignLayer(r *plonkish.Region, name string, cols []plonkish.Column, vals []plonkish.Value) error {
	for i, v := range vals {
		if _, err := r.AssignAdvice(fmt.Sprintf("%s_node_%d", name, i), cols[i], v); err != nil {
			return err
		}
	}
	return nil
}
