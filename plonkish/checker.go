package plonkish

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark/constraint"
)

// Verification errors.
var (
	ErrUnsatisfied   = errors.New("plonkish: gate not satisfied")
	ErrUnknownValue  = errors.New("plonkish: queried cell has unknown value")
	ErrMissingCell   = errors.New("plonkish: queried cell was never assigned")
	ErrUnboundSlot   = errors.New("plonkish: instance slot not bound")
	ErrInstanceShape = errors.New("plonkish: public input shape mismatch")
	ErrInstanceValue = errors.New("plonkish: bound cell disagrees with public input")
)

// Verify checks a committed assignment against the system's shape and the
// public instance values (one slice per instance column):
//   - every gate polynomial evaluates to zero on every row where the gate's
//     selector is enabled;
//   - every instance slot is bound to exactly one committed cell whose value
//     equals the public value.
//
// It is the in-memory stand-in for the proving backend and follows the same
// all-or-nothing contract: the first violation aborts verification.
func Verify(a *Assignment, public [][]constraint.Element) error {
	cs := a.cs
	fd := cs.Field()

	if len(public) != len(cs.InstanceWidths()) {
		return fmt.Errorf("%w: got %d instance columns, shape has %d",
			ErrInstanceShape, len(public), len(cs.InstanceWidths()))
	}
	for i, width := range cs.InstanceWidths() {
		if len(public[i]) != width {
			return fmt.Errorf("%w: instance column %d has %d values, want %d",
				ErrInstanceShape, i, len(public[i]), width)
		}
	}

	for gi := range cs.Gates() {
		gate := &cs.Gates()[gi]
		rows := a.selectors[gate.Selector.Index]
		for row, ok := rows.NextSet(0); ok; row, ok = rows.NextSet(row + 1) {
			if err := verifyGateAt(a, fd, gate, int(row)); err != nil {
				return err
			}
		}
	}

	for ci := range a.instance {
		for slot := 0; slot < cs.InstanceWidths()[ci]; slot++ {
			b, ok := a.instance[ci][slot]
			if !ok {
				return fmt.Errorf("%w: instance column %d, slot %d", ErrUnboundSlot, ci, slot)
			}
			v, known := b.cell.val.Get()
			if !known {
				return fmt.Errorf("%w: instance column %d, slot %d", ErrUnknownValue, ci, slot)
			}
			if v != public[ci][slot] {
				return fmt.Errorf("%w: instance column %d, slot %d", ErrInstanceValue, ci, slot)
			}
		}
	}

	return nil
}

func verifyGateAt(a *Assignment, fd constraint.Field, gate *Gate, row int) error {
	// resolve the gate's query list on this row once
	vals := make([]constraint.Element, len(gate.Queries))
	for qi, q := range gate.Queries {
		r := row + int(q.At)
		cell, ok := a.Cell(q.Column, r)
		if !ok {
			return fmt.Errorf("%w: gate %q queried %v, row %d", ErrMissingCell, gate.Name, q.Column, r)
		}
		v, known := cell.Get()
		if !known {
			return fmt.Errorf("%w: gate %q queried %v, row %d", ErrUnknownValue, gate.Name, q.Column, r)
		}
		vals[qi] = v
	}
	at := func(q int) constraint.Element { return vals[q-1] }

	var zero constraint.Element
	for pi, poly := range gate.Polys {
		if poly.Evaluate(fd, at) != zero {
			return fmt.Errorf("%w: gate %q, identity %d, row %d", ErrUnsatisfied, gate.Name, pi, row)
		}
	}
	return nil
}
