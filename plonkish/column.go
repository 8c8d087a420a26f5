// Package plonkish models the slice of a plonkish proving backend that a
// circuit frontend talks to: column/selector allocation, gate registration,
// region-scoped witness assignment, and equality binding of advice cells to
// public instance slots. It also ships an in-memory reference implementation
// of that surface, used for shape derivation and for checking assignments in
// tests.
package plonkish

import "fmt"

type ColumnKind uint8

const (
	Advice ColumnKind = iota
	Instance
)

func (k ColumnKind) String() string {
	switch k {
	case Advice:
		return "advice"
	case Instance:
		return "instance"
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

// Column is a named storage lane spanning all circuit rows. Advice columns
// hold private prover values, instance columns hold public inputs.
type Column struct {
	Kind  ColumnKind
	Index int
}

func (c Column) String() string {
	return fmt.Sprintf("%v[%d]", c.Kind, c.Index)
}

// Selector is a per-row boolean flag gating a gate's identities.
type Selector struct {
	Index int
}

// Rotation is a row offset applied when a gate queries a column.
type Rotation int

const (
	RotPrev Rotation = -1
	RotCur  Rotation = 0
	RotNext Rotation = 1
)

// Query is a (column, rotation) pair referenced by a gate polynomial.
type Query struct {
	Column Column
	At     Rotation
}
