package plonkish

import (
	"errors"
	"fmt"
	"sort"

	"github.com/consensys/gnark/constraint"

	"github.com/lazovicff/halo2-nn/expr"
	"github.com/lazovicff/halo2-nn/field"
)

// Shape/configuration errors. These are programmer errors: a circuit whose
// configure step trips one of them is malformed and there is nothing to
// retry.
var (
	ErrUnknownColumn   = errors.New("plonkish: column not allocated by this system")
	ErrUnknownSelector = errors.New("plonkish: selector not allocated by this system")
	ErrEmptyGate       = errors.New("plonkish: gate has no polynomials")
	ErrNotAdvice       = errors.New("plonkish: not an advice column")
	ErrNotInstance     = errors.New("plonkish: not an instance column")
)

// Gate is a named set of polynomial identities over a query list, required
// to vanish on every row where its guarding selector is enabled.
type Gate struct {
	Name     string
	Selector Selector
	Queries  []Query
	Polys    []expr.Expression
}

// ConstraintSystem is the static shape of a circuit: allocated columns and
// selectors plus the registered gates. It is built once per circuit and is
// read-only afterwards, so it can be shared across concurrent syntheses.
type ConstraintSystem struct {
	fd field.Field

	nbAdvice    int
	nbSelectors int
	instance    []int // width per instance column
	gates       []Gate
}

func NewConstraintSystem(fd field.Field) *ConstraintSystem {
	return &ConstraintSystem{fd: fd}
}

func (cs *ConstraintSystem) Field() field.Field {
	return cs.fd
}

// AdviceColumn allocates a new advice column.
func (cs *ConstraintSystem) AdviceColumn() Column {
	cs.nbAdvice++
	return Column{Kind: Advice, Index: cs.nbAdvice - 1}
}

// InstanceColumn allocates a new instance column holding width public slots.
func (cs *ConstraintSystem) InstanceColumn(width int) Column {
	if width <= 0 {
		panic("plonkish: instance column width must be positive")
	}
	cs.instance = append(cs.instance, width)
	return Column{Kind: Instance, Index: len(cs.instance) - 1}
}

// Selector allocates a new selector.
func (cs *ConstraintSystem) Selector() Selector {
	cs.nbSelectors++
	return Selector{Index: cs.nbSelectors - 1}
}

func (cs *ConstraintSystem) NbAdviceColumns() int  { return cs.nbAdvice }
func (cs *ConstraintSystem) NbSelectors() int      { return cs.nbSelectors }
func (cs *ConstraintSystem) InstanceWidths() []int { return cs.instance }
func (cs *ConstraintSystem) Gates() []Gate         { return cs.gates }

// VirtualCells hands out query ids while a gate is being built. Query ids
// are 1-based; id 0 is the constant slot of expr terms. Querying the same
// (column, rotation) twice returns the same id.
type VirtualCells struct {
	cs      *ConstraintSystem
	queries []Query
	seen    map[Query]int
	err     error
}

// QueryAdvice returns the expression 1 * advice(col, at).
func (v *VirtualCells) QueryAdvice(col Column, at Rotation) expr.Expression {
	q := Query{Column: col, At: at}
	if id, ok := v.seen[q]; ok {
		return expr.NewLinear(id, v.cs.fd.One())
	}
	if col.Kind != Advice {
		v.fail(fmt.Errorf("%w: queried %v", ErrNotAdvice, col))
	} else if col.Index >= v.cs.nbAdvice {
		v.fail(fmt.Errorf("%w: queried %v", ErrUnknownColumn, col))
	}
	v.queries = append(v.queries, q)
	id := len(v.queries)
	v.seen[q] = id
	return expr.NewLinear(id, v.cs.fd.One())
}

// Constant returns the constant expression for c.
func (v *VirtualCells) Constant(c constraint.Element) expr.Expression {
	return expr.NewConstant(c)
}

func (v *VirtualCells) fail(err error) {
	if v.err == nil {
		v.err = err
	}
}

// CreateGate registers a gate guarded by sel. build receives a fresh
// VirtualCells and returns the gate polynomials; each returned expression is
// sorted into canonical term order so that shapes built from identical
// inputs compare equal.
func (cs *ConstraintSystem) CreateGate(name string, sel Selector, build func(*VirtualCells) []expr.Expression) error {
	if sel.Index >= cs.nbSelectors {
		return fmt.Errorf("%w: gate %q", ErrUnknownSelector, name)
	}
	v := &VirtualCells{cs: cs, seen: make(map[Query]int)}
	polys := build(v)
	if v.err != nil {
		return fmt.Errorf("gate %q: %w", name, v.err)
	}
	if len(polys) == 0 {
		return fmt.Errorf("%w: gate %q", ErrEmptyGate, name)
	}
	for _, p := range polys {
		sort.Sort(p)
	}
	cs.gates = append(cs.gates, Gate{
		Name:     name,
		Selector: sel,
		Queries:  v.queries,
		Polys:    polys,
	})
	return nil
}
